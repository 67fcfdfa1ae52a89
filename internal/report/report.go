// Package report строит сводные таблицы по сохранённым результатам сравнения.
package report

import (
	"chainShop/internal/results"
)

// Row — плоская строка таблицы. Поля с флагом Has* отсутствуют, если маршрут не дал решения.
type Row struct {
	Name string
	N, M int

	MILPMakespan   int
	HasMILP        bool
	PseudoMakespan int
	HasPseudo      bool

	MILPTime   float64 // секунды; < 0 — нет данных
	MILPGap    float64 // доля; < 0 — нет данных
	MILPStatus string
	Status     string // статус комбинаторного маршрута

	Speedup float64 // 0 — нет данных
	Match   bool
}

// Delta = ms_milp - ms_pseudo; false, если одного из значений нет.
func (r Row) Delta() (int, bool) {
	if !r.HasMILP || !r.HasPseudo {
		return 0, false
	}
	return r.MILPMakespan - r.PseudoMakespan, true
}

func Rows(rs []results.TestResult) []Row {
	out := make([]Row, 0, len(rs))
	for _, r := range rs {
		row := Row{
			Name:     r.TestName,
			N:        r.Parameters.Jobs,
			M:        r.Parameters.Machines,
			MILPTime: -1,
			MILPGap:  -1,
			Match:    r.Comparison.SolutionsMatch,
		}
		row.PseudoMakespan, row.HasPseudo = r.PseudoMakespan()
		row.MILPMakespan, row.HasMILP = r.MILPMakespan()

		row.Status = statusOf(r.Algorithms.Pseudo, row.HasPseudo, "optimal")
		row.MILPStatus = statusOf(r.Algorithms.MILP, row.HasMILP, "feasible")
		if a := r.Algorithms.MILP; a != nil {
			if row.HasMILP {
				row.MILPTime = a.SolutionTime
			}
			if a.Gap != nil {
				row.MILPGap = *a.Gap
			}
		}
		if r.Comparison.Speedup != nil {
			row.Speedup = *r.Comparison.Speedup
		}
		out = append(out, row)
	}
	return out
}

func statusOf(a *results.AlgorithmResult, solved bool, fallback string) string {
	switch {
	case a != nil && a.Status != "":
		return a.Status
	case solved:
		return fallback
	case a == nil:
		return "skipped"
	default:
		return "failed"
	}
}
