// Package results сохраняет результаты сравнения: JSON-файлы, SQLite и Redis.
package results

import (
	"time"

	"github.com/google/uuid"

	"chainShop/internal/chain"
	"chainShop/internal/compare"
	"chainShop/internal/opt"
)

// TestResult — документ одного прогона экземпляра через оба маршрута.
// Отсутствующие значения сериализуются как null.
type TestResult struct {
	TestName        string     `json:"test_name"`
	RunID           string     `json:"run_id"`
	CreatedAt       time.Time  `json:"created_at"`
	Parameters      Parameters `json:"problem_parameters"`
	ProcessingTimes []int      `json:"processing_times"`
	Algorithms      Algorithms `json:"algorithms"`
	Comparison      Comparison `json:"comparison"`
}

type Parameters struct {
	Jobs             int  `json:"number_of_jobs"`
	Machines         int  `json:"number_of_machines"`
	ExpectedMakespan *int `json:"expected_makespan"`
}

type Algorithms struct {
	Pseudo *AlgorithmResult `json:"pseudo_polynomial"`
	MILP   *AlgorithmResult `json:"milp"`
}

type AlgorithmResult struct {
	Status       string  `json:"status"`
	Makespan     *int    `json:"makespan"`
	SolutionTime float64 `json:"solution_time"` // секунды

	FeasibilityChecks *int     `json:"feasibility_checks,omitempty"`
	Gap               *float64 `json:"gap,omitempty"`

	// Assignments: машина -> номера работ; пустые машины не попадают.
	Assignments  map[int][]int `json:"assignments"`
	MachineLoads []int         `json:"machine_loads"`

	Error string `json:"error,omitempty"`
}

type Comparison struct {
	SolutionsMatch     bool     `json:"solutions_match"`
	MakespanDifference *int     `json:"makespan_difference"`
	Speedup            *float64 `json:"speedup"`
}

// NewRunID возвращает уникальный идентификатор прогона.
func NewRunID() string { return uuid.NewString() }

// FromReport собирает документ из отчёта сравнения. expected может быть nil.
func FromReport(name string, inst *chain.Instance, expected *int, rep compare.Report) TestResult {
	r := TestResult{
		TestName:  name,
		RunID:     NewRunID(),
		CreatedAt: time.Now().UTC(),
		Parameters: Parameters{
			Jobs:             inst.Jobs(),
			Machines:         inst.Machines,
			ExpectedMakespan: expected,
		},
		ProcessingTimes: append([]int(nil), inst.Times...),
	}

	r.Algorithms.Pseudo = algorithmResult(rep.Primary, rep.PrimaryErr)
	if rep.Primary.Valid() {
		calls := rep.Primary.OracleCalls
		r.Algorithms.Pseudo.FeasibilityChecks = &calls
	}

	if rep.Oracle != nil {
		r.Algorithms.MILP = algorithmResult(*rep.Oracle, rep.OracleErr)
		if rep.Oracle.Valid() {
			gap := rep.Oracle.Gap
			r.Algorithms.MILP.Gap = &gap
		}
		r.Comparison.SolutionsMatch = rep.Verdict.MakespansMatch
		r.Comparison.MakespanDifference = rep.Verdict.Difference
		if rep.Verdict.SpeedRatio > 0 {
			s := rep.Verdict.SpeedRatio
			r.Comparison.Speedup = &s
		}
	}
	return r
}

func algorithmResult(o opt.Outcome, err error) *AlgorithmResult {
	r := &AlgorithmResult{
		Status:       string(o.Status),
		SolutionTime: o.Elapsed.Seconds(),
	}
	if err != nil {
		r.Error = err.Error()
	}
	if !o.Valid() {
		return r
	}
	ms := o.Makespan
	r.Makespan = &ms
	r.Assignments = make(map[int][]int, len(o.Partition))
	for b, block := range o.Partition {
		r.Assignments[o.Machine(b)] = append([]int(nil), block...)
	}
	r.MachineLoads = append([]int(nil), o.Loads...)
	return r
}

// PseudoMakespan и MILPMakespan возвращают makespan маршрута или false, если решения нет.
func (r TestResult) PseudoMakespan() (int, bool) { return makespanOf(r.Algorithms.Pseudo) }

func (r TestResult) MILPMakespan() (int, bool) { return makespanOf(r.Algorithms.MILP) }

func makespanOf(a *AlgorithmResult) (int, bool) {
	if a == nil || a.Makespan == nil {
		return 0, false
	}
	return *a.Makespan, true
}
