package report

import (
	"io"
	"math"
	"sort"
)

// Summary — агрегаты по набору результатов.
type Summary struct {
	Total         int
	MILPSolved    int
	PseudoSolved  int
	Matched       int
	MILPBetter    int
	PseudoBetter  int
	EqualMakespan int

	SpeedupCount int
	SpeedupMean  float64
	SpeedupStd   float64
	SpeedupMin   float64
	SpeedupMax   float64

	MILPStatus   map[string]int
	PseudoStatus map[string]int

	MinN, MaxN int
	MinM, MaxM int
}

func Summarize(rows []Row) Summary {
	s := Summary{
		Total:        len(rows),
		MILPStatus:   map[string]int{},
		PseudoStatus: map[string]int{},
	}
	var speedups []float64
	for i, r := range rows {
		if r.HasMILP {
			s.MILPSolved++
		}
		if r.HasPseudo {
			s.PseudoSolved++
		}
		if r.Match {
			s.Matched++
		}
		s.MILPStatus[r.MILPStatus]++
		s.PseudoStatus[r.Status]++

		if d, ok := r.Delta(); ok {
			switch {
			case d == 0:
				s.EqualMakespan++
			case d > 0:
				s.PseudoBetter++
			default:
				s.MILPBetter++
			}
		}
		if r.Speedup > 0 {
			speedups = append(speedups, r.Speedup)
		}

		if i == 0 {
			s.MinN, s.MaxN, s.MinM, s.MaxM = r.N, r.N, r.M, r.M
		}
		s.MinN, s.MaxN = min(s.MinN, r.N), max(s.MaxN, r.N)
		s.MinM, s.MaxM = min(s.MinM, r.M), max(s.MaxM, r.M)
	}

	s.SpeedupCount = len(speedups)
	if len(speedups) > 0 {
		s.SpeedupMin, s.SpeedupMax = speedups[0], speedups[0]
		sum := 0.0
		for _, v := range speedups {
			sum += v
			s.SpeedupMin = math.Min(s.SpeedupMin, v)
			s.SpeedupMax = math.Max(s.SpeedupMax, v)
		}
		s.SpeedupMean = sum / float64(len(speedups))
		if len(speedups) >= 2 {
			variance := 0.0
			for _, v := range speedups {
				d := v - s.SpeedupMean
				variance += d * d
			}
			s.SpeedupStd = math.Sqrt(variance / float64(len(speedups)-1))
		}
	}
	return s
}

// WriteStatistics печатает сводку в текстовом виде.
func WriteStatistics(w io.Writer, s Summary) error {
	ew := &errWriter{w: w}
	ew.printf("=== RESULTS SUMMARY STATISTICS ===\n")
	ew.printf("Total experiments: %d\n\n", s.Total)
	if s.Total == 0 {
		return ew.err
	}

	ew.printf("--- Success Rates ---\n")
	ew.printf("MILP successful: %d/%d (%.1f%%)\n", s.MILPSolved, s.Total, pct(s.MILPSolved, s.Total))
	ew.printf("Pseudo-polynomial successful: %d/%d (%.1f%%)\n", s.PseudoSolved, s.Total, pct(s.PseudoSolved, s.Total))
	ew.printf("Matching solutions: %d/%d (%.1f%%)\n\n", s.Matched, s.Total, pct(s.Matched, s.Total))

	ew.printf("--- Solution Quality (when both available) ---\n")
	if both := s.MILPBetter + s.PseudoBetter + s.EqualMakespan; both > 0 {
		ew.printf("MILP better: %d (%.1f%%)\n", s.MILPBetter, pct(s.MILPBetter, both))
		ew.printf("Pseudo-polynomial better: %d (%.1f%%)\n", s.PseudoBetter, pct(s.PseudoBetter, both))
		ew.printf("Equal makespan: %d (%.1f%%)\n", s.EqualMakespan, pct(s.EqualMakespan, both))
	} else {
		ew.printf("No experiments with both algorithms successful\n")
	}

	ew.printf("\n--- Speedup Statistics ---\n")
	if s.SpeedupCount > 0 {
		ew.printf("Average speedup: %s (std %s)\n", speedupCell(s.SpeedupMean), speedupCell(s.SpeedupStd))
		ew.printf("Min speedup: %s\n", speedupCell(s.SpeedupMin))
		ew.printf("Max speedup: %s\n", speedupCell(s.SpeedupMax))
		ew.printf("Experiments with speedup: %d/%d (%.1f%%)\n", s.SpeedupCount, s.Total, pct(s.SpeedupCount, s.Total))
	} else {
		ew.printf("No speedup data available\n")
	}

	ew.printf("\n--- MILP Status Distribution ---\n")
	writeCounts(ew, s.MILPStatus, s.Total)
	ew.printf("\n--- Pseudo-polynomial Status Distribution ---\n")
	writeCounts(ew, s.PseudoStatus, s.Total)

	ew.printf("\n--- Problem Size Range ---\n")
	ew.printf("n: %d .. %d\n", s.MinN, s.MaxN)
	ew.printf("m: %d .. %d\n", s.MinM, s.MaxM)
	return ew.err
}

func writeCounts(ew *errWriter, counts map[string]int, total int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ew.printf("  %s: %d (%.1f%%)\n", k, counts[k], pct(counts[k], total))
	}
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}
