package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainShop/internal/results"
)

func intp(v int) *int { return &v }
func floatp(v float64) *float64 { return &v }

func sample() []results.TestResult {
	return []results.TestResult{
		{
			TestName:   "matched",
			Parameters: results.Parameters{Jobs: 50, Machines: 10},
			Algorithms: results.Algorithms{
				Pseudo: &results.AlgorithmResult{Status: "optimal", Makespan: intp(40), SolutionTime: 0.0001},
				MILP:   &results.AlgorithmResult{Status: "optimal", Makespan: intp(40), SolutionTime: 0.5, Gap: floatp(0)},
			},
			Comparison: results.Comparison{SolutionsMatch: true, MakespanDifference: intp(0), Speedup: floatp(5000)},
		},
		{
			TestName:   "time_limited",
			Parameters: results.Parameters{Jobs: 100, Machines: 20},
			Algorithms: results.Algorithms{
				Pseudo: &results.AlgorithmResult{Status: "optimal", Makespan: intp(60), SolutionTime: 0.0002},
				MILP:   &results.AlgorithmResult{Status: "time_limit", Makespan: intp(63), SolutionTime: 30, Gap: floatp(0.05)},
			},
			Comparison: results.Comparison{MakespanDifference: intp(3), Speedup: floatp(150000)},
		},
		{
			TestName:   "pseudo_only",
			Parameters: results.Parameters{Jobs: 500, Machines: 5},
			Algorithms: results.Algorithms{
				Pseudo: &results.AlgorithmResult{Status: "optimal", Makespan: intp(1200), SolutionTime: 0.001},
			},
		},
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sample())
	require.Len(t, rows, 3)

	d, ok := rows[1].Delta()
	assert.True(t, ok)
	assert.Equal(t, 3, d)
	assert.Equal(t, "time_limit", rows[1].MILPStatus)
	assert.InDelta(t, 0.05, rows[1].MILPGap, 1e-12)

	_, ok = rows[2].Delta()
	assert.False(t, ok)
	assert.Equal(t, "skipped", rows[2].MILPStatus)
	assert.Equal(t, -1.0, rows[2].MILPTime)
	assert.Zero(t, rows[2].Speedup)
}

func TestConsoleTable(t *testing.T) {
	var buf bytes.Buffer
	n := ConsoleTable(&buf, Rows(sample()))
	assert.Equal(t, 3, n)

	out := buf.String()
	assert.Contains(t, out, "MS_PSEUDO")
	assert.Contains(t, out, "time_limited")
	assert.Contains(t, out, "+3")
	assert.Contains(t, out, "5.00%")
	assert.Contains(t, out, "3 results")

	buf.Reset()
	assert.Zero(t, ConsoleTable(&buf, nil))
	assert.Contains(t, buf.String(), "No results found")
}

func TestLatexTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, LatexTable(&buf, Rows(sample())))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "\\begin{table}[ht]"))
	assert.Contains(t, out, "50 & 10 & 40 & 40 & +0 & 0.500 & $\\approx$0\\% & optimal & 5000 & $\\checkmark$ \\\\")
	assert.Contains(t, out, "100 & 20 & 63 & 60 & +3 & 30.0 & 5.00\\% & time\\_limit & 150000 & $\\times$ \\\\")
	assert.Contains(t, out, "500 & 5 & --- & 1200 & --- & --- & --- & skipped & --- & $\\times$ \\\\")
	assert.Contains(t, out, "Gap in \\%;")
	assert.True(t, strings.HasSuffix(out, "\\end{table}\n"))
}

func TestSummarize(t *testing.T) {
	s := Summarize(Rows(sample()))
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.MILPSolved)
	assert.Equal(t, 3, s.PseudoSolved)
	assert.Equal(t, 1, s.Matched)
	assert.Equal(t, 1, s.EqualMakespan)
	assert.Equal(t, 1, s.PseudoBetter)
	assert.Zero(t, s.MILPBetter)
	assert.Equal(t, 2, s.SpeedupCount)
	assert.InDelta(t, 77500, s.SpeedupMean, 1e-9)
	assert.Equal(t, 5000.0, s.SpeedupMin)
	assert.Equal(t, 150000.0, s.SpeedupMax)
	assert.Equal(t, map[string]int{"optimal": 1, "time_limit": 1, "skipped": 1}, s.MILPStatus)
	assert.Equal(t, 50, s.MinN)
	assert.Equal(t, 500, s.MaxN)
	assert.Equal(t, 5, s.MinM)
	assert.Equal(t, 20, s.MaxM)

	var buf bytes.Buffer
	require.NoError(t, WriteStatistics(&buf, s))
	out := buf.String()
	assert.Contains(t, out, "Matching solutions: 1/3 (33.3%)")
	assert.Contains(t, out, "Pseudo-polynomial better: 1 (50.0%)")
	assert.Contains(t, out, "  skipped: 1 (33.3%)")
	assert.Contains(t, out, "n: 50 .. 500")
}

func TestWriteStatisticsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStatistics(&buf, Summarize(nil)))
	assert.Contains(t, buf.String(), "Total experiments: 0")
}
