package mip

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainShop/internal/cases"
	"chainShop/internal/chain"
	"chainShop/internal/opt"
)

func newRelaxed(t *testing.T, cfg Config) *Solver {
	t.Helper()
	s, err := New(cfg, chain.RelaxedPolicy(), nil)
	require.NoError(t, err)
	return s
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.TimeLimit = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MIPGap = 1.5
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.NodeLimit = -1
	assert.Error(t, cfg.Validate())

	_, err := New(cfg, chain.RelaxedPolicy(), nil)
	assert.Error(t, err)
}

func TestSolveValidationCases(t *testing.T) {
	for _, anchoring := range []bool{true, false} {
		cfg := DefaultConfig()
		cfg.TimeLimit = 30 * time.Second
		cfg.Anchoring = anchoring
		s := newRelaxed(t, cfg)

		for _, c := range cases.Validation() {
			inst := &chain.Instance{Times: c.Times, Machines: c.Machines}
			out, err := s.Solve(context.Background(), inst)
			require.NoError(t, err, c.Name)
			assert.Equal(t, opt.StatusOptimal, out.Status, c.Name)
			assert.Equal(t, c.Expected, out.Makespan, c.Name)
			assert.Zero(t, out.Gap, c.Name)
			require.NoError(t, chain.ValidatePartition(out.Partition, len(c.Times), c.Machines), c.Name)

			e, err := chain.NewEvaluator(inst)
			require.NoError(t, err)
			assert.Equal(t, out.Makespan, e.MustMakespan(out.Partition), c.Name)
			assert.Equal(t, out.Makespan, chain.MaxLoad(out.Loads), c.Name)

			if anchoring {
				require.Len(t, out.BlockMachines, len(out.Partition), c.Name)
				assert.Equal(t, 0, out.Machine(0), c.Name)
				assert.Equal(t, c.Machines-1, out.Machine(len(out.Partition)-1), c.Name)
			} else {
				assert.Nil(t, out.BlockMachines, c.Name)
			}
		}
	}
}

// bruteForce перебирает все разрезы на не более чем m блоков.
func bruteForce(times []int, m int) int {
	n := len(times)
	best := 0
	for _, t := range times {
		best += t
	}
	var rec func(i, k, curMax int)
	rec = func(i, k, curMax int) {
		if k == m-1 {
			load := 0
			for _, t := range times[i:] {
				load += t
			}
			best = min(best, max(curMax, load))
			return
		}
		load := 0
		for j := i; j < n; j++ {
			load += times[j]
			if j == n-1 {
				best = min(best, max(curMax, load))
				return
			}
			rec(j+1, k+1, max(curMax, load))
		}
	}
	rec(0, 0, 0)
	return best
}

func TestSolveMatchesBruteForce(t *testing.T) {
	s := newRelaxed(t, DefaultConfig())
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		m := 1 + rng.Intn(5)
		inst, err := chain.RandomInstance(m+1+rng.Intn(10), m, 1, 24, rng)
		require.NoError(t, err)

		out, err := s.Solve(context.Background(), inst)
		require.NoError(t, err)
		require.Equal(t, opt.StatusOptimal, out.Status)
		assert.Equal(t, bruteForce(inst.Times, inst.Machines), out.Makespan, "times=%v m=%d", inst.Times, inst.Machines)
	}
}

func TestSolveNodeLimitReturnsIncumbent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NodeLimit = 1
	s := newRelaxed(t, cfg)

	// стартовое решение 22, корневая оценка 15, оптимум 21
	out, err := s.Solve(context.Background(), &chain.Instance{Times: []int{10, 1, 10, 1, 10, 1, 10, 1}, Machines: 3})
	require.NoError(t, err)
	assert.Equal(t, opt.StatusFeasible, out.Status)
	assert.Equal(t, 22, out.Makespan)
	assert.InDelta(t, 7.0/22.0, out.Gap, 1e-9)
	assert.Equal(t, 15, out.Meta["root_bound"])
}

func TestSolveGapTolerance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MIPGap = 0.5
	s := newRelaxed(t, cfg)

	out, err := s.Solve(context.Background(), &chain.Instance{Times: []int{10, 1, 10, 1, 10, 1, 10, 1}, Machines: 3})
	require.NoError(t, err)
	assert.Equal(t, opt.StatusFeasible, out.Status)
	assert.LessOrEqual(t, out.Gap, 0.5)
	assert.Zero(t, out.Nodes)
}

func TestSolveTimeLimit(t *testing.T) {
	s := newRelaxed(t, DefaultConfig())
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	out, err := s.Solve(ctx, &chain.Instance{Times: []int{10, 1, 10, 1, 10, 1, 10, 1}, Machines: 3})
	require.NoError(t, err)
	assert.Equal(t, opt.StatusTimeLimit, out.Status)
	assert.True(t, out.Status.HasSolution())
	assert.Equal(t, 22, out.Makespan)
	assert.Greater(t, out.Gap, 0.0)
}

func TestSolveCancelledIsError(t *testing.T) {
	s := newRelaxed(t, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := s.Solve(ctx, &chain.Instance{Times: []int{10, 1, 10, 1, 10, 1, 10, 1}, Machines: 3})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, opt.StatusError, out.Status)
}

func TestSolveInvalidInput(t *testing.T) {
	s, err := New(DefaultConfig(), chain.DefaultPolicy(), nil)
	require.NoError(t, err)

	out, err := s.Solve(context.Background(), &chain.Instance{Times: []int{2, 3, 5, 7}, Machines: 3})
	assert.ErrorIs(t, err, chain.ErrSizeOutOfRange)
	assert.Equal(t, opt.StatusInvalidInput, out.Status)
	assert.Empty(t, out.Partition)
}

func TestSolveProductionInstance(t *testing.T) {
	s, err := New(DefaultConfig(), chain.DefaultPolicy(), nil)
	require.NoError(t, err)

	inst, err := chain.RandomInstance(60, 4, 1, 24, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	out, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)
	assert.Equal(t, opt.StatusOptimal, out.Status)
	assert.Equal(t, bruteForce(inst.Times, inst.Machines), out.Makespan)
}

func TestAnchoredMachines(t *testing.T) {
	assert.Equal(t, []int{0, 1, 4}, anchoredMachines(3, 5))
	assert.Equal(t, []int{0}, anchoredMachines(1, 1))
	assert.Equal(t, []int{0, 1, 2}, anchoredMachines(3, 3))
}
