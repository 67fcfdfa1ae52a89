package ts

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainShop/internal/cases"
	"chainShop/internal/chain"
	"chainShop/internal/opt"
)

func relaxedConfig() Config {
	cfg := DefaultConfig()
	cfg.Policy = chain.RelaxedPolicy()
	return cfg
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Neighborhood = "insert"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.TabuTenure = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.NeighborsPerIter = 0
	assert.Error(t, cfg.Validate())

	_, err := New(DefaultConfig(), nil, nil)
	assert.Error(t, err)
}

func TestEvenCuts(t *testing.T) {
	assert.Equal(t, []int{2, 3}, evenCuts([]int{2, 3, 5, 7}, 3))
	assert.Equal(t, []int{1, 2, 3}, evenCuts([]int{9, 1, 1, 1}, 4))
	assert.Empty(t, evenCuts([]int{1, 2, 3}, 1))
	assert.Equal(t, []int{2, 4}, evenCuts([]int{1, 1, 1, 1, 1, 1}, 3))
}

func TestMovesKeepCutsStrictlyIncreasing(t *testing.T) {
	for _, nb := range []Neighborhood{NeighborhoodStep, NeighborhoodShift} {
		cfg := relaxedConfig()
		cfg.Neighborhood = nb
		s, err := New(cfg, rand.New(rand.NewSource(5)), nil)
		require.NoError(t, err)

		for trial := 0; trial < 500; trial++ {
			n := 3 + s.Rng.Intn(30)
			m := 2 + s.Rng.Intn(n-2)
			times := make([]int, n)
			for i := range times {
				times[i] = 1 + s.Rng.Intn(20)
			}
			cuts := evenCuts(times, m)
			require.Len(t, cuts, m-1)

			mv, found := s.randomMove(cuts, n)
			if !found {
				continue
			}
			assert.NotEqual(t, mv.from, mv.to)
			cuts[mv.k] = mv.to
			for i, c := range cuts {
				require.True(t, c >= 1 && c <= n-1, "cut %d out of range: %v", c, cuts)
				if i > 0 {
					require.Less(t, cuts[i-1], c, "cuts not increasing: %v", cuts)
				}
			}
		}
	}
}

func TestTabuList(t *testing.T) {
	tl := newTabuList(8)
	k := moveKey(0, 3, 4)
	assert.NotZero(t, k)
	assert.NotEqual(t, k, moveKey(0, 4, 3))

	tl.Add(k, 5)
	assert.True(t, tl.IsTabu(k, 4))
	assert.False(t, tl.IsTabu(k, 5))

	// вытеснение из кольца снимает запрет
	for i := 0; i < 8; i++ {
		tl.Add(moveKey(1, i, i+1), 100)
	}
	assert.False(t, tl.IsTabu(k, 0))
}

func TestSolveNeverBeatsOptimum(t *testing.T) {
	for _, nb := range []Neighborhood{NeighborhoodStep, NeighborhoodShift} {
		cfg := relaxedConfig()
		cfg.Neighborhood = nb
		s, err := New(cfg, rand.New(rand.NewSource(1)), nil)
		require.NoError(t, err)

		for _, c := range cases.Validation() {
			inst := &chain.Instance{Times: c.Times, Machines: c.Machines}
			out, err := s.Solve(context.Background(), inst)
			require.NoError(t, err, c.Name)
			assert.Equal(t, opt.StatusFeasible, out.Status, c.Name)
			assert.GreaterOrEqual(t, out.Makespan, c.Expected, c.Name)
			require.NoError(t, chain.ValidatePartition(out.Partition, len(c.Times), c.Machines), c.Name)
			assert.Len(t, out.Partition, c.Machines, c.Name)
			assert.Equal(t, out.Makespan, chain.MaxLoad(out.Loads), c.Name)
		}
	}
}

func TestSolveDeterministicForSeed(t *testing.T) {
	inst, err := chain.RandomInstance(80, 6, 1, 24, rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	run := func() opt.Outcome {
		s, err := New(DefaultConfig(), rand.New(rand.NewSource(17)), nil)
		require.NoError(t, err)
		out, err := s.Solve(context.Background(), inst)
		require.NoError(t, err)
		return out
	}
	a, b := run(), run()
	assert.Equal(t, a.Makespan, b.Makespan)
	assert.Equal(t, a.Partition, b.Partition)
	assert.GreaterOrEqual(t, a.Makespan, inst.LowerBound())
}

func TestSolveCancelled(t *testing.T) {
	s, err := New(relaxedConfig(), rand.New(rand.NewSource(1)), nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := s.Solve(ctx, &chain.Instance{Times: []int{4, 4, 4, 4, 4, 4}, Machines: 3})
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, out.Valid())
	assert.Equal(t, "context", out.Meta["stopped"])
}

func TestSolveInvalidInput(t *testing.T) {
	s, err := New(DefaultConfig(), rand.New(rand.NewSource(1)), nil)
	require.NoError(t, err)
	out, err := s.Solve(context.Background(), &chain.Instance{Times: []int{1, 2, 3}, Machines: 2})
	assert.ErrorIs(t, err, chain.ErrSizeOutOfRange)
	assert.Equal(t, opt.StatusInvalidInput, out.Status)
}
