package compare

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainShop/internal/chain"
	"chainShop/internal/mip"
	"chainShop/internal/opt"
	"chainShop/internal/pseudo"
)

func outcome(status opt.Status, makespan int, elapsed time.Duration) opt.Outcome {
	o := opt.Outcome{Status: status, Makespan: makespan, Elapsed: elapsed}
	if status.HasSolution() {
		o.Partition = chain.Partition{{0}, {1}}
	}
	return o
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name      string
		primary   opt.Outcome
		oracle    opt.Outcome
		match     bool
		diff      *int
		speedRate float64
	}{
		{
			name:      "equal optimal",
			primary:   outcome(opt.StatusOptimal, 21, time.Millisecond),
			oracle:    outcome(opt.StatusOptimal, 21, 10*time.Millisecond),
			match:     true,
			diff:      ptr(0),
			speedRate: 10,
		},
		{
			name:      "time limited oracle still compared",
			primary:   outcome(opt.StatusOptimal, 21, time.Millisecond),
			oracle:    outcome(opt.StatusTimeLimit, 22, 2*time.Millisecond),
			diff:      ptr(1),
			speedRate: 2,
		},
		{
			name:      "oracle error never matches",
			primary:   outcome(opt.StatusOptimal, 0, time.Millisecond),
			oracle:    outcome(opt.StatusError, 0, time.Millisecond),
			speedRate: 1,
		},
		{
			name:    "invalid input never matches",
			primary: outcome(opt.StatusInvalidInput, 0, 0),
			oracle:  outcome(opt.StatusInvalidInput, 0, 0),
		},
		{
			name:    "zero elapsed gives no ratio",
			primary: outcome(opt.StatusOptimal, 7, 0),
			oracle:  outcome(opt.StatusOptimal, 7, time.Second),
			match:   true,
			diff:    ptr(0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Compare(tt.primary, tt.oracle, DefaultTolerance)
			assert.Equal(t, tt.match, v.MakespansMatch)
			assert.Equal(t, tt.diff, v.Difference)
			assert.InDelta(t, tt.speedRate, v.SpeedRatio, 1e-9)
		})
	}
}

func ptr(v int) *int { return &v }

type failingSolver struct{}

func (failingSolver) Solve(context.Context, *chain.Instance) (opt.Outcome, error) {
	return opt.Outcome{Algorithm: "broken", Status: opt.StatusError}, errors.New("solver crashed")
}

func relaxedHarness(t *testing.T) *Harness {
	t.Helper()
	ps, err := pseudo.New(pseudo.Config{Policy: chain.RelaxedPolicy()}, nil)
	require.NoError(t, err)
	ms, err := mip.New(mip.DefaultConfig(), chain.RelaxedPolicy(), nil)
	require.NoError(t, err)
	return &Harness{Primary: ps, Oracle: ms}
}

func TestHarnessAgreement(t *testing.T) {
	h := relaxedHarness(t)
	rep := h.Run(context.Background(), &chain.Instance{Times: []int{10, 1, 10, 1, 10, 1, 10, 1}, Machines: 3})
	require.NoError(t, rep.Err())
	require.NotNil(t, rep.Oracle)
	assert.True(t, rep.Matched())
	assert.Equal(t, 21, rep.Primary.Makespan)
	assert.Equal(t, 21, rep.Oracle.Makespan)
}

func TestHarnessOracleFailureDoesNotBlockPrimary(t *testing.T) {
	h := relaxedHarness(t)
	h.Oracle = failingSolver{}

	rep := h.Run(context.Background(), &chain.Instance{Times: []int{2, 3, 5, 7}, Machines: 3})
	assert.Error(t, rep.Err())
	assert.NoError(t, rep.PrimaryErr)
	assert.Equal(t, opt.StatusOptimal, rep.Primary.Status)
	assert.Equal(t, 7, rep.Primary.Makespan)
	assert.False(t, rep.Matched())
	assert.Nil(t, rep.Verdict.Difference)
}

func TestHarnessWithoutOracle(t *testing.T) {
	h := relaxedHarness(t)
	h.Oracle = nil

	rep := h.Run(context.Background(), &chain.Instance{Times: []int{2, 3, 5, 7}, Machines: 3})
	assert.Nil(t, rep.Oracle)
	assert.False(t, rep.Matched())
	assert.Equal(t, 7, rep.Primary.Makespan)
}

func TestHarnessInvalidInputRunsBothRoutes(t *testing.T) {
	h := relaxedHarness(t)
	rep := h.Run(context.Background(), &chain.Instance{Times: []int{1, 2}, Machines: 2})
	assert.ErrorIs(t, rep.PrimaryErr, chain.ErrDegenerateInstance)
	assert.ErrorIs(t, rep.OracleErr, chain.ErrDegenerateInstance)
	assert.False(t, rep.Verdict.MakespansMatch)
}
