package results

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainShop/internal/chain"
	"chainShop/internal/compare"
	"chainShop/internal/mip"
	"chainShop/internal/opt"
	"chainShop/internal/pseudo"
)

func runHarness(t *testing.T, times []int, m int, withOracle bool) (*chain.Instance, compare.Report) {
	t.Helper()
	ps, err := pseudo.New(pseudo.Config{Policy: chain.RelaxedPolicy()}, nil)
	require.NoError(t, err)
	h := &compare.Harness{Primary: ps}
	if withOracle {
		ms, err := mip.New(mip.DefaultConfig(), chain.RelaxedPolicy(), nil)
		require.NoError(t, err)
		h.Oracle = ms
	}
	inst := &chain.Instance{Times: times, Machines: m}
	return inst, h.Run(context.Background(), inst)
}

func TestFromReport(t *testing.T) {
	inst, rep := runHarness(t, []int{10, 1, 10, 1, 10, 1, 10, 1}, 3, true)
	expected := 21
	r := FromReport("Alternating", inst, &expected, rep)

	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, 8, r.Parameters.Jobs)
	assert.Equal(t, 3, r.Parameters.Machines)
	assert.Equal(t, &expected, r.Parameters.ExpectedMakespan)

	require.NotNil(t, r.Algorithms.Pseudo)
	ms, ok := r.PseudoMakespan()
	assert.True(t, ok)
	assert.Equal(t, 21, ms)
	assert.Equal(t, string(opt.StatusOptimal), r.Algorithms.Pseudo.Status)
	require.NotNil(t, r.Algorithms.Pseudo.FeasibilityChecks)
	assert.Equal(t, []int{0, 1, 2}, r.Algorithms.Pseudo.Assignments[0])

	require.NotNil(t, r.Algorithms.MILP)
	ms, ok = r.MILPMakespan()
	assert.True(t, ok)
	assert.Equal(t, 21, ms)
	require.NotNil(t, r.Algorithms.MILP.Gap)
	assert.Zero(t, *r.Algorithms.MILP.Gap)
	// фиксация: последний блок на последней машине
	assert.Contains(t, r.Algorithms.MILP.Assignments, 2)

	assert.True(t, r.Comparison.SolutionsMatch)
	require.NotNil(t, r.Comparison.MakespanDifference)
	assert.Zero(t, *r.Comparison.MakespanDifference)
}

func TestFromReportMissingValuesAreNull(t *testing.T) {
	inst, rep := runHarness(t, []int{1, 2}, 2, true)
	r := FromReport("Degenerate", inst, nil, rep)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	params := doc["problem_parameters"].(map[string]any)
	assert.Nil(t, params["expected_makespan"])
	algos := doc["algorithms"].(map[string]any)
	pseudoDoc := algos["pseudo_polynomial"].(map[string]any)
	assert.Nil(t, pseudoDoc["makespan"])
	assert.Equal(t, "invalid_input", pseudoDoc["status"])
	assert.NotEmpty(t, pseudoDoc["error"])
	cmpDoc := doc["comparison"].(map[string]any)
	assert.Equal(t, false, cmpDoc["solutions_match"])
	assert.Nil(t, cmpDoc["makespan_difference"])
	assert.Nil(t, cmpDoc["speedup"])
}

func TestFromReportWithoutOracle(t *testing.T) {
	inst, rep := runHarness(t, []int{2, 3, 5, 7}, 3, false)
	r := FromReport("Assignment Example", inst, nil, rep)
	assert.Nil(t, r.Algorithms.MILP)
	_, ok := r.MILPMakespan()
	assert.False(t, ok)
	assert.False(t, r.Comparison.SolutionsMatch)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "result_Assignment_Example.json", FileName("Assignment Example"))
	assert.Equal(t, "result_n_close_to_m.json", FileName("n close to m"))
	assert.Equal(t, "result_50x10_run3.json", FileName("50x10/run3"))
	assert.Equal(t, "result_unnamed.json", FileName("  "))
}

func TestWriteAndReadDir(t *testing.T) {
	dir := t.TempDir()

	inst, rep := runHarness(t, []int{10, 1, 10, 1, 10, 1, 10, 1}, 3, true)
	big := FromReport("Big", inst, nil, rep)
	inst, rep = runHarness(t, []int{2, 3, 5, 7}, 3, true)
	small := FromReport("Small", inst, nil, rep)

	for _, r := range []TestResult{big, small} {
		path, err := WriteJSON(dir, r)
		require.NoError(t, err)
		assert.FileExists(t, path)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	got, err := ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Small", got[0].TestName)
	assert.Equal(t, "Big", got[1].TestName)
	assert.Equal(t, big.RunID, got[1].RunID)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))
	got, err = ReadDir(dir)
	assert.Error(t, err)
	assert.Len(t, got, 2)

	_, err = ReadDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer store.Close()

	inst, rep := runHarness(t, []int{2, 3, 5, 7}, 3, true)
	first := FromReport("First", inst, nil, rep)
	inst, rep = runHarness(t, []int{1, 2}, 2, true)
	second := FromReport("Second", inst, nil, rep)
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))
	// повторное сохранение того же прогона заменяет запись
	require.NoError(t, store.Save(ctx, first))

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].TestName)
	assert.Equal(t, "Second", got[1].TestName)
	assert.Equal(t, first.ProcessingTimes, got[0].ProcessingTimes)

	matched, total, err := store.MatchRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, matched)
	assert.Equal(t, 2, total)
}

func TestRedisSink(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	_, err := NewRedisSink(&redis.Options{Addr: mr.Addr()}, "")
	assert.Error(t, err)

	sink, err := NewRedisSink(&redis.Options{Addr: mr.Addr()}, "chainshop")
	require.NoError(t, err)
	defer sink.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sink.Ping(ctx))

	events, err := sink.Subscribe(ctx)
	require.NoError(t, err)

	inst, rep := runHarness(t, []int{2, 3, 5, 7}, 3, true)
	r := FromReport("Assignment Example", inst, nil, rep)
	require.NoError(t, sink.Save(ctx, r))

	assert.True(t, mr.Exists("chainshop:result:"+r.RunID))
	ids, err := mr.List("chainshop:results")
	require.NoError(t, err)
	assert.Equal(t, []string{r.RunID}, ids)

	select {
	case ev := <-events:
		assert.Equal(t, r.RunID, ev.RunID)
	case <-ctx.Done():
		t.Fatal("no result event received")
	}

	got, err := sink.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r.TestName, got[0].TestName)
}

type errSink struct{}

func (errSink) Save(context.Context, TestResult) error { return errors.New("sink down") }

func TestMultiSink(t *testing.T) {
	dir := t.TempDir()
	inst, rep := runHarness(t, []int{2, 3, 5, 7}, 3, false)
	r := FromReport("Fanout", inst, nil, rep)

	err := MultiSink{errSink{}, DirSink(dir)}.Save(context.Background(), r)
	assert.EqualError(t, err, "sink down")
	assert.FileExists(t, filepath.Join(dir, FileName("Fanout")))
}
