package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"chainShop/internal/bench"
	"chainShop/internal/printer"
	"chainShop/internal/sa"
	"chainShop/internal/ts"
)

var (
	benchPairs         string
	benchRuns          int
	benchSeed          int64
	benchInstanceSeed  int64
	benchWorkers       int
	benchPerRunTimeout time.Duration
	benchOut           string
	benchOracle        bool
	benchHeuristic     bool
	benchHeuristicAlgo string
	benchSave          bool

	// --- Имитация отжига ---
	saIterPerJob int
	saIter       int
	saT0         float64
	saTmin       float64
	saAlpha      float64
	saNeigh      string

	// --- Табу-поиск ---
	tsIterPerJob int
	tsIter       int
	tsTenure     int
	tsTenureRand int
	tsNeighbors  int
	tsNeigh      string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the exact search against the oracle on random instances",
	Long: `Generate seeded random instances for every NxM pair, solve each run with the
exact search, the integer-program oracle and (optionally) a heuristic baseline
(simulated annealing or tabu search over block boundaries), and write per-pair
statistics to CSV. Pairs run in parallel (--workers).

Examples:
  chainshop bench --pairs 50x10,100x20,200x40 --runs 10 --out results/bench.csv
  chainshop bench --pairs 500x50 --oracle=false --heuristic-algo ts`,
	RunE: runBench,
}

func init() {
	f := benchCmd.Flags()
	f.StringVar(&benchPairs, "pairs", "", "pairs NxM separated by commas (config: bench.pairs)")
	f.IntVar(&benchRuns, "runs", 0, "runs per pair, each on its own instance (config: bench.runs)")
	f.Int64Var(&benchSeed, "seed", 0, "base seed of the heuristic (config: bench.seed)")
	f.Int64Var(&benchInstanceSeed, "instance-seed", 0, "base seed of instance generation (config: bench.instance_seed)")
	f.IntVar(&benchWorkers, "workers", 0, "pairs solved in parallel (config: bench.workers)")
	f.DurationVar(&benchPerRunTimeout, "per-run-timeout", 0, "timeout of one run; 0 means none (config: bench.per_run_timeout)")
	f.StringVar(&benchOut, "out", "", "CSV output path (config: bench.out)")
	f.BoolVar(&benchOracle, "oracle", true, "cross-check every run with the integer-program oracle")
	f.BoolVar(&benchHeuristic, "heuristic", true, "also run a heuristic baseline (config: bench.heuristic)")
	f.StringVar(&benchHeuristicAlgo, "heuristic-algo", "", "heuristic baseline: sa | ts (config: bench.heuristic_algo)")
	f.BoolVar(&benchSave, "save", false, "store every run through the configured result sinks")

	def := sa.DefaultConfig()
	f.IntVar(&saIterPerJob, "sa-iter-per-job", def.IterationsPerJob, "SA iterations per job (used when --sa-iter is 0)")
	f.IntVar(&saIter, "sa-iter", def.Iterations, "SA total iterations (0 => sa-iter-per-job x jobs)")
	f.Float64Var(&saT0, "sa-t0", def.InitialTemp, "SA initial temperature")
	f.Float64Var(&saTmin, "sa-tmin", def.FinalTemp, "SA final temperature")
	f.Float64Var(&saAlpha, "sa-alpha", def.Alpha, "SA cooling factor")
	f.StringVar(&saNeigh, "sa-neigh", string(def.Neighborhood), "SA neighborhood: shift | jump")

	tdef := ts.DefaultConfig()
	f.IntVar(&tsIterPerJob, "ts-iter-per-job", tdef.IterationsPerJob, "TS iterations per job (used when --ts-iter is 0)")
	f.IntVar(&tsIter, "ts-iter", tdef.Iterations, "TS total iterations (0 => ts-iter-per-job x jobs)")
	f.IntVar(&tsTenure, "ts-tenure", tdef.TabuTenure, "TS tabu tenure")
	f.IntVar(&tsTenureRand, "ts-tenure-rand", tdef.TabuTenureRand, "TS random tenure addition in [0..r]")
	f.IntVar(&tsNeighbors, "ts-neighbors", tdef.NeighborsPerIter, "TS sampled neighbors per iteration")
	f.StringVar(&tsNeigh, "ts-neigh", string(tdef.Neighborhood), "TS neighborhood: step | shift")
}

func runBench(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	bc := cfg.Bench

	flags := cmd.Flags()
	if flags.Changed("pairs") {
		bc.Pairs = benchPairs
	}
	if flags.Changed("runs") {
		bc.Runs = benchRuns
	}
	if flags.Changed("seed") {
		bc.Seed = benchSeed
	}
	if flags.Changed("instance-seed") {
		bc.InstanceSeed = benchInstanceSeed
	}
	if flags.Changed("workers") {
		bc.Workers = benchWorkers
	}
	if flags.Changed("per-run-timeout") {
		bc.PerRunTimeout = benchPerRunTimeout
	}
	if flags.Changed("out") {
		bc.Out = benchOut
	}
	if flags.Changed("heuristic") {
		bc.Heuristic = benchHeuristic
	}
	if flags.Changed("heuristic-algo") {
		bc.HeuristicAlgo = benchHeuristicAlgo
	}

	cases, err := bench.ParsePairs(bc.Pairs, bc.InstanceSeed)
	if err != nil {
		return printer.Error("Invalid --pairs", err.Error(), []string{"Use the NxM form with n > m, e.g. 50x10,100x20"})
	}
	if bc.Runs < 1 || bc.Workers < 1 {
		return printer.Error("Invalid benchmark settings", fmt.Sprintf("runs=%d workers=%d, both must be >= 1", bc.Runs, bc.Workers), nil)
	}

	policy := cfg.ValidationPolicy()
	h, err := newHarness(policy, cfg.MIP(), benchOracle)
	if err != nil {
		return printer.Error("Invalid configuration", err.Error(), nil)
	}

	runner := bench.Runner{
		Runs:          bc.Runs,
		BaseSeed:      bc.Seed,
		PerRunTimeout: bc.PerRunTimeout,
		MinTime:       policy.MinTime,
		MaxTime:       policy.MaxTime,
		Primary:       h.Primary,
		Oracle:        h.Oracle,
		Tolerance:     h.Tolerance,
		Log:           logger,
	}
	if bc.Heuristic {
		saCfg := sa.Config{
			Iterations:       saIter,
			IterationsPerJob: saIterPerJob,
			InitialTemp:      saT0,
			FinalTemp:        saTmin,
			Alpha:            saAlpha,
			Neighborhood:     sa.Neighborhood(saNeigh),
			Policy:           policy,
		}
		tsCfg := ts.Config{
			Iterations:       tsIter,
			IterationsPerJob: tsIterPerJob,
			TabuTenure:       tsTenure,
			TabuTenureRand:   tsTenureRand,
			NeighborsPerIter: tsNeighbors,
			Neighborhood:     ts.Neighborhood(tsNeigh),
			Policy:           policy,
		}
		factory, err := newHeuristicFactory(bc.HeuristicAlgo, saCfg, tsCfg)
		if err != nil {
			return printer.Error("Invalid heuristic settings", err.Error(), nil)
		}
		runner.Heuristic = factory
	}
	if benchSave {
		sink, closeSinks, err := openSinks(ctx, cfg.Results.Dir)
		if err != nil {
			return printer.Error("Cannot store results", err.Error(), nil)
		}
		defer closeSinks()
		runner.Sink = sink
	}

	printer.Step("%d pairs x %d runs, %d workers\n", len(cases), bc.Runs, bc.Workers)
	if bc.Heuristic {
		printer.Info("heuristic baseline: %s\n", bc.HeuristicAlgo)
	}
	records, err := runner.RunAll(ctx, cases, bc.Workers)
	if err != nil {
		return printer.Error("Benchmark failed", err.Error(), nil)
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%4dx%-3d makespan: best=%d mean=%.2f std=%.2f | pseudo: mean=%.3fms",
			rec.Jobs, rec.Machines, rec.MakespanBest, rec.MakespanMean, rec.MakespanStd, rec.PseudoTimeMeanMs)
		if rec.OracleRuns > 0 {
			fmt.Fprintf(out, " | milp: mean=%.1fms optimal=%d/%d matched=%d/%d speedup=%.1fx",
				rec.OracleTimeMeanMs, rec.OracleOptimal, rec.OracleRuns, rec.Matched, rec.OracleRuns, rec.SpeedupMean)
		}
		if rec.HeuristicRuns > 0 {
			fmt.Fprintf(out, " | %s gap: %.2f%%", bc.HeuristicAlgo, rec.HeuristicGapMean*100)
		}
		fmt.Fprintln(out)
	}

	if err := bench.WriteCSV(bc.Out, records); err != nil {
		return printer.Error("Cannot write CSV", err.Error(), nil)
	}
	printer.Success("saved %s\n", bc.Out)

	if mismatched := countMismatches(records); mismatched > 0 {
		printer.Warning("%d oracle runs disagree with the exact search\n", mismatched)
	}
	return nil
}

func countMismatches(records []bench.Record) int {
	n := 0
	for _, r := range records {
		n += r.OracleRuns - r.Matched
	}
	return n
}
