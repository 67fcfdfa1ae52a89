// Package bench прогоняет серии случайных экземпляров через стенд сравнения
// и агрегирует время и качество по каждой паре (n, m).
package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"chainShop/internal/chain"
	"chainShop/internal/compare"
	"chainShop/internal/logging"
	"chainShop/internal/opt"
	"chainShop/internal/results"
)

type Case struct {
	Jobs         int
	Machines     int
	InstanceSeed int64
}

func (c Case) String() string { return fmt.Sprintf("%dx%d", c.Jobs, c.Machines) }

type Record struct {
	Jobs     int
	Machines int
	Runs     int

	MakespanBest int
	MakespanMean float64
	MakespanStd  float64

	OracleCallsMean float64

	PseudoTimeBestMs float64
	PseudoTimeMeanMs float64
	PseudoTimeStdMs  float64

	// Оракул; OracleRuns = 0, если он не запускался
	OracleRuns       int
	OracleOptimal    int
	Matched          int
	OracleTimeMeanMs float64
	OracleTimeStdMs  float64
	SpeedupMean      float64

	// Эвристика; HeuristicRuns = 0, если она не запускалась
	HeuristicRuns    int
	HeuristicGapMean float64 // (sa - opt) / opt
	HeuristicGapStd  float64
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout

	// MinTime/MaxTime — диапазон генерируемых времён работ
	MinTime, MaxTime int

	Primary   opt.Solver
	Oracle    opt.Solver // nil — без сверки
	Tolerance float64

	// Heuristic nil — без эвристики; сид прогона i равен BaseSeed+i
	Heuristic func(seed int64) (opt.Solver, error)

	Sink results.Sink // nil — результаты прогонов не сохраняются
	Log  *zap.Logger
}

// RunCase выполняет Runs прогонов; прогон i решает экземпляр с сидом InstanceSeed+i.
func (r Runner) RunCase(ctx context.Context, c Case) (Record, error) {
	log := logging.OrNop(r.Log).With(zap.Stringer("case", c))
	h := &compare.Harness{Primary: r.Primary, Oracle: r.Oracle, Tolerance: r.Tolerance, Log: r.Log}

	rec := Record{Jobs: c.Jobs, Machines: c.Machines, Runs: r.Runs}
	makespans := make([]int, 0, r.Runs)
	calls := make([]float64, 0, r.Runs)
	pseudoMs := make([]float64, 0, r.Runs)
	var oracleMs, speedups, heurGaps []float64

	for i := 0; i < r.Runs; i++ {
		inst, err := chain.RandomInstance(c.Jobs, c.Machines, r.MinTime, r.MaxTime, randForSeed(c.InstanceSeed+int64(i)))
		if err != nil {
			return Record{}, fmt.Errorf("run %d: %w", i, err)
		}

		runCtx := ctx
		cancel := func() {}
		if r.PerRunTimeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
		}
		rep := h.Run(runCtx, inst)

		var heur *opt.Outcome
		if r.Heuristic != nil && rep.PrimaryErr == nil {
			heur, err = r.runHeuristic(runCtx, inst, r.BaseSeed+int64(i))
		}
		cancel()

		if ctx.Err() != nil {
			return Record{}, fmt.Errorf("run %d: cancelled: %w", i, ctx.Err())
		}
		if rep.PrimaryErr != nil {
			return Record{}, fmt.Errorf("run %d: solve error: %w", i, rep.PrimaryErr)
		}
		if err != nil {
			return Record{}, fmt.Errorf("run %d: heuristic: %w", i, err)
		}
		if !rep.Primary.Valid() {
			return Record{}, fmt.Errorf("run %d: primary returned no solution (status %s)", i, rep.Primary.Status)
		}

		makespans = append(makespans, rep.Primary.Makespan)
		calls = append(calls, float64(rep.Primary.OracleCalls))
		pseudoMs = append(pseudoMs, millis(rep.Primary.Elapsed))

		if rep.Oracle != nil {
			rec.OracleRuns++
			if rep.OracleErr != nil {
				log.Warn("oracle run failed", zap.Int("run", i), zap.Error(rep.OracleErr))
			}
			if rep.Oracle.Status == opt.StatusOptimal {
				rec.OracleOptimal++
			}
			if rep.Matched() {
				rec.Matched++
			}
			oracleMs = append(oracleMs, millis(rep.Oracle.Elapsed))
			if rep.Verdict.SpeedRatio > 0 {
				speedups = append(speedups, rep.Verdict.SpeedRatio)
			}
		}
		if heur != nil && heur.Valid() {
			rec.HeuristicRuns++
			heurGaps = append(heurGaps, float64(heur.Makespan-rep.Primary.Makespan)/float64(rep.Primary.Makespan))
		}

		if r.Sink != nil {
			name := fmt.Sprintf("%s_run%d", c, i)
			if err := r.Sink.Save(ctx, results.FromReport(name, inst, nil, rep)); err != nil {
				log.Warn("failed to save result", zap.String("test", name), zap.Error(err))
			}
		}
	}

	ms := Calc(makespans)
	rec.MakespanBest, rec.MakespanMean, rec.MakespanStd = ms.Best, ms.Mean, ms.Std
	rec.OracleCallsMean = Calc(calls).Mean

	pt := Calc(pseudoMs)
	rec.PseudoTimeBestMs, rec.PseudoTimeMeanMs, rec.PseudoTimeStdMs = pt.Best, pt.Mean, pt.Std

	ot := Calc(oracleMs)
	rec.OracleTimeMeanMs, rec.OracleTimeStdMs = ot.Mean, ot.Std
	rec.SpeedupMean = Calc(speedups).Mean

	hg := Calc(heurGaps)
	rec.HeuristicGapMean, rec.HeuristicGapStd = hg.Mean, hg.Std

	log.Info("case done",
		zap.Int("runs", rec.Runs),
		zap.Float64("makespan_mean", rec.MakespanMean),
		zap.Int("matched", rec.Matched),
		zap.Int("oracle_runs", rec.OracleRuns),
	)
	return rec, nil
}

func (r Runner) runHeuristic(ctx context.Context, inst *chain.Instance, seed int64) (*opt.Outcome, error) {
	s, err := r.Heuristic(seed)
	if err != nil {
		return nil, err
	}
	out, err := s.Solve(ctx, inst)
	if err != nil && ctx.Err() == nil {
		return nil, err
	}
	// прерванная по времени эвристика всё равно отдаёт лучшее найденное
	return &out, nil
}

// RunAll выполняет случаи параллельно, не более workers одновременно.
// Порядок записей совпадает с порядком cases; первая ошибка отменяет остальные.
func (r Runner) RunAll(ctx context.Context, cases []Case, workers int) ([]Record, error) {
	if workers < 1 {
		workers = 1
	}
	records := make([]Record, len(cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range cases {
		i, c := i, c
		g.Go(func() error {
			rec, err := r.RunCase(gctx, c)
			if err != nil {
				return fmt.Errorf("case %s: %w", c, err)
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

func WriteCSV(path string, records []Record) error {
	if dir := dirOf(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"jobs", "machines", "runs",
		"makespan_best", "makespan_mean", "makespan_std", "oracle_calls_mean",
		"pseudo_time_best_ms", "pseudo_time_mean_ms", "pseudo_time_std_ms",
		"milp_runs", "milp_optimal", "matched", "milp_time_mean_ms", "milp_time_std_ms", "speedup_mean",
		"sa_runs", "sa_gap_mean", "sa_gap_std",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			itoa(r.Jobs),
			itoa(r.Machines),
			itoa(r.Runs),

			itoa(r.MakespanBest),
			ftoa(r.MakespanMean),
			ftoa(r.MakespanStd),
			ftoa(r.OracleCallsMean),

			ftoa(r.PseudoTimeBestMs),
			ftoa(r.PseudoTimeMeanMs),
			ftoa(r.PseudoTimeStdMs),

			itoa(r.OracleRuns),
			itoa(r.OracleOptimal),
			itoa(r.Matched),
			ftoa(r.OracleTimeMeanMs),
			ftoa(r.OracleTimeStdMs),
			ftoa(r.SpeedupMean),

			itoa(r.HeuristicRuns),
			ftoa(r.HeuristicGapMean),
			ftoa(r.HeuristicGapStd),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
