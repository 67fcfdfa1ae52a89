// Package sa — имитация отжига по границам блоков. Эвристика: оптимум не
// доказывает и используется как нижняя планка для сравнения с точными методами.
package sa

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"time"

	"go.uber.org/zap"

	"chainShop/internal/chain"
	"chainShop/internal/logging"
	"chainShop/internal/opt"
)

const Name = "simulated_annealing"

// Solver - структура реализации алгоритма имитации отжига
type Solver struct {
	Cfg Config
	Rng *rand.Rand
	Log *zap.Logger
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
func New(cfg Config, rng *rand.Rand, log *zap.Logger) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng, Log: logging.OrNop(log)}, nil
}

// Solve — реализация эвристики. Решение кодируется m-1 строго возрастающими
// границами в [1, n-1]; все m машин заняты.
func (s *Solver) Solve(ctx context.Context, inst *chain.Instance) (opt.Outcome, error) {
	start := time.Now()
	log := logging.OrNop(s.Log)

	if err := inst.Validate(s.Cfg.Policy); err != nil {
		log.Warn("invalid input", zap.Error(err))
		return opt.Outcome{Algorithm: Name, Status: opt.StatusInvalidInput}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Outcome{Algorithm: Name, Status: opt.StatusError}, err
	}
	if s.Rng == nil {
		return opt.Outcome{Algorithm: Name, Status: opt.StatusError}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	eval, err := chain.NewEvaluator(inst)
	if err != nil {
		return opt.Outcome{Algorithm: Name, Status: opt.StatusError}, err
	}

	n, m := inst.Jobs(), inst.Machines

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerJob * n
	}

	curr := randomCuts(n, m, s.Rng)
	cand := make([]int, len(curr))

	currCost := eval.CutsMakespan(curr)
	bestCost := currCost
	best := slices.Clone(curr)

	evals := 1
	T := s.Cfg.InitialTemp
	iter := 0

	finish := func(status opt.Status, meta map[string]any) opt.Outcome {
		p := chain.FromCuts(n, best)
		loads, _ := eval.Loads(p)
		return opt.Outcome{
			Algorithm:   Name,
			Status:      status,
			Makespan:    bestCost,
			Partition:   p,
			Loads:       loads,
			Elapsed:     time.Since(start),
			OracleCalls: evals,
			Meta:        meta,
		}
	}

	// При m = 1 граница отсутствует, пространство решений из одной точки
	for ; len(curr) > 0 && iter < maxIter && T > s.Cfg.FinalTemp; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return finish(opt.StatusFeasible, map[string]any{
				"stopped":    "context",
				"T":          T,
				"iterations": iter,
			}), err
		}

		copy(cand, curr)
		switch s.Cfg.Neighborhood {
		case NeighborhoodJump:
			neighborJump(cand, n, s.Rng)
		default:
			neighborShift(cand, n, s.Rng)
		}

		candCost := eval.CutsMakespan(cand)
		evals++

		delta := candCost - currCost
		accept := false
		if delta <= 0 {
			accept = true
		} else {
			// Критерий Метрополиса
			p := math.Exp(-float64(delta) / T)
			if s.Rng.Float64() < p {
				accept = true
			}
		}

		if accept {
			curr, cand = cand, curr
			currCost = candCost

			if currCost < bestCost {
				bestCost = currCost
				copy(best, curr)
			}
		}

		T *= s.Cfg.Alpha
	}

	out := finish(opt.StatusFeasible, map[string]any{
		"initial_temp": s.Cfg.InitialTemp,
		"final_temp":   s.Cfg.FinalTemp,
		"alpha":        s.Cfg.Alpha,
		"neighborhood": string(s.Cfg.Neighborhood),
		"iterations":   iter,
	})
	log.Debug("sa solve",
		zap.Int("makespan", out.Makespan),
		zap.Int("evaluations", evals),
		zap.Duration("elapsed", out.Elapsed),
	)
	return out, nil
}

// randomCuts выбирает m-1 различных границ из [1, n-1] по возрастанию.
func randomCuts(n, m int, rng *rand.Rand) []int {
	perm := rng.Perm(n - 1)
	cuts := make([]int, m-1)
	for i := range cuts {
		cuts[i] = perm[i] + 1
	}
	slices.Sort(cuts)
	return cuts
}

// neighborShift сдвигает случайную границу внутри интервала между соседями.
func neighborShift(cuts []int, n int, rng *rand.Rand) {
	k := rng.Intn(len(cuts))
	lo, hi := 1, n-1
	if k > 0 {
		lo = cuts[k-1] + 1
	}
	if k < len(cuts)-1 {
		hi = cuts[k+1] - 1
	}
	if lo >= hi {
		return
	}
	v := lo + rng.Intn(hi-lo)
	if v >= cuts[k] {
		v++
	}
	cuts[k] = v
}

// neighborJump переносит случайную границу в свободную позицию и
// восстанавливает порядок.
func neighborJump(cuts []int, n int, rng *rand.Rand) {
	if len(cuts) >= n-1 {
		return
	}
	k := rng.Intn(len(cuts))
	for {
		v := 1 + rng.Intn(n-1)
		if _, found := slices.BinarySearch(cuts, v); !found {
			cuts[k] = v
			break
		}
	}
	slices.Sort(cuts)
}
