// Package mip — оракул на основе целочисленной модели задачи.
//
// Модель: x[i][j] ∈ {0,1} — работа i на машине j; y[i] = Σ (j+1)·x[i][j];
// C[j] = Σ t[i]·x[i][j]; Cmax >= C[j]. Ограничения: каждая работа ровно на одной
// машине, y[i] <= y[i+1] (непрерывность), опциональная фиксация x[0][0]=1 и
// x[n-1][m-1]=1, Cmax >= max(t), Cmax >= Σt/m. Цель — min Cmax.
//
// Модель решается ветвлением по y: каждая следующая работа либо остаётся на
// текущей машине, либо открывает следующую. Пустые машины в модели допустимы,
// поэтому фиксация последней работы выполняется перенумерацией последнего блока
// и на значение оптимума не влияет.
package mip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"chainShop/internal/chain"
	"chainShop/internal/logging"
	"chainShop/internal/opt"
)

const Name = "milp"

var (
	errNodeLimit   = errors.New("node limit reached")
	errGapReached  = errors.New("target gap reached")
	errRootOptimal = errors.New("incumbent meets root bound")
)

// Solver — оракул, независимый от комбинаторного поиска: общего кода с ним нет.
type Solver struct {
	Cfg    Config
	Policy chain.ValidationPolicy
	Log    *zap.Logger
}

// New возвращает оракул с проверенной конфигурацией. log может быть nil.
func New(cfg Config, policy chain.ValidationPolicy, log *zap.Logger) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := policy.Check(); err != nil {
		return nil, err
	}
	return &Solver{Cfg: cfg, Policy: policy, Log: logging.OrNop(log)}, nil
}

// Solve решает модель с пределом времени Cfg.TimeLimit и целевым разрывом Cfg.MIPGap.
// Ошибки самого оракула возвращаются статусом error вместе с err.
func (s *Solver) Solve(ctx context.Context, inst *chain.Instance) (out opt.Outcome, err error) {
	log := logging.OrNop(s.Log)
	start := time.Now()

	if err := inst.Validate(s.Policy); err != nil {
		log.Warn("invalid input", zap.Error(err))
		return opt.Outcome{Algorithm: Name, Status: opt.StatusInvalidInput}, err
	}

	defer func() {
		if r := recover(); r != nil {
			out = opt.Outcome{Algorithm: Name, Status: opt.StatusError, Elapsed: time.Since(start)}
			err = fmt.Errorf("milp: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.Cfg.TimeLimit)
	defer cancel()

	bb := newSearch(ctx, inst, s.Cfg, log)
	stop := bb.run()
	elapsed := time.Since(start)

	out = opt.Outcome{
		Algorithm: Name,
		Elapsed:   elapsed,
		Nodes:     bb.nodes,
		Meta: map[string]any{
			"root_bound": bb.rootLB,
			"anchoring":  s.Cfg.Anchoring,
			"time_limit": s.Cfg.TimeLimit.String(),
			"mip_gap":    s.Cfg.MIPGap,
		},
	}

	if bb.bestCuts == nil {
		out.Status = opt.StatusInfeasible
		out.Gap = -1
		return out, nil
	}

	out.Makespan = bb.best
	out.Partition = chain.FromCuts(inst.Jobs(), bb.bestCuts)
	out.Loads = blockLoads(inst.Times, out.Partition)
	if s.Cfg.Anchoring {
		out.BlockMachines = anchoredMachines(len(out.Partition), inst.Machines)
	}

	switch {
	case stop == nil || errors.Is(stop, errRootOptimal):
		out.Status = opt.StatusOptimal
		out.Gap = 0
	case errors.Is(stop, errGapReached), errors.Is(stop, errNodeLimit):
		out.Status = opt.StatusFeasible
		out.Gap = bb.gap()
	case errors.Is(stop, context.DeadlineExceeded):
		out.Status = opt.StatusTimeLimit
		out.Gap = bb.gap()
	default:
		out.Status = opt.StatusError
		out.Gap = bb.gap()
		err = fmt.Errorf("milp: %w", stop)
	}

	log.Info("milp solve",
		zap.String("status", string(out.Status)),
		zap.Int("makespan", out.Makespan),
		zap.Float64("gap", out.Gap),
		zap.Int("nodes", out.Nodes),
		zap.Duration("elapsed", elapsed),
	)
	return out, err
}

// anchoredMachines: первый блок на машине 0, последний на машине m-1,
// промежуточные по порядку. Машины между ними остаются пустыми.
// При m > 1 поиск с фиксацией всегда даёт не меньше двух блоков.
func anchoredMachines(blocks, m int) []int {
	ms := make([]int, blocks)
	for b := range ms {
		ms[b] = b
	}
	ms[blocks-1] = m - 1
	return ms
}

func blockLoads(times []int, p chain.Partition) []int {
	loads := make([]int, len(p))
	for b, block := range p {
		for _, j := range block {
			loads[b] += times[j]
		}
	}
	return loads
}
