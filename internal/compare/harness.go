package compare

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"chainShop/internal/chain"
	"chainShop/internal/logging"
	"chainShop/internal/opt"
)

// Harness прогоняет экземпляр через основной солвер и оракул и сравнивает результаты.
// Оба маршрута независимы: отказ одного не мешает другому.
type Harness struct {
	Primary   opt.Solver
	Oracle    opt.Solver // nil — только основной маршрут
	Tolerance float64
	Log       *zap.Logger
}

type Report struct {
	Primary    opt.Outcome
	PrimaryErr error

	Oracle    *opt.Outcome
	OracleErr error

	Verdict Verdict
}

// Matched сообщает, прошла ли сверка. Без оракула сверки не было.
func (r Report) Matched() bool {
	return r.Oracle != nil && r.Verdict.MakespansMatch
}

// Err объединяет ошибки обоих маршрутов.
func (r Report) Err() error {
	return errors.Join(r.PrimaryErr, r.OracleErr)
}

func (h *Harness) Run(ctx context.Context, inst *chain.Instance) Report {
	log := logging.OrNop(h.Log)
	tol := h.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	var rep Report
	rep.Primary, rep.PrimaryErr = h.Primary.Solve(ctx, inst)
	if rep.PrimaryErr != nil {
		log.Warn("primary solver failed", zap.String("status", string(rep.Primary.Status)), zap.Error(rep.PrimaryErr))
	}

	if h.Oracle == nil {
		return rep
	}

	out, err := h.Oracle.Solve(ctx, inst)
	rep.Oracle, rep.OracleErr = &out, err
	if err != nil {
		log.Warn("oracle failed", zap.String("status", string(out.Status)), zap.Error(err))
	}

	rep.Verdict = Compare(rep.Primary, out, tol)
	log.Debug("comparison",
		zap.Bool("match", rep.Verdict.MakespansMatch),
		zap.Int("primary", rep.Primary.Makespan),
		zap.Int("oracle", out.Makespan),
		zap.String("oracle_status", string(out.Status)),
		zap.Float64("speedup", rep.Verdict.SpeedRatio),
	)
	return rep
}
