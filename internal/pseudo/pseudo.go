package pseudo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"chainShop/internal/chain"
	"chainShop/internal/logging"
	"chainShop/internal/opt"
)

const Name = "pseudo_polynomial"

// Solver — точный псевдополиномиальный алгоритм: валидация, бинарный поиск
// по makespan с жадным оракулом, восстановление разбиения.
// Состояния между вызовами нет; можно вызывать конкурентно для разных экземпляров.
type Solver struct {
	Cfg Config
	Log *zap.Logger
}

// New возвращает солвер с проверенной конфигурацией. log может быть nil.
func New(cfg Config, log *zap.Logger) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{Cfg: cfg, Log: logging.OrNop(log)}, nil
}

// Solve — точка входа. Отмена через ctx внутри поиска не поддерживается:
// время работы ограничено O(n·log(sum)).
func (s *Solver) Solve(_ context.Context, inst *chain.Instance) (opt.Outcome, error) {
	log := logging.OrNop(s.Log)

	// Ошибка валидации сразу завершает конвейер: нулевое время, без разбиения
	if err := inst.Validate(s.Cfg.Policy); err != nil {
		log.Warn("invalid input", zap.Error(err))
		return opt.Outcome{Algorithm: Name, Status: opt.StatusInvalidInput}, err
	}

	start := time.Now()
	sr := Search(inst.Times, inst.Machines)
	partition, loads := MustReconstruct(inst.Times, inst.Machines, sr.Makespan)
	elapsed := time.Since(start)

	log.Debug("pseudo-polynomial solve",
		zap.Int("jobs", inst.Jobs()),
		zap.Int("machines", inst.Machines),
		zap.Int("makespan", sr.Makespan),
		zap.Int("oracle_calls", sr.OracleCalls),
		zap.Duration("elapsed", elapsed),
	)

	return opt.Outcome{
		Algorithm:   Name,
		Status:      opt.StatusOptimal,
		Makespan:    sr.Makespan,
		Partition:   partition,
		Loads:       loads,
		Elapsed:     elapsed,
		OracleCalls: sr.OracleCalls,
	}, nil
}

// Solve решает экземпляр (times, m) по политике p без логирования.
func Solve(times []int, m int, p chain.ValidationPolicy) (opt.Outcome, error) {
	s := &Solver{Cfg: Config{Policy: p}}
	return s.Solve(context.Background(), &chain.Instance{Times: times, Machines: m})
}
