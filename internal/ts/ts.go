// Package ts — табу-поиск по границам блоков. Как и имитация отжига, служит
// эвристической планкой для точного поиска.
package ts

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"go.uber.org/zap"

	"chainShop/internal/chain"
	"chainShop/internal/logging"
	"chainShop/internal/opt"
)

const Name = "tabu_search"

// maxInt используется как бесконечность для стоимостей.
const maxInt = int(^uint(0) >> 1)

// Solver - структура реализации табу-поиска.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
	Log *zap.Logger
}

// New возвращает новый TS-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand, log *zap.Logger) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng, Log: logging.OrNop(log)}, nil
}

// move — перенос границы k из позиции from в позицию to.
type move struct {
	k, from, to int
	cost        int
}

func (mv move) ok() bool { return mv.k >= 0 }

var noMove = move{k: -1, cost: maxInt}

// Solve — основной цикл алгоритма. Решение кодируется m-1 строго возрастающими
// границами в [1, n-1]; все m машин заняты.
func (s *Solver) Solve(ctx context.Context, inst *chain.Instance) (opt.Outcome, error) {
	start := time.Now()
	log := logging.OrNop(s.Log)

	// Валидация входных данных
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

	// Начальное решение: границы по равным долям суммы
	curr := evenCuts(inst.Times, m)
	cand := make([]int, len(curr))
	currCost := eval.CutsMakespan(curr)
	evals := 1

	// Глобально лучшее решение
	best := slices.Clone(curr)
	bestCost := currCost

	// Ёмкость выбирается с запасом относительно длины табу
	tabu := newTabuList(max(32, (s.Cfg.TabuTenure+s.Cfg.TabuTenureRand)*4))

	finish := func(meta map[string]any) opt.Outcome {
		p := chain.FromCuts(n, best)
		loads, _ := eval.Loads(p)
		return opt.Outcome{
			Algorithm:   Name,
			Status:      opt.StatusFeasible,
			Makespan:    bestCost,
			Partition:   p,
			Loads:       loads,
			Elapsed:     time.Since(start),
			OracleCalls: evals,
			Meta:        meta,
		}
	}

	iter := 0
	for ; len(curr) > 0 && iter < maxIter; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return finish(map[string]any{
				"stopped":    "context",
				"iterations": iter,
			}), err
		}

		// Лучший допустимый ход и запасной (лучший без учёта табу)
		chosen, fallback := noMove, noMove

		for j := 0; j < s.Cfg.NeighborsPerIter; j++ {
			mv, found := s.randomMove(curr, n)
			if !found {
				continue
			}
			copy(cand, curr)
			cand[mv.k] = mv.to
			mv.cost = eval.CutsMakespan(cand)
			evals++

			if mv.cost < fallback.cost {
				fallback = mv
			}

			// Табуированный ход пропускается, если не выполняется критерий аспирации
			if tabu.IsTabu(moveKey(mv.k, mv.from, mv.to), iter) && mv.cost >= bestCost {
				continue
			}
			if mv.cost < chosen.cost {
				chosen = mv
			}
		}

		if !chosen.ok() {
			chosen = fallback
		}
		// Нет допустимых ходов — завершаем поиск
		if !chosen.ok() {
			break
		}

		curr[chosen.k] = chosen.to
		currCost = chosen.cost

		// Обратный ход запрещается на tenure итераций
		tenure := s.Cfg.TabuTenure
		if s.Cfg.TabuTenureRand > 0 {
			tenure += s.Rng.Intn(s.Cfg.TabuTenureRand + 1)
		}
		tabu.Add(moveKey(chosen.k, chosen.to, chosen.from), iter+tenure)

		if currCost < bestCost {
			bestCost = currCost
			copy(best, curr)
		}
	}

	out := finish(map[string]any{
		"tabu_tenure":        s.Cfg.TabuTenure,
		"tabu_tenure_rand":   s.Cfg.TabuTenureRand,
		"neighbors_per_iter": s.Cfg.NeighborsPerIter,
		"neighborhood":       string(s.Cfg.Neighborhood),
		"iterations":         iter,
	})
	log.Debug("ts solve",
		zap.Int("makespan", out.Makespan),
		zap.Int("evaluations", evals),
		zap.Duration("elapsed", out.Elapsed),
	)
	return out, nil
}

// randomMove выбирает случайную границу и её новую позицию между соседями.
// false — у выбранной границы нет свободных позиций.
func (s *Solver) randomMove(cuts []int, n int) (move, bool) {
	k := s.Rng.Intn(len(cuts))
	lo, hi := 1, n-1
	if k > 0 {
		lo = cuts[k-1] + 1
	}
	if k < len(cuts)-1 {
		hi = cuts[k+1] - 1
	}
	from := cuts[k]

	var to int
	switch s.Cfg.Neighborhood {
	case NeighborhoodStep:
		to = from - 1
		if s.Rng.Intn(2) == 1 {
			to = from + 1
		}
		if to < lo || to > hi {
			to = 2*from - to
		}
		if to < lo || to > hi {
			return noMove, false
		}
	default:
		if lo >= hi {
			return noMove, false
		}
		to = lo + s.Rng.Intn(hi-lo)
		if to >= from {
			to++
		}
	}
	return move{k: k, from: from, to: to}, true
}

// evenCuts ставит границы так, чтобы префиксные суммы были ближе к
// долям total/m, сохраняя строгий порядок и непустые блоки.
func evenCuts(times []int, m int) []int {
	n := len(times)
	total := 0
	for _, t := range times {
		total += t
	}
	cuts := make([]int, 0, m-1)
	prefix := 0
	for i := 1; i < n && len(cuts) < m-1; i++ {
		prefix += times[i-1]
		k := len(cuts) + 1
		// оставшимся границам должно хватить позиций
		mustCut := n-i == m-1-len(cuts)
		if mustCut || prefix*m >= total*k {
			cuts = append(cuts, i)
		}
	}
	return cuts
}

// tabuList — структура табу-списка.
// Реализована как кольцевой буфер фиксированного размера
// с map для быстрой проверки табуированности.
type tabuList struct {
	m   map[uint64]int // ключ → итерация истечения табу
	key []uint64       // кольцевой буфер ключей
	exp []int          // соответствующие сроки истечения
	i   int            // текущая позиция в кольце
}

// newTabuList создаёт табу-список заданной ёмкости.
func newTabuList(capacity int) *tabuList {
	if capacity < 8 {
		capacity = 8
	}
	return &tabuList{
		m:   make(map[uint64]int, capacity*2),
		key: make([]uint64, capacity),
		exp: make([]int, capacity),
	}
}

// IsTabu проверяет, является ли ход табуированным на текущей итерации.
func (t *tabuList) IsTabu(k uint64, iter int) bool {
	exp, ok := t.m[k]
	return ok && exp > iter
}

// Add добавляет новый табу-ход с указанием итерации истечения.
func (t *tabuList) Add(k uint64, expiry int) {
	// Вытесняемый элемент удаляется, только если его срок не был обновлён
	if oldK := t.key[t.i]; oldK != 0 {
		if curExp, ok := t.m[oldK]; ok && curExp == t.exp[t.i] {
			delete(t.m, oldK)
		}
	}

	t.key[t.i] = k
	t.exp[t.i] = expiry
	t.m[k] = expiry

	t.i = (t.i + 1) % len(t.key)
}

// moveKey формирует уникальный ключ хода; +1 делает ключ ненулевым.
func moveKey(k, from, to int) uint64 {
	return (uint64(uint32(k+1)) << 42) |
		(uint64(uint32(from)) << 21) |
		uint64(uint32(to))
}
