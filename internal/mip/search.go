package mip

import (
	"context"

	"go.uber.org/zap"

	"chainShop/internal/chain"
)

// search — поиск в глубину с отсечением по границе и рекордом (incumbent).
type search struct {
	ctx context.Context
	log *zap.Logger
	cfg Config

	times  []int
	rem    []int // rem[i] = Σ times[i:]
	remMax []int // remMax[i] = max times[i:]
	n, m   int

	rootLB   int
	best     int
	bestCuts []int
	cuts     []int

	// seen[i*m+k] — наименьший текущий максимум, с которым блок машины k
	// уже открывался на работе i. Худшие повторные состояния отсекаются.
	seen map[int]int

	nodes int
	stop  error
}

func newSearch(ctx context.Context, inst *chain.Instance, cfg Config, log *zap.Logger) *search {
	n := inst.Jobs()
	s := &search{
		ctx:    ctx,
		log:    log,
		cfg:    cfg,
		times:  inst.Times,
		rem:    make([]int, n+1),
		remMax: make([]int, n+1),
		n:      n,
		m:      inst.Machines,
		seen:   make(map[int]int),
	}
	for i := n - 1; i >= 0; i-- {
		s.rem[i] = s.rem[i+1] + s.times[i]
		s.remMax[i] = max(s.remMax[i+1], s.times[i])
	}
	s.rootLB = max(s.remMax[0], ceilDiv(s.rem[0], s.m))
	return s
}

// run возвращает причину остановки; nil — дерево исчерпано, рекорд оптимален.
func (s *search) run() error {
	s.best, s.bestCuts = s.balancedFill()
	s.log.Debug("milp incumbent", zap.Int("makespan", s.best), zap.String("source", "balanced fill"))
	if s.best <= s.rootLB {
		return errRootOptimal
	}
	if s.gapReached() {
		return errGapReached
	}
	if err := s.ctx.Err(); err != nil {
		return err
	}

	// x[0][0] = 1: первая работа открывает машину 0
	s.dfs(1, 0, s.times[0], 0)
	return s.stop
}

// dfs размещает работу i; текущий блок на машине k имеет нагрузку load,
// curMax — максимум по уже закрытым блокам.
func (s *search) dfs(i, k, load, curMax int) {
	if s.stop != nil {
		return
	}
	if i == s.n {
		// x[n-1][m-1] = 1 требует, чтобы первая и последняя работы были на разных машинах
		if s.cfg.Anchoring && s.m > 1 && k == 0 {
			return
		}
		if mx := max(curMax, load); mx < s.best {
			s.improve(mx)
		}
		return
	}

	s.nodes++
	if s.nodes&1023 == 0 {
		if err := s.ctx.Err(); err != nil {
			s.stop = err
			return
		}
	}
	if s.cfg.NodeLimit > 0 && s.nodes >= s.cfg.NodeLimit {
		s.stop = errNodeLimit
		return
	}

	t := s.times[i]
	stay := func() {
		if s.bound(i+1, k, load+t, curMax) < s.best {
			s.dfs(i+1, k, load+t, curMax)
		}
	}
	advance := func() {
		if k+1 >= s.m {
			return
		}
		closed := max(curMax, load)
		key := i*s.m + k + 1
		if prev, ok := s.seen[key]; ok && prev <= closed {
			return
		}
		s.seen[key] = closed
		if s.bound(i+1, k+1, t, closed) < s.best {
			s.cuts = append(s.cuts, i)
			s.dfs(i+1, k+1, t, closed)
			s.cuts = s.cuts[:len(s.cuts)-1]
		}
	}

	// Сначала ветка, ближе к равномерной загрузке оставшихся машин
	if load+t <= ceilDiv(load+s.rem[i], s.m-k) {
		stay()
		advance()
	} else {
		advance()
		stay()
	}
}

// bound — допустимая нижняя оценка Cmax в узле: работа i следующая,
// текущий блок на машине k с нагрузкой load.
func (s *search) bound(i, k, load, curMax int) int {
	lb := max(curMax, load, s.remMax[i])
	return max(lb, ceilDiv(load+s.rem[i], s.m-k))
}

func (s *search) improve(mx int) {
	s.best = mx
	s.bestCuts = append(s.bestCuts[:0:0], s.cuts...)
	s.log.Debug("milp incumbent",
		zap.Int("makespan", mx),
		zap.Int("nodes", s.nodes),
		zap.Float64("gap", s.gap()),
	)
	switch {
	case s.best <= s.rootLB:
		s.stop = errRootOptimal
	case s.gapReached():
		s.stop = errGapReached
	}
}

// gap — относительный разрыв между рекордом и корневой оценкой.
func (s *search) gap() float64 {
	if s.best <= 0 {
		return 0
	}
	return float64(s.best-s.rootLB) / float64(s.best)
}

func (s *search) gapReached() bool {
	return s.cfg.MIPGap > 0 && s.gap() <= s.cfg.MIPGap
}

// balancedFill — стартовый рекорд: блоки заполняются до средней нагрузки
// оставшихся машин. Всегда даёт допустимое решение (при m > 1 не менее двух блоков).
func (s *search) balancedFill() (int, []int) {
	var cuts []int
	k, load, best := 0, 0, 0
	target := ceilDiv(s.rem[0], s.m)
	for i, t := range s.times {
		if load > 0 && k < s.m-1 && load+t > target {
			best = max(best, load)
			cuts = append(cuts, i)
			k++
			load = 0
			target = ceilDiv(s.rem[i], s.m-k)
		}
		load += t
	}
	best = max(best, load)
	if cuts == nil {
		cuts = []int{}
	}
	return best, cuts
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
