package chain

import "fmt"

type Evaluator struct {
	inst *Instance
}

func NewEvaluator(inst *Instance) (*Evaluator, error) {
	if inst == nil {
		return nil, fmt.Errorf("instance is nil")
	}
	if inst.Machines < 1 || len(inst.Times) == 0 {
		return nil, fmt.Errorf("empty instance (n=%d, m=%d)", len(inst.Times), inst.Machines)
	}
	return &Evaluator{inst: inst}, nil
}

// Loads возвращает суммарное время каждого блока.
func (e *Evaluator) Loads(p Partition) ([]int, error) {
	if e == nil || e.inst == nil {
		return nil, fmt.Errorf("nil evaluator")
	}
	if err := ValidatePartition(p, len(e.inst.Times), e.inst.Machines); err != nil {
		return nil, err
	}
	loads := make([]int, len(p))
	for b, block := range p {
		for _, j := range block {
			loads[b] += e.inst.Times[j]
		}
	}
	return loads, nil
}

func (e *Evaluator) Makespan(p Partition) (int, error) {
	loads, err := e.Loads(p)
	if err != nil {
		return 0, err
	}
	return MaxLoad(loads), nil
}

func (e *Evaluator) MustMakespan(p Partition) int {
	ms, err := e.Makespan(p)
	if err != nil {
		panic(err)
	}
	return ms
}

// CutsMakespan считает makespan по границам блоков без построения разбиения.
// Используется в горячем цикле эвристик.
func (e *Evaluator) CutsMakespan(cuts []int) int {
	best, load, k := 0, 0, 0
	for j, t := range e.inst.Times {
		if k < len(cuts) && j == cuts[k] {
			if load > best {
				best = load
			}
			load = 0
			k++
		}
		load += t
	}
	if load > best {
		best = load
	}
	return best
}

func MaxLoad(loads []int) int {
	mx := 0
	for _, l := range loads {
		if l > mx {
			mx = l
		}
	}
	return mx
}
