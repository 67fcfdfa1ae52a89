package chain

import (
	"errors"
	"fmt"
	"math/rand"
)

// Instance — упорядоченная последовательность работ и число одинаковых машин.
// После создания не изменяется; все компоненты читают его без синхронизации.
type Instance struct {
	Times    []int
	Machines int
}

func NewInstance(times []int, machines int, p ValidationPolicy) (*Instance, error) {
	if err := Validate(times, machines, p); err != nil {
		return nil, err
	}
	own := make([]int, len(times))
	copy(own, times)
	return &Instance{Times: own, Machines: machines}, nil
}

// Validate проверяет экземпляр по политике p.
func (inst *Instance) Validate(p ValidationPolicy) error {
	if inst == nil {
		return errors.New("instance is nil")
	}
	return Validate(inst.Times, inst.Machines, p)
}

func (inst *Instance) Jobs() int { return len(inst.Times) }

func (inst *Instance) Sum() int {
	s := 0
	for _, t := range inst.Times {
		s += t
	}
	return s
}

func (inst *Instance) MaxTime() int {
	mx := 0
	for _, t := range inst.Times {
		if t > mx {
			mx = t
		}
	}
	return mx
}

// LowerBound — max(max(times), ceil(sum/m)); ни одно разбиение не даёт меньше.
func (inst *Instance) LowerBound() int {
	lb := inst.MaxTime()
	if inst.Machines > 0 {
		avg := (inst.Sum() + inst.Machines - 1) / inst.Machines
		if avg > lb {
			lb = avg
		}
	}
	return lb
}

// RandomInstance генерирует экземпляр с временами в [minTime, maxTime].
// Генератор передаётся явно, поэтому при фиксированном сиде экземпляр воспроизводим.
func RandomInstance(jobs, machines, minTime, maxTime int, rng *rand.Rand) (*Instance, error) {
	if rng == nil {
		return nil, errors.New("rng is nil")
	}
	if minTime < 1 || maxTime < minTime {
		return nil, fmt.Errorf("invalid time bounds [%d, %d]", minTime, maxTime)
	}
	times := make([]int, jobs)
	span := maxTime - minTime + 1
	for i := range times {
		times[i] = minTime
		if span > 1 {
			times[i] += rng.Intn(span)
		}
	}
	p := RelaxedPolicy()
	p.MinTime, p.MaxTime = minTime, maxTime
	return NewInstance(times, machines, p)
}
