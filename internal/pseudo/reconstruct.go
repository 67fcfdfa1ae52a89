package pseudo

import (
	"fmt"

	"chainShop/internal/chain"
)

// InconsistencyError — восстановленное разбиение не согласуется с найденным оптимумом.
// При корректных Feasible/Search/Reconstruct не возникает.
type InconsistencyError struct {
	Makespan int
	MaxBlock int
	Blocks   int
	Machines int
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("reconstruction inconsistency: max block sum %d, makespan %d, blocks %d, machines %d",
		e.MaxBlock, e.Makespan, e.Blocks, e.Machines)
}

// Reconstruct повторяет жадный проход Feasible при T=topt, записывая индексы работ.
// Результат детерминирован.
func Reconstruct(times []int, topt int) chain.Partition {
	var (
		partition chain.Partition
		block     []int
		sum       int
	)
	for i, t := range times {
		if sum+t <= topt || len(block) == 0 {
			block = append(block, i)
			sum += t
			continue
		}
		partition = append(partition, block)
		block = []int{i}
		sum = t
	}
	if len(block) > 0 {
		partition = append(partition, block)
	}
	return partition
}

// MustReconstruct восстанавливает разбиение и проверяет, что блоков не больше m,
// а максимальная сумма блока равна ровно topt. Нарушение — ошибка программы, panic.
func MustReconstruct(times []int, m, topt int) (chain.Partition, []int) {
	p := Reconstruct(times, topt)
	loads := make([]int, len(p))
	for b, block := range p {
		for _, j := range block {
			loads[b] += times[j]
		}
	}
	if mx := chain.MaxLoad(loads); mx != topt || len(p) > m {
		panic(&InconsistencyError{Makespan: topt, MaxBlock: mx, Blocks: len(p), Machines: m})
	}
	return p, loads
}
