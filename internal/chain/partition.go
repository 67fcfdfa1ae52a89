package chain

import "fmt"

// Partition — блоки индексов работ, по одному на машину, в порядке машин.
type Partition [][]int

// ValidatePartition проверяет, что блоки непусты и их конкатенация — ровно 0..n-1,
// а число блоков не превышает m.
func ValidatePartition(p Partition, n, m int) error {
	if len(p) == 0 {
		return fmt.Errorf("partition is empty")
	}
	if len(p) > m {
		return fmt.Errorf("partition has %d blocks, at most %d allowed", len(p), m)
	}
	next := 0
	for b, block := range p {
		if len(block) == 0 {
			return fmt.Errorf("block %d is empty", b)
		}
		for _, j := range block {
			if j != next {
				return fmt.Errorf("block %d: job %d out of order (want %d)", b, j, next)
			}
			next++
		}
	}
	if next != n {
		return fmt.Errorf("partition covers %d jobs (want %d)", next, n)
	}
	return nil
}

// Clone возвращает глубокую копию разбиения.
func (p Partition) Clone() Partition {
	if p == nil {
		return nil
	}
	out := make(Partition, len(p))
	for i, b := range p {
		out[i] = append([]int(nil), b...)
	}
	return out
}

// FromCuts строит разбиение по границам блоков: cuts[k] — индекс первой работы блока k+1.
func FromCuts(n int, cuts []int) Partition {
	p := make(Partition, 0, len(cuts)+1)
	start := 0
	for _, c := range append(append([]int(nil), cuts...), n) {
		if c <= start {
			continue
		}
		block := make([]int, 0, c-start)
		for j := start; j < c; j++ {
			block = append(block, j)
		}
		p = append(p, block)
		start = c
	}
	return p
}
