// Package cases содержит эталонные экземпляры с известным оптимальным makespan.
// Используются командой validate и тестами солверов.
package cases

type Case struct {
	Name     string
	Times    []int
	Machines int
	Expected int
}

// Validation возвращает набор эталонных экземпляров. Все они меньше
// производственного минимума по n, поэтому решаются с chain.RelaxedPolicy.
func Validation() []Case {
	return []Case{
		{Name: "Assignment Example", Times: []int{2, 3, 5, 7}, Machines: 3, Expected: 7},
		{Name: "Simple Test 1", Times: []int{1, 2, 3, 4, 5, 6}, Machines: 2, Expected: 11},
		{Name: "Simple Test 2", Times: []int{3, 1, 4, 2, 5}, Machines: 2, Expected: 8},
		{Name: "All Equal Times", Times: []int{1, 1, 1, 1, 1}, Machines: 3, Expected: 2},
		{Name: "One Large Job", Times: []int{24, 1, 1, 1, 1}, Machines: 2, Expected: 24},
		{Name: "Medium Test 1", Times: []int{8, 6, 4, 2, 10, 5, 3, 7, 9, 1}, Machines: 4, Expected: 16},
		{Name: "Medium Test 2", Times: []int{15, 10, 8, 12, 6, 7, 9, 5}, Machines: 3, Expected: 26},
		{Name: "Increasing Sequence", Times: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, Machines: 3, Expected: 21},
		{Name: "Decreasing Sequence", Times: []int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, Machines: 3, Expected: 21},
		{Name: "n close to m", Times: []int{5, 8, 3, 9, 2, 7, 4, 6, 1}, Machines: 8, Expected: 9},
		{Name: "Perfect Balance", Times: []int{4, 4, 4, 4, 4, 4}, Machines: 3, Expected: 8},
		{Name: "Random Medium Test", Times: []int{7, 3, 9, 2, 8, 5, 6, 4, 1, 10, 7, 3}, Machines: 4, Expected: 20},
		{Name: "Large Performance Test", Times: []int{5, 8, 2, 6, 9, 3, 7, 4, 1, 5, 8, 2, 6, 9, 3, 7, 4, 1}, Machines: 5, Expected: 21},
		{Name: "Peak in Middle", Times: []int{1, 2, 3, 20, 3, 2, 1}, Machines: 3, Expected: 20},
		{Name: "Greedy Algorithm Trap", Times: []int{6, 5, 4, 3, 2, 1, 7}, Machines: 3, Expected: 11},
		{Name: "Uniform Groups", Times: []int{3, 3, 3, 7, 7, 7, 5, 5, 5}, Machines: 3, Expected: 16},
		{Name: "Alternating Values", Times: []int{10, 1, 10, 1, 10, 1, 10, 1}, Machines: 3, Expected: 21},
		{Name: "Single Machine", Times: []int{5, 5, 5, 5, 5}, Machines: 1, Expected: 25},
		{Name: "Large Numbers Test", Times: []int{20, 15, 18, 10, 24, 16, 12, 14}, Machines: 2, Expected: 66},
	}
}
