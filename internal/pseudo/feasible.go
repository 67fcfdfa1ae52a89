package pseudo

// Feasible отвечает, можно ли разрезать times не более чем на m
// последовательных блоков с суммой каждого <= T.
//
// Жадный проход слева направо: блок закрывается только когда следующая работа
// в него не помещается. Откладывать разрез бессмысленно (блок переполнится),
// а резать раньше — только увеличивать число блоков, поэтому проход даёт
// минимальное число блоков для порога T. Проверка монотонна по T, на этом
// держится бинарный поиск в Search.
func Feasible(T int, times []int, m int) bool {
	blocks := 1
	sum := 0
	for _, t := range times {
		if t > T {
			return false
		}
		if sum+t <= T {
			sum += t
			continue
		}
		blocks++
		if blocks > m {
			return false
		}
		sum = t
	}
	return true
}
