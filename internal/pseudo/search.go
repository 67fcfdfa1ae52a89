package pseudo

import "time"

// SearchResult — итог бинарного поиска по makespan.
type SearchResult struct {
	Makespan    int
	OracleCalls int
	Elapsed     time.Duration
}

// Search находит минимальный T, для которого Feasible(T) истинно.
// Ожидает непустой times и m >= 1 (проверяется валидатором раньше).
//
// Инвариант: оптимум лежит в [lo, hi], Feasible(hi) истинно,
// Feasible(lo-1) ложно после первого отказа.
func Search(times []int, m int) SearchResult {
	start := time.Now()

	// Нижняя граница: самая длинная работа целиком попадает в какой-то блок.
	// Верхняя: сумма всех времён, один блок.
	lo, hi := 0, 0
	for _, t := range times {
		if t > lo {
			lo = t
		}
		hi += t
	}

	calls := 0
	for lo < hi {
		mid := lo + (hi-lo)/2
		calls++
		if Feasible(mid, times, m) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	return SearchResult{
		Makespan:    lo,
		OracleCalls: calls,
		Elapsed:     time.Since(start),
	}
}
