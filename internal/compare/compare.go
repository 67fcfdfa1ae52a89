// Package compare сверяет результат комбинаторного поиска с результатом
// оракула целочисленной модели.
package compare

import (
	"math"
	"time"

	"chainShop/internal/opt"
)

const DefaultTolerance = 0.001

// Verdict — итог сравнения двух уже полученных результатов.
type Verdict struct {
	MakespansMatch bool `json:"solutions_match"`
	// Difference = |primary - oracle|; nil, если у одной из сторон нет решения.
	Difference *int `json:"makespan_difference"`
	// SpeedRatio = oracle.Elapsed / primary.Elapsed; 0, если время одной из сторон не положительно.
	SpeedRatio float64 `json:"speedup"`
}

// Compare — чистая функция над двумя результатами. Совпадение требует решения
// у обеих сторон: отсутствующие данные никогда не считаются совпадением.
// Результат оракула с time_limit сравнивается по найденному значению.
func Compare(primary, oracle opt.Outcome, tolerance float64) Verdict {
	var v Verdict
	if primary.Valid() && oracle.Valid() {
		d := primary.Makespan - oracle.Makespan
		if d < 0 {
			d = -d
		}
		v.Difference = &d
		v.MakespansMatch = math.Abs(float64(d)) < tolerance
	}
	v.SpeedRatio = SpeedRatio(oracle.Elapsed, primary.Elapsed)
	return v
}

// SpeedRatio возвращает slow/fast или 0, если одно из значений не положительно.
func SpeedRatio(slow, fast time.Duration) float64 {
	if slow <= 0 || fast <= 0 {
		return 0
	}
	return float64(slow) / float64(fast)
}
