package bench

import "math"

type number interface {
	~int | ~float64
}

// Stats — выборочные характеристики серии: лучшее (минимум), худшее,
// среднее и несмещённое стандартное отклонение.
type Stats[T number] struct {
	N     int
	Best  T
	Worst T
	Mean  float64
	Std   float64
}

func Calc[T number](values []T) Stats[T] {
	s := Stats[T]{N: len(values)}
	if s.N == 0 {
		return s
	}

	best, worst := values[0], values[0]
	sum := 0.0
	for _, v := range values {
		best = min(best, v)
		worst = max(worst, v)
		sum += float64(v)
	}
	mean := sum / float64(s.N)

	variance := 0.0
	if s.N >= 2 {
		for _, v := range values {
			d := float64(v) - mean
			variance += d * d
		}
		variance /= float64(s.N - 1)
	}

	s.Best, s.Worst = best, worst
	s.Mean = mean
	s.Std = math.Sqrt(variance)
	return s
}
