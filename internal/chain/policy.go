package chain

import (
	"errors"
	"fmt"
)

var (
	ErrSizeOutOfRange     = errors.New("size out of range")
	ErrDegenerateInstance = errors.New("degenerate instance")
	ErrValueOutOfRange    = errors.New("value out of range")
)

// ValidationPolicy задаёт допустимые границы экземпляра.
// EnforceSizeBounds=false отключает проверку размера (ручные тестовые экземпляры).
type ValidationPolicy struct {
	MinSize           int
	MaxSize           int
	EnforceSizeBounds bool
	MinTime           int
	MaxTime           int
}

// DefaultPolicy — производственные границы: n в [50, 5000], времена в [1, 24].
func DefaultPolicy() ValidationPolicy {
	return ValidationPolicy{
		MinSize:           50,
		MaxSize:           5000,
		EnforceSizeBounds: true,
		MinTime:           1,
		MaxTime:           24,
	}
}

// RelaxedPolicy совпадает с DefaultPolicy, но без ограничения на размер.
func RelaxedPolicy() ValidationPolicy {
	p := DefaultPolicy()
	p.EnforceSizeBounds = false
	return p
}

func (p ValidationPolicy) Check() error {
	if p.EnforceSizeBounds && (p.MinSize < 1 || p.MaxSize < p.MinSize) {
		return fmt.Errorf("invalid size bounds [%d, %d]", p.MinSize, p.MaxSize)
	}
	if p.MinTime < 1 || p.MaxTime < p.MinTime {
		return fmt.Errorf("invalid time bounds [%d, %d]", p.MinTime, p.MaxTime)
	}
	return nil
}

// ValidationError описывает нарушение предусловий. Kind — одна из ошибок Err*.
type ValidationError struct {
	Kind  error
	N, M  int
	Index int
	Value int
	Min   int
	Max   int
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ErrSizeOutOfRange:
		return fmt.Sprintf("%v: n must be in range [%d, %d] (n=%d)", e.Kind, e.Min, e.Max, e.N)
	case ErrDegenerateInstance:
		return fmt.Sprintf("%v: n must be greater than m (n=%d, m=%d)", e.Kind, e.N, e.M)
	case ErrValueOutOfRange:
		return fmt.Sprintf("%v: processing time at index %d is %d, must be in range [%d, %d]",
			e.Kind, e.Index, e.Value, e.Min, e.Max)
	}
	return fmt.Sprintf("invalid instance: %v", e.Kind)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// Validate проверяет экземпляр до любых вычислений. Побочных эффектов нет.
func Validate(times []int, m int, p ValidationPolicy) error {
	n := len(times)
	if p.EnforceSizeBounds && (n < p.MinSize || n > p.MaxSize) {
		return &ValidationError{Kind: ErrSizeOutOfRange, N: n, M: m, Min: p.MinSize, Max: p.MaxSize}
	}
	if m < 1 || n <= m {
		return &ValidationError{Kind: ErrDegenerateInstance, N: n, M: m}
	}
	for i, t := range times {
		if t < p.MinTime || t > p.MaxTime {
			return &ValidationError{Kind: ErrValueOutOfRange, N: n, M: m, Index: i, Value: t, Min: p.MinTime, Max: p.MaxTime}
		}
	}
	return nil
}
