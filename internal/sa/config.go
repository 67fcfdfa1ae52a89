package sa

import (
	"fmt"

	"chainShop/internal/chain"
)

// Тип окрестности
type Neighborhood string

const (
	// NeighborhoodShift сдвигает одну границу блока между соседними границами.
	NeighborhoodShift Neighborhood = "shift"
	// NeighborhoodJump переносит границу в произвольную свободную позицию.
	NeighborhoodJump Neighborhood = "jump"
)

type Config struct {
	Iterations       int
	IterationsPerJob int

	InitialTemp float64
	FinalTemp   float64
	Alpha       float64

	Neighborhood Neighborhood

	Policy chain.ValidationPolicy
}

func DefaultConfig() Config {
	return Config{
		Iterations:       0,
		IterationsPerJob: 200,

		InitialTemp: 50.0,
		FinalTemp:   0.05,
		Alpha:       0.995,

		Neighborhood: NeighborhoodShift,

		Policy: chain.DefaultPolicy(),
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerJob <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerJob > 0",
		)
	}
	if c.InitialTemp <= 0 {
		return fmt.Errorf(
			"InitialTemp должно быть > 0 (получено %f)",
			c.InitialTemp,
		)
	}
	if c.FinalTemp <= 0 {
		return fmt.Errorf(
			"FinalTemp должно быть > 0 (получено %f)",
			c.FinalTemp,
		)
	}
	if c.FinalTemp >= c.InitialTemp {
		return fmt.Errorf(
			"FinalTemp должно быть < InitialTemp (получено %f >= %f)",
			c.FinalTemp,
			c.InitialTemp,
		)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf(
			"alpha должно лежать в интервале (0,1) (получено %f)",
			c.Alpha,
		)
	}
	switch c.Neighborhood {
	case NeighborhoodShift, NeighborhoodJump:
		// ok
	default:
		return fmt.Errorf(
			"неизвестный тип окрестности %q",
			c.Neighborhood,
		)
	}
	if err := c.Policy.Check(); err != nil {
		return fmt.Errorf("политика валидации: %w", err)
	}
	return nil
}
