package ts

import (
	"fmt"

	"chainShop/internal/chain"
)

// Neighborhood определяет тип окрестности.
type Neighborhood string

const (
	// NeighborhoodStep сдвигает одну границу на одну позицию.
	NeighborhoodStep Neighborhood = "step"
	// NeighborhoodShift сдвигает одну границу в любую позицию между соседними границами.
	NeighborhoodShift Neighborhood = "shift"
)

type Config struct {
	Iterations       int
	IterationsPerJob int

	TabuTenure int

	TabuTenureRand int

	NeighborsPerIter int

	Neighborhood Neighborhood

	Policy chain.ValidationPolicy
}

func DefaultConfig() Config {
	return Config{
		Iterations:       0,
		IterationsPerJob: 50,

		TabuTenure:     7,
		TabuTenureRand: 3,

		NeighborsPerIter: 30,
		Neighborhood:     NeighborhoodShift,

		Policy: chain.DefaultPolicy(),
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerJob <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerJob > 0",
		)
	}
	if c.TabuTenure <= 0 {
		return fmt.Errorf(
			"TabuTenure должно быть > 0 (получено %d)",
			c.TabuTenure,
		)
	}
	if c.TabuTenureRand < 0 {
		return fmt.Errorf(
			"TabuTenureRand должно быть >= 0 (получено %d)",
			c.TabuTenureRand,
		)
	}
	if c.NeighborsPerIter <= 0 {
		return fmt.Errorf(
			"NeighborsPerIter должно быть > 0 (получено %d)",
			c.NeighborsPerIter,
		)
	}
	switch c.Neighborhood {
	case NeighborhoodStep, NeighborhoodShift:
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
