package mip

import (
	"fmt"
	"time"
)

type Config struct {
	// TimeLimit — жёсткий предел времени решения; по истечении возвращается
	// лучшее найденное решение со статусом time_limit.
	TimeLimit time.Duration
	// MIPGap — допустимый относительный разрыв (inc-LB)/inc, в [0,1]. 0 — доказывать оптимум.
	MIPGap float64
	// Anchoring фиксирует первую работу на первой машине, последнюю — на последней.
	Anchoring bool
	// NodeLimit ограничивает число узлов дерева поиска; 0 — без ограничения.
	NodeLimit int
}

func DefaultConfig() Config {
	return Config{
		TimeLimit: time.Hour,
		MIPGap:    0,
		Anchoring: true,
		NodeLimit: 0,
	}
}

func (c Config) Validate() error {
	if c.TimeLimit <= 0 {
		return fmt.Errorf(
			"предел времени должен быть > 0 (получено %s)",
			c.TimeLimit,
		)
	}
	if c.MIPGap < 0 || c.MIPGap > 1 {
		return fmt.Errorf(
			"MIPGap должен быть в диапазоне [0,1] (получено %f)",
			c.MIPGap,
		)
	}
	if c.NodeLimit < 0 {
		return fmt.Errorf(
			"NodeLimit должно быть >= 0 (получено %d)",
			c.NodeLimit,
		)
	}
	return nil
}
