package pseudo

import (
	"fmt"

	"chainShop/internal/chain"
)

type Config struct {
	Policy chain.ValidationPolicy
}

func DefaultConfig() Config {
	return Config{Policy: chain.DefaultPolicy()}
}

func (c Config) Validate() error {
	if err := c.Policy.Check(); err != nil {
		return fmt.Errorf("политика валидации: %w", err)
	}
	return nil
}
