// Package config загружает настройки chainshop из YAML-файла.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"chainShop/internal/bench"
	"chainShop/internal/chain"
	"chainShop/internal/compare"
	"chainShop/internal/mip"
)

type Config struct {
	Policy  PolicyConfig  `yaml:"policy"`
	Oracle  OracleConfig  `yaml:"oracle"`
	Compare CompareConfig `yaml:"compare"`
	Bench   BenchConfig   `yaml:"bench"`
	Results ResultsConfig `yaml:"results"`
}

// PolicyConfig — границы допустимых экземпляров для производственного режима.
type PolicyConfig struct {
	MinSize           int  `yaml:"min_size"`
	MaxSize           int  `yaml:"max_size"`
	EnforceSizeBounds bool `yaml:"enforce_size_bounds"`
	MinTime           int  `yaml:"min_time"`
	MaxTime           int  `yaml:"max_time"`
}

type OracleConfig struct {
	TimeLimit time.Duration `yaml:"time_limit"` // "3600s", "30m"
	MIPGap    float64       `yaml:"mip_gap"`
	Anchoring bool          `yaml:"anchoring"`
	NodeLimit int           `yaml:"node_limit"` // 0 = без ограничения
}

type CompareConfig struct {
	Tolerance float64 `yaml:"tolerance"`
}

type BenchConfig struct {
	Pairs         string        `yaml:"pairs"` // "50x10,100x20"
	Runs          int           `yaml:"runs"`
	Seed          int64         `yaml:"seed"`          // сид эвристики
	InstanceSeed  int64         `yaml:"instance_seed"` // сид генерации экземпляров
	Workers       int           `yaml:"workers"`
	PerRunTimeout time.Duration `yaml:"per_run_timeout"` // 0 = без ограничения
	Heuristic     bool          `yaml:"heuristic"`       // добавить эвристику
	HeuristicAlgo string        `yaml:"heuristic_algo"`  // "sa" | "ts"
	Out           string        `yaml:"out"`             // путь CSV
}

// Эвристики для bench
const (
	HeuristicSA = "sa"
	HeuristicTS = "ts"
)

type ResultsConfig struct {
	Dir         string `yaml:"dir"`
	SQLite      string `yaml:"sqlite"`     // пусто = выключено
	RedisAddr   string `yaml:"redis_addr"` // пусто = выключено
	RedisPrefix string `yaml:"redis_prefix"`
}

func Default() Config {
	p := chain.DefaultPolicy()
	o := mip.DefaultConfig()
	return Config{
		Policy: PolicyConfig{
			MinSize:           p.MinSize,
			MaxSize:           p.MaxSize,
			EnforceSizeBounds: p.EnforceSizeBounds,
			MinTime:           p.MinTime,
			MaxTime:           p.MaxTime,
		},
		Oracle: OracleConfig{
			TimeLimit: o.TimeLimit,
			MIPGap:    o.MIPGap,
			Anchoring: o.Anchoring,
			NodeLimit: o.NodeLimit,
		},
		Compare: CompareConfig{Tolerance: compare.DefaultTolerance},
		Bench: BenchConfig{
			Pairs:         "50x10,100x20",
			Runs:          5,
			Seed:          1,
			InstanceSeed:  42,
			Workers:       4,
			Heuristic:     true,
			HeuristicAlgo: HeuristicSA,
			Out:           "results/bench.csv",
		},
		Results: ResultsConfig{
			Dir:         "results",
			RedisPrefix: "chainshop",
		},
	}
}

// Load читает YAML поверх значений по умолчанию. Пустой path — только умолчания.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.ValidationPolicy().Check(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	if err := c.MIP().Validate(); err != nil {
		return fmt.Errorf("oracle: %w", err)
	}
	if c.Compare.Tolerance <= 0 {
		return fmt.Errorf("compare: tolerance must be > 0 (got %g)", c.Compare.Tolerance)
	}
	if _, err := bench.ParsePairs(c.Bench.Pairs, c.Bench.InstanceSeed); err != nil {
		return fmt.Errorf("bench: %w", err)
	}
	if c.Bench.Runs < 1 {
		return fmt.Errorf("bench: runs must be >= 1 (got %d)", c.Bench.Runs)
	}
	if c.Bench.Workers < 1 {
		return fmt.Errorf("bench: workers must be >= 1 (got %d)", c.Bench.Workers)
	}
	switch c.Bench.HeuristicAlgo {
	case HeuristicSA, HeuristicTS:
	default:
		return fmt.Errorf("bench: heuristic_algo must be %q or %q (got %q)", HeuristicSA, HeuristicTS, c.Bench.HeuristicAlgo)
	}
	if c.Bench.PerRunTimeout < 0 {
		return fmt.Errorf("bench: per_run_timeout must be >= 0 (got %s)", c.Bench.PerRunTimeout)
	}
	if c.Results.RedisAddr != "" && c.Results.RedisPrefix == "" {
		return fmt.Errorf("results: redis_prefix is required when redis_addr is set")
	}
	return nil
}

func (c *Config) ValidationPolicy() chain.ValidationPolicy {
	return chain.ValidationPolicy{
		MinSize:           c.Policy.MinSize,
		MaxSize:           c.Policy.MaxSize,
		EnforceSizeBounds: c.Policy.EnforceSizeBounds,
		MinTime:           c.Policy.MinTime,
		MaxTime:           c.Policy.MaxTime,
	}
}

// MIP передаёт параметры оракула без изменений.
func (c *Config) MIP() mip.Config {
	return mip.Config{
		TimeLimit: c.Oracle.TimeLimit,
		MIPGap:    c.Oracle.MIPGap,
		Anchoring: c.Oracle.Anchoring,
		NodeLimit: c.Oracle.NodeLimit,
	}
}
