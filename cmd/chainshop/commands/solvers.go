package commands

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chainShop/internal/chain"
	"chainShop/internal/compare"
	"chainShop/internal/config"
	"chainShop/internal/mip"
	"chainShop/internal/opt"
	"chainShop/internal/pseudo"
	"chainShop/internal/results"
	"chainShop/internal/sa"
	"chainShop/internal/ts"
)

// newHarness собирает стенд: комбинаторный поиск и, если withOracle, оракул.
func newHarness(policy chain.ValidationPolicy, oracleCfg mip.Config, withOracle bool) (*compare.Harness, error) {
	ps, err := pseudo.New(pseudo.Config{Policy: policy}, logger)
	if err != nil {
		return nil, err
	}
	h := &compare.Harness{Primary: ps, Tolerance: cfg.Compare.Tolerance, Log: logger}
	if withOracle {
		ms, err := mip.New(oracleCfg, policy, logger)
		if err != nil {
			return nil, err
		}
		h.Oracle = ms
	}
	return h, nil
}

// newHeuristicFactory возвращает фабрику эвристики algo; сид задаёт генератор прогона.
func newHeuristicFactory(algo string, saCfg sa.Config, tsCfg ts.Config) (func(seed int64) (opt.Solver, error), error) {
	switch algo {
	case config.HeuristicSA:
		if err := saCfg.Validate(); err != nil {
			return nil, fmt.Errorf("simulated annealing: %w", err)
		}
		return func(seed int64) (opt.Solver, error) {
			return sa.New(saCfg, rand.New(rand.NewSource(seed)), logger)
		}, nil
	case config.HeuristicTS:
		if err := tsCfg.Validate(); err != nil {
			return nil, fmt.Errorf("tabu search: %w", err)
		}
		return func(seed int64) (opt.Solver, error) {
			return ts.New(tsCfg, rand.New(rand.NewSource(seed)), logger)
		}, nil
	}
	return nil, fmt.Errorf("unknown heuristic %q (expected %s or %s)", algo, config.HeuristicSA, config.HeuristicTS)
}

// openSinks собирает приёмники результатов из конфигурации. dir пустой —
// без JSON-файлов. Возвращаемая функция закрывает открытые соединения.
func openSinks(ctx context.Context, dir string) (results.Sink, func() error, error) {
	var (
		sinks   results.MultiSink
		closers []func() error
	)
	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c())
		}
		return errors.Join(errs...)
	}

	if dir != "" {
		sinks = append(sinks, results.DirSink(dir))
	}
	if path := cfg.Results.SQLite; path != "" {
		store, err := results.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open SQLite store %s: %w", path, err)
		}
		sinks = append(sinks, store)
		closers = append(closers, store.Close)
	}
	if addr := cfg.Results.RedisAddr; addr != "" {
		rs, err := results.NewRedisSink(&redis.Options{Addr: addr}, cfg.Results.RedisPrefix)
		if err == nil {
			err = rs.Ping(ctx)
			if err != nil {
				rs.Close()
			}
		}
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
		}
		sinks = append(sinks, rs)
		closers = append(closers, rs.Close)
	}

	logger.Debug("result sinks", zap.Int("count", len(sinks)))
	if len(sinks) == 0 {
		return nil, closeAll, nil
	}
	return sinks, closeAll, nil
}
