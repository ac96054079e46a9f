package statscache

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/config"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/usecase"
)

// Module wires the optional stats cache. Without a Redis address the
// dependency resolves to nil and callers fall through to storage.
var Module = fx.Provide(newStatsCache)

type cacheParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newStatsCache(p cacheParams) usecase.StatsCache {
	if p.Config.RedisAddress == "" {
		return nil
	}

	cache := New(p.Config.RedisAddress, p.Config.StatsCacheTTL, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return cache.Close()
		},
	})
	return cache
}
