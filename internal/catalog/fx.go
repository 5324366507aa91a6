package catalog

import (
	"context"

	"github.com/smallbiznis/mystore/internal/catalog/cache"
	"github.com/smallbiznis/mystore/internal/catalog/client"
	"github.com/smallbiznis/mystore/internal/catalog/domain"
	"github.com/smallbiznis/mystore/internal/config"
	"github.com/smallbiznis/mystore/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module puts the read cache in front of whichever domain.Service the
// application provides and exposes it as Reader and Creator.
var Module = fx.Module("catalog",
	fx.Provide(cache.NewStore),
	fx.Provide(NewCachedReader),
	fx.Provide(func(r *cache.Reader) domain.Reader { return r }),
	fx.Provide(func(r *cache.Reader, svc domain.Service) domain.Creator { return r.WrapCreator(svc) }),
)

// RemoteModule serves the catalog from CATALOG_API_URL.
var RemoteModule = fx.Module("catalog.remote",
	fx.Provide(func(cfg config.Config, log *zap.Logger) domain.Service {
		return client.New(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, log)
	}),
)

func NewCachedReader(lc fx.Lifecycle, cfg config.Config, svc domain.Service, store cache.Store, m *metrics.CacheMetrics, log *zap.Logger) *cache.Reader {
	r := cache.NewReader(svc, store, cfg.Catalog.ReadCacheTTL, m, log)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			r.Wait()
			return nil
		},
	})
	return r
}
