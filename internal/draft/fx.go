package draft

import (
	"context"

	"github.com/smallbiznis/mystore/internal/draft/service"
	"go.uber.org/fx"
)

var Module = fx.Module("draft.service",
	fx.Provide(service.NewManager),
	fx.Invoke(func(lc fx.Lifecycle, m *service.Manager) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				m.Shutdown()
				return nil
			},
		})
	}),
)
