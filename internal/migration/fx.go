package migration

import (
	"context"

	"github.com/smallbiznis/mystore/internal/config"
	"github.com/smallbiznis/mystore/internal/product/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, categories *config.CategoryHolder, products *service.Service, log *zap.Logger) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else if err := AutoMigrate(conn); err != nil {
			return err
		}

		seeded := categories.Get()
		if err := products.SeedCategories(context.Background(), seeded); err != nil {
			return err
		}
		log.Named("migrations").Info("catalog schema ready", zap.Int("categories", len(seeded)))
		return nil
	}),
)
