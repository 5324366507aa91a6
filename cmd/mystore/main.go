package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mystore/internal/catalog"
	"github.com/smallbiznis/mystore/internal/clock"
	"github.com/smallbiznis/mystore/internal/config"
	"github.com/smallbiznis/mystore/internal/draft"
	"github.com/smallbiznis/mystore/internal/media"
	"github.com/smallbiznis/mystore/internal/migration"
	"github.com/smallbiznis/mystore/internal/observability"
	"github.com/smallbiznis/mystore/internal/product"
	"github.com/smallbiznis/mystore/internal/server"
	"github.com/smallbiznis/mystore/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,

		// Functional Domains
		catalogBackend(config.Load()),
		catalog.Module,
		media.Module,
		draft.Module,

		server.Module,
	)
	app.Run()
}

// catalogBackend serves the catalog from the database unless
// CATALOG_API_URL points at a separate catalog API.
func catalogBackend(cfg config.Config) fx.Option {
	if cfg.RemoteCatalog() {
		return catalog.RemoteModule
	}
	return fx.Options(
		db.Module,
		product.Module,
		migration.Module,
	)
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
