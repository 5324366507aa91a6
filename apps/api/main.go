package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mystore/internal/catalog"
	"github.com/smallbiznis/mystore/internal/clock"
	"github.com/smallbiznis/mystore/internal/config"
	"github.com/smallbiznis/mystore/internal/media"
	"github.com/smallbiznis/mystore/internal/migration"
	"github.com/smallbiznis/mystore/internal/observability"
	"github.com/smallbiznis/mystore/internal/product"
	"github.com/smallbiznis/mystore/internal/server"
	"github.com/smallbiznis/mystore/pkg/db"
	"go.uber.org/fx"
)

// The catalog API: products, categories and uploads backed by the
// database. Draft sessions are not hosted here.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		product.Module,
		migration.Module,
		catalog.Module,
		media.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
