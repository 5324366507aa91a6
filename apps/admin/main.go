package main

import (
	"log"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mystore/internal/catalog"
	"github.com/smallbiznis/mystore/internal/clock"
	"github.com/smallbiznis/mystore/internal/config"
	"github.com/smallbiznis/mystore/internal/draft"
	"github.com/smallbiznis/mystore/internal/media"
	"github.com/smallbiznis/mystore/internal/observability"
	"github.com/smallbiznis/mystore/internal/server"
	"go.uber.org/fx"
)

// The admin and storefront front end. Every catalog call goes to the
// catalog API at CATALOG_API_URL.
func main() {
	if !config.Load().RemoteCatalog() {
		log.Fatal("[admin] CATALOG_API_URL is required")
	}

	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,

		catalog.RemoteModule,
		catalog.Module,
		media.Module,
		draft.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(2)
	if err != nil {
		panic(err)
	}
	return node
}
