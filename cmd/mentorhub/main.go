package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mentorhub/internal/clock"
	"github.com/smallbiznis/mentorhub/internal/config"
	"github.com/smallbiznis/mentorhub/internal/migration"
	"github.com/smallbiznis/mentorhub/internal/observability"
	"github.com/smallbiznis/mentorhub/internal/server"
	"github.com/smallbiznis/mentorhub/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Schema and demo data run before the HTTP server starts.
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
