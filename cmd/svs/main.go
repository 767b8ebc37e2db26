package main

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/config"
	"github.com/lionnelpat/svs-backend-sub002/internal/migration"
	"github.com/lionnelpat/svs-backend-sub002/internal/observability"
	"github.com/lionnelpat/svs-backend-sub002/internal/server"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

// RegisterSnowflake builds the process-wide ID generator. NODE_ID must be
// unique per running instance so IDs never collide across replicas.
func RegisterSnowflake() *snowflake.Node {
	nodeID := int64(1)
	if raw := os.Getenv("NODE_ID"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			panic(err)
		}
		nodeID = parsed
	}

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		panic(err)
	}
	return node
}
