package main

import (
	"context"
	"flag"
	"log"

	"github.com/ikkim/emporium-backend/config"
	"github.com/ikkim/emporium-backend/internal/db"
	"github.com/ikkim/emporium-backend/pkg/logger"
)

const usage = `Usage: go run ./cmd/migrate <command> [args]

Commands:
  up                   apply all pending migrations
  up-to VERSION        apply migrations up to VERSION
  down                 roll back the latest migration
  down-to VERSION      roll back to VERSION
  redo                 roll back and re-apply the latest migration
  status               print the status of every migration
  version              print the current schema version`

func main() {
	flag.Usage = func() { log.Println(usage) }
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		log.Fatal("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	sqlDB, err := db.GetDB().DB()
	if err != nil {
		logger.Fatal("Failed to get database instance", err)
	}

	command, args := flag.Arg(0), flag.Args()[1:]
	if err := db.Migrate(context.Background(), sqlDB, command, args...); err != nil {
		logger.Fatal("Migration failed", err, logger.Fields{"command": command})
	}
}
