package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pranchal07/heal/internal/config"
	"github.com/pranchal07/heal/internal/logging"
	"github.com/pranchal07/heal/internal/repository"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command] [flags]

Commands:
  up (default)  apply pending migrations
  down          roll back the most recent migration
  status        print the state of every migration

Flags:
  -c string     YAML config file
  -d string     PostgreSQL DSN`)
	os.Exit(1)
}

func main() {
	cmd := "up"
	args := os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	cfg, err := config.LoadConfig(args)
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("failed to load config", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, repository.PoolConfig{
		DSN:            cfg.Database.DSN(),
		MaxConns:       2,
		ConnectTimeout: cfg.Database.ConnectTimeout,
	})
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	db := repository.OpenDB(pool)
	defer db.Close()

	switch cmd {
	case "up":
		err = repository.EnsureSchema(ctx, db)
	case "down":
		err = repository.RollbackSchema(ctx, db)
	case "status":
		err = repository.SchemaStatus(ctx, db)
	default:
		usage()
	}
	if err != nil {
		logging.Fatal("migration failed", "command", cmd, "error", err)
	}
	slog.Info("migration command completed", "command", cmd)
}
