// Command migrate applies, inspects, and rolls back the Even schema.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"even/internal/config"
	"even/internal/database"
	"even/internal/middleware"
	"even/internal/seed"
)

const usage = "usage: migrate <up|auto|status|down VERSION|hubs>"

func main() {
	flag.Parse()
	if err := run(flag.Args()); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return errors.New(usage)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	logger := middleware.Logger
	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		logger.Info("sql migrations applied")

	case "auto":
		if err := database.AutoMigrate(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		logger.Info("automigrations applied")

	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		logger.Info("schema status",
			slog.String("env", status.Environment),
			slog.Bool("automigrate", status.AutoMigrate),
			slog.Int("applied", len(status.AppliedVersions)),
			slog.Int("pending", len(status.Pending)),
		)
		for _, m := range status.Pending {
			logger.Info("pending migration", slog.String("migration", m.String()))
		}
		if len(status.MissingTables) > 0 {
			logger.Warn("tables missing", slog.String("tables", strings.Join(status.MissingTables, ", ")))
		}

	case "down":
		if len(args) < 2 {
			return errors.New("usage: migrate down VERSION")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		if err := database.RollbackMigration(ctx, db, version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		logger.Info("migration rolled back", slog.Int("version", version))

	case "hubs":
		hubs, err := seed.Hubs(ctx, db)
		if err != nil {
			return fmt.Errorf("hub catalog: %w", err)
		}
		logger.Info("hub catalog applied", slog.Int("hubs", len(hubs)))

	default:
		return errors.New(usage)
	}
	return nil
}
