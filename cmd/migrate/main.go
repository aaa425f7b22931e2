// Command migrate applies, inspects and rolls back the engagement schema.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"inkspace/internal/config"
	"inkspace/internal/database"
	"inkspace/internal/middleware"

	"gorm.io/gorm"
)

var errUsage = errors.New("usage: migrate <up|auto|status|down <version>>")

func main() {
	flag.Parse()
	if err := run(flag.Args()); err != nil {
		middleware.Logger.Error("migrate failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errUsage
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

	switch args[0] {
	case "up":
		return database.RunMigrations(ctx, db)
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		return database.ApplySchema(ctx, db, cfg)
	case "status":
		return status(ctx, db, cfg)
	case "down":
		if len(args) < 2 {
			return errUsage
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return database.RollbackMigration(ctx, db, version)
	default:
		return errUsage
	}
}

// status prints the schema policy, pending migrations, per-table row counts
// and how many posts have a like counter out of step with their likes.
func status(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	log := middleware.Logger
	st, err := database.GetSchemaStatus(ctx, db, cfg)
	if err != nil {
		return err
	}
	log.Info("schema policy",
		slog.String("mode", st.Mode),
		slog.String("driver", st.Driver),
		slog.Bool("run_sql", st.WillRunSQL),
		slog.Bool("run_auto", st.WillRunAutoMigrate),
		slog.Int("applied", len(st.AppliedVersions)),
		slog.Int("pending", len(st.PendingMigrations)),
	)
	for _, m := range st.PendingMigrations {
		log.Info("pending migration", slog.String("migration", m.String()))
	}

	tables, err := database.TableStats(ctx, db)
	if err != nil {
		return err
	}
	for _, t := range tables {
		log.Info("table", slog.String("name", t.Table), slog.Bool("exists", t.Exists), slog.Int64("rows", t.Rows))
	}

	for _, t := range tables {
		if t.Table == "posts" && !t.Exists {
			return nil
		}
	}
	drift, err := database.LikeCounterDrift(ctx, db)
	if err != nil {
		return err
	}
	if drift > 0 {
		log.Warn("like counters out of step with like rows", slog.Int64("posts", drift))
	}
	return nil
}
