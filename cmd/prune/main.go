// Command prune deletes expired notifications and search history once and exits.
package main

import (
	"context"
	"log"
	"time"

	"inkspace/internal/config"
	"inkspace/internal/database"
	"inkspace/internal/jobs"
	"inkspace/internal/middleware"
	"inkspace/internal/repository"
	"inkspace/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	store := repository.NewStore(db)
	job := jobs.NewPruneJob(
		service.NewNotificationService(store, nil, cfg.NotificationRetention),
		service.NewSearchService(store, cfg.SearchRetention),
		middleware.Logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := job.RunOnce(ctx)
	if err != nil {
		log.Fatalf("Prune failed: %v", err)
	}
	log.Printf("Pruned %d notifications and %d search entries", res.Notifications, res.Searches)
}
