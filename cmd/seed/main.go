// Command seed fills the database with demo users, posts and engagement.
package main

import (
	"context"
	"flag"
	"log"

	"inkspace/internal/config"
	"inkspace/internal/database"
	"inkspace/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	maxDays := flag.Int("days", 30, "Spread post timestamps over this many past days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	seedValue := flag.Int64("seed", 0, "Random seed for reproducible data (0 = random)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	stats, err := seed.NewSeeder(db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		MaxDays:     *maxDays,
		ShouldClean: *shouldClean,
		Seed:        *seedValue,
	}).Run(context.Background())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d posts, %d comments, %d likes, %d follows",
		stats.Users, stats.Posts, stats.Comments, stats.Likes, stats.Follows)
}
