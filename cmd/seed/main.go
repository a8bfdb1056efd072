// Command main fills the database with a demo dataset for Even.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"even/internal/config"
	"even/internal/database"
	"even/internal/middleware"
	"even/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 30, "Number of users to create")
	numPosts := flag.Int("posts", 120, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fast := flag.Bool("fast", false, "Hash the demo password at minimum bcrypt cost")
	fakerSeed := flag.Int64("seed", 0, "Faker seed for a reproducible dataset (0 = random)")
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	summary, err := seed.NewSeeder(db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
		FastHash:    *fast,
		FakerSeed:   *fakerSeed,
		Logger:      middleware.Logger,
	}).Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d hubs, %d users, %d posts, %d comments", summary.Hubs, summary.Users, summary.Posts, summary.Comments)
	log.Printf("All demo users have the password: %s", seed.DemoPassword)
}
