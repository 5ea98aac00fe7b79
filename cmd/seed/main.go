// Command seed populates the database with development data.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/anonto42/buddyscript/backend/internal/models"
	"github.com/anonto42/buddyscript/backend/internal/seed"
	"github.com/anonto42/buddyscript/backend/pkg/config"
	"github.com/anonto42/buddyscript/backend/pkg/logger"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 60, "Number of posts to create")
	maxComments := flag.Int("comments", 6, "Maximum comments per post")
	chainDepth := flag.Int("chain", 0, "Length of the deep reply chain (default: ancestor bound + 3)")
	randSeed := flag.Int64("seed", 0, "Random seed (0 picks one)")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	appLogger := logger.New(cfg.Env)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	if err := db.Postgres.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}, &models.Like{}); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	if *shouldClean {
		if err := seed.ClearAll(db.Postgres); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if *chainDepth == 0 {
		*chainDepth = cfg.FeedAncestorDepth + 3
	}

	s := seed.NewSeeder(db.Postgres, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		MaxComments: *maxComments,
		ChainDepth:  *chainDepth,
		Seed:        *randSeed,
	}, appLogger)

	summary, err := s.Run(context.Background())
	if err != nil {
		appLogger.Error("seed failed", slog.Any("error", err))
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d users, %d posts, %d comments, %d likes", summary.Users, summary.Posts, summary.Comments, summary.Likes)
	log.Printf("All seeded users share the password: %s", seed.DefaultPassword)
}
