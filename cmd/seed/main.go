// Command seed populates the database with demo data.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"instawinx/internal/cache"
	"instawinx/internal/config"
	"instawinx/internal/database"
	"instawinx/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	postsPerUser := flag.Int("posts", 3, "Posts per user")
	friendRate := flag.Int("friend-rate", 30, "Chance in percent that two users share a friendship")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	log.Printf("Target: %d users, %d posts each, clean=%v", *numUsers, *postsPerUser, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Only used to drop cached users on cleanup.
	cache.InitRedis(cfg.RedisURL)

	ctx := context.Background()
	s := seed.NewSeeder(db, *seedValue)

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	res, err := s.Run(ctx, seed.Options{
		Users:          *numUsers,
		PostsPerUser:   *postsPerUser,
		FriendshipRate: *friendRate,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Created %d users, %d posts, %d likes, %d comments, %d friendships",
		len(res.Users), res.Posts, res.Likes, res.Comments, res.Friendships)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
