// Command main runs the database seeder for Feedback Nexus.
package main

import (
	"flag"
	"log"

	"feedbacknexus/internal/config"
	"feedbacknexus/internal/database"
	"feedbacknexus/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	pagesPerUser := flag.Int("pages", 2, "Number of feedback pages per user")
	numMessages := flag.Int("messages", 300, "Number of messages to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	maxDays := flag.Int("max-days", 30, "Spread message timestamps over this many days")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("error closing database: %v", err)
		}
	}()

	if err := seed.Seed(db, seed.Options{
		NumUsers:     *numUsers,
		PagesPerUser: *pagesPerUser,
		NumMessages:  *numMessages,
		ShouldClean:  *shouldClean,
		MaxDays:      *maxDays,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
