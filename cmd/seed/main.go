// Command main runs the database seeder for Trellis.
package main

import (
	"flag"
	"log"

	"trellis/internal/config"
	"trellis/internal/database"
	"trellis/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 3, "Number of users to create")
	entriesPerUser := flag.Int("entries", 12, "Number of journal entries per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d entries each, clean=%v\n", *numUsers, *entriesPerUser, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumUsers:       *numUsers,
		EntriesPerUser: *entriesPerUser,
		ShouldClean:    *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done. All seeded users log in with the password %q", seed.DefaultPassword)
}
