// Command seed populates the database with demo marketplace data.
package main

import (
	"flag"
	"log"

	"stayspot/internal/config"
	"stayspot/internal/database"
	"stayspot/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numSpots := flag.Int("spots", 60, "Number of spots to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("fast", false, "Skip bcrypt hashing for faster seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumUsers:    *numUsers,
		NumSpots:    *numSpots,
		ShouldClean: *shouldClean,
		SkipBcrypt:  *skipBcrypt,
	})
	if err := s.Run(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
