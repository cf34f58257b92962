// Command main runs the database seeder for Auroric.
package main

import (
	"flag"
	"log"

	"auroric/internal/config"
	"auroric/internal/database"
	"auroric/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 12, "Number of users to create")
	numPins := flag.Int("pins", 60, "Number of pins to create")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
	force := flag.Bool("force", false, "Seed even when the database already has users")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d pins, clean=%v\n", *numUsers, *numPins, *shouldClean)

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

	opts := seed.Options{
		NumUsers:    *numUsers,
		NumPins:     *numPins,
		ShouldClean: *shouldClean,
	}

	if *force || *shouldClean {
		if err := seed.Seed(db, opts); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	} else {
		seeded, err := seed.SeedIfEmpty(db, opts)
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		if !seeded {
			log.Println("Database already has users; use -force to seed anyway")
			return
		}
	}

	log.Println("All done! Test users have the password: password123")
}
