// Command main runs the database seeder for Plume.
package main

import (
	"flag"
	"log"

	"plume/internal/config"
	"plume/internal/database"
	"plume/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	maxDays := flag.Int("max-days", 90, "Spread post timestamps over the past N days")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (much faster, dev only)")
	manifest := flag.String("manifest", "", "Apply a YAML seed manifest instead of random data")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumUsers:   *numUsers,
		NumPosts:   *numPosts,
		MaxDays:    *maxDays,
		SkipBcrypt: *skipBcrypt,
	})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if *manifest != "" {
		log.Printf("Applying manifest %s (ignoring count flags)", *manifest)
		m, err := seed.LoadManifest(*manifest)
		if err != nil {
			log.Fatalf("Manifest load failed: %v", err)
		}
		if err := s.ApplyManifest(m); err != nil {
			log.Fatalf("Manifest seeding failed: %v", err)
		}
	} else {
		log.Printf("Target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)
		users, err := s.SeedSocialMesh(*numUsers)
		if err != nil {
			log.Fatalf("User seeding failed: %v", err)
		}
		if _, err := s.SeedEngagement(users, *numPosts); err != nil {
			log.Fatalf("Engagement seeding failed: %v", err)
		}
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Println("All test users have the password: password123")
}
