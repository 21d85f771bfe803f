// Command seed fills the database with demo families.
package main

import (
	"context"
	"flag"
	"log"

	"heirloom/internal/config"
	"heirloom/internal/database"
	"heirloom/internal/seed"
)

func main() {
	families := flag.Int("families", 3, "Number of families to create")
	members := flag.Int("members", 4, "Members per family")
	stories := flag.Int("stories", 5, "Stories per member")
	randSeed := flag.Int64("seed", 0, "Random seed (0 picks one)")
	clean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Printf("Target: %d families x %d members x %d stories, clean=%v", *families, *members, *stories, *clean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	_, err = seed.NewSeeder(db, *randSeed).Run(context.Background(), seed.Options{
		Families:         *families,
		MembersPerFamily: *members,
		StoriesPerMember: *stories,
		Clean:            *clean,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
	log.Println("✨ All done!")
}
