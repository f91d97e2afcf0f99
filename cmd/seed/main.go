// Command seed populates the wishlist store with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"giftlist/internal/bootstrap"
	"giftlist/internal/config"
	"giftlist/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	categories := flag.Int("categories", defaults.CategoriesPerUser, "Categories per user")
	gifts := flag.Int("gifts", defaults.GiftsPerCategory, "Gifts per category")
	friendRatio := flag.Float64("friend-ratio", defaults.FriendRatio, "Chance that two users are friends")
	fixture := flag.String("fixture", "", "Load a YAML fixture instead of random data")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fast := flag.Bool("fast", false, "Store plain-text credentials instead of bcrypt hashes")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data")
	flag.Parse()

	log.Println("🌱 Wishlist Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	rt, err := bootstrap.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialise runtime: %v", err)
	}
	ctx := context.Background()
	defer func() { _ = rt.Shutdown(ctx) }()

	opts := defaults
	opts.NumUsers = *numUsers
	opts.CategoriesPerUser = *categories
	opts.GiftsPerCategory = *gifts
	opts.FriendRatio = *friendRatio
	opts.SkipBcrypt = *fast
	opts.Seed = *randSeed
	s := seed.NewSeeder(rt.DB, rt.Services, opts)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if *fixture != "" {
		log.Printf("Applying fixture: %s (ignoring random flags)", *fixture)
		fx, err := seed.LoadFixtureFile(*fixture)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		users, err := s.Apply(ctx, fx)
		if err != nil {
			log.Fatalf("❌ Fixture seeding failed: %v", err)
		}
		for name, id := range users {
			log.Printf("user %-12s id=%d", name, id)
		}
	} else if _, err := s.Random(ctx); err != nil {
		log.Fatalf("❌ Random seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	if !*fast {
		log.Printf("📧 Generated users have the password: %s", seed.DefaultPassword)
	}
}
