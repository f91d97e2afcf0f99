package seed

import (
	"context"
	"fmt"
	"log"

	"giftlist/internal/models"
	"giftlist/internal/service"

	"gorm.io/gorm"
)

var categoryNames = []string{
	"Default", "Books", "Music", "Games", "Kitchen", "Garden", "Travel", "Sports",
	"Clothes", "Tech", "Art", "Toys", "Experiences", "Home", "Outdoors",
}

// Seeder fills a database through the store services.
type Seeder struct {
	db      *gorm.DB
	svc     *service.Services
	factory *Factory
	opts    Options
}

// NewSeeder creates a new Seeder.
func NewSeeder(db *gorm.DB, svc *service.Services, opts Options) *Seeder {
	return &Seeder{db: db, svc: svc, factory: NewFactory(db, svc, opts), opts: opts}
}

// Factory exposes the seeder's entity factory.
func (s *Seeder) Factory() *Factory {
	return s.factory
}

// ClearAll removes every row from the wishlist relations, children first.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	relations := models.AllModels()
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := len(relations) - 1; i >= 0; i-- {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(relations[i]).Error; err != nil {
				return fmt.Errorf("clear %T: %w", relations[i], err)
			}
		}
		return nil
	})
}

// Stats counts what Random created.
type Stats struct {
	Users       int
	Friendships int
	Categories  int
	Gifts       int
	SecretGifts int
	Actions     int
}

// Random populates the database with generated users, friendships, categories, gifts
// and actions.
func (s *Seeder) Random(ctx context.Context) (*Stats, error) {
	opts := s.opts
	log.Printf("🌱 Seeding %d users, %d categories each, %d gifts per category...",
		opts.NumUsers, opts.CategoriesPerUser, opts.GiftsPerCategory)

	stats := &Stats{}
	users := make([]uint, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, u.ID)
	}
	stats.Users = len(users)
	log.Printf("✓ %d users created", stats.Users)

	friends := make(map[uint][]uint, len(users))
	for i := range users {
		for j := i + 1; j < len(users); j++ {
			if !s.factory.chance(opts.FriendRatio) {
				continue
			}
			if err := s.factory.Befriend(ctx, users[i], users[j]); err != nil {
				return nil, fmt.Errorf("befriend %d and %d: %w", users[i], users[j], err)
			}
			friends[users[i]] = append(friends[users[i]], users[j])
			friends[users[j]] = append(friends[users[j]], users[i])
			stats.Friendships++
		}
	}
	log.Printf("✓ %d friendships", stats.Friendships)

	type ownedGift struct {
		id    uint
		owner uint
	}
	var gifts []ownedGift
	for _, u := range users {
		for c := 0; c < opts.CategoriesPerUser; c++ {
			name := categoryNames[c%len(categoryNames)]
			cat, err := s.svc.Categories.AddCategory(ctx, name, u)
			if err != nil {
				return nil, err
			}
			stats.Categories++

			for g := 0; g < opts.GiftsPerCategory; g++ {
				gift, err := s.factory.CreateGift(ctx, u, cat.ID, false)
				if err != nil {
					return nil, err
				}
				gifts = append(gifts, ownedGift{id: gift.ID, owner: u})
				stats.Gifts++
			}

			if len(friends[u]) > 0 && s.factory.chance(opts.SecretRatio) {
				author := friends[u][s.factory.faker.IntRange(0, len(friends[u])-1)]
				gift, err := s.factory.CreateGift(ctx, author, cat.ID, true)
				if err != nil {
					return nil, err
				}
				gifts = append(gifts, ownedGift{id: gift.ID, owner: u})
				stats.SecretGifts++
			}
		}
	}
	log.Printf("✓ %d categories, %d gifts, %d secret gifts", stats.Categories, stats.Gifts, stats.SecretGifts)

	for _, g := range gifts {
		for _, f := range friends[g.owner] {
			if !s.factory.chance(opts.ActionRatio) {
				continue
			}
			if err := s.factory.RandomAction(ctx, g.id, f); err != nil {
				return nil, fmt.Errorf("action of %d on gift %d: %w", f, g.id, err)
			}
			stats.Actions++
		}
	}
	log.Printf("✓ %d actions", stats.Actions)

	log.Println("🎉 Database seeding completed successfully!")
	return stats, nil
}
