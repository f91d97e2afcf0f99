// Package seed provides helpers to create demo data for the wishlist store. These
// helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"

	"giftlist/internal/models"
	"giftlist/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the credential every seeded user can sign in with.
const DefaultPassword = "password123"

// Options tunes random seeding.
type Options struct {
	NumUsers          int
	CategoriesPerUser int
	GiftsPerCategory  int
	// FriendRatio is the chance that any two users are friends.
	FriendRatio float64
	// ActionRatio is the chance that a friend acts on any visible gift.
	ActionRatio float64
	// SecretRatio is the chance that a friend adds a secret gift to a category.
	SecretRatio float64
	SkipBcrypt  bool
	// Seed makes the generated data reproducible when non-zero.
	Seed int64
}

// DefaultOptions returns a small but well-connected population.
func DefaultOptions() Options {
	return Options{
		NumUsers:          10,
		CategoriesPerUser: 3,
		GiftsPerCategory:  4,
		FriendRatio:       0.4,
		ActionRatio:       0.3,
		SecretRatio:       0.2,
	}
}

// Factory builds domain entities. Users are written directly since the store never
// creates them; everything else goes through the services so the store's rules hold.
type Factory struct {
	db    *gorm.DB
	svc   *service.Services
	faker *gofakeit.Faker
	opts  Options
}

// NewFactory creates a new Factory bound to db and svc.
func NewFactory(db *gorm.DB, svc *service.Services, opts Options) *Factory {
	return &Factory{db: db, svc: svc, faker: gofakeit.New(opts.Seed), opts: opts}
}

// CreateUser constructs and persists a sample user. Optional overrides may modify the
// generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	return f.CreateUserWithPassword(DefaultPassword, overrides...)
}

// CreateUserWithPassword is CreateUser with an explicit password. An empty password
// falls back to DefaultPassword.
func (f *Factory) CreateUserWithPassword(password string, overrides ...func(*models.User)) (*models.User, error) {
	if password == "" {
		password = DefaultPassword
	}
	picture := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID())
	user := &models.User{
		Name:    f.faker.FirstName() + " " + f.faker.LastName(),
		Picture: &picture,
	}

	credential, err := f.credential(password)
	if err != nil {
		return nil, err
	}
	user.Credential = credential

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %q: %w", user.Name, err)
	}
	return user, nil
}

// credential hashes password unless the factory runs in fast mode.
func (f *Factory) credential(password string) (string, error) {
	if f.opts.SkipBcrypt {
		return password, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Befriend sends a request from a to b and has b accept it.
func (f *Factory) Befriend(ctx context.Context, a, b uint) error {
	req, err := f.svc.Friends.CreateRequest(ctx, a, b)
	if err != nil {
		return err
	}
	_, err = f.svc.Friends.Accept(ctx, b, req.ID)
	return err
}

// GiftFields generates a plausible gift description.
func (f *Factory) GiftFields() models.GiftFields {
	price := fmt.Sprintf("%.2f EUR", f.faker.Price(5, 250))
	where := f.faker.URL()
	picture := fmt.Sprintf("https://picsum.photos/seed/%s/600/600", f.faker.UUID())
	description := f.faker.Sentence(8)
	return models.GiftFields{
		Name:        f.faker.ProductName(),
		Description: &description,
		Price:       &price,
		WhereToBuy:  &where,
		Picture:     &picture,
	}
}

// CreateGift adds a generated gift to categoryID on behalf of userID.
func (f *Factory) CreateGift(ctx context.Context, userID, categoryID uint, secret bool) (*models.Gift, error) {
	return f.svc.Gifts.AddGift(ctx, userID, categoryID, f.GiftFields(), secret)
}

// RandomAction has actorID act on giftID with a random interest and buy state.
func (f *Factory) RandomAction(ctx context.Context, giftID, actorID uint) error {
	if f.faker.Bool() {
		if _, err := f.svc.Actions.SetInterested(ctx, giftID, actorID, true); err != nil {
			return err
		}
	}
	buy := models.BuyState(f.faker.RandomString([]string{
		string(models.BuyNone), string(models.BuyWantToBuy), string(models.BuyBought),
	}))
	if _, err := f.svc.Actions.SetBuyState(ctx, giftID, actorID, buy); err != nil {
		return err
	}
	return nil
}

func (f *Factory) chance(p float64) bool {
	return f.faker.Float64() < p
}
