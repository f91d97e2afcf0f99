package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"giftlist/internal/models"

	"gopkg.in/yaml.v3"
)

// Fixture is a hand-written population, usually loaded from a YAML file. Users are
// referenced by name everywhere else in the file.
type Fixture struct {
	Users      []FixtureUser     `yaml:"users"`
	Friends    [][2]string       `yaml:"friends"`
	Requests   []FixtureRequest  `yaml:"requests"`
	Categories []FixtureCategory `yaml:"categories"`
}

// FixtureUser is a user to create. An empty password falls back to DefaultPassword.
type FixtureUser struct {
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	Picture  string `yaml:"picture"`
}

// FixtureRequest is a friend request left pending, or blocked when Blocked is set.
type FixtureRequest struct {
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Blocked bool   `yaml:"blocked"`
}

// FixtureCategory is a category with its owners and gifts in rank order.
type FixtureCategory struct {
	Name   string        `yaml:"name"`
	Owners []string      `yaml:"owners"`
	Gifts  []FixtureGift `yaml:"gifts"`
}

// FixtureGift is a gift. By defaults to the first owner; set it to a friend of an
// owner for a secret gift.
type FixtureGift struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Price       string          `yaml:"price"`
	WhereToBuy  string          `yaml:"where_to_buy"`
	Picture     string          `yaml:"picture"`
	Secret      bool            `yaml:"secret"`
	By          string          `yaml:"by"`
	Actions     []FixtureAction `yaml:"actions"`
}

// FixtureAction is one friend's interest in or purchase of a gift.
type FixtureAction struct {
	User       string `yaml:"user"`
	Interested bool   `yaml:"interested"`
	Buy        string `yaml:"buy"`
}

// ParseFixture decodes a YAML fixture. Unknown keys are rejected.
func ParseFixture(data []byte) (*Fixture, error) {
	var fx Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &fx, nil
}

// LoadFixtureFile reads and decodes the fixture at path.
func LoadFixtureFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// Apply writes the fixture and returns the created users by name.
func (s *Seeder) Apply(ctx context.Context, fx *Fixture) (map[string]uint, error) {
	users := make(map[string]uint, len(fx.Users))
	for _, u := range fx.Users {
		if _, dup := users[u.Name]; dup {
			return nil, fmt.Errorf("user %q listed twice", u.Name)
		}
		created, err := s.factory.CreateUserWithPassword(u.Password, func(m *models.User) {
			m.Name = u.Name
			if u.Picture != "" {
				m.Picture = &u.Picture
			} else {
				m.Picture = nil
			}
		})
		if err != nil {
			return nil, err
		}
		users[u.Name] = created.ID
	}

	lookup := func(name string) (uint, error) {
		id, ok := users[name]
		if !ok {
			return 0, fmt.Errorf("unknown user %q", name)
		}
		return id, nil
	}

	for _, pair := range fx.Friends {
		a, err := lookup(pair[0])
		if err != nil {
			return nil, err
		}
		b, err := lookup(pair[1])
		if err != nil {
			return nil, err
		}
		if err := s.factory.Befriend(ctx, a, b); err != nil {
			return nil, fmt.Errorf("befriend %s and %s: %w", pair[0], pair[1], err)
		}
	}

	for _, r := range fx.Requests {
		from, err := lookup(r.From)
		if err != nil {
			return nil, err
		}
		to, err := lookup(r.To)
		if err != nil {
			return nil, err
		}
		req, err := s.svc.Friends.CreateRequest(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("request %s -> %s: %w", r.From, r.To, err)
		}
		if r.Blocked {
			if err := s.svc.Friends.Decline(ctx, to, req.ID, true); err != nil {
				return nil, fmt.Errorf("block %s -> %s: %w", r.From, r.To, err)
			}
		}
	}

	for _, c := range fx.Categories {
		if err := s.applyCategory(ctx, c, lookup); err != nil {
			return nil, fmt.Errorf("category %q: %w", c.Name, err)
		}
	}
	return users, nil
}

func (s *Seeder) applyCategory(ctx context.Context, c FixtureCategory, lookup func(string) (uint, error)) error {
	if len(c.Owners) == 0 {
		return errors.New("no owners")
	}
	owners := make([]uint, 0, len(c.Owners))
	for _, name := range c.Owners {
		id, err := lookup(name)
		if err != nil {
			return err
		}
		owners = append(owners, id)
	}
	cat, err := s.svc.Categories.AddCategory(ctx, c.Name, owners...)
	if err != nil {
		return err
	}

	for _, g := range c.Gifts {
		author := owners[0]
		if g.By != "" {
			if author, err = lookup(g.By); err != nil {
				return err
			}
		}
		gift, err := s.svc.Gifts.AddGift(ctx, author, cat.ID, models.GiftFields{
			Name:        g.Name,
			Description: optional(g.Description),
			Price:       optional(g.Price),
			WhereToBuy:  optional(g.WhereToBuy),
			Picture:     optional(g.Picture),
		}, g.Secret)
		if err != nil {
			return fmt.Errorf("gift %q: %w", g.Name, err)
		}

		for _, a := range g.Actions {
			actor, err := lookup(a.User)
			if err != nil {
				return err
			}
			if a.Interested {
				if _, err := s.svc.Actions.SetInterested(ctx, gift.ID, actor, true); err != nil {
					return fmt.Errorf("gift %q interest of %s: %w", g.Name, a.User, err)
				}
			}
			if a.Buy != "" {
				if _, err := s.svc.Actions.SetBuyState(ctx, gift.ID, actor, models.BuyState(a.Buy)); err != nil {
					return fmt.Errorf("gift %q buy state of %s: %w", g.Name, a.User, err)
				}
			}
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
