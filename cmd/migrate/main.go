// Command migrate runs schema operations for the wishlist store.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"giftlist/internal/config"
	"giftlist/internal/database"
	"giftlist/internal/models"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.DBAutoMigrate = false

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Println("automigrations applied")
	case "status":
		missing := 0
		for _, m := range models.AllModels() {
			present := db.Migrator().HasTable(m)
			if !present {
				missing++
			}
			log.Printf("%-28T present=%t", m, present)
		}
		log.Printf("driver=%s missing=%d", cfg.DBDriver, missing)
	default:
		return usage()
	}
	return nil
}
