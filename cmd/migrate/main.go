// Command migrate creates or updates the database schema.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"heirloom/internal/config"
	"heirloom/internal/database"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
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

	// Connect would auto-migrate outside production; open directly so
	// "status" never changes the schema.
	db, err := gorm.Open(postgres.Open(database.DSN(cfg)), database.GormConfig())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Println("schema applied")
	case "status":
		for _, model := range database.Models() {
			log.Printf("%T: table present=%t", model, db.Migrator().HasTable(model))
		}
	default:
		return usage()
	}
	return nil
}
