package database

import (
	"embed"
	"log"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies pending schema migrations against the connected
// database. Called once at startup, after Connect.
func Migrate() {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Error configuring migrations: %v", err)
	}
	if err := goose.Up(DB, "migrations"); err != nil {
		log.Fatalf("Error applying migrations: %v", err)
	}
}
