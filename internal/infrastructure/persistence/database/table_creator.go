// Package database provides schema instantiation
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/security"
)

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the database tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedInitialContent adds the default content required for a fresh install.
func (tc *TableCreator) SeedInitialContent(db *sql.DB) error {
	// Idempotently create the default home page.
	var homeExists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM pages WHERE slug = 'home')").Scan(&homeExists)
	if err != nil {
		return fmt.Errorf("failed to check for home page existence: %w", err)
	}

	if !homeExists {
		pageID := security.GenerateULID()
		now := time.Now().UTC()
		_, err = db.Exec(`INSERT INTO pages (id, title, slug, status, weight, markup, stylesheet, options_payload, created, changed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			pageID, "Home", "home", "published", 0, "", "", "{}", now, now)
		if err != nil {
			return fmt.Errorf("failed to insert home page: %w", err)
		}
	}

	return nil
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS pages (id TEXT PRIMARY KEY, title TEXT NOT NULL, slug TEXT NOT NULL UNIQUE, status TEXT NOT NULL DEFAULT 'draft', weight INTEGER NOT NULL DEFAULT 0, parent_id TEXT REFERENCES pages(id), markup TEXT NOT NULL DEFAULT '', stylesheet TEXT NOT NULL DEFAULT '', options_payload TEXT NOT NULL DEFAULT '{}', created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP, changed TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS news (id TEXT PRIMARY KEY, title TEXT NOT NULL, slug TEXT NOT NULL UNIQUE, body TEXT NOT NULL DEFAULT '', published_at TIMESTAMP, created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP, changed TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS members (id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, first_name TEXT NOT NULL DEFAULT '', role TEXT NOT NULL DEFAULT 'member', bio TEXT, created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP, changed TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS files (id TEXT PRIMARY KEY, filename TEXT NOT NULL, alt_description TEXT NOT NULL DEFAULT '', url TEXT NOT NULL, src_set TEXT, width INTEGER NOT NULL DEFAULT 0, height INTEGER NOT NULL DEFAULT 0)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_pages_slug ON pages(slug)`,
	`CREATE INDEX IF NOT EXISTS idx_pages_status ON pages(status)`,
	`CREATE INDEX IF NOT EXISTS idx_pages_parent_id ON pages(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_news_slug ON news(slug)`,
	`CREATE INDEX IF NOT EXISTS idx_members_email ON members(email)`,
}
