// Package migrations creates and evolves the database schema. Statements are
// idempotent and applied in order on every startup.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS menu_items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		category TEXT NOT NULL CHECK (category IN ('Chaofan', 'Noodles', 'Rice Meals', 'Beverages', 'Sides')),
		photo_url TEXT,
		photo_storage_key TEXT,
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		available BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_category ON menu_items (category, name)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_featured ON menu_items (featured) WHERE featured`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('admin', 'staff')),
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

// Apply runs all schema statements against db.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
