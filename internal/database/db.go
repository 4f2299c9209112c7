package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// ErrNotFound is returned by repositories when a row does not exist.
// Callers should check with errors.Is.
var ErrNotFound = errors.New("not found")

// DB wraps the sql connection pool shared by all repositories.
type DB struct {
	*sql.DB
}

// New opens a Postgres connection pool, verifies connectivity and applies
// the bootstrap schema.
func New(databaseURL string) (*DB, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{DB: sqlDB}
	if err := db.bootstrap(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// bootstrap applies the schema. Statements are idempotent so startup is safe
// to repeat.
func (db *DB) bootstrap(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			avatar TEXT NOT NULL DEFAULT '',
			last_sync_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS goals (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			target_value BIGINT NOT NULL CHECK (target_value > 0),
			current_value BIGINT,
			unit TEXT NOT NULL,
			status TEXT NOT NULL,
			due_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_user_id ON goals(user_id)`,
		`CREATE TABLE IF NOT EXISTS app_usage (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			date TIMESTAMPTZ NOT NULL,
			app_name TEXT NOT NULL,
			category TEXT NOT NULL,
			time_spent INT NOT NULL,
			open_count INT NOT NULL,
			metadata JSONB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_app_usage_user_date ON app_usage(user_id, date)`,
		`CREATE TABLE IF NOT EXISTS privacy_data (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			app_name TEXT NOT NULL,
			risk_level TEXT NOT NULL,
			permissions JSONB NOT NULL,
			UNIQUE (user_id, app_name)
		)`,
		`CREATE TABLE IF NOT EXISTS recommendations (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ad_predictions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			category TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			likelihood TEXT NOT NULL,
			image_url TEXT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}
