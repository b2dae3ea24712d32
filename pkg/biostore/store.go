// Package biostore persists bios in sqlite.
package biostore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/util/dbutil"

	"github.com/beeper/slack-biobot/pkg/biobot"
)

type Store struct {
	db *dbutil.Database
}

// Open opens (creating if needed) the sqlite database at path and ensures
// the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	raw, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db, err := dbutil.NewWithDB(raw, "sqlite3")
	if err != nil {
		return nil, fmt.Errorf("wrap database: %w", err)
	}
	store := &Store{db: db}
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// NewWithDB wraps an already-open database. Used by tests.
func NewWithDB(db *dbutil.Database) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the bios table if it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bios (
			user_id     TEXT NOT NULL PRIMARY KEY,
			name        TEXT NOT NULL,
			role        TEXT NOT NULL,
			description TEXT NOT NULL,
			image_url   TEXT NOT NULL,
			updated_at  INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("create bios table: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, userID string) (*biobot.BioRecord, bool, error) {
	var rec biobot.BioRecord
	row := s.db.QueryRow(ctx,
		`SELECT user_id, name, role, description, image_url, updated_at
         FROM bios
         WHERE user_id=$1`,
		userID,
	)
	err := row.Scan(&rec.UserID, &rec.Name, &rec.Role, &rec.Description, &rec.ImageURL, &rec.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &rec, true, nil
}

// Put writes rec, replacing any previous record for the same user in full.
func (s *Store) Put(ctx context.Context, rec *biobot.BioRecord) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO bios (user_id, name, role, description, image_url, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6)
         ON CONFLICT (user_id)
         DO UPDATE SET name=excluded.name, role=excluded.role,
                       description=excluded.description, image_url=excluded.image_url,
                       updated_at=excluded.updated_at`,
		rec.UserID, rec.Name, rec.Role, rec.Description, rec.ImageURL, rec.UpdatedAt,
	)
	return err
}

func (s *Store) Delete(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM bios WHERE user_id=$1`, userID)
	return err
}

var _ biobot.BioStore = (*Store)(nil)
