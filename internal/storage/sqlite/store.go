// Package sqlite persists save records as flat player preferences in a local
// SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/rpgcore/internal/save"
	"github.com/cory-johannsen/rpgcore/internal/storage/sqlite/migrations"
)

// Store keeps one player_prefs row per key of save.Record.Pairs.
// It implements save.Store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the SQLite file at path and migrates it to the latest schema.
//
// Precondition: path must be non-empty; its directory must exist.
// Postcondition: returns a ready Store or a non-nil error with nothing left
// open.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite: path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	if err := Migrate(dsn); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Migrate applies every pending embedded migration to the database at dsn.
//
// Postcondition: the schema is at the latest version, or an error is
// returned. A database already at the latest version is not an error.
func Migrate(dsn string) error {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("opening sqlite db for migration: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("creating migration driver: %w", err)
	}
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("reading embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		_ = src.Close()
		_ = driver.Close()
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating sqlite db: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces every preference row for rec.PlayerID and rec.Slot in one
// transaction.
//
// Precondition: rec must pass Validate.
func (s *Store) Save(ctx context.Context, rec save.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	player := rec.PlayerID.String()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM player_prefs WHERE player_id = ? AND slot = ?`, player, rec.Slot); err != nil {
		return fmt.Errorf("clearing slot %q: %w", rec.Slot, err)
	}
	stamp := s.now().UTC().UnixMilli()
	pairs := rec.Pairs()
	for _, key := range save.Keys {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO player_prefs (player_id, slot, key, value, updated_at) VALUES (?, ?, ?, ?, ?)`,
			player, rec.Slot, key, pairs[key], stamp); err != nil {
			return fmt.Errorf("writing %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing slot %q: %w", rec.Slot, err)
	}
	return nil
}

// Load reads the preference rows for playerID and slot back into a Record.
//
// Postcondition: returns save.ErrNotFound if the slot has no rows.
func (s *Store) Load(ctx context.Context, playerID uuid.UUID, slot string) (save.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value, updated_at FROM player_prefs WHERE player_id = ? AND slot = ?`,
		playerID.String(), slot)
	if err != nil {
		return save.Record{}, fmt.Errorf("loading slot %q: %w", slot, err)
	}
	defer rows.Close()

	pairs := make(map[string]string, len(save.Keys))
	var stamp int64
	for rows.Next() {
		var key, value string
		var updated int64
		if err := rows.Scan(&key, &value, &updated); err != nil {
			return save.Record{}, fmt.Errorf("scanning slot %q: %w", slot, err)
		}
		pairs[key] = value
		stamp = max(stamp, updated)
	}
	if err := rows.Err(); err != nil {
		return save.Record{}, fmt.Errorf("loading slot %q: %w", slot, err)
	}
	if len(pairs) == 0 {
		return save.Record{}, save.ErrNotFound
	}

	rec, err := save.FromPairs(playerID, slot, pairs)
	if err != nil {
		return save.Record{}, fmt.Errorf("decoding slot %q: %w", slot, err)
	}
	rec.SavedAt = time.UnixMilli(stamp).UTC()
	return rec, nil
}

// List returns every saved slot for playerID ordered by slot.
func (s *Store) List(ctx context.Context, playerID uuid.UUID) ([]save.Record, error) {
	slots, err := s.slots(ctx, playerID)
	if err != nil {
		return nil, err
	}
	out := make([]save.Record, 0, len(slots))
	for _, slot := range slots {
		rec, err := s.Load(ctx, playerID, slot)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) slots(ctx context.Context, playerID uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT slot FROM player_prefs WHERE player_id = ? ORDER BY slot`,
		playerID.String())
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()
	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// Delete removes every preference row for playerID and slot.
//
// Postcondition: returns save.ErrNotFound if the slot had no rows.
func (s *Store) Delete(ctx context.Context, playerID uuid.UUID, slot string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM player_prefs WHERE player_id = ? AND slot = ?`, playerID.String(), slot)
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", slot, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", slot, err)
	}
	if n == 0 {
		return save.ErrNotFound
	}
	return nil
}
