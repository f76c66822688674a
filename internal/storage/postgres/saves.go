package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/rpgcore/internal/save"
)

// SaveRepository stores save records in the save_games table.
// It implements save.Store.
type SaveRepository struct {
	db  *pgxpool.Pool
	now func() time.Time
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with the save_games
// migration applied.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db, now: time.Now}
}

const saveColumns = `player_id, slot, pos_x, pos_y, level, current_health, current_mana, gold, experience, saved_at`

// Save inserts the record, replacing any existing record for the same player
// and slot.
//
// Precondition: r must pass Validate.
// Postcondition: a later Load for r.PlayerID and r.Slot returns r with
// SavedAt set to the write time.
func (r *SaveRepository) Save(ctx context.Context, rec save.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO save_games (`+saveColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (player_id, slot) DO UPDATE SET
			pos_x          = EXCLUDED.pos_x,
			pos_y          = EXCLUDED.pos_y,
			level          = EXCLUDED.level,
			current_health = EXCLUDED.current_health,
			current_mana   = EXCLUDED.current_mana,
			gold           = EXCLUDED.gold,
			experience     = EXCLUDED.experience,
			saved_at       = EXCLUDED.saved_at`,
		rec.PlayerID, rec.Slot, rec.PosX, rec.PosY, rec.Level,
		rec.CurrentHealth, rec.CurrentMana, rec.Gold, rec.Experience, r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving slot %q: %w", rec.Slot, err)
	}
	return nil
}

// Load returns the record for playerID and slot.
//
// Postcondition: returns save.ErrNotFound if no such record exists.
func (r *SaveRepository) Load(ctx context.Context, playerID uuid.UUID, slot string) (save.Record, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+saveColumns+` FROM save_games WHERE player_id = $1 AND slot = $2`,
		playerID, slot,
	)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return save.Record{}, save.ErrNotFound
		}
		return save.Record{}, fmt.Errorf("loading slot %q: %w", slot, err)
	}
	return rec, nil
}

// List returns every record for playerID ordered by slot.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *SaveRepository) List(ctx context.Context, playerID uuid.UUID) ([]save.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+saveColumns+` FROM save_games WHERE player_id = $1 ORDER BY slot ASC`,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	var out []save.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning save: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	return out, nil
}

// Delete removes the record for playerID and slot.
//
// Postcondition: returns save.ErrNotFound if no such record existed.
func (r *SaveRepository) Delete(ctx context.Context, playerID uuid.UUID, slot string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM save_games WHERE player_id = $1 AND slot = $2`,
		playerID, slot,
	)
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", slot, err)
	}
	if tag.RowsAffected() == 0 {
		return save.ErrNotFound
	}
	return nil
}

func scanRecord(row pgx.Row) (save.Record, error) {
	var rec save.Record
	err := row.Scan(
		&rec.PlayerID, &rec.Slot, &rec.PosX, &rec.PosY, &rec.Level,
		&rec.CurrentHealth, &rec.CurrentMana, &rec.Gold, &rec.Experience, &rec.SavedAt,
	)
	return rec, err
}
