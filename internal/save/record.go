// Package save defines the persisted player progress record and the storage
// contract shared by the postgres and sqlite backends.
package save

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no record exists for a player and slot.
var ErrNotFound = errors.New("save: record not found")

// DefaultSlot is the slot name used when none is given.
const DefaultSlot = "default"

// Flat preference keys for Record.Pairs.
const (
	KeyPosX   = "PlayerPosX"
	KeyPosY   = "PlayerPosY"
	KeyLevel  = "PlayerLevel"
	KeyHealth = "PlayerHealth"
	KeyMana   = "PlayerMana"
	KeyGold   = "PlayerGold"
	KeyExp    = "PlayerExp"
)

// Keys lists every flat preference key in a stable order.
var Keys = []string{KeyPosX, KeyPosY, KeyLevel, KeyHealth, KeyMana, KeyGold, KeyExp}

// Record is the minimal persisted state of a player: position and progress.
// Inventory and equipment contents are not part of it.
type Record struct {
	PlayerID      uuid.UUID
	Slot          string
	PosX          float64
	PosY          float64
	Level         int
	CurrentHealth int
	CurrentMana   int
	Gold          int
	Experience    int
	SavedAt       time.Time
}

// Validate checks the record's invariants.
//
// Postcondition: returns nil iff the record can be applied to a player.
func (r Record) Validate() error {
	var errs []error
	if r.PlayerID == uuid.Nil {
		errs = append(errs, errors.New("player id must be set"))
	}
	if r.Slot == "" {
		errs = append(errs, errors.New("slot must not be empty"))
	}
	if r.Level < 1 {
		errs = append(errs, fmt.Errorf("level must be >= 1; got %d", r.Level))
	}
	if r.CurrentHealth < 0 || r.CurrentMana < 0 || r.Gold < 0 || r.Experience < 0 {
		errs = append(errs, errors.New("health, mana, gold, and experience must be >= 0"))
	}
	if math.IsNaN(r.PosX) || math.IsNaN(r.PosY) || math.IsInf(r.PosX, 0) || math.IsInf(r.PosY, 0) {
		errs = append(errs, errors.New("position must be finite"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("save record validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// Pairs returns the record as flat key/value preferences.
func (r Record) Pairs() map[string]string {
	return map[string]string{
		KeyPosX:   strconv.FormatFloat(r.PosX, 'g', -1, 64),
		KeyPosY:   strconv.FormatFloat(r.PosY, 'g', -1, 64),
		KeyLevel:  strconv.Itoa(r.Level),
		KeyHealth: strconv.Itoa(r.CurrentHealth),
		KeyMana:   strconv.Itoa(r.CurrentMana),
		KeyGold:   strconv.Itoa(r.Gold),
		KeyExp:    strconv.Itoa(r.Experience),
	}
}

// FromPairs parses flat preferences written by Pairs.
//
// Precondition: pairs contains every key in Keys.
// Postcondition: the returned record has PlayerID and Slot set from the
// arguments and SavedAt left zero.
func FromPairs(playerID uuid.UUID, slot string, pairs map[string]string) (Record, error) {
	r := Record{PlayerID: playerID, Slot: slot}
	floats := map[string]*float64{KeyPosX: &r.PosX, KeyPosY: &r.PosY}
	ints := map[string]*int{
		KeyLevel:  &r.Level,
		KeyHealth: &r.CurrentHealth,
		KeyMana:   &r.CurrentMana,
		KeyGold:   &r.Gold,
		KeyExp:    &r.Experience,
	}
	for _, key := range Keys {
		raw, ok := pairs[key]
		if !ok {
			return Record{}, fmt.Errorf("FromPairs: missing key %q", key)
		}
		if dst, ok := floats[key]; ok {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return Record{}, fmt.Errorf("FromPairs: key %q: %w", key, err)
			}
			*dst = v
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Record{}, fmt.Errorf("FromPairs: key %q: %w", key, err)
		}
		*ints[key] = v
	}
	return r, nil
}

// Store persists Records keyed by player and slot.
type Store interface {
	// Save inserts or replaces the record for r.PlayerID and r.Slot.
	Save(ctx context.Context, r Record) error
	// Load returns ErrNotFound when no record exists.
	Load(ctx context.Context, playerID uuid.UUID, slot string) (Record, error)
	// List returns every record for playerID ordered by slot.
	List(ctx context.Context, playerID uuid.UUID) ([]Record, error)
	// Delete returns ErrNotFound when no record exists.
	Delete(ctx context.Context, playerID uuid.UUID, slot string) error
}
