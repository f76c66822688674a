// Package world holds the play field and the item pickups lying on it.
package world

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/cory-johannsen/rpgcore/internal/game/inventory"
	"github.com/cory-johannsen/rpgcore/internal/game/player"
)

// DefaultPickupRange is the distance within which a pickup can be collected.
const DefaultPickupRange = 1.5

// MsgInventoryFull is reported when a pickup does not fit.
const MsgInventoryFull = "Inventory is full!"

// Pickup is an item stack lying on the field.
type Pickup struct {
	ID       uuid.UUID
	Item     *inventory.ItemDef
	Quantity int
	Position player.Position
	// Auto pickups are collected by walking over them.
	Auto bool
}

// CollectResult describes the outcome of a collection attempt.
type CollectResult struct {
	Pickup    Pickup
	Collected bool
	Message   string
}

// Field tracks pickups on a bounded plane.
// It is thread-safe via sync.RWMutex.
type Field struct {
	mu      sync.RWMutex
	pickups []Pickup
	width   float64
	height  float64
	rng     float64
}

// NewField creates an empty Field. A width or height of zero leaves that axis
// unbounded.
//
// Postcondition: returned Field is ready for use with zero pickups and
// DefaultPickupRange.
func NewField(width, height float64) *Field {
	return &Field{width: width, height: height, rng: DefaultPickupRange}
}

// Range returns the pickup range.
func (f *Field) Range() float64 { return f.rng }

// Clamp returns pos limited to the field bounds.
func (f *Field) Clamp(pos player.Position) player.Position {
	if f.width > 0 {
		pos.X = min(max(pos.X, 0), f.width)
	}
	if f.height > 0 {
		pos.Y = min(max(pos.Y, 0), f.height)
	}
	return pos
}

// Bounds returns the field width and height.
func (f *Field) Bounds() (width, height float64) { return f.width, f.height }

// Drop places quantity units of item at pos.
//
// Precondition: item is non-nil and quantity >= 1.
// Postcondition: the new pickup is appended to the field and returned.
func (f *Field) Drop(item *inventory.ItemDef, quantity int, pos player.Position, auto bool) Pickup {
	p := Pickup{
		ID:       uuid.New(),
		Item:     item,
		Quantity: quantity,
		Position: f.Clamp(pos),
		Auto:     auto,
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pickups = append(f.pickups, p)
	return p
}

// Nearby returns the pickups within radius of pos, nearest first.
//
// Postcondition: returned slice is a copy; mutations do not affect internal state.
func (f *Field) Nearby(pos player.Position, radius float64) []Pickup {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []Pickup
	for _, p := range f.pickups {
		if p.Position.Distance(pos) <= radius {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position.Distance(pos) < out[j].Position.Distance(pos)
	})
	return out
}

// Pickups returns a snapshot copy of every pickup on the field.
func (f *Field) Pickups() []Pickup {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Pickup, len(f.pickups))
	copy(out, f.pickups)
	return out
}

// Collect moves the pickup with the given id into store.
//
// The pickup is taken whole or not at all: when store lacks room for the
// full quantity, nothing is added, the pickup stays, and the result carries
// MsgInventoryFull.
//
// Postcondition: ok is false iff no pickup has id.
func (f *Field) Collect(id uuid.UUID, store *inventory.Store) (CollectResult, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.pickups {
		if p.ID != id {
			continue
		}
		if store.Capacity(p.Item) < p.Quantity || !store.AddItem(p.Item, p.Quantity) {
			return CollectResult{Pickup: p, Message: MsgInventoryFull}, true
		}
		f.pickups = append(f.pickups[:i:i], f.pickups[i+1:]...)
		return CollectResult{
			Pickup:    p,
			Collected: true,
			Message:   pickedUpMessage(p),
		}, true
	}
	return CollectResult{}, false
}

// CollectAuto collects every auto pickup within range of pos, nearest first.
func (f *Field) CollectAuto(pos player.Position, store *inventory.Store) []CollectResult {
	var results []CollectResult
	for _, p := range f.Nearby(pos, f.rng) {
		if !p.Auto {
			continue
		}
		if r, ok := f.Collect(p.ID, store); ok {
			results = append(results, r)
		}
	}
	return results
}

func pickedUpMessage(p Pickup) string {
	if p.Quantity == 1 {
		return fmt.Sprintf("Picked up %s.", p.Item.Name)
	}
	return fmt.Sprintf("Picked up %s x%d.", p.Item.Name, p.Quantity)
}
