// Package ui draws the player's heads-up display on a tcell screen and turns
// key presses into commands.
package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cory-johannsen/rpgcore/internal/game/event"
	"github.com/cory-johannsen/rpgcore/internal/game/inventory"
	"github.com/cory-johannsen/rpgcore/internal/game/player"
	"github.com/cory-johannsen/rpgcore/internal/game/stats"
)

// LogLines is how many message log lines the HUD shows.
const LogLines = 5

// maxLog bounds the retained message history.
const maxLog = 100

// HUD holds the display state that is not part of the game model: the
// message log and whether a redraw is due.
//
// HUD is safe for concurrent use.
type HUD struct {
	mu       sync.Mutex
	dirty    bool
	messages []string
	subs     []*event.Subscription
}

// NewHUD returns a HUD that needs an initial draw.
func NewHUD() *HUD {
	return &HUD{dirty: true}
}

// Bind subscribes to every notification p raises. Each one marks the HUD
// dirty; level-ups, deaths, and respawns also add a log line.
//
// Precondition: Bind runs with the same exclusive access to p that
// mutations use, since feeds are not safe for concurrent use.
// Postcondition: a previous binding is released first.
func (h *HUD) Bind(p *player.Player) {
	h.Unbind()

	mark := func() { h.MarkDirty() }
	subs := []*event.Subscription{
		p.Stats.HealthChanged.Subscribe(func(stats.Meter) { mark() }),
		p.Stats.ManaChanged.Subscribe(func(stats.Meter) { mark() }),
		p.Stats.GoldChanged.Subscribe(func(int) { mark() }),
		p.Stats.LevelUp.Subscribe(func(level int) {
			h.AddMessage(fmt.Sprintf("Level up! You are now level %d.", level))
		}),
		p.Stats.Death.Subscribe(func(struct{}) {
			h.AddMessage("You have died. Type 'respawn' to return to the spawn point.")
		}),
		p.Inventory.SlotChanged.Subscribe(func(int) { mark() }),
		p.Inventory.ItemAdded.Subscribe(func(inventory.ItemDelta) { mark() }),
		p.Inventory.ItemRemoved.Subscribe(func(inventory.ItemDelta) { mark() }),
		p.Inventory.ItemUsed.Subscribe(func(*inventory.ItemDef) { mark() }),
		p.Equipment.Equipped.Subscribe(func(inventory.EquipChange) { mark() }),
		p.Equipment.Unequipped.Subscribe(func(inventory.EquipChange) { mark() }),
		p.Moved.Subscribe(func(player.Position) { mark() }),
		p.Respawned.Subscribe(func(player.Position) { mark() }),
	}

	h.mu.Lock()
	h.subs = subs
	h.dirty = true
	h.mu.Unlock()
}

// Unbind releases every subscription made by Bind.
func (h *HUD) Unbind() {
	h.mu.Lock()
	subs := h.subs
	h.subs = nil
	h.mu.Unlock()
	for _, s := range subs {
		s.Unsubscribe()
	}
}

// MarkDirty schedules a redraw.
func (h *HUD) MarkDirty() {
	h.mu.Lock()
	h.dirty = true
	h.mu.Unlock()
}

// TakeDirty reports whether a redraw is due and clears the flag.
func (h *HUD) TakeDirty() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	d := h.dirty
	h.dirty = false
	return d
}

// AddMessage appends msg to the log, one entry per line, and marks the HUD
// dirty. Blank lines are dropped.
func (h *HUD) AddMessage(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, line := range strings.Split(msg, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		h.messages = append(h.messages, line)
	}
	if over := len(h.messages) - maxLog; over > 0 {
		h.messages = append([]string(nil), h.messages[over:]...)
	}
	h.dirty = true
}

// Recent returns up to n of the newest log lines, oldest first.
func (h *HUD) Recent(n int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	start := max(len(h.messages)-n, 0)
	out := make([]string, len(h.messages)-start)
	copy(out, h.messages[start:])
	return out
}
