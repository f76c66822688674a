// Package player wires a stat block, an inventory store, and an equipment
// board into one playable character.
package player

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgcore/internal/game/event"
	"github.com/cory-johannsen/rpgcore/internal/game/inventory"
	"github.com/cory-johannsen/rpgcore/internal/game/stats"
	"github.com/cory-johannsen/rpgcore/internal/save"
	"github.com/cory-johannsen/rpgcore/internal/scripting"
)

// Position is a point on the play field.
type Position struct {
	X float64 `mapstructure:"x" yaml:"x"`
	Y float64 `mapstructure:"y" yaml:"y"`
}

// Distance returns the Euclidean distance between p and q.
func (p Position) Distance(q Position) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// IDForName returns the stable player ID derived from name, so that save
// slots survive restarts without a separate account store.
func IDForName(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("rpgcore:player:"+name))
}

// HookRunner runs an item script hook against a target.
type HookRunner interface {
	CallHook(hook string, target scripting.Target, itemID string) (lua.LValue, error)
}

// Options configures New.
type Options struct {
	// ID defaults to IDForName(Name) when zero.
	ID            uuid.UUID
	Name          string
	InventorySize int
	Base          stats.Base
	Spawn         Position
}

// Player owns the stat block, inventory store, and equipment board of one
// character and passes each the references it needs.
type Player struct {
	ID        uuid.UUID
	Name      string
	Stats     *stats.Block
	Inventory *inventory.Store
	Equipment *inventory.Equipment

	position Position
	spawn    Position
	scripts  HookRunner
	logger   *zap.Logger

	Moved     event.Feed[Position]
	Respawned event.Feed[Position]
}

// New builds a Player at its spawn point with full meters and an empty
// inventory.
//
// Precondition: logger must be non-nil. scripts may be nil, in which case
// item scripts are skipped.
// Postcondition: p.Inventory consumes through p, and p.Equipment adjusts p.Stats.
func New(opts Options, scripts HookRunner, logger *zap.Logger) *Player {
	id := opts.ID
	if id == uuid.Nil {
		id = IDForName(opts.Name)
	}
	p := &Player{
		ID:       id,
		Name:     opts.Name,
		Stats:    stats.New(opts.Base),
		position: opts.Spawn,
		spawn:    opts.Spawn,
		scripts:  scripts,
		logger:   logger.With(zap.String("player", opts.Name)),
	}
	p.Inventory = inventory.NewStore(opts.InventorySize, p)
	p.Equipment = inventory.NewEquipment(p.Inventory, p.Stats)
	p.logNotifications()
	return p
}

func (p *Player) logNotifications() {
	p.Stats.HealthChanged.Subscribe(func(m stats.Meter) {
		p.logger.Debug("health changed", zap.Int("current", m.Current), zap.Int("max", m.Max))
	})
	p.Stats.ManaChanged.Subscribe(func(m stats.Meter) {
		p.logger.Debug("mana changed", zap.Int("current", m.Current), zap.Int("max", m.Max))
	})
	p.Stats.LevelUp.Subscribe(func(level int) {
		p.logger.Debug("level up", zap.Int("level", level))
	})
	p.Stats.GoldChanged.Subscribe(func(gold int) {
		p.logger.Debug("gold changed", zap.Int("gold", gold))
	})
	p.Stats.Death.Subscribe(func(struct{}) {
		p.logger.Debug("died")
	})
	p.Inventory.ItemAdded.Subscribe(func(d inventory.ItemDelta) {
		p.logger.Debug("item added", zap.String("item", d.Item.ID), zap.Int("quantity", d.Quantity))
	})
	p.Inventory.ItemRemoved.Subscribe(func(d inventory.ItemDelta) {
		p.logger.Debug("item removed", zap.String("item", d.Item.ID), zap.Int("quantity", d.Quantity))
	})
	p.Inventory.ItemUsed.Subscribe(func(item *inventory.ItemDef) {
		p.logger.Debug("item used", zap.String("item", item.ID))
	})
	p.Equipment.Equipped.Subscribe(func(c inventory.EquipChange) {
		p.logger.Debug("equipped", zap.String("slot", string(c.Slot)), zap.String("item", c.Item.ID))
	})
	p.Equipment.Unequipped.Subscribe(func(c inventory.EquipChange) {
		p.logger.Debug("unequipped", zap.String("slot", string(c.Slot)), zap.String("item", c.Item.ID))
	})
}

// Consume applies a consumable's restores and runs its script hook.
// It implements inventory.Consumer.
func (p *Player) Consume(item *inventory.ItemDef) {
	if item == nil {
		return
	}
	p.Stats.Heal(item.HealthRestore)
	p.Stats.RestoreMana(item.ManaRestore)
	if item.Script == "" {
		return
	}
	if p.scripts == nil {
		p.logger.Warn("item script skipped: no script runner", zap.String("item", item.ID), zap.String("hook", item.Script))
		return
	}
	if _, err := p.scripts.CallHook(item.Script, p.Stats, item.ID); err != nil {
		p.logger.Warn("item script failed", zap.String("item", item.ID), zap.Error(err))
	}
}

// Attack returns base attack plus equipment attack bonuses.
func (p *Player) Attack() int {
	return p.Stats.Attack() + p.Equipment.GetTotalAttackBonus()
}

// Defense returns base defense plus equipment defense bonuses.
func (p *Player) Defense() int {
	return p.Stats.Defense() + p.Equipment.GetTotalDefenseBonus()
}

// TakeDamage applies amount reduced by total defense, with a floor of 1.
//
// Postcondition: health drops by max(amount - Defense(), 1), clamped at 0.
func (p *Player) TakeDamage(amount int) {
	p.Stats.TakeDamage(amount - p.Equipment.GetTotalDefenseBonus())
}

// Position returns the player's current position.
func (p *Player) Position() Position { return p.position }

// Spawn returns the respawn point.
func (p *Player) Spawn() Position { return p.spawn }

// MoveTo places the player at pos.
func (p *Player) MoveTo(pos Position) {
	p.position = pos
	p.Moved.Emit(pos)
}

// Move offsets the player's position by (dx, dy).
func (p *Player) Move(dx, dy float64) {
	p.MoveTo(Position{X: p.position.X + dx, Y: p.position.Y + dy})
}

// Respawn returns the player to the spawn point with full health and mana.
func (p *Player) Respawn() {
	p.position = p.spawn
	p.Stats.Restore()
	p.logger.Info("respawned", zap.Float64("x", p.spawn.X), zap.Float64("y", p.spawn.Y))
	p.Respawned.Emit(p.spawn)
}

// Snapshot returns the persisted subset of the player's state for slot.
func (p *Player) Snapshot(slot string) save.Record {
	prog := p.Stats.Progress()
	return save.Record{
		PlayerID:      p.ID,
		Slot:          slot,
		PosX:          p.position.X,
		PosY:          p.position.Y,
		Level:         prog.Level,
		CurrentHealth: prog.CurrentHealth,
		CurrentMana:   prog.CurrentMana,
		Gold:          prog.Gold,
		Experience:    prog.Experience,
	}
}

// Apply restores position and progress from r.
//
// Precondition: r.PlayerID == p.ID.
// Postcondition: on error, the player is unchanged.
func (p *Player) Apply(r save.Record) error {
	if r.PlayerID != p.ID {
		return errors.New("Apply: record belongs to another player")
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("Apply: %w", err)
	}
	p.Stats.ApplyProgress(stats.Progress{
		Level:         r.Level,
		Experience:    r.Experience,
		CurrentHealth: r.CurrentHealth,
		CurrentMana:   r.CurrentMana,
		Gold:          r.Gold,
	})
	p.MoveTo(Position{X: r.PosX, Y: r.PosY})
	return nil
}
