package npc

import (
	"math"
	"math/rand"
	"time"

	"github.com/cory-johannsen/rpgcore/internal/game/player"
)

// arriveDistance is how close to its wander target an NPC must get to stop.
const arriveDistance = 0.1

// Instance is a live NPC on the field.
type Instance struct {
	// ID uniquely identifies this runtime instance.
	ID string
	// Template is the definition this instance was spawned from.
	Template *Template
	// Position is where the instance currently stands.
	Position player.Position

	home    player.Position
	target  player.Position
	moving  bool
	waitFor time.Duration
}

// NewInstance creates a live NPC instance from a template at its home position.
//
// Precondition: id must be non-empty; tmpl must be non-nil.
func NewInstance(id string, tmpl *Template) *Instance {
	return &Instance{
		ID:       id,
		Template: tmpl,
		Position: tmpl.Position,
		home:     tmpl.Position,
	}
}

// Name returns the template name.
func (i *Instance) Name() string { return i.Template.Name }

// InRange reports whether pos is within the template's interaction range.
func (i *Instance) InRange(pos player.Position) bool {
	return i.Position.Distance(pos) <= i.Template.InteractionRange
}

// Tick advances idle wandering by dt. NPCs without a Wander block never move.
//
// Postcondition: Position stays within Wander.Range of home.
func (i *Instance) Tick(dt time.Duration, rng *rand.Rand) {
	w := i.Template.Wander
	if w == nil || dt <= 0 {
		return
	}
	if !i.moving {
		i.waitFor -= dt
		if i.waitFor > 0 {
			return
		}
		angle := rng.Float64() * 2 * math.Pi
		dist := rng.Float64() * w.Range
		i.target = player.Position{
			X: i.home.X + dist*math.Cos(angle),
			Y: i.home.Y + dist*math.Sin(angle),
		}
		i.moving = true
		return
	}

	remaining := i.Position.Distance(i.target)
	step := w.Speed * dt.Seconds()
	if step >= remaining || remaining < arriveDistance {
		i.Position = i.target
		i.moving = false
		i.waitFor, _ = w.WaitDuration()
		return
	}
	i.Position = player.Position{
		X: i.Position.X + (i.target.X-i.Position.X)*step/remaining,
		Y: i.Position.Y + (i.target.Y-i.Position.Y)*step/remaining,
	}
}
