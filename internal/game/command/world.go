package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/rpgcore/internal/game/inventory"
	"github.com/cory-johannsen/rpgcore/internal/game/npc"
	"github.com/cory-johannsen/rpgcore/internal/game/player"
)

const (
	// maxSteps caps a single movement command.
	maxSteps = 10
	// lookRadius is how far look reports pickups and NPCs.
	lookRadius = 6.0
)

// HandleMove walks the player up to steps units in direction, stopping at
// the field edge, then collects any auto pickups in range. Walking ends an
// open conversation.
func HandleMove(env *Env, direction string, args []string) string {
	dx, dy, ok := directionDelta(direction)
	if !ok {
		return fmt.Sprintf("%q is not a direction.", direction)
	}
	steps := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > maxSteps {
			return fmt.Sprintf("Steps must be a number from 1 to %d.", maxSteps)
		}
		steps = n
	}

	p := env.Player
	from := p.Position()
	to := env.Field.Clamp(player.Position{
		X: from.X + dx*float64(steps),
		Y: from.Y + dy*float64(steps),
	})
	if to == from {
		return fmt.Sprintf("You can't go any further %s.", direction)
	}
	p.MoveTo(to)
	if env.Conversation.Active() {
		env.Conversation.Close()
	}

	lines := []string{fmt.Sprintf("You walk %s to %s.", direction, formatPosition(to))}
	for _, r := range env.Field.CollectAuto(to, p.Inventory) {
		lines = append(lines, r.Message)
	}
	return strings.Join(lines, "\n")
}

// HandleGet collects one pickup within range. With no argument the nearest
// pickup is taken; otherwise the nearest whose item arg names.
//
// Postcondition: a pickup that does not fit stays on the field whole.
func HandleGet(env *Env, arg string) string {
	p := env.Player
	nearby := env.Field.Nearby(p.Position(), env.Field.Range())
	if len(nearby) == 0 {
		return "There is nothing here to pick up."
	}

	chosen := nearby[0]
	if arg = strings.TrimSpace(arg); arg != "" {
		items := make([]*inventory.ItemDef, 0, len(nearby))
		for _, n := range nearby {
			items = append(items, n.Item)
		}
		item := matchItem(arg, items)
		if item == nil {
			return fmt.Sprintf("There is no %s here.", arg)
		}
		for _, n := range nearby {
			if n.Item.ID == item.ID {
				chosen = n
				break
			}
		}
	}

	res, ok := env.Field.Collect(chosen.ID, p.Inventory)
	if !ok {
		return "It's gone."
	}
	return res.Message
}

// HandleLook describes the player's position, nearby pickups, and NPCs.
func HandleLook(env *Env) string {
	pos := env.Player.Position()
	var b strings.Builder
	fmt.Fprintf(&b, "You are standing at %s.", formatPosition(pos))

	pickups := env.Field.Nearby(pos, lookRadius)
	if len(pickups) > 0 {
		names := make([]string, len(pickups))
		for i, pk := range pickups {
			names[i] = quantityName(pk.Item, pk.Quantity)
			if pk.Position.Distance(pos) <= env.Field.Range() {
				names[i] += " (within reach)"
			}
		}
		fmt.Fprintf(&b, "\nOn the ground: %s.", strings.Join(names, ", "))
	}

	sightings := env.NPCs.Within(pos, lookRadius)
	if len(sightings) > 0 {
		names := make([]string, len(sightings))
		for i, s := range sightings {
			names[i] = s.Template.Name
			if s.Distance <= s.Template.InteractionRange {
				names[i] += fmt.Sprintf(" [%s]", npc.Interact(s.Template))
			}
		}
		fmt.Fprintf(&b, "\nNearby: %s.", strings.Join(names, ", "))
	}

	if !env.Player.Stats.Alive() {
		b.WriteString("\nYou are dead.")
	}
	return b.String()
}
