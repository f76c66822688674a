package command

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgcore/internal/save"
)

func (e *Env) slotName(arg string) string {
	if slot := strings.TrimSpace(arg); slot != "" {
		return slot
	}
	if e.Slot != "" {
		return e.Slot
	}
	return save.DefaultSlot
}

// HandleSave writes the player's snapshot to a save slot. The slot becomes
// the current slot.
func HandleSave(env *Env, arg string) string {
	if env.Saves == nil {
		return "Saving is disabled."
	}
	slot := env.slotName(arg)
	rec := env.Player.Snapshot(slot)
	if err := env.Saves.Save(env.ctx(), rec); err != nil {
		env.logger().Error("saving game", zap.String("slot", slot), zap.Error(err))
		return fmt.Sprintf("Could not save to slot %q.", slot)
	}
	env.Slot = slot
	return fmt.Sprintf("Game saved to slot %q.", slot)
}

// HandleLoad restores the player from a save slot. The slot becomes the
// current slot.
//
// Postcondition: on failure the player is unchanged.
func HandleLoad(env *Env, arg string) string {
	if env.Saves == nil {
		return "Saving is disabled."
	}
	slot := env.slotName(arg)
	rec, err := env.Saves.Load(env.ctx(), env.Player.ID, slot)
	if errors.Is(err, save.ErrNotFound) {
		return fmt.Sprintf("There is no save in slot %q.", slot)
	}
	if err != nil {
		env.logger().Error("loading game", zap.String("slot", slot), zap.Error(err))
		return fmt.Sprintf("Could not load slot %q.", slot)
	}
	if err := env.Player.Apply(rec); err != nil {
		env.logger().Warn("rejected save record", zap.String("slot", slot), zap.Error(err))
		return fmt.Sprintf("The save in slot %q is damaged.", slot)
	}
	env.Player.MoveTo(env.Field.Clamp(env.Player.Position()))
	env.Conversation.Close()
	env.Slot = slot
	return fmt.Sprintf("Loaded slot %q: level %d at %s.", slot, env.Player.Stats.Level(), formatPosition(env.Player.Position()))
}

// HandleRespawn revives a dead player at the spawn point.
func HandleRespawn(env *Env) string {
	if env.Player.Stats.Alive() {
		return "You are not dead."
	}
	env.Player.Respawn()
	env.Conversation.Close()
	return fmt.Sprintf("You wake at the spawn point %s.", formatPosition(env.Player.Spawn()))
}

// HandleHelp lists commands by category, or describes one command.
func HandleHelp(env *Env, arg string) string {
	reg := env.registry()
	if name := strings.ToLower(strings.TrimSpace(arg)); name != "" {
		cmd, ok := reg.Resolve(name)
		if !ok {
			return fmt.Sprintf("Unknown command %q.", name)
		}
		if len(cmd.Aliases) == 0 {
			return fmt.Sprintf("%s: %s", cmd.Name, cmd.Help)
		}
		return fmt.Sprintf("%s (%s): %s", cmd.Name, strings.Join(cmd.Aliases, ", "), cmd.Help)
	}

	byCat := reg.CommandsByCategory()
	var b strings.Builder
	for i, cat := range reg.Categories() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s:", strings.ToUpper(cat[:1])+cat[1:])
		for _, cmd := range byCat[cat] {
			fmt.Fprintf(&b, "\n  %-10s %s", cmd.Name, cmd.Help)
		}
	}
	return b.String()
}
