package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgcore/internal/game/dialogue"
	"github.com/cory-johannsen/rpgcore/internal/game/inventory"
	"github.com/cory-johannsen/rpgcore/internal/game/npc"
	"github.com/cory-johannsen/rpgcore/internal/game/player"
	"github.com/cory-johannsen/rpgcore/internal/game/shop"
	"github.com/cory-johannsen/rpgcore/internal/game/world"
	"github.com/cory-johannsen/rpgcore/internal/save"
)

// Env is everything a command handler may read or change.
//
// Env is not safe for concurrent use; callers serialize Execute, usually
// through player.Session.
type Env struct {
	Ctx          context.Context
	Player       *player.Player
	Items        *inventory.Registry
	Field        *world.Field
	NPCs         *npc.Manager
	Shops        map[string]*shop.Shop // keyed by NPC template ID
	Conversation *dialogue.Conversation
	Saves        save.Store
	Slot         string
	Commands     *Registry
	Logger       *zap.Logger
}

// Result is the outcome of one executed line.
type Result struct {
	Output string
	Quit   bool
}

func (e *Env) ctx() context.Context {
	if e.Ctx == nil {
		return context.Background()
	}
	return e.Ctx
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e *Env) registry() *Registry {
	if e.Commands == nil {
		e.Commands = DefaultRegistry()
	}
	return e.Commands
}

// Execute parses line, resolves the command, and runs its handler.
//
// Precondition: env.Player, env.Field, env.NPCs, and env.Conversation are non-nil.
// Postcondition: Output is never empty for a non-blank line.
func Execute(env *Env, line string) Result {
	parsed := Parse(line)
	if parsed.Command == "" {
		return Result{}
	}
	cmd, ok := env.registry().Resolve(parsed.Command)
	if !ok {
		return Result{Output: fmt.Sprintf("Unknown command %q. Type 'help' for a list.", parsed.Command)}
	}
	env.logger().Debug("command",
		zap.String("player", env.Player.Name),
		zap.String("command", cmd.Name),
		zap.Strings("args", parsed.Args),
	)
	if cmd.Alive && !env.Player.Stats.Alive() {
		return Result{Output: "You are dead. Type 'respawn' to return to the spawn point."}
	}

	args := parsed.Args
	switch cmd.Handler {
	case HandlerMove:
		return Result{Output: HandleMove(env, cmd.Name, args)}
	case HandlerInventory:
		return Result{Output: HandleInventory(env)}
	case HandlerUse:
		return Result{Output: HandleUse(env, parsed.RawArgs)}
	case HandlerEquip:
		return Result{Output: HandleEquip(env, parsed.RawArgs)}
	case HandlerUnequip:
		return Result{Output: HandleUnequip(env, parsed.RawArgs)}
	case HandlerEquipment:
		return Result{Output: HandleEquipment(env)}
	case HandlerStats:
		return Result{Output: HandleStats(env)}
	case HandlerDrop:
		return Result{Output: HandleDrop(env, args)}
	case HandlerGet:
		return Result{Output: HandleGet(env, parsed.RawArgs)}
	case HandlerLook:
		return Result{Output: HandleLook(env)}
	case HandlerTalk:
		return Result{Output: HandleTalk(env, parsed.RawArgs)}
	case HandlerNext:
		return Result{Output: HandleNext(env)}
	case HandlerShop:
		return Result{Output: HandleShop(env)}
	case HandlerBuy:
		return Result{Output: HandleBuy(env, args)}
	case HandlerSell:
		return Result{Output: HandleSell(env, args)}
	case HandlerSave:
		return Result{Output: HandleSave(env, parsed.RawArgs)}
	case HandlerLoad:
		return Result{Output: HandleLoad(env, parsed.RawArgs)}
	case HandlerRespawn:
		return Result{Output: HandleRespawn(env)}
	case HandlerHelp:
		return Result{Output: HandleHelp(env, parsed.RawArgs)}
	case HandlerQuit:
		return Result{Output: "Farewell.", Quit: true}
	default:
		env.logger().Error("command has no handler", zap.String("command", cmd.Name), zap.String("handler", cmd.Handler))
		return Result{Output: fmt.Sprintf("%s is not available.", cmd.Name)}
	}
}

// matchItem picks the candidate that arg names: an exact ID or name match
// wins over a case-insensitive name or ID prefix.
func matchItem(arg string, candidates []*inventory.ItemDef) *inventory.ItemDef {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if arg == "" {
		return nil
	}
	for _, c := range candidates {
		if c.ID == arg || strings.ToLower(c.Name) == arg {
			return c
		}
	}
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c.Name), arg) || strings.HasPrefix(c.ID, arg) {
			return c
		}
	}
	return nil
}

// heldItem resolves arg against the player's inventory. arg may be a
// 1-based slot number, an item ID, or a name prefix.
//
// Postcondition: index is the first slot holding the item, or -1 when
// nothing matched.
func heldItem(env *Env, arg string) (*inventory.ItemDef, int) {
	inv := env.Player.Inventory
	if n, err := strconv.Atoi(strings.TrimSpace(arg)); err == nil {
		slot, ok := inv.Slot(n - 1)
		if !ok || slot.Empty() {
			return nil, -1
		}
		return slot.Item, n - 1
	}
	var held []*inventory.ItemDef
	seen := make(map[string]bool)
	for _, slot := range inv.Slots() {
		if slot.Empty() || seen[slot.Item.ID] {
			continue
		}
		seen[slot.Item.ID] = true
		held = append(held, slot.Item)
	}
	item := matchItem(arg, held)
	if item == nil {
		return nil, -1
	}
	return item, inv.FindSlot(item)
}

// quantityName renders "Herb" or "Herb x3".
func quantityName(item *inventory.ItemDef, qty int) string {
	if qty == 1 {
		return item.Name
	}
	return fmt.Sprintf("%s x%d", item.Name, qty)
}

func formatPosition(p player.Position) string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}
