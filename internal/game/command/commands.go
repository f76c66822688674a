// Package command provides the command registry, parser, built-in command
// definitions, and the handlers that run them against a player.
package command

// Categories for organizing commands.
const (
	CategoryMovement  = "movement"
	CategoryInventory = "inventory"
	CategoryWorld     = "world"
	CategoryNPC       = "npc"
	CategorySystem    = "system"
)

// Handler identifiers mapping commands to handler functions.
const (
	HandlerMove      = "move"
	HandlerInventory = "inventory"
	HandlerUse       = "use"
	HandlerEquip     = "equip"
	HandlerUnequip   = "unequip"
	HandlerEquipment = "equipment"
	HandlerStats     = "stats"
	HandlerDrop      = "drop"
	HandlerGet       = "get"
	HandlerLook      = "look"
	HandlerTalk      = "talk"
	HandlerNext      = "next"
	HandlerShop      = "shop"
	HandlerBuy       = "buy"
	HandlerSell      = "sell"
	HandlerSave      = "save"
	HandlerLoad      = "load"
	HandlerRespawn   = "respawn"
	HandlerHelp      = "help"
	HandlerQuit      = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command for help output.
	Category string
	// Handler names the function Execute dispatches to.
	Handler string
	// Alive restricts the command to a living player.
	Alive bool
}

// BuiltinCommands returns all built-in commands for the game.
func BuiltinCommands() []Command {
	return []Command{
		// Movement commands
		{Name: "north", Aliases: []string{"n"}, Help: "Move north (north [steps])", Category: CategoryMovement, Handler: HandlerMove, Alive: true},
		{Name: "south", Aliases: []string{"s"}, Help: "Move south (south [steps])", Category: CategoryMovement, Handler: HandlerMove, Alive: true},
		{Name: "east", Aliases: []string{"e"}, Help: "Move east (east [steps])", Category: CategoryMovement, Handler: HandlerMove, Alive: true},
		{Name: "west", Aliases: []string{"w"}, Help: "Move west (west [steps])", Category: CategoryMovement, Handler: HandlerMove, Alive: true},

		// Inventory commands
		{Name: "inventory", Aliases: []string{"inv", "i"}, Help: "Show inventory slots and gold", Category: CategoryInventory, Handler: HandlerInventory},
		{Name: "use", Aliases: []string{"u"}, Help: "Use a consumable (use <item|slot>)", Category: CategoryInventory, Handler: HandlerUse, Alive: true},
		{Name: "equip", Aliases: nil, Help: "Equip an item from your inventory (equip <item|slot>)", Category: CategoryInventory, Handler: HandlerEquip, Alive: true},
		{Name: "unequip", Aliases: []string{"ueq"}, Help: "Return an equipped item to your inventory (unequip <weapon|armor|accessory>)", Category: CategoryInventory, Handler: HandlerUnequip, Alive: true},
		{Name: "equipment", Aliases: []string{"eq", "gear"}, Help: "Show equipped items", Category: CategoryInventory, Handler: HandlerEquipment},
		{Name: "stats", Aliases: []string{"st"}, Help: "Show health, mana, level, and combat stats", Category: CategoryInventory, Handler: HandlerStats},
		{Name: "drop", Aliases: nil, Help: "Drop items on the ground (drop <item|slot> [quantity])", Category: CategoryInventory, Handler: HandlerDrop, Alive: true},

		// World commands
		{Name: "get", Aliases: []string{"pickup", "take"}, Help: "Pick up an item nearby (get [item])", Category: CategoryWorld, Handler: HandlerGet, Alive: true},
		{Name: "look", Aliases: []string{"l"}, Help: "Describe your surroundings", Category: CategoryWorld, Handler: HandlerLook},

		// NPC commands
		{Name: "talk", Aliases: []string{"t"}, Help: "Talk to a nearby NPC (talk [name])", Category: CategoryNPC, Handler: HandlerTalk, Alive: true},
		{Name: "next", Aliases: []string{"more"}, Help: "Advance the current conversation", Category: CategoryNPC, Handler: HandlerNext},
		{Name: "shop", Aliases: []string{"wares"}, Help: "List a nearby shopkeeper's stock", Category: CategoryNPC, Handler: HandlerShop, Alive: true},
		{Name: "buy", Aliases: nil, Help: "Buy from a nearby shopkeeper (buy <item> [quantity])", Category: CategoryNPC, Handler: HandlerBuy, Alive: true},
		{Name: "sell", Aliases: nil, Help: "Sell to a nearby shopkeeper (sell <item|slot> [quantity])", Category: CategoryNPC, Handler: HandlerSell, Alive: true},

		// System commands
		{Name: "save", Aliases: nil, Help: "Save your progress (save [slot])", Category: CategorySystem, Handler: HandlerSave},
		{Name: "load", Aliases: nil, Help: "Load saved progress (load [slot])", Category: CategorySystem, Handler: HandlerLoad},
		{Name: "respawn", Aliases: nil, Help: "Return to the spawn point after death", Category: CategorySystem, Handler: HandlerRespawn},
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Help: "Leave the game", Category: CategorySystem, Handler: HandlerQuit},
	}
}

// IsMovementCommand reports whether the command name is a movement direction.
func IsMovementCommand(name string) bool {
	_, _, ok := directionDelta(name)
	return ok
}

// directionDelta returns the unit step for a canonical direction name.
// Screen coordinates grow downward, so north is -Y.
func directionDelta(name string) (dx, dy float64, ok bool) {
	switch name {
	case "north":
		return 0, -1, true
	case "south":
		return 0, 1, true
	case "east":
		return 1, 0, true
	case "west":
		return -1, 0, true
	default:
		return 0, 0, false
	}
}
