package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/rpgcore/internal/game/npc"
	"github.com/cory-johannsen/rpgcore/internal/game/shop"
)

// HandleTalk opens a conversation with the nearest NPC in range, or the one
// whose name starts with arg.
func HandleTalk(env *Env, arg string) string {
	arg = strings.TrimSpace(arg)
	inst := env.NPCs.FindInRange(env.Player.Position(), arg)
	if inst == nil {
		if arg == "" {
			return "There is no one nearby to talk to."
		}
		return fmt.Sprintf("No one called %q is close enough to talk to.", arg)
	}

	tmpl := inst.Template
	if !env.Conversation.Start(tmpl.Name, tmpl.Dialogue) {
		return fmt.Sprintf("%s has nothing to say.", tmpl.Name)
	}

	var b strings.Builder
	switch npc.Interact(tmpl) {
	case npc.InteractQuest:
		fmt.Fprintf(&b, "%s has a task for you.\n", tmpl.Name)
	case npc.InteractShop:
		fmt.Fprintf(&b, "%s runs a shop. Type 'shop' to see the wares.\n", tmpl.Name)
	}
	b.WriteString(conversationLine(env))
	return b.String()
}

// HandleNext advances the open conversation.
func HandleNext(env *Env) string {
	c := env.Conversation
	if !c.Active() {
		return "You are not in a conversation."
	}
	if !c.Advance() {
		return fmt.Sprintf("%s has nothing more to say.", c.Speaker())
	}
	return conversationLine(env)
}

func conversationLine(env *Env) string {
	c := env.Conversation
	line := fmt.Sprintf("%s: %s", c.Speaker(), c.Current())
	if c.HasNext() {
		line += " (next)"
	}
	return line
}

// nearbyShop returns the shop of the nearest shopkeeper whose interaction
// range covers the player.
func nearbyShop(env *Env) (*shop.Shop, bool) {
	pos := env.Player.Position()
	for _, s := range env.NPCs.Within(pos, lookRadius) {
		if !s.Template.Shopkeeper || s.Distance > s.Template.InteractionRange {
			continue
		}
		if sh, ok := env.Shops[s.Template.ID]; ok {
			return sh, true
		}
	}
	return nil, false
}

const msgNoShop = "There is no shopkeeper nearby."

// HandleShop lists the nearby shopkeeper's stock and prices.
func HandleShop(env *Env) string {
	sh, ok := nearbyShop(env)
	if !ok {
		return msgNoShop
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s sells:\n", sh.Keeper)
	for _, item := range sh.Stock() {
		fmt.Fprintf(&b, "  %-18s %4dg\n", item.Name, item.BuyPrice)
	}
	fmt.Fprintf(&b, "You have %d gold.", env.Player.Stats.Gold())
	return b.String()
}

// HandleBuy buys items from the nearby shopkeeper.
//
// Postcondition: on failure gold and inventory are unchanged.
func HandleBuy(env *Env, args []string) string {
	target, qty, _ := SplitQuantity(args)
	if target == "" {
		return "Usage: buy <item> [quantity]"
	}
	sh, ok := nearbyShop(env)
	if !ok {
		return msgNoShop
	}
	item := matchItem(target, sh.Stock())
	if item == nil {
		return fmt.Sprintf("%s doesn't sell %q.", sh.Keeper, target)
	}

	st := env.Player.Stats
	err := sh.Buy(env.Player.Inventory, st, item, qty)
	switch {
	case err == nil:
		return fmt.Sprintf("You buy %s for %d gold.", quantityName(item, qty), item.BuyPrice*qty)
	case errors.Is(err, shop.ErrInvalidQuantity):
		return "Quantity must be at least 1."
	case errors.Is(err, shop.ErrInsufficientGold):
		return fmt.Sprintf("You need %d gold but have %d.", item.BuyPrice*qty, st.Gold())
	case errors.Is(err, shop.ErrInventoryFull):
		return "Your inventory is full."
	case errors.Is(err, shop.ErrNotStocked):
		return fmt.Sprintf("%s is not for sale here.", item.Name)
	default:
		return fmt.Sprintf("You can't buy %s: %v", item.Name, err)
	}
}

// HandleSell sells held items to the nearby shopkeeper.
//
// Postcondition: on failure gold and inventory are unchanged.
func HandleSell(env *Env, args []string) string {
	target, qty, _ := SplitQuantity(args)
	if target == "" {
		return "Usage: sell <item|slot> [quantity]"
	}
	if _, ok := nearbyShop(env); !ok {
		return msgNoShop
	}
	item, _ := heldItem(env, target)
	if item == nil {
		return fmt.Sprintf("You don't have %q.", target)
	}

	inv := env.Player.Inventory
	err := shop.Sell(inv, env.Player.Stats, item, qty)
	switch {
	case err == nil:
		return fmt.Sprintf("You sell %s for %d gold.", quantityName(item, qty), item.SellPrice*qty)
	case errors.Is(err, shop.ErrInvalidQuantity):
		return "Quantity must be at least 1."
	case errors.Is(err, shop.ErrNotForSale):
		return fmt.Sprintf("%s can't be sold.", item.Name)
	case errors.Is(err, shop.ErrInsufficientQuantity):
		return fmt.Sprintf("You only have %d %s.", inv.GetItemCount(item), item.Name)
	default:
		return fmt.Sprintf("You can't sell %s: %v", item.Name, err)
	}
}
