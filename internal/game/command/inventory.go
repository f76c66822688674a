package command

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/rpgcore/internal/game/inventory"
)

// HandleInventory lists occupied slots, slot usage, and gold.
func HandleInventory(env *Env) string {
	inv := env.Player.Inventory
	var b strings.Builder
	fmt.Fprintf(&b, "Inventory (%d/%d slots):\n", inv.UsedSlots(), inv.Size())
	if inv.UsedSlots() == 0 {
		b.WriteString("  (empty)\n")
	}
	for i, slot := range inv.Slots() {
		if slot.Empty() {
			continue
		}
		fmt.Fprintf(&b, "  %2d. %s\n", i+1, quantityName(slot.Item, slot.Quantity))
	}
	fmt.Fprintf(&b, "Gold: %d", env.Player.Stats.Gold())
	return b.String()
}

// HandleUse consumes one unit of a held consumable.
//
// Postcondition: on success the item's restores and script have been applied
// and one unit has left the inventory.
func HandleUse(env *Env, arg string) string {
	if strings.TrimSpace(arg) == "" {
		return "Usage: use <item|slot>"
	}
	item, idx := heldItem(env, arg)
	if item == nil {
		return fmt.Sprintf("You don't have %q.", strings.TrimSpace(arg))
	}
	if item.Kind != inventory.KindConsumable {
		return fmt.Sprintf("%s cannot be used.", item.Name)
	}

	st := env.Player.Stats
	level := st.Level()
	env.Player.Inventory.UseItem(idx)

	msg := fmt.Sprintf("You use %s. HP %d/%d, MP %d/%d.", item.Name,
		st.CurrentHealth(), st.MaxHealth(), st.CurrentMana(), st.MaxMana())
	if st.Level() > level {
		msg += fmt.Sprintf(" You reached level %d!", st.Level())
	}
	return msg
}

// HandleEquip moves a held equipment item onto the equipment board.
//
// Postcondition: on failure the inventory and board are unchanged.
func HandleEquip(env *Env, arg string) string {
	if strings.TrimSpace(arg) == "" {
		return "Usage: equip <item|slot>"
	}
	item, _ := heldItem(env, arg)
	if item == nil {
		return fmt.Sprintf("You don't have %q.", strings.TrimSpace(arg))
	}
	if item.Kind != inventory.KindEquipment {
		return fmt.Sprintf("%s cannot be equipped.", item.Name)
	}

	eq := env.Player.Equipment
	prev := eq.GetEquippedItem(item.EquipSlot)
	if !eq.EquipItem(item) {
		if prev != nil {
			return fmt.Sprintf("Your inventory is too full to take back %s.", prev.Name)
		}
		return fmt.Sprintf("You cannot equip %s.", item.Name)
	}
	if prev != nil {
		return fmt.Sprintf("You equip %s in your %s slot, replacing %s.", item.Name, item.EquipSlot, prev.Name)
	}
	return fmt.Sprintf("You equip %s in your %s slot.", item.Name, item.EquipSlot)
}

// HandleUnequip returns the occupant of a named slot to the inventory. arg
// may also name the equipped item itself.
func HandleUnequip(env *Env, arg string) string {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if arg == "" {
		return "Usage: unequip <weapon|armor|accessory>"
	}
	eq := env.Player.Equipment
	slot, ok := inventory.ParseEquipSlot(arg)
	if !ok {
		var worn []*inventory.ItemDef
		for _, s := range eq.Slots() {
			if s.Item != nil {
				worn = append(worn, s.Item)
			}
		}
		item := matchItem(arg, worn)
		if item == nil {
			return fmt.Sprintf("Unknown slot %q. Choose weapon, armor, or accessory.", arg)
		}
		slot = item.EquipSlot
	}

	item := eq.GetEquippedItem(slot)
	if item == nil {
		return fmt.Sprintf("Nothing is equipped in your %s slot.", slot)
	}
	if !eq.UnequipItem(slot) {
		return fmt.Sprintf("Your inventory is full. %s stays equipped.", item.Name)
	}
	return fmt.Sprintf("You unequip %s.", item.Name)
}

// HandleEquipment lists every equipment slot and its bonuses.
func HandleEquipment(env *Env) string {
	eq := env.Player.Equipment
	var b strings.Builder
	b.WriteString("Equipment:\n")
	for _, s := range eq.Slots() {
		label := s.Slot.DisplayName() + ":"
		if s.Item == nil {
			fmt.Fprintf(&b, "  %-10s (empty)\n", label)
			continue
		}
		if bonus := describeBonuses(s.Item); bonus != "" {
			fmt.Fprintf(&b, "  %-10s %s (%s)\n", label, s.Item.Name, bonus)
		} else {
			fmt.Fprintf(&b, "  %-10s %s\n", label, s.Item.Name)
		}
	}
	fmt.Fprintf(&b, "Total: ATK +%d, DEF +%d", eq.GetTotalAttackBonus(), eq.GetTotalDefenseBonus())
	return b.String()
}

// describeBonuses renders the non-zero equip deltas of item.
func describeBonuses(item *inventory.ItemDef) string {
	var parts []string
	add := func(label string, v int) {
		if v != 0 {
			parts = append(parts, fmt.Sprintf("%s %+d", label, v))
		}
	}
	add("ATK", item.AttackBonus)
	add("DEF", item.DefenseBonus)
	add("HP", item.HealthBonus)
	add("MP", item.ManaBonus)
	return strings.Join(parts, ", ")
}

// HandleStats reports the stat block with equipment included.
func HandleStats(env *Env) string {
	p := env.Player
	st := p.Stats
	var b strings.Builder
	fmt.Fprintf(&b, "%s, level %d\n", p.Name, st.Level())
	fmt.Fprintf(&b, "HP %d/%d  MP %d/%d\n", st.CurrentHealth(), st.MaxHealth(), st.CurrentMana(), st.MaxMana())
	fmt.Fprintf(&b, "XP %d/%d\n", st.Experience(), st.ExperienceToNextLevel())
	fmt.Fprintf(&b, "ATK %d (base %d)  DEF %d (base %d)\n", p.Attack(), st.Attack(), p.Defense(), st.Defense())
	fmt.Fprintf(&b, "Gold %d", st.Gold())
	if !st.Alive() {
		b.WriteString("\nYou are dead.")
	}
	return b.String()
}

// HandleDrop removes items from the inventory and leaves them on the field at
// the player's feet. Quest items cannot be dropped.
//
// Postcondition: on failure the inventory and field are unchanged.
func HandleDrop(env *Env, args []string) string {
	target, qty, _ := SplitQuantity(args)
	if target == "" {
		return "Usage: drop <item|slot> [quantity]"
	}
	if qty < 1 {
		return "Quantity must be at least 1."
	}
	item, _ := heldItem(env, target)
	if item == nil {
		return fmt.Sprintf("You don't have %q.", target)
	}
	if item.Kind == inventory.KindQuest {
		return fmt.Sprintf("You can't drop %s.", item.Name)
	}
	inv := env.Player.Inventory
	if have := inv.GetItemCount(item); have < qty {
		return fmt.Sprintf("You only have %d %s.", have, item.Name)
	}
	if !inv.RemoveItem(item, qty) {
		return fmt.Sprintf("You can't drop %s.", item.Name)
	}
	env.Field.Drop(item, qty, env.Player.Position(), false)
	return fmt.Sprintf("You drop %s.", quantityName(item, qty))
}
