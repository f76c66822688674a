package inventory

import "github.com/cory-johannsen/rpgcore/internal/game/event"

// MaxStats is the part of a stat block the equipment board adjusts.
type MaxStats interface {
	MaxHealth() int
	MaxMana() int
	SetMaxHealth(v int)
	SetMaxMana(v int)
}

// EquipChange is carried by Equipped and Unequipped notifications.
type EquipChange struct {
	Slot EquipSlot
	Item *ItemDef
}

// SlottedItem pairs an equipment slot with its occupant (nil when empty).
type SlottedItem struct {
	Slot EquipSlot
	Item *ItemDef
}

// Equipment holds the weapon, armor, and accessory slots for a character.
//
// An equipped item is removed from the Store for as long as it is equipped.
// Health and mana bonuses are applied to MaxStats on equip and reversed on
// unequip; attack and defense bonuses are summed on demand.
type Equipment struct {
	slots [len(EquipSlots)]*ItemDef
	store *Store
	stats MaxStats

	Equipped   event.Feed[EquipChange]
	Unequipped event.Feed[EquipChange]
}

// NewEquipment returns an empty board that exchanges items with store and
// applies bonuses to stats.
//
// Precondition: store must not be nil. stats may be nil, in which case no
// max health or mana bonuses are applied.
func NewEquipment(store *Store, stats MaxStats) *Equipment {
	return &Equipment{store: store, stats: stats}
}

func slotIndex(s EquipSlot) int {
	switch s {
	case SlotWeapon:
		return 0
	case SlotArmor:
		return 1
	case SlotAccessory:
		return 2
	default:
		return -1
	}
}

// EquipItem moves one unit of item from the store into its equipment slot.
// An occupant of that slot is first returned to the store.
//
// Precondition: item.Kind == KindEquipment and the store holds item.
// Postcondition: on false, the slot, the store, and stats are unchanged.
func (e *Equipment) EquipItem(item *ItemDef) bool {
	if item == nil || item.Kind != KindEquipment {
		return false
	}
	idx := slotIndex(item.EquipSlot)
	if idx < 0 {
		return false
	}
	if !e.store.HasItem(item, 1) {
		return false
	}

	old := e.slots[idx]
	if old != nil {
		if !e.UnequipItem(item.EquipSlot) {
			return false
		}
	}

	if !e.store.RemoveItem(item, 1) {
		if old != nil {
			e.restore(idx, old)
		}
		return false
	}

	e.slots[idx] = item
	e.applyBonuses(item, 1)
	e.Equipped.Emit(EquipChange{Slot: item.EquipSlot, Item: item})
	return true
}

// restore puts old back into slot idx after an aborted swap.
func (e *Equipment) restore(idx int, old *ItemDef) {
	if e.store.RemoveItem(old, 1) {
		e.slots[idx] = old
		e.applyBonuses(old, 1)
		e.Equipped.Emit(EquipChange{Slot: old.EquipSlot, Item: old})
	}
}

// UnequipItem returns the occupant of slot to the store.
//
// Postcondition: returns false with no change if the slot is empty or the
// store has no room.
func (e *Equipment) UnequipItem(slot EquipSlot) bool {
	idx := slotIndex(slot)
	if idx < 0 || e.slots[idx] == nil {
		return false
	}
	item := e.slots[idx]
	if !e.store.AddItem(item, 1) {
		return false
	}
	e.applyBonuses(item, -1)
	e.slots[idx] = nil
	e.Unequipped.Emit(EquipChange{Slot: slot, Item: item})
	return true
}

func (e *Equipment) applyBonuses(item *ItemDef, sign int) {
	if e.stats == nil {
		return
	}
	if item.HealthBonus != 0 {
		e.stats.SetMaxHealth(e.stats.MaxHealth() + sign*item.HealthBonus)
	}
	if item.ManaBonus != 0 {
		e.stats.SetMaxMana(e.stats.MaxMana() + sign*item.ManaBonus)
	}
}

// GetTotalAttackBonus sums AttackBonus across all equipped items.
func (e *Equipment) GetTotalAttackBonus() int {
	total := 0
	for _, item := range e.slots {
		if item != nil {
			total += item.AttackBonus
		}
	}
	return total
}

// GetTotalDefenseBonus sums DefenseBonus across all equipped items.
func (e *Equipment) GetTotalDefenseBonus() int {
	total := 0
	for _, item := range e.slots {
		if item != nil {
			total += item.DefenseBonus
		}
	}
	return total
}

// GetEquippedItem returns the occupant of slot, or nil.
func (e *Equipment) GetEquippedItem(slot EquipSlot) *ItemDef {
	idx := slotIndex(slot)
	if idx < 0 {
		return nil
	}
	return e.slots[idx]
}

// IsSlotEmpty reports whether slot has no occupant. Unknown slots are empty.
func (e *Equipment) IsSlotEmpty(slot EquipSlot) bool {
	return e.GetEquippedItem(slot) == nil
}

// Slots returns every slot in weapon, armor, accessory order.
func (e *Equipment) Slots() []SlottedItem {
	out := make([]SlottedItem, len(EquipSlots))
	for i, s := range EquipSlots {
		out[i] = SlottedItem{Slot: s, Item: e.slots[i]}
	}
	return out
}
