package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rpgcore/internal/game/inventory"
	"github.com/cory-johannsen/rpgcore/internal/game/stats"
)

func newBoard(t *testing.T, size int) (*inventory.Store, *inventory.Equipment, *stats.Block) {
	t.Helper()
	s := inventory.NewStore(size, nil)
	b := stats.New(stats.DefaultBase())
	return s, inventory.NewEquipment(s, b), b
}

// Scenario B: equipping a held sword moves it out of the store.
func TestEquipment_EquipItem_MovesFromStore(t *testing.T) {
	s, e, _ := newBoard(t, 20)
	sword := swordDef("sword", 5)
	require.True(t, s.AddItem(sword, 1))

	require.True(t, e.EquipItem(sword))

	assert.Equal(t, sword, e.GetEquippedItem(inventory.SlotWeapon))
	slot, _ := s.Slot(0)
	assert.True(t, slot.Empty())
	assert.Equal(t, 5, e.GetTotalAttackBonus())
}

func TestEquipment_EquipItem_RequiresHeldEquipment(t *testing.T) {
	s, e, _ := newBoard(t, 5)
	assert.False(t, e.EquipItem(swordDef("sword", 5)))
	assert.False(t, e.EquipItem(nil))

	potion := potionDef(10)
	require.True(t, s.AddItem(potion, 1))
	assert.False(t, e.EquipItem(potion))
	assert.Equal(t, 1, s.GetItemCount(potion))
}

func TestEquipment_EquipItem_SwapsOccupant(t *testing.T) {
	s, e, _ := newBoard(t, 5)
	dagger := swordDef("dagger", 2)
	sword := swordDef("sword", 5)
	require.True(t, s.AddItem(dagger, 1))
	require.True(t, s.AddItem(sword, 1))

	var unequipped []string
	e.Unequipped.Subscribe(func(c inventory.EquipChange) { unequipped = append(unequipped, c.Item.ID) })

	require.True(t, e.EquipItem(dagger))
	require.True(t, e.EquipItem(sword))

	assert.Equal(t, "sword", e.GetEquippedItem(inventory.SlotWeapon).ID)
	assert.Equal(t, 1, s.GetItemCount(dagger))
	assert.Equal(t, 0, s.GetItemCount(sword))
	assert.Equal(t, 5, e.GetTotalAttackBonus())
	assert.Equal(t, []string{"dagger"}, unequipped)
}

func TestEquipment_MaxStatBonuses(t *testing.T) {
	s, e, b := newBoard(t, 5)
	mail := shieldDef()
	require.True(t, s.AddItem(mail, 1))

	require.True(t, e.EquipItem(mail))
	assert.Equal(t, 120, b.MaxHealth())
	assert.Equal(t, 45, b.MaxMana())
	assert.Equal(t, 45, b.CurrentMana())
	assert.Equal(t, 4, e.GetTotalDefenseBonus())

	require.True(t, e.UnequipItem(inventory.SlotArmor))
	assert.Equal(t, 100, b.MaxHealth())
	assert.Equal(t, 50, b.MaxMana())
	assert.Equal(t, 0, e.GetTotalDefenseBonus())
	assert.Equal(t, 1, s.GetItemCount(mail))
}

func TestEquipment_UnequipItem_EmptySlot(t *testing.T) {
	_, e, _ := newBoard(t, 5)
	assert.False(t, e.UnequipItem(inventory.SlotAccessory))
	assert.False(t, e.UnequipItem("boots"))
}

func TestEquipment_UnequipItem_FullStoreLeavesStateUnchanged(t *testing.T) {
	s, e, _ := newBoard(t, 1)
	sword := swordDef("sword", 5)
	require.True(t, s.AddItem(sword, 1))
	require.True(t, e.EquipItem(sword))
	require.True(t, s.AddItem(stoneDef(), 1))

	assert.False(t, e.UnequipItem(inventory.SlotWeapon))
	assert.Equal(t, sword, e.GetEquippedItem(inventory.SlotWeapon))
	assert.Equal(t, 5, e.GetTotalAttackBonus())
}

func TestEquipment_EquipItem_SwapIntoFullStoreAbandons(t *testing.T) {
	s, e, _ := newBoard(t, 1)
	dagger := swordDef("dagger", 2)
	sword := swordDef("sword", 5)
	require.True(t, s.AddItem(dagger, 1))
	require.True(t, e.EquipItem(dagger))
	require.True(t, s.AddItem(sword, 1))

	// The dagger cannot go back while the sword still occupies the only slot.
	assert.False(t, e.EquipItem(sword))
	assert.Equal(t, "dagger", e.GetEquippedItem(inventory.SlotWeapon).ID)
	assert.Equal(t, 1, s.GetItemCount(sword))
}

func TestEquipment_Slots_Order(t *testing.T) {
	_, e, _ := newBoard(t, 1)
	slots := e.Slots()
	require.Len(t, slots, 3)
	assert.Equal(t, inventory.SlotWeapon, slots[0].Slot)
	assert.Equal(t, inventory.SlotArmor, slots[1].Slot)
	assert.Equal(t, inventory.SlotAccessory, slots[2].Slot)
	for _, s := range slots {
		assert.True(t, e.IsSlotEmpty(s.Slot))
	}
}

func TestEquipment_NilStats(t *testing.T) {
	s := inventory.NewStore(2, nil)
	e := inventory.NewEquipment(s, nil)
	mail := shieldDef()
	require.True(t, s.AddItem(mail, 1))
	assert.True(t, e.EquipItem(mail))
	assert.True(t, e.UnequipItem(inventory.SlotArmor))
}

func TestProperty_Equipment_RoundTripRestoresMaxStats(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := inventory.NewStore(10, nil)
		b := stats.New(stats.DefaultBase())
		e := inventory.NewEquipment(s, b)
		slot := rapid.SampledFrom(inventory.EquipSlots[:]).Draw(rt, "slot")
		item := &inventory.ItemDef{
			ID:           "gear",
			Name:         "Gear",
			Kind:         inventory.KindEquipment,
			EquipSlot:    slot,
			MaxStack:     1,
			AttackBonus:  rapid.IntRange(0, 20).Draw(rt, "atk"),
			DefenseBonus: rapid.IntRange(0, 20).Draw(rt, "def"),
			HealthBonus:  rapid.IntRange(-50, 50).Draw(rt, "hp"),
			ManaBonus:    rapid.IntRange(-40, 40).Draw(rt, "mp"),
		}
		if !s.AddItem(item, 1) {
			rt.Fatal("setup add failed")
		}
		maxHP, maxMP := b.MaxHealth(), b.MaxMana()

		if !e.EquipItem(item) {
			rt.Fatal("equip failed")
		}
		if !e.UnequipItem(slot) {
			rt.Fatal("unequip failed")
		}
		if b.MaxHealth() != maxHP || b.MaxMana() != maxMP {
			rt.Fatalf("max stats %d/%d, want %d/%d", b.MaxHealth(), b.MaxMana(), maxHP, maxMP)
		}
		if s.GetItemCount(item) != 1 || !e.IsSlotEmpty(slot) {
			rt.Fatal("item did not return to the store")
		}
	})
}
