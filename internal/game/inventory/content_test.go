package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/rpgcore/internal/game/inventory"
)

// TestContent_ItemsLoadAndRegister verifies the shipped item library parses,
// validates, and has no duplicate IDs.
func TestContent_ItemsLoadAndRegister(t *testing.T) {
	items, err := inventory.LoadItems("../../../content/items")
	require.NoError(t, err, "content/items should load without error")
	require.NotEmpty(t, items)

	reg, err := inventory.NewRegistryFrom(items)
	require.NoError(t, err)
	assert.Equal(t, len(items), reg.Len())
}

// TestContent_EverySlotHasGear verifies each equipment slot can be filled by
// at least one shipped item.
func TestContent_EverySlotHasGear(t *testing.T) {
	items, err := inventory.LoadItems("../../../content/items")
	require.NoError(t, err)

	covered := map[inventory.EquipSlot]bool{}
	for _, item := range items {
		if item.Kind == inventory.KindEquipment {
			covered[item.EquipSlot] = true
		}
	}
	for _, slot := range inventory.EquipSlots {
		assert.True(t, covered[slot], "no item for slot %q", slot)
	}
}

// TestContent_SellBelowBuy verifies no shipped item can be bought and sold
// back at a profit.
func TestContent_SellBelowBuy(t *testing.T) {
	items, err := inventory.LoadItems("../../../content/items")
	require.NoError(t, err)
	for _, item := range items {
		if item.BuyPrice > 0 {
			assert.LessOrEqual(t, item.SellPrice, item.BuyPrice, "item %q", item.ID)
		}
	}
}
