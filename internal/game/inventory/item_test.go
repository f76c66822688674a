package inventory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cory-johannsen/rpgcore/internal/game/inventory"
	"pgregory.net/rapid"
)

func TestItemDef_Validate_RejectsEmptyID(t *testing.T) {
	d := &inventory.ItemDef{
		Name:     "Junk",
		Kind:     inventory.KindMisc,
		MaxStack: 1,
	}
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for empty ID, got nil")
	}
}

func TestItemDef_Validate_RejectsInvalidKind(t *testing.T) {
	d := &inventory.ItemDef{
		ID:       "junk1",
		Name:     "Junk",
		Kind:     "weapon",
		MaxStack: 1,
	}
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for invalid Kind, got nil")
	}
}

func TestItemDef_Validate_RejectsZeroMaxStack(t *testing.T) {
	d := &inventory.ItemDef{
		ID:       "junk1",
		Name:     "Junk",
		Kind:     inventory.KindMisc,
		MaxStack: 0,
	}
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for MaxStack==0, got nil")
	}
}

func TestItemDef_Validate_EquipmentRequiresSlot(t *testing.T) {
	d := &inventory.ItemDef{
		ID:          "sword",
		Name:        "Sword",
		Kind:        inventory.KindEquipment,
		MaxStack:    1,
		AttackBonus: 5,
	}
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for equipment without slot, got nil")
	}
	d.EquipSlot = inventory.SlotWeapon
	if err := d.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestItemDef_Validate_RejectsMixedEffects(t *testing.T) {
	potion := &inventory.ItemDef{
		ID:            "odd_potion",
		Name:          "Odd Potion",
		Kind:          inventory.KindConsumable,
		Stackable:     true,
		MaxStack:      10,
		HealthRestore: 10,
		AttackBonus:   1,
	}
	if err := potion.Validate(); err == nil {
		t.Fatal("expected error for consumable with equip bonus, got nil")
	}

	ring := &inventory.ItemDef{
		ID:          "odd_ring",
		Name:        "Odd Ring",
		Kind:        inventory.KindEquipment,
		EquipSlot:   inventory.SlotAccessory,
		MaxStack:    1,
		ManaRestore: 5,
	}
	if err := ring.Validate(); err == nil {
		t.Fatal("expected error for equipment with restore, got nil")
	}
}

func TestItemDef_Validate_ScriptOnlyOnConsumables(t *testing.T) {
	d := &inventory.ItemDef{
		ID:       "ore",
		Name:     "Ore",
		Kind:     inventory.KindMaterial,
		MaxStack: 1,
		Script:   "on_ore",
	}
	if err := d.Validate(); err == nil {
		t.Fatal("expected error for script on material, got nil")
	}
}

func TestItemDef_StackLimit(t *testing.T) {
	single := &inventory.ItemDef{Stackable: false, MaxStack: 50}
	if got := single.StackLimit(); got != 1 {
		t.Errorf("non-stackable StackLimit = %d, want 1", got)
	}
	stack := &inventory.ItemDef{Stackable: true, MaxStack: 50}
	if got := stack.StackLimit(); got != 50 {
		t.Errorf("stackable StackLimit = %d, want 50", got)
	}
}

func TestParseEquipSlot(t *testing.T) {
	s, ok := inventory.ParseEquipSlot("armor")
	if !ok || s != inventory.SlotArmor {
		t.Fatalf("ParseEquipSlot(armor) = %q, %v", s, ok)
	}
	if _, ok := inventory.ParseEquipSlot("boots"); ok {
		t.Fatal("expected boots to be rejected")
	}
	if got := inventory.SlotAccessory.DisplayName(); got != "Accessory" {
		t.Errorf("DisplayName = %q", got)
	}
}

func TestLoadItemsFromBytes_SingleAndList(t *testing.T) {
	single := []byte(`
id: potion
name: Potion
kind: consumable
stackable: true
max_stack: 99
health_restore: 25
`)
	items, err := inventory.LoadItemsFromBytes(single)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].HealthRestore != 25 {
		t.Fatalf("got %+v", items)
	}

	list := []byte(`
- id: sword
  name: Sword
  kind: equipment
  equip_slot: weapon
  attack_bonus: 5
- id: stone
  name: Stone
  kind: material
  stackable: true
  max_stack: 20
`)
	items, err = inventory.LoadItemsFromBytes(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].MaxStack != 1 {
		t.Errorf("non-stackable MaxStack defaulted to %d, want 1", items[0].MaxStack)
	}
}

func TestLoadItems_ReadsYAMLFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "potion.yaml"), []byte(`
id: potion
name: Potion
kind: consumable
stackable: true
max_stack: 99
health_restore: 25
`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := inventory.LoadItems(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "potion" {
		t.Fatalf("got %+v", items)
	}
}

func TestLoadItems_RejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: bad\nkind: nonsense\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := inventory.LoadItems(dir); err == nil {
		t.Fatal("expected error for invalid item")
	}
}

func TestLoadItems_MissingDir(t *testing.T) {
	if _, err := inventory.LoadItems(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestProperty_ItemDef_ValidKindsAccepted(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		kind := rapid.SampledFrom([]inventory.Kind{
			inventory.KindConsumable, inventory.KindMaterial, inventory.KindQuest, inventory.KindMisc,
		}).Draw(rt, "kind")
		d := &inventory.ItemDef{
			ID:        rapid.StringMatching(`[a-z]{3,10}`).Draw(rt, "id"),
			Name:      "Thing",
			Kind:      kind,
			Stackable: true,
			MaxStack:  rapid.IntRange(1, 999).Draw(rt, "max_stack"),
		}
		if err := d.Validate(); err != nil {
			rt.Fatalf("valid def rejected: %v", err)
		}
	})
}
