// Package inventory provides item definitions, the slot-based inventory store,
// and the equipment board that exchanges items with it.
package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Kind classifies what an item does when used.
type Kind string

// Kind constants for ItemDef.Kind.
const (
	KindConsumable Kind = "consumable"
	KindEquipment  Kind = "equipment"
	KindMaterial   Kind = "material"
	KindQuest      Kind = "quest"
	KindMisc       Kind = "misc"
)

// validKinds is the set of valid ItemDef kinds.
var validKinds = map[Kind]bool{
	KindConsumable: true,
	KindEquipment:  true,
	KindMaterial:   true,
	KindQuest:      true,
	KindMisc:       true,
}

// EquipSlot identifies one of the three equipment board slots.
type EquipSlot string

const (
	// SlotWeapon holds the wielded weapon.
	SlotWeapon EquipSlot = "weapon"
	// SlotArmor holds body armor.
	SlotArmor EquipSlot = "armor"
	// SlotAccessory holds a ring, amulet, or similar trinket.
	SlotAccessory EquipSlot = "accessory"
)

// EquipSlots lists every equipment slot in display order.
var EquipSlots = [...]EquipSlot{SlotWeapon, SlotArmor, SlotAccessory}

// Valid reports whether s is one of the three equipment slots.
func (s EquipSlot) Valid() bool {
	return slotIndex(s) >= 0
}

// slotDisplayNames maps every slot identifier to its human-readable label.
var slotDisplayNames = map[EquipSlot]string{
	SlotWeapon:    "Weapon",
	SlotArmor:     "Armor",
	SlotAccessory: "Accessory",
}

// DisplayName returns the human-readable label for the slot.
func (s EquipSlot) DisplayName() string {
	if label, ok := slotDisplayNames[s]; ok {
		return label
	}
	return string(s)
}

// ParseEquipSlot resolves a user-supplied slot name.
func ParseEquipSlot(name string) (EquipSlot, bool) {
	s := EquipSlot(name)
	return s, s.Valid()
}

// ItemDef defines the static properties of an item loaded from YAML.
// ItemDefs are never mutated after loading.
type ItemDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Kind        Kind   `yaml:"kind"`
	Stackable   bool   `yaml:"stackable"`
	MaxStack    int    `yaml:"max_stack"`
	BuyPrice    int    `yaml:"buy_price"`
	SellPrice   int    `yaml:"sell_price"`

	EquipSlot    EquipSlot `yaml:"equip_slot"`
	AttackBonus  int       `yaml:"attack_bonus"`
	DefenseBonus int       `yaml:"defense_bonus"`
	HealthBonus  int       `yaml:"health_bonus"`
	ManaBonus    int       `yaml:"mana_bonus"`

	HealthRestore int `yaml:"health_restore"`
	ManaRestore   int `yaml:"mana_restore"`
	// Script names a Lua hook run after the built-in restores when the item is consumed.
	Script string `yaml:"script"`
}

// StackLimit returns the most units one slot may hold.
//
// Postcondition: result >= 1; result == 1 for non-stackable items.
func (d *ItemDef) StackLimit() int {
	if !d.Stackable || d.MaxStack < 1 {
		return 1
	}
	return d.MaxStack
}

func (d *ItemDef) hasEquipDeltas() bool {
	return d.AttackBonus != 0 || d.DefenseBonus != 0 || d.HealthBonus != 0 || d.ManaBonus != 0
}

func (d *ItemDef) hasRestores() bool {
	return d.HealthRestore != 0 || d.ManaRestore != 0
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validKinds[d.Kind] {
		errs = append(errs, fmt.Errorf("Kind must be one of consumable, equipment, material, quest, misc; got %q", d.Kind))
	}
	if d.MaxStack < 1 {
		errs = append(errs, errors.New("MaxStack must be >= 1"))
	}
	if d.BuyPrice < 0 || d.SellPrice < 0 {
		errs = append(errs, errors.New("prices must be >= 0"))
	}
	if d.HealthRestore < 0 || d.ManaRestore < 0 {
		errs = append(errs, errors.New("restores must be >= 0"))
	}
	switch d.Kind {
	case KindEquipment:
		if !d.EquipSlot.Valid() {
			errs = append(errs, fmt.Errorf("EquipSlot must be one of weapon, armor, accessory when Kind is equipment; got %q", d.EquipSlot))
		}
		if d.hasRestores() {
			errs = append(errs, errors.New("equipment must not carry consumable restores"))
		}
		if d.Stackable {
			errs = append(errs, errors.New("equipment must not be stackable"))
		}
	case KindConsumable:
		if d.hasEquipDeltas() {
			errs = append(errs, errors.New("consumables must not carry equip bonuses"))
		}
	default:
		if d.hasEquipDeltas() || d.hasRestores() {
			errs = append(errs, fmt.Errorf("%s items must not carry equip bonuses or restores", d.Kind))
		}
	}
	if d.Script != "" && d.Kind != KindConsumable {
		errs = append(errs, errors.New("Script is only allowed on consumables"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q validation failed: %v", d.ID, errs)
	}
	return nil
}

// LoadItemsFromBytes parses one YAML document holding either a single item or
// a sequence of items, and validates each.
//
// Postcondition: returns all parsed ItemDefs or the first error.
func LoadItemsFromBytes(data []byte) ([]*ItemDef, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var items []*ItemDef
	if trimmed[0] == '-' {
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parsing item list: %w", err)
		}
	} else {
		var d ItemDef
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parsing item: %w", err)
		}
		items = []*ItemDef{&d}
	}

	for _, d := range items {
		if d.MaxStack == 0 && !d.Stackable {
			d.MaxStack = 1
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// LoadItems reads all *.yaml and *.yml files from dir, parses each as an
// ItemDef or list of ItemDefs, validates them, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ItemDefs or the first encountered error.
func LoadItems(dir string) ([]*ItemDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	var items []*ItemDef
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		defs, err := LoadItemsFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
		}
		items = append(items, defs...)
	}
	return items, nil
}
