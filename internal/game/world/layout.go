package world

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rpgcore/internal/game/inventory"
	"github.com/cory-johannsen/rpgcore/internal/game/player"
)

// yamlLayoutFile is the top-level YAML structure for field layout files.
type yamlLayoutFile struct {
	Field Layout `yaml:"field"`
}

// PickupSpawn places an item stack when a field is populated.
type PickupSpawn struct {
	Item     string          `yaml:"item"`
	Quantity int             `yaml:"quantity"`
	Position player.Position `yaml:"position"`
	Auto     bool            `yaml:"auto"`
}

// Layout describes a play field and its starting pickups.
type Layout struct {
	ID      string          `yaml:"id"`
	Name    string          `yaml:"name"`
	Width   float64         `yaml:"width"`
	Height  float64         `yaml:"height"`
	Spawn   player.Position `yaml:"spawn"`
	Pickups []PickupSpawn   `yaml:"pickups"`
}

// Validate checks that the layout satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (l *Layout) Validate() error {
	var errs []error
	if l.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if l.Width < 0 || l.Height < 0 {
		errs = append(errs, errors.New("width and height must be >= 0"))
	}
	for i, p := range l.Pickups {
		if p.Item == "" {
			errs = append(errs, fmt.Errorf("pickup %d: item must not be empty", i))
		}
		if p.Quantity < 1 {
			errs = append(errs, fmt.Errorf("pickup %d: quantity must be >= 1", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("layout %q validation failed: %w", l.ID, errors.Join(errs...))
	}
	return nil
}

// LoadLayoutFromBytes parses and validates a layout from YAML bytes.
//
// Postcondition: Returns a validated Layout or a non-nil error.
func LoadLayoutFromBytes(data []byte) (*Layout, error) {
	var file yamlLayoutFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing layout YAML: %w", err)
	}
	if err := file.Field.Validate(); err != nil {
		return nil, err
	}
	return &file.Field, nil
}

// LoadLayout reads and validates a single layout YAML file.
//
// Precondition: path must point to a valid YAML layout file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout file %s: %w", path, err)
	}
	return LoadLayoutFromBytes(data)
}

// NewFieldFromLayout builds a Field sized by l and drops its starting pickups.
//
// Precondition: every pickup item resolves through reg.
// Postcondition: on error, no Field is returned.
func NewFieldFromLayout(l *Layout, reg *inventory.Registry) (*Field, error) {
	f := NewField(l.Width, l.Height)
	for _, p := range l.Pickups {
		item, ok := reg.Item(p.Item)
		if !ok {
			return nil, fmt.Errorf("layout %q: unknown item %q", l.ID, p.Item)
		}
		f.Drop(item, p.Quantity, p.Position, p.Auto)
	}
	return f, nil
}
