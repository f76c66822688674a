// Package npc provides NPC template definitions and live instance management.
package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rpgcore/internal/game/player"
)

// DefaultInteractionRange is used when a template leaves interaction_range unset.
const DefaultInteractionRange = 2.0

// Interaction is what happens when the player interacts with an NPC.
type Interaction int

const (
	// InteractTalk starts the NPC's dialogue.
	InteractTalk Interaction = iota
	// InteractQuest announces a quest, then starts dialogue.
	InteractQuest
	// InteractShop opens the NPC's shop.
	InteractShop
)

func (i Interaction) String() string {
	switch i {
	case InteractQuest:
		return "quest"
	case InteractShop:
		return "shop"
	case InteractTalk:
		return "talk"
	default:
		return "unknown"
	}
}

// Wander configures idle movement around an NPC's home position.
type Wander struct {
	// Range is the maximum distance from home a wander target is picked.
	Range float64 `yaml:"range"`
	// Speed is distance covered per second.
	Speed float64 `yaml:"speed"`
	// Wait is the pause between moves, as a duration string (e.g. "2s").
	Wait string `yaml:"wait"`
}

// Template defines an NPC loaded from YAML.
type Template struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Dialogue    []string `yaml:"dialogue"`
	QuestGiver  bool     `yaml:"quest_giver"`
	Shopkeeper  bool     `yaml:"shopkeeper"`
	// Stock lists the item IDs a shopkeeper sells.
	Stock            []string        `yaml:"stock"`
	InteractionRange float64         `yaml:"interaction_range"`
	Position         player.Position `yaml:"position"`
	// Wander is nil for NPCs that stand still.
	Wander *Wander `yaml:"wander"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, a shopkeeper has
// stock, InteractionRange > 0, and any Wander block is well formed; returns an
// error on the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if t.Shopkeeper && len(t.Stock) == 0 {
		return fmt.Errorf("npc template %q: shopkeeper must have stock", t.ID)
	}
	if t.InteractionRange <= 0 {
		return fmt.Errorf("npc template %q: interaction_range must be > 0", t.ID)
	}
	if t.Wander != nil {
		if t.Wander.Range <= 0 || t.Wander.Speed <= 0 {
			return fmt.Errorf("npc template %q: wander range and speed must be > 0", t.ID)
		}
		if _, err := t.Wander.WaitDuration(); err != nil {
			return fmt.Errorf("npc template %q: %w", t.ID, err)
		}
	}
	return nil
}

// WaitDuration parses Wait. An empty Wait is zero.
func (w *Wander) WaitDuration() (time.Duration, error) {
	if w.Wait == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(w.Wait)
	if err != nil {
		return 0, fmt.Errorf("wander wait %q is not a valid duration: %w", w.Wait, err)
	}
	return d, nil
}

// Interact returns the interaction t offers. Quest givers take precedence
// over shopkeepers, and shopkeepers over plain dialogue.
func Interact(t *Template) Interaction {
	switch {
	case t.QuestGiver:
		return InteractQuest
	case t.Shopkeeper:
		return InteractShop
	default:
		return InteractTalk
	}
}

// LoadTemplateFromBytes parses a single NPC template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template with InteractionRange
// defaulted, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if tmpl.InteractionRange == 0 {
		tmpl.InteractionRange = DefaultInteractionRange
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml and *.yml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !(strings.HasSuffix(entry.Name(), ".yaml") || strings.HasSuffix(entry.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
