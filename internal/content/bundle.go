// Package content loads and cross-checks the item, NPC, script, and field
// definitions a game session runs on.
package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/rpgcore/internal/game/inventory"
	"github.com/cory-johannsen/rpgcore/internal/game/npc"
	"github.com/cory-johannsen/rpgcore/internal/game/world"
	"github.com/cory-johannsen/rpgcore/internal/scripting"
)

// Paths locates each content kind on disk.
type Paths struct {
	ItemsDir   string `mapstructure:"items_dir"`
	NPCsDir    string `mapstructure:"npcs_dir"`
	ScriptsDir string `mapstructure:"scripts_dir"`
	// FieldFile is the play field layout. Empty means an unbounded, empty field.
	FieldFile string `mapstructure:"field_file"`
	// ScriptInstructionLimit caps opcodes per hook call; 0 uses the default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// Bundle is the loaded, cross-validated content.
type Bundle struct {
	Items   *inventory.Registry
	NPCs    []*npc.Template
	Scripts *scripting.Manager
	// Layout is nil when Paths.FieldFile is empty.
	Layout *world.Layout
}

// Close releases the script VM.
func (b *Bundle) Close() {
	if b.Scripts != nil {
		b.Scripts.Close()
	}
}

// NewField builds the play field from the layout.
func (b *Bundle) NewField() (*world.Field, error) {
	if b.Layout == nil {
		return world.NewField(0, 0), nil
	}
	return world.NewFieldFromLayout(b.Layout, b.Items)
}

// Load reads every content kind concurrently, then cross-validates them.
//
// Precondition: logger must be non-nil.
// Postcondition: on success every NPC stock ID, item script hook, and field
// pickup resolves. On error the returned Bundle is nil and any script VM is
// released.
func Load(ctx context.Context, paths Paths, logger *zap.Logger) (*Bundle, error) {
	start := time.Now()
	var (
		items   []*inventory.ItemDef
		npcs    []*npc.Template
		layout  *world.Layout
		scripts = scripting.NewManager(logger, paths.ScriptInstructionLimit)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		items, err = inventory.LoadItems(paths.ItemsDir)
		return err
	})
	g.Go(func() error {
		if paths.NPCsDir == "" || gctx.Err() != nil {
			return gctx.Err()
		}
		var err error
		npcs, err = npc.LoadTemplates(paths.NPCsDir)
		return err
	})
	g.Go(func() error {
		if paths.ScriptsDir == "" || gctx.Err() != nil {
			return gctx.Err()
		}
		return scripts.LoadDir(paths.ScriptsDir)
	})
	g.Go(func() error {
		if paths.FieldFile == "" || gctx.Err() != nil {
			return gctx.Err()
		}
		var err error
		layout, err = world.LoadLayout(paths.FieldFile)
		return err
	})
	if err := g.Wait(); err != nil {
		scripts.Close()
		return nil, fmt.Errorf("content: %w", err)
	}

	reg, err := inventory.NewRegistryFrom(items)
	if err != nil {
		scripts.Close()
		return nil, fmt.Errorf("content: %w", err)
	}
	b := &Bundle{Items: reg, NPCs: npcs, Scripts: scripts, Layout: layout}
	if err := b.Validate(); err != nil {
		scripts.Close()
		return nil, err
	}

	logger.Info("content loaded",
		zap.Int("items", reg.Len()),
		zap.Int("npcs", len(npcs)),
		zap.Int("hooks", len(scripts.Hooks())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return b, nil
}

// Validate checks references between content kinds.
//
// Postcondition: returns nil iff every reference resolves; otherwise all
// violations are joined.
func (b *Bundle) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(b.NPCs))
	for _, t := range b.NPCs {
		if seen[t.ID] {
			errs = append(errs, fmt.Errorf("npc %q defined more than once", t.ID))
		}
		seen[t.ID] = true
		for _, id := range t.Stock {
			if _, ok := b.Items.Item(id); !ok {
				errs = append(errs, fmt.Errorf("npc %q stocks unknown item %q", t.ID, id))
			}
		}
	}
	for _, item := range b.Items.AllItems() {
		if item.Script != "" && (b.Scripts == nil || !b.Scripts.HasHook(item.Script)) {
			errs = append(errs, fmt.Errorf("item %q uses undefined script hook %q", item.ID, item.Script))
		}
	}
	if b.Layout != nil {
		for _, p := range b.Layout.Pickups {
			if _, ok := b.Items.Item(p.Item); !ok {
				errs = append(errs, fmt.Errorf("field %q places unknown item %q", b.Layout.ID, p.Item))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("content: cross-validation failed: %w", errors.Join(errs...))
	}
	return nil
}
