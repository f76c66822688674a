// Package main loads and cross-checks the content directories without
// starting a game.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgcore/internal/content"
	"github.com/cory-johannsen/rpgcore/internal/game/inventory"
)

func main() {
	itemsDir := flag.String("items", "content/items", "path to item YAML directory")
	npcsDir := flag.String("npcs", "content/npcs", "path to NPC YAML directory")
	scriptsDir := flag.String("scripts", "content/scripts", "path to Lua item script directory")
	fieldFile := flag.String("field", "content/world/meadow.yaml", "path to field layout file")
	verbose := flag.Bool("v", false, "list every item")
	flag.Parse()

	start := time.Now()
	b, err := content.Load(context.Background(), content.Paths{
		ItemsDir:   *itemsDir,
		NPCsDir:    *npcsDir,
		ScriptsDir: *scriptsDir,
		FieldFile:  *fieldFile,
	}, zap.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	counts := make(map[inventory.Kind]int)
	for _, item := range b.Items.AllItems() {
		counts[item.Kind]++
		if *verbose {
			fmt.Printf("  %-16s %-20s %s\n", item.ID, item.Name, item.Kind)
		}
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("%-12s %d\n", k, counts[inventory.Kind(k)])
	}
	fmt.Printf("npcs         %d\n", len(b.NPCs))
	fmt.Printf("hooks        %d\n", len(b.Scripts.Hooks()))
	if b.Layout != nil {
		fmt.Printf("field        %s (%d pickups)\n", b.Layout.Name, len(b.Layout.Pickups))
	}
	fmt.Printf("content ok in %s\n", time.Since(start).Round(time.Millisecond))
}
