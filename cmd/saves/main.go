// Package main lists and deletes a player's save slots in the configured backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cory-johannsen/rpgcore/internal/config"
	"github.com/cory-johannsen/rpgcore/internal/game/player"
	"github.com/cory-johannsen/rpgcore/internal/save"
	"github.com/cory-johannsen/rpgcore/internal/storage/postgres"
	"github.com/cory-johannsen/rpgcore/internal/storage/sqlite"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	name := flag.String("player", "", "player name (defaults to player.name from config)")
	del := flag.String("delete", "", "slot to delete")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *name == "" {
		*name = cfg.Player.Name
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var store save.Store
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("connecting to database: %v", err)
		}
		defer pool.Close()
		store = postgres.NewSaveRepository(pool.DB())
	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("opening save file: %v", err)
		}
		defer s.Close()
		store = s
	default:
		log.Fatalf("storage backend %q keeps no saves between runs", cfg.Storage.Backend)
	}

	id := player.IDForName(*name)
	if *del != "" {
		if err := store.Delete(ctx, id, *del); err != nil {
			log.Fatalf("deleting slot %q: %v", *del, err)
		}
		fmt.Fprintf(os.Stdout, "deleted slot %q for %s [%s]\n", *del, *name, time.Since(start))
		return
	}

	records, err := store.List(ctx, id)
	if err != nil {
		log.Fatalf("listing saves: %v", err)
	}
	if len(records) == 0 {
		fmt.Fprintf(os.Stdout, "no saves for %s\n", *name)
		return
	}
	for _, r := range records {
		fmt.Fprintf(os.Stdout, "%-12s level %-3d hp %-4d gold %-6d at (%.1f, %.1f) saved %s\n",
			r.Slot, r.Level, r.CurrentHealth, r.Gold, r.PosX, r.PosY, r.SavedAt.Local().Format(time.DateTime))
	}
}
