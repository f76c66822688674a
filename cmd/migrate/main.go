// Package main applies save-game schema migrations to the configured backend.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"

	"github.com/cory-johannsen/rpgcore/internal/config"
	"github.com/cory-johannsen/rpgcore/internal/storage/postgres"
	"github.com/cory-johannsen/rpgcore/internal/storage/sqlite"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	direction := flag.String("direction", "up", "migration direction: up or down (postgres only)")
	steps := flag.Int("steps", 0, "number of steps (0 = all, postgres only)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		if err := sqlite.Migrate(cfg.Storage.SQLitePath); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		fmt.Fprintf(os.Stdout, "migrated sqlite %s [%s]\n", cfg.Storage.SQLitePath, time.Since(start))
		return
	case config.BackendMemory:
		fmt.Fprintln(os.Stdout, "memory backend has no schema")
		return
	}

	m, err := postgres.NewMigrator(cfg.Database)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer m.Close()

	switch *direction {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	default:
		log.Fatalf("invalid direction %q: must be 'up' or 'down'", *direction)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration failed: %v", err)
	}

	version, dirty, _ := m.Version()
	elapsed := time.Since(start)

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintf(os.Stdout, "no changes (version=%d dirty=%v) [%s]\n", version, dirty, elapsed)
	} else {
		fmt.Fprintf(os.Stdout, "migrated %s to version=%d dirty=%v [%s]\n", *direction, version, dirty, elapsed)
	}
}
