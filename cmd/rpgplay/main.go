// Package main runs a single-player session in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgcore/internal/config"
	"github.com/cory-johannsen/rpgcore/internal/game/command"
	"github.com/cory-johannsen/rpgcore/internal/game/player"
	"github.com/cory-johannsen/rpgcore/internal/save"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	slot := flag.String("slot", "", "save slot to load and autosave into (overrides storage.slot)")
	fresh := flag.Bool("new", false, "start a new game instead of loading the slot")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *slot != "" {
		cfg.Storage.Slot = *slot
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	game, cleanup, err := initializeGame(ctx, cfg)
	if err != nil {
		log.Fatalf("initializing game: %v", err)
	}
	defer cleanup()

	logger := game.Logger
	if !*fresh {
		if err := resume(game); err != nil {
			logger.Error("loading save", zap.Error(err))
		}
	}

	logger.Info("game ready",
		zap.String("player", game.Env.Player.Name),
		zap.String("slot", cfg.Storage.Slot),
		zap.String("storage", cfg.Storage.Backend),
		zap.Duration("elapsed", time.Since(start)),
	)

	if err := game.Lifecycle.Run(ctx); err != nil {
		logger.Error("session ended with error", zap.Error(err))
		cleanup()
		log.Fatalf("%v", err)
	}
}

// resume loads the configured slot into the player if it exists and reports
// the result in the HUD log.
func resume(g *Game) error {
	var (
		exists bool
		msg    string
		err    error
	)
	g.Session.Do(func(p *player.Player) {
		_, err = g.Env.Saves.Load(g.Env.Ctx, p.ID, g.Env.Slot)
		switch {
		case errors.Is(err, save.ErrNotFound):
			err = nil
			msg = fmt.Sprintf("Starting a new game in slot %q.", g.Env.Slot)
		case err == nil:
			exists = true
			msg = command.Execute(g.Env, "load "+g.Env.Slot).Output
		}
	})
	if err != nil {
		return err
	}
	g.App.HUD().AddMessage(msg)
	g.Logger.Info("slot checked", zap.String("slot", g.Env.Slot), zap.Bool("resumed", exists))
	return nil
}
