package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgcore/internal/config"
	"github.com/cory-johannsen/rpgcore/internal/content"
	"github.com/cory-johannsen/rpgcore/internal/game/command"
	"github.com/cory-johannsen/rpgcore/internal/game/dialogue"
	"github.com/cory-johannsen/rpgcore/internal/game/npc"
	"github.com/cory-johannsen/rpgcore/internal/game/player"
	"github.com/cory-johannsen/rpgcore/internal/game/shop"
	"github.com/cory-johannsen/rpgcore/internal/game/stats"
	"github.com/cory-johannsen/rpgcore/internal/game/world"
	"github.com/cory-johannsen/rpgcore/internal/observability"
	"github.com/cory-johannsen/rpgcore/internal/save"
	"github.com/cory-johannsen/rpgcore/internal/server"
	"github.com/cory-johannsen/rpgcore/internal/storage/postgres"
	"github.com/cory-johannsen/rpgcore/internal/storage/sqlite"
	"github.com/cory-johannsen/rpgcore/internal/ui"
)

// Game is everything main needs after injection.
type Game struct {
	Lifecycle *server.Lifecycle
	App       *ui.App
	Session   *player.Session
	Env       *command.Env
	Logger    *zap.Logger
}

func provideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideContent(ctx context.Context, cfg config.Config, logger *zap.Logger) (*content.Bundle, func(), error) {
	b, err := content.Load(ctx, content.Paths{
		ItemsDir:               cfg.Content.ItemsDir,
		NPCsDir:                cfg.Content.NPCsDir,
		ScriptsDir:             cfg.Content.ScriptsDir,
		FieldFile:              cfg.Content.FieldFile,
		ScriptInstructionLimit: cfg.Content.ScriptInstructionLimit,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return b, b.Close, nil
}

func provideField(b *content.Bundle) (*world.Field, error) {
	return b.NewField()
}

// providePlayer builds the configured character. A field layout's spawn
// point replaces the configured one.
func providePlayer(cfg config.Config, b *content.Bundle, field *world.Field, logger *zap.Logger) *player.Player {
	pc := cfg.Player
	spawn := player.Position{X: pc.Spawn.X, Y: pc.Spawn.Y}
	if b.Layout != nil {
		spawn = b.Layout.Spawn
	}
	return player.New(player.Options{
		Name:          pc.Name,
		InventorySize: pc.InventorySize,
		Base: stats.Base{
			MaxHealth:             pc.Base.MaxHealth,
			MaxMana:               pc.Base.MaxMana,
			Level:                 pc.Base.Level,
			Experience:            pc.Base.Experience,
			ExperienceToNextLevel: pc.Base.ExperienceToNextLevel,
			Attack:                pc.Base.Attack,
			Defense:               pc.Base.Defense,
			Gold:                  pc.Base.Gold,
		},
		Spawn: field.Clamp(spawn),
	}, b.Scripts, logger)
}

func provideNPCs(cfg config.Config, b *content.Bundle) (*npc.Manager, error) {
	seed := cfg.UI.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	m := npc.NewManager(seed)
	if err := m.SpawnAll(b.NPCs); err != nil {
		return nil, fmt.Errorf("spawning npcs: %w", err)
	}
	return m, nil
}

func provideShops(b *content.Bundle) (map[string]*shop.Shop, error) {
	shops := make(map[string]*shop.Shop)
	for _, t := range b.NPCs {
		if !t.Shopkeeper {
			continue
		}
		s, err := shop.New(t, b.Items)
		if err != nil {
			return nil, err
		}
		shops[t.ID] = s
	}
	return shops, nil
}

// provideStore opens the configured save backend.
func provideStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (save.Store, func(), error) {
	start := time.Now()
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		if err := postgres.MigrateUp(cfg.Database); err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(start)),
		)
		return postgres.NewSaveRepository(pool.DB()), pool.Close, nil
	case config.BackendSQLite:
		if dir := filepath.Dir(cfg.Storage.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("creating save directory: %w", err)
			}
		}
		store, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("save file opened",
			zap.String("path", cfg.Storage.SQLitePath),
			zap.Duration("elapsed", time.Since(start)),
		)
		return store, func() { _ = store.Close() }, nil
	default:
		logger.Warn("saves are kept in memory and lost on exit")
		return save.NewMemoryStore(), func() {}, nil
	}
}

func provideSession(p *player.Player) *player.Session {
	return player.NewSession(p)
}

func provideEnv(
	ctx context.Context,
	cfg config.Config,
	p *player.Player,
	b *content.Bundle,
	field *world.Field,
	npcs *npc.Manager,
	shops map[string]*shop.Shop,
	store save.Store,
	logger *zap.Logger,
) *command.Env {
	return &command.Env{
		Ctx:          ctx,
		Player:       p,
		Items:        b.Items,
		Field:        field,
		NPCs:         npcs,
		Shops:        shops,
		Conversation: dialogue.New(),
		Saves:        store,
		Slot:         cfg.Storage.Slot,
		Commands:     command.DefaultRegistry(),
		Logger:       logger,
	}
}

func provideScreen() (tcell.Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	return s, nil
}

func provideApp(cfg config.Config, screen tcell.Screen, session *player.Session, env *command.Env, logger *zap.Logger) *ui.App {
	return ui.NewApp(screen, session, env, cfg.UI.TickInterval, logger)
}

func provideAutosave(cfg config.Config, session *player.Session, env *command.Env, logger *zap.Logger) *server.Autosave {
	return server.NewAutosave(session, env.Saves, func() string { return env.Slot }, cfg.Storage.AutosaveInterval, logger)
}

// provideLifecycle registers the UI and, when enabled, autosave.
func provideLifecycle(cfg config.Config, app *ui.App, autosave *server.Autosave, logger *zap.Logger) *server.Lifecycle {
	lc := server.NewLifecycle(logger)
	if cfg.Storage.AutosaveInterval > 0 {
		lc.Add("autosave", autosave)
	}
	lc.Add("ui", app)
	return lc
}

func provideGame(lc *server.Lifecycle, app *ui.App, session *player.Session, env *command.Env, logger *zap.Logger) *Game {
	return &Game{Lifecycle: lc, App: app, Session: session, Env: env, Logger: logger}
}
