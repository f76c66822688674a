package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgcore/internal/game/player"
	"github.com/cory-johannsen/rpgcore/internal/save"
)

// saveTimeout bounds a single write.
const saveTimeout = 5 * time.Second

// Autosave writes the player's snapshot to a slot on a fixed interval and
// once more when stopped. Autosave implements Service.
type Autosave struct {
	session  *player.Session
	store    save.Store
	slot     func() string
	interval time.Duration
	logger   *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewAutosave creates an Autosave.
//
// Precondition: session, store, slot, and logger must be non-nil; interval
// must be > 0. slot runs under the session lock.
func NewAutosave(session *player.Session, store save.Store, slot func() string, interval time.Duration, logger *zap.Logger) *Autosave {
	return &Autosave{
		session:  session,
		store:    store,
		slot:     slot,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start saves every interval until Stop is called, then saves a final time.
// Failed saves are logged and do not stop the loop.
func (a *Autosave) Start() error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-a.stop:
			if err := a.SaveNow(context.Background()); err != nil {
				a.logger.Error("final autosave failed", zap.Error(err))
			}
			return nil
		case <-ticker.C:
			if err := a.SaveNow(context.Background()); err != nil {
				a.logger.Warn("autosave failed", zap.Error(err))
			}
		}
	}
}

// Stop ends Start. It is safe to call more than once.
func (a *Autosave) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
}

// SaveNow snapshots the player under the session lock and writes it.
// A dead player is not saved.
//
// Postcondition: on success the store holds the current snapshot for the slot.
func (a *Autosave) SaveNow(ctx context.Context) error {
	start := time.Now()
	var (
		rec   save.Record
		alive bool
	)
	a.session.Do(func(p *player.Player) {
		alive = p.Stats.Alive()
		rec = p.Snapshot(a.slot())
	})
	slot := rec.Slot
	if !alive {
		a.logger.Debug("autosave skipped, player is dead")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()
	if err := a.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("autosave slot %q: %w", slot, err)
	}
	a.logger.Debug("autosaved",
		zap.String("slot", slot),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
