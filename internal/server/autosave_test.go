package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/rpgcore/internal/game/player"
	"github.com/cory-johannsen/rpgcore/internal/game/stats"
	"github.com/cory-johannsen/rpgcore/internal/save"
)

type failingStore struct{ save.Store }

func (failingStore) Save(context.Context, save.Record) error { return errors.New("disk full") }

func newSession(t *testing.T) (*player.Session, *player.Player) {
	t.Helper()
	p := player.New(player.Options{
		Name: "Hero", InventorySize: 4, Base: stats.DefaultBase(),
		Spawn: player.Position{X: 2, Y: 3},
	}, nil, zap.NewNop())
	return player.NewSession(p), p
}

func slotFn(s string) func() string { return func() string { return s } }

func TestAutosave_SaveNowWritesSnapshot(t *testing.T) {
	session, p := newSession(t)
	store := save.NewMemoryStore()
	a := NewAutosave(session, store, slotFn("auto"), time.Hour, zaptest.NewLogger(t))

	session.Do(func(p *player.Player) { p.Stats.AddGold(12) })
	require.NoError(t, a.SaveNow(context.Background()))

	rec, err := store.Load(context.Background(), p.ID, "auto")
	require.NoError(t, err)
	assert.Equal(t, 12, rec.Gold)
	assert.Equal(t, 2.0, rec.PosX)
}

func TestAutosave_SkipsDeadPlayer(t *testing.T) {
	session, p := newSession(t)
	store := save.NewMemoryStore()
	a := NewAutosave(session, store, slotFn("auto"), time.Hour, zaptest.NewLogger(t))

	session.Do(func(p *player.Player) { p.TakeDamage(1_000_000) })
	require.NoError(t, a.SaveNow(context.Background()))

	_, err := store.Load(context.Background(), p.ID, "auto")
	assert.ErrorIs(t, err, save.ErrNotFound)
}

func TestAutosave_SaveNowWrapsStoreError(t *testing.T) {
	session, _ := newSession(t)
	a := NewAutosave(session, failingStore{}, slotFn("auto"), time.Hour, zaptest.NewLogger(t))
	err := a.SaveNow(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), `"auto"`)
}

func TestAutosave_TicksAndSavesOnStop(t *testing.T) {
	session, p := newSession(t)
	store := save.NewMemoryStore()
	a := NewAutosave(session, store, slotFn("auto"), 10*time.Millisecond, zaptest.NewLogger(t))

	done := make(chan error, 1)
	go func() { done <- a.Start() }()

	assert.Eventually(t, func() bool {
		_, err := store.Load(context.Background(), p.ID, "auto")
		return err == nil
	}, 2*time.Second, 5*time.Millisecond)

	session.Do(func(p *player.Player) { p.Stats.AddGold(77) })
	a.Stop()
	a.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("autosave did not stop")
	}
	rec, err := store.Load(context.Background(), p.ID, "auto")
	require.NoError(t, err)
	assert.Equal(t, 77, rec.Gold)
}

func TestAutosave_SlotMayChange(t *testing.T) {
	session, p := newSession(t)
	store := save.NewMemoryStore()
	slot := "first"
	a := NewAutosave(session, store, func() string { return slot }, time.Hour, zaptest.NewLogger(t))

	require.NoError(t, a.SaveNow(context.Background()))
	session.Do(func(*player.Player) { slot = "second" })
	require.NoError(t, a.SaveNow(context.Background()))

	all, err := store.List(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "first", all[0].Slot)
	assert.Equal(t, "second", all[1].Slot)
	assert.NotEqual(t, uuid.Nil, all[0].PlayerID)
}
