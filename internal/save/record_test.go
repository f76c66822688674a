package save_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rpgcore/internal/save"
)

func sampleRecord() save.Record {
	return save.Record{
		PlayerID:      uuid.New(),
		Slot:          save.DefaultSlot,
		PosX:          3.5,
		PosY:          -2.25,
		Level:         4,
		CurrentHealth: 87,
		CurrentMana:   12,
		Gold:          250,
		Experience:    33,
	}
}

func TestRecord_Pairs_UsesFlatKeys(t *testing.T) {
	pairs := sampleRecord().Pairs()
	assert.Len(t, pairs, len(save.Keys))
	assert.Equal(t, "3.5", pairs["PlayerPosX"])
	assert.Equal(t, "-2.25", pairs["PlayerPosY"])
	assert.Equal(t, "4", pairs["PlayerLevel"])
	assert.Equal(t, "87", pairs["PlayerHealth"])
	assert.Equal(t, "12", pairs["PlayerMana"])
	assert.Equal(t, "250", pairs["PlayerGold"])
	assert.Equal(t, "33", pairs["PlayerExp"])
}

func TestFromPairs_MissingKey(t *testing.T) {
	pairs := sampleRecord().Pairs()
	delete(pairs, save.KeyGold)
	_, err := save.FromPairs(uuid.New(), "a", pairs)
	assert.ErrorContains(t, err, "PlayerGold")
}

func TestFromPairs_BadNumber(t *testing.T) {
	pairs := sampleRecord().Pairs()
	pairs[save.KeyLevel] = "three"
	_, err := save.FromPairs(uuid.New(), "a", pairs)
	assert.Error(t, err)
}

func TestRecord_Validate(t *testing.T) {
	require.NoError(t, sampleRecord().Validate())

	r := sampleRecord()
	r.Level = 0
	assert.Error(t, r.Validate())

	r = sampleRecord()
	r.PlayerID = uuid.Nil
	assert.Error(t, r.Validate())

	r = sampleRecord()
	r.PosX = math.NaN()
	assert.Error(t, r.Validate())

	r = sampleRecord()
	r.Gold = -1
	assert.Error(t, r.Validate())
}

func TestProperty_Pairs_FromPairs(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := save.Record{
			PlayerID:      uuid.New(),
			Slot:          "s",
			PosX:          rapid.Float64Range(-1e6, 1e6).Draw(rt, "x"),
			PosY:          rapid.Float64Range(-1e6, 1e6).Draw(rt, "y"),
			Level:         rapid.IntRange(1, 99).Draw(rt, "level"),
			CurrentHealth: rapid.IntRange(0, 5000).Draw(rt, "hp"),
			CurrentMana:   rapid.IntRange(0, 5000).Draw(rt, "mp"),
			Gold:          rapid.IntRange(0, 1_000_000).Draw(rt, "gold"),
			Experience:    rapid.IntRange(0, 100_000).Draw(rt, "xp"),
		}
		got, err := save.FromPairs(r.PlayerID, r.Slot, r.Pairs())
		if err != nil {
			rt.Fatalf("FromPairs: %v", err)
		}
		if got != r {
			rt.Fatalf("got %+v, want %+v", got, r)
		}
	})
}

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := save.NewMemoryStore()
	r := sampleRecord()

	_, err := s.Load(ctx, r.PlayerID, r.Slot)
	assert.True(t, errors.Is(err, save.ErrNotFound))

	require.NoError(t, s.Save(ctx, r))
	got, err := s.Load(ctx, r.PlayerID, r.Slot)
	require.NoError(t, err)
	assert.Equal(t, r.Gold, got.Gold)
	assert.False(t, got.SavedAt.IsZero())

	other := r
	other.Slot = "a-slot"
	require.NoError(t, s.Save(ctx, other))
	list, err := s.List(ctx, r.PlayerID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a-slot", list[0].Slot)

	require.NoError(t, s.Delete(ctx, r.PlayerID, r.Slot))
	assert.ErrorIs(t, s.Delete(ctx, r.PlayerID, r.Slot), save.ErrNotFound)
}

func TestMemoryStore_RejectsInvalid(t *testing.T) {
	r := sampleRecord()
	r.Level = 0
	assert.Error(t, save.NewMemoryStore().Save(context.Background(), r))
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, save.NewMemoryStore().Save(ctx, sampleRecord()), context.Canceled)
}
