package save

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memKey struct {
	player uuid.UUID
	slot   string
}

// MemoryStore is an in-process Store. It backs tests and runs without a
// configured database.
type MemoryStore struct {
	mu      sync.Mutex
	records map[memKey]Record
	now     func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[memKey]Record), now: time.Now}
}

// Save implements Store.
func (m *MemoryStore) Save(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}
	r.SavedAt = m.now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[memKey{r.PlayerID, r.Slot}] = r
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(ctx context.Context, playerID uuid.UUID, slot string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[memKey{playerID, slot}]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

// List implements Store.
func (m *MemoryStore) List(ctx context.Context, playerID uuid.UUID) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for k, r := range m.records {
		if k.player == playerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, playerID uuid.UUID, slot string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memKey{playerID, slot}
	if _, ok := m.records[k]; !ok {
		return ErrNotFound
	}
	delete(m.records, k)
	return nil
}
