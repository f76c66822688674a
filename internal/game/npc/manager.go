package npc

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cory-johannsen/rpgcore/internal/game/player"
)

// Manager tracks all live NPC instances by ID.
// All methods are safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	instances map[string]*Instance
	counter   atomic.Uint64
	rng       *rand.Rand
}

// NewManager creates an empty NPC Manager. seed drives wandering.
func NewManager(seed int64) *Manager {
	return &Manager{
		instances: make(map[string]*Instance),
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Spawn creates a new Instance from tmpl at its home position.
//
// Precondition: tmpl must be non-nil.
// Postcondition: Returns a new Instance with a unique ID.
func (m *Manager) Spawn(tmpl *Template) (*Instance, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("npc.Manager.Spawn: tmpl must not be nil")
	}

	n := m.counter.Add(1)
	id := fmt.Sprintf("%s-%d", tmpl.ID, n)
	inst := NewInstance(id, tmpl)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.instances[id] = inst
	return inst, nil
}

// SpawnAll spawns one instance of every template.
func (m *Manager) SpawnAll(templates []*Template) error {
	for _, t := range templates {
		if _, err := m.Spawn(t); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes an instance by ID.
//
// Postcondition: Returns an error if the instance is not found.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.instances[id]; !ok {
		return fmt.Errorf("npc instance %q not found", id)
	}
	delete(m.instances, id)
	return nil
}

// Get returns the instance with the given ID.
func (m *Manager) Get(id string) (*Instance, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.instances[id]
	return inst, ok
}

// All returns a snapshot of every instance ordered by ID.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (m *Manager) All() []*Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sorted()
}

func (m *Manager) sorted() []*Instance {
	out := make([]*Instance, 0, len(m.instances))
	for _, inst := range m.instances {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Nearest returns the closest instance whose interaction range covers pos,
// or nil.
func (m *Manager) Nearest(pos player.Position) *Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *Instance
	for _, inst := range m.sorted() {
		if !inst.InRange(pos) {
			continue
		}
		if best == nil || inst.Position.Distance(pos) < best.Position.Distance(pos) {
			best = inst
		}
	}
	return best
}

// FindInRange returns the first instance in range of pos whose Name has
// target as a case-insensitive prefix. An empty target matches the nearest.
func (m *Manager) FindInRange(pos player.Position, target string) *Instance {
	if target == "" {
		return m.Nearest(pos)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	lower := strings.ToLower(target)
	for _, inst := range m.sorted() {
		if inst.InRange(pos) && strings.HasPrefix(strings.ToLower(inst.Name()), lower) {
			return inst
		}
	}
	return nil
}

// Tick advances every instance by dt in ID order.
func (m *Manager) Tick(dt time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inst := range m.sorted() {
		inst.Tick(dt, m.rng)
	}
}

// Sighting is a point-in-time view of one instance.
type Sighting struct {
	ID       string
	Template *Template
	Position player.Position
	Distance float64
}

// Within returns every instance within radius of pos, nearest first, ties by ID.
func (m *Manager) Within(pos player.Position, radius float64) []Sighting {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Sighting
	for _, inst := range m.sorted() {
		d := inst.Position.Distance(pos)
		if d <= radius {
			out = append(out, Sighting{ID: inst.ID, Template: inst.Template, Position: inst.Position, Distance: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}
