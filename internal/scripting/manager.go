package scripting

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Target receives the effects an item script applies.
type Target interface {
	Heal(amount int)
	RestoreMana(amount int)
	GainExperience(amount int)
	AddGold(amount int)
	Level() int
}

// Manager owns one sandboxed LState holding every loaded item script and
// exposes hook dispatch.
//
// Manager is safe for concurrent use; hook calls are serialized because an
// LState is single-threaded.
type Manager struct {
	mu        sync.Mutex
	L         *lua.LState
	cancel    context.CancelFunc
	instLimit int
	hooks     map[string]bool
	builtins  map[string]bool
	logger    *zap.Logger

	// target is the recipient of engine.* effects for the call in progress.
	target Target
}

// NewManager creates a Manager with an empty VM.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager on which every hook is undefined.
func NewManager(logger *zap.Logger, instLimit int) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	L, cancel := NewSandboxedState(instLimit)
	m := &Manager{
		L:         L,
		cancel:    cancel,
		instLimit: instLimit,
		hooks:     make(map[string]bool),
		builtins:  make(map[string]bool),
		logger:    logger,
	}
	m.RegisterModules(L)
	L.G.Global.ForEach(func(k, _ lua.LValue) {
		m.builtins[k.String()] = true
	})
	return m
}

// LoadDir executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: functions defined by the files are callable via CallHook;
// returns error on the first Lua load failure.
func (m *Manager) LoadDir(scriptDir string) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, path := range luaFiles {
		cancel := m.rearm()
		err := m.L.DoFile(path)
		cancel()
		if err != nil {
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}
	m.indexHooks()
	return nil
}

// LoadString executes src as a chunk named name.
func (m *Manager) LoadString(name, src string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cancel := m.rearm()
	defer cancel()
	if err := m.L.DoString(src); err != nil {
		return fmt.Errorf("scripting: loading %q: %w", name, err)
	}
	m.indexHooks()
	return nil
}

func (m *Manager) rearm() context.CancelFunc {
	if m.cancel != nil {
		m.cancel()
	}
	m.cancel = armLimit(m.L, m.instLimit)
	return m.cancel
}

// indexHooks records every global function defined by loaded scripts.
func (m *Manager) indexHooks() {
	m.L.G.Global.ForEach(func(k, v lua.LValue) {
		name, ok := k.(lua.LString)
		if !ok || m.builtins[string(name)] {
			return
		}
		if v.Type() == lua.LTFunction {
			m.hooks[string(name)] = true
		}
	})
}

// Hooks returns the sorted names of every defined hook.
func (m *Manager) Hooks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.hooks))
	for name := range m.hooks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HasHook reports whether a global function named hook is defined.
func (m *Manager) HasHook(hook string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hooks[hook]
}

// CallHook calls the named Lua global function with itemID as its only
// argument, routing engine.* effects to target. Returns (LNil, nil) if the
// hook is not defined. Lua runtime errors, including an exhausted
// instruction budget, are logged at Warn level and never propagated.
//
// Precondition: target must be non-nil.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, target Target, itemID string) (lua.LValue, error) {
	if target == nil {
		return lua.LNil, errors.New("scripting: CallHook requires a target")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	fn := m.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		m.logger.Debug("scripting: hook not defined", zap.String("hook", hook))
		return lua.LNil, nil
	}

	m.target = target
	defer func() { m.target = nil }()
	cancel := m.rearm()
	defer cancel()

	if err := m.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(itemID)); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.String("item", itemID),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := m.L.Get(-1)
	m.L.Pop(1)
	return ret, nil
}

// Close releases the VM. The Manager must not be used afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
	m.L.Close()
}
