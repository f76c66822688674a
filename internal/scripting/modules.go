package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine table into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L with heal, restore_mana,
// gain_xp, add_gold, level, and log.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "heal", L.NewFunction(m.effect(func(t Target, n int) { t.Heal(n) })))
	L.SetField(engine, "restore_mana", L.NewFunction(m.effect(func(t Target, n int) { t.RestoreMana(n) })))
	L.SetField(engine, "gain_xp", L.NewFunction(m.effect(func(t Target, n int) { t.GainExperience(n) })))
	L.SetField(engine, "add_gold", L.NewFunction(m.effect(func(t Target, n int) { t.AddGold(n) })))
	L.SetField(engine, "level", L.NewFunction(m.luaLevel))
	L.SetField(engine, "log", L.NewFunction(m.luaLog))
	L.SetGlobal("engine", engine)
}

// effect adapts apply into a Lua function taking one integer argument.
// Outside a hook call there is no target and the function does nothing.
func (m *Manager) effect(apply func(Target, int)) lua.LGFunction {
	return func(L *lua.LState) int {
		n := L.CheckInt(1)
		if m.target != nil {
			apply(m.target, n)
		}
		return 0
	}
}

func (m *Manager) luaLevel(L *lua.LState) int {
	if m.target == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(m.target.Level()))
	return 1
}

func (m *Manager) luaLog(L *lua.LState) int {
	m.logger.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}
