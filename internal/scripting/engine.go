package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// CombatantInfo is the snapshot of a combatant handed to Lua.
type CombatantInfo struct {
	UID          string
	Name         string
	Player       bool
	Primary      int
	Secondary    int
	MaxPrimary   int
	MaxSecondary int
	X, Y         int
}

// Engine is what a script may do to the battle it runs in. An Engine is bound
// per hook call so one Manager can serve any number of battles.
type Engine interface {
	// Shield adds secondary health and returns the amount added.
	Shield(uid string, amount int) int
	// Heal restores primary health and returns the amount restored.
	Heal(uid string, amount int) int
	// Damage deals direct damage and returns the amount dealt.
	Damage(uid string, amount int) int
	// Players lists the living player characters.
	Players() []CombatantInfo
	// Enemies lists the living enemies.
	Enemies() []CombatantInfo
}

// registerModules installs the engine table. Every function is a no-op while
// no Engine is bound.
func (m *Manager) registerModules(v *vm) {
	L := v.L
	engine := L.NewTable()
	amount := func(apply func(Engine, string, int) int) lua.LGFunction {
		return func(L *lua.LState) int {
			uid := L.CheckString(1)
			n := L.CheckInt(2)
			if v.engine == nil {
				L.Push(lua.LNumber(0))
				return 1
			}
			L.Push(lua.LNumber(apply(v.engine, uid, n)))
			return 1
		}
	}
	list := func(get func(Engine) []CombatantInfo) lua.LGFunction {
		return func(L *lua.LState) int {
			t := L.NewTable()
			if v.engine != nil {
				for _, info := range get(v.engine) {
					t.Append(infoTable(L, info))
				}
			}
			L.Push(t)
			return 1
		}
	}
	L.SetField(engine, "shield", L.NewFunction(amount(Engine.Shield)))
	L.SetField(engine, "heal", L.NewFunction(amount(Engine.Heal)))
	L.SetField(engine, "damage", L.NewFunction(amount(Engine.Damage)))
	L.SetField(engine, "players", L.NewFunction(list(Engine.Players)))
	L.SetField(engine, "enemies", L.NewFunction(list(Engine.Enemies)))
	L.SetField(engine, "roll", L.NewFunction(m.luaRoll))
	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Debug("script log", zap.String("script", v.id), zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetGlobal("engine", engine)
}

func (m *Manager) luaRoll(L *lua.LState) int {
	total, err := m.Roll(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	L.Push(lua.LNumber(total))
	return 1
}

func infoTable(L *lua.LState, info CombatantInfo) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "uid", lua.LString(info.UID))
	L.SetField(t, "name", lua.LString(info.Name))
	L.SetField(t, "player", lua.LBool(info.Player))
	L.SetField(t, "hp", lua.LNumber(info.Primary))
	L.SetField(t, "shield", lua.LNumber(info.Secondary))
	L.SetField(t, "max_hp", lua.LNumber(info.MaxPrimary))
	L.SetField(t, "max_shield", lua.LNumber(info.MaxSecondary))
	L.SetField(t, "x", lua.LNumber(info.X))
	L.SetField(t, "y", lua.LNumber(info.Y))
	return t
}

// toLValue converts hook arguments.
func toLValue(L *lua.LState, arg any) lua.LValue {
	switch a := arg.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return a
	case int:
		return lua.LNumber(a)
	case bool:
		return lua.LBool(a)
	case string:
		return lua.LString(a)
	case CombatantInfo:
		return infoTable(L, a)
	default:
		return lua.LNil
	}
}
