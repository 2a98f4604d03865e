package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/gridtactics/internal/game/dice"
)

// ErrUnknownScript is returned when a hook is called on a script that was never loaded.
var ErrUnknownScript = errors.New("scripting: unknown script")

// vm is one script's private LState. A VM runs one call at a time.
type vm struct {
	id     string
	mu     sync.Mutex
	L      *lua.LState
	engine Engine
}

// Manager owns one sandboxed VM per script ID and dispatches hooks into them.
//
// Manager is safe for concurrent use once loading has finished; calls into the
// same script are serialised.
type Manager struct {
	mu        sync.RWMutex
	vms       map[string]*vm
	instLimit int
	roller    *dice.Roller
	logger    *zap.Logger
}

// NewManager creates a Manager whose executions are limited to instLimit
// opcodes each (0 uses DefaultInstructionLimit).
//
// Precondition: roller must be non-nil; a nil logger disables logging.
func NewManager(roller *dice.Roller, instLimit int, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		vms:       make(map[string]*vm),
		instLimit: instLimit,
		roller:    roller,
		logger:    logger,
	}
}

// LoadString compiles src into a fresh VM registered as id, replacing any
// previous VM with that id.
//
// Postcondition: Returns an error and registers nothing when src fails to load.
func (m *Manager) LoadString(id, src string) error {
	return m.load(id, func(L *lua.LState) error { return L.DoString(src) })
}

// LoadFile is LoadString for a file on disk.
func (m *Manager) LoadFile(id, path string) error {
	return m.load(id, func(L *lua.LState) error { return L.DoFile(path) })
}

// LoadDir loads every *.lua file in dir, in lexicographic order, each under
// its file name without the extension.
//
// Postcondition: Returns the loaded IDs, or the first load error.
func (m *Manager) LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".lua" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".lua"))
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := m.LoadFile(id, filepath.Join(dir, id+".lua")); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (m *Manager) load(id string, run func(*lua.LState) error) error {
	v := &vm{id: id, L: NewSandboxedState()}
	m.registerModules(v)
	if err := RunLimited(v.L, m.instLimit, func() error { return run(v.L) }); err != nil {
		v.L.Close()
		return fmt.Errorf("scripting: loading %q: %w", id, err)
	}

	m.mu.Lock()
	old := m.vms[id]
	m.vms[id] = v
	m.mu.Unlock()
	if old != nil {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.logger.Debug("script loaded", zap.String("script", id))
	return nil
}

// Has reports whether id is loaded.
func (m *Manager) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.vms[id]
	return ok
}

// HasHook reports whether script id defines a global function named hook.
func (m *Manager) HasHook(id, hook string) bool {
	v := m.get(id)
	if v == nil {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.L.GetGlobal(hook).(*lua.LFunction)
	return ok
}

// CallHook calls the global function hook in script id with eng bound as the
// engine module's target. A missing hook returns (LNil, nil). Lua runtime
// errors, including an exhausted instruction budget, are logged at Warn and
// also return (LNil, nil) so a faulty script cannot stall a battle.
//
// Postcondition: Returns the hook's first return value, or LNil.
func (m *Manager) CallHook(id, hook string, eng Engine, args ...any) (lua.LValue, error) {
	v := m.get(id)
	if v == nil {
		return lua.LNil, fmt.Errorf("%w: %q", ErrUnknownScript, id)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	fn, ok := v.L.GetGlobal(hook).(*lua.LFunction)
	if !ok {
		return lua.LNil, nil
	}
	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = toLValue(v.L, a)
	}

	v.engine = eng
	defer func() { v.engine = nil }()
	err := RunLimited(v.L, m.instLimit, func() error {
		return v.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, largs...)
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("script", id),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// CallNumber calls hook and reports its result when it returned a number.
func (m *Manager) CallNumber(id, hook string, eng Engine, args ...any) (int, bool, error) {
	ret, err := m.CallHook(id, hook, eng, args...)
	if err != nil {
		return 0, false, err
	}
	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, false, nil
	}
	return int(n), true, nil
}

// Roll evaluates a dice expression with the manager's roller.
func (m *Manager) Roll(expr string) (int, error) {
	e, err := dice.Parse(expr)
	if err != nil {
		return 0, err
	}
	return m.roller.Roll(e).Total(), nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, v := range m.vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
		delete(m.vms, id)
	}
}

func (m *Manager) get(id string) *vm {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vms[id]
}
