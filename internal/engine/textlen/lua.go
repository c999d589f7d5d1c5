package textlen

import (
	"fmt"
	"log/slog"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Lua is a length function defined by a Lua script. The script must
// define a global function length(s) returning a number.
//
// gopher-lua states are not goroutine-safe; calls are serialized.
type Lua struct {
	mu     sync.Mutex
	L      *lua.LState
	fn     *lua.LFunction
	logger *slog.Logger
}

// LuaOption configures a Lua length function.
type LuaOption func(*Lua)

// WithLogger sets the logger that receives script failures.
func WithLogger(logger *slog.Logger) LuaOption {
	return func(l *Lua) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLua loads a script from path.
func NewLua(path string, opts ...LuaOption) (*Lua, error) {
	L := newState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading length script %s: %w", path, err)
	}
	return bind(L, opts)
}

// NewLuaString loads a script from source.
func NewLuaString(source string, opts ...LuaOption) (*Lua, error) {
	L := newState()
	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading length script: %w", err)
	}
	return bind(L, opts)
}

// newState opens only the libraries a length script needs.
func newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	lua.OpenTable(L)
	return L
}

// bind looks up the length function and calls it once on "abc" so that a
// script that cannot measure anything is rejected up front.
func bind(L *lua.LState, opts []LuaOption) (*Lua, error) {
	fn, ok := L.GetGlobal("length").(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("length script does not define function length(s)")
	}
	l := &Lua{L: L, fn: fn, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	if _, err := l.call("abc"); err != nil {
		L.Close()
		return nil, fmt.Errorf("length script: %w", err)
	}
	return l, nil
}

// call runs the length function on s. The caller holds mu or owns l.
func (l *Lua) call(s string) (int, error) {
	err := l.L.CallByParam(lua.P{Fn: l.fn, NRet: 1, Protect: true}, lua.LString(s))
	if err != nil {
		return 0, err
	}
	ret := l.L.Get(-1)
	l.L.Pop(1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("length(s) returned %s, want number", ret.Type())
	}
	return int(n), nil
}

// Length calls the script's length function. A failing call is logged
// and falls back to the rune count.
func (l *Lua) Length(s string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.call(s)
	if err != nil {
		l.logger.Warn("length script failed, counting runes", "text", s, "error", err)
		return Runes(s)
	}
	return n
}

// Func returns Length as a Func.
func (l *Lua) Func() Func {
	return l.Length
}

// Close releases the Lua state.
func (l *Lua) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.L.Close()
}
