package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dikucore/server/internal/data"
	"github.com/dikucore/server/internal/narrate"
	"github.com/dikucore/server/internal/world"
)

// Engine wraps a single gopher-lua VM holding special procedures declared
// with spec(name, fn). Single-goroutine access only (game loop).
//
// A Lua procedure receives a context table and returns a handled flag plus
// an optional list of commands:
//
//	{type = "say", text = "..."}
//	{type = "emote", text = "..."}
//	{type = "hit", target = ref, attack = 100}
//
// where ref is the index of a character in ctx.people.
type Engine struct {
	vm    *lua.LState
	log   *zap.Logger
	procs map[string]*lua.LFunction
	order []string
}

// NewEngine creates a Lua engine and loads every script under scriptsDir
// and scriptsDir/spec.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	vm.SetGlobal("CMD_PULSE", lua.LNumber(CmdPulse))
	for d := world.North; d < world.NumDirections; d++ {
		vm.SetGlobal("CMD_"+strings.ToUpper(d.String()), lua.LNumber(MoveCmd(d)))
	}

	e := &Engine{vm: vm, log: log, procs: make(map[string]*lua.LFunction)}
	vm.SetGlobal("spec", vm.NewFunction(e.luaSpec))

	for _, dir := range []string{scriptsDir, filepath.Join(scriptsDir, "spec")} {
		if err := e.loadDir(dir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source. Used for inline procedures.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// luaSpec implements spec(name, fn).
func (e *Engine) luaSpec(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if _, dup := e.procs[name]; !dup {
		e.order = append(e.order, name)
	}
	e.procs[name] = fn
	return 0
}

// Procs lists the declared procedure names in declaration order.
func (e *Engine) Procs() []string {
	return append([]string(nil), e.order...)
}

// Install registers every Lua procedure into reg.
func (e *Engine) Install(reg *Registry) int {
	for _, name := range e.order {
		reg.Register(name, e.proc(name, e.procs[name]))
	}
	return len(e.order)
}

func (e *Engine) proc(name string, fn *lua.LFunction) SpecFunc {
	return func(ctx SpecContext) bool {
		people := ctx.World.Occupants(ctx.Char.Room)

		t := e.vm.NewTable()
		t.RawSetString("cmd", lua.LNumber(ctx.Cmd))
		t.RawSetString("arg", lua.LString(ctx.Arg))
		t.RawSetString("self", e.charTable(ctx.Char, 0))
		pt := e.vm.NewTable()
		for i, ch := range people {
			row := e.charTable(ch, i+1)
			pt.RawSetInt(i+1, row)
			if ctx.Actor != nil && ch == ctx.Actor {
				t.RawSetString("actor", row)
			}
		}
		t.RawSetString("people", pt)

		if err := e.vm.CallByParam(lua.P{
			Fn:      fn,
			NRet:    2,
			Protect: true,
		}, t); err != nil {
			e.log.Error("lua spec error", zap.Error(err),
				zap.String("proc", name), zap.String("char", ctx.Char.Name))
			return false
		}
		handled := lua.LVAsBool(e.vm.Get(-2))
		cmds := e.vm.Get(-1)
		e.vm.Pop(2)

		if rt, ok := cmds.(*lua.LTable); ok && ctx.Host != nil {
			rt.ForEach(func(_, v lua.LValue) {
				if row, ok := v.(*lua.LTable); ok {
					e.apply(ctx, people, row)
				}
			})
		}
		return handled
	}
}

func (e *Engine) charTable(ch *world.Character, ref int) *lua.LTable {
	row := e.vm.NewTable()
	row.RawSetString("ref", lua.LNumber(ref))
	row.RawSetString("name", lua.LString(ch.Name))
	row.RawSetString("npc", lua.LBool(ch.NPC))
	row.RawSetString("level", lua.LNumber(ch.Level))
	row.RawSetString("hp", lua.LNumber(ch.HP))
	row.RawSetString("max_hp", lua.LNumber(ch.MaxHP))
	row.RawSetString("alignment", lua.LNumber(ch.Alignment))
	row.RawSetString("position", lua.LString(ch.Position.String()))
	row.RawSetString("awake", lua.LBool(ch.Awake()))
	row.RawSetString("fighting", lua.LBool(ch.IsFighting()))
	return row
}

func (e *Engine) apply(ctx SpecContext, people []*world.Character, row *lua.LTable) {
	switch typ := lStr(row, "type"); typ {
	case "say":
		ctx.Host.Narrate(narrate.Act{
			Template: "$n says '" + lStr(row, "text") + "'",
			Actor:    ctx.Char,
			To:       narrate.ToRoom,
		})
	case "emote":
		ctx.Host.Narrate(narrate.Act{
			Template: "$n " + lStr(row, "text"),
			Actor:    ctx.Char,
			To:       narrate.ToRoom,
		})
	case "hit":
		ref := lInt(row, "target")
		if ref < 1 || ref > len(people) || people[ref-1] == ctx.Char {
			e.log.Warn("lua spec bad hit target", zap.Int("target", ref),
				zap.String("char", ctx.Char.Name))
			return
		}
		tag := data.TypeUndefined
		if v := row.RawGetString("attack"); v != lua.LNil {
			tag = int(lua.LVAsNumber(v))
		}
		ctx.Host.QueueAttack(ctx.Char, people[ref-1], tag)
	default:
		e.log.Warn("lua spec unknown command", zap.String("type", typ),
			zap.String("char", ctx.Char.Name))
	}
}

// --- Lua helpers ---

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
