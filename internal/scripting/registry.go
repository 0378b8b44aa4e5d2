// Package scripting holds special procedures: per-mobile behaviour the
// server calls on every mobile pulse and whenever someone acts in the
// mobile's room. Procedures come from Go (built-ins) or from Lua scripts.
package scripting

import (
	"sort"

	"go.uber.org/zap"

	"github.com/dikucore/server/internal/narrate"
	"github.com/dikucore/server/internal/world"
)

// Command codes a procedure receives. CmdPulse is the periodic mobile
// tick; CmdNorth..CmdDown are someone leaving through that exit.
const (
	CmdPulse = 0
	CmdNorth = 1 + int(world.North)
	CmdDown  = 1 + int(world.Down)
)

// MoveCmd returns the command code for leaving through dir.
func MoveCmd(dir world.Direction) int { return 1 + int(dir) }

// Host carries out what a procedure decides. Attacks are queued and
// resolved by the combat pulse, never inside the procedure.
type Host interface {
	QueueAttack(att, def *world.Character, tag int)
	Narrate(a narrate.Act)
}

// SpecContext is what a procedure sees. Char owns the procedure; Actor is
// whoever triggered it, or nil on a pulse.
type SpecContext struct {
	Char  *world.Character
	Actor *world.Character
	Cmd   int
	Arg   string
	World *world.State
	Host  Host
}

// SpecFunc returns true when it handled the command, which for movement
// means the move is blocked.
type SpecFunc func(ctx SpecContext) bool

// Registry maps procedure names to handlers.
type Registry struct {
	procs map[string]SpecFunc
	host  Host
	log   *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{procs: make(map[string]SpecFunc), log: log}
}

// SetHost installs the side-effect sink passed to every invocation.
func (r *Registry) SetHost(h Host) { r.host = h }

// Register adds or replaces a procedure.
func (r *Registry) Register(name string, fn SpecFunc) {
	if _, dup := r.procs[name]; dup {
		r.log.Warn("special procedure replaced", zap.String("name", name))
	}
	r.procs[name] = fn
}

func (r *Registry) Lookup(name string) (SpecFunc, bool) {
	fn, ok := r.procs[name]
	return fn, ok
}

// Names lists registered procedures, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.procs))
	for n := range r.procs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Count() int { return len(r.procs) }

// Invoke runs ctx.Char's procedure. Characters without one, or naming an
// unknown one, report false.
func (r *Registry) Invoke(ctx SpecContext) bool {
	if ctx.Char == nil || ctx.Char.SpecProc == "" {
		return false
	}
	fn, ok := r.procs[ctx.Char.SpecProc]
	if !ok {
		r.log.Warn("unknown special procedure",
			zap.String("name", ctx.Char.SpecProc),
			zap.String("char", ctx.Char.Name))
		return false
	}
	if ctx.Host == nil {
		ctx.Host = r.host
	}
	return fn(ctx)
}

// MoveGuard lets the procedures of everyone else in the mover's room veto
// a move.
func (r *Registry) MoveGuard(ws *world.State) world.MoveGuard {
	return func(ch *world.Character, dir world.Direction) bool {
		for _, occ := range ws.Occupants(ch.Room) {
			if occ == ch || occ.SpecProc == "" {
				continue
			}
			if r.Invoke(SpecContext{Char: occ, Actor: ch, Cmd: MoveCmd(dir), World: ws}) {
				return true
			}
		}
		return false
	}
}
