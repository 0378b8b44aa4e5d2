package system

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dikucore/server/internal/combat"
	"github.com/dikucore/server/internal/core/event"
	coresys "github.com/dikucore/server/internal/core/system"
	"github.com/dikucore/server/internal/data"
	"github.com/dikucore/server/internal/dice"
	"github.com/dikucore/server/internal/narrate"
	"github.com/dikucore/server/internal/persist"
	"github.com/dikucore/server/internal/progression"
	"github.com/dikucore/server/internal/scripting"
	"github.com/dikucore/server/internal/world"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// funcSource lets a test pick every roll.
type funcSource struct{ fn func(n int) int }

func (s *funcSource) Intn(n int) int { return s.fn(n) }

func maxRoll(n int) int { return n - 1 }
func minRoll(int) int { return 0 }

type memStore struct{ recs []persist.Record }

func (m *memStore) WriteBatch(_ context.Context, recs []persist.Record) error {
	m.recs = append(m.recs, recs...)
	return nil
}

type stack struct {
	world    *world.State
	engine   *combat.Engine
	bus      *event.Bus
	rec      *narrate.Recorder
	src      *funcSource
	combat   *CombatSystem
	mobile   *MobileSystem
	registry *scripting.Registry
	store    *memStore
	runner   *coresys.Runner
}

// newStack wires every system with all intervals at one pulse. Room 1
// (Hall) leads north to room 2 (Yard).
func newStack(t *testing.T) *stack {
	t.Helper()
	tables, err := data.LoadTables("")
	require.NoError(t, err)
	msgs, err := data.LoadFightMessages("")
	require.NoError(t, err)

	ws := world.NewState()
	hall := &world.Room{ID: 1, Name: "Hall"}
	hall.Exits[world.North] = 2
	ws.AddRoom(hall)
	yard := &world.Room{ID: 2, Name: "Yard"}
	yard.Exits[world.South] = 1
	ws.AddRoom(yard)

	src := &funcSource{fn: maxRoll}
	roll := dice.NewRoller(src)
	rec := &narrate.Recorder{}
	bus := event.NewBus()
	log := zap.NewNop()
	ledger := progression.NewLedger(tables, roll, rec, bus, log)
	engine := combat.NewEngine(combat.Deps{
		World: ws, Tables: tables, Messages: msgs, Roll: roll,
		Narrator: rec, Ledger: ledger, Bus: bus, Log: log,
		Now: func() time.Time { return testNow },
	}, combat.Options{})

	reg := scripting.NewRegistry(log)
	scripting.RegisterBuiltins(reg, roll)
	ws.SetMoveGuard(reg.MoveGuard(ws))

	store := &memStore{}
	buffer := persist.NewBuffer(store, log)
	cs := NewCombatSystem(engine, ws, bus, log, 1)
	ms := NewMobileSystem(ws, reg, cs, rec, 1)
	reg.SetHost(ms)
	aft := NewAftermath(ws, engine, ledger, buffer, rec, log)
	aft.now = func() time.Time { return testNow }
	aft.Subscribe(bus)

	runner := coresys.NewRunner()
	runner.Register(NewCleanupSystem(ws, engine.Roster))
	runner.Register(NewPersistenceSystem(buffer, log, 1))
	runner.Register(ms)
	runner.Register(NewAffectTickSystem(ws, engine, log, 1))
	runner.Register(cs)
	runner.Register(NewEventDispatchSystem(bus))

	return &stack{
		world: ws, engine: engine, bus: bus, rec: rec, src: src,
		combat: cs, mobile: ms, registry: reg, store: store, runner: runner,
	}
}

func (s *stack) spawn(ch *world.Character, room world.RoomID) *world.Character {
	s.world.Spawn(ch, room)
	return ch
}

func player(name string, align int) *world.Character {
	ab := world.Abilities{Str: 10, Int: 10, Wis: 10, Dex: 10, Con: 10}
	return &world.Character{
		Name: name, Class: world.ClassWarrior, Sex: world.SexMale, Level: 1,
		Abilities: ab, Current: ab, HP: 100, MaxHP: 100, Alignment: align,
		Position: world.PosStanding, Birth: testNow,
	}
}

func npc(name string, align int) *world.Character {
	ab := world.Abilities{Str: 10, Int: 10, Wis: 10, Dex: 10, Con: 10}
	return &world.Character{
		Name: name, ShortDescr: "the " + name, NPC: true, Level: 1,
		Abilities: ab, Current: ab, HP: 100, MaxHP: 100, Alignment: align,
		Position: world.PosStanding, DamNoDice: 1, DamSizeDice: 6,
		AttackType: data.TypeHit,
	}
}
