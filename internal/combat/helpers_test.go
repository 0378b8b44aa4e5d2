package combat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dikucore/server/internal/core/event"
	"github.com/dikucore/server/internal/data"
	"github.com/dikucore/server/internal/dice"
	"github.com/dikucore/server/internal/narrate"
	"github.com/dikucore/server/internal/progression"
	"github.com/dikucore/server/internal/world"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type env struct {
	world  *world.State
	engine *Engine
	rec    *narrate.Recorder
	bus    *event.Bus
}

func newEnv(t *testing.T, src dice.Source, opts Options) *env {
	t.Helper()
	tables, err := data.LoadTables("")
	require.NoError(t, err)
	msgs, err := data.LoadFightMessages("")
	require.NoError(t, err)

	ws := world.NewState()
	hall := &world.Room{ID: 1, Name: "Hall"}
	hall.Exits[world.North] = 2
	hall.Exits[world.Down] = 3
	ws.AddRoom(hall)
	ws.AddRoom(&world.Room{ID: 2, Name: "Garden", Exits: [world.NumDirections]world.RoomID{world.South: 1}})
	ws.AddRoom(&world.Room{ID: 3, Name: "Pit", Flags: world.RoomDeath})

	roll := dice.NewRoller(src)
	rec := &narrate.Recorder{}
	bus := event.NewBus()
	log := zap.NewNop()
	e := NewEngine(Deps{
		World:    ws,
		Tables:   tables,
		Messages: msgs,
		Roll:     roll,
		Narrator: rec,
		Ledger:   progression.NewLedger(tables, roll, rec, bus, log),
		Bus:      bus,
		Log:      log,
		Now:      func() time.Time { return testNow },
	}, opts)
	return &env{world: ws, engine: e, rec: rec, bus: bus}
}

func (e *env) spawn(ch *world.Character) *world.Character {
	if ch.Room == 0 {
		ch.Room = 1
	}
	e.world.Spawn(ch, ch.Room)
	return ch
}

func (e *env) events() (died []event.CharacterDied, flee []event.FleeRequested) {
	event.Subscribe(e.bus, func(ev event.CharacterDied) { died = append(died, ev) })
	event.Subscribe(e.bus, func(ev event.FleeRequested) { flee = append(flee, ev) })
	e.bus.SwapBuffers()
	e.bus.DispatchAll()
	return died, flee
}

func abilities(str, dex, con int) world.Abilities {
	return world.Abilities{Str: str, Int: 10, Wis: 10, Dex: dex, Con: con}
}

func warrior(name string, level int) *world.Character {
	ab := abilities(10, 10, 10)
	return &world.Character{
		Name: name, Class: world.ClassWarrior, Sex: world.SexMale, Level: level,
		Abilities: ab, Current: ab, HP: 100, MaxHP: 100,
		Position: world.PosStanding, Birth: testNow,
	}
}

func mob(name string, level int) *world.Character {
	ab := abilities(10, 10, 10)
	return &world.Character{
		Name: name, ShortDescr: "the " + name, NPC: true, Level: level,
		Abilities: ab, Current: ab, HP: 100, MaxHP: 100,
		Position: world.PosStanding, DamNoDice: 1, DamSizeDice: 6,
		AttackType: data.TypeHit,
	}
}
