package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dikucore/server/internal/dice"
	"github.com/dikucore/server/internal/narrate"
	"github.com/dikucore/server/internal/world"
)

func engaged(t *testing.T, e *env, a, b *world.Character) {
	t.Helper()
	require.NoError(t, e.engine.Roster.Engage(a, b))
	require.NoError(t, e.engine.Roster.Engage(b, a))
}

func TestFlee_FighterEscapes(t *testing.T) {
	e := newEnv(t, dice.NewScripted(int(world.East), int(world.North)), Options{})
	ch := e.spawn(warrior("Runner", 5))
	ch.Exp = 1000
	opp := e.spawn(mob("ogre", 3))
	opp.HP = 60
	engaged(t, e, ch, opp)

	assert.True(t, e.engine.Flee(ch))
	assert.Equal(t, world.RoomID(2), ch.Room)
	assert.False(t, ch.IsFighting())
	assert.False(t, opp.IsFighting())
	assert.Equal(t, world.PosStanding, ch.Position)
	assert.Zero(t, e.engine.Roster.Len())
	assert.Equal(t, 1000-(100-60)*3, ch.Exp)
	assert.Contains(t, e.rec.Templates(narrate.ToRoom), "$n panics, and attempts to flee.")
	assert.Contains(t, e.rec.Templates(narrate.ToChar), "You flee head over heels.")
}

func TestFlee_OpponentKeepsOtherTarget(t *testing.T) {
	e := newEnv(t, dice.NewScripted(int(world.North)), Options{})
	ch := e.spawn(warrior("Runner", 5))
	tank := e.spawn(warrior("Tank", 5))
	opp := e.spawn(mob("ogre", 3))
	require.NoError(t, e.engine.Roster.Engage(ch, opp))
	require.NoError(t, e.engine.Roster.Engage(opp, tank))

	require.True(t, e.engine.Flee(ch))
	assert.Equal(t, tank.ID, opp.Fighting)
	assert.Zero(t, ch.Exp)
}

func TestFlee_NeverIntoDeathRoom(t *testing.T) {
	e := newEnv(t, dice.NewScripted(5, 5, 5, 5, 5, 5), Options{})
	ch := e.spawn(warrior("Stuck", 5))
	opp := e.spawn(mob("ogre", 3))
	engaged(t, e, ch, opp)

	assert.False(t, e.engine.Flee(ch))
	assert.Equal(t, world.RoomID(1), ch.Room)
	assert.True(t, ch.IsFighting())
	assert.Contains(t, e.rec.Templates(narrate.ToChar), "PANIC! You couldn't escape!")
}

func TestFlee_BlockedMove(t *testing.T) {
	e := newEnv(t, dice.NewScripted(int(world.North)), Options{})
	e.world.SetMoveGuard(func(*world.Character, world.Direction) bool { return true })
	ch := e.spawn(warrior("Blocked", 5))
	opp := e.spawn(mob("ogre", 3))
	engaged(t, e, ch, opp)

	assert.False(t, e.engine.Flee(ch))
	assert.True(t, ch.IsFighting())
	assert.Contains(t, e.rec.Templates(narrate.ToRoom), "$n tries to flee, but is too exhausted!")
}

func TestFlee_NPCLosesNoExperience(t *testing.T) {
	e := newEnv(t, dice.NewScripted(int(world.North)), Options{})
	ch := e.spawn(mob("coward", 4))
	ch.Exp = 500
	opp := e.spawn(warrior("Hero", 10))
	opp.HP = 10
	engaged(t, e, ch, opp)

	require.True(t, e.engine.Flee(ch))
	assert.Equal(t, 500, ch.Exp)
}

func TestFlee_LegacyInversion(t *testing.T) {
	src := dice.NewScripted(int(world.North))
	e := newEnv(t, src, Options{LegacyFleeInversion: true})
	ch := e.spawn(warrior("Runner", 5))
	opp := e.spawn(mob("ogre", 3))
	engaged(t, e, ch, opp)

	assert.False(t, e.engine.Flee(ch), "fighters cannot flee under the legacy rule")
	assert.Equal(t, 1, src.Remaining())

	idle := e.spawn(warrior("Idle", 5))
	assert.True(t, e.engine.Flee(idle))
	assert.Equal(t, world.RoomID(2), idle.Room)
}

func TestFlee_SleeperStays(t *testing.T) {
	e := newEnv(t, dice.NewScripted(int(world.North)), Options{})
	ch := e.spawn(warrior("Zzz", 5))
	ch.Position = world.PosSleeping
	assert.False(t, e.engine.Flee(ch))
	assert.Equal(t, world.RoomID(1), ch.Room)
}
