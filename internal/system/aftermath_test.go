package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dikucore/server/internal/core/event"
	"github.com/dikucore/server/internal/data"
	"github.com/dikucore/server/internal/persist"
	"github.com/dikucore/server/internal/world"
)

func mortallyWounded(ch *world.Character) *world.Character {
	ch.HP = -9
	ch.Position = world.PosMortallyWounded
	return ch
}

func TestAftermath_DeadMobileIsExtracted(t *testing.T) {
	s := newStack(t)
	a := s.spawn(player("bob", 0), 1)
	b := s.spawn(mortallyWounded(npc("orc", 0)), 1)

	s.combat.QueueAttack(a, b, data.TypeUndefined)
	s.runner.Tick()
	require.Equal(t, world.PosDead, b.Position)
	assert.False(t, a.IsFighting())
	assert.Nil(t, s.store.recs, "records wait for the next pulse")

	s.runner.Tick()
	assert.Nil(t, s.world.Char(b.ID))
	assert.Len(t, s.world.Occupants(1), 1)
	require.Len(t, s.store.recs, 1)
	rec := s.store.recs[0]
	assert.Equal(t, persist.KindDeath, rec.Kind)
	assert.Equal(t, "orc", rec.CharName)
	assert.Equal(t, "bob", rec.OtherName)
	assert.True(t, rec.NPC)
	assert.Equal(t, testNow, rec.CreatedAt)
}

func TestAftermath_DeadPlayerRevivesWithPenalty(t *testing.T) {
	s := newStack(t)
	p := mortallyWounded(player("bob", 0))
	p.Exp = 1000
	s.spawn(p, 1)
	m := s.spawn(npc("orc", 0), 1)

	s.combat.QueueAttack(m, p, data.TypeUndefined)
	s.runner.Tick()
	require.Equal(t, world.PosDead, p.Position)

	s.runner.Tick()
	assert.NotNil(t, s.world.Char(p.ID))
	assert.Equal(t, 500, p.Exp)
	assert.Equal(t, 1, p.HP)
	assert.Equal(t, world.PosResting, p.Position)
	assert.True(t, s.rec.Contains("life force return"))
	require.Len(t, s.store.recs, 1)
	assert.Equal(t, 1000, s.store.recs[0].Exp)
}

func TestAftermath_DeathReleasesFollowers(t *testing.T) {
	s := newStack(t)
	a := s.spawn(player("bob", 0), 1)
	leader := s.spawn(mortallyWounded(npc("chief", 0)), 1)
	pet := s.spawn(npc("wolf", 0), 1)
	s.world.Follow(pet, leader)

	s.combat.QueueAttack(a, leader, data.TypeUndefined)
	s.runner.Tick()
	s.runner.Tick()

	assert.True(t, pet.Master.IsZero())
	assert.NotNil(t, s.world.Char(pet.ID))
}

func TestAftermath_FleeRequest(t *testing.T) {
	s := newStack(t)
	s.src.fn = minRoll // first flee direction drawn is north
	a := s.spawn(player("bob", 0), 1)
	m := s.spawn(npc("rat", 0), 1)
	require.NoError(t, s.engine.Roster.Engage(m, a))
	require.NoError(t, s.engine.Roster.Engage(a, m))

	event.Emit(s.bus, event.FleeRequested{Character: m.ID})
	s.runner.Tick()

	assert.Equal(t, world.RoomID(2), m.Room)
	assert.False(t, m.IsFighting())
	assert.False(t, a.IsFighting())
}

func TestAftermath_LevelRecorded(t *testing.T) {
	s := newStack(t)
	event.Emit(s.bus, event.LevelGained{Name: "bob", Level: 2, Exp: 2500})
	s.runner.Tick()

	require.Len(t, s.store.recs, 1)
	assert.Equal(t, persist.KindLevel, s.store.recs[0].Kind)
	assert.Equal(t, 2, s.store.recs[0].Level)
}
