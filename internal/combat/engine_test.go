package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dikucore/server/internal/data"
	"github.com/dikucore/server/internal/dice"
	"github.com/dikucore/server/internal/world"
)

func TestEngine_HitResolvesAndApplies(t *testing.T) {
	e := newEnv(t, dice.Faces(20, 6), Options{})
	att := e.spawn(mob("ogre", 5))
	def := e.spawn(warrior("Target", 3))

	require.NoError(t, e.engine.Hit(att, def, data.TypeUndefined))
	assert.Equal(t, 94, def.HP)
	assert.Equal(t, def.ID, att.Fighting)
	assert.Equal(t, att.ID, def.Fighting)
	assert.Same(t, def, e.engine.Opponent(att))
}

func TestEngine_MissStillEngages(t *testing.T) {
	e := newEnv(t, dice.Faces(1), Options{})
	att := e.spawn(mob("ogre", 5))
	def := e.spawn(warrior("Target", 3))

	require.NoError(t, e.engine.Hit(att, def, data.TypeUndefined))
	assert.Equal(t, 100, def.HP)
	assert.True(t, att.IsFighting())
	assert.True(t, def.IsFighting())
	assert.True(t, e.rec.Contains("misses"))
}

func TestEngine_StopFighting(t *testing.T) {
	e := newEnv(t, dice.Global, Options{})
	a := e.spawn(mob("a", 1))
	b := e.spawn(mob("b", 1))
	c := e.spawn(mob("c", 1))
	require.NoError(t, e.engine.Roster.Engage(a, b))
	require.NoError(t, e.engine.Roster.Engage(b, a))
	require.NoError(t, e.engine.Roster.Engage(c, a))

	e.engine.StopFighting(b)
	assert.False(t, b.IsFighting())
	assert.Equal(t, world.PosStanding, b.Position)
	assert.True(t, e.engine.Roster.Contains(a.ID))

	e.engine.StopFightingAll(a)
	assert.Zero(t, e.engine.Roster.Len())
	assert.False(t, c.IsFighting())
}

func TestRoster_ForgetsStaleHandles(t *testing.T) {
	e := newEnv(t, dice.Global, Options{})
	a := e.spawn(mob("a", 1))
	b := e.spawn(mob("b", 1))
	ghost := e.spawn(mob("ghost", 1))
	require.NoError(t, e.engine.Roster.Engage(ghost, b))
	require.NoError(t, e.engine.Roster.Engage(a, b))

	e.world.Extract(ghost)
	e.world.Flush()

	e.engine.StopFightingAll(b)
	assert.Zero(t, e.engine.Roster.Len())
	assert.False(t, e.engine.Roster.Contains(ghost.ID))
}
