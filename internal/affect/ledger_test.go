package affect

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dikucore/server/internal/world"
)

const (
	spellBless    = 3
	spellStrength = 39
	spellArmor    = 1
	spellSanct    = 36
)

func newChar() *world.Character {
	ab := world.Abilities{Str: 15, Int: 12, Wis: 11, Dex: 14, Con: 13}
	return &world.Character{
		Name:      "Tester",
		Abilities: ab,
		Current:   ab,
		MaxHP:     40,
		Armor:     50,
		Weight:    150,
		Height:    180,
		Birth:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func snapshot(ch *world.Character) world.Character {
	c := *ch
	c.Affects = nil
	c.AffectedBy = 0
	return c
}

func TestApply_Slots(t *testing.T) {
	tests := []struct {
		name  string
		loc   world.Apply
		mod   int
		check func(t *testing.T, ch *world.Character)
	}{
		{"str", world.ApplyStr, 2, func(t *testing.T, ch *world.Character) { assert.Equal(t, 17, ch.Current.Str) }},
		{"dex", world.ApplyDex, -4, func(t *testing.T, ch *world.Character) { assert.Equal(t, 10, ch.Current.Dex) }},
		{"hit", world.ApplyHit, 10, func(t *testing.T, ch *world.Character) { assert.Equal(t, 50, ch.MaxHP) }},
		{"ac", world.ApplyAC, -20, func(t *testing.T, ch *world.Character) { assert.Equal(t, 30, ch.Armor) }},
		{"hitroll", world.ApplyHitroll, 1, func(t *testing.T, ch *world.Character) { assert.Equal(t, 1, ch.Hitroll) }},
		{"damroll", world.ApplyDamroll, 2, func(t *testing.T, ch *world.Character) { assert.Equal(t, 2, ch.Damroll) }},
		{"weight", world.ApplyWeight, -50, func(t *testing.T, ch *world.Character) { assert.Equal(t, 100, ch.Weight) }},
		{"save spell", world.ApplySavingSpell, -1, func(t *testing.T, ch *world.Character) {
			assert.Equal(t, -1, ch.SavingThrows[world.SaveSpell])
		}},
		{"age", world.ApplyAge, 2, func(t *testing.T, ch *world.Character) {
			want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(2 * world.SecsPerMudYear * time.Second)
			assert.Equal(t, want, ch.Birth)
		}},
		{"mana is inert", world.ApplyMana, 30, func(t *testing.T, ch *world.Character) { assert.Equal(t, 0, ch.MaxMana) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := newChar()
			require.NoError(t, Apply(ch, world.Affect{Type: 1, Modifier: tt.mod, Location: tt.loc}))
			tt.check(t, ch)
			assert.Len(t, ch.Affects, 1)
		})
	}
}

func TestRoundTrip_AnyOrder(t *testing.T) {
	affects := []world.Affect{
		{Type: spellStrength, Modifier: 2, Location: world.ApplyStr},
		{Type: spellBless, Modifier: 1, Location: world.ApplyHitroll, Duration: 6},
		{Type: spellStrength, Modifier: 3, Location: world.ApplyStr},
		{Type: spellArmor, Modifier: -20, Location: world.ApplyAC},
		{Type: spellSanct, Location: world.ApplyNone, Bits: world.AffSanctuary},
		{Type: spellBless, Modifier: -1, Location: world.ApplySavingSpell},
	}
	orders := [][]int{
		{spellStrength, spellBless, spellArmor, spellSanct},
		{spellSanct, spellArmor, spellBless, spellStrength},
		{spellBless, spellSanct, spellStrength, spellArmor},
	}
	for _, order := range orders {
		ch := newChar()
		before := snapshot(ch)
		for _, af := range affects {
			require.NoError(t, Apply(ch, af))
		}
		assert.Equal(t, 20, ch.Current.Str)
		assert.True(t, ch.IsAffected(world.AffSanctuary))

		for _, id := range order {
			require.NoError(t, RemoveByID(ch, id))
		}
		assert.Equal(t, before, snapshot(ch), "order %v", order)
		assert.Empty(t, ch.Affects)
		assert.Zero(t, ch.AffectedBy)
	}
}

func TestRemoveByID_LeavesOthersAlone(t *testing.T) {
	ch := newChar()
	require.NoError(t, Apply(ch, world.Affect{Type: spellStrength, Modifier: 2, Location: world.ApplyStr}))
	require.NoError(t, Apply(ch, world.Affect{Type: spellBless, Modifier: 1, Location: world.ApplyStr}))

	require.NoError(t, RemoveByID(ch, spellStrength))
	assert.Equal(t, 16, ch.Current.Str)
	require.Len(t, ch.Affects, 1)
	assert.Equal(t, spellBless, ch.Affects[0].Type)
}

func TestRemoveByID_AbsentIsNoop(t *testing.T) {
	ch := newChar()
	require.NoError(t, Apply(ch, world.Affect{Type: spellArmor, Modifier: -20, Location: world.ApplyAC}))
	before := *ch

	require.NoError(t, RemoveByID(ch, 99))
	require.NoError(t, RemoveByID(ch, 99))
	assert.Equal(t, before.Armor, ch.Armor)
	assert.Len(t, ch.Affects, 1)
}

func TestRemoveByID_KeepsSharedBits(t *testing.T) {
	ch := newChar()
	require.NoError(t, Apply(ch, world.Affect{Type: 29, Bits: world.AffInvisible}))
	require.NoError(t, Apply(ch, world.Affect{Type: 70, Bits: world.AffInvisible}))

	require.NoError(t, RemoveByID(ch, 29))
	assert.True(t, ch.IsAffected(world.AffInvisible))
	require.NoError(t, RemoveByID(ch, 70))
	assert.False(t, ch.IsAffected(world.AffInvisible))
}

func TestApply_OutOfBounds(t *testing.T) {
	ch := newChar()
	err := Apply(ch, world.Affect{Type: spellStrength, Modifier: 11, Location: world.ApplyStr})
	require.Error(t, err)
	assert.True(t, errors.Is(err, world.ErrInvariant))

	var ie *world.InvariantError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "affect.Apply", ie.Op)

	assert.Equal(t, 15, ch.Current.Str, "no partial mutation")
	assert.Empty(t, ch.Affects)

	err = Apply(ch, world.Affect{Type: 5, Modifier: -15, Location: world.ApplyCon})
	assert.ErrorIs(t, err, world.ErrInvariant)
	assert.Equal(t, 13, ch.Current.Con)
}

func TestRemoveByID_OutOfBoundsIsAtomic(t *testing.T) {
	ch := newChar()
	require.NoError(t, Apply(ch, world.Affect{Type: 7, Modifier: 1, Location: world.ApplyHitroll}))
	require.NoError(t, Apply(ch, world.Affect{Type: 7, Modifier: -5, Location: world.ApplyDex}))
	// A caller lowering dex behind the ledger's back breaks the reversal.
	ch.Current.Dex = 22

	err := RemoveByID(ch, 7)
	assert.ErrorIs(t, err, world.ErrInvariant)
	assert.Equal(t, 1, ch.Hitroll)
	assert.Len(t, ch.Affects, 2)
}

func TestTick_ExpiresAndReverses(t *testing.T) {
	ch := newChar()
	require.NoError(t, Apply(ch, world.Affect{Type: spellBless, Duration: 1, Modifier: 1, Location: world.ApplyHitroll}))
	require.NoError(t, Apply(ch, world.Affect{Type: spellArmor, Duration: -1, Modifier: -20, Location: world.ApplyAC}))

	expired, err := Tick(ch)
	require.NoError(t, err)
	assert.Empty(t, expired)
	assert.Equal(t, 0, ch.Affects[0].Duration)

	expired, err = Tick(ch)
	require.NoError(t, err)
	assert.Equal(t, []int{spellBless}, expired)
	assert.Equal(t, 0, ch.Hitroll)
	require.Len(t, ch.Affects, 1)
	assert.Equal(t, 30, ch.Armor)
}

func TestTick_StackedSourcesExpireIndependently(t *testing.T) {
	ch := newChar()
	require.NoError(t, Apply(ch, world.Affect{Type: spellStrength, Duration: 0, Modifier: 1, Location: world.ApplyStr}))
	require.NoError(t, Apply(ch, world.Affect{Type: spellStrength, Duration: 5, Modifier: 2, Location: world.ApplyStr, Bits: world.AffInvisible}))
	assert.Equal(t, 18, ch.Current.Str)

	expired, err := Tick(ch)
	require.NoError(t, err)
	assert.Equal(t, []int{spellStrength}, expired)
	require.Len(t, ch.Affects, 1)
	assert.Equal(t, 17, ch.Current.Str)
	assert.Equal(t, 4, ch.Affects[0].Duration)
	assert.True(t, ch.IsAffected(world.AffInvisible))
	assert.True(t, Has(ch, spellStrength))
}
