package data

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFightMessages_Defaults(t *testing.T) {
	m, err := LoadFightMessages("")
	require.NoError(t, err)
	assert.Equal(t, 5, m.Count())

	bs := m.Get(SkillBackstab)
	require.Len(t, bs, 1)
	assert.Equal(t, "$n tries to backstab you, how silly.", bs[0].God.Victim)

	suffer := m.Get(TypeSuffering)
	require.Len(t, suffer, 1)
	assert.Empty(t, suffer[0].Die.Attacker)
	assert.Equal(t, "You bleed to death.", suffer[0].Die.Victim)

	assert.Nil(t, m.Get(12345))
}

func TestParseFightMessages(t *testing.T) {
	src := `* comment
M
 42
die a~
die v~
die r~
miss a~
miss v~
#~
hit a
continues~
hit v~
hit r~
god a~
god v~
god r~

M
42
second~
#~
#~
#~
#~
#~
#~
#~
#~
#~
#~
#~
$
`
	m, err := ParseFightMessages(strings.NewReader(src))
	require.NoError(t, err)
	got := m.Get(42)
	require.Len(t, got, 2)
	assert.Equal(t, MsgSet{Attacker: "die a", Victim: "die v", Room: "die r"}, got[0].Die)
	assert.Empty(t, got[0].Miss.Room)
	assert.Equal(t, "hit a\ncontinues", got[0].Hit.Attacker)
	assert.Equal(t, "god r", got[0].God.Room)
	assert.Equal(t, "second", got[1].Die.Attacker)
}

func TestParseFightMessages_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"bad record marker", "X\n", "expected M"},
		{"bad attack type", "M\nabc\n", "attack type"},
		{"missing attack type", "M\n", "missing attack type"},
		{"unterminated", "M\n1\nno tilde\n", "unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFightMessages(strings.NewReader(tt.src))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestParseFightMessages_EmptyIsValid(t *testing.T) {
	m, err := ParseFightMessages(strings.NewReader("* nothing\n$\n"))
	require.NoError(t, err)
	assert.Zero(t, m.Count())
	assert.Nil(t, (*FightMessages)(nil).Get(1))
}
