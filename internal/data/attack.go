package data

// Attack type identifiers. Spells and skills use their own numbers below
// TypeHit; the weapon types TypeHit..TypeCrush narrate through the damage
// buckets.
const (
	TypeUndefined = -1

	SpellCharmPerson = 7
	SpellInvisible   = 29
	SpellSanctuary   = 36
	SpellSleep       = 38
	SkillBackstab    = 48

	TypeHit      = 100
	TypeBludgeon = 101
	TypePierce   = 102
	TypeSlash    = 103
	TypeWhip     = 104
	TypeClaw     = 105
	TypeBite     = 106
	TypeSting    = 107
	TypeCrush    = 108

	TypeSuffering = 200
)

// IsWeaponAttack reports whether t is one of the physical weapon types.
func IsWeaponAttack(t int) bool { return t >= TypeHit && t <= TypeCrush }
