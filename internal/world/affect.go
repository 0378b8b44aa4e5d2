package world

// Apply names the ability or derived stat an affect modifies.
type Apply int

const (
	ApplyNone Apply = iota
	ApplyStr
	ApplyDex
	ApplyInt
	ApplyWis
	ApplyCon
	ApplySex
	ApplyClass
	ApplyLevel
	ApplyAge
	ApplyWeight
	ApplyHeight
	ApplyMana
	ApplyHit
	ApplyMove
	ApplyGold
	ApplyExp
	ApplyAC
	ApplyHitroll
	ApplyDamroll
	ApplySavingPara
	ApplySavingRod
	ApplySavingPetri
	ApplySavingBreath
	ApplySavingSpell
)

// SavingThrow indexes Character.SavingThrows.
type SavingThrow int

const (
	SavePara SavingThrow = iota
	SaveRod
	SavePetri
	SaveBreath
	SaveSpell
	NumSavingThrows
)

// Affect is one temporary effect on a character.
type Affect struct {
	Type     int         // spell or skill id
	Duration int         // pulses of the affect clock left
	Modifier int         // added to Location while active
	Location Apply
	Bits     AffectFlags // asserted while active
}
