package world

// AffectFlags is the status-bit set asserted by active affects.
type AffectFlags uint32

const (
	AffBlind AffectFlags = 1 << iota
	AffInvisible
	AffDetectEvil
	AffDetectInvisible
	AffDetectMagic
	AffSenseLife
	AffHold
	AffSanctuary
	AffGroup
	AffCurse
	AffFlaming
	AffPoison
	AffProtectEvil
	AffParalysis
	AffMordenSword
	AffFlamingSword
	AffSleep
	AffDodge
	AffSneak
	AffHide
	AffFear
	AffCharm
	AffFollow
)

func (f AffectFlags) Has(bits AffectFlags) bool { return f&bits != 0 }

// ActFlags drive NPC behaviour.
type ActFlags uint8

const (
	ActSpec ActFlags = 1 << iota
	ActSentinel
	ActScavenger
	ActIsNPC
	ActNiceThief
	ActAggressive
	ActStayZone
	ActWimpy
)

func (f ActFlags) Has(bits ActFlags) bool { return f&bits != 0 }

// Class is a player's class. NPCs carry ClassNone.
type Class int

const (
	ClassNone Class = iota
	ClassMagicUser
	ClassCleric
	ClassThief
	ClassWarrior
)

var classNames = [...]string{"none", "magic_user", "cleric", "thief", "warrior"}

func (c Class) String() string {
	if c < ClassNone || c > ClassWarrior {
		return "unknown"
	}
	return classNames[c]
}

// ParseClass maps a table key back to a Class.
func ParseClass(s string) (Class, bool) {
	for i, n := range classNames {
		if n == s {
			return Class(i), true
		}
	}
	return ClassNone, false
}

type Sex int

const (
	SexNeutral Sex = iota
	SexMale
	SexFemale
)
