package world

import (
	"time"

	"github.com/dikucore/server/internal/core/ecs"
)

// Mud calendar constants used for character age.
const (
	SecsPerMudHour  = 75
	SecsPerMudDay   = 24 * SecsPerMudHour
	SecsPerMudMonth = 35 * SecsPerMudDay
	SecsPerMudYear  = 17 * SecsPerMudMonth
)

// Abilities is one set of the six raw scores. StrAdd is the 18/xx
// exceptional strength percentile, meaningful only at Str 18.
type Abilities struct {
	Str    int
	StrAdd int
	Int    int
	Wis    int
	Dex    int
	Con    int
}

// Character holds in-memory data for a player or mobile in the world.
// Accessed only from the game loop goroutine; no locks needed.
type Character struct {
	ID         ecs.EntityID
	Name       string
	ShortDescr string // NPC display name ("the cityguard"); empty for players
	Title      string

	NPC   bool
	Class Class
	Sex   Sex
	Level int
	Exp   int

	Birth  time.Time
	Weight int
	Height int

	Abilities Abilities // rolled scores
	Current   Abilities // scores in use: Abilities plus active affects

	HP      int
	MaxHP   int
	Mana    int
	MaxMana int
	Move    int
	MaxMove int

	Armor     int // internal -100..100; to-hit uses Armor/10
	Hitroll   int
	Damroll   int
	Alignment int

	SavingThrows [NumSavingThrows]int

	Position        Position
	DefaultPosition Position

	// Opponent while engaged. Non-zero only while the character is on the
	// combat roster.
	Fighting ecs.EntityID

	Master    ecs.EntityID
	Followers []ecs.EntityID

	AffectedBy AffectFlags
	Affects    []Affect
	Act        ActFlags

	// NPC natural attack: damage dice when unarmed and the innate attack type.
	DamNoDice   int
	DamSizeDice int
	AttackType  int

	Wielded *Object
	Room    RoomID

	// SpecProc names a registered special procedure; empty for none.
	SpecProc string
}

func (c *Character) IsNPC() bool { return c.NPC }

func (c *Character) Awake() bool { return c.Position.Awake() }

func (c *Character) IsAffected(bits AffectFlags) bool { return c.AffectedBy.Has(bits) }

func (c *Character) IsFighting() bool { return !c.Fighting.IsZero() }

func (c *Character) IsEvil() bool { return c.Alignment <= -350 }

func (c *Character) IsGood() bool { return c.Alignment >= 350 }

// StrengthApplyIndex maps working strength to a row of the strength table:
// 0..25 directly, 26..30 for the 18/xx bands.
func (c *Character) StrengthApplyIndex() int {
	str, add := c.Current.Str, c.Current.StrAdd
	if add == 0 || str != 18 {
		return str
	}
	switch {
	case add <= 50:
		return 26
	case add <= 75:
		return 27
	case add <= 90:
		return 28
	case add <= 99:
		return 29
	default:
		return 30
	}
}

// Age returns the character's age in mud years at now.
func (c *Character) Age(now time.Time) int {
	secs := int64(now.Sub(c.Birth) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return int(secs/SecsPerMudYear) + 17
}

// HitLimit is the effective maximum hit points: MaxHP plus an age curve for
// players, MaxHP for mobiles.
func (c *Character) HitLimit(now time.Time) int {
	if c.NPC {
		return c.MaxHP
	}
	return c.MaxHP + graf(c.Age(now), 2, 4, 17, 14, 8, 4, 3)
}

// graf interpolates an age curve: p0 below 15, straight lines between the
// knots at 15, 30, 45, 60 and 80, p6 from 80 on.
func graf(age, p0, p1, p2, p3, p4, p5, p6 int) int {
	switch {
	case age < 15:
		return p0
	case age <= 29:
		return p1 + ((age-15)*(p2-p1))/15
	case age <= 44:
		return p2 + ((age-30)*(p3-p2))/15
	case age <= 59:
		return p3 + ((age-45)*(p4-p3))/15
	case age <= 79:
		return p4 + ((age-60)*(p5-p4))/20
	default:
		return p6
	}
}
