package world

// Position is the ordered vitality ladder, worst to best.
type Position int

const (
	PosDead Position = iota
	PosMortallyWounded
	PosIncapacitated
	PosStunned
	PosSleeping
	PosResting
	PosSitting
	PosFighting
	PosStanding
)

var positionNames = [...]string{
	"dead", "mortally wounded", "incapacitated", "stunned",
	"sleeping", "resting", "sitting", "fighting", "standing",
}

func (p Position) String() string {
	if p < PosDead || p > PosStanding {
		return "unknown"
	}
	return positionNames[p]
}

// Awake reports whether the position is strictly above Sleeping.
func (p Position) Awake() bool { return p > PosSleeping }

// UpdatePosition recomputes a vitality state from hit points and the prior
// state. A character already above Stunned keeps its state while hit points
// stay positive; one recovering from a worse state snaps to Standing.
func UpdatePosition(hp int, prev Position) Position {
	switch {
	case hp > 0 && prev > PosStunned:
		return prev
	case hp > 0:
		return PosStanding
	case hp <= -11:
		return PosDead
	case hp <= -6:
		return PosMortallyWounded
	case hp <= -3:
		return PosIncapacitated
	default:
		return PosStunned
	}
}
