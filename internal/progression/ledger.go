// Package progression turns experience into levels, hit points and titles.
package progression

import (
	"go.uber.org/zap"

	"github.com/dikucore/server/internal/core/event"
	"github.com/dikucore/server/internal/data"
	"github.com/dikucore/server/internal/dice"
	"github.com/dikucore/server/internal/narrate"
	"github.com/dikucore/server/internal/world"
)

// Per-call experience limits and the highest level reachable by experience.
const (
	MaxGain       = 100_000
	MaxLoss       = -500_000
	MaxMortalLvl  = 20
	levelUpNotice = "You raise a level!"
)

// hitDice is the per-class hit point roll on advancing.
var hitDice = map[world.Class][2]int{
	world.ClassMagicUser: {3, 8},
	world.ClassCleric:    {5, 10},
	world.ClassThief:     {7, 13},
	world.ClassWarrior:   {10, 15},
}

// Ledger applies experience changes. Bus and narrator may be nil.
type Ledger struct {
	tables *data.Tables
	roll   *dice.Roller
	narr   narrate.Narrator
	bus    *event.Bus
	log    *zap.Logger
}

func NewLedger(tables *data.Tables, roll *dice.Roller, narr narrate.Narrator, bus *event.Bus, log *zap.Logger) *Ledger {
	if narr == nil {
		narr = narrate.Discard{}
	}
	return &Ledger{tables: tables, roll: roll, narr: narr, bus: bus, log: log}
}

// Eligible reports whether ch gains or loses experience at all.
func Eligible(ch *world.Character) bool {
	return ch.NPC || (ch.Level >= 1 && ch.Level <= MaxMortalLvl)
}

// Gain adds delta experience to ch and advances a player through every
// title threshold the new total meets, one level at a time. Returns the
// number of levels gained.
func (l *Ledger) Gain(ch *world.Character, delta int) int {
	if !Eligible(ch) || delta == 0 {
		return 0
	}
	if delta < 0 {
		delta = max(delta, MaxLoss)
		ch.Exp = max(ch.Exp+delta, 0)
		return 0
	}

	ch.Exp += min(delta, MaxGain)
	if ch.NPC {
		return 0
	}

	gained := 0
	for ch.Level < MaxMortalLvl {
		need, ok := l.tables.ExpForLevel(ch.Class, ch.Level+1)
		if !ok || ch.Exp < need {
			break
		}
		ch.Level++
		hp := l.AdvanceLevel(ch)
		gained++
		l.narr.Act(narrate.Act{Template: levelUpNotice, Actor: ch, To: narrate.ToChar})
		if l.bus != nil {
			event.Emit(l.bus, event.LevelGained{
				Character: ch.ID,
				Name:      ch.Name,
				Class:     int(ch.Class),
				Level:     ch.Level,
				Exp:       ch.Exp,
				HitGain:   hp,
			})
		}
	}
	if gained > 0 {
		l.SetTitle(ch)
		l.log.Debug("level advanced",
			zap.String("name", ch.Name),
			zap.Int("level", ch.Level),
			zap.Int("levels", gained))
	}
	return gained
}

// AdvanceLevel rolls the hit points one new level brings and adds them to
// MaxHP. Returns the gain, at least 1.
func (l *Ledger) AdvanceLevel(ch *world.Character) int {
	add := l.tables.ConHitp(ch.Current.Con)
	if r, ok := hitDice[ch.Class]; ok {
		add += l.roll.Number(r[0], r[1])
	}
	add = max(add, 1)
	ch.MaxHP += add
	return add
}

// SetTitle recomputes ch's title for its class, level and sex.
func (l *Ledger) SetTitle(ch *world.Character) {
	if t := l.tables.Title(ch.Class, ch.Level, ch.Sex); t != "" {
		ch.Title = t
	}
}
