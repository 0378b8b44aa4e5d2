// Package combat resolves attacks and applies their consequences: hit
// points, vitality, the combat roster, experience and narration.
package combat

import (
	"time"

	"go.uber.org/zap"

	"github.com/dikucore/server/internal/core/event"
	"github.com/dikucore/server/internal/data"
	"github.com/dikucore/server/internal/dice"
	"github.com/dikucore/server/internal/narrate"
	"github.com/dikucore/server/internal/progression"
	"github.com/dikucore/server/internal/world"
)

// Deps bundles what the combat services share. Bus may be nil, in which
// case deaths and flee requests are not reported.
type Deps struct {
	World    *world.State
	Tables   *data.Tables
	Messages *data.FightMessages
	Roll     *dice.Roller
	Narrator narrate.Narrator
	Ledger   *progression.Ledger
	Bus      *event.Bus
	Log      *zap.Logger
	Now      func() time.Time
}

// Options are the combat switches from configuration.
type Options struct {
	// LegacyFleeInversion lets only characters that are not fighting flee,
	// with no experience penalty.
	LegacyFleeInversion bool
}

// Engine wires the resolver, applier and roster together. All methods run
// on the game loop goroutine.
type Engine struct {
	deps     Deps
	opts     Options
	Roster   *Roster
	Resolver *Resolver
	Applier  *Applier
}

func NewEngine(deps Deps, opts Options) *Engine {
	if deps.Narrator == nil {
		deps.Narrator = narrate.Discard{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	e := &Engine{
		deps:   deps,
		opts:   opts,
		Roster: NewRoster(),
	}
	e.Resolver = NewResolver(deps.Tables, deps.Roll, deps.Log)
	e.Applier = NewApplier(&e.deps, e.Roster)
	return e
}

// Hit resolves one attack from att on def and applies it. tag is
// data.TypeUndefined for an ordinary swing or a skill such as backstab.
func (e *Engine) Hit(att, def *world.Character, tag int) error {
	out, err := e.Resolver.Resolve(att, def, tag)
	if err != nil {
		return err
	}
	return e.Applier.Apply(att, def, out.Damage, out.AttackType)
}

// Damage applies damage that needs no to-hit roll: spells, suffering.
func (e *Engine) Damage(att, def *world.Character, dam, tag int) error {
	return e.Applier.Apply(att, def, dam, tag)
}

// StopFighting takes ch out of combat.
func (e *Engine) StopFighting(ch *world.Character) {
	e.Roster.Disengage(ch)
}

// StopFightingAll takes ch and everyone fighting ch out of combat.
func (e *Engine) StopFightingAll(ch *world.Character) {
	e.Applier.StopFightingAll(ch)
}

// Opponent resolves ch's current opponent, or nil.
func (e *Engine) Opponent(ch *world.Character) *world.Character {
	return e.deps.World.Char(ch.Fighting)
}
