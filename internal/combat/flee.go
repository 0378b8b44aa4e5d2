package combat

import (
	"github.com/dikucore/server/internal/narrate"
	"github.com/dikucore/server/internal/world"
)

// fleeAttempts is how many random exits a fleeing character tries.
const fleeAttempts = 6

// Flee tries to run ch out through a random exit. Up to six directions are
// drawn; the first that leads somewhere other than a death room is taken.
// A fighter that escapes stops fighting, and a player loses experience for
// the damage its opponent had taken. Returns whether ch moved.
func (e *Engine) Flee(ch *world.Character) bool {
	fighting := ch.IsFighting()
	if e.opts.LegacyFleeInversion && fighting {
		return false
	}
	if !ch.Awake() {
		return false
	}

	for i := 0; i < fleeAttempts; i++ {
		dir := world.Direction(e.deps.Roll.Number(0, int(world.NumDirections)-1))
		to := e.deps.World.ExitTo(ch, dir)
		if to == nil || to.Flags&world.RoomDeath != 0 {
			continue
		}
		e.say(ch, narrate.ToRoom, true, "$n panics, and attempts to flee.")
		opp := e.Opponent(ch)
		if !e.deps.World.Move(ch, dir) {
			e.say(ch, narrate.ToRoom, true, "$n tries to flee, but is too exhausted!")
			return false
		}
		if fighting && !e.opts.LegacyFleeInversion {
			e.escaped(ch, opp)
		}
		e.say(ch, narrate.ToChar, false, "You flee head over heels.")
		return true
	}
	e.say(ch, narrate.ToChar, false, "PANIC! You couldn't escape!")
	return false
}

func (e *Engine) escaped(ch, opp *world.Character) {
	if opp != nil {
		if loss := (opp.MaxHP - opp.HP) * opp.Level; !ch.NPC && loss > 0 {
			e.deps.Ledger.Gain(ch, -loss)
		}
		if opp.Fighting == ch.ID {
			e.Roster.Disengage(opp)
		}
	}
	e.Roster.Disengage(ch)
}

func (e *Engine) say(ch *world.Character, to narrate.Target, hide bool, tmpl string) {
	e.deps.Narrator.Act(narrate.Act{Template: tmpl, HideInvisible: hide, Actor: ch, To: to})
}
