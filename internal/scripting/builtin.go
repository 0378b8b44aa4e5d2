package scripting

import (
	"github.com/dikucore/server/internal/data"
	"github.com/dikucore/server/internal/dice"
	"github.com/dikucore/server/internal/narrate"
	"github.com/dikucore/server/internal/world"
)

var puffLines = [...]string{
	"My god! It's full of stars!",
	"How'd all those fish get up here?",
	"I'm a very female dragon.",
	"I've got a peaceful, easy feeling.",
}

// RegisterBuiltins adds the Go procedures: puff and cityguard.
func RegisterBuiltins(r *Registry, roll *dice.Roller) {
	r.Register("puff", Puff(roll))
	r.Register("cityguard", Cityguard)
}

// Puff mutters one of a few lines now and then.
func Puff(roll *dice.Roller) SpecFunc {
	return func(ctx SpecContext) bool {
		if ctx.Cmd != CmdPulse || ctx.Host == nil {
			return false
		}
		n := roll.Number(0, 60)
		if n >= len(puffLines) {
			return false
		}
		ctx.Host.Narrate(narrate.Act{
			Template: "$n says '" + puffLines[n] + "'",
			Actor:    ctx.Char,
			To:       narrate.ToRoom,
		})
		return true
	}
}

// Cityguard joins the most evil fight in the room on the side of the
// innocent, where one side of the fight is a mobile.
func Cityguard(ctx SpecContext) bool {
	guard := ctx.Char
	if ctx.Cmd != CmdPulse || ctx.Host == nil || !guard.Awake() || guard.IsFighting() {
		return false
	}
	var evil *world.Character
	maxEvil := 1000
	for _, tch := range ctx.World.Occupants(guard.Room) {
		if tch == guard || !tch.IsFighting() {
			continue
		}
		opp := ctx.World.Char(tch.Fighting)
		if opp == nil {
			continue
		}
		if tch.Alignment < maxEvil && (tch.NPC || opp.NPC) {
			maxEvil = tch.Alignment
			evil = tch
		}
	}
	if evil == nil {
		return false
	}
	if victim := ctx.World.Char(evil.Fighting); victim == nil || victim.Alignment < 0 {
		return false
	}
	ctx.Host.Narrate(narrate.Act{
		Template: "$n screams 'PROTECT THE INNOCENT!  BANZAI!!!  CHARGE!!!  ARARARAGGGHH!'",
		Actor:    guard,
		To:       narrate.ToRoom,
	})
	ctx.Host.QueueAttack(guard, evil, data.TypeUndefined)
	return true
}
