package system

import (
	coresys "github.com/dikucore/server/internal/core/system"
	"github.com/dikucore/server/internal/narrate"
	"github.com/dikucore/server/internal/scripting"
	"github.com/dikucore/server/internal/world"
)

// MobileSystem gives every mobile with a special procedure its periodic
// turn (Phase 3). It is also the scripting.Host: attacks go to the combat
// queue, narration to the narrator.
type MobileSystem struct {
	world    *world.State
	registry *scripting.Registry
	combat   *CombatSystem
	narr     narrate.Narrator
	interval int
}

func NewMobileSystem(ws *world.State, reg *scripting.Registry, cs *CombatSystem, narr narrate.Narrator, mobilePulses int) *MobileSystem {
	return &MobileSystem{world: ws, registry: reg, combat: cs, narr: narr, interval: mobilePulses}
}

func (s *MobileSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *MobileSystem) QueueAttack(att, def *world.Character, tag int) {
	s.combat.QueueAttack(att, def, tag)
}

func (s *MobileSystem) Narrate(a narrate.Act) { s.narr.Act(a) }

func (s *MobileSystem) Update(pulse uint64) {
	if !coresys.Every(pulse, s.interval) {
		return
	}
	var mobs []*world.Character
	s.world.AllCharacters(func(ch *world.Character) {
		if ch.NPC && ch.SpecProc != "" && ch.Position != world.PosDead && s.world.Room(ch.Room) != nil {
			mobs = append(mobs, ch)
		}
	})
	for _, mob := range mobs {
		s.registry.Invoke(scripting.SpecContext{
			Char:  mob,
			Cmd:   scripting.CmdPulse,
			World: s.world,
			Host:  s,
		})
	}
}
