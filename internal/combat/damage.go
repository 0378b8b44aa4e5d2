package combat

import (
	"strings"

	"go.uber.org/zap"

	"github.com/dikucore/server/internal/affect"
	"github.com/dikucore/server/internal/core/event"
	"github.com/dikucore/server/internal/data"
	"github.com/dikucore/server/internal/narrate"
	"github.com/dikucore/server/internal/progression"
	"github.com/dikucore/server/internal/world"
)

// Damage limits applied after the raw roll.
const (
	SanctuaryCap = 18
	MaxDamage    = 100
)

// Applier turns resolved damage into hit points, positions, roster entries,
// experience and narration.
type Applier struct {
	d      *Deps
	roster *Roster
}

func NewApplier(d *Deps, roster *Roster) *Applier {
	return &Applier{d: d, roster: roster}
}

// Immortal reports whether ch is a player above the mortal level cap.
func Immortal(ch *world.Character) bool {
	return !ch.NPC && ch.Level > progression.MaxMortalLvl
}

// Apply deals raw damage from att to def under attack type tag. Routing
// damage to a dead character, or an engagement that would overwrite an
// opponent, is an invariant violation.
func (a *Applier) Apply(att, def *world.Character, raw, tag int) error {
	if def.Position == world.PosDead {
		return world.Invariant("combat.Apply", def, "damage routed to a dead character")
	}

	dam := raw
	if Immortal(def) {
		dam = 0
	}

	if att != def {
		if def.Position > world.PosStunned {
			if !def.IsFighting() {
				if err := a.roster.Engage(def, att); err != nil {
					return err
				}
			}
			def.Position = world.PosFighting
		}
		if att.Position > world.PosStunned && !att.IsFighting() {
			if err := a.roster.Engage(att, def); err != nil {
				return err
			}
		}
	}

	if !def.Master.IsZero() && def.Master == att.ID {
		a.stopFollower(def)
	}
	if att.IsAffected(world.AffInvisible) {
		if err := a.appear(att); err != nil {
			return err
		}
	}

	if def.IsAffected(world.AffSanctuary) {
		dam = min(dam, SanctuaryCap)
	}
	dam = min(max(dam, 0), MaxDamage)

	def.HP -= dam
	if att != def {
		a.d.Ledger.Gain(att, def.Level*dam)
	}
	def.Position = world.UpdatePosition(def.HP, def.Position)

	a.narrateDamage(att, def, dam, tag)
	a.aftermath(att, def, dam, tag)
	return nil
}

func (a *Applier) narrateDamage(att, def *world.Character, dam, tag int) {
	if data.IsWeaponAttack(tag) {
		verb := a.d.Tables.Verb(tag)
		if att.Wielded == nil {
			verb = a.d.Tables.Verb(data.TypeHit)
		}
		msg := a.d.Tables.DamageMessage(dam)
		a.send(att, def, narrate.ToNotVict, ReplaceWeaponGrammar(msg.ToRoom, verb))
		a.send(att, def, narrate.ToChar, ReplaceWeaponGrammar(msg.ToChar, verb))
		a.send(att, def, narrate.ToVict, ReplaceWeaponGrammar(msg.ToVictim, verb))
		return
	}

	candidates := a.d.Messages.Get(tag)
	if len(candidates) == 0 {
		return
	}
	m := candidates[a.d.Roll.Number(0, len(candidates)-1)]
	var set data.MsgSet
	switch {
	case Immortal(def):
		set = m.God
	case dam != 0 && def.Position == world.PosDead:
		set = m.Die
	case dam != 0:
		set = m.Hit
	default:
		set = m.Miss
	}
	a.send(att, def, narrate.ToChar, set.Attacker)
	a.send(att, def, narrate.ToVict, set.Victim)
	a.send(att, def, narrate.ToNotVict, set.Room)
}

func (a *Applier) send(att, def *world.Character, to narrate.Target, tmpl string) {
	if tmpl == "" {
		return
	}
	a.d.Narrator.Act(narrate.Act{
		Template: tmpl,
		Actor:    att,
		Obj:      att.Wielded,
		Victim:   def,
		To:       to,
	})
}

func (a *Applier) self(ch *world.Character, to narrate.Target, hide bool, tmpl string) {
	a.d.Narrator.Act(narrate.Act{Template: tmpl, HideInvisible: hide, Actor: ch, To: to})
}

func (a *Applier) aftermath(att, def *world.Character, dam, tag int) {
	switch def.Position {
	case world.PosMortallyWounded:
		a.self(def, narrate.ToRoom, true, "$n is mortally wounded, and will die soon, if not aided.")
		a.self(def, narrate.ToChar, false, "You are mortally wounded, and will die soon, if not aided.")
	case world.PosIncapacitated:
		a.self(def, narrate.ToRoom, true, "$n is incapacitated and will slowly die, if not aided.")
		a.self(def, narrate.ToChar, false, "You are incapacitated and will slowly die, if not aided.")
	case world.PosStunned:
		a.self(def, narrate.ToRoom, true, "$n is stunned, but will probably regain consciousness again.")
		a.self(def, narrate.ToChar, false, "You're stunned, but will probably regain consciousness again.")
	case world.PosDead:
		a.self(def, narrate.ToRoom, false, "$n is dead! R.I.P.")
		a.self(def, narrate.ToChar, false, "You are dead!  Sorry...")
		a.die(att, def, tag)
	default:
		maxHit := def.HitLimit(a.d.Now())
		if dam > maxHit/5 {
			a.self(def, narrate.ToChar, false, "That Really did HURT!")
		}
		if def.HP < maxHit/5 {
			a.self(def, narrate.ToChar, false, "You wish that your wounds would stop BLEEDING so much!")
			if def.NPC && def.Act.Has(world.ActWimpy) && a.d.Bus != nil {
				event.Emit(a.d.Bus, event.FleeRequested{Character: def.ID})
			}
		}
	}
}

// die pulls the victim and everyone fighting it out of combat and reports
// the death for the next pulse.
func (a *Applier) die(att, def *world.Character, tag int) {
	a.StopFightingAll(def)
	a.d.Log.Info("character died",
		zap.String("victim", def.Name),
		zap.String("killer", att.Name),
		zap.Int("attack_type", tag))
	if a.d.Bus == nil {
		return
	}
	event.Emit(a.d.Bus, event.CharacterDied{
		Victim:     def.ID,
		VictimName: def.Name,
		Killer:     att.ID,
		KillerName: att.Name,
		AttackType: tag,
		Room:       int32(def.Room),
		NPC:        def.NPC,
	})
}

// StopFightingAll disengages ch and every roster member fighting ch.
func (a *Applier) StopFightingAll(ch *world.Character) {
	a.roster.Disengage(ch)
	for _, id := range a.roster.Snapshot() {
		other := a.d.World.Char(id)
		if other == nil {
			a.roster.Forget(id)
			continue
		}
		if other.Fighting == ch.ID {
			a.roster.Disengage(other)
		}
	}
}

func (a *Applier) stopFollower(ch *world.Character) {
	master := a.d.World.Char(ch.Master)
	if master == nil {
		a.d.World.StopFollowing(ch)
		return
	}
	if ch.IsAffected(world.AffCharm) {
		a.send(ch, master, narrate.ToChar, "You realize that $N is a jerk!")
		a.send(ch, master, narrate.ToNotVict, "$n realizes that $N is a jerk!")
		a.send(ch, master, narrate.ToVict, "$n hates your guts!")
		if err := affect.RemoveByID(ch, data.SpellCharmPerson); err != nil {
			a.d.Log.Error("remove charm failed", zap.String("name", ch.Name), zap.Error(err))
		}
	} else {
		a.send(ch, master, narrate.ToChar, "You stop following $N.")
		a.send(ch, master, narrate.ToNotVict, "$n stops following $N.")
		a.send(ch, master, narrate.ToVict, "$n stops following you.")
	}
	a.d.World.StopFollowing(ch)
}

// appear makes an invisible attacker visible.
func (a *Applier) appear(ch *world.Character) error {
	a.self(ch, narrate.ToRoom, false, "$n slowly fades into existence.")
	if err := affect.RemoveByID(ch, data.SpellInvisible); err != nil {
		return err
	}
	ch.AffectedBy &^= world.AffInvisible
	return nil
}

// ReplaceWeaponGrammar expands #w to the singular verb, #W to the plural and
// ## to a literal hash. Other #-sequences are dropped.
func ReplaceWeaponGrammar(s string, verb data.WeaponVerb) string {
	if !strings.Contains(s, "#") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '#' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) {
			break
		}
		i++
		switch s[i] {
		case 'w':
			b.WriteString(verb.Singular)
		case 'W':
			b.WriteString(verb.Plural)
		case '#':
			b.WriteByte('#')
		}
	}
	return b.String()
}
