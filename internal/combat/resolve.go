package combat

import (
	"errors"

	"go.uber.org/zap"

	"github.com/dikucore/server/internal/data"
	"github.com/dikucore/server/internal/dice"
	"github.com/dikucore/server/internal/world"
)

// ErrNotSameRoom rejects an attack across rooms. The attack is skipped and
// nothing changes.
var ErrNotSameRoom = errors.New("attacker and defender not in the same room")

// npcThac0 is the to-hit baseline for every mobile.
const npcThac0 = 20

// Outcome is a resolved attack. Damage is 0 on a miss. AttackType is the
// tag the damage is narrated under: the weapon category, or the skill for
// backstabs.
type Outcome struct {
	Hit        bool
	Damage     int
	AttackType int
	Roll       int
}

// Resolver decides hit or miss and raw damage.
type Resolver struct {
	tables *data.Tables
	roll   *dice.Roller
	log    *zap.Logger
}

func NewResolver(tables *data.Tables, roll *dice.Roller, log *zap.Logger) *Resolver {
	return &Resolver{tables: tables, roll: roll, log: log}
}

// WeaponType maps what att is hitting with to a weapon attack type.
func (r *Resolver) WeaponType(att *world.Character) int {
	if att.Wielded.IsWeapon() {
		switch att.Wielded.Value[3] {
		case 0, 1, 2:
			return data.TypeWhip
		case 3:
			return data.TypeSlash
		case 4, 5, 6:
			return data.TypeCrush
		case 7:
			return data.TypeBludgeon
		case 8, 9, 10, 11:
			return data.TypePierce
		}
		return data.TypeHit
	}
	if att.NPC && r.tables.IsWeaponType(att.AttackType) {
		return att.AttackType
	}
	return data.TypeHit
}

// Thac0 is att's to-hit number after strength and hitroll.
func (r *Resolver) Thac0(att *world.Character) int {
	base := npcThac0
	if !att.NPC {
		base = r.tables.Thac0(att.Class, att.Level)
	}
	return base - r.tables.StrApp(att.StrengthApplyIndex()).ToHit - att.Hitroll
}

// ArmorClass is def's effective armor class, never better than -10.
func (r *Resolver) ArmorClass(def *world.Character) int {
	ac := def.Armor / 10
	if def.Awake() {
		ac += r.tables.DexDefensive(def.Current.Dex)
	}
	return max(ac, -10)
}

// Resolve rolls one attack. A defender who is not awake is always hit; a
// natural 1 always misses and a natural 20 always hits.
func (r *Resolver) Resolve(att, def *world.Character, tag int) (Outcome, error) {
	if att.Room != def.Room {
		r.log.Warn("attack across rooms",
			zap.String("attacker", att.Name),
			zap.String("defender", def.Name),
			zap.Int32("attacker_room", int32(att.Room)),
			zap.Int32("defender_room", int32(def.Room)))
		return Outcome{}, ErrNotSameRoom
	}

	out := Outcome{AttackType: r.WeaponType(att)}
	if tag == data.SkillBackstab {
		out.AttackType = data.SkillBackstab
	}

	thac0 := r.Thac0(att)
	ac := r.ArmorClass(def)
	out.Roll = r.roll.D20()
	if def.Awake() && out.Roll < 20 && (out.Roll == 1 || thac0-out.Roll > ac) {
		return out, nil
	}

	out.Hit = true
	out.Damage = r.damage(att, def, tag)
	return out, nil
}

func (r *Resolver) damage(att, def *world.Character, tag int) int {
	dam := r.tables.StrApp(att.StrengthApplyIndex()).ToDam + att.Damroll
	switch {
	case att.Wielded.IsWeapon():
		dam += r.roll.Dice(att.Wielded.Value[1], att.Wielded.Value[2])
	case att.NPC:
		dam += r.roll.Dice(att.DamNoDice, att.DamSizeDice)
	default:
		dam += r.roll.Number(0, 2)
	}
	dam = PositionMultiplier(dam, def.Position)
	dam = max(dam, 1)
	if tag == data.SkillBackstab {
		dam *= r.tables.BackstabMult(att.Level)
	}
	return dam
}

// PositionMultiplier scales dam against a defender below Fighting by a
// third per step down the ladder: Sitting 4/3, Resting 5/3, Sleeping 2.
func PositionMultiplier(dam int, pos world.Position) int {
	if pos >= world.PosFighting {
		return dam
	}
	steps := int(world.PosFighting - pos)
	return dam * (3 + steps) / 3
}
