// Package affect maintains each character's list of temporary effects and the
// ability and derived-stat deltas they impose.
package affect

import (
	"time"

	"github.com/dikucore/server/internal/world"
)

// Ability scores move inside [0, 25]; weight and height inside [0, 255].
const (
	minAbility = 0
	maxAbility = 25
	maxBodyDim = 255
)

// Apply appends af to ch, asserts its bits and adds its modifier. A modifier
// that would push a bounded score out of range is an invariant violation and
// leaves ch untouched.
func Apply(ch *world.Character, af world.Affect) error {
	if err := modify(ch, af.Location, af.Modifier, "affect.Apply"); err != nil {
		return err
	}
	ch.AffectedBy |= af.Bits
	ch.Affects = append(ch.Affects, af)
	return nil
}

// RemoveByID reverses and discards every affect of type id, then re-asserts
// the bits still carried by the remaining affects so stacked sources keep
// their flags. Removing an id ch does not carry is a no-op.
func RemoveByID(ch *world.Character, id int) error {
	if !Has(ch, id) {
		return nil
	}
	// Validate every reversal before touching ch.
	trial := *ch
	for _, af := range ch.Affects {
		if af.Type != id {
			continue
		}
		if err := modify(&trial, af.Location, -af.Modifier, "affect.RemoveByID"); err != nil {
			return err
		}
	}

	kept := ch.Affects[:0]
	for _, af := range ch.Affects {
		if af.Type == id {
			_ = modify(ch, af.Location, -af.Modifier, "affect.RemoveByID")
			ch.AffectedBy &^= af.Bits
			continue
		}
		kept = append(kept, af)
	}
	ch.Affects = kept
	for _, af := range ch.Affects {
		ch.AffectedBy |= af.Bits
	}
	return nil
}

// Has reports whether ch carries an affect of type id.
func Has(ch *world.Character, id int) bool {
	for _, af := range ch.Affects {
		if af.Type == id {
			return true
		}
	}
	return false
}

// modify adds delta to the slot named by loc. Bounded slots are checked
// before any write.
func modify(ch *world.Character, loc world.Apply, delta int, op string) error {
	switch loc {
	case world.ApplyStr:
		return bounded(ch, &ch.Current.Str, delta, maxAbility, op, "str")
	case world.ApplyDex:
		return bounded(ch, &ch.Current.Dex, delta, maxAbility, op, "dex")
	case world.ApplyInt:
		return bounded(ch, &ch.Current.Int, delta, maxAbility, op, "int")
	case world.ApplyWis:
		return bounded(ch, &ch.Current.Wis, delta, maxAbility, op, "wis")
	case world.ApplyCon:
		return bounded(ch, &ch.Current.Con, delta, maxAbility, op, "con")
	case world.ApplyWeight:
		return bounded(ch, &ch.Weight, delta, maxBodyDim, op, "weight")
	case world.ApplyHeight:
		return bounded(ch, &ch.Height, delta, maxBodyDim, op, "height")
	case world.ApplyAge:
		ch.Birth = ch.Birth.Add(time.Duration(delta) * world.SecsPerMudYear * time.Second)
	case world.ApplyHit:
		ch.MaxHP += delta
	case world.ApplyAC:
		ch.Armor += delta
	case world.ApplyHitroll:
		ch.Hitroll += delta
	case world.ApplyDamroll:
		ch.Damroll += delta
	case world.ApplySavingPara:
		ch.SavingThrows[world.SavePara] += delta
	case world.ApplySavingRod:
		ch.SavingThrows[world.SaveRod] += delta
	case world.ApplySavingPetri:
		ch.SavingThrows[world.SavePetri] += delta
	case world.ApplySavingBreath:
		ch.SavingThrows[world.SaveBreath] += delta
	case world.ApplySavingSpell:
		ch.SavingThrows[world.SaveSpell] += delta
	}
	// None, Sex, Class, Level, Mana, Move, Gold and Exp carry no delta.
	return nil
}

func bounded(ch *world.Character, slot *int, delta, hi int, op, name string) error {
	v := *slot + delta
	if v < minAbility || v > hi {
		return world.Invariant(op, ch, "%s %d%+d leaves [%d,%d]", name, *slot, delta, minAbility, hi)
	}
	*slot = v
	return nil
}
