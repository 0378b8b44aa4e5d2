package combat

import (
	"github.com/dikucore/server/internal/affect"
	"github.com/dikucore/server/internal/core/ecs"
	"github.com/dikucore/server/internal/data"
	"github.com/dikucore/server/internal/world"
)

// Roster is the set of engaged characters, walked in the order they entered
// combat. A character's Fighting handle is non-zero exactly while it is on
// the roster. Owned by the game loop; not safe for concurrent use.
type Roster struct {
	order []ecs.EntityID
	index map[ecs.EntityID]struct{}
}

func NewRoster() *Roster {
	return &Roster{index: make(map[ecs.EntityID]struct{}, 64)}
}

// Contains reports whether id is engaged.
func (r *Roster) Contains(id ecs.EntityID) bool {
	_, ok := r.index[id]
	return ok
}

func (r *Roster) Len() int { return len(r.order) }

// Snapshot returns the engaged ids in entry order. Safe to hold while the
// roster changes.
func (r *Roster) Snapshot() []ecs.EntityID {
	out := make([]ecs.EntityID, len(r.order))
	copy(out, r.order)
	return out
}

// Engage sets ch fighting vict and enrolls ch. A character that already has
// an opponent is an invariant violation: the caller must disengage first.
// Engaging wakes a magically sleeping character.
func (r *Roster) Engage(ch, vict *world.Character) error {
	if ch.IsFighting() {
		return world.Invariant("combat.Engage", ch, "already fighting %v, refused %s", ch.Fighting, vict.Name)
	}
	if ch.IsAffected(world.AffSleep) {
		if err := affect.RemoveByID(ch, data.SpellSleep); err != nil {
			return err
		}
		ch.AffectedBy &^= world.AffSleep
	}
	if _, ok := r.index[ch.ID]; !ok {
		r.index[ch.ID] = struct{}{}
		r.order = append(r.order, ch.ID)
	}
	ch.Fighting = vict.ID
	ch.Position = world.PosFighting
	return nil
}

// Disengage clears ch's opponent and drops it from the roster. A character
// still in the Fighting position goes back to Standing.
func (r *Roster) Disengage(ch *world.Character) {
	r.remove(ch.ID)
	ch.Fighting = 0
	if ch.Position == world.PosFighting {
		ch.Position = world.PosStanding
	}
}

func (r *Roster) remove(id ecs.EntityID) {
	if _, ok := r.index[id]; !ok {
		return
	}
	delete(r.index, id)
	for i, x := range r.order {
		if x == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

// Forget drops an id whose character no longer exists.
func (r *Roster) Forget(id ecs.EntityID) { r.remove(id) }
