// Package narrate carries narration requests from the combat core to
// whoever renders them for observers.
package narrate

import "github.com/dikucore/server/internal/world"

// Target selects who receives an Act.
type Target int

const (
	ToRoom    Target = iota // everyone in the actor's room but the actor
	ToNotVict               // as ToRoom, also skipping the victim
	ToVict                  // the victim only
	ToChar                  // the actor only
)

func (t Target) String() string {
	switch t {
	case ToRoom:
		return "room"
	case ToNotVict:
		return "notvict"
	case ToVict:
		return "vict"
	case ToChar:
		return "char"
	}
	return "unknown"
}

// Act is one narration request. Template placeholders are resolved per
// observer by the Narrator.
type Act struct {
	Template      string
	HideInvisible bool
	Actor         *world.Character
	Obj           *world.Object
	Victim        *world.Character
	VictObj       *world.Object
	VictStr       string
	To            Target
}

// Narrator delivers narration. Implementations must not call back into
// combat.
type Narrator interface {
	Act(a Act)
}

// Discard drops every request.
type Discard struct{}

func (Discard) Act(Act) {}
