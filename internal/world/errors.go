package world

import (
	"errors"
	"fmt"

	"github.com/dikucore/server/internal/core/ecs"
)

// ErrInvariant marks a broken caller protocol, never bad data. Hosts decide
// whether to crash or quarantine the entity involved.
var ErrInvariant = errors.New("invariant violation")

// InvariantError carries the operation and character behind an ErrInvariant.
// ID is the zero handle when the character was never spawned.
type InvariantError struct {
	Op     string
	ID     ecs.EntityID
	Char   string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s: %s: %s", ErrInvariant, e.Op, e.Char, e.Detail)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }

// Invariant builds an InvariantError for ch.
func Invariant(op string, ch *Character, format string, args ...any) error {
	ie := &InvariantError{Op: op, Char: "<nil>", Detail: fmt.Sprintf(format, args...)}
	if ch != nil {
		ie.ID = ch.ID
		ie.Char = ch.Name
	}
	return ie
}
