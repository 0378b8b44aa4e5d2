package system

import (
	"github.com/dikucore/server/internal/core/event"
	coresys "github.com/dikucore/server/internal/core/system"
)

// EventDispatchSystem delivers the events emitted during the previous pulse
// (Phase 1). Events emitted by handlers wait for the next pulse.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ uint64) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
