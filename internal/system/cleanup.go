package system

import (
	"github.com/dikucore/server/internal/combat"
	coresys "github.com/dikucore/server/internal/core/system"
	"github.com/dikucore/server/internal/world"
)

// CleanupSystem flushes the deferred destruction queue at pulse end and
// drops roster entries whose character is gone (Phase 5).
type CleanupSystem struct {
	world  *world.State
	roster *combat.Roster
}

func NewCleanupSystem(ws *world.State, roster *combat.Roster) *CleanupSystem {
	return &CleanupSystem{world: ws, roster: roster}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ uint64) {
	s.world.Flush()
	for _, id := range s.roster.Snapshot() {
		if s.world.Char(id) == nil {
			s.roster.Forget(id)
		}
	}
}
