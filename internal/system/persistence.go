package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/dikucore/server/internal/core/system"
	"github.com/dikucore/server/internal/persist"
)

// PersistenceSystem periodically flushes buffered ledger records
// (Phase 4).
type PersistenceSystem struct {
	buffer   *persist.Buffer
	log      *zap.Logger
	interval int
	timeout  time.Duration
}

func NewPersistenceSystem(buffer *persist.Buffer, log *zap.Logger, persistPulses int) *PersistenceSystem {
	return &PersistenceSystem{buffer: buffer, log: log, interval: persistPulses, timeout: 5 * time.Second}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(pulse uint64) {
	if !coresys.Every(pulse, s.interval) {
		return
	}
	s.flush()
}

// FlushAll writes everything still buffered. Called on shutdown.
func (s *PersistenceSystem) FlushAll() {
	s.flush()
	if n := s.buffer.Pending(); n > 0 {
		s.log.Warn("關閉時仍有未寫入的戰鬥紀錄", zap.Int("pending", n))
	}
}

func (s *PersistenceSystem) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_ = s.buffer.Flush(ctx) // failures are logged and retried next flush
}
