package persist

import (
	"context"

	"go.uber.org/zap"
)

// MaxPending bounds the records held while the store is unreachable; the
// oldest are dropped beyond it.
const MaxPending = 10_000

// Buffer collects ledger records during the pulse and hands them to the
// store in one batch. A failed batch is kept for the next flush.
type Buffer struct {
	store   Store
	pending []Record
	dropped int
	log     *zap.Logger
}

func NewBuffer(store Store, log *zap.Logger) *Buffer {
	return &Buffer{store: store, log: log}
}

func (b *Buffer) Add(rec Record) {
	b.pending = append(b.pending, rec)
	if over := len(b.pending) - MaxPending; over > 0 {
		b.pending = append(b.pending[:0], b.pending[over:]...)
		b.dropped += over
		b.log.Warn("戰鬥紀錄緩衝已滿，丟棄舊紀錄", zap.Int("dropped", over))
	}
}

func (b *Buffer) Pending() int { return len(b.pending) }

// Dropped counts records discarded because the buffer overflowed.
func (b *Buffer) Dropped() int { return b.dropped }

// Flush writes every pending record. On error the records stay queued.
func (b *Buffer) Flush(ctx context.Context) error {
	if len(b.pending) == 0 || b.store == nil {
		return nil
	}
	batch := b.pending
	if err := b.store.WriteBatch(ctx, batch); err != nil {
		b.log.Error("戰鬥紀錄寫入失敗", zap.Int("pending", len(batch)), zap.Error(err))
		return err
	}
	b.pending = nil
	b.log.Debug("戰鬥紀錄已寫入", zap.Int("count", len(batch)))
	return nil
}
