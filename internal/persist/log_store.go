package persist

import (
	"context"

	"go.uber.org/zap"
)

// LogStore writes ledger records to the log. Used when no database is
// configured.
type LogStore struct {
	log *zap.Logger
}

func NewLogStore(log *zap.Logger) *LogStore {
	return &LogStore{log: log}
}

func (s *LogStore) WriteBatch(_ context.Context, recs []Record) error {
	for _, r := range recs {
		s.log.Info("戰鬥紀錄",
			zap.String("id", r.ID.String()),
			zap.String("kind", r.Kind),
			zap.String("char", r.CharName),
			zap.Int("level", r.Level),
			zap.Int("exp", r.Exp),
			zap.String("other", r.OtherName))
	}
	return nil
}
