package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dikucore/server/internal/core/event"
)

// Ledger record kinds.
const (
	KindDeath = "death"
	KindLevel = "level"
)

// Record is one combat-ledger row: a death or a level gained.
type Record struct {
	ID         uuid.UUID
	Kind       string
	CharName   string
	NPC        bool
	Level      int
	Exp        int
	OtherName  string // killer for deaths
	AttackType int
	Room       int32
	CreatedAt  time.Time
}

func DeathRecord(ev event.CharacterDied, level, exp int, at time.Time) Record {
	return Record{
		ID:         uuid.New(),
		Kind:       KindDeath,
		CharName:   ev.VictimName,
		NPC:        ev.NPC,
		Level:      level,
		Exp:        exp,
		OtherName:  ev.KillerName,
		AttackType: ev.AttackType,
		Room:       ev.Room,
		CreatedAt:  at,
	}
}

func LevelRecord(ev event.LevelGained, at time.Time) Record {
	return Record{
		ID:        uuid.New(),
		Kind:      KindLevel,
		CharName:  ev.Name,
		Level:     ev.Level,
		Exp:       ev.Exp,
		CreatedAt: at,
	}
}

// Store accepts batches of ledger records.
type Store interface {
	WriteBatch(ctx context.Context, recs []Record) error
}

type LedgerRepo struct {
	db *DB
}

func NewLedgerRepo(db *DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

// WriteBatch inserts records in a single transaction. Nothing is written if
// any insert fails.
func (r *LedgerRepo) WriteBatch(ctx context.Context, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ledger begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, rec := range recs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO combat_ledger (id, kind, char_name, npc, level, exp, other_name, attack_type, room, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (id) DO NOTHING`,
			rec.ID, rec.Kind, rec.CharName, rec.NPC, rec.Level, rec.Exp,
			rec.OtherName, rec.AttackType, rec.Room, rec.CreatedAt,
		); err != nil {
			return fmt.Errorf("ledger insert: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// Recent returns the newest records for a character, newest first.
func (r *LedgerRepo) Recent(ctx context.Context, charName string, limit int) ([]Record, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, kind, char_name, npc, level, exp, other_name, attack_type, room, created_at
		 FROM combat_ledger
		 WHERE char_name = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, charName, limit,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var rec Record
		err := row.Scan(&rec.ID, &rec.Kind, &rec.CharName, &rec.NPC, &rec.Level, &rec.Exp,
			&rec.OtherName, &rec.AttackType, &rec.Room, &rec.CreatedAt)
		return rec, err
	})
}
