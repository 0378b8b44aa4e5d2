package system

import (
	"go.uber.org/zap"

	"github.com/dikucore/server/internal/affect"
	"github.com/dikucore/server/internal/combat"
	coresys "github.com/dikucore/server/internal/core/system"
	"github.com/dikucore/server/internal/data"
	"github.com/dikucore/server/internal/world"
)

// AffectTickSystem ages affects once per affect pulse and bleeds the
// incapacitated and mortally wounded (Phase 3).
type AffectTickSystem struct {
	world    *world.State
	engine   *combat.Engine
	log      *zap.Logger
	interval int
}

func NewAffectTickSystem(ws *world.State, engine *combat.Engine, log *zap.Logger, affectPulses int) *AffectTickSystem {
	return &AffectTickSystem{world: ws, engine: engine, log: log, interval: affectPulses}
}

func (s *AffectTickSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *AffectTickSystem) Update(pulse uint64) {
	if !coresys.Every(pulse, s.interval) {
		return
	}
	var chars []*world.Character
	s.world.AllCharacters(func(ch *world.Character) {
		if ch.Position != world.PosDead {
			chars = append(chars, ch)
		}
	})
	for _, ch := range chars {
		expired, err := affect.Tick(ch)
		if err != nil {
			s.log.Error("affect 到期移除失敗", zap.String("char", ch.Name), zap.Error(err))
		} else if len(expired) > 0 {
			s.log.Debug("affect 到期", zap.String("char", ch.Name), zap.Ints("ids", expired))
		}
		s.suffer(ch)
	}
}

func (s *AffectTickSystem) suffer(ch *world.Character) {
	var dam int
	switch {
	case ch.Position == world.PosIncapacitated:
		dam = 1
	case ch.Position == world.PosMortallyWounded && !ch.NPC:
		dam = 2
	default:
		return
	}
	if err := s.engine.Damage(ch, ch, dam, data.TypeSuffering); err != nil {
		s.log.Error("傷勢惡化處理失敗", zap.String("char", ch.Name), zap.Error(err))
	}
}
