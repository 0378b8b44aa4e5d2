package system

import (
	"errors"

	"go.uber.org/zap"

	"github.com/dikucore/server/internal/combat"
	"github.com/dikucore/server/internal/core/ecs"
	"github.com/dikucore/server/internal/core/event"
	coresys "github.com/dikucore/server/internal/core/system"
	"github.com/dikucore/server/internal/data"
	"github.com/dikucore/server/internal/world"
)

// AttackRequest is one queued attack, resolved on the next combat phase.
type AttackRequest struct {
	Attacker ecs.EntityID
	Target   ecs.EntityID
	Tag      int
}

// CombatSystem 處理佇列中的攻擊請求，並在每個 violence pulse 進行一輪戰鬥（Phase 2）。
// Commands and special procedures call QueueAttack; nothing outside this
// system resolves attacks directly.
type CombatSystem struct {
	engine   *combat.Engine
	world    *world.State
	bus      *event.Bus
	log      *zap.Logger
	interval int
	requests []AttackRequest
}

func NewCombatSystem(engine *combat.Engine, ws *world.State, bus *event.Bus, log *zap.Logger, violencePulses int) *CombatSystem {
	return &CombatSystem{engine: engine, world: ws, bus: bus, log: log, interval: violencePulses}
}

func (s *CombatSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

// QueueAttack records an attack request.
func (s *CombatSystem) QueueAttack(att, def *world.Character, tag int) {
	s.requests = append(s.requests, AttackRequest{Attacker: att.ID, Target: def.ID, Tag: tag})
}

// Queued returns the number of attacks awaiting resolution.
func (s *CombatSystem) Queued() int { return len(s.requests) }

func (s *CombatSystem) Update(pulse uint64) {
	s.drain()
	if coresys.Every(pulse, s.interval) {
		s.violence()
	}
}

// drain resolves queued attacks in FIFO order. Requests naming a character
// that is gone, dead or asleep are dropped.
func (s *CombatSystem) drain() {
	reqs := s.requests
	s.requests = nil
	for _, req := range reqs {
		att := s.world.Char(req.Attacker)
		def := s.world.Char(req.Target)
		if att == nil || def == nil || att == def {
			continue
		}
		if !att.Awake() || def.Position == world.PosDead {
			continue
		}
		s.hit(att, def, req.Tag)
	}
}

// violence runs one round: every engaged character that is awake and in
// its opponent's room swings once; the rest stop fighting.
func (s *CombatSystem) violence() {
	roster := s.engine.Roster
	for _, id := range roster.Snapshot() {
		if !roster.Contains(id) {
			continue // disengaged earlier this round
		}
		ch := s.world.Char(id)
		if ch == nil {
			roster.Forget(id)
			continue
		}
		opp := s.engine.Opponent(ch)
		if opp == nil || !ch.Awake() || ch.Room != opp.Room || opp.Position == world.PosDead {
			s.engine.StopFighting(ch)
			continue
		}
		s.hit(ch, opp, data.TypeUndefined)
	}
}

func (s *CombatSystem) hit(att, def *world.Character, tag int) {
	err := s.engine.Hit(att, def, tag)
	switch {
	case err == nil:
	case errors.Is(err, combat.ErrNotSameRoom):
		s.log.Warn("攻擊目標不在同一房間",
			zap.String("attacker", att.Name), zap.String("target", def.Name))
		if att.Fighting == def.ID {
			s.engine.StopFighting(att)
		}
	case errors.Is(err, world.ErrInvariant):
		s.quarantine(offender(err, att, def), err)
	default:
		s.log.Error("戰鬥處理失敗", zap.String("attacker", att.Name), zap.Error(err))
	}
}

// quarantine pulls ch and its opponents out of combat after an invariant
// violation instead of crashing the loop.
func (s *CombatSystem) quarantine(ch *world.Character, err error) {
	s.log.Error("不變量違反，隔離角色", zap.String("char", ch.Name), zap.Error(err))
	s.engine.StopFightingAll(ch)
	if s.bus != nil {
		event.Emit(s.bus, event.Quarantined{Character: ch.ID, Reason: err.Error()})
	}
}

func offender(err error, att, def *world.Character) *world.Character {
	var ie *world.InvariantError
	if errors.As(err, &ie) && !ie.ID.IsZero() && ie.ID == def.ID && ie.ID != att.ID {
		return def
	}
	return att
}
