package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/dikucore/server/internal/combat"
	"github.com/dikucore/server/internal/core/ecs"
	"github.com/dikucore/server/internal/core/event"
	"github.com/dikucore/server/internal/narrate"
	"github.com/dikucore/server/internal/persist"
	"github.com/dikucore/server/internal/progression"
	"github.com/dikucore/server/internal/world"
)

// Aftermath handles the deferred combat events: deaths, flee requests,
// level gains and quarantines.
type Aftermath struct {
	world  *world.State
	engine *combat.Engine
	ledger *progression.Ledger
	buffer *persist.Buffer
	narr   narrate.Narrator
	log    *zap.Logger
	now    func() time.Time
}

func NewAftermath(ws *world.State, engine *combat.Engine, ledger *progression.Ledger,
	buffer *persist.Buffer, narr narrate.Narrator, log *zap.Logger) *Aftermath {
	return &Aftermath{
		world:  ws,
		engine: engine,
		ledger: ledger,
		buffer: buffer,
		narr:   narr,
		log:    log,
		now:    time.Now,
	}
}

// Subscribe registers the handlers on bus.
func (a *Aftermath) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, a.onDied)
	event.Subscribe(bus, a.onFlee)
	event.Subscribe(bus, a.onLevel)
	event.Subscribe(bus, a.onQuarantined)
}

// onDied records the death, then extracts a dead mobile or revives a
// dead player at one hit point, halving its experience.
func (a *Aftermath) onDied(ev event.CharacterDied) {
	ch := a.world.Char(ev.Victim)
	level, exp := 0, 0
	if ch != nil {
		level, exp = ch.Level, ch.Exp
	}
	if a.buffer != nil {
		a.buffer.Add(persist.DeathRecord(ev, level, exp, a.now()))
	}
	if ch == nil || ch.Position != world.PosDead {
		return
	}
	a.engine.StopFightingAll(ch)
	a.releaseFollowers(ch)

	if ch.NPC {
		a.log.Debug("移除死亡 NPC", zap.String("name", ch.Name))
		a.world.Extract(ch)
		return
	}
	if ch.Exp > 0 {
		a.ledger.Gain(ch, -ch.Exp/2)
	}
	ch.HP = 1
	ch.Position = world.PosResting
	a.narr.Act(narrate.Act{Template: "You feel your life force return, weakly.", Actor: ch, To: narrate.ToChar})
	a.log.Info("玩家死亡",
		zap.String("name", ch.Name),
		zap.String("killer", ev.KillerName),
		zap.Int("exp", ch.Exp))
}

func (a *Aftermath) releaseFollowers(ch *world.Character) {
	a.world.StopFollowing(ch)
	for _, id := range append([]ecs.EntityID(nil), ch.Followers...) {
		if f := a.world.Char(id); f != nil {
			a.world.StopFollowing(f)
		}
	}
	ch.Followers = nil
}

func (a *Aftermath) onFlee(ev event.FleeRequested) {
	ch := a.world.Char(ev.Character)
	if ch == nil || !ch.IsFighting() || !ch.Awake() {
		return
	}
	a.engine.Flee(ch)
}

func (a *Aftermath) onLevel(ev event.LevelGained) {
	if a.buffer != nil {
		a.buffer.Add(persist.LevelRecord(ev, a.now()))
	}
}

func (a *Aftermath) onQuarantined(ev event.Quarantined) {
	a.log.Warn("角色已隔離", zap.Uint64("id", uint64(ev.Character)), zap.String("reason", ev.Reason))
}
