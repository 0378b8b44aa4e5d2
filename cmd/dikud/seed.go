package main

import (
	"go.uber.org/zap"

	"github.com/dikucore/server/internal/combat"
	"github.com/dikucore/server/internal/data"
	"github.com/dikucore/server/internal/world"
)

// seedWorld builds the zone's rooms and spawns its mobiles, starting any
// fights the spawn list asks for.
func seedWorld(ws *world.State, zone *data.Zone, engine *combat.Engine, log *zap.Logger) (rooms, mobs int) {
	for _, r := range zone.Rooms {
		ws.AddRoom(r.Room())
	}
	type key struct {
		vnum int32
		room int32
	}
	spawned := make(map[key]*world.Character, len(zone.Spawns))
	for _, s := range zone.Spawns {
		ch := zone.Instantiate(s.Vnum)
		ws.Spawn(ch, world.RoomID(s.Room))
		spawned[key{s.Vnum, s.Room}] = ch
		mobs++
		if s.Engage == 0 {
			continue
		}
		foe := spawned[key{s.Engage, s.Room}]
		if err := engine.Roster.Engage(ch, foe); err != nil {
			log.Warn("初始戰鬥設定失敗", zap.String("mob", ch.Name), zap.Error(err))
			continue
		}
		if !foe.IsFighting() {
			if err := engine.Roster.Engage(foe, ch); err != nil {
				log.Warn("初始戰鬥設定失敗", zap.String("mob", foe.Name), zap.Error(err))
			}
		}
	}
	return len(zone.Rooms), mobs
}
