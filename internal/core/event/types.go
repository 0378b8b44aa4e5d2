package event

import "github.com/dikucore/server/internal/core/ecs"

// CharacterDied is emitted when damage drives a character to the Dead position.
type CharacterDied struct {
	Victim     ecs.EntityID
	VictimName string
	Killer     ecs.EntityID
	KillerName string
	AttackType int
	Room       int32
	NPC        bool
}

// LevelGained is emitted once per awarded level.
type LevelGained struct {
	Character ecs.EntityID
	Name      string
	Class     int
	Level     int
	Exp       int
	HitGain   int
}

// FleeRequested asks the flee logic to move a wounded character next pulse.
type FleeRequested struct {
	Character ecs.EntityID
}

// Quarantined reports a character pulled out of combat after an invariant
// violation.
type Quarantined struct {
	Character ecs.EntityID
	Reason    string
}
