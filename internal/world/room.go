package world

import "github.com/dikucore/server/internal/core/ecs"

type RoomID int32

type Direction int

const (
	North Direction = iota
	East
	South
	West
	Up
	Down
	NumDirections
)

var dirNames = [...]string{"north", "east", "south", "west", "up", "down"}

func (d Direction) String() string {
	if d < North || d >= NumDirections {
		return "nowhere"
	}
	return dirNames[d]
}

type RoomFlags uint16

const (
	RoomDark RoomFlags = 1 << iota
	RoomDeath
	RoomNoMob
	RoomIndoors
	RoomLawful
	RoomNeutral
	RoomChaotic
	RoomNoMagic
	RoomTunnel
	RoomPrivate
)

// Room is the minimal location record combat needs: who is here and where
// the exits lead. Exits hold 0 when there is no exit.
type Room struct {
	ID     RoomID
	Name   string
	Flags  RoomFlags
	Exits  [NumDirections]RoomID
	People []ecs.EntityID
}

func (r *Room) remove(id ecs.EntityID) {
	for i, p := range r.People {
		if p == id {
			r.People = append(r.People[:i], r.People[i+1:]...)
			return
		}
	}
}
