package world

import (
	"github.com/dikucore/server/internal/core/ecs"
)

// MoveGuard is consulted before a character leaves through an exit. It
// returns true when something (a special procedure) blocks the move.
type MoveGuard func(ch *Character, dir Direction) bool

// State is the character arena plus the room index. Characters are addressed
// by generational handles so stale references resolve to nil instead of a
// recycled character. Accessed only from the game loop goroutine.
type State struct {
	ecs   *ecs.World
	chars *ecs.Store[Character]
	rooms map[RoomID]*Room

	guard MoveGuard
}

func NewState() *State {
	w := ecs.NewWorld()
	chars := ecs.NewStore[Character]()
	w.Register(chars)
	return &State{
		ecs:   w,
		chars: chars,
		rooms: make(map[RoomID]*Room),
	}
}

// SetMoveGuard installs the hook consulted by Move.
func (s *State) SetMoveGuard(g MoveGuard) { s.guard = g }

func (s *State) AddRoom(r *Room) { s.rooms[r.ID] = r }

// Room returns the room or nil.
func (s *State) Room(id RoomID) *Room { return s.rooms[id] }

// Spawn registers ch in the arena and places it in room.
func (s *State) Spawn(ch *Character, room RoomID) ecs.EntityID {
	id := s.ecs.CreateEntity()
	ch.ID = id
	ch.Room = room
	s.chars.Set(id, ch)
	if r := s.rooms[room]; r != nil {
		r.People = append(r.People, id)
	}
	return id
}

// Char resolves a handle. Returns nil for the zero id or a stale handle.
func (s *State) Char(id ecs.EntityID) *Character {
	if id.IsZero() || !s.ecs.Alive(id) {
		return nil
	}
	c, _ := s.chars.Get(id)
	return c
}

// AllCharacters visits every character in spawn order.
func (s *State) AllCharacters(fn func(*Character)) {
	for _, id := range s.chars.IDs() {
		if c, ok := s.chars.Get(id); ok {
			fn(c)
		}
	}
}

// Occupants returns the characters standing in room, in arrival order.
func (s *State) Occupants(room RoomID) []*Character {
	r := s.rooms[room]
	if r == nil {
		return nil
	}
	out := make([]*Character, 0, len(r.People))
	for _, id := range r.People {
		if c := s.Char(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// CanGo reports whether dir leads out of ch's room.
func (s *State) CanGo(ch *Character, dir Direction) bool {
	r := s.rooms[ch.Room]
	if r == nil || dir < North || dir >= NumDirections {
		return false
	}
	return r.Exits[dir] != 0 && s.rooms[r.Exits[dir]] != nil
}

// ExitTo returns the room behind dir, or nil.
func (s *State) ExitTo(ch *Character, dir Direction) *Room {
	if !s.CanGo(ch, dir) {
		return nil
	}
	return s.rooms[s.rooms[ch.Room].Exits[dir]]
}

// Move takes ch through dir. It fails when there is no exit or the move
// guard blocks it.
func (s *State) Move(ch *Character, dir Direction) bool {
	to := s.ExitTo(ch, dir)
	if to == nil {
		return false
	}
	if s.guard != nil && s.guard(ch, dir) {
		return false
	}
	s.place(ch, to.ID)
	return true
}

func (s *State) place(ch *Character, room RoomID) {
	if r := s.rooms[ch.Room]; r != nil {
		r.remove(ch.ID)
	}
	ch.Room = room
	if r := s.rooms[room]; r != nil {
		r.People = append(r.People, ch.ID)
	}
}

// Extract takes ch out of its room and queues it for destruction at the end
// of the pulse.
func (s *State) Extract(ch *Character) {
	if r := s.rooms[ch.Room]; r != nil {
		r.remove(ch.ID)
	}
	s.ecs.MarkForDestruction(ch.ID)
}

// Flush destroys characters queued by Extract.
func (s *State) Flush() int {
	return s.ecs.FlushDestroyQueue()
}
