package world

import "github.com/dikucore/server/internal/core/ecs"

// Follow makes follower trail master. Any previous master is dropped first.
func (s *State) Follow(follower, master *Character) {
	if !follower.Master.IsZero() {
		s.StopFollowing(follower)
	}
	follower.Master = master.ID
	follower.AffectedBy |= AffFollow
	master.Followers = append(master.Followers, follower.ID)
}

// StopFollowing severs follower from its master and clears the charm and
// group bits. Returns the former master, or nil when there was none.
func (s *State) StopFollowing(follower *Character) *Character {
	if follower.Master.IsZero() {
		return nil
	}
	master := s.Char(follower.Master)
	if master != nil {
		master.Followers = removeID(master.Followers, follower.ID)
	}
	follower.Master = 0
	follower.AffectedBy &^= AffCharm | AffGroup | AffFollow
	return master
}

func removeID(ids []ecs.EntityID, id ecs.EntityID) []ecs.EntityID {
	for i, x := range ids {
		if x == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
