package affect

import "github.com/dikucore/server/internal/world"

// Tick ages every affect on ch by one affect pulse. Each record whose
// duration has run out is reversed and dropped on its own, so other sources
// of the same id keep running; a negative duration never expires. Returns the
// ids that wore off, in list order, without duplicates.
func Tick(ch *world.Character) ([]int, error) {
	var expired []int
	seen := make(map[int]bool)
	for i := 0; i < len(ch.Affects); {
		af := &ch.Affects[i]
		if af.Duration < 0 {
			i++
			continue
		}
		if af.Duration > 0 {
			af.Duration--
			i++
			continue
		}
		id := af.Type
		if err := removeAt(ch, i); err != nil {
			return expired, err
		}
		if !seen[id] {
			seen[id] = true
			expired = append(expired, id)
		}
	}
	return expired, nil
}

// removeAt reverses and discards the single record at index i, then
// re-asserts the bits still carried by the remaining records.
func removeAt(ch *world.Character, i int) error {
	af := ch.Affects[i]
	if err := modify(ch, af.Location, -af.Modifier, "affect.Tick"); err != nil {
		return err
	}
	ch.AffectedBy &^= af.Bits
	ch.Affects = append(ch.Affects[:i], ch.Affects[i+1:]...)
	for _, rest := range ch.Affects {
		ch.AffectedBy |= rest.Bits
	}
	return nil
}
