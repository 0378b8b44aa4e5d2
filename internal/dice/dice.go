// Package dice is the randomness seam for combat and progression. Production
// code uses Global; tests inject a Scripted source to pin every roll.
package dice

import "math/rand"

// Source supplies uniform integers. Intn returns a value in [0, n) and is
// only called with n > 0.
type Source interface {
	Intn(n int) int
}

type globalSource struct{}

func (globalSource) Intn(n int) int { return rand.Intn(n) }

// Global draws from the process-wide math/rand generator.
var Global Source = globalSource{}

// Roller wraps a Source with the classic MUD helpers.
type Roller struct {
	src Source
}

func NewRoller(src Source) *Roller {
	if src == nil {
		src = Global
	}
	return &Roller{src: src}
}

// Number returns a uniform integer in [lo, hi]. Swapped bounds are reordered.
func (r *Roller) Number(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + r.src.Intn(hi-lo+1)
}

// Dice sums n rolls of a size-sided die, each in [1, size]. Zero or negative
// arguments roll nothing.
func (r *Roller) Dice(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	sum := 0
	for i := 0; i < n; i++ {
		sum += 1 + r.src.Intn(size)
	}
	return sum
}

// D20 rolls a single twenty-sided die.
func (r *Roller) D20() int { return r.Number(1, 20) }
