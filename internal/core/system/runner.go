package system

import "sort"

// Runner executes systems in phase order each pulse. Systems sharing a phase
// run in registration order.
type Runner struct {
	systems []System
	sorted  bool
	pulse   uint64
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Pulse returns the number of pulses executed so far.
func (r *Runner) Pulse() uint64 { return r.pulse }

// Tick advances the pulse counter and runs every system once.
func (r *Runner) Tick() {
	r.ensureSorted()
	r.pulse++
	for _, s := range r.systems {
		s.Update(r.pulse)
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
