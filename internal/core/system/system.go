package system

// Phase defines execution ordering within a single pulse.
type Phase int

const (
	PhaseInput      Phase = iota // 0: queued commands and attack requests
	PhasePreUpdate               // 1: deliver last pulse's events
	PhaseUpdate                  // 2: combat rounds
	PhasePostUpdate              // 3: affect durations, mobile behaviour
	PhasePersist                 // 4: flush ledger records
	PhaseCleanup                 // 5: destroy queued entities, roster sweep
)

// System is the interface every pulse-driven service implements.
// pulse is the 1-based pulse counter maintained by the Runner.
type System interface {
	Phase() Phase
	Update(pulse uint64)
}

// Every reports whether pulse falls on an interval boundary. An interval
// below 1 means every pulse.
func Every(pulse uint64, interval int) bool {
	if interval <= 1 {
		return true
	}
	return pulse%uint64(interval) == 0
}
