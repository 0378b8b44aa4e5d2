package narrate

import "strings"

// Recorder keeps every Act it receives, in order. Used by tests and by
// hosts that replay narration later.
type Recorder struct {
	Acts []Act
}

func (r *Recorder) Act(a Act) { r.Acts = append(r.Acts, a) }

// Templates returns the templates sent to target, in order.
func (r *Recorder) Templates(to Target) []string {
	var out []string
	for _, a := range r.Acts {
		if a.To == to {
			out = append(out, a.Template)
		}
	}
	return out
}

// Contains reports whether any template contains substr.
func (r *Recorder) Contains(substr string) bool {
	for _, a := range r.Acts {
		if strings.Contains(a.Template, substr) {
			return true
		}
	}
	return false
}

func (r *Recorder) Reset() { r.Acts = r.Acts[:0] }
