package dice

// Scripted replays fixed results in order. Each value is the face wanted from
// the next Intn call, already zero-based; it is reduced modulo n so a script
// can never escape the requested range. An exhausted script returns 0.
type Scripted struct {
	values []int
	pos    int
	Calls  []int // n of every Intn call, for assertions
}

func NewScripted(values ...int) *Scripted {
	return &Scripted{values: values}
}

func (s *Scripted) Intn(n int) int {
	s.Calls = append(s.Calls, n)
	if s.pos >= len(s.values) {
		return 0
	}
	v := s.values[s.pos]
	s.pos++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Remaining reports unread script values.
func (s *Scripted) Remaining() int { return len(s.values) - s.pos }

// Faces builds a script from one-based die faces: Faces(20) makes the next
// d20 roll a natural 20.
func Faces(faces ...int) *Scripted {
	vals := make([]int, len(faces))
	for i, f := range faces {
		vals[i] = f - 1
	}
	return NewScripted(vals...)
}
