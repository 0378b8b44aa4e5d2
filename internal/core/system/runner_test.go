package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r recorder) Phase() Phase { return r.phase }
func (r recorder) Update(uint64) {
	*r.log = append(*r.log, r.name)
}

func TestRunner_PhaseThenRegistrationOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"cleanup", PhaseCleanup, &log})
	r.Register(recorder{"combat", PhaseUpdate, &log})
	r.Register(recorder{"events", PhasePreUpdate, &log})
	r.Register(recorder{"combat2", PhaseUpdate, &log})

	r.Tick()
	assert.Equal(t, []string{"events", "combat", "combat2", "cleanup"}, log)
	assert.Equal(t, uint64(1), r.Pulse())
}

func TestEvery(t *testing.T) {
	assert.True(t, Every(7, 0))
	assert.True(t, Every(12, 12))
	assert.False(t, Every(13, 12))
	assert.True(t, Every(24, 12))
}
