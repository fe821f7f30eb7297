package system_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stardrift/server/internal/core/system"
)

// traceSystem records its executions into a shared trace.
type traceSystem struct {
	name  string
	phase system.Phase
	trace *[]string
	dts   []time.Duration
}

func (s *traceSystem) Phase() system.Phase { return s.phase }

func (s *traceSystem) Update(dt time.Duration) {
	*s.trace = append(*s.trace, s.name)
	s.dts = append(s.dts, dt)
}

func TestRunnerExecutesInPhaseOrder(t *testing.T) {
	var trace []string
	r := system.NewRunner()

	// Registered deliberately out of phase order.
	r.Register(&traceSystem{name: "persist", phase: system.PhasePersist, trace: &trace})
	r.Register(&traceSystem{name: "input", phase: system.PhaseInput, trace: &trace})
	r.Register(&traceSystem{name: "post", phase: system.PhasePostUpdate, trace: &trace})
	r.Register(&traceSystem{name: "update", phase: system.PhaseUpdate, trace: &trace})

	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"input", "update", "post", "persist"}, trace)
}

func TestRunnerKeepsRegistrationOrderWithinPhase(t *testing.T) {
	var trace []string
	r := system.NewRunner()

	r.Register(&traceSystem{name: "a", phase: system.PhasePostUpdate, trace: &trace})
	r.Register(&traceSystem{name: "b", phase: system.PhasePostUpdate, trace: &trace})
	r.Register(&traceSystem{name: "c", phase: system.PhasePostUpdate, trace: &trace})

	for i := 0; i < 3; i++ {
		r.Tick(time.Millisecond)
	}
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a", "b", "c"}, trace)
}

func TestRunnerResortsAfterLateRegistration(t *testing.T) {
	var trace []string
	r := system.NewRunner()

	r.Register(&traceSystem{name: "update", phase: system.PhaseUpdate, trace: &trace})
	r.Tick(time.Millisecond)

	r.Register(&traceSystem{name: "input", phase: system.PhaseInput, trace: &trace})
	r.Tick(time.Millisecond)

	assert.Equal(t, []string{"update", "input", "update"}, trace)
}

func TestRunnerPassesDeltaTime(t *testing.T) {
	var trace []string
	s := &traceSystem{name: "x", phase: system.PhaseUpdate, trace: &trace}
	r := system.NewRunner()
	r.Register(s)

	r.Tick(200 * time.Millisecond)
	r.Tick(50 * time.Millisecond)
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 50 * time.Millisecond}, s.dts)
}
