package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: focus updates (flight / external control)
	PhaseUpdate                  // 1: streamer queue drain, lifecycle transitions
	PhasePostUpdate              // 2: drift, asset prefetch, diagnostics
	PhasePersist                 // 3: batch survey saves
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
