package system

import (
	"time"

	coresys "github.com/stardrift/server/internal/core/system"
	"github.com/stardrift/server/internal/world"
)

// StreamingSystem drains the streamer's work queues once per tick.
// Phase 1 (Update): runs after focus input, before anything that reads
// cell state, so every later system sees this tick's transitions.
type StreamingSystem struct {
	streamer *world.Streamer
}

func NewStreamingSystem(streamer *world.Streamer) *StreamingSystem {
	return &StreamingSystem{streamer: streamer}
}

func (s *StreamingSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *StreamingSystem) Update(_ time.Duration) {
	s.streamer.Tick()
}
