package entity

import "github.com/stardrift/server/internal/gen"

// WorldPos is an absolute position in world units.
type WorldPos struct {
	X float64
	Y float64
}

// Instance is one live entity realized from a descriptor. The descriptor
// stays immutable; everything mutable at runtime lives here. Instances are
// recycled through pools, so nothing may assume a fresh allocation.
type Instance struct {
	Kind gen.Kind
	Seed int64  // content identity, copied from the descriptor
	Name string

	Pos  WorldPos // current position, drifts over time
	Home WorldPos // spawn position
	VelX float64  // drift velocity, world units per second
	VelY float64

	Integrity int  // 0-100 runtime damage state
	Active    bool // true while on loan from a pool / alive as a transient
}

// resetTransient restores the state an idle pooled instance must have.
// Content identity (Kind) survives; the rest is per-loan.
func (in *Instance) resetTransient() {
	in.Seed = 0
	in.Name = ""
	in.Pos = WorldPos{}
	in.Home = WorldPos{}
	in.VelX = 0
	in.VelY = 0
	in.Integrity = 0
	in.Active = false
}
