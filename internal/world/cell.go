package world

import (
	"github.com/stardrift/server/internal/entity"
	"github.com/stardrift/server/internal/gen"
)

// CellState is one cell's position in the streaming lifecycle:
//
//	Unloaded → Loading → Preloaded → Active → Preloaded → Unloading → Unloaded
//
// Only the streamer drives transitions. Unloaded cells have no record at all;
// StateUnloaded exists so queries have something to answer for them.
type CellState uint8

const (
	StateUnloaded CellState = iota
	StateLoading
	StatePreloaded
	StateActive
	StateUnloading
)

var stateNames = [...]string{
	StateUnloaded:  "unloaded",
	StateLoading:   "loading",
	StatePreloaded: "preloaded",
	StateActive:    "active",
	StateUnloading: "unloading",
}

func (s CellState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// cellRecord tracks one coordinate the streamer has touched. Owned
// exclusively by the Streamer; queries hand out copies, never the record.
type cellRecord struct {
	coord CellCoord
	state CellState
	seed  int64
	descs []gen.Descriptor
	live  []entity.Handle
	dist  int // manhattan distance to the current focus
	// generated distinguishes a legitimately empty cell (generator ran,
	// found nothing) from one whose generation never completed.
	generated bool
}
