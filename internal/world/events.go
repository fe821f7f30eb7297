package world

import "github.com/stardrift/server/internal/core/event"

// Lifecycle event payloads. One event is published per transition actually
// performed, synchronously, inside the SetFocus or Tick call that made it.

type CellLoaded struct {
	Coord       CellCoord
	Descriptors int
}

type CellActivated struct {
	Coord   CellCoord
	Spawned int
}

type CellDeactivated struct {
	Coord    CellCoord
	Returned int
}

type CellUnloaded struct {
	Coord CellCoord
}

type FocusChanged struct {
	Old CellCoord // zero value on the very first focus
	New CellCoord
}

// Events bundles the streamer's feeds. Subscribers attach before the tick
// loop starts and are called in subscription order.
type Events struct {
	CellLoaded      event.Feed[CellLoaded]
	CellActivated   event.Feed[CellActivated]
	CellDeactivated event.Feed[CellDeactivated]
	CellUnloaded    event.Feed[CellUnloaded]
	FocusChanged    event.Feed[FocusChanged]
}
