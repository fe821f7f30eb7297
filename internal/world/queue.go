package world

// requestQueue is a FIFO of cell coordinates with set semantics: a
// coordinate is in the queue at most once, and can be removed from the
// middle when a request is cancelled. PushFront is the priority path for
// cells inside the active radius.
type requestQueue struct {
	items  []CellCoord
	member map[CellCoord]struct{}
}

func newRequestQueue() *requestQueue {
	return &requestQueue{member: make(map[CellCoord]struct{})}
}

func (q *requestQueue) Contains(c CellCoord) bool {
	_, ok := q.member[c]
	return ok
}

func (q *requestQueue) Len() int { return len(q.items) }

// Push appends c unless it is already queued.
func (q *requestQueue) Push(c CellCoord) bool {
	if q.Contains(c) {
		return false
	}
	q.items = append(q.items, c)
	q.member[c] = struct{}{}
	return true
}

// PushFront inserts c at the head unless it is already queued.
func (q *requestQueue) PushFront(c CellCoord) bool {
	if q.Contains(c) {
		return false
	}
	q.items = append(q.items, CellCoord{})
	copy(q.items[1:], q.items)
	q.items[0] = c
	q.member[c] = struct{}{}
	return true
}

// Pop removes and returns the head of the queue.
func (q *requestQueue) Pop() (CellCoord, bool) {
	if len(q.items) == 0 {
		return CellCoord{}, false
	}
	c := q.items[0]
	q.items = q.items[1:]
	delete(q.member, c)
	return c, true
}

// Remove deletes c from anywhere in the queue.
func (q *requestQueue) Remove(c CellCoord) bool {
	if !q.Contains(c) {
		return false
	}
	for i, v := range q.items {
		if v == c {
			q.items = append(q.items[:i], q.items[i+1:]...)
			break
		}
	}
	delete(q.member, c)
	return true
}
