package timer

import "container/heap"

// Handle identifies a scheduled callback. The zero value is never issued.
type Handle struct {
	id uint64
}

// Valid reports whether the handle was issued by a Queue.
func (h Handle) Valid() bool { return h.id != 0 }

type entry struct {
	id    uint64
	due   float64
	seq   uint64
	fn    func()
	index int
}

// Queue is a single-threaded one-shot timer queue. Time only moves when the
// owner calls Advance, so callbacks always run on the owner's goroutine.
type Queue struct {
	now     float64
	nextID  uint64
	nextSeq uint64
	items   entryHeap
	byID    map[uint64]*entry
}

// NewQueue creates an empty queue at time zero.
func NewQueue() *Queue {
	return &Queue{byID: make(map[uint64]*entry)}
}

// Now returns the queue's clock in seconds.
func (q *Queue) Now() float64 {
	if q == nil {
		return 0
	}
	return q.now
}

// Len returns the number of outstanding callbacks.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// ScheduleOnce queues fn to run once after delay seconds have been advanced.
// A negative delay is treated as zero.
func (q *Queue) ScheduleOnce(delay float64, fn func()) Handle {
	if q == nil || fn == nil {
		return Handle{}
	}
	if q.byID == nil {
		q.byID = make(map[uint64]*entry)
	}
	if delay < 0 {
		delay = 0
	}
	q.nextID++
	q.nextSeq++
	e := &entry{id: q.nextID, due: q.now + delay, seq: q.nextSeq, fn: fn}
	heap.Push(&q.items, e)
	q.byID[e.id] = e
	return Handle{id: e.id}
}

// Cancel removes a pending callback. It reports false when the handle already
// fired, was canceled, or was never issued.
func (q *Queue) Cancel(h Handle) bool {
	if q == nil || !h.Valid() {
		return false
	}
	e, ok := q.byID[h.id]
	if !ok {
		return false
	}
	delete(q.byID, h.id)
	if e.index >= 0 {
		heap.Remove(&q.items, e.index)
	}
	return true
}

// Advance moves the clock forward by dt seconds and runs every callback that
// became due, earliest first. Callbacks queued while Advance is running wait
// for a later call even when their delay is zero.
func (q *Queue) Advance(dt float64) {
	if q == nil {
		return
	}
	if dt > 0 {
		q.now += dt
	}
	cutoff := q.nextSeq
	var deferred []*entry
	for len(q.items) > 0 {
		top := q.items[0]
		if top.due > q.now {
			break
		}
		heap.Pop(&q.items)
		if top.seq > cutoff {
			deferred = append(deferred, top)
			continue
		}
		delete(q.byID, top.id)
		top.fn()
	}
	for _, e := range deferred {
		// skip entries canceled by a later callback in this pass
		if _, ok := q.byID[e.id]; ok {
			heap.Push(&q.items, e)
		}
	}
}

// Clear drops every outstanding callback without running it.
func (q *Queue) Clear() {
	if q == nil {
		return
	}
	for _, e := range q.items {
		e.index = -1
	}
	q.items = nil
	q.byID = make(map[uint64]*entry)
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}
