package sim

import "container/heap"

// delivery is one pending event addressed to a registered node.
type delivery struct {
	target NodeID
	ev     Event
}

// deliveryHeap implements a priority queue with deterministic ordering.
// Ordering: delivery instant, then sender, then send sequence. A sender
// emits from exactly one thread, so its sequence numbers reproduce send
// order (FIFO at identical destination and instant); the sender tie-break
// keeps cross-thread ties deterministic even though threads interleave
// their sequence draws differently from run to run.
type deliveryHeap struct {
	pending []delivery
}

func (h *deliveryHeap) Len() int { return len(h.pending) }

func (h *deliveryHeap) Less(i, j int) bool {
	di, dj := h.pending[i], h.pending[j]
	if di.ev.Timestamp() != dj.ev.Timestamp() {
		return di.ev.Timestamp() < dj.ev.Timestamp()
	}
	if di.ev.Sender() != dj.ev.Sender() {
		return di.ev.Sender() < dj.ev.Sender()
	}
	return di.ev.Seq() < dj.ev.Seq()
}

func (h *deliveryHeap) Swap(i, j int) {
	h.pending[i], h.pending[j] = h.pending[j], h.pending[i]
}

func (h *deliveryHeap) Push(x any) {
	h.pending = append(h.pending, x.(delivery))
}

func (h *deliveryHeap) Pop() any {
	old := h.pending
	n := len(old)
	item := old[n-1]
	h.pending = old[0 : n-1]
	return item
}

// Schedule adds a pending delivery to the heap.
func (h *deliveryHeap) Schedule(d delivery) {
	heap.Push(h, d)
}

// PopNext removes and returns the earliest pending delivery.
func (h *deliveryHeap) PopNext() (delivery, bool) {
	if h.Len() == 0 {
		return delivery{}, false
	}
	return heap.Pop(h).(delivery), true
}

// Peek returns the earliest pending delivery without removing it.
func (h *deliveryHeap) Peek() (delivery, bool) {
	if h.Len() == 0 {
		return delivery{}, false
	}
	return h.pending[0], true
}
