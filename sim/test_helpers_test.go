package sim

import "sync"

// sinkNode accepts spike and current events on any receptor and records
// every delivery, for asserting on routing and timing.
type sinkNode struct {
	BaseNode
	mu       sync.Mutex
	spikes   []*SpikeEvent
	currents []*CurrentEvent
}

func newSinkNode(name string, thread int) *sinkNode {
	return &sinkNode{BaseNode: NewBaseNode(name, thread)}
}

func (s *sinkNode) HandlesTestEvent(kind EventKind, receptor Port) (Port, error) {
	if receptor == PortUnspecified {
		return 0, nil
	}
	return receptor, nil
}

func (s *sinkNode) HandleSpike(ev *SpikeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spikes = append(s.spikes, ev)
	return nil
}

func (s *sinkNode) HandleCurrent(ev *CurrentEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currents = append(s.currents, ev)
	return nil
}

func (s *sinkNode) spikeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.spikes)
}

// onceEmitter dispatches a single spike along its routes in its first
// update, then stays silent.
type onceEmitter struct {
	BaseNode
	fired bool
}

func newOnceEmitter(name string, thread int) *onceEmitter {
	return &onceEmitter{BaseNode: NewBaseNode(name, thread)}
}

func (e *onceEmitter) Update(origin, until int64) error {
	if e.fired {
		return nil
	}
	e.fired = true
	return e.Network().Dispatch(e, NewSpikeEvent(e.ID()))
}

// forwardRec is one (channel, timestamp) pair seen by fakeTransport.
type forwardRec struct {
	channel Port
	ts      int64
}

// fakeTransport captures the published contract and every forwarded spike.
type fakeTransport struct {
	mu        sync.Mutex
	name      string
	width     int
	indexMap  []Port
	published int
	forwards  []forwardRec
}

func (t *fakeTransport) Publish(name string, width int, indexMap []Port) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.published++
	t.name, t.width, t.indexMap = name, width, indexMap
	return nil
}

func (t *fakeTransport) Forward(channel Port, timestamp int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.forwards = append(t.forwards, forwardRec{channel: channel, ts: timestamp})
	return nil
}

func (t *fakeTransport) forwarded() []forwardRec {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]forwardRec, len(t.forwards))
	copy(out, t.forwards)
	return out
}
