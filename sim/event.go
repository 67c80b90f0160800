package sim

// EventKind discriminates which handler capability of a Node applies to an
// event.
type EventKind string

const (
	KindSpike   EventKind = "spike"
	KindCurrent EventKind = "current"
)

// ParseEventKind maps a config string to an EventKind.
func ParseEventKind(s string) (EventKind, bool) {
	switch EventKind(s) {
	case KindSpike, KindCurrent:
		return EventKind(s), true
	}
	return "", false
}

// Event is a timestamped, typed payload exchanged between nodes. An event
// is created unstamped by its sender; the Network stamps a copy per route
// with the destination receptor, the delivery instant (window origin plus
// lag, in ticks) and a send-order sequence number.
type Event interface {
	Kind() EventKind
	// Timestamp is the guaranteed-earliest delivery instant in ticks.
	// Zero until the event has been stamped by the Network.
	Timestamp() int64
	Sender() NodeID
	// Receptor is the destination port fixed at connection setup.
	Receptor() Port
	// Seq orders events sharing a destination and delivery instant: lower
	// sequence numbers were sent first.
	Seq() uint64

	// stamp returns a routed copy. The event set is closed on purpose; new
	// kinds are added here together with a Node handler capability.
	stamp(receptor Port, at int64, seq uint64) Event
}

type baseEvent struct {
	kind     EventKind
	sender   NodeID
	receptor Port
	time     int64
	seq      uint64
}

func (e *baseEvent) Kind() EventKind { return e.kind }
func (e *baseEvent) Timestamp() int64 { return e.time }
func (e *baseEvent) Sender() NodeID  { return e.sender }
func (e *baseEvent) Receptor() Port  { return e.receptor }
func (e *baseEvent) Seq() uint64     { return e.seq }

// SpikeEvent carries one or more simultaneous spikes from a sender.
type SpikeEvent struct {
	baseEvent
	// Multiplicity is the number of coincident spikes, at least 1.
	Multiplicity int
}

// NewSpikeEvent creates an unstamped spike event for the given sender.
func NewSpikeEvent(sender NodeID) *SpikeEvent {
	return &SpikeEvent{
		baseEvent:    baseEvent{kind: KindSpike, sender: sender, receptor: PortUnspecified},
		Multiplicity: 1,
	}
}

func (e *SpikeEvent) stamp(receptor Port, at int64, seq uint64) Event {
	c := *e
	c.receptor, c.time, c.seq = receptor, at, seq
	return &c
}

// CurrentEvent carries a continuous input current, in pA.
type CurrentEvent struct {
	baseEvent
	Current float64
}

// NewCurrentEvent creates an unstamped current event for the given sender.
func NewCurrentEvent(sender NodeID, current float64) *CurrentEvent {
	return &CurrentEvent{
		baseEvent: baseEvent{kind: KindCurrent, sender: sender, receptor: PortUnspecified},
		Current:   current,
	}
}

func (e *CurrentEvent) stamp(receptor Port, at int64, seq uint64) Event {
	c := *e
	c.receptor, c.time, c.seq = receptor, at, seq
	return &c
}
