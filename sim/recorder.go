package sim

import (
	"fmt"

	"github.com/spiking-sim/spiking-sim/sim/trace"
)

// SpikeRecorder archives every spike delivered to it. It accepts spike
// connections on any receptor, so one recorder can observe many senders.
type SpikeRecorder struct {
	BaseNode
	trace *trace.Trace
}

// NewSpikeRecorder creates an empty recorder on the given thread.
func NewSpikeRecorder(name string, thread int) *SpikeRecorder {
	return &SpikeRecorder{
		BaseNode: NewBaseNode(name, thread),
		trace:    trace.New(),
	}
}

// HandlesTestEvent accepts spike connections on any non-negative receptor;
// an unspecified receptor maps to 0.
func (r *SpikeRecorder) HandlesTestEvent(kind EventKind, receptor Port) (Port, error) {
	if kind != KindSpike {
		return PortUnspecified, fmt.Errorf("%s: %w: %s", r.Name(), ErrUnsupportedEventKind, kind)
	}
	if receptor == PortUnspecified {
		return 0, nil
	}
	if receptor < 0 {
		return PortUnspecified, fmt.Errorf("%s: %w: %s on receptor %d", r.Name(), ErrUnsupportedEventKind, kind, receptor)
	}
	return receptor, nil
}

// HandleSpike records the sender and delivery instant.
func (r *SpikeRecorder) HandleSpike(ev *SpikeEvent) error {
	r.trace.Append(trace.Record{
		Sender: int(ev.Sender()),
		TimeMs: r.Network().ToMs(ev.Timestamp()),
	})
	return nil
}

// Events returns the recorded deliveries in delivery order.
func (r *SpikeRecorder) Events() []trace.Record {
	return r.trace.Records()
}

// Summary aggregates the recording per sender.
func (r *SpikeRecorder) Summary() trace.Summary {
	return trace.Summarize(r.trace)
}

// Reset discards the recording.
func (r *SpikeRecorder) Reset() {
	r.trace.Reset()
}
