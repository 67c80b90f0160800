package sim

import "fmt"

// Default LIF parameters, in mV. The dynamics are deliberately coarse: the
// kernel under test is event timing and delivery, and a unit's internal
// integration is an opaque box that produces spike timestamps on schedule.
const (
	defaultVTh    = -55.0
	defaultVReset = -70.0
	defaultEL     = -70.0
	defaultLeak   = 0.9
	defaultWeight = 1.0
)

// LIFNode is a minimal leaky integrate-and-fire unit. It accepts spike and
// current events on receptor 0, integrates the accumulated drive once per
// window, and emits a spike through the network when its membrane crosses
// threshold. Spike instants are archived via the embedded ArchivingNode.
type LIFNode struct {
	ArchivingNode

	// Externally settable parameters; status keys in parentheses.
	VTh    float64 // spike threshold, mV ("V_th")
	VReset float64 // post-spike reset potential, mV ("V_reset")
	EL     float64 // resting potential, mV ("E_L")
	Leak   float64 // fraction of deflection retained per window ("leak")
	Weight float64 // membrane increment per incoming spike, mV ("weight")

	// Runtime state, excluded from the status round-trip.
	vm    float64
	drive float64 // input accumulated during the current window
}

// NewLIFNode creates a LIF unit with default parameters on the given
// thread. lookbackMs bounds the archived spike history.
func NewLIFNode(name string, thread int, lookbackMs float64) *LIFNode {
	return &LIFNode{
		ArchivingNode: NewArchivingNode(name, thread, lookbackMs),
		VTh:           defaultVTh,
		VReset:        defaultVReset,
		EL:            defaultEL,
		Leak:          defaultLeak,
		Weight:        defaultWeight,
		vm:            defaultEL,
	}
}

// Vm returns the current membrane potential in mV.
func (n *LIFNode) Vm() float64 { return n.vm }

// HandlesTestEvent accepts spike and current events on receptor 0.
func (n *LIFNode) HandlesTestEvent(kind EventKind, receptor Port) (Port, error) {
	switch kind {
	case KindSpike, KindCurrent:
		if receptor != 0 && receptor != PortUnspecified {
			return PortUnspecified, fmt.Errorf("%s: %w: %s on receptor %d", n.Name(), ErrUnsupportedEventKind, kind, receptor)
		}
		return 0, nil
	default:
		return PortUnspecified, fmt.Errorf("%s: %w: %s", n.Name(), ErrUnsupportedEventKind, kind)
	}
}

// HandleSpike accumulates the postsynaptic drive of a delivered spike.
func (n *LIFNode) HandleSpike(ev *SpikeEvent) error {
	n.drive += n.Weight * float64(ev.Multiplicity)
	return nil
}

// HandleCurrent accumulates a continuous input current. The pA-to-mV gain
// is folded into the coarse per-window integration.
func (n *LIFNode) HandleCurrent(ev *CurrentEvent) error {
	n.drive += ev.Current
	return nil
}

// Update integrates one window: apply the accumulated drive, decay toward
// rest, and emit a spike if the membrane crossed threshold. The archived
// spike instant is the window boundary the spike resolves at.
func (n *LIFNode) Update(origin, until int64) error {
	n.vm = n.EL + (n.vm-n.EL)*n.Leak + n.drive
	n.drive = 0
	if n.vm < n.VTh {
		return nil
	}
	n.vm = n.VReset
	net := n.Network()
	if err := net.Dispatch(n, NewSpikeEvent(n.ID())); err != nil {
		return err
	}
	n.SetSpikeTime(net.ToMs(until))
	return nil
}

// GetStatus reports every externally settable parameter.
func (n *LIFNode) GetStatus() Status {
	return Status{
		"V_th":    n.VTh,
		"V_reset": n.VReset,
		"E_L":     n.EL,
		"leak":    n.Leak,
		"weight":  n.Weight,
	}
}

// SetStatus applies a configuration. Unknown keys and wrong-typed values
// are rejected before any field changes, so a failed write leaves the node
// untouched.
func (n *LIFNode) SetStatus(d Status) error {
	next := *n
	for key := range d {
		var dst *float64
		switch key {
		case "V_th":
			dst = &next.VTh
		case "V_reset":
			dst = &next.VReset
		case "E_L":
			dst = &next.EL
		case "leak":
			dst = &next.Leak
		case "weight":
			dst = &next.Weight
		default:
			return fmt.Errorf("%s: unknown status key %q", n.Name(), key)
		}
		v, ok, err := statusFloat(d, key)
		if err != nil {
			return fmt.Errorf("%s: %w", n.Name(), err)
		}
		if ok {
			*dst = v
		}
	}
	if next.Leak < 0 || next.Leak > 1 {
		return fmt.Errorf("%s: leak must be in [0, 1], got %v", n.Name(), next.Leak)
	}
	n.VTh, n.VReset, n.EL, n.Leak, n.Weight = next.VTh, next.VReset, next.EL, next.Leak, next.Weight
	return nil
}
