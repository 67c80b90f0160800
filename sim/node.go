package sim

import "fmt"

// NodeID identifies a node in the simulation-wide registry.
type NodeID int

// Port numbers a receptor slot on a node, identifying which internal
// handler an incoming event routes to.
type Port int

// PortUnspecified marks an event or negotiation with no receptor assigned
// yet. Receivers that accept any port map it to their default receptor.
const PortUnspecified Port = -1

// Status carries a node's externally visible parameters as a flat
// dictionary. Writing a Status and reading it back reproduces every
// externally settable field; derived or runtime-only values are excluded.
type Status map[string]any

// Node is an addressable simulation unit receiving typed events on
// numbered receptor ports.
//
// Handler contract: HandleSpike and HandleCurrent must not block and must
// apply full-or-nothing -- either the handler's effect is applied in its
// entirety or an error is returned before any state mutation. Handlers
// never observe events from a window that has not been resolved yet; the
// Network guarantees that.
type Node interface {
	ID() NodeID
	// Thread is the execution thread this node is assigned to. All handler
	// and update invocations for a node happen on its own thread.
	Thread() int
	Name() string

	HandleSpike(ev *SpikeEvent) error
	HandleCurrent(ev *CurrentEvent) error

	// HandlesTestEvent negotiates a receptor at connection-setup time. It
	// returns the concrete port the node will use for the given event
	// kind, or ErrUnsupportedEventKind if the node does not support that
	// kind on that port. Side-effect-free beyond possibly reserving the
	// port; never called once windows run.
	HandlesTestEvent(kind EventKind, receptor Port) (Port, error)

	// GetStatus and SetStatus round-trip every externally settable
	// parameter. SetStatus rejects unknown keys and wrong-typed values
	// without applying anything.
	GetStatus() Status
	SetStatus(d Status) error

	// attach is called exactly once by Network.Register. Nodes hold the
	// Network by reference and never own it; its lifetime is managed by
	// the registry.
	attach(id NodeID, net *Network)
}

// Downcast narrows a Node to the concrete variant T. The narrowing is
// checked: a mismatch yields ErrInvalidNarrowing instead of undefined
// behavior, so callers always get an explicit absence signal.
func Downcast[T Node](n Node) (T, error) {
	t, ok := n.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %T cannot be viewed as %T", ErrInvalidNarrowing, n, zero)
	}
	return t, nil
}

// BaseNode supplies identity plumbing and reject-by-default capabilities.
// Concrete variants embed it and override the event kinds they support,
// mirroring how heterogeneous units opt in to handler capabilities.
type BaseNode struct {
	id     NodeID
	thread int
	name   string
	net    *Network
}

// NewBaseNode creates the embeddable core of a node assigned to the given
// execution thread.
func NewBaseNode(name string, thread int) BaseNode {
	return BaseNode{id: -1, thread: thread, name: name}
}

func (b *BaseNode) ID() NodeID   { return b.id }
func (b *BaseNode) Thread() int  { return b.thread }
func (b *BaseNode) Name() string { return b.name }

// Network returns the dispatcher this node is registered with, nil before
// registration.
func (b *BaseNode) Network() *Network { return b.net }

func (b *BaseNode) attach(id NodeID, net *Network) {
	b.id = id
	b.net = net
}

func (b *BaseNode) HandleSpike(*SpikeEvent) error {
	return fmt.Errorf("%s: %w: %s", b.name, ErrUnsupportedEventKind, KindSpike)
}

func (b *BaseNode) HandleCurrent(*CurrentEvent) error {
	return fmt.Errorf("%s: %w: %s", b.name, ErrUnsupportedEventKind, KindCurrent)
}

func (b *BaseNode) HandlesTestEvent(kind EventKind, receptor Port) (Port, error) {
	return PortUnspecified, fmt.Errorf("%s: %w: %s on receptor %d", b.name, ErrUnsupportedEventKind, kind, receptor)
}

func (b *BaseNode) GetStatus() Status { return Status{} }

func (b *BaseNode) SetStatus(d Status) error {
	for key := range d {
		return fmt.Errorf("%s: unknown status key %q", b.name, key)
	}
	return nil
}

// statusFloat reads a float64 parameter from a status dictionary,
// tolerating int values from YAML decoding.
func statusFloat(d Status, key string) (float64, bool, error) {
	raw, ok := d[key]
	if !ok {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, true, nil
	case int:
		return float64(v), true, nil
	default:
		return 0, false, fmt.Errorf("status key %q: expected number, got %T", key, raw)
	}
}
