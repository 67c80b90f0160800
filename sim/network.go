package sim

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultResolutionMs is the simulated time represented by one tick.
const DefaultResolutionMs = 0.1

// Route is one connection, immutable once the simulation executes windows.
// Receptor is the port the receiver committed to during setup; Delay is the
// propagation delay in ticks.
type Route struct {
	Sender   NodeID
	Target   NodeID
	Kind     EventKind
	Receptor Port
	Delay    int64
}

// Network is the dispatcher: it owns the node registry, the connection
// routes, the per-thread random streams and the current
// synchronization-window origin. Nodes hold it by reference and never own
// it.
type Network struct {
	scheduler  *Scheduler
	rng        *ThreadRNG
	resolution float64 // ms per tick

	nodes  map[NodeID]Node
	order  []NodeID // registration order, for deterministic iteration
	routes map[NodeID][]Route
	nextID NodeID

	// mu guards pending and seq: node updates emit concurrently across
	// threads within a window, all into the shared buffer.
	mu      sync.Mutex
	pending deliveryHeap
	seq     uint64

	origin int64
	frozen bool
}

// NewNetwork creates an empty network. resolutionMs <= 0 selects
// DefaultResolutionMs.
func NewNetwork(seed int64, resolutionMs float64) *Network {
	if resolutionMs <= 0 {
		resolutionMs = DefaultResolutionMs
	}
	return &Network{
		scheduler:  NewScheduler(),
		rng:        NewThreadRNG(seed),
		resolution: resolutionMs,
		nodes:      make(map[NodeID]Node),
		routes:     make(map[NodeID][]Route),
	}
}

// Scheduler returns this network's synchronization parameters.
func (n *Network) Scheduler() *Scheduler { return n.scheduler }

// Resolution returns the simulated milliseconds represented by one tick.
func (n *Network) Resolution() float64 { return n.resolution }

// ToMs converts a tick instant to simulated milliseconds.
func (n *Network) ToMs(t int64) float64 { return float64(t) * n.resolution }

// RNG returns the random stream owned by the given execution thread.
// Repeated calls with the same id always return the same stream instance;
// no two threads ever share a stream.
func (n *Network) RNG(thread int) *rand.Rand { return n.rng.ForThread(thread) }

// SliceOrigin returns the start time, in ticks, of the window currently
// being processed. It advances only at window boundaries, never mid-window.
func (n *Network) SliceOrigin() int64 { return n.origin }

// Register adds a node to the registry, assigns its identity and injects
// the network reference. The registry owns every node for the simulation's
// duration.
func (n *Network) Register(node Node) (NodeID, error) {
	if n.frozen {
		return 0, ErrNetworkFrozen
	}
	id := n.nextID
	n.nextID++
	node.attach(id, n)
	n.nodes[id] = node
	n.order = append(n.order, id)
	return id, nil
}

// GetNode looks up a registered node by id.
func (n *Network) GetNode(id NodeID) (Node, error) {
	node, ok := n.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return node, nil
}

// NumNodes returns the registry size.
func (n *Network) NumNodes() int { return len(n.order) }

// Connect runs the setup protocol for one connection: negotiate a receptor
// with the receiver via HandlesTestEvent, record the delay with the
// Scheduler, then fix the route. Any failure is surfaced synchronously and
// leaves the topology unchanged.
func (n *Network) Connect(sender, target NodeID, kind EventKind, receptor Port, delay int64) error {
	if n.frozen {
		return ErrNetworkFrozen
	}
	src, err := n.GetNode(sender)
	if err != nil {
		return err
	}
	dst, err := n.GetNode(target)
	if err != nil {
		return err
	}
	// The delay is validated before the receiver negotiation: HandlesTestEvent
	// may reserve state on the receiver (a proxy appends an index-map slot), so
	// nothing that can still fail may run after it.
	if err := n.scheduler.ValidateDelay(delay); err != nil {
		return fmt.Errorf("connecting %s -> %s: %w", src.Name(), dst.Name(), err)
	}
	port, err := dst.HandlesTestEvent(kind, receptor)
	if err != nil {
		return fmt.Errorf("connecting %s -> %s: %w", src.Name(), dst.Name(), err)
	}
	if err := n.scheduler.RegisterDelay(delay); err != nil {
		return fmt.Errorf("connecting %s -> %s: %w", src.Name(), dst.Name(), err)
	}
	n.routes[sender] = append(n.routes[sender], Route{
		Sender:   sender,
		Target:   target,
		Kind:     kind,
		Receptor: port,
		Delay:    delay,
	})
	logrus.Debugf("connected %s -> %s (%s, receptor %d, delay %d ticks)", src.Name(), dst.Name(), kind, port, delay)
	return nil
}

// Routes returns the outgoing routes of a node in connection order.
func (n *Network) Routes(sender NodeID) []Route {
	rs := n.routes[sender]
	out := make([]Route, len(rs))
	copy(out, rs)
	return out
}

// Send enqueues delivery of ev to every matching receiver connected from
// source at SliceOrigin + lag; no receiver ever observes it earlier than
// that instant. Events with identical destination and delivery instant are
// delivered in send order. The lag is normally a connection's propagation
// delay; a lag shorter than the slice length would fall inside the current,
// already-resolved window, which the minimum-delay invariant rules out for
// routed traffic.
func (n *Network) Send(source Node, ev Event, lag int64) error {
	if lag < 0 {
		return fmt.Errorf("send from %s: lag must be non-negative, got %d", source.Name(), lag)
	}
	at := n.origin + lag
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, r := range n.routes[source.ID()] {
		if r.Kind != ev.Kind() {
			continue
		}
		n.seq++
		n.pending.Schedule(delivery{target: r.Target, ev: ev.stamp(r.Receptor, at, n.seq)})
	}
	return nil
}

// Dispatch sends ev along every matching route of source, using each
// connection's own delay as the lag. This is the emission path concrete
// nodes use when their receivers sit at heterogeneous delays.
func (n *Network) Dispatch(source Node, ev Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, r := range n.routes[source.ID()] {
		if r.Kind != ev.Kind() {
			continue
		}
		n.seq++
		n.pending.Schedule(delivery{target: r.Target, ev: ev.stamp(r.Receptor, n.origin+r.Delay, n.seq)})
	}
	return nil
}

// AdvanceSlice moves the window origin forward by length ticks. This is the
// synchronization barrier: callers must have finished all emission for the
// current window before advancing, and the advance is the single point
// where buffered events become eligible for delivery. The first advance
// freezes the topology.
func (n *Network) AdvanceSlice(length int64) error {
	if err := n.scheduler.ValidateSliceLength(length); err != nil {
		return err
	}
	n.frozen = true
	n.origin += length
	return nil
}

// PendingEvents returns the number of buffered, undelivered events.
func (n *Network) PendingEvents() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pending.Len()
}

// collectDue pops every delivery scheduled strictly before horizon, in
// (instant, sender, send-order) order.
func (n *Network) collectDue(horizon int64) []delivery {
	n.mu.Lock()
	defer n.mu.Unlock()
	var due []delivery
	for {
		next, ok := n.pending.Peek()
		if !ok || next.ev.Timestamp() >= horizon {
			return due
		}
		d, _ := n.pending.PopNext()
		due = append(due, d)
	}
}

// deliver applies one due event through the target's matching handler
// capability.
func (n *Network) deliver(d delivery) error {
	target, err := n.GetNode(d.target)
	if err != nil {
		return err
	}
	switch ev := d.ev.(type) {
	case *SpikeEvent:
		return target.HandleSpike(ev)
	case *CurrentEvent:
		return target.HandleCurrent(ev)
	default:
		return fmt.Errorf("delivering to %s: %w: %T", target.Name(), ErrUnsupportedEventKind, d.ev)
	}
}
