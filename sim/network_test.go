package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectNegotiatesReceptor(t *testing.T) {
	net := NewNetwork(1, 0)
	src := newSinkNode("src", 0)
	lif := NewLIFNode("n1", 0, 0)
	srcID, _ := net.Register(src)
	lifID, _ := net.Register(lif)

	// The receiver commits to its concrete port even when the caller
	// leaves the receptor unspecified.
	assert.NoError(t, net.Connect(srcID, lifID, KindSpike, PortUnspecified, 4))

	routes := net.Routes(srcID)
	assert.Len(t, routes, 1)
	assert.Equal(t, Port(0), routes[0].Receptor)
	assert.Equal(t, int64(4), routes[0].Delay)
	assert.Equal(t, lifID, routes[0].Target)
}

func TestConnectSurfacesUnsupportedKind(t *testing.T) {
	net := NewNetwork(1, 0)
	src := newSinkNode("src", 0)
	rec := NewSpikeRecorder("rec", 0)
	srcID, _ := net.Register(src)
	recID, _ := net.Register(rec)

	err := net.Connect(srcID, recID, KindCurrent, 0, 4)
	assert.ErrorIs(t, err, ErrUnsupportedEventKind)
	assert.Empty(t, net.Routes(srcID), "a failed negotiation must not record a route")
	assert.Equal(t, DelayUnbounded, net.Scheduler().MinDelay(), "a failed negotiation must not register its delay")
}

func TestConnectRejectedDelayLeavesReceiverUntouched(t *testing.T) {
	net := NewNetwork(1, 0)
	src := newSinkNode("src", 0)
	proxy := NewEventChannelProxy("meop", 0, "event_out", 8, &fakeTransport{})
	srcID, _ := net.Register(src)
	proxyID, _ := net.Register(proxy)

	// A proxy reserves an index-map slot during negotiation, so a bad delay
	// must be rejected before the receiver is ever consulted.
	assert.Error(t, net.Connect(srcID, proxyID, KindSpike, 2, 0))
	assert.Empty(t, proxy.IndexMap(), "a failed connection must not occupy an index-map slot")
	assert.Empty(t, net.Routes(srcID))

	assert.NoError(t, net.Connect(srcID, proxyID, KindSpike, 2, 3))
	assert.Equal(t, []Port{2}, proxy.IndexMap())
}

func TestConnectAggregatesDelayBounds(t *testing.T) {
	net := NewNetwork(1, 0)
	src := newSinkNode("src", 0)
	srcID, _ := net.Register(src)
	var sinkIDs []NodeID
	for _, name := range []string{"a", "b", "c"} {
		id, _ := net.Register(newSinkNode(name, 0))
		sinkIDs = append(sinkIDs, id)
	}

	for i, d := range []int64{5, 3, 8} {
		assert.NoError(t, net.Connect(srcID, sinkIDs[i], KindSpike, 0, d))
	}
	assert.Equal(t, int64(3), net.Scheduler().MinDelay())
	assert.Equal(t, int64(8), net.Scheduler().MaxDelay())
}

func TestSendNeverDeliversEarly(t *testing.T) {
	// Minimum delay 3; an event sent at origin 0 with lag 3 must be
	// visible starting at tick 3, never inside [0, 3).
	net := NewNetwork(1, 0)
	src := newSinkNode("src", 0)
	dst := newSinkNode("dst", 0)
	srcID, _ := net.Register(src)
	dstID, _ := net.Register(dst)
	assert.NoError(t, net.Connect(srcID, dstID, KindSpike, 0, 3))

	assert.NoError(t, net.Send(src, NewSpikeEvent(src.ID()), 3))

	assert.Empty(t, net.collectDue(3), "nothing is due inside the sending window")
	assert.NoError(t, net.AdvanceSlice(3))
	assert.Equal(t, int64(3), net.SliceOrigin())

	due := net.collectDue(6)
	assert.Len(t, due, 1)
	assert.Equal(t, int64(3), due[0].ev.Timestamp())
	assert.Equal(t, dstID, due[0].target)
}

func TestSendFIFOPerDestinationAtIdenticalInstant(t *testing.T) {
	net := NewNetwork(1, 0)
	src := newSinkNode("src", 0)
	dst := newSinkNode("dst", 0)
	srcID, _ := net.Register(src)
	dstID, _ := net.Register(dst)
	assert.NoError(t, net.Connect(srcID, dstID, KindSpike, 0, 3))

	first := NewSpikeEvent(src.ID())
	first.Multiplicity = 1
	second := NewSpikeEvent(src.ID())
	second.Multiplicity = 2
	assert.NoError(t, net.Send(src, first, 3))
	assert.NoError(t, net.Send(src, second, 3))

	due := net.collectDue(6)
	assert.Len(t, due, 2)
	assert.Equal(t, 1, due[0].ev.(*SpikeEvent).Multiplicity, "identical instant: send order decides")
	assert.Equal(t, 2, due[1].ev.(*SpikeEvent).Multiplicity)
}

func TestSendMatchesEventKindToRoutes(t *testing.T) {
	net := NewNetwork(1, 0)
	src := newSinkNode("src", 0)
	dst := newSinkNode("dst", 0)
	srcID, _ := net.Register(src)
	dstID, _ := net.Register(dst)
	assert.NoError(t, net.Connect(srcID, dstID, KindSpike, 0, 3))

	// No current route exists, so a current event goes nowhere.
	assert.NoError(t, net.Send(src, NewCurrentEvent(src.ID(), 5.0), 3))
	assert.Equal(t, 0, net.PendingEvents())
}

func TestSendRejectsNegativeLag(t *testing.T) {
	net := NewNetwork(1, 0)
	src := newSinkNode("src", 0)
	net.Register(src)
	assert.Error(t, net.Send(src, NewSpikeEvent(src.ID()), -1))
}

func TestDispatchUsesEachConnectionDelay(t *testing.T) {
	net := NewNetwork(1, 0)
	src := newSinkNode("src", 0)
	near := newSinkNode("near", 0)
	far := newSinkNode("far", 0)
	srcID, _ := net.Register(src)
	nearID, _ := net.Register(near)
	farID, _ := net.Register(far)
	assert.NoError(t, net.Connect(srcID, nearID, KindSpike, 0, 3))
	assert.NoError(t, net.Connect(srcID, farID, KindSpike, 0, 7))

	assert.NoError(t, net.Dispatch(src, NewSpikeEvent(src.ID())))

	due := net.collectDue(100)
	assert.Len(t, due, 2)
	assert.Equal(t, int64(3), due[0].ev.Timestamp())
	assert.Equal(t, nearID, due[0].target)
	assert.Equal(t, int64(7), due[1].ev.Timestamp())
	assert.Equal(t, farID, due[1].target)
}

func TestTopologyFrozenAfterFirstAdvance(t *testing.T) {
	net := NewNetwork(1, 0)
	src := newSinkNode("src", 0)
	dst := newSinkNode("dst", 0)
	srcID, _ := net.Register(src)
	dstID, _ := net.Register(dst)
	assert.NoError(t, net.Connect(srcID, dstID, KindSpike, 0, 3))
	assert.NoError(t, net.AdvanceSlice(3))

	_, err := net.Register(newSinkNode("late", 0))
	assert.ErrorIs(t, err, ErrNetworkFrozen)
	assert.ErrorIs(t, net.Connect(srcID, dstID, KindSpike, 0, 3), ErrNetworkFrozen)
}

func TestAdvanceSliceRejectsOversizedWindow(t *testing.T) {
	net := NewNetwork(1, 0)
	src := newSinkNode("src", 0)
	dst := newSinkNode("dst", 0)
	srcID, _ := net.Register(src)
	dstID, _ := net.Register(dst)

	// No connection yet: the sentinel is not a usable bound.
	assert.ErrorIs(t, net.AdvanceSlice(1), ErrDelayUnbounded)

	assert.NoError(t, net.Connect(srcID, dstID, KindSpike, 0, 3))
	assert.Error(t, net.AdvanceSlice(4), "a window longer than the minimum delay is a correctness violation")
	assert.Equal(t, int64(0), net.SliceOrigin(), "a rejected advance must not move the origin")
}

func TestNetworkRNGDelegatesToThreadStreams(t *testing.T) {
	net := NewNetwork(42, 0)
	assert.Same(t, net.RNG(0), net.RNG(0))
	assert.NotSame(t, net.RNG(0), net.RNG(1))

	other := NewNetwork(42, 0)
	assert.Equal(t, other.RNG(2).Float64(), net.RNG(2).Float64())
}

func TestGetNodeUnknown(t *testing.T) {
	net := NewNetwork(1, 0)
	_, err := net.GetNode(99)
	assert.ErrorIs(t, err, ErrUnknownNode)
}
