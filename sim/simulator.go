package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Updater is implemented by nodes that generate events on their own
// schedule. Update runs once per window on the node's thread, after that
// window's deliveries, covering the simulated interval [origin, until) in
// ticks.
type Updater interface {
	Update(origin, until int64) error
}

// Simulator drives the network through fixed-length synchronization
// windows. Within a window every thread processes its nodes independently:
// the minimum-delay invariant guarantees no event generated in the window
// can be observed before the boundary, so no per-event locking is needed.
// The only synchronization point is the window boundary itself, a barrier
// waiting for the slowest thread before the shared origin advances.
type Simulator struct {
	net      *Network
	sliceLen int64
	horizon  int64
	Metrics  *Metrics

	// per-thread work partitions, fixed at construction
	nodesByThread    map[int][]NodeID
	updatersByThread map[int][]Updater
}

// NewSimulator validates the window length against the scheduler's minimum
// delay and partitions the registered nodes by execution thread. The
// validation happens at configuration time; an oversized window is rejected
// here, never tolerated at run time.
func NewSimulator(net *Network, sliceLen, horizon int64) (*Simulator, error) {
	if err := net.Scheduler().ValidateSliceLength(sliceLen); err != nil {
		return nil, fmt.Errorf("configuring simulator: %w", err)
	}
	if horizon <= 0 {
		return nil, fmt.Errorf("configuring simulator: horizon must be positive, got %d", horizon)
	}
	s := &Simulator{
		net:              net,
		sliceLen:         sliceLen,
		horizon:          horizon,
		Metrics:          NewMetrics(),
		nodesByThread:    make(map[int][]NodeID),
		updatersByThread: make(map[int][]Updater),
	}
	for _, id := range net.order {
		node := net.nodes[id]
		s.nodesByThread[node.Thread()] = append(s.nodesByThread[node.Thread()], id)
		if u, ok := node.(Updater); ok {
			s.updatersByThread[node.Thread()] = append(s.updatersByThread[node.Thread()], u)
		}
	}
	return s, nil
}

// Run executes windows to completion. A run is never cancelled mid-window;
// any deadline an embedding system wants to impose is its own concern.
func (s *Simulator) Run() error {
	for s.net.SliceOrigin() < s.horizon {
		if err := s.runWindow(); err != nil {
			return err
		}
		s.Metrics.WindowsExecuted++
	}
	s.Metrics.SimEndedTick = s.net.SliceOrigin()
	logrus.Infof("[tick %07d] simulation ended after %d windows", s.net.SliceOrigin(), s.Metrics.WindowsExecuted)
	return nil
}

// runWindow delivers the events due in the current window and runs node
// updates, one goroutine per execution thread, then advances the origin.
func (s *Simulator) runWindow() error {
	origin := s.net.SliceOrigin()
	until := origin + s.sliceLen
	logrus.Debugf("[tick %07d] window [%d, %d)", origin, origin, until)

	// Deliveries were buffered in earlier windows; collecting them before
	// the goroutines start means the pending heap only sees concurrent
	// emission during the window, never concurrent draining.
	dueByThread := make(map[int][]delivery)
	for _, d := range s.net.collectDue(until) {
		target, err := s.net.GetNode(d.target)
		if err != nil {
			return err
		}
		dueByThread[target.Thread()] = append(dueByThread[target.Thread()], d)
	}

	var g errgroup.Group
	for thread := range s.nodesByThread {
		due := dueByThread[thread]
		updaters := s.updatersByThread[thread]
		g.Go(func() error {
			for _, d := range due {
				if err := s.net.deliver(d); err != nil {
					return err
				}
				s.Metrics.EventsDelivered.Add(1)
			}
			for _, u := range updaters {
				if err := u.Update(origin, until); err != nil {
					return err
				}
			}
			return nil
		})
	}
	// The barrier: every thread finishes emitting for this window before
	// the shared origin advances.
	if err := g.Wait(); err != nil {
		return err
	}
	return s.net.AdvanceSlice(s.sliceLen)
}
