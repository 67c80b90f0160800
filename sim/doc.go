// Package sim provides the delay-bounded event distribution and
// synchronization kernel for a discrete-event spiking-network simulator.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - event.go: typed, timestamped events (spike, continuous current)
//   - network.go: the dispatcher; routes, per-thread random streams, and
//     the synchronization-window origin
//   - simulator.go: the window loop and the per-thread barrier
//
// # Architecture
//
// Connections are fixed during a single-threaded setup phase: each one
// negotiates a receptor port with its receiver (Node.HandlesTestEvent) and
// registers its delay with the Scheduler, which aggregates the global
// minimum and maximum propagation delay. The minimum delay is the
// authoritative upper bound on the synchronization-window length: a window
// no longer than the minimum delay guarantees no event generated inside it
// can be observed before the window closes, so every node may process
// independently within a window without per-event locking.
//
// The Simulator drives fixed-length windows. At each window it delivers the
// buffered events due in that window, runs node updates per execution
// thread concurrently, joins at the barrier, and only then advances the
// shared window origin (Network.AdvanceSlice).
//
// External bridging goes through EventChannelProxy, which accumulates
// per-connection channel subscriptions into a frozen, ordered index map and
// forwards spikes to an out-of-process ChannelTransport once published.
//
// # Key Interfaces
//
//   - Node: typed event handling on numbered receptor ports plus
//     setup-time capability negotiation
//   - Updater: nodes that generate events on their own schedule
//   - ChannelTransport: the out-of-process side of an EventChannelProxy
//
// Sub-package sim/trace records delivered spikes for offline analysis.
package sim
