package sim

// NeverSpiked is the last-spike sentinel reported before a node's first
// spike and after ClearHistory.
const NeverSpiked = -1.0

// ArchivingNode extends BaseNode with spike-timing history for
// plasticity-style computations. It always tracks the most recent spike
// instant; with a positive lookback it additionally keeps a time-ordered,
// append-only history bounded by the maximum lookback any consumer needs
// (the plasticity eligibility window), evicting entries older than that.
type ArchivingNode struct {
	BaseNode
	lastSpike float64 // ms; NeverSpiked before the first spike
	history   []float64
	lookback  float64 // ms of history retained; 0 keeps only the last spike
}

// NewArchivingNode creates the embeddable archiving core. lookbackMs is the
// eligibility window; 0 disables the bounded history.
func NewArchivingNode(name string, thread int, lookbackMs float64) ArchivingNode {
	return ArchivingNode{
		BaseNode:  NewBaseNode(name, thread),
		lastSpike: NeverSpiked,
		lookback:  lookbackMs,
	}
}

// SpikeTime returns the most recent spike instant in ms, or NeverSpiked.
func (a *ArchivingNode) SpikeTime() float64 { return a.lastSpike }

// SetSpikeTime records a spike instant. Called exactly once per emitted
// spike, strictly after the spike's generating computation completes.
func (a *ArchivingNode) SetSpikeTime(t float64) {
	a.lastSpike = t
	if a.lookback <= 0 {
		return
	}
	a.history = append(a.history, t)
	cutoff := t - a.lookback
	drop := 0
	for drop < len(a.history) && a.history[drop] < cutoff {
		drop++
	}
	if drop > 0 {
		// Copy down instead of re-slicing so the evicted prefix's backing
		// array is actually released over a long run.
		a.history = append(a.history[:0], a.history[drop:]...)
	}
}

// SpikesSince returns the retained spike instants at or after t, oldest
// first. Only meaningful within the configured lookback window.
func (a *ArchivingNode) SpikesSince(t float64) []float64 {
	start := 0
	for start < len(a.history) && a.history[start] < t {
		start++
	}
	out := make([]float64, len(a.history)-start)
	copy(out, a.history[start:])
	return out
}

// ClearHistory resets the record to the never-spiked sentinel.
func (a *ArchivingNode) ClearHistory() {
	a.lastSpike = NeverSpiked
	a.history = nil
}
