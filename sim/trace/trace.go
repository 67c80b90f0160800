// Package trace records delivered spikes for offline analysis.
package trace

// Record is one observed spike delivery.
type Record struct {
	Sender int     // originating node id
	TimeMs float64 // delivery instant in simulated milliseconds
}

// Trace collects spike records during a run, in delivery order.
type Trace struct {
	records []Record
}

// New creates an empty trace ready for recording.
func New() *Trace {
	return &Trace{records: make([]Record, 0)}
}

// Append adds one record.
func (t *Trace) Append(r Record) {
	t.records = append(t.records, r)
}

// Len returns the number of recorded deliveries.
func (t *Trace) Len() int { return len(t.records) }

// Records returns a copy of the recorded deliveries in delivery order.
func (t *Trace) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Reset discards all records.
func (t *Trace) Reset() {
	t.records = t.records[:0]
}
