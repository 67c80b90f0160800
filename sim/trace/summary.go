package trace

// Summary aggregates a trace per sender.
type Summary struct {
	Total     int
	PerSender map[int]int
	FirstMs   float64
	LastMs    float64
}

// Summarize reduces a trace to per-sender counts and the observed time
// span. FirstMs/LastMs are zero for an empty trace.
func Summarize(t *Trace) Summary {
	s := Summary{PerSender: make(map[int]int)}
	for i, r := range t.records {
		s.Total++
		s.PerSender[r.Sender]++
		if i == 0 || r.TimeMs < s.FirstMs {
			s.FirstMs = r.TimeMs
		}
		if r.TimeMs > s.LastMs {
			s.LastMs = r.TimeMs
		}
	}
	return s
}
