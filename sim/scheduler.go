package sim

import (
	"fmt"
	"math"
)

// DelayUnbounded is the sentinel minimum delay before any connection
// constrains it. It means "no window-length bound available yet" and must
// never be used to size a window.
const DelayUnbounded int64 = math.MaxInt64

// Scheduler aggregates the synchronization parameters of one simulation:
// the minimum and maximum propagation delay over every registered
// connection. The minimum delay is the authoritative upper bound on the
// synchronization-window length; the maximum delay bounds how long the
// in-flight event buffer must be retained.
//
// Scheduler is an explicit context object threaded through setup, not
// process-wide state, so independent simulation instances coexist. Both
// scalars are written only during the single-threaded setup phase and are
// read-only once windows run.
type Scheduler struct {
	minDelay int64
	maxDelay int64
}

// NewScheduler creates a scheduler with no connection constraining it yet.
func NewScheduler() *Scheduler {
	return &Scheduler{minDelay: DelayUnbounded, maxDelay: 0}
}

// MinDelay returns the tightest registered connection delay, in ticks, or
// DelayUnbounded if none is registered.
func (s *Scheduler) MinDelay() int64 { return s.minDelay }

// MaxDelay returns the largest registered connection delay, in ticks, or 0
// if none is registered.
func (s *Scheduler) MaxDelay() int64 { return s.maxDelay }

// ValidateDelay checks one connection delay without recording it, so
// callers can reject a bad delay before any setup side effect happens.
func (s *Scheduler) ValidateDelay(d int64) error {
	if d <= 0 {
		return fmt.Errorf("connection delay must be positive, got %d", d)
	}
	return nil
}

// RegisterDelay records one connection's delay, tightening the global
// bounds for all readers.
func (s *Scheduler) RegisterDelay(d int64) error {
	if err := s.ValidateDelay(d); err != nil {
		return err
	}
	if d < s.minDelay {
		s.minDelay = d
	}
	if d > s.maxDelay {
		s.maxDelay = d
	}
	return nil
}

// ValidateSliceLength checks a window-length selection at configuration
// time. A length greater than the minimum delay is a correctness violation:
// events generated inside such a window could be observed before the window
// closes.
func (s *Scheduler) ValidateSliceLength(length int64) error {
	if length <= 0 {
		return fmt.Errorf("slice length must be positive, got %d", length)
	}
	if s.minDelay == DelayUnbounded {
		return ErrDelayUnbounded
	}
	if length > s.minDelay {
		return fmt.Errorf("slice length %d exceeds minimum delay %d", length, s.minDelay)
	}
	return nil
}
