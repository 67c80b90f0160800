package sim

import (
	"errors"
	"testing"
)

func TestSchedulerUnboundedBeforeRegistration(t *testing.T) {
	s := NewScheduler()
	if got := s.MinDelay(); got != DelayUnbounded {
		t.Errorf("MinDelay() = %d, want DelayUnbounded", got)
	}
	if got := s.MaxDelay(); got != 0 {
		t.Errorf("MaxDelay() = %d, want 0", got)
	}
}

func TestSchedulerTightensBounds(t *testing.T) {
	// BDD: registering {5, 3, 8} yields min 3, max 8 regardless of order
	orders := [][]int64{
		{5, 3, 8},
		{8, 5, 3},
		{3, 8, 5},
	}
	for _, delays := range orders {
		s := NewScheduler()
		for _, d := range delays {
			if err := s.RegisterDelay(d); err != nil {
				t.Fatalf("RegisterDelay(%d) failed: %v", d, err)
			}
		}
		if got := s.MinDelay(); got != 3 {
			t.Errorf("order %v: MinDelay() = %d, want 3", delays, got)
		}
		if got := s.MaxDelay(); got != 8 {
			t.Errorf("order %v: MaxDelay() = %d, want 8", delays, got)
		}
	}
}

func TestSchedulerRejectsNonPositiveDelay(t *testing.T) {
	s := NewScheduler()
	for _, d := range []int64{0, -1} {
		if err := s.RegisterDelay(d); err == nil {
			t.Errorf("RegisterDelay(%d) succeeded, want error", d)
		}
	}
	if got := s.MinDelay(); got != DelayUnbounded {
		t.Errorf("rejected delays must not tighten bounds, MinDelay() = %d", got)
	}
}

func TestSchedulerValidateSliceLength(t *testing.T) {
	s := NewScheduler()

	// The sentinel is "no bound available yet", never a usable bound.
	if err := s.ValidateSliceLength(1); !errors.Is(err, ErrDelayUnbounded) {
		t.Errorf("ValidateSliceLength before registration = %v, want ErrDelayUnbounded", err)
	}

	if err := s.RegisterDelay(3); err != nil {
		t.Fatalf("RegisterDelay(3) failed: %v", err)
	}

	tests := []struct {
		name   string
		length int64
		wantOK bool
	}{
		{"equal to min delay", 3, true},
		{"below min delay", 2, true},
		{"above min delay", 4, false},
		{"zero", 0, false},
		{"negative", -3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.ValidateSliceLength(tt.length)
			if tt.wantOK && err != nil {
				t.Errorf("ValidateSliceLength(%d) = %v, want nil", tt.length, err)
			}
			if !tt.wantOK && err == nil {
				t.Errorf("ValidateSliceLength(%d) = nil, want error", tt.length)
			}
		})
	}
}
