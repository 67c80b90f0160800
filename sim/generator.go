package sim

import (
	"fmt"
	"math/rand"
)

// PoissonGenerator emits spikes as a Poisson process driven by its thread's
// random stream. It receives nothing; it only produces timestamps on
// schedule, which makes it the canonical source for exercising the
// delivery kernel.
type PoissonGenerator struct {
	BaseNode
	// RateHz is the mean firing rate ("rate" status key). Zero silences
	// the generator.
	RateHz float64

	next int64 // next emission tick; negative until primed
}

// NewPoissonGenerator creates a generator with the given mean rate on the
// given thread.
func NewPoissonGenerator(name string, thread int, rateHz float64) *PoissonGenerator {
	return &PoissonGenerator{
		BaseNode: NewBaseNode(name, thread),
		RateHz:   rateHz,
		next:     -1,
	}
}

// Update emits every spike whose sampled instant falls inside the current
// window. Emission times quantize to the window origin; each route's delay
// places the delivery in a later, unresolved window.
func (g *PoissonGenerator) Update(origin, until int64) error {
	if g.RateHz <= 0 {
		return nil
	}
	net := g.Network()
	rng := net.RNG(g.Thread())
	ticksPerSec := 1000.0 / net.Resolution()
	if g.next < 0 {
		g.next = origin + g.sampleInterval(rng, ticksPerSec)
	}
	for g.next < until {
		if err := net.Dispatch(g, NewSpikeEvent(g.ID())); err != nil {
			return err
		}
		g.next += g.sampleInterval(rng, ticksPerSec)
	}
	return nil
}

// sampleInterval draws an exponentially-distributed inter-spike interval in
// ticks. Always at least 1.
func (g *PoissonGenerator) sampleInterval(rng *rand.Rand, ticksPerSec float64) int64 {
	iat := int64(rng.ExpFloat64() / g.RateHz * ticksPerSec)
	if iat < 1 {
		return 1
	}
	return iat
}

func (g *PoissonGenerator) GetStatus() Status {
	return Status{"rate": g.RateHz}
}

func (g *PoissonGenerator) SetStatus(d Status) error {
	for key := range d {
		if key != "rate" {
			return fmt.Errorf("%s: unknown status key %q", g.Name(), key)
		}
	}
	rate, ok, err := statusFloat(d, "rate")
	if err != nil {
		return fmt.Errorf("%s: %w", g.Name(), err)
	}
	if ok {
		if rate < 0 {
			return fmt.Errorf("%s: rate must be non-negative, got %v", g.Name(), rate)
		}
		g.RateHz = rate
	}
	return nil
}
