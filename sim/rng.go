package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
)

// ThreadRNG hands out one deterministic random stream per execution thread.
//
// Reproducibility contract: for a fixed master seed, the same thread id
// always yields the identical stream instance (looked up, never recreated),
// so repeated runs draw identical sequences. No two threads ever share a
// stream; each stream is used exclusively by its owning thread, which is
// what makes parallel window execution reproducible.
//
// Derivation formula: masterSeed XOR fnv1a64("thread_<id>"). The hash makes
// derivation independent of the order in which threads first ask for their
// stream.
type ThreadRNG struct {
	seed    int64
	mu      sync.Mutex
	streams map[int]*rand.Rand
}

// NewThreadRNG creates a per-thread stream registry from a master seed.
func NewThreadRNG(seed int64) *ThreadRNG {
	return &ThreadRNG{
		seed:    seed,
		streams: make(map[int]*rand.Rand),
	}
}

// ForThread returns the random stream owned by the given thread, creating
// it on first use. The lock covers only stream creation; drawing from the
// returned stream is the owning thread's exclusive business.
func (t *ThreadRNG) ForThread(id int) *rand.Rand {
	t.mu.Lock()
	defer t.mu.Unlock()
	if rng, ok := t.streams[id]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(t.seed ^ fnv1a64(fmt.Sprintf("thread_%d", id))))
	t.streams[id] = rng
	return rng
}

// Seed returns the master seed this registry derives from.
func (t *ThreadRNG) Seed() int64 { return t.seed }

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
