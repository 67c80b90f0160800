package cmd

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/spiking-sim/spiking-sim/sim"
)

func TestRunCmdFlagsRegistered(t *testing.T) {
	for _, name := range []string{"config", "seed", "horizon", "slice", "log"} {
		assert.NotNil(t, runCmd.Flags().Lookup(name), "flag %q must be registered", name)
	}
}

func TestLogTransportCountsTraffic(t *testing.T) {
	tr := &logTransport{}
	require.NoError(t, tr.Publish("event_out", 4, []sim.Port{0, 2}))
	require.NoError(t, tr.Forward(2, 30))
	require.NoError(t, tr.Forward(0, 60))

	published, forwarded := tr.counts()
	assert.Equal(t, 1, published)
	assert.Equal(t, int64(2), forwarded)
}

func TestLogTransportConcurrentForwards(t *testing.T) {
	// One transport is shared by every proxy in a build, and proxies on
	// different threads forward within the same window.
	tr := &logTransport{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = tr.Forward(sim.Port(j%4), int64(j))
			}
		}()
	}
	wg.Wait()

	_, forwarded := tr.counts()
	assert.Equal(t, int64(800), forwarded)
}

// TestRunFromConfigFile drives the same path the CLI takes: load a YAML
// build file, build the network against the logging transport, run to the
// horizon.
func TestRunFromConfigFile(t *testing.T) {
	yml := `
seed: 42
resolution_ms: 0.1
slice_length: 10
horizon: 1000
nodes:
  - name: gen
    model: poisson
    thread: 0
    rate_hz: 800.0
  - name: out
    model: proxy
    thread: 0
    port_name: event_out
    width: 2
connections:
  - from: gen
    to: out
    kind: spike
    receptor: 1
    delay: 10
`
	path := filepath.Join(t.TempDir(), "net.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := sim.LoadNetworkConfig(path)
	require.NoError(t, err)

	tr := &logTransport{}
	net, proxies, err := cfg.Build(tr)
	require.NoError(t, err)
	require.Len(t, proxies, 1)
	published, _ := tr.counts()
	assert.Equal(t, 1, published)

	s, err := sim.NewSimulator(net, cfg.SliceLength, cfg.Horizon)
	require.NoError(t, err)
	require.NoError(t, s.Run())

	assert.Equal(t, int64(100), s.Metrics.WindowsExecuted)
	_, forwarded := tr.counts()
	assert.Positive(t, forwarded, "an 800 Hz generator must forward spikes over 100 ms")
	assert.Equal(t, forwarded, s.Metrics.EventsDelivered.Load())
}
