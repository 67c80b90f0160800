package cmd

import (
	"sync"

	"github.com/sirupsen/logrus"

	sim "github.com/spiking-sim/spiking-sim/sim"
)

// logTransport is the CLI's stand-in for an out-of-process event channel:
// it logs the published contract and every forwarded spike instead of
// crossing a process boundary. One instance is shared by every proxy in a
// build, and proxies on different threads forward concurrently within a
// window, so the counters are mutex-guarded.
type logTransport struct {
	mu        sync.Mutex
	published int
	forwarded int64
}

func (t *logTransport) Publish(name string, width int, indexMap []sim.Port) error {
	t.mu.Lock()
	t.published++
	t.mu.Unlock()
	logrus.Infof("published channel %q (width %d, %d subscriptions)", name, width, len(indexMap))
	return nil
}

func (t *logTransport) Forward(channel sim.Port, timestamp int64) error {
	t.mu.Lock()
	t.forwarded++
	t.mu.Unlock()
	logrus.Debugf("channel slot %d <- spike at tick %d", channel, timestamp)
	return nil
}

func (t *logTransport) counts() (published int, forwarded int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.published, t.forwarded
}
