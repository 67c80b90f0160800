package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Node model names accepted by the build config.
const (
	ModelLIF      = "lif"
	ModelPoisson  = "poisson"
	ModelRecorder = "recorder"
	ModelProxy    = "proxy"
)

// NodeConfig describes one node in a network build file.
type NodeConfig struct {
	Name   string `yaml:"name"`
	Model  string `yaml:"model"`  // lif | poisson | recorder | proxy
	Thread int    `yaml:"thread"` // execution thread assignment

	// Model parameters; each applies to the model noted.
	RateHz     float64 `yaml:"rate_hz"`     // poisson: mean firing rate
	LookbackMs float64 `yaml:"lookback_ms"` // lif: archived history window
	PortName   string  `yaml:"port_name"`   // proxy: external channel name
	Width      int     `yaml:"width"`       // proxy: declared channel width

	// Status is applied via SetStatus after construction, so a build file
	// can override any externally settable parameter.
	Status Status `yaml:"status"`
}

// ConnectionConfig describes one connection in a network build file. For
// proxy targets, receptor is the requested external channel.
type ConnectionConfig struct {
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	Kind     string `yaml:"kind"` // spike | current
	Receptor int    `yaml:"receptor"`
	Delay    int64  `yaml:"delay"` // ticks
}

// NetworkConfig is the declarative build file for one simulation.
type NetworkConfig struct {
	Seed         int64              `yaml:"seed"`
	ResolutionMs float64            `yaml:"resolution_ms"`
	SliceLength  int64              `yaml:"slice_length"` // ticks; must not exceed the minimum delay
	Horizon      int64              `yaml:"horizon"`      // ticks
	Nodes        []NodeConfig       `yaml:"nodes"`
	Connections  []ConnectionConfig `yaml:"connections"`
}

// LoadNetworkConfig reads and validates a YAML build file.
func LoadNetworkConfig(path string) (*NetworkConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading network config: %w", err)
	}
	var cfg NetworkConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing network config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects malformed configs before any construction happens.
func (c *NetworkConfig) Validate() error {
	if c.SliceLength <= 0 {
		return fmt.Errorf("slice_length must be positive, got %d", c.SliceLength)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", c.Horizon)
	}
	if len(c.Nodes) == 0 {
		return fmt.Errorf("config declares no nodes")
	}
	seen := make(map[string]bool)
	for _, nc := range c.Nodes {
		if nc.Name == "" {
			return fmt.Errorf("node with empty name")
		}
		if seen[nc.Name] {
			return fmt.Errorf("duplicate node name %q", nc.Name)
		}
		seen[nc.Name] = true
		switch nc.Model {
		case ModelLIF, ModelPoisson, ModelRecorder, ModelProxy:
		default:
			return fmt.Errorf("node %q: unknown model %q", nc.Name, nc.Model)
		}
		if nc.Thread < 0 {
			return fmt.Errorf("node %q: thread must be non-negative, got %d", nc.Name, nc.Thread)
		}
	}
	for i, cc := range c.Connections {
		if !seen[cc.From] {
			return fmt.Errorf("connection %d: unknown node %q", i, cc.From)
		}
		if !seen[cc.To] {
			return fmt.Errorf("connection %d: unknown node %q", i, cc.To)
		}
		if _, ok := ParseEventKind(cc.Kind); !ok {
			return fmt.Errorf("connection %d: unknown event kind %q", i, cc.Kind)
		}
		if cc.Delay <= 0 {
			return fmt.Errorf("connection %d: delay must be positive, got %d", i, cc.Delay)
		}
		if cc.Delay < c.SliceLength {
			return fmt.Errorf("connection %d: delay %d below slice_length %d", i, cc.Delay, c.SliceLength)
		}
	}
	return nil
}

// Build constructs the network: register every node, run the connection
// setup protocol, then publish every proxy. Publishing happens after all
// connects and before the first window, per the channel-publish protocol.
func (c *NetworkConfig) Build(transport ChannelTransport) (*Network, []*EventChannelProxy, error) {
	net := NewNetwork(c.Seed, c.ResolutionMs)
	ids := make(map[string]NodeID)
	var proxies []*EventChannelProxy

	for _, nc := range c.Nodes {
		var node Node
		switch nc.Model {
		case ModelLIF:
			node = NewLIFNode(nc.Name, nc.Thread, nc.LookbackMs)
		case ModelPoisson:
			node = NewPoissonGenerator(nc.Name, nc.Thread, nc.RateHz)
		case ModelRecorder:
			node = NewSpikeRecorder(nc.Name, nc.Thread)
		case ModelProxy:
			p := NewEventChannelProxy(nc.Name, nc.Thread, nc.PortName, nc.Width, transport)
			proxies = append(proxies, p)
			node = p
		}
		if len(nc.Status) > 0 {
			if err := node.SetStatus(nc.Status); err != nil {
				return nil, nil, fmt.Errorf("configuring node %q: %w", nc.Name, err)
			}
		}
		id, err := net.Register(node)
		if err != nil {
			return nil, nil, fmt.Errorf("registering node %q: %w", nc.Name, err)
		}
		ids[nc.Name] = id
	}

	for i, cc := range c.Connections {
		kind, _ := ParseEventKind(cc.Kind)
		if err := net.Connect(ids[cc.From], ids[cc.To], kind, Port(cc.Receptor), cc.Delay); err != nil {
			return nil, nil, fmt.Errorf("connection %d: %w", i, err)
		}
	}

	for _, p := range proxies {
		if err := p.Publish(); err != nil {
			return nil, nil, err
		}
	}
	return net, proxies, nil
}
