package sim

import "fmt"

// ChannelTransport is the out-of-process collaborator behind an
// EventChannelProxy. Publish receives the finalized routing contract
// exactly once; Forward delivers one spike tagged with its external
// channel slot. Byte-level framing is the transport's concern.
type ChannelTransport interface {
	Publish(name string, width int, indexMap []Port) error
	Forward(channel Port, timestamp int64) error
}

// EventChannelProxy bridges local spike producers to one externally
// addressed output channel. During setup each connection subscribes a
// channel slot; the subscriptions accumulate into an ordered index map that
// is append-only while unpublished and strictly immutable once published.
//
// State machine: Unpublished (initial) -> Published (terminal), exactly
// once, with no reverse transition.
type EventChannelProxy struct {
	BaseNode
	portName  string
	width     int
	published bool
	indexMap  []Port
	transport ChannelTransport
}

// NewEventChannelProxy creates an unpublished proxy for the named external
// channel with the declared width.
func NewEventChannelProxy(name string, thread int, portName string, width int, transport ChannelTransport) *EventChannelProxy {
	return &EventChannelProxy{
		BaseNode:  NewBaseNode(name, thread),
		portName:  portName,
		width:     width,
		transport: transport,
	}
}

// PortName returns the external channel name.
func (p *EventChannelProxy) PortName() string { return p.portName }

// Width returns the declared channel width.
func (p *EventChannelProxy) Width() int { return p.width }

// Published reports whether the index map has been frozen.
func (p *EventChannelProxy) Published() bool { return p.published }

// IndexMap returns a copy of the index map: the requested channel of each
// subscription, in call order.
func (p *EventChannelProxy) IndexMap() []Port {
	out := make([]Port, len(p.indexMap))
	copy(out, p.indexMap)
	return out
}

// Connect records one channel subscription. The requested channel is
// appended to the index map in call order and echoed back unchanged as the
// assigned port. Valid only while unpublished: afterwards it fails with
// ErrChannelAlreadyPublished and leaves the index map untouched.
func (p *EventChannelProxy) Connect(kind EventKind, channel Port) (Port, error) {
	if kind != KindSpike {
		return PortUnspecified, fmt.Errorf("%s: %w: %s", p.Name(), ErrUnsupportedEventKind, kind)
	}
	if p.published {
		return PortUnspecified, fmt.Errorf("%s (channel %q): %w", p.Name(), p.portName, ErrChannelAlreadyPublished)
	}
	if channel < 0 || (p.width > 0 && int(channel) >= p.width) {
		return PortUnspecified, fmt.Errorf("%s: channel %d outside declared width %d", p.Name(), channel, p.width)
	}
	p.indexMap = append(p.indexMap, channel)
	return channel, nil
}

// HandlesTestEvent folds the proxy into the uniform connection-setup
// protocol: negotiating a receptor with the proxy is a channel
// subscription.
func (p *EventChannelProxy) HandlesTestEvent(kind EventKind, receptor Port) (Port, error) {
	return p.Connect(kind, receptor)
}

// Publish freezes the index map and hands the finalized (name, width,
// index map) tuple to the transport. Called exactly once, after all
// intended Connect calls and before the first window begins.
func (p *EventChannelProxy) Publish() error {
	if p.published {
		return fmt.Errorf("%s (channel %q): %w", p.Name(), p.portName, ErrChannelAlreadyPublished)
	}
	if err := p.transport.Publish(p.portName, p.width, p.IndexMap()); err != nil {
		return fmt.Errorf("publishing channel %q: %w", p.portName, err)
	}
	p.published = true
	return nil
}

// HandleSpike forwards a delivered spike to the external transport, tagged
// with the channel index the sending connection subscribed at setup.
func (p *EventChannelProxy) HandleSpike(ev *SpikeEvent) error {
	if !p.published {
		return fmt.Errorf("%s (channel %q): %w", p.Name(), p.portName, ErrChannelUnpublished)
	}
	return p.transport.Forward(ev.Receptor(), ev.Timestamp())
}

// GetStatus reports the proxy's externally visible parameters. The
// published flag and map size are runtime state, included read-only the way
// a status dictionary reports device state.
func (p *EventChannelProxy) GetStatus() Status {
	return Status{
		"port_name": p.portName,
		"width":     p.width,
		"published": p.published,
	}
}

// SetStatus reconfigures the external channel name, valid only while
// unpublished. Validation happens before any field is touched.
func (p *EventChannelProxy) SetStatus(d Status) error {
	var name string
	haveName := false
	for key, raw := range d {
		switch key {
		case "port_name":
			s, ok := raw.(string)
			if !ok {
				return fmt.Errorf("%s: status key %q: expected string, got %T", p.Name(), key, raw)
			}
			name, haveName = s, true
		default:
			return fmt.Errorf("%s: unknown status key %q", p.Name(), key)
		}
	}
	if haveName {
		if p.published {
			return fmt.Errorf("%s (channel %q): %w", p.Name(), p.portName, ErrChannelAlreadyPublished)
		}
		p.portName = name
	}
	return nil
}
