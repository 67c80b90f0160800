package sim

import "errors"

// Setup-time errors are synchronous and block simulation start; they are
// never retried automatically. None of these are swallowed anywhere in the
// kernel: every failure has an observable signal to the caller.
var (
	// ErrChannelAlreadyPublished reports a Connect call against an
	// EventChannelProxy whose index map is already frozen. A setup-ordering
	// mistake by the caller; the index map is left untouched.
	ErrChannelAlreadyPublished = errors.New("event channel already published")

	// ErrChannelUnpublished reports an event reaching a proxy before
	// Publish fixed its routing contract.
	ErrChannelUnpublished = errors.New("event channel not yet published")

	// ErrUnsupportedEventKind reports a capability negotiation for an event
	// kind or receptor port the target node does not support. Recoverable
	// only by choosing a different receiver or port.
	ErrUnsupportedEventKind = errors.New("unsupported event kind")

	// ErrInvalidNarrowing reports a capability-narrowing request for a
	// variant the underlying node does not satisfy.
	ErrInvalidNarrowing = errors.New("capability narrowing mismatch")

	// ErrDelayUnbounded reports a minimum-delay read before any connection
	// has constrained it. The sentinel must never be used to size a window.
	ErrDelayUnbounded = errors.New("minimum delay unbounded: no connection registered")

	// ErrNetworkFrozen reports a topology mutation after the first window
	// began executing.
	ErrNetworkFrozen = errors.New("network frozen: connections are immutable once windows run")

	// ErrUnknownNode reports a lookup for an id the registry does not hold.
	ErrUnknownNode = errors.New("unknown node")
)
