package core

import "errors"

//go:generate mockgen -source=signal_iface.go -destination=mock/signal_mock.go -package=mock

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// Frame is one encoded signaling envelope.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend enqueues f without blocking. It fails with ErrConnClosed once
	// Close was called and with ErrBackpressure when the queue is full.
	TrySend(f Frame) error
	// Close flushes already queued frames and then tears the transport down.
	Close()
}
