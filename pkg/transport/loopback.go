package transport

import "context"

// Loopback invokes a handler directly in-process. The caller's context is
// passed through unchanged, so cancellation state observed by the handler is
// exactly the caller's. Useful for tests and for exercising the remote code
// path without a network.
type Loopback struct {
	h Handler
}

// NewLoopback wraps a handler as an in-process Invoker.
func NewLoopback(h Handler) *Loopback {
	return &Loopback{h: h}
}

// Invoke calls the handler synchronously.
func (l *Loopback) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	return l.h(ctx, payload)
}

// Close is a no-op.
func (l *Loopback) Close() error { return nil }
