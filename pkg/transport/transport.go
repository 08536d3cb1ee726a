package transport

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Handler is the execution-side callback bound to a listening transport. It
// receives the raw request payload and returns the raw response payload.
type Handler func(ctx context.Context, payload []byte) ([]byte, error)

// Invoker is the caller-side connection. Invoke blocks until the response
// arrives, the context is cancelled, or the transport fails.
type Invoker interface {
	Invoke(ctx context.Context, payload []byte) ([]byte, error)
	Close() error
}

// Server is a listening transport bound to a Handler.
type Server interface {
	// Serve blocks until the context is cancelled or serving fails.
	Serve(ctx context.Context) error
	Close() error
	Addr() string
}

// Registered transport names.
const (
	NameGRPC    = "grpc"
	NameJSONRPC = "jsonrpc"
)

type dialFunc func(ctx context.Context, addr string) (Invoker, error)
type listenFunc func(addr string, h Handler) (Server, error)

var (
	transportsMu sync.RWMutex
	transports   = map[string]struct {
		dial   dialFunc
		listen listenFunc
	}{}
)

// Register adds a transport to the registry, overwriting any previous entry
// with the same name.
func Register(name string, dial dialFunc, listen listenFunc) {
	transportsMu.Lock()
	defer transportsMu.Unlock()
	transports[name] = struct {
		dial   dialFunc
		listen listenFunc
	}{dial, listen}
}

// Names returns the registered transport names, sorted.
func Names() []string {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	out := make([]string, 0, len(transports))
	for name := range transports {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Dial connects to a remote portal endpoint using the named transport.
func Dial(ctx context.Context, name, addr string) (Invoker, error) {
	transportsMu.RLock()
	entry, ok := transports[name]
	transportsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("transport: unknown transport %q", name)
	}
	return entry.dial(ctx, addr)
}

// Listen binds a handler to an address using the named transport.
func Listen(name, addr string, h Handler) (Server, error) {
	transportsMu.RLock()
	entry, ok := transports[name]
	transportsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("transport: unknown transport %q", name)
	}
	return entry.listen(addr, h)
}

func init() {
	Register(NameGRPC, dialGRPC, listenGRPC)
	Register(NameJSONRPC, dialJSONRPC, listenJSONRPC)
}
