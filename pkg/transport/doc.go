// Package transport carries portal call payloads between the dispatch proxy
// and the dispatch handler. It is deliberately dumb: a payload is an opaque
// byte slice (the encoded request or response envelope), and everything the
// portal cares about - format tags, verdicts, failures - travels inside it.
// Only genuine transport faults surface as errors here.
//
// Three implementations ship with the package:
//
//	grpc     - unary call on /portal.Portal/Invoke, payloads framed as
//	           wrapperspb.BytesValue (no generated stubs required); default
//	jsonrpc  - JSON-RPC 2.0 over HTTP via gorilla/rpc
//	loopback - direct in-process invocation, context passed through unchanged
//
// grpc and jsonrpc register themselves in a named registry; deployments pick
// one by name:
//
//	inv, err := transport.Dial(ctx, "grpc", "localhost:7101")
//	srv, err := transport.Listen("grpc", ":7101", handler.Handle)
//
// Cancellation propagates through every implementation: cancelling the
// caller's context aborts the in-flight call and the handler observes the
// cancellation on its own context.
package transport
