// Package grpcbuf provides bufconn-backed gRPC helpers for exercising the
// portal transport without a network listener.
package grpcbuf

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/objectstack/portal/pkg/transport"
)

const bufSize = 1024 * 1024

// StartServer spins up a bufconn-backed gRPC server exposing the portal
// service bound to h. The caller owns shutdown via the returned server.
func StartServer(h transport.Handler) (*grpc.Server, *bufconn.Listener) {
	lis := bufconn.Listen(bufSize)
	srv := grpc.NewServer()
	transport.RegisterGRPC(srv, h)
	go func() { _ = srv.Serve(lis) }()
	return srv, lis
}

// Dial opens a client connection over the bufconn listener. The target uses
// the passthrough scheme so the resolver leaves our in-memory dialer alone,
// and credentials are insecure since no TLS runs over a pipe. Extra options
// are appended after the defaults and may override them.
func Dial(_ context.Context, lis *bufconn.Listener, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	all := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
	}, opts...)
	return grpc.NewClient("passthrough://bufnet", all...)
}
