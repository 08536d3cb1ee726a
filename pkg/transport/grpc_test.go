package transport_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/objectstack/portal/internal/testutil/grpcbuf"
	"github.com/objectstack/portal/pkg/transport"
)

func echoHandler(ctx context.Context, payload []byte) ([]byte, error) {
	return append([]byte("echo:"), payload...), nil
}

func TestGRPCInvokeRoundTrip(t *testing.T) {
	srv, lis := grpcbuf.StartServer(echoHandler)
	defer srv.Stop()

	conn, err := grpcbuf.Dial(context.Background(), lis)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	inv := transport.NewGRPCInvoker(conn)
	defer inv.Close()

	got, err := inv.Invoke(context.Background(), []byte("ping"))
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if !bytes.Equal(got, []byte("echo:ping")) {
		t.Fatalf("payload = %q", got)
	}
}

func TestGRPCHandlerErrorSurfacesAsInternal(t *testing.T) {
	srv, lis := grpcbuf.StartServer(func(ctx context.Context, payload []byte) ([]byte, error) {
		return nil, errors.New("handler exploded")
	})
	defer srv.Stop()

	conn, err := grpcbuf.Dial(context.Background(), lis)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	inv := transport.NewGRPCInvoker(conn)
	defer inv.Close()

	_, err = inv.Invoke(context.Background(), []byte("ping"))
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("err = %v, want a grpc status", err)
	}
	if st.Code() != codes.Internal {
		t.Fatalf("code = %v", st.Code())
	}
	if st.Message() != "handler exploded" {
		t.Fatalf("message = %q", st.Message())
	}
}

func TestGRPCInvokeHonorsContext(t *testing.T) {
	srv, lis := grpcbuf.StartServer(echoHandler)
	defer srv.Stop()

	conn, err := grpcbuf.Dial(context.Background(), lis)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	inv := transport.NewGRPCInvoker(conn)
	defer inv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := inv.Invoke(ctx, []byte("ping")); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
