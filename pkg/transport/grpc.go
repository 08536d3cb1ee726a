package transport

import (
	"context"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	grpcServiceName = "portal.Portal"
	grpcFullMethod  = "/portal.Portal/Invoke"
)

type grpcInvoker struct {
	conn *grpc.ClientConn
}

// NewGRPCInvoker wraps an existing client connection (e.g. one dialed over
// bufconn in tests) as an Invoker.
func NewGRPCInvoker(conn *grpc.ClientConn) Invoker {
	return &grpcInvoker{conn: conn}
}

// dialGRPC ignores the dial context: grpc.NewClient never blocks, the
// connection is established lazily, and every RPC is bounded by its own call
// context. Connect only kicks off the first attempt in the background.
func dialGRPC(_ context.Context, addr string) (Invoker, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	conn.Connect()
	return &grpcInvoker{conn: conn}, nil
}

func (c *grpcInvoker) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	out := &wrapperspb.BytesValue{}
	if err := c.conn.Invoke(ctx, grpcFullMethod, wrapperspb.Bytes(payload), out); err != nil {
		return nil, err
	}
	return out.GetValue(), nil
}

func (c *grpcInvoker) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// portalServer is the service contract behind the hand-written ServiceDesc.
type portalServer interface {
	Invoke(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

type handlerService struct {
	h Handler
}

func (s *handlerService) Invoke(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	out, err := s.h(ctx, in.GetValue())
	if err != nil {
		if ctx.Err() != nil {
			return nil, status.FromContextError(ctx.Err()).Err()
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.Bytes(out), nil
}

func _Portal_Invoke_Handler(
	srv interface{},
	ctx context.Context,
	dec func(interface{}) error,
	interceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(portalServer).Invoke(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: grpcFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(portalServer).Invoke(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// portalServiceDesc describes the portal unary service without a protoc step;
// payloads are framed as protobuf BytesValue messages.
var portalServiceDesc = grpc.ServiceDesc{
	ServiceName: grpcServiceName,
	HandlerType: (*portalServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Invoke", Handler: _Portal_Invoke_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "portal",
}

// RegisterGRPC exposes a portal handler on an existing gRPC server. Tests use
// this with bufconn; listenGRPC uses it for real listeners.
func RegisterGRPC(s *grpc.Server, h Handler) {
	s.RegisterService(&portalServiceDesc, &handlerService{h: h})
}

type grpcServer struct {
	srv *grpc.Server
	lis net.Listener
}

func listenGRPC(addr string, h Handler) (Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := grpc.NewServer()
	RegisterGRPC(srv, h)
	return &grpcServer{srv: srv, lis: lis}, nil
}

func (s *grpcServer) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(s.lis) }()
	select {
	case <-ctx.Done():
		zap.L().Info("portal grpc server stopping", zap.String("addr", s.Addr()))
		s.srv.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *grpcServer) Close() error {
	s.srv.Stop()
	return nil
}

func (s *grpcServer) Addr() string {
	return s.lis.Addr().String()
}
