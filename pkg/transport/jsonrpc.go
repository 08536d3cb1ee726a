package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	gorillarpc "github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
	"go.uber.org/zap"
)

const jsonrpcMethod = "Portal.Invoke"

// InvokeArgs is the JSON-RPC request parameter: the encoded call envelope.
type InvokeArgs struct {
	Payload json.RawMessage `json:"payload"`
}

// InvokeReply is the JSON-RPC response: the encoded result envelope.
type InvokeReply struct {
	Payload json.RawMessage `json:"payload"`
}

// PortalService adapts a Handler to gorilla/rpc's service shape.
type PortalService struct {
	h Handler
}

// Invoke is the single JSON-RPC method. Transport-level errors become
// JSON-RPC faults; denials and operation failures travel inside the payload.
func (p *PortalService) Invoke(r *http.Request, args *InvokeArgs, reply *InvokeReply) error {
	out, err := p.h(r.Context(), args.Payload)
	if err != nil {
		return err
	}
	reply.Payload = out
	return nil
}

// JSONRPCHTTPHandler builds the http.Handler serving the portal JSON-RPC
// endpoint, for mounting on an existing mux or an httptest server.
func JSONRPCHTTPHandler(h Handler) http.Handler {
	srv := gorillarpc.NewServer()
	srv.RegisterCodec(json2.NewCodec(), "application/json")
	if err := srv.RegisterService(&PortalService{h: h}, "Portal"); err != nil {
		// RegisterService only fails on a malformed service shape, which is
		// a programming error in this package.
		panic(err)
	}
	return srv
}

type jsonrpcInvoker struct {
	url    string
	client *http.Client
}

// NewJSONRPCInvoker builds an Invoker posting to the given endpoint URL.
func NewJSONRPCInvoker(url string) Invoker {
	return &jsonrpcInvoker{url: url, client: &http.Client{}}
}

func dialJSONRPC(_ context.Context, addr string) (Invoker, error) {
	url := addr
	if !strings.Contains(url, "://") {
		url = "http://" + url
	}
	if !strings.HasSuffix(url, "/rpc") {
		url = strings.TrimRight(url, "/") + "/rpc"
	}
	return NewJSONRPCInvoker(url), nil
}

func (c *jsonrpcInvoker) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	body, err := json2.EncodeClientRequest(jsonrpcMethod, &InvokeArgs{Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("transport: encoding jsonrpc request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("transport: jsonrpc endpoint returned status %d", resp.StatusCode)
	}
	var reply InvokeReply
	if err := json2.DecodeClientResponse(resp.Body, &reply); err != nil {
		return nil, fmt.Errorf("transport: decoding jsonrpc response: %w", err)
	}
	return reply.Payload, nil
}

func (c *jsonrpcInvoker) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// drainAndClose empties a response body before closing so the connection can
// be reused.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

type jsonrpcServer struct {
	srv *http.Server
	lis net.Listener
}

func listenJSONRPC(addr string, h Handler) (Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/rpc", JSONRPCHTTPHandler(h))
	return &jsonrpcServer{
		srv: &http.Server{Handler: mux},
		lis: lis,
	}, nil
}

func (s *jsonrpcServer) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(s.lis) }()
	select {
	case <-ctx.Done():
		zap.L().Info("portal jsonrpc server stopping", zap.String("addr", s.Addr()))
		return s.srv.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *jsonrpcServer) Close() error {
	return s.srv.Close()
}

func (s *jsonrpcServer) Addr() string {
	return s.lis.Addr().String()
}
