package portal

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/objectstack/portal/pkg/auth"
	"github.com/objectstack/portal/pkg/model"
	"github.com/objectstack/portal/pkg/wire"
)

// Handler is the execution side of remote dispatch. It decodes the request
// envelope into fresh values, resolves service-role parameters, runs the
// authorization gate - the authoritative check, exactly once per physical
// execution - and invokes the operation body only when granted.
type Handler struct {
	reg      *Registry
	gate     *auth.Gate
	resolver Resolver
	format   wire.Format
}

// NewHandler builds a handler. The gate and resolver may be nil: a nil gate
// grants everything, a nil resolver fails any operation that declares a
// service-role parameter.
func NewHandler(reg *Registry, gate *auth.Gate, resolver Resolver, format wire.Format) *Handler {
	return &Handler{reg: reg, gate: gate, resolver: resolver, format: format}
}

// Handle implements transport.Handler. Cancellation arrives on ctx,
// re-materialized by the transport from its own signal (connection abort,
// gRPC cancellation), so the operation body observes the same state the
// caller triggered.
func (h *Handler) Handle(ctx context.Context, payload []byte) ([]byte, error) {
	return json.Marshal(h.handle(ctx, payload))
}

func (h *Handler) handle(ctx context.Context, payload []byte) callResponse {
	var req callRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return failedResponse(h.format, fmt.Errorf("portal: malformed request envelope: %w", err))
	}
	kind, err := model.ParseKind(req.Kind)
	if err != nil {
		return failedResponse(h.format, err)
	}
	op, ok := h.reg.Lookup(req.Entity, kind, req.Arity)
	if !ok {
		return failedResponse(h.format, fmt.Errorf("%w: %s %s/%d", ErrOperationNotFound, req.Entity, kind, req.Arity))
	}
	if req.Args == nil {
		return failedResponse(h.format, fmt.Errorf("portal: %s %s: request carries no argument envelope", req.Entity, kind))
	}

	// Decode into fresh values before anything is invoked; a malformed
	// envelope fails the call without touching any target entity.
	args, err := req.Args.DecodeArgs(op.WireParams())
	if err != nil {
		return failedResponse(h.format, err)
	}
	full, err := assemble(op, args, h.resolver)
	if err != nil {
		return failedResponse(h.format, err)
	}

	verdict, err := h.gate.Evaluate(ctx, auth.Subject{
		Entity:    op.Entity,
		Kind:      op.Kind,
		Principal: auth.PrincipalFrom(ctx),
		Args:      args,
	})
	if err != nil {
		return failedResponse(h.format, err)
	}
	if !verdict.HasAccess {
		zap.L().Debug("portal call denied",
			zap.String("entity", op.Entity),
			zap.Stringer("kind", op.Kind),
			zap.String("reason", verdict.Message))
		return deniedResponse(h.format, verdict.Message)
	}

	res, err := op.Func(ctx, full)
	if err != nil {
		zap.L().Warn("portal operation failed",
			zap.String("entity", op.Entity),
			zap.Stringer("kind", op.Kind),
			zap.Error(err))
		return failedResponse(h.format, err)
	}
	return h.okResponse(op, res)
}

func (h *Handler) okResponse(op *model.Operation, res any) callResponse {
	out := callResponse{Format: h.format, Status: statusOK}
	switch op.Returns {
	case model.ReturnBool:
		b, _ := res.(bool)
		raw, err := json.Marshal(b)
		if err != nil {
			return failedResponse(h.format, err)
		}
		out.Result = raw
	case model.ReturnEntity:
		if isNil(res) {
			break
		}
		raw, err := wire.EncodeValue(res, h.format)
		if err != nil {
			return failedResponse(h.format, err)
		}
		out.Result = raw
	}
	return out
}
