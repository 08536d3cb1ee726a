package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/objectstack/portal/pkg/auth"
	"github.com/objectstack/portal/pkg/model"
	"github.com/objectstack/portal/pkg/transport"
	"github.com/objectstack/portal/pkg/wire"
)

// init configures a default global zap logger. Applications may replace it
// with zap.ReplaceGlobals(...) if they need custom logging.
func init() {
	c := zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.InfoLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

// Portal is the caller-side facade. Local operations run inline; operations
// marked Remote are dispatched through the configured transport invoker.
type Portal struct {
	reg      *Registry
	gate     *auth.Gate
	resolver Resolver
	remote   transport.Invoker
	format   wire.Format
}

// Option customizes a Portal.
type Option func(*Portal)

// WithGate installs the authorization gate used for local execution.
func WithGate(g *auth.Gate) Option {
	return func(p *Portal) { p.gate = g }
}

// WithResolver installs the resolver for service-role parameters of local
// operations.
func WithResolver(r Resolver) Option {
	return func(p *Portal) { p.resolver = r }
}

// WithRemote installs the transport invoker used for Remote-marked
// operations. Without one, every operation executes locally.
func WithRemote(inv transport.Invoker) Option {
	return func(p *Portal) { p.remote = inv }
}

// WithFormat sets the deployment's outbound serialization format.
func WithFormat(f wire.Format) Option {
	return func(p *Portal) { p.format = f }
}

// New builds a Portal over a registry. The default format is ordinal.
func New(reg *Registry, opts ...Option) *Portal {
	p := &Portal{reg: reg, format: wire.FormatOrdinal}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Create dispatches the entity's Create operation matching the argument count.
func (p *Portal) Create(ctx context.Context, entity string, args ...any) model.Outcome {
	return p.call(ctx, entity, model.Create, args)
}

// Fetch dispatches the entity's Fetch operation matching the argument count.
func (p *Portal) Fetch(ctx context.Context, entity string, args ...any) model.Outcome {
	return p.call(ctx, entity, model.Fetch, args)
}

// Insert dispatches the entity's Insert operation matching the argument count.
func (p *Portal) Insert(ctx context.Context, entity string, args ...any) model.Outcome {
	return p.call(ctx, entity, model.Insert, args)
}

// Update dispatches the entity's Update operation matching the argument count.
func (p *Portal) Update(ctx context.Context, entity string, args ...any) model.Outcome {
	return p.call(ctx, entity, model.Update, args)
}

// Delete dispatches the entity's Delete operation matching the argument count.
func (p *Portal) Delete(ctx context.Context, entity string, args ...any) model.Outcome {
	return p.call(ctx, entity, model.Delete, args)
}

// CanExecute runs the locally-known rule for (entity, kind) as a best-effort
// precheck, for callers that want to disable a button before trying. The
// execution-side gate remains the sole authority; a grant here proves
// nothing.
func (p *Portal) CanExecute(ctx context.Context, entity string, kind model.Kind) (auth.Verdict, error) {
	return p.gate.Evaluate(ctx, auth.Subject{
		Entity:    entity,
		Kind:      kind,
		Principal: auth.PrincipalFrom(ctx),
	})
}

func (p *Portal) call(ctx context.Context, entity string, kind model.Kind, args []any) model.Outcome {
	op, ok := p.reg.Lookup(entity, kind, len(args))
	if !ok {
		return model.Fail(fmt.Errorf("%w: %s %s/%d", ErrOperationNotFound, entity, kind, len(args)))
	}
	if op.Remote && p.remote != nil {
		return p.invokeRemote(ctx, op, args)
	}
	if op.Func == nil {
		return model.Fail(fmt.Errorf("portal: %s %s is remote-only and no transport is configured", op.Entity, op.Kind))
	}
	return p.invokeLocal(ctx, op, args)
}

// invokeLocal runs the gate and the operation body inline, in the caller's
// process. This is the single physical execution, so the gate runs here.
func (p *Portal) invokeLocal(ctx context.Context, op *model.Operation, args []any) model.Outcome {
	full, err := assemble(op, args, p.resolver)
	if err != nil {
		return model.Fail(err)
	}
	verdict, err := p.gate.Evaluate(ctx, auth.Subject{
		Entity:    op.Entity,
		Kind:      op.Kind,
		Principal: auth.PrincipalFrom(ctx),
		Args:      args,
	})
	if err != nil {
		return model.Fail(err)
	}
	if !verdict.HasAccess {
		return model.Deny(verdict.Message)
	}
	res, err := op.Func(ctx, full)
	if err != nil {
		return model.Fail(err)
	}
	return outcomeOf(op, res)
}

// invokeRemote is the dispatch proxy: it packages the wire-visible arguments
// (service-role parameters never leave the process), sends them, and unpacks
// the response. The caller's ctx bounds the outbound call's own lifetime; it
// is not encoded into the envelope.
func (p *Portal) invokeRemote(ctx context.Context, op *model.Operation, args []any) model.Outcome {
	params := op.WireParams()
	env, err := wire.EncodeArgs(params, args, p.format)
	if err != nil {
		return model.Fail(err)
	}
	payload, err := json.Marshal(callRequest{
		Entity: op.Entity,
		Kind:   op.Kind.String(),
		Arity:  len(params),
		Args:   env,
	})
	if err != nil {
		return model.Fail(err)
	}

	zap.L().Debug("portal dispatching remote call",
		zap.String("entity", op.Entity),
		zap.Stringer("kind", op.Kind),
		zap.Int("arity", len(params)))

	respBytes, err := p.remote.Invoke(ctx, payload)
	if err != nil {
		return model.Fail(err)
	}
	var resp callResponse
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return model.Fail(fmt.Errorf("portal: malformed response envelope: %w", err))
	}

	switch resp.Status {
	case statusDenied:
		return model.Deny(resp.Message)
	case statusFailed:
		return model.Fail(errors.New(resp.Error))
	case statusOK:
		return p.decodeResult(op, resp)
	default:
		return model.Fail(fmt.Errorf("portal: unknown response status %q", resp.Status))
	}
}

// decodeResult unpacks a successful response body using the format tag the
// response itself carries.
func (p *Portal) decodeResult(op *model.Operation, resp callResponse) model.Outcome {
	switch op.Returns {
	case model.ReturnNone:
		return model.Succeed(nil)
	case model.ReturnBool:
		if len(resp.Result) == 0 {
			return model.Succeed(nil)
		}
		var b bool
		if err := json.Unmarshal(resp.Result, &b); err != nil {
			return model.Fail(fmt.Errorf("portal: malformed boolean result: %w", err))
		}
		if !b {
			return model.Succeed(nil)
		}
		return model.Succeed(true)
	case model.ReturnEntity:
		if len(resp.Result) == 0 || string(resp.Result) == "null" {
			return model.Succeed(nil)
		}
		base, ok := wire.TypeOf(op.Result)
		if !ok {
			return model.Fail(fmt.Errorf("%w: %s", wire.ErrTypeNotRegistered, op.Result))
		}
		v, err := wire.DecodeValue(resp.Result, reflect.PointerTo(base), resp.Format)
		if err != nil {
			return model.Fail(err)
		}
		return model.Succeed(v)
	}
	return model.Fail(fmt.Errorf("portal: unknown return shape %d", op.Returns))
}

// outcomeOf normalizes a local operation result: a false success flag and a
// nil entity both collapse to an absent value.
func outcomeOf(op *model.Operation, res any) model.Outcome {
	switch op.Returns {
	case model.ReturnBool:
		if b, ok := res.(bool); ok && b {
			return model.Succeed(true)
		}
		return model.Succeed(nil)
	case model.ReturnEntity:
		if isNil(res) {
			return model.Succeed(nil)
		}
		return model.Succeed(res)
	default:
		return model.Succeed(nil)
	}
}

// isNil reports nil including typed nil pointers boxed in an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
