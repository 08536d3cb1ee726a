package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind identifies one of the five portal operation kinds.
type Kind int

const (
	Create Kind = iota
	Fetch
	Insert
	Update
	Delete
)

var kindNames = [...]string{"create", "fetch", "insert", "update", "delete"}

// String returns the lowercase wire name of the kind.
func (k Kind) String() string {
	if k < Create || k > Delete {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind parses a wire kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return Create, fmt.Errorf("unknown operation kind %q", s)
}

// Role classifies how a parameter is supplied during dispatch.
type Role int

const (
	// RoleOrdinary parameters are supplied by the caller and cross the wire.
	RoleOrdinary Role = iota
	// RoleService parameters are resolved from the execution-side resolver.
	// They are never serialized and never appear in a remote signature.
	RoleService
	// RoleCancellation marks the cooperative-cancellation parameter. It maps
	// onto the call's context.Context and is never serialized; at most one
	// may appear in a parameter list.
	RoleCancellation
)

// Param describes a single operation parameter.
type Param struct {
	// Name is the declared parameter name; it keys the value in the named
	// wire format.
	Name string
	// Type is the wire type name: a builtin ("string", "int64", "decimal",
	// "uuid", "timestamp", ...) or the name of a registered composite type.
	// For a variadic parameter it names the element type.
	Type string
	// Role determines whether the parameter crosses the wire.
	Role Role
	// Variadic parameters accept zero or more trailing values of the element
	// type, flattened into a single envelope slot.
	Variadic bool
	// Nullable parameters are pointers whose nil state encodes an explicit
	// wire null.
	Nullable bool
}

// ReturnShape describes what an operation hands back on success.
type ReturnShape int

const (
	// ReturnNone is the void-equivalent shape.
	ReturnNone ReturnShape = iota
	// ReturnBool is a success flag; false means "no entity".
	ReturnBool
	// ReturnEntity is the mutated or produced entity.
	ReturnEntity
)

// OpFunc is the bound operation body. The args slice aligns with the
// operation's non-cancellation parameters in declaration order: ordinary
// parameters hold decoded caller values (a variadic parameter holds its
// slice), service parameters hold resolved instances. Cancellation is
// observed through ctx.
type OpFunc func(ctx context.Context, args []any) (any, error)

// Operation is the registration-time descriptor of a single domain operation.
type Operation struct {
	// Entity is the owning domain type name.
	Entity string
	// Kind is the operation kind.
	Kind Kind
	// Remote marks the operation for proxy/handler dispatch across the
	// transport boundary instead of inline execution.
	Remote bool
	// Params is the ordered parameter list.
	Params []Param
	// Returns is the shape of a successful result.
	Returns ReturnShape
	// Result names the wire type of the returned entity. Required when
	// Returns is ReturnEntity, ignored otherwise.
	Result string
	// Func is the operation body.
	Func OpFunc
}

// WireParams returns the parameters that cross the wire (ordinary role only),
// in declaration order.
func (o *Operation) WireParams() []Param {
	out := make([]Param, 0, len(o.Params))
	for _, p := range o.Params {
		if p.Role == RoleOrdinary {
			out = append(out, p)
		}
	}
	return out
}

// Arity is the number of wire-visible parameters. It is the overload key the
// registry uses alongside entity and kind.
func (o *Operation) Arity() int {
	return len(o.WireParams())
}

// Validate checks structural invariants of the descriptor.
func (o *Operation) Validate() error {
	if o.Entity == "" {
		return errors.New("operation entity is required")
	}
	if o.Func == nil && !o.Remote {
		// A proxy-side registration of a remote operation carries no body;
		// everything else must be invocable.
		return fmt.Errorf("%s %s: operation func is required", o.Entity, o.Kind)
	}
	if o.Returns == ReturnEntity && o.Result == "" {
		return fmt.Errorf("%s %s: entity-returning operation needs a result type", o.Entity, o.Kind)
	}
	cancellations := 0
	for i, p := range o.Params {
		if p.Name == "" && p.Role == RoleOrdinary {
			return fmt.Errorf("%s %s: parameter %d has no name", o.Entity, o.Kind, i)
		}
		switch p.Role {
		case RoleCancellation:
			cancellations++
			if cancellations > 1 {
				return fmt.Errorf("%s %s: at most one cancellation parameter is allowed", o.Entity, o.Kind)
			}
			if p.Variadic || p.Nullable {
				return fmt.Errorf("%s %s: cancellation parameter %q cannot be variadic or nullable", o.Entity, o.Kind, p.Name)
			}
		case RoleService:
			if p.Variadic {
				return fmt.Errorf("%s %s: service parameter %q cannot be variadic", o.Entity, o.Kind, p.Name)
			}
		}
	}
	wire := o.WireParams()
	for i, p := range wire {
		if p.Variadic && i != len(wire)-1 {
			return fmt.Errorf("%s %s: variadic parameter %q must be last", o.Entity, o.Kind, p.Name)
		}
	}
	return nil
}
