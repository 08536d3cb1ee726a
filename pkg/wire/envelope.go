package wire

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/objectstack/portal/pkg/model"
)

// Envelope is the transported argument set of one call. It carries its own
// format tag; the receiving side decodes with the matching strategy per
// message rather than assuming both peers share a configuration.
type Envelope struct {
	Format     Format                     `json:"format"`
	Positional []json.RawMessage          `json:"positional,omitempty"`
	Fields     map[string]json.RawMessage `json:"fields,omitempty"`
}

// EncodeArgs packs caller arguments for the given wire-visible parameters.
// The params slice must contain ordinary-role parameters only (see
// Operation.WireParams); service and cancellation parameters never enter an
// envelope. A variadic argument is one slice occupying one slot; a nil
// variadic encodes as an empty sequence, not null.
func EncodeArgs(params []model.Param, args []any, f Format) (*Envelope, error) {
	if len(args) != len(params) {
		return nil, fmt.Errorf("wire: %d arguments for %d parameters", len(args), len(params))
	}
	env := &Envelope{Format: f}
	if f == FormatNamed {
		env.Fields = make(map[string]json.RawMessage, len(params))
	} else {
		env.Positional = make([]json.RawMessage, 0, len(params))
	}
	for i, p := range params {
		if p.Role != model.RoleOrdinary {
			return nil, fmt.Errorf("wire: parameter %q does not cross the wire", p.Name)
		}
		arg := args[i]
		if p.Variadic && arg == nil {
			arg = emptySequence(p)
		}
		raw, err := EncodeValue(arg, f)
		if err != nil {
			return nil, fmt.Errorf("wire: argument %q: %w", p.Name, err)
		}
		if f == FormatNamed {
			env.Fields[p.Name] = raw
		} else {
			env.Positional = append(env.Positional, raw)
		}
	}
	return env, nil
}

// DecodeArgs unpacks an envelope against the same parameter list used to
// encode it. Each value is decoded into a fresh instance of the parameter's
// declared type. A named envelope may omit a nullable parameter (decoded as
// nil) or a variadic one (decoded as an empty sequence); anything else
// missing is an error.
func (e *Envelope) DecodeArgs(params []model.Param) ([]any, error) {
	// The format tag arrives verbatim from the peer. Normalize it the same
	// way a deployment setting is normalized: anything that is not "named"
	// is ordinal, and the ordinal arity guard must hold before any slot is
	// read.
	f := ParseFormat(string(e.Format))
	if f == FormatOrdinal && len(e.Positional) != len(params) {
		return nil, fmt.Errorf("wire: ordinal envelope has %d values, operation declares %d", len(e.Positional), len(params))
	}
	out := make([]any, len(params))
	for i, p := range params {
		target, err := paramType(p)
		if err != nil {
			return nil, err
		}
		var raw json.RawMessage
		if f == FormatNamed {
			enc, ok := e.Fields[p.Name]
			if !ok {
				switch {
				case p.Nullable:
					out[i] = reflect.Zero(target).Interface()
					continue
				case p.Variadic:
					out[i] = reflect.MakeSlice(target, 0, 0).Interface()
					continue
				default:
					return nil, fmt.Errorf("wire: missing argument %q", p.Name)
				}
			}
			raw = enc
		} else {
			raw = e.Positional[i]
		}
		v, err := DecodeValue(raw, target, f)
		if err != nil {
			return nil, fmt.Errorf("wire: argument %q: %w", p.Name, err)
		}
		out[i] = v
	}
	return out, nil
}

// paramType resolves a parameter's declared wire type to the Go type the
// decoder should produce: base type, slice of it when variadic, pointer to it
// when nullable.
func paramType(p model.Param) (reflect.Type, error) {
	base, ok := TypeOf(p.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %s (parameter %q)", ErrTypeNotRegistered, p.Type, p.Name)
	}
	t := base
	if p.Variadic {
		t = reflect.SliceOf(t)
	}
	if p.Nullable {
		t = reflect.PointerTo(t)
	}
	return t, nil
}

func emptySequence(p model.Param) any {
	base, ok := TypeOf(p.Type)
	if !ok {
		return []any{}
	}
	return reflect.MakeSlice(reflect.SliceOf(base), 0, 0).Interface()
}
