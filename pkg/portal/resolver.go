package portal

import (
	"errors"
	"fmt"

	"github.com/objectstack/portal/pkg/model"
)

// ErrServiceUnresolved is returned when a service-role parameter cannot be
// resolved. This is a deployment defect and fails the whole call; it is
// never surfaced as a denial.
var ErrServiceUnresolved = errors.New("portal: service not resolved")

// Resolver supplies instances for service-role parameters, keyed by the
// parameter's declared type name. It is threaded explicitly through the
// handler; there is no global container.
type Resolver interface {
	Resolve(name string) (any, error)
}

// MapResolver is the simplest Resolver: a fixed name-to-instance table.
type MapResolver map[string]any

// Resolve implements Resolver.
func (m MapResolver) Resolve(name string) (any, error) {
	v, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServiceUnresolved, name)
	}
	return v, nil
}

// assemble builds the full argument list the operation body expects:
// wire-visible values in declaration order interleaved with resolved
// service instances, cancellation omitted (it rides on ctx).
func assemble(op *model.Operation, wireArgs []any, r Resolver) ([]any, error) {
	if len(wireArgs) != op.Arity() {
		return nil, fmt.Errorf("portal: %s %s: %d arguments for %d parameters", op.Entity, op.Kind, len(wireArgs), op.Arity())
	}
	full := make([]any, 0, len(op.Params))
	next := 0
	for _, p := range op.Params {
		switch p.Role {
		case model.RoleOrdinary:
			full = append(full, wireArgs[next])
			next++
		case model.RoleService:
			if r == nil {
				return nil, fmt.Errorf("%w: %s (no resolver configured)", ErrServiceUnresolved, p.Type)
			}
			svc, err := r.Resolve(p.Type)
			if err != nil {
				return nil, err
			}
			full = append(full, svc)
		case model.RoleCancellation:
			// Rides on ctx, not on the argument list.
		}
	}
	return full, nil
}
