package portal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/objectstack/portal/pkg/model"
	"github.com/objectstack/portal/pkg/wire"
)

// ErrOperationNotFound is returned when no descriptor matches an (entity,
// kind, arity) triple.
var ErrOperationNotFound = errors.New("portal: operation not found")

type opKey struct {
	entity string
	kind   model.Kind
	arity  int
}

// Registry holds the operation descriptors of one process. Descriptors are
// added during startup registration and only read afterwards.
type Registry struct {
	mu  sync.RWMutex
	ops map[opKey]*model.Operation
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[opKey]*model.Operation)}
}

// Register validates and stores a descriptor. Parameter and result types
// must already resolve against the wire type registry, so a misdeclared
// operation fails here, at registration time, not mid-call.
func (r *Registry) Register(op *model.Operation) error {
	if err := op.Validate(); err != nil {
		return err
	}
	for _, p := range op.WireParams() {
		if _, ok := wire.TypeOf(p.Type); !ok {
			return fmt.Errorf("portal: %s %s: parameter %q has unknown wire type %q", op.Entity, op.Kind, p.Name, p.Type)
		}
	}
	if op.Returns == model.ReturnEntity {
		if _, ok := wire.TypeOf(op.Result); !ok {
			return fmt.Errorf("portal: %s %s: unknown result type %q", op.Entity, op.Kind, op.Result)
		}
	}

	key := opKey{op.Entity, op.Kind, op.Arity()}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.ops[key]; dup {
		return fmt.Errorf("portal: %s %s with %d wire parameters already registered", op.Entity, op.Kind, key.arity)
	}
	r.ops[key] = op
	return nil
}

// Lookup resolves a descriptor by entity, kind, and wire-visible arity.
func (r *Registry) Lookup(entity string, kind model.Kind, arity int) (*model.Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[opKey{entity, kind, arity}]
	return op, ok
}
