package portal

import (
	"context"
	"fmt"

	"github.com/objectstack/portal/pkg/model"
)

// Route selects the operation kind from an entity's lifecycle flags. IsNew
// is checked before IsDeleted, so an entity carrying both flags routes to
// Insert; the boundary case is pinned by tests rather than assumed.
func Route(e model.Lifecycle) model.Kind {
	switch {
	case e.IsNew():
		return model.Insert
	case e.IsDeleted():
		return model.Delete
	default:
		return model.Update
	}
}

// Save routes the entity to Insert, Update, or Delete and dispatches the
// selected operation, authorization rule included, exactly like a direct
// call. On success the saved entity is returned with its lifecycle marked
// persisted; on denial or an unsuccessful operation the outcome carries no
// entity at all.
func (p *Portal) Save(ctx context.Context, entity string, value any) model.Outcome {
	life, ok := value.(model.Lifecycle)
	if !ok {
		return model.Fail(fmt.Errorf("portal: %s value of type %T does not expose lifecycle flags", entity, value))
	}
	kind := Route(life)

	op, found := p.reg.Lookup(entity, kind, 1)
	if !found {
		return model.Fail(fmt.Errorf("%w: %s %s/1", ErrOperationNotFound, entity, kind))
	}
	out := p.call(ctx, entity, kind, []any{value})
	if out.State() != model.StateSucceeded {
		return out
	}

	if kind == model.Delete {
		return model.Succeed(nil)
	}
	result, present := out.Value()
	switch {
	case op.Returns == model.ReturnNone:
		// Void success: the caller's instance is the saved entity.
		result = value
	case !present:
		// Boolean false or nil entity: no entity, never a partial one.
		return model.Succeed(nil)
	case op.Returns == model.ReturnBool:
		result = value
	}
	if m, ok := result.(model.OldMarker); ok {
		m.MarkOld()
	}
	return model.Succeed(result)
}
