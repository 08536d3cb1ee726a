package portal

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/objectstack/portal/pkg/auth"
	"github.com/objectstack/portal/pkg/model"
	"github.com/objectstack/portal/pkg/wire"
)

// Person is the test domain entity.
type Person struct {
	model.SaveMeta
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func init() {
	if _, err := wire.RegisterType("Person", Person{}); err != nil {
		panic(err)
	}
}

// personStore is the service-role dependency of the Person operations.
type personStore struct {
	mu      sync.Mutex
	rows    map[int64]Person
	inserts int
	updates int
	deletes int
}

func newPersonStore() *personStore {
	return &personStore{rows: make(map[int64]Person)}
}

func (s *personStore) get(id int64) (Person, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	return p, ok
}

func (s *personStore) put(p Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[p.ID] = p
}

// asPerson normalizes an argument that may arrive as a pointer (local calls)
// or as a decoded value (remote calls).
func asPerson(v any) *Person {
	switch p := v.(type) {
	case *Person:
		return p
	case Person:
		return &p
	}
	return nil
}

// personOps builds the execution-side registry for the Person entity.
func personOps() *Registry {
	reg := NewRegistry()
	ops := []*model.Operation{
		{
			Entity: "Person", Kind: model.Create,
			Returns: model.ReturnEntity, Result: "Person",
			Func: func(ctx context.Context, args []any) (any, error) {
				p := &Person{Name: "unnamed"}
				p.MarkNew()
				return p, nil
			},
		},
		{
			Entity: "Person", Kind: model.Fetch,
			Params: []model.Param{
				{Name: "id", Type: "int64", Role: model.RoleOrdinary},
				{Name: "store", Type: "PersonStore", Role: model.RoleService},
			},
			Returns: model.ReturnEntity, Result: "Person",
			Func: func(ctx context.Context, args []any) (any, error) {
				st := args[1].(*personStore)
				p, ok := st.get(args[0].(int64))
				if !ok {
					return (*Person)(nil), nil
				}
				return &p, nil
			},
		},
		{
			Entity: "Person", Kind: model.Insert,
			Params: []model.Param{
				{Name: "person", Type: "Person", Role: model.RoleOrdinary},
				{Name: "store", Type: "PersonStore", Role: model.RoleService},
			},
			Returns: model.ReturnEntity, Result: "Person",
			Func: func(ctx context.Context, args []any) (any, error) {
				p := asPerson(args[0])
				st := args[1].(*personStore)
				st.mu.Lock()
				st.inserts++
				st.mu.Unlock()
				st.put(*p)
				return p, nil
			},
		},
		{
			Entity: "Person", Kind: model.Update,
			Params: []model.Param{
				{Name: "person", Type: "Person", Role: model.RoleOrdinary},
				{Name: "store", Type: "PersonStore", Role: model.RoleService},
			},
			Returns: model.ReturnBool,
			Func: func(ctx context.Context, args []any) (any, error) {
				p := asPerson(args[0])
				st := args[1].(*personStore)
				if _, ok := st.get(p.ID); !ok {
					return false, nil
				}
				st.mu.Lock()
				st.updates++
				st.mu.Unlock()
				st.put(*p)
				return true, nil
			},
		},
		{
			Entity: "Person", Kind: model.Delete,
			Params: []model.Param{
				{Name: "person", Type: "Person", Role: model.RoleOrdinary},
				{Name: "store", Type: "PersonStore", Role: model.RoleService},
			},
			Func: func(ctx context.Context, args []any) (any, error) {
				p := asPerson(args[0])
				st := args[1].(*personStore)
				st.mu.Lock()
				st.deletes++
				delete(st.rows, p.ID)
				st.mu.Unlock()
				return nil, nil
			},
		},
	}
	for _, op := range ops {
		if err := reg.Register(op); err != nil {
			panic(err)
		}
	}
	return reg
}

func localPortal(store *personStore, opts ...Option) *Portal {
	opts = append([]Option{WithResolver(MapResolver{"PersonStore": store})}, opts...)
	return New(personOps(), opts...)
}

func TestLocalFetch(t *testing.T) {
	store := newPersonStore()
	store.put(Person{ID: 7, Name: "Ada"})
	p := localPortal(store)

	out := p.Fetch(context.Background(), "Person", int64(7))
	if out.State() != model.StateSucceeded {
		t.Fatalf("state = %v, err = %v", out.State(), out.Err())
	}
	v, present := out.Value()
	if !present {
		t.Fatal("entity absent")
	}
	if got := v.(*Person); got.Name != "Ada" {
		t.Fatalf("fetched %+v", got)
	}
}

func TestLocalFetchMissingIsAbsent(t *testing.T) {
	p := localPortal(newPersonStore())
	out := p.Fetch(context.Background(), "Person", int64(404))
	if out.State() != model.StateSucceeded {
		t.Fatalf("state = %v, err = %v", out.State(), out.Err())
	}
	if _, present := out.Value(); present {
		t.Fatal("missing row produced an entity")
	}
}

func TestUnknownOperation(t *testing.T) {
	p := localPortal(newPersonStore())
	out := p.Fetch(context.Background(), "Ghost", int64(1))
	if out.State() != model.StateFailed {
		t.Fatalf("state = %v", out.State())
	}
	if !errors.Is(out.Err(), ErrOperationNotFound) {
		t.Fatalf("err = %v", out.Err())
	}
}

// TestOverloadsResolveByArity registers two fetch overloads for one entity
// and verifies the argument count selects between them.
func TestOverloadsResolveByArity(t *testing.T) {
	reg := NewRegistry()
	register := func(op *model.Operation) {
		if err := reg.Register(op); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	register(&model.Operation{
		Entity: "Report", Kind: model.Fetch,
		Params:  []model.Param{{Name: "id", Type: "int64", Role: model.RoleOrdinary}},
		Returns: model.ReturnBool,
		Func: func(ctx context.Context, args []any) (any, error) {
			return true, nil
		},
	})
	register(&model.Operation{
		Entity: "Report", Kind: model.Fetch,
		Params: []model.Param{
			{Name: "id", Type: "int64", Role: model.RoleOrdinary},
			{Name: "region", Type: "string", Role: model.RoleOrdinary},
		},
		Returns: model.ReturnBool,
		Func: func(ctx context.Context, args []any) (any, error) {
			return false, nil
		},
	})

	p := New(reg)
	if _, present := p.Fetch(context.Background(), "Report", int64(1)).Value(); !present {
		t.Fatal("one-argument overload not selected")
	}
	if _, present := p.Fetch(context.Background(), "Report", int64(1), "eu").Value(); present {
		t.Fatal("two-argument overload not selected")
	}
}

func TestDuplicateOverloadRejected(t *testing.T) {
	reg := NewRegistry()
	op := func() *model.Operation {
		return &model.Operation{
			Entity: "Report", Kind: model.Fetch,
			Params: []model.Param{{Name: "id", Type: "int64", Role: model.RoleOrdinary}},
			Func: func(ctx context.Context, args []any) (any, error) {
				return nil, nil
			},
		}
	}
	if err := reg.Register(op()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(op()); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

// TestDenialSkipsBody verifies a denied call never reaches the operation
// body and carries the rule's message.
func TestDenialSkipsBody(t *testing.T) {
	invoked := 0
	reg := NewRegistry()
	err := reg.Register(&model.Operation{
		Entity: "Vault", Kind: model.Fetch,
		Returns: model.ReturnBool,
		Func: func(ctx context.Context, args []any) (any, error) {
			invoked++
			return true, nil
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	rules := auth.NewRuleSet()
	rules.Bind("Vault", model.Fetch, auth.MessageRule(func(ctx context.Context, s auth.Subject) (string, error) {
		return "vault access is restricted", nil
	}))
	p := New(reg, WithGate(auth.NewGate(rules)))

	out := p.Fetch(context.Background(), "Vault")
	if out.State() != model.StateDenied {
		t.Fatalf("state = %v", out.State())
	}
	if out.Message() != "vault access is restricted" {
		t.Fatalf("message = %q", out.Message())
	}
	if invoked != 0 {
		t.Fatalf("denied call invoked the body %d times", invoked)
	}
	if out.Err() != nil {
		t.Fatal("denial surfaced as an error")
	}
}

func TestServiceUnresolvedFailsCall(t *testing.T) {
	// No resolver configured at all.
	p := New(personOps())
	out := p.Fetch(context.Background(), "Person", int64(1))
	if out.State() != model.StateFailed {
		t.Fatalf("state = %v", out.State())
	}
	if !errors.Is(out.Err(), ErrServiceUnresolved) {
		t.Fatalf("err = %v", out.Err())
	}

	// A resolver missing the requested entry fails the same way.
	p = New(personOps(), WithResolver(MapResolver{}))
	out = p.Fetch(context.Background(), "Person", int64(1))
	if !errors.Is(out.Err(), ErrServiceUnresolved) {
		t.Fatalf("err = %v", out.Err())
	}
}

func TestCanExecutePrecheck(t *testing.T) {
	rules := auth.NewRuleSet()
	rules.Bind("Person", model.Delete, auth.BoolRule(func(ctx context.Context, s auth.Subject) (bool, error) {
		return s.Principal == "admin", nil
	}))
	p := localPortal(newPersonStore(), WithGate(auth.NewGate(rules)))

	v, err := p.CanExecute(context.Background(), "Person", model.Delete)
	if err != nil {
		t.Fatalf("precheck: %v", err)
	}
	if v.HasAccess {
		t.Fatal("anonymous precheck granted")
	}

	ctx := auth.ContextWithPrincipal(context.Background(), "admin")
	v, err = p.CanExecute(ctx, "Person", model.Delete)
	if err != nil {
		t.Fatalf("precheck: %v", err)
	}
	if !v.HasAccess {
		t.Fatal("admin precheck denied")
	}
}

func TestRegisterRejectsUnknownWireTypes(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(&model.Operation{
		Entity: "Person", Kind: model.Fetch,
		Params: []model.Param{{Name: "filter", Type: "NoSuchType", Role: model.RoleOrdinary}},
		Func: func(ctx context.Context, args []any) (any, error) {
			return nil, nil
		},
	})
	if err == nil {
		t.Fatal("expected error for unknown parameter type")
	}

	err = reg.Register(&model.Operation{
		Entity: "Person", Kind: model.Fetch,
		Returns: model.ReturnEntity, Result: "NoSuchType",
		Func: func(ctx context.Context, args []any) (any, error) {
			return nil, nil
		},
	})
	if err == nil {
		t.Fatal("expected error for unknown result type")
	}
}
