package wire

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/objectstack/portal/pkg/model"
)

// ErrTypeNotRegistered is returned when a composite value's type has not been
// registered with RegisterType.
var ErrTypeNotRegistered = errors.New("wire: type not registered")

var builtins = map[string]reflect.Type{
	"string":    reflect.TypeOf(""),
	"bool":      reflect.TypeOf(false),
	"int32":     reflect.TypeOf(int32(0)),
	"int64":     reflect.TypeOf(int64(0)),
	"float64":   reflect.TypeOf(float64(0)),
	"decimal":   reflect.TypeOf(decimal.Decimal{}),
	"timestamp": reflect.TypeOf(time.Time{}),
	"uuid":      reflect.TypeOf(uuid.UUID{}),
}

// field is one wire-visible struct field. Index is the reflect field index
// path; anonymous embedded structs are flattened the way encoding/json does.
type field struct {
	name  string
	index []int
	typ   reflect.Type
}

// CtorParam describes one parameter of a composite type's real constructor,
// for eligibility analysis.
type CtorParam struct {
	Name string
	// Role marks service-role parameters, which do not block ordinal
	// eligibility because they are resolved locally, not serialized.
	Role model.Role
	// HasDefault marks parameters the constructor can fill in on its own.
	HasDefault bool
}

// TypeInfo is the immutable registration record of a composite type.
type TypeInfo struct {
	name        string
	rtype       reflect.Type
	fields      []field
	abstract    bool
	ctor        []CtorParam
	hasCtor     bool
	eligibility Eligibility
}

// Name returns the registered wire name.
func (t *TypeInfo) Name() string { return t.name }

// GoType returns the underlying struct type, nil for abstract registrations.
func (t *TypeInfo) GoType() reflect.Type { return t.rtype }

// Eligibility returns the classification computed at registration time.
func (t *TypeInfo) Eligibility() Eligibility { return t.eligibility }

// TypeOption customizes a registration.
type TypeOption func(*TypeInfo)

// WithConstructor declares the type's real constructor parameters. A type
// whose constructor requires any non-default, non-service parameter becomes
// Ineligible for ordinal encoding.
func WithConstructor(params ...CtorParam) TypeOption {
	return func(t *TypeInfo) {
		t.ctor = params
		t.hasCtor = true
	}
}

// AsAbstract marks the type non-constructible. Abstract types are always
// Ineligible.
func AsAbstract() TypeOption {
	return func(t *TypeInfo) { t.abstract = true }
}

var (
	typesByName sync.Map // string -> *TypeInfo
	typesByType sync.Map // reflect.Type -> *TypeInfo
)

// RegisterType registers a composite type under a wire name and computes its
// ordinal eligibility. The prototype must be a struct or pointer to struct.
// Registration is idempotent: concurrent or repeated registration of the same
// name returns the first record, so the classification a reader observes
// never changes.
func RegisterType(name string, prototype any, opts ...TypeOption) (*TypeInfo, error) {
	if name == "" {
		return nil, errors.New("wire: type name is required")
	}
	if _, clash := builtins[name]; clash {
		return nil, fmt.Errorf("wire: %q is a builtin type name", name)
	}
	rtype := reflect.TypeOf(prototype)
	for rtype != nil && rtype.Kind() == reflect.Pointer {
		rtype = rtype.Elem()
	}
	if rtype == nil || rtype.Kind() != reflect.Struct {
		return nil, fmt.Errorf("wire: prototype for %q must be a struct, got %v", name, rtype)
	}

	info := &TypeInfo{name: name, rtype: rtype}
	for _, opt := range opts {
		opt(info)
	}
	info.fields = structFields(rtype, nil)
	info.eligibility = classify(info)

	actual, loaded := typesByName.LoadOrStore(name, info)
	stored := actual.(*TypeInfo)
	if loaded && stored.rtype != rtype {
		return nil, fmt.Errorf("wire: type name %q already registered for %v", name, stored.rtype)
	}
	if !loaded {
		typesByType.Store(rtype, stored)
	}
	return stored, nil
}

// RegisterAbstract registers a name for a non-constructible (abstract) type.
// Values of abstract types never encode ordinally; the registration exists so
// the analyzer can answer Classify for them.
func RegisterAbstract(name string) (*TypeInfo, error) {
	if name == "" {
		return nil, errors.New("wire: type name is required")
	}
	info := &TypeInfo{name: name, abstract: true, eligibility: Ineligible}
	actual, _ := typesByName.LoadOrStore(name, info)
	return actual.(*TypeInfo), nil
}

// LookupType returns the registration record for a wire name.
func LookupType(name string) (*TypeInfo, bool) {
	v, ok := typesByName.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*TypeInfo), true
}

// typeByReflect returns the registration record for a Go struct type.
func typeByReflect(t reflect.Type) (*TypeInfo, bool) {
	v, ok := typesByType.Load(t)
	if !ok {
		return nil, false
	}
	return v.(*TypeInfo), true
}

// TypeOf resolves a wire type name to its Go type: a builtin primitive or a
// registered composite.
func TypeOf(name string) (reflect.Type, bool) {
	if t, ok := builtins[name]; ok {
		return t, true
	}
	if info, ok := LookupType(name); ok && info.rtype != nil {
		return info.rtype, true
	}
	return nil, false
}

// structFields flattens the exported fields of a struct, honoring json tags
// for wire names and recursing into anonymous embedded structs.
func structFields(t reflect.Type, prefix []int) []field {
	var out []field
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		index := append(append([]int{}, prefix...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct && f.Tag.Get("json") == "" {
			out = append(out, structFields(f.Type, index)...)
			continue
		}
		name := f.Name
		if tag := f.Tag.Get("json"); tag != "" {
			head := strings.Split(tag, ",")[0]
			if head == "-" {
				continue
			}
			if head != "" {
				name = head
			}
		}
		out = append(out, field{name: name, index: index, typ: f.Type})
	}
	return out
}
