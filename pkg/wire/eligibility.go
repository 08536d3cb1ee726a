package wire

import (
	"fmt"

	"github.com/objectstack/portal/pkg/model"
)

// Eligibility states whether values of a type may use the ordinal format.
type Eligibility int

const (
	// Ineligible types always encode in the named format: rebuilding them
	// requires their real constructor with resolved services, which
	// field-by-field assignment cannot do safely.
	Ineligible Eligibility = iota
	// Eligible types have a reachable zero-argument construction path and
	// can be materialized by field assignment.
	Eligible
)

func (e Eligibility) String() string {
	if e == Eligible {
		return "eligible"
	}
	return "ineligible"
}

// Classify returns the registration-time classification of a named type. The
// answer is computed once per type and immutable thereafter; concurrent
// callers always observe the same value.
func Classify(name string) (Eligibility, error) {
	info, ok := LookupType(name)
	if !ok {
		return Ineligible, fmt.Errorf("%w: %s", ErrTypeNotRegistered, name)
	}
	return info.eligibility, nil
}

// classify applies the eligibility rule in priority order: abstract types are
// Ineligible; a missing constructor declaration means an implicit default
// constructor, Eligible; a declared constructor is Eligible only when every
// parameter is service-role or defaulted.
func classify(info *TypeInfo) Eligibility {
	if info.abstract || info.rtype == nil {
		return Ineligible
	}
	if !info.hasCtor {
		return Eligible
	}
	for _, p := range info.ctor {
		if p.Role != model.RoleService && !p.HasDefault {
			return Ineligible
		}
	}
	return Eligible
}
