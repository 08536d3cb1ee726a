package wire

import (
	"sync"
	"testing"

	"github.com/objectstack/portal/pkg/model"
)

// TestClassifyPriorityOrder walks the eligibility rule cases: abstract types
// first, then constructor shape.
func TestClassifyPriorityOrder(t *testing.T) {
	tests := []struct {
		name string
		want Eligibility
	}{
		// Implicit default constructor.
		{"Address", Eligible},
		// Every constructor parameter is service-role or defaulted.
		{"Ledger", Eligible},
		// Constructor requires a real argument.
		{"AuditRecord", Ineligible},
		// Abstract, non-constructible.
		{"Shape", Ineligible},
	}
	for _, tc := range tests {
		got, err := Classify(tc.name)
		if err != nil {
			t.Fatalf("Classify(%s): %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("Classify(%s) = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestClassifyUnknownType(t *testing.T) {
	if _, err := Classify("NeverRegistered"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

// TestServiceOnlyConstructorEligible pins that service-role constructor
// parameters do not block ordinal packing: they are resolved locally, never
// serialized.
func TestServiceOnlyConstructorEligible(t *testing.T) {
	type svcOnly struct {
		V int64 `json:"v"`
	}
	info, err := RegisterType("SvcOnly", svcOnly{},
		WithConstructor(CtorParam{Name: "store", Role: model.RoleService}))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if info.Eligibility() != Eligible {
		t.Fatalf("service-only constructor classified %s", info.Eligibility())
	}
}

// TestConcurrentRegistrationIdempotent races first classification of one
// type across goroutines; every racer must observe the same record.
func TestConcurrentRegistrationIdempotent(t *testing.T) {
	type raced struct {
		N int64 `json:"n"`
	}
	const racers = 16
	infos := make([]*TypeInfo, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			info, err := RegisterType("Raced", raced{})
			if err != nil {
				t.Errorf("racer %d: %v", i, err)
				return
			}
			infos[i] = info
		}(i)
	}
	wg.Wait()
	for i := 1; i < racers; i++ {
		if infos[i] != infos[0] {
			t.Fatalf("racer %d observed a different registration record", i)
		}
		if infos[i].Eligibility() != infos[0].Eligibility() {
			t.Fatalf("racer %d observed a different classification", i)
		}
	}
}

// TestRegistrationConflicts covers the registration-time error paths.
func TestRegistrationConflicts(t *testing.T) {
	type first struct{ A int64 }
	type second struct{ B int64 }
	if _, err := RegisterType("Conflicted", first{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := RegisterType("Conflicted", second{}); err == nil {
		t.Fatal("expected conflict for same name, different type")
	}
	if _, err := RegisterType("decimal", first{}); err == nil {
		t.Fatal("expected conflict with builtin name")
	}
	if _, err := RegisterType("NotAStruct", 42); err == nil {
		t.Fatal("expected error for non-struct prototype")
	}
}
