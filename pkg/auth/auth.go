package auth

import (
	"context"
	"sync"

	"github.com/objectstack/portal/pkg/model"
)

// Verdict is the uniform result of an authorization check. HasAccess false
// implies Result is absent; Message is set only on an explained denial.
type Verdict struct {
	HasAccess bool   `json:"has_access"`
	Result    any    `json:"result,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Grant returns an allowing verdict.
func Grant() Verdict { return Verdict{HasAccess: true} }

// GrantWith returns an allowing verdict carrying a produced value, surfaced
// to callers that evaluate the gate directly (prechecks such as
// Portal.CanExecute).
func GrantWith(value any) Verdict { return Verdict{HasAccess: true, Result: value} }

// Deny returns a denying verdict. An empty message is an unexplained denial.
func Deny(message string) Verdict { return Verdict{Message: message} }

// Subject is what a rule sees: the operation being attempted, the caller's
// principal (if any), and the wire-visible arguments.
type Subject struct {
	Entity    string
	Kind      model.Kind
	Principal any
	Args      []any
}

// Rule is the sealed interface of a bound authorization rule. Only BoolRule,
// MessageRule, and VerdictRule implement it.
type Rule interface {
	evaluate(ctx context.Context, s Subject) (Verdict, error)
}

// BoolRule denies when it returns false. A false result carries no message.
type BoolRule func(ctx context.Context, s Subject) (bool, error)

func (r BoolRule) evaluate(ctx context.Context, s Subject) (Verdict, error) {
	ok, err := r(ctx, s)
	if err != nil {
		return Verdict{}, err
	}
	if !ok {
		return Deny(""), nil
	}
	return Grant(), nil
}

// MessageRule grants on an empty string and denies otherwise, carrying the
// string as the denial reason.
type MessageRule func(ctx context.Context, s Subject) (string, error)

func (r MessageRule) evaluate(ctx context.Context, s Subject) (Verdict, error) {
	msg, err := r(ctx, s)
	if err != nil {
		return Verdict{}, err
	}
	if msg != "" {
		return Deny(msg), nil
	}
	return Grant(), nil
}

// VerdictRule computes the full verdict directly, for rules that attach a
// produced value to a grant (see GrantWith). A denial never carries a value.
type VerdictRule func(ctx context.Context, s Subject) (Verdict, error)

func (r VerdictRule) evaluate(ctx context.Context, s Subject) (Verdict, error) {
	v, err := r(ctx, s)
	if err != nil {
		return Verdict{}, err
	}
	if !v.HasAccess {
		v.Result = nil
	}
	return v, nil
}

type ruleKey struct {
	entity string
	kind   model.Kind
}

// RuleSet is the per-process table of bound rules.
type RuleSet struct {
	mu    sync.RWMutex
	rules map[ruleKey]Rule
}

// NewRuleSet returns an empty rule table.
func NewRuleSet() *RuleSet {
	return &RuleSet{rules: make(map[ruleKey]Rule)}
}

// Bind attaches a rule to an (entity, kind) pair, replacing any previous
// binding.
func (rs *RuleSet) Bind(entity string, kind model.Kind, r Rule) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.rules[ruleKey{entity, kind}] = r
}

func (rs *RuleSet) rule(entity string, kind model.Kind) (Rule, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	r, ok := rs.rules[ruleKey{entity, kind}]
	return r, ok
}

// Gate evaluates authorization rules and produces verdicts. The zero-value
// (or nil) Gate grants everything.
type Gate struct {
	rules *RuleSet
}

// NewGate builds a gate over a rule set.
func NewGate(rules *RuleSet) *Gate {
	return &Gate{rules: rules}
}

// Evaluate resolves the rule bound to the subject's (entity, kind) and
// produces a verdict. No bound rule means an unconditional grant. A rule
// error is a hard failure, not a denial.
func (g *Gate) Evaluate(ctx context.Context, s Subject) (Verdict, error) {
	if g == nil || g.rules == nil {
		return Grant(), nil
	}
	r, ok := g.rules.rule(s.Entity, s.Kind)
	if !ok {
		return Grant(), nil
	}
	return r.evaluate(ctx, s)
}
