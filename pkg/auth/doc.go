// Package auth implements the authorization gate that fronts every portal
// operation.
//
// Rules are bound per (entity, operation kind) in a RuleSet. Three rule
// shapes exist:
//
//	auth.BoolRule    - false denies with no message
//	auth.MessageRule - "" grants; a non-empty string denies, carrying the
//	                   string as the denial reason
//	auth.VerdictRule - computes the full verdict, optionally attaching a
//	                   produced value to a grant; denials never carry one
//
// Both receive a context, so a rule that needs to consult another system
// simply blocks; awaiting it does not change the verdict contract. When no
// rule is bound for an operation kind the gate grants unconditionally.
//
// The gate runs exactly once per physical execution of an operation: inline
// for local dispatch, on the handler side for remote dispatch. Any
// caller-side precheck is advisory only and must never be trusted as the
// authority. Gate and RuleSet hold no per-call state; concurrent evaluation
// needs no locking beyond the rule table itself.
package auth
