// Package model defines the data model shared by the portal runtime: operation
// kinds and descriptors, parameter roles, entity lifecycle metadata, and the
// tagged outcome type returned by every dispatch.
//
// # Operations
//
// A domain object exposes up to five operation kinds:
//
//	model.Create - produce a new instance
//	model.Fetch  - load an existing instance
//	model.Insert - persist a new instance
//	model.Update - persist changes to an existing instance
//	model.Delete - remove an instance
//
// Each concrete operation is described by a model.Operation descriptor that
// names the owning entity, the kind, the ordered parameter list with roles,
// whether the operation executes remotely, the return shape, and the bound Go
// function. Descriptors are produced by a registration step (the compile-time
// stub generator is treated as a black box) and consumed uniformly by the
// dispatch proxy and handler.
//
// # Parameter roles
//
// Parameters carry one of three roles:
//
//	RoleOrdinary     - crosses the wire in the call envelope
//	RoleService      - resolved from the local resolver, never serialized
//	RoleCancellation - maps onto context.Context, never serialized
//
// An ordinary parameter may additionally be variadic (a trailing sequence
// occupying a single envelope slot) or nullable (a pointer whose nil state is
// an explicit wire null, distinct from an empty value).
//
// # Outcomes
//
// Every dispatch produces a model.Outcome in exactly one of three states:
// succeeded (optionally carrying a value), denied (optionally carrying a
// reason), or failed (carrying an error). Callers branch on the state instead
// of inspecting result types.
package model
