// Package portal dispatches domain-object operations - create, fetch,
// insert, update, delete - either inline or across a transport boundary,
// with an authorization gate in front of every execution.
//
// # Registration
//
// Operations are registered as explicit descriptors; no runtime attribute or
// tag scanning takes place:
//
//	reg := portal.NewRegistry()
//	err := reg.Register(&model.Operation{
//		Entity: "Person",
//		Kind:   model.Fetch,
//		Params: []model.Param{
//			{Name: "id", Type: "uuid", Role: model.RoleOrdinary},
//			{Name: "store", Type: "PersonStore", Role: model.RoleService},
//		},
//		Returns: model.ReturnEntity,
//		Result:  "Person",
//		Func:    fetchPerson,
//	})
//
// Overloads of the same (entity, kind) are resolved by wire-visible arity,
// never by function name.
//
// # Dispatch
//
// portal.New builds the caller-side facade. A local operation runs the gate
// and the body inline, synchronously. An operation marked Remote, on a portal
// configured with a transport invoker, is packaged by the proxy side: only
// ordinary-role arguments enter the envelope, the context travels as the
// outbound call's own cancellation scope, and the response envelope is
// unpacked into a model.Outcome. The execution side (Handler) decodes the
// envelope into fresh values, resolves service-role parameters from its
// resolver, re-materializes cancellation from the transport context, runs the
// gate - exactly once per physical execution - and only then invokes the
// body.
//
// # Saving
//
// Portal.Save reads the entity's lifecycle flags and routes to Insert,
// Update, or Delete, dispatching the selected operation like any other. A
// denied or unsuccessful save yields an absent entity, never a partially
// applied one.
package portal
