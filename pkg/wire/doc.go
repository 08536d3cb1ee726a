// Package wire implements the portal value codec: encoding and decoding of
// argument and result values to and from the two supported wire formats, plus
// the type registry and ordinal-eligibility analysis that drive format
// selection for composite types.
//
// # Formats
//
// Two formats exist:
//
//	wire.FormatOrdinal - positional arrays keyed by declaration order
//	wire.FormatNamed   - (name, value) objects, order-independent
//
// Ordinal is the compact default but positionally fragile: adding or
// reordering fields is a breaking wire change. Named is self-describing and
// tolerant of additive change. The deployment default is parsed with
// ParseFormat, which is case-insensitive and resolves anything unrecognized
// (including the empty string) to ordinal. Every envelope carries its own
// format tag, so independently configured peers interoperate per message.
//
// # Supported values
//
// The codec is symmetric and lossless for text, 32/64-bit signed integers,
// double, high-precision decimal (shopspring/decimal, transported as a JSON
// string), boolean, timestamp with timezone offset, and UUID; for pointers as
// the explicit-null ("nullable") state; for slices of any supported value;
// and for registered composite types, recursively.
//
// # Composite types and eligibility
//
// Composite types must be registered before they cross the wire:
//
//	wire.RegisterType("Person", Person{})
//
// Registration computes the type's ordinal eligibility once; the
// classification is immutable afterwards and safe for concurrent reads. A
// type is Eligible when it can be rebuilt by zero-argument construction plus
// field assignment: it has an implicit default constructor, or a declared
// constructor whose every parameter is service-role or defaulted. Abstract
// types and types whose constructor requires a real argument are Ineligible
// and are always encoded in the named format, regardless of the configured
// default, because reconstruction would need their actual constructor run
// with resolved services.
package wire
