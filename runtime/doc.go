// Package runtime is imported by code that openapi2bind generates.
//
// It carries the pieces the generated bindings cannot carry themselves
// because they must be shared across every generated package: the stable
// discriminant names for response status codes and body content types, the
// catch-all discriminants for undocumented outcomes, and the mismatch error
// returned when a narrowing accessor is applied to a value holding a
// different variant.
//
// Generated code conventionally imports this package under the alias bindrt.
package runtime
