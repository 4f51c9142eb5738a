// Package synth derives the convenience surface of the generated bindings
// from normalized operation models: a flattened call overload per operation,
// a narrowing accessor per documented outcome, and a default content
// preference list. Every derivation is a pure, single pass over its model,
// so operations can be synthesized independently and in parallel.
package synth

import "github.com/mark3labs/openapi2bind/internal/spec"

// Synthesize runs every derivation for one operation.
func Synthesize(op spec.OperationModel) Surface {
	return Surface{
		Operation: op.ID,
		GoName:    op.GoName,
		Call:      FlattenCall(op),
		Accessors: NarrowAccessors(op),
		Accept:    ContentPreferences(op),
	}
}

// SynthesizeAll synthesizes every operation of a document, preserving
// operation order.
func SynthesizeAll(doc *spec.Document) []Surface {
	surfaces := make([]Surface, 0, len(doc.Operations))
	for _, op := range doc.Operations {
		surfaces = append(surfaces, Synthesize(op))
	}
	return surfaces
}
