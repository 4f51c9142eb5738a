package synth

import "github.com/mark3labs/openapi2bind/internal/spec"

// Surface bundles everything synthesized for one operation. Emitters render
// it; nothing in this package performs I/O or naming.
type Surface struct {
	Operation string
	GoName    string
	Call      CallDecl
	Accessors []AccessorDecl
	Accept    []string
}

// CallDecl describes an operation's flattened call overload.
type CallDecl struct {
	Operation string
	GoName    string
	Params    []ParamDecl
}

// ParamDecl is one parameter of a flattened call: a parameter group, or the
// body (always last, named "body"). HasDefault means a caller may omit the
// parameter; Defaults then describes the implicit construction.
type ParamDecl struct {
	Name       string
	Type       spec.TypeRef
	HasDefault bool
	Defaults   []FieldDefault
}

// FieldDefault is one non-zero field of a defaulted parameter: a declared
// value, or the content preference list for the accept-carrying field.
// Fields absent here take their zero value. Field is empty when the default
// applies to the body itself.
type FieldDefault struct {
	Field  string
	Value  any
	Accept []string
}

// SumKind tells which discriminant kind an accessor narrows on.
type SumKind string

const (
	SumResponse SumKind = "response"
	SumContent  SumKind = "content"
)

// AccessorDecl describes one narrowing accessor: on the sum type Sum, for
// the documented case Case, returning Payload or a mismatch error carrying
// Case as the expected discriminant.
type AccessorDecl struct {
	Sum     spec.TypeRef
	Kind    SumKind
	Case    string
	Payload spec.TypeRef
}
