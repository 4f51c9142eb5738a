package synth

import "github.com/mark3labs/openapi2bind/internal/spec"

// FlattenCall derives the operation's flattened call overload: one parameter
// per group, in group order, then the body. A group parameter carries a
// default exactly when the group is fully defaultable; the body parameter
// exactly when the body declares one. An operation with no groups and no
// body flattens to a zero-parameter call.
func FlattenCall(op spec.OperationModel) CallDecl {
	call := CallDecl{Operation: op.ID, GoName: op.GoName}
	for _, g := range op.Input.Groups {
		p := ParamDecl{Name: g.Kind.ParamName(), Type: g.Type}
		if g.Defaultable() {
			p.HasDefault = true
			p.Defaults = groupDefaults(op, g)
		}
		call.Params = append(call.Params, p)
	}
	if b := op.Input.Body; b != nil {
		p := ParamDecl{Name: "body", Type: b.Type, HasDefault: b.HasDefault}
		if b.HasDefault {
			p.Defaults = []FieldDefault{{Value: b.Default}}
		}
		call.Params = append(call.Params, p)
	}
	return call
}

func groupDefaults(op spec.OperationModel, g spec.ParameterGroup) []FieldDefault {
	var defaults []FieldDefault
	for _, f := range g.Fields {
		switch {
		case f.AcceptPreference:
			defaults = append(defaults, FieldDefault{Field: f.GoName, Accept: ContentPreferences(op)})
		case f.HasDefault:
			defaults = append(defaults, FieldDefault{Field: f.GoName, Value: f.Default})
		}
	}
	return defaults
}
