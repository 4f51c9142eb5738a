package goemitter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mark3labs/openapi2bind/internal/spec"
	"github.com/mark3labs/openapi2bind/internal/synth"
	"github.com/mark3labs/openapi2bind/runtime"
)

// inputsFile renders the parameter side of every operation: one struct per
// parameter group, default constructors for fully-defaultable groups, the
// request body sum, the input aggregate, and the option funcs used by the
// flattened calls.
func (r *renderer) inputsFile(surfaces []synth.Surface) []byte {
	needsTime := false
	for _, op := range r.doc.Operations {
		for _, g := range op.Input.Groups {
			for _, f := range g.Fields {
				if strings.Contains(f.Type.Name, "time.Time") {
					needsTime = true
				}
			}
		}
	}
	var stdlib []string
	if needsTime {
		stdlib = append(stdlib, "time")
	}
	buf := r.head(stdlib, true)

	for i, op := range r.doc.Operations {
		r.writeOperationInputs(buf, op, surfaces[i])
	}
	return buf.Bytes()
}

func (r *renderer) writeOperationInputs(buf *bytes.Buffer, op spec.OperationModel, sf synth.Surface) {
	for pi, g := range op.Input.Groups {
		r.writeGroupStruct(buf, op, g)
		if g.Defaultable() {
			r.writeGroupDefault(buf, op, g, sf.Call.Params[pi])
		}
	}
	if op.Input.Body != nil {
		r.writeRequestBody(buf, op, *op.Input.Body)
	}
	r.writeInputAggregate(buf, op)
	r.writeOptions(buf, op, sf)
}

func (r *renderer) writeGroupStruct(buf *bytes.Buffer, op spec.OperationModel, g spec.ParameterGroup) {
	fmt.Fprintf(buf, "// %s holds the %s parameters of %s.\n", g.Type.Name, g.Kind, op.ID)
	fmt.Fprintf(buf, "type %s struct {\n", g.Type.Name)
	for _, f := range g.Fields {
		switch {
		case f.AcceptPreference:
			buf.WriteString("\t// Accept lists acceptable response content types in preference order.\n")
		case f.Doc != "":
			fmt.Fprintf(buf, "\t// %s\n", f.Doc)
		}
		fmt.Fprintf(buf, "\t%s %s %s\n", f.GoName, f.Type.Name, fieldTag(f.Name, !f.Required))
	}
	buf.WriteString("}\n\n")
}

func (r *renderer) writeGroupDefault(buf *bytes.Buffer, op spec.OperationModel, g spec.ParameterGroup, p synth.ParamDecl) {
	fmt.Fprintf(buf, "// Default%s returns %s with every documented default applied.\n", g.Type.Name, g.Type.Name)
	fmt.Fprintf(buf, "func Default%s() %s {\n", g.Type.Name, g.Type.Name)
	var lines []string
	for _, d := range p.Defaults {
		switch {
		case d.Accept != nil:
			lines = append(lines, fmt.Sprintf("\t\t%s: %sAcceptable(),", d.Field, op.GoName))
		default:
			if lit, ok := goLiteral(d.Value); ok {
				lines = append(lines, fmt.Sprintf("\t\t%s: %s,", d.Field, lit))
			}
		}
	}
	if len(lines) == 0 {
		fmt.Fprintf(buf, "\treturn %s{}\n}\n\n", g.Type.Name)
		return
	}
	fmt.Fprintf(buf, "\treturn %s{\n%s\n\t}\n}\n\n", g.Type.Name, strings.Join(lines, "\n"))
}

func (r *renderer) writeRequestBody(buf *bytes.Buffer, op spec.OperationModel, b spec.BodyField) {
	fmt.Fprintf(buf, "// %s is the request payload of %s: one constructor per documented\n", b.Type.Name, op.ID)
	buf.WriteString("// content type.\n")
	fmt.Fprintf(buf, "type %s struct {\n", b.Type.Name)
	buf.WriteString("\tcontent bindrt.ContentToken\n")
	for _, cv := range b.Content {
		token, ok := runtime.ContentTokenFor(cv.ContentType)
		if !ok {
			continue
		}
		fmt.Fprintf(buf, "\t%s *%s\n", token, cv.Type.Name)
	}
	buf.WriteString("}\n\n")

	for _, cv := range b.Content {
		token, ok := runtime.ContentTokenFor(cv.ContentType)
		if !ok {
			continue
		}
		caseName := spec.ExportDiscriminant(string(token))
		fmt.Fprintf(buf, "// New%s%s carries a %s payload.\n", b.Type.Name, caseName, cv.ContentType)
		fmt.Fprintf(buf, "func New%s%s(v %s) %s {\n", b.Type.Name, caseName, cv.Type.Name, b.Type.Name)
		fmt.Fprintf(buf, "\treturn %s{content: %q, %s: &v}\n}\n\n", b.Type.Name, string(token), token)

		fmt.Fprintf(buf, "// %s returns the %s payload; transports use it to encode the request.\n", caseName, cv.ContentType)
		fmt.Fprintf(buf, "func (b %s) %s() (%s, error) {\n", b.Type.Name, caseName, cv.Type.Name)
		fmt.Fprintf(buf, "\treturn bindrt.Narrow(bindrt.ContentToken(%q), b.content, b.%s)\n}\n\n", string(token), token)
	}

	fmt.Fprintf(buf, "// Content reports which documented content type the payload carries; the\n")
	fmt.Fprintf(buf, "// zero token means no payload was set.\n")
	fmt.Fprintf(buf, "func (b %s) Content() bindrt.ContentToken { return b.content }\n\n", b.Type.Name)

	if b.HasDefault {
		r.writeBodyDefault(buf, op, b)
	}
}

func (r *renderer) writeBodyDefault(buf *bytes.Buffer, op spec.OperationModel, b spec.BodyField) {
	fmt.Fprintf(buf, "// Default%s returns the documented default payload.\n", b.Type.Name)
	fmt.Fprintf(buf, "func Default%s() %s {\n", b.Type.Name, b.Type.Name)
	if len(b.Content) == 1 {
		if token, ok := runtime.ContentTokenFor(b.Content[0].ContentType); ok {
			if lit, litOK := goLiteral(b.Default); litOK {
				fmt.Fprintf(buf, "\treturn New%s%s(%s)\n}\n\n", b.Type.Name, spec.ExportDiscriminant(string(token)), lit)
				return
			}
		}
	}
	fmt.Fprintf(buf, "\treturn %s{}\n}\n\n", b.Type.Name)
}

func (r *renderer) writeInputAggregate(buf *bytes.Buffer, op spec.OperationModel) {
	fmt.Fprintf(buf, "// %sInput aggregates every parameter of %s.\n", op.GoName, op.ID)
	fmt.Fprintf(buf, "type %sInput struct {\n", op.GoName)
	for _, g := range op.Input.Groups {
		fmt.Fprintf(buf, "\t%s %s\n", exportParam(g.Kind.ParamName()), g.Type.Name)
	}
	if op.Input.Body != nil {
		fmt.Fprintf(buf, "\tBody %s\n", op.Input.Body.Type.Name)
	}
	buf.WriteString("}\n\n")
}

func (r *renderer) writeOptions(buf *bytes.Buffer, op spec.OperationModel, sf synth.Surface) {
	var defaulted []synth.ParamDecl
	for _, p := range sf.Call.Params {
		if p.HasDefault {
			defaulted = append(defaulted, p)
		}
	}
	if len(defaulted) == 0 {
		return
	}

	fmt.Fprintf(buf, "// %sOption overrides a defaulted parameter of %s.\n", op.GoName, op.GoName)
	fmt.Fprintf(buf, "type %sOption func(*%sInput)\n\n", op.GoName, op.GoName)
	for _, p := range defaulted {
		field := exportParam(p.Name)
		fmt.Fprintf(buf, "// With%s%s replaces the defaulted %s parameter.\n", op.GoName, field, p.Name)
		fmt.Fprintf(buf, "func With%s%s(v %s) %sOption {\n", op.GoName, field, p.Type.Name, op.GoName)
		fmt.Fprintf(buf, "\treturn func(in *%sInput) { in.%s = v }\n}\n\n", op.GoName, field)
	}
}
