package goemitter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mark3labs/openapi2bind/internal/spec"
	"github.com/mark3labs/openapi2bind/internal/synth"
	"github.com/mark3labs/openapi2bind/runtime"
)

// responsesFile renders the outcome side of every operation: one struct per
// documented status, a body sum per status with content, the response sum
// with its narrowing accessors and catch-all, and the content preference
// list backing the accept default.
func (r *renderer) responsesFile(surfaces []synth.Surface) []byte {
	needsTime := false
	for _, op := range r.doc.Operations {
		for _, v := range op.Output.Variants {
			for _, cv := range v.Content {
				if strings.Contains(cv.Type.Name, "time.Time") {
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
		r.writeOperationResponses(buf, op, surfaces[i])
	}
	return buf.Bytes()
}

func (r *renderer) writeOperationResponses(buf *bytes.Buffer, op spec.OperationModel, sf synth.Surface) {
	variantByCase := make(map[string]spec.ResponseVariant, len(op.Output.Variants))
	variantByBody := make(map[string]spec.ResponseVariant, len(op.Output.Variants))
	for _, v := range op.Output.Variants {
		variantByCase[string(runtime.StatusNameFor(v.Status))] = v
		if v.BodyType.Name != "" {
			variantByBody[v.BodyType.Name] = v
		}
	}

	for _, v := range op.Output.Variants {
		r.writeVariantStruct(buf, op, v)
		if v.BodyType.Name != "" {
			r.writeResponseBodySum(buf, v)
		}
	}
	r.writeResponseSum(buf, op)

	// Narrowing accessors, one per documented case at every sum level.
	for _, a := range sf.Accessors {
		switch a.Kind {
		case synth.SumResponse:
			v := variantByCase[a.Case]
			r.writeResponseAccessor(buf, a, v)
		case synth.SumContent:
			v := variantByBody[a.Sum.Name]
			r.writeContentAccessor(buf, a, v)
		}
	}

	r.writeResponseCatchAll(buf, op)
	r.writeAcceptable(buf, op, sf)
}

func (r *renderer) writeVariantStruct(buf *bytes.Buffer, op spec.OperationModel, v spec.ResponseVariant) {
	fmt.Fprintf(buf, "// %s is the documented %d outcome of %s.", v.Type.Name, v.Status, op.ID)
	if v.Doc != "" {
		fmt.Fprintf(buf, " %s", v.Doc)
	}
	buf.WriteString("\n")
	if v.BodyType.Name == "" {
		fmt.Fprintf(buf, "type %s struct{}\n\n", v.Type.Name)
		return
	}
	fmt.Fprintf(buf, "type %s struct {\n\tBody %s\n}\n\n", v.Type.Name, v.BodyType.Name)
}

func (r *renderer) writeResponseBodySum(buf *bytes.Buffer, v spec.ResponseVariant) {
	sum := v.BodyType.Name
	fmt.Fprintf(buf, "// %s is the body sum of the %d outcome: one case per documented\n", sum, v.Status)
	buf.WriteString("// content type plus the other catch-all.\n")
	fmt.Fprintf(buf, "type %s struct {\n", sum)
	buf.WriteString("\tcontent bindrt.ContentToken\n")
	for _, cv := range v.Content {
		token, ok := runtime.ContentTokenFor(cv.ContentType)
		if !ok {
			continue
		}
		fmt.Fprintf(buf, "\t%s *%s\n", token, cv.Type.Name)
	}
	buf.WriteString("\tother *bindrt.OtherContent\n")
	buf.WriteString("}\n\n")

	for _, cv := range v.Content {
		token, ok := runtime.ContentTokenFor(cv.ContentType)
		if !ok {
			continue
		}
		caseName := spec.ExportDiscriminant(string(token))
		fmt.Fprintf(buf, "// New%s%s carries a %s payload.\n", sum, caseName, cv.ContentType)
		fmt.Fprintf(buf, "func New%s%s(v %s) %s {\n", sum, caseName, cv.Type.Name, sum)
		fmt.Fprintf(buf, "\treturn %s{content: %q, %s: &v}\n}\n\n", sum, string(token), token)
	}

	fmt.Fprintf(buf, "// New%sOther carries a payload in a content type outside the documented set.\n", sum)
	fmt.Fprintf(buf, "func New%sOther(raw bindrt.OtherContent) %s {\n", sum, sum)
	fmt.Fprintf(buf, "\treturn %s{content: bindrt.TokenOther, other: &raw}\n}\n\n", sum)

	fmt.Fprintf(buf, "// Content reports the discriminant of the body actually present.\n")
	fmt.Fprintf(buf, "func (b %s) Content() bindrt.ContentToken { return b.content }\n\n", sum)

	fmt.Fprintf(buf, "// Other returns the catch-all body and reports whether that is what arrived.\n")
	fmt.Fprintf(buf, "func (b %s) Other() (bindrt.OtherContent, bool) {\n", sum)
	fmt.Fprintf(buf, "\tif b.other == nil {\n\t\treturn bindrt.OtherContent{}, false\n\t}\n\treturn *b.other, true\n}\n\n", )
}

func (r *renderer) writeResponseSum(buf *bytes.Buffer, op spec.OperationModel) {
	sum := op.Output.Type.Name
	fmt.Fprintf(buf, "// %s is the outcome sum of %s: one case per documented\n", sum, op.ID)
	buf.WriteString("// status plus the undocumented catch-all.\n")
	fmt.Fprintf(buf, "type %s struct {\n", sum)
	buf.WriteString("\tstatus bindrt.StatusName\n")
	for _, v := range op.Output.Variants {
		fmt.Fprintf(buf, "\t%s *%s\n", runtime.StatusNameFor(v.Status), v.Type.Name)
	}
	buf.WriteString("\tundocumented *bindrt.UndocumentedResponse\n")
	buf.WriteString("}\n\n")

	for _, v := range op.Output.Variants {
		caseName := string(runtime.StatusNameFor(v.Status))
		fmt.Fprintf(buf, "// New%s%s wraps the documented %d outcome.\n", sum, spec.ExportDiscriminant(caseName), v.Status)
		fmt.Fprintf(buf, "func New%s%s(v %s) %s {\n", sum, spec.ExportDiscriminant(caseName), v.Type.Name, sum)
		fmt.Fprintf(buf, "\treturn %s{status: %q, %s: &v}\n}\n\n", sum, caseName, caseName)
	}

	fmt.Fprintf(buf, "// New%sUndocumented wraps an outcome outside the documented status set.\n", sum)
	fmt.Fprintf(buf, "func New%sUndocumented(raw bindrt.UndocumentedResponse) %s {\n", sum, sum)
	fmt.Fprintf(buf, "\treturn %s{status: bindrt.NameUndocumented, undocumented: &raw}\n}\n\n", sum)
}

func (r *renderer) writeResponseAccessor(buf *bytes.Buffer, a synth.AccessorDecl, v spec.ResponseVariant) {
	method := spec.ExportDiscriminant(a.Case)
	fmt.Fprintf(buf, "// %s narrows to the documented %d outcome and fails with a mismatch\n", method, v.Status)
	buf.WriteString("// error naming the actual outcome otherwise.\n")
	fmt.Fprintf(buf, "func (r %s) %s() (%s, error) {\n", a.Sum.Name, method, a.Payload.Name)
	fmt.Fprintf(buf, "\treturn bindrt.Narrow(bindrt.StatusName(%q), r.status, r.%s)\n}\n\n", a.Case, a.Case)
}

func (r *renderer) writeContentAccessor(buf *bytes.Buffer, a synth.AccessorDecl, v spec.ResponseVariant) {
	method := spec.ExportDiscriminant(a.Case)
	contentType := ""
	for _, cv := range v.Content {
		if token, ok := runtime.ContentTokenFor(cv.ContentType); ok && string(token) == a.Case {
			contentType = cv.ContentType
		}
	}
	fmt.Fprintf(buf, "// %s narrows to the %s payload and fails with a mismatch error for\n", method, contentType)
	buf.WriteString("// any other content.\n")
	fmt.Fprintf(buf, "func (b %s) %s() (%s, error) {\n", a.Sum.Name, method, a.Payload.Name)
	fmt.Fprintf(buf, "\treturn bindrt.Narrow(bindrt.ContentToken(%q), b.content, b.%s)\n}\n\n", a.Case, a.Case)
}

func (r *renderer) writeResponseCatchAll(buf *bytes.Buffer, op spec.OperationModel) {
	sum := op.Output.Type.Name
	fmt.Fprintf(buf, "// Status reports the discriminant of the outcome actually present.\n")
	fmt.Fprintf(buf, "func (r %s) Status() bindrt.StatusName { return r.status }\n\n", sum)

	fmt.Fprintf(buf, "// Undocumented returns the catch-all outcome and reports whether that is\n// what arrived.\n")
	fmt.Fprintf(buf, "func (r %s) Undocumented() (bindrt.UndocumentedResponse, bool) {\n", sum)
	buf.WriteString("\tif r.undocumented == nil {\n\t\treturn bindrt.UndocumentedResponse{}, false\n\t}\n\treturn *r.undocumented, true\n}\n\n")
}

func (r *renderer) writeAcceptable(buf *bytes.Buffer, op spec.OperationModel, sf synth.Surface) {
	fmt.Fprintf(buf, "// %sAcceptable lists the documented response content types of %s\n", op.GoName, op.ID)
	buf.WriteString("// in preference order; empty when the operation documents no response bodies.\n")
	fmt.Fprintf(buf, "func %sAcceptable() []string {\n", op.GoName)
	if len(sf.Accept) == 0 {
		buf.WriteString("\treturn nil\n}\n\n")
		return
	}
	fmt.Fprintf(buf, "\treturn %s\n}\n\n", stringSliceLiteral(sf.Accept))
}
