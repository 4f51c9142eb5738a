package synth

import (
	"github.com/mark3labs/openapi2bind/internal/spec"
	"github.com/mark3labs/openapi2bind/runtime"
)

// sumDesc is the internal description one narrowing rule applies to at every
// nesting level: a closed sum with its documented cases. Catch-all cases are
// never listed, so they can never acquire an accessor.
type sumDesc struct {
	typ   spec.TypeRef
	kind  SumKind
	cases []sumCase
}

type sumCase struct {
	name    string
	payload spec.TypeRef
	nested  *sumDesc
}

// NarrowAccessors derives one accessor per documented variant of every sum
// nested in the operation's output: the response case first, then the
// content cases of its body, depth-first in declaration order.
func NarrowAccessors(op spec.OperationModel) []AccessorDecl {
	var out []AccessorDecl
	walkSum(responseSum(op), &out)
	return out
}

func walkSum(s sumDesc, out *[]AccessorDecl) {
	for _, c := range s.cases {
		*out = append(*out, AccessorDecl{Sum: s.typ, Kind: s.kind, Case: c.name, Payload: c.payload})
		if c.nested != nil {
			walkSum(*c.nested, out)
		}
	}
}

func responseSum(op spec.OperationModel) sumDesc {
	sum := sumDesc{typ: op.Output.Type, kind: SumResponse}
	for _, v := range op.Output.Variants {
		c := sumCase{
			name:    string(runtime.StatusNameFor(v.Status)),
			payload: v.Type,
		}
		if len(v.Content) > 0 {
			c.nested = contentSum(v)
		}
		sum.cases = append(sum.cases, c)
	}
	return sum
}

func contentSum(v spec.ResponseVariant) *sumDesc {
	sum := &sumDesc{typ: v.BodyType, kind: SumContent}
	for _, cv := range v.Content {
		token, ok := runtime.ContentTokenFor(cv.ContentType)
		if !ok {
			// No stable token means no accessor; the content stays reachable
			// through the catch-all case only.
			continue
		}
		sum.cases = append(sum.cases, sumCase{name: string(token), payload: cv.Type})
	}
	return sum
}
