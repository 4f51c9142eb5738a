package goemitter

import (
	"bytes"
	"fmt"

	"github.com/mark3labs/openapi2bind/internal/spec"
	"github.com/mark3labs/openapi2bind/internal/synth"
)

// callsFile renders the call side of the bindings: the Invoker interface with
// the canonical entry points, and the Client whose flattened methods build
// each input aggregate from positional parameters plus options and forward to
// the Invoker unchanged.
func (r *renderer) callsFile(surfaces []synth.Surface) []byte {
	buf := r.head([]string{"context"}, false)
	r.writeInvoker(buf)
	r.writeClient(buf)
	for i, op := range r.doc.Operations {
		r.writeFlattenedCall(buf, op, surfaces[i])
	}
	return buf.Bytes()
}

func (r *renderer) writeInvoker(buf *bytes.Buffer) {
	buf.WriteString("// Invoker is the canonical entry point of every operation: one method per\n")
	buf.WriteString("// operation, taking the full input aggregate. Transports implement it;\n")
	buf.WriteString("// Client layers the flattened convenience calls on top.\n")
	buf.WriteString("type Invoker interface {\n")
	for _, op := range r.doc.Operations {
		fmt.Fprintf(buf, "\t// %s invokes %s %s.\n", op.GoName, op.Method, op.Path)
		fmt.Fprintf(buf, "\t%s(ctx context.Context, in %sInput) (%s, error)\n", op.GoName, op.GoName, op.Output.Type.Name)
	}
	buf.WriteString("}\n\n")
}

func (r *renderer) writeClient(buf *bytes.Buffer) {
	buf.WriteString("// Client exposes each operation as a flattened call: parameters with a\n")
	buf.WriteString("// documented default become options, everything else stays positional.\n")
	buf.WriteString("type Client struct {\n\tinv Invoker\n}\n\n")
	buf.WriteString("// NewClient wraps an Invoker in the flattened convenience surface.\n")
	buf.WriteString("func NewClient(inv Invoker) *Client {\n\treturn &Client{inv: inv}\n}\n\n")
}

// writeFlattenedCall renders one Client method from the operation's call
// decl: non-defaultable params in declaration order, body last, then a
// variadic options slot when any parameter carries a default. The method
// performs no validation; it constructs the aggregate and forwards.
func (r *renderer) writeFlattenedCall(buf *bytes.Buffer, op spec.OperationModel, sf synth.Surface) {
	var positional, defaulted []synth.ParamDecl
	for _, p := range sf.Call.Params {
		if p.HasDefault {
			defaulted = append(defaulted, p)
		} else {
			positional = append(positional, p)
		}
	}

	fmt.Fprintf(buf, "// %s calls %s %s.", op.GoName, op.Method, op.Path)
	if op.Doc != "" {
		fmt.Fprintf(buf, " %s", op.Doc)
	}
	buf.WriteString("\n")
	if len(defaulted) > 0 {
		buf.WriteString("// Omitted options keep the documented defaults.\n")
	}

	fmt.Fprintf(buf, "func (c *Client) %s(ctx context.Context", op.GoName)
	for _, p := range positional {
		fmt.Fprintf(buf, ", %s %s", p.Name, p.Type.Name)
	}
	if len(defaulted) > 0 {
		fmt.Fprintf(buf, ", opts ...%sOption", op.GoName)
	}
	fmt.Fprintf(buf, ") (%s, error) {\n", op.Output.Type.Name)

	if len(positional) == 0 && len(defaulted) == 0 {
		fmt.Fprintf(buf, "\treturn c.inv.%s(ctx, %sInput{})\n}\n\n", op.GoName, op.GoName)
		return
	}

	fmt.Fprintf(buf, "\tin := %sInput{\n", op.GoName)
	for _, p := range sf.Call.Params {
		field := exportParam(p.Name)
		if p.HasDefault {
			fmt.Fprintf(buf, "\t\t%s: Default%s(),\n", field, p.Type.Name)
		} else {
			fmt.Fprintf(buf, "\t\t%s: %s,\n", field, p.Name)
		}
	}
	buf.WriteString("\t}\n")
	if len(defaulted) > 0 {
		buf.WriteString("\tfor _, opt := range opts {\n\t\topt(&in)\n\t}\n")
	}
	fmt.Fprintf(buf, "\treturn c.inv.%s(ctx, in)\n}\n\n", op.GoName)
}
