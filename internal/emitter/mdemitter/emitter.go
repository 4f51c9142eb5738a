// Package mdemitter renders a human-readable markdown reference of the
// binding surface: per operation, the flattened call shape, the parameter
// groups with their defaults, and the documented outcomes with their
// narrowing accessor names.
package mdemitter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/openapi2bind/internal/spec"
	"github.com/mark3labs/openapi2bind/internal/synth"
	"github.com/mark3labs/openapi2bind/runtime"
)

// ReferenceFile is the single file this emitter writes.
const ReferenceFile = "REFERENCE.md"

// Options controls how the markdown emitter writes its output.
type Options struct {
	OutDir  string // required; target directory to write the reference
	Force   bool   // overwrite existing files
	DryRun  bool   // don't write, only plan
	Verbose bool
}

// PlannedFile describes a file the emitter intends to write.
type PlannedFile struct {
	RelPath string
	Size    int
	Mode    os.FileMode
}

// Result returns the planned files.
type Result struct {
	Planned []PlannedFile
}

// Emit renders the binding reference for the document.
func Emit(ctx context.Context, doc *spec.Document, opts Options) (*Result, error) {
	_ = ctx
	if doc == nil {
		return nil, fmt.Errorf("mdemitter: nil document")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("mdemitter: OutDir is required")
	}

	content := render(doc, synth.SynthesizeAll(doc))
	planned := []PlannedFile{{RelPath: ReferenceFile, Size: len(content), Mode: 0o644}}

	if !opts.DryRun {
		if err := writeFile(opts.OutDir, ReferenceFile, content, opts.Force); err != nil {
			return nil, err
		}
	}
	return &Result{Planned: planned}, nil
}

func render(doc *spec.Document, surfaces []synth.Surface) []byte {
	var sb strings.Builder

	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = "API"
	}
	fmt.Fprintf(&sb, "# %s bindings\n\n", title)
	if v := strings.TrimSpace(doc.Version); v != "" {
		fmt.Fprintf(&sb, "**Version:** %s\n\n", v)
	}
	if d := strings.TrimSpace(doc.Description); d != "" {
		fmt.Fprintf(&sb, "%s\n\n", d)
	}
	sb.WriteString("Narrowing accessors return the matched payload, or a mismatch error " +
		"naming both the expected and the actual case. Outcomes outside the " +
		"documented set surface through the `undocumented` and `other` catch-alls, " +
		"which never carry an accessor.\n\n")
	sb.WriteString("---\n\n")

	for i, op := range doc.Operations {
		renderOperation(&sb, op, surfaces[i])
	}
	return []byte(sb.String())
}

func renderOperation(sb *strings.Builder, op spec.OperationModel, sf synth.Surface) {
	fmt.Fprintf(sb, "## `%s`\n\n", op.ID)
	fmt.Fprintf(sb, "`%s %s`\n\n", strings.ToUpper(string(op.Method)), op.Path)
	if op.Doc != "" {
		fmt.Fprintf(sb, "%s\n\n", op.Doc)
	}

	fmt.Fprintf(sb, "**Call:** `%s`\n\n", callSignature(op, sf))

	for _, g := range op.Input.Groups {
		fmt.Fprintf(sb, "### %s parameters (`%s`)\n\n", capitalize(string(g.Kind)), g.Type.Name)
		if len(g.Fields) == 0 {
			sb.WriteString("No fields; the group defaults to its zero value.\n\n")
			continue
		}
		sb.WriteString("| Name | Type | Required | Default |\n")
		sb.WriteString("|------|------|----------|---------|\n")
		for _, f := range g.Fields {
			fmt.Fprintf(sb, "| `%s` | `%s` | %s | %s |\n", f.Name, f.Type.Name, yesNo(f.Required), fieldDefault(f))
		}
		sb.WriteString("\n")
	}

	if b := op.Input.Body; b != nil {
		fmt.Fprintf(sb, "### Request body (`%s`)\n\n", b.Type.Name)
		sb.WriteString("| Content type | Token | Payload |\n")
		sb.WriteString("|--------------|-------|---------|\n")
		for _, cv := range b.Content {
			fmt.Fprintf(sb, "| `%s` | %s | `%s` |\n", cv.ContentType, tokenCell(cv.ContentType), cv.Type.Name)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(sb, "### Responses (`%s`)\n\n", op.Output.Type.Name)
	sb.WriteString("| Status | Accessor | Body |\n")
	sb.WriteString("|--------|----------|------|\n")
	for _, v := range op.Output.Variants {
		body := "none"
		if len(v.Content) > 0 {
			var cts []string
			for _, cv := range v.Content {
				cts = append(cts, fmt.Sprintf("`%s` (%s)", cv.ContentType, tokenCell(cv.ContentType)))
			}
			body = strings.Join(cts, ", ")
		}
		name := string(runtime.StatusNameFor(v.Status))
		fmt.Fprintf(sb, "| %d | `%s()` | %s |\n", v.Status, spec.ExportDiscriminant(name), body)
	}
	fmt.Fprintf(sb, "| other | none (catch-all `%s`) | raw status + bytes |\n\n", runtime.NameUndocumented)

	if len(sf.Accept) > 0 {
		var quoted []string
		for _, ct := range sf.Accept {
			quoted = append(quoted, "`"+ct+"`")
		}
		fmt.Fprintf(sb, "**Accept preference:** %s\n\n", strings.Join(quoted, ", "))
	}
}

// callSignature spells the flattened call the Go emitter generates, so the
// reference and the generated code describe the same surface.
func callSignature(op spec.OperationModel, sf synth.Surface) string {
	parts := []string{"ctx"}
	defaulted := false
	for _, p := range sf.Call.Params {
		if p.HasDefault {
			defaulted = true
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", p.Name, p.Type.Name))
	}
	if defaulted {
		parts = append(parts, fmt.Sprintf("opts ...%sOption", op.GoName))
	}
	return fmt.Sprintf("%s(%s) (%s, error)", op.GoName, strings.Join(parts, ", "), op.Output.Type.Name)
}

func fieldDefault(f spec.ParameterField) string {
	switch {
	case f.AcceptPreference:
		return "content preference list"
	case f.HasDefault:
		return fmt.Sprintf("`%v`", f.Default)
	default:
		return "—"
	}
}

func tokenCell(contentType string) string {
	if token, ok := runtime.ContentTokenFor(contentType); ok {
		return "`" + string(token) + "`"
	}
	return fmt.Sprintf("none (catch-all `%s`)", runtime.TokenOther)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func writeFile(outDir, rel string, content []byte, force bool) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve out dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	p := filepath.Join(abs, rel)
	if _, err := os.Stat(p); err == nil && !force {
		return fmt.Errorf("mdemitter: %q already exists (use --force to overwrite)", p)
	}
	// atomic write via temp file + rename
	tmp := p + ".tmp-" + time.Now().Format("20060102150405")
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("write temp %s: %w", rel, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", rel, err)
	}
	return nil
}
