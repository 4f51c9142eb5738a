// Package goemitter renders a normalized document as a compilable Go
// bindings package: typed schemas, per-operation input groups with
// documented defaults, response sums with narrowing accessors, and a
// flattened convenience client over an Invoker interface.
package goemitter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/tools/imports"

	"github.com/mark3labs/openapi2bind/internal/spec"
	"github.com/mark3labs/openapi2bind/internal/synth"
)

// DefaultRuntimeImport is the import path of the runtime package generated
// accessors delegate to.
const DefaultRuntimeImport = "github.com/mark3labs/openapi2bind/runtime"

// Options controls how the Go emitter renders the bindings package.
type Options struct {
	OutDir        string // required; target directory to write the package
	PackageName   string // Go package name; derived from the document title when empty
	RuntimeImport string // runtime import path; DefaultRuntimeImport when empty
	Force         bool   // overwrite existing files
	DryRun        bool   // don't write, only plan
	Verbose       bool
}

// PlannedFile describes a file the emitter intends to write.
type PlannedFile struct {
	RelPath string
	Size    int
	Mode    os.FileMode
}

// Result returns the planned files and final resolved names.
type Result struct {
	PackageName string
	Planned     []PlannedFile
}

// Emit renders the bindings package for the given document.
func Emit(ctx context.Context, doc *spec.Document, opts Options) (*Result, error) {
	_ = ctx
	if doc == nil {
		return nil, fmt.Errorf("goemitter: nil document")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("goemitter: OutDir is required")
	}
	pkg := sanitizePackageName(opts.PackageName)
	if pkg == "" {
		pkg = derivePackageName(doc.Title)
		if pkg == "" {
			pkg = "bindings"
		}
	}
	runtimeImport := strings.TrimSpace(opts.RuntimeImport)
	if runtimeImport == "" {
		runtimeImport = DefaultRuntimeImport
	}

	surfaces := synth.SynthesizeAll(doc)
	r := &renderer{pkg: pkg, runtimeImport: runtimeImport, doc: doc}

	// Build file map
	files := map[string][]byte{}
	files["doc.go"] = r.docFile()
	if len(doc.Schemas) > 0 {
		files["types.go"] = r.typesFile()
	}
	files["inputs.go"] = r.inputsFile(surfaces)
	files["responses.go"] = r.responsesFile(surfaces)
	files["calls.go"] = r.callsFile(surfaces)

	for name, content := range files {
		files[name] = formatSource(name, content)
	}

	// Plan in deterministic order
	rels := make([]string, 0, len(files))
	for p := range files {
		rels = append(rels, filepath.ToSlash(p))
	}
	sort.Strings(rels)

	planned := make([]PlannedFile, 0, len(rels))
	for _, rel := range rels {
		planned = append(planned, PlannedFile{RelPath: rel, Size: len(files[rel]), Mode: 0o644})
	}

	// Write if not dry-run
	if !opts.DryRun {
		if err := writeFiles(opts.OutDir, files, opts.Force); err != nil {
			return nil, err
		}
	}

	return &Result{PackageName: pkg, Planned: planned}, nil
}

// formatSource runs goimports-equivalent processing so generated code is
// immediately compilable. If formatting fails the unformatted source comes
// back; generation never fails on a formatter hiccup.
func formatSource(filename string, src []byte) []byte {
	out, err := imports.Process(filename, src, nil)
	if err != nil {
		return src
	}
	return out
}

func writeFiles(outDir string, files map[string][]byte, force bool) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve out dir: %w", err)
	}
	// Pre-flight: if directory exists and not empty and not force, error.
	if st, err := os.Stat(abs); err == nil && st.IsDir() && !force {
		entries, rerr := os.ReadDir(abs)
		if rerr == nil && len(entries) > 0 {
			return fmt.Errorf("goemitter: output directory %q is not empty (use --force to overwrite)", abs)
		}
	}
	for rel, content := range files {
		if err := writeFileAtomic(abs, rel, content); err != nil {
			return fmt.Errorf("goemitter: write %s: %w", rel, err)
		}
	}
	return nil
}

// writeFileAtomic writes through a temp file in the target directory plus a
// rename, so readers never observe partial files.
func writeFileAtomic(baseDir, relPath string, content []byte) error {
	p := filepath.Join(baseDir, relPath)
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-goemitter-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpPath, p); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func sanitizePackageName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	b := strings.Builder{}
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	out := strings.TrimLeft(b.String(), "0123456789_")
	return out
}

func derivePackageName(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return ""
	}
	b := strings.Builder{}
	for _, r := range t {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimLeft(b.String(), "0123456789")
}
