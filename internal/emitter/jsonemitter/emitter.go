// Package jsonemitter dumps the normalized document and its synthesized
// surfaces as machine-readable JSON, for external printers and tooling that
// render the bindings in some other language.
package jsonemitter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/openapi2bind/internal/spec"
	"github.com/mark3labs/openapi2bind/internal/synth"
)

// Options controls how the JSON emitter writes its output.
type Options struct {
	OutDir  string // required; target directory to write the files
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

// surfaceDoc is the shape of surface.json: the document identity plus one
// entry per operation pairing the model with everything synthesized from it.
type surfaceDoc struct {
	Title      string
	Version    string
	Operations []operationSurface
}

type operationSurface struct {
	Model   spec.OperationModel
	Surface synth.Surface
}

// Emit writes model.json (the normalized document) and surface.json (the
// synthesized call decls, accessors and accept lists) for the document.
func Emit(ctx context.Context, doc *spec.Document, opts Options) (*Result, error) {
	_ = ctx
	if doc == nil {
		return nil, fmt.Errorf("jsonemitter: nil document")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("jsonemitter: OutDir is required")
	}

	surfaces := synth.SynthesizeAll(doc)
	sd := surfaceDoc{Title: doc.Title, Version: doc.Version}
	for i, op := range doc.Operations {
		sd.Operations = append(sd.Operations, operationSurface{Model: op, Surface: surfaces[i]})
	}

	files := map[string][]byte{}
	modelJSON, err := marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("jsonemitter: marshal model.json: %w", err)
	}
	files["model.json"] = modelJSON
	surfaceJSON, err := marshal(sd)
	if err != nil {
		return nil, fmt.Errorf("jsonemitter: marshal surface.json: %w", err)
	}
	files["surface.json"] = surfaceJSON

	rels := make([]string, 0, len(files))
	for p := range files {
		rels = append(rels, filepath.ToSlash(p))
	}
	sort.Strings(rels)

	planned := make([]PlannedFile, 0, len(rels))
	for _, rel := range rels {
		planned = append(planned, PlannedFile{RelPath: rel, Size: len(files[rel]), Mode: 0o644})
	}

	if !opts.DryRun {
		if err := writeFiles(opts.OutDir, files, opts.Force); err != nil {
			return nil, err
		}
	}

	return &Result{Planned: planned}, nil
}

// marshal indents with two spaces and ends with a newline. Struct fields
// serialize in declaration order, so output is byte-stable across runs.
func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func writeFiles(outDir string, files map[string][]byte, force bool) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve out dir: %w", err)
	}
	if st, err := os.Stat(abs); err == nil && st.IsDir() && !force {
		entries, rerr := os.ReadDir(abs)
		if rerr == nil && len(entries) > 0 {
			return fmt.Errorf("jsonemitter: output directory %q is not empty (use --force to overwrite)", abs)
		}
	}
	for rel, content := range files {
		p := filepath.Join(abs, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
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
	}
	return nil
}
