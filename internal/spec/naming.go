package spec

// Go identifier derivation for everything the normalized model names. All
// naming happens here, at the model boundary; synthesizers and emitters
// never invent identifiers.

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxDocLength = 200

// titleCaser handles Unicode title casing; strings.Title is deprecated.
var titleCaser = cases.Title(language.English, cases.NoLower)

// goReservedWords holds Go keywords only. Predeclared identifiers like
// "error" can be shadowed and are commonly wanted as names, so they are not
// escaped.
var goReservedWords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

func escapeReserved(name string) string {
	if goReservedWords[name] {
		return name + "_"
	}
	return name
}

// exportName converts a document identifier to an exported Go name:
// separators trigger capitalization, anything non-alphanumeric is dropped,
// and a leading digit gets a "T" prefix.
func exportName(s string) string {
	if s == "" {
		return "T"
	}

	var result strings.Builder
	result.Grow(len(s))
	capitalizeNext := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			capitalizeNext = true
			continue
		}
		if capitalizeNext {
			result.WriteString(titleCaser.String(string(r)))
			capitalizeNext = false
		} else {
			result.WriteRune(r)
		}
	}

	name := result.String()
	if name == "" {
		return "T"
	}
	if !unicode.IsLetter(rune(name[0])) {
		name = "T" + name
	}
	return escapeReserved(name)
}

// unexportName is exportName with a lowered first rune, for parameter and
// local names in generated code.
func unexportName(s string) string {
	name := exportName(s)
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return escapeReserved(string(runes))
}

// operationGoName derives the generated method name: the operationId when
// present, otherwise method plus path with parameter segments spelled
// "By <name>" ("get /pets/{petId}" becomes GetPetsByPetId).
func operationGoName(operationID string, method HttpMethod, path string) string {
	if operationID != "" {
		return exportName(operationID)
	}
	p := strings.ReplaceAll(path, "/", " ")
	p = strings.ReplaceAll(p, "{", "By ")
	p = strings.ReplaceAll(p, "}", "")
	return exportName(string(method) + " " + p)
}

// discriminantInitialisms keeps the discriminants that are initialisms fully
// capitalized when exported, per Go convention.
var discriminantInitialisms = map[string]string{
	"ok":   "OK",
	"json": "JSON",
	"xml":  "XML",
	"html": "HTML",
	"csv":  "CSV",
	"yaml": "YAML",
}

// ExportDiscriminant renders a discriminant name ("ok", "notFound", "json")
// as the exported Go identifier used for generated case types and accessor
// methods.
func ExportDiscriminant(name string) string {
	if s, ok := discriminantInitialisms[name]; ok {
		return s
	}
	return exportName(name)
}

// cleanDoc flattens a document description onto one line and truncates it so
// generated comments stay readable.
func cleanDoc(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.Join(strings.Fields(s), " ")
	if runes := []rune(s); len(runes) > maxDocLength {
		s = string(runes[:maxDocLength-3]) + "..."
	}
	return s
}
