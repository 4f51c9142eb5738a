package spec

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

func schemaOf(typ, format string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: typ, Format: format}}
}

func TestGoTypeName(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		ref  *openapi3.SchemaRef
		want string
	}{
		{"string", schemaOf("string", ""), "string"},
		{"date-time", schemaOf("string", "date-time"), "time.Time"},
		{"bytes", schemaOf("string", "byte"), "[]byte"},
		{"int32", schemaOf("integer", "int32"), "int32"},
		{"integer", schemaOf("integer", ""), "int64"},
		{"float", schemaOf("number", "float"), "float32"},
		{"number", schemaOf("number", ""), "float64"},
		{"boolean", schemaOf("boolean", ""), "bool"},
		{"untyped", &openapi3.SchemaRef{Value: &openapi3.Schema{}}, "any"},
		{"missing", nil, "any"},
		{"reference", &openapi3.SchemaRef{Ref: "#/components/schemas/Pet", Value: &openapi3.Schema{Type: "object"}}, "Pet"},
	}
	for _, c := range cases {
		if got := goTypeName(c.ref); got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestGoTypeName_Compound(t *testing.T) {
	t.Parallel()

	pets := &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type:  "array",
		Items: &openapi3.SchemaRef{Ref: "#/components/schemas/Pet"},
	}}
	if got := goTypeName(pets); got != "[]Pet" {
		t.Errorf("array of refs: got %q", got)
	}

	bare := &openapi3.SchemaRef{Value: &openapi3.Schema{Type: "array"}}
	if got := goTypeName(bare); got != "[]any" {
		t.Errorf("bare array: got %q", got)
	}

	dict := &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type:                 "object",
		AdditionalProperties: openapi3.AdditionalProperties{Schema: schemaOf("string", "")},
	}}
	if got := goTypeName(dict); got != "map[string]string" {
		t.Errorf("dictionary: got %q", got)
	}

	// Inline objects degrade to a map; only components get named types.
	inline := &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type:       "object",
		Properties: map[string]*openapi3.SchemaRef{"id": schemaOf("integer", "int64")},
	}}
	if got := goTypeName(inline); got != "map[string]any" {
		t.Errorf("inline object: got %q", got)
	}
}

func TestGoType_OptionalPointers(t *testing.T) {
	t.Parallel()

	if got := goType(schemaOf("string", ""), true); got.Name != "string" {
		t.Errorf("required scalar: got %q", got.Name)
	}
	if got := goType(schemaOf("string", ""), false); got.Name != "*string" {
		t.Errorf("optional scalar: got %q", got.Name)
	}

	// Slices, maps and any already represent absence; no pointer wrapping.
	pets := &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type:  "array",
		Items: &openapi3.SchemaRef{Ref: "#/components/schemas/Pet"},
	}}
	if got := goType(pets, false); got.Name != "[]Pet" {
		t.Errorf("optional slice: got %q", got.Name)
	}
	if got := goType(nil, false); got.Name != "any" {
		t.Errorf("optional any: got %q", got.Name)
	}

	if got := goType(&openapi3.SchemaRef{Ref: "#/components/schemas/Pet"}, false); got.Name != "*Pet" {
		t.Errorf("optional ref: got %q", got.Name)
	}
}

func TestRefTypeName(t *testing.T) {
	t.Parallel()
	if got := refTypeName("#/components/schemas/user-profile"); got != "UserProfile" {
		t.Errorf("got %q", got)
	}
}
