package spec

// OpenAPI type/format to Go type mapping for the normalized model.

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const schemaRefPrefix = "#/components/schemas/"

// refTypeName resolves a component reference to its generated type name.
func refTypeName(ref string) string {
	return exportName(strings.TrimPrefix(ref, schemaRefPrefix))
}

// goType maps a schema to the Go type used in generated code. Optional
// scalars and named types become pointers so absence stays representable;
// slices and maps already have a usable zero value and stay bare. Inline
// objects degrade to map[string]any: only component schemas get named
// struct types.
func goType(ref *openapi3.SchemaRef, required bool) TypeRef {
	name := goTypeName(ref)
	if !required && !strings.HasPrefix(name, "[]") && !strings.HasPrefix(name, "map") && name != "any" {
		name = "*" + name
	}
	return TypeRef{Name: name}
}

func goTypeName(ref *openapi3.SchemaRef) string {
	if ref == nil {
		return "any"
	}
	if ref.Ref != "" {
		return refTypeName(ref.Ref)
	}
	s := ref.Value
	if s == nil {
		return "any"
	}

	switch s.Type {
	case "string":
		return stringFormatType(s.Format)
	case "integer":
		if s.Format == "int32" {
			return "int32"
		}
		return "int64"
	case "number":
		if s.Format == "float" {
			return "float32"
		}
		return "float64"
	case "boolean":
		return "bool"
	case "array":
		if s.Items == nil {
			return "[]any"
		}
		return "[]" + goTypeName(s.Items)
	case "object", "":
		if s.AdditionalProperties.Schema != nil {
			return "map[string]" + goTypeName(s.AdditionalProperties.Schema)
		}
		if s.Type == "object" || len(s.Properties) > 0 {
			return "map[string]any"
		}
		return "any"
	default:
		return "any"
	}
}

func stringFormatType(format string) string {
	switch format {
	case "date-time":
		return "time.Time"
	case "byte", "binary":
		return "[]byte"
	default:
		return "string"
	}
}
