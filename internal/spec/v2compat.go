package spec

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// fixupV2 rewrites non-compliant Swagger v2 operations before conversion:
// multiple body parameters merge into a single object-typed body, and
// operations mixing body with formData have the body parameters rewritten as
// formData so the converter accepts them. Returns possibly-modified bytes
// and whether anything changed; on error the input comes back unchanged.
func fixupV2(data []byte) ([]byte, bool, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return data, false, err
	}
	paths, ok := doc["paths"].(map[string]any)
	if !ok || len(paths) == 0 {
		return data, false, nil
	}

	modified := false
	for _, rawItem := range paths {
		item, ok := rawItem.(map[string]any)
		if !ok {
			continue
		}
		for method, rawOp := range item {
			switch strings.ToLower(method) {
			case "get", "post", "put", "delete", "patch", "options", "head":
			default:
				continue
			}
			if op, ok := rawOp.(map[string]any); ok && fixupV2Operation(op) {
				modified = true
			}
		}
	}
	if !modified {
		return data, false, nil
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return data, false, err
	}
	return out, true, nil
}

func fixupV2Operation(op map[string]any) bool {
	params, ok := op["parameters"].([]any)
	if !ok || len(params) == 0 {
		return false
	}

	bodies := 0
	hasFormData := false
	for _, raw := range params {
		p, _ := raw.(map[string]any)
		switch strings.ToLower(asString(p["in"])) {
		case "body":
			bodies++
		case "formdata":
			hasFormData = true
		}
	}
	if bodies == 0 {
		return false
	}

	if hasFormData {
		rewritten := make([]any, 0, len(params))
		for _, raw := range params {
			p, _ := raw.(map[string]any)
			if p != nil && strings.EqualFold(asString(p["in"]), "body") {
				rewritten = append(rewritten, formDataFromBodyParam(p))
				continue
			}
			rewritten = append(rewritten, raw)
		}
		op["parameters"] = rewritten
		consumes, _ := op["consumes"].([]any)
		if !containsString(consumes, "multipart/form-data") {
			op["consumes"] = append(consumes, "multipart/form-data")
		}
		return true
	}

	if bodies < 2 {
		return false
	}

	// Merge every body parameter into one object schema, keeping the rest.
	props := map[string]any{}
	var required []any
	rest := make([]any, 0, len(params))
	for _, raw := range params {
		p, _ := raw.(map[string]any)
		if p == nil || !strings.EqualFold(asString(p["in"]), "body") {
			rest = append(rest, raw)
			continue
		}
		name := asString(p["name"])
		if name == "" {
			name = "field"
		}
		schema := schemaFromV2Param(p)
		if schema == nil {
			schema = map[string]any{"type": "string"}
		}
		props[name] = schema
		if req, _ := p["required"].(bool); req {
			required = append(required, name)
		}
	}
	bodySchema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		bodySchema["required"] = required
	}
	merged := map[string]any{"in": "body", "name": "body", "schema": bodySchema}
	op["parameters"] = append([]any{merged}, rest...)
	return true
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func containsString(list []any, want string) bool {
	for _, v := range list {
		if s, ok := v.(string); ok && s == want {
			return true
		}
	}
	return false
}

// schemaFromV2Param returns the parameter's schema, synthesizing one from
// the v2 type/items/format fields when no schema is declared.
func schemaFromV2Param(p map[string]any) map[string]any {
	if schema, ok := p["schema"].(map[string]any); ok {
		return schema
	}
	typ := asString(p["type"])
	if typ == "" {
		return nil
	}
	schema := map[string]any{"type": typ}
	if items, ok := p["items"].(map[string]any); ok {
		schema["items"] = items
	}
	if format := asString(p["format"]); format != "" {
		schema["format"] = format
	}
	return schema
}

// formDataFromBodyParam degrades a body parameter to a formData equivalent.
// Referenced object schemas cannot be represented in formData and fall back
// to string.
func formDataFromBodyParam(p map[string]any) map[string]any {
	name := asString(p["name"])
	if name == "" {
		name = "field"
	}
	out := map[string]any{"in": "formData", "name": name}
	if desc := asString(p["description"]); desc != "" {
		out["description"] = desc
	}
	if req, ok := p["required"].(bool); ok {
		out["required"] = req
	}

	var typ, format string
	var items any
	if schema, ok := p["schema"].(map[string]any); ok {
		typ = asString(schema["type"])
		format = asString(schema["format"])
		if it, ok := schema["items"].(map[string]any); ok {
			items = it
		}
		if typ == "" && schema["$ref"] != nil {
			typ = "string"
		}
	}
	if typ == "" {
		typ = asString(p["type"])
		format = asString(p["format"])
		if it, ok := p["items"].(map[string]any); ok {
			items = it
		}
	}
	if typ == "" {
		typ = "string"
	}
	out["type"] = typ
	if items != nil {
		out["items"] = items
	}
	if format != "" {
		out["format"] = format
	}
	return out
}
