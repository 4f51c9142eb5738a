package spec

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mark3labs/openapi2bind/runtime"
)

// BuildOption configures how the normalized Document is built from an
// OpenAPI v3 document.
type BuildOption func(*buildConfig)

type buildConfig struct {
	includeTags map[string]struct{}
	excludeTags map[string]struct{}
	methods     map[HttpMethod]struct{}
	pathRes     []*regexp.Regexp
}

// WithIncludeTags keeps only operations carrying at least one of the tags.
func WithIncludeTags(tags []string) BuildOption {
	return func(c *buildConfig) {
		for _, t := range tags {
			if t = strings.TrimSpace(t); t == "" {
				continue
			}
			if c.includeTags == nil {
				c.includeTags = make(map[string]struct{}, len(tags))
			}
			c.includeTags[t] = struct{}{}
		}
	}
}

// WithExcludeTags removes operations carrying any of the tags.
func WithExcludeTags(tags []string) BuildOption {
	return func(c *buildConfig) {
		for _, t := range tags {
			if t = strings.TrimSpace(t); t == "" {
				continue
			}
			if c.excludeTags == nil {
				c.excludeTags = make(map[string]struct{}, len(tags))
			}
			c.excludeTags[t] = struct{}{}
		}
	}
}

// WithMethods keeps only operations using one of the HTTP methods.
func WithMethods(methods []HttpMethod) BuildOption {
	return func(c *buildConfig) {
		for _, m := range methods {
			if c.methods == nil {
				c.methods = make(map[HttpMethod]struct{}, len(methods))
			}
			c.methods[m] = struct{}{}
		}
	}
}

// WithPathPatterns keeps only operations whose path matches at least one of
// the regular expressions. Invalid patterns match nothing.
func WithPathPatterns(patterns []string) BuildOption {
	return func(c *buildConfig) {
		for _, p := range patterns {
			if p = strings.TrimSpace(p); p == "" {
				continue
			}
			re, err := regexp.Compile(p)
			if err != nil {
				re = regexp.MustCompile("a^")
			}
			c.pathRes = append(c.pathRes, re)
		}
	}
}

func (c *buildConfig) allowMethod(m HttpMethod) bool {
	if len(c.methods) == 0 {
		return true
	}
	_, ok := c.methods[m]
	return ok
}

func (c *buildConfig) allowPath(path string) bool {
	if len(c.pathRes) == 0 {
		return true
	}
	for _, re := range c.pathRes {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

func (c *buildConfig) allowTags(tags []string) bool {
	if len(c.includeTags) > 0 {
		ok := false
		for _, t := range tags {
			if _, yes := c.includeTags[t]; yes {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, t := range tags {
		if _, blocked := c.excludeTags[t]; blocked {
			return false
		}
	}
	return true
}

// Build converts a validated OpenAPI v3 document into the normalized model.
// It is a pure transformation: paths iterate in sorted order, methods in a
// fixed order, and parameters keep their declaration order, so the same
// document always yields the same model.
func Build(doc *openapi3.T, opts ...BuildOption) (*Document, error) {
	if doc == nil {
		return nil, &SpecError{Code: InputError, Message: "spec: nil document"}
	}

	cfg := &buildConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	out := &Document{}
	if doc.Info != nil {
		out.Title = strings.TrimSpace(doc.Info.Title)
		out.Version = strings.TrimSpace(doc.Info.Version)
		out.Description = cleanDoc(doc.Info.Description)
	}
	for _, s := range doc.Servers {
		if s == nil {
			continue
		}
		out.Servers = append(out.Servers, Server{URL: strings.TrimSpace(s.URL), Description: cleanDoc(s.Description)})
	}
	out.Schemas = buildSchemas(doc)

	pathKeys := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		pathKeys = append(pathKeys, p)
	}
	sort.Strings(pathKeys)

	for _, path := range pathKeys {
		item := doc.Paths[path]
		if item == nil {
			continue
		}
		ops := []struct {
			method HttpMethod
			op     *openapi3.Operation
		}{
			{GET, item.Get},
			{POST, item.Post},
			{PUT, item.Put},
			{DELETE, item.Delete},
			{PATCH, item.Patch},
			{HEAD, item.Head},
			{OPTIONS, item.Options},
			{TRACE, item.Trace},
		}
		for _, pair := range ops {
			if pair.op == nil || !cfg.allowMethod(pair.method) || !cfg.allowPath(path) {
				continue
			}
			tags := cleanTags(pair.op.Tags)
			if !cfg.allowTags(tags) {
				continue
			}
			out.Operations = append(out.Operations, buildOperation(path, pair.method, item, pair.op, tags))
		}
	}
	return out, nil
}

func buildOperation(path string, method HttpMethod, item *openapi3.PathItem, op *openapi3.Operation, tags []string) OperationModel {
	goName := operationGoName(op.OperationID, method, path)
	id := op.OperationID
	if id == "" {
		id = string(method) + " " + path
	}

	m := OperationModel{
		ID:     id,
		GoName: goName,
		Method: method,
		Path:   path,
		Doc:    operationDoc(op),
		Tags:   tags,
	}
	m.Output = buildOutput(goName, op.Responses)
	m.Input = buildInput(goName, mergeParameters(item.Parameters, op.Parameters), op.RequestBody, hasResponseContent(m.Output))
	return m
}

func operationDoc(op *openapi3.Operation) string {
	if s := cleanDoc(op.Summary); s != "" {
		return s
	}
	return cleanDoc(op.Description)
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// mergeParameters combines path-level and operation-level parameters,
// keeping declaration order. An operation-level parameter replaces a
// path-level one with the same (in, name) in place.
func mergeParameters(base, override openapi3.Parameters) []*openapi3.Parameter {
	merged := make([]*openapi3.Parameter, 0, len(base)+len(override))
	index := make(map[string]int, len(base))
	add := func(p *openapi3.Parameter) {
		key := strings.ToLower(p.In) + ":" + p.Name
		if i, ok := index[key]; ok {
			merged[i] = p
			return
		}
		index[key] = len(merged)
		merged = append(merged, p)
	}
	for _, ref := range base {
		if ref != nil && ref.Value != nil {
			add(ref.Value)
		}
	}
	for _, ref := range override {
		if ref != nil && ref.Value != nil {
			add(ref.Value)
		}
	}
	return merged
}

// Headers the generated transport owns; declaring them as parameters has no
// effect, matching OpenAPI's rules for Accept, Content-Type and
// Authorization.
var transportHeaders = map[string]bool{
	"accept":        true,
	"content-type":  true,
	"authorization": true,
}

func buildInput(goName string, params []*openapi3.Parameter, body *openapi3.RequestBodyRef, wantAccept bool) InputModel {
	var in InputModel
	groupIdx := make(map[GroupKind]int, 4)
	groupFor := func(kind GroupKind) *ParameterGroup {
		if i, ok := groupIdx[kind]; ok {
			return &in.Groups[i]
		}
		groupIdx[kind] = len(in.Groups)
		in.Groups = append(in.Groups, ParameterGroup{
			Kind: kind,
			Type: TypeRef{Name: goName + exportName(kind.ParamName())},
		})
		return &in.Groups[len(in.Groups)-1]
	}

	for _, p := range params {
		kind := GroupKind(strings.ToLower(p.In))
		switch kind {
		case InPath, InQuery, InHeader, InCookie:
		default:
			continue
		}
		if kind == InHeader && transportHeaders[strings.ToLower(p.Name)] {
			continue
		}
		g := groupFor(kind)
		g.Fields = append(g.Fields, buildField(p))
	}

	if wantAccept {
		g := groupFor(InHeader)
		g.Fields = append(g.Fields, ParameterField{
			Name:             "accept",
			GoName:           "Accept",
			HasDefault:       true,
			AcceptPreference: true,
			Type:             TypeRef{Name: "[]string"},
		})
	}

	if body != nil && body.Value != nil && len(body.Value.Content) > 0 {
		in.Body = buildBody(goName, body.Value)
	}
	return in
}

func buildField(p *openapi3.Parameter) ParameterField {
	f := ParameterField{
		Name:     p.Name,
		GoName:   exportName(p.Name),
		Doc:      cleanDoc(p.Description),
		Required: p.Required,
	}
	if p.Schema != nil && p.Schema.Value != nil && p.Schema.Value.Default != nil {
		f.HasDefault = true
		f.Default = p.Schema.Value.Default
	}
	f.Type = goType(p.Schema, f.Required || f.HasDefault)
	return f
}

func buildBody(goName string, rb *openapi3.RequestBody) *BodyField {
	b := &BodyField{
		Required: rb.Required,
		Type:     TypeRef{Name: goName + "Body"},
		Content:  contentVariants(rb.Content),
	}
	if !rb.Required && len(b.Content) == 1 {
		if mt := rb.Content[b.Content[0].ContentType]; mt != nil && mt.Schema != nil && mt.Schema.Value != nil && mt.Schema.Value.Default != nil {
			b.HasDefault = true
			b.Default = mt.Schema.Value.Default
		}
	}
	return b
}

// contentVariants flattens a content map into variants. The map carries no
// declaration order, so media types sort alphabetically for stability.
func contentVariants(content openapi3.Content) []ContentVariant {
	if len(content) == 0 {
		return nil
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]ContentVariant, 0, len(keys))
	for _, mime := range keys {
		mt := content[mime]
		if mt == nil {
			continue
		}
		out = append(out, ContentVariant{ContentType: mime, Type: goType(mt.Schema, true)})
	}
	return out
}

func buildOutput(goName string, responses openapi3.Responses) OutputModel {
	out := OutputModel{Type: TypeRef{Name: goName + "Response"}}

	codes := make([]int, 0, len(responses))
	byCode := make(map[int]*openapi3.Response, len(responses))
	for key, ref := range responses {
		code, err := strconv.Atoi(key)
		if err != nil || code < 100 || code > 599 {
			// "default" and ranged keys have no stable discriminant; those
			// outcomes surface through the undocumented catch-all.
			continue
		}
		if ref == nil || ref.Value == nil {
			continue
		}
		codes = append(codes, code)
		byCode[code] = ref.Value
	}
	sort.Ints(codes)

	for _, code := range codes {
		resp := byCode[code]
		name := string(runtime.StatusNameFor(code))
		v := ResponseVariant{
			Status:  code,
			Type:    TypeRef{Name: goName + ExportDiscriminant(name)},
			Content: contentVariants(resp.Content),
		}
		if resp.Description != nil {
			v.Doc = cleanDoc(*resp.Description)
		}
		if len(v.Content) > 0 {
			v.BodyType = TypeRef{Name: v.Type.Name + "Body"}
		}
		out.Variants = append(out.Variants, v)
	}
	return out
}

func hasResponseContent(out OutputModel) bool {
	for _, v := range out.Variants {
		if len(v.Content) > 0 {
			return true
		}
	}
	return false
}

func buildSchemas(doc *openapi3.T) []SchemaModel {
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil
	}
	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]SchemaModel, 0, len(names))
	for _, name := range names {
		ref := doc.Components.Schemas[name]
		if ref == nil {
			continue
		}
		out = append(out, buildSchemaModel(name, ref))
	}
	return out
}

func buildSchemaModel(name string, ref *openapi3.SchemaRef) SchemaModel {
	m := SchemaModel{Name: name, GoName: exportName(name)}
	if ref.Ref != "" {
		m.Alias = true
		m.Type = TypeRef{Name: refTypeName(ref.Ref)}
		return m
	}
	s := ref.Value
	if s == nil {
		m.Type = TypeRef{Name: "map[string]any"}
		return m
	}
	m.Doc = cleanDoc(s.Description)

	if (s.Type == "object" || s.Type == "") && len(s.Properties) > 0 {
		required := make(map[string]bool, len(s.Required))
		for _, r := range s.Required {
			required[r] = true
		}
		props := make([]string, 0, len(s.Properties))
		for p := range s.Properties {
			props = append(props, p)
		}
		sort.Strings(props)
		for _, p := range props {
			field := SchemaField{
				Name:     p,
				GoName:   exportName(p),
				Required: required[p],
				Type:     goType(s.Properties[p], required[p]),
			}
			if prop := s.Properties[p]; prop != nil && prop.Value != nil {
				field.Doc = cleanDoc(prop.Value.Description)
			}
			m.Fields = append(m.Fields, field)
		}
		m.Type = TypeRef{Name: m.GoName}
		return m
	}

	m.Type = TypeRef{Name: goTypeName(ref)}
	return m
}
