package spec

// Normalized operation model consumed by the synthesizers and emitters.
// Values are produced once by Build and treated as immutable afterwards;
// every slice is in declaration order so consumers never sort.

type HttpMethod string

const (
	GET     HttpMethod = "get"
	POST    HttpMethod = "post"
	PUT     HttpMethod = "put"
	DELETE  HttpMethod = "delete"
	PATCH   HttpMethod = "patch"
	HEAD    HttpMethod = "head"
	OPTIONS HttpMethod = "options"
	TRACE   HttpMethod = "trace"
)

// Document is the normalized form of one OpenAPI document: the operations to
// generate bindings for plus the named schema types they reference.
type Document struct {
	Title       string
	Version     string
	Description string
	Servers     []Server
	Operations  []OperationModel
	Schemas     []SchemaModel // sorted by Name
}

type Server struct {
	URL         string
	Description string
}

// OperationModel describes one operation's inputs and documented outcomes.
type OperationModel struct {
	ID     string // operationId, or method+path when absent
	GoName string
	Method HttpMethod
	Path   string
	Doc    string
	Tags   []string
	Input  InputModel
	Output OutputModel
}

// InputModel holds the operation's parameter groups and optional body.
// Group kinds are unique; group order is first-appearance order in the
// source document.
type InputModel struct {
	Groups []ParameterGroup
	Body   *BodyField
}

type GroupKind string

const (
	InPath   GroupKind = "path"
	InQuery  GroupKind = "query"
	InHeader GroupKind = "header"
	InCookie GroupKind = "cookie"
)

// ParamName is the flattened-call parameter name for the group kind.
func (k GroupKind) ParamName() string {
	switch k {
	case InHeader:
		return "headers"
	case InCookie:
		return "cookies"
	default:
		return string(k)
	}
}

// ParameterGroup collects an operation's parameters of one kind into a
// constructed value of type Type.
type ParameterGroup struct {
	Kind   GroupKind
	Type   TypeRef
	Fields []ParameterField
}

// Defaultable reports whether the group as a whole can be constructed
// without caller input: every field optional or defaulted. A group with no
// fields is vacuously defaultable.
func (g ParameterGroup) Defaultable() bool {
	for _, f := range g.Fields {
		if f.Required && !f.HasDefault {
			return false
		}
	}
	return true
}

// ParameterField is one parameter within a group. AcceptPreference marks the
// injected accept-header field whose default is the operation's content
// preference list rather than a declared value.
type ParameterField struct {
	Name             string // wire name
	GoName           string
	Doc              string
	Required         bool
	HasDefault       bool
	Default          any
	AcceptPreference bool
	Type             TypeRef
}

// BodyField is the operation's request payload, possibly a sum over content
// types. Content holds one variant per documented request content type.
type BodyField struct {
	Required   bool
	HasDefault bool
	Default    any
	Type       TypeRef
	Content    []ContentVariant
}

// ContentVariant is one documented content type of a body.
type ContentVariant struct {
	ContentType string
	Type        TypeRef
}

// ResponseVariant is one documented outcome of an operation. Content may be
// empty for bodiless responses; BodyType names the body sum type and is set
// exactly when Content is non-empty. Status codes are unique per operation;
// the undocumented catch-all is implicit and never listed here.
type ResponseVariant struct {
	Status   int
	Doc      string
	Type     TypeRef
	BodyType TypeRef
	Content  []ContentVariant
}

// OutputModel holds the documented outcomes of an operation. Type names the
// generated response sum.
type OutputModel struct {
	Type     TypeRef
	Variants []ResponseVariant
}

// TypeRef names a Go type as it appears in generated code, for example
// "int64", "[]Pet" or "Pet".
type TypeRef struct {
	Name string
}

func (r TypeRef) String() string { return r.Name }

// SchemaModel is one named component schema rendered into the generated
// types file. Fields is set when the schema renders as a struct; Alias marks
// a pure reference to another schema.
type SchemaModel struct {
	Name   string // component name in the document
	GoName string
	Doc    string
	Alias  bool
	Type   TypeRef
	Fields []SchemaField
}

type SchemaField struct {
	Name     string // wire name
	GoName   string
	Doc      string
	Required bool
	Type     TypeRef
}
