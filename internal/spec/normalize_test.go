package spec

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

const petstoreSpec = `openapi: 3.0.3
info:
  title: Pet Store
  version: "1.2.0"
paths:
  /ping:
    get:
      responses:
        "204":
          description: Alive.
  /pets:
    parameters:
      - in: query
        name: region
        schema:
          type: string
    get:
      operationId: listPets
      summary: List pets.
      tags: [pets]
      parameters:
        - in: query
          name: limit
          schema:
            type: integer
            format: int32
            default: 20
        - in: query
          name: region
          required: true
          schema:
            type: string
        - in: header
          name: X-Trace
          schema:
            type: string
        - in: header
          name: Accept
          schema:
            type: string
        - in: header
          name: Authorization
          schema:
            type: string
      responses:
        "200":
          description: A page of pets.
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
            text/plain:
              schema:
                type: string
        "404":
          description: No pets here.
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Error'
        default:
          description: Unexpected error.
    post:
      operationId: createPet
      tags: [pets, admin]
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
      responses:
        "201":
          description: Created.
  /pets/{petId}:
    get:
      operationId: getPet
      tags: [pets]
      parameters:
        - in: path
          name: petId
          required: true
          schema:
            type: integer
            format: int64
      responses:
        "200":
          description: A pet.
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      required: [id, name]
      properties:
        id:
          type: integer
          format: int64
        name:
          type: string
        tag:
          type: string
    Error:
      type: object
      required: [code, message]
      properties:
        code:
          type: integer
          format: int32
        message:
          type: string
    Legacy:
      $ref: '#/components/schemas/Pet'
`

func loadDoc(t *testing.T, spec string) *openapi3.T {
	t.Helper()
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData([]byte(strings.TrimSpace(spec)))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return doc
}

func buildDoc(t *testing.T, spec string, opts ...BuildOption) *Document {
	t.Helper()
	m, err := Build(loadDoc(t, spec), opts...)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return m
}

func findOp(t *testing.T, m *Document, goName string) OperationModel {
	t.Helper()
	for _, op := range m.Operations {
		if op.GoName == goName {
			return op
		}
	}
	t.Fatalf("operation %s not found", goName)
	return OperationModel{}
}

func TestBuild_Basic(t *testing.T) {
	t.Parallel()
	m := buildDoc(t, petstoreSpec)

	if m.Title != "Pet Store" {
		t.Errorf("title: got %q", m.Title)
	}
	if m.Version != "1.2.0" {
		t.Errorf("version: got %q", m.Version)
	}

	// Paths sort, methods keep a fixed order within a path.
	var names []string
	for _, op := range m.Operations {
		names = append(names, op.GoName)
	}
	want := []string{"GetPing", "ListPets", "CreatePet", "GetPet"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("operation order: got %v, want %v", names, want)
	}

	ping := findOp(t, m, "GetPing")
	if ping.ID != "get /ping" {
		t.Errorf("fallback ID: got %q", ping.ID)
	}
	if len(ping.Input.Groups) != 0 || ping.Input.Body != nil {
		t.Fatalf("get /ping: expected empty input, got %+v", ping.Input)
	}

	list := findOp(t, m, "ListPets")
	if list.ID != "listPets" || list.Method != GET || list.Path != "/pets" {
		t.Fatalf("listPets: %s %s (%s)", list.Method, list.Path, list.ID)
	}
	if list.Doc != "List pets." {
		t.Errorf("listPets doc: got %q", list.Doc)
	}
}

func TestBuild_ParameterGroups(t *testing.T) {
	t.Parallel()
	m := buildDoc(t, petstoreSpec)
	list := findOp(t, m, "ListPets")

	if len(list.Input.Groups) != 2 {
		t.Fatalf("groups: expected 2, got %d", len(list.Input.Groups))
	}

	query := list.Input.Groups[0]
	if query.Kind != InQuery || query.Type.Name != "ListPetsQuery" {
		t.Fatalf("first group: %+v", query)
	}
	var qnames []string
	for _, f := range query.Fields {
		qnames = append(qnames, f.Name)
	}
	// The path-level region keeps its slot even though the operation
	// overrides it.
	if !reflect.DeepEqual(qnames, []string{"region", "limit"}) {
		t.Fatalf("query field order: got %v", qnames)
	}
	region := query.Fields[0]
	if !region.Required {
		t.Fatalf("region: expected required after override, got %+v", region)
	}
	if region.Type.Name != "string" {
		t.Errorf("region type: got %q", region.Type.Name)
	}
	limit := query.Fields[1]
	if !limit.HasDefault || !reflect.DeepEqual(limit.Default, float64(20)) {
		t.Fatalf("limit default: %+v", limit)
	}
	if limit.Type.Name != "int32" {
		t.Errorf("defaulted field should not be a pointer: got %q", limit.Type.Name)
	}

	headers := list.Input.Groups[1]
	if headers.Kind != InHeader || headers.Type.Name != "ListPetsHeaders" {
		t.Fatalf("second group: %+v", headers)
	}
	var hnames []string
	for _, f := range headers.Fields {
		hnames = append(hnames, f.Name)
	}
	// Accept and Authorization belong to the transport; only X-Trace and
	// the synthesized accept field remain.
	if !reflect.DeepEqual(hnames, []string{"X-Trace", "accept"}) {
		t.Fatalf("header fields: got %v", hnames)
	}
	if headers.Fields[0].GoName != "XTrace" || headers.Fields[0].Type.Name != "*string" {
		t.Errorf("X-Trace field: %+v", headers.Fields[0])
	}

	path := findOp(t, m, "GetPet").Input.Groups[0]
	if path.Kind != InPath || path.Type.Name != "GetPetPath" {
		t.Fatalf("path group: %+v", path)
	}
	if f := path.Fields[0]; f.GoName != "PetId" || !f.Required || f.Type.Name != "int64" {
		t.Fatalf("petId field: %+v", f)
	}
}

func TestBuild_AcceptInjection(t *testing.T) {
	t.Parallel()
	m := buildDoc(t, petstoreSpec)

	headers := findOp(t, m, "ListPets").Input.Groups[1]
	accept := headers.Fields[len(headers.Fields)-1]
	if accept.Name != "accept" || accept.GoName != "Accept" {
		t.Fatalf("accept field: %+v", accept)
	}
	if !accept.HasDefault || !accept.AcceptPreference {
		t.Fatalf("accept field must default to the content preferences: %+v", accept)
	}
	if accept.Type.Name != "[]string" {
		t.Errorf("accept type: got %q", accept.Type.Name)
	}

	// No documented response content, no accept field.
	for _, g := range findOp(t, m, "GetPing").Input.Groups {
		for _, f := range g.Fields {
			if f.AcceptPreference {
				t.Fatalf("get /ping: unexpected accept field")
			}
		}
	}
}

func TestBuild_RequestBody(t *testing.T) {
	t.Parallel()
	m := buildDoc(t, petstoreSpec)

	body := findOp(t, m, "CreatePet").Input.Body
	if body == nil {
		t.Fatalf("post /pets: expected request body")
	}
	if !body.Required || body.HasDefault {
		t.Fatalf("body flags: %+v", body)
	}
	if body.Type.Name != "CreatePetBody" {
		t.Errorf("body type: got %q", body.Type.Name)
	}
	if len(body.Content) != 1 || body.Content[0].ContentType != "application/json" {
		t.Fatalf("body content: %+v", body.Content)
	}
	if body.Content[0].Type.Name != "Pet" {
		t.Errorf("body schema type: got %q", body.Content[0].Type.Name)
	}
}

func TestBuild_BodyDefault(t *testing.T) {
	t.Parallel()
	const echoSpec = `openapi: 3.0.3
info:
  title: Echo
  version: "1.0.0"
paths:
  /echo:
    post:
      operationId: echo
      requestBody:
        content:
          text/plain:
            schema:
              type: string
              default: ping
      responses:
        "200":
          description: Echoed.
          content:
            text/plain:
              schema:
                type: string
`
	m := buildDoc(t, echoSpec)
	body := findOp(t, m, "Echo").Input.Body
	if body == nil {
		t.Fatalf("expected request body")
	}
	if body.Required {
		t.Fatalf("body should be optional")
	}
	if !body.HasDefault || body.Default != "ping" {
		t.Fatalf("body default: %+v", body)
	}
}

func TestBuild_Output(t *testing.T) {
	t.Parallel()
	m := buildDoc(t, petstoreSpec)

	list := findOp(t, m, "ListPets")
	if list.Output.Type.Name != "ListPetsResponse" {
		t.Errorf("response type: got %q", list.Output.Type.Name)
	}
	// The default key carries no status code, so only 200 and 404 become
	// variants.
	if len(list.Output.Variants) != 2 {
		t.Fatalf("variants: %+v", list.Output.Variants)
	}
	ok := list.Output.Variants[0]
	if ok.Status != 200 || ok.Type.Name != "ListPetsOK" || ok.BodyType.Name != "ListPetsOKBody" {
		t.Fatalf("200 variant: %+v", ok)
	}
	var mimes []string
	for _, c := range ok.Content {
		mimes = append(mimes, c.ContentType)
	}
	if !reflect.DeepEqual(mimes, []string{"application/json", "text/plain"}) {
		t.Fatalf("content order: %v", mimes)
	}
	if ok.Content[0].Type.Name != "[]Pet" {
		t.Errorf("json payload type: got %q", ok.Content[0].Type.Name)
	}
	notFound := list.Output.Variants[1]
	if notFound.Status != 404 || notFound.Type.Name != "ListPetsNotFound" {
		t.Fatalf("404 variant: %+v", notFound)
	}
	if notFound.Doc != "No pets here." {
		t.Errorf("404 doc: got %q", notFound.Doc)
	}

	v := findOp(t, m, "GetPing").Output.Variants[0]
	if v.Status != 204 || v.Type.Name != "GetPingNoContent" {
		t.Fatalf("204 variant: %+v", v)
	}
	if v.BodyType.Name != "" || len(v.Content) != 0 {
		t.Fatalf("bodyless variant should have no body type: %+v", v)
	}
}

func TestBuild_Schemas(t *testing.T) {
	t.Parallel()
	m := buildDoc(t, petstoreSpec)

	var names []string
	for _, s := range m.Schemas {
		names = append(names, s.Name)
	}
	if !reflect.DeepEqual(names, []string{"Error", "Legacy", "Pet"}) {
		t.Fatalf("schema order: %v", names)
	}

	pet := m.Schemas[2]
	if pet.Alias || pet.Type.Name != "Pet" {
		t.Fatalf("Pet model: %+v", pet)
	}
	var fields []string
	for _, f := range pet.Fields {
		fields = append(fields, f.GoName+" "+f.Type.Name)
	}
	want := []string{"Id int64", "Name string", "Tag *string"}
	if !reflect.DeepEqual(fields, want) {
		t.Fatalf("Pet fields: got %v, want %v", fields, want)
	}

	legacy := m.Schemas[1]
	if !legacy.Alias || legacy.Type.Name != "Pet" {
		t.Fatalf("Legacy alias: %+v", legacy)
	}
}

func TestBuild_TagFiltering(t *testing.T) {
	t.Parallel()

	m := buildDoc(t, petstoreSpec, WithIncludeTags([]string{"admin"}))
	if len(m.Operations) != 1 || m.Operations[0].GoName != "CreatePet" {
		t.Fatalf("include tags: %+v", m.Operations)
	}

	m = buildDoc(t, petstoreSpec, WithExcludeTags([]string{"admin"}))
	for _, op := range m.Operations {
		if op.GoName == "CreatePet" {
			t.Fatalf("exclude tags: CreatePet should be filtered out")
		}
	}
	// Untagged operations survive an exclude-only filter.
	findOp(t, m, "GetPing")
}

func TestBuild_MethodAndPathFilters(t *testing.T) {
	t.Parallel()

	m := buildDoc(t, petstoreSpec, WithMethods([]HttpMethod{POST}))
	if len(m.Operations) != 1 || m.Operations[0].GoName != "CreatePet" {
		t.Fatalf("method filter: %+v", m.Operations)
	}

	m = buildDoc(t, petstoreSpec, WithPathPatterns([]string{`\{petId\}`}))
	if len(m.Operations) != 1 || m.Operations[0].GoName != "GetPet" {
		t.Fatalf("path filter: %+v", m.Operations)
	}

	m = buildDoc(t, petstoreSpec, WithPathPatterns([]string{"["}))
	if len(m.Operations) != 0 {
		t.Fatalf("invalid pattern should match nothing, got %+v", m.Operations)
	}
}

func TestBuild_NilDocument(t *testing.T) {
	t.Parallel()
	_, err := Build(nil)
	if err == nil {
		t.Fatalf("expected error for nil document")
	}
	if !strings.Contains(err.Error(), "nil document") {
		t.Fatalf("unexpected error: %v", err)
	}
}
