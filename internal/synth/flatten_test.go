package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/openapi2bind/internal/spec"
)

func ref(name string) spec.TypeRef { return spec.TypeRef{Name: name} }

func TestFlattenCall_groupOrderPreservedBodyLast(t *testing.T) {
	t.Parallel()

	op := spec.OperationModel{
		ID:     "updatePet",
		GoName: "UpdatePet",
		Input: spec.InputModel{
			Groups: []spec.ParameterGroup{
				{Kind: spec.InPath, Type: ref("UpdatePetPath"), Fields: []spec.ParameterField{
					{Name: "petId", GoName: "PetId", Required: true, Type: ref("int64")},
				}},
				{Kind: spec.InQuery, Type: ref("UpdatePetQuery")},
				{Kind: spec.InHeader, Type: ref("UpdatePetHeaders")},
			},
			Body: &spec.BodyField{Required: true, Type: ref("UpdatePetBody")},
		},
	}

	call := FlattenCall(op)
	require.Len(t, call.Params, 4)
	assert.Equal(t, "path", call.Params[0].Name)
	assert.Equal(t, "query", call.Params[1].Name)
	assert.Equal(t, "headers", call.Params[2].Name)
	assert.Equal(t, "body", call.Params[3].Name)
	assert.Equal(t, ref("UpdatePetBody"), call.Params[3].Type)
}

func TestFlattenCall_requiredFieldBlocksGroupDefault(t *testing.T) {
	t.Parallel()

	op := spec.OperationModel{
		Input: spec.InputModel{Groups: []spec.ParameterGroup{
			{Kind: spec.InPath, Type: ref("GetPetPath"), Fields: []spec.ParameterField{
				{Name: "petId", GoName: "PetId", Required: true, Type: ref("int64")},
			}},
		}},
	}

	call := FlattenCall(op)
	require.Len(t, call.Params, 1)
	assert.False(t, call.Params[0].HasDefault)
	assert.Empty(t, call.Params[0].Defaults)
}

func TestFlattenCall_requiredWithDeclaredDefaultStaysDefaultable(t *testing.T) {
	t.Parallel()

	op := spec.OperationModel{
		Input: spec.InputModel{Groups: []spec.ParameterGroup{
			{Kind: spec.InQuery, Type: ref("ListPetsQuery"), Fields: []spec.ParameterField{
				{Name: "limit", GoName: "Limit", Required: true, HasDefault: true, Default: int64(20), Type: ref("int64")},
				{Name: "tag", GoName: "Tag", Type: ref("*string")},
			}},
		}},
	}

	call := FlattenCall(op)
	require.Len(t, call.Params, 1)
	assert.True(t, call.Params[0].HasDefault)
	require.Len(t, call.Params[0].Defaults, 1)
	assert.Equal(t, "Limit", call.Params[0].Defaults[0].Field)
	assert.Equal(t, int64(20), call.Params[0].Defaults[0].Value)
}

func TestFlattenCall_allOptionalNoDeclaredDefaults(t *testing.T) {
	t.Parallel()

	// Optional fields without declared defaults still make the group
	// defaultable; the implicit default is the all-zero group.
	op := spec.OperationModel{
		Input: spec.InputModel{Groups: []spec.ParameterGroup{
			{Kind: spec.InQuery, Type: ref("ListPetsQuery"), Fields: []spec.ParameterField{
				{Name: "tag", GoName: "Tag", Type: ref("*string")},
				{Name: "limit", GoName: "Limit", Type: ref("*int64")},
			}},
		}},
	}

	call := FlattenCall(op)
	require.Len(t, call.Params, 1)
	assert.True(t, call.Params[0].HasDefault)
	assert.Empty(t, call.Params[0].Defaults)
}

func TestFlattenCall_emptyGroupIsVacuouslyDefaultable(t *testing.T) {
	t.Parallel()

	op := spec.OperationModel{
		Input: spec.InputModel{Groups: []spec.ParameterGroup{
			{Kind: spec.InCookie, Type: ref("PingCookies")},
		}},
	}

	call := FlattenCall(op)
	require.Len(t, call.Params, 1)
	assert.Equal(t, "cookies", call.Params[0].Name)
	assert.True(t, call.Params[0].HasDefault)
}

func TestFlattenCall_zeroInputsCollapseToZeroParams(t *testing.T) {
	t.Parallel()

	call := FlattenCall(spec.OperationModel{ID: "ping", GoName: "Ping"})
	assert.Equal(t, "ping", call.Operation)
	assert.Empty(t, call.Params)
}

func TestFlattenCall_bodyDefault(t *testing.T) {
	t.Parallel()

	op := spec.OperationModel{
		Input: spec.InputModel{
			Body: &spec.BodyField{HasDefault: true, Default: map[string]any{"mode": "fast"}, Type: ref("StartJobBody")},
		},
	}

	call := FlattenCall(op)
	require.Len(t, call.Params, 1)
	p := call.Params[0]
	assert.Equal(t, "body", p.Name)
	assert.True(t, p.HasDefault)
	require.Len(t, p.Defaults, 1)
	assert.Empty(t, p.Defaults[0].Field)
	assert.Equal(t, map[string]any{"mode": "fast"}, p.Defaults[0].Value)
}

func TestFlattenCall_acceptFieldDefaultsToPreferenceList(t *testing.T) {
	t.Parallel()

	op := spec.OperationModel{
		Input: spec.InputModel{Groups: []spec.ParameterGroup{
			{Kind: spec.InHeader, Type: ref("ListPetsHeaders"), Fields: []spec.ParameterField{
				{Name: "accept", GoName: "Accept", HasDefault: true, AcceptPreference: true, Type: ref("[]string")},
			}},
		}},
		Output: spec.OutputModel{
			Type: ref("ListPetsResponse"),
			Variants: []spec.ResponseVariant{
				{Status: 200, Type: ref("ListPetsOK"), BodyType: ref("ListPetsOKBody"), Content: []spec.ContentVariant{
					{ContentType: "application/json", Type: ref("[]Pet")},
					{ContentType: "text/plain", Type: ref("string")},
				}},
			},
		},
	}

	call := FlattenCall(op)
	require.Len(t, call.Params, 1)
	require.True(t, call.Params[0].HasDefault)
	require.Len(t, call.Params[0].Defaults, 1)
	d := call.Params[0].Defaults[0]
	assert.Equal(t, "Accept", d.Field)
	assert.Nil(t, d.Value)
	assert.Equal(t, []string{"application/json", "text/plain"}, d.Accept)
}
