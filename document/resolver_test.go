package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasmatch/oaserrors"
)

func TestResolveLocal(t *testing.T) {
	doc := map[string]any{
		"definitions": map[string]any{
			"a/b": map[string]any{"type": "string"},
			"c~d": map[string]any{"type": "integer"},
		},
		"list": []any{"zero", map[string]any{"type": "boolean"}},
	}
	r := NewRefResolver(".")

	tests := []struct {
		name    string
		ref     string
		want    any
		wantErr bool
	}{
		{"escaped slash", "#/definitions/a~1b", map[string]any{"type": "string"}, false},
		{"escaped tilde", "#/definitions/c~0d", map[string]any{"type": "integer"}, false},
		{"array index", "#/list/1", map[string]any{"type": "boolean"}, false},
		{"root", "#", doc, false},
		{"missing key", "#/definitions/nope", nil, true},
		{"bad index", "#/list/x", nil, true},
		{"index out of range", "#/list/5", nil, true},
		{"traverse scalar", "#/list/0/type", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveLocal(doc, tt.ref)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, oaserrors.ErrReference))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveAllRefs(t *testing.T) {
	t.Run("replaces ref with deep copy", func(t *testing.T) {
		target := map[string]any{"type": "object", "required": []any{"id"}}
		use1 := map[string]any{"$ref": "#/definitions/T"}
		use2 := map[string]any{"$ref": "#/definitions/T", "description": "ignored"}
		doc := map[string]any{
			"definitions": map[string]any{"T": target},
			"a":           use1,
			"b":           []any{use2},
		}
		r := NewRefResolver(".")
		require.NoError(t, r.ResolveAllRefs(doc))

		assert.Equal(t, "object", use1["type"])
		assert.NotContains(t, use1, "$ref")
		assert.NotContains(t, use2, "description")
		assert.Equal(t, 2, r.Resolved())

		use1["required"].([]any)[0] = "changed"
		assert.Equal(t, "id", target["required"].([]any)[0])
	})

	t.Run("self reference is circular", func(t *testing.T) {
		doc := map[string]any{
			"definitions": map[string]any{
				"Node": map[string]any{
					"properties": map[string]any{
						"next": map[string]any{"$ref": "#/definitions/Node"},
					},
				},
			},
		}
		err := NewRefResolver(".").ResolveAllRefs(doc)
		require.Error(t, err)
		var refErr *oaserrors.ReferenceError
		require.True(t, errors.As(err, &refErr))
		assert.True(t, refErr.IsCircular)
		assert.Equal(t, "#/definitions/Node", refErr.Ref)
	})

	t.Run("root reference is circular", func(t *testing.T) {
		doc := map[string]any{"a": map[string]any{"$ref": "#"}}
		err := NewRefResolver(".").ResolveAllRefs(doc)
		assert.True(t, errors.Is(err, oaserrors.ErrCircularReference))
	})

	t.Run("non-object target", func(t *testing.T) {
		doc := map[string]any{"s": "text", "a": map[string]any{"$ref": "#/s"}}
		err := NewRefResolver(".").ResolveAllRefs(doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not an object")
	})

	t.Run("depth limit", func(t *testing.T) {
		doc := map[string]any{}
		cur := doc
		for i := 0; i < 10; i++ {
			next := map[string]any{}
			cur["n"] = next
			cur = next
		}
		r := NewRefResolver(".")
		r.MaxRefDepth = 5
		err := r.ResolveAllRefs(doc)
		assert.True(t, errors.Is(err, oaserrors.ErrResourceLimit))
	})

	t.Run("external refs are cached and limited", func(t *testing.T) {
		r := NewRefResolver("testdata")
		_, _, err := r.ResolveExternal("common.yaml#/definitions/Detail")
		require.NoError(t, err)
		_, _, err = r.ResolveExternal("common.yaml#/definitions/Error")
		require.NoError(t, err)
		assert.Len(t, r.documents, 1)

		r.MaxCachedDocuments = 1
		_, _, err = r.ResolveExternal("circular.yaml")
		assert.True(t, errors.Is(err, oaserrors.ErrResourceLimit))
	})
}

func TestDereference(t *testing.T) {
	minLen := 1
	doc := &Document{
		Swagger: "2.0",
		Paths: Paths{
			"/items": &PathItem{
				Get: &Operation{
					Parameters: []*Parameter{{Ref: "#/parameters/Limit"}},
					Responses: &Responses{Codes: map[string]*Response{
						"200": {Description: "ok", Schema: &Schema{Ref: "#/definitions/Item"}},
					}},
				},
			},
		},
		Parameters: map[string]*Parameter{
			"Limit": {Name: "limit", In: InQuery, Type: "integer", Minimum: floatPtr(1)},
		},
		Definitions: map[string]*Schema{
			"Item": {Type: "object", Properties: map[string]*Schema{"name": {Type: "string", MinLength: &minLen}}},
		},
	}

	out, err := Dereference(doc)
	require.NoError(t, err)
	require.NotSame(t, doc, out)

	op := out.Paths["/items"].Get
	require.Len(t, op.Parameters, 1)
	assert.Equal(t, "limit", op.Parameters[0].Name)
	assert.Empty(t, op.Parameters[0].Ref)
	require.NotNil(t, op.Parameters[0].Minimum)
	assert.InDelta(t, 1.0, *op.Parameters[0].Minimum, 0)

	schema := op.Responses.Codes["200"].Schema
	assert.Equal(t, "object", schema.Type)
	assert.Empty(t, schema.Ref)

	// the input is untouched
	assert.Equal(t, "#/parameters/Limit", doc.Paths["/items"].Get.Parameters[0].Ref)

	_, err = Dereference(nil)
	assert.True(t, errors.Is(err, oaserrors.ErrParse))
}

func floatPtr(f float64) *float64 { return &f }
