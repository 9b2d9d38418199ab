// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	gojson "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasmatch/document"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

// NewSimpleDocument creates a minimal Swagger 2.0 document for testing.
// Contains only swagger, info, basePath and an empty paths object.
func NewSimpleDocument() *document.Document {
	return &document.Document{
		Swagger: "2.0",
		Info: &document.Info{
			Title:   "Test API",
			Version: "1.0.0",
		},
		BasePath: "/v1",
		Paths:    make(document.Paths),
	}
}

// PetSchema returns the dereferenced Pet definition used by the fixtures.
func PetSchema() *document.Schema {
	return &document.Schema{
		Type:     "object",
		Required: []string{"id", "name"},
		Properties: map[string]*document.Schema{
			"id":   {Type: "integer", Minimum: floatPtr(1)},
			"name": {Type: "string", MinLength: intPtr(1)},
			"tag":  {Type: "string", Nullable: true},
		},
	}
}

// NewPetstoreDocument creates a dereferenced document with query, header,
// path and body parameters, and responses with and without schemas:
//
//	GET    /v1/pets            limit (query integer <= 100), tags (query csv strings), X-Request-Id (header, required)
//	POST   /v1/pets            pet (body, required)
//	GET    /v1/pets/{petId}    petId (path integer)
//	DELETE /v1/pets/{petId}    204 without a body
func NewPetstoreDocument() *document.Document {
	doc := NewSimpleDocument()
	doc.Definitions = map[string]*document.Schema{"Pet": PetSchema()}

	petID := &document.Parameter{Name: "petId", In: document.InPath, Required: true, Type: "integer"}
	doc.Paths = document.Paths{
		"/pets": {
			Get: &document.Operation{
				OperationID: "listPets",
				Parameters: []*document.Parameter{
					{Name: "limit", In: document.InQuery, Type: "integer", Maximum: floatPtr(100)},
					{Name: "tags", In: document.InQuery, Type: "array", Items: &document.Items{Type: "string"}},
					{Name: "X-Request-Id", In: document.InHeader, Type: "string", Required: true},
				},
				Responses: &document.Responses{
					Codes: map[string]*document.Response{
						"200": {Description: "pets", Schema: &document.Schema{Type: "array", Items: PetSchema()}},
					},
				},
			},
			Post: &document.Operation{
				OperationID: "createPet",
				Parameters: []*document.Parameter{
					{Name: "pet", In: document.InBody, Required: true, Schema: PetSchema()},
				},
				Responses: &document.Responses{
					Codes: map[string]*document.Response{
						"201": {Description: "created", Schema: PetSchema()},
					},
					Default: &document.Response{Description: "error"},
				},
			},
		},
		"/pets/{petId}": {
			Parameters: []*document.Parameter{petID},
			Get: &document.Operation{
				OperationID: "showPet",
				Responses: &document.Responses{
					Codes: map[string]*document.Response{
						"200": {Description: "pet", Schema: PetSchema()},
					},
				},
			},
			Delete: &document.Operation{
				OperationID: "deletePet",
				Responses: &document.Responses{
					Codes: map[string]*document.Response{
						"204": {Description: "deleted"},
					},
				},
			},
		},
	}
	return doc
}

// WriteTempYAML marshals a document to YAML and writes it to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempYAML(t *testing.T, doc any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary YAML file: %v", err)
	}

	return tmpFile
}

// WriteTempJSON marshals a document to JSON and writes it to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempJSON(t *testing.T, doc any) string {
	t.Helper()

	data, err := gojson.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal document to JSON: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.json")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary JSON file: %v", err)
	}

	return tmpFile
}
