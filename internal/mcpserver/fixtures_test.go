package mcpserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// petStoreJSON is a small valid OpenAPI 3.0 document used across tests.
const petStoreJSON = `{
  "openapi": "3.0.3",
  "info": {"title": "Pet Store", "version": "1.0.0"},
  "servers": [{"url": "https://pets.example.com", "description": "production"}],
  "tags": [{"name": "pets"}],
  "paths": {
    "/pets": {
      "get": {
        "operationId": "listPets",
        "summary": "List all pets",
        "tags": ["pets"],
        "responses": {"200": {"description": "OK"}}
      },
      "post": {
        "operationId": "createPet",
        "summary": "Create a pet",
        "tags": ["pets"],
        "x-internal": true,
        "responses": {"201": {"description": "Created"}}
      }
    },
    "/pets/{petId}": {
      "get": {
        "operationId": "getPet",
        "tags": ["pets"],
        "parameters": [{"name": "petId", "in": "path", "required": true, "schema": {"type": "integer", "format": "int64"}}],
        "responses": {"200": {"description": "OK"}}
      },
      "delete": {
        "operationId": "deletePet",
        "deprecated": true,
        "parameters": [{"name": "petId", "in": "path", "required": true, "schema": {"type": "integer", "format": "int64"}}],
        "responses": {"204": {"description": "No Content"}}
      }
    }
  },
  "components": {
    "schemas": {
      "Pet": {
        "type": "object",
        "required": ["id", "name"],
        "properties": {
          "id": {"type": "integer", "format": "int64"},
          "name": {"type": "string"}
        }
      },
      "Status": {"type": "string", "enum": ["active", "inactive"]},
      "PetList": {"type": "array", "items": {"$ref": "#/components/schemas/Pet"}}
    }
  }
}`

// invalidDocJSON loads but fails validation: the path parameter is undeclared.
const invalidDocJSON = `{
  "openapi": "3.0.3",
  "info": {"title": "Broken", "version": "1"},
  "paths": {"/pets/{petId}": {"get": {"responses": {"200": {"description": "OK"}}}}}
}`

// writeFixture writes content to a file in a temp dir and returns its path.
func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
