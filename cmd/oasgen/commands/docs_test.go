package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasgen/docs"
)

// writeModule lays out a single-package module for the docs command to load.
func writeModule(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/pets\n\ngo 1.24\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.go"), []byte(`package pets

// Pet is an animal in the store.
type Pet struct {
	// Name is what the pet answers to.
	Name string
}

// ListPets returns every pet.
func ListPets() []Pet { return nil }
`), 0o600))
	return dir
}

func TestHandleDocs_Stdout(t *testing.T) {
	out, errOut := captureStreams(t, "")
	dir := writeModule(t)

	require.NoError(t, HandleDocs(context.Background(), []string{"-dir", dir, "./..."}))
	assert.Empty(t, errOut.String())

	m, err := docs.Parse(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Pet is an animal in the store.", m.Describe("example.com/pets.Pet"))
	assert.Equal(t, "ListPets returns every pet.", m.FuncDoc("example.com/pets.ListPets"))
}

func TestHandleDocs_File(t *testing.T) {
	_, errOut := captureStreams(t, "")
	dir := writeModule(t)
	target := filepath.Join(t.TempDir(), "docs.json")

	require.NoError(t, HandleDocs(context.Background(), []string{"-v", "-dir", dir, "-o", target, "."}))
	assert.Contains(t, errOut.String(), "wrote manifest")

	m, err := docs.ReadFile(target)
	require.NoError(t, err)
	assert.Positive(t, m.Len())
}

func TestHandleDocs_Errors(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}
	captureStreams(t, "")
	assert.Error(t, HandleDocs(context.Background(), []string{"-dir", t.TempDir(), "./nothing/..."}))
	assert.Error(t, HandleDocs(context.Background(), []string{"-bogus"}))
}
