package docs

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleManifest() *Manifest {
	m := New()
	m.Types["example.com/pets.Pet"] = "Pet is an animal."
	m.Fields["example.com/pets.Pet.Name"] = "Name is shown to customers."
	m.Funcs["example.com/pets.ListPets"] = "ListPets returns every pet."
	return m
}

func TestManifest_Describe(t *testing.T) {
	m := sampleManifest()
	assert.Equal(t, "Pet is an animal.", m.Describe("example.com/pets.Pet"))
	assert.Equal(t, "Name is shown to customers.", m.Describe("example.com/pets.Pet.Name"))
	assert.Empty(t, m.Describe("example.com/pets.Toy"))
	assert.Equal(t, "ListPets returns every pet.", m.FuncDoc("example.com/pets.ListPets"))
	assert.Empty(t, m.Describe("example.com/pets.ListPets"))
	assert.Equal(t, 3, m.Len())
}

func TestManifest_Merge(t *testing.T) {
	m := &Manifest{}
	m.Merge(sampleManifest())
	m.Merge(nil)

	other := New()
	other.Types["example.com/pets.Pet"] = "Pet is a companion."
	other.Types["example.com/pets.Toy"] = "Toy is for pets."
	m.Merge(other)

	assert.Equal(t, "Pet is a companion.", m.Describe("example.com/pets.Pet"))
	assert.Equal(t, "Toy is for pets.", m.Describe("example.com/pets.Toy"))
	assert.Equal(t, 4, m.Len())
}

func TestManifest_WriteAndParse(t *testing.T) {
	m := sampleManifest()
	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf))
	assert.Contains(t, buf.String(), `"example.com/pets.Pet": "Pet is an animal."`)

	back, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, m, back)

	path := filepath.Join(t.TempDir(), "docs.json")
	require.NoError(t, m.WriteFile(path))
	fromFile, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, m, fromFile)
}

func TestParse_Partial(t *testing.T) {
	m, err := Parse([]byte(`{"types":{"a.B":"B is b."}}`))
	require.NoError(t, err)
	assert.Equal(t, "B is b.", m.Describe("a.B"))
	assert.NotNil(t, m.Fields)
	assert.NotNil(t, m.Funcs)

	_, err = Parse([]byte(`{`))
	assert.Error(t, err)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	tests := []struct {
		doc  string
		want string
	}{
		{"ListPets returns every pet.", "ListPets returns every pet."},
		{"Get returns one pet. It fails when unknown.", "Get returns one pet."},
		{"Uses v1.2 of the API. Stable.", "Uses v1.2 of the API."},
		{"No period here\nsecond line.", "No period here"},
		{"  padded.  ", "padded."},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary(tt.doc))
		})
	}
}
