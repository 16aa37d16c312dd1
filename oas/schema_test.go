package oas

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertiesKeepInsertionOrder(t *testing.T) {
	p := NewProperties()
	p.Set("zeta", Item(NewString()))
	p.Set("alpha", Item(NewInteger()))
	p.Set("mid", RefTo("Mid"))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, p.Keys())

	// Replacing keeps the original position.
	p.Set("zeta", Item(NewBoolean()))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, p.Keys())
	got, ok := p.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, TypeBoolean, got.Value.Type)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"zeta":{"type":"boolean"},"alpha":{"type":"integer"},"mid":{"$ref":"#/components/schemas/Mid"}}`, string(data))
	assert.Equal(t, `{"zeta":{"type":"boolean"},"alpha":{"type":"integer"},"mid":{"$ref":"#/components/schemas/Mid"}}`, string(data))
}

func TestPropertiesAll(t *testing.T) {
	p := NewProperties()
	p.Set("a", Item(NewString()))
	p.Set("b", Item(NewString()))
	p.Set("c", Item(NewString()))

	var seen []string
	for name := range p.All() {
		seen = append(seen, name)
		if name == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)

	var nilProps *Properties
	assert.Equal(t, 0, nilProps.Len())
	assert.Nil(t, nilProps.Keys())
}

func TestSchemaRefMarshal(t *testing.T) {
	tests := []struct {
		name string
		ref  *SchemaRef
		want string
	}{
		{"ref", RefTo("Pet"), `{"$ref":"#/components/schemas/Pet"}`},
		{"item", Item(NewString()), `{"type":"string"}`},
		{"empty", &SchemaRef{}, `{}`},
		{"nullable item", Item(&Schema{Type: TypeInteger, Nullable: true}), `{"type":"integer","nullable":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestSchemaClone(t *testing.T) {
	orig := NewObject()
	orig.SetProperty("name", Item(NewString()))
	orig.AddRequired("name")

	c := orig.Clone()
	c.SetProperty("age", Item(NewInteger()))
	c.AddRequired("age")
	name, _ := c.Properties.Get("name")
	name.Value.Format = "email"

	assert.Equal(t, []string{"name"}, orig.Properties.Keys())
	assert.Equal(t, []string{"name"}, orig.Required)
	origName, _ := orig.Properties.Get("name")
	assert.Empty(t, origName.Value.Format)
}

func TestAddRequiredSkipsDuplicates(t *testing.T) {
	s := NewObject()
	s.AddRequired("a", "b", "a")
	s.AddRequired("b", "c")
	assert.Equal(t, []string{"a", "b", "c"}, s.Required)
}

func TestNewStringEnum(t *testing.T) {
	s := NewStringEnum("A", "B", "C")
	assert.Equal(t, TypeString, s.Type)
	assert.Equal(t, []any{"A", "B", "C"}, s.Enum)
}
