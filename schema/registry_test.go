package schema

import (
	"bytes"
	"errors"
	"testing"

	"github.com/erraggy/oasgen/oas"
	"github.com/erraggy/oasgen/oaserrors"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_WriteOnce(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.RegisterSchema("Pet", oas.NewString()))
	assert.False(t, r.RegisterSchema("Pet", oas.NewInteger()), "second registration is ignored")
	assert.True(t, r.Has("Pet"))
	assert.False(t, r.Has("Owner"))
	assert.Equal(t, 1, r.Len())

	schemas, err := r.Build()
	require.NoError(t, err)
	assert.Equal(t, oas.TypeString, schemas["Pet"].Type)
}

func TestRegistry_ConstructorRunsOnce(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register("Counted", func() (*oas.Schema, error) {
		calls++
		return oas.NewObject(), nil
	})

	_, err := r.Build()
	require.NoError(t, err)
	_, err = r.Build()
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRegistry_ConstructorRegistersMore(t *testing.T) {
	r := NewRegistry()
	r.Register("Outer", func() (*oas.Schema, error) {
		r.RegisterSchema("Inner", oas.NewString())
		s := oas.NewObject()
		s.SetProperty("inner", oas.RefTo("Inner"))
		return s, nil
	})

	schemas, err := r.Build()
	require.NoError(t, err)
	assert.Len(t, schemas, 2)
	assert.Equal(t, []string{"Inner", "Outer"}, r.Names())
}

func TestRegistry_OrderIndependent(t *testing.T) {
	build := func(names ...string) []byte {
		r := NewRegistry()
		for _, n := range names {
			s := oas.NewObject()
			s.SetProperty("id", oas.Item(oas.NewString()))
			r.RegisterSchema(n, s)
		}
		schemas, err := r.Build()
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, r.Names())
		data, err := json.Marshal(schemas)
		require.NoError(t, err)
		return data
	}

	ba := build("B", "A")
	ab := build("A", "B")
	assert.Equal(t, string(ab), string(ba))
	assert.Less(t, bytes.Index(ba, []byte(`"A"`)), bytes.Index(ba, []byte(`"B"`)))
}

func TestRegistry_MissingReference(t *testing.T) {
	r := NewRegistry()
	r.RegisterSchema("List", oas.NewArray(oas.RefTo("Missing")))

	_, err := r.Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrSchemaResolution))

	var resErr *oaserrors.SchemaResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "Missing", resErr.Name)
	assert.Equal(t, "List", resErr.Referrer)
}

func TestRegistry_ConstructorError(t *testing.T) {
	r := NewRegistry()
	calls := 0
	boom := errors.New("boom")
	r.Register("Broken", func() (*oas.Schema, error) {
		calls++
		return nil, boom
	})

	_, err := r.Build()
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `schema "Broken"`)

	_, err = r.Build()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	r.RegisterSchema("Pet", oas.NewObject())

	assert.NoError(t, r.Resolve("listPets", "Pet"))
	err := r.Resolve("listPets", "Pet", "Owner")
	assert.ErrorIs(t, err, oaserrors.ErrSchemaResolution)
}
