package builder

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/erraggy/oasgen/docs"
	"github.com/erraggy/oasgen/oas"
	"github.com/erraggy/oasgen/oaserrors"
	"github.com/erraggy/oasgen/operation"
	"github.com/erraggy/oasgen/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Pet struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Tag  string `json:"tag,omitempty"`
}

type NewPet struct {
	Name string `json:"name"`
	Tag  string `json:"tag,omitempty"`
}

type PetFilter struct {
	Limit int32 `json:"limit,omitempty"`
}

type apiError struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

type status string

func listPets(context.Context, operation.Query[PetFilter]) ([]Pet, error) { return nil, nil }
func getPet(context.Context, operation.Path[int64]) (Pet, error) { return Pet{}, nil }
func findPet(context.Context, operation.Path[int64]) (Pet, error) { return Pet{}, nil }
func createPet(context.Context, operation.Body[NewPet]) (Pet, error) { return Pet{}, nil }
func deletePet(context.Context, operation.Path[int64]) error { return nil }
func getFile(*http.Request, operation.Path[string]) ([]byte, error) { return nil, nil }
func ping() string { return "pong" }

// newPetStore returns a builder with the full pet store mounted.
func newPetStore(c *Collection, opts ...BuilderOption) *Builder {
	return New(c, opts...).
		SetTitle("Pet Store").
		SetVersion("1.0.0").
		Get("/pets", listPets).
		Post("/pets", createPet, operation.WithStatus(http.StatusCreated)).
		Get("/pets/{petId}", getPet,
			operation.WithError(http.StatusNotFound, "pet not found"),
			operation.WithErrorBody[apiError](http.StatusInternalServerError, "internal error")).
		Delete("/pets/{petId}", deletePet, operation.WithStatus(http.StatusNoContent))
}

// staticOperation returns a constructor for a minimal valid operation.
func staticOperation(id string) OperationConstructor {
	return func() (*oas.Operation, error) {
		op := &oas.Operation{OperationID: id, Responses: make(oas.Responses)}
		op.Responses.Set(http.StatusOK, &oas.Response{Description: "OK"})
		return op, nil
	}
}

func TestBuild_PetStore(t *testing.T) {
	doc, err := newPetStore(NewCollection()).Build()
	require.NoError(t, err)

	assert.Equal(t, oas.Version, doc.OpenAPI)
	assert.Equal(t, "Pet Store", doc.Info.Title)
	require.Len(t, doc.Paths, 2)

	pets := doc.Paths["/pets"]
	require.NotNil(t, pets)
	require.NotNil(t, pets.Get)
	require.NotNil(t, pets.Post)
	assert.Equal(t, "builder_list_pets", pets.Get.OperationID)
	require.Len(t, pets.Get.Parameters, 1)
	assert.Equal(t, "limit", pets.Get.Parameters[0].Name)
	assert.Equal(t, oas.InQuery, pets.Get.Parameters[0].In)
	assert.False(t, pets.Get.Parameters[0].Required)

	assert.NotNil(t, pets.Post.Responses.Get(http.StatusCreated))
	require.NotNil(t, pets.Post.RequestBody)
	assert.Equal(t, "NewPet", pets.Post.RequestBody.Content[oas.MediaTypeJSON].Schema.Ref)

	item := doc.Paths["/pets/{petId}"]
	require.NotNil(t, item)
	require.NotNil(t, item.Get)
	require.NotNil(t, item.Delete)
	require.Len(t, item.Get.Parameters, 1)
	assert.Equal(t, "petId", item.Get.Parameters[0].Name)
	assert.True(t, item.Get.Parameters[0].Required)
	assert.Equal(t, []string{"200", "404", "500"}, item.Get.Responses.Codes())
	assert.Equal(t, "pet not found", item.Get.Responses.Get(http.StatusNotFound).Description)
	assert.Equal(t, []string{"204"}, item.Delete.Responses.Codes())

	assert.ElementsMatch(t, []string{"NewPet", "Pet", "apiError"}, keys(doc.Components.Schemas))
}

func keys(m map[string]*oas.Schema) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestBuild_RegistrationOrderDoesNotMatter(t *testing.T) {
	forward := NewCollection()
	forward.RegisterSchema("B", func() (*oas.Schema, error) { return oas.NewString(), nil })
	forward.RegisterSchema("A", func() (*oas.Schema, error) { return oas.NewInteger(), nil })
	f1, err := newPetStore(forward).Freeze()
	require.NoError(t, err)

	reverse := NewCollection()
	reverse.RegisterSchema("A", func() (*oas.Schema, error) { return oas.NewInteger(), nil })
	reverse.RegisterSchema("B", func() (*oas.Schema, error) { return oas.NewString(), nil })
	b := New(reverse).
		SetTitle("Pet Store").
		SetVersion("1.0.0").
		Delete("/pets/{petId}", deletePet, operation.WithStatus(http.StatusNoContent)).
		Get("/pets/{petId}", getPet,
			operation.WithErrorBody[apiError](http.StatusInternalServerError, "internal error"),
			operation.WithError(http.StatusNotFound, "pet not found")).
		Post("/pets", createPet, operation.WithStatus(http.StatusCreated)).
		Get("/pets", listPets)
	f2, err := b.Freeze()
	require.NoError(t, err)

	assert.Equal(t, string(f1.JSON()), string(f2.JSON()))
	assert.Equal(t, string(f1.YAML()), string(f2.YAML()))

	js := f1.JSON()
	assert.Less(t, bytes.Index(js, []byte(`"A": {`)), bytes.Index(js, []byte(`"B": {`)))
}

func TestBuild_ConstructorsRunOnce(t *testing.T) {
	c := NewCollection()
	calls := 0
	assert.True(t, c.RegisterOperation("ping", func() (*oas.Operation, error) {
		calls++
		return staticOperation("ping")()
	}))
	assert.False(t, c.RegisterOperation("ping", staticOperation("other")))
	c.AddHandlerToDocument("/ping", http.MethodGet, "ping")

	b := New(c).SetTitle("t").SetVersion("1")
	_, err := b.Build()
	require.NoError(t, err)
	doc, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "ping", doc.Paths["/ping"].Get.OperationID)
	assert.True(t, c.HasOperation("ping"))
	assert.Equal(t, []string{"ping"}, c.OperationKeys())
	assert.Equal(t, []Mount{{Path: "/ping", Method: http.MethodGet, Key: "ping"}}, c.Mounts())
}

func TestBuild_DuplicateVerb(t *testing.T) {
	c := NewCollection()
	c.RegisterOperation("a", staticOperation("a"))
	c.RegisterOperation("b", staticOperation("b"))
	c.AddHandlerToDocument("/x", http.MethodGet, "a")
	c.AddHandlerToDocument("/x", http.MethodGet, "b")

	_, err := New(c).SetTitle("t").SetVersion("1").Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrDuplicate)

	var dup *oaserrors.DuplicateOperationError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Existing)
	assert.Equal(t, "b", dup.OperationID)
	assert.Equal(t, "/x", dup.Path)
}

func TestBuild_DuplicateVerbFromHandlers(t *testing.T) {
	_, err := New(nil).SetTitle("t").SetVersion("1").
		Get("/pets/{petId}", getPet).
		Get("/pets/{petId}", findPet).
		Build()
	assert.ErrorIs(t, err, oaserrors.ErrDuplicate)
}

func TestBuild_DuplicateOperationID(t *testing.T) {
	_, err := New(nil).SetTitle("t").SetVersion("1").
		Get("/a", listPets).
		Get("/b", listPets).
		Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrDuplicate)
	assert.Contains(t, err.Error(), "first defined at GET /a")
}

func TestBuild_RepeatedHandleIsIdempotent(t *testing.T) {
	doc, err := New(nil).SetTitle("t").SetVersion("1").
		Get("/pets", listPets).
		Get("/pets", listPets).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "builder_list_pets", doc.Paths["/pets"].Get.OperationID)
}

func TestBuild_PathItemReference(t *testing.T) {
	_, err := New(nil).SetTitle("t").SetVersion("1").
		SetPathItemRef("/pets", "#/components/pathItems/Pets").
		Get("/pets", listPets).
		Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrUnsupportedPathItemRef)

	var ref *oaserrors.UnsupportedPathItemReferenceError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "/pets", ref.Path)
	assert.Equal(t, "#/components/pathItems/Pets", ref.Ref)
}

func TestBuild_PathItemReferenceWithoutOperations(t *testing.T) {
	doc, err := New(nil).SetTitle("t").SetVersion("1").
		SetPathItemRef("/shared", "#/components/pathItems/Shared").
		Build()
	require.NoError(t, err)
	assert.Equal(t, "#/components/pathItems/Shared", doc.Paths["/shared"].Ref)
}

func TestBuild_PathPrefix(t *testing.T) {
	b := New(nil, WithPathPrefix("/api/v1")).
		SetTitle("t").SetVersion("1").
		Get("/pets/{petId}", getPet)
	frozen, err := b.Freeze()
	require.NoError(t, err)

	doc := frozen.Document()
	require.Contains(t, doc.Paths, "/api/v1/pets/{petId}")
	assert.Equal(t, "petId", doc.Paths["/api/v1/pets/{petId}"].Get.Parameters[0].Name)
	assert.Equal(t, "/api/v1/openapi.json", frozen.JSONRoute())
	assert.Equal(t, "/api/v1/openapi.yaml", frozen.YAMLRoute())

	routes := b.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/api/v1/pets/{petId}", routes[0].Pattern)
}

func TestBuild_WildcardPath(t *testing.T) {
	b := New(nil).SetTitle("t").SetVersion("1").
		Get("/files/{path...}", getFile)
	doc, err := b.Build()
	require.NoError(t, err)

	item := doc.Paths["/files/{path}"]
	require.NotNil(t, item)
	require.Len(t, item.Get.Parameters, 1)
	assert.Equal(t, "path", item.Get.Parameters[0].Name)
	assert.Equal(t, "/files/{path...}", b.Routes()[0].Pattern)
}

func TestBuild_SkippedRoute(t *testing.T) {
	b := New(nil).SetTitle("t").SetVersion("1").
		Get("/health", ping, operation.WithSkip()).
		Get("/pets", listPets)
	doc, err := b.Build()
	require.NoError(t, err)

	assert.NotContains(t, doc.Paths, "/health")
	routes := b.Routes()
	require.Len(t, routes, 2)
	assert.False(t, routes[0].Documented)
	assert.True(t, routes[1].Documented)
	assert.NotNil(t, routes[0].Handler)
}

func TestBuild_HandleEndpoint(t *testing.T) {
	ep := operation.NewEndpoint("pets.Count",
		operation.WithResult(reflect.TypeFor[int64]()),
		operation.WithSummary("count pets"),
	)
	doc, err := New(nil).SetTitle("t").SetVersion("1").
		HandleEndpoint("get", "/pets/count", ep).
		Build()
	require.NoError(t, err)

	op := doc.Paths["/pets/count"].Get
	require.NotNil(t, op)
	assert.Equal(t, "pets_count", op.OperationID)
	assert.Equal(t, "count pets", op.Summary)
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  BuilderOption
	}{
		{"relative prefix", WithPathPrefix("api")},
		{"trailing slash prefix", WithPathPrefix("/api/")},
		{"empty json route", WithJSONRoute("")},
		{"relative yaml route", WithYAMLRoute("openapi.yaml")},
		{"same routes", WithYAMLRoute(DefaultJSONRoute)},
		{"unknown body policy", WithBodyPolicy(operation.AmbiguousBodyPolicy(9))},
		{"unknown naming", WithSchemaNaming(schema.NamingStrategy(42))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil, tt.opt).SetTitle("t").SetVersion("1").Build()
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrConfig)

			var be *BuilderError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, ComponentConfig, be.Component)
		})
	}
}

func TestNew_ValidOptions(t *testing.T) {
	var described []string
	b := New(nil,
		WithPathPrefix("/api"),
		WithJSONRoute("/spec.json"),
		WithYAMLRoute("/spec.yaml"),
		WithSchemaNaming(schema.NamingPascalCase),
		WithFieldCase(schema.CaseCamel),
		WithBodyPolicy(operation.BodyWarn),
		WithStrictPathParams(true),
		WithLogger(oas.NopLogger{}),
		WithAdapter(operation.StdlibAdapter{}),
		WithDescriber(func(name string) string {
			described = append(described, name)
			return ""
		}),
	).SetTitle("t").SetVersion("1").Get("/pets/{petId}", getPet)

	doc, err := b.Build()
	require.NoError(t, err)
	assert.Contains(t, doc.Components.Schemas, "BuilderPet")
	assert.Contains(t, described, "github.com/erraggy/oasgen/builder.Pet")
}

func TestWithSchemaNameFunc(t *testing.T) {
	doc, err := New(nil, WithSchemaNameFunc(func(t reflect.Type) string {
		return "X" + t.Name()
	})).SetTitle("t").SetVersion("1").Get("/pets/{petId}", getPet).Build()
	require.NoError(t, err)
	assert.Contains(t, doc.Components.Schemas, "XPet")
}

func TestBuild_StrictPathParams(t *testing.T) {
	_, err := New(nil, WithStrictPathParams(true)).SetTitle("t").SetVersion("1").
		Get("/pets/{petId}/toys/{toyId}", getPet).
		Build()
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestBuild_InfoRequired(t *testing.T) {
	_, err := New(nil).AddServer("", "nowhere").Build()
	require.Error(t, err)

	var errs BuilderErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2)
	assert.Equal(t, ComponentInfo, errs[0].Component)
	assert.Contains(t, errs[0].Error(), "title")
	assert.Equal(t, ComponentServer, errs[1].Component)
}

func TestBuild_MetadataCopied(t *testing.T) {
	doc, err := New(nil).
		SetTitle("t").
		SetVersion("1").
		SetDescription("pets everywhere").
		AddServer("https://api.example.com", "production").
		AddTag("pets", "old").
		AddTag("pets", "Everything about pets").
		AddTag("store", "").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "pets everywhere", doc.Info.Description)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "https://api.example.com", doc.Servers[0].URL)
	require.Len(t, doc.Tags, 2)
	assert.Equal(t, "Everything about pets", doc.Tags[0].Description)
}

func TestBuild_AmbiguousBodyError(t *testing.T) {
	handler := func(operation.Body[NewPet], operation.Body[Pet]) error { return nil }
	_, err := New(nil, WithBodyPolicy(operation.BodyError)).SetTitle("t").SetVersion("1").
		Post("/pets", handler, operation.WithOperationID("createPet")).
		Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrAmbiguousBody)

	var be *BuilderError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "createPet", be.OperationID)
}

func TestBuild_InvalidHandler(t *testing.T) {
	_, err := New(nil).SetTitle("t").SetVersion("1").Get("/x", 42).Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
	assert.Contains(t, err.Error(), "invalid handler")
}

func TestBuild_UnknownOperationKey(t *testing.T) {
	c := NewCollection()
	c.AddHandlerToDocument("/x", http.MethodGet, "missing")
	_, err := New(c).SetTitle("t").SetVersion("1").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no operation registered under "missing"`)
}

func TestBuild_InvalidMethod(t *testing.T) {
	c := NewCollection()
	c.RegisterOperation("a", staticOperation("a"))
	c.AddHandlerToDocument("/x", "CONNECT", "a")
	_, err := New(c).SetTitle("t").SetVersion("1").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported HTTP method: CONNECT")
}

func TestBuild_UnresolvedOperationRef(t *testing.T) {
	c := NewCollection()
	c.RegisterOperation("a", func() (*oas.Operation, error) {
		op := &oas.Operation{OperationID: "a", Responses: make(oas.Responses)}
		op.Responses.Set(http.StatusOK, &oas.Response{Description: "OK", Content: oas.JSONContent(oas.RefTo("Missing"))})
		return op, nil
	})
	c.AddHandlerToDocument("/x", http.MethodGet, "a")

	_, err := New(c).SetTitle("t").SetVersion("1").Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrSchemaResolution)

	var res *oaserrors.SchemaResolutionError
	require.ErrorAs(t, err, &res)
	assert.Equal(t, "Missing", res.Name)
	assert.Equal(t, "a", res.Referrer)
}

func TestBuild_FailingConstructor(t *testing.T) {
	c := NewCollection()
	boom := errors.New("boom")
	c.RegisterOperation("a", func() (*oas.Operation, error) { return nil, boom })
	c.AddHandlerToDocument("/x", http.MethodGet, "a")

	b := New(c).SetTitle("t").SetVersion("1")
	_, err := b.Build()
	assert.ErrorIs(t, err, boom)

	var errs BuilderErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 1)

	_, err = b.Build()
	assert.ErrorIs(t, err, boom)
}

func TestRegisterType(t *testing.T) {
	b := New(nil).SetTitle("t").SetVersion("1")
	DeclareVariants[status](b, schema.UnitVariants("active", "inactive"))
	RegisterType[Pet](b)
	RegisterType[status](b)
	RegisterType[int](b)

	doc, err := b.Build()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Pet", "status"}, keys(doc.Components.Schemas))
	assert.Equal(t, []any{"active", "inactive"}, doc.Components.Schemas["status"].Enum)
}

func TestRegisterType_Unsupported(t *testing.T) {
	b := New(nil).SetTitle("t").SetVersion("1")
	RegisterType[chan int](b)
	_, err := b.Build()
	require.Error(t, err)

	var be *BuilderError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, ComponentSchema, be.Component)
}

func TestWithOperationDocs(t *testing.T) {
	m := docs.New()
	m.Funcs["github.com/erraggy/oasgen/builder.listPets"] = "listPets returns every pet. Sorted by id.\n\nPaging is not supported."
	m.Funcs["github.com/erraggy/oasgen/builder.getPet"] = "getPet returns one pet."
	m.Types["github.com/erraggy/oasgen/builder.Pet"] = "Pet is an animal in the store."

	doc, err := New(nil, WithOperationDocs(m.FuncDoc), WithDescriber(m.Describe)).
		SetTitle("t").
		SetVersion("1").
		Get("/pets", listPets).
		Get("/pets/{petId}", getPet, operation.WithSummary("Fetch a pet")).
		Build()
	require.NoError(t, err)

	list := doc.Paths["/pets"].Get
	assert.Equal(t, "listPets returns every pet.", list.Summary)
	assert.Equal(t, m.Funcs["github.com/erraggy/oasgen/builder.listPets"], list.Description)

	get := doc.Paths["/pets/{petId}"].Get
	assert.Equal(t, "Fetch a pet", get.Summary)
	assert.Equal(t, "getPet returns one pet.", get.Description)

	assert.Equal(t, "Pet is an animal in the store.", doc.Components.Schemas["Pet"].Description)
}
