package builder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/erraggy/oasgen/oas"
	"github.com/erraggy/oasgen/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func freezePetStore(t *testing.T, opts ...BuilderOption) *Frozen {
	t.Helper()
	frozen, err := newPetStore(NewCollection(), opts...).Freeze()
	require.NoError(t, err)
	return frozen
}

func TestFrozen_ValidatesWithKinOpenAPI(t *testing.T) {
	frozen := freezePetStore(t)
	require.NoError(t, frozen.Validate(context.Background()))
	require.NoError(t, ValidateDocument(context.Background(), frozen.YAML()))
}

func TestFrozen_EncodingsCarrySameContent(t *testing.T) {
	frozen := freezePetStore(t)

	var fromJSON, fromYAML any
	require.NoError(t, yaml.Unmarshal(frozen.JSON(), &fromJSON))
	require.NoError(t, yaml.Unmarshal(frozen.YAML(), &fromYAML))
	assert.Equal(t, fromJSON, fromYAML)

	assert.Equal(t, frozen.JSON(), frozen.Bytes(oas.FormatJSON))
	assert.Equal(t, frozen.YAML(), frozen.Bytes(oas.FormatYAML))
}

func TestFrozen_BytesAreCopies(t *testing.T) {
	frozen := freezePetStore(t)
	js := frozen.JSON()
	js[0] = 'X'
	assert.Equal(t, byte('{'), frozen.JSON()[0])
}

func TestFrozen_Handler(t *testing.T) {
	frozen := freezePetStore(t)
	srv := httptest.NewServer(frozen.Handler())
	defer srv.Close()

	tests := []struct {
		route       string
		contentType string
		body        []byte
	}{
		{DefaultJSONRoute, "application/json", frozen.JSON()},
		{DefaultYAMLRoute, "text/yaml", frozen.YAML()},
	}
	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			rec := httptest.NewRecorder()
			frozen.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.route, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.body, rec.Body.Bytes())
		})
	}

	resp, err := http.Post(srv.URL+DefaultJSONRoute, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	rec := httptest.NewRecorder()
	frozen.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodHead, DefaultJSONRoute, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestFrozen_ConcurrentReaders(t *testing.T) {
	frozen := freezePetStore(t)
	h := frozen.Handler()
	want := frozen.JSON()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, DefaultJSONRoute, nil))
			assert.Equal(t, want, rec.Body.Bytes())
		}()
	}
	wg.Wait()
}

func TestFrozen_MountUnderPrefix(t *testing.T) {
	frozen := freezePetStore(t, WithPathPrefix("/api"), WithYAMLRoute("/docs/openapi.yml"))
	mux := http.NewServeMux()
	frozen.Mount(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/openapi.yml", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, frozen.YAML(), rec.Body.Bytes())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, DefaultJSONRoute, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFrozen_WriteFile(t *testing.T) {
	frozen := freezePetStore(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		want []byte
	}{
		{"openapi.json", frozen.JSON()},
		{"openapi.yaml", frozen.YAML()},
		{"openapi", frozen.YAML()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			require.NoError(t, frozen.WriteFile(path))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
		})
	}

	err := frozen.WriteFile(filepath.Join(dir, "missing", "openapi.json"))
	assert.Error(t, err)
}

func TestFrozen_WriteAndExitIfEnv(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantWrite bool
	}{
		{"unset", "", false},
		{"true", "true", true},
		{"one", "1", true},
		{"false", "false", false},
		{"invalid", "sometimes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvWriteSpec, tt.value)
			frozen := freezePetStore(t)
			var exits []int
			frozen.exit = func(code int) { exits = append(exits, code) }

			path := filepath.Join(t.TempDir(), "openapi.json")
			require.NoError(t, frozen.WriteAndExitIfEnv(path))

			_, statErr := os.Stat(path)
			if !tt.wantWrite {
				assert.True(t, os.IsNotExist(statErr))
				assert.Empty(t, exits)
				return
			}
			require.NoError(t, statErr)
			assert.Equal(t, []int{0}, exits)
		})
	}
}

func TestFrozen_WriteAndExitIfEnvWritesOnce(t *testing.T) {
	frozen := freezePetStore(t)
	frozen.getenv = func(string) string { return "true" }
	var exits []int
	frozen.exit = func(code int) { exits = append(exits, code) }

	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, frozen.WriteAndExitIfEnv(path))
	require.NoError(t, os.Remove(path))
	require.NoError(t, frozen.WriteAndExitIfEnv(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, []int{0, 0}, exits)
}

func TestFrozen_WriteAndExitIfEnvFailure(t *testing.T) {
	frozen := freezePetStore(t)
	frozen.getenv = func(string) string { return "yes" }
	frozen.exit = func(int) { t.Fatal("must not exit") }

	// "yes" is not a ParseBool value.
	require.NoError(t, frozen.WriteAndExitIfEnv(filepath.Join(t.TempDir(), "x.yaml")))

	frozen.getenv = func(string) string { return "t" }
	err := frozen.WriteAndExitIfEnv(filepath.Join(t.TempDir(), "missing", "x.yaml"))
	assert.Error(t, err)
}

func TestValidateDocument_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not a document", "{"},
		{"missing title", "openapi: 3.0.3\ninfo:\n  version: '1'\npaths: {}\n"},
		{"undeclared path parameter", `{"openapi":"3.0.3","info":{"title":"t","version":"1"},` +
			`"paths":{"/pets/{petId}":{"get":{"responses":{"200":{"description":"OK"}}}}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(context.Background(), []byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrValidation)
		})
	}
}
