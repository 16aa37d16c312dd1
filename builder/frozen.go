package builder

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/erraggy/oasgen/oas"
	"github.com/erraggy/oasgen/oaserrors"
)

// EnvWriteSpec names the environment variable that makes WriteAndExitIfEnv
// write the document and exit. Any value accepted by strconv.ParseBool works.
const EnvWriteSpec = "OASGEN_WRITE_SPEC"

// Frozen is a built document in its final, read-only form.
//
// Both encodings are produced once by Freeze. A Frozen value is safe for
// concurrent use by any number of goroutines.
type Frozen struct {
	doc       *oas.Document
	json      []byte
	yaml      []byte
	jsonRoute string
	yamlRoute string
	logger    oas.Logger

	getenv    func(string) string
	exit      func(int)
	writeOnce sync.Once
	writeErr  error
}

// Freeze builds the document and encodes it as JSON and YAML.
func (b *Builder) Freeze() (*Frozen, error) {
	doc, err := b.Build()
	if err != nil {
		return nil, err
	}
	js, err := oas.EncodeJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("builder: encoding JSON: %w", err)
	}
	ym, err := oas.EncodeYAML(doc)
	if err != nil {
		return nil, fmt.Errorf("builder: encoding YAML: %w", err)
	}
	return &Frozen{
		doc:       doc,
		json:      js,
		yaml:      ym,
		jsonRoute: b.cfg.pathPrefix + b.cfg.jsonRoute,
		yamlRoute: b.cfg.pathPrefix + b.cfg.yamlRoute,
		logger:    b.cfg.logger,
		getenv:    os.Getenv,
		exit:      os.Exit,
	}, nil
}

// Document returns the built document. Callers must not modify it.
func (f *Frozen) Document() *oas.Document {
	return f.doc
}

// JSON returns a copy of the JSON encoding.
func (f *Frozen) JSON() []byte {
	return bytes.Clone(f.json)
}

// YAML returns a copy of the YAML encoding.
func (f *Frozen) YAML() []byte {
	return bytes.Clone(f.yaml)
}

// Bytes returns a copy of the encoding in format.
func (f *Frozen) Bytes(format oas.Format) []byte {
	if format == oas.FormatJSON {
		return f.JSON()
	}
	return f.YAML()
}

// JSONRoute returns the prefixed route serving the JSON document.
func (f *Frozen) JSONRoute() string { return f.jsonRoute }

// YAMLRoute returns the prefixed route serving the YAML document.
func (f *Frozen) YAMLRoute() string { return f.yamlRoute }

// Mux is the subset of a router needed to serve the document.
// *http.ServeMux satisfies it.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Mount registers the JSON and YAML routes on mux.
func (f *Frozen) Mount(mux Mux) {
	mux.Handle(f.jsonRoute, serveDocument(f.json, oas.FormatJSON.ContentType()))
	mux.Handle(f.yamlRoute, serveDocument(f.yaml, oas.FormatYAML.ContentType()))
}

// Handler returns an http.Handler serving only the document routes.
func (f *Frozen) Handler() http.Handler {
	mux := http.NewServeMux()
	f.Mount(mux)
	return mux
}

func serveDocument(body []byte, contentType string) http.Handler {
	length := strconv.Itoa(len(body))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", length)
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(body)
		}
	})
}

// WriteFile writes the document to path: JSON when the extension is ".json",
// YAML otherwise.
func (f *Frozen) WriteFile(path string) error {
	format := oas.FormatFromPath(path)
	if err := os.WriteFile(path, f.Bytes(format), 0o600); err != nil {
		return fmt.Errorf("builder: writing %s: %w", path, err)
	}
	return nil
}

// WriteAndExitIfEnv writes the document to path and exits the process with
// status 0 when EnvWriteSpec is set to a true value. Otherwise it returns nil
// and the caller goes on to serve traffic. The file is written at most once.
//
// Example:
//
//	frozen, err := b.Freeze()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := frozen.WriteAndExitIfEnv("openapi.yaml"); err != nil {
//		log.Fatal(err)
//	}
func (f *Frozen) WriteAndExitIfEnv(path string) error {
	raw := f.getenv(EnvWriteSpec)
	if raw == "" {
		return nil
	}
	on, err := strconv.ParseBool(raw)
	if err != nil {
		f.logger.Warn("ignoring invalid environment value", "name", EnvWriteSpec, "value", raw)
		return nil
	}
	if !on {
		return nil
	}

	f.writeOnce.Do(func() {
		f.writeErr = f.WriteFile(path)
		if f.writeErr == nil {
			f.logger.Info("wrote OpenAPI document", "path", path, "bytes", len(f.Bytes(oas.FormatFromPath(path))))
		}
	})
	if f.writeErr != nil {
		return f.writeErr
	}
	f.exit(0)
	return nil
}

// Validate checks the document against the OpenAPI 3.0 rules.
func (f *Frozen) Validate(ctx context.Context) error {
	return ValidateDocument(ctx, f.json)
}

// ValidateDocument loads a JSON or YAML document and checks it against the
// OpenAPI 3.0 rules. External references are not followed.
func ValidateDocument(ctx context.Context, data []byte) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return &oaserrors.ValidationError{Message: "cannot load document", Cause: err}
	}
	if err := doc.Validate(ctx); err != nil {
		return &oaserrors.ValidationError{Message: "document is not valid OpenAPI 3.0", Cause: err}
	}
	return nil
}
