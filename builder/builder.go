package builder

import (
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/erraggy/oasgen/docs"
	"github.com/erraggy/oasgen/oas"
	"github.com/erraggy/oasgen/oaserrors"
	"github.com/erraggy/oasgen/operation"
	"github.com/erraggy/oasgen/schema"
)

// Builder assembles an OpenAPI document from handler signatures.
//
// Handlers are registered through Handle and its verb helpers. Each one is
// described by a deferred operation constructor stored in the Collection; Build
// runs the constructors, places the operations on their paths and merges the
// schema registry into the document's components.
//
// Errors found while registering are kept and returned by Build, so calls can
// be chained.
//
// Concurrency: Builder instances are not safe for concurrent use. Build the
// document once at startup and share the *Frozen result.
type Builder struct {
	c         *Collection
	cfg       *builderConfig
	gen       *schema.Generator
	asm       *operation.Assembler
	info      oas.Info
	servers   []*oas.Server
	tags      []*oas.Tag
	pathRefs  map[string]string
	locations map[string]operationLocation
	routes    []Route
	errs      BuilderErrors
}

// Route is one registered handler as the router sees it.
type Route struct {
	Method string
	// Pattern is the prefixed mount pattern, placeholders untouched.
	Pattern     string
	OperationID string
	// Handler is the function passed to Handle, or nil for HandleEndpoint.
	Handler any
	// Documented is false for endpoints marked with operation.WithSkip.
	Documented bool
}

// New creates a Builder backed by c. A nil collection starts an empty one.
//
// Example:
//
//	b := builder.New(builder.NewCollection(), builder.WithPathPrefix("/api")).
//		SetTitle("Pet Store API").
//		SetVersion("1.0.0")
//	b.Get("/pets/{petId}", getPet, operation.WithError(http.StatusNotFound, "pet not found"))
//	frozen, err := b.Freeze()
func New(c *Collection, opts ...BuilderOption) *Builder {
	if c == nil {
		c = NewCollection()
	}
	cfg := defaultBuilderConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	b := &Builder{
		c:         c,
		cfg:       cfg,
		pathRefs:  make(map[string]string),
		locations: make(map[string]operationLocation),
	}
	if err := cfg.validate(); err != nil {
		b.errs = append(b.errs, &BuilderError{
			Component: ComponentConfig,
			Message:   "invalid options",
			Cause:     &oaserrors.ConfigError{Option: "builder", Cause: err},
		})
	}

	genOpts := []schema.GeneratorOption{
		schema.WithNaming(cfg.naming),
		schema.WithFieldCase(cfg.fieldCase),
		schema.WithGeneratorLogger(cfg.logger),
	}
	if cfg.nameFunc != nil {
		genOpts = append(genOpts, schema.WithNameFunc(cfg.nameFunc))
	}
	if cfg.describer != nil {
		genOpts = append(genOpts, schema.WithDescriber(cfg.describer))
	}
	b.gen = schema.NewGenerator(c.Registry(), genOpts...)
	b.asm = operation.NewAssembler(b.gen,
		operation.WithAdapter(cfg.adapter),
		operation.WithBodyPolicy(cfg.bodyPolicy),
		operation.WithStrictPathParams(cfg.strictPath),
		operation.WithLogger(cfg.logger),
	)
	return b
}

// Collection returns the collection the builder registers into.
func (b *Builder) Collection() *Collection {
	return b.c
}

// Generator returns the schema generator shared by all operations.
func (b *Builder) Generator() *schema.Generator {
	return b.gen
}

// SetTitle sets the API title.
func (b *Builder) SetTitle(title string) *Builder {
	b.info.Title = title
	return b
}

// SetVersion sets the API version.
func (b *Builder) SetVersion(version string) *Builder {
	b.info.Version = version
	return b
}

// SetDescription sets the API description.
func (b *Builder) SetDescription(desc string) *Builder {
	b.info.Description = desc
	return b
}

// AddServer adds a server URL.
func (b *Builder) AddServer(url, description string) *Builder {
	b.servers = append(b.servers, &oas.Server{URL: url, Description: description})
	return b
}

// AddTag adds a tag definition. Adding a tag name twice replaces its description.
func (b *Builder) AddTag(name, description string) *Builder {
	for _, t := range b.tags {
		if t.Name == name {
			t.Description = description
			return b
		}
	}
	b.tags = append(b.tags, &oas.Tag{Name: name, Description: description})
	return b
}

// SetPathItemRef marks path as a reference to a PathItem defined elsewhere.
// Mounting an operation on such a path fails the build.
func (b *Builder) SetPathItemRef(path, ref string) *Builder {
	b.pathRefs[operation.DocumentPath(b.cfg.pathPrefix+path)] = ref
	return b
}

// Handle registers fn to serve method on path. The operation is derived from
// fn's signature with operation.FromFunc and refined by opts.
func (b *Builder) Handle(method, path string, fn any, opts ...operation.EndpointOption) *Builder {
	method = strings.ToUpper(method)
	ep, err := operation.FromFunc(fn, opts...)
	if err != nil {
		b.errs = append(b.errs, &BuilderError{
			Component: ComponentOperation,
			Method:    method,
			Path:      operation.DocumentPath(b.cfg.pathPrefix + path),
			Message:   "invalid handler",
			Cause:     err,
		})
		return b
	}
	return b.mount(method, path, ep, fn)
}

// HandleEndpoint registers an endpoint description that was built without a
// function value, for frameworks whose handlers are not plain functions.
func (b *Builder) HandleEndpoint(method, path string, ep *operation.Endpoint) *Builder {
	return b.mount(strings.ToUpper(method), path, ep, nil)
}

// Get registers fn for GET requests on path.
func (b *Builder) Get(path string, fn any, opts ...operation.EndpointOption) *Builder {
	return b.Handle(http.MethodGet, path, fn, opts...)
}

// Post registers fn for POST requests on path.
func (b *Builder) Post(path string, fn any, opts ...operation.EndpointOption) *Builder {
	return b.Handle(http.MethodPost, path, fn, opts...)
}

// Put registers fn for PUT requests on path.
func (b *Builder) Put(path string, fn any, opts ...operation.EndpointOption) *Builder {
	return b.Handle(http.MethodPut, path, fn, opts...)
}

// Patch registers fn for PATCH requests on path.
func (b *Builder) Patch(path string, fn any, opts ...operation.EndpointOption) *Builder {
	return b.Handle(http.MethodPatch, path, fn, opts...)
}

// Delete registers fn for DELETE requests on path.
func (b *Builder) Delete(path string, fn any, opts ...operation.EndpointOption) *Builder {
	return b.Handle(http.MethodDelete, path, fn, opts...)
}

func (b *Builder) mount(method, path string, ep *operation.Endpoint, fn any) *Builder {
	pattern := b.cfg.pathPrefix + path
	docPath := operation.DocumentPath(pattern)
	key := ep.OperationID
	if key == "" {
		key = operation.NormalizeOperationID(ep.Handler)
	}

	b.routes = append(b.routes, Route{
		Method:      method,
		Pattern:     pattern,
		OperationID: key,
		Handler:     fn,
		Documented:  !ep.Skip,
	})
	if ep.Skip {
		b.cfg.logger.Debug("route left out of document", "method", method, "path", docPath)
		return b
	}
	if key == "" {
		b.errs = append(b.errs, &BuilderError{
			Component: ComponentOperation,
			Method:    method,
			Path:      docPath,
			Message:   "operation has no id and its handler has no name",
		})
		return b
	}

	loc := operationLocation{Method: method, Path: docPath}
	if first, ok := b.locations[key]; ok {
		if first != loc {
			b.errs = append(b.errs, NewDuplicateOperationIDError(key, method, docPath, &first))
		}
		return b
	}
	b.locations[key] = loc
	b.applyDocs(ep)

	b.c.RegisterOperation(key, func() (*oas.Operation, error) {
		return b.asm.Assemble(pattern, ep)
	})
	b.c.AddHandlerToDocument(docPath, method, key)
	return b
}

// applyDocs fills an endpoint's summary and description from its handler's
// doc comment.
func (b *Builder) applyDocs(ep *operation.Endpoint) {
	if b.cfg.funcDocs == nil || ep.Handler == "" {
		return
	}
	text := b.cfg.funcDocs(strings.ReplaceAll(ep.Handler, "[...]", ""))
	if text == "" {
		return
	}
	if ep.Summary == "" {
		ep.Summary = docs.Summary(text)
	}
	if ep.Description == "" {
		ep.Description = text
	}
}

// Routes returns every registered handler in registration order, including
// those left out of the document.
func (b *Builder) Routes() []Route {
	return slices.Clone(b.routes)
}

// RegisterType registers the component schema of T without mounting an
// operation, for types only reachable through custom schemas.
func RegisterType[T any](b *Builder) *Builder {
	t := reflect.TypeFor[T]()
	ref, err := b.gen.SchemaRef(t)
	if err != nil {
		b.errs = append(b.errs, NewSchemaError(t.String(), "cannot describe type", err))
		return b
	}
	if !ref.IsRef() {
		b.cfg.logger.Debug("type has no component schema", "type", t.String())
	}
	return b
}

// DeclareVariants declares T as a sum type with the given variants, for types
// that cannot implement schema.Enumerator themselves.
func DeclareVariants[T any](b *Builder, v schema.Variants) *Builder {
	b.gen.DeclareVariants(reflect.TypeFor[T](), v)
	return b
}

// Build assembles the document.
//
// Operation constructors run once each, in key order. Every mount places its
// operation into the PathItem of its path; a verb slot can be filled only once.
// The schema registry is then built and merged into the components. All
// problems are collected and returned together as BuilderErrors.
func (b *Builder) Build() (*oas.Document, error) {
	errs := slices.Clone(b.errs)
	errs = append(errs, b.validateInfo()...)

	doc := oas.NewDocument()
	info := b.info
	doc.Info = &info
	for _, s := range b.servers {
		doc.Servers = append(doc.Servers, &oas.Server{URL: s.URL, Description: s.Description})
	}
	for _, t := range b.tags {
		doc.Tags = append(doc.Tags, &oas.Tag{Name: t.Name, Description: t.Description})
	}
	for _, path := range slices.Sorted(maps.Keys(b.pathRefs)) {
		doc.Paths[path] = &oas.PathItem{Ref: b.pathRefs[path]}
	}

	failed := make(map[string]bool)
	for _, key := range b.c.OperationKeys() {
		op, err := b.c.operation(key)
		if err != nil {
			failed[key] = true
			errs = append(errs, &BuilderError{
				Component:   ComponentOperation,
				OperationID: key,
				Message:     "cannot assemble operation",
				Cause:       err,
			})
			continue
		}
		if err := b.c.registry.Resolve(op.OperationID, op.Refs()...); err != nil {
			errs = append(errs, &BuilderError{
				Component:   ComponentOperation,
				OperationID: op.OperationID,
				Cause:       err,
			})
		}
	}

	for _, m := range b.c.mounts {
		if failed[m.Key] {
			continue
		}
		op, err := b.c.operation(m.Key)
		if err != nil {
			errs = append(errs, &BuilderError{
				Component: ComponentPathItem,
				Method:    m.Method,
				Path:      m.Path,
				Message:   "unknown operation",
				Cause:     err,
			})
			continue
		}
		if err := place(doc, m, op); err != nil {
			errs = append(errs, err)
		}
	}

	schemas, err := b.c.registry.Build()
	if err != nil {
		errs = append(errs, NewSchemaError("components", "cannot build schemas", err))
	} else {
		doc.Components.Schemas = schemas
	}

	if len(errs) > 0 {
		return nil, errs
	}
	b.cfg.logger.Info("built document",
		"paths", len(doc.Paths), "operations", len(b.c.ops), "schemas", len(schemas))
	return doc, nil
}

// place puts op into the verb slot of its PathItem.
func place(doc *oas.Document, m Mount, op *oas.Operation) *BuilderError {
	item, ok := doc.Paths[m.Path]
	if !ok {
		item = &oas.PathItem{}
		doc.Paths[m.Path] = item
	}
	if item.Ref != "" {
		return &BuilderError{
			Component:   ComponentPathItem,
			Method:      m.Method,
			Path:        m.Path,
			OperationID: op.OperationID,
			Cause:       &oaserrors.UnsupportedPathItemReferenceError{Path: m.Path, Ref: item.Ref},
		}
	}
	slot := item.Slot(m.Method)
	if slot == nil {
		return NewInvalidMethodError(m.Method, m.Path)
	}
	if *slot != nil {
		return &BuilderError{
			Component:   ComponentPathItem,
			Method:      m.Method,
			Path:        m.Path,
			OperationID: op.OperationID,
			Cause: &oaserrors.DuplicateOperationError{
				Method:      m.Method,
				Path:        m.Path,
				Existing:    (*slot).OperationID,
				OperationID: op.OperationID,
			},
		}
	}
	*slot = op
	return nil
}

func (b *Builder) validateInfo() BuilderErrors {
	var errs BuilderErrors
	if err := validation.ValidateStruct(&b.info,
		validation.Field(&b.info.Title, validation.Required),
		validation.Field(&b.info.Version, validation.Required),
	); err != nil {
		errs = append(errs, &BuilderError{Component: ComponentInfo, Message: "invalid info", Cause: err})
	}
	for _, s := range b.servers {
		if err := validation.ValidateStruct(s,
			validation.Field(&s.URL, validation.Required),
		); err != nil {
			errs = append(errs, &BuilderError{Component: ComponentServer, Path: s.URL, Message: "invalid server", Cause: err})
		}
	}
	return errs
}
