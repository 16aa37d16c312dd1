package schema

import (
	"fmt"
	"reflect"

	"github.com/erraggy/oasgen/oas"
	"github.com/erraggy/oasgen/oaserrors"
)

// DescribeFunc returns the description for a qualified Go name such as
// "github.com/org/models.User" or "github.com/org/models.User.Email".
// An empty result means no description is known.
type DescribeFunc func(qualifiedName string) string

// Generator derives OpenAPI schemas from Go types.
//
// Named struct types and sum types are registered in the Registry and
// referenced by name; everything else is inlined. A Generator is meant to be
// used during startup and is not safe for concurrent use.
type Generator struct {
	registry  *Registry
	namer     *namer
	fieldCase Case
	describe  DescribeFunc
	logger    oas.Logger
	cache     *schemaCache
	variants  map[reflect.Type]Variants
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithNaming sets the component naming strategy. Default: NamingTypeOnly.
func WithNaming(strategy NamingStrategy) GeneratorOption {
	return func(g *Generator) {
		g.namer.strategy = strategy
	}
}

// WithNameFunc sets a custom component naming function. It takes priority over
// the naming strategy; returning "" falls back to the strategy.
func WithNameFunc(fn NameFunc) GeneratorOption {
	return func(g *Generator) {
		g.namer.fn = fn
	}
}

// WithFieldCase renames fields that have no explicit json name.
func WithFieldCase(c Case) GeneratorOption {
	return func(g *Generator) {
		g.fieldCase = c
	}
}

// WithDescriber sets the source of type and field descriptions.
func WithDescriber(fn DescribeFunc) GeneratorOption {
	return func(g *Generator) {
		g.describe = fn
	}
}

// WithGeneratorLogger sets the logger. Default: oas.NopLogger.
func WithGeneratorLogger(l oas.Logger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGenerator returns a Generator that registers components in reg.
func NewGenerator(reg *Registry, opts ...GeneratorOption) *Generator {
	if reg == nil {
		reg = NewRegistry()
	}
	g := &Generator{
		registry: reg,
		namer:    &namer{strategy: NamingTypeOnly},
		logger:   oas.NopLogger{},
		cache:    newSchemaCache(),
		variants: make(map[reflect.Type]Variants),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Registry returns the registry the generator writes to.
func (g *Generator) Registry() *Registry {
	return g.registry
}

// DeclareVariants records the variants of t. Use it for interface types that
// cannot implement Enumerator themselves.
func (g *Generator) DeclareVariants(t reflect.Type, v Variants) {
	g.variants[t] = v
}

func (g *Generator) variantsOf(t reflect.Type) (Variants, bool) {
	if v, ok := g.variants[t]; ok {
		return v, true
	}
	if e, ok := implementation[Enumerator](t); ok {
		return e.OAVariants(), true
	}
	return Variants{}, false
}

func (g *Generator) hasVariants(t reflect.Type) bool {
	_, ok := g.variantsOf(t)
	return ok
}

// Schema returns the inline schema of t. The result is a fresh copy the caller
// may modify.
func (g *Generator) Schema(t reflect.Type) (*oas.Schema, error) {
	if t == nil {
		return &oas.Schema{}, nil
	}
	if s, ok := g.cache.get(t); ok {
		return s.Clone(), nil
	}
	if g.cache.inProgress[t] {
		return nil, &oaserrors.ConfigError{
			Option:  "schema",
			Value:   t.String(),
			Message: "type contains itself inline; reference it instead of inlining or flattening",
		}
	}
	g.cache.inProgress[t] = true
	defer delete(g.cache.inProgress, t)

	s, err := g.buildSchema(t)
	if err != nil {
		return nil, err
	}
	g.cache.set(t, s)
	return s.Clone(), nil
}

// SchemaRef returns a reference to t's component when t is a named struct, a
// sum type or a Namer, registering the component on first use. Other types are
// returned inline.
func (g *Generator) SchemaRef(t reflect.Type) (*oas.SchemaRef, error) {
	if t == nil {
		return oas.Item(&oas.Schema{}), nil
	}
	if t.Kind() == reflect.Pointer {
		inner, err := g.SchemaRef(t.Elem())
		if err != nil {
			return nil, err
		}
		return nullable(inner), nil
	}
	if inner, ok := g.newtypeOf(t); ok {
		return g.SchemaRef(inner)
	}
	if !g.isComponent(t) {
		s, err := g.Schema(t)
		if err != nil {
			return nil, err
		}
		return oas.Item(s), nil
	}

	name := g.componentName(t)
	if g.registry.Register(name, func() (*oas.Schema, error) { return g.Schema(t) }) {
		g.logger.Debug("registered schema", "name", name, "type", t.String())
	}
	return oas.RefTo(name), nil
}

// isComponent reports whether t is registered by name rather than inlined.
func (g *Generator) isComponent(t reflect.Type) bool {
	if _, ok := implementation[Namer](t); ok {
		return true
	}
	if t.Name() == "" {
		return false
	}
	if g.hasVariants(t) {
		return true
	}
	if _, ok := implementation[Describer](t); ok {
		return false
	}
	if _, ok := wellKnownSchema(t); ok {
		return false
	}
	return t.Kind() == reflect.Struct
}

// componentName returns the registered name of t, choosing a qualified name when
// the short one is already taken by a different type.
func (g *Generator) componentName(t reflect.Type) string {
	if name, ok := g.cache.nameFor(t); ok {
		return name
	}
	var name string
	if n, ok := implementation[Namer](t); ok {
		name = n.OASchemaName()
	} else {
		name = g.namer.name(t)
		if other := g.cache.typeFor(name); other != nil && other != t {
			qualified := qualifiedName(t)
			g.logger.Warn("schema name collision, using qualified name",
				"name", name, "type", t.String(), "other", other.String(), "qualified", qualified)
			name = qualified
		}
	}
	g.cache.bindName(t, name)
	return name
}

func (g *Generator) buildSchema(t reflect.Type) (*oas.Schema, error) {
	if d, ok := implementation[Describer](t); ok {
		s, err := d.OASchema(g)
		if err != nil {
			return nil, err
		}
		if s == nil {
			s = &oas.Schema{}
		}
		return s, nil
	}
	if t.Kind() == reflect.Pointer {
		inner, err := g.Schema(t.Elem())
		if err != nil {
			return nil, err
		}
		return markNullable(inner), nil
	}
	if v, ok := g.variantsOf(t); ok {
		return g.variantSchema(t, v)
	}
	if s, ok := wellKnownSchema(t); ok {
		return s, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return oas.NewBoolean(), nil
	case reflect.Int, reflect.Int64:
		s := oas.NewInteger()
		s.Format = "int64"
		return s, nil
	case reflect.Int8, reflect.Int16, reflect.Int32:
		s := oas.NewInteger()
		s.Format = "int32"
		return s, nil
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		s := oas.NewInteger()
		s.Format = "int64"
		s.Minimum = new(float64)
		return s, nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		s := oas.NewInteger()
		s.Format = "int32"
		s.Minimum = new(float64)
		return s, nil
	case reflect.Float32:
		s := oas.NewNumber()
		s.Format = "float"
		return s, nil
	case reflect.Float64:
		s := oas.NewNumber()
		s.Format = "double"
		return s, nil
	case reflect.String:
		return oas.NewString(), nil
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 && t.Kind() == reflect.Slice {
			return stringFormat("byte"), nil
		}
		items, err := g.SchemaRef(t.Elem())
		if err != nil {
			return nil, err
		}
		return oas.NewArray(items), nil
	case reflect.Map:
		if !isMapKey(t.Key()) {
			return nil, &oaserrors.ConfigError{Option: "schema", Value: t.String(), Message: "map keys must be strings, integers or text marshalers"}
		}
		values, err := g.SchemaRef(t.Elem())
		if err != nil {
			return nil, err
		}
		return &oas.Schema{Type: oas.TypeObject, AdditionalProperties: values}, nil
	case reflect.Struct:
		return g.structSchema(t)
	case reflect.Interface:
		return &oas.Schema{Type: oas.TypeObject}, nil
	default:
		return nil, &oaserrors.ConfigError{Option: "schema", Value: t.String(), Message: fmt.Sprintf("unsupported kind %s", t.Kind())}
	}
}

func (g *Generator) structSchema(t reflect.Type) (*oas.Schema, error) {
	if inner, ok := g.newtypeOf(t); ok {
		return g.Schema(inner)
	}
	fields, err := g.Fields(t)
	if err != nil {
		return nil, err
	}
	s, err := g.Compose(t.String(), fields)
	if err != nil {
		return nil, err
	}
	if d := g.descriptionOf(t); d != "" {
		s.Description = d
	}
	return s, nil
}

// newtypeOf returns the wrapped type of a struct whose single visible field is
// tagged oas:"newtype".
func (g *Generator) newtypeOf(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Struct {
		return nil, false
	}
	var found *reflect.StructField
	for i := range t.NumField() {
		sf := t.Field(i)
		if parseOASTag(sf.Tag.Get("oas"))["newtype"] == "true" {
			if found != nil {
				return nil, false
			}
			found = &sf
		}
	}
	if found == nil {
		return nil, false
	}
	return found.Type, true
}

func (g *Generator) variantSchema(t reflect.Type, v Variants) (*oas.Schema, error) {
	resolved := make([]ResolvedVariant, 0, len(v.List))
	for _, variant := range v.List {
		if variant.Skip {
			continue
		}
		rv := ResolvedVariant{Name: variant.Name}
		if variant.Type != nil {
			var ref *oas.SchemaRef
			if variant.Inline {
				s, err := g.Schema(variant.Type)
				if err != nil {
					return nil, fmt.Errorf("variant %s.%s: %w", t.String(), variant.Name, err)
				}
				ref = oas.Item(s)
			} else {
				var err error
				if ref, err = g.SchemaRef(variant.Type); err != nil {
					return nil, fmt.Errorf("variant %s.%s: %w", t.String(), variant.Name, err)
				}
			}
			if variant.Description != "" && !ref.IsRef() {
				ref.Value.Description = variant.Description
			}
			rv.Schema = ref
		}
		resolved = append(resolved, rv)
	}
	if len(resolved) == 0 {
		return nil, &oaserrors.ConfigError{Option: "variants", Value: t.String(), Message: "sum type has no variants"}
	}

	s := ResolveVariants(v.Tagging, resolved)
	if v.Description != "" {
		s.Description = v.Description
	} else if d := g.descriptionOf(t); d != "" {
		s.Description = d
	}
	return s, nil
}

func (g *Generator) descriptionOf(t reflect.Type) string {
	if g.describe == nil || t.Name() == "" || t.PkgPath() == "" {
		return ""
	}
	return g.describe(t.PkgPath() + "." + t.Name())
}

// nullable marks a reference as accepting null. A component reference is
// wrapped in allOf because siblings of $ref are ignored in OpenAPI 3.0.
func nullable(r *oas.SchemaRef) *oas.SchemaRef {
	if r.IsRef() {
		return oas.Item(&oas.Schema{Nullable: true, AllOf: []*oas.SchemaRef{r}})
	}
	return oas.Item(markNullable(r.Value))
}

func markNullable(s *oas.Schema) *oas.Schema {
	if s == nil {
		s = &oas.Schema{}
	}
	s.Nullable = true
	return s
}

func isMapKey(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return t.Implements(textMarshalerType)
}
