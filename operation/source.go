package operation

import (
	"reflect"
	"slices"
	"strconv"

	"github.com/erraggy/oasgen/oas"
	"github.com/erraggy/oasgen/oaserrors"
	"github.com/erraggy/oasgen/schema"
)

// Source is where a handler parameter is read from.
type Source int

const (
	// SourceNone marks a parameter type that declares no source. Its parameters
	// and body come from the schema descriptor protocol.
	SourceNone Source = iota
	// SourcePath reads placeholders of the mount path.
	SourcePath
	// SourceQuery reads the query string.
	SourceQuery
	// SourceBody reads the request payload.
	SourceBody
	// SourceHeader reads request headers.
	SourceHeader
	// SourceExtension is framework state that does not appear in the document.
	SourceExtension
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourcePath:
		return "path"
	case SourceQuery:
		return "query"
	case SourceBody:
		return "body"
	case SourceHeader:
		return "header"
	case SourceExtension:
		return "extension"
	default:
		return "unknown"
	}
}

// Sourced is implemented by parameter wrapper types.
type Sourced interface {
	OASource() Source
}

// Path holds values extracted from path placeholders. A scalar T yields one
// parameter; a struct T yields one parameter per field, in order.
type Path[T any] struct {
	Value T
}

// OASource implements Sourced.
func (Path[T]) OASource() Source { return SourcePath }

// OAParameters implements schema.ParameterProvider.
func (Path[T]) OAParameters(g *schema.Generator) ([]*oas.Parameter, error) {
	t := reflect.TypeFor[T]()
	if obj, ok, err := recordSchema(g, t); err != nil {
		return nil, err
	} else if ok {
		return objectParams(obj, oas.InPath, true), nil
	}
	return positionalPathParams(g, t)
}

// OABodySchema implements schema.BodyProvider.
func (Path[T]) OABodySchema(*schema.Generator) (*oas.SchemaRef, error) { return nil, nil }

// Path2 holds two positional path values.
type Path2[A, B any] struct {
	V1 A
	V2 B
}

// OASource implements Sourced.
func (Path2[A, B]) OASource() Source { return SourcePath }

// OAParameters implements schema.ParameterProvider.
func (Path2[A, B]) OAParameters(g *schema.Generator) ([]*oas.Parameter, error) {
	return positionalPathParams(g, reflect.TypeFor[A](), reflect.TypeFor[B]())
}

// OABodySchema implements schema.BodyProvider.
func (Path2[A, B]) OABodySchema(*schema.Generator) (*oas.SchemaRef, error) { return nil, nil }

// Path3 holds three positional path values.
type Path3[A, B, C any] struct {
	V1 A
	V2 B
	V3 C
}

// OASource implements Sourced.
func (Path3[A, B, C]) OASource() Source { return SourcePath }

// OAParameters implements schema.ParameterProvider.
func (Path3[A, B, C]) OAParameters(g *schema.Generator) ([]*oas.Parameter, error) {
	return positionalPathParams(g, reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C]())
}

// OABodySchema implements schema.BodyProvider.
func (Path3[A, B, C]) OABodySchema(*schema.Generator) (*oas.SchemaRef, error) { return nil, nil }

// Query holds values decoded from the query string. A struct T yields one
// parameter per field; a scalar T yields a single parameter named "query".
type Query[T any] struct {
	Value T
}

// OASource implements Sourced.
func (Query[T]) OASource() Source { return SourceQuery }

// OAParameters implements schema.ParameterProvider.
func (Query[T]) OAParameters(g *schema.Generator) ([]*oas.Parameter, error) {
	t := reflect.TypeFor[T]()
	if obj, ok, err := recordSchema(g, t); err != nil {
		return nil, err
	} else if ok {
		return objectParams(obj, oas.InQuery, false), nil
	}
	ref, err := g.SchemaRef(t)
	if err != nil {
		return nil, err
	}
	return []*oas.Parameter{{
		Name:     "query",
		In:       oas.InQuery,
		Required: t.Kind() != reflect.Pointer,
		Schema:   ref,
	}}, nil
}

// OABodySchema implements schema.BodyProvider.
func (Query[T]) OABodySchema(*schema.Generator) (*oas.SchemaRef, error) { return nil, nil }

// Header holds values read from request headers. T must be a struct; each
// field names its header with a header tag, falling back to its json name.
type Header[T any] struct {
	Value T
}

// OASource implements Sourced.
func (Header[T]) OASource() Source { return SourceHeader }

// OAParameters implements schema.ParameterProvider.
func (Header[T]) OAParameters(g *schema.Generator) ([]*oas.Parameter, error) {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, &oaserrors.ConfigError{Option: "header", Value: t.String(), Message: "header parameters must be declared by a struct"}
	}
	fields, err := g.Fields(t)
	if err != nil {
		return nil, err
	}
	var params []*oas.Parameter
	for _, f := range fields {
		if f.Skip {
			continue
		}
		name := f.Name
		if sf, ok := t.FieldByName(f.GoName); ok {
			if h := sf.Tag.Get("header"); h != "" {
				name = h
			}
		}
		ref, err := g.SchemaRef(f.Type)
		if err != nil {
			return nil, err
		}
		params = append(params, &oas.Parameter{
			Name:        name,
			In:          oas.InHeader,
			Description: f.Description,
			Required:    !f.SkipIfAbsent,
			Deprecated:  f.Deprecated,
			Schema:      ref,
		})
	}
	return params, nil
}

// OABodySchema implements schema.BodyProvider.
func (Header[T]) OABodySchema(*schema.Generator) (*oas.SchemaRef, error) { return nil, nil }

// Body holds the decoded request payload.
type Body[T any] struct {
	Value T
}

// OASource implements Sourced.
func (Body[T]) OASource() Source { return SourceBody }

// OABodySchema implements schema.BodyProvider.
func (Body[T]) OABodySchema(g *schema.Generator) (*oas.SchemaRef, error) {
	return g.SchemaRef(reflect.TypeFor[T]())
}

// Extension carries framework state such as shared application values. It
// contributes nothing to the document.
type Extension[T any] struct {
	Value T
}

// OASource implements Sourced.
func (Extension[T]) OASource() Source { return SourceExtension }

// OABodySchema implements schema.BodyProvider.
func (Extension[T]) OABodySchema(*schema.Generator) (*oas.SchemaRef, error) { return nil, nil }

// recordSchema returns the inline object schema of t when t is a plain record.
func recordSchema(g *schema.Generator, t reflect.Type) (*oas.Schema, bool, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, false, nil
	}
	s, err := g.Schema(t)
	if err != nil {
		return nil, false, err
	}
	if !s.IsObject() || s.Properties == nil || s.AdditionalProperties != nil {
		return nil, false, nil
	}
	return s, true, nil
}

func objectParams(obj *oas.Schema, in string, alwaysRequired bool) []*oas.Parameter {
	params := make([]*oas.Parameter, 0, obj.Properties.Len())
	for name, prop := range obj.Properties.All() {
		p := &oas.Parameter{
			Name:     name,
			In:       in,
			Required: alwaysRequired || slices.Contains(obj.Required, name),
			Schema:   prop,
		}
		if !prop.IsRef() && prop.Value != nil {
			p.Description = prop.Value.Description
			p.Deprecated = prop.Value.Deprecated
		}
		params = append(params, p)
	}
	return params
}

// positionalPathParams names parameters param1..paramN; path reconciliation
// renames them after the mount path's placeholders.
func positionalPathParams(g *schema.Generator, types ...reflect.Type) ([]*oas.Parameter, error) {
	params := make([]*oas.Parameter, 0, len(types))
	for i, t := range types {
		ref, err := g.SchemaRef(t)
		if err != nil {
			return nil, err
		}
		params = append(params, &oas.Parameter{
			Name:     "param" + strconv.Itoa(i+1),
			In:       oas.InPath,
			Required: true,
			Schema:   ref,
		})
	}
	return params, nil
}
