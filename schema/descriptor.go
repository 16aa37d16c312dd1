package schema

import (
	"reflect"

	"github.com/erraggy/oasgen/oas"
)

// Describer is implemented by types that supply their own schema instead of
// having one derived by reflection.
type Describer interface {
	OASchema(g *Generator) (*oas.Schema, error)
}

// Namer is implemented by types that choose their own component name. A type
// implementing Namer is always registered and referenced by that name.
type Namer interface {
	OASchemaName() string
}

// ParameterProvider is implemented by types that contribute call parameters,
// such as path or query extractors.
type ParameterProvider interface {
	OAParameters(g *Generator) ([]*oas.Parameter, error)
}

// BodyProvider is implemented by types that decide their own body schema.
// Returning nil means the type carries no body.
type BodyProvider interface {
	OABodySchema(g *Generator) (*oas.SchemaRef, error)
}

// Parameters returns the call parameters t contributes. Only types implementing
// ParameterProvider contribute any.
func (g *Generator) Parameters(t reflect.Type) ([]*oas.Parameter, error) {
	if t == nil {
		return nil, nil
	}
	if p, ok := implementation[ParameterProvider](t); ok {
		return p.OAParameters(g)
	}
	return nil, nil
}

// BodySchema returns the payload schema t contributes when used as a request or
// response body, or nil when it carries none.
//
// Types implementing BodyProvider decide for themselves. Otherwise empty
// structs and interfaces without declared variants carry no body, and every
// other type carries its own schema reference.
func (g *Generator) BodySchema(t reflect.Type) (*oas.SchemaRef, error) {
	if t == nil {
		return nil, nil
	}
	if p, ok := implementation[BodyProvider](t); ok {
		return p.OABodySchema(g)
	}
	if _, ok := implementation[ParameterProvider](t); ok {
		return nil, nil
	}
	switch {
	case t.Kind() == reflect.Struct && t.NumField() == 0 && t.Name() == "":
		return nil, nil
	case t.Kind() == reflect.Interface && !g.hasVariants(t):
		return nil, nil
	}
	return g.SchemaRef(t)
}

// SchemaOf returns the inline schema of T.
func SchemaOf[T any](g *Generator) (*oas.Schema, error) {
	return g.Schema(reflect.TypeFor[T]())
}

// RefOf returns the schema reference of T, registering its component if needed.
func RefOf[T any](g *Generator) (*oas.SchemaRef, error) {
	return g.SchemaRef(reflect.TypeFor[T]())
}

// DeclareVariants registers the variants of T, typically an interface type
// standing for a sum type.
func DeclareVariants[T any](g *Generator, v Variants) {
	g.DeclareVariants(reflect.TypeFor[T](), v)
}

// implementation returns t's implementation of I, trying the value receiver
// first and then the pointer receiver.
func implementation[I any](t reflect.Type) (I, bool) {
	var zero I
	iface := reflect.TypeFor[I]()
	switch t.Kind() {
	case reflect.Interface:
		return zero, false
	case reflect.Pointer:
		if t.Implements(iface) {
			v, ok := reflect.New(t.Elem()).Interface().(I)
			return v, ok
		}
		return zero, false
	}
	if t.Implements(iface) {
		v, ok := reflect.Zero(t).Interface().(I)
		return v, ok
	}
	if reflect.PointerTo(t).Implements(iface) {
		v, ok := reflect.New(t).Interface().(I)
		return v, ok
	}
	return zero, false
}
