package schema

import (
	"fmt"
	"reflect"

	"github.com/erraggy/oasgen/oas"
	"github.com/erraggy/oasgen/oaserrors"
)

// Field describes one member of a record type as it appears in JSON.
type Field struct {
	// Name is the JSON property name.
	Name   string
	GoName string
	Type   reflect.Type

	// Skip omits the field entirely.
	Skip bool
	// SkipIfAbsent keeps the property but leaves it out of required.
	SkipIfAbsent bool
	// Flatten merges the properties of the field's object schema into the parent.
	Flatten bool
	// Inline uses the field's own schema instead of a component reference.
	Inline  bool
	Newtype bool

	Description string
	Format      string
	Deprecated  bool
}

// Fields returns the visible fields of struct type t in declaration order.
func (g *Generator) Fields(t reflect.Type) ([]Field, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, &oaserrors.ConfigError{Option: "fields", Value: t.String(), Message: "not a struct type"}
	}
	fields := make([]Field, 0, t.NumField())
	for i := range t.NumField() {
		f, ok := fieldFromStruct(t.Field(i), g.fieldCase)
		if !ok {
			continue
		}
		if f.Description == "" && g.describe != nil && t.Name() != "" && t.PkgPath() != "" {
			f.Description = g.describe(t.PkgPath() + "." + t.Name() + "." + f.GoName)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// Compose builds the object schema of a record from its fields. owner names
// the record in errors.
//
// Properties keep the order of fields. A skipped field contributes nothing; a
// flattened field contributes its properties and required names, and must
// resolve to an inline object. Every other field is required unless it is
// marked SkipIfAbsent.
func (g *Generator) Compose(owner string, fields []Field) (*oas.Schema, error) {
	obj := oas.NewObject()
	for _, f := range fields {
		if f.Skip {
			continue
		}
		if f.Flatten {
			if err := g.flattenInto(obj, owner, f); err != nil {
				return nil, err
			}
			continue
		}

		prop, err := g.fieldRef(f)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", owner, f.GoName, err)
		}
		obj.SetProperty(f.Name, prop)
		if !f.SkipIfAbsent {
			obj.AddRequired(f.Name)
		}
	}
	return obj, nil
}

func (g *Generator) fieldRef(f Field) (*oas.SchemaRef, error) {
	var ref *oas.SchemaRef
	if f.Inline {
		s, err := g.Schema(f.Type)
		if err != nil {
			return nil, err
		}
		ref = oas.Item(s)
	} else {
		var err error
		if ref, err = g.SchemaRef(f.Type); err != nil {
			return nil, err
		}
	}
	if ref.IsRef() {
		if f.Description == "" && !f.Deprecated {
			return ref, nil
		}
		// $ref siblings are ignored, so annotations need a wrapper.
		ref = oas.Item(&oas.Schema{AllOf: []*oas.SchemaRef{ref}})
	}
	if ref.Value == nil {
		ref.Value = &oas.Schema{}
	}
	if f.Description != "" {
		ref.Value.Description = f.Description
	}
	if f.Format != "" {
		ref.Value.Format = f.Format
	}
	if f.Deprecated {
		ref.Value.Deprecated = true
	}
	return ref, nil
}

func (g *Generator) flattenInto(obj *oas.Schema, owner string, f Field) error {
	t := f.Type
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	s, err := g.Schema(t)
	if err != nil {
		return fmt.Errorf("field %s.%s: %w", owner, f.GoName, err)
	}
	if !s.IsObject() || s.Properties == nil {
		return &oaserrors.InvalidFlattenError{Type: owner, Field: f.GoName, Target: describeTarget(s)}
	}
	for name, prop := range s.Properties.All() {
		obj.SetProperty(name, prop)
	}
	obj.AddRequired(s.Required...)
	return nil
}

func describeTarget(s *oas.Schema) string {
	switch {
	case s == nil:
		return "untyped schema"
	case len(s.AllOf) == 1 && s.AllOf[0].IsRef():
		return "reference to " + s.AllOf[0].Ref
	case len(s.OneOf) > 0:
		return "oneOf"
	case s.Type != "":
		return s.Type
	default:
		return "untyped schema"
	}
}
