package schema

import (
	"reflect"

	"github.com/erraggy/oasgen/oas"
)

// TaggingKind selects how a sum type records which variant a value holds.
type TaggingKind int

const (
	// TaggingExternal encodes a variant as {"Name": payload}.
	TaggingExternal TaggingKind = iota
	// TaggingInternal adds a tag property to the payload object.
	TaggingInternal
	// TaggingAdjacent encodes {"tag": "Name", "content": payload}.
	TaggingAdjacent
	// TaggingUntagged encodes the payload alone.
	TaggingUntagged
)

// String returns the tagging name.
func (k TaggingKind) String() string {
	switch k {
	case TaggingExternal:
		return "external"
	case TaggingInternal:
		return "internal"
	case TaggingAdjacent:
		return "adjacent"
	case TaggingUntagged:
		return "untagged"
	default:
		return "unknown"
	}
}

// Tagging is a tagging convention together with its property names.
type Tagging struct {
	Kind    TaggingKind
	Tag     string
	Content string
}

// External returns the externally tagged convention.
func External() Tagging { return Tagging{Kind: TaggingExternal} }

// Internal returns the internally tagged convention using the tag property.
func Internal(tag string) Tagging { return Tagging{Kind: TaggingInternal, Tag: tag} }

// Adjacent returns the adjacently tagged convention.
func Adjacent(tag, content string) Tagging {
	return Tagging{Kind: TaggingAdjacent, Tag: tag, Content: content}
}

// Untagged returns the untagged convention.
func Untagged() Tagging { return Tagging{Kind: TaggingUntagged} }

// Variant is one named shape of a sum type. A nil Type makes it a unit variant.
type Variant struct {
	Name string
	Type reflect.Type
	// Inline composes the payload in place instead of referencing its component.
	Inline      bool
	Skip        bool
	Description string
}

// Unit returns a variant without payload.
func Unit(name string) Variant {
	return Variant{Name: name}
}

// Newtype returns a variant wrapping a single value of type T, referenced by
// its component name when T has one.
func Newtype[T any](name string) Variant {
	return Variant{Name: name, Type: reflect.TypeFor[T]()}
}

// Struct returns a variant whose payload is the fields of T, composed inline.
func Struct[T any](name string) Variant {
	return Variant{Name: name, Type: reflect.TypeFor[T](), Inline: true}
}

// Variants declares the shapes of a sum type.
type Variants struct {
	Tagging     Tagging
	List        []Variant
	Description string
}

// UnitVariants declares a plain string enumeration.
func UnitVariants(names ...string) Variants {
	v := Variants{Tagging: External()}
	for _, n := range names {
		v.List = append(v.List, Unit(n))
	}
	return v
}

// Enumerator is implemented by types that are sum types.
type Enumerator interface {
	OAVariants() Variants
}

// ResolvedVariant is a variant whose payload schema is already known.
// A nil Schema marks a unit variant.
type ResolvedVariant struct {
	Name   string
	Schema *oas.SchemaRef
}

// ResolveVariants builds the schema of a sum type.
//
// Unit variants collapse into one string enumeration placed after all payload
// variants. A single resulting branch is returned as is; more than one becomes
// a oneOf in declaration order.
func ResolveVariants(tagging Tagging, variants []ResolvedVariant) *oas.Schema {
	var units []string
	var branches []*oas.SchemaRef
	for _, v := range variants {
		if v.Schema == nil {
			units = append(units, v.Name)
			continue
		}
		branches = append(branches, wrapVariant(tagging, v))
	}
	if len(units) > 0 {
		branches = append(branches, wrapUnits(tagging, units))
	}

	switch len(branches) {
	case 0:
		return &oas.Schema{}
	case 1:
		if branches[0].IsRef() {
			return &oas.Schema{AllOf: branches}
		}
		return branches[0].Value
	default:
		return &oas.Schema{OneOf: branches}
	}
}

func wrapVariant(tagging Tagging, v ResolvedVariant) *oas.SchemaRef {
	switch tagging.Kind {
	case TaggingInternal:
		tagProp := oas.Item(oas.NewStringEnum(v.Name))
		if !v.Schema.IsRef() && v.Schema.Value.IsObject() {
			inner := v.Schema.Value.Clone()
			obj := oas.NewObject()
			obj.Description = inner.Description
			obj.SetProperty(tagging.Tag, tagProp)
			for name, prop := range inner.Properties.All() {
				if name != tagging.Tag {
					obj.SetProperty(name, prop)
				}
			}
			obj.AddRequired(tagging.Tag)
			obj.AddRequired(inner.Required...)
			obj.AdditionalProperties = inner.AdditionalProperties
			return oas.Item(obj)
		}
		tagObj := oas.NewObject()
		tagObj.SetProperty(tagging.Tag, tagProp)
		tagObj.AddRequired(tagging.Tag)
		return oas.Item(&oas.Schema{AllOf: []*oas.SchemaRef{v.Schema, oas.Item(tagObj)}})

	case TaggingAdjacent:
		obj := oas.NewObject()
		obj.SetProperty(tagging.Tag, oas.Item(oas.NewStringEnum(v.Name)))
		obj.SetProperty(tagging.Content, v.Schema)
		obj.AddRequired(tagging.Tag, tagging.Content)
		return oas.Item(obj)

	case TaggingUntagged:
		return v.Schema

	default:
		obj := oas.NewObject()
		obj.SetProperty(v.Name, v.Schema)
		obj.AddRequired(v.Name)
		return oas.Item(obj)
	}
}

func wrapUnits(tagging Tagging, units []string) *oas.SchemaRef {
	enum := oas.NewStringEnum(units...)
	switch tagging.Kind {
	case TaggingInternal, TaggingAdjacent:
		obj := oas.NewObject()
		obj.SetProperty(tagging.Tag, oas.Item(enum))
		obj.AddRequired(tagging.Tag)
		return oas.Item(obj)
	default:
		return oas.Item(enum)
	}
}
