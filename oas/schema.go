package oas

import (
	"bytes"
	"iter"
	"slices"

	"github.com/goccy/go-json"
)

// ComponentsPrefix is the JSON pointer prefix of named component schemas.
const ComponentsPrefix = "#/components/schemas/"

// Schema type names used by the generator.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Schema is an OpenAPI 3.0 schema object.
//
// Only the subset of keywords the generator produces is modeled. Properties keep
// insertion order, which is observable in both JSON and YAML output.
type Schema struct {
	Type                 string       `json:"type,omitempty"`
	Format               string       `json:"format,omitempty"`
	Title                string       `json:"title,omitempty"`
	Description          string       `json:"description,omitempty"`
	Nullable             bool         `json:"nullable,omitempty"`
	Deprecated           bool         `json:"deprecated,omitempty"`
	ReadOnly             bool         `json:"readOnly,omitempty"`
	Minimum              *float64     `json:"minimum,omitempty"`
	Enum                 []any        `json:"enum,omitempty"`
	Items                *SchemaRef   `json:"items,omitempty"`
	Properties           *Properties  `json:"properties,omitempty"`
	Required             []string     `json:"required,omitempty"`
	AdditionalProperties *SchemaRef   `json:"additionalProperties,omitempty"`
	OneOf                []*SchemaRef `json:"oneOf,omitempty"`
	AllOf                []*SchemaRef `json:"allOf,omitempty"`
	Example              any          `json:"example,omitempty"`
}

// NewString returns a string schema.
func NewString() *Schema { return &Schema{Type: TypeString} }

// NewInteger returns an integer schema.
func NewInteger() *Schema { return &Schema{Type: TypeInteger} }

// NewNumber returns a number schema.
func NewNumber() *Schema { return &Schema{Type: TypeNumber} }

// NewBoolean returns a boolean schema.
func NewBoolean() *Schema { return &Schema{Type: TypeBoolean} }

// NewObject returns an object schema with an empty property map.
func NewObject() *Schema { return &Schema{Type: TypeObject, Properties: NewProperties()} }

// NewArray returns an array schema of the given items.
func NewArray(items *SchemaRef) *Schema { return &Schema{Type: TypeArray, Items: items} }

// NewStringEnum returns a string schema restricted to values, in order.
func NewStringEnum(values ...string) *Schema {
	s := NewString()
	s.Enum = make([]any, len(values))
	for i, v := range values {
		s.Enum[i] = v
	}
	return s
}

// IsObject reports whether s is an inline object schema.
func (s *Schema) IsObject() bool {
	return s != nil && s.Type == TypeObject
}

// AddRequired appends names to the required list, skipping duplicates.
func (s *Schema) AddRequired(names ...string) {
	for _, n := range names {
		if !slices.Contains(s.Required, n) {
			s.Required = append(s.Required, n)
		}
	}
}

// SetProperty inserts or replaces a property, initializing the map if needed.
func (s *Schema) SetProperty(name string, ref *SchemaRef) {
	if s.Properties == nil {
		s.Properties = NewProperties()
	}
	s.Properties.Set(name, ref)
}

// Clone returns a deep copy of s.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	if s.Minimum != nil {
		m := *s.Minimum
		c.Minimum = &m
	}
	c.Enum = slices.Clone(s.Enum)
	c.Required = slices.Clone(s.Required)
	c.Items = s.Items.Clone()
	c.AdditionalProperties = s.AdditionalProperties.Clone()
	c.Properties = s.Properties.Clone()
	c.OneOf = cloneRefs(s.OneOf)
	c.AllOf = cloneRefs(s.AllOf)
	return &c
}

func cloneRefs(refs []*SchemaRef) []*SchemaRef {
	if refs == nil {
		return nil
	}
	out := make([]*SchemaRef, len(refs))
	for i, r := range refs {
		out[i] = r.Clone()
	}
	return out
}

// SchemaRef is either a named pointer into components.schemas or an inline schema.
// Exactly one of Ref and Value is set.
type SchemaRef struct {
	// Ref is the bare component name, without the "#/components/schemas/" prefix.
	Ref   string
	Value *Schema
}

// RefTo returns a reference to the named component schema.
func RefTo(name string) *SchemaRef {
	return &SchemaRef{Ref: name}
}

// Item wraps an inline schema.
func Item(s *Schema) *SchemaRef {
	return &SchemaRef{Value: s}
}

// IsRef reports whether r points at a named component.
func (r *SchemaRef) IsRef() bool {
	return r != nil && r.Ref != ""
}

// Clone returns a deep copy of r.
func (r *SchemaRef) Clone() *SchemaRef {
	if r == nil {
		return nil
	}
	return &SchemaRef{Ref: r.Ref, Value: r.Value.Clone()}
}

// MarshalJSON encodes a Ref as {"$ref": "..."} and an Item as the schema itself.
func (r *SchemaRef) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	if r.Ref != "" {
		return json.Marshal(map[string]string{"$ref": ComponentsPrefix + r.Ref})
	}
	if r.Value == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Value)
}

// Properties is an insertion-ordered map of property name to schema.
type Properties struct {
	keys   []string
	values map[string]*SchemaRef
}

// NewProperties returns an empty property map.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]*SchemaRef)}
}

// Set inserts name at the end, or replaces its value in place if present.
func (p *Properties) Set(name string, ref *SchemaRef) {
	if p.values == nil {
		p.values = make(map[string]*SchemaRef)
	}
	if _, ok := p.values[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.values[name] = ref
}

// Get returns the schema for name.
func (p *Properties) Get(name string) (*SchemaRef, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[name]
	return v, ok
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the property names in insertion order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.keys)
}

// All iterates properties in insertion order.
func (p *Properties) All() iter.Seq2[string, *SchemaRef] {
	return func(yield func(string, *SchemaRef) bool) {
		if p == nil {
			return
		}
		for _, k := range p.keys {
			if !yield(k, p.values[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of p.
func (p *Properties) Clone() *Properties {
	if p == nil {
		return nil
	}
	c := &Properties{keys: slices.Clone(p.keys), values: make(map[string]*SchemaRef, len(p.values))}
	for k, v := range p.values {
		c.values[k] = v.Clone()
	}
	return c
}

// MarshalJSON writes the properties as an object in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
