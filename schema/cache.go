package schema

import (
	"reflect"

	"github.com/erraggy/oasgen/oas"
)

// schemaCache memoizes inline schemas and registered names per type.
type schemaCache struct {
	byType     map[reflect.Type]*oas.Schema // Type → inline Schema
	byName     map[string]reflect.Type      // Name → Type (for collision checks)
	nameByType map[reflect.Type]string      // Type → Name
	inProgress map[reflect.Type]bool        // Cycle detection for inline expansion
}

// newSchemaCache creates a new schema cache.
func newSchemaCache() *schemaCache {
	return &schemaCache{
		byType:     make(map[reflect.Type]*oas.Schema),
		byName:     make(map[string]reflect.Type),
		nameByType: make(map[reflect.Type]string),
		inProgress: make(map[reflect.Type]bool),
	}
}

// get returns the cached inline schema for t.
func (c *schemaCache) get(t reflect.Type) (*oas.Schema, bool) {
	s, ok := c.byType[t]
	return s, ok
}

// set caches the inline schema for t.
func (c *schemaCache) set(t reflect.Type, s *oas.Schema) {
	c.byType[t] = s
}

// bindName records that t is registered as name.
func (c *schemaCache) bindName(t reflect.Type, name string) {
	c.byName[name] = t
	c.nameByType[t] = name
}

// nameFor returns the bound name for t, if any.
func (c *schemaCache) nameFor(t reflect.Type) (string, bool) {
	name, ok := c.nameByType[t]
	return name, ok
}

// typeFor returns the type bound to name, or nil.
func (c *schemaCache) typeFor(name string) reflect.Type {
	return c.byName[name]
}
