package builder

import (
	"fmt"
	"maps"
	"slices"

	"github.com/erraggy/oasgen/oas"
	"github.com/erraggy/oasgen/schema"
)

// OperationConstructor builds an operation on demand.
type OperationConstructor func() (*oas.Operation, error)

// Mount places the operation registered under Key on Path for Method.
type Mount struct {
	Path   string
	Method string
	Key    string
}

// Collection gathers schema and operation constructors before a build.
//
// Registration is write-once by name or key: repeating one is a no-op. Every
// constructor runs at most once no matter how many documents are built from
// the collection.
type Collection struct {
	registry *schema.Registry
	ops      map[string]OperationConstructor
	built    map[string]*oas.Operation
	failed   map[string]error
	mounts   []Mount
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{
		registry: schema.NewRegistry(),
		ops:      make(map[string]OperationConstructor),
		built:    make(map[string]*oas.Operation),
		failed:   make(map[string]error),
	}
}

// Registry returns the schema registry backing the collection.
func (c *Collection) Registry() *schema.Registry {
	return c.registry
}

// RegisterSchema adds a named schema constructor. It reports whether the name
// was new.
func (c *Collection) RegisterSchema(name string, ctor schema.Constructor) bool {
	return c.registry.Register(name, ctor)
}

// RegisterOperation adds an operation constructor under key. It reports
// whether the key was new.
func (c *Collection) RegisterOperation(key string, ctor OperationConstructor) bool {
	if _, ok := c.ops[key]; ok {
		return false
	}
	c.ops[key] = ctor
	return true
}

// HasOperation reports whether key is registered.
func (c *Collection) HasOperation(key string) bool {
	_, ok := c.ops[key]
	return ok
}

// OperationKeys returns the registered operation keys in lexicographic order.
func (c *Collection) OperationKeys() []string {
	return slices.Sorted(maps.Keys(c.ops))
}

// AddHandlerToDocument records that the operation under key serves method on
// path. The key need not be registered yet; Build reports keys that never are.
func (c *Collection) AddHandlerToDocument(path, method, key string) {
	c.mounts = append(c.mounts, Mount{Path: path, Method: method, Key: key})
}

// Mounts returns the recorded mounts in registration order.
func (c *Collection) Mounts() []Mount {
	return slices.Clone(c.mounts)
}

// operation returns the operation under key, running its constructor on
// first use. A failed constructor keeps failing with the same error.
func (c *Collection) operation(key string) (*oas.Operation, error) {
	if op, ok := c.built[key]; ok {
		return op, nil
	}
	if err, ok := c.failed[key]; ok {
		return nil, err
	}
	ctor, ok := c.ops[key]
	if !ok {
		return nil, fmt.Errorf("no operation registered under %q", key)
	}
	op, err := ctor()
	if err != nil {
		c.failed[key] = err
		return nil, err
	}
	if op == nil {
		op = &oas.Operation{Responses: make(oas.Responses)}
	}
	c.built[key] = op
	return op, nil
}
