package schema

import (
	"fmt"
	"maps"
	"slices"

	"github.com/erraggy/oasgen/oas"
	"github.com/erraggy/oasgen/oaserrors"
)

// Constructor builds a named schema on demand.
type Constructor func() (*oas.Schema, error)

// Registry is a write-once table of named schema constructors.
//
// Registering a name twice keeps the first constructor. Build runs every
// constructor exactly once, even across repeated calls, and output order
// depends only on the sorted key set.
type Registry struct {
	ctors  map[string]Constructor
	built  map[string]*oas.Schema
	failed map[string]error
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ctors:  make(map[string]Constructor),
		built:  make(map[string]*oas.Schema),
		failed: make(map[string]error),
	}
}

// Register adds ctor under name. It reports whether the name was new; a
// repeated registration is ignored.
func (r *Registry) Register(name string, ctor Constructor) bool {
	if _, ok := r.ctors[name]; ok {
		return false
	}
	r.ctors[name] = ctor
	return true
}

// RegisterSchema registers a fixed schema under name.
func (r *Registry) RegisterSchema(name string, s *oas.Schema) bool {
	return r.Register(name, func() (*oas.Schema, error) { return s, nil })
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.ctors[name]
	return ok
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	return len(r.ctors)
}

// Names returns the registered names in lexicographic order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.ctors))
}

// Build invokes every pending constructor and returns the schemas keyed by name.
//
// Constructors may register further names while running; Build keeps going in
// sorted order until nothing is pending. Every $ref in the result must name a
// registered schema, otherwise a *oaserrors.SchemaResolutionError is returned.
func (r *Registry) Build() (map[string]*oas.Schema, error) {
	for {
		pending := r.pending()
		if len(pending) == 0 {
			break
		}
		for _, name := range pending {
			if err := r.buildOne(name); err != nil {
				return nil, err
			}
		}
	}

	for _, name := range slices.Sorted(maps.Keys(r.built)) {
		if err := r.Resolve(name, r.built[name].Refs()...); err != nil {
			return nil, err
		}
	}
	return maps.Clone(r.built), nil
}

// Resolve checks that every name in refs is registered, attributing failures to referrer.
func (r *Registry) Resolve(referrer string, refs ...string) error {
	for _, ref := range refs {
		if !r.Has(ref) {
			return &oaserrors.SchemaResolutionError{Name: ref, Referrer: referrer}
		}
	}
	return nil
}

func (r *Registry) pending() []string {
	var names []string
	for name := range r.ctors {
		if _, done := r.built[name]; done {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) buildOne(name string) error {
	if err, ok := r.failed[name]; ok {
		return err
	}
	s, err := r.ctors[name]()
	if err != nil {
		err = fmt.Errorf("schema %q: %w", name, err)
		r.failed[name] = err
		return err
	}
	if s == nil {
		s = &oas.Schema{}
	}
	r.built[name] = s
	return nil
}
