// Package petstore is a fixture for doc comment harvesting.
package petstore

import "context"

// Pet is an animal in the store.
type Pet struct {
	// ID is the unique identifier.
	ID int64 `json:"id"`

	Name string `json:"name"` // Name is shown to customers.

	Tag, Color string

	hidden bool
}

type (
	// Status is the adoption state.
	Status string

	// Kind is the species.
	Kind int
)

// Store keeps pets.
type Store struct{}

// ListPets returns every pet.
//
// Results are ordered by id.
func ListPets(ctx context.Context) ([]Pet, error) { return nil, nil }

// Get returns one pet. It fails when the pet is unknown.
func (s *Store) Get(ctx context.Context, id int64) (Pet, error) { return Pet{}, nil }

// Count returns the number of pets.
func (s Store) Count() int { return 0 }

func undocumented() {}
