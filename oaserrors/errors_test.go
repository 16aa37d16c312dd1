package oaserrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &ParseError{Path: "docs.json", Message: "decoding manifest", Cause: cause}

	assert.Equal(t, "parse error in docs.json: decoding manifest: unexpected EOF", err.Error())
	assert.Equal(t, "parse error", (&ParseError{}).Error())
	assert.ErrorIs(t, err, ErrParse)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrConfig)
}

func TestSchemaResolutionError(t *testing.T) {
	err := &SchemaResolutionError{Name: "Pet", Referrer: "Owner"}
	assert.Equal(t, `schema resolution error: "Pet" is not registered (referenced from Owner)`, err.Error())
	assert.Equal(t, `schema resolution error: "Pet" is not registered`, (&SchemaResolutionError{Name: "Pet"}).Error())
	assert.ErrorIs(t, err, ErrSchemaResolution)
}

func TestInvalidFlattenError(t *testing.T) {
	err := &InvalidFlattenError{Type: "Foo", Field: "bar", Target: "$ref Bar"}
	assert.Equal(t, "invalid flatten of Foo.bar: target must be an inline object, got $ref Bar", err.Error())
	assert.Equal(t, "invalid flatten: target must be an inline object", (&InvalidFlattenError{}).Error())
	assert.ErrorIs(t, err, ErrInvalidFlatten)
}

func TestUnsupportedPathItemReferenceError(t *testing.T) {
	err := &UnsupportedPathItemReferenceError{Path: "/pets", Ref: "#/components/pathItems/Pets"}
	assert.Contains(t, err.Error(), "/pets is a reference to \"#/components/pathItems/Pets\"")
	assert.ErrorIs(t, err, ErrUnsupportedPathItemRef)
}

func TestAmbiguousBodyError(t *testing.T) {
	err := &AmbiguousBodyError{OperationID: "create_pet", Candidates: []string{"Body[Pet]", "Body[Owner]"}}
	assert.Equal(t, "ambiguous body parameter in create_pet: Body[Pet], Body[Owner] can supply a body, only the last parameter may", err.Error())
	assert.ErrorIs(t, err, ErrAmbiguousBody)
}

func TestValidationError(t *testing.T) {
	cause := errors.New("invalid paths")
	err := &ValidationError{Path: "paths./pets", Message: "bad operation", Cause: cause}
	assert.Equal(t, "validation error at paths./pets: bad operation: invalid paths", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, cause)
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "prefix", Value: "api", Message: "must start with /"}
	assert.Equal(t, "configuration error for prefix (value: api): must start with /", err.Error())
	assert.ErrorIs(t, err, ErrConfig)
	assert.Nil(t, err.Unwrap())
}

func TestDuplicateOperationError(t *testing.T) {
	err := &DuplicateOperationError{Method: "GET", Path: "/pets", Existing: "list_pets", OperationID: "find_pets"}
	assert.Equal(t, "duplicate operation GET /pets: find_pets conflicts with list_pets", err.Error())
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NotErrorIs(t, err, ErrConfig)
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("building: %w", &InvalidFlattenError{Type: "Foo", Field: "bar"})

	var flat *InvalidFlattenError
	assert.True(t, errors.As(wrapped, &flat))
	assert.Equal(t, "bar", flat.Field)
	assert.ErrorIs(t, wrapped, ErrInvalidFlatten)
	assert.NotErrorIs(t, wrapped, ErrSchemaResolution)
}
