// Package oaserrors provides structured error types for oasgen.
//
// Every error a document build can produce is a programming error in the API
// declaration, so none of them is retried or recovered from. The types exist so
// that callers and tests can tell them apart with errors.Is() and errors.As():
//
//	doc, err := b.Build()
//	if err != nil {
//	    var flat *oaserrors.InvalidFlattenError
//	    if errors.As(err, &flat) {
//	        log.Fatalf("field %s.%s cannot be flattened", flat.Type, flat.Field)
//	    }
//	}
package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates a document or manifest could not be decoded.
	ErrParse = errors.New("parse error")

	// ErrSchemaResolution indicates a $ref names a schema that was never registered.
	ErrSchemaResolution = errors.New("schema resolution error")

	// ErrInvalidFlatten indicates a flattened field does not resolve to an inline object.
	ErrInvalidFlatten = errors.New("invalid flatten")

	// ErrUnsupportedPathItemRef indicates an operation was added to a PathItem that is a $ref.
	ErrUnsupportedPathItemRef = errors.New("unsupported path item reference")

	// ErrAmbiguousBody indicates more than one parameter could supply the request body.
	ErrAmbiguousBody = errors.New("ambiguous body parameter")

	// ErrValidation indicates a built document violates the OpenAPI specification.
	ErrValidation = errors.New("validation error")

	// ErrConfig indicates an invalid configuration or declaration.
	ErrConfig = errors.New("configuration error")

	// ErrDuplicate indicates a verb slot of a path was assigned twice.
	ErrDuplicate = errors.New("duplicate operation")
)

// ParseError represents a failure to decode a document or docs manifest.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// SchemaResolutionError reports a reference to a schema name absent from the registry.
type SchemaResolutionError struct {
	// Name is the unresolved schema name
	Name string
	// Referrer is the schema or operation holding the reference (may be empty)
	Referrer string
}

// Error returns a human-readable error message.
func (e *SchemaResolutionError) Error() string {
	msg := fmt.Sprintf("schema resolution error: %q is not registered", e.Name)
	if e.Referrer != "" {
		msg += " (referenced from " + e.Referrer + ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *SchemaResolutionError) Is(target error) bool {
	return target == ErrSchemaResolution
}

// InvalidFlattenError reports a flattened field whose schema is not an inline object.
type InvalidFlattenError struct {
	// Type is the containing type
	Type string
	// Field is the flattened field
	Field string
	// Target describes what the field resolved to instead (e.g. "$ref Pet")
	Target string
}

// Error returns a human-readable error message.
func (e *InvalidFlattenError) Error() string {
	msg := "invalid flatten"
	if e.Type != "" {
		msg += " of " + e.Type
		if e.Field != "" {
			msg += "." + e.Field
		}
	}
	msg += ": target must be an inline object"
	if e.Target != "" {
		msg += ", got " + e.Target
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *InvalidFlattenError) Is(target error) bool {
	return target == ErrInvalidFlatten
}

// UnsupportedPathItemReferenceError reports an operation mounted on a referenced PathItem.
type UnsupportedPathItemReferenceError struct {
	// Path is the mount path
	Path string
	// Ref is the PathItem's $ref
	Ref string
}

// Error returns a human-readable error message.
func (e *UnsupportedPathItemReferenceError) Error() string {
	return fmt.Sprintf("unsupported path item reference: %s is a reference to %q, operations can only be added to inline path items", e.Path, e.Ref)
}

// Is reports whether target matches this error type.
func (e *UnsupportedPathItemReferenceError) Is(target error) bool {
	return target == ErrUnsupportedPathItemRef
}

// AmbiguousBodyError reports an operation where parameters other than the last
// one could supply a request body.
type AmbiguousBodyError struct {
	// OperationID identifies the operation
	OperationID string
	// Candidates are the type names of every parameter that could supply a body
	Candidates []string
}

// Error returns a human-readable error message.
func (e *AmbiguousBodyError) Error() string {
	msg := "ambiguous body parameter"
	if e.OperationID != "" {
		msg += " in " + e.OperationID
	}
	if len(e.Candidates) > 0 {
		msg += ": " + strings.Join(e.Candidates, ", ") + " can supply a body, only the last parameter may"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *AmbiguousBodyError) Is(target error) bool {
	return target == ErrAmbiguousBody
}

// ValidationError represents an OpenAPI specification violation in a built document.
type ValidationError struct {
	// Path is the document location, when known
	Path string
	// Message describes the validation failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "validation error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// DuplicateOperationError reports a second operation routed to the same method
// and path.
type DuplicateOperationError struct {
	Method string
	Path   string
	// Existing is the operation id already occupying the slot
	Existing string
	// OperationID is the rejected operation
	OperationID string
}

// Error returns a human-readable error message.
func (e *DuplicateOperationError) Error() string {
	msg := fmt.Sprintf("duplicate operation %s %s", e.Method, e.Path)
	if e.OperationID != "" {
		msg += ": " + e.OperationID
		if e.Existing != "" {
			msg += " conflicts with " + e.Existing
		}
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *DuplicateOperationError) Is(target error) bool {
	return target == ErrDuplicate
}
