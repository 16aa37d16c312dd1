package builder

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasgen/oaserrors"
)

// ComponentType identifies the type of component where an error occurred.
type ComponentType string

const (
	// ComponentOperation indicates an error in an operation definition.
	ComponentOperation ComponentType = "operation"
	// ComponentPathItem indicates an error placing an operation on a path.
	ComponentPathItem ComponentType = "path_item"
	// ComponentSchema indicates an error in a schema definition.
	ComponentSchema ComponentType = "schema"
	// ComponentInfo indicates an error in the document info.
	ComponentInfo ComponentType = "info"
	// ComponentServer indicates an error in a server definition.
	ComponentServer ComponentType = "server"
	// ComponentConfig indicates an invalid builder option.
	ComponentConfig ComponentType = "config"
)

// operationLocation tracks where an operation key was first mounted.
type operationLocation struct {
	Method string
	Path   string
}

// String returns a human-readable location description.
func (ol operationLocation) String() string {
	return fmt.Sprintf("%s %s", ol.Method, ol.Path)
}

// BuilderError represents a structured error from the builder package.
// It records where in the document the failure happened.
type BuilderError struct {
	// Component is the type of component where the error occurred.
	Component ComponentType
	// Method is the HTTP method (for operation errors).
	Method string
	// Path is the API path or schema name.
	Path string
	// OperationID is the operation identifier (if applicable).
	OperationID string
	// Field is the specific field with the error.
	Field string
	// Message describes the error.
	Message string
	// FirstOccurrence tracks where a duplicate was first defined.
	FirstOccurrence *operationLocation
	// Cause is the underlying error, if any.
	Cause error
}

// Error renders the component, location, operation id and field before the
// message and cause, for example:
//
//	builder: path_item GET /pets [operationId: list_pets]: duplicate operation
func (e *BuilderError) Error() string {
	var sb strings.Builder
	sb.WriteString("builder")
	if e.Component != "" {
		sb.WriteString(": " + string(e.Component))
	}
	if loc := e.location(); loc != "" {
		sb.WriteString(" " + loc)
	}
	if e.OperationID != "" {
		fmt.Fprintf(&sb, " [operationId: %s]", e.OperationID)
	}
	if e.Field != "" {
		sb.WriteString(" field " + e.Field)
	}
	if e.Message != "" {
		sb.WriteString(": " + e.Message)
	}
	if e.FirstOccurrence != nil {
		fmt.Fprintf(&sb, " (first defined at %s)", e.FirstOccurrence)
	}
	if e.Cause != nil {
		sb.WriteString(": " + e.Cause.Error())
	}
	return sb.String()
}

// location is "METHOD path", the bare path, or "".
func (e *BuilderError) location() string {
	switch {
	case e.Method != "" && e.Path != "":
		return e.Method + " " + e.Path
	default:
		return e.Path
	}
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *BuilderError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// All BuilderErrors are classified as ErrConfig errors; duplicates also match
// ErrDuplicate. errors.Is reaches any cause through Unwrap.
func (e *BuilderError) Is(target error) bool {
	if target == oaserrors.ErrDuplicate {
		return e.FirstOccurrence != nil
	}
	return target == oaserrors.ErrConfig
}

// Location returns where the error happened, falling back to the component
// name and then "unknown".
func (e *BuilderError) Location() string {
	if loc := e.location(); loc != "" {
		return loc
	}
	if e.Component != "" {
		return string(e.Component)
	}
	return "unknown"
}

// NewDuplicateOperationIDError creates an error for an operation id mounted twice.
func NewDuplicateOperationIDError(operationID, method, path string, first *operationLocation) *BuilderError {
	return &BuilderError{
		Component:       ComponentOperation,
		Method:          method,
		Path:            path,
		OperationID:     operationID,
		Message:         fmt.Sprintf("duplicate operationId %q", operationID),
		FirstOccurrence: first,
	}
}

// NewInvalidMethodError creates an error for methods without a PathItem slot.
func NewInvalidMethodError(method, path string) *BuilderError {
	return &BuilderError{
		Component: ComponentOperation,
		Method:    method,
		Path:      path,
		Message:   fmt.Sprintf("unsupported HTTP method: %s", method),
	}
}

// NewSchemaError creates an error for schema-related issues.
func NewSchemaError(schemaName, message string, cause error) *BuilderError {
	return &BuilderError{
		Component: ComponentSchema,
		Path:      schemaName,
		Message:   message,
		Cause:     cause,
	}
}

// BuilderErrors is a collection of BuilderError with formatting support.
type BuilderErrors []*BuilderError

// Error lists every error on its own line. A single error prints as itself.
func (errs BuilderErrors) Error() string {
	live := errs.Unwrap()
	switch len(live) {
	case 0:
		return ""
	case 1:
		return live[0].Error()
	}
	lines := make([]string, 0, len(live)+1)
	lines = append(lines, fmt.Sprintf("builder: %d error(s):", len(live)))
	for _, e := range live {
		lines = append(lines, "  - "+strings.TrimPrefix(e.Error(), "builder: "))
	}
	return strings.Join(lines, "\n")
}

// Unwrap returns the non-nil errors so errors.Is and errors.As see each one.
func (errs BuilderErrors) Unwrap() []error {
	out := make([]error, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}
