package operation

import (
	"net/http"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/erraggy/oasgen/oaserrors"
	"github.com/erraggy/oasgen/schema"
)

// ErrorFact records one failure an endpoint can produce.
type ErrorFact struct {
	Status      int
	Description string
	// Body is the payload type of the error response, or nil for none.
	Body reflect.Type
}

// Endpoint describes one handler: its parameter types in declaration order,
// its success type and its declared failures.
type Endpoint struct {
	// Handler is the qualified handler name the default operation id is
	// derived from, e.g. "github.com/org/api/pets.ListPets".
	Handler string
	Params  []reflect.Type
	// Result is the success payload type, or nil for none.
	Result reflect.Type
	Errors []ErrorFact

	OperationID   string
	Summary       string
	Description   string
	Tags          []string
	Deprecated    bool
	SuccessStatus int
	// Skip keeps the endpoint out of the document.
	Skip bool
}

// EndpointOption configures an Endpoint.
type EndpointOption func(*Endpoint)

// WithOperationID overrides the derived operation id.
func WithOperationID(id string) EndpointOption {
	return func(ep *Endpoint) {
		ep.OperationID = id
	}
}

// WithSummary sets the operation summary.
func WithSummary(summary string) EndpointOption {
	return func(ep *Endpoint) {
		ep.Summary = summary
	}
}

// WithDescription sets the operation description.
func WithDescription(desc string) EndpointOption {
	return func(ep *Endpoint) {
		ep.Description = desc
	}
}

// WithTags sets the operation tags.
func WithTags(tags ...string) EndpointOption {
	return func(ep *Endpoint) {
		ep.Tags = tags
	}
}

// WithDeprecated marks the operation as deprecated.
func WithDeprecated(deprecated bool) EndpointOption {
	return func(ep *Endpoint) {
		ep.Deprecated = deprecated
	}
}

// WithStatus sets the success status code. Default: 200.
func WithStatus(status int) EndpointOption {
	return func(ep *Endpoint) {
		ep.SuccessStatus = status
	}
}

// WithSkip keeps the endpoint out of the document while it is still routed.
func WithSkip() EndpointOption {
	return func(ep *Endpoint) {
		ep.Skip = true
	}
}

// WithError declares a failure the endpoint can produce. An empty description
// uses the status text.
func WithError(status int, description string) EndpointOption {
	return func(ep *Endpoint) {
		ep.Errors = append(ep.Errors, ErrorFact{Status: status, Description: description})
	}
}

// WithErrorBody declares a failure whose response carries a payload of type T.
func WithErrorBody[T any](status int, description string) EndpointOption {
	return func(ep *Endpoint) {
		ep.Errors = append(ep.Errors, ErrorFact{Status: status, Description: description, Body: reflect.TypeFor[T]()})
	}
}

// WithParams replaces the parameter types.
func WithParams(types ...reflect.Type) EndpointOption {
	return func(ep *Endpoint) {
		ep.Params = types
	}
}

// WithResult replaces the success type.
func WithResult(t reflect.Type) EndpointOption {
	return func(ep *Endpoint) {
		ep.Result = t
	}
}

// NewEndpoint returns an endpoint built only from options.
func NewEndpoint(handler string, opts ...EndpointOption) *Endpoint {
	ep := &Endpoint{Handler: handler}
	for _, opt := range opts {
		opt(ep)
	}
	return ep
}

var errorType = reflect.TypeFor[error]()

// FromFunc describes a handler function. Parameters are the function's inputs.
// A trailing error result is the failure channel and is dropped; the last
// remaining result is the success type.
//
//	func GetPet(ctx context.Context, id operation.Path[int64]) (Pet, error)
//
// yields Params [context.Context, Path[int64]] and Result Pet.
func FromFunc(fn any, opts ...EndpointOption) (*Endpoint, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, &oaserrors.ConfigError{Option: "handler", Value: fn, Message: "handler must be a non-nil function"}
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, &oaserrors.ConfigError{Option: "handler", Value: t.String(), Message: "variadic handlers are not supported"}
	}

	ep := &Endpoint{Handler: FuncName(fn)}
	for i := range t.NumIn() {
		ep.Params = append(ep.Params, t.In(i))
	}
	results := make([]reflect.Type, 0, t.NumOut())
	for i := range t.NumOut() {
		results = append(results, t.Out(i))
	}
	if n := len(results); n > 0 && results[n-1].Implements(errorType) {
		results = results[:n-1]
	}
	if len(results) > 0 {
		ep.Result = results[len(results)-1]
	}

	for _, opt := range opts {
		opt(ep)
	}
	return ep, nil
}

// FuncName returns the runtime's qualified name of a function value, without
// the method value suffix.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	return strings.TrimSuffix(f.Name(), "-fm")
}

// NormalizeOperationID derives an operation id from a qualified handler name.
// The import path is dropped and the rest is rendered in snake case:
//
//	github.com/org/api/pets.ListPets      -> pets_list_pets
//	github.com/org/api.(*Server).GetUser  -> api_server_get_user
func NormalizeOperationID(qualified string) string {
	name := qualified
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.NewReplacer("(", "", ")", "", "*", "", "[...]", "").Replace(name)
	return schema.CaseSnake.Apply(name)
}

// statusText is http.StatusText with a fallback for unregistered codes.
func statusText(status int) string {
	if s := http.StatusText(status); s != "" {
		return s
	}
	return "Status " + strconv.Itoa(status)
}
