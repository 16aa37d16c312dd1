package operation

import (
	"context"
	"net/http"
	"net/url"
	"reflect"
)

// Adapter classifies framework-specific handler parameter types. It is the
// boundary between a web framework and the assembler: types an adapter
// recognizes never reach the schema generator.
type Adapter interface {
	// Classify returns the source of t, or false when the adapter does not
	// recognize t.
	Classify(t reflect.Type) (Source, bool)
}

// AdapterFunc adapts a function to the Adapter interface.
type AdapterFunc func(t reflect.Type) (Source, bool)

// Classify implements Adapter.
func (f AdapterFunc) Classify(t reflect.Type) (Source, bool) {
	return f(t)
}

// StdlibAdapter recognizes net/http handler state: context.Context,
// *http.Request, http.ResponseWriter, http.Header and *url.URL.
type StdlibAdapter struct{}

var (
	contextType        = reflect.TypeFor[context.Context]()
	requestType        = reflect.TypeFor[*http.Request]()
	responseWriterType = reflect.TypeFor[http.ResponseWriter]()
	headerType         = reflect.TypeFor[http.Header]()
	urlType            = reflect.TypeFor[*url.URL]()
)

// Classify implements Adapter.
func (StdlibAdapter) Classify(t reflect.Type) (Source, bool) {
	switch t {
	case contextType, requestType, responseWriterType, headerType, urlType:
		return SourceExtension, true
	}
	if t.Kind() == reflect.Interface && (t.Implements(contextType) || t.Implements(responseWriterType)) {
		return SourceExtension, true
	}
	return SourceNone, false
}

// Adapters chains adapters; the first that recognizes a type wins.
type Adapters []Adapter

// Classify implements Adapter.
func (as Adapters) Classify(t reflect.Type) (Source, bool) {
	for _, a := range as {
		if s, ok := a.Classify(t); ok {
			return s, true
		}
	}
	return SourceNone, false
}

var sourcedType = reflect.TypeFor[Sourced]()

// sourceOf returns the source declared by a wrapper type.
func sourceOf(t reflect.Type) (Source, bool) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Interface || !t.Implements(sourcedType) {
		return SourceNone, false
	}
	return reflect.Zero(t).Interface().(Sourced).OASource(), true
}
