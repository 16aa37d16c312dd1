package oas

import (
	"net/http"
	"sort"
	"strconv"
)

// Version is the OpenAPI version written into generated documents.
const Version = "3.0.3"

// Parameter locations.
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
	InCookie = "cookie"
)

// MediaTypeJSON is the content type used for request and response bodies.
const MediaTypeJSON = "application/json"

// Document is the root OpenAPI object.
type Document struct {
	OpenAPI    string     `json:"openapi"`
	Info       *Info      `json:"info"`
	Servers    []*Server  `json:"servers,omitempty"`
	Tags       []*Tag     `json:"tags,omitempty"`
	Paths      Paths      `json:"paths"`
	Components Components `json:"components"`
}

// NewDocument returns an empty 3.0 document.
func NewDocument() *Document {
	return &Document{
		OpenAPI:    Version,
		Info:       &Info{},
		Paths:      make(Paths),
		Components: Components{Schemas: make(map[string]*Schema)},
	}
}

// Info describes the API.
type Info struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

// Server is a target host for the API.
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Tag groups operations.
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Components holds the named schemas. encoding sorts map keys, so output order
// depends only on the key set.
type Components struct {
	Schemas map[string]*Schema `json:"schemas,omitempty"`
}

// Paths maps a mount path to its PathItem.
type Paths map[string]*PathItem

// PathItem holds the operations available on one path. A PathItem with Ref set
// is a reference to a PathItem defined elsewhere.
type PathItem struct {
	Ref         string     `json:"$ref,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Get         *Operation `json:"get,omitempty"`
	Put         *Operation `json:"put,omitempty"`
	Post        *Operation `json:"post,omitempty"`
	Delete      *Operation `json:"delete,omitempty"`
	Options     *Operation `json:"options,omitempty"`
	Head        *Operation `json:"head,omitempty"`
	Patch       *Operation `json:"patch,omitempty"`
	Trace       *Operation `json:"trace,omitempty"`
}

// Slot returns a pointer to the operation slot for method, or nil if the method
// has no slot on a PathItem.
func (p *PathItem) Slot(method string) **Operation {
	switch method {
	case http.MethodGet:
		return &p.Get
	case http.MethodPut:
		return &p.Put
	case http.MethodPost:
		return &p.Post
	case http.MethodDelete:
		return &p.Delete
	case http.MethodOptions:
		return &p.Options
	case http.MethodHead:
		return &p.Head
	case http.MethodPatch:
		return &p.Patch
	case http.MethodTrace:
		return &p.Trace
	default:
		return nil
	}
}

// Operations returns the non-nil operations keyed by method.
func (p *PathItem) Operations() map[string]*Operation {
	ops := make(map[string]*Operation)
	for _, m := range Methods {
		if op := *p.Slot(m); op != nil {
			ops[m] = op
		}
	}
	return ops
}

// Methods lists the HTTP methods a PathItem can hold, in document order.
var Methods = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodHead,
	http.MethodPatch,
	http.MethodTrace,
}

// Operation describes a single API operation on a path.
type Operation struct {
	Tags        []string     `json:"tags,omitempty"`
	Summary     string       `json:"summary,omitempty"`
	Description string       `json:"description,omitempty"`
	OperationID string       `json:"operationId,omitempty"`
	Parameters  []*Parameter `json:"parameters,omitempty"`
	RequestBody *RequestBody `json:"requestBody,omitempty"`
	Responses   Responses    `json:"responses"`
	Deprecated  bool         `json:"deprecated,omitempty"`
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name        string     `json:"name"`
	In          string     `json:"in"`
	Description string     `json:"description,omitempty"`
	Required    bool       `json:"required,omitempty"`
	Deprecated  bool       `json:"deprecated,omitempty"`
	Schema      *SchemaRef `json:"schema,omitempty"`
}

// RequestBody describes the payload of an operation.
type RequestBody struct {
	Description string                `json:"description,omitempty"`
	Required    bool                  `json:"required,omitempty"`
	Content     map[string]*MediaType `json:"content"`
}

// MediaType pairs a content type with its schema.
type MediaType struct {
	Schema *SchemaRef `json:"schema,omitempty"`
}

// Response describes a single response.
type Response struct {
	Description string                `json:"description"`
	Content     map[string]*MediaType `json:"content,omitempty"`
}

// Responses maps a status code (as text) to its Response.
type Responses map[string]*Response

// Set stores r under status.
func (r Responses) Set(status int, resp *Response) {
	r[strconv.Itoa(status)] = resp
}

// Get returns the response for status.
func (r Responses) Get(status int) *Response {
	return r[strconv.Itoa(status)]
}

// Codes returns the status codes in ascending order.
func (r Responses) Codes() []string {
	codes := make([]string, 0, len(r))
	for c := range r {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// JSONContent returns a content map with a single application/json entry.
func JSONContent(ref *SchemaRef) map[string]*MediaType {
	return map[string]*MediaType{MediaTypeJSON: {Schema: ref}}
}
