package operation

import (
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/erraggy/oasgen/oas"
	"github.com/erraggy/oasgen/oaserrors"
	"github.com/erraggy/oasgen/schema"
)

// AmbiguousBodyPolicy decides what happens when a parameter other than the
// last one could carry the request body.
type AmbiguousBodyPolicy int

const (
	// BodyLastWins uses the last parameter's body and ignores the others.
	BodyLastWins AmbiguousBodyPolicy = iota
	// BodyWarn behaves like BodyLastWins and logs a warning.
	BodyWarn
	// BodyError fails with *oaserrors.AmbiguousBodyError.
	BodyError
)

// String returns the policy name.
func (p AmbiguousBodyPolicy) String() string {
	switch p {
	case BodyLastWins:
		return "last-wins"
	case BodyWarn:
		return "warn"
	case BodyError:
		return "error"
	default:
		return "unknown"
	}
}

// Assembler turns endpoints into OpenAPI operations.
type Assembler struct {
	gen        *schema.Generator
	adapter    Adapter
	bodyPolicy AmbiguousBodyPolicy
	strictPath bool
	logger     oas.Logger
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithAdapter sets the framework adapter. Default: StdlibAdapter.
func WithAdapter(a Adapter) AssemblerOption {
	return func(as *Assembler) {
		if a != nil {
			as.adapter = a
		}
	}
}

// WithBodyPolicy sets the ambiguous body policy. Default: BodyLastWins.
func WithBodyPolicy(p AmbiguousBodyPolicy) AssemblerOption {
	return func(as *Assembler) {
		as.bodyPolicy = p
	}
}

// WithStrictPathParams makes a mismatch between path placeholders and path
// parameters an error instead of renaming as many as line up.
func WithStrictPathParams(strict bool) AssemblerOption {
	return func(as *Assembler) {
		as.strictPath = strict
	}
}

// WithLogger sets the logger. Default: oas.NopLogger.
func WithLogger(l oas.Logger) AssemblerOption {
	return func(as *Assembler) {
		if l != nil {
			as.logger = l
		}
	}
}

// NewAssembler returns an Assembler that derives schemas with g.
func NewAssembler(g *schema.Generator, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		gen:     g,
		adapter: StdlibAdapter{},
		logger:  oas.NopLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Generator returns the schema generator.
func (a *Assembler) Generator() *schema.Generator {
	return a.gen
}

// Assemble builds the operation of ep mounted at path.
//
// Parameters keep declaration order. Only the last parameter may contribute the
// request body. The success response uses ep.SuccessStatus (200 when unset) and
// the body schema of ep.Result. Error facts sharing a status merge into one
// response whose description lists each distinct description as a bullet.
// Path parameters are renamed positionally after the placeholders of path.
func (a *Assembler) Assemble(path string, ep *Endpoint) (*oas.Operation, error) {
	op := &oas.Operation{
		OperationID: ep.OperationID,
		Summary:     ep.Summary,
		Description: ep.Description,
		Tags:        slices.Clone(ep.Tags),
		Deprecated:  ep.Deprecated,
		Responses:   make(oas.Responses),
	}
	if op.OperationID == "" {
		op.OperationID = NormalizeOperationID(ep.Handler)
	}

	if err := a.addParameters(op, ep.Params); err != nil {
		return nil, err
	}
	if err := a.addRequestBody(op, ep.Params); err != nil {
		return nil, err
	}
	if err := a.addResponses(op, ep); err != nil {
		return nil, err
	}
	if err := a.reconcilePath(op, path); err != nil {
		return nil, err
	}

	a.logger.Debug("assembled operation",
		"operationId", op.OperationID, "path", path,
		"parameters", len(op.Parameters), "responses", len(op.Responses))
	return op, nil
}

func (a *Assembler) source(t reflect.Type) Source {
	if s, ok := a.adapter.Classify(t); ok {
		return s
	}
	if s, ok := sourceOf(t); ok {
		return s
	}
	return SourceNone
}

func (a *Assembler) addParameters(op *oas.Operation, params []reflect.Type) error {
	for _, t := range params {
		if a.source(t) == SourceExtension {
			continue
		}
		ps, err := a.gen.Parameters(t)
		if err != nil {
			return fmt.Errorf("parameters of %s: %w", t, err)
		}
		op.Parameters = append(op.Parameters, ps...)
	}
	return nil
}

func (a *Assembler) addRequestBody(op *oas.Operation, params []reflect.Type) error {
	if len(params) == 0 {
		return nil
	}
	last := params[len(params)-1]

	if a.bodyPolicy != BodyLastWins {
		var candidates []string
		for _, t := range params[:len(params)-1] {
			if a.mayCarryBody(t) {
				candidates = append(candidates, t.String())
			}
		}
		if len(candidates) > 0 {
			if a.bodyPolicy == BodyError {
				if a.mayCarryBody(last) {
					candidates = append(candidates, last.String())
				}
				return &oaserrors.AmbiguousBodyError{OperationID: op.OperationID, Candidates: candidates}
			}
			a.logger.Warn("ignoring body of non-final parameters",
				"operationId", op.OperationID, "candidates", candidates)
		}
	}

	if a.source(last) == SourceExtension {
		return nil
	}
	body, err := a.gen.BodySchema(last)
	if err != nil {
		return fmt.Errorf("request body of %s: %w", last, err)
	}
	if body == nil {
		return nil
	}
	op.RequestBody = &oas.RequestBody{
		Required: !isOptionalBody(last),
		Content:  oas.JSONContent(body),
	}
	return nil
}

// mayCarryBody reports whether t could supply a request body, without
// generating any schema.
func (a *Assembler) mayCarryBody(t reflect.Type) bool {
	switch a.source(t) {
	case SourceBody:
		return true
	case SourceNone:
	default:
		return false
	}
	if implements(t, reflect.TypeFor[schema.BodyProvider]()) {
		return true
	}
	if implements(t, reflect.TypeFor[schema.ParameterProvider]()) {
		return false
	}
	switch t.Kind() {
	case reflect.Interface:
		return false
	case reflect.Struct:
		return t.NumField() > 0 || t.Name() != ""
	}
	return true
}

func implements(t, iface reflect.Type) bool {
	return t.Implements(iface) || (t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(iface))
}

// isOptionalBody reports whether a body parameter wraps a pointer payload.
func isOptionalBody(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		return true
	}
	if s, ok := sourceOf(t); ok && s == SourceBody && t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName("Value"); ok {
			return f.Type.Kind() == reflect.Pointer
		}
	}
	return false
}

func (a *Assembler) addResponses(op *oas.Operation, ep *Endpoint) error {
	status := ep.SuccessStatus
	if status == 0 {
		status = http.StatusOK
	}
	success := &oas.Response{Description: statusText(status)}
	if ep.Result != nil {
		body, err := a.gen.BodySchema(ep.Result)
		if err != nil {
			return fmt.Errorf("response of %s: %w", ep.Result, err)
		}
		if body != nil {
			success.Content = oas.JSONContent(body)
		}
	}
	op.Responses.Set(status, success)

	for _, group := range groupErrors(ep.Errors) {
		if group.status == status {
			a.logger.Warn("error status collides with success status, keeping success response",
				"operationId", op.OperationID, "status", status)
			continue
		}
		resp := &oas.Response{Description: group.description()}
		if group.body != nil {
			body, err := a.gen.BodySchema(group.body)
			if err != nil {
				return fmt.Errorf("error response %d of %s: %w", group.status, group.body, err)
			}
			if body != nil {
				resp.Content = oas.JSONContent(body)
			}
		}
		op.Responses.Set(group.status, resp)
	}
	return nil
}

type errorGroup struct {
	status       int
	descriptions []string
	body         reflect.Type
}

func (g errorGroup) description() string {
	switch len(g.descriptions) {
	case 0:
		return statusText(g.status)
	case 1:
		return g.descriptions[0]
	}
	var sb strings.Builder
	for i, d := range g.descriptions {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- ")
		sb.WriteString(d)
	}
	return sb.String()
}

// groupErrors merges facts by status in order of first appearance, keeping
// distinct descriptions and the first declared body type.
func groupErrors(facts []ErrorFact) []*errorGroup {
	var groups []*errorGroup
	byStatus := make(map[int]*errorGroup)
	for _, f := range facts {
		g, ok := byStatus[f.Status]
		if !ok {
			g = &errorGroup{status: f.Status}
			byStatus[f.Status] = g
			groups = append(groups, g)
		}
		if f.Description != "" && !slices.Contains(g.descriptions, f.Description) {
			g.descriptions = append(g.descriptions, f.Description)
		}
		if g.body == nil {
			g.body = f.Body
		}
	}
	return groups
}

var placeholderPattern = regexp.MustCompile(`\{([^{}/]+)\}`)

// PathTokens returns the placeholder names of a mount path in order. Wildcard
// placeholders such as {rest...} yield their bare name; the {$} anchor is not
// a placeholder.
func PathTokens(path string) []string {
	var tokens []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(path, -1) {
		name := strings.TrimSuffix(m[1], "...")
		name = strings.TrimPrefix(name, "*")
		if name == "$" || name == "" {
			continue
		}
		tokens = append(tokens, name)
	}
	return tokens
}

// DocumentPath rewrites a mount pattern into an OpenAPI path template:
// wildcard placeholders lose their suffix and the {$} anchor is dropped.
func DocumentPath(path string) string {
	out := placeholderPattern.ReplaceAllStringFunc(path, func(m string) string {
		name := strings.TrimSuffix(m[1:len(m)-1], "...")
		name = strings.TrimPrefix(name, "*")
		if name == "$" {
			return ""
		}
		return "{" + name + "}"
	})
	if out == "" {
		return "/"
	}
	return out
}

func (a *Assembler) reconcilePath(op *oas.Operation, path string) error {
	tokens := PathTokens(path)
	var pathParams []*oas.Parameter
	for _, p := range op.Parameters {
		if p.In == oas.InPath {
			pathParams = append(pathParams, p)
		}
	}
	if len(tokens) != len(pathParams) {
		if a.strictPath {
			return &oaserrors.ConfigError{
				Option:  "path",
				Value:   path,
				Message: fmt.Sprintf("%d placeholders but %d path parameters in %s", len(tokens), len(pathParams), op.OperationID),
			}
		}
		if len(pathParams) > 0 || len(tokens) > 0 {
			a.logger.Debug("path placeholders and parameters differ",
				"operationId", op.OperationID, "path", path,
				"placeholders", len(tokens), "parameters", len(pathParams))
		}
	}
	for i := range min(len(tokens), len(pathParams)) {
		pathParams[i].Name = tokens[i]
	}
	return nil
}
