package mcpserver

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasgen/oas"
)

type listOperationsInput struct {
	Spec        specInput `json:"spec"                   jsonschema:"The OpenAPI document to list"`
	Method      string    `json:"method,omitempty"       jsonschema:"Filter by HTTP method (get\\, post\\, put\\, delete\\, patch\\, etc.)"`
	Path        string    `json:"path,omitempty"         jsonschema:"Filter by path pattern (* matches one segment\\, ** any number)"`
	Tag         string    `json:"tag,omitempty"          jsonschema:"Filter by tag name"`
	Deprecated  bool      `json:"deprecated,omitempty"   jsonschema:"Only show deprecated operations"`
	OperationID string    `json:"operation_id,omitempty" jsonschema:"Select by operationId"`
	Extension   string    `json:"extension,omitempty"    jsonschema:"Filter by extension key=value (e.g. x-internal=true)"`
	Detail      bool      `json:"detail,omitempty"       jsonschema:"Return full operation objects instead of summaries"`
	GroupBy     string    `json:"group_by,omitempty"     jsonschema:"Group results and return counts instead of individual items. Values: tag\\, method"`
	Limit       int       `json:"limit,omitempty"        jsonschema:"Maximum number of results to return (default 100)"`
	Offset      int       `json:"offset,omitempty"       jsonschema:"Skip the first N results (for pagination)"`
}

// operationInfo is one operation and the location it is mounted at.
type operationInfo struct {
	Method    string
	Path      string
	Operation *openapi3.Operation
}

type operationSummary struct {
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	OperationID string   `json:"operation_id,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty"`
}

type operationDetail struct {
	Method    string              `json:"method"`
	Path      string              `json:"path"`
	Operation *openapi3.Operation `json:"operation"`
}

type listOperationsOutput struct {
	Total      int                `json:"total"`
	Matched    int                `json:"matched"`
	Returned   int                `json:"returned"`
	Summaries  []operationSummary `json:"summaries,omitempty"`
	Operations []operationDetail  `json:"operations,omitempty"`
	Groups     []groupCount       `json:"groups,omitempty"`
}

func handleListOperations(ctx context.Context, _ *mcp.CallToolRequest, input listOperationsInput) (*mcp.CallToolResult, any, error) {
	if err := validateGroupBy(input.GroupBy, input.Detail, []string{"tag", "method"}); err != nil {
		return errResult(err), nil, nil
	}

	spec, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), nil, nil
	}

	all := collectOperations(spec.doc)
	matched, err := filterOperations(all, input)
	if err != nil {
		return errResult(err), nil, nil
	}

	if input.GroupBy != "" {
		groups := groupAndSort(matched, func(op operationInfo) []string {
			if strings.EqualFold(input.GroupBy, "method") {
				return []string{op.Method}
			}
			if len(op.Operation.Tags) == 0 {
				return []string{""}
			}
			return op.Operation.Tags
		})
		paged := paginate(groups, input.Offset, input.Limit)
		return nil, listOperationsOutput{
			Total:    len(all),
			Matched:  len(matched),
			Returned: len(paged),
			Groups:   paged,
		}, nil
	}

	limit := input.Limit
	if input.Detail {
		limit = detailLimit(limit)
	}
	returned := paginate(matched, input.Offset, limit)

	output := listOperationsOutput{
		Total:    len(all),
		Matched:  len(matched),
		Returned: len(returned),
	}
	if input.Detail {
		output.Operations = makeSlice[operationDetail](len(returned))
		for _, op := range returned {
			output.Operations = append(output.Operations, operationDetail{
				Method:    op.Method,
				Path:      op.Path,
				Operation: op.Operation,
			})
		}
		return nil, output, nil
	}
	output.Summaries = makeSlice[operationSummary](len(returned))
	for _, op := range returned {
		output.Summaries = append(output.Summaries, operationSummary{
			Method:      op.Method,
			Path:        op.Path,
			OperationID: op.Operation.OperationID,
			Summary:     op.Operation.Summary,
			Tags:        op.Operation.Tags,
			Deprecated:  op.Operation.Deprecated,
		})
	}
	return nil, output, nil
}

// collectOperations returns every operation ordered by path, then by method
// in document order.
func collectOperations(doc *openapi3.T) []operationInfo {
	if doc.Paths == nil {
		return nil
	}
	var ops []operationInfo
	paths := make([]string, 0, doc.Paths.Len())
	for path := range doc.Paths.Map() {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	for _, path := range paths {
		item := doc.Paths.Value(path)
		if item == nil {
			continue
		}
		byMethod := item.Operations()
		for _, method := range oas.Methods {
			if op := byMethod[method]; op != nil {
				ops = append(ops, operationInfo{Method: method, Path: path, Operation: op})
			}
		}
	}
	return ops
}

// filterOperations applies all operation filters and returns the matching subset.
func filterOperations(ops []operationInfo, input listOperationsInput) ([]operationInfo, error) {
	var extKey, extValue string
	if input.Extension != "" {
		key, val, err := parseExtensionKeyValue(input.Extension)
		if err != nil {
			return nil, err
		}
		extKey, extValue = key, val
	}

	var matched []operationInfo
	for _, op := range ops {
		if input.Method != "" && !strings.EqualFold(op.Method, input.Method) {
			continue
		}
		if input.Path != "" && !matchPath(op.Path, input.Path) {
			continue
		}
		if input.Tag != "" && !slices.Contains(op.Operation.Tags, input.Tag) {
			continue
		}
		if input.Deprecated && !op.Operation.Deprecated {
			continue
		}
		if input.OperationID != "" && op.Operation.OperationID != input.OperationID {
			continue
		}
		if extKey != "" && !matchExtension(op.Operation.Extensions, extKey, extValue) {
			continue
		}
		matched = append(matched, op)
	}
	return matched, nil
}

// parseExtensionKeyValue parses a simple "key=value" extension filter.
// If no "=" is present, value is empty (existence check).
func parseExtensionKeyValue(filter string) (string, string, error) {
	key, value, _ := strings.Cut(filter, "=")
	if !strings.HasPrefix(key, "x-") {
		return "", "", fmt.Errorf("invalid extension key %q: must start with \"x-\"", key)
	}
	return key, value, nil
}

// matchExtension checks if a node's extensions match a key=value filter.
// If value is empty, it checks for existence only.
func matchExtension(extensions map[string]any, key, value string) bool {
	val, exists := extensions[key]
	if !exists {
		return false
	}
	if value == "" {
		return true
	}
	return fmt.Sprintf("%v", val) == value
}
