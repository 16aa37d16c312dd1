package mcpserver

import (
	"context"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type listSchemasInput struct {
	Spec    specInput `json:"spec"               jsonschema:"The OpenAPI document to list"`
	Name    string    `json:"name,omitempty"     jsonschema:"Filter by schema name (exact match\\, or glob with * and ?\\, e.g. *Pet*)"`
	Type    string    `json:"type,omitempty"     jsonschema:"Filter by schema type (object\\, array\\, string\\, integer\\, etc.)"`
	Detail  bool      `json:"detail,omitempty"   jsonschema:"Return full schema objects"`
	GroupBy string    `json:"group_by,omitempty" jsonschema:"Group results and return counts instead of individual items. Values: type"`
	Limit   int       `json:"limit,omitempty"    jsonschema:"Maximum results (default 100)"`
	Offset  int       `json:"offset,omitempty"   jsonschema:"Skip the first N results (for pagination)"`
}

// namedSchema is a component schema with its name.
type namedSchema struct {
	Name   string
	Schema *openapi3.Schema
}

type schemaSummary struct {
	Name          string   `json:"name"`
	Type          string   `json:"type,omitempty"`
	Format        string   `json:"format,omitempty"`
	PropertyCount int      `json:"property_count"`
	Required      []string `json:"required,omitempty"`
	EnumCount     int      `json:"enum_count,omitempty"`
	VariantCount  int      `json:"variant_count,omitempty"`
}

type schemaDetail struct {
	Name   string           `json:"name"`
	Schema *openapi3.Schema `json:"schema"`
}

type listSchemasOutput struct {
	Total     int             `json:"total"`
	Matched   int             `json:"matched"`
	Returned  int             `json:"returned"`
	Summaries []schemaSummary `json:"summaries,omitempty"`
	Schemas   []schemaDetail  `json:"schemas,omitempty"`
	Groups    []groupCount    `json:"groups,omitempty"`
}

func handleListSchemas(ctx context.Context, _ *mcp.CallToolRequest, input listSchemasInput) (*mcp.CallToolResult, any, error) {
	if err := validateGroupBy(input.GroupBy, input.Detail, []string{"type"}); err != nil {
		return errResult(err), nil, nil
	}
	if err := validateGlobPattern(input.Name); err != nil {
		return errResult(err), nil, nil
	}

	spec, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), nil, nil
	}

	all := collectSchemas(spec.doc)
	var matched []namedSchema
	for _, s := range all {
		if input.Name != "" && !matchGlobName(s.Name, input.Name) {
			continue
		}
		if input.Type != "" && !strings.EqualFold(schemaTypeString(s.Schema), input.Type) {
			continue
		}
		matched = append(matched, s)
	}

	if input.GroupBy != "" {
		groups := groupAndSort(matched, func(s namedSchema) []string {
			return []string{schemaTypeString(s.Schema)}
		})
		paged := paginate(groups, input.Offset, input.Limit)
		return nil, listSchemasOutput{
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

	output := listSchemasOutput{
		Total:    len(all),
		Matched:  len(matched),
		Returned: len(returned),
	}
	if input.Detail {
		output.Schemas = makeSlice[schemaDetail](len(returned))
		for _, s := range returned {
			output.Schemas = append(output.Schemas, schemaDetail{Name: s.Name, Schema: s.Schema})
		}
		return nil, output, nil
	}
	output.Summaries = makeSlice[schemaSummary](len(returned))
	for _, s := range returned {
		output.Summaries = append(output.Summaries, schemaSummary{
			Name:          s.Name,
			Type:          schemaTypeString(s.Schema),
			Format:        s.Schema.Format,
			PropertyCount: len(s.Schema.Properties),
			Required:      s.Schema.Required,
			EnumCount:     len(s.Schema.Enum),
			VariantCount:  len(s.Schema.OneOf) + len(s.Schema.AnyOf),
		})
	}
	return nil, output, nil
}

// collectSchemas returns the component schemas sorted by name. A component
// that is itself a reference reports its target.
func collectSchemas(doc *openapi3.T) []namedSchema {
	if doc.Components == nil {
		return nil
	}
	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	slices.Sort(names)

	schemas := make([]namedSchema, 0, len(names))
	for _, name := range names {
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		schemas = append(schemas, namedSchema{Name: name, Schema: ref.Value})
	}
	return schemas
}

// schemaTypeString returns the schema's type, or "" when it has none.
func schemaTypeString(s *openapi3.Schema) string {
	if s.Type == nil {
		return ""
	}
	return strings.Join(*s.Type, ",")
}
