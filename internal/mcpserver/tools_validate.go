package mcpserver

import (
	"context"
	"errors"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type validateInput struct {
	Spec     specInput `json:"spec"               jsonschema:"The OpenAPI document to validate"`
	Examples *bool     `json:"examples,omitempty" jsonschema:"Validate examples against their schemas (default true)"`
	Offset   int       `json:"offset,omitempty"   jsonschema:"Skip the first N errors (for pagination)"`
	Limit    int       `json:"limit,omitempty"    jsonschema:"Maximum number of errors to return (default 100)"`
}

type validateIssue struct {
	Message string `json:"message"`
}

type validateOutput struct {
	Valid      bool            `json:"valid"`
	Version    string          `json:"version"`
	ErrorCount int             `json:"error_count"`
	Returned   int             `json:"returned"`
	Errors     []validateIssue `json:"errors,omitempty"`
}

func handleValidate(ctx context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	examples := cfg.ValidateExamples
	if input.Examples != nil {
		examples = *input.Examples
	}

	spec, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	var opts []openapi3.ValidationOption
	if !examples {
		opts = append(opts, openapi3.DisableExamplesValidation())
	}

	output := validateOutput{Version: spec.doc.OpenAPI}
	issues := splitValidationError(spec.doc.Validate(ctx, opts...))
	output.Valid = len(issues) == 0
	output.ErrorCount = len(issues)
	output.Errors = paginate(issues, input.Offset, input.Limit)
	output.Returned = len(output.Errors)
	return nil, output, nil
}

// splitValidationError flattens a validation error into one issue per cause.
func splitValidationError(err error) []validateIssue {
	if err == nil {
		return nil
	}
	var multi openapi3.MultiError
	if !errors.As(err, &multi) {
		return []validateIssue{{Message: sanitizeError(err)}}
	}
	issues := makeSlice[validateIssue](len(multi))
	for _, e := range multi {
		issues = append(issues, splitValidationError(e)...)
	}
	return issues
}
