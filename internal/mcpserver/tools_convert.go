package mcpserver

import (
	"context"
	"fmt"
	"io"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasgen/internal/cliutil"
	"github.com/erraggy/oasgen/oas"
)

type convertInput struct {
	Spec   specInput `json:"spec"             jsonschema:"The OpenAPI document to convert"`
	Format string    `json:"format"           jsonschema:"Target format (json or yaml)"`
	Output string    `json:"output,omitempty" jsonschema:"File path to write the converted document. If omitted the document is returned inline."`
}

type convertOutput struct {
	SourceFormat string `json:"source_format"`
	TargetFormat string `json:"target_format"`
	WrittenTo    string `json:"written_to,omitempty"`
	Document     string `json:"document,omitempty"`
}

func handleConvert(ctx context.Context, _ *mcp.CallToolRequest, input convertInput) (*mcp.CallToolResult, convertOutput, error) {
	if input.Format == "" {
		return errResult(fmt.Errorf("target format is required")), convertOutput{}, nil
	}
	target, err := cliutil.ParseFormat(input.Format)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	spec, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	data, err := oas.ConvertFormat(spec.data, target)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	output := convertOutput{
		SourceFormat: string(spec.format),
		TargetFormat: string(target),
	}
	if input.Output != "" {
		if err := cliutil.WriteOutput(io.Discard, input.Output, data); err != nil {
			return errResult(err), convertOutput{}, nil
		}
		output.WrittenTo = input.Output
	} else {
		output.Document = string(data)
	}
	return nil, output, nil
}
