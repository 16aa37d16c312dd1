package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type inspectInput struct {
	Spec specInput `json:"spec"           jsonschema:"The OpenAPI document to inspect"`
	Full bool      `json:"full,omitempty" jsonschema:"Also return the document text"`
}

type inspectServer struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type inspectOutput struct {
	Version        string          `json:"version"`
	Title          string          `json:"title"`
	APIVersion     string          `json:"api_version"`
	Description    string          `json:"description,omitempty"`
	PathCount      int             `json:"path_count"`
	OperationCount int             `json:"operation_count"`
	SchemaCount    int             `json:"schema_count"`
	Servers        []inspectServer `json:"servers,omitempty"`
	Tags           []string        `json:"tags,omitempty"`
	Format         string          `json:"format"`
	FullDocument   string          `json:"full_document,omitempty"`
}

func handleInspect(ctx context.Context, _ *mcp.CallToolRequest, input inspectInput) (*mcp.CallToolResult, inspectOutput, error) {
	spec, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), inspectOutput{}, nil
	}
	doc := spec.doc

	output := inspectOutput{
		Version:        doc.OpenAPI,
		Format:         string(spec.format),
		OperationCount: len(collectOperations(doc)),
	}
	if doc.Info != nil {
		output.Title = doc.Info.Title
		output.APIVersion = doc.Info.Version
		output.Description = doc.Info.Description
	}
	if doc.Paths != nil {
		output.PathCount = doc.Paths.Len()
	}
	if doc.Components != nil {
		output.SchemaCount = len(doc.Components.Schemas)
	}
	for _, s := range doc.Servers {
		if s != nil {
			output.Servers = append(output.Servers, inspectServer{URL: s.URL, Description: s.Description})
		}
	}
	for _, tag := range doc.Tags {
		if tag != nil {
			output.Tags = append(output.Tags, tag.Name)
		}
	}
	if input.Full {
		output.FullDocument = string(spec.data)
	}
	return nil, output, nil
}
