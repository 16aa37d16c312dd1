package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/erraggy/oasgen/internal/cliutil"
	"github.com/erraggy/oasgen/oas"
)

// InspectFlags contains flags for the inspect command
type InspectFlags struct {
	Format string
}

// InspectResult is the structured output of the inspect command.
type InspectResult struct {
	Specification string             `json:"specification" yaml:"specification"`
	Version       string             `json:"version"       yaml:"version"`
	Title         string             `json:"title"         yaml:"title"`
	APIVersion    string             `json:"api_version"   yaml:"api_version"`
	Servers       []string           `json:"servers,omitempty" yaml:"servers,omitempty"`
	PathCount     int                `json:"path_count"    yaml:"path_count"`
	SchemaCount   int                `json:"schema_count"  yaml:"schema_count"`
	Operations    []InspectOperation `json:"operations"    yaml:"operations"`
}

// InspectOperation is one row of the operation listing.
type InspectOperation struct {
	Method      string `json:"method"                 yaml:"method"`
	Path        string `json:"path"                   yaml:"path"`
	OperationID string `json:"operation_id,omitempty" yaml:"operation_id,omitempty"`
	Summary     string `json:"summary,omitempty"      yaml:"summary,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"   yaml:"deprecated,omitempty"`
}

// SetupInspectFlags creates and configures a FlagSet for the inspect command.
// Returns the FlagSet and an InspectFlags struct with bound flag variables.
func SetupInspectFlags() (*flag.FlagSet, *InspectFlags) {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	flags := &InspectFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oasgen inspect [flags] <file|->\n\n")
		cliutil.Writef(fs.Output(), "Summarize an OpenAPI document and list its operations.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  oasgen inspect openapi.yaml\n")
		cliutil.Writef(fs.Output(), "  oasgen inspect --format json openapi.json | jq '.operations[].operation_id'\n")
	}

	return fs, flags
}

// HandleInspect executes the inspect command
func HandleInspect(ctx context.Context, args []string) error {
	fs, flags := SetupInspectFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("inspect command requires exactly one file path or '-' for stdin")
	}
	specPath := fs.Arg(0)

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	doc, _, err := loadDocument(ctx, specPath)
	if err != nil {
		return err
	}
	result := inspectDocument(specPath, doc)

	if flags.Format != FormatText {
		return OutputStructured(result, flags.Format)
	}

	OutputSpecHeader(specPath, result.Version)
	cliutil.Writef(stdout, "Title: %s\n", result.Title)
	cliutil.Writef(stdout, "Version: %s\n", result.APIVersion)
	for _, s := range result.Servers {
		cliutil.Writef(stdout, "Server: %s\n", s)
	}
	cliutil.Writef(stdout, "Paths: %d\n", result.PathCount)
	cliutil.Writef(stdout, "Operations: %d\n", len(result.Operations))
	cliutil.Writef(stdout, "Schemas: %d\n\n", result.SchemaCount)

	for _, op := range result.Operations {
		line := fmt.Sprintf("  %-7s %s", op.Method, op.Path)
		if op.OperationID != "" {
			line += "  " + op.OperationID
		}
		if op.Deprecated {
			line += "  (deprecated)"
		}
		cliutil.Writef(stdout, "%s\n", line)
	}
	return nil
}

func inspectDocument(specPath string, doc *openapi3.T) InspectResult {
	result := InspectResult{
		Specification: FormatSpecPath(specPath),
		Version:       doc.OpenAPI,
		Operations:    []InspectOperation{},
	}
	if doc.Info != nil {
		result.Title = doc.Info.Title
		result.APIVersion = doc.Info.Version
	}
	for _, s := range doc.Servers {
		result.Servers = append(result.Servers, s.URL)
	}
	if doc.Components != nil {
		result.SchemaCount = len(doc.Components.Schemas)
	}
	if doc.Paths == nil {
		return result
	}

	result.PathCount = doc.Paths.Len()
	paths := make([]string, 0, result.PathCount)
	for p := range doc.Paths.Map() {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	for _, p := range paths {
		item := doc.Paths.Value(p)
		if item == nil {
			continue
		}
		ops := item.Operations()
		for _, method := range oas.Methods {
			op := ops[method]
			if op == nil {
				continue
			}
			result.Operations = append(result.Operations, InspectOperation{
				Method:      method,
				Path:        p,
				OperationID: op.OperationID,
				Summary:     op.Summary,
				Deprecated:  op.Deprecated,
			})
		}
	}
	return result
}
