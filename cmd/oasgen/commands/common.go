// Package commands provides CLI command handlers for oasgen.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasgen"
	"github.com/erraggy/oasgen/internal/cliutil"
	"github.com/erraggy/oasgen/oas"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ErrValidationFailed is returned by commands whose input was read but found
// invalid. The caller exits non-zero without printing it again.
var ErrValidationFailed = errors.New("validation failed")

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data to stdout in the specified format (json or yaml).
func OutputStructured(data any, format string) error {
	var out []byte
	var err error

	switch format {
	case FormatJSON:
		out, err = json.MarshalIndent(data, "", "  ")
		out = append(out, '\n')
	case FormatYAML:
		out, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	_, err = stdout.Write(out)
	return err
}

// ValidateOutputPath checks that writing outputPath neither overwrites one of
// the inputs nor follows a symlink.
func ValidateOutputPath(outputPath string, inputPaths []string) error {
	if outputPath == "" || outputPath == StdinFilePath {
		return nil
	}
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	for _, inputPath := range inputPaths {
		if inputPath == StdinFilePath {
			continue
		}
		absInputPath, err := filepath.Abs(inputPath)
		if err != nil {
			return fmt.Errorf("invalid input path %s: %w", inputPath, err)
		}
		if absOutputPath == absInputPath {
			return fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
		}
	}

	return RejectSymlinkOutput(filepath.Clean(outputPath))
}

// RejectSymlinkOutput checks if the output path is a symlink and returns an error if so.
// This prevents symlink attacks where a symlink could redirect output to an unintended location.
func RejectSymlinkOutput(cleanedPath string) error {
	info, err := os.Lstat(cleanedPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("commands: checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("commands: refusing to write to symlink: %s", cleanedPath)
	}
	return nil
}

// FormatSpecPath returns a display-friendly path for the document.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// readSource reads a document from a file or, for "-", from stdin. The format
// is taken from the file extension, or sniffed for stdin.
func readSource(specPath string) ([]byte, oas.Format, error) {
	if specPath == StdinFilePath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		if len(data) > 0 && data[0] == '{' {
			return data, oas.FormatJSON, nil
		}
		return data, oas.FormatYAML, nil
	}
	data, err := os.ReadFile(specPath) //nolint:gosec // G304: reading user supplied paths is the point of the CLI
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", specPath, err)
	}
	return data, oas.FormatFromPath(specPath), nil
}

// loadDocument reads and loads an OpenAPI 3.0 document with kin-openapi.
func loadDocument(ctx context.Context, specPath string) (*openapi3.T, []byte, error) {
	data, _, err := readSource(specPath)
	if err != nil {
		return nil, nil, err
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", FormatSpecPath(specPath), err)
	}
	return doc, data, nil
}

// OutputSpecHeader outputs the common document header to stderr.
func OutputSpecHeader(specPath, version string) {
	cliutil.Writef(stderr, "oasgen version: %s\n", oasgen.Version())
	cliutil.Writef(stderr, "Specification: %s\n", FormatSpecPath(specPath))
	cliutil.Writef(stderr, "OAS Version: %s\n", version)
}
