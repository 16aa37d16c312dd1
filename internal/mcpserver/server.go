// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes written oasgen documents for inspection as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasgen"
)

const serverInstructions = `oasgen MCP server: validates, summarizes, lists and converts OpenAPI 3.0 documents, such as the ones written by an oasgen-built service with OASGEN_WRITE_SPEC=true.

Every tool takes a spec object with exactly one of file, url or content.

Configuration: defaults are configurable via OASGEN_* environment variables set in your MCP client config.

Key settings:
- OASGEN_CACHE_FILE_TTL (default: 15m): cache TTL for local files
- OASGEN_CACHE_URL_TTL (default: 5m): cache TTL for fetched documents
- OASGEN_CACHE_ENABLED (default: true): disable document caching entirely
- OASGEN_LIST_LIMIT (default: 100): default result limit for list tools
- OASGEN_LIST_DETAIL_LIMIT (default: 25): default limit in detail mode
- OASGEN_VALIDATE_EXAMPLES (default: true): validate examples against their schemas
- OASGEN_ALLOW_PRIVATE_IPS (default: false): allow fetching from private addresses

Caching: loaded documents are cached per session. File entries use path+mtime as key, so they are invalidated on change.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	return newServer(ctx).Run(ctx, &mcp.StdioTransport{})
}

func newServer(ctx context.Context) *mcp.Server {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasgen", Version: oasgen.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate an OpenAPI 3.0 document. Returns each validation error; an empty list means the document is valid. Example validation can be disabled with examples=false. Use offset/limit to paginate through errors.",
	}, handleValidate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect",
		Description: "Summarize an OpenAPI document: title, version, OpenAPI version, path/operation/schema counts, servers and tags. Use list_operations and list_schemas to explore further.",
	}, handleInspect)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_operations",
		Description: "List operations in an OpenAPI document. Filter by method, path, tag, operationId or deprecated status. Returns summaries (method, path, operationId, tags) by default or full operation objects with detail=true. Path patterns support * (one segment) and ** (zero or more segments). Use group_by (tag or method) to get distribution counts instead of individual items.",
	}, handleListOperations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_schemas",
		Description: "List component schemas in an OpenAPI document. Filter by name (supports * glob) or type. Returns summaries (name, type, property count, required fields) by default or full schema objects with detail=true. Use group_by=type to get distribution counts.",
	}, handleListSchemas)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert",
		Description: "Convert an OpenAPI document between JSON and YAML, keeping key order. Use output to write to a file instead of returning inline.",
	}, handleConvert)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ListLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// detailLimit returns a lower default limit for detail mode output.
func detailLimit(limit int) int {
	if limit <= 0 {
		return cfg.ListDetailLimit
	}
	return limit
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// groupCount represents a single group in group_by results.
type groupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// groupAndSort groups items by key, sorts by count descending (ties
// broken alphabetically by key), and returns the sorted groups.
func groupAndSort[T any](items []T, keyFn func(T) []string) []groupCount {
	counts := make(map[string]int)
	for _, item := range items {
		for _, key := range keyFn(item) {
			counts[key]++
		}
	}
	groups := make([]groupCount, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, groupCount{Key: key, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// validateGroupBy checks that group_by is a valid value and is not combined with detail.
func validateGroupBy(groupBy string, detail bool, allowed []string) error {
	if groupBy == "" {
		return nil
	}
	if detail {
		return fmt.Errorf("cannot use both group_by and detail")
	}
	for _, a := range allowed {
		if strings.EqualFold(groupBy, a) {
			return nil
		}
	}
	return fmt.Errorf("invalid group_by value %q; valid values: %s", groupBy, strings.Join(allowed, ", "))
}

// validateGlobPattern checks whether a glob pattern is syntactically valid.
// Call this once before a filter loop so matchGlobName never encounters an
// invalid pattern at match time.
func validateGlobPattern(pattern string) error {
	if pattern == "" || !strings.ContainsAny(pattern, "*?[") {
		return nil
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return nil
}

// matchGlobName matches a name against a glob pattern, ignoring case.
func matchGlobName(name, pattern string) bool {
	if strings.ContainsAny(pattern, "*?") {
		matched, err := filepath.Match(strings.ToLower(pattern), strings.ToLower(name))
		return err == nil && matched
	}
	return strings.EqualFold(name, pattern)
}

// matchPath matches a path template against a pattern where * matches one
// segment and ** matches zero or more.
func matchPath(path, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return path == pattern
	}
	return matchSegments(splitPath(path), splitPath(pattern))
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(path, pattern []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}
	if pattern[0] == "**" {
		for i := 0; i <= len(path); i++ {
			if matchSegments(path[i:], pattern[1:]) {
				return true
			}
		}
		return false
	}
	if len(path) == 0 {
		return false
	}
	if pattern[0] != "*" && pattern[0] != path[0] {
		return false
	}
	return matchSegments(path[1:], pattern[1:])
}
