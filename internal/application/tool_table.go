package application

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"tmdb-mcp-server/internal/domain"
)

// toolFunc runs one tool with validated arguments and returns its rendered text.
type toolFunc func(ctx context.Context, args map[string]interface{}) (string, error)

// toolSpec pairs a catalog entry with the function that serves it.
type toolSpec struct {
	definition domain.ToolDefinition
	run        toolFunc
}

func tool(name, description string, schema *jsonschema.Schema, run toolFunc) toolSpec {
	return toolSpec{
		definition: domain.ToolDefinition{
			Name:        name,
			Description: description,
			InputSchema: schema,
		},
		run: run,
	}
}

type compiledTool struct {
	spec   toolSpec
	schema *jsonschema.Resolved
}

// toolTable is the catalog of one handler. Definitions and dispatch entries
// come from the same slice, so a tool cannot be listed without being served.
type toolTable struct {
	order []string
	tools map[string]compiledTool
}

// newToolTable resolves every schema up front. A malformed schema or a
// repeated name is a programming error and panics.
func newToolTable(specs ...toolSpec) *toolTable {
	table := &toolTable{
		order: make([]string, 0, len(specs)),
		tools: make(map[string]compiledTool, len(specs)),
	}

	for _, spec := range specs {
		name := spec.definition.Name
		if _, dup := table.tools[name]; dup {
			panic(fmt.Sprintf("application: duplicate tool %q", name))
		}

		resolved, err := spec.definition.InputSchema.Resolve(nil)
		if err != nil {
			panic(fmt.Sprintf("application: invalid schema for %q: %v", name, err))
		}

		table.order = append(table.order, name)
		table.tools[name] = compiledTool{spec: spec, schema: resolved}
	}

	return table
}

func (t *toolTable) definitions() []domain.ToolDefinition {
	defs := make([]domain.ToolDefinition, 0, len(t.order))
	for _, name := range t.order {
		defs = append(defs, t.tools[name].spec.definition)
	}
	return defs
}

// handle validates req against the tool's schema and runs it.
func (t *toolTable) handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	entry, ok := t.tools[req.Name]
	if !ok {
		return nil, &domain.ToolNotFoundError{Name: req.Name}
	}

	args := presentArgs(req.Arguments)
	if err := entry.schema.Validate(args); err != nil {
		return nil, &domain.InvalidArgumentError{Tool: req.Name, Err: err}
	}

	text, err := entry.spec.run(ctx, args)
	if err != nil {
		return nil, err
	}
	return domain.NewTextResponse(text), nil
}

// presentArgs drops null-valued arguments, which count as absent.
func presentArgs(args map[string]interface{}) map[string]interface{} {
	present := make(map[string]interface{}, len(args))
	for key, value := range args {
		if value != nil {
			present[key] = value
		}
	}
	return present
}

// pageTitle appends the standard pagination suffix.
func pageTitle[T any](title string, page *domain.Page[T]) string {
	return fmt.Sprintf("%s (Page %d of %d)", title, page.Page, page.TotalPages)
}

// firstN returns at most n leading items.
func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
