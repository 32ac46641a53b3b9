package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/refscope/refscope-mcp/internal/tools"
	"github.com/refscope/refscope-mcp/internal/xref"
)

type DependenciesRequest struct {
	TypeName string `json:"typeName"`
}

type TypeDependenciesTool struct {
	analyzer *xref.Analyzer
}

func (t *TypeDependenciesTool) Name() string {
	return "get_type_dependencies"
}

func (t *TypeDependenciesTool) Description() string {
	return "List the types a type depends on: base class, implemented interfaces and composed members"
}

func (t *TypeDependenciesTool) Schema() json.RawMessage {
	return dependenciesSchema
}

func (t *TypeDependenciesTool) Title() string {
	return "Get Type Dependencies"
}

func (t *TypeDependenciesTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *TypeDependenciesTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	req, err := parseDependenciesRequest(input)
	if err != nil {
		return nil, err
	}

	return t.analyzer.TypeDependencies(ctx, req.TypeName), nil
}

type TypeDependentsTool struct {
	analyzer *xref.Analyzer
}

func (t *TypeDependentsTool) Name() string {
	return "get_type_dependents"
}

func (t *TypeDependentsTool) Description() string {
	return "List the types that depend on a type, derived from its reference sites"
}

func (t *TypeDependentsTool) Schema() json.RawMessage {
	return dependenciesSchema
}

func (t *TypeDependentsTool) Title() string {
	return "Get Type Dependents"
}

func (t *TypeDependentsTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *TypeDependentsTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	req, err := parseDependenciesRequest(input)
	if err != nil {
		return nil, err
	}

	return t.analyzer.TypeDependents(ctx, req.TypeName), nil
}

var dependenciesSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"typeName": {
			"type": "string",
			"description": "Simple or fully qualified type name"
		}
	},
	"required": ["typeName"]
}`)

func parseDependenciesRequest(input json.RawMessage) (*DependenciesRequest, error) {
	var req DependenciesRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if req.TypeName == "" {
		return nil, fmt.Errorf("typeName is required")
	}
	return &req, nil
}
