package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/refscope/refscope-mcp/internal/tools"
	"github.com/refscope/refscope-mcp/internal/xref"
)

type ImpactRequest struct {
	TypeName string `json:"typeName"`
}

type ImpactScopeTool struct {
	analyzer *xref.Analyzer
}

func (t *ImpactScopeTool) Name() string {
	return "analyze_impact_scope"
}

func (t *ImpactScopeTool) Description() string {
	return "Estimate the blast radius of changing a type, from single file up to the whole solution"
}

func (t *ImpactScopeTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"typeName": {
				"type": "string",
				"description": "Type whose change impact to analyze"
			}
		},
		"required": ["typeName"]
	}`)
}

func (t *ImpactScopeTool) Title() string {
	return "Analyze Impact Scope"
}

func (t *ImpactScopeTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *ImpactScopeTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req ImpactRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if req.TypeName == "" {
		return nil, fmt.Errorf("typeName is required")
	}

	return t.analyzer.AnalyzeImpactScope(ctx, req.TypeName), nil
}
