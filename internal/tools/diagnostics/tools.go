// Package diagnostics exposes compiler and style diagnostics as MCP tools.
package diagnostics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/refscope/refscope-mcp/internal/resolver"
	"github.com/refscope/refscope-mcp/internal/tools"
)

func RegisterAll(registry *tools.Registry, source resolver.DiagnosticSource) error {
	all := []tools.Tool{
		&ErrorsTool{source: source},
		&StyleTool{source: source},
	}

	for _, t := range all {
		if err := registry.Register(t); err != nil {
			return err
		}
	}
	return nil
}

type DiagnosticsResult struct {
	Success      bool                  `json:"success"`
	Error        string                `json:"error,omitempty"`
	Diagnostics  []resolver.Diagnostic `json:"diagnostics"`
	TotalCount   int                   `json:"totalCount"`
	ErrorCount   int                   `json:"errorCount,omitempty"`
	WarningCount int                   `json:"warningCount,omitempty"`
}

func failure(err error) *DiagnosticsResult {
	message := err.Error()
	if errors.Is(err, resolver.ErrNotLoaded) {
		message = "no solution loaded; call load_solution first"
	}
	return &DiagnosticsResult{Error: message, Diagnostics: []resolver.Diagnostic{}}
}

type ErrorsRequest struct {
	Project string `json:"project,omitempty"`
}

// ErrorsTool reports compiler errors and warnings for the loaded solution.
type ErrorsTool struct {
	source resolver.DiagnosticSource
}

func (t *ErrorsTool) Name() string {
	return "get_errors"
}

func (t *ErrorsTool) Description() string {
	return "Get compiler errors and warnings for the loaded solution"
}

func (t *ErrorsTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"project": {
				"type": "string",
				"description": "Restrict results to one project"
			}
		},
		"required": []
	}`)
}

func (t *ErrorsTool) Title() string {
	return "Get Errors"
}

func (t *ErrorsTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *ErrorsTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req ErrorsRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, fmt.Errorf("invalid request: %w", err)
		}
	}

	diags, err := t.source.Diagnostics(ctx, resolver.SeverityWarning)
	if err != nil {
		return failure(err), nil
	}

	result := &DiagnosticsResult{Success: true, Diagnostics: []resolver.Diagnostic{}}
	for _, d := range diags {
		if req.Project != "" && d.Project != req.Project {
			continue
		}
		switch d.Severity {
		case resolver.SeverityError:
			result.ErrorCount++
		case resolver.SeverityWarning:
			result.WarningCount++
		default:
			continue
		}
		result.Diagnostics = append(result.Diagnostics, d)
	}
	result.TotalCount = len(result.Diagnostics)

	return result, nil
}

type StyleRequest struct {
	Project string `json:"project,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// StyleTool reports info- and hint-level diagnostics, the analyzer's style
// and refactoring suggestions.
type StyleTool struct {
	source resolver.DiagnosticSource
}

func (t *StyleTool) Name() string {
	return "get_style_suggestions"
}

func (t *StyleTool) Description() string {
	return "Get style and refactoring suggestions for the loaded solution"
}

func (t *StyleTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"project": {
				"type": "string",
				"description": "Restrict results to one project"
			},
			"limit": {
				"type": "integer",
				"description": "Maximum number of suggestions (default: 100)"
			}
		},
		"required": []
	}`)
}

func (t *StyleTool) Title() string {
	return "Get Style Suggestions"
}

func (t *StyleTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *StyleTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req StyleRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, fmt.Errorf("invalid request: %w", err)
		}
	}
	if req.Limit <= 0 {
		req.Limit = 100
	}

	diags, err := t.source.Diagnostics(ctx, resolver.SeverityInfo)
	if err != nil {
		return failure(err), nil
	}

	result := &DiagnosticsResult{Success: true, Diagnostics: []resolver.Diagnostic{}}
	for _, d := range diags {
		if req.Project != "" && d.Project != req.Project {
			continue
		}
		if d.Severity != resolver.SeverityInfo && d.Severity != resolver.SeverityHint {
			continue
		}
		result.Diagnostics = append(result.Diagnostics, d)
		if len(result.Diagnostics) >= req.Limit {
			break
		}
	}
	result.TotalCount = len(result.Diagnostics)

	return result, nil
}
