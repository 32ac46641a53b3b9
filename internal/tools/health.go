package tools

import (
	"context"
	"encoding/json"

	"github.com/refscope/refscope-mcp/pkg/version"
)

// HealthTool reports server liveness plus whatever the status source adds
// (engine state, loaded solution, restart counters).
type HealthTool struct {
	status func() map[string]interface{}
}

func NewHealthTool(status func() map[string]interface{}) *HealthTool {
	return &HealthTool{status: status}
}

func (t *HealthTool) Name() string {
	return "health"
}

func (t *HealthTool) Description() string {
	return "Check analysis server health and engine status"
}

func (t *HealthTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {},
		"required": []
	}`)
}

func (t *HealthTool) Title() string {
	return "Health Check"
}

func (t *HealthTool) Annotations() map[string]bool {
	return ReadOnlyAnnotations()
}

func (t *HealthTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	result := map[string]interface{}{
		"status":  "healthy",
		"version": version.Version,
	}

	if t.status != nil {
		for k, v := range t.status() {
			result[k] = v
		}
	}

	return result, nil
}
