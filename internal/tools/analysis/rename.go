package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/refscope/refscope-mcp/internal/tools"
	"github.com/refscope/refscope-mcp/internal/xref"
)

type RenameRequest struct {
	CurrentName  string `json:"currentName"`
	ProposedName string `json:"proposedName"`
}

type RenameSafetyTool struct {
	analyzer *xref.Analyzer
}

func (t *RenameSafetyTool) Name() string {
	return "validate_rename_safety"
}

func (t *RenameSafetyTool) Description() string {
	return "Check whether renaming a type collides with an existing name and list every affected site"
}

func (t *RenameSafetyTool) Schema() json.RawMessage {
	return renameSchema
}

func (t *RenameSafetyTool) Title() string {
	return "Validate Rename Safety"
}

func (t *RenameSafetyTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *RenameSafetyTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	req, err := parseRenameRequest(input)
	if err != nil {
		return nil, err
	}

	return t.analyzer.ValidateRenameSafety(ctx, req.CurrentName, req.ProposedName), nil
}

type RenamePreviewTool struct {
	analyzer *xref.Analyzer
}

func (t *RenamePreviewTool) Name() string {
	return "preview_rename_impact"
}

func (t *RenamePreviewTool) Description() string {
	return "Preview the scope and recommendations for a type rename without applying it"
}

func (t *RenamePreviewTool) Schema() json.RawMessage {
	return renameSchema
}

func (t *RenamePreviewTool) Title() string {
	return "Preview Rename Impact"
}

func (t *RenamePreviewTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *RenamePreviewTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	req, err := parseRenameRequest(input)
	if err != nil {
		return nil, err
	}

	return t.analyzer.PreviewRenameImpact(ctx, req.CurrentName, req.ProposedName), nil
}

var renameSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"currentName": {
			"type": "string",
			"description": "Existing type name"
		},
		"proposedName": {
			"type": "string",
			"description": "Candidate new name"
		}
	},
	"required": ["currentName", "proposedName"]
}`)

func parseRenameRequest(input json.RawMessage) (*RenameRequest, error) {
	var req RenameRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if req.CurrentName == "" {
		return nil, fmt.Errorf("currentName is required")
	}
	if req.ProposedName == "" {
		return nil, fmt.Errorf("proposedName is required")
	}
	return &req, nil
}
