package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/refscope/refscope-mcp/internal/tools"
	"github.com/refscope/refscope-mcp/internal/xref"
)

type TypeUsagesRequest struct {
	TypeName string `json:"typeName"`
}

type FindTypeUsagesTool struct {
	analyzer *xref.Analyzer
}

func (t *FindTypeUsagesTool) Name() string {
	return "find_type_usages"
}

func (t *FindTypeUsagesTool) Description() string {
	return "Find every reference to a type, classified by syntactic role (instantiation, parameter, cast, base class, ...)"
}

func (t *FindTypeUsagesTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"typeName": {
				"type": "string",
				"description": "Simple or fully qualified type name, e.g. Customer or Acme.Shop.Customer"
			}
		},
		"required": ["typeName"]
	}`)
}

func (t *FindTypeUsagesTool) Title() string {
	return "Find Type Usages"
}

func (t *FindTypeUsagesTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *FindTypeUsagesTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req TypeUsagesRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if req.TypeName == "" {
		return nil, fmt.Errorf("typeName is required")
	}

	return t.analyzer.FindTypeUsages(ctx, req.TypeName), nil
}

type MemberUsagesRequest struct {
	TypeName   string `json:"typeName"`
	MemberName string `json:"memberName"`
}

type FindMemberUsagesTool struct {
	analyzer *xref.Analyzer
}

func (t *FindMemberUsagesTool) Name() string {
	return "find_member_usages"
}

func (t *FindMemberUsagesTool) Description() string {
	return "Find every reference to a method, property, field or event, split into calls, reads and writes"
}

func (t *FindMemberUsagesTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"typeName": {
				"type": "string",
				"description": "Type that declares the member"
			},
			"memberName": {
				"type": "string",
				"description": "Member name, e.g. Name or CalculateTotal"
			}
		},
		"required": ["typeName", "memberName"]
	}`)
}

func (t *FindMemberUsagesTool) Title() string {
	return "Find Member Usages"
}

func (t *FindMemberUsagesTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *FindMemberUsagesTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req MemberUsagesRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if req.TypeName == "" {
		return nil, fmt.Errorf("typeName is required")
	}
	if req.MemberName == "" {
		return nil, fmt.Errorf("memberName is required")
	}

	return t.analyzer.FindMemberUsages(ctx, req.TypeName, req.MemberName), nil
}

type NamespaceUsagesRequest struct {
	Namespace string `json:"namespace"`
}

type FindNamespaceUsagesTool struct {
	analyzer *xref.Analyzer
}

func (t *FindNamespaceUsagesTool) Name() string {
	return "find_namespace_usages"
}

func (t *FindNamespaceUsagesTool) Description() string {
	return "Find import directives and fully qualified references to a namespace"
}

func (t *FindNamespaceUsagesTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"namespace": {
				"type": "string",
				"description": "Namespace to look up, e.g. Acme.Shop.Billing"
			}
		},
		"required": ["namespace"]
	}`)
}

func (t *FindNamespaceUsagesTool) Title() string {
	return "Find Namespace Usages"
}

func (t *FindNamespaceUsagesTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *FindNamespaceUsagesTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req NamespaceUsagesRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if req.Namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}

	return t.analyzer.FindNamespaceUsages(ctx, req.Namespace), nil
}
