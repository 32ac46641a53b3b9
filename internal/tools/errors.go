package tools

import "fmt"

// JSON-RPC error codes surfaced by the registry and the MCP layer.
// Analysis-level failures (unknown type, no solution loaded) never use
// these; they travel as success=false results.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// ToolError carries the JSON-RPC code a failure should be reported under.
type ToolError struct {
	Code    int
	Message string
}

func (e *ToolError) Error() string {
	return e.Message
}

func NewToolNotFoundError(name string) *ToolError {
	return &ToolError{
		Code:    CodeMethodNotFound,
		Message: fmt.Sprintf("tool not found: %s", name),
	}
}

func NewToolExecutionError(name string, err error) *ToolError {
	return &ToolError{
		Code:    CodeInternalError,
		Message: fmt.Sprintf("tool %s failed: %v", name, err),
	}
}
