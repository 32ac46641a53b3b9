package mcp

import (
	"encoding/json"

	"github.com/refscope/refscope-mcp/pkg/protocol"
)

type Request = protocol.JSONRPCRequest
type Response = protocol.JSONRPCResponse
type Tool = protocol.Tool
type ToolCall = protocol.ToolCall

type InitializeRequest struct {
	ClientInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"clientInfo"`
}

type CallToolRequest struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}
