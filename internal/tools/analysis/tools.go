// Package analysis exposes the cross-reference analyzer as MCP tools.
package analysis

import (
	"github.com/refscope/refscope-mcp/internal/tools"
	"github.com/refscope/refscope-mcp/internal/xref"
)

// RegisterAll wires every analysis tool into the registry.
func RegisterAll(registry *tools.Registry, analyzer *xref.Analyzer) error {
	all := []tools.Tool{
		&FindTypeUsagesTool{analyzer: analyzer},
		&FindMemberUsagesTool{analyzer: analyzer},
		&FindNamespaceUsagesTool{analyzer: analyzer},
		&TypeDependenciesTool{analyzer: analyzer},
		&TypeDependentsTool{analyzer: analyzer},
		&ImpactScopeTool{analyzer: analyzer},
		&RenameSafetyTool{analyzer: analyzer},
		&RenamePreviewTool{analyzer: analyzer},
	}

	for _, t := range all {
		if err := registry.Register(t); err != nil {
			return err
		}
	}
	return nil
}
