package resolver

import "context"

// Resolver is the semantic-analysis collaborator consumed by the analysis
// core. Implementations own the loaded project snapshot; all methods read
// that snapshot and are safe for concurrent use between snapshot reloads.
//
// Resolve methods return (nil, nil) when the name does not resolve; a
// non-nil error always means the query itself failed.
type Resolver interface {
	ResolveType(ctx context.Context, name string) (*Symbol, error)
	ResolveMember(ctx context.Context, typeName, memberName string) (*Symbol, error)
	ResolveNamespace(ctx context.Context, name string) (*Symbol, error)

	FindReferences(ctx context.Context, symbolID string) ([]ReferenceLocation, error)
	EnclosingSyntax(ctx context.Context, loc ReferenceLocation) (*SyntaxContext, error)

	BaseType(ctx context.Context, symbolID string) (*Symbol, error)
	ImplementedInterfaces(ctx context.Context, symbolID string) ([]Symbol, error)
	Members(ctx context.Context, symbolID string) ([]Member, error)

	Projects(ctx context.Context) ([]ProjectInfo, error)
}

// DiagnosticSource is the pass-through surface for compiler diagnostics,
// kept separate from Resolver so the analysis core cannot depend on it.
type DiagnosticSource interface {
	Diagnostics(ctx context.Context, severity DiagnosticSeverity) ([]Diagnostic, error)
}
