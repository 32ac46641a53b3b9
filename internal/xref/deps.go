package xref

import (
	"context"
	"fmt"
	"strings"

	"github.com/refscope/refscope-mcp/internal/resolver"
)

// TypeDependencies derives the outgoing dependency edges of the named type
// from its base list and member types.
func (a *Analyzer) TypeDependencies(ctx context.Context, name string) *DependencyAnalysisResult {
	sym, err := a.res.ResolveType(ctx, name)
	if err != nil {
		return depFailure(name, err)
	}
	if sym == nil {
		return depFailure(name, fmt.Errorf("type not found: %s", name))
	}

	deps, err := a.extractOutgoing(ctx, sym)
	if err != nil {
		return depFailure(name, err)
	}

	return &DependencyAnalysisResult{
		Success:       true,
		AnalyzedType:  sym.Name,
		Outgoing:      deps,
		TotalOutgoing: len(deps),
	}
}

// TypeDependents derives the incoming dependency edges of the named type by
// identifying the enclosing type at each reference site.
func (a *Analyzer) TypeDependents(ctx context.Context, name string) *DependencyAnalysisResult {
	sym, err := a.res.ResolveType(ctx, name)
	if err != nil {
		return depFailure(name, err)
	}
	if sym == nil {
		return depFailure(name, fmt.Errorf("type not found: %s", name))
	}

	deps, err := a.extractIncoming(ctx, sym)
	if err != nil {
		return depFailure(name, err)
	}

	return &DependencyAnalysisResult{
		Success:       true,
		AnalyzedType:  sym.Name,
		Incoming:      deps,
		TotalIncoming: len(deps),
	}
}

func (a *Analyzer) extractOutgoing(ctx context.Context, sym *resolver.Symbol) ([]Dependency, error) {
	var deps []Dependency

	base, err := a.res.BaseType(ctx, sym.ID)
	if err != nil {
		return nil, err
	}
	if base != nil && !isUniversalRoot(base) {
		deps = append(deps, Dependency{
			Dependent:  sym.Name,
			Dependency: base.Name,
			Kind:       DepInheritance,
		})
	}

	ifaces, err := a.res.ImplementedInterfaces(ctx, sym.ID)
	if err != nil {
		return nil, err
	}
	for _, iface := range ifaces {
		deps = append(deps, Dependency{
			Dependent:  sym.Name,
			Dependency: iface.Name,
			Kind:       DepImplementation,
		})
	}

	members, err := a.res.Members(ctx, sym.ID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		t := m.DeclaredType
		if t == nil || a.isBuiltin(t) {
			continue
		}
		switch m.Kind {
		case resolver.KindProperty:
			deps = append(deps, Dependency{
				Dependent:  sym.Name,
				Dependency: t.Name,
				Kind:       DepComposition,
				Context:    fmt.Sprintf("Property: %s", m.Name),
			})
		case resolver.KindField:
			deps = append(deps, Dependency{
				Dependent:  sym.Name,
				Dependency: t.Name,
				Kind:       DepComposition,
				Context:    fmt.Sprintf("Field: %s", m.Name),
			})
		}
	}

	return dedupeDependencies(deps), nil
}

func (a *Analyzer) extractIncoming(ctx context.Context, sym *resolver.Symbol) ([]Dependency, error) {
	refs, err := a.res.FindReferences(ctx, sym.ID)
	if err != nil {
		return nil, err
	}

	var deps []Dependency
	for _, loc := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sc, err := a.res.EnclosingSyntax(ctx, loc)
		if err != nil {
			log.Debug("skipping location without syntax context",
				"unit", loc.Unit, "line", loc.Start.Line, "error", err)
			continue
		}

		// Self-references inside the type's own declaration are not edges.
		if sc.EnclosingType == "" || sc.EnclosingType == sym.Name {
			continue
		}

		deps = append(deps, Dependency{
			Dependent:  sc.EnclosingType,
			Dependency: sym.Name,
			Kind:       incomingKind(sc, sym.Kind),
			Context:    fmt.Sprintf("%s:%d", loc.Unit, loc.Start.Line),
		})
	}

	return dedupeDependencies(deps), nil
}

// incomingKind classifies an incoming edge from the syntactic parent of the
// reference node. Base-list sites reuse the same type-kind rule as usage
// classification.
func incomingKind(sc *resolver.SyntaxContext, targetKind resolver.SymbolKind) DependencyKind {
	for _, candidate := range candidateKinds(sc) {
		switch candidate {
		case resolver.SyntaxBaseList:
			if baseListKind(targetKind) == UsageImplementedInterface {
				return DepImplementation
			}
			return DepInheritance
		case resolver.SyntaxPropertyDeclaration, resolver.SyntaxFieldDeclaration:
			return DepComposition
		case resolver.SyntaxParameter:
			return DepUsage
		case resolver.SyntaxAttribute:
			return DepAttribute
		}
	}
	return DepUsage
}

// dedupeDependencies collapses multiple reference sites into one edge per
// (dependent, dependency, kind) triple, keeping the first representative.
// The relationship, not the occurrence count, is what callers need.
func dedupeDependencies(deps []Dependency) []Dependency {
	seen := make(map[string]struct{}, len(deps))
	out := deps[:0]
	for _, d := range deps {
		key := d.Dependent + "\x00" + d.Dependency + "\x00" + string(d.Kind)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	return out
}

// isBuiltin reports whether a declared type is too trivial to count as a
// composition edge: primitives, enums, and anything under a reserved
// namespace prefix.
func (a *Analyzer) isBuiltin(t *resolver.TypeRef) bool {
	if t.IsPrimitive || t.Kind == resolver.KindEnum {
		return true
	}
	return a.isReservedNamespace(t.Namespace)
}

func (a *Analyzer) isReservedNamespace(ns string) bool {
	if ns == "" {
		return false
	}
	for _, prefix := range a.config.ReservedNamespaces {
		if ns == prefix || strings.HasPrefix(ns, prefix+".") {
			return true
		}
	}
	return false
}

// isUniversalRoot filters the root type every reference type inherits from;
// it carries no information as an inheritance edge.
func isUniversalRoot(sym *resolver.Symbol) bool {
	return sym.FullName == "System.Object" || sym.Name == "Object"
}

func depFailure(name string, err error) *DependencyAnalysisResult {
	return &DependencyAnalysisResult{
		AnalyzedType: name,
		Error:        errorMessage(err),
	}
}
