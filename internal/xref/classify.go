package xref

import (
	"github.com/refscope/refscope-mcp/internal/resolver"
)

// classifyRule pairs a syntactic construct with the usage kind it implies.
// The table is ordered most-specific-first; new node kinds are added as new
// entries, never as branches elsewhere.
type classifyRule struct {
	syntax resolver.SyntaxKind
	kind   UsageKind
}

var usageRules = []classifyRule{
	{resolver.SyntaxTypeDeclaration, UsageDeclaration},
	{resolver.SyntaxObjectCreation, UsageInstantiation},
	{resolver.SyntaxParameter, UsageMethodParameter},
	{resolver.SyntaxReturnType, UsageMethodReturnType},
	{resolver.SyntaxPropertyDeclaration, UsagePropertyType},
	{resolver.SyntaxFieldDeclaration, UsageFieldType},
	{resolver.SyntaxEventDeclaration, UsageEventType},
	{resolver.SyntaxAttribute, UsageAttribute},
	{resolver.SyntaxCast, UsageCastOperation},
	{resolver.SyntaxTypeOf, UsageTypeOfExpression},
	{resolver.SyntaxIsPattern, UsageIsExpression},
	{resolver.SyntaxAsExpression, UsageAsExpression},
	{resolver.SyntaxUsingDirective, UsageUsingDirective},
	{resolver.SyntaxTypeArgumentList, UsageGenericTypeArgument},
	{resolver.SyntaxLocalDeclaration, UsageLocalVariable},
}

// ClassifyUsage assigns exactly one UsageKind to a reference site. The node
// itself is inspected first, then its ancestors nearest-first, so the most
// specific enclosing construct wins. Base-list sites are the single place
// where classification depends on the target symbol's kind rather than on
// syntax alone.
func ClassifyUsage(sc *resolver.SyntaxContext, targetKind resolver.SymbolKind) UsageKind {
	for _, candidate := range candidateKinds(sc) {
		if candidate == resolver.SyntaxBaseList {
			return baseListKind(targetKind)
		}
		for _, rule := range usageRules {
			if rule.syntax == candidate {
				return rule.kind
			}
		}
	}
	return UsageFullyQualifiedReference
}

// baseListKind resolves the base-list ambiguity from the target type's kind.
// Used by both usage classification and incoming-dependency inversion so the
// two sites cannot drift apart.
func baseListKind(kind resolver.SymbolKind) UsageKind {
	if kind.IsInterface() {
		return UsageImplementedInterface
	}
	return UsageBaseClass
}

// ClassifyMemberUsage assigns a MemberUsageKind to a member reference site.
// Invocation syntax is always a method call regardless of the resolved
// member's kind; an access on the left-hand side of an assignment is a set.
//
// Only the node and its nearest ancestor are checked for invocation syntax.
// An invocation farther up the chain means the member is an argument to some
// call, not the callee, so the full ancestor walk used for type usages would
// misclassify accesses in argument position.
func ClassifyMemberUsage(sc *resolver.SyntaxContext, memberKind resolver.SymbolKind) MemberUsageKind {
	if sc.NodeKind == resolver.SyntaxInvocation || nearestAncestorIs(sc, resolver.SyntaxInvocation) {
		return MemberMethodCall
	}
	if memberKind == resolver.KindMethod {
		return MemberMethodCall
	}

	if memberKind == resolver.KindField {
		if sc.IsAssignmentTarget {
			return MemberFieldSet
		}
		return MemberFieldAccess
	}

	if sc.IsAssignmentTarget {
		return MemberPropertySet
	}
	return MemberPropertyAccess
}

func candidateKinds(sc *resolver.SyntaxContext) []resolver.SyntaxKind {
	kinds := make([]resolver.SyntaxKind, 0, len(sc.Ancestors)+1)
	kinds = append(kinds, sc.NodeKind)
	kinds = append(kinds, sc.Ancestors...)
	return kinds
}

func nearestAncestorIs(sc *resolver.SyntaxContext, kind resolver.SyntaxKind) bool {
	return len(sc.Ancestors) > 0 && sc.Ancestors[0] == kind
}
