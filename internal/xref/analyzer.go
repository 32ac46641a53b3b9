package xref

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/refscope/refscope-mcp/internal/logger"
	"github.com/refscope/refscope-mcp/internal/resolver"
)

var log = logger.ForComponent("xref")

// SnippetProvider recovers a one-line source snippet for a reference site
// when the resolver does not supply one.
type SnippetProvider interface {
	Snippet(unit string, line int) string
}

type Config struct {
	// ReservedNamespaces are namespace prefixes whose types never count as
	// composition dependencies (the built-in threshold of the extractor).
	ReservedNamespaces []string `yaml:"reserved_namespaces" json:"reserved_namespaces"`

	// HighVolumeThreshold is the usage count above which impact analysis
	// recommends planning the change carefully.
	HighVolumeThreshold int `yaml:"high_volume_threshold" json:"high_volume_threshold"`
}

func DefaultConfig() Config {
	return Config{
		ReservedNamespaces:  []string{"System", "Microsoft"},
		HighVolumeThreshold: 50,
	}
}

// Analyzer turns raw resolver output into classified usage indexes,
// dependency edges, impact verdicts, and rename judgments. Each call reads
// the resolver's immutable snapshot and writes only call-local state, so a
// single Analyzer is safe for concurrent calls.
type Analyzer struct {
	res      resolver.Resolver
	config   Config
	snippets SnippetProvider
}

func New(res resolver.Resolver, config Config) *Analyzer {
	if config.HighVolumeThreshold <= 0 {
		config.HighVolumeThreshold = DefaultConfig().HighVolumeThreshold
	}
	return &Analyzer{res: res, config: config}
}

// WithSnippets installs a fallback source reader for sites where the
// resolver omits the snippet.
func (a *Analyzer) WithSnippets(sp SnippetProvider) *Analyzer {
	a.snippets = sp
	return a
}

// FindTypeUsages enumerates and classifies every reference to the named
// type. A location whose syntax context cannot be retrieved is skipped and
// logged; it never aborts the batch.
func (a *Analyzer) FindTypeUsages(ctx context.Context, name string) *UsageAnalysisResult {
	sym, err := a.res.ResolveType(ctx, name)
	if err != nil {
		return usageFailure(name, err)
	}
	if sym == nil {
		return usageFailure(name, fmt.Errorf("type not found: %s", name))
	}
	return a.collectUsages(ctx, name, sym)
}

// FindNamespaceUsages enumerates and classifies every reference to the
// named namespace.
func (a *Analyzer) FindNamespaceUsages(ctx context.Context, name string) *UsageAnalysisResult {
	sym, err := a.res.ResolveNamespace(ctx, name)
	if err != nil {
		return usageFailure(name, err)
	}
	if sym == nil {
		return usageFailure(name, fmt.Errorf("namespace not found: %s", name))
	}
	return a.collectUsages(ctx, name, sym)
}

func (a *Analyzer) collectUsages(ctx context.Context, queried string, sym *resolver.Symbol) *UsageAnalysisResult {
	result := &UsageAnalysisResult{
		Success:      true,
		QueriedName:  queried,
		ResolvedName: sym.FullName,
		Namespace:    sym.Namespace,
		Usages:       []UsageReference{},
		UsagesByKind: make(map[UsageKind]int),
	}

	refs, err := a.res.FindReferences(ctx, sym.ID)
	if err != nil {
		return usageFailure(queried, err)
	}

	projects := make(map[string]struct{})
	for _, loc := range refs {
		if err := ctx.Err(); err != nil {
			return usageFailure(queried, err)
		}

		sc, err := a.res.EnclosingSyntax(ctx, loc)
		if err != nil {
			log.Debug("skipping location without syntax context",
				"unit", loc.Unit, "line", loc.Start.Line, "error", err)
			continue
		}

		kind := ClassifyUsage(sc, sym.Kind)
		usage := a.buildUsage(loc, sc, kind)
		result.Usages = append(result.Usages, usage)
		result.UsagesByKind[kind]++
		if loc.Project != "" {
			projects[loc.Project] = struct{}{}
		}
	}

	result.TotalUsages = len(result.Usages)
	result.Projects = sortedKeys(projects)
	return result
}

// FindMemberUsages enumerates and classifies every reference to a member of
// the named type.
func (a *Analyzer) FindMemberUsages(ctx context.Context, typeName, memberName string) *MemberUsageAnalysisResult {
	sym, err := a.res.ResolveMember(ctx, typeName, memberName)
	if err != nil {
		return memberUsageFailure(typeName, memberName, err)
	}
	if sym == nil {
		return memberUsageFailure(typeName, memberName,
			fmt.Errorf("member not found: %s.%s", typeName, memberName))
	}

	result := &MemberUsageAnalysisResult{
		Success:      true,
		QueriedType:  typeName,
		QueriedName:  memberName,
		ResolvedName: sym.FullName,
		Usages:       []MemberUsageReference{},
		UsagesByKind: make(map[MemberUsageKind]int),
	}

	refs, err := a.res.FindReferences(ctx, sym.ID)
	if err != nil {
		return memberUsageFailure(typeName, memberName, err)
	}

	projects := make(map[string]struct{})
	for _, loc := range refs {
		if err := ctx.Err(); err != nil {
			return memberUsageFailure(typeName, memberName, err)
		}

		sc, err := a.res.EnclosingSyntax(ctx, loc)
		if err != nil {
			log.Debug("skipping location without syntax context",
				"unit", loc.Unit, "line", loc.Start.Line, "error", err)
			continue
		}

		kind := ClassifyMemberUsage(sc, sym.Kind)
		usage := MemberUsageReference{
			Unit:            loc.Unit,
			Project:         loc.Project,
			StartLine:       loc.Start.Line,
			StartColumn:     loc.Start.Column,
			EndLine:         loc.End.Line,
			EndColumn:       loc.End.Column,
			Kind:            kind,
			Context:         contextLabel(string(kind), sc),
			Snippet:         a.snippetFor(sc, loc),
			EnclosingMember: sc.EnclosingMember,
			EnclosingType:   sc.EnclosingType,
		}
		result.Usages = append(result.Usages, usage)
		result.UsagesByKind[kind]++
		if loc.Project != "" {
			projects[loc.Project] = struct{}{}
		}
	}

	result.TotalUsages = len(result.Usages)
	result.Projects = sortedKeys(projects)
	return result
}

func (a *Analyzer) buildUsage(loc resolver.ReferenceLocation, sc *resolver.SyntaxContext, kind UsageKind) UsageReference {
	return UsageReference{
		Unit:            loc.Unit,
		Project:         loc.Project,
		StartLine:       loc.Start.Line,
		StartColumn:     loc.Start.Column,
		EndLine:         loc.End.Line,
		EndColumn:       loc.End.Column,
		Kind:            kind,
		Context:         contextLabel(string(kind), sc),
		Snippet:         a.snippetFor(sc, loc),
		EnclosingMember: sc.EnclosingMember,
		EnclosingType:   sc.EnclosingType,
	}
}

func (a *Analyzer) snippetFor(sc *resolver.SyntaxContext, loc resolver.ReferenceLocation) string {
	if sc.Snippet != "" {
		return sc.Snippet
	}
	if a.snippets != nil {
		return a.snippets.Snippet(loc.Unit, loc.Start.Line)
	}
	return ""
}

func contextLabel(kind string, sc *resolver.SyntaxContext) string {
	switch {
	case sc.EnclosingType != "" && sc.EnclosingMember != "":
		return fmt.Sprintf("%s in %s.%s", kind, sc.EnclosingType, sc.EnclosingMember)
	case sc.EnclosingType != "":
		return fmt.Sprintf("%s in %s", kind, sc.EnclosingType)
	default:
		return kind
	}
}

func usageFailure(queried string, err error) *UsageAnalysisResult {
	return &UsageAnalysisResult{
		QueriedName:  queried,
		Usages:       []UsageReference{},
		UsagesByKind: make(map[UsageKind]int),
		Projects:     []string{},
		Error:        errorMessage(err),
	}
}

func memberUsageFailure(typeName, memberName string, err error) *MemberUsageAnalysisResult {
	return &MemberUsageAnalysisResult{
		QueriedType:  typeName,
		QueriedName:  memberName,
		Usages:       []MemberUsageReference{},
		UsagesByKind: make(map[MemberUsageKind]int),
		Projects:     []string{},
		Error:        errorMessage(err),
	}
}

func errorMessage(err error) string {
	if errors.Is(err, resolver.ErrNotLoaded) {
		return "no solution loaded; call load_solution first"
	}
	return err.Error()
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
