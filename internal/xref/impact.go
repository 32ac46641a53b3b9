package xref

import (
	"context"
	"fmt"
)

// AnalyzeImpactScope aggregates a full usage query into a scope verdict with
// recommendations and breaking-change warnings.
func (a *Analyzer) AnalyzeImpactScope(ctx context.Context, typeName string) *ImpactAnalysisResult {
	usages := a.FindTypeUsages(ctx, typeName)
	if !usages.Success {
		return &ImpactAnalysisResult{
			AnalyzedItem:     typeName,
			AffectedProjects: []string{},
			AffectedUsages:   []UsageReference{},
			Error:            usages.Error,
		}
	}

	result := &ImpactAnalysisResult{
		Success:          true,
		AnalyzedItem:     typeName,
		AffectedProjects: usages.Projects,
		AffectedUsages:   usages.Usages,
	}

	result.Scope = a.decideScope(ctx, usages)
	result.Recommendations = a.recommendations(usages)
	result.BreakingChanges = breakingChanges(usages)
	return result
}

// decideScope applies the decision table in order; first match wins.
func (a *Analyzer) decideScope(ctx context.Context, usages *UsageAnalysisResult) ImpactScope {
	if usages.TotalUsages == 0 {
		return ScopeNone
	}

	units := make(map[string]struct{})
	for _, u := range usages.Usages {
		units[u.Unit] = struct{}{}
	}

	switch {
	case len(usages.Projects) <= 1 && len(units) == 1:
		return ScopeSameFile
	case len(usages.Projects) <= 1:
		return ScopeSameProject
	}

	// Touching every loaded project escalates to solution-wide; a failed
	// project enumeration degrades to the conservative multi-project verdict.
	all, err := a.res.Projects(ctx)
	if err == nil && len(all) > 1 && len(usages.Projects) == len(all) {
		return ScopeEntireSolution
	}
	return ScopeMultipleProjects
}

// recommendations is additive: each trigger appends its own line and several
// can co-occur.
func (a *Analyzer) recommendations(usages *UsageAnalysisResult) []string {
	var recs []string

	if usages.TotalUsages > a.config.HighVolumeThreshold {
		recs = append(recs, fmt.Sprintf(
			"%d usages found; plan this change carefully and stage it if possible",
			usages.TotalUsages))
	}
	if len(usages.Projects) > 1 {
		recs = append(recs, fmt.Sprintf(
			"usages span %d projects; coordinate the change across project owners",
			len(usages.Projects)))
	}
	if usages.UsagesByKind[UsageBaseClass] > 0 {
		recs = append(recs, "type is used as a base class; review the inheritance hierarchy before changing it")
	}
	if usages.UsagesByKind[UsageImplementedInterface] > 0 {
		recs = append(recs, "type is implemented as an interface; changes may break implementers")
	}

	return recs
}

// breakingChanges checks are independent; all fire when their trigger kind
// is present.
func breakingChanges(usages *UsageAnalysisResult) []string {
	var warnings []string

	if usages.UsagesByKind[UsageBaseClass] > 0 {
		warnings = append(warnings, "structural change: derived classes inherit from this type")
	}
	if usages.UsagesByKind[UsageImplementedInterface] > 0 {
		warnings = append(warnings, "interface contract change: implementing types must be updated")
	}
	if usages.UsagesByKind[UsageMethodParameter] > 0 {
		warnings = append(warnings, "signature compatibility: type appears in method parameters")
	}

	return warnings
}
