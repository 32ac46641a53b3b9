package xref

import (
	"context"
	"fmt"
)

// ValidateRenameSafety checks a proposed new name for direct collisions and
// enumerates every site the rename would touch. It is deliberately
// conservative: only a type-level name collision is detected, not scope-aware
// shadowing.
func (a *Analyzer) ValidateRenameSafety(ctx context.Context, currentName, proposedName string) *RenameSafetyResult {
	result := &RenameSafetyResult{
		CurrentName:    currentName,
		ProposedName:   proposedName,
		AffectedUsages: []UsageReference{},
	}

	existing, err := a.res.ResolveType(ctx, proposedName)
	if err != nil {
		result.Error = errorMessage(err)
		return result
	}
	if existing != nil {
		result.Conflicts = append(result.Conflicts, fmt.Sprintf(
			"name already exists: %s resolves to %s", proposedName, existing.FullName))
	}

	usages := a.FindTypeUsages(ctx, currentName)
	if !usages.Success {
		result.Error = usages.Error
		return result
	}

	// Every usage site is reported regardless of the collision outcome.
	result.Success = true
	result.AffectedUsages = usages.Usages
	result.Safe = len(result.Conflicts) == 0

	if usages.TotalUsages > a.config.HighVolumeThreshold {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"rename touches %d sites; apply it with tooling, not by hand", usages.TotalUsages))
	}
	if len(usages.Projects) > 1 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"rename spans %d projects", len(usages.Projects)))
	}

	return result
}

// PreviewRenameImpact reuses the usage query and recommendation machinery of
// impact analysis. More than one touched project always reports
// MultipleProjects, and two fixed recommendations are appended.
func (a *Analyzer) PreviewRenameImpact(ctx context.Context, currentName, proposedName string) *ImpactAnalysisResult {
	item := fmt.Sprintf("%s -> %s", currentName, proposedName)

	usages := a.FindTypeUsages(ctx, currentName)
	if !usages.Success {
		return &ImpactAnalysisResult{
			AnalyzedItem:     item,
			AffectedProjects: []string{},
			AffectedUsages:   []UsageReference{},
			Error:            usages.Error,
		}
	}

	result := &ImpactAnalysisResult{
		Success:          true,
		AnalyzedItem:     item,
		AffectedProjects: usages.Projects,
		AffectedUsages:   usages.Usages,
		Recommendations:  a.recommendations(usages),
		BreakingChanges:  breakingChanges(usages),
	}

	units := make(map[string]struct{})
	for _, u := range usages.Usages {
		units[u.Unit] = struct{}{}
	}

	switch {
	case usages.TotalUsages == 0:
		result.Scope = ScopeNone
	case len(usages.Projects) > 1:
		result.Scope = ScopeMultipleProjects
	case len(units) == 1:
		result.Scope = ScopeSameFile
	default:
		result.Scope = ScopeSameProject
	}

	result.Recommendations = append(result.Recommendations,
		fmt.Sprintf("rename affects %d sites across %d projects",
			usages.TotalUsages, len(usages.Projects)),
		"rebuild the solution after applying the rename to surface stale references")

	return result
}
