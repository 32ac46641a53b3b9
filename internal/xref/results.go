package xref

// UsageReference is one classified reference site. It is immutable after
// creation and scoped to a single analysis call.
type UsageReference struct {
	Unit            string    `json:"unit"`
	Project         string    `json:"project,omitempty"`
	StartLine       int       `json:"start_line"`
	StartColumn     int       `json:"start_column"`
	EndLine         int       `json:"end_line"`
	EndColumn       int       `json:"end_column"`
	Kind            UsageKind `json:"kind"`
	Context         string    `json:"context,omitempty"`
	Snippet         string    `json:"snippet,omitempty"`
	EnclosingMember string    `json:"enclosing_member,omitempty"`
	EnclosingType   string    `json:"enclosing_type,omitempty"`
}

// MemberUsageReference mirrors UsageReference for member queries.
type MemberUsageReference struct {
	Unit            string          `json:"unit"`
	Project         string          `json:"project,omitempty"`
	StartLine       int             `json:"start_line"`
	StartColumn     int             `json:"start_column"`
	EndLine         int             `json:"end_line"`
	EndColumn       int             `json:"end_column"`
	Kind            MemberUsageKind `json:"kind"`
	Context         string          `json:"context,omitempty"`
	Snippet         string          `json:"snippet,omitempty"`
	EnclosingMember string          `json:"enclosing_member,omitempty"`
	EnclosingType   string          `json:"enclosing_type,omitempty"`
}

// Dependency is one edge in the type-dependency graph. Identity for dedup
// purposes is the (Dependent, Dependency, Kind) triple.
type Dependency struct {
	Dependent  string         `json:"dependent"`
	Dependency string         `json:"dependency"`
	Kind       DependencyKind `json:"kind"`
	Context    string         `json:"context,omitempty"`
}

// UsageAnalysisResult is the outcome of a type or namespace usage query.
// Created fresh per call, never cached or shared.
type UsageAnalysisResult struct {
	Success      bool              `json:"success"`
	QueriedName  string            `json:"queried_name"`
	ResolvedName string            `json:"resolved_name,omitempty"`
	Namespace    string            `json:"namespace,omitempty"`
	TotalUsages  int               `json:"total_usages"`
	Usages       []UsageReference  `json:"usages"`
	UsagesByKind map[UsageKind]int `json:"usages_by_kind"`
	Projects     []string          `json:"projects"`
	Error        string            `json:"error,omitempty"`
}

// MemberUsageAnalysisResult is the outcome of a member usage query.
type MemberUsageAnalysisResult struct {
	Success      bool                    `json:"success"`
	QueriedType  string                  `json:"queried_type"`
	QueriedName  string                  `json:"queried_name"`
	ResolvedName string                  `json:"resolved_name,omitempty"`
	TotalUsages  int                     `json:"total_usages"`
	Usages       []MemberUsageReference  `json:"usages"`
	UsagesByKind map[MemberUsageKind]int `json:"usages_by_kind"`
	Projects     []string                `json:"projects"`
	Error        string                  `json:"error,omitempty"`
}

// DependencyAnalysisResult carries one direction of the dependency graph
// around a type.
type DependencyAnalysisResult struct {
	Success       bool         `json:"success"`
	AnalyzedType  string       `json:"analyzed_type"`
	Outgoing      []Dependency `json:"outgoing,omitempty"`
	Incoming      []Dependency `json:"incoming,omitempty"`
	TotalOutgoing int          `json:"total_outgoing"`
	TotalIncoming int          `json:"total_incoming"`
	Error         string       `json:"error,omitempty"`
}

// ImpactAnalysisResult is the scope verdict for a proposed change to a type.
type ImpactAnalysisResult struct {
	Success          bool             `json:"success"`
	AnalyzedItem     string           `json:"analyzed_item"`
	Scope            ImpactScope      `json:"scope"`
	AffectedProjects []string         `json:"affected_projects"`
	AffectedUsages   []UsageReference `json:"affected_usages"`
	BreakingChanges  []string         `json:"breaking_changes,omitempty"`
	Recommendations  []string         `json:"recommendations,omitempty"`
	Error            string           `json:"error,omitempty"`
}

// RenameSafetyResult is the verdict for a proposed rename.
type RenameSafetyResult struct {
	Success        bool             `json:"success"`
	CurrentName    string           `json:"current_name"`
	ProposedName   string           `json:"proposed_name"`
	Safe           bool             `json:"safe"`
	Conflicts      []string         `json:"conflicts,omitempty"`
	Warnings       []string         `json:"warnings,omitempty"`
	AffectedUsages []UsageReference `json:"affected_usages"`
	Error          string           `json:"error,omitempty"`
}
