package xref

// UsageKind is the syntactic role a reference location plays. Exactly one
// kind is assigned per usage; ties are broken by rule-table precedence.
type UsageKind string

const (
	UsageDeclaration             UsageKind = "declaration"
	UsageInstantiation           UsageKind = "instantiation"
	UsageMethodParameter         UsageKind = "method_parameter"
	UsageMethodReturnType        UsageKind = "method_return_type"
	UsagePropertyType            UsageKind = "property_type"
	UsageFieldType               UsageKind = "field_type"
	UsageGenericTypeArgument     UsageKind = "generic_type_argument"
	UsageBaseClass               UsageKind = "base_class"
	UsageImplementedInterface    UsageKind = "implemented_interface"
	UsageAttribute               UsageKind = "attribute_usage"
	UsageCastOperation           UsageKind = "cast_operation"
	UsageTypeOfExpression        UsageKind = "typeof_expression"
	UsageIsExpression            UsageKind = "is_expression"
	UsageAsExpression            UsageKind = "as_expression"
	UsageUsingDirective          UsageKind = "using_directive"
	UsageFullyQualifiedReference UsageKind = "fully_qualified_reference"
	UsageLocalVariable           UsageKind = "local_variable"
	UsageEventType               UsageKind = "event_type"
)

// MemberUsageKind is the access role of a member reference.
type MemberUsageKind string

const (
	MemberMethodCall     MemberUsageKind = "method_call"
	MemberPropertyAccess MemberUsageKind = "property_access"
	MemberPropertySet    MemberUsageKind = "property_set"
	MemberFieldAccess    MemberUsageKind = "field_access"
	MemberFieldSet       MemberUsageKind = "field_set"
)

// DependencyKind is the structural relationship a type has to a type it
// depends on.
type DependencyKind string

const (
	DepInheritance       DependencyKind = "inheritance"
	DepImplementation    DependencyKind = "implementation"
	DepComposition       DependencyKind = "composition"
	DepAggregation       DependencyKind = "aggregation"
	DepUsage             DependencyKind = "usage"
	DepGenericConstraint DependencyKind = "generic_constraint"
	DepAttribute         DependencyKind = "attribute"
)

// ImpactScope classifies how widely a change to a symbol would be felt.
// Values are ordered by increasing severity.
type ImpactScope int

const (
	ScopeNone ImpactScope = iota
	ScopeSameFile
	ScopeSameProject
	ScopeMultipleProjects
	ScopeEntireSolution
)

var scopeNames = map[ImpactScope]string{
	ScopeNone:             "none",
	ScopeSameFile:         "same_file",
	ScopeSameProject:      "same_project",
	ScopeMultipleProjects: "multiple_projects",
	ScopeEntireSolution:   "entire_solution",
}

func (s ImpactScope) String() string {
	if name, ok := scopeNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s ImpactScope) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}
