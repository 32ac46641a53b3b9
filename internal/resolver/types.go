package resolver

import "time"

type ResolverState string

const (
	StateStopped      ResolverState = "stopped"
	StateStarting     ResolverState = "starting"
	StateInitializing ResolverState = "initializing"
	StateReady        ResolverState = "ready"
	StateError        ResolverState = "error"
)

// SymbolKind is the resolver-reported kind of a declared symbol.
type SymbolKind string

const (
	KindClass     SymbolKind = "class"
	KindStruct    SymbolKind = "struct"
	KindInterface SymbolKind = "interface"
	KindEnum      SymbolKind = "enum"
	KindDelegate  SymbolKind = "delegate"
	KindMethod    SymbolKind = "method"
	KindProperty  SymbolKind = "property"
	KindField     SymbolKind = "field"
	KindEvent     SymbolKind = "event"
	KindNamespace SymbolKind = "namespace"
)

func (k SymbolKind) IsInterface() bool {
	return k == KindInterface
}

func (k SymbolKind) IsType() bool {
	switch k {
	case KindClass, KindStruct, KindInterface, KindEnum, KindDelegate:
		return true
	}
	return false
}

// Symbol is a resolver-owned handle to a declared type, member, or namespace.
// ID is opaque; equality is resolver-defined and callers must compare by ID,
// never structurally.
type Symbol struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	FullName    string     `json:"full_name"`
	Namespace   string     `json:"namespace,omitempty"`
	Kind        SymbolKind `json:"kind"`
	Project     string     `json:"project,omitempty"`
	IsPrimitive bool       `json:"is_primitive,omitempty"`
}

// TypeRef is the declared type of a member, as reported by the resolver.
type TypeRef struct {
	Name        string     `json:"name"`
	FullName    string     `json:"full_name"`
	Namespace   string     `json:"namespace,omitempty"`
	Kind        SymbolKind `json:"kind"`
	IsPrimitive bool       `json:"is_primitive,omitempty"`
}

// Member is a symbol together with its declared type, for property/field
// composition analysis.
type Member struct {
	Symbol
	DeclaredType *TypeRef `json:"declared_type,omitempty"`
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ReferenceLocation is one syntactic occurrence of a symbol. It is produced
// by the resolver and never mutated here.
type ReferenceLocation struct {
	Unit    string   `json:"unit"`
	Project string   `json:"project,omitempty"`
	Start   Position `json:"start"`
	End     Position `json:"end"`
}

// SyntaxKind identifies the syntactic construct at or around a reference site.
type SyntaxKind string

const (
	SyntaxTypeDeclaration     SyntaxKind = "type_declaration"
	SyntaxObjectCreation      SyntaxKind = "object_creation"
	SyntaxParameter           SyntaxKind = "parameter"
	SyntaxReturnType          SyntaxKind = "return_type"
	SyntaxPropertyDeclaration SyntaxKind = "property_declaration"
	SyntaxFieldDeclaration    SyntaxKind = "field_declaration"
	SyntaxEventDeclaration    SyntaxKind = "event_declaration"
	SyntaxAttribute           SyntaxKind = "attribute"
	SyntaxCast                SyntaxKind = "cast"
	SyntaxTypeOf              SyntaxKind = "typeof"
	SyntaxIsPattern           SyntaxKind = "is_pattern"
	SyntaxAsExpression        SyntaxKind = "as_expression"
	SyntaxUsingDirective      SyntaxKind = "using_directive"
	SyntaxTypeArgumentList    SyntaxKind = "type_argument_list"
	SyntaxLocalDeclaration    SyntaxKind = "local_declaration"
	SyntaxBaseList            SyntaxKind = "base_list"
	SyntaxInvocation          SyntaxKind = "invocation"
	SyntaxArgumentList        SyntaxKind = "argument_list"
	SyntaxMemberAccess        SyntaxKind = "member_access"
	SyntaxQualifiedName       SyntaxKind = "qualified_name"
)

// SyntaxContext describes the syntax surrounding one reference location.
// Ancestors are ordered nearest-first and stop at the enclosing type
// declaration.
type SyntaxContext struct {
	NodeKind           SyntaxKind        `json:"node_kind"`
	Ancestors          []SyntaxKind      `json:"ancestors,omitempty"`
	EnclosingType      string            `json:"enclosing_type,omitempty"`
	EnclosingMember    string            `json:"enclosing_member,omitempty"`
	Snippet            string            `json:"snippet,omitempty"`
	IsAssignmentTarget bool              `json:"is_assignment_target,omitempty"`
	Location           ReferenceLocation `json:"location"`
}

type ProjectInfo struct {
	Name        string `json:"name"`
	Path        string `json:"path,omitempty"`
	Language    string `json:"language,omitempty"`
	SourceUnits int    `json:"source_units,omitempty"`
}

type SnapshotInfo struct {
	Path     string        `json:"path"`
	Projects []ProjectInfo `json:"projects"`
	LoadedAt time.Time     `json:"loaded_at"`
}

type DiagnosticSeverity string

const (
	SeverityError   DiagnosticSeverity = "error"
	SeverityWarning DiagnosticSeverity = "warning"
	SeverityInfo    DiagnosticSeverity = "info"
	SeverityHint    DiagnosticSeverity = "hint"
)

type Diagnostic struct {
	Unit     string             `json:"unit"`
	Project  string             `json:"project,omitempty"`
	Line     int                `json:"line"`
	Column   int                `json:"column"`
	Severity DiagnosticSeverity `json:"severity"`
	Code     string             `json:"code,omitempty"`
	Message  string             `json:"message"`
}

type ResolverStats struct {
	State        ResolverState `json:"state"`
	RequestCount int64         `json:"request_count"`
	ErrorCount   int64         `json:"error_count"`
	StartedAt    time.Time     `json:"started_at,omitempty"`
	LastRequest  time.Time     `json:"last_request,omitempty"`
	LastErrorMsg string        `json:"last_error_msg,omitempty"`
	Uptime       time.Duration `json:"uptime,omitempty"`
}
