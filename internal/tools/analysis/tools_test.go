package analysis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/refscope/refscope-mcp/internal/resolver"
	"github.com/refscope/refscope-mcp/internal/tools"
	"github.com/refscope/refscope-mcp/internal/xref"
)

// offlineResolver answers every query with ErrNotLoaded, which is enough to
// exercise the tool surface: argument validation plus the analyzer's
// failure-result path.
type offlineResolver struct{}

func (offlineResolver) ResolveType(ctx context.Context, name string) (*resolver.Symbol, error) {
	return nil, resolver.ErrNotLoaded
}

func (offlineResolver) ResolveMember(ctx context.Context, typeName, memberName string) (*resolver.Symbol, error) {
	return nil, resolver.ErrNotLoaded
}

func (offlineResolver) ResolveNamespace(ctx context.Context, name string) (*resolver.Symbol, error) {
	return nil, resolver.ErrNotLoaded
}

func (offlineResolver) FindReferences(ctx context.Context, symbolID string) ([]resolver.ReferenceLocation, error) {
	return nil, resolver.ErrNotLoaded
}

func (offlineResolver) EnclosingSyntax(ctx context.Context, loc resolver.ReferenceLocation) (*resolver.SyntaxContext, error) {
	return nil, resolver.ErrNotLoaded
}

func (offlineResolver) BaseType(ctx context.Context, symbolID string) (*resolver.Symbol, error) {
	return nil, resolver.ErrNotLoaded
}

func (offlineResolver) ImplementedInterfaces(ctx context.Context, symbolID string) ([]resolver.Symbol, error) {
	return nil, resolver.ErrNotLoaded
}

func (offlineResolver) Members(ctx context.Context, symbolID string) ([]resolver.Member, error) {
	return nil, resolver.ErrNotLoaded
}

func (offlineResolver) Projects(ctx context.Context) ([]resolver.ProjectInfo, error) {
	return nil, resolver.ErrNotLoaded
}

func newTestRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	reg := tools.NewRegistry()
	analyzer := xref.New(offlineResolver{}, xref.DefaultConfig())
	if err := RegisterAll(reg, analyzer); err != nil {
		t.Fatalf("register: %v", err)
	}
	return reg
}

func TestRegisterAllToolNames(t *testing.T) {
	reg := newTestRegistry(t)

	want := []string{
		"find_type_usages",
		"find_member_usages",
		"find_namespace_usages",
		"get_type_dependencies",
		"get_type_dependents",
		"analyze_impact_scope",
		"validate_rename_safety",
		"preview_rename_impact",
	}

	for _, name := range want {
		if _, ok := reg.Get(name); !ok {
			t.Errorf("tool %s not registered", name)
		}
	}
	if got := len(reg.Names()); got != len(want) {
		t.Errorf("got %d tools, want %d", got, len(want))
	}
}

func TestToolsRejectMissingArguments(t *testing.T) {
	reg := newTestRegistry(t)

	cases := []struct {
		tool  string
		input string
	}{
		{"find_type_usages", `{}`},
		{"find_member_usages", `{"typeName":"Customer"}`},
		{"find_namespace_usages", `{}`},
		{"get_type_dependencies", `{}`},
		{"get_type_dependents", `{}`},
		{"analyze_impact_scope", `{}`},
		{"validate_rename_safety", `{"currentName":"Customer"}`},
		{"preview_rename_impact", `{"proposedName":"Patron"}`},
	}

	for _, tc := range cases {
		if _, err := reg.Execute(context.Background(), tc.tool, json.RawMessage(tc.input)); err == nil {
			t.Errorf("%s: missing required argument must error", tc.tool)
		}
	}
}

func TestToolsRejectMalformedJSON(t *testing.T) {
	reg := newTestRegistry(t)

	if _, err := reg.Execute(context.Background(), "find_type_usages", json.RawMessage(`{broken`)); err == nil {
		t.Error("malformed input must error")
	}
}

func TestNotLoadedSurfacesAsFailureResult(t *testing.T) {
	reg := newTestRegistry(t)

	raw, err := reg.Execute(context.Background(), "find_type_usages", json.RawMessage(`{"typeName":"Customer"}`))
	if err != nil {
		t.Fatalf("not-loaded must be a result, not a protocol error: %v", err)
	}

	result, ok := raw.(*xref.UsageAnalysisResult)
	if !ok {
		t.Fatalf("unexpected result type %T", raw)
	}
	if result.Success {
		t.Error("expected failure result")
	}
	if result.Error == "" {
		t.Error("expected a not-loaded error message")
	}
}

func TestSchemasAreValidJSON(t *testing.T) {
	reg := newTestRegistry(t)

	for _, tool := range reg.List() {
		var schema map[string]interface{}
		if err := json.Unmarshal(tool.Schema(), &schema); err != nil {
			t.Errorf("%s: schema is not valid JSON: %v", tool.Name(), err)
			continue
		}
		if schema["type"] != "object" {
			t.Errorf("%s: schema root must be an object", tool.Name())
		}
	}
}

func TestToolsCarryReadOnlyAnnotations(t *testing.T) {
	reg := newTestRegistry(t)

	for _, tool := range reg.List() {
		annotated, ok := tool.(tools.AnnotatedTool)
		if !ok {
			t.Errorf("%s: missing annotations", tool.Name())
			continue
		}
		if !annotated.Annotations()["readOnlyHint"] {
			t.Errorf("%s: analysis tools are read-only", tool.Name())
		}
	}
}
