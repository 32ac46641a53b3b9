package xref

import (
	"context"
	"fmt"

	"github.com/refscope/refscope-mcp/internal/resolver"
)

// fakeResolver is an in-memory Resolver seeded per test.
type fakeResolver struct {
	types       map[string]*resolver.Symbol
	namespaces  map[string]*resolver.Symbol
	members     map[string]*resolver.Symbol
	refs        map[string][]resolver.ReferenceLocation
	syntax      map[string]*resolver.SyntaxContext
	syntaxErr   map[string]error
	baseTypes   map[string]*resolver.Symbol
	ifaces      map[string][]resolver.Symbol
	typeMembers map[string][]resolver.Member
	projects    []resolver.ProjectInfo
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		types:       make(map[string]*resolver.Symbol),
		namespaces:  make(map[string]*resolver.Symbol),
		members:     make(map[string]*resolver.Symbol),
		refs:        make(map[string][]resolver.ReferenceLocation),
		syntax:      make(map[string]*resolver.SyntaxContext),
		syntaxErr:   make(map[string]error),
		baseTypes:   make(map[string]*resolver.Symbol),
		ifaces:      make(map[string][]resolver.Symbol),
		typeMembers: make(map[string][]resolver.Member),
	}
}

func locKey(loc resolver.ReferenceLocation) string {
	return fmt.Sprintf("%s:%d:%d", loc.Unit, loc.Start.Line, loc.Start.Column)
}

func (f *fakeResolver) addType(name string, kind resolver.SymbolKind) *resolver.Symbol {
	sym := &resolver.Symbol{
		ID:       "sym-" + name,
		Name:     name,
		FullName: "Acme.Shop." + name,
		Kind:     kind,
	}
	f.types[name] = sym
	return sym
}

// addRef seeds one reference with its syntax context and returns the location.
func (f *fakeResolver) addRef(sym *resolver.Symbol, unit, project string, line int, sc resolver.SyntaxContext) resolver.ReferenceLocation {
	loc := resolver.ReferenceLocation{
		Unit:    unit,
		Project: project,
		Start:   resolver.Position{Line: line, Column: 1},
		End:     resolver.Position{Line: line, Column: 10},
	}
	f.refs[sym.ID] = append(f.refs[sym.ID], loc)
	sc.Location = loc
	f.syntax[locKey(loc)] = &sc
	return loc
}

func (f *fakeResolver) ResolveType(ctx context.Context, name string) (*resolver.Symbol, error) {
	return f.types[name], nil
}

func (f *fakeResolver) ResolveMember(ctx context.Context, typeName, memberName string) (*resolver.Symbol, error) {
	return f.members[typeName+"."+memberName], nil
}

func (f *fakeResolver) ResolveNamespace(ctx context.Context, name string) (*resolver.Symbol, error) {
	return f.namespaces[name], nil
}

func (f *fakeResolver) FindReferences(ctx context.Context, symbolID string) ([]resolver.ReferenceLocation, error) {
	return f.refs[symbolID], nil
}

func (f *fakeResolver) EnclosingSyntax(ctx context.Context, loc resolver.ReferenceLocation) (*resolver.SyntaxContext, error) {
	key := locKey(loc)
	if err, ok := f.syntaxErr[key]; ok {
		return nil, err
	}
	sc, ok := f.syntax[key]
	if !ok {
		return nil, fmt.Errorf("no syntax context for %s", key)
	}
	return sc, nil
}

func (f *fakeResolver) BaseType(ctx context.Context, symbolID string) (*resolver.Symbol, error) {
	return f.baseTypes[symbolID], nil
}

func (f *fakeResolver) ImplementedInterfaces(ctx context.Context, symbolID string) ([]resolver.Symbol, error) {
	return f.ifaces[symbolID], nil
}

func (f *fakeResolver) Members(ctx context.Context, symbolID string) ([]resolver.Member, error) {
	return f.typeMembers[symbolID], nil
}

func (f *fakeResolver) Projects(ctx context.Context) ([]resolver.ProjectInfo, error) {
	return f.projects, nil
}
