package xref

import (
	"context"
	"testing"

	"github.com/refscope/refscope-mcp/internal/resolver"
)

func TestTypeDependenciesInterfaceAndField(t *testing.T) {
	f := newFakeResolver()
	sym := f.addType("Customer", resolver.KindClass)
	f.ifaces[sym.ID] = []resolver.Symbol{
		{ID: "sym-ICustomer", Name: "ICustomer", FullName: "Acme.Shop.ICustomer", Kind: resolver.KindInterface},
	}
	f.typeMembers[sym.ID] = []resolver.Member{
		{
			Symbol:       resolver.Symbol{Name: "HomeAddress", Kind: resolver.KindField},
			DeclaredType: &resolver.TypeRef{Name: "Address", FullName: "Acme.Shop.Address", Namespace: "Acme.Shop", Kind: resolver.KindClass},
		},
	}

	a := New(f, DefaultConfig())
	result := a.TypeDependencies(context.Background(), "Customer")

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}

	var impl, comp *Dependency
	for i := range result.Outgoing {
		d := &result.Outgoing[i]
		switch d.Kind {
		case DepImplementation:
			impl = d
		case DepComposition:
			comp = d
		}
	}

	if impl == nil || impl.Dependency != "ICustomer" {
		t.Errorf("missing implementation edge to ICustomer: %+v", result.Outgoing)
	}
	if comp == nil || comp.Dependency != "Address" {
		t.Fatalf("missing composition edge to Address: %+v", result.Outgoing)
	}
	if comp.Context != "Field: HomeAddress" {
		t.Errorf("composition context: got %q, want %q", comp.Context, "Field: HomeAddress")
	}
}

func TestTypeDependenciesFiltersUniversalRoot(t *testing.T) {
	f := newFakeResolver()
	sym := f.addType("Customer", resolver.KindClass)
	f.baseTypes[sym.ID] = &resolver.Symbol{Name: "Object", FullName: "System.Object", Kind: resolver.KindClass}

	a := New(f, DefaultConfig())
	result := a.TypeDependencies(context.Background(), "Customer")

	for _, d := range result.Outgoing {
		if d.Kind == DepInheritance {
			t.Errorf("universal root must not produce an inheritance edge: %+v", d)
		}
	}
}

func TestTypeDependenciesInheritanceEdge(t *testing.T) {
	f := newFakeResolver()
	sym := f.addType("PremiumCustomer", resolver.KindClass)
	f.baseTypes[sym.ID] = &resolver.Symbol{Name: "Customer", FullName: "Acme.Shop.Customer", Kind: resolver.KindClass}

	a := New(f, DefaultConfig())
	result := a.TypeDependencies(context.Background(), "PremiumCustomer")

	if len(result.Outgoing) != 1 || result.Outgoing[0].Kind != DepInheritance || result.Outgoing[0].Dependency != "Customer" {
		t.Errorf("expected one inheritance edge to Customer, got %+v", result.Outgoing)
	}
}

func TestTypeDependenciesBuiltinFiltering(t *testing.T) {
	f := newFakeResolver()
	sym := f.addType("Customer", resolver.KindClass)
	f.typeMembers[sym.ID] = []resolver.Member{
		{
			Symbol:       resolver.Symbol{Name: "Name", Kind: resolver.KindProperty},
			DeclaredType: &resolver.TypeRef{Name: "String", FullName: "System.String", Namespace: "System", IsPrimitive: true},
		},
		{
			Symbol:       resolver.Symbol{Name: "Status", Kind: resolver.KindProperty},
			DeclaredType: &resolver.TypeRef{Name: "CustomerStatus", Namespace: "Acme.Shop", Kind: resolver.KindEnum},
		},
		{
			Symbol:       resolver.Symbol{Name: "Created", Kind: resolver.KindProperty},
			DeclaredType: &resolver.TypeRef{Name: "DateTime", FullName: "System.DateTime", Namespace: "System", Kind: resolver.KindStruct},
		},
		{
			Symbol:       resolver.Symbol{Name: "Account", Kind: resolver.KindProperty},
			DeclaredType: &resolver.TypeRef{Name: "Account", FullName: "Acme.Shop.Account", Namespace: "Acme.Shop", Kind: resolver.KindClass},
		},
	}

	a := New(f, DefaultConfig())
	result := a.TypeDependencies(context.Background(), "Customer")

	if len(result.Outgoing) != 1 {
		t.Fatalf("expected only the Account composition edge, got %+v", result.Outgoing)
	}
	if result.Outgoing[0].Dependency != "Account" || result.Outgoing[0].Context != "Property: Account" {
		t.Errorf("unexpected edge %+v", result.Outgoing[0])
	}
}

func TestTypeDependentsDedup(t *testing.T) {
	f := newFakeResolver()
	sym := f.addType("Address", resolver.KindClass)
	// Three reference sites inside the same dependent type, same role.
	for _, line := range []int{3, 8, 21} {
		f.addRef(sym, "a/customer.cs", "A", line, resolver.SyntaxContext{
			NodeKind:      resolver.SyntaxParameter,
			EnclosingType: "Customer",
		})
	}

	a := New(f, DefaultConfig())
	result := a.TypeDependents(context.Background(), "Address")

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if len(result.Incoming) != 1 {
		t.Fatalf("expected one deduplicated edge, got %+v", result.Incoming)
	}

	seen := make(map[string]int)
	for _, d := range result.Incoming {
		seen[d.Dependent+"|"+d.Dependency+"|"+string(d.Kind)]++
	}
	for key, n := range seen {
		if n > 1 {
			t.Errorf("duplicate (dependent, dependency, kind) triple %s", key)
		}
	}
}

func TestTypeDependentsSelfReferenceGuard(t *testing.T) {
	f := newFakeResolver()
	sym := f.addType("Customer", resolver.KindClass)
	f.addRef(sym, "a/customer.cs", "A", 12, resolver.SyntaxContext{
		NodeKind:      resolver.SyntaxParameter,
		EnclosingType: "Customer",
	})

	a := New(f, DefaultConfig())
	result := a.TypeDependents(context.Background(), "Customer")

	if len(result.Incoming) != 0 {
		t.Errorf("self-reference must not produce an edge: %+v", result.Incoming)
	}
}

func TestTypeDependentsEdgeKinds(t *testing.T) {
	f := newFakeResolver()
	iface := f.addType("ICustomer", resolver.KindInterface)
	f.addRef(iface, "a/customer.cs", "A", 1, resolver.SyntaxContext{
		NodeKind:      resolver.SyntaxBaseList,
		EnclosingType: "Customer",
	})
	f.addRef(iface, "a/svc.cs", "A", 5, resolver.SyntaxContext{
		NodeKind:      resolver.SyntaxFieldDeclaration,
		EnclosingType: "CustomerService",
	})
	f.addRef(iface, "a/util.cs", "A", 9, resolver.SyntaxContext{
		NodeKind:      resolver.SyntaxQualifiedName,
		EnclosingType: "Mapper",
	})

	a := New(f, DefaultConfig())
	result := a.TypeDependents(context.Background(), "ICustomer")

	kinds := make(map[string]DependencyKind)
	for _, d := range result.Incoming {
		kinds[d.Dependent] = d.Kind
	}

	if kinds["Customer"] != DepImplementation {
		t.Errorf("base-list site on interface target: got %s, want %s", kinds["Customer"], DepImplementation)
	}
	if kinds["CustomerService"] != DepComposition {
		t.Errorf("field site: got %s, want %s", kinds["CustomerService"], DepComposition)
	}
	if kinds["Mapper"] != DepUsage {
		t.Errorf("default site: got %s, want %s", kinds["Mapper"], DepUsage)
	}
}

func TestTypeDependentsBaseListClassTarget(t *testing.T) {
	f := newFakeResolver()
	base := f.addType("Customer", resolver.KindClass)
	f.addRef(base, "a/premium.cs", "A", 1, resolver.SyntaxContext{
		NodeKind:      resolver.SyntaxBaseList,
		EnclosingType: "PremiumCustomer",
	})

	a := New(f, DefaultConfig())
	result := a.TypeDependents(context.Background(), "Customer")

	if len(result.Incoming) != 1 || result.Incoming[0].Kind != DepInheritance {
		t.Errorf("base-list site on class target must be inheritance, got %+v", result.Incoming)
	}
}

func TestDedupeDependenciesKeepsDistinctKinds(t *testing.T) {
	deps := []Dependency{
		{Dependent: "A", Dependency: "B", Kind: DepUsage},
		{Dependent: "A", Dependency: "B", Kind: DepComposition},
		{Dependent: "A", Dependency: "B", Kind: DepUsage},
	}

	out := dedupeDependencies(deps)
	if len(out) != 2 {
		t.Errorf("got %d edges, want 2", len(out))
	}
}
