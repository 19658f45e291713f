package plugin

import (
	"errors"
	"testing"
)

func infoFor(name string, m *Manifest) *PluginInfo {
	m.Name = name
	if m.Version == "" {
		m.Version = "1.0.0"
	}
	return &PluginInfo{Name: name, Manifest: m}
}

func namesOf(infos []*PluginInfo) []string {
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

func TestResolveLoadOrderLinearLoadAfter(t *testing.T) {
	a := infoFor("a", &Manifest{})
	b := infoFor("b", &Manifest{LoadAfter: []string{"a"}})
	c := infoFor("c", &Manifest{LoadAfter: []string{"b"}})

	order, err := ResolveLoadOrder([]*PluginInfo{c, a, b})
	if err != nil {
		t.Fatalf("ResolveLoadOrder() error = %v", err)
	}

	got := namesOf(order)
	want := []string{"a", "b", "c"}
	for i, n := range want {
		if got[i] != n {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestResolveLoadOrderRequiresEdge(t *testing.T) {
	a := infoFor("a", &Manifest{})
	b := infoFor("b", &Manifest{Dependencies: []string{"a"}})

	order, err := ResolveLoadOrder([]*PluginInfo{b, a})
	if err != nil {
		t.Fatalf("ResolveLoadOrder() error = %v", err)
	}
	got := namesOf(order)
	if got[0] != "a" || got[1] != "b" {
		t.Fatalf("order = %v, want [a b]", got)
	}
}

func TestResolveLoadOrderMissingDependency(t *testing.T) {
	a := infoFor("a", &Manifest{Dependencies: []string{"ghost"}})

	_, err := ResolveLoadOrder([]*PluginInfo{a})
	if err == nil {
		t.Fatal("ResolveLoadOrder() expected error for missing dependency")
	}
	if !errors.Is(err, ErrMissingDependency) {
		t.Fatalf("error = %v, want ErrMissingDependency", err)
	}
}

func TestResolveLoadOrderMissingOptionalIsNotAnError(t *testing.T) {
	a := infoFor("a", &Manifest{Optional: []string{"ghost"}})

	_, err := ResolveLoadOrder([]*PluginInfo{a})
	if err != nil {
		t.Fatalf("ResolveLoadOrder() error = %v, want nil for missing optional dep", err)
	}
}

func TestResolveLoadOrderConflict(t *testing.T) {
	a := infoFor("a", &Manifest{Conflicts: []string{"b"}})
	b := infoFor("b", &Manifest{})

	_, err := ResolveLoadOrder([]*PluginInfo{a, b})
	if err == nil {
		t.Fatal("ResolveLoadOrder() expected error for conflicting plugins")
	}
	if !errors.Is(err, ErrConflictingPlugins) {
		t.Fatalf("error = %v, want ErrConflictingPlugins", err)
	}
}

func TestResolveLoadOrderCycle(t *testing.T) {
	a := infoFor("a", &Manifest{LoadAfter: []string{"b"}})
	b := infoFor("b", &Manifest{LoadAfter: []string{"a"}})

	_, err := ResolveLoadOrder([]*PluginInfo{a, b})
	if err == nil {
		t.Fatal("ResolveLoadOrder() expected error for dependency cycle")
	}
	if !errors.Is(err, ErrDependencyCycle) {
		t.Fatalf("error = %v, want ErrDependencyCycle", err)
	}
}

func TestResolveLoadOrderPriorityTiebreak(t *testing.T) {
	low := infoFor("low", &Manifest{Priority: 1})
	high := infoFor("high", &Manifest{Priority: 10})
	mid := infoFor("mid", &Manifest{Priority: 5})

	order, err := ResolveLoadOrder([]*PluginInfo{low, mid, high})
	if err != nil {
		t.Fatalf("ResolveLoadOrder() error = %v", err)
	}

	got := namesOf(order)
	want := []string{"high", "mid", "low"}
	for i, n := range want {
		if got[i] != n {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestResolveLoadOrderNameTiebreak(t *testing.T) {
	b := infoFor("b", &Manifest{})
	a := infoFor("a", &Manifest{})
	c := infoFor("c", &Manifest{})

	order, err := ResolveLoadOrder([]*PluginInfo{b, a, c})
	if err != nil {
		t.Fatalf("ResolveLoadOrder() error = %v", err)
	}

	got := namesOf(order)
	want := []string{"a", "b", "c"}
	for i, n := range want {
		if got[i] != n {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
