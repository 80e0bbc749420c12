package components

import "testing"

func TestCatalogHasEveryType(t *testing.T) {
	types := Types()
	if len(types) != 24 {
		t.Fatalf("catalog has %d types, want 24", len(types))
	}
	for _, typ := range types {
		d, ok := Lookup(typ)
		if !ok {
			t.Fatalf("Lookup(%q) failed", typ)
		}
		if d.Type != typ {
			t.Errorf("definition type = %q, want %q", d.Type, typ)
		}
		if d.Label == "" {
			t.Errorf("%s has no label", typ)
		}
	}
}

func TestContainers(t *testing.T) {
	tests := map[string]bool{
		Section:   true,
		Container: true,
		Grid:      true,
		Column:    true,
		Card:      true,
		Form:      true,
		Hero:      false,
		Button:    false,
		Markdown:  false,
		"Widget":  true,
	}
	for typ, want := range tests {
		if got := IsContainer(typ); got != want {
			t.Errorf("IsContainer(%q) = %v, want %v", typ, got, want)
		}
	}
}

func TestSingletons(t *testing.T) {
	for _, typ := range Types() {
		want := typ == Navbar || typ == Footer
		if IsSingleton(typ) != want {
			t.Errorf("IsSingleton(%q) = %v, want %v", typ, !want, want)
		}
	}
	if IsSingleton("Widget") {
		t.Error("unknown type reported as singleton")
	}
}

func TestDefaultPropsAreCopies(t *testing.T) {
	a := DefaultProps(Features)
	a["title"] = "Changed"
	a["items"].([]any)[0].(map[string]any)["title"] = "Slow"

	b := DefaultProps(Features)
	if b["title"] != "Our Features" {
		t.Errorf("title = %v, catalog default was mutated", b["title"])
	}
	if b["items"].([]any)[0].(map[string]any)["title"] != "Fast" {
		t.Error("nested default was mutated")
	}
}

func TestHeroDefaults(t *testing.T) {
	p := DefaultProps(Hero)
	if p["title"] != "Welcome to My Website" {
		t.Errorf("title = %v", p["title"])
	}
	if p["description"] != "Build amazing websites with our drag and drop editor" {
		t.Errorf("description = %v", p["description"])
	}
}

func TestUnknownTypeDefaults(t *testing.T) {
	if p := DefaultProps("Widget"); len(p) != 0 {
		t.Errorf("DefaultProps(Widget) = %v, want empty", p)
	}
	if _, ok := Default("Widget", "x"); ok {
		t.Error("Default on unknown type reported a value")
	}
	if Known("Widget") {
		t.Error("Widget reported as known")
	}
}
