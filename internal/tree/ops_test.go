package tree

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func sampleTree() []Node {
	return []Node{
		{ID: "nav", Type: "Navbar", Props: map[string]any{"brand": "Acme"}},
		{ID: "sec", Type: "Section", Children: []Node{
			{ID: "h1", Type: "Heading", Props: map[string]any{"text": "Hi"}},
			{ID: "card", Type: "Card", Children: []Node{
				{ID: "btn", Type: "Button", Props: map[string]any{"text": "Go"}},
			}},
		}},
		{ID: "foot", Type: "Footer"},
	}
}

func counterIDs(prefix string) IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func TestFindByID(t *testing.T) {
	nodes := sampleTree()

	n, ok := FindByID(nodes, "btn")
	if !ok {
		t.Fatal("expected to find btn")
	}
	if n.Type != "Button" {
		t.Errorf("type = %q, want Button", n.Type)
	}

	if _, ok := FindByID(nodes, "missing"); ok {
		t.Error("expected missing id to report absence")
	}
	if _, ok := FindByID(nil, "btn"); ok {
		t.Error("expected empty forest to report absence")
	}
}

func TestFindFirstByTypePreOrder(t *testing.T) {
	nodes := []Node{
		{ID: "a", Type: "Section", Children: []Node{{ID: "b", Type: "Text"}}},
		{ID: "c", Type: "Text"},
	}
	n, ok := FindFirstByType(nodes, "Text")
	if !ok || n.ID != "b" {
		t.Errorf("got (%q, %v), want nested b first", n.ID, ok)
	}
}

func TestCollectIDs(t *testing.T) {
	got := CollectIDs(sampleTree())
	want := []string{"nav", "sec", "h1", "card", "btn", "foot"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CollectIDs = %v, want %v", got, want)
	}
	if ids := CollectIDs(nil); len(ids) != 0 {
		t.Errorf("CollectIDs(nil) = %v, want empty", ids)
	}
}

func TestInsert(t *testing.T) {
	newNode := Node{ID: "new", Type: "Text"}

	tests := []struct {
		name     string
		targetID string
		pos      Position
		wantIDs  []string
	}{
		{"root append without target", "", Inside, []string{"nav", "sec", "h1", "card", "btn", "foot", "new"}},
		{"unknown target falls back to root", "nope", Inside, []string{"nav", "sec", "h1", "card", "btn", "foot", "new"}},
		{"inside nested container", "card", Inside, []string{"nav", "sec", "h1", "card", "btn", "new", "foot"}},
		{"before sibling", "h1", Before, []string{"nav", "sec", "new", "h1", "card", "btn", "foot"}},
		{"after root sibling", "nav", After, []string{"nav", "new", "sec", "h1", "card", "btn", "foot"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := sampleTree()
			got := Insert(original, newNode, tt.targetID, tt.pos)
			if ids := CollectIDs(got); !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
			if !Equal(original, sampleTree()) {
				t.Error("Insert mutated its input")
			}
		})
	}
}

func TestInsertInsideLeafParent(t *testing.T) {
	got := Insert(sampleTree(), Node{ID: "x", Type: "Text"}, "sec", Inside)
	sec, _ := FindByID(got, "sec")
	if last := sec.Children[len(sec.Children)-1]; last.ID != "x" {
		t.Errorf("last child = %q, want x", last.ID)
	}
}

func TestParsePosition(t *testing.T) {
	tests := map[string]Position{
		"inside": Inside,
		"BEFORE": Before,
		" after": After,
		"":       Inside,
		"left":   Inside,
	}
	for in, want := range tests {
		if got := ParsePosition(in); got != want {
			t.Errorf("ParsePosition(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUpdateMergesProps(t *testing.T) {
	original := sampleTree()
	got := Update(original, "btn", map[string]any{"text": "Buy", "href": "/buy"})

	btn, _ := FindByID(got, "btn")
	if btn.Props["text"] != "Buy" || btn.Props["href"] != "/buy" {
		t.Errorf("props = %v", btn.Props)
	}

	old, _ := FindByID(original, "btn")
	if old.Props["text"] != "Go" {
		t.Errorf("original mutated: %v", old.Props)
	}
	if _, ok := old.Props["href"]; ok {
		t.Error("original gained a prop")
	}
}

func TestUpdateSharesUnrelatedSubtrees(t *testing.T) {
	original := sampleTree()
	got := Update(original, "nav", map[string]any{"brand": "New"})

	// The Section subtree is untouched and may be shared.
	if &got[1].Children[0] != &original[1].Children[0] {
		t.Error("expected unrelated subtree to be shared")
	}
	if &got[0] == &original[0] {
		t.Error("expected root slice to be copied")
	}
}

func TestUpdateMissingIDIsNoop(t *testing.T) {
	original := sampleTree()
	got := Update(original, "ghost", map[string]any{"x": 1})
	if !Equal(got, original) {
		t.Error("update of missing id changed the tree")
	}
}

func TestUpdateKeepsOtherProps(t *testing.T) {
	got := Update(sampleTree(), "nav", map[string]any{"sticky": true})
	nav, _ := FindByID(got, "nav")
	if nav.Props["brand"] != "Acme" || nav.Props["sticky"] != true {
		t.Errorf("props = %v", nav.Props)
	}
}

func TestRemove(t *testing.T) {
	original := sampleTree()

	got := Remove(original, "card")
	want := []string{"nav", "sec", "h1", "foot"}
	if ids := CollectIDs(got); !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}

	got = Remove(original, "nav")
	if got[0].ID != "sec" {
		t.Errorf("first root = %q, want sec", got[0].ID)
	}

	if !Equal(original, sampleTree()) {
		t.Error("Remove mutated its input")
	}
}

func TestRemoveMissingIDIsNoop(t *testing.T) {
	original := sampleTree()
	if got := Remove(original, "ghost"); !Equal(got, original) {
		t.Error("remove of missing id changed the tree")
	}
}

func TestDuplicate(t *testing.T) {
	original := sampleTree()
	got := Duplicate(original, "card", counterIDs("copy"))

	sec, _ := FindByID(got, "sec")
	if len(sec.Children) != 3 {
		t.Fatalf("section children = %d, want 3", len(sec.Children))
	}
	copied := sec.Children[2]
	if copied.ID != "copy-1" || copied.Type != "Card" {
		t.Errorf("copy = %q/%q", copied.ID, copied.Type)
	}
	if copied.Children[0].ID != "copy-2" {
		t.Errorf("nested copy id = %q, want copy-2", copied.Children[0].ID)
	}
	if !reflect.DeepEqual(copied.Children[0].Props, map[string]any{"text": "Go"}) {
		t.Errorf("nested copy props = %v", copied.Children[0].Props)
	}

	if !Equal(original, sampleTree()) {
		t.Error("Duplicate mutated its input")
	}
}

func TestDuplicateCopyIsIndependent(t *testing.T) {
	got := Duplicate(sampleTree(), "nav", counterIDs("d"))
	got[1].Props["brand"] = "Changed"
	if got[0].Props["brand"] != "Acme" {
		t.Error("copy shares props with original")
	}
}

func TestDuplicateMissingIDIsNoop(t *testing.T) {
	original := sampleTree()
	if got := Duplicate(original, "ghost", nil); !Equal(got, original) {
		t.Error("duplicate of missing id changed the tree")
	}
}

func TestDuplicateDefaultIDs(t *testing.T) {
	got := Duplicate(sampleTree(), "sec", nil)
	if err := Validate(got, nil); err != nil {
		t.Errorf("duplicate produced invalid tree: %v", err)
	}
}

func TestHeroDuplicateScenario(t *testing.T) {
	home := []Node{{
		ID:   "hero-1",
		Type: "Hero",
		Props: map[string]any{
			"title":       "Welcome to My Website",
			"description": "Build amazing websites with our drag and drop editor",
		},
	}}

	got := Duplicate(home, "hero-1", nil)
	if len(got) != 2 {
		t.Fatalf("root length = %d, want 2", len(got))
	}
	if got[1].Type != "Hero" {
		t.Errorf("second type = %q, want Hero", got[1].Type)
	}
	if !reflect.DeepEqual(got[0].Props, got[1].Props) {
		t.Errorf("props differ: %v vs %v", got[0].Props, got[1].Props)
	}
	if got[0].ID == got[1].ID {
		t.Error("duplicate reused the original id")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(sampleTree(), nil); err != nil {
		t.Fatalf("valid tree rejected: %v", err)
	}

	dup := append(sampleTree(), Node{ID: "btn", Type: "Button"})
	if err := Validate(dup, nil); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("err = %v, want ErrDuplicateID", err)
	}

	if err := Validate([]Node{{Type: "Text"}}, nil); !errors.Is(err, ErrEmptyID) {
		t.Errorf("err = %v, want ErrEmptyID", err)
	}
	if err := Validate([]Node{{ID: "x"}}, nil); !errors.Is(err, ErrEmptyType) {
		t.Errorf("err = %v, want ErrEmptyType", err)
	}

	// A shared seen set catches ids reused across forests.
	seen := map[string]bool{}
	if err := Validate([]Node{{ID: "a", Type: "Text"}}, seen); err != nil {
		t.Fatal(err)
	}
	if err := Validate([]Node{{ID: "a", Type: "Text"}}, seen); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("cross-forest err = %v, want ErrDuplicateID", err)
	}
}

func TestEqualTreatsNilAndEmptyAlike(t *testing.T) {
	a := []Node{{ID: "a", Type: "Text", Props: map[string]any{}, Children: []Node{}}}
	b := []Node{{ID: "a", Type: "Text"}}
	if !Equal(a, b) {
		t.Error("nil and empty should compare equal")
	}
	c := []Node{{ID: "a", Type: "Text", Props: map[string]any{"x": 1.0}}}
	if Equal(b, c) {
		t.Error("different props compared equal")
	}
}

func TestCloneIsDeep(t *testing.T) {
	original := []Node{{ID: "f", Type: "Features", Props: map[string]any{
		"items": []any{map[string]any{"title": "Fast"}},
	}}}
	c := Clone(original)
	c[0].Props["items"].([]any)[0].(map[string]any)["title"] = "Slow"

	item := original[0].Props["items"].([]any)[0].(map[string]any)
	if item["title"] != "Fast" {
		t.Error("Clone shared nested prop containers")
	}
}

func TestCount(t *testing.T) {
	if got := Count(sampleTree()); got != 6 {
		t.Errorf("Count = %d, want 6", got)
	}
}
