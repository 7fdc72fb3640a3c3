package dom

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// buildSample builds
//
//	fragment
//	  div#a
//	    span#b
//	      "text"
//	    <!--c-->
//	  p#d
func buildSample(t *testing.T) (*Tree, NodeID, map[string]NodeID) {
	t.Helper()

	tree := NewTree()
	root := tree.NewFragment()
	ids := map[string]NodeID{
		"a":    tree.NewElement("div", Attr{Key: "id", Value: "a"}),
		"b":    tree.NewElement("span", Attr{Key: "id", Value: "b"}),
		"text": tree.NewText("text"),
		"c":    tree.NewComment("c"),
		"d":    tree.NewElement("p", Attr{Key: "id", Value: "d"}),
	}
	tree.AppendChild(root, ids["a"])
	tree.AppendChild(ids["a"], ids["b"])
	tree.AppendChild(ids["b"], ids["text"])
	tree.AppendChild(ids["a"], ids["c"])
	tree.AppendChild(root, ids["d"])
	return tree, root, ids
}

func walkOrder(tree *Tree, root NodeID) []NodeID {
	var out []NodeID
	for _, n := range tree.Walk(root) {
		out = append(out, n)
	}
	return out
}

func TestWalk_PreOrder(t *testing.T) {
	tree, root, ids := buildSample(t)

	want := []NodeID{ids["a"], ids["b"], ids["text"], ids["c"], ids["d"]}
	for range 3 {
		if diff := cmp.Diff(want, walkOrder(tree, root)); diff != "" {
			t.Fatalf("Walk() mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestWalk_IndicesAreSequential(t *testing.T) {
	tree, root, _ := buildSample(t)

	expected := 0
	for i := range tree.Walk(root) {
		if i != expected {
			t.Fatalf("index = %d, want %d", i, expected)
		}
		expected++
	}
	if expected != 5 {
		t.Errorf("visited %d nodes, want 5", expected)
	}
}

func TestWalk_SkipsNonIndexedButVisitsChildren(t *testing.T) {
	tree := NewTree()
	root := tree.NewFragment()
	doctype := tree.NewNode(KindDoctype, "html")
	el := tree.NewElement("i")
	tree.AppendChild(root, doctype)
	tree.AppendChild(doctype, el)

	if diff := cmp.Diff([]NodeID{el}, walkOrder(tree, root)); diff != "" {
		t.Errorf("Walk() mismatch (-want +got):\n%s", diff)
	}
	if got := tree.Count(doctype); got != 1 {
		t.Errorf("Count(doctype) = %d, want 1", got)
	}
}

func TestWalk_SubtreeOnly(t *testing.T) {
	tree, _, ids := buildSample(t)

	want := []NodeID{ids["b"], ids["text"], ids["c"]}
	if diff := cmp.Diff(want, walkOrder(tree, ids["a"])); diff != "" {
		t.Errorf("Walk(a) mismatch (-want +got):\n%s", diff)
	}
	if got := walkOrder(tree, ids["d"]); len(got) != 0 {
		t.Errorf("Walk(d) = %v, want empty", got)
	}
}

func TestIndexAndAt(t *testing.T) {
	tree, root, ids := buildSample(t)

	for i, name := range []string{"a", "b", "text", "c", "d"} {
		if got := tree.Index(root, ids[name]); got != i {
			t.Errorf("Index(%s) = %d, want %d", name, got, i)
		}
		if got := tree.At(root, i); got != ids[name] {
			t.Errorf("At(%d) = %d, want %d", i, got, ids[name])
		}
	}
	if got := tree.Index(root, root); got != -1 {
		t.Errorf("Index(root) = %d, want -1", got)
	}
	if got := tree.At(root, 5); got != NoNode {
		t.Errorf("At(5) = %d, want NoNode", got)
	}
	if got := tree.At(root, -1); got != NoNode {
		t.Errorf("At(-1) = %d, want NoNode", got)
	}
}

func TestPreceding(t *testing.T) {
	tree, root, ids := buildSample(t)

	// doctype between div#a and p#d
	doctype := tree.NewNode(KindDoctype, "html")
	tree.InsertBefore(root, doctype, ids["d"])

	tests := []struct {
		name string
		id   NodeID
		want int
	}{
		{"first", ids["a"], 0},
		{"indexed same as Index", ids["c"], 3},
		{"non-indexed takes next position", doctype, 4},
		{"after non-indexed", ids["d"], 4},
		{"root is not reachable", root, -1},
		{"detached", tree.NewElement("x"), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tree.Preceding(root, tt.id); got != tt.want {
				t.Errorf("Preceding() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRefIsTreeScoped(t *testing.T) {
	tree, _, ids := buildSample(t)
	other, _, otherIDs := buildSample(t)

	// same arena layout, so node ids collide
	if ids["b"] != otherIDs["b"] {
		t.Fatalf("sample ids differ: %d != %d", ids["b"], otherIDs["b"])
	}

	ref := tree.Ref(ids["b"])
	if id, ok := tree.Local(ref); !ok || id != ids["b"] {
		t.Errorf("Local(own ref) = %d, %v; want %d, true", id, ok, ids["b"])
	}
	if id, ok := other.Local(ref); ok || id != NoNode {
		t.Errorf("Local(foreign ref) = %d, %v; want NoNode, false", id, ok)
	}
	if ref.Tree() != tree || ref.ID() != ids["b"] || ref.IsZero() {
		t.Errorf("ref = %+v", ref)
	}

	var zero Ref
	if !zero.IsZero() || zero.ID() != NoNode {
		t.Errorf("zero ref = %+v", zero)
	}
	if _, ok := tree.Local(zero); ok {
		t.Error("Local(zero ref) reported ok")
	}
	if _, ok := tree.Local(tree.Ref(NodeID(1000))); ok {
		t.Error("Local(out of arena) reported ok")
	}
}

func TestCount(t *testing.T) {
	tree, root, ids := buildSample(t)

	tests := []struct {
		name string
		id   NodeID
		want int
	}{
		{"root fragment", root, 5},
		{"div subtree", ids["a"], 4},
		{"span subtree", ids["b"], 2},
		{"leaf", ids["d"], 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tree.Count(tt.id); got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	tree, root, ids := buildSample(t)
	other := tree.NewElement("em")

	if !tree.Contains(root, ids["text"]) {
		t.Error("root should contain nested text")
	}
	if !tree.Contains(ids["a"], ids["a"]) {
		t.Error("node should contain itself")
	}
	if tree.Contains(ids["a"], ids["d"]) {
		t.Error("div should not contain its sibling")
	}
	if tree.Contains(root, other) {
		t.Error("root should not contain unattached node")
	}
	if tree.Contains(root, NodeID(1000)) {
		t.Error("root should not contain invalid node")
	}
}

func TestDetach(t *testing.T) {
	tree, root, ids := buildSample(t)

	tree.Detach(ids["b"])
	if tree.Parent(ids["b"]) != NoNode {
		t.Error("detached node still has parent")
	}
	if tree.FirstChild(ids["a"]) != ids["c"] || tree.PrevSibling(ids["c"]) != NoNode {
		t.Error("sibling links not repaired after detach")
	}
	// second detach is a no-op
	tree.Detach(ids["b"])
	tree.Detach(ids["text"]) // still attached to detached span

	want := []NodeID{ids["a"], ids["c"], ids["d"]}
	if diff := cmp.Diff(want, walkOrder(tree, root)); diff != "" {
		t.Errorf("Walk() after detach mismatch (-want +got):\n%s", diff)
	}

	tree.Detach(ids["d"])
	if tree.LastChild(root) != ids["a"] || tree.NextSibling(ids["a"]) != NoNode {
		t.Error("last child links not repaired after detach")
	}
}

func TestInsertBefore(t *testing.T) {
	tree, root, ids := buildSample(t)

	first := tree.NewElement("header")
	tree.InsertBefore(root, first, ids["a"])
	middle := tree.NewText("mid")
	tree.InsertBefore(root, middle, ids["d"])

	want := []NodeID{first, ids["a"], ids["b"], ids["text"], ids["c"], middle, ids["d"]}
	if diff := cmp.Diff(want, walkOrder(tree, root)); diff != "" {
		t.Errorf("Walk() mismatch (-want +got):\n%s", diff)
	}
	if tree.FirstChild(root) != first {
		t.Error("first child not updated")
	}
	children := slices.Collect(tree.Children(root))
	if diff := cmp.Diff([]NodeID{first, ids["a"], middle, ids["d"]}, children); diff != "" {
		t.Errorf("Children() mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertBefore_MovesAttachedNode(t *testing.T) {
	tree, root, ids := buildSample(t)

	tree.InsertBefore(root, ids["d"], ids["a"])

	want := []NodeID{ids["d"], ids["a"], ids["b"], ids["text"], ids["c"]}
	if diff := cmp.Diff(want, walkOrder(tree, root)); diff != "" {
		t.Errorf("Walk() mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertBefore_SplicesFragment(t *testing.T) {
	tree, root, ids := buildSample(t)

	frag := tree.NewFragment()
	x := tree.NewElement("x")
	y := tree.NewElement("y")
	tree.AppendChild(frag, x)
	tree.AppendChild(frag, y)

	if got := tree.Count(frag); got != 2 {
		t.Fatalf("Count(fragment) = %d, want 2", got)
	}

	tree.InsertBefore(root, frag, ids["d"])

	want := []NodeID{ids["a"], ids["b"], ids["text"], ids["c"], x, y, ids["d"]}
	if diff := cmp.Diff(want, walkOrder(tree, root)); diff != "" {
		t.Errorf("Walk() mismatch (-want +got):\n%s", diff)
	}
	if tree.FirstChild(frag) != NoNode {
		t.Error("fragment should be left empty")
	}
}

func TestInsertBefore_PanicsOnForeignReference(t *testing.T) {
	tree, root, ids := buildSample(t)

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	tree.InsertBefore(root, tree.NewElement("x"), ids["b"])
}

func TestClone(t *testing.T) {
	tree, root, ids := buildSample(t)

	c := tree.Clone()
	c.Detach(ids["a"])
	c.Node(ids["d"]).Attrs[0].Value = "changed"

	if got := len(walkOrder(tree, root)); got != 5 {
		t.Errorf("original walk length = %d, want 5", got)
	}
	if v, _ := tree.Attr(ids["d"], "id"); v != "d" {
		t.Errorf("original attribute changed to %q", v)
	}
	if got := len(walkOrder(c, root)); got != 1 {
		t.Errorf("clone walk length = %d, want 1", got)
	}
}

func TestNodeSet(t *testing.T) {
	s := NewNodeSet(1, 2)
	s.Add(5)
	for _, id := range []NodeID{1, 2, 5} {
		if !s.Has(id) {
			t.Errorf("Has(%d) = false", id)
		}
	}
	if s.Has(3) {
		t.Error("Has(3) = true")
	}
}
