package markup

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tmplpatch/dom"
)

type walked struct {
	Kind dom.Kind
	Data string
}

func collect(tree *dom.Tree, root dom.NodeID) []walked {
	var out []walked
	for _, n := range tree.Walk(root) {
		node := tree.Node(n)
		out = append(out, walked{Kind: node.Kind, Data: node.Data})
	}
	return out
}

func TestParseHTML(t *testing.T) {
	src := `<div class="{{cls}}"><!--?body--><span>hi</span></div><p>t</p>`

	tree, root, err := ParseHTML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}

	want := []walked{
		{dom.KindElement, "div"},
		{dom.KindComment, "?body"},
		{dom.KindElement, "span"},
		{dom.KindText, "hi"},
		{dom.KindElement, "p"},
		{dom.KindText, "t"},
	}
	if diff := cmp.Diff(want, collect(tree, root)); diff != "" {
		t.Errorf("walk mismatch (-want +got):\n%s", diff)
	}

	div := tree.At(root, 0)
	if v, ok := tree.Attr(div, "class"); !ok || v != "{{cls}}" {
		t.Errorf("class attribute = %q, %v", v, ok)
	}
	if tree.Parent(root) != dom.NoNode {
		t.Error("fragment must be unattached")
	}
}

func TestHTMLRoundTrip(t *testing.T) {
	src := `<div class="a"><!--?x--><span>hi</span></div><p>t</p>`

	tree, root, err := ParseHTML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	var buf bytes.Buffer
	if err := RenderHTML(&buf, tree, root); err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	if got := buf.String(); got != src {
		t.Errorf("RenderHTML() = %q, want %q", got, src)
	}
}

func TestParseHTMLInto_SharesArena(t *testing.T) {
	tree, root, err := ParseHTML(strings.NewReader(`<p>one</p>`))
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	before := tree.Len()

	frag, err := ParseHTMLInto(tree, strings.NewReader(`<b>two</b><i></i>`))
	if err != nil {
		t.Fatalf("ParseHTMLInto() error = %v", err)
	}
	if tree.Len() <= before {
		t.Error("nodes were not added to existing tree")
	}
	if got := tree.Count(frag); got != 3 {
		t.Errorf("Count(fragment) = %d, want 3", got)
	}
	if tree.Contains(root, frag) {
		t.Error("parsed fragment must not be attached to existing content")
	}
}

func TestParseXML(t *testing.T) {
	src := `<?xml version="1.0" encoding="UTF-8"?>
<root xmlns:t="urn:t" t:a="1">
  <!--?slot-->
  <item>x</item>
  <item/>
</root>`

	tree, root, err := ParseXML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseXML() error = %v", err)
	}

	want := []walked{
		{dom.KindElement, "root"},
		{dom.KindComment, "?slot"},
		{dom.KindElement, "item"},
		{dom.KindText, "x"},
		{dom.KindElement, "item"},
	}
	if diff := cmp.Diff(want, collect(tree, root)); diff != "" {
		t.Errorf("walk mismatch (-want +got):\n%s", diff)
	}
	if v, ok := tree.Attr(tree.At(root, 0), "t:a"); !ok || v != "1" {
		t.Errorf("t:a attribute = %q, %v", v, ok)
	}
}

func TestRenderXML(t *testing.T) {
	tree, root, err := ParseXML(strings.NewReader(`<root a="1"><!--c--><item>x</item>
	<item/></root>`))
	if err != nil {
		t.Fatalf("ParseXML() error = %v", err)
	}

	var buf bytes.Buffer
	if err := RenderXML(&buf, tree, root, 0); err != nil {
		t.Fatalf("RenderXML() error = %v", err)
	}
	want := `<root a="1"><!--c--><item>x</item><item/></root>`
	if got := buf.String(); got != want {
		t.Errorf("RenderXML() = %q, want %q", got, want)
	}

	buf.Reset()
	if err := RenderXML(&buf, tree, root, 2); err != nil {
		t.Fatalf("RenderXML() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\n  <item>x</item>\n") {
		t.Errorf("RenderXML() with indent = %q", buf.String())
	}
}

func TestParseXML_Malformed(t *testing.T) {
	if _, _, err := ParseXML(strings.NewReader(`<root><a></root>`)); err == nil {
		t.Error("expected error for malformed XML")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"html", FormatHTML, false},
		{"HTM", FormatHTML, false},
		{"xhtml", FormatXML, false},
		{"xml", FormatXML, false},
		{"json", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if got := DetectFormat("dir/page.xhtml", FormatHTML); got != FormatXML {
		t.Errorf("DetectFormat(xhtml) = %v", got)
	}
	if got := DetectFormat("page.tmpl", FormatXML); got != FormatXML {
		t.Errorf("DetectFormat(tmpl) = %v, want fallback", got)
	}
	if FormatXML.String() != "xml" || Format(7).String() != "Format(7)" {
		t.Error("unexpected Format.String()")
	}
}

func TestFormatDispatch(t *testing.T) {
	for _, f := range []Format{FormatHTML, FormatXML} {
		tree, root, err := f.Parse(strings.NewReader(`<ul><li>a</li></ul>`))
		if err != nil {
			t.Fatalf("%s: Parse() error = %v", f, err)
		}
		var buf bytes.Buffer
		if err := f.Render(&buf, tree, root, 0); err != nil {
			t.Fatalf("%s: Render() error = %v", f, err)
		}
		if got := buf.String(); got != `<ul><li>a</li></ul>` {
			t.Errorf("%s: Render() = %q", f, got)
		}
	}
}
