package markup

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"tmplpatch/dom"
)

// ParseXML parses XML document into new tree. Returned node is the fragment
// holding document content.
func ParseXML(r io.Reader) (*dom.Tree, dom.NodeID, error) {
	tree := dom.NewTree()
	root, err := ParseXMLInto(tree, r)
	if err != nil {
		return nil, dom.NoNode, err
	}
	return tree, root, nil
}

// ParseXMLInto parses XML into existing tree and returns unattached fragment
// node holding parsed content. Whitespace only character data and processing
// instructions are dropped.
func ParseXMLInto(tree *dom.Tree, r io.Reader) (dom.NodeID, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return dom.NoNode, fmt.Errorf("unable to parse XML: %w", err)
	}
	root := tree.NewFragment()
	for _, tok := range doc.Child {
		fromXML(tree, root, tok)
	}
	return root, nil
}

func fromXML(tree *dom.Tree, parent dom.NodeID, tok etree.Token) {
	var id dom.NodeID
	switch t := tok.(type) {
	case *etree.Element:
		attrs := make([]dom.Attr, 0, len(t.Attr))
		for _, a := range t.Attr {
			attrs = append(attrs, dom.Attr{Key: a.FullKey(), Value: a.Value})
		}
		id = tree.NewElement(t.FullTag(), attrs...)
		tree.AppendChild(parent, id)
		for _, c := range t.Child {
			fromXML(tree, id, c)
		}
		return
	case *etree.CharData:
		if t.IsWhitespace() {
			return
		}
		id = tree.NewText(t.Data)
	case *etree.Comment:
		id = tree.NewComment(t.Data)
	case *etree.Directive:
		id = tree.NewNode(dom.KindDoctype, t.Data)
	default:
		return
	}
	tree.AppendChild(parent, id)
}

// RenderXML writes children of root as XML document. Positive indent
// pretty prints the output with that many spaces per level.
func RenderXML(w io.Writer, tree *dom.Tree, root dom.NodeID, indent int) error {
	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	for c := range tree.Children(root) {
		toXML(tree, &doc.Element, c)
	}
	if indent > 0 {
		doc.Indent(indent)
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("unable to render XML: %w", err)
	}
	return nil
}

func toXML(tree *dom.Tree, parent *etree.Element, id dom.NodeID) {
	node := tree.Node(id)
	switch node.Kind {
	case dom.KindElement:
		el := parent.CreateElement(node.Data)
		for _, a := range node.Attrs {
			el.CreateAttr(a.Key, a.Value)
		}
		for c := range tree.Children(id) {
			toXML(tree, el, c)
		}
	case dom.KindText:
		parent.CreateText(node.Data)
	case dom.KindComment:
		parent.CreateComment(node.Data)
	case dom.KindDoctype:
		parent.CreateDirective(node.Data)
	}
}
