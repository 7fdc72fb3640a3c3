// Package markup converts HTML and XML markup to and from template trees.
package markup

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"tmplpatch/dom"
)

var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// ParseHTML parses HTML fragment into new tree. Returned node is the fragment
// holding parsed content.
func ParseHTML(r io.Reader) (*dom.Tree, dom.NodeID, error) {
	tree := dom.NewTree()
	root, err := ParseHTMLInto(tree, r)
	if err != nil {
		return nil, dom.NoNode, err
	}
	return tree, root, nil
}

// ParseHTMLInto parses HTML fragment into existing tree and returns
// unattached fragment node holding parsed content.
func ParseHTMLInto(tree *dom.Tree, r io.Reader) (dom.NodeID, error) {
	nodes, err := html.ParseFragment(r, bodyContext)
	if err != nil {
		return dom.NoNode, fmt.Errorf("unable to parse HTML: %w", err)
	}
	root := tree.NewFragment()
	for _, n := range nodes {
		fromHTML(tree, root, n)
	}
	return root, nil
}

func fromHTML(tree *dom.Tree, parent dom.NodeID, n *html.Node) {
	var id dom.NodeID
	switch n.Type {
	case html.ElementNode:
		attrs := make([]dom.Attr, 0, len(n.Attr))
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			attrs = append(attrs, dom.Attr{Key: key, Value: a.Val})
		}
		id = tree.NewElement(n.Data, attrs...)
	case html.TextNode:
		id = tree.NewText(n.Data)
	case html.CommentNode:
		id = tree.NewComment(n.Data)
	case html.DoctypeNode:
		id = tree.NewNode(dom.KindDoctype, n.Data)
	default:
		// documents and raw nodes never appear in parsed fragments
		return
	}
	tree.AppendChild(parent, id)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		fromHTML(tree, id, c)
	}
}

// RenderHTML writes children of root as HTML.
func RenderHTML(w io.Writer, tree *dom.Tree, root dom.NodeID) error {
	for c := range tree.Children(root) {
		if n := toHTML(tree, c); n != nil {
			if err := html.Render(w, n); err != nil {
				return fmt.Errorf("unable to render HTML: %w", err)
			}
		}
	}
	return nil
}

func toHTML(tree *dom.Tree, id dom.NodeID) *html.Node {
	node := tree.Node(id)
	var n *html.Node
	switch node.Kind {
	case dom.KindElement:
		n = &html.Node{Type: html.ElementNode, Data: node.Data, DataAtom: atom.Lookup([]byte(node.Data))}
		for _, a := range node.Attrs {
			n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Value})
		}
	case dom.KindText:
		n = &html.Node{Type: html.TextNode, Data: node.Data}
	case dom.KindComment:
		n = &html.Node{Type: html.CommentNode, Data: node.Data}
	case dom.KindDoctype:
		n = &html.Node{Type: html.DoctypeNode, Data: node.Data}
	default:
		return nil
	}
	for c := range tree.Children(id) {
		if child := toHTML(tree, c); child != nil {
			n.AppendChild(child)
		}
	}
	return n
}
