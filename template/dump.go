package template

import (
	"fmt"
	"strings"

	"tmplpatch/dom"
	"tmplpatch/utils/debug"
)

// Dump returns human readable representation of template content with
// traversal indices and parts bound to every node.
func Dump(t *Template) string {
	byIndex := make(map[int][]Part)
	var inactive []Part
	for _, p := range t.Parts {
		if p.Active() {
			byIndex[p.Index] = append(byIndex[p.Index], p)
		} else {
			inactive = append(inactive, p)
		}
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "template %s", t.ID)

	index := 0
	var dumpNode func(n dom.NodeID, depth int)
	dumpNode = func(n dom.NodeID, depth int) {
		node := t.Tree.Node(n)
		label := "[-] " + describe(node)
		if node.Kind.Indexed() {
			label = fmt.Sprintf("[%d] %s%s", index, describe(node), describeParts(byIndex[index]))
		}
		switch node.Kind {
		case dom.KindText, dom.KindComment:
			tw.TextBlock(depth, label, node.Data)
		default:
			tw.Line(depth, "%s", label)
		}
		if node.Kind.Indexed() {
			index++
		}
		for c := range t.Tree.Children(n) {
			dumpNode(c, depth+1)
		}
	}
	for c := range t.Tree.Children(t.Content) {
		dumpNode(c, 1)
	}

	if len(inactive) > 0 {
		tw.Line(0, "deactivated")
		for _, p := range inactive {
			tw.Line(1, "%s", describePart(p))
		}
	}
	return tw.String()
}

func describe(node *dom.Node) string {
	switch node.Kind {
	case dom.KindElement:
		var b strings.Builder
		b.WriteString("<" + node.Data)
		for _, a := range node.Attrs {
			fmt.Fprintf(&b, " %s=%q", a.Key, a.Value)
		}
		b.WriteString(">")
		return b.String()
	case dom.KindDoctype:
		return "<!DOCTYPE " + node.Data + ">"
	default:
		return node.Kind.String()
	}
}

func describeParts(parts []Part) string {
	if len(parts) == 0 {
		return ""
	}
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, describePart(p))
	}
	return " parts{" + strings.Join(names, ", ") + "}"
}

func describePart(p Part) string {
	if p.Kind == PartAttribute {
		return fmt.Sprintf("%s %s=%q", p.Kind, p.Attr, p.Name)
	}
	return fmt.Sprintf("%s %q", p.Kind, p.Name)
}
