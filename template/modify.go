package template

import (
	"errors"
	"fmt"

	"tmplpatch/dom"
)

var ErrInvalidReference = errors.New("reference node must be inside template content")

// RemoveNodes detaches nodes from template content and updates part indices
// to match mutated content. Parts bound to removed nodes (or anything below
// them) are deactivated, parts after removed regions are shifted back.
//
// Nodes must belong to template content, nested nodes are allowed:
//
//	div
//	  div#1 (remove)   <- start removing, div#1 is the removal root
//	    div
//	      div#2 (remove)   <- still inside div#1
//	        div
//	div   <- outside of div#1 subtree, region closed (4 positions removed)
func RemoveNodes(t *Template, nodes dom.NodeSet) {
	if len(nodes) == 0 {
		return
	}

	var (
		tree        = t.Tree
		roots       []dom.NodeID
		removing    = dom.NoNode
		removeCount int
		pi          = nextActive(t.Parts, 0)
	)

	// Plan indices first, nothing is detached until walk is complete.
	for index, n := range tree.Walk(t.Content) {
		if removing != dom.NoNode && !tree.Contains(removing, n) {
			removing = dom.NoNode
		}
		if removing == dom.NoNode && nodes.Has(n) {
			removing = n
			roots = append(roots, n)
		}
		if removing != dom.NoNode {
			removeCount++
		}
		for ; pi < len(t.Parts) && t.Parts[pi].Index == index; pi = nextActive(t.Parts, pi+1) {
			if removing != dom.NoNode {
				t.Parts[pi].Index = Deactivated
			} else {
				t.Parts[pi].Index -= removeCount
			}
		}
	}

	for _, n := range roots {
		tree.Detach(n)
	}
}

// InsertNode inserts node (unattached subtree root allocated from template
// tree) into template content before ref and updates part indices to match
// mutated content. When ref is zero node is appended to content and no
// indices change. Fragment node is spliced as its children.
//
// When ref does not belong to template tree or is not inside template content
// ErrInvalidReference is returned and template is not modified.
func InsertNode(t *Template, node dom.NodeID, ref dom.Ref) error {
	tree := t.Tree
	if ref.IsZero() {
		// everything appended follows all existing positions
		tree.AppendChild(t.Content, node)
		return nil
	}
	id, ok := tree.Local(ref)
	if !ok || id == t.Content || !tree.Contains(t.Content, id) {
		return fmt.Errorf("template %s, node %d: %w", t.ID, ref.ID(), ErrInvalidReference)
	}

	refIndex := tree.Preceding(t.Content, id)
	insertCount := tree.Count(node)
	tree.InsertBefore(tree.Parent(id), node, id)

	for i := range t.Parts {
		if t.Parts[i].Active() && t.Parts[i].Index >= refIndex {
			t.Parts[i].Index += insertCount
		}
	}
	return nil
}

func nextActive(parts []Part, from int) int {
	for from < len(parts) && !parts[from].Active() {
		from++
	}
	return from
}
