// Package template holds compiled templates and keeps their part indices
// consistent while template content is structurally edited.
package template

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"tmplpatch/dom"
)

// Deactivated is the index of a part whose node was removed from the
// template. Such part is never reactivated.
const Deactivated = -1

// PartKind describes what binding layer attaches to the part node.
type PartKind int

const (
	PartNode PartKind = iota
	PartAttribute
	PartText
)

func (k PartKind) String() string {
	switch k {
	case PartNode:
		return "node"
	case PartAttribute:
		return "attribute"
	case PartText:
		return "text"
	default:
		return fmt.Sprintf("PartKind(%d)", int(k))
	}
}

// Part is a placeholder bound to node position in filtered traversal of the
// template content. Only Index is maintained here, the rest is payload for the
// binding layer.
type Part struct {
	Index int
	Kind  PartKind
	Name  string
	Attr  string // attribute name for PartAttribute
}

func (p *Part) Active() bool {
	return p.Index != Deactivated
}

// Template is a compiled template. It exclusively owns its tree, parts refer
// to content nodes by traversal index only.
//
// NOTE: not safe for concurrent use, callers serialize edits per template.
type Template struct {
	ID      uuid.UUID
	Tree    *dom.Tree
	Content dom.NodeID
	Parts   []Part
}

// New creates template with given content and parts. Parts must be sorted by
// index and match filtered traversal of content.
func New(tree *dom.Tree, content dom.NodeID, parts []Part) *Template {
	return &Template{
		ID:      uuid.New(),
		Tree:    tree,
		Content: content,
		Parts:   parts,
	}
}

// Clone returns deep copy with new ID. Node identities are preserved in the
// copy so node IDs obtained from the original can be used with the clone.
func (t *Template) Clone() *Template {
	return &Template{
		ID:      uuid.New(),
		Tree:    t.Tree.Clone(),
		Content: t.Content,
		Parts:   append([]Part(nil), t.Parts...),
	}
}

// Resolve maps every part to the node it currently points to, dom.NoNode for
// deactivated parts. This is how binding layer sees the template.
func Resolve(t *Template) []dom.NodeID {
	nodes := make([]dom.NodeID, len(t.Parts))
	for i := range nodes {
		nodes[i] = dom.NoNode
	}
	pi := 0
	for index, n := range t.Tree.Walk(t.Content) {
		for ; pi < len(t.Parts) && t.Parts[pi].Index <= index; pi++ {
			if t.Parts[pi].Index == index {
				nodes[pi] = n
			}
		}
	}
	return nodes
}

// Validate checks that parts are ordered and reference existing positions.
// Deactivated parts may appear anywhere.
func Validate(t *Template) (err error) {
	total := 0
	for range t.Tree.Walk(t.Content) {
		total++
	}
	last := -1
	for i, p := range t.Parts {
		if !p.Active() {
			continue
		}
		if p.Index < 0 || p.Index >= total {
			err = multierr.Append(err, fmt.Errorf("part %d (%s %q) index %d is out of range [0, %d)", i, p.Kind, p.Name, p.Index, total))
			continue
		}
		if p.Index < last {
			err = multierr.Append(err, fmt.Errorf("part %d (%s %q) index %d is less than preceding index %d", i, p.Kind, p.Name, p.Index, last))
		}
		last = p.Index
	}
	return err
}
