// Package dom implements arena based markup tree used by compiled templates.
package dom

import (
	"fmt"
	"iter"
)

// NodeID addresses node inside its Tree arena.
type NodeID int32

// NoNode is the null link.
const NoNode NodeID = -1

// Kind of the tree node.
type Kind int

const (
	KindFragment Kind = iota
	KindElement
	KindText
	KindComment
	KindDoctype
)

func (k Kind) String() string {
	switch k {
	case KindFragment:
		return "fragment"
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindDoctype:
		return "doctype"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Indexed reports whether nodes of this kind take a position in filtered
// traversal.
func (k Kind) Indexed() bool {
	return k == KindElement || k == KindText || k == KindComment
}

type Attr struct {
	Key   string
	Value string
}

// Node is a single arena entry. Links are NodeIDs in the same Tree.
type Node struct {
	Kind  Kind
	Data  string // tag name for elements, content for text and comments
	Attrs []Attr

	parent, firstChild, lastChild, prev, next NodeID
}

// Tree owns all nodes. Nodes are never freed, detached nodes simply have no
// parent.
type Tree struct {
	nodes []Node
}

func NewTree() *Tree {
	return &Tree{}
}

// Len returns number of allocated nodes, attached or not.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// NewNode allocates unattached node.
func (t *Tree) NewNode(kind Kind, data string, attrs ...Attr) NodeID {
	t.nodes = append(t.nodes, Node{
		Kind:       kind,
		Data:       data,
		Attrs:      attrs,
		parent:     NoNode,
		firstChild: NoNode,
		lastChild:  NoNode,
		prev:       NoNode,
		next:       NoNode,
	})
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) NewFragment() NodeID {
	return t.NewNode(KindFragment, "")
}

func (t *Tree) NewElement(tag string, attrs ...Attr) NodeID {
	return t.NewNode(KindElement, tag, attrs...)
}

func (t *Tree) NewText(text string) NodeID {
	return t.NewNode(KindText, text)
}

func (t *Tree) NewComment(text string) NodeID {
	return t.NewNode(KindComment, text)
}

// Ref is a node handle bound to the tree which allocated the node. NodeIDs
// are only meaningful inside their own arena, Ref is used where a node may
// come from another tree. Zero Ref addresses no node.
type Ref struct {
	tree *Tree
	id   NodeID
}

// Ref returns handle of id bound to this tree.
func (t *Tree) Ref(id NodeID) Ref {
	return Ref{tree: t, id: id}
}

func (r Ref) IsZero() bool {
	return r.tree == nil
}

func (r Ref) Tree() *Tree {
	return r.tree
}

func (r Ref) ID() NodeID {
	if r.tree == nil {
		return NoNode
	}
	return r.id
}

// Local returns node id of r when r was produced by this tree and addresses
// one of its nodes.
func (t *Tree) Local(r Ref) (NodeID, bool) {
	if r.tree != t || !t.Valid(r.id) {
		return NoNode, false
	}
	return r.id, true
}

// Valid reports whether id addresses a node of this tree.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Node returns pointer to the node data, links are not exposed for
// modification.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

func (t *Tree) Kind(id NodeID) Kind {
	return t.nodes[id].Kind
}

func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

func (t *Tree) FirstChild(id NodeID) NodeID {
	return t.nodes[id].firstChild
}

func (t *Tree) LastChild(id NodeID) NodeID {
	return t.nodes[id].lastChild
}

func (t *Tree) NextSibling(id NodeID) NodeID {
	return t.nodes[id].next
}

func (t *Tree) PrevSibling(id NodeID) NodeID {
	return t.nodes[id].prev
}

// Attr returns value of the named attribute.
func (t *Tree) Attr(id NodeID, key string) (string, bool) {
	for _, a := range t.nodes[id].Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Children iterates over direct children of id.
func (t *Tree) Children(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for c := t.nodes[id].firstChild; c != NoNode; {
			// child could be detached by the consumer
			next := t.nodes[c].next
			if !yield(c) {
				return
			}
			c = next
		}
	}
}

// Contains reports whether id is root itself or one of its descendants.
func (t *Tree) Contains(root, id NodeID) bool {
	if !t.Valid(root) || !t.Valid(id) {
		return false
	}
	for n := id; n != NoNode; n = t.nodes[n].parent {
		if n == root {
			return true
		}
	}
	return false
}

// Detach removes id from its parent. Detaching unattached node does nothing.
func (t *Tree) Detach(id NodeID) {
	n := &t.nodes[id]
	if n.parent == NoNode {
		return
	}
	p := &t.nodes[n.parent]
	if n.prev != NoNode {
		t.nodes[n.prev].next = n.next
	} else {
		p.firstChild = n.next
	}
	if n.next != NoNode {
		t.nodes[n.next].prev = n.prev
	} else {
		p.lastChild = n.prev
	}
	n.parent, n.prev, n.next = NoNode, NoNode, NoNode
}

// AppendChild adds child as the last child of parent. Attached child is moved.
// Fragment child is spliced: its children are moved and the fragment is left
// empty.
func (t *Tree) AppendChild(parent, child NodeID) {
	t.InsertBefore(parent, child, NoNode)
}

// InsertBefore inserts child into parent before ref, NoNode ref appends.
// Attached child is moved, fragment child is spliced as its children.
func (t *Tree) InsertBefore(parent, child, ref NodeID) {
	if t.nodes[child].Kind == KindFragment {
		for c := t.nodes[child].firstChild; c != NoNode; c = t.nodes[child].firstChild {
			t.InsertBefore(parent, c, ref)
		}
		return
	}
	if ref != NoNode && t.nodes[ref].parent != parent {
		panic(fmt.Sprintf("dom: reference node %d is not a child of %d", ref, parent))
	}
	t.Detach(child)

	n := &t.nodes[child]
	n.parent = parent
	p := &t.nodes[parent]
	if ref == NoNode {
		n.prev = p.lastChild
		if p.lastChild != NoNode {
			t.nodes[p.lastChild].next = child
		} else {
			p.firstChild = child
		}
		p.lastChild = child
		return
	}
	r := &t.nodes[ref]
	n.prev, n.next = r.prev, ref
	if r.prev != NoNode {
		t.nodes[r.prev].next = child
	} else {
		p.firstChild = child
	}
	r.prev = child
}

// Clone returns deep copy of the tree. NodeIDs are preserved.
func (t *Tree) Clone() *Tree {
	c := &Tree{nodes: make([]Node, len(t.nodes))}
	copy(c.nodes, t.nodes)
	for i := range c.nodes {
		if c.nodes[i].Attrs != nil {
			c.nodes[i].Attrs = append([]Attr(nil), c.nodes[i].Attrs...)
		}
	}
	return c
}
