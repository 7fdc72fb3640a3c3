package dom

import "iter"

// Walk enumerates indexed (element, comment, text) descendants of root in
// depth-first pre-order: node, its first child, then its next sibling. Root
// itself is never reported. The first value is the node position in this
// enumeration, which is the index space template parts are bound to.
//
// Children of non-indexed nodes are still visited.
func (t *Tree) Walk(root NodeID) iter.Seq2[int, NodeID] {
	return func(yield func(int, NodeID) bool) {
		index := -1
		for n := t.following(root, root); n != NoNode; n = t.following(root, n) {
			if !t.nodes[n].Kind.Indexed() {
				continue
			}
			index++
			if !yield(index, n) {
				return
			}
		}
	}
}

// following returns the node after n in pre-order, staying inside root.
func (t *Tree) following(root, n NodeID) NodeID {
	if t.nodes[n].firstChild != NoNode {
		return t.nodes[n].firstChild
	}
	for ; n != root && n != NoNode; n = t.nodes[n].parent {
		if t.nodes[n].next != NoNode {
			return t.nodes[n].next
		}
	}
	return NoNode
}

// Index returns position of id in Walk(root) or -1 when id is not reachable.
func (t *Tree) Index(root, id NodeID) int {
	for i, n := range t.Walk(root) {
		if n == id {
			return i
		}
	}
	return -1
}

// At returns node at position index of Walk(root) or NoNode.
func (t *Tree) At(root NodeID, index int) NodeID {
	if index < 0 {
		return NoNode
	}
	for i, n := range t.Walk(root) {
		if i == index {
			return n
		}
	}
	return NoNode
}

// Count returns number of positions the subtree rooted at id occupies in
// filtered traversal: id itself when indexed plus all indexed descendants.
func (t *Tree) Count(id NodeID) int {
	count := 0
	if t.nodes[id].Kind.Indexed() {
		count++
	}
	for range t.Walk(id) {
		count++
	}
	return count
}

// Preceding returns number of indexed nodes visited before id in pre-order
// walk of root, or -1 when id is not reachable. For indexed id it is the same
// as Index, for other kinds it is the position the first indexed node of its
// subtree (or the one following it) would have.
func (t *Tree) Preceding(root, id NodeID) int {
	count := 0
	for n := t.following(root, root); n != NoNode; n = t.following(root, n) {
		if n == id {
			return count
		}
		if t.nodes[n].Kind.Indexed() {
			count++
		}
	}
	return -1
}
