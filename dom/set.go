package dom

// NodeSet is a set of node identities.
type NodeSet map[NodeID]struct{}

func NewNodeSet(ids ...NodeID) NodeSet {
	s := make(NodeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s NodeSet) Has(id NodeID) bool {
	_, ok := s[id]
	return ok
}

func (s NodeSet) Add(id NodeID) {
	s[id] = struct{}{}
}
