package tbe

// The methods below give *Tree the shape internal/hpt.ReplicateShape
// expects (node ids, children, subtree sizes, leaf taxa) without that
// package ever importing this one — the same direction gaissmai/bart
// depends on its internal/nodes, never the reverse.

// Root returns the tree's root node id.
func (t *Tree) Root() int32 { return int32(t.root) }

// Children returns the node ids of v's children, in input order.
func (t *Tree) Children(v int32) []int32 {
	edges := t.nodes[v].children
	out := make([]int32, len(edges))
	for i, ce := range edges {
		out[i] = int32(t.edges[ce].child)
	}
	return out
}

// IsLeaf reports whether node v is a leaf.
func (t *Tree) IsLeaf(v int32) bool { return t.nodes[v].isLeaf() }

// SubtreeSize returns the number of leaves under node v.
func (t *Tree) SubtreeSize(v int32) int32 { return t.nodes[v].subtreeSize }

// Taxon returns the taxon id of leaf node v, -1 if v is internal.
func (t *Tree) Taxon(v int32) int32 { return t.nodes[v].taxon }

// isHeavyChildOf reports whether node v is the heavy child of its
// parent — the stopping condition for the reference-side heavy-path
// walk of §4.6.2.
func (t *Tree) isHeavyChildOf(v nodeID) bool {
	pe := t.nodes[v].parentEdge
	if pe == noEdge {
		return false
	}
	parent := t.edges[pe].parent
	return t.nodes[parent].heavyChild == pe
}

// validateFastShape rejects any topology the fast path cannot handle:
// an internal non-root node with other than 2 children, or a root with
// fewer than 2 or more than 3 (spec.md §9's "reject other shapes
// explicitly").
func (t *Tree) validateFastShape() error {
	for id, n := range t.nodes {
		if n.isLeaf() {
			continue
		}
		want := 2
		if nodeID(id) == t.root {
			if len(n.children) == 2 || len(n.children) == 3 {
				continue
			}
			return newError(KindShape, "root must have 2 or 3 children", nil)
		}
		if len(n.children) != want {
			return newError(KindShape, "internal node must be binary", nil)
		}
	}
	return nil
}
