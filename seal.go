package tbe

import "github.com/gaissmai/tbe/internal/bitset"

// seal finalizes a freshly parsed tree: fills every edge's bipartition
// bitset and topological depth (post-order, explicit stack — no native
// recursion, so arbitrarily deep trees never grow the Go call stack),
// and picks each internal node's heavy child plus its light-subtree
// leaf list. It is idempotent; calling it twice is a no-op.
func (t *Tree) seal() error {
	if t.sealed {
		return nil
	}
	if t.root == noNode {
		return newError(KindInvariant, "seal called on an empty tree", nil)
	}

	order := t.computePostOrder()
	n := t.taxa.Len()

	for _, id := range order {
		node := t.node(id)

		if node.isLeaf() {
			node.subtreeSize = 1
			bs := bitset.New(n)
			bs.MustSet(uint(node.taxon))
			t.fillParentEdge(node, bs, n)
			continue
		}

		bs := bitset.New(n)
		heavy := noEdge
		heavySize := int32(-1)
		var total int32

		// Scan every child once: the heavy child is whichever has the
		// largest subtree, first one found wins ties.
		for _, ce := range node.children {
			child := t.edge(ce)
			bs.InPlaceUnion(child.bitset)
			cs := t.node(child.child).subtreeSize
			total += cs
			if cs > heavySize {
				heavySize = cs
				heavy = ce
			}
		}
		node.subtreeSize = total
		node.heavyChild = heavy

		var light []int32
		for _, ce := range node.children {
			if ce == heavy {
				continue
			}
			for _, taxon := range t.edge(ce).bitset.AsSlice() {
				light = append(light, int32(taxon))
			}
		}
		node.lightLeaves = light

		t.fillParentEdge(node, bs, n)
	}

	t.postOrder = order
	t.sealed = true
	return nil
}

// fillParentEdge writes bs as the bipartition bitset of node's incoming
// edge, if it has one (the root does not), and derives the edge's
// topological depth from its popcount.
func (t *Tree) fillParentEdge(node *treeNode, bs bitset.Set, n int) {
	if node.parentEdge == noEdge {
		return
	}
	pe := t.edge(node.parentEdge)
	pe.bitset = bs
	k := bs.Count()
	pe.topoDepth = int32(minInt(k, n-k))
}

// computePostOrder returns every node id in post-order starting from
// the root, using an explicit frame stack instead of recursion.
func (t *Tree) computePostOrder() []nodeID {
	order := make([]nodeID, 0, len(t.nodes))

	type frame struct {
		n   nodeID
		idx int
	}
	stack := []frame{{t.root, 0}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		kids := t.children(top.n)
		if top.idx < len(kids) {
			ce := kids[top.idx]
			top.idx++
			stack = append(stack, frame{t.edge(ce).child, 0})
			continue
		}
		order = append(order, top.n)
		stack = stack[:len(stack)-1]
	}

	return order
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
