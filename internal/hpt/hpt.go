package hpt

import "math"

const noChild int32 = -1

// hptNode is one node of the HPT arena. A node with left/right set is a
// synthetic Path-Tree combiner over a contiguous range of a heavy path
// (left = the upper/earlier half, right = the lower/later half). A node
// with left==-1 is a PT leaf: it represents one real replicate node.
// When that replicate node is internal, childHeavyPaths holds the PT
// roots of its light children's heavy paths; a replicate leaf has none.
type hptNode struct {
	left, right     int32
	replNode        int32
	childHeavyPaths []int32

	// diffPath/diffSubtree are deltas applied to this node's own
	// aggregates but not yet pushed down into its children — the lazy
	// propagation state of §4.6.3.
	diffPath, diffSubtree int32

	// dMinPath/dMaxPath extremize d(·,v) over v ranging across the real
	// nodes this PT node's range covers (its own value, for a PT leaf).
	// dMinPath/dMaxPath, once combined with dMinSubtree/dMaxSubtree, give
	// the true minimum/maximum distance over every replicate node
	// reachable from this point in the HPT.
	dMinPath, dMaxPath int32

	// dMinSubtree/dMaxSubtree extremize d(·,v) over every v hanging off
	// this range via a pendant (light-child) heavy path, recursively.
	dMinSubtree, dMaxSubtree int32
}

// HPT is the heavy-path decomposition of one replicate tree (§4.6.3),
// rebuilt from scratch for every replicate since its lazily-propagated
// values are bound to one replicate's topology and marking history.
type HPT struct {
	shape      ReplicateShape
	nodes      []hptNode
	rootNode   int32
	heavyChild []int32   // replicate node id -> heavy child node id, noChild for leaves
	leafOf     []int32   // taxon id -> hptNode id of its PT leaf
	routes     [][]int32 // taxon id -> root..leaf hptNode id sequence
}

// Decompose builds the HPT for shape: heavy-child selection (§4.2's
// tie-break, reused here for the replicate's own decomposition), the
// balanced Path Tree per heavy path (§4.6.3.2), and the glue via
// childHeavyPaths (§4.6.3.3). It also precomputes, once per taxon, the
// full root-to-leaf HPT route so AddLeaf/ResetLeaf never need a runtime
// structural membership test.
func Decompose(shape ReplicateShape) *HPT {
	n := int32(shape.NumNodes())
	heavy := make([]int32, n)
	for v := int32(0); v < n; v++ {
		best, bestSize := noChild, int32(-1)
		for _, c := range shape.Children(v) {
			if sz := shape.SubtreeSize(c); sz > bestSize {
				bestSize, best = sz, c
			}
		}
		heavy[v] = best
	}

	h := &HPT{
		shape:      shape,
		heavyChild: heavy,
		leafOf:     make([]int32, shape.SubtreeSize(shape.Root())),
	}
	h.rootNode = h.buildChain(shape.Root())
	h.routes = make([][]int32, len(h.leafOf))
	h.collectRoutes()
	return h
}

func (h *HPT) alloc() int32 {
	h.nodes = append(h.nodes, hptNode{})
	return int32(len(h.nodes) - 1)
}

// buildChain walks down from start following heavy children to collect
// one full heavy path, then builds its balanced Path Tree.
func (h *HPT) buildChain(start int32) int32 {
	chain := []int32{start}
	for {
		last := chain[len(chain)-1]
		nc := h.heavyChild[last]
		if nc == noChild {
			break
		}
		chain = append(chain, nc)
	}
	return h.buildPathTree(chain)
}

func (h *HPT) buildPathTree(chain []int32) int32 {
	if len(chain) == 1 {
		return h.buildPathLeaf(chain[0])
	}

	mid := len(chain) / 2
	leftID := h.buildPathTree(chain[:mid])
	rightID := h.buildPathTree(chain[mid:])

	id := h.alloc()
	h.nodes[id].left, h.nodes[id].right = leftID, rightID
	h.nodes[id].replNode = -1
	h.recompute(id)
	return id
}

// buildPathLeaf allocates the PT leaf for real replicate node v,
// recursing into v's light children (if any) to build their own heavy
// paths and attach them as pendant subtrees.
func (h *HPT) buildPathLeaf(v int32) int32 {
	id := h.alloc()
	d0 := h.shape.SubtreeSize(v)
	h.nodes[id].left, h.nodes[id].right = -1, -1
	h.nodes[id].replNode = v
	h.nodes[id].dMinPath, h.nodes[id].dMaxPath = d0, d0

	if h.shape.IsLeaf(v) {
		h.leafOf[h.shape.Taxon(v)] = id
		h.nodes[id].dMinSubtree, h.nodes[id].dMaxSubtree = math.MaxInt32, math.MinInt32
		return id
	}

	var kids []int32
	for _, c := range h.shape.Children(v) {
		if c == h.heavyChild[v] {
			continue
		}
		kids = append(kids, h.buildChain(c))
	}
	h.nodes[id].childHeavyPaths = kids
	h.recompute(id)
	return id
}

// collectRoutes walks the fully built HPT once, recording for every
// taxon the sequence of hptNode ids visited from the root to its PT
// leaf — the static route AddLeaf/ResetLeaf replay directly.
func (h *HPT) collectRoutes() {
	var path []int32
	var dfs func(id int32)
	dfs = func(id int32) {
		path = append(path, id)
		n := &h.nodes[id]
		switch {
		case n.left != -1:
			dfs(n.left)
			dfs(n.right)
		case len(n.childHeavyPaths) == 0:
			taxon := h.shape.Taxon(n.replNode)
			route := make([]int32, len(path))
			copy(route, path)
			h.routes[taxon] = route
		default:
			for _, c := range n.childHeavyPaths {
				dfs(c)
			}
		}
		path = path[:len(path)-1]
	}
	dfs(h.rootNode)
}

// AddLeaf marks replicate leaf taxon: for every real node on the route
// from the HPT root to taxon's leaf, d(·,node) decreases by one (the
// intersection with the growing reference-side set L(u) grew); every
// other reachable node's d increases by one. Touches O(log^2 n) HPT
// nodes (§4.6.3).
func (h *HPT) AddLeaf(taxon int32) {
	h.markRoute(h.routes[taxon], -1, 1)
}

// ResetLeaf undoes a prior AddLeaf(taxon) exactly — the same route with
// every delta's sign flipped, restoring the HPT to its pre-mark state
// bit-for-bit (§8 property 5).
func (h *HPT) ResetLeaf(taxon int32) {
	h.markRoute(h.routes[taxon], 1, -1)
}

// RootMin and RootMax give the true minimum/maximum of d(L(u),·) over
// every replicate node, for the reference node u whose light leaves are
// currently marked (§4.6.1).
func (h *HPT) RootMin() int32 {
	n := h.nodes[h.rootNode]
	return minI32(n.dMinPath, n.dMinSubtree)
}

func (h *HPT) RootMax() int32 {
	n := h.nodes[h.rootNode]
	return maxI32(n.dMaxPath, n.dMaxSubtree)
}

// markRoute replays a precomputed route, applying ancestorDelta to every
// real node on the route and otherDelta to everything branched away
// from it, then recomputes aggregates bottom-up.
func (h *HPT) markRoute(route []int32, ancestorDelta, otherDelta int32) {
	for i := 0; i < len(route)-1; i++ {
		id, next := route[i], route[i+1]
		h.pushDown(id)
		n := &h.nodes[id]
		if n.left != -1 {
			if next == n.left {
				// right covers the lower/later part of the same heavy
				// path: not an ancestor of the target, in either
				// dimension.
				h.applyBoth(n.right, otherDelta)
			} else {
				// left covers the upper/earlier part of the same heavy
				// path: its own chain nodes ARE ancestors, but anything
				// pendant off them is not.
				h.applyPath(n.left, ancestorDelta)
				h.applySubtree(n.left, otherDelta)
			}
		} else {
			for _, c := range n.childHeavyPaths {
				if c != next {
					h.applyBoth(c, otherDelta)
				}
			}
		}
	}

	for _, id := range route {
		if h.nodes[id].left == -1 {
			h.nodes[id].dMinPath += ancestorDelta
			h.nodes[id].dMaxPath += ancestorDelta
		}
	}

	for i := len(route) - 1; i >= 0; i-- {
		h.recompute(route[i])
	}
}

func (h *HPT) pushDown(id int32) {
	n := &h.nodes[id]
	if n.left != -1 {
		if n.diffPath != 0 {
			h.applyPath(n.left, n.diffPath)
			h.applyPath(n.right, n.diffPath)
			n.diffPath = 0
		}
		if n.diffSubtree != 0 {
			h.applySubtree(n.left, n.diffSubtree)
			h.applySubtree(n.right, n.diffSubtree)
			n.diffSubtree = 0
		}
		return
	}
	if n.diffSubtree != 0 {
		for _, c := range n.childHeavyPaths {
			h.applyBoth(c, n.diffSubtree)
		}
		n.diffSubtree = 0
	}
}

func (h *HPT) applyPath(id, delta int32) {
	n := &h.nodes[id]
	n.dMinPath += delta
	n.dMaxPath += delta
	n.diffPath += delta
}

func (h *HPT) applySubtree(id, delta int32) {
	n := &h.nodes[id]
	if n.left == -1 && len(n.childHeavyPaths) == 0 {
		// a true replicate leaf has no pendant subtrees: keep its
		// MaxInt32/MinInt32 sentinels from overflowing.
		return
	}
	n.dMinSubtree += delta
	n.dMaxSubtree += delta
	n.diffSubtree += delta
}

func (h *HPT) applyBoth(id, delta int32) {
	h.applyPath(id, delta)
	h.applySubtree(id, delta)
}

// recompute refreshes id's cached aggregates from its children (a PT
// combiner) or its pendant heavy paths (a PT leaf with light children).
// A true replicate leaf has neither and is left untouched.
func (h *HPT) recompute(id int32) {
	n := &h.nodes[id]
	if n.left != -1 {
		l, r := h.nodes[n.left], h.nodes[n.right]
		n.dMinPath = minI32(l.dMinPath, r.dMinPath)
		n.dMaxPath = maxI32(l.dMaxPath, r.dMaxPath)
		n.dMinSubtree = minI32(l.dMinSubtree, r.dMinSubtree)
		n.dMaxSubtree = maxI32(l.dMaxSubtree, r.dMaxSubtree)
		return
	}
	if len(n.childHeavyPaths) == 0 {
		return
	}
	mn, mx := int32(math.MaxInt32), int32(math.MinInt32)
	for _, c := range n.childHeavyPaths {
		cn := h.nodes[c]
		if v := minI32(cn.dMinPath, cn.dMinSubtree); v < mn {
			mn = v
		}
		if v := maxI32(cn.dMaxPath, cn.dMaxSubtree); v > mx {
			mx = v
		}
	}
	n.dMinSubtree, n.dMaxSubtree = mn, mx
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
