package hpt

import "math"

// Balanced is the §4.6.4 fallback for provably balanced replicates: a
// direct add-leaf/reset-leaf walk over the real tree instead of a
// Heavy-Path Tree, still O(log n) per leaf because the tree itself is
// already height-balanced. Every internal node keeps its own current
// distance (dSelf) plus the min/max of its whole subtree (dMin/dMax,
// including itself) and a pending diff for its children — the same
// lazy-propagation discipline as HPT, minus the path/pendant split.
type Balanced struct {
	shape  ReplicateShape
	dSelf  []int32
	dMin   []int32
	dMax   []int32
	diff   []int32
	leafOf []int32
	routes [][]int32
	root   int32
}

// IsBalanced reports whether every internal node's children differ in
// subtree size by at most one — the precondition for using Balanced
// instead of the full HPT.
func IsBalanced(shape ReplicateShape) bool {
	for v := int32(0); v < int32(shape.NumNodes()); v++ {
		children := shape.Children(v)
		if len(children) < 2 {
			continue
		}
		lo, hi := int32(math.MaxInt32), int32(math.MinInt32)
		for _, c := range children {
			sz := shape.SubtreeSize(c)
			if sz < lo {
				lo = sz
			}
			if sz > hi {
				hi = sz
			}
		}
		if hi-lo > 1 {
			return false
		}
	}
	return true
}

// NewBalanced builds the direct lazy structure over shape, sized for
// shape's leaf count, aggregates each node's initial subtree extrema,
// and precomputes each taxon's root-to-leaf route exactly as Decompose
// does for the full HPT.
func NewBalanced(shape ReplicateShape) *Balanced {
	n := shape.NumNodes()
	b := &Balanced{
		shape:  shape,
		dSelf:  make([]int32, n),
		dMin:   make([]int32, n),
		dMax:   make([]int32, n),
		diff:   make([]int32, n),
		leafOf: make([]int32, shape.SubtreeSize(shape.Root())),
		root:   shape.Root(),
	}
	for v := int32(0); v < int32(n); v++ {
		d0 := shape.SubtreeSize(v)
		b.dSelf[v], b.dMin[v], b.dMax[v] = d0, d0, d0
		if shape.IsLeaf(v) {
			b.leafOf[shape.Taxon(v)] = v
		}
	}
	var initExtrema func(v int32)
	initExtrema = func(v int32) {
		for _, c := range shape.Children(v) {
			initExtrema(c)
		}
		b.recompute(v)
	}
	initExtrema(b.root)
	b.routes = make([][]int32, len(b.leafOf))
	b.collectRoutes()
	return b
}

func (b *Balanced) collectRoutes() {
	var path []int32
	var dfs func(v int32)
	dfs = func(v int32) {
		path = append(path, v)
		children := b.shape.Children(v)
		if len(children) == 0 {
			route := make([]int32, len(path))
			copy(route, path)
			b.routes[b.shape.Taxon(v)] = route
		}
		for _, c := range children {
			dfs(c)
		}
		path = path[:len(path)-1]
	}
	dfs(b.root)
}

// AddLeaf and ResetLeaf mirror HPT's — AddLeaf marks a replicate leaf,
// ResetLeaf is its exact arithmetic inverse.
func (b *Balanced) AddLeaf(taxon int32)   { b.markRoute(b.routes[taxon], -1, 1) }
func (b *Balanced) ResetLeaf(taxon int32) { b.markRoute(b.routes[taxon], 1, -1) }

func (b *Balanced) RootMin() int32 { return b.dMin[b.root] }
func (b *Balanced) RootMax() int32 { return b.dMax[b.root] }

func (b *Balanced) markRoute(route []int32, ancestorDelta, otherDelta int32) {
	for i := 0; i < len(route)-1; i++ {
		v, next := route[i], route[i+1]
		b.pushDown(v)
		b.dSelf[v] += ancestorDelta
		for _, c := range b.shape.Children(v) {
			if c != next {
				b.bump(c, otherDelta)
			}
		}
	}
	last := route[len(route)-1]
	b.dSelf[last] += ancestorDelta

	for i := len(route) - 1; i >= 0; i-- {
		b.recompute(route[i])
	}
}

func (b *Balanced) pushDown(v int32) {
	d := b.diff[v]
	if d == 0 {
		return
	}
	for _, c := range b.shape.Children(v) {
		b.bump(c, d)
	}
	b.diff[v] = 0
}

func (b *Balanced) bump(v, delta int32) {
	b.dSelf[v] += delta
	b.dMin[v] += delta
	b.dMax[v] += delta
	b.diff[v] += delta
}

// BestMinNode and BestMaxNode return the real replicate node currently
// attaining RootMin()/RootMax() — the node id itself doubles as the
// replicate node id here, since Balanced addresses the real tree
// directly rather than a synthetic Path-Tree arena.
func (b *Balanced) BestMinNode() int32 { return b.argminNode(b.root) }
func (b *Balanced) BestMaxNode() int32 { return b.argmaxNode(b.root) }

func (b *Balanced) argminNode(v int32) int32 {
	b.pushDown(v)
	children := b.shape.Children(v)
	if len(children) == 0 {
		return v
	}
	best, bestChild := b.dSelf[v], int32(-1)
	for _, c := range children {
		if b.dMin[c] < best {
			best, bestChild = b.dMin[c], c
		}
	}
	if bestChild == -1 {
		return v
	}
	return b.argminNode(bestChild)
}

// argmaxNode mirrors argminNode for the maximum side.
func (b *Balanced) argmaxNode(v int32) int32 {
	b.pushDown(v)
	children := b.shape.Children(v)
	if len(children) == 0 {
		return v
	}
	best, bestChild := b.dSelf[v], int32(-1)
	for _, c := range children {
		if b.dMax[c] > best {
			best, bestChild = b.dMax[c], c
		}
	}
	if bestChild == -1 {
		return v
	}
	return b.argmaxNode(bestChild)
}

func (b *Balanced) recompute(v int32) {
	mn, mx := b.dSelf[v], b.dSelf[v]
	for _, c := range b.shape.Children(v) {
		if b.dMin[c] < mn {
			mn = b.dMin[c]
		}
		if b.dMax[c] > mx {
			mx = b.dMax[c]
		}
	}
	b.dMin[v], b.dMax[v] = mn, mx
}
