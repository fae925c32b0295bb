package tbe

import "github.com/gaissmai/tbe/internal/hpt"

// tiEngine is the narrow surface walkHeavyPath needs from either the
// full Heavy-Path Tree or its balanced-replicate fallback (§4.6.4) —
// both *hpt.HPT and *hpt.Balanced satisfy it. BestMinNode/BestMaxNode
// expose the real replicate node currently attaining RootMin/RootMax,
// letting the caller reconstruct the actual minimum transfer set
// instead of just its size (§4.6.5).
type tiEngine interface {
	AddLeaf(taxon int32)
	ResetLeaf(taxon int32)
	RootMin() int32
	RootMax() int32
	BestMinNode() int32
	BestMaxNode() int32
}

// FastSupport computes, for every edge of ref, the minimum transfer
// distance to any edge of rep using the heavy-path engine of §4.6
// instead of the naive engine's O(n^2) matrices. It validates only
// rep's shape — ref is assumed already validated once by the caller,
// since a reference that fails the fast-path shape check fails it for
// every replicate identically.
//
// When withTransferSet is true, the taxa forming the minimum transfer
// set are additionally recorded for every reference edge (§4.6.5),
// returned alongside the distances; otherwise the second return value
// is nil, avoiding the extra descent on the hot path.
func FastSupport(ref, rep *Tree, withTransferSet bool) ([]uint16, [][]int32, error) {
	if err := rep.validateFastShape(); err != nil {
		return nil, nil, err
	}

	var engine tiEngine
	if hpt.IsBalanced(rep) {
		engine = hpt.NewBalanced(rep)
	} else {
		engine = hpt.Decompose(rep)
	}

	n := ref.taxa.Len()
	tiMin := make([]int32, ref.NumNodes())
	tiMax := make([]int32, ref.NumNodes())
	var sets [][]int32
	if withTransferSet {
		sets = make([][]int32, ref.NumNodes())
	}

	for id, node := range ref.nodes {
		if node.isLeaf() {
			walkHeavyPath(ref, rep, nodeID(id), engine, tiMin, tiMax, sets, n)
		}
	}

	out := make([]uint16, ref.NumEdges())
	var outSets [][]int32
	if withTransferSet {
		outSets = make([][]int32, ref.NumEdges())
	}
	for id, node := range ref.nodes {
		if nodeID(id) == ref.root {
			continue
		}
		h := minInt(int(tiMin[id]), n-int(tiMax[id]))
		out[node.parentEdge] = uint16(h)
		if withTransferSet {
			outSets[node.parentEdge] = sets[id]
		}
	}
	return out, outSets, nil
}

// walkHeavyPath implements §4.6.2: starting from reference leaf start,
// mark its own taxon, then repeatedly climb to the parent while the
// current node is the parent's heavy child, marking the parent's
// light-subtree leaves at each step and recording the replicate
// engine's root extrema as the current node's transfer-index bounds.
// The walk stops the first time it reaches a node that is itself a
// light child of its parent — a different walk, climbing through that
// parent's heavy child, will continue from there instead. Every
// reference node is visited as the current position by exactly one
// walk, giving O(n log n) total mark operations across the whole tree.
// When sets is non-nil, the actual minimum transfer set is reconstructed
// at every visited node (§4.6.5).
func walkHeavyPath(ref, rep *Tree, start nodeID, engine tiEngine, tiMin, tiMax []int32, sets [][]int32, n int) {
	u := start
	var marked []int32

	mark := func(taxon int32) {
		engine.AddLeaf(taxon)
		marked = append(marked, taxon)
	}
	mark(ref.nodes[u].taxon)

	for {
		mn, mx := engine.RootMin(), engine.RootMax()
		tiMin[u] = mn
		tiMax[u] = mx
		if sets != nil {
			sets[u] = transferSet(ref, rep, u, engine, mn, mx, n)
		}

		if u == ref.root || !ref.isHeavyChildOf(u) {
			break
		}

		pe := ref.nodes[u].parentEdge
		p := ref.edges[pe].parent
		for _, taxon := range ref.nodes[p].lightLeaves {
			mark(taxon)
		}
		u = p
	}

	for _, taxon := range marked {
		engine.ResetLeaf(taxon)
	}
}

// transferSet reconstructs the actual minimum transfer set for reference
// node u (§4.6.5): the symmetric difference between u's own bipartition
// and whichever replicate node's bipartition attains the winning
// extremum, folded exactly the way the support value itself was folded.
// Ties between the min side and the complement (max) side resolve toward
// the complement, matching minInt's tie-break in FastSupport so the
// recorded set always agrees with the recorded distance.
func transferSet(ref, rep *Tree, u nodeID, engine tiEngine, mn, mx int32, n int) []int32 {
	refBS := ref.nodeBitset(u)
	if int(mn) < n-int(mx) {
		return transferSetFromBitsets(refBS, rep.nodeBitset(nodeID(engine.BestMinNode())), n)
	}
	return transferSetFromBitsets(refBS, rep.nodeBitset(nodeID(engine.BestMaxNode())).Complement(n), n)
}
