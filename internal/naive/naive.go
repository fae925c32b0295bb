// Package naive implements the O(n²) baseline transfer-index
// computation: for every reference edge, the minimum Hamming distance
// (folded to min(h, n-h)) to any edge of one replicate tree.
//
// This is the Brehelin/Gascuel/Martin algorithm reformulated over
// already-sealed bipartition bitsets rather than the original's
// incremental edge-indexed I/C matrices: popcount(refBS XOR repBS) is
// the same quantity their post-order I_ij/C_ij recursion arrives at
// (I_ij = |refBS ∩ repBS|, C_ij = |repBS| - I_ij, hamming =
// |refBS|+C_ij-I_ij = |refBS|+|repBS|-2*I_ij = popcount(refBS XOR
// repBS)), computed directly since both trees already carry bitsets
// from sealing. Serves as the correctness oracle the fast engine is
// checked against.
package naive

import "github.com/gaissmai/tbe/internal/bitset"

// TopoView is the narrow read-only surface Compute needs from a sealed
// tree — implemented by the root package's *Tree without internal/naive
// ever importing it, avoiding an import cycle.
type TopoView interface {
	NumEdges() int
	EdgeBitset(i int) bitset.Set
	EdgeIsTerminal(i int) bool
}

// Compute returns, for every edge of ref (indexed 0..ref.NumEdges()-1),
// the minimum transfer distance to any edge of rep, and the index of a
// rep edge attaining it. ntaxa is the shared taxon count both trees
// were sealed against.
func Compute(ref, rep TopoView, ntaxa int) (minDist []uint16, minDistEdge []int32) {
	numRef := ref.NumEdges()
	minDist = make([]uint16, numRef)
	minDistEdge = make([]int32, numRef)

	half := ntaxa / 2

	for i := 0; i < numRef; i++ {
		refBS := ref.EdgeBitset(i)
		best := uint16(ntaxa)
		bestEdge := int32(-1)

		for j := 0; j < rep.NumEdges(); j++ {
			h := refBS.HammingDistance(rep.EdgeBitset(j))
			if h > half {
				h = ntaxa - h
			}
			if uint16(h) < best {
				best = uint16(h)
				bestEdge = int32(j)
			}
		}

		minDist[i] = best
		minDistEdge[i] = bestEdge
	}

	return minDist, minDistEdge
}
