package tbe

// ExactSupport returns, for every reference edge (indexed as in
// ref.EdgeTopoDepth/ref.EdgeLength), 1 if some internal replicate edge
// shares its exact bipartition (equal child-side bitset, or equal to its
// complement — the two bitsets describe the same unrooted bipartition
// either way), 0 otherwise. Terminal replicate edges are not compared,
// so a terminal reference edge gets 0. The caller accumulates these across
// replicates and divides by the replicate count to get the classical
// Felsenstein Bootstrap Proportion.
func ExactSupport(ref *Tree, replicate *Tree) []int {
	hits := make([]int, ref.NumEdges())
	n := ref.taxa.Len()

	for i := 0; i < ref.NumEdges(); i++ {
		refBS := ref.edgeBitset(i)
		for j := 0; j < replicate.NumEdges(); j++ {
			if replicate.EdgeIsTerminal(j) {
				continue
			}
			if refBS.EqualOrComplement(replicate.edgeBitset(j), n) {
				hits[i] = 1
				break
			}
		}
	}

	return hits
}
