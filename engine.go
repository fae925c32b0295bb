package tbe

import (
	"github.com/rs/zerolog"

	"github.com/gaissmai/tbe/internal/naive"
)

// Algorithm selects which branch-support statistic the orchestrator
// computes for a run: the relaxed Transfer Bootstrap Expectation or the
// classical Felsenstein exact-match proportion.
type Algorithm int

const (
	AlgorithmTBE Algorithm = iota
	AlgorithmFBP
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmFBP:
		return "fbp"
	default:
		return "tbe"
	}
}

// transferIndex returns, for every edge of ref, the minimum transfer
// distance to any edge of rep, and — when withTransferSet is true —
// the taxa forming that minimum transfer set. It prefers the fast
// heavy-path engine, falling back to the naive O(n²) engine when rep
// fails the fast path's shape requirement (§7: ShapeError on a
// replicate is not fatal) or when refFastOK is false — decided once,
// at orchestrator construction, since a reference that fails the shape
// check fails it identically for every replicate and there is no point
// re-checking it per call.
func transferIndex(ref, rep *Tree, refFastOK, withTransferSet bool, replicateIndex int, logger zerolog.Logger) ([]uint16, [][]int32) {
	if refFastOK {
		minDist, sets, err := FastSupport(ref, rep, withTransferSet)
		if err == nil {
			return minDist, sets
		}
		logger.Warn().
			Int("replicate", replicateIndex).
			Err(err).
			Msg("replicate failed fast-path shape check, falling back to naive engine")
	}

	minDist, minDistEdge := naive.Compute(ref, rep, ref.taxa.Len())
	if !withTransferSet {
		return minDist, nil
	}

	n := ref.taxa.Len()
	sets := make([][]int32, ref.NumEdges())
	for i, j := range minDistEdge {
		if j < 0 {
			continue
		}
		sets[i] = transferSetFromBitsets(ref.edgeBitset(i), rep.edgeBitset(int(j)), n)
	}
	return minDist, sets
}
