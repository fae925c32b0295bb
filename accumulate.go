package tbe

import "github.com/gaissmai/tbe/internal/bitset"

// transferSetFromBitsets derives the minimum transfer set directly from
// two child-side bipartition bitsets: their symmetric difference gives
// the unfolded set, folded to whichever side is smaller — the same
// min(h, n-h) choice transferIndex itself makes. Used by the naive
// engine's fallback path, which already has both bitsets in hand and
// has no Heavy-Path Tree to walk.
func transferSetFromBitsets(refBS, repBS bitset.Set, n int) []int32 {
	xor := refBS.Xor(repBS)
	if xor.Count() > n/2 {
		xor = xor.Complement(n)
	}
	bits := xor.AsSlice()
	out := make([]int32, len(bits))
	for i, b := range bits {
		out[i] = int32(b)
	}
	return out
}

// normalizeTBE turns the accumulated per-edge distance sums into the
// final support values, per §4.7: for reference edge i with
// topological depth p_i, TBE_support(i) = 1 − average(min_dist_i) /
// (p_i − 1). Terminal edges and edges with p_i ≤ 1 (no non-trivial
// bipartition to dilute) get the conventional value 1, matching the
// "identical ref and replicate" boundary case of §8.
func normalizeTBE(ref *Tree, sumMinDist []uint64, count int) []float64 {
	support := make([]float64, len(sumMinDist))
	for i := range sumMinDist {
		p := ref.EdgeTopoDepth(i)
		if ref.EdgeIsTerminal(i) || p <= 1 || count == 0 {
			support[i] = 1
			continue
		}
		avg := float64(sumMinDist[i]) / float64(count)
		support[i] = 1 - avg/float64(p-1)
	}
	return support
}

// normalizeFBP turns accumulated exact-match hit counts into the
// classical Felsenstein Bootstrap Proportion: hits / replicates.
func normalizeFBP(hits []int, count int) []float64 {
	support := make([]float64, len(hits))
	for i, h := range hits {
		if count == 0 {
			support[i] = 1
			continue
		}
		support[i] = float64(h) / float64(count)
	}
	return support
}

// movedTaxaAccumulator tracks, per taxon name, how often that taxon
// appeared in the minimum transfer set of a branch whose normalised
// distance was at or below a configured cutoff — the "moved taxa" diagnostic
// ported from booster.go's movedSpeciesCutoff/speciesToMove (see
// SPEC_FULL.md's supplemented-features section).
type movedTaxaAccumulator struct {
	cutoff float64
	counts map[int32]int
}

func newMovedTaxaAccumulator(cutoff float64) *movedTaxaAccumulator {
	return &movedTaxaAccumulator{cutoff: cutoff, counts: make(map[int32]int)}
}

// observe records one replicate's contribution to edge i: if the
// normalised distance (dist / max(p-1, 1)) is at or below the cutoff,
// every taxon in transferSet is charged one occurrence.
func (m *movedTaxaAccumulator) observe(topoDepth int32, dist uint16, transferSet []int32) {
	denom := topoDepth - 1
	if denom < 1 {
		denom = 1
	}
	normalized := float64(dist) / float64(denom)
	if normalized > m.cutoff {
		return
	}
	for _, taxon := range transferSet {
		m.counts[taxon]++
	}
}

// frequency turns the raw occurrence counts into a per-taxon rate over
// replicateCount, keyed by taxon name via taxa.
func (m *movedTaxaAccumulator) frequency(taxa *TaxonTable, replicateCount int) map[string]float64 {
	out := make(map[string]float64, len(m.counts))
	if replicateCount == 0 {
		return out
	}
	for taxon, count := range m.counts {
		out[taxa.Name(taxon)] = float64(count) / float64(replicateCount)
	}
	return out
}
