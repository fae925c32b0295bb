package tbe

import "testing"

func TestNormalizeTBEConventionalValues(t *testing.T) {
	ref, _ := parseSealed(t, "((A,B),(C,D),E);")
	sumMinDist := make([]uint64, ref.NumEdges())

	support := normalizeTBE(ref, sumMinDist, 10)
	for i := 0; i < ref.NumEdges(); i++ {
		if ref.EdgeIsTerminal(i) {
			if support[i] != 1 {
				t.Fatalf("terminal edge %d: support = %v, want 1", i, support[i])
			}
			continue
		}
		// no distance accumulated yet: every replicate matched exactly.
		if support[i] != 1 {
			t.Fatalf("edge %d: support = %v, want 1 for zero accumulated distance", i, support[i])
		}
	}
}

func TestNormalizeTBEZeroReplicates(t *testing.T) {
	ref, _ := parseSealed(t, "((A,B),(C,D),E);")
	sumMinDist := make([]uint64, ref.NumEdges())

	support := normalizeTBE(ref, sumMinDist, 0)
	for i, s := range support {
		if s != 1 {
			t.Fatalf("edge %d: support = %v, want 1 when count == 0", i, s)
		}
	}
}

func TestNormalizeTBEAverages(t *testing.T) {
	ref, _ := parseSealed(t, "((A,B),(C,D),E);")
	sumMinDist := make([]uint64, ref.NumEdges())

	var internalEdge = -1
	for i := 0; i < ref.NumEdges(); i++ {
		if !ref.EdgeIsTerminal(i) && ref.EdgeTopoDepth(i) == 2 {
			internalEdge = i
			break
		}
	}
	if internalEdge < 0 {
		t.Fatal("expected to find an internal edge with topo depth 2")
	}

	// Two replicates, transfer distance 1 each: average 1, topo depth 2,
	// so support = 1 - 1/(2-1) = 0.
	sumMinDist[internalEdge] = 2
	support := normalizeTBE(ref, sumMinDist, 2)
	if support[internalEdge] != 0 {
		t.Fatalf("support = %v, want 0", support[internalEdge])
	}
}

func TestNormalizeFBPBasic(t *testing.T) {
	hits := []int{0, 3, 5}
	support := normalizeFBP(hits, 5)
	want := []float64{0, 0.6, 1.0}
	for i, w := range want {
		if support[i] != w {
			t.Fatalf("edge %d: support = %v, want %v", i, support[i], w)
		}
	}
}

func TestNormalizeFBPZeroReplicates(t *testing.T) {
	hits := []int{0, 1}
	support := normalizeFBP(hits, 0)
	for i, s := range support {
		if s != 1 {
			t.Fatalf("edge %d: support = %v, want 1 when count == 0", i, s)
		}
	}
}

func TestTransferSetFromBitsetsFoldsToSmallerSide(t *testing.T) {
	ref, taxa := parseSealed(t, "((A,B),(C,D),E);")
	rep := parseAgainst(t, "((A,C),(B,D),E);", taxa)

	n := taxa.Len()
	var refEdge, repEdge = -1, -1
	for i := 0; i < ref.NumEdges(); i++ {
		if !ref.EdgeIsTerminal(i) && ref.EdgeTopoDepth(i) == 2 {
			refEdge = i
			break
		}
	}
	for j := 0; j < rep.NumEdges(); j++ {
		if !rep.EdgeIsTerminal(j) && rep.EdgeTopoDepth(j) == 2 {
			repEdge = j
			break
		}
	}
	if refEdge < 0 || repEdge < 0 {
		t.Fatal("expected to find a depth-2 internal edge in both trees")
	}

	set := transferSetFromBitsets(ref.edgeBitset(refEdge), rep.edgeBitset(repEdge), n)
	if len(set) > n/2 {
		t.Fatalf("len(transfer set) = %d, want <= n/2 = %d", len(set), n/2)
	}
}

func TestMovedTaxaAccumulatorCutoff(t *testing.T) {
	taxa := NewTaxonTable()
	idA, _ := taxa.intern("A")
	idB, _ := taxa.intern("B")
	taxa.Freeze()

	acc := newMovedTaxaAccumulator(0.5)
	// topoDepth 3 -> denom 2; dist 1 -> normalized 0.5, at the cutoff: counted.
	acc.observe(3, 1, []int32{idA})
	// dist 2 -> normalized 1.0, above the cutoff: not counted.
	acc.observe(3, 2, []int32{idB})

	freq := acc.frequency(taxa, 2)
	if freq["A"] != 0.5 {
		t.Fatalf("freq[A] = %v, want 0.5", freq["A"])
	}
	if _, ok := freq["B"]; ok {
		t.Fatalf("freq[B] should be absent, taxon never crossed the cutoff")
	}
}
