package hpt

import "testing"

// fakeShape is a hand-built ReplicateShape for ((A,B),(C,D),E); with
// node ids: 0=root,
// 1=n1{A,B}, 2=n2{C,D}, 3=E, 4=A, 5=B, 6=C, 7=D. Taxon ids follow
// alphabetic order A=0,B=1,C=2,D=3,E=4.
func fakeShape() *fixedShape {
	return &fixedShape{
		children: [][]int32{
			0: {1, 2, 3},
			1: {4, 5},
			2: {6, 7},
			3: {},
			4: {},
			5: {},
			6: {},
			7: {},
		},
		size:  []int32{5, 2, 2, 1, 1, 1, 1, 1},
		taxon: []int32{-1, -1, -1, 4, 0, 1, 2, 3},
		root:  0,
	}
}

type fixedShape struct {
	children [][]int32
	size     []int32
	taxon    []int32
	root     int32
}

func (f *fixedShape) NumNodes() int               { return len(f.size) }
func (f *fixedShape) Root() int32                 { return f.root }
func (f *fixedShape) Children(v int32) []int32    { return f.children[v] }
func (f *fixedShape) IsLeaf(v int32) bool         { return len(f.children[v]) == 0 }
func (f *fixedShape) SubtreeSize(v int32) int32   { return f.size[v] }
func (f *fixedShape) Taxon(v int32) int32         { return f.taxon[v] }

func TestDecomposeInitialExtrema(t *testing.T) {
	h := Decompose(fakeShape())
	if got := h.RootMin(); got != 1 {
		t.Fatalf("RootMin() = %d, want 1 (every leaf has d0=1)", got)
	}
	if got := h.RootMax(); got != 5 {
		t.Fatalf("RootMax() = %d, want 5 (the root's own d0)", got)
	}
}

func TestAddLeafUpdatesExtrema(t *testing.T) {
	h := Decompose(fakeShape())

	const taxonA = int32(0)
	h.AddLeaf(taxonA)

	if got := h.RootMin(); got != 0 {
		t.Fatalf("RootMin() after AddLeaf(A) = %d, want 0 (A matches itself)", got)
	}
	if got := h.RootMax(); got != 4 {
		t.Fatalf("RootMax() after AddLeaf(A) = %d, want 4 (root: 5-1)", got)
	}
}

func TestResetLeafRestoresExactState(t *testing.T) {
	h := Decompose(fakeShape())

	const taxonC = int32(2)
	h.AddLeaf(taxonC)
	h.ResetLeaf(taxonC)

	if got := h.RootMin(); got != 1 {
		t.Fatalf("RootMin() after add+reset = %d, want 1 (back to initial)", got)
	}
	if got := h.RootMax(); got != 5 {
		t.Fatalf("RootMax() after add+reset = %d, want 5 (back to initial)", got)
	}
}

func TestAddLeafAllTaxaReachesZero(t *testing.T) {
	h := Decompose(fakeShape())

	for taxon := int32(0); taxon < 5; taxon++ {
		h.AddLeaf(taxon)
	}

	// L(u) now equals the full taxon set: d(u, replicate-root) == 0
	// exactly (every taxon intersects, none is outside).
	if got := h.RootMin(); got != 0 {
		t.Fatalf("RootMin() with every leaf marked = %d, want 0", got)
	}
}

func TestBestMinNodeIdentifiesExactMatch(t *testing.T) {
	h := Decompose(fakeShape())
	h.AddLeaf(0) // mark A

	if got := h.RootMin(); got != 0 {
		t.Fatalf("RootMin() = %d, want 0 (leaf A matches itself exactly)", got)
	}
	if got := h.BestMinNode(); got != 4 {
		t.Fatalf("BestMinNode() = %d, want 4 (replicate node for taxon A)", got)
	}
}

func TestBestMaxNodeIdentifiesRoot(t *testing.T) {
	h := Decompose(fakeShape())
	h.AddLeaf(0) // mark A

	if got := h.RootMax(); got != 4 {
		t.Fatalf("RootMax() = %d, want 4 (root: 5-1)", got)
	}
	if got := h.BestMaxNode(); got != 0 {
		t.Fatalf("BestMaxNode() = %d, want 0 (replicate root)", got)
	}
}
