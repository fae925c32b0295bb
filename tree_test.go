package tbe

import "testing"

// buildFiveTaxonTree constructs ref = ((A,B),(C,D),E); directly through
// the arena API, bypassing the Newick codec, for tests that only care
// about the tree/seal layer.
func buildFiveTaxonTree(t *testing.T) (*Tree, *TaxonTable) {
	t.Helper()
	taxa := NewTaxonTable()
	var ids [5]int32
	for i, name := range []string{"A", "B", "C", "D", "E"} {
		id, err := taxa.intern(name)
		if err != nil {
			t.Fatalf("intern %s: %v", name, err)
		}
		ids[i] = id
	}
	taxa.Freeze()

	tr := newTree(taxa)
	root := tr.addNode("", -1)
	n1 := tr.addNode("", -1)
	n2 := tr.addNode("", -1)
	leafA := tr.addNode("A", ids[0])
	leafB := tr.addNode("B", ids[1])
	leafC := tr.addNode("C", ids[2])
	leafD := tr.addNode("D", ids[3])
	leafE := tr.addNode("E", ids[4])

	tr.addEdge(n1, leafA, 1.0, 0, false)
	tr.addEdge(n1, leafB, 1.0, 0, false)
	tr.addEdge(n2, leafC, 1.0, 0, false)
	tr.addEdge(n2, leafD, 1.0, 0, false)
	tr.addEdge(root, n1, 1.0, 0, false)
	tr.addEdge(root, n2, 1.0, 0, false)
	tr.addEdge(root, leafE, 1.0, 0, false)
	tr.root = root

	return tr, taxa
}

func TestTreeArenaWiring(t *testing.T) {
	tr, _ := buildFiveTaxonTree(t)

	if tr.NumNodes() != 8 {
		t.Fatalf("NumNodes() = %d, want 8", tr.NumNodes())
	}
	if tr.NumEdges() != 7 {
		t.Fatalf("NumEdges() = %d, want 7", tr.NumEdges())
	}
	if tr.Sealed() {
		t.Fatal("a freshly built tree must not be sealed yet")
	}

	root := tr.root
	if len(tr.children(root)) != 3 {
		t.Fatalf("root has %d children, want 3", len(tr.children(root)))
	}
}

func TestBranchLengthFloor(t *testing.T) {
	taxa := NewTaxonTable()
	id, _ := taxa.intern("A")
	taxa.Freeze()

	tr := newTree(taxa)
	root := tr.addNode("", -1)
	leaf := tr.addNode("A", id)
	e := tr.addEdge(root, leaf, -3.0, 0, false)
	tr.root = root

	if got := tr.edge(e).length; got != minBranchLength {
		t.Fatalf("negative branch length not floored: got %v, want %v", got, minBranchLength)
	}
}
