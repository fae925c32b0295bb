package tbe

import "github.com/gaissmai/tbe/internal/bitset"

// minBranchLength is the floor applied to every parsed branch length —
// MIN_BRLEN in the terminology of the format this codec reads and
// writes.
const minBranchLength = 1e-10

// nodeID and edgeID address the arena slices of a Tree. Both are -1
// ("none") when there is no such node or edge; real ids are always
// non-negative indices into Tree.nodes / Tree.edges.
type nodeID int32
type edgeID int32

const noNode nodeID = -1
const noEdge edgeID = -1

// treeNode is one node of the arena. Leaves carry a taxon id; internal
// nodes carry children and, once sealed, a heavy child and the flat
// list of taxa found in their light (non-heavy) subtrees.
type treeNode struct {
	parentEdge  edgeID   // edge from this node to its parent, noEdge for the root
	children    []edgeID // child edges in input order
	name        string   // leaf name, or an internal node's rarely-used label
	taxon       int32    // taxon id if this node is a leaf, -1 otherwise
	subtreeSize int32    // number of leaves under this node; set by seal()
	heavyChild  edgeID   // edge to the heavy child; noEdge until seal(), noEdge for leaves
	lightLeaves []int32  // taxon ids under every non-heavy child; set by seal()
}

func (n *treeNode) isLeaf() bool { return n.taxon >= 0 }

// treeEdge is one edge of the arena, always directed from parent to
// child. Its bitset and topoDepth are filled by seal() and describe the
// bipartition induced by removing this edge: bit i set means taxon i is
// on the child side.
type treeEdge struct {
	parent     nodeID
	child      nodeID
	length     float64
	support    float64
	hasSupport bool
	bitset     bitset.Set
	topoDepth  int32
}

// Tree is a rooted phylogenetic tree addressed entirely through
// nodeID/edgeID indices into its own arenas, sharing a single
// TaxonTable with every other tree built against the same reference.
type Tree struct {
	taxa      *TaxonTable
	nodes     []treeNode
	edges     []treeEdge
	root      nodeID
	sealed    bool
	postOrder []nodeID // node visitation order for post-order passes; set by seal()
}

// newTree returns an empty, unsealed tree sharing taxa with every other
// tree parsed for the same run.
func newTree(taxa *TaxonTable) *Tree {
	return &Tree{taxa: taxa, root: noNode}
}

// Taxa returns the taxon table this tree was parsed against.
func (t *Tree) Taxa() *TaxonTable { return t.taxa }

// Sealed reports whether seal() has already run.
func (t *Tree) Sealed() bool { return t.sealed }

// NumNodes and NumEdges expose the arena sizes, used by the stats-file
// writer and by engines that allocate parallel scratch slices.
func (t *Tree) NumNodes() int { return len(t.nodes) }
func (t *Tree) NumEdges() int { return len(t.edges) }

func (t *Tree) addNode(name string, taxon int32) nodeID {
	id := nodeID(len(t.nodes))
	t.nodes = append(t.nodes, treeNode{parentEdge: noEdge, taxon: taxon, name: name, heavyChild: noEdge})
	return id
}

func (t *Tree) addEdge(parent, child nodeID, length float64, support float64, hasSupport bool) edgeID {
	length = clampLength(length)
	id := edgeID(len(t.edges))
	t.edges = append(t.edges, treeEdge{parent: parent, child: child, length: length, support: support, hasSupport: hasSupport})
	t.nodes[child].parentEdge = id
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

func (t *Tree) node(id nodeID) *treeNode { return &t.nodes[id] }
func (t *Tree) edge(id edgeID) *treeEdge { return &t.edges[id] }

// children returns the child edges of n in input order.
func (t *Tree) children(n nodeID) []edgeID { return t.nodes[n].children }

// EdgeTopoDepth returns the topological depth (min(|side|, n-|side|)) of
// edge i, valid only after the tree has been sealed.
func (t *Tree) EdgeTopoDepth(i int) int32 { return t.edges[i].topoDepth }

// EdgeLength returns the branch length of edge i.
func (t *Tree) EdgeLength(i int) float64 { return t.edges[i].length }

// EdgeIsTerminal reports whether edge i leads to a leaf.
func (t *Tree) EdgeIsTerminal(i int) bool { return t.nodes[t.edges[i].child].isLeaf() }

// edgeBitset returns the child-side bitset of edge i.
func (t *Tree) edgeBitset(i int) bitset.Set { return t.edges[i].bitset }

// EdgeBitset exposes the child-side bipartition bitset of edge i to
// other packages — the narrow surface internal/naive and internal/hpt
// consume instead of depending on *Tree directly.
func (t *Tree) EdgeBitset(i int) bitset.Set { return t.edges[i].bitset }

// nodeBitset returns the bipartition bitset that node v's own subtree
// induces: its parent edge's child-side bitset, or the full taxon set
// for the root, which has no parent edge.
func (t *Tree) nodeBitset(v nodeID) bitset.Set {
	if v == t.root {
		full := bitset.New(t.taxa.Len())
		for i := 0; i < t.taxa.Len(); i++ {
			full.MustSet(uint(i))
		}
		return full
	}
	return t.edgeBitset(int(t.nodes[v].parentEdge))
}

// SetEdgeSupport overwrites edge i's support label, used by the
// orchestrator to annotate the reference tree with normalised support
// values before emission — any support label read off the input Newick
// is discarded this way, per §6 ("overwritten on output").
func (t *Tree) SetEdgeSupport(i int, value float64) {
	t.edges[i].support = value
	t.edges[i].hasSupport = true
}
