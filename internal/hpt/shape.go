// Package hpt implements the Heavy-Path Tree (HPT) and its lazy
// add-leaf/reset-leaf propagation — the fast Transfer Index engine's
// replicate-side data structure.
//
// It has no dependency on the root package's Tree type: it operates on
// the abstract ReplicateShape view instead, the way gaissmai/bart's
// internal/nodes avoids importing the bart package itself. The root
// package depends on internal/hpt, never the reverse.
package hpt

// ReplicateShape is the read-only view of a sealed, binary (root
// possibly ternary) replicate tree that Decompose needs: node ids range
// over [0, NumNodes()), with Root() the tree's root node id.
type ReplicateShape interface {
	NumNodes() int
	Root() int32
	Children(node int32) []int32
	IsLeaf(node int32) bool
	SubtreeSize(node int32) int32
	Taxon(node int32) int32
}
