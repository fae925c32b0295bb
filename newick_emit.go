package tbe

import (
	"io"
	"strconv"
	"strings"
)

// formatLength renders a branch length with enough significant digits
// to round-trip through Parse without drifting beyond MIN_BRLEN.
func formatLength(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// formatSupport renders a support value in [0, 1] with enough decimal
// places to distinguish 1/K for any replicate count K this module is
// realistically run with.
func formatSupport(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// Emit writes t in Newick format: internal-edge support labels (when
// set) precede `:<length>`, leaf tokens are `name:length`, and the tree
// is terminated with `;`. t must already be sealed.
func (t *Tree) Emit(w io.Writer) error {
	if !t.sealed {
		return newError(KindInvariant, "Emit called on an unsealed tree", nil)
	}

	strs := make([]string, len(t.nodes))
	for _, id := range t.postOrder {
		node := t.node(id)
		if node.isLeaf() {
			strs[id] = node.name
			continue
		}

		var sb strings.Builder
		sb.WriteByte('(')
		for i, ce := range node.children {
			if i > 0 {
				sb.WriteByte(',')
			}
			edge := t.edge(ce)
			child := edge.child
			sb.WriteString(strs[child])
			if childNode := t.node(child); !childNode.isLeaf() {
				if edge.hasSupport {
					sb.WriteString(formatSupport(edge.support))
				} else if childNode.name != "" {
					sb.WriteString(childNode.name)
				}
			}
			sb.WriteByte(':')
			sb.WriteString(formatLength(edge.length))
		}
		sb.WriteByte(')')
		strs[id] = sb.String()
	}

	out := strs[t.root]
	if name := t.node(t.root).name; name != "" {
		out += name
	}
	out += ";"

	_, err := io.WriteString(w, out)
	if err != nil {
		return newError(KindIO, "writing Newick output", err)
	}
	return nil
}
