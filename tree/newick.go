package tree

import (
	"fmt"
	"io"
	"strings"
)

// SupportStyle selects how bootstrap support is rendered in newick
// output, one knob covering the three ways spec §4.6's design notes
// describe (as an internal-node label, folded into the branch length, or
// omitted entirely) rather than three separate writer functions.
type SupportStyle uint8

const (
	SupportNone SupportStyle = iota
	SupportAsLabel
	SupportAsBranchLength
)

// Write serializes root in newick format to w.
func Write(w io.Writer, root *Node, style SupportStyle) error {
	var b strings.Builder
	writeNode(&b, root, style, true)
	b.WriteString(";")
	_, err := io.WriteString(w, b.String())
	return err
}

// String is a convenience wrapper around Write.
func String(root *Node, style SupportStyle) string {
	var b strings.Builder
	_ = Write(&b, root, style)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node, style SupportStyle, isRoot bool) {
	if !n.IsLeaf() {
		b.WriteString("(")
		for i, c := range n.children {
			if i > 0 {
				b.WriteString(",")
			}
			writeNode(b, c, style, false)
		}
		b.WriteString(")")
		if support, ok := n.Support(); ok && style == SupportAsLabel {
			fmt.Fprintf(b, "%.0f", support*100)
		}
	} else {
		b.WriteString(n.Label())
	}
	if isRoot {
		return
	}
	length := n.Length()
	if support, ok := n.Support(); ok && style == SupportAsBranchLength {
		length = support
	}
	fmt.Fprintf(b, ":%g", length)
}
