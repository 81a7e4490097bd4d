/*
Package newick re-exports the tree package's newick writer as the public
I/O entry point spec §6.4 names. A reader is intentionally not exposed
here: spec.md keeps it out of the public surface, and the minimal reader
used to round-trip tree.Write lives only in tree's own tests.
*/
package newick

import (
	"io"

	"github.com/bebop/npge/tree"
)

type SupportStyle = tree.SupportStyle

const (
	SupportNone           = tree.SupportNone
	SupportAsLabel        = tree.SupportAsLabel
	SupportAsBranchLength = tree.SupportAsBranchLength
)

// Write serializes root in newick format to w.
func Write(w io.Writer, root *tree.Node, style SupportStyle) error {
	return tree.Write(w, root, style)
}
