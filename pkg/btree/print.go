package btree

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Print writes an indented description of a node and its cells
func Print(w io.Writer, node Node, indent int) error {
	pad := strings.Repeat("  ", indent)
	switch n := node.(type) {
	case *LeafNode:
		numCells := n.NumCells()
		if _, err := fmt.Fprintf(w, "%sleaf (size %d)\n", pad, numCells); err != nil {
			return err
		}
		for i := uint32(0); i < numCells; i++ {
			if _, err := fmt.Fprintf(w, "%s  - %d : %d\n", pad, i, n.Key(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.Wrapf(ErrUnsupportedNode, "cannot print %s node", node.Kind())
	}
}
