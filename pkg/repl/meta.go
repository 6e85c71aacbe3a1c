package repl

import (
	"fmt"

	"mash-db/internal/common"
	"mash-db/pkg/btree"
)

func (s *Session) doMetaCommand(line string) (bool, error) {
	switch line {
	case ".exit":
		return true, s.close()
	case ".constants":
		if err := s.println("Constants:"); err != nil {
			return false, err
		}
		return false, s.printConstants()
	case ".btree":
		if err := s.println("Tree:"); err != nil {
			return false, err
		}
		root, err := s.table.Root()
		if err != nil {
			return false, err
		}
		return false, btree.Print(s.out, root, 0)
	default:
		return false, s.println(fmt.Sprintf("Unrecognized command '%s'.", line))
	}
}

func (s *Session) printConstants() error {
	constants := []struct {
		name  string
		value int
	}{
		{"ROW_SIZE", common.RowSize},
		{"COMMON_NODE_HEADER_SIZE", common.CommonNodeHeaderSize},
		{"LEAF_NODE_HEADER_SIZE", common.LeafNodeHeaderSize},
		{"LEAF_NODE_CELL_SIZE", common.LeafNodeCellSize},
		{"LEAF_NODE_SPACE_FOR_CELLS", common.LeafNodeSpaceForCells},
		{"LEAF_NODE_MAX_CELLS", common.LeafNodeMaxCells},
	}
	for _, c := range constants {
		if err := s.println(fmt.Sprintf("%s: %d", c.name, c.value)); err != nil {
			return err
		}
	}
	return nil
}
