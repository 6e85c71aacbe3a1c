package btree

import (
	"encoding/binary"
	"sort"

	"github.com/pkg/errors"

	"mash-db/internal/common"
)

// LeafNode is a view over a page holding a leaf node. It does not own the
// buffer; writes go straight into the page.
type LeafNode struct {
	data header
}

// NewLeafNode wraps a page buffer without touching its contents
func NewLeafNode(data []byte) (*LeafNode, error) {
	if len(data) != common.PageSize {
		return nil, ErrInvalidPageSize
	}
	return &LeafNode{data: data}, nil
}

// Initialize formats the page as an empty, non-root leaf
func (n *LeafNode) Initialize() {
	n.data.setKind(NodeLeaf)
	n.data.SetRoot(false)
	n.setNumCells(0)
}

func (n *LeafNode) Kind() NodeKind           { return n.data.Kind() }
func (n *LeafNode) IsRoot() bool             { return n.data.IsRoot() }
func (n *LeafNode) SetRoot(isRoot bool)      { n.data.SetRoot(isRoot) }
func (n *LeafNode) Parent() uint32           { return n.data.Parent() }
func (n *LeafNode) SetParent(pageNum uint32) { n.data.SetParent(pageNum) }

// NumCells returns the number of cells stored in the node
func (n *LeafNode) NumCells() uint32 {
	return binary.LittleEndian.Uint32(n.data[common.LeafNodeNumCellsOffset:])
}

func (n *LeafNode) setNumCells(numCells uint32) {
	binary.LittleEndian.PutUint32(n.data[common.LeafNodeNumCellsOffset:], numCells)
}

// IsFull reports whether another cell would exceed the page
func (n *LeafNode) IsFull() bool {
	return n.NumCells() >= common.LeafNodeMaxCells
}

func cellOffset(cellNum uint32) int {
	return common.LeafNodeHeaderSize + int(cellNum)*common.LeafNodeCellSize
}

// Cell returns the raw bytes of a cell
func (n *LeafNode) Cell(cellNum uint32) []byte {
	off := cellOffset(cellNum)
	return n.data[off : off+common.LeafNodeCellSize]
}

// Key returns the key of a cell
func (n *LeafNode) Key(cellNum uint32) uint32 {
	return binary.LittleEndian.Uint32(n.Cell(cellNum)[common.LeafNodeKeyOffset:])
}

// Value returns the serialized row of a cell
func (n *LeafNode) Value(cellNum uint32) []byte {
	cell := n.Cell(cellNum)
	return cell[common.LeafNodeValueOffset : common.LeafNodeValueOffset+common.LeafNodeValueSize]
}

// Find returns the index of the first cell whose key is >= key, or
// NumCells if there is none.
func (n *LeafNode) Find(key uint32) uint32 {
	numCells := int(n.NumCells())
	i := sort.Search(numCells, func(i int) bool {
		return n.Key(uint32(i)) >= key
	})
	return uint32(i)
}

// InsertAt shifts cells [cellNum, NumCells) one slot right and writes the
// new cell at cellNum. The caller must have ruled out a duplicate key.
func (n *LeafNode) InsertAt(cellNum, key uint32, value []byte) error {
	numCells := n.NumCells()
	if numCells >= common.LeafNodeMaxCells {
		return ErrNodeFull
	}
	if cellNum > numCells {
		return errors.Errorf("cell %d out of range, node has %d cells", cellNum, numCells)
	}
	if len(value) != common.LeafNodeValueSize {
		return errors.Errorf("value has %d bytes, want %d", len(value), common.LeafNodeValueSize)
	}

	if cellNum < numCells {
		start := cellOffset(cellNum)
		end := cellOffset(numCells)
		copy(n.data[start+common.LeafNodeCellSize:end+common.LeafNodeCellSize], n.data[start:end])
	}

	cell := n.Cell(cellNum)
	binary.LittleEndian.PutUint32(cell[common.LeafNodeKeyOffset:], key)
	copy(cell[common.LeafNodeValueOffset:], value)

	n.setNumCells(numCells + 1)
	return nil
}
