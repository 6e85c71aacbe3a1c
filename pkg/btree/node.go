// Package btree implements the on-page layout of B-tree nodes.
//
// Every node starts with a common header:
//
//	offset 0  node kind    (1 byte)
//	offset 1  is root      (1 byte)
//	offset 2  parent page  (4 bytes, little endian)
//
// Only leaf nodes exist at the moment. A leaf extends the common header with
// a 4-byte cell count and then a packed array of (key, row) cells kept in
// ascending key order.
package btree

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"mash-db/internal/common"
)

// NodeKind tags the layout of a page
type NodeKind uint8

const (
	NodeInternal NodeKind = iota
	NodeLeaf
)

func (k NodeKind) String() string {
	switch k {
	case NodeInternal:
		return "internal"
	case NodeLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

var (
	ErrNodeFull        = errors.New("leaf node is full")
	ErrUnsupportedNode = errors.New("unsupported node kind")
	ErrInvalidPageSize = errors.New("data size does not match page size")
)

// Node is the part of the layout shared by every node kind
type Node interface {
	Kind() NodeKind
	IsRoot() bool
	Parent() uint32
}

// KindOf reads the node kind tag of a page
func KindOf(data []byte) NodeKind {
	return NodeKind(data[common.NodeTypeOffset])
}

// Open returns the node view matching the page's kind tag
func Open(data []byte) (Node, error) {
	if len(data) != common.PageSize {
		return nil, ErrInvalidPageSize
	}
	switch kind := KindOf(data); kind {
	case NodeLeaf:
		return &LeafNode{data: data}, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedNode, "kind %d", kind)
	}
}

type header []byte

func (h header) Kind() NodeKind {
	return KindOf(h)
}

func (h header) setKind(kind NodeKind) {
	h[common.NodeTypeOffset] = uint8(kind)
}

func (h header) IsRoot() bool {
	return h[common.IsRootOffset] == 1
}

func (h header) SetRoot(isRoot bool) {
	h[common.IsRootOffset] = 0
	if isRoot {
		h[common.IsRootOffset] = 1
	}
}

// Parent returns the parent's page number. It is meaningless for a root.
func (h header) Parent() uint32 {
	return binary.LittleEndian.Uint32(h[common.ParentPointerOffset:])
}

func (h header) SetParent(pageNum uint32) {
	binary.LittleEndian.PutUint32(h[common.ParentPointerOffset:], pageNum)
}
