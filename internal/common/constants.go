package common

const (
	// PageSize is the size of each page in bytes (4KB)
	PageSize = 4096

	// MaxPages is the maximum number of pages a table may address
	MaxPages = 100

	// RootPageNum is the page holding the root node of the table
	RootPageNum = 0
)

// Row layout
const (
	IDSize = 4

	// UsernameMaxLength and EmailMaxLength are the longest accepted values in bytes
	UsernameMaxLength = 32
	EmailMaxLength    = 255

	// Text slots carry one extra byte for the terminator
	UsernameSize = UsernameMaxLength + 1
	EmailSize    = EmailMaxLength + 1

	IDOffset       = 0
	UsernameOffset = IDOffset + IDSize
	EmailOffset    = UsernameOffset + UsernameSize

	// RowSize is the serialized size of every row (293 bytes)
	RowSize = IDSize + UsernameSize + EmailSize
)

// Common node header layout
const (
	NodeTypeSize         = 1
	NodeTypeOffset       = 0
	IsRootSize           = 1
	IsRootOffset         = NodeTypeOffset + NodeTypeSize
	ParentPointerSize    = 4
	ParentPointerOffset  = IsRootOffset + IsRootSize
	CommonNodeHeaderSize = NodeTypeSize + IsRootSize + ParentPointerSize
)

// Leaf node layout
const (
	LeafNodeNumCellsSize   = 4
	LeafNodeNumCellsOffset = CommonNodeHeaderSize
	LeafNodeHeaderSize     = CommonNodeHeaderSize + LeafNodeNumCellsSize

	LeafNodeKeySize     = 4
	LeafNodeKeyOffset   = 0
	LeafNodeValueSize   = RowSize
	LeafNodeValueOffset = LeafNodeKeyOffset + LeafNodeKeySize
	LeafNodeCellSize    = LeafNodeKeySize + LeafNodeValueSize

	LeafNodeSpaceForCells = PageSize - LeafNodeHeaderSize

	// LeafNodeMaxCells is how many cells fit in one leaf page (13)
	LeafNodeMaxCells = LeafNodeSpaceForCells / LeafNodeCellSize
)
