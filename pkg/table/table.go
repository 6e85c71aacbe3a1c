// Package table binds a pager to the root of a B-tree and exposes cursors
// over its rows.
package table

import (
	"iter"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"mash-db/internal/common"
	"mash-db/pkg/btree"
	"mash-db/pkg/pager"
	"mash-db/pkg/row"
)

// Table is a single B-tree of rows keyed by row id
type Table struct {
	pager       *pager.Pager
	rootPageNum uint32
	logger      *zap.Logger
}

// Option configures a Table
type Option func(*Table)

// WithLogger sets the logger used by the table and its pager
func WithLogger(logger *zap.Logger) Option {
	return func(t *Table) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Open opens the backing file and, for a new file, formats page 0 as an
// empty root leaf.
func Open(filePath string, opts ...Option) (*Table, error) {
	t := &Table{
		rootPageNum: common.RootPageNum,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	p, err := pager.Open(filePath, pager.WithLogger(t.logger))
	if err != nil {
		return nil, err
	}
	t.pager = p

	if p.NumPages() == 0 {
		page, err := p.GetPage(t.rootPageNum)
		if err != nil {
			p.Close()
			return nil, err
		}
		root, err := btree.NewLeafNode(page.Data[:])
		if err != nil {
			p.Close()
			return nil, err
		}
		root.Initialize()
		root.SetRoot(true)
		t.logger.Debug("initialized root leaf", zap.Uint32("page", t.rootPageNum))
	}

	return t, nil
}

// Close flushes every page to disk and releases the file
func (t *Table) Close() error {
	return errors.Wrap(t.pager.Close(), "failed to close table")
}

// Pager returns the pager backing the table
func (t *Table) Pager() *pager.Pager {
	return t.pager
}

// RootPageNum returns the page number of the root node
func (t *Table) RootPageNum() uint32 {
	return t.rootPageNum
}

// Root returns the root node of the tree
func (t *Table) Root() (btree.Node, error) {
	page, err := t.pager.GetPage(t.rootPageNum)
	if err != nil {
		return nil, err
	}
	return btree.Open(page.Data[:])
}

func (t *Table) leaf(pageNum uint32) (*btree.LeafNode, error) {
	page, err := t.pager.GetPage(pageNum)
	if err != nil {
		return nil, err
	}
	node, err := btree.Open(page.Data[:])
	if err != nil {
		return nil, errors.Wrapf(err, "page %d", pageNum)
	}
	leaf, ok := node.(*btree.LeafNode)
	if !ok {
		return nil, errors.Wrapf(btree.ErrUnsupportedNode, "page %d is a %s node", pageNum, node.Kind())
	}
	return leaf, nil
}

// Start returns a cursor at the first row of the table
func (t *Table) Start() (*Cursor, error) {
	leaf, err := t.leaf(t.rootPageNum)
	if err != nil {
		return nil, err
	}
	return &Cursor{
		table:      t,
		PageNum:    t.rootPageNum,
		CellNum:    0,
		EndOfTable: leaf.NumCells() == 0,
	}, nil
}

// Find returns a cursor at the position of key, or at the position where
// key would be inserted if it is not present.
func (t *Table) Find(key uint32) (*Cursor, error) {
	leaf, err := t.leaf(t.rootPageNum)
	if err != nil {
		return nil, err
	}
	cellNum := leaf.Find(key)
	return &Cursor{
		table:      t,
		PageNum:    t.rootPageNum,
		CellNum:    cellNum,
		EndOfTable: cellNum == leaf.NumCells(),
	}, nil
}

// Scan yields every row in ascending key order. Each call starts a new
// scan from the first row.
func (t *Table) Scan() iter.Seq2[row.Row, error] {
	return func(yield func(row.Row, error) bool) {
		cursor, err := t.Start()
		if err != nil {
			yield(row.Row{}, err)
			return
		}
		for !cursor.EndOfTable {
			r, err := cursor.Row()
			if err != nil {
				yield(row.Row{}, err)
				return
			}
			if !yield(r, nil) {
				return
			}
			if err := cursor.Advance(); err != nil {
				yield(row.Row{}, err)
				return
			}
		}
	}
}
