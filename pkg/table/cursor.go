package table

import (
	"mash-db/pkg/row"
)

// Cursor is a position within the table. It re-reads its page on every
// call and never holds on to a page buffer.
type Cursor struct {
	table      *Table
	PageNum    uint32
	CellNum    uint32
	EndOfTable bool
}

// Key returns the key at the cursor
func (c *Cursor) Key() (uint32, error) {
	leaf, err := c.table.leaf(c.PageNum)
	if err != nil {
		return 0, err
	}
	return leaf.Key(c.CellNum), nil
}

// Value returns the serialized row at the cursor
func (c *Cursor) Value() ([]byte, error) {
	leaf, err := c.table.leaf(c.PageNum)
	if err != nil {
		return nil, err
	}
	return leaf.Value(c.CellNum), nil
}

// Row decodes the row at the cursor
func (c *Cursor) Row() (row.Row, error) {
	value, err := c.Value()
	if err != nil {
		return row.Row{}, err
	}
	return row.Deserialize(value), nil
}

// Advance moves the cursor to the next cell
func (c *Cursor) Advance() error {
	leaf, err := c.table.leaf(c.PageNum)
	if err != nil {
		return err
	}
	c.CellNum++
	c.EndOfTable = c.CellNum >= leaf.NumCells()
	return nil
}

// Insert writes a row at the cursor position, shifting later cells right
func (c *Cursor) Insert(key uint32, r *row.Row) error {
	leaf, err := c.table.leaf(c.PageNum)
	if err != nil {
		return err
	}
	value, err := r.MarshalBinary()
	if err != nil {
		return err
	}
	return leaf.InsertAt(c.CellNum, key, value)
}

// IsFull reports whether the cursor's page has room for another cell
func (c *Cursor) IsFull() (bool, error) {
	leaf, err := c.table.leaf(c.PageNum)
	if err != nil {
		return false, err
	}
	return leaf.IsFull(), nil
}
