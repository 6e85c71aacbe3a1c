// Package row implements the fixed-width binary layout of a table record.
package row

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"

	"mash-db/internal/common"
)

var ErrInvalidRowSize = errors.New("data size does not match row size")

// Row is a single record of the table
type Row struct {
	ID       uint32
	Username string
	Email    string
}

// Serialize writes the row into dst, which must hold at least common.RowSize bytes.
// Text fields are zero padded up to their slot size.
func (r *Row) Serialize(dst []byte) {
	binary.LittleEndian.PutUint32(dst[common.IDOffset:], r.ID)
	putText(dst[common.UsernameOffset:common.UsernameOffset+common.UsernameSize], r.Username)
	putText(dst[common.EmailOffset:common.EmailOffset+common.EmailSize], r.Email)
}

// Deserialize reads a row from the first common.RowSize bytes of src.
func Deserialize(src []byte) Row {
	return Row{
		ID:       binary.LittleEndian.Uint32(src[common.IDOffset:]),
		Username: getText(src[common.UsernameOffset : common.UsernameOffset+common.UsernameSize]),
		Email:    getText(src[common.EmailOffset : common.EmailOffset+common.EmailSize]),
	}
}

// MarshalBinary implements encoding.BinaryMarshaler
func (r *Row) MarshalBinary() ([]byte, error) {
	buf := make([]byte, common.RowSize)
	r.Serialize(buf)
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler
func (r *Row) UnmarshalBinary(data []byte) error {
	if len(data) != common.RowSize {
		return errors.Wrapf(ErrInvalidRowSize, "got %d bytes", len(data))
	}
	*r = Deserialize(data)
	return nil
}

// String formats the row the way select prints it
func (r Row) String() string {
	return fmt.Sprintf("(%d, %s, %s)", r.ID, r.Username, r.Email)
}

func putText(slot []byte, s string) {
	n := copy(slot, s)
	clear(slot[n:])
}

func getText(slot []byte) string {
	if i := bytes.IndexByte(slot, 0); i >= 0 {
		slot = slot[:i]
	}
	return string(slot)
}
