package row

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mash-db/internal/common"
)

func TestRowSize(t *testing.T) {
	assert.Equal(t, 293, common.RowSize)
	assert.Equal(t, 4, common.UsernameOffset)
	assert.Equal(t, 37, common.EmailOffset)
}

func TestSerializeDeserialize(t *testing.T) {
	r := Row{ID: 42, Username: "user42", Email: "person42@example.com"}

	buf := make([]byte, common.RowSize)
	r.Serialize(buf)

	got := Deserialize(buf)
	assert.Equal(t, r, got)
}

func TestMaximumLengthFields(t *testing.T) {
	r := Row{
		ID:       1,
		Username: strings.Repeat("a", common.UsernameMaxLength),
		Email:    strings.Repeat("b", common.EmailMaxLength),
	}

	data, err := r.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, common.RowSize)

	// terminator bytes stay zero
	assert.Equal(t, byte(0), data[common.UsernameOffset+common.UsernameMaxLength])
	assert.Equal(t, byte(0), data[common.EmailOffset+common.EmailMaxLength])

	var got Row
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, r, got)
}

func TestSerializeOverwritesPreviousContent(t *testing.T) {
	buf := make([]byte, common.RowSize)
	long := Row{ID: 7, Username: "averylongusername", Email: "averylongemail@example.com"}
	long.Serialize(buf)

	short := Row{ID: 8, Username: "a", Email: "b"}
	short.Serialize(buf)

	assert.Equal(t, short, Deserialize(buf))
}

func TestUnmarshalInvalidSize(t *testing.T) {
	var r Row
	err := r.UnmarshalBinary([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalidRowSize)
}

func TestString(t *testing.T) {
	r := Row{ID: 1, Username: "user1", Email: "person1@example.com"}
	assert.Equal(t, "(1, user1, person1@example.com)", r.String())
}
