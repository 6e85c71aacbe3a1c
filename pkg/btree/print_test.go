package btree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type internalStub struct{ header }

func TestPrintLeaf(t *testing.T) {
	n := newLeaf(t)
	for _, k := range []uint32{3, 1, 2} {
		insertSorted(t, n, k)
	}

	var sb strings.Builder
	require.NoError(t, Print(&sb, n, 0))
	assert.Equal(t, "leaf (size 3)\n  - 0 : 1\n  - 1 : 2\n  - 2 : 3\n", sb.String())
}

func TestPrintEmptyLeaf(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Print(&sb, newLeaf(t), 0))
	assert.Equal(t, "leaf (size 0)\n", sb.String())
}

func TestPrintIndent(t *testing.T) {
	n := newLeaf(t)
	insertSorted(t, n, 7)

	var sb strings.Builder
	require.NoError(t, Print(&sb, n, 1))
	assert.Equal(t, "  leaf (size 1)\n    - 0 : 7\n", sb.String())
}

func TestPrintUnsupported(t *testing.T) {
	var sb strings.Builder
	err := Print(&sb, internalStub{header: make([]byte, 16)}, 0)
	assert.ErrorIs(t, err, ErrUnsupportedNode)
}
