package table

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mash-db/internal/common"
	"mash-db/pkg/btree"
	"mash-db/pkg/pager"
	"mash-db/pkg/row"
)

func openTestTable(t *testing.T) (*Table, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	tbl, err := Open(dbPath)
	require.NoError(t, err)
	return tbl, dbPath
}

func insert(t *testing.T, tbl *Table, id uint32) {
	t.Helper()
	cursor, err := tbl.Find(id)
	require.NoError(t, err)
	r := row.Row{ID: id, Username: fmt.Sprintf("user%d", id), Email: fmt.Sprintf("person%d@example.com", id)}
	require.NoError(t, cursor.Insert(id, &r))
}

func collect(t *testing.T, tbl *Table) []uint32 {
	t.Helper()
	var ids []uint32
	for r, err := range tbl.Scan() {
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}
	return ids
}

func TestOpenInitializesRootLeaf(t *testing.T) {
	tbl, _ := openTestTable(t)
	defer tbl.Close()

	root, err := tbl.Root()
	require.NoError(t, err)
	assert.Equal(t, btree.NodeLeaf, root.Kind())
	assert.True(t, root.IsRoot())
	assert.Equal(t, uint32(0), tbl.RootPageNum())

	cursor, err := tbl.Start()
	require.NoError(t, err)
	assert.True(t, cursor.EndOfTable)
}

func TestScanAscending(t *testing.T) {
	tbl, _ := openTestTable(t)
	defer tbl.Close()

	for _, id := range []uint32{3, 1, 2} {
		insert(t, tbl, id)
	}

	assert.Equal(t, []uint32{1, 2, 3}, collect(t, tbl))
	// a second scan starts over
	assert.Equal(t, []uint32{1, 2, 3}, collect(t, tbl))
}

func TestScanStopsEarly(t *testing.T) {
	tbl, _ := openTestTable(t)
	defer tbl.Close()

	for id := uint32(1); id <= 5; id++ {
		insert(t, tbl, id)
	}

	var seen int
	for _, err := range tbl.Scan() {
		require.NoError(t, err)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestPersistence(t *testing.T) {
	tbl, dbPath := openTestTable(t)
	for _, id := range []uint32{5, 4} {
		insert(t, tbl, id)
	}
	require.NoError(t, tbl.Close())

	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.Equal(t, int64(common.PageSize), info.Size())

	reopened, err := Open(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	var rows []row.Row
	for r, err := range reopened.Scan() {
		require.NoError(t, err)
		rows = append(rows, r)
	}
	assert.Equal(t, []row.Row{
		{ID: 4, Username: "user4", Email: "person4@example.com"},
		{ID: 5, Username: "user5", Email: "person5@example.com"},
	}, rows)
}

func TestOpenCorruptFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "corrupt.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("not a page"), 0644))

	_, err := Open(dbPath)
	assert.ErrorIs(t, err, pager.ErrCorruptFile)
}

func TestRootOfUnknownKind(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "internal.db")
	require.NoError(t, os.WriteFile(dbPath, make([]byte, common.PageSize), 0644))

	tbl, err := Open(dbPath)
	require.NoError(t, err)
	defer tbl.Close()

	_, err = tbl.Start()
	assert.ErrorIs(t, err, btree.ErrUnsupportedNode)

	for _, err := range tbl.Scan() {
		assert.ErrorIs(t, err, btree.ErrUnsupportedNode)
	}
}
