package export

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mash-db/pkg/row"
	"mash-db/pkg/table"
)

func TestToSQLite(t *testing.T) {
	dir := t.TempDir()
	tbl, err := table.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	defer tbl.Close()

	for _, id := range []uint32{2, 3, 1} {
		cursor, err := tbl.Find(id)
		require.NoError(t, err)
		r := row.Row{ID: id, Username: fmt.Sprintf("user%d", id), Email: fmt.Sprintf("person%d@example.com", id)}
		require.NoError(t, cursor.Insert(id, &r))
	}

	target := filepath.Join(dir, "export.sqlite")
	n, err := ToSQLite(context.Background(), tbl, target, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	db, err := sql.Open("sqlite", target)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT id, username, email FROM users ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var got []row.Row
	for rows.Next() {
		var r row.Row
		require.NoError(t, rows.Scan(&r.ID, &r.Username, &r.Email))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, []row.Row{
		{ID: 1, Username: "user1", Email: "person1@example.com"},
		{ID: 2, Username: "user2", Email: "person2@example.com"},
		{ID: 3, Username: "user3", Email: "person3@example.com"},
	}, got)
}

func TestToSQLiteDuplicateIntoExistingTarget(t *testing.T) {
	dir := t.TempDir()
	tbl, err := table.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	defer tbl.Close()

	cursor, err := tbl.Find(1)
	require.NoError(t, err)
	r := row.Row{ID: 1, Username: "a", Email: "b"}
	require.NoError(t, cursor.Insert(1, &r))

	target := filepath.Join(dir, "export.sqlite")
	_, err = ToSQLite(context.Background(), tbl, target, nil)
	require.NoError(t, err)

	// the primary key already holds id 1, so the whole second export rolls back
	_, err = ToSQLite(context.Background(), tbl, target, nil)
	assert.Error(t, err)
}
