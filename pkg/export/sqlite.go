// Package export copies the rows of a table into other databases.
package export

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"mash-db/pkg/table"
)

const (
	createUsersSQL = `CREATE TABLE IF NOT EXISTS users (
	id       INTEGER PRIMARY KEY,
	username TEXT NOT NULL,
	email    TEXT NOT NULL
)`
	insertUserSQL = `INSERT INTO users (id, username, email) VALUES (?, ?, ?)`
)

// ToSQLite writes every row of t into the users table of the SQLite
// database at path, creating both as needed. Rows are inserted in one
// transaction; the count of exported rows is returned.
func ToSQLite(ctx context.Context, t *table.Table, path string, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, errors.Wrap(err, "failed to open sqlite database")
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, createUsersSQL); err != nil {
		return 0, errors.Wrap(err, "failed to create users table")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertUserSQL)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prepare insert")
	}
	defer stmt.Close()

	var n int
	for r, err := range t.Scan() {
		if err != nil {
			return n, err
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.Username, r.Email); err != nil {
			return n, errors.Wrapf(err, "failed to insert row %d", r.ID)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return n, errors.Wrap(err, "failed to commit")
	}
	logger.Info("exported rows", zap.String("target", path), zap.Int("rows", n))
	return n, nil
}
