package statement

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"mash-db/pkg/table"
)

// Execution errors reported by Execute. The table is unchanged when
// either is returned.
var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrTableFull    = errors.New("table full")
)

// Executor applies statements to a table
type Executor struct {
	table  *table.Table
	logger *zap.Logger
}

// Option configures an Executor
type Option func(*Executor)

// WithLogger sets the logger used by the executor
func WithLogger(logger *zap.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExecutor creates an executor bound to t
func NewExecutor(t *table.Table, opts ...Option) *Executor {
	e := &Executor{
		table:  t,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs stmt. Rows produced by a select are written to out, one per
// line, in ascending id order.
func (e *Executor) Execute(stmt *Statement, out io.Writer) error {
	switch stmt.Type {
	case TypeInsert:
		return e.executeInsert(stmt)
	case TypeSelect:
		return e.executeSelect(out)
	default:
		return errors.Errorf("unknown statement type %d", stmt.Type)
	}
}

func (e *Executor) executeInsert(stmt *Statement) error {
	r := &stmt.RowToInsert

	cursor, err := e.table.Find(r.ID)
	if err != nil {
		return err
	}

	if !cursor.EndOfTable {
		key, err := cursor.Key()
		if err != nil {
			return err
		}
		if key == r.ID {
			return errors.Wrapf(ErrDuplicateKey, "id %d", r.ID)
		}
	}

	full, err := cursor.IsFull()
	if err != nil {
		return err
	}
	if full {
		return ErrTableFull
	}

	if err := cursor.Insert(r.ID, r); err != nil {
		return err
	}
	e.logger.Debug("row inserted", zap.Uint32("id", r.ID), zap.Uint32("cell", cursor.CellNum))
	return nil
}

func (e *Executor) executeSelect(out io.Writer) error {
	var n int
	for r, err := range e.table.Scan() {
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, r.String()); err != nil {
			return errors.Wrap(err, "failed to write row")
		}
		n++
	}
	e.logger.Debug("rows selected", zap.Int("rows", n))
	return nil
}
