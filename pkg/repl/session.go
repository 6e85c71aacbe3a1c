// Package repl reads commands line by line, runs them against a table and
// prints the results.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"mash-db/pkg/statement"
	"mash-db/pkg/table"
)

// Prompt is written before every command is read
const Prompt = "db > "

const maxLineSize = 1 << 20

// Session is one interactive conversation over a table. It owns the table:
// on .exit or end of input the table is flushed and closed.
type Session struct {
	ID       uuid.UUID
	table    *table.Table
	executor *statement.Executor
	in       *bufio.Scanner
	out      io.Writer
	logger   *zap.Logger
	closed   bool
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger used by the session and its executor
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates a session reading commands from in and writing
// results to out
func NewSession(t *table.Table, in io.Reader, out io.Writer, opts ...Option) *Session {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	s := &Session{
		ID:     uuid.New(),
		table:  t,
		in:     scanner,
		out:    out,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session", s.ID.String()))
	s.executor = statement.NewExecutor(t, statement.WithLogger(s.logger))
	return s
}

// Run processes commands until .exit or end of input, then closes the
// table. Any other returned error is fatal: the table is left open and
// nothing inserted during the session has been written to disk.
func (s *Session) Run() error {
	s.logger.Info("session started", zap.String("path", s.table.Pager().FilePath()))

	for {
		if _, err := io.WriteString(s.out, Prompt); err != nil {
			return errors.Wrap(err, "failed to write prompt")
		}

		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				s.logger.Error("failed to read input", zap.Error(err))
				if closeErr := s.close(); closeErr != nil {
					return closeErr
				}
				return errors.Wrap(err, "failed to read input")
			}
			return s.close()
		}

		line := strings.TrimSuffix(s.in.Text(), "\r")
		exit, err := s.handle(line)
		if err != nil {
			s.logger.Error("fatal error", zap.String("input", line), zap.Error(err))
			return err
		}
		if exit {
			return nil
		}
	}
}

// handle runs one line and reports whether the session should end
func (s *Session) handle(line string) (bool, error) {
	if strings.HasPrefix(line, ".") {
		return s.doMetaCommand(line)
	}

	stmt, err := statement.Prepare(line)
	if err != nil {
		return false, s.report(err, line)
	}

	if err := s.executor.Execute(stmt, s.out); err != nil {
		return false, s.report(err, line)
	}
	return false, s.println("Executed.")
}

// report prints the message for a validation or execution error. Any other
// error is returned as fatal.
func (s *Session) report(err error, line string) error {
	msg, ok := Message(err, line)
	if !ok {
		return err
	}
	s.logger.Debug("command failed", zap.String("input", line), zap.Error(err))
	return s.println(msg)
}

// Message returns the line printed for a recoverable error
func Message(err error, line string) (string, bool) {
	switch {
	case errors.Is(err, statement.ErrSyntax):
		return "Syntax error. Could not parse statement.", true
	case errors.Is(err, statement.ErrNegativeID):
		return "ID must be positive.", true
	case errors.Is(err, statement.ErrStringTooLong):
		return "String is too long.", true
	case errors.Is(err, statement.ErrUnrecognizedStatement):
		return fmt.Sprintf("Unrecognized keyword at start of '%s'.", line), true
	case errors.Is(err, statement.ErrDuplicateKey):
		return "Error: Duplicate key.", true
	case errors.Is(err, statement.ErrTableFull):
		return "Error: Table full.", true
	default:
		return "", false
	}
}

func (s *Session) println(line string) error {
	_, err := fmt.Fprintln(s.out, line)
	return errors.Wrap(err, "failed to write output")
}

func (s *Session) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.table.Close(); err != nil {
		return err
	}
	s.logger.Info("session ended")
	return nil
}
