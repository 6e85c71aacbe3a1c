// Package statement parses input lines into statements and executes them
// against a table.
package statement

import (
	"math"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"mash-db/internal/common"
	"mash-db/pkg/row"
)

// Validation errors reported by Prepare
var (
	ErrSyntax                = errors.New("could not parse statement")
	ErrUnrecognizedStatement = errors.New("unrecognized keyword")
	ErrNegativeID            = errors.New("id must be positive")
	ErrStringTooLong         = errors.New("string is too long")
)

// Type identifies the kind of statement
type Type int

const (
	TypeInsert Type = iota
	TypeSelect
)

func (t Type) String() string {
	switch t {
	case TypeInsert:
		return "insert"
	case TypeSelect:
		return "select"
	default:
		return "unknown"
	}
}

// Statement is a validated command ready to be executed
type Statement struct {
	Type        Type
	RowToInsert row.Row
}

// statementLine splits an input line into whitespace separated words
type statementLine struct {
	Keyword string   `parser:"@Word"`
	Args    []string `parser:"@Word*"`
}

var (
	statementLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Word", Pattern: `[^\s]+`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	statementParser = participle.MustBuild[statementLine](
		participle.Lexer(statementLexer),
		participle.Elide("Whitespace"),
	)
)

// Prepare parses and validates an input line. It never touches a table.
func Prepare(input string) (*Statement, error) {
	line, err := statementParser.ParseString("", input)
	if err != nil {
		// only an empty line fails to lex into at least one word
		return nil, errors.Wrapf(ErrUnrecognizedStatement, "%q", input)
	}

	switch line.Keyword {
	case "insert":
		return prepareInsert(line.Args)
	case "select":
		return &Statement{Type: TypeSelect}, nil
	default:
		return nil, errors.Wrapf(ErrUnrecognizedStatement, "%q", line.Keyword)
	}
}

// prepareInsert validates `insert <id> <username> <email>`. Words after
// the email are ignored.
func prepareInsert(args []string) (*Statement, error) {
	if len(args) < 3 {
		return nil, errors.Wrapf(ErrSyntax, "insert takes 3 arguments, got %d", len(args))
	}
	idText, username, email := args[0], args[1], args[2]

	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange && idText[0] != '-' {
			return nil, errors.Wrapf(ErrSyntax, "id %s does not fit in 32 bits", idText)
		}
		return nil, errors.Wrapf(ErrNegativeID, "id %q", idText)
	}
	if id < 1 {
		return nil, errors.Wrapf(ErrNegativeID, "id %d", id)
	}
	if id > math.MaxUint32 {
		return nil, errors.Wrapf(ErrSyntax, "id %d does not fit in 32 bits", id)
	}

	if len(username) > common.UsernameMaxLength {
		return nil, errors.Wrapf(ErrStringTooLong, "username has %d bytes", len(username))
	}
	if len(email) > common.EmailMaxLength {
		return nil, errors.Wrapf(ErrStringTooLong, "email has %d bytes", len(email))
	}

	return &Statement{
		Type: TypeInsert,
		RowToInsert: row.Row{
			ID:       uint32(id),
			Username: username,
			Email:    email,
		},
	}, nil
}
