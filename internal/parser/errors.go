package parser

import (
	"errors"
	"fmt"

	"github.com/orizon-lang/pl0/internal/lexer"
	"github.com/orizon-lang/pl0/internal/position"
)

// ErrParse is matched by every grammar error through errors.Is.
var ErrParse = errors.New("parse error")

// ParseError represents a grammar violation at the first mismatching token
type ParseError struct {
	Pos      position.Position
	Rule     string      // grammar rule being parsed, e.g. "factor"
	Expected string      // description of what the rule required
	Found    lexer.Token // the offending token
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: expected %s in %s, found %s",
		e.Pos, e.Expected, e.Rule, e.Found.Describe())
}

// Is makes errors.Is(err, ErrParse) succeed.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
