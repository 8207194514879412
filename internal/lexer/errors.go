package lexer

import (
	"errors"
	"fmt"

	"github.com/orizon-lang/pl0/internal/position"
)

// ErrLex is matched by every lexical error through errors.Is.
var ErrLex = errors.New("lex error")

// Error is a lexical error: a character that cannot start a token, or a
// multi-character operator missing its second character.
type Error struct {
	Pos     position.Position
	Char    rune // offending character, -1 at end of input
	Message string
}

func (e *Error) Error() string {
	if e.Char < 0 {
		return fmt.Sprintf("lex error at %s: %s, found end of input", e.Pos, e.Message)
	}
	return fmt.Sprintf("lex error at %s: %s %q", e.Pos, e.Message, e.Char)
}

// Is makes errors.Is(err, ErrLex) succeed.
func (e *Error) Is(target error) bool {
	return target == ErrLex
}
