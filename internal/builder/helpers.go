package builder

import (
	"fmt"

	"github.com/estreegen/jsparse/internal/lexer"
)

func (b *Builder) peek() lexer.Token {
	return b.cur
}

// peekNext looks one token past the current one without consuming either.
// Every disambiguation in this parser (labeled statements, for-of, the
// for-loop dispatch) completes the parse of its ambiguous production first
// and inspects the resulting AST rather than backtracking, so one token of
// extra lookahead is all peekNext is ever asked for.
func (b *Builder) peekNext() lexer.Token {
	if b.ahead == nil {
		t := b.lex.Next()
		b.ahead = &t
	}
	return *b.ahead
}

func (b *Builder) advance() lexer.Token {
	prev := b.cur
	if b.ahead != nil {
		b.cur = *b.ahead
		b.ahead = nil
	} else {
		b.cur = b.lex.Next()
	}
	b.prevTok = prev
	return prev
}

// previous returns the last token consumed by advance, used together with
// the token captured before a production started to compute its Loc.
func (b *Builder) previous() lexer.Token {
	return b.prevTok
}

func (b *Builder) check(t lexer.TokenType) bool {
	return b.cur.Type == t
}

func (b *Builder) checkValue(value string) bool {
	return b.cur.Type == lexer.IDENTIFIER && b.cur.Value == value
}

func (b *Builder) isAtEnd() bool {
	return b.cur.Type == lexer.EOF
}

func (b *Builder) expect(t lexer.TokenType) lexer.Token {
	if b.check(t) {
		return b.advance()
	}
	b.addError(UnexpectedToken, fmt.Sprintf("expected %q, got %q", t.String(), b.cur.Value))
	if !b.options.Tolerant {
		return b.cur
	}
	return b.advance()
}

// expectIdentifier consumes an IDENTIFIER token, raising MissingName instead
// of the generic UnexpectedToken — used for function/class declaration
// names, per the two MissingName negative scenarios in §10.
func (b *Builder) expectIdentifier(context string) lexer.Token {
	if b.check(lexer.IDENTIFIER) {
		return b.advance()
	}
	b.addError(MissingName, fmt.Sprintf("%s requires a name", context))
	return b.cur
}

func (b *Builder) addError(kind ErrorKind, message string) {
	b.errors = append(b.errors, &Error{
		Kind:    kind,
		Message: message,
		Line:    b.cur.Line,
		Column:  b.cur.Column,
	})
	if b.options.Tolerant {
		b.synchronize()
	}
}

// synchronize skips tokens until the previous one was a semicolon or the
// next one starts a new statement, so a single error does not cascade into
// unrelated ones while Options.Tolerant is set.
func (b *Builder) synchronize() {
	b.advance()
	for !b.isAtEnd() {
		switch b.peek().Type {
		case lexer.VAR, lexer.LET, lexer.CONST, lexer.FUNCTION, lexer.CLASS,
			lexer.RETURN, lexer.IF, lexer.FOR, lexer.WHILE, lexer.DO,
			lexer.SWITCH, lexer.TRY, lexer.THROW:
			return
		case lexer.SEMICOLON:
			b.advance()
			return
		}
		b.advance()
	}
}

// Asi is the result of consulting automatic-semicolon-insertion state.
type Asi int

const (
	NoSemicolon Asi = iota
	ImplicitSemicolon
	ExplicitSemicolon
)

// asi implements §6.2's ASI rule: the next token is `;` (explicit), or it is
// `}`/EOF or preceded by a newline (implicit), otherwise none.
func (b *Builder) asi() Asi {
	if b.check(lexer.SEMICOLON) {
		return ExplicitSemicolon
	}
	if b.check(lexer.RBRACE) || b.isAtEnd() || b.cur.NewlineBefore {
		return ImplicitSemicolon
	}
	return NoSemicolon
}

// expectSemicolon implements the expect_semicolon! macro from §6.3.
func (b *Builder) expectSemicolon() {
	switch b.asi() {
	case NoSemicolon:
		b.addError(UnexpectedToken, fmt.Sprintf("expected ';', got %q", b.cur.Value))
	case ExplicitSemicolon:
		b.advance()
	case ImplicitSemicolon:
		// nothing to consume
	}
}
