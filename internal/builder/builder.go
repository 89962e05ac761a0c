// Package builder implements the stateful JavaScript parser: a single
// stream of recursive-descent statement handlers plus a Pratt expression
// dispatcher driven by the binding-power table in precedence.go.
package builder

import (
	"github.com/estreegen/jsparse/internal/arena"
	"github.com/estreegen/jsparse/internal/lexer"
	"github.com/estreegen/jsparse/pkg/ast"
)

// Options controls location metadata and error tolerance. Loc/Range are
// opt-in CLI conveniences; start/end on every node are always emitted
// regardless, per §4 AMBIENT STACK of SPEC_FULL.md.
type Options struct {
	Tolerant bool
	Loc      bool
	Range    bool
}

// Builder is a stateful cursor over a lexer, accumulating a parsed Module
// in an Arena it owns.
type Builder struct {
	lex     *lexer.Lexer
	cur     lexer.Token
	prevTok lexer.Token
	ahead   *lexer.Token
	arena   *arena.Arena
	errors  []*Error
	options *Options
}

// New primes the first token and returns a Builder ready for Module().
func New(input string, opts *Options) *Builder {
	if opts == nil {
		opts = &Options{}
	}
	b := &Builder{
		lex:     lexer.New(input),
		arena:   arena.New(),
		options: opts,
	}
	b.cur = b.lex.Next()
	return b
}

// Errors returns every diagnostic collected so far (more than one only when
// Options.Tolerant is set).
func (b *Builder) Errors() []*Error {
	return b.errors
}

// Arena returns the arena backing every node this builder allocates.
func (b *Builder) Arena() *arena.Arena {
	return b.arena
}

// Module parses the whole input as a sequence of statements, per §6.3.
func (b *Builder) Module() (*ast.Module, error) {
	body := ast.NewListBuilder[ast.Loc[ast.Statement]](b.arena)
	for !b.isAtEnd() {
		stmt := b.parseStatementLoc()
		body.Push(stmt)
		if !b.options.Tolerant && len(b.errors) > 0 {
			break
		}
	}
	mod := &ast.Module{Body: body.IntoList(), Arena: b.arena}
	if !b.options.Tolerant && len(b.errors) > 0 {
		return mod, b.errors[0]
	}
	return mod, nil
}

func alloc[T any](b *Builder, v T) *T {
	return arena.Alloc(b.arena, v)
}
