// Package parser is the public entry point: it wires internal/lexer and
// internal/builder together and translates the builder's internal error type
// into a stable, exported one.
package parser

import (
	"io"

	"github.com/estreegen/jsparse/internal/builder"
	"github.com/estreegen/jsparse/pkg/ast"
)

// Options configures parsing behavior.
type Options struct {
	// Tolerant collects every error instead of aborting on the first one.
	Tolerant bool
	// Loc adds line/column metadata to nodes; start/end are always present.
	Loc bool
	// Range adds a [start, end] pair alongside start/end; see estree.Generate.
	Range bool
}

// ParserError wraps every diagnostic collected during a parse. With
// Options.Tolerant false, Errors always holds exactly one entry: the first
// fatal failure.
type ParserError struct {
	Errors []*Error
}

func (e *ParserError) Error() string {
	if len(e.Errors) == 0 {
		return "parsing error"
	}
	return e.Errors[0].Error()
}

// Error is one parse diagnostic, stable across internal/builder's Error
// representation.
type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

func (e *Error) Error() string {
	return e.Message
}

// Parse parses JavaScript source and returns the resulting Module. With
// opts.Tolerant false, any error aborts the parse and the first one is
// returned; with it true, every error collected along the way is still
// reported, but the Module returned may be partial.
func Parse(source string, opts *Options) (*ast.Module, error) {
	if opts == nil {
		opts = &Options{}
	}
	b := builder.New(source, &builder.Options{
		Tolerant: opts.Tolerant,
		Loc:      opts.Loc,
		Range:    opts.Range,
	})
	module, _ := b.Module()

	if errs := b.Errors(); len(errs) > 0 {
		wrapped := make([]*Error, len(errs))
		for i, e := range errs {
			wrapped[i] = &Error{Kind: e.Kind.String(), Message: e.Message, Line: e.Line, Column: e.Column}
		}
		if !opts.Tolerant {
			return nil, &ParserError{Errors: wrapped[:1]}
		}
		return module, &ParserError{Errors: wrapped}
	}
	return module, nil
}

// ParseReader reads r to completion and parses the result.
func ParseReader(r io.Reader, opts *Options) (*ast.Module, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(content), opts)
}
