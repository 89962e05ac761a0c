package builder

import (
	"github.com/estreegen/jsparse/internal/lexer"
	"github.com/estreegen/jsparse/pkg/ast"
)

// parseStatementLoc parses one statement and wraps it with the byte range it
// spans, mirroring expressionLoc.
func (b *Builder) parseStatementLoc() ast.Loc[ast.Statement] {
	start := b.peek()
	stmt := b.parseStatement()
	return ast.At[ast.Statement](start.Start, b.previous().End, stmt)
}

// parseStatement dispatches on the leading token. Resolving the
// block-vs-object-literal and declaration-vs-expression ambiguities here, by
// token, means ast.IsAllowedAsBareStatement never has to run a second,
// corrective pass over an already-built expression.
func (b *Builder) parseStatement() ast.Statement {
	switch b.peek().Type {
	case lexer.LBRACE:
		return ast.BlockStatement{Body: b.parseBlockBody()}
	case lexer.SEMICOLON:
		b.advance()
		return ast.EmptyStatement{}
	case lexer.VAR, lexer.LET, lexer.CONST:
		return b.parseDeclarationStatement()
	case lexer.RETURN:
		return b.parseReturnStatement()
	case lexer.BREAK:
		return b.parseBreakStatement()
	case lexer.CONTINUE:
		return b.parseContinueStatement()
	case lexer.THROW:
		return b.parseThrowStatement()
	case lexer.IF:
		return b.parseIfStatement()
	case lexer.WHILE:
		return b.parseWhileStatement()
	case lexer.DO:
		return b.parseDoStatement()
	case lexer.FOR:
		return b.parseForStatement()
	case lexer.TRY:
		return b.parseTryStatement()
	case lexer.SWITCH:
		return b.parseSwitchStatement()
	case lexer.FUNCTION:
		return ast.FunctionDeclaration{Fn: b.parseFunction(true, false)}
	case lexer.CLASS:
		return ast.ClassDeclaration{Cl: b.parseClass(true)}
	case lexer.IDENTIFIER:
		if b.peek().Value == "async" && b.peekNext().Type == lexer.FUNCTION && !b.peekNext().NewlineBefore {
			b.advance() // async
			return ast.FunctionDeclaration{Fn: b.parseFunction(true, true)}
		}
		if b.peekNext().Type == lexer.COLON {
			return b.parseLabeledStatement()
		}
		return b.parseExpressionStatement()
	default:
		return b.parseExpressionStatement()
	}
}

func (b *Builder) parseExpressionStatement() ast.Statement {
	expr := b.sequenceOrExpressionLoc().Item
	b.expectSemicolon()
	return ast.ExpressionStatement{Expression: expr}
}

func (b *Builder) parseLabeledStatement() ast.Statement {
	label := b.advance().Value
	b.advance() // :
	body := b.parseStatement()
	return ast.LabeledStatement{Label: label, Body: body}
}

func declKindFor(t lexer.TokenType) ast.DeclarationKind {
	switch t {
	case lexer.LET:
		return ast.DeclLet
	case lexer.CONST:
		return ast.DeclConst
	default:
		return ast.DeclVar
	}
}

// parseDeclarators parses one or more comma-separated `name` / `name = value`
// bindings. It does not consume a trailing `;`; parseDeclarationStatement
// does that. The for-statement dispatcher parses its declarators itself.
func (b *Builder) parseDeclarators() ast.List[ast.Loc[ast.Declarator]] {
	decls := ast.NewListBuilder[ast.Loc[ast.Declarator]](b.arena)
	for {
		start := b.peek()
		name := b.parseBindingTarget()
		var value ast.Expression
		if b.check(lexer.ASSIGN) {
			b.advance()
			value = b.expression(bpAssignment)
		}
		decls.Push(ast.At[ast.Declarator](start.Start, b.previous().End, ast.Declarator{Name: name, Value: value}))
		if b.check(lexer.COMMA) {
			b.advance()
			continue
		}
		return decls.IntoList()
	}
}

func (b *Builder) parseDeclarationStatement() ast.Statement {
	kindTok := b.advance()
	kind := declKindFor(kindTok.Type)
	decls := b.parseDeclarators()
	b.expectSemicolon()
	return ast.DeclarationStatement{Kind: kind, Declarators: decls}
}

// parseReturnStatement implements the restricted production: a line break
// directly after `return` triggers ASI, so `return\nvalue` is `return;`
// followed by an unrelated expression statement, never `return value`.
func (b *Builder) parseReturnStatement() ast.Statement {
	b.advance() // return
	var value ast.Expression
	if !b.peek().NewlineBefore && !b.check(lexer.SEMICOLON) && !b.check(lexer.RBRACE) && !b.isAtEnd() {
		value = b.sequenceOrExpressionLoc().Item
	}
	b.expectSemicolon()
	return ast.ReturnStatement{Value: value}
}

func (b *Builder) parseBreakStatement() ast.Statement {
	b.advance()
	label := ""
	if !b.peek().NewlineBefore && b.check(lexer.IDENTIFIER) {
		label = b.advance().Value
	}
	b.expectSemicolon()
	return ast.BreakStatement{Label: label}
}

func (b *Builder) parseContinueStatement() ast.Statement {
	b.advance()
	label := ""
	if !b.peek().NewlineBefore && b.check(lexer.IDENTIFIER) {
		label = b.advance().Value
	}
	b.expectSemicolon()
	return ast.ContinueStatement{Label: label}
}

func (b *Builder) parseThrowStatement() ast.Statement {
	b.advance()
	if b.peek().NewlineBefore {
		b.addError(UnexpectedToken, "illegal newline after 'throw'")
	}
	value := b.sequenceOrExpressionLoc().Item
	b.expectSemicolon()
	return ast.ThrowStatement{Value: value}
}

func (b *Builder) parseIfStatement() ast.Statement {
	b.advance() // if
	b.expect(lexer.LPAREN)
	test := b.sequenceOrExpressionLoc().Item
	b.expect(lexer.RPAREN)
	consequent := b.parseStatement()
	var alternate ast.Statement
	if b.check(lexer.ELSE) {
		b.advance()
		alternate = b.parseStatement()
	}
	return ast.IfStatement{Test: test, Consequent: consequent, Alternate: alternate}
}

func (b *Builder) parseWhileStatement() ast.Statement {
	b.advance() // while
	b.expect(lexer.LPAREN)
	test := b.sequenceOrExpressionLoc().Item
	b.expect(lexer.RPAREN)
	body := b.parseStatement()
	return ast.WhileStatement{Test: test, Body: body}
}

func (b *Builder) parseDoStatement() ast.Statement {
	b.advance() // do
	body := b.parseStatement()
	b.expect(lexer.WHILE)
	b.expect(lexer.LPAREN)
	test := b.sequenceOrExpressionLoc().Item
	b.expect(lexer.RPAREN)
	// do-while's closing semicolon is always optional, even with no newline
	// before the next token; ASI makes an exception for it explicitly.
	if b.check(lexer.SEMICOLON) {
		b.advance()
	}
	return ast.DoStatement{Body: body, Test: test}
}

func (b *Builder) parseTryStatement() ast.Statement {
	b.advance() // try
	body := b.parseBlockBody()
	var handler *ast.CatchClause
	if b.check(lexer.CATCH) {
		b.advance()
		b.expect(lexer.LPAREN)
		paramTok := b.expectIdentifier("catch clause")
		b.expect(lexer.RPAREN)
		catchBody := b.parseBlockBody()
		handler = &ast.CatchClause{Param: ast.Identifier{Name: paramTok.Value}, Body: catchBody}
	}
	return ast.TryStatement{Body: body, Handler: handler}
}

func (b *Builder) parseSwitchStatement() ast.Statement {
	b.advance() // switch
	b.expect(lexer.LPAREN)
	disc := b.sequenceOrExpressionLoc().Item
	b.expect(lexer.RPAREN)
	b.expect(lexer.LBRACE)
	cases := ast.NewListBuilder[ast.Loc[ast.SwitchCase]](b.arena)
	for !b.check(lexer.RBRACE) && !b.isAtEnd() {
		start := b.peek()
		var test ast.Expression
		if b.check(lexer.CASE) {
			b.advance()
			test = b.sequenceOrExpressionLoc().Item
		} else {
			b.expect(lexer.DEFAULT)
		}
		b.expect(lexer.COLON)
		body := ast.NewListBuilder[ast.Loc[ast.Statement]](b.arena)
		for !b.check(lexer.CASE) && !b.check(lexer.DEFAULT) && !b.check(lexer.RBRACE) && !b.isAtEnd() {
			body.Push(b.parseStatementLoc())
		}
		cases.Push(ast.At[ast.SwitchCase](start.Start, b.previous().End, ast.SwitchCase{Test: test, Consequent: body.IntoList()}))
	}
	b.expect(lexer.RBRACE)
	return ast.SwitchStatement{Discriminant: disc, Cases: cases.IntoList()}
}

// parseForStatement implements the for/for-in/for-of dispatch: when the
// clause does not open with var/let/const, it parses a full expression
// (deliberately allowing the `in` relational operator to be folded in by the
// ordinary Pratt loop) and then inspects the result. A bare
// `BinaryExpression{Operator: "in"}` is unwrapped back into a for-in's
// target/object pair; `of` never has an infix binding power at all, so
// parsing simply stops right before it and a checkValue("of") afterward
// catches the for-of case. Neither path backtracks.
func (b *Builder) parseForStatement() ast.Statement {
	b.advance() // for
	b.expect(lexer.LPAREN)

	if b.check(lexer.SEMICOLON) {
		b.advance()
		return b.finishClassicFor(nil)
	}

	if b.check(lexer.VAR) || b.check(lexer.LET) || b.check(lexer.CONST) {
		return b.parseForWithDeclaration()
	}

	exprLoc := b.sequenceOrExpressionLoc()
	if bin, ok := exprLoc.Item.(ast.BinaryExpression); ok && bin.Operator == "in" {
		b.expect(lexer.RPAREN)
		body := b.parseStatement()
		left := ast.ForTargetExpression{Expression: b.reinterpretAsPattern(bin.Left)}
		return ast.ForInStatement{Left: left, Right: bin.Right, Body: body}
	}
	if b.checkValue("of") {
		b.advance()
		right := b.expression(bpAssignment)
		b.expect(lexer.RPAREN)
		body := b.parseStatement()
		left := ast.ForTargetExpression{Expression: b.reinterpretAsPattern(exprLoc.Item)}
		return ast.ForOfStatement{Left: left, Right: right, Body: body}
	}
	b.expect(lexer.SEMICOLON)
	return b.finishClassicFor(ast.ForExpressionInit{Expression: exprLoc.Item})
}

func (b *Builder) parseForWithDeclaration() ast.Statement {
	kindTok := b.advance()
	kind := declKindFor(kindTok.Type)
	firstStart := b.peek()
	name := b.parseBindingTarget()

	if b.check(lexer.IN) || b.checkValue("of") {
		isOf := b.checkValue("of")
		b.advance()
		right := b.expression(bpAssignment)
		b.expect(lexer.RPAREN)
		body := b.parseStatement()
		target := ast.ForTargetDeclaration{Kind: kind, Declarator: ast.Declarator{Name: name}}
		if isOf {
			return ast.ForOfStatement{Left: target, Right: right, Body: body}
		}
		return ast.ForInStatement{Left: target, Right: right, Body: body}
	}

	var value ast.Expression
	if b.check(lexer.ASSIGN) {
		b.advance()
		value = b.expression(bpAssignment)
		// legacy `for (var x = init in obj)`: the Pratt loop happily folds
		// `in` into the initializer the same way it does in the
		// no-declaration branch above, so unwrap it back into a for-in here
		// too. Only a single declarator is legal in this form.
		if bin, ok := value.(ast.BinaryExpression); ok && bin.Operator == "in" {
			b.expect(lexer.RPAREN)
			body := b.parseStatement()
			target := ast.ForTargetDeclaration{Kind: kind, Declarator: ast.Declarator{Name: name, Value: bin.Left}}
			return ast.ForInStatement{Left: target, Right: bin.Right, Body: body}
		}
	}
	decls := ast.NewListBuilder[ast.Loc[ast.Declarator]](b.arena)
	decls.Push(ast.At[ast.Declarator](firstStart.Start, b.previous().End, ast.Declarator{Name: name, Value: value}))
	for b.check(lexer.COMMA) {
		b.advance()
		start := b.peek()
		n := b.parseBindingTarget()
		var v ast.Expression
		if b.check(lexer.ASSIGN) {
			b.advance()
			v = b.expression(bpAssignment)
		}
		decls.Push(ast.At[ast.Declarator](start.Start, b.previous().End, ast.Declarator{Name: n, Value: v}))
	}
	b.expect(lexer.SEMICOLON)
	init := ast.DeclarationStatement{Kind: kind, Declarators: decls.IntoList()}
	return b.finishClassicFor(init)
}

func (b *Builder) finishClassicFor(init ast.ForInit) ast.Statement {
	var test ast.Expression
	if !b.check(lexer.SEMICOLON) {
		test = b.sequenceOrExpressionLoc().Item
	}
	b.expect(lexer.SEMICOLON)
	var update ast.Expression
	if !b.check(lexer.RPAREN) {
		update = b.sequenceOrExpressionLoc().Item
	}
	b.expect(lexer.RPAREN)
	body := b.parseStatement()
	return ast.ForStatement{Init: init, Test: test, Update: update, Body: body}
}
