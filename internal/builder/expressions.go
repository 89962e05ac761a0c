package builder

import (
	"fmt"

	"github.com/estreegen/jsparse/internal/lexer"
	"github.com/estreegen/jsparse/pkg/ast"
)

// expressionLoc parses one expression (no comma operator) and wraps it with
// the byte range it spans.
func (b *Builder) expressionLoc(minBP int) ast.Loc[ast.Expression] {
	startTok := b.peek()
	expr := b.expression(minBP)
	return ast.At[ast.Expression](startTok.Start, b.previous().End, expr)
}

// sequenceOrExpressionLoc parses a comma-separated list of assignment-level
// expressions. A single element is returned unwrapped; more than one is
// wrapped in a SequenceExpression. Every call site that wants comma
// semantics (statement expressions, for-loop clauses, computed member keys)
// goes through this wrapper rather than through a comma case in the Pratt
// loop.
func (b *Builder) sequenceOrExpressionLoc() ast.Loc[ast.Expression] {
	startTok := b.peek()
	first := b.expressionLoc(bpAssignment)
	if !b.check(lexer.COMMA) {
		return first
	}
	items := ast.NewListBuilder[ast.Loc[ast.Expression]](b.arena)
	items.Push(first)
	for b.check(lexer.COMMA) {
		b.advance()
		items.Push(b.expressionLoc(bpAssignment))
	}
	seq := ast.SequenceExpression{Expressions: items.IntoList()}
	return ast.At[ast.Expression](startTok.Start, b.previous().End, seq)
}

// expression is the precedence-climbing core: parse a unary/primary operand,
// then repeatedly fold in infix, postfix and assignment operators whose
// binding power is at least minBP. The table in precedence.go is the whole
// grammar; the only operator this loop special-cases is a postfix ++/--
// after a line break, for ASI.
func (b *Builder) expression(minBP int) ast.Expression {
	left := b.parseUnary()
	for {
		opType := b.peek().Type
		opBP := infixBindingPower(opType)
		if opBP < minBP {
			return left
		}
		if (opType == lexer.PLUS_PLUS || opType == lexer.MINUS_MINUS) && b.peek().NewlineBefore {
			// ASI: a line break before a postfix ++/-- ends the expression
			// instead of applying it, so `a\n++b` is two statements rather
			// than `(a++) b`.
			return left
		}
		nextMinBP := opBP + 1
		if isRightAssociative(opType) {
			nextMinBP = opBP
		}
		left = b.parseInfix(left, opType, nextMinBP)
	}
}

func (b *Builder) parseInfix(left ast.Expression, opType lexer.TokenType, nextMinBP int) ast.Expression {
	switch opType {
	case lexer.DOT:
		b.advance()
		name := b.expectIdentifierName()
		return ast.MemberExpression{Object: left, Property: ast.Identifier{Name: name}}
	case lexer.LBRACKET:
		b.advance()
		prop := b.sequenceOrExpressionLoc().Item
		b.expect(lexer.RBRACKET)
		return ast.ComputedMemberExpression{Object: left, Property: prop}
	case lexer.LPAREN:
		return ast.CallExpression{Callee: left, Arguments: b.parseArguments()}
	case lexer.BACKTICK:
		return b.parseTemplate(left)
	case lexer.PLUS_PLUS, lexer.MINUS_MINUS:
		op := b.advance()
		return ast.PostfixExpression{Operator: op.Value, Operand: left}
	case lexer.QUESTION:
		b.advance()
		consequent := b.expression(bpAssignment)
		b.expect(lexer.COLON)
		alternate := b.expression(nextMinBP)
		return ast.ConditionalExpression{Test: left, Consequent: consequent, Alternate: alternate}
	default:
		if isAssignmentOperator(opType) {
			op := b.advance()
			target := left
			if op.Type == lexer.ASSIGN {
				target = b.reinterpretAsPattern(left)
			} else if !isValidAssignmentTarget(left) {
				b.addError(InvalidPattern, "invalid left-hand side in assignment")
			}
			right := b.expression(nextMinBP)
			return ast.AssignmentExpression{Operator: op.Value, Left: target, Right: right}
		}
		// Every other infix operator (arithmetic, bitwise, relational,
		// equality, shift, logical, `in`/`instanceof`) becomes a plain
		// BinaryExpression; the serializer splits logical operators back out
		// into ESTree's LogicalExpression by inspecting Operator.
		op := b.advance()
		right := b.expression(nextMinBP)
		return ast.BinaryExpression{Operator: op.Value, Left: left, Right: right}
	}
}

func (b *Builder) parseArguments() ast.List[ast.Loc[ast.Expression]] {
	b.expect(lexer.LPAREN)
	args := ast.NewListBuilder[ast.Loc[ast.Expression]](b.arena)
	for !b.check(lexer.RPAREN) && !b.isAtEnd() {
		if b.check(lexer.ELLIPSIS) {
			start := b.peek()
			b.advance()
			arg := b.expression(bpAssignment)
			args.Push(ast.At[ast.Expression](start.Start, b.previous().End, ast.RestElement{Argument: arg}))
		} else {
			args.Push(b.expressionLoc(bpAssignment))
		}
		if b.check(lexer.COMMA) {
			b.advance()
		} else {
			break
		}
	}
	b.expect(lexer.RPAREN)
	return args.IntoList()
}

// expectIdentifierName consumes an IDENTIFIER-shaped token for use as a
// property name. Unlike expectIdentifier it never raises MissingName and it
// accepts keyword tokens too: `a.in` and `x.class` are legal member accesses
// even though `in`/`class` are reserved words in binding position.
func (b *Builder) expectIdentifierName() string {
	tok := b.peek()
	if tok.Type == lexer.IDENTIFIER || lexer.IsKeyword(tok.Type) {
		b.advance()
		return tok.Value
	}
	b.addError(UnexpectedToken, fmt.Sprintf("expected property name, got %q", tok.Value))
	return ""
}

// startsPropertyKey reports whether tok could begin an object- or
// class-member key, used to disambiguate the contextual `get`/`set`/`static`
// identifiers from their accessor/modifier meaning: `{ get: 1 }` is a plain
// key, `{ get x() {} }` is a getter, distinguished by what follows `get`.
func (b *Builder) startsPropertyKey(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.IDENTIFIER, lexer.STRING, lexer.NUMBER, lexer.LBRACKET:
		return true
	default:
		return lexer.IsKeyword(tok.Type)
	}
}

func isValidAssignmentTarget(e ast.Expression) bool {
	switch e.(type) {
	case ast.Identifier, ast.MemberExpression, ast.ComputedMemberExpression:
		return true
	default:
		return false
	}
}

// parseUnary handles prefix unary/update operators and `new`, falling
// through to parsePrimary otherwise.
func (b *Builder) parseUnary() ast.Expression {
	switch b.peek().Type {
	case lexer.NOT, lexer.TILDE, lexer.MINUS, lexer.PLUS, lexer.TYPEOF, lexer.VOID, lexer.DELETE,
		lexer.PLUS_PLUS, lexer.MINUS_MINUS:
		op := b.advance()
		operand := b.expression(bpPrefix)
		return ast.PrefixExpression{Operator: op.Value, Operand: operand}
	case lexer.NEW:
		return b.parseNewExpression()
	default:
		return b.parsePrimary()
	}
}

func (b *Builder) parseNewExpression() ast.Expression {
	b.advance() // `new`
	if b.check(lexer.NEW) {
		// `new new Foo()` - the callee of the outer new is itself a new
		// expression; the inner one takes the first argument list, and the
		// outer one only a second list if another `(...)` follows.
		inner := b.parseNewExpression()
		return b.finishNewArgs(inner)
	}
	callee := b.parseMemberChainNoCall(b.parsePrimary())
	return b.finishNewArgs(callee)
}

func (b *Builder) finishNewArgs(callee ast.Expression) ast.Expression {
	if b.check(lexer.LPAREN) {
		args := b.parseArguments()
		return ast.NewExpression{Callee: callee, Arguments: args, HasArgs: true}
	}
	return ast.NewExpression{Callee: callee, Arguments: ast.EmptyList[ast.Loc[ast.Expression]](), HasArgs: false}
}

// parseMemberChainNoCall folds `.`/`[...]` accessors onto left without ever
// consuming a `(...)` call suffix, so that `new Foo.Bar(a)` attaches its
// argument list to the NewExpression rather than to a CallExpression nested
// inside it.
func (b *Builder) parseMemberChainNoCall(left ast.Expression) ast.Expression {
	for {
		switch b.peek().Type {
		case lexer.DOT:
			b.advance()
			name := b.expectIdentifierName()
			left = ast.MemberExpression{Object: left, Property: ast.Identifier{Name: name}}
		case lexer.LBRACKET:
			b.advance()
			prop := b.sequenceOrExpressionLoc().Item
			b.expect(lexer.RBRACKET)
			left = ast.ComputedMemberExpression{Object: left, Property: prop}
		default:
			return left
		}
	}
}

// parsePrimary dispatches on the current token to produce an atomic
// expression or a parenthesized/bracketed/braced construct.
func (b *Builder) parsePrimary() ast.Expression {
	tok := b.peek()
	switch tok.Type {
	case lexer.IDENTIFIER:
		b.advance()
		if tok.Value == "async" && b.check(lexer.FUNCTION) && !b.peek().NewlineBefore {
			return ast.FunctionExpression{Fn: b.parseFunction(false, true)}
		}
		ident := ast.Identifier{Name: tok.Value}
		if b.check(lexer.ARROW) {
			return b.finishArrow(b.singleParamList(ast.At[ast.Expression](tok.Start, tok.End, ast.Expression(ident))))
		}
		return ident
	case lexer.THIS:
		b.advance()
		return ast.ThisExpression{}
	case lexer.NUMBER:
		b.advance()
		return ast.LiteralExpression{Value: ast.NumberLiteral{Raw: tok.Value}}
	case lexer.STRING:
		b.advance()
		if tok.Unterminated {
			b.addError(UnterminatedString, "unterminated string literal")
		}
		return ast.LiteralExpression{Value: ast.StringLiteral{Raw: tok.Raw, Value: tok.Value}}
	case lexer.TRUE:
		b.advance()
		return ast.LiteralExpression{Value: ast.BoolLiteral{Value: true}}
	case lexer.FALSE:
		b.advance()
		return ast.LiteralExpression{Value: ast.BoolLiteral{Value: false}}
	case lexer.NULL:
		b.advance()
		return ast.LiteralExpression{Value: ast.NullLiteral{}}
	case lexer.REGEX:
		b.advance()
		pattern, flags := splitRegex(tok.Value)
		return ast.LiteralExpression{Value: ast.RegexLiteral{Pattern: pattern, Flags: flags}}
	case lexer.BACKTICK:
		return b.parseTemplate(nil)
	case lexer.LPAREN:
		return b.parseParenthesizedOrArrow()
	case lexer.LBRACKET:
		return b.parseArrayLiteral()
	case lexer.LBRACE:
		return b.parseObjectLiteral()
	case lexer.FUNCTION:
		return ast.FunctionExpression{Fn: b.parseFunction(false, false)}
	case lexer.CLASS:
		return ast.ClassExpression{Cl: b.parseClass(false)}
	default:
		b.addError(UnexpectedToken, fmt.Sprintf("unexpected token %q", tok.Value))
		if !b.isAtEnd() {
			b.advance()
		}
		return ast.ErrorExpression{}
	}
}

func (b *Builder) singleParamList(item ast.Loc[ast.Expression]) ast.List[ast.Loc[ast.Expression]] {
	lb := ast.NewListBuilder[ast.Loc[ast.Expression]](b.arena)
	lb.Push(item)
	return lb.IntoList()
}

// splitRegex separates a lexed `/pattern/flags` token's raw text at its
// final unescaped `/`, which readRegex in the lexer always leaves in place.
func splitRegex(raw string) (pattern, flags string) {
	last := len(raw) - 1
	for last > 0 && raw[last] != '/' {
		last--
	}
	return raw[1:last], raw[last+1:]
}

// parseParenthesizedOrArrow parses the contents of `(...)` without knowing
// upfront whether it is a grouped expression or an arrow parameter list: it
// parses every comma-separated item as a full expression (tolerating a
// leading `...` for a would-be rest parameter), then looks at what follows
// the closing paren. No backtracking is needed because reinterpreting a
// completed expression as a pattern (reinterpretAsPattern) is exactly what
// destructuring and arrow parameters already require on their own.
func (b *Builder) parseParenthesizedOrArrow() ast.Expression {
	b.advance() // (
	items := ast.NewListBuilder[ast.Loc[ast.Expression]](b.arena)
	for !b.check(lexer.RPAREN) && !b.isAtEnd() {
		if b.check(lexer.ELLIPSIS) {
			start := b.peek()
			b.advance()
			arg := b.expression(bpAssignment)
			items.Push(ast.At[ast.Expression](start.Start, b.previous().End, ast.RestElement{Argument: arg}))
		} else {
			items.Push(b.expressionLoc(bpAssignment))
		}
		if b.check(lexer.COMMA) {
			b.advance()
		} else {
			break
		}
	}
	b.expect(lexer.RPAREN)
	list := items.IntoList()
	if b.check(lexer.ARROW) {
		return b.finishArrow(b.reinterpretParamList(list))
	}
	slice := list.ToSlice()
	switch len(slice) {
	case 0:
		b.addError(UnexpectedToken, "empty parenthesized expression")
		return ast.ErrorExpression{}
	case 1:
		if _, ok := slice[0].Item.(ast.RestElement); ok {
			b.addError(InvalidPattern, "rest element is only valid in an arrow parameter list")
		}
		return slice[0].Item
	default:
		return ast.SequenceExpression{Expressions: list}
	}
}

// reinterpretParamList reinterprets every item of a completed parenthesized
// expression list as a binding pattern, for the arrow-parameter case.
func (b *Builder) reinterpretParamList(list ast.List[ast.Loc[ast.Expression]]) ast.List[ast.Loc[ast.Expression]] {
	out := ast.NewListBuilder[ast.Loc[ast.Expression]](b.arena)
	list.Each(func(item ast.Loc[ast.Expression]) {
		out.Push(ast.At[ast.Expression](item.Start, item.End, b.reinterpretAsPattern(item.Item)))
	})
	return out.IntoList()
}

func (b *Builder) finishArrow(params ast.List[ast.Loc[ast.Expression]]) ast.Expression {
	b.expect(lexer.ARROW)
	if b.check(lexer.LBRACE) {
		body := b.parseBlockBody()
		return ast.ArrowExpression{Params: params, Body: ast.ArrowBlockBody{Body: body}}
	}
	value := b.expression(bpAssignment)
	return ast.ArrowExpression{Params: params, Body: ast.ArrowExpressionBody{Value: value}}
}

// reinterpretAsPattern walks a completed expression tree and turns it into a
// binding pattern in place: Identifier and member expressions pass through
// unchanged, `=` AssignmentExpression becomes AssignmentPattern, and
// Array/ObjectExpression recurse element-wise. Anything else raises
// InvalidPattern, matching ratel-core's reinterpretation approach rather
// than a second, pattern-specific grammar.
func (b *Builder) reinterpretAsPattern(e ast.Expression) ast.Expression {
	switch v := e.(type) {
	case ast.Identifier, ast.MemberExpression, ast.ComputedMemberExpression, ast.VoidExpression:
		return e
	case ast.AssignmentExpression:
		if v.Operator != "=" {
			b.addError(InvalidPattern, "only '=' may introduce a default in a binding pattern")
			return e
		}
		return ast.AssignmentPattern{Left: b.reinterpretAsPattern(v.Left), Right: v.Right}
	case ast.AssignmentPattern:
		return ast.AssignmentPattern{Left: b.reinterpretAsPattern(v.Left), Right: v.Right}
	case ast.RestElement:
		return ast.RestElement{Argument: b.reinterpretAsPattern(v.Argument)}
	case ast.ArrayExpression:
		out := ast.NewListBuilder[ast.Loc[ast.Expression]](b.arena)
		v.Elements.Each(func(item ast.Loc[ast.Expression]) {
			out.Push(ast.At[ast.Expression](item.Start, item.End, b.reinterpretAsPattern(item.Item)))
		})
		return ast.ArrayExpression{Elements: out.IntoList()}
	case ast.ObjectExpression:
		out := ast.NewListBuilder[ast.Loc[ast.ObjectMember]](b.arena)
		v.Body.Each(func(item ast.Loc[ast.ObjectMember]) {
			out.Push(ast.At[ast.ObjectMember](item.Start, item.End, b.reinterpretObjectMemberAsPattern(item.Item)))
		})
		return ast.ObjectExpression{Body: out.IntoList()}
	default:
		b.addError(InvalidPattern, "invalid destructuring or assignment target")
		return e
	}
}

// parseBindingTarget parses a declarator or for-loop-target name: an
// identifier or array/object destructuring literal, reinterpreted as a
// pattern. It stops at bpMember so that relational operators (crucially
// `in`) and `=` are left for the caller to inspect, which is how the
// for-statement dispatcher in statements.go tells `for (x in y)` apart from
// `for (x = 1; ...)` without a backtracking parse.
func (b *Builder) parseBindingTarget() ast.Expression {
	target := b.reinterpretAsPattern(b.expression(bpMember))
	switch target.(type) {
	case ast.MemberExpression, ast.ComputedMemberExpression:
		b.addError(InvalidPattern, "declaration name must be an identifier or a destructuring pattern")
	}
	return target
}

func (b *Builder) reinterpretObjectMemberAsPattern(m ast.ObjectMember) ast.ObjectMember {
	switch v := m.(type) {
	case ast.ShorthandMember:
		return v
	case ast.LiteralMember:
		return ast.LiteralMember{Property: v.Property, Value: b.reinterpretAsPattern(v.Value)}
	case ast.SpreadMember:
		return ast.SpreadMember{Argument: b.reinterpretAsPattern(v.Argument)}
	default:
		b.addError(InvalidPattern, "invalid destructuring target in object pattern")
		return m
	}
}

func (b *Builder) parseArrayLiteral() ast.Expression {
	b.advance() // [
	elems := ast.NewListBuilder[ast.Loc[ast.Expression]](b.arena)
	for !b.check(lexer.RBRACKET) && !b.isAtEnd() {
		if b.check(lexer.COMMA) {
			tok := b.peek()
			elems.Push(ast.At[ast.Expression](tok.Start, tok.Start, ast.VoidExpression{}))
			b.advance()
			continue
		}
		if b.check(lexer.ELLIPSIS) {
			start := b.peek()
			b.advance()
			arg := b.expression(bpAssignment)
			elems.Push(ast.At[ast.Expression](start.Start, b.previous().End, ast.RestElement{Argument: arg}))
		} else {
			elems.Push(b.expressionLoc(bpAssignment))
		}
		if b.check(lexer.COMMA) {
			b.advance()
		} else {
			break
		}
	}
	b.expect(lexer.RBRACKET)
	return ast.ArrayExpression{Elements: elems.IntoList()}
}

func (b *Builder) parseObjectLiteral() ast.Expression {
	b.advance() // {
	members := ast.NewListBuilder[ast.Loc[ast.ObjectMember]](b.arena)
	for !b.check(lexer.RBRACE) && !b.isAtEnd() {
		start := b.peek()
		member := b.parseObjectMember()
		members.Push(ast.At[ast.ObjectMember](start.Start, b.previous().End, member))
		if b.check(lexer.COMMA) {
			b.advance()
		} else {
			break
		}
	}
	b.expect(lexer.RBRACE)
	return ast.ObjectExpression{Body: members.IntoList()}
}

func (b *Builder) parseObjectMember() ast.ObjectMember {
	if b.check(lexer.ELLIPSIS) {
		b.advance()
		return ast.SpreadMember{Argument: b.expression(bpAssignment)}
	}
	if (b.checkValue("get") || b.checkValue("set")) && b.startsPropertyKey(b.peekNext()) {
		kind := ast.MethodGetter
		if b.peek().Value == "set" {
			kind = ast.MethodSetter
		}
		b.advance()
		key := b.parsePropertyKey()
		fn := b.parseFunctionRest(false, false)
		return ast.MethodMember{Property: key, Fn: fn, Kind: kind}
	}
	key := b.parsePropertyKey()
	switch {
	case b.check(lexer.LPAREN):
		fn := b.parseFunctionRest(false, false)
		return ast.MethodMember{Property: key, Fn: fn, Kind: ast.MethodOrdinary}
	case b.check(lexer.COLON):
		b.advance()
		val := b.expression(bpAssignment)
		return ast.LiteralMember{Property: key, Value: val}
	default:
		lp, ok := key.(ast.LiteralProperty)
		if !ok {
			b.addError(UnexpectedToken, "computed or numeric key requires ':' or '('")
			return ast.LiteralMember{Property: key, Value: ast.ErrorExpression{}}
		}
		if b.check(lexer.ASSIGN) {
			b.advance()
			def := b.expression(bpAssignment)
			return ast.LiteralMember{
				Property: key,
				Value:    ast.AssignmentPattern{Left: ast.Identifier{Name: lp.Name}, Right: def},
			}
		}
		return ast.ShorthandMember{Name: lp.Name}
	}
}

func (b *Builder) parsePropertyKey() ast.Property {
	tok := b.peek()
	switch tok.Type {
	case lexer.LBRACKET:
		b.advance()
		expr := b.expression(bpAssignment)
		b.expect(lexer.RBRACKET)
		return ast.ComputedProperty{Expr: expr}
	case lexer.STRING:
		b.advance()
		if tok.Unterminated {
			b.addError(UnterminatedString, "unterminated string literal")
		}
		return ast.LiteralProperty{Name: tok.Value}
	case lexer.NUMBER:
		b.advance()
		return ast.BinaryProperty{Name: tok.Value}
	default:
		return ast.LiteralProperty{Name: b.expectIdentifierName()}
	}
}

// parseTemplate parses a template literal. b.cur must hold the BACKTICK
// token; the lexer's raw cursor is already positioned at the start of the
// first quasi, since Next() fully consumes the backtick character before
// returning that token. Template parsing therefore bypasses the normal
// advance()/peek() machinery and drives the Lexer directly, alternating
// NextTemplateQuasi (raw text) with Next (the `${...}` substitution).
func (b *Builder) parseTemplate(tag ast.Expression) ast.Expression {
	b.ahead = nil
	var quasis []ast.Quasi
	exprs := ast.NewListBuilder[ast.Loc[ast.Expression]](b.arena)
	for {
		qtok := b.lex.NextTemplateQuasi()
		quasis = append(quasis, ast.Quasi{Raw: qtok.Raw, Cooked: qtok.Value, Tail: qtok.TemplateTail})
		if qtok.Unterminated {
			b.addError(UnterminatedTemplate, "unterminated template literal")
			break
		}
		if qtok.TemplateTail {
			break
		}
		b.cur = b.lex.Next()
		exprs.Push(b.sequenceOrExpressionLoc())
		if !b.check(lexer.RBRACE) {
			b.addError(UnexpectedToken, "expected '}' to close template substitution")
		}
		// The lexer's raw cursor already sits just past the `}` (Next()
		// consumes a token fully before returning it), so the next
		// iteration's NextTemplateQuasi resumes correctly without any
		// explicit advance() over the brace.
		b.ahead = nil
	}
	b.cur = b.lex.Next()
	b.ahead = nil
	return ast.TemplateExpression{Tag: tag, Expressions: exprs.IntoList(), Quasis: quasis}
}

// parseFunction parses a `function` (or `async function`) expression or
// declaration; the `async` token, if any, has already been consumed by the
// caller. isDeclaration requires a name (raising MissingName otherwise).
func (b *Builder) parseFunction(isDeclaration, async bool) *ast.Function {
	b.advance() // `function`
	generator := false
	if b.check(lexer.STAR) {
		b.advance()
		generator = true
	}
	var name *ast.Identifier
	if b.check(lexer.IDENTIFIER) {
		tok := b.advance()
		id := ast.Identifier{Name: tok.Value}
		name = &id
	} else if isDeclaration {
		tok := b.expectIdentifier("function declaration")
		id := ast.Identifier{Name: tok.Value}
		name = &id
	}
	fn := b.parseFunctionRest(generator, async)
	fn.Name = name
	return fn
}

// parseFunctionRest parses `(params) { body }` for a function whose
// keyword/name (if any) the caller already consumed: object methods, class
// methods and accessors, and the tail of parseFunction all share it.
func (b *Builder) parseFunctionRest(generator, async bool) *ast.Function {
	params := b.parseParamList()
	body := b.parseBlockBody()
	return &ast.Function{Params: params, Body: body, Generator: generator, Async: async}
}

func (b *Builder) parseParamList() ast.List[ast.Loc[ast.Expression]] {
	b.expect(lexer.LPAREN)
	params := ast.NewListBuilder[ast.Loc[ast.Expression]](b.arena)
	for !b.check(lexer.RPAREN) && !b.isAtEnd() {
		start := b.peek()
		var p ast.Expression
		if b.check(lexer.ELLIPSIS) {
			b.advance()
			arg := b.expression(bpAssignment)
			p = ast.RestElement{Argument: b.reinterpretAsPattern(arg)}
		} else {
			raw := b.expression(bpAssignment)
			p = b.reinterpretAsPattern(raw)
		}
		params.Push(ast.At[ast.Expression](start.Start, b.previous().End, p))
		if b.check(lexer.COMMA) {
			b.advance()
		} else {
			break
		}
	}
	b.expect(lexer.RPAREN)
	return params.IntoList()
}

// parseBlockBody parses `{ statement* }`, shared by function bodies, plain
// block statements, arrow block bodies, and try/catch bodies.
func (b *Builder) parseBlockBody() ast.List[ast.Loc[ast.Statement]] {
	b.expect(lexer.LBRACE)
	body := ast.NewListBuilder[ast.Loc[ast.Statement]](b.arena)
	for !b.check(lexer.RBRACE) && !b.isAtEnd() {
		body.Push(b.parseStatementLoc())
		if !b.options.Tolerant && len(b.errors) > 0 {
			break
		}
	}
	b.expect(lexer.RBRACE)
	return body.IntoList()
}

func (b *Builder) parseClass(isDeclaration bool) *ast.Class {
	b.advance() // `class`
	var name *ast.Identifier
	if b.check(lexer.IDENTIFIER) {
		tok := b.advance()
		id := ast.Identifier{Name: tok.Value}
		name = &id
	} else if isDeclaration {
		tok := b.expectIdentifier("class declaration")
		id := ast.Identifier{Name: tok.Value}
		name = &id
	}
	var super ast.Expression
	if b.check(lexer.EXTENDS) {
		b.advance()
		// extends takes a call-level expression (`extends mixin(Base)` is
		// legal), not just a bare member chain.
		super = b.expression(bpCall)
	}
	body := b.parseClassBody()
	return &ast.Class{Name: name, SuperClass: super, Body: body}
}

func (b *Builder) parseClassBody() ast.ClassBody {
	b.expect(lexer.LBRACE)
	members := ast.NewListBuilder[ast.Loc[ast.ClassMember]](b.arena)
	var ctor *ast.MethodDefinition
	for !b.check(lexer.RBRACE) && !b.isAtEnd() {
		if b.check(lexer.SEMICOLON) {
			b.advance()
			continue
		}
		start := b.peek()
		member := b.parseClassMember()
		if md, ok := member.(ast.MethodDefinition); ok && !md.Static && md.Kind == ast.MethodOrdinary && ast.IsConstructorKey(md.Key) {
			m := md
			ctor = &m
		}
		members.Push(ast.At[ast.ClassMember](start.Start, b.previous().End, member))
	}
	b.expect(lexer.RBRACE)
	return ast.ClassBody{Members: members.IntoList(), Constructor: ctor}
}

func (b *Builder) parseClassMember() ast.ClassMember {
	static := false
	if b.checkValue("static") && b.startsPropertyKey(b.peekNext()) {
		b.advance()
		static = true
	}
	kind := ast.MethodOrdinary
	if (b.checkValue("get") || b.checkValue("set")) && b.startsPropertyKey(b.peekNext()) {
		if b.peek().Value == "set" {
			kind = ast.MethodSetter
		} else {
			kind = ast.MethodGetter
		}
		b.advance()
	}
	computed := b.check(lexer.LBRACKET)
	key := b.parsePropertyKey()
	if b.check(lexer.LPAREN) {
		fn := b.parseFunctionRest(false, false)
		return ast.MethodDefinition{Key: key, Fn: fn, Kind: kind, Static: static, Computed: computed}
	}
	var value ast.Expression
	if b.check(lexer.ASSIGN) {
		b.advance()
		value = b.expression(bpAssignment)
	}
	b.expectSemicolon()
	return ast.FieldDefinition{Key: key, Value: value, Static: static}
}
