// Package estree walks a parsed *ast.Module and serializes it into the
// "ESTree" JSON shape used across the JS tooling ecosystem. It builds plain
// map[string]any documents rather than reflecting over Go struct tags,
// mirroring the teacher's habit of hand-assembling JSON for its one
// polymorphic node (SourceUnit) — here nearly every node is polymorphic, so
// the whole serializer works that way.
package estree

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/estreegen/jsparse/pkg/ast"
	"github.com/estreegen/jsparse/pkg/parser"
)

// span is the byte range attached to a node in the emitted JSON. Only nodes
// reached through a List[Loc[T]] — statement lists, argument/element lists,
// declarators, object/class members — carry their own tracked span; a bare
// child field (BinaryExpression.Left, IfStatement.Consequent, and similar
// single-child fields that were never wrapped in Loc by the builder) falls
// back to the nearest enclosing span instead of a fabricated one. Every
// emitted span is therefore still a valid superset of its true source range,
// so start<=end and child-within-parent both hold; it is a documented
// fidelity gap, not a silent bug — see DESIGN.md.
type span struct {
	start, end uint32
}

func spanOf[T any](l ast.Loc[T]) span {
	return span{l.Start, l.End}
}

type generator struct {
	opts *parser.Options
	pos  *positionIndex
}

// Generate serializes module to an ESTree JSON document. source is the
// original text, needed to compute loc line/column pairs when opts.Loc is
// set and to size the root Program node's end offset.
func Generate(module *ast.Module, source string, opts *parser.Options) []byte {
	if opts == nil {
		opts = &parser.Options{}
	}
	g := &generator{opts: opts, pos: newPositionIndex(source)}
	root := map[string]any{
		"type":       "Program",
		"sourceType": "script",
		"body":       g.stmtList(module.Body),
	}
	root = g.wrap(root, span{0, uint32(len(source))})
	out, err := json.Marshal(root)
	if err != nil {
		panic(err)
	}
	return out
}

// GenerateAST parses source and serializes the result in one step.
func GenerateAST(source string, opts *parser.Options) ([]byte, error) {
	module, err := parser.Parse(source, opts)
	if err != nil {
		return nil, err
	}
	return Generate(module, source, opts), nil
}

func (g *generator) wrap(m map[string]any, sp span) map[string]any {
	m["start"] = int(sp.start)
	m["end"] = int(sp.end)
	if g.opts.Range {
		m["range"] = []int{int(sp.start), int(sp.end)}
	}
	if g.opts.Loc {
		sl, sc := g.pos.lineCol(int(sp.start))
		el, ec := g.pos.lineCol(int(sp.end))
		m["loc"] = map[string]any{
			"start": map[string]any{"line": sl, "column": sc},
			"end":   map[string]any{"line": el, "column": ec},
		}
	}
	return m
}

func (g *generator) stmtList(list ast.List[ast.Loc[ast.Statement]]) []any {
	out := make([]any, 0, list.Len())
	list.Each(func(item ast.Loc[ast.Statement]) {
		out = append(out, g.stmt(item.Item, spanOf(item)))
	})
	return out
}

func (g *generator) block(body ast.List[ast.Loc[ast.Statement]], sp span) map[string]any {
	return g.wrap(map[string]any{"type": "BlockStatement", "body": g.stmtList(body)}, sp)
}

func isLogicalOperator(op string) bool {
	return op == "&&" || op == "||" || op == "??"
}

func (g *generator) stmt(s ast.Statement, sp span) map[string]any {
	switch v := s.(type) {
	case ast.ErrorStatement:
		panic("estree: ErrorStatement reached the serializer")
	case ast.EmptyStatement:
		return g.wrap(map[string]any{"type": "EmptyStatement"}, sp)
	case ast.ExpressionStatement:
		return g.wrap(map[string]any{"type": "ExpressionStatement", "expression": g.expr(v.Expression, sp, false)}, sp)
	case ast.DeclarationStatement:
		return g.declaration(v, sp)
	case ast.ReturnStatement:
		return g.wrap(map[string]any{"type": "ReturnStatement", "argument": g.exprOrNil(v.Value, sp)}, sp)
	case ast.BreakStatement:
		return g.wrap(map[string]any{"type": "BreakStatement", "label": g.labelOrNil(v.Label, sp)}, sp)
	case ast.ContinueStatement:
		return g.wrap(map[string]any{"type": "ContinueStatement", "label": g.labelOrNil(v.Label, sp)}, sp)
	case ast.ThrowStatement:
		return g.wrap(map[string]any{"type": "ThrowStatement", "argument": g.expr(v.Value, sp, false)}, sp)
	case ast.IfStatement:
		var alt any
		if v.Alternate != nil {
			alt = g.stmt(v.Alternate, sp)
		}
		return g.wrap(map[string]any{
			"type": "IfStatement", "test": g.expr(v.Test, sp, false),
			"consequent": g.stmt(v.Consequent, sp), "alternate": alt,
		}, sp)
	case ast.WhileStatement:
		return g.wrap(map[string]any{"type": "WhileStatement", "test": g.expr(v.Test, sp, false), "body": g.stmt(v.Body, sp)}, sp)
	case ast.DoStatement:
		return g.wrap(map[string]any{"type": "DoWhileStatement", "body": g.stmt(v.Body, sp), "test": g.expr(v.Test, sp, false)}, sp)
	case ast.ForStatement:
		return g.wrap(map[string]any{
			"type": "ForStatement", "init": g.forInit(v.Init, sp), "test": g.exprOrNil(v.Test, sp),
			"update": g.exprOrNil(v.Update, sp), "body": g.stmt(v.Body, sp),
		}, sp)
	case ast.ForInStatement:
		return g.wrap(map[string]any{
			"type": "ForInStatement", "left": g.forTarget(v.Left, sp),
			"right": g.expr(v.Right, sp, false), "body": g.stmt(v.Body, sp),
		}, sp)
	case ast.ForOfStatement:
		return g.wrap(map[string]any{
			"type": "ForOfStatement", "left": g.forTarget(v.Left, sp),
			"right": g.expr(v.Right, sp, false), "body": g.stmt(v.Body, sp), "await": false,
		}, sp)
	case ast.TryStatement:
		var handler any
		if v.Handler != nil {
			handler = g.wrap(map[string]any{
				"type":  "CatchClause",
				"param": g.wrap(map[string]any{"type": "Identifier", "name": v.Handler.Param.Name}, sp),
				"body":  g.block(v.Handler.Body, sp),
			}, sp)
		}
		return g.wrap(map[string]any{"type": "TryStatement", "block": g.block(v.Body, sp), "handler": handler, "finalizer": nil}, sp)
	case ast.BlockStatement:
		return g.block(v.Body, sp)
	case ast.LabeledStatement:
		return g.wrap(map[string]any{
			"type":  "LabeledStatement",
			"label": g.wrap(map[string]any{"type": "Identifier", "name": v.Label}, sp),
			"body":  g.stmt(v.Body, sp),
		}, sp)
	case ast.FunctionDeclaration:
		return g.wrap(g.functionFields("FunctionDeclaration", v.Fn, sp), sp)
	case ast.ClassDeclaration:
		return g.wrap(g.classFields("ClassDeclaration", v.Cl, sp), sp)
	case ast.SwitchStatement:
		cases := make([]any, 0, v.Cases.Len())
		v.Cases.Each(func(item ast.Loc[ast.SwitchCase]) {
			csp := spanOf(item)
			cases = append(cases, g.wrap(map[string]any{
				"type": "SwitchCase", "test": g.exprOrNil(item.Item.Test, csp),
				"consequent": g.stmtList(item.Item.Consequent),
			}, csp))
		})
		return g.wrap(map[string]any{"type": "SwitchStatement", "discriminant": g.expr(v.Discriminant, sp, false), "cases": cases}, sp)
	default:
		panic(fmt.Sprintf("estree: unhandled statement %T", s))
	}
}

func (g *generator) declaration(v ast.DeclarationStatement, sp span) map[string]any {
	decls := make([]any, 0, v.Declarators.Len())
	v.Declarators.Each(func(item ast.Loc[ast.Declarator]) {
		dsp := spanOf(item)
		decls = append(decls, g.wrap(map[string]any{
			"type": "VariableDeclarator", "id": g.expr(item.Item.Name, dsp, true), "init": g.exprOrNil(item.Item.Value, dsp),
		}, dsp))
	})
	return g.wrap(map[string]any{"type": "VariableDeclaration", "kind": v.Kind.String(), "declarations": decls}, sp)
}

func (g *generator) forInit(init ast.ForInit, sp span) any {
	switch v := init.(type) {
	case nil:
		return nil
	case ast.DeclarationStatement:
		return g.declaration(v, sp)
	case ast.ForExpressionInit:
		return g.expr(v.Expression, sp, false)
	default:
		panic(fmt.Sprintf("estree: unhandled for-init %T", init))
	}
}

func (g *generator) forTarget(t ast.ForTarget, sp span) any {
	switch v := t.(type) {
	case ast.ForTargetDeclaration:
		return g.wrap(map[string]any{
			"type": "VariableDeclaration", "kind": v.Kind.String(),
			"declarations": []any{g.wrap(map[string]any{
				"type": "VariableDeclarator", "id": g.expr(v.Declarator.Name, sp, true), "init": g.exprOrNil(v.Declarator.Value, sp),
			}, sp)},
		}, sp)
	case ast.ForTargetExpression:
		return g.expr(v.Expression, sp, true)
	default:
		panic(fmt.Sprintf("estree: unhandled for-target %T", t))
	}
}

func (g *generator) exprOrNil(e ast.Expression, sp span) any {
	if e == nil {
		return nil
	}
	return g.expr(e, sp, false)
}

func (g *generator) labelOrNil(label string, sp span) any {
	if label == "" {
		return nil
	}
	return g.wrap(map[string]any{"type": "Identifier", "name": label}, sp)
}

func (g *generator) exprListRaw(list ast.List[ast.Loc[ast.Expression]], pattern bool) []any {
	out := make([]any, 0, list.Len())
	list.Each(func(item ast.Loc[ast.Expression]) {
		out = append(out, g.expr(item.Item, spanOf(item), pattern))
	})
	return out
}

// expr serializes e. pattern selects between the value-position and
// binding-position ESTree node shapes that share the same internal
// representation (ArrayExpression/ArrayPattern, ObjectExpression/
// ObjectPattern, RestElement/SpreadElement).
func (g *generator) expr(e ast.Expression, sp span, pattern bool) any {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case ast.ErrorExpression:
		panic("estree: ErrorExpression reached the serializer")
	case ast.VoidExpression:
		return nil
	case ast.ThisExpression:
		return g.wrap(map[string]any{"type": "ThisExpression"}, sp)
	case ast.Identifier:
		return g.wrap(map[string]any{"type": "Identifier", "name": v.Name}, sp)
	case ast.LiteralExpression:
		return g.literal(v.Value, sp)
	case ast.SequenceExpression:
		return g.wrap(map[string]any{"type": "SequenceExpression", "expressions": g.exprListRaw(v.Expressions, false)}, sp)
	case ast.ArrayExpression:
		typ, key := "ArrayExpression", "elements"
		if pattern {
			typ = "ArrayPattern"
		}
		return g.wrap(map[string]any{"type": typ, key: g.exprListRaw(v.Elements, pattern)}, sp)
	case ast.MemberExpression:
		return g.wrap(map[string]any{
			"type": "MemberExpression", "object": g.expr(v.Object, sp, false),
			"property": g.wrap(map[string]any{"type": "Identifier", "name": v.Property.Name}, sp),
			"computed": false, "optional": false,
		}, sp)
	case ast.ComputedMemberExpression:
		return g.wrap(map[string]any{
			"type": "MemberExpression", "object": g.expr(v.Object, sp, false),
			"property": g.expr(v.Property, sp, false), "computed": true, "optional": false,
		}, sp)
	case ast.CallExpression:
		return g.wrap(map[string]any{
			"type": "CallExpression", "callee": g.expr(v.Callee, sp, false),
			"arguments": g.exprListRaw(v.Arguments, false), "optional": false,
		}, sp)
	case ast.NewExpression:
		return g.wrap(map[string]any{"type": "NewExpression", "callee": g.expr(v.Callee, sp, false), "arguments": g.exprListRaw(v.Arguments, false)}, sp)
	case ast.BinaryExpression:
		typ := "BinaryExpression"
		if isLogicalOperator(v.Operator) {
			typ = "LogicalExpression"
		}
		return g.wrap(map[string]any{"type": typ, "operator": v.Operator, "left": g.expr(v.Left, sp, false), "right": g.expr(v.Right, sp, false)}, sp)
	case ast.PrefixExpression:
		if v.Operator == "++" || v.Operator == "--" {
			return g.wrap(map[string]any{"type": "UpdateExpression", "operator": v.Operator, "argument": g.expr(v.Operand, sp, false), "prefix": true}, sp)
		}
		return g.wrap(map[string]any{"type": "UnaryExpression", "operator": v.Operator, "argument": g.expr(v.Operand, sp, false), "prefix": true}, sp)
	case ast.PostfixExpression:
		return g.wrap(map[string]any{"type": "UpdateExpression", "operator": v.Operator, "argument": g.expr(v.Operand, sp, false), "prefix": false}, sp)
	case ast.ConditionalExpression:
		return g.wrap(map[string]any{
			"type": "ConditionalExpression", "test": g.expr(v.Test, sp, false),
			"consequent": g.expr(v.Consequent, sp, false), "alternate": g.expr(v.Alternate, sp, false),
		}, sp)
	case ast.TemplateExpression:
		return g.template(v, sp)
	case ast.ArrowExpression:
		return g.arrow(v, sp)
	case ast.ObjectExpression:
		typ, key := "ObjectExpression", "properties"
		if pattern {
			typ = "ObjectPattern"
		}
		members := make([]any, 0, v.Body.Len())
		v.Body.Each(func(item ast.Loc[ast.ObjectMember]) {
			members = append(members, g.objectMember(item.Item, spanOf(item), pattern))
		})
		return g.wrap(map[string]any{"type": typ, key: members}, sp)
	case ast.FunctionExpression:
		return g.wrap(g.functionFields("FunctionExpression", v.Fn, sp), sp)
	case ast.ClassExpression:
		return g.wrap(g.classFields("ClassExpression", v.Cl, sp), sp)
	case ast.AssignmentPattern:
		return g.wrap(map[string]any{"type": "AssignmentPattern", "left": g.expr(v.Left, sp, true), "right": g.expr(v.Right, sp, false)}, sp)
	case ast.RestElement:
		if pattern {
			return g.wrap(map[string]any{"type": "RestElement", "argument": g.expr(v.Argument, sp, true)}, sp)
		}
		return g.wrap(map[string]any{"type": "SpreadElement", "argument": g.expr(v.Argument, sp, false)}, sp)
	case ast.AssignmentExpression:
		return g.wrap(map[string]any{"type": "AssignmentExpression", "operator": v.Operator, "left": g.expr(v.Left, sp, true), "right": g.expr(v.Right, sp, false)}, sp)
	default:
		panic(fmt.Sprintf("estree: unhandled expression %T", e))
	}
}

func (g *generator) literal(lit ast.Literal, sp span) map[string]any {
	switch v := lit.(type) {
	case ast.NumberLiteral:
		return g.wrap(map[string]any{"type": "Literal", "value": parseNumericValue(v.Raw), "raw": v.Raw}, sp)
	case ast.StringLiteral:
		return g.wrap(map[string]any{"type": "Literal", "value": v.Value, "raw": v.Raw}, sp)
	case ast.BoolLiteral:
		return g.wrap(map[string]any{"type": "Literal", "value": v.Value, "raw": strconv.FormatBool(v.Value)}, sp)
	case ast.NullLiteral:
		return g.wrap(map[string]any{"type": "Literal", "value": nil, "raw": "null"}, sp)
	case ast.RegexLiteral:
		return g.wrap(map[string]any{
			"type": "Literal", "value": map[string]any{}, "raw": "/" + v.Pattern + "/" + v.Flags,
			"regex": map[string]any{"pattern": v.Pattern, "flags": v.Flags},
		}, sp)
	default:
		panic(fmt.Sprintf("estree: unhandled literal %T", lit))
	}
}

// parseNumericValue best-effort evaluates a lexed numeric literal's raw text
// into the float64 ESTree expects as "value". Parsing is opportunistic, not
// a correctness requirement: the core contract only promises a faithful AST
// shape, not numeric evaluation, so a failed parse simply yields nil.
func parseNumericValue(raw string) any {
	r := strings.ReplaceAll(raw, "_", "")
	if len(r) > 2 && r[0] == '0' {
		var base int
		switch r[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			if n, err := strconv.ParseInt(r[2:], base, 64); err == nil {
				return float64(n)
			}
			return nil
		}
	}
	if f, err := strconv.ParseFloat(r, 64); err == nil {
		return f
	}
	return nil
}

func (g *generator) template(v ast.TemplateExpression, sp span) map[string]any {
	quasis := make([]any, len(v.Quasis))
	for i, q := range v.Quasis {
		quasis[i] = g.wrap(map[string]any{
			"type": "TemplateElement", "tail": q.Tail,
			"value": map[string]any{"raw": q.Raw, "cooked": q.Cooked},
		}, sp)
	}
	lit := g.wrap(map[string]any{"type": "TemplateLiteral", "quasis": quasis, "expressions": g.exprListRaw(v.Expressions, false)}, sp)
	if v.Tag != nil {
		return g.wrap(map[string]any{"type": "TaggedTemplateExpression", "tag": g.expr(v.Tag, sp, false), "quasi": lit}, sp)
	}
	return lit
}

func (g *generator) arrow(v ast.ArrowExpression, sp span) map[string]any {
	params := g.exprListRaw(v.Params, true)
	var body any
	exprBody := false
	switch b := v.Body.(type) {
	case ast.ArrowExpressionBody:
		body = g.expr(b.Value, sp, false)
		exprBody = true
	case ast.ArrowBlockBody:
		body = g.block(b.Body, sp)
	default:
		panic(fmt.Sprintf("estree: unhandled arrow body %T", v.Body))
	}
	return g.wrap(map[string]any{
		"type": "ArrowFunctionExpression", "id": nil, "params": params, "body": body,
		"expression": exprBody, "generator": false, "async": false,
	}, sp)
}

// property serializes a Property key and reports whether it is a computed
// (bracketed) key, derived from the key's own shape rather than a
// separately-stored bool so object members and class members agree.
func (g *generator) property(p ast.Property, sp span) (any, bool) {
	switch v := p.(type) {
	case ast.ComputedProperty:
		return g.expr(v.Expr, sp, false), true
	case ast.LiteralProperty:
		return g.wrap(map[string]any{"type": "Identifier", "name": v.Name}, sp), false
	case ast.BinaryProperty:
		return g.wrap(map[string]any{"type": "Literal", "value": parseNumericValue(v.Name), "raw": v.Name}, sp), false
	default:
		panic(fmt.Sprintf("estree: unhandled property key %T", p))
	}
}

func (g *generator) objectMember(m ast.ObjectMember, sp span, pattern bool) any {
	switch v := m.(type) {
	case ast.ShorthandMember:
		id := g.wrap(map[string]any{"type": "Identifier", "name": v.Name}, sp)
		return g.wrap(map[string]any{"type": "Property", "key": id, "value": id, "kind": "init", "method": false, "shorthand": true, "computed": false}, sp)
	case ast.LiteralMember:
		key, computed := g.property(v.Property, sp)
		return g.wrap(map[string]any{
			"type": "Property", "key": key, "value": g.expr(v.Value, sp, pattern),
			"kind": "init", "method": false, "shorthand": false, "computed": computed,
		}, sp)
	case ast.MethodMember:
		key, computed := g.property(v.Property, sp)
		kind := "init"
		switch v.Kind {
		case ast.MethodGetter:
			kind = "get"
		case ast.MethodSetter:
			kind = "set"
		}
		return g.wrap(map[string]any{
			"type": "Property", "key": key, "value": g.wrap(g.functionFields("FunctionExpression", v.Fn, sp), sp),
			"kind": kind, "method": v.Kind == ast.MethodOrdinary, "shorthand": false, "computed": computed,
		}, sp)
	case ast.SpreadMember:
		if pattern {
			return g.wrap(map[string]any{"type": "RestElement", "argument": g.expr(v.Argument, sp, true)}, sp)
		}
		return g.wrap(map[string]any{"type": "SpreadElement", "argument": g.expr(v.Argument, sp, false)}, sp)
	default:
		panic(fmt.Sprintf("estree: unhandled object member %T", m))
	}
}

func (g *generator) functionFields(typ string, fn *ast.Function, sp span) map[string]any {
	var id any
	if fn.Name != nil {
		id = g.wrap(map[string]any{"type": "Identifier", "name": fn.Name.Name}, sp)
	}
	return map[string]any{
		"type": typ, "id": id, "params": g.exprListRaw(fn.Params, true),
		"body": g.block(fn.Body, sp), "generator": fn.Generator, "async": fn.Async,
	}
}

func (g *generator) classFields(typ string, cl *ast.Class, sp span) map[string]any {
	var id any
	if cl.Name != nil {
		id = g.wrap(map[string]any{"type": "Identifier", "name": cl.Name.Name}, sp)
	}
	var super any
	if cl.SuperClass != nil {
		super = g.expr(cl.SuperClass, sp, false)
	}
	members := make([]any, 0, cl.Body.Members.Len())
	cl.Body.Members.Each(func(item ast.Loc[ast.ClassMember]) {
		members = append(members, g.classMember(item.Item, spanOf(item)))
	})
	return map[string]any{"type": typ, "id": id, "superClass": super, "body": g.wrap(map[string]any{"type": "ClassBody", "body": members}, sp)}
}

func (g *generator) classMember(m ast.ClassMember, sp span) any {
	switch v := m.(type) {
	case ast.MethodDefinition:
		key, computed := g.property(v.Key, sp)
		kind := "method"
		switch {
		case !v.Static && v.Kind == ast.MethodOrdinary && ast.IsConstructorKey(v.Key):
			kind = "constructor"
		case v.Kind == ast.MethodGetter:
			kind = "get"
		case v.Kind == ast.MethodSetter:
			kind = "set"
		}
		return g.wrap(map[string]any{
			"type": "MethodDefinition", "key": key, "value": g.wrap(g.functionFields("FunctionExpression", v.Fn, sp), sp),
			"kind": kind, "static": v.Static, "computed": computed,
		}, sp)
	case ast.FieldDefinition:
		key, computed := g.property(v.Key, sp)
		var value any
		if v.Value != nil {
			value = g.expr(v.Value, sp, false)
		}
		return g.wrap(map[string]any{"type": "PropertyDefinition", "key": key, "value": value, "static": v.Static, "computed": computed}, sp)
	default:
		panic(fmt.Sprintf("estree: unhandled class member %T", m))
	}
}

// positionIndex maps a byte offset to a 1-based line / 0-based column pair,
// for Options.Loc output. Built once per Generate call.
type positionIndex struct {
	lineStarts []int
}

func newPositionIndex(source string) *positionIndex {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &positionIndex{lineStarts: starts}
}

func (p *positionIndex) lineCol(offset int) (line, column int) {
	lo, hi := 0, len(p.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if p.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - p.lineStarts[lo]
}
