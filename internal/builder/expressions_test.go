package builder

import (
	"testing"

	"github.com/estreegen/jsparse/pkg/ast"
)

func parseExpr(t *testing.T, src string) ast.Expression {
	t.Helper()
	mod, err := New(src+";", nil).Module()
	if err != nil {
		t.Fatalf("parsing %q failed: %v", src, err)
	}
	stmt := mod.Body.ToSlice()[0].Item
	es, ok := stmt.(ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ast.ExpressionStatement, got %T", stmt)
	}
	return es.Expression
}

func TestBinaryPrecedence(t *testing.T) {
	// "+" binds tighter than nothing above it, "*" binds tighter than "+":
	// 1 + 2 * 3 must parse as 1 + (2 * 3).
	expr := parseExpr(t, "1 + 2 * 3")
	bin, ok := expr.(ast.BinaryExpression)
	if !ok || bin.Operator != "+" {
		t.Fatalf("expected top-level +, got %#v", expr)
	}
	rhs, ok := bin.Right.(ast.BinaryExpression)
	if !ok || rhs.Operator != "*" {
		t.Fatalf("expected right side to be a * expression, got %#v", bin.Right)
	}
}

func TestExponentIsRightAssociative(t *testing.T) {
	// 2 ** 3 ** 2 == 2 ** (3 ** 2), not (2 ** 3) ** 2.
	expr := parseExpr(t, "2 ** 3 ** 2")
	bin := expr.(ast.BinaryExpression)
	if bin.Operator != "**" {
		t.Fatalf("expected **, got %s", bin.Operator)
	}
	if _, ok := bin.Right.(ast.BinaryExpression); !ok {
		t.Fatalf("expected right-associative grouping, got %#v", bin.Right)
	}
	if _, ok := bin.Left.(ast.BinaryExpression); ok {
		t.Fatalf("exponent should not be left-associative, got %#v", bin.Left)
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	expr := parseExpr(t, "a = b = 1")
	assign, ok := expr.(ast.AssignmentExpression)
	if !ok || assign.Operator != "=" {
		t.Fatalf("expected assignment, got %#v", expr)
	}
	if _, ok := assign.Right.(ast.AssignmentExpression); !ok {
		t.Fatalf("expected nested assignment on the right, got %#v", assign.Right)
	}
}

func TestLogicalVsBitwisePrecedence(t *testing.T) {
	expr := parseExpr(t, "a || b && c")
	bin := expr.(ast.BinaryExpression)
	if bin.Operator != "||" {
		t.Fatalf("expected top-level ||, got %s", bin.Operator)
	}
	rhs, ok := bin.Right.(ast.BinaryExpression)
	if !ok || rhs.Operator != "&&" {
		t.Fatalf("expected && nested under ||, got %#v", bin.Right)
	}
}

func TestConditionalExpression(t *testing.T) {
	expr := parseExpr(t, "a ? b : c")
	if _, ok := expr.(ast.ConditionalExpression); !ok {
		t.Fatalf("expected ast.ConditionalExpression, got %#v", expr)
	}
}

func TestSequenceExpressionStopsAtTopLevelComma(t *testing.T) {
	expr := parseExpr(t, "a, b, c")
	seq, ok := expr.(ast.SequenceExpression)
	if !ok {
		t.Fatalf("expected ast.SequenceExpression, got %#v", expr)
	}
	if seq.Expressions.Len() != 3 {
		t.Fatalf("expected 3 expressions, got %d", seq.Expressions.Len())
	}
}

func TestMemberAndCallChain(t *testing.T) {
	expr := parseExpr(t, "a.b.c()")
	call, ok := expr.(ast.CallExpression)
	if !ok {
		t.Fatalf("expected ast.CallExpression, got %#v", expr)
	}
	if _, ok := call.Callee.(ast.MemberExpression); !ok {
		t.Fatalf("expected member expression callee, got %#v", call.Callee)
	}
}

func TestComputedMemberExpression(t *testing.T) {
	expr := parseExpr(t, "a[b]")
	if _, ok := expr.(ast.ComputedMemberExpression); !ok {
		t.Fatalf("expected ast.ComputedMemberExpression, got %#v", expr)
	}
}

func TestNewExpressionExcludesTrailingCall(t *testing.T) {
	// In `new a.b()` the `()` is the NewExpression's own argument list, it is
	// not passed through to the callee chain: `new (a.b())` would be a
	// different AST.
	expr := parseExpr(t, "new a.b()")
	newExpr, ok := expr.(ast.NewExpression)
	if !ok {
		t.Fatalf("expected ast.NewExpression, got %#v", expr)
	}
	if !newExpr.HasArgs {
		t.Error("expected HasArgs to be true for new a.b()")
	}
	if _, ok := newExpr.Callee.(ast.MemberExpression); !ok {
		t.Fatalf("expected member expression callee, got %#v", newExpr.Callee)
	}
}

func TestNewExpressionWithoutArgs(t *testing.T) {
	expr := parseExpr(t, "new Foo")
	newExpr, ok := expr.(ast.NewExpression)
	if !ok {
		t.Fatalf("expected ast.NewExpression, got %#v", expr)
	}
	if newExpr.HasArgs {
		t.Error("expected HasArgs to be false for a bare `new Foo`")
	}
}

func TestPrefixAndPostfixUpdate(t *testing.T) {
	expr := parseExpr(t, "++a")
	if _, ok := expr.(ast.PrefixExpression); !ok {
		t.Fatalf("expected ast.PrefixExpression, got %#v", expr)
	}
	expr = parseExpr(t, "a++")
	if _, ok := expr.(ast.PostfixExpression); !ok {
		t.Fatalf("expected ast.PostfixExpression, got %#v", expr)
	}
}

func TestArrayLiteralWithHoleAndSpread(t *testing.T) {
	expr := parseExpr(t, "[1, , ...rest]")
	arr, ok := expr.(ast.ArrayExpression)
	if !ok {
		t.Fatalf("expected ast.ArrayExpression, got %#v", expr)
	}
	elems := arr.Elements.ToSlice()
	if len(elems) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elems))
	}
	if _, ok := elems[1].Item.(ast.VoidExpression); !ok {
		t.Errorf("expected a hole at index 1, got %#v", elems[1].Item)
	}
	if _, ok := elems[2].Item.(ast.RestElement); !ok {
		t.Errorf("expected a rest element at index 2, got %#v", elems[2].Item)
	}
}

func TestObjectLiteralShorthandAndMethod(t *testing.T) {
	expr := parseExpr(t, "({ a, b() {} })")
	obj, ok := expr.(ast.ObjectExpression)
	if !ok {
		t.Fatalf("expected ast.ObjectExpression, got %#v", expr)
	}
	members := obj.Body.ToSlice()
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if _, ok := members[0].Item.(ast.ShorthandMember); !ok {
		t.Errorf("expected a shorthand member, got %#v", members[0].Item)
	}
	if _, ok := members[1].Item.(ast.MethodMember); !ok {
		t.Errorf("expected a method member, got %#v", members[1].Item)
	}
}

func TestGetSetAccessorMethods(t *testing.T) {
	expr := parseExpr(t, "({ get x() {}, set x(v) {} })")
	obj := expr.(ast.ObjectExpression)
	members := obj.Body.ToSlice()
	getter := members[0].Item.(ast.MethodMember)
	if getter.Kind != ast.MethodGetter {
		t.Errorf("expected MethodGetter, got %v", getter.Kind)
	}
	setter := members[1].Item.(ast.MethodMember)
	if setter.Kind != ast.MethodSetter {
		t.Errorf("expected MethodSetter, got %v", setter.Kind)
	}
}

func TestArrowFunctionSingleBareParam(t *testing.T) {
	expr := parseExpr(t, "x => x + 1")
	arrow, ok := expr.(ast.ArrowExpression)
	if !ok {
		t.Fatalf("expected ast.ArrowExpression, got %#v", expr)
	}
	if arrow.Params.Len() != 1 {
		t.Fatalf("expected 1 param, got %d", arrow.Params.Len())
	}
	if _, ok := arrow.Body.(ast.ArrowExpressionBody); !ok {
		t.Errorf("expected an expression body, got %#v", arrow.Body)
	}
}

func TestArrowFunctionBlockBody(t *testing.T) {
	expr := parseExpr(t, "(x) => { return x; }")
	arrow := expr.(ast.ArrowExpression)
	if _, ok := arrow.Body.(ast.ArrowBlockBody); !ok {
		t.Errorf("expected a block body, got %#v", arrow.Body)
	}
}

func TestArrowParamsWithDestructuringAndDefault(t *testing.T) {
	expr := parseExpr(t, "({ a, b } = {}, [c] = [], d = 1) => d")
	arrow := expr.(ast.ArrowExpression)
	params := arrow.Params.ToSlice()
	if len(params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(params))
	}
	first, ok := params[0].Item.(ast.AssignmentPattern)
	if !ok {
		t.Fatalf("expected an AssignmentPattern, got %#v", params[0].Item)
	}
	if _, ok := first.Left.(ast.ObjectExpression); !ok {
		t.Errorf("expected object pattern on the left, got %#v", first.Left)
	}
	second := params[1].Item.(ast.AssignmentPattern)
	if _, ok := second.Left.(ast.ArrayExpression); !ok {
		t.Errorf("expected array pattern on the left, got %#v", second.Left)
	}
}

func TestParenthesizedExpressionIsNotMistakenForArrow(t *testing.T) {
	expr := parseExpr(t, "(a + b)")
	if _, ok := expr.(ast.BinaryExpression); !ok {
		t.Fatalf("expected a plain binary expression, got %#v", expr)
	}
}

func TestRegexLiteral(t *testing.T) {
	expr := parseExpr(t, "/abc/g")
	lit, ok := expr.(ast.LiteralExpression)
	if !ok {
		t.Fatalf("expected ast.LiteralExpression, got %#v", expr)
	}
	if _, ok := lit.Value.(ast.RegexLiteral); !ok {
		t.Fatalf("expected ast.RegexLiteral, got %#v", lit.Value)
	}
}

func TestDivisionIsNotMistakenForRegex(t *testing.T) {
	expr := parseExpr(t, "a / b / c")
	bin, ok := expr.(ast.BinaryExpression)
	if !ok || bin.Operator != "/" {
		t.Fatalf("expected a chain of / operators, got %#v", expr)
	}
}

func TestTaggedTemplate(t *testing.T) {
	expr := parseExpr(t, "tag`a${b}c`")
	tmpl, ok := expr.(ast.TemplateExpression)
	if !ok {
		t.Fatalf("expected ast.TemplateExpression, got %#v", expr)
	}
	if tmpl.Tag == nil {
		t.Error("expected a tag expression on a tagged template")
	}
}

func TestClassExpressionWithExtendsCallExpression(t *testing.T) {
	// `extends mixin(Base)` requires the extends clause to parse at
	// bpCall, not bpPrimary, since its operand may itself be a call.
	expr := parseExpr(t, "(class extends mixin(Base) {})")
	cls, ok := expr.(ast.ClassExpression)
	if !ok {
		t.Fatalf("expected ast.ClassExpression, got %#v", expr)
	}
	if _, ok := cls.Cl.SuperClass.(ast.CallExpression); !ok {
		t.Fatalf("expected a call expression superclass, got %#v", cls.Cl.SuperClass)
	}
}

func TestAsyncFunctionExpression(t *testing.T) {
	expr := parseExpr(t, "(async function foo() {})")
	fn, ok := expr.(ast.FunctionExpression)
	if !ok {
		t.Fatalf("expected ast.FunctionExpression, got %#v", expr)
	}
	if !fn.Fn.Async {
		t.Error("expected Async to be true")
	}
}
