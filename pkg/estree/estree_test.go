package estree

import (
	"encoding/json"
	"testing"

	"github.com/estreegen/jsparse/pkg/parser"
)

func generate(t *testing.T, src string) map[string]any {
	t.Helper()
	data, err := GenerateAST(src, nil)
	if err != nil {
		t.Fatalf("GenerateAST(%q) failed: %v", src, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, data)
	}
	return doc
}

func body(t *testing.T, doc map[string]any) []any {
	t.Helper()
	b, ok := doc["body"].([]any)
	if !ok {
		t.Fatalf("expected a body array, got %#v", doc["body"])
	}
	return b
}

func TestProgramShape(t *testing.T) {
	doc := generate(t, "let x = 1;")
	if doc["type"] != "Program" {
		t.Errorf("expected type Program, got %v", doc["type"])
	}
	if doc["sourceType"] != "script" {
		t.Errorf("expected sourceType script, got %v", doc["sourceType"])
	}
	if len(body(t, doc)) != 1 {
		t.Errorf("expected 1 top-level statement, got %d", len(body(t, doc)))
	}
}

func TestFunctionDeclarationFields(t *testing.T) {
	doc := generate(t, "function foo(a, value = true) {}")
	fn := body(t, doc)[0].(map[string]any)
	if fn["type"] != "FunctionDeclaration" {
		t.Fatalf("expected FunctionDeclaration, got %v", fn["type"])
	}
	id := fn["id"].(map[string]any)
	if id["type"] != "Identifier" || id["name"] != "foo" {
		t.Errorf("expected id Identifier(foo), got %#v", id)
	}
	params := fn["params"].([]any)
	if len(params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(params))
	}
	second := params[1].(map[string]any)
	if second["type"] != "AssignmentPattern" {
		t.Errorf("expected the second param to be an AssignmentPattern, got %v", second["type"])
	}
}

func TestVariableDeclarationKindAndDeclarators(t *testing.T) {
	doc := generate(t, "const a = 1, b = 2;")
	decl := body(t, doc)[0].(map[string]any)
	if decl["kind"] != "const" {
		t.Errorf("expected kind const, got %v", decl["kind"])
	}
	declarations := decl["declarations"].([]any)
	if len(declarations) != 2 {
		t.Fatalf("expected 2 declarators, got %d", len(declarations))
	}
}

func TestObjectPatternVsObjectExpression(t *testing.T) {
	doc := generate(t, "const { a } = obj; const o = { a: 1 };")
	destructured := body(t, doc)[0].(map[string]any)
	id := destructured["declarations"].([]any)[0].(map[string]any)["id"].(map[string]any)
	if id["type"] != "ObjectPattern" {
		t.Errorf("expected destructuring target to serialize as ObjectPattern, got %v", id["type"])
	}

	literal := body(t, doc)[1].(map[string]any)
	init := literal["declarations"].([]any)[0].(map[string]any)["init"].(map[string]any)
	if init["type"] != "ObjectExpression" {
		t.Errorf("expected value position to serialize as ObjectExpression, got %v", init["type"])
	}
}

func TestLogicalVsBinaryExpression(t *testing.T) {
	doc := generate(t, "a + b; a && b;")
	plus := body(t, doc)[0].(map[string]any)["expression"].(map[string]any)
	if plus["type"] != "BinaryExpression" {
		t.Errorf("expected BinaryExpression, got %v", plus["type"])
	}
	and := body(t, doc)[1].(map[string]any)["expression"].(map[string]any)
	if and["type"] != "LogicalExpression" {
		t.Errorf("expected LogicalExpression, got %v", and["type"])
	}
}

func TestUpdateVsUnaryExpression(t *testing.T) {
	doc := generate(t, "a++; !a;")
	inc := body(t, doc)[0].(map[string]any)["expression"].(map[string]any)
	if inc["type"] != "UpdateExpression" {
		t.Errorf("expected UpdateExpression, got %v", inc["type"])
	}
	not := body(t, doc)[1].(map[string]any)["expression"].(map[string]any)
	if not["type"] != "UnaryExpression" {
		t.Errorf("expected UnaryExpression, got %v", not["type"])
	}
}

func TestRegexLiteralSerialization(t *testing.T) {
	doc := generate(t, "/abc/g;")
	lit := body(t, doc)[0].(map[string]any)["expression"].(map[string]any)
	if lit["type"] != "Literal" {
		t.Fatalf("expected Literal, got %v", lit["type"])
	}
	regex := lit["regex"].(map[string]any)
	if regex["pattern"] != "abc" || regex["flags"] != "g" {
		t.Errorf("expected pattern=abc flags=g, got %#v", regex)
	}
}

func TestNumericLiteralValueIsBestEffort(t *testing.T) {
	doc := generate(t, "0x1F; 1.5;")
	hex := body(t, doc)[0].(map[string]any)["expression"].(map[string]any)
	if hex["value"] != float64(31) {
		t.Errorf("expected 0x1F to evaluate to 31, got %v", hex["value"])
	}
	dec := body(t, doc)[1].(map[string]any)["expression"].(map[string]any)
	if dec["value"] != 1.5 {
		t.Errorf("expected 1.5, got %v", dec["value"])
	}
}

func TestTryStatementHandlerShape(t *testing.T) {
	doc := generate(t, "try {} catch (e) {}")
	tryStmt := body(t, doc)[0].(map[string]any)
	handler := tryStmt["handler"].(map[string]any)
	if handler["type"] != "CatchClause" {
		t.Fatalf("expected CatchClause, got %v", handler["type"])
	}
	param := handler["param"].(map[string]any)
	if param["name"] != "e" {
		t.Errorf("expected catch param e, got %v", param["name"])
	}
	if tryStmt["finalizer"] != nil {
		t.Error("expected a nil finalizer, finally is not supported")
	}
}

func TestLocOptionAddsLineColumn(t *testing.T) {
	data, err := GenerateAST("let x = 1;\nlet y = 2;", &parser.Options{Loc: true})
	if err != nil {
		t.Fatalf("GenerateAST failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	second := body(t, doc)[1].(map[string]any)
	loc := second["loc"].(map[string]any)
	start := loc["start"].(map[string]any)
	if int(start["line"].(float64)) != 2 {
		t.Errorf("expected the second statement to start on line 2, got %v", start["line"])
	}
}

func TestRangeOptionAddsStartEndPair(t *testing.T) {
	data, err := GenerateAST("a;", &parser.Options{Range: true})
	if err != nil {
		t.Fatalf("GenerateAST failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	stmt := body(t, doc)[0].(map[string]any)
	if _, ok := stmt["range"]; !ok {
		t.Error("expected a range field when Options.Range is set")
	}
}

func TestGenerateASTReturnsErrorOnSyntaxError(t *testing.T) {
	_, err := GenerateAST("function() {}", nil)
	if err == nil {
		t.Fatal("expected an error for invalid syntax")
	}
}
