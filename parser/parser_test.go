package parser

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestLexer(t *testing.T) {
	l := NewLexer()
	err := l.Lex([]byte("a + b * 2 >= charlength('xx')"))
	assert.Nil(t, err)
	tps := make([]TokenType, 0, len(l.Tokens))
	for _, token := range l.Tokens {
		tps = append(tps, token.Tp)
	}
	assert.Equal(t, []TokenType{WORD, PLUS, WORD, MUL, INTVALUE, GREATEQUAL,
		WORD, LEFTBRACKET, STRINGVALUE, RIGHTBRACKET}, tps)
}

func TestLexerErrors(t *testing.T) {
	l := NewLexer()
	assert.NotNil(t, l.Lex([]byte("a ! b")))
	assert.NotNil(t, l.Lex([]byte("'unterminated")))
	assert.NotNil(t, l.Lex([]byte("`1bad`")))
}

func parseOne(t *testing.T, input string) *ExpressionStm {
	p := NewParser()
	expr, err := p.ParseExpression([]byte(input))
	assert.Nil(t, err)
	assert.NotNil(t, expr)
	return expr
}

func TestParseSimple(t *testing.T) {
	expr := parseOne(t, "a + b")
	assert.Equal(t, OperationAdd, expr.Op)
	left := expr.LeftExpr.(*ExpressionTerm)
	assert.Equal(t, IdentifierExpressionTermTP, left.Tp)
	assert.Equal(t, IdentifierExpression("a"), left.RealExprTerm)
}

func TestParsePriority(t *testing.T) {
	// a + b * 2 parses as a + (b * 2).
	expr := parseOne(t, "a + b * 2")
	assert.Equal(t, OperationAdd, expr.Op)
	right := expr.RightExpr.(*ExpressionStm)
	assert.Equal(t, OperationMul, right.Op)

	// a * b + 2 parses as (a * b) + 2.
	expr = parseOne(t, "a * b + 2")
	assert.Equal(t, OperationAdd, expr.Op)
	left := expr.LeftExpr.(*ExpressionStm)
	assert.Equal(t, OperationMul, left.Op)

	// a - b - c binds left: (a - b) - c.
	expr = parseOne(t, "a - b - c")
	assert.Equal(t, OperationMinus, expr.Op)
	left = expr.LeftExpr.(*ExpressionStm)
	assert.Equal(t, OperationMinus, left.Op)

	// a = 1 and b = 2 or c = 3 parses as ((a=1) and (b=2)) or (c=3).
	expr = parseOne(t, "a = 1 and b = 2 or c = 3")
	assert.Equal(t, OperationOr, expr.Op)
	left = expr.LeftExpr.(*ExpressionStm)
	assert.Equal(t, OperationAnd, left.Op)
}

func TestParseBrackets(t *testing.T) {
	// (a + b) * 2 keeps the bracketed add below the mul.
	expr := parseOne(t, "(a + b) * 2")
	assert.Equal(t, OperationMul, expr.Op)
	left := expr.LeftExpr.(*ExpressionTerm)
	assert.Equal(t, SubExpressionTermTP, left.Tp)
	sub := left.RealExprTerm.(*ExpressionStm)
	assert.Equal(t, OperationAdd, sub.Op)
}

func TestParseFunctionCall(t *testing.T) {
	expr := parseOne(t, "pow(a, 2)")
	term := expr.LeftExpr.(*ExpressionTerm)
	assert.Equal(t, FuncCallExpressionTermTP, term.Tp)
	call := term.RealExprTerm.(FunctionCallExpressionStm)
	assert.Equal(t, "pow", call.FuncName)
	assert.Len(t, call.Params, 2)
}

func TestParseUnary(t *testing.T) {
	expr := parseOne(t, "-a + 1")
	assert.Equal(t, OperationAdd, expr.Op)
	left := expr.LeftExpr.(*ExpressionTerm)
	assert.Equal(t, NegativeUnaryOpTp, left.UnaryOp)
}

func TestParseLiterals(t *testing.T) {
	expr := parseOne(t, "'hello'")
	term := expr.LeftExpr.(*ExpressionTerm)
	assert.Equal(t, LiteralExpressionTermTP, term.Tp)
	assert.Equal(t, LiteralExpressionStm("'hello'"), term.RealExprTerm)

	expr = parseOne(t, "true")
	term = expr.LeftExpr.(*ExpressionTerm)
	assert.Equal(t, LiteralExpressionStm("true"), term.RealExprTerm)
}

func TestParseExprList(t *testing.T) {
	p := NewParser()
	exprs, err := p.Parse([]byte("a + b, abs(a), 5;"))
	assert.Nil(t, err)
	assert.Len(t, exprs, 3)
}

func TestParseErrors(t *testing.T) {
	p := NewParser()
	_, err := p.Parse([]byte("a +"))
	assert.NotNil(t, err)
	_, err = p.Parse([]byte("(a + b"))
	assert.NotNil(t, err)
	_, err = p.Parse([]byte("pow(a,"))
	assert.NotNil(t, err)
	_, err = p.Parse([]byte("a b"))
	assert.NotNil(t, err)
}
