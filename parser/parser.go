package parser

// For expressions, we use a simplified language. An expression statement is
// like:
// term (ope term)*
// a term can be:
// literal | (expr) | identifier | functionCall | - term
// where functionCall is like:
// funcName(expr,...)
// where ope supports:
// +, -, *, /, %, =, !=, >, >=, <, <=, AND, OR

import (
	"fmt"
)

type Parser struct {
	pos int
	l   *Lexer
}

func NewParser() *Parser {
	return &Parser{l: NewLexer()}
}

type ParseError string

func (e ParseError) Error() string {
	return string(e)
}

func (parser *Parser) MakeSyntaxError(pos int) error {
	if pos >= 0 && pos < len(parser.l.Tokens) {
		token := parser.l.Tokens[pos]
		return ParseError(fmt.Sprintf("syntax error near '%s'", string(parser.l.Data[token.StartPos:])))
	}
	return ParseError("syntax error: unexpected expression end")
}

func (parser *Parser) Set(data []byte) error {
	parser.pos = -1
	return parser.l.Lex(data)
}

func (parser *Parser) NextToken() (Token, bool) {
	parser.pos++
	if parser.pos >= len(parser.l.Tokens) {
		return Token{}, false
	}
	return parser.l.Tokens[parser.pos], true
}

func (parser *Parser) UnReadToken() {
	parser.pos--
}

func (parser *Parser) matchTokenTypes(ifNotRollback bool, tps ...TokenType) bool {
	for i, tp := range tps {
		token, ok := parser.NextToken()
		if !ok || token.Tp != tp {
			parser.pos -= i + 1
			if !ifNotRollback {
				// Keep position for the error message.
				parser.pos += i + 1
			}
			return false
		}
	}
	return true
}

// Parse parses a comma separated expression list, with an optional trailing
// semicolon.
func (parser *Parser) Parse(data []byte) ([]*ExpressionStm, error) {
	err := parser.Set(data)
	if err != nil {
		return nil, err
	}
	var exprs []*ExpressionStm
	for {
		expr, err := parser.resolveExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if !parser.matchTokenTypes(true, COMMA) {
			break
		}
	}
	parser.matchTokenTypes(true, SEMICOLON)
	if _, ok := parser.NextToken(); ok {
		return nil, parser.MakeSyntaxError(parser.pos)
	}
	return exprs, nil
}

// ParseExpression parses a single expression.
func (parser *Parser) ParseExpression(data []byte) (*ExpressionStm, error) {
	exprs, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	if len(exprs) != 1 {
		return nil, ParseError("expect a single expression")
	}
	return exprs[0], nil
}

func (parser *Parser) resolveExpression() (*ExpressionStm, error) {
	exprTerm, err := parser.parseExpressionTerm()
	if err != nil {
		return nil, err
	}
	terms := []interface{}{exprTerm}
	var ops []*ExpressionOp
	for {
		token, ok := parser.NextToken()
		if !ok || !isTokenAOpe(token) {
			parser.UnReadToken()
			break
		}
		rightExprTerm, err := parser.parseExpressionTerm()
		if err != nil {
			return nil, err
		}
		ops = append(ops, lexerOpToExpressionOp(token.Tp))
		terms = append(terms, rightExprTerm)
	}
	return buildExpressionsTree(ops, terms), nil
}

func lexerOpToExpressionOp(op TokenType) *ExpressionOp {
	switch op {
	case PLUS:
		return OperationAdd
	case MINUS:
		return OperationMinus
	case MUL:
		return OperationMul
	case DIVIDE:
		return OperationDivide
	case MOD:
		return OperationMod
	case EQUAL:
		return OperationEqual
	case NOTEQUAL:
		return OperationNotEqual
	case GREAT:
		return OperationGreat
	case GREATEQUAL:
		return OperationGreatEqual
	case LESS:
		return OperationLess
	case LESSEQUAL:
		return OperationLessEqual
	case AND:
		return OperationAnd
	case OR:
		return OperationOr
	default:
		panic("unknown op type")
	}
}

func isTokenAOpe(token Token) bool {
	switch token.Tp {
	case PLUS, MINUS, MUL, DIVIDE, MOD, EQUAL, NOTEQUAL, GREAT, GREATEQUAL,
		LESS, LESSEQUAL, AND, OR:
		return true
	default:
		return false
	}
}

// buildExpressionsTree builds the operator tree by priority climbing over the
// flat term and op list. Operators of equal priority bind left.
func buildExpressionsTree(ops []*ExpressionOp, terms []interface{}) *ExpressionStm {
	if len(ops) == 0 {
		return &ExpressionStm{LeftExpr: terms[0]}
	}
	node, _ := buildExpressionsTree0(ops, terms, 0, 0)
	ret, ok := node.(*ExpressionStm)
	if !ok {
		return &ExpressionStm{LeftExpr: node}
	}
	return ret
}

func buildExpressionsTree0(ops []*ExpressionOp, terms []interface{}, pos int, minPriority int) (interface{}, int) {
	lhs := terms[pos]
	for pos < len(ops) && ops[pos].Priority >= minPriority {
		op := ops[pos]
		rhs, next := buildExpressionsTree0(ops, terms, pos+1, op.Priority+1)
		lhs = &ExpressionStm{LeftExpr: lhs, Op: op, RightExpr: rhs}
		pos = next
	}
	return lhs, pos
}

func (parser *Parser) parseExpressionTerm() (*ExpressionTerm, error) {
	token, ok := parser.NextToken()
	if !ok {
		return nil, parser.MakeSyntaxError(parser.pos - 1)
	}
	switch token.Tp {
	case IDENT:
		// Must be identifier
		parser.UnReadToken()
		return parser.parseIdentifierExpressionTerm()
	case WORD:
		// Must be function call or identifier
		return parser.parseFunctionCallOrIdentifierTerm()
	case INTVALUE, FLOATVALUE, STRINGVALUE, TRUE, FALSE:
		// Must be literal
		parser.UnReadToken()
		return parser.parseLiteralExpressionTerm()
	case MINUS:
		parser.UnReadToken()
		return parser.parseUnaryExpressionTerm()
	case LEFTBRACKET:
		return parser.parseSubExpressionTerm()
	default:
		return nil, parser.MakeSyntaxError(parser.pos)
	}
}

func (parser *Parser) parseUnaryExpressionTerm() (*ExpressionTerm, error) {
	if !parser.matchTokenTypes(false, MINUS) {
		return nil, parser.MakeSyntaxError(parser.pos - 1)
	}
	expr, err := parser.parseExpressionTerm()
	if err != nil {
		return nil, err
	}
	expr.UnaryOp = NegativeUnaryOpTp
	return expr, nil
}

func (parser *Parser) parseFunctionCallOrIdentifierTerm() (*ExpressionTerm, error) {
	if parser.matchTokenTypes(true, LEFTBRACKET) {
		// Must be functionCall. Back to functionName position.
		parser.UnReadToken()
		parser.UnReadToken()
		return parser.parseFunctionCallExpression()
	}
	parser.UnReadToken()
	return parser.parseIdentifierExpressionTerm()
}

func (parser *Parser) parseSubExpressionTerm() (*ExpressionTerm, error) {
	exprTerm, err := parser.resolveExpression()
	if err != nil {
		return nil, err
	}
	if !parser.matchTokenTypes(false, RIGHTBRACKET) {
		return nil, parser.MakeSyntaxError(parser.pos - 1)
	}
	return &ExpressionTerm{
		UnaryOp:      NoneUnaryOpTp,
		Tp:           SubExpressionTermTP,
		RealExprTerm: exprTerm,
	}, nil
}

func (parser *Parser) parseLiteralExpressionTerm() (*ExpressionTerm, error) {
	token, ok := parser.NextToken()
	if !ok {
		return nil, parser.MakeSyntaxError(parser.pos - 1)
	}
	var data []byte
	switch token.Tp {
	case INTVALUE, FLOATVALUE:
		data = parser.l.Value(token)
	case TRUE:
		data = []byte("true")
	case FALSE:
		data = []byte("false")
	case STRINGVALUE:
		// Keep the quotes so type inference sees a string.
		data = parser.l.Data[token.StartPos-1 : token.EndPos+1]
	default:
		return nil, parser.MakeSyntaxError(parser.pos)
	}
	return &ExpressionTerm{
		UnaryOp:      NoneUnaryOpTp,
		Tp:           LiteralExpressionTermTP,
		RealExprTerm: LiteralExpressionStm(data),
	}, nil
}

func (parser *Parser) parseIdentOrWord() (string, bool) {
	token, ok := parser.NextToken()
	if !ok || (token.Tp != IDENT && token.Tp != WORD) {
		parser.UnReadToken()
		return "", false
	}
	return string(parser.l.Value(token)), true
}

func (parser *Parser) parseIdentifierExpressionTerm() (*ExpressionTerm, error) {
	name, ok := parser.parseIdentOrWord()
	if !ok {
		return nil, parser.MakeSyntaxError(parser.pos)
	}
	return &ExpressionTerm{
		UnaryOp:      NoneUnaryOpTp,
		Tp:           IdentifierExpressionTermTP,
		RealExprTerm: IdentifierExpression(name),
	}, nil
}

func (parser *Parser) parseFunctionCallExpression() (*ExpressionTerm, error) {
	funcName, ok := parser.parseIdentOrWord()
	if !ok {
		return nil, parser.MakeSyntaxError(parser.pos)
	}
	if !parser.matchTokenTypes(false, LEFTBRACKET) {
		return nil, parser.MakeSyntaxError(parser.pos - 1)
	}
	var params []*ExpressionStm
	for {
		paramExpression, err := parser.resolveExpression()
		if err != nil {
			return nil, err
		}
		params = append(params, paramExpression)
		if !parser.matchTokenTypes(true, COMMA) {
			break
		}
	}
	if !parser.matchTokenTypes(false, RIGHTBRACKET) {
		return nil, parser.MakeSyntaxError(parser.pos - 1)
	}
	return &ExpressionTerm{
		UnaryOp: NoneUnaryOpTp,
		Tp:      FuncCallExpressionTermTP,
		RealExprTerm: FunctionCallExpressionStm{
			FuncName: funcName,
			Params:   params,
		},
	}, nil
}
