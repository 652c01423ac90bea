package expr

import (
	"errors"

	"github.com/kelvin-qin/OAP/parser"
	"github.com/kelvin-qin/OAP/storage"
)

var parserOpToOpType = map[*parser.ExpressionOp]storage.OpType{
	parser.OperationAdd:        storage.AddOpType,
	parser.OperationMinus:      storage.MinusOpType,
	parser.OperationMul:        storage.MulOpType,
	parser.OperationDivide:     storage.DivideOpType,
	parser.OperationMod:        storage.ModOpType,
	parser.OperationEqual:      storage.EqualOpType,
	parser.OperationNotEqual:   storage.NotEqualOpType,
	parser.OperationGreat:      storage.GreatOpType,
	parser.OperationGreatEqual: storage.GreatEqualOpType,
	parser.OperationLess:       storage.LessOpType,
	parser.OperationLessEqual:  storage.LessEqualOpType,
	parser.OperationAnd:        storage.AndOpType,
	parser.OperationOr:         storage.OrOpType,
}

// Build converts a parsed expression to a typed Expr against schema. The
// returned Expr is not type checked yet.
func Build(stm *parser.ExpressionStm, schema *storage.Schema) (Expr, error) {
	if stm.Op == nil {
		return buildNode(stm.LeftExpr, schema)
	}
	left, err := buildNode(stm.LeftExpr, schema)
	if err != nil {
		return nil, err
	}
	right, err := buildNode(stm.RightExpr, schema)
	if err != nil {
		return nil, err
	}
	op, ok := parserOpToOpType[stm.Op]
	if !ok {
		return nil, errors.New("unknown operation " + stm.Op.Name)
	}
	return NewBinaryExpr(left, op, right), nil
}

// BuildExprList converts a parsed expression list.
func BuildExprList(stms []*parser.ExpressionStm, schema *storage.Schema) ([]Expr, error) {
	exprs := make([]Expr, 0, len(stms))
	for _, stm := range stms {
		e, err := Build(stm, schema)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func buildNode(node interface{}, schema *storage.Schema) (Expr, error) {
	switch n := node.(type) {
	case *parser.ExpressionTerm:
		return buildTerm(n, schema)
	case *parser.ExpressionStm:
		return Build(n, schema)
	default:
		return nil, errors.New("unknown expression node")
	}
}

func buildTerm(term *parser.ExpressionTerm, schema *storage.Schema) (Expr, error) {
	var ret Expr
	var err error
	switch term.Tp {
	case parser.LiteralExpressionTermTP:
		ret = LiteralExpr{Data: []byte(term.RealExprTerm.(parser.LiteralExpressionStm))}
	case parser.IdentifierExpressionTermTP:
		ret = ColumnExpr{Name: string(term.RealExprTerm.(parser.IdentifierExpression)), Schema: schema}
	case parser.FuncCallExpressionTermTP:
		call := term.RealExprTerm.(parser.FunctionCallExpressionStm)
		params := make([]Expr, 0, len(call.Params))
		for _, paramStm := range call.Params {
			param, err := Build(paramStm, schema)
			if err != nil {
				return nil, err
			}
			params = append(params, param)
		}
		ret = NewFuncCallExpr(call.FuncName, params)
	case parser.SubExpressionTermTP:
		ret, err = Build(term.RealExprTerm.(*parser.ExpressionStm), schema)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unknown expression term")
	}
	if term.UnaryOp == parser.NegativeUnaryOpTp {
		ret = NegativeExpr{Expr: ret}
	}
	return ret, nil
}
