package codegen

import (
	"github.com/kelvin-qin/OAP/expr"
	"github.com/kelvin-qin/OAP/storage"
)

// extendedCodeGen interprets expressions row by row. It is the only backend
// able to call registry functions, whose bodies may fail per row, so every
// node evaluation propagates errors.
type extendedCodeGen struct {
	schema    *storage.Schema
	exprs     []expr.Expr
	retFields []storage.Field
}

func NewExtendedCodeGen(schema *storage.Schema, exprs []expr.Expr, retFields []storage.Field) CodeGenerator {
	return &extendedCodeGen{schema: schema, exprs: exprs, retFields: retFields}
}

func (gen *extendedCodeGen) Name() string {
	return Extended.String()
}

func (gen *extendedCodeGen) ReturnFields() []storage.Field {
	return gen.retFields
}

func (gen *extendedCodeGen) evalRow(e expr.Expr, row int, input *storage.RecordBatch) ([]byte, error) {
	switch node := e.(type) {
	case *expr.FuncCallExpr:
		params := make([][]byte, len(node.Params))
		for i, param := range node.Params {
			value, err := gen.evalRow(param, row, input)
			if err != nil {
				return nil, err
			}
			params[i] = value
		}
		return node.ApplyRow(params)
	case expr.BinaryExpr:
		val1, err := gen.evalRow(node.Left, row, input)
		if err != nil {
			return nil, err
		}
		val2, err := gen.evalRow(node.Right, row, input)
		if err != nil {
			return nil, err
		}
		fn := storage.GetOpFunc(node.Op)
		return fn(val1, node.Left.ResultField().TP, val2, node.Right.ResultField().TP), nil
	case expr.NegativeExpr:
		value, err := gen.evalRow(node.Expr, row, input)
		if err != nil {
			return nil, err
		}
		return storage.Negative(node.Expr.ResultField().TP, value), nil
	default:
		return e.EvaluateRow(row, input), nil
	}
}

func (gen *extendedCodeGen) Evaluate(input *storage.RecordBatch) (*storage.RecordBatch, error) {
	ret := storage.MakeEmptyRecordBatch(gen.retFields)
	for row := 0; row < input.RowCount(); row++ {
		for i, e := range gen.exprs {
			value, err := gen.evalRow(e, row, input)
			if err != nil {
				return nil, ExecErrorf("cannot evaluate expression '%s'", e).wrap(err)
			}
			ret.Records[i].Append(value)
		}
	}
	return ret, nil
}
