package codegen

import (
	"github.com/kelvin-qin/OAP/expr"
	"github.com/kelvin-qin/OAP/storage"
)

// nativeVectorizedCodeGen evaluates every expression column at a time on the
// storage kernels.
type nativeVectorizedCodeGen struct {
	schema    *storage.Schema
	exprs     []expr.Expr
	retFields []storage.Field
}

func NewNativeVectorizedCodeGen(schema *storage.Schema, exprs []expr.Expr, retFields []storage.Field) CodeGenerator {
	return &nativeVectorizedCodeGen{schema: schema, exprs: exprs, retFields: retFields}
}

func (gen *nativeVectorizedCodeGen) Name() string {
	return NativeVectorized.String()
}

func (gen *nativeVectorizedCodeGen) ReturnFields() []storage.Field {
	return gen.retFields
}

func (gen *nativeVectorizedCodeGen) Evaluate(input *storage.RecordBatch) (*storage.RecordBatch, error) {
	records := make([]*storage.ColumnVector, len(gen.exprs))
	for i, e := range gen.exprs {
		col := e.Evaluate(input)
		if col == nil {
			return nil, ExecErrorf("cannot evaluate expression '%s'", e)
		}
		records[i] = &storage.ColumnVector{Field: gen.retFields[i], Values: col.Values}
	}
	return &storage.RecordBatch{Fields: gen.retFields, Records: records}, nil
}
