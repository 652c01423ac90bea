package codegen

import (
	"github.com/kelvin-qin/OAP/expr"
	"github.com/kelvin-qin/OAP/storage"
)

// CreateCodeGenerator classifies exprs and constructs the generator for the
// selected backend. Construction either returns a fully usable generator or a
// nil generator with an error, never a half built one. Repeated calls with
// the same inputs build independent generators.
func CreateCodeGenerator(schema *storage.Schema, exprs []expr.Expr, retFields []storage.Field) (CodeGenerator, error) {
	if len(retFields) != len(exprs) {
		return nil, TypeErrorf("expect %d return fields but got %d", len(exprs), len(retFields))
	}
	tag, err := Classify(exprs)
	if err != nil {
		return nil, err
	}
	switch tag {
	case NativeVectorized:
		return NewNativeVectorizedCodeGen(schema, exprs, retFields), nil
	case JitCompiled:
		return NewJitCompiledCodeGen(schema, exprs, retFields)
	case Extended:
		return NewExtendedCodeGen(schema, exprs, retFields), nil
	default:
		return nil, TypeErrorf(unrecognizedExprMsg)
	}
}
