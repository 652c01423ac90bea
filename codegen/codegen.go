// Package codegen routes a batch of typed expressions to one execution
// backend. Classify inspects every expression node and picks a single backend
// tag for the whole batch, CreateCodeGenerator constructs the matching
// generator. All generators share the CodeGenerator surface so callers never
// branch on the backend themselves.
package codegen

import (
	"github.com/kelvin-qin/OAP/expr"
	"github.com/kelvin-qin/OAP/storage"
)

type BackendTag int

const (
	Unclassified BackendTag = iota
	// NativeVectorized evaluates column at a time on the built-in kernels.
	NativeVectorized
	// JitCompiled compiles each expression to a flat instruction list executed
	// row by row.
	JitCompiled
	// Extended interprets row by row and can call registry functions.
	Extended
)

func (tag BackendTag) String() string {
	switch tag {
	case NativeVectorized:
		return "native_vectorized"
	case JitCompiled:
		return "jit_compiled"
	case Extended:
		return "extended"
	default:
		return "unclassified"
	}
}

// CodeGenerator evaluates a fixed expression list against record batches.
// One output column per expression, named by ReturnFields.
type CodeGenerator interface {
	Name() string
	ReturnFields() []storage.Field
	Evaluate(input *storage.RecordBatch) (*storage.RecordBatch, error)
}

// ReturnFieldsOf derives the output field of each expression.
func ReturnFieldsOf(exprs []expr.Expr) []storage.Field {
	fields := make([]storage.Field, len(exprs))
	for i, e := range exprs {
		fields[i] = e.ResultField()
	}
	return fields
}
