package codegen

import (
	"github.com/kelvin-qin/OAP/expr"
)

const unrecognizedExprMsg = "Unrecognized expression type."

// Classify picks one backend able to run every expression in exprs. The whole
// batch gets a single tag, expressions are never split across backends.
//
// Column references, literals and operators run on any backend. A built-in
// function with a columnar kernel keeps the batch on the vectorized backend,
// a built-in without one needs the compiled backend, and a registry function
// needs the extended backend. The weakest requirement wins, so the order of
// preference is vectorized, then compiled, then extended. A function name no
// registry recognizes fails classification with a type error.
func Classify(exprs []expr.Expr) (BackendTag, error) {
	tag := NativeVectorized
	unresolved := false
	for _, e := range exprs {
		expr.Walk(e, func(node expr.Expr) {
			call, ok := node.(*expr.FuncCallExpr)
			if !ok {
				return
			}
			switch {
			case !call.IsResolved():
				unresolved = true
			case call.IsExtended():
				tag = Extended
			case !call.IsVectorized() && tag < JitCompiled:
				tag = JitCompiled
			}
		})
	}
	if unresolved {
		return Unclassified, TypeErrorf(unrecognizedExprMsg)
	}
	return tag, nil
}
