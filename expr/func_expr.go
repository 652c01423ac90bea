package expr

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/kelvin-qin/OAP/ext"
	"github.com/kelvin-qin/OAP/storage"
)

// The built-in scalar functions. A vectorized function is backed by a
// columnar kernel and can run on the vectorized backend, the others can only
// run compiled. Functions missing here are looked up in the extended
// registry.

type funcBody func(params [][]byte, tps []storage.FieldTP) []byte

type builtinFunc struct {
	name       string
	numParams  int
	vectorized bool
	fn         funcBody
	typeCheck  func(params []Expr) error
	returnTP   func(params []Expr) storage.FieldTP
}

func charLength(params [][]byte, tps []storage.FieldTP) []byte {
	return storage.EncodeInt(int64(len(params[0])))
}

func upper(params [][]byte, tps []storage.FieldTP) []byte {
	return bytes.ToUpper(params[0])
}

func lower(params [][]byte, tps []storage.FieldTP) []byte {
	return bytes.ToLower(params[0])
}

func abs(params [][]byte, tps []storage.FieldTP) []byte {
	switch tps[0] {
	case storage.Int:
		v := storage.DecodeInt(params[0])
		if v < 0 {
			v = -v
		}
		return storage.EncodeInt(v)
	case storage.Float:
		v := storage.DecodeFloat(params[0])
		if v < 0 {
			v = -v
		}
		return storage.EncodeFloat(v)
	default:
		panic("unsupported type on abs")
	}
}

func oneStringParam(name string) func(params []Expr) error {
	return func(params []Expr) error {
		if len(params) != 1 {
			return errors.New(fmt.Sprintf("%s: param size doesn't match", name))
		}
		if !params[0].ResultField().IsString() {
			return errors.New(fmt.Sprintf("%s: param type doesn't match", name))
		}
		return nil
	}
}

func fixedTP(tp storage.FieldTP) func(params []Expr) storage.FieldTP {
	return func(params []Expr) storage.FieldTP { return tp }
}

var builtinFuncs = map[string]*builtinFunc{
	"CHARLENGTH": {
		name:       "CHARLENGTH",
		numParams:  1,
		vectorized: true,
		fn:         charLength,
		typeCheck:  oneStringParam("CHARLENGTH"),
		returnTP:   fixedTP(storage.Int),
	},
	"UPPER": {
		name:       "UPPER",
		numParams:  1,
		vectorized: true,
		fn:         upper,
		typeCheck:  oneStringParam("UPPER"),
		returnTP:   fixedTP(storage.Text),
	},
	"LOWER": {
		name:       "LOWER",
		numParams:  1,
		vectorized: true,
		fn:         lower,
		typeCheck:  oneStringParam("LOWER"),
		returnTP:   fixedTP(storage.Text),
	},
	"ABS": {
		name:      "ABS",
		numParams: 1,
		fn:        abs,
		typeCheck: func(params []Expr) error {
			if len(params) != 1 {
				return errors.New("ABS: param size doesn't match")
			}
			if !params[0].ResultField().IsNumerical() {
				return errors.New("ABS: param type doesn't match")
			}
			return nil
		},
		returnTP: func(params []Expr) storage.FieldTP {
			return params[0].ResultField().TP
		},
	},
}

// FuncCallExpr calls a built-in scalar function or an extended function by
// name. An unresolved name is kept, whether the call is evaluable is decided
// by the code generation layer.
type FuncCallExpr struct {
	Name   string
	Params []Expr
	fn     *builtinFunc
	extFn  *ext.Func
}

func NewFuncCallExpr(name string, params []Expr) *FuncCallExpr {
	ret := &FuncCallExpr{Name: name, Params: params}
	if fn, ok := builtinFuncs[strings.ToUpper(name)]; ok {
		ret.fn = fn
		return ret
	}
	if extFn, ok := ext.Default().Lookup(name); ok {
		ret.extFn = extFn
	}
	return ret
}

// IsBuiltin reports whether the call resolves to a built-in scalar function.
func (call *FuncCallExpr) IsBuiltin() bool { return call.fn != nil }

// IsVectorized reports whether the call is backed by a columnar kernel.
func (call *FuncCallExpr) IsVectorized() bool { return call.fn != nil && call.fn.vectorized }

// IsExtended reports whether the call resolves in the extended registry only.
func (call *FuncCallExpr) IsExtended() bool { return call.fn == nil && call.extFn != nil }

// IsResolved reports whether any registry recognizes the function name.
func (call *FuncCallExpr) IsResolved() bool { return call.fn != nil || call.extFn != nil }

func (call *FuncCallExpr) ExtFunc() *ext.Func { return call.extFn }

// ApplyRow applies the resolved function to already evaluated params.
func (call *FuncCallExpr) ApplyRow(params [][]byte) ([]byte, error) {
	switch {
	case call.fn != nil:
		return call.fn.fn(params, call.paramTPs()), nil
	case call.extFn != nil:
		return call.extFn.Fn(params, call.paramTPs())
	default:
		return nil, errors.New(fmt.Sprintf("unresolved function '%s'", call.Name))
	}
}

func (call *FuncCallExpr) ResultField() storage.Field {
	switch {
	case call.fn != nil:
		return storage.Field{Name: call.String(), TP: call.fn.returnTP(call.Params)}
	case call.extFn != nil:
		return storage.Field{Name: call.String(), TP: call.extFn.ReturnTP}
	default:
		return storage.Field{Name: call.String()}
	}
}

func (call *FuncCallExpr) String() string {
	params := make([]string, len(call.Params))
	for i, param := range call.Params {
		params[i] = param.String()
	}
	return fmt.Sprintf("%s(%s)", call.Name, strings.Join(params, ", "))
}

func (call *FuncCallExpr) TypeCheck() error {
	for _, param := range call.Params {
		err := param.TypeCheck()
		if err != nil {
			return err
		}
	}
	switch {
	case call.fn != nil:
		if len(call.Params) != call.fn.numParams {
			return errors.New(fmt.Sprintf("%s: param size doesn't match", call.fn.name))
		}
		return call.fn.typeCheck(call.Params)
	case call.extFn != nil:
		return call.extFn.TypeCheck(call.paramTPs())
	default:
		// Unresolved names are reported by classification, not here.
		return nil
	}
}

func (call *FuncCallExpr) paramTPs() []storage.FieldTP {
	tps := make([]storage.FieldTP, len(call.Params))
	for i, param := range call.Params {
		tps[i] = param.ResultField().TP
	}
	return tps
}

func (call *FuncCallExpr) evaluateBuiltinRow(row int, input *storage.RecordBatch) []byte {
	params := make([][]byte, len(call.Params))
	for i, param := range call.Params {
		params[i] = param.EvaluateRow(row, input)
	}
	return call.fn.fn(params, call.paramTPs())
}

func (call *FuncCallExpr) Evaluate(input *storage.RecordBatch) *storage.ColumnVector {
	if call.fn == nil {
		// Extended functions evaluate through their own backend.
		return nil
	}
	ret := &storage.ColumnVector{Field: call.ResultField()}
	for row := 0; row < input.RowCount(); row++ {
		ret.Append(call.evaluateBuiltinRow(row, input))
	}
	return ret
}

func (call *FuncCallExpr) EvaluateRow(row int, input *storage.RecordBatch) []byte {
	if call.fn == nil {
		return nil
	}
	return call.evaluateBuiltinRow(row, input)
}

func (call *FuncCallExpr) Children() []Expr {
	return call.Params
}
