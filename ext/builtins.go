package ext

import (
	"errors"
	"fmt"
	"math"

	"github.com/kelvin-qin/OAP/storage"
)

// The built-in extended implementations. A manifest can register them under
// other names, see manifest.go.

func toFloat(value []byte, tp storage.FieldTP) (float64, error) {
	switch tp {
	case storage.Int:
		return float64(storage.DecodeInt(value)), nil
	case storage.Float:
		return storage.DecodeFloat(value), nil
	default:
		return 0, errors.New(fmt.Sprintf("expect a numerical param but got %s", tp))
	}
}

func pow(params [][]byte, tps []storage.FieldTP) ([]byte, error) {
	base, err := toFloat(params[0], tps[0])
	if err != nil {
		return nil, err
	}
	exp, err := toFloat(params[1], tps[1])
	if err != nil {
		return nil, err
	}
	return storage.EncodeFloat(math.Pow(base, exp)), nil
}

func sqrt(params [][]byte, tps []storage.FieldTP) ([]byte, error) {
	v, err := toFloat(params[0], tps[0])
	if err != nil {
		return nil, err
	}
	if v < 0 {
		return nil, errors.New("sqrt on a negative value")
	}
	return storage.EncodeFloat(math.Sqrt(v)), nil
}

func reverse(params [][]byte, tps []storage.FieldTP) ([]byte, error) {
	if tps[0] != storage.Text {
		return nil, errors.New(fmt.Sprintf("expect a text param but got %s", tps[0]))
	}
	value := params[0]
	ret := make([]byte, len(value))
	for i, b := range value {
		ret[len(value)-1-i] = b
	}
	return ret, nil
}

func concat(params [][]byte, tps []storage.FieldTP) ([]byte, error) {
	ret := make([]byte, 0, len(params[0])+len(params[1]))
	ret = append(ret, []byte(storage.DecodeToString(params[0], tps[0]))...)
	ret = append(ret, []byte(storage.DecodeToString(params[1], tps[1]))...)
	return ret, nil
}

var builtinImpls = map[string]*Func{
	"pow":     {Name: "pow", NumParams: 2, ReturnTP: storage.Float, Fn: pow},
	"sqrt":    {Name: "sqrt", NumParams: 1, ReturnTP: storage.Float, Fn: sqrt},
	"reverse": {Name: "reverse", NumParams: 1, ReturnTP: storage.Text, Fn: reverse},
	"concat":  {Name: "concat", NumParams: 2, ReturnTP: storage.Text, Fn: concat},
}

func init() {
	for _, f := range builtinImpls {
		defaultRegistry.Register(f)
	}
}
