package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cell values are byte encoded: 8 bytes bigEndian for int, 8 bytes of the
// float64 bits for float, a single byte for bool, and raw bytes for strings.

func EncodeInt(val int64) []byte {
	ret := make([]byte, 8)
	binary.BigEndian.PutUint64(ret, uint64(val))
	return ret
}

func EncodeFloat(val float64) []byte {
	ret := make([]byte, 8)
	binary.BigEndian.PutUint64(ret, math.Float64bits(val))
	return ret
}

func EncodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func DecodeInt(value []byte) int64 {
	return int64(binary.BigEndian.Uint64(value))
}

func DecodeFloat(value []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(value))
}

func DecodeBool(value []byte) bool {
	return value[0] == 1
}

// Encode encodes a raw literal by its inferred type. Quoted strings lose
// their quotes.
func Encode(value []byte) []byte {
	switch InferenceType(value) {
	case Int:
		val, _ := strconv.ParseInt(string(value), 10, 64)
		return EncodeInt(val)
	case Float:
		val, _ := strconv.ParseFloat(string(value), 64)
		return EncodeFloat(val)
	case Bool:
		return EncodeBool(strings.ToUpper(string(value)) == "TRUE")
	default:
		if len(value) >= 2 && (value[0] == '\'' || value[0] == '"') {
			return value[1 : len(value)-1]
		}
		return value
	}
}

func DecodeToString(value []byte, tp FieldTP) string {
	switch tp {
	case Int:
		return fmt.Sprintf("%d", DecodeInt(value))
	case Float:
		return fmt.Sprintf("%f", DecodeFloat(value))
	case Bool:
		if DecodeBool(value) {
			return "true"
		}
		return "false"
	default:
		return string(value)
	}
}

func toFloat(value []byte, tp FieldTP) float64 {
	switch tp {
	case Int:
		return float64(DecodeInt(value))
	case Float:
		return DecodeFloat(value)
	default:
		panic("not a numerical type")
	}
}

func Add(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) []byte {
	if tp1 == Int && tp2 == Int {
		return EncodeInt(DecodeInt(val1) + DecodeInt(val2))
	}
	return EncodeFloat(toFloat(val1, tp1) + toFloat(val2, tp2))
}

func Minus(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) []byte {
	if tp1 == Int && tp2 == Int {
		return EncodeInt(DecodeInt(val1) - DecodeInt(val2))
	}
	return EncodeFloat(toFloat(val1, tp1) - toFloat(val2, tp2))
}

func Mul(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) []byte {
	if tp1 == Int && tp2 == Int {
		return EncodeInt(DecodeInt(val1) * DecodeInt(val2))
	}
	return EncodeFloat(toFloat(val1, tp1) * toFloat(val2, tp2))
}

func Divide(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) []byte {
	if tp1 == Int && tp2 == Int {
		return EncodeInt(DecodeInt(val1) / DecodeInt(val2))
	}
	return EncodeFloat(toFloat(val1, tp1) / toFloat(val2, tp2))
}

func Mod(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) []byte {
	if tp1 != Int || tp2 != Int {
		panic("% cannot be applied to non-integer type")
	}
	return EncodeInt(DecodeInt(val1) % DecodeInt(val2))
}

func Negative(tp FieldTP, value []byte) []byte {
	switch tp {
	case Int:
		return EncodeInt(-DecodeInt(value))
	case Float:
		return EncodeFloat(-DecodeFloat(value))
	default:
		panic("unsupported type on Negative")
	}
}

// Compare returns 0 if val1 == val2, <0 if val1 < val2 and >0 otherwise.
func Compare(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) int {
	switch tp1 {
	case Text, DateTime, Bool:
		return bytes.Compare(val1, val2)
	case Int, Float:
		v1, v2 := toFloat(val1, tp1), toFloat(val2, tp2)
		switch {
		case v1 < v2:
			return -1
		case v1 > v2:
			return 1
		default:
			return 0
		}
	default:
		panic("unknown type")
	}
}

func Equal(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) []byte {
	return EncodeBool(Compare(val1, tp1, val2, tp2) == 0)
}

func NotEqual(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) []byte {
	return EncodeBool(Compare(val1, tp1, val2, tp2) != 0)
}

func Great(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) []byte {
	return EncodeBool(Compare(val1, tp1, val2, tp2) > 0)
}

func GreatEqual(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) []byte {
	return EncodeBool(Compare(val1, tp1, val2, tp2) >= 0)
}

func Less(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) []byte {
	return EncodeBool(Compare(val1, tp1, val2, tp2) < 0)
}

func LessEqual(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) []byte {
	return EncodeBool(Compare(val1, tp1, val2, tp2) <= 0)
}

func And(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) []byte {
	return EncodeBool(DecodeBool(val1) && DecodeBool(val2))
}

func Or(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) []byte {
	return EncodeBool(DecodeBool(val1) || DecodeBool(val2))
}

func Max(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) []byte {
	if Compare(val1, tp1, val2, tp2) >= 0 {
		return val1
	}
	return val2
}

func Min(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) []byte {
	if Compare(val1, tp1, val2, tp2) <= 0 {
		return val1
	}
	return val2
}

type OpFunc func(val1 []byte, tp1 FieldTP, val2 []byte, tp2 FieldTP) []byte

// GetOpFunc returns the scalar kernel backing op, nil when the op has no
// kernel.
func GetOpFunc(op OpType) OpFunc {
	switch op {
	case AddOpType:
		return Add
	case MinusOpType:
		return Minus
	case MulOpType:
		return Mul
	case DivideOpType:
		return Divide
	case ModOpType:
		return Mod
	case EqualOpType:
		return Equal
	case NotEqualOpType:
		return NotEqual
	case GreatOpType:
		return Great
	case GreatEqualOpType:
		return GreatEqual
	case LessOpType:
		return Less
	case LessEqualOpType:
		return LessEqual
	case AndOpType:
		return And
	case OrOpType:
		return Or
	default:
		return nil
	}
}

// FieldLen returns the display width of value in this field.
func FieldLen(field Field, value []byte) int {
	switch field.TP {
	case Text, DateTime:
		return len(value)
	case Bool:
		if DecodeBool(value) {
			return 4
		}
		return 5
	case Int:
		return len(strconv.FormatInt(DecodeInt(value), 10))
	case Float:
		return len(fmt.Sprintf("%f", DecodeFloat(value)))
	default:
		panic("unknown type")
	}
}
