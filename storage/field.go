package storage

import (
	"errors"
	"fmt"
	"strings"
)

type FieldTP string

const (
	Int      FieldTP = "int"
	Float    FieldTP = "float"
	Bool     FieldTP = "bool"
	Text     FieldTP = "text"
	DateTime FieldTP = "datetime"
	// Multiple is the pseudo type of a `*` projection.
	Multiple FieldTP = "multiple"
)

type OpType int

const (
	AddOpType OpType = iota
	MinusOpType
	MulOpType
	DivideOpType
	ModOpType
	NegativeOpType
	EqualOpType
	NotEqualOpType
	GreatOpType
	GreatEqualOpType
	LessOpType
	LessEqualOpType
	AndOpType
	OrOpType
)

var opTypeNames = map[OpType]string{
	AddOpType:        "+",
	MinusOpType:      "-",
	MulOpType:        "*",
	DivideOpType:     "/",
	ModOpType:        "%",
	NegativeOpType:   "-",
	EqualOpType:      "=",
	NotEqualOpType:   "!=",
	GreatOpType:      ">",
	GreatEqualOpType: ">=",
	LessOpType:       "<",
	LessEqualOpType:  "<=",
	AndOpType:        "and",
	OrOpType:         "or",
}

func (op OpType) String() string {
	return opTypeNames[op]
}

func (op OpType) IsComparator() bool {
	switch op {
	case EqualOpType, NotEqualOpType, GreatOpType, GreatEqualOpType, LessOpType, LessEqualOpType:
		return true
	default:
		return false
	}
}

func (op OpType) IsLogic() bool {
	return op == AndOpType || op == OrOpType
}

func (op OpType) IsArithmetic() bool {
	switch op {
	case AddOpType, MinusOpType, MulOpType, DivideOpType, ModOpType, NegativeOpType:
		return true
	default:
		return false
	}
}

type Field struct {
	SchemaName string  `json:"schema_name"`
	TableName  string  `json:"table_name"`
	Name       string  `json:"name"`
	TP         FieldTP `json:"tp"`
}

func (f Field) IsNumerical() bool {
	return f.TP == Int || f.TP == Float
}

func (f Field) IsString() bool {
	return f.TP == Text || f.TP == DateTime
}

func (f Field) IsBool() bool {
	return f.TP == Bool
}

// CanOp checks whether `f op another` is a legal operation.
func (f Field) CanOp(another Field, op OpType) error {
	switch {
	case op == ModOpType:
		if f.TP != Int || another.TP != Int {
			return errors.New(fmt.Sprintf("'%%' cannot be applied to %s and %s", f.TP, another.TP))
		}
		return nil
	case op == NegativeOpType:
		if !f.IsNumerical() {
			return errors.New(fmt.Sprintf("'-' cannot be applied to %s", f.TP))
		}
		return nil
	case op.IsArithmetic():
		if !f.IsNumerical() || !another.IsNumerical() {
			return errors.New(fmt.Sprintf("'%s' cannot be applied to %s and %s", op, f.TP, another.TP))
		}
		return nil
	case op.IsComparator():
		if f.IsNumerical() && another.IsNumerical() {
			return nil
		}
		if f.TP != another.TP {
			return errors.New(fmt.Sprintf("'%s' cannot be applied to %s and %s", op, f.TP, another.TP))
		}
		return nil
	case op.IsLogic():
		if !f.IsBool() || !another.IsBool() {
			return errors.New(fmt.Sprintf("'%s' cannot be applied to %s and %s", op, f.TP, another.TP))
		}
		return nil
	default:
		return errors.New(fmt.Sprintf("unknown op '%s'", op))
	}
}

// InferenceType returns the type of `f op another`. CanOp must hold.
func (f Field) InferenceType(another Field, op OpType) FieldTP {
	switch {
	case op.IsComparator() || op.IsLogic():
		return Bool
	case op == ModOpType:
		return Int
	case op == NegativeOpType:
		return f.TP
	default:
		if f.TP == Int && another.TP == Int {
			return Int
		}
		return Float
	}
}

type Schema struct {
	Fields []Field `json:"fields"`
}

func NewSchema(fields []Field) *Schema {
	return &Schema{Fields: fields}
}

func (s *Schema) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (s *Schema) HasField(name string) bool {
	return s.FieldIndex(name) >= 0
}

func (s *Schema) GetField(name string) *Field {
	i := s.FieldIndex(name)
	if i < 0 {
		return nil
	}
	return &s.Fields[i]
}

// InferenceType guesses the type of a raw literal. A literal can be a
// numerical value like 10, .101, a bool, or a quoted 'xxx', "xxx" string.
func InferenceType(data []byte) FieldTP {
	s := strings.TrimSpace(string(data))
	if s == "" {
		return Text
	}
	upper := strings.ToUpper(s)
	if upper == "TRUE" || upper == "FALSE" {
		return Bool
	}
	if s[0] == '\'' || s[0] == '"' {
		return Text
	}
	isNumber, isFloat := true, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' {
			isFloat = true
			continue
		}
		if c == '-' && i == 0 {
			continue
		}
		if c < '0' || c > '9' {
			isNumber = false
			break
		}
	}
	if isNumber && isFloat {
		return Float
	}
	if isNumber {
		return Int
	}
	return Text
}
