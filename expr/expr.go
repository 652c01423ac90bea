package expr

import (
	"errors"
	"fmt"

	"github.com/kelvin-qin/OAP/storage"
)

// Expr is a typed expression over the fields of a schema. An Expr can be
// evaluated column at a time against a whole batch, or row by row.
type Expr interface {
	ResultField() storage.Field
	String() string
	TypeCheck() error
	Evaluate(input *storage.RecordBatch) *storage.ColumnVector
	EvaluateRow(row int, input *storage.RecordBatch) []byte
	Children() []Expr
}

type ColumnExpr struct {
	Name   string
	Schema *storage.Schema
}

func (column ColumnExpr) ResultField() storage.Field {
	f := column.Schema.GetField(column.Name)
	if f == nil {
		return storage.Field{Name: column.Name}
	}
	return *f
}

func (column ColumnExpr) String() string {
	return column.Name
}

func (column ColumnExpr) TypeCheck() error {
	if !column.Schema.HasField(column.Name) {
		return errors.New(fmt.Sprintf("column '%s' cannot find", column.Name))
	}
	return nil
}

func (column ColumnExpr) Evaluate(input *storage.RecordBatch) *storage.ColumnVector {
	return input.GetColumnValue(column.Name)
}

func (column ColumnExpr) EvaluateRow(row int, input *storage.RecordBatch) []byte {
	return input.GetColumnValue(column.Name).RawValue(row)
}

func (column ColumnExpr) Children() []Expr { return nil }

type LiteralExpr struct {
	// Data is the raw literal bytes, might be 'xxx', "xxx", true, false, or a
	// numerical value such as .10100, 01001, 909008.
	Data []byte
}

func (literal LiteralExpr) ResultField() storage.Field {
	return storage.Field{Name: string(literal.Data), TP: storage.InferenceType(literal.Data)}
}

func (literal LiteralExpr) String() string {
	return string(literal.Data)
}

func (literal LiteralExpr) TypeCheck() error {
	return nil
}

func (literal LiteralExpr) Value() []byte {
	return storage.Encode(literal.Data)
}

func (literal LiteralExpr) Evaluate(input *storage.RecordBatch) *storage.ColumnVector {
	ret := &storage.ColumnVector{Field: literal.ResultField()}
	value := literal.Value()
	for i := 0; i < input.RowCount(); i++ {
		ret.Append(value)
	}
	return ret
}

func (literal LiteralExpr) EvaluateRow(row int, input *storage.RecordBatch) []byte {
	return literal.Value()
}

func (literal LiteralExpr) Children() []Expr { return nil }

type NegativeExpr struct {
	Expr Expr
}

func (negative NegativeExpr) ResultField() storage.Field {
	field := negative.Expr.ResultField()
	return storage.Field{
		Name:       negative.String(),
		TableName:  field.TableName,
		SchemaName: field.SchemaName,
		TP:         field.TP,
	}
}

func (negative NegativeExpr) String() string {
	return fmt.Sprintf("-%s", negative.Expr)
}

func (negative NegativeExpr) TypeCheck() error {
	err := negative.Expr.TypeCheck()
	if err != nil {
		return err
	}
	field := negative.Expr.ResultField()
	return field.CanOp(field, storage.NegativeOpType)
}

func (negative NegativeExpr) Evaluate(input *storage.RecordBatch) *storage.ColumnVector {
	return negative.Expr.Evaluate(input).Negative()
}

func (negative NegativeExpr) EvaluateRow(row int, input *storage.RecordBatch) []byte {
	return storage.Negative(negative.Expr.ResultField().TP, negative.Expr.EvaluateRow(row, input))
}

func (negative NegativeExpr) Children() []Expr {
	return []Expr{negative.Expr}
}

// BinaryExpr is `Left op Right` for any op backed by a storage kernel.
type BinaryExpr struct {
	Left  Expr
	Right Expr
	Op    storage.OpType
}

func NewBinaryExpr(left Expr, op storage.OpType, right Expr) BinaryExpr {
	return BinaryExpr{Left: left, Right: right, Op: op}
}

func (binary BinaryExpr) ResultField() storage.Field {
	leftField := binary.Left.ResultField()
	rightField := binary.Right.ResultField()
	return storage.Field{Name: binary.String(), TP: leftField.InferenceType(rightField, binary.Op)}
}

func (binary BinaryExpr) String() string {
	return fmt.Sprintf("%s %s %s", binary.Left, binary.Op, binary.Right)
}

func (binary BinaryExpr) TypeCheck() error {
	err := binary.Left.TypeCheck()
	if err != nil {
		return err
	}
	err = binary.Right.TypeCheck()
	if err != nil {
		return err
	}
	return binary.Left.ResultField().CanOp(binary.Right.ResultField(), binary.Op)
}

func (binary BinaryExpr) Evaluate(input *storage.RecordBatch) *storage.ColumnVector {
	left := binary.Left.Evaluate(input)
	right := binary.Right.Evaluate(input)
	name := binary.String()
	switch binary.Op {
	case storage.AddOpType:
		return left.Add(right, name)
	case storage.MinusOpType:
		return left.Minus(right, name)
	case storage.MulOpType:
		return left.Mul(right, name)
	case storage.DivideOpType:
		return left.Divide(right, name)
	case storage.ModOpType:
		return left.Mod(right, name)
	case storage.EqualOpType:
		return left.Equal(right, name)
	case storage.NotEqualOpType:
		return left.NotEqual(right, name)
	case storage.GreatOpType:
		return left.Great(right, name)
	case storage.GreatEqualOpType:
		return left.GreatEqual(right, name)
	case storage.LessOpType:
		return left.Less(right, name)
	case storage.LessEqualOpType:
		return left.LessEqual(right, name)
	case storage.AndOpType:
		return left.And(right, name)
	case storage.OrOpType:
		return left.Or(right, name)
	default:
		panic("unknown op type")
	}
}

func (binary BinaryExpr) EvaluateRow(row int, input *storage.RecordBatch) []byte {
	fn := storage.GetOpFunc(binary.Op)
	val1 := binary.Left.EvaluateRow(row, input)
	val2 := binary.Right.EvaluateRow(row, input)
	return fn(val1, binary.Left.ResultField().TP, val2, binary.Right.ResultField().TP)
}

func (binary BinaryExpr) Children() []Expr {
	return []Expr{binary.Left, binary.Right}
}

// Walk visits e and all nodes below it in prefix order.
func Walk(e Expr, visit func(Expr)) {
	visit(e)
	for _, child := range e.Children() {
		Walk(child, visit)
	}
}
