package storage

// ColumnVector holds one column of values. Values are byte encoded, see
// ops.go.
type ColumnVector struct {
	Field  Field    `json:"field"`
	Values [][]byte `json:"values"`
}

func (column *ColumnVector) GetField() Field {
	return column.Field
}

func (column *ColumnVector) GetTP() FieldTP {
	return column.Field.TP
}

func (column *ColumnVector) Size() int {
	return len(column.Values)
}

func (column *ColumnVector) RawValue(row int) []byte {
	return column.Values[row]
}

func (column *ColumnVector) ToString(row int) string {
	return DecodeToString(column.Values[row], column.Field.TP)
}

func (column *ColumnVector) Append(value []byte) {
	column.Values = append(column.Values, value)
}

func (column *ColumnVector) Negative() *ColumnVector {
	ret := &ColumnVector{Field: column.Field}
	for _, value := range column.Values {
		ret.Append(Negative(column.GetTP(), value))
	}
	return ret
}

func (column *ColumnVector) op(another *ColumnVector, name string, op OpType) *ColumnVector {
	fn := GetOpFunc(op)
	ret := &ColumnVector{
		Field: Field{Name: name, TP: column.Field.InferenceType(another.Field, op)},
	}
	for i := 0; i < column.Size(); i++ {
		ret.Append(fn(column.Values[i], column.GetTP(), another.Values[i], another.GetTP()))
	}
	return ret
}

func (column *ColumnVector) Add(another *ColumnVector, name string) *ColumnVector {
	return column.op(another, name, AddOpType)
}

func (column *ColumnVector) Minus(another *ColumnVector, name string) *ColumnVector {
	return column.op(another, name, MinusOpType)
}

func (column *ColumnVector) Mul(another *ColumnVector, name string) *ColumnVector {
	return column.op(another, name, MulOpType)
}

func (column *ColumnVector) Divide(another *ColumnVector, name string) *ColumnVector {
	return column.op(another, name, DivideOpType)
}

func (column *ColumnVector) Mod(another *ColumnVector, name string) *ColumnVector {
	return column.op(another, name, ModOpType)
}

func (column *ColumnVector) Equal(another *ColumnVector, name string) *ColumnVector {
	return column.op(another, name, EqualOpType)
}

func (column *ColumnVector) NotEqual(another *ColumnVector, name string) *ColumnVector {
	return column.op(another, name, NotEqualOpType)
}

func (column *ColumnVector) Great(another *ColumnVector, name string) *ColumnVector {
	return column.op(another, name, GreatOpType)
}

func (column *ColumnVector) GreatEqual(another *ColumnVector, name string) *ColumnVector {
	return column.op(another, name, GreatEqualOpType)
}

func (column *ColumnVector) Less(another *ColumnVector, name string) *ColumnVector {
	return column.op(another, name, LessOpType)
}

func (column *ColumnVector) LessEqual(another *ColumnVector, name string) *ColumnVector {
	return column.op(another, name, LessEqualOpType)
}

func (column *ColumnVector) And(another *ColumnVector, name string) *ColumnVector {
	return column.op(another, name, AndOpType)
}

func (column *ColumnVector) Or(another *ColumnVector, name string) *ColumnVector {
	return column.op(another, name, OrOpType)
}

// RecordBatch is a batch of rows stored column by column. Fields[i] describes
// Records[i].
type RecordBatch struct {
	Fields  []Field         `json:"fields"`
	Records []*ColumnVector `json:"records"`
}

func MakeEmptyRecordBatch(fields []Field) *RecordBatch {
	records := make([]*ColumnVector, len(fields))
	for i, f := range fields {
		records[i] = &ColumnVector{Field: f}
	}
	return &RecordBatch{Fields: fields, Records: records}
}

func (recordBatch *RecordBatch) RowCount() int {
	if recordBatch.ColumnCount() == 0 {
		return 0
	}
	return recordBatch.Records[0].Size()
}

func (recordBatch *RecordBatch) ColumnCount() int {
	return len(recordBatch.Records)
}

func (recordBatch *RecordBatch) Schema() *Schema {
	return NewSchema(recordBatch.Fields)
}

func (recordBatch *RecordBatch) GetColumnValue(name string) *ColumnVector {
	for i, f := range recordBatch.Fields {
		if f.Name == name {
			return recordBatch.Records[i]
		}
	}
	return nil
}

// AppendRow appends one row. values must parallel Fields.
func (recordBatch *RecordBatch) AppendRow(values [][]byte) {
	for i, value := range values {
		recordBatch.Records[i].Append(value)
	}
}

// Append appends all rows of another to recordBatch. Columns are matched by
// position.
func (recordBatch *RecordBatch) Append(another *RecordBatch) {
	for i, col := range another.Records {
		recordBatch.Records[i].Values = append(recordBatch.Records[i].Values, col.Values...)
	}
}

// Slice returns rows [from, from+count) as a new batch.
func (recordBatch *RecordBatch) Slice(from, count int) *RecordBatch {
	ret := MakeEmptyRecordBatch(recordBatch.Fields)
	to := from + count
	if to > recordBatch.RowCount() {
		to = recordBatch.RowCount()
	}
	for i, col := range recordBatch.Records {
		for row := from; row < to; row++ {
			ret.Records[i].Append(col.RawValue(row))
		}
	}
	return ret
}
