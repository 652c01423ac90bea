package expr

import (
	"github.com/stretchr/testify/assert"
	"testing"

	"github.com/kelvin-qin/OAP/parser"
	"github.com/kelvin-qin/OAP/storage"
)

var testDataSize = 4

func makeTestBatch() *storage.RecordBatch {
	fields := []storage.Field{
		{Name: "id", TP: storage.Int},
		{Name: "age", TP: storage.Float},
		{Name: "name", TP: storage.Text},
		{Name: "married", TP: storage.Bool},
	}
	batch := storage.MakeEmptyRecordBatch(fields)
	names := []string{"alice", "bob", "carol", "dave"}
	for i := 0; i < testDataSize; i++ {
		batch.AppendRow([][]byte{
			storage.EncodeInt(int64(i)),
			storage.EncodeFloat(float64(i) + 0.5),
			[]byte(names[i]),
			storage.EncodeBool(i%2 == 0),
		})
	}
	return batch
}

func buildTestExpr(t *testing.T, input string, schema *storage.Schema) Expr {
	stm, err := parser.NewParser().ParseExpression([]byte(input))
	assert.Nil(t, err)
	e, err := Build(stm, schema)
	assert.Nil(t, err)
	return e
}

func TestColumnExpr(t *testing.T) {
	batch := makeTestBatch()
	e := buildTestExpr(t, "id", batch.Schema())
	assert.Nil(t, e.TypeCheck())
	assert.Equal(t, storage.Int, e.ResultField().TP)
	col := e.Evaluate(batch)
	assert.Equal(t, testDataSize, col.Size())
	assert.Equal(t, int64(2), storage.DecodeInt(col.RawValue(2)))

	missing := buildTestExpr(t, "missing", batch.Schema())
	assert.NotNil(t, missing.TypeCheck())
}

func TestLiteralExpr(t *testing.T) {
	batch := makeTestBatch()
	e := buildTestExpr(t, "5", batch.Schema())
	assert.Nil(t, e.TypeCheck())
	assert.Equal(t, storage.Int, e.ResultField().TP)
	col := e.Evaluate(batch)
	assert.Equal(t, testDataSize, col.Size())
	assert.Equal(t, int64(5), storage.DecodeInt(col.RawValue(0)))

	e = buildTestExpr(t, "'hello'", batch.Schema())
	assert.Equal(t, storage.Text, e.ResultField().TP)
	assert.Equal(t, []byte("hello"), e.EvaluateRow(0, batch))
}

func TestBinaryExpr(t *testing.T) {
	batch := makeTestBatch()
	e := buildTestExpr(t, "id + id * 2", batch.Schema())
	assert.Nil(t, e.TypeCheck())
	assert.Equal(t, storage.Int, e.ResultField().TP)
	col := e.Evaluate(batch)
	for i := 0; i < testDataSize; i++ {
		assert.Equal(t, int64(i*3), storage.DecodeInt(col.RawValue(i)))
		assert.Equal(t, col.RawValue(i), e.EvaluateRow(i, batch))
	}

	e = buildTestExpr(t, "id + age", batch.Schema())
	assert.Nil(t, e.TypeCheck())
	assert.Equal(t, storage.Float, e.ResultField().TP)

	e = buildTestExpr(t, "id >= 2 and married", batch.Schema())
	assert.Nil(t, e.TypeCheck())
	assert.Equal(t, storage.Bool, e.ResultField().TP)
	col = e.Evaluate(batch)
	assert.False(t, storage.DecodeBool(col.RawValue(0)))
	assert.True(t, storage.DecodeBool(col.RawValue(2)))
}

func TestBinaryExprTypeCheck(t *testing.T) {
	batch := makeTestBatch()
	e := buildTestExpr(t, "id + name", batch.Schema())
	assert.NotNil(t, e.TypeCheck())
	e = buildTestExpr(t, "id % age", batch.Schema())
	assert.NotNil(t, e.TypeCheck())
	e = buildTestExpr(t, "id and married", batch.Schema())
	assert.NotNil(t, e.TypeCheck())
	e = buildTestExpr(t, "name > id", batch.Schema())
	assert.NotNil(t, e.TypeCheck())
}

func TestNegativeExpr(t *testing.T) {
	batch := makeTestBatch()
	e := buildTestExpr(t, "-id", batch.Schema())
	assert.Nil(t, e.TypeCheck())
	col := e.Evaluate(batch)
	assert.Equal(t, int64(-3), storage.DecodeInt(col.RawValue(3)))
	assert.Equal(t, col.RawValue(3), e.EvaluateRow(3, batch))

	e = buildTestExpr(t, "-name", batch.Schema())
	assert.NotNil(t, e.TypeCheck())
}

func TestBuiltinFuncCall(t *testing.T) {
	batch := makeTestBatch()
	e := buildTestExpr(t, "charlength(name)", batch.Schema())
	assert.Nil(t, e.TypeCheck())
	call := e.(*FuncCallExpr)
	assert.True(t, call.IsBuiltin())
	assert.True(t, call.IsVectorized())
	col := e.Evaluate(batch)
	assert.Equal(t, int64(5), storage.DecodeInt(col.RawValue(0)))
	assert.Equal(t, int64(3), storage.DecodeInt(col.RawValue(1)))

	e = buildTestExpr(t, "upper(name)", batch.Schema())
	assert.Nil(t, e.TypeCheck())
	assert.Equal(t, []byte("ALICE"), e.EvaluateRow(0, batch))

	e = buildTestExpr(t, "abs(id - 2)", batch.Schema())
	assert.Nil(t, e.TypeCheck())
	call = e.(*FuncCallExpr)
	assert.True(t, call.IsBuiltin())
	assert.False(t, call.IsVectorized())
	assert.Equal(t, int64(2), storage.DecodeInt(e.EvaluateRow(0, batch)))
	assert.Equal(t, int64(1), storage.DecodeInt(e.EvaluateRow(3, batch)))
}

func TestBuiltinFuncTypeCheck(t *testing.T) {
	batch := makeTestBatch()
	e := buildTestExpr(t, "charlength(id)", batch.Schema())
	assert.NotNil(t, e.TypeCheck())
	e = buildTestExpr(t, "abs(name)", batch.Schema())
	assert.NotNil(t, e.TypeCheck())
	e = buildTestExpr(t, "abs(id, id)", batch.Schema())
	assert.NotNil(t, e.TypeCheck())
}

func TestExtendedFuncCall(t *testing.T) {
	batch := makeTestBatch()
	e := buildTestExpr(t, "pow(id, 2)", batch.Schema())
	assert.Nil(t, e.TypeCheck())
	call := e.(*FuncCallExpr)
	assert.False(t, call.IsBuiltin())
	assert.True(t, call.IsExtended())
	assert.True(t, call.IsResolved())
	assert.Equal(t, storage.Float, e.ResultField().TP)
}

func TestUnresolvedFuncCall(t *testing.T) {
	batch := makeTestBatch()
	e := buildTestExpr(t, "undefined_function(id)", batch.Schema())
	call := e.(*FuncCallExpr)
	assert.False(t, call.IsResolved())
	// Unresolved calls pass the type check, classification reports them.
	assert.Nil(t, e.TypeCheck())
}

func TestWalk(t *testing.T) {
	batch := makeTestBatch()
	e := buildTestExpr(t, "abs(id + 1) - 2", batch.Schema())
	count := 0
	Walk(e, func(Expr) { count++ })
	// minus, abs, add, id, 1, 2
	assert.Equal(t, 6, count)
}

func TestBuildExprList(t *testing.T) {
	batch := makeTestBatch()
	stms, err := parser.NewParser().Parse([]byte("id + 1, upper(name)"))
	assert.Nil(t, err)
	exprs, err := BuildExprList(stms, batch.Schema())
	assert.Nil(t, err)
	assert.Len(t, exprs, 2)
	assert.Equal(t, "id + 1", exprs[0].String())
}
