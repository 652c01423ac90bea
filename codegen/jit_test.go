package codegen

import (
	"github.com/stretchr/testify/assert"
	"testing"

	"github.com/kelvin-qin/OAP/expr"
	"github.com/kelvin-qin/OAP/parser"
	"github.com/kelvin-qin/OAP/storage"
)

func compileTestExpr(t *testing.T, input string, schema *storage.Schema) *jitProgram {
	stm, err := parser.NewParser().ParseExpression([]byte(input))
	assert.Nil(t, err)
	e, err := expr.Build(stm, schema)
	assert.Nil(t, err)
	assert.Nil(t, e.TypeCheck())
	program, err := compile(e)
	assert.Nil(t, err)
	return program
}

func TestCompileAndRun(t *testing.T) {
	batch := makeTestBatch()
	program := compileTestExpr(t, "id * 2 + 1", batch.Schema())
	// id, 2, mul, 1, add
	assert.Len(t, program.code, 5)
	for row := 0; row < batch.RowCount(); row++ {
		value, err := program.run(row, batch)
		assert.Nil(t, err)
		assert.Equal(t, int64(row*2+1), storage.DecodeInt(value))
	}
}

func TestCompileNegative(t *testing.T) {
	batch := makeTestBatch()
	program := compileTestExpr(t, "-(id + 1)", batch.Schema())
	value, err := program.run(2, batch)
	assert.Nil(t, err)
	assert.Equal(t, int64(-3), storage.DecodeInt(value))
}

func TestCompileBuiltinCall(t *testing.T) {
	batch := makeTestBatch()
	program := compileTestExpr(t, "abs(1 - id)", batch.Schema())
	value, err := program.run(3, batch)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), storage.DecodeInt(value))

	program = compileTestExpr(t, "lower(upper(name))", batch.Schema())
	value, err = program.run(1, batch)
	assert.Nil(t, err)
	assert.Equal(t, []byte("bob"), value)
}

func TestCompileRejectsRegistryCall(t *testing.T) {
	batch := makeTestBatch()
	stm, err := parser.NewParser().ParseExpression([]byte("pow(id, 2)"))
	assert.Nil(t, err)
	e, err := expr.Build(stm, batch.Schema())
	assert.Nil(t, err)
	_, err = compile(e)
	assert.True(t, IsTypeError(err))
}

func TestJitConstructionFailsAtomically(t *testing.T) {
	batch := makeTestBatch()
	stms, err := parser.NewParser().Parse([]byte("id + 1, pow(id, 2)"))
	assert.Nil(t, err)
	exprs, err := expr.BuildExprList(stms, batch.Schema())
	assert.Nil(t, err)
	gen, err := NewJitCompiledCodeGen(batch.Schema(), exprs, ReturnFieldsOf(exprs))
	assert.Nil(t, gen)
	assert.NotNil(t, err)
}

func TestRunMissingColumn(t *testing.T) {
	batch := makeTestBatch()
	program := compileTestExpr(t, "id + 1", batch.Schema())
	other := storage.MakeEmptyRecordBatch([]storage.Field{{Name: "x", TP: storage.Int}})
	other.AppendRow([][]byte{storage.EncodeInt(1)})
	_, err := program.run(0, other)
	assert.NotNil(t, err)
}
