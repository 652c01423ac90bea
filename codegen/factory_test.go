package codegen

import (
	"github.com/stretchr/testify/assert"
	"testing"

	"github.com/kelvin-qin/OAP/expr"
	"github.com/kelvin-qin/OAP/parser"
	"github.com/kelvin-qin/OAP/storage"
)

func createTestGen(t *testing.T, input string, batch *storage.RecordBatch) (CodeGenerator, error) {
	stms, err := parser.NewParser().Parse([]byte(input))
	assert.Nil(t, err)
	exprs, err := expr.BuildExprList(stms, batch.Schema())
	assert.Nil(t, err)
	return CreateCodeGenerator(batch.Schema(), exprs, ReturnFieldsOf(exprs))
}

func TestCreateNativeVectorized(t *testing.T) {
	batch := makeTestBatch()
	gen, err := createTestGen(t, "id + score", batch)
	assert.Nil(t, err)
	assert.NotNil(t, gen)
	assert.Equal(t, "native_vectorized", gen.Name())
	ret, err := gen.Evaluate(batch)
	assert.Nil(t, err)
	assert.Equal(t, batch.RowCount(), ret.RowCount())
	assert.Equal(t, 1, ret.ColumnCount())
	assert.Equal(t, "id + score", ret.Fields[0].Name)
	assert.Equal(t, float64(2)+2*1.5, storage.DecodeFloat(ret.Records[0].RawValue(2)))
}

func TestCreateJitCompiled(t *testing.T) {
	batch := makeTestBatch()
	gen, err := createTestGen(t, "abs(id - 2) + 1", batch)
	assert.Nil(t, err)
	assert.Equal(t, "jit_compiled", gen.Name())
	ret, err := gen.Evaluate(batch)
	assert.Nil(t, err)
	assert.Equal(t, int64(3), storage.DecodeInt(ret.Records[0].RawValue(0)))
	assert.Equal(t, int64(2), storage.DecodeInt(ret.Records[0].RawValue(3)))
}

func TestCreateExtended(t *testing.T) {
	batch := makeTestBatch()
	gen, err := createTestGen(t, "pow(id, 2)", batch)
	assert.Nil(t, err)
	assert.Equal(t, "extended", gen.Name())
	ret, err := gen.Evaluate(batch)
	assert.Nil(t, err)
	assert.Equal(t, float64(9), storage.DecodeFloat(ret.Records[0].RawValue(3)))
}

func TestCreateUnresolved(t *testing.T) {
	batch := makeTestBatch()
	stms, err := parser.NewParser().Parse([]byte("undefined_function(id)"))
	assert.Nil(t, err)
	exprs, err := expr.BuildExprList(stms, batch.Schema())
	assert.Nil(t, err)
	gen, err := CreateCodeGenerator(batch.Schema(), exprs, ReturnFieldsOf(exprs))
	assert.Nil(t, gen)
	assert.True(t, IsTypeError(err))
	assert.Equal(t, "Unrecognized expression type.", err.Error())
}

func TestCreateFieldMismatch(t *testing.T) {
	batch := makeTestBatch()
	stms, err := parser.NewParser().Parse([]byte("id + 1"))
	assert.Nil(t, err)
	exprs, err := expr.BuildExprList(stms, batch.Schema())
	assert.Nil(t, err)
	gen, err := CreateCodeGenerator(batch.Schema(), exprs, nil)
	assert.Nil(t, gen)
	assert.True(t, IsTypeError(err))
}

func TestCreateIndependentGenerators(t *testing.T) {
	batch := makeTestBatch()
	gen1, err := createTestGen(t, "abs(id)", batch)
	assert.Nil(t, err)
	gen2, err := createTestGen(t, "abs(id)", batch)
	assert.Nil(t, err)
	assert.NotSame(t, gen1, gen2)
	ret1, err := gen1.Evaluate(batch)
	assert.Nil(t, err)
	ret2, err := gen2.Evaluate(batch)
	assert.Nil(t, err)
	assert.Equal(t, ret1, ret2)
}

// Every backend must agree on expressions all of them can run.
func TestBackendsAgree(t *testing.T) {
	batch := makeTestBatch()
	stms, err := parser.NewParser().Parse([]byte("id * 2 + 1, upper(name), score > 2.0"))
	assert.Nil(t, err)
	exprs, err := expr.BuildExprList(stms, batch.Schema())
	assert.Nil(t, err)
	retFields := ReturnFieldsOf(exprs)

	native := NewNativeVectorizedCodeGen(batch.Schema(), exprs, retFields)
	jit, err := NewJitCompiledCodeGen(batch.Schema(), exprs, retFields)
	assert.Nil(t, err)
	extended := NewExtendedCodeGen(batch.Schema(), exprs, retFields)

	nativeRet, err := native.Evaluate(batch)
	assert.Nil(t, err)
	jitRet, err := jit.Evaluate(batch)
	assert.Nil(t, err)
	extRet, err := extended.Evaluate(batch)
	assert.Nil(t, err)
	assert.Equal(t, nativeRet, jitRet)
	assert.Equal(t, nativeRet, extRet)
}

func TestExtendedEvaluateError(t *testing.T) {
	fields := []storage.Field{{Name: "v", TP: storage.Float}}
	batch := storage.MakeEmptyRecordBatch(fields)
	batch.AppendRow([][]byte{storage.EncodeFloat(-1)})
	gen, err := createTestGen(t, "sqrt(v)", batch)
	assert.Nil(t, err)
	_, err = gen.Evaluate(batch)
	assert.NotNil(t, err)
	assert.False(t, IsTypeError(err))
}
