package codegen

import (
	"github.com/stretchr/testify/assert"
	"testing"

	"github.com/kelvin-qin/OAP/expr"
	"github.com/kelvin-qin/OAP/parser"
	"github.com/kelvin-qin/OAP/storage"
)

func makeTestBatch() *storage.RecordBatch {
	fields := []storage.Field{
		{Name: "id", TP: storage.Int},
		{Name: "score", TP: storage.Float},
		{Name: "name", TP: storage.Text},
	}
	batch := storage.MakeEmptyRecordBatch(fields)
	names := []string{"alice", "bob", "carol", "dave"}
	for i := 0; i < 4; i++ {
		batch.AppendRow([][]byte{
			storage.EncodeInt(int64(i)),
			storage.EncodeFloat(float64(i) * 1.5),
			[]byte(names[i]),
		})
	}
	return batch
}

func buildTestExprs(t *testing.T, input string, schema *storage.Schema) []expr.Expr {
	stms, err := parser.NewParser().Parse([]byte(input))
	assert.Nil(t, err)
	exprs, err := expr.BuildExprList(stms, schema)
	assert.Nil(t, err)
	for _, e := range exprs {
		assert.Nil(t, e.TypeCheck())
	}
	return exprs
}

func TestClassifyNativeVectorized(t *testing.T) {
	schema := makeTestBatch().Schema()
	for _, input := range []string{
		"id + score",
		"id * 2 - 1, score >= 3.0",
		"upper(name), charlength(name) + id",
		"-id",
	} {
		exprs := buildTestExprs(t, input, schema)
		tag, err := Classify(exprs)
		assert.Nil(t, err, input)
		assert.Equal(t, NativeVectorized, tag, input)
	}
}

func TestClassifyJitCompiled(t *testing.T) {
	schema := makeTestBatch().Schema()
	for _, input := range []string{
		"abs(id)",
		"abs(id - 2) + 1",
		"id + 1, abs(score)",
		"charlength(name) + abs(id)",
	} {
		exprs := buildTestExprs(t, input, schema)
		tag, err := Classify(exprs)
		assert.Nil(t, err, input)
		assert.Equal(t, JitCompiled, tag, input)
	}
}

func TestClassifyExtended(t *testing.T) {
	schema := makeTestBatch().Schema()
	for _, input := range []string{
		"pow(id, 2)",
		"sqrt(score) + 1",
		// A registry function outranks a compiled-only built-in.
		"abs(id), pow(score, 2)",
		"concat(upper(name), name)",
	} {
		exprs := buildTestExprs(t, input, schema)
		tag, err := Classify(exprs)
		assert.Nil(t, err, input)
		assert.Equal(t, Extended, tag, input)
	}
}

func TestClassifyUnresolved(t *testing.T) {
	schema := makeTestBatch().Schema()
	for _, input := range []string{
		"undefined_function(id)",
		"id + 1, undefined_function(id)",
		"pow(undefined_function(id), 2)",
	} {
		stms, err := parser.NewParser().Parse([]byte(input))
		assert.Nil(t, err)
		exprs, err := expr.BuildExprList(stms, schema)
		assert.Nil(t, err)
		tag, err := Classify(exprs)
		assert.Equal(t, Unclassified, tag, input)
		assert.NotNil(t, err, input)
		assert.True(t, IsTypeError(err), input)
		assert.Equal(t, "Unrecognized expression type.", err.Error(), input)
	}
}

func TestClassifyEmpty(t *testing.T) {
	tag, err := Classify(nil)
	assert.Nil(t, err)
	assert.Equal(t, NativeVectorized, tag)
}

func TestBackendTagString(t *testing.T) {
	assert.Equal(t, "native_vectorized", NativeVectorized.String())
	assert.Equal(t, "jit_compiled", JitCompiled.String())
	assert.Equal(t, "extended", Extended.String())
	assert.Equal(t, "unclassified", Unclassified.String())
}
