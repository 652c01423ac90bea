package ext

import (
	"github.com/stretchr/testify/assert"
	"os"
	"path/filepath"
	"testing"

	"github.com/kelvin-qin/OAP/storage"
)

func TestDefaultRegistry(t *testing.T) {
	f, ok := Default().Lookup("pow")
	assert.True(t, ok)
	assert.Equal(t, 2, f.NumParams)
	// Case insensitive.
	_, ok = Default().Lookup("POW")
	assert.True(t, ok)
	_, ok = Default().Lookup("no_such_func")
	assert.False(t, ok)
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	f := &Func{Name: "my_udf", NumParams: 1, ReturnTP: storage.Int, Fn: sqrt}
	assert.Nil(t, r.Register(f))
	assert.NotNil(t, r.Register(f))
	got, ok := r.Lookup("MY_UDF")
	assert.True(t, ok)
	assert.Equal(t, f, got)
	assert.Equal(t, []string{"MY_UDF"}, r.List())
}

func TestBuiltins(t *testing.T) {
	ret, err := pow([][]byte{storage.EncodeInt(2), storage.EncodeInt(10)},
		[]storage.FieldTP{storage.Int, storage.Int})
	assert.Nil(t, err)
	assert.Equal(t, float64(1024), storage.DecodeFloat(ret))

	ret, err = sqrt([][]byte{storage.EncodeFloat(4)}, []storage.FieldTP{storage.Float})
	assert.Nil(t, err)
	assert.Equal(t, float64(2), storage.DecodeFloat(ret))

	_, err = sqrt([][]byte{storage.EncodeFloat(-1)}, []storage.FieldTP{storage.Float})
	assert.NotNil(t, err)

	_, err = sqrt([][]byte{[]byte("x")}, []storage.FieldTP{storage.Text})
	assert.NotNil(t, err)

	ret, err = reverse([][]byte{[]byte("abc")}, []storage.FieldTP{storage.Text})
	assert.Nil(t, err)
	assert.Equal(t, []byte("cba"), ret)

	ret, err = concat([][]byte{[]byte("a"), storage.EncodeInt(1)},
		[]storage.FieldTP{storage.Text, storage.Int})
	assert.Nil(t, err)
	assert.Equal(t, []byte("a1"), ret)
}

func TestTypeCheck(t *testing.T) {
	f, _ := Default().Lookup("pow")
	assert.Nil(t, f.TypeCheck([]storage.FieldTP{storage.Int, storage.Int}))
	assert.NotNil(t, f.TypeCheck([]storage.FieldTP{storage.Int}))
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "functions.yaml")
	content := `functions:
  - name: custom_udf
    impl: sqrt
  - name: power
    impl: pow
`
	assert.Nil(t, os.WriteFile(path, []byte(content), 0644))
	r := NewRegistry()
	assert.Nil(t, LoadManifest(path, r))
	f, ok := r.Lookup("custom_udf")
	assert.True(t, ok)
	assert.Equal(t, storage.Float, f.ReturnTP)
	_, ok = r.Lookup("power")
	assert.True(t, ok)
}

func TestLoadManifestErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "functions.yaml")
	content := `functions:
  - name: broken
    impl: no_such_impl
`
	assert.Nil(t, os.WriteFile(path, []byte(content), 0644))
	assert.NotNil(t, LoadManifest(path, NewRegistry()))
	assert.NotNil(t, LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"), NewRegistry()))
}
