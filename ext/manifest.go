package ext

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest declares extended functions for one deployment. Each entry
// registers a built-in implementation under a deployment chosen name, so an
// installation can expose `custom_udf` backed by the sqrt impl without
// recompiling.
type Manifest struct {
	Functions []ManifestFunc `yaml:"functions"`
}

type ManifestFunc struct {
	// Name is the function name expressions call.
	Name string `yaml:"name"`
	// Impl is the built-in implementation backing it.
	Impl string `yaml:"impl"`
}

// LoadManifest reads a yaml manifest and registers its functions into r.
func LoadManifest(path string, r *Registry) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	manifest := &Manifest{}
	err = yaml.Unmarshal(data, manifest)
	if err != nil {
		return err
	}
	for _, mf := range manifest.Functions {
		if mf.Name == "" {
			return errors.New("manifest function needs a name")
		}
		impl, ok := builtinImpls[mf.Impl]
		if !ok {
			return errors.New(fmt.Sprintf("unknown impl '%s' for function '%s'", mf.Impl, mf.Name))
		}
		err = r.Register(&Func{
			Name:      mf.Name,
			NumParams: impl.NumParams,
			ReturnTP:  impl.ReturnTP,
			Fn:        impl.Fn,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
