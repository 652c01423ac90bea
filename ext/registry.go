// Package ext holds the extended function registry. Functions registered
// here are not backed by vectorized kernels nor by the expression compiler,
// they are resolved by name and executed row by row.
package ext

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kelvin-qin/OAP/storage"
)

// FuncBody evaluates one row. params[i] is encoded with type tps[i].
type FuncBody func(params [][]byte, tps []storage.FieldTP) ([]byte, error)

type Func struct {
	Name      string
	NumParams int
	ReturnTP  storage.FieldTP
	Fn        FuncBody
}

// TypeCheck verifies the call arity. Param types are checked by the function
// body itself.
func (f *Func) TypeCheck(paramTPs []storage.FieldTP) error {
	if len(paramTPs) != f.NumParams {
		return errors.New(fmt.Sprintf("%s expects %d params but got %d", f.Name, f.NumParams, len(paramTPs)))
	}
	return nil
}

type Registry struct {
	mu    sync.RWMutex
	funcs map[string]*Func
}

func NewRegistry() *Registry {
	return &Registry{funcs: map[string]*Func{}}
}

// Register adds f under its name. Names are case insensitive.
func (r *Registry) Register(f *Func) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := strings.ToUpper(f.Name)
	if _, ok := r.funcs[name]; ok {
		return errors.New(fmt.Sprintf("function '%s' already registered", f.Name))
	}
	r.funcs[name] = f
	return nil
}

func (r *Registry) Lookup(name string) (*Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.funcs[strings.ToUpper(name)]
	return f, ok
}

func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Default returns the registry used by the expression engine.
func Default() *Registry {
	return defaultRegistry
}
