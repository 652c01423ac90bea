package storage

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Dataset is a named record batch callers can evaluate expressions against.
type Dataset struct {
	Name   string
	Schema *Schema
	Data   *RecordBatch
}

type Catalog struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
}

var catalog = &Catalog{datasets: map[string]*Dataset{}}

func GetCatalog() *Catalog {
	return catalog
}

func (c *Catalog) Register(ds *Dataset) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.datasets[ds.Name]; ok {
		return errors.New(fmt.Sprintf("dataset '%s' already exists", ds.Name))
	}
	c.datasets[ds.Name] = ds
	return nil
}

func (c *Catalog) Get(name string) (*Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ds, ok := c.datasets[name]
	return ds, ok
}

func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.datasets))
	for name := range c.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Drop(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.datasets, name)
}
