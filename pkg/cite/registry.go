package cite

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds the prefix tables known to a run, keyed by jurisdiction
// code. Thread-safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*PrefixTable
}

// NewRegistry creates a registry pre-loaded with the built-in UK table.
func NewRegistry() *Registry {
	registry := &Registry{tables: make(map[string]*PrefixTable)}
	registry.tables["UK"] = UKTable()
	return registry
}

// Register adds or replaces a jurisdiction's table.
func (registry *Registry) Register(table *PrefixTable) error {
	if table == nil {
		return fmt.Errorf("prefix table cannot be nil")
	}
	if err := table.Validate(); err != nil {
		return err
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.tables[strings.ToUpper(table.Jurisdiction)] = table
	return nil
}

// RegisterFile loads a YAML table file and registers it.
func (registry *Registry) RegisterFile(path string) error {
	table, err := LoadTableFile(path)
	if err != nil {
		return err
	}
	return registry.Register(table)
}

// Get returns the table for a jurisdiction code, case-insensitive.
func (registry *Registry) Get(jurisdiction string) (*PrefixTable, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	table, ok := registry.tables[strings.ToUpper(jurisdiction)]
	return table, ok
}

// List returns registered jurisdiction codes in sorted order.
func (registry *Registry) List() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	jurisdictions := make([]string, 0, len(registry.tables))
	for jurisdiction := range registry.tables {
		jurisdictions = append(jurisdictions, jurisdiction)
	}
	sort.Strings(jurisdictions)
	return jurisdictions
}
