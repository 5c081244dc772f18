package dataset

import (
	"context"
	"sync"

	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
)

// memorySource serves tables held in memory. Names without a table are absent.
type memorySource struct {
	mu     sync.Mutex
	tables map[domain.Name]*domain.Table
	errs   map[domain.Name]error
	calls  map[domain.Name]int
}

// newMemorySource creates a source over the given tables.
func newMemorySource(tables map[domain.Name]*domain.Table) *memorySource {
	m := &memorySource{
		tables: make(map[domain.Name]*domain.Table, len(tables)),
		errs:   make(map[domain.Name]error),
		calls:  make(map[domain.Name]int),
	}
	for n, t := range tables {
		m.tables[n] = t
	}
	return m
}

// Put replaces the table served for name.
func (m *memorySource) Put(name domain.Name, t *domain.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[name] = t
	delete(m.errs, name)
}

// Fail makes subsequent loads of name return err.
func (m *memorySource) Fail(name domain.Name, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[name] = err
}

// Calls reports how many times name was loaded.
func (m *memorySource) Calls(name domain.Name) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *memorySource) Load(_ context.Context, name domain.Name) (domain.Dataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[name]++
	if err := m.errs[name]; err != nil {
		return domain.Dataset{}, err
	}
	t, ok := m.tables[name]
	if !ok {
		return domain.Absent(name, "not found"), nil
	}
	return checked(name, t)
}
