package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory Store. It backs tests and local runs without
// spreadsheet credentials, and is safe for concurrent use. Data is
// lost on restart.
type Memory struct {
	mu    sync.RWMutex
	order []string
	parts map[string]*partition
}

type partition struct {
	headers []string
	rows    [][]any
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{parts: make(map[string]*partition)}
}

func (m *Memory) Partitions(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names, nil
}

func (m *Memory) CreatePartition(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.parts[name]; exists {
		return fmt.Errorf("partition already exists: %s", name)
	}
	m.parts[name] = &partition{}
	m.order = append(m.order, name)
	return nil
}

func (m *Memory) Headers(ctx context.Context, name string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, err := m.partition(name)
	if err != nil {
		return nil, err
	}
	headers := make([]string, len(p.headers))
	copy(headers, p.headers)
	return headers, nil
}

func (m *Memory) AppendHeaders(ctx context.Context, name string, headers []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.partition(name)
	if err != nil {
		return err
	}
	p.headers = append(p.headers, headers...)
	return nil
}

func (m *Memory) FetchAllRows(ctx context.Context, name string) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, err := m.partition(name)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(p.rows))
	for _, values := range p.rows {
		row := make(Row, len(p.headers))
		for i, h := range p.headers {
			if i < len(values) {
				row[h] = values[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (m *Memory) AppendRow(ctx context.Context, name string, values []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.partition(name)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	copy(row, values)
	p.rows = append(p.rows, row)
	return nil
}

func (m *Memory) OverwriteRow(ctx context.Context, name string, index int, values []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.partition(name)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(p.rows) {
		return fmt.Errorf("row index out of range: %d", index)
	}
	row := make([]any, len(values))
	copy(row, values)
	p.rows[index] = row
	return nil
}

func (m *Memory) DeleteRow(ctx context.Context, name string, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.partition(name)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(p.rows) {
		return fmt.Errorf("row index out of range: %d", index)
	}
	p.rows = append(p.rows[:index], p.rows[index+1:]...)
	return nil
}

// partition looks up a partition by name; callers must hold the lock.
func (m *Memory) partition(name string) (*partition, error) {
	p, exists := m.parts[name]
	if !exists {
		return nil, fmt.Errorf("partition not found: %s", name)
	}
	return p, nil
}
