package reconcile

import (
	"context"
	"errors"
	"maps"

	"csv-importer/core/utils"
)

// memStore is an in-memory Store keeping rows per table in insertion order.
type memStore struct {
	tables map[string][]PersistedRow

	updates    int
	saves      int
	bulkChunks [][][]any

	streamErr  error
	existsErr  error
	saveErr    error
	updateErr  error
	failBulkAt int
}

func newMemStore() *memStore {
	return &memStore{tables: make(map[string][]PersistedRow)}
}

func (m *memStore) seed(table string, rows ...PersistedRow) {
	m.tables[table] = append(m.tables[table], rows...)
}

func (m *memStore) StreamRows(ctx context.Context, table string, fn func(PersistedRow) error) error {
	if m.streamErr != nil {
		return m.streamErr
	}
	rows := m.tables[table]
	for i := 0; i < len(rows); i++ {
		if err := fn(maps.Clone(rows[i])); err != nil {
			return err
		}
	}
	return nil
}

func (m *memStore) ExistsWhere(ctx context.Context, table string, attrs map[string]any) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	for _, row := range m.tables[table] {
		if matches(row, attrs) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) SaveOne(ctx context.Context, table string, values ValueRecord) (bool, error) {
	if m.saveErr != nil {
		return false, m.saveErr
	}
	m.saves++
	m.tables[table] = append(m.tables[table], PersistedRow(maps.Clone(values)))
	return true, nil
}

func (m *memStore) UpdateOne(ctx context.Context, table string, match map[string]any, values ValueRecord) (bool, error) {
	if m.updateErr != nil {
		return false, m.updateErr
	}
	for _, row := range m.tables[table] {
		if matches(row, match) {
			maps.Copy(row, values)
			m.updates++
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) BulkInsert(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	m.bulkChunks = append(m.bulkChunks, rows)
	if m.failBulkAt > 0 && len(m.bulkChunks) == m.failBulkAt {
		return 0, errors.New("packet too large")
	}
	for _, t := range rows {
		row := make(PersistedRow, len(columns))
		for i, c := range columns {
			row[c] = t[i]
		}
		m.tables[table] = append(m.tables[table], row)
	}
	return int64(len(rows)), nil
}

func (m *memStore) rows(table string) []PersistedRow {
	return m.tables[table]
}

func matches(row PersistedRow, attrs map[string]any) bool {
	for k, v := range attrs {
		if !utils.LooseEqual(row[k], v) {
			return false
		}
	}
	return true
}

// listingStore adds ColumnLister to memStore.
type listingStore struct {
	*memStore
	columns []string
	err     error
}

func (l *listingStore) Columns(ctx context.Context, table string) ([]string, error) {
	return l.columns, l.err
}
