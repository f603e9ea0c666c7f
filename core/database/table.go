package database

import (
	"context"
	"fmt"

	"csv-importer/core/reconcile"

	"gorm.io/gorm"
)

// TableStore persists import records into arbitrary tables through GORM.
// It implements reconcile.Store and reconcile.ColumnLister.
type TableStore struct {
	db *gorm.DB
}

// NewTableStore wraps db.
func NewTableStore(db *gorm.DB) *TableStore {
	return &TableStore{db: db}
}

// StreamRows reads the table through a cursor and calls fn per row.
// []byte column values are converted to string. On a single-connection pool
// the rows are read up front and the cursor closed before fn runs, so fn can
// write to the same database.
func (s *TableStore) StreamRows(ctx context.Context, table string, fn func(reconcile.PersistedRow) error) error {
	if !s.singleConn() {
		return s.scanRows(ctx, table, fn)
	}

	var buffered []reconcile.PersistedRow
	err := s.scanRows(ctx, table, func(row reconcile.PersistedRow) error {
		buffered = append(buffered, row)
		return nil
	})
	if err != nil {
		return err
	}
	for i, row := range buffered {
		buffered[i] = nil
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *TableStore) scanRows(ctx context.Context, table string, fn func(reconcile.PersistedRow) error) error {
	rows, err := s.db.WithContext(ctx).Table(table).Rows()
	if err != nil {
		return fmt.Errorf("failed to query table %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("failed to scan row of %s: %w", table, err)
		}
		row := make(reconcile.PersistedRow, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

// singleConn reports whether an open cursor would hold the only connection.
func (s *TableStore) singleConn() bool {
	sqlDB, err := s.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.Stats().MaxOpenConnections == 1
}

// ExistsWhere reports whether a row matches every attribute; nil matches NULL.
func (s *TableStore) ExistsWhere(ctx context.Context, table string, attrs map[string]any) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Table(table).
		Where(attrs).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existence in %s: %w", table, err)
	}
	return count > 0, nil
}

// SaveOne inserts a single record.
func (s *TableStore) SaveOne(ctx context.Context, table string, values reconcile.ValueRecord) (bool, error) {
	result := s.db.WithContext(ctx).Table(table).Create(map[string]any(values))
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert into %s: %w", table, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// UpdateOne sets values on the rows matching match.
// An empty match is refused by GORM rather than updating the whole table.
func (s *TableStore) UpdateOne(ctx context.Context, table string, match map[string]any, values reconcile.ValueRecord) (bool, error) {
	result := s.db.WithContext(ctx).
		Table(table).
		Where(match).
		Updates(map[string]any(values))
	if result.Error != nil {
		return false, fmt.Errorf("failed to update %s: %w", table, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// BulkInsert issues one multi-row INSERT for rows.
func (s *TableStore) BulkInsert(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	records := make([]map[string]any, len(rows))
	for i, t := range rows {
		if len(t) != len(columns) {
			return 0, fmt.Errorf("row %d has %d values for %d columns", i, len(t), len(columns))
		}
		rec := make(map[string]any, len(columns))
		for j, col := range columns {
			rec[col] = t[j]
		}
		records[i] = rec
	}

	result := s.db.WithContext(ctx).
		Session(&gorm.Session{CreateBatchSize: len(records)}).
		Table(table).
		Create(records)
	if result.Error != nil {
		return result.RowsAffected, fmt.Errorf("failed to bulk insert into %s: %w", table, result.Error)
	}
	return result.RowsAffected, nil
}

// Columns implements reconcile.ColumnLister.
func (s *TableStore) Columns(ctx context.Context, table string) ([]string, error) {
	return GetColumnNames(s.db.WithContext(ctx), table)
}
