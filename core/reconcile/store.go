package reconcile

import "context"

// Store defines the persistence capabilities the engine needs.
// Every method receives the table explicitly; implementations hold no
// per-run state.
type Store interface {
	// StreamRows calls fn for every row of table, one at a time.
	// Implementations must not materialise the whole table.
	// A non-nil error from fn stops the stream and is returned.
	StreamRows(ctx context.Context, table string, fn func(PersistedRow) error) error

	// ExistsWhere reports whether any row matches all attribute=value pairs.
	ExistsWhere(ctx context.Context, table string, attrs map[string]any) (bool, error)

	// SaveOne creates a single record and reports whether it was persisted.
	SaveOne(ctx context.Context, table string, values ValueRecord) (bool, error)

	// UpdateOne applies values to the row addressed by match and reports
	// whether the update was persisted.
	UpdateOne(ctx context.Context, table string, match map[string]any, values ValueRecord) (bool, error)

	// BulkInsert writes rows in one multi-row insert and returns the number of
	// affected rows. Each tuple follows the order of columns.
	BulkInsert(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
}

// ColumnLister is an optional Store capability. OneByOne uses it to drop
// attributes the table does not have before saving.
type ColumnLister interface {
	Columns(ctx context.Context, table string) ([]string, error)
}
