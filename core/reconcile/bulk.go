package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// DefaultMaxChunkSize is the default number of rows per multi-row insert.
// A single statement has a size ceiling in the database (max_allowed_packet
// on MySQL), so large imports are split.
const DefaultMaxChunkSize = 10000

// Bulk inserts records with one multi-row insert per chunk. It is the fast,
// unvalidated strategy: required flags and existing rows are not checked, and
// a failed chunk stops the import.
type Bulk struct {
	cfg     Config
	store   Store
	logger  *zap.Logger
	columns []string
	unique  []string
}

// NewBulk validates cfg and creates the strategy.
func NewBulk(cfg Config, store Store, opts ...Option) (*Bulk, error) {
	if err := cfg.ValidateImport(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, &ConfigError{Field: "store"}
	}
	o := buildOptions(opts)
	return &Bulk{
		cfg:     cfg,
		store:   store,
		logger:  o.logger.With(zap.String("table", cfg.Table), zap.String("strategy", "bulk")),
		columns: Attributes(cfg.Fields),
		unique:  UniqueAttributes(cfg.Fields),
	}, nil
}

// ImportNew implements Importer. Each row is released once converted.
func (b *Bulk) ImportNew(ctx context.Context, rows []Row) (int, error) {
	values := make([]ValueRecord, 0, len(rows))
	for i, row := range rows {
		rows[i] = nil
		if b.cfg.skip(row) {
			continue
		}
		values = append(values, Values(b.cfg.Fields, row))
	}
	return b.insert(ctx, values)
}

// Import inserts every row of src without reconciling against the table.
func (b *Bulk) Import(ctx context.Context, src RowSource) (int, error) {
	var values []ValueRecord
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read input row %d: %w", n, err)
		}
		if b.cfg.skip(row) {
			continue
		}
		values = append(values, Values(b.cfg.Fields, row))
	}
	return b.insert(ctx, values)
}

// insert deduplicates values, chunks them and returns the affected row count
// summed over the chunks that succeeded.
func (b *Bulk) insert(ctx context.Context, values []ValueRecord) (int, error) {
	deduped, err := Deduplicate(values, b.unique, b.cfg.collisions())
	if err != nil {
		return 0, err
	}
	if b.cfg.DryRun {
		return len(deduped), nil
	}

	chunks := Chunk(deduped, b.cfg.MaxChunkSize)
	var total int64
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return int(total), err
		}

		tuples := make([][]any, len(chunk))
		for j, v := range chunk {
			tuples[j] = tuple(b.columns, v)
		}

		n, err := b.store.BulkInsert(ctx, b.cfg.Table, b.columns, tuples)
		total += n
		if err != nil {
			return int(total), fmt.Errorf("failed to insert chunk %d of %d: %w", i+1, len(chunks), err)
		}
		b.logger.Debug("Inserted chunk",
			zap.Int("chunk", i+1),
			zap.Int("rows", len(chunk)),
			zap.Int64("affected", n),
		)
	}
	return int(total), nil
}
