package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"

	"go.uber.org/zap"
)

// Option configures optional Reconciler and importer dependencies.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used to report rejected and failed records.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Reconciler matches input rows against a table and applies the writes
// needed to bring the table in sync.
// A Reconciler is not safe for concurrent Reconcile calls on the same table.
type Reconciler struct {
	cfg      Config
	store    Store
	importer Importer
	logger   *zap.Logger
}

// NewReconciler validates cfg and creates a Reconciler.
// Configuration errors wrap ErrMissingConfiguration.
func NewReconciler(cfg Config, store Store, importer Importer, opts ...Option) (*Reconciler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, &ConfigError{Field: "store"}
	}
	if importer == nil {
		return nil, &ConfigError{Field: "importer"}
	}

	o := buildOptions(opts)
	return &Reconciler{
		cfg:      cfg,
		store:    store,
		importer: importer,
		logger:   o.logger.With(zap.String("table", cfg.Table)),
	}, nil
}

// Reconcile consumes src, streams the table once and returns the summary.
//
// Matched rows are updated when any attribute differs. Rows accepted by the
// Skip predicate count as unchanged without being compared. Unmatched input
// rows are passed to the importer in order of first appearance.
//
// Writes already issued are not rolled back when an error is returned; the
// returned Result reflects the work done until then.
func (r *Reconciler) Reconcile(ctx context.Context, src RowSource) (Result, error) {
	var result Result

	pending, err := r.index(ctx, src)
	if err != nil {
		return result, err
	}

	var abort error
	err = r.store.StreamRows(ctx, r.cfg.Table, func(row PersistedRow) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		key := r.cfg.RowKey(row)
		line, ok := pending.take(key)
		if !ok {
			return nil
		}

		abort = r.reconcileRow(ctx, key, line, row, &result)
		return abort
	})
	if abort != nil {
		return result, abort
	}
	if err != nil {
		return result, fmt.Errorf("failed to stream table %s: %w", r.cfg.Table, err)
	}

	residual := pending.residual()
	if r.cfg.DryRun {
		for _, line := range residual {
			if !r.cfg.skip(line) {
				result.New++
			}
		}
		return result, nil
	}

	created, err := r.importer.ImportNew(ctx, residual)
	result.New = created
	if fc, ok := r.importer.(FailureCounter); ok {
		result.Failed += fc.Failures()
	}
	if err != nil {
		return result, fmt.Errorf("failed to import new records: %w", err)
	}

	return result, nil
}

// index folds every input row into the pending set keyed by CSVKey.
func (r *Reconciler) index(ctx context.Context, src RowSource) (*pendingSet, error) {
	pending := newPendingSet()
	policy := r.cfg.collisions()

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line, err := src.Next()
		if errors.Is(err, io.EOF) {
			return pending, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read input row %d: %w", n, err)
		}
		if err := pending.put(r.cfg.CSVKey(line), line, policy); err != nil {
			return nil, err
		}
	}
}

// reconcileRow classifies one matched pair. A non-nil error aborts the run.
func (r *Reconciler) reconcileRow(ctx context.Context, key string, line Row, row PersistedRow, result *Result) error {
	if r.cfg.skip(line) {
		result.Unchanged++
		return nil
	}

	values := Values(r.cfg.Fields, line)
	if err := checkRequired(r.cfg.Fields, values, key); err != nil {
		if r.cfg.required() == RequiredAbort {
			return err
		}
		r.logger.Warn("Rejected record with empty required value", zap.String("key", key), zap.Error(err))
		result.Failed++
		return nil
	}

	if !changed(row, values) {
		result.Unchanged++
		return nil
	}

	if r.cfg.DryRun {
		result.Updated++
		return nil
	}

	ok, err := r.store.UpdateOne(ctx, r.cfg.Table, r.match(row), values)
	if err != nil || !ok {
		r.logger.Warn("Update not applied", zap.String("key", key), zap.Error(err))
		result.Failed++
		return nil
	}

	result.Updated++
	return nil
}

// match returns the constraints addressing row in an update.
func (r *Reconciler) match(row PersistedRow) map[string]any {
	if len(r.cfg.MatchAttributes) == 0 {
		return maps.Clone(row)
	}
	m := make(map[string]any, len(r.cfg.MatchAttributes))
	for _, attr := range r.cfg.MatchAttributes {
		m[attr] = row[attr]
	}
	return m
}

// pendingSet holds input rows not yet matched, in order of first appearance.
type pendingSet struct {
	rows  map[string]Row
	order []string
}

func newPendingSet() *pendingSet {
	return &pendingSet{rows: make(map[string]Row)}
}

func (p *pendingSet) put(key string, row Row, policy CollisionPolicy) error {
	if _, exists := p.rows[key]; exists {
		switch policy {
		case FirstWriteWins:
			return nil
		case RejectCollisions:
			return &CollisionError{Key: key}
		}
		p.rows[key] = row
		return nil
	}
	p.rows[key] = row
	p.order = append(p.order, key)
	return nil
}

func (p *pendingSet) take(key string) (Row, bool) {
	row, ok := p.rows[key]
	if ok {
		delete(p.rows, key)
	}
	return row, ok
}

// residual drains the rows that were never matched.
func (p *pendingSet) residual() []Row {
	rows := make([]Row, 0, len(p.rows))
	for _, key := range p.order {
		if row, ok := p.rows[key]; ok {
			rows = append(rows, row)
			delete(p.rows, key)
		}
	}
	p.order = nil
	return rows
}
