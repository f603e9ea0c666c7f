package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// OneByOne saves one record at a time. It is the slow, validating strategy:
// records whose unique attributes already exist in the table are not saved,
// and individual save failures are counted instead of returned.
type OneByOne struct {
	cfg      Config
	store    Store
	logger   *zap.Logger
	failures int
	// seen holds the unique values accepted during a dry run.
	seen map[string]struct{}
}

// NewOneByOne validates cfg and creates the strategy.
func NewOneByOne(cfg Config, store Store, opts ...Option) (*OneByOne, error) {
	if err := cfg.ValidateImport(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, &ConfigError{Field: "store"}
	}
	o := buildOptions(opts)
	return &OneByOne{
		cfg:    cfg,
		store:  store,
		logger: o.logger.With(zap.String("table", cfg.Table), zap.String("strategy", "one_by_one")),
	}, nil
}

// ImportNew implements Importer. Each row is released once processed.
func (s *OneByOne) ImportNew(ctx context.Context, rows []Row) (int, error) {
	s.reset()
	columns, err := s.tableColumns(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		rows[i] = nil

		ok, err := s.importRow(ctx, row, columns)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// Import saves every row of src without reconciling against the table.
func (s *OneByOne) Import(ctx context.Context, src RowSource) (int, error) {
	s.reset()
	columns, err := s.tableColumns(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return created, nil
		}
		if err != nil {
			return created, fmt.Errorf("failed to read input row %d: %w", n, err)
		}

		ok, err := s.importRow(ctx, row, columns)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
}

func (s *OneByOne) reset() {
	s.failures = 0
	s.seen = nil
	if s.cfg.DryRun {
		s.seen = make(map[string]struct{})
	}
}

// Failures implements FailureCounter.
func (s *OneByOne) Failures() int {
	return s.failures
}

// importRow reports whether row was saved. Only an empty required value under
// RequiredAbort returns an error.
func (s *OneByOne) importRow(ctx context.Context, row Row, columns map[string]struct{}) (bool, error) {
	if s.cfg.skip(row) {
		return false, nil
	}

	values := Values(s.cfg.Fields, row)
	if err := checkRequired(s.cfg.Fields, values, ""); err != nil {
		if s.cfg.required() == RequiredAbort {
			return false, err
		}
		s.logger.Warn("Rejected record with empty required value", zap.Error(err))
		s.failures++
		return false, nil
	}

	if columns != nil {
		for attr := range values {
			if _, ok := columns[strings.ToLower(attr)]; !ok {
				s.logger.Debug("Dropped attribute not in table", zap.String("attribute", attr))
				delete(values, attr)
			}
		}
	}

	var unique map[string]any
	for _, f := range s.cfg.Fields {
		if v, ok := values[f.Attribute]; ok && f.Unique {
			if unique == nil {
				unique = make(map[string]any)
			}
			unique[f.Attribute] = v
		}
	}

	if len(unique) > 0 {
		exists, err := s.store.ExistsWhere(ctx, s.cfg.Table, unique)
		if err != nil {
			s.logger.Warn("Uniqueness check failed", zap.Any("unique", unique), zap.Error(err))
			s.failures++
			return false, nil
		}
		if exists {
			s.logger.Debug("Record already exists", zap.Any("unique", unique))
			s.failures++
			return false, nil
		}
	}

	if s.cfg.DryRun {
		if len(unique) > 0 {
			key := s.uniqueKey(unique)
			if _, dup := s.seen[key]; dup {
				s.logger.Debug("Record already exists", zap.Any("unique", unique))
				s.failures++
				return false, nil
			}
			s.seen[key] = struct{}{}
		}
		return true, nil
	}

	ok, err := s.store.SaveOne(ctx, s.cfg.Table, values)
	if err != nil || !ok {
		s.logger.Warn("Record not saved", zap.Any("unique", unique), zap.Error(err))
		s.failures++
		return false, nil
	}
	return true, nil
}

// uniqueKey joins the unique values in field order.
func (s *OneByOne) uniqueKey(unique map[string]any) string {
	var b strings.Builder
	for _, f := range s.cfg.Fields {
		v, ok := unique[f.Attribute]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s=%v\x1f", f.Attribute, v)
	}
	return b.String()
}

// tableColumns returns the lowercased names of the table's columns when the
// store can list them. Attributes are matched against them case-insensitively.
func (s *OneByOne) tableColumns(ctx context.Context) (map[string]struct{}, error) {
	lister, ok := s.store.(ColumnLister)
	if !ok {
		return nil, nil
	}
	cols, err := lister.Columns(ctx, s.cfg.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns of %s: %w", s.cfg.Table, err)
	}
	if len(cols) == 0 {
		return nil, nil
	}
	set := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		set[strings.ToLower(c)] = struct{}{}
	}
	return set, nil
}
