package reconcile

import (
	"context"
	"fmt"
	"io"
	"strings"

	"csv-importer/core/utils"
)

// Row is one record of the external dataset: positional string fields.
type Row []string

// Get returns the field at index i, or "" when the row is too short.
func (r Row) Get(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// PersistedRow is one table row as column name to driver value.
type PersistedRow map[string]any

// String returns the column value in string form ("" for NULL or missing).
func (p PersistedRow) String(column string) string {
	return utils.ToString(p[column])
}

// ValueRecord maps attribute names to the values derived from one Row.
type ValueRecord map[string]any

// FieldConfig maps a Row to one named target attribute.
type FieldConfig struct {
	// Attribute is the target column name.
	Attribute string
	// Value derives the attribute value from a row.
	Value func(Row) any
	// Unique marks the attribute as part of the composite uniqueness key.
	Unique bool
	// RequiredNonEmpty rejects records whose value is nil or "".
	RequiredNonEmpty bool
}

// Column returns a value function reading the field at index i.
func Column(i int) func(Row) any {
	return func(r Row) any { return r.Get(i) }
}

// RowSource produces input rows in order. Next returns io.EOF when exhausted.
type RowSource interface {
	Next() (Row, error)
}

// SliceSource is a RowSource over rows already in memory.
type SliceSource struct {
	rows []Row
	pos  int
}

// NewSliceSource creates a RowSource over rows.
func NewSliceSource(rows ...Row) *SliceSource {
	return &SliceSource{rows: rows}
}

// Next implements RowSource. Consumed rows are released.
func (s *SliceSource) Next() (Row, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.rows[s.pos] = nil
	s.pos++
	return row, nil
}

// CollisionPolicy decides which row survives when two input rows share a key.
type CollisionPolicy string

const (
	// LastWriteWins keeps the later row. The key keeps its first position.
	LastWriteWins CollisionPolicy = "last_write_wins"
	// FirstWriteWins keeps the earlier row and ignores later ones.
	FirstWriteWins CollisionPolicy = "first_write_wins"
	// RejectCollisions fails the run with ErrKeyCollision.
	RejectCollisions CollisionPolicy = "reject"
)

// ParseCollisionPolicy converts a configuration string. Empty means LastWriteWins.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", LastWriteWins:
		return LastWriteWins, nil
	case FirstWriteWins:
		return FirstWriteWins, nil
	case RejectCollisions:
		return RejectCollisions, nil
	default:
		return "", &ConfigError{Field: "collision_policy", Reason: fmt.Sprintf("unknown policy %q", s)}
	}
}

// RequiredPolicy decides what happens when a required attribute is empty.
type RequiredPolicy string

const (
	// RequiredAbort fails the whole run on the first empty required value.
	RequiredAbort RequiredPolicy = "abort"
	// RequiredSkipRecord rejects only the offending record.
	RequiredSkipRecord RequiredPolicy = "skip_record"
)

// ParseRequiredPolicy converts a configuration string. Empty means RequiredAbort.
func ParseRequiredPolicy(s string) (RequiredPolicy, error) {
	switch RequiredPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", RequiredAbort:
		return RequiredAbort, nil
	case RequiredSkipRecord:
		return RequiredSkipRecord, nil
	default:
		return "", &ConfigError{Field: "required_policy", Reason: fmt.Sprintf("unknown policy %q", s)}
	}
}

// Config is the per-run configuration shared by the Reconciler and importers.
type Config struct {
	// Table is the persisted table name.
	Table string

	// Fields maps rows to attributes, in column order.
	Fields []FieldConfig

	// CSVKey derives the identity key of an input row.
	CSVKey func(Row) string

	// RowKey derives the identity key of a persisted row.
	RowKey func(PersistedRow) string

	// Skip, when set, marks input rows that must be treated as already correct.
	Skip func(Row) bool

	// MatchAttributes selects the persisted columns used to address an update.
	// If empty, the whole persisted row is used as the match constraint.
	MatchAttributes []string

	// MaxChunkSize bounds the rows sent in one bulk insert. <= 0 disables chunking.
	MaxChunkSize int

	// Collisions is the input key collision policy. Defaults to LastWriteWins.
	Collisions CollisionPolicy

	// Required is the empty required value policy. Defaults to RequiredAbort.
	Required RequiredPolicy

	// DryRun classifies rows without issuing any write. Unique values of rows
	// counted as created are remembered for the rest of the call, so a later
	// row repeating them is counted as a failure like it would be on a real run.
	DryRun bool
}

// validateFields checks the parts every importer needs.
func (c *Config) validateFields() error {
	if len(c.Fields) == 0 {
		return &ConfigError{Field: "fields"}
	}
	seen := make(map[string]struct{}, len(c.Fields))
	for i, f := range c.Fields {
		if f.Attribute == "" {
			return &ConfigError{Field: fmt.Sprintf("fields[%d].attribute", i)}
		}
		if f.Value == nil {
			return &ConfigError{Field: fmt.Sprintf("fields[%d].value", i)}
		}
		if _, dup := seen[f.Attribute]; dup {
			return &ConfigError{Field: fmt.Sprintf("fields[%d].attribute", i), Reason: "duplicate attribute " + f.Attribute}
		}
		seen[f.Attribute] = struct{}{}
	}
	if _, err := ParseCollisionPolicy(string(c.Collisions)); err != nil {
		return err
	}
	if _, err := ParseRequiredPolicy(string(c.Required)); err != nil {
		return err
	}
	return nil
}

// ValidateImport checks the configuration needed by an importer alone.
func (c *Config) ValidateImport() error {
	if c.Table == "" {
		return &ConfigError{Field: "table"}
	}
	return c.validateFields()
}

// Validate checks the configuration needed for a full reconciliation run.
func (c *Config) Validate() error {
	if err := c.ValidateImport(); err != nil {
		return err
	}
	if c.CSVKey == nil {
		return &ConfigError{Field: "csv_key"}
	}
	if c.RowKey == nil {
		return &ConfigError{Field: "row_key"}
	}
	return nil
}

func (c *Config) collisions() CollisionPolicy {
	p, _ := ParseCollisionPolicy(string(c.Collisions))
	return p
}

func (c *Config) required() RequiredPolicy {
	p, _ := ParseRequiredPolicy(string(c.Required))
	return p
}

func (c *Config) skip(row Row) bool {
	return c.Skip != nil && c.Skip(row)
}

// Result summarises one reconciliation run.
type Result struct {
	// New counts records created by the importer.
	New int `json:"new"`

	// Updated counts matched rows whose update was reported successful.
	Updated int `json:"updated"`

	// Unchanged counts matched rows that were equal or skipped.
	Unchanged int `json:"unchanged"`

	// Failed counts records whose write failed or was rejected.
	Failed int `json:"failed"`
}

// Importer persists input rows that have no persisted counterpart.
type Importer interface {
	// ImportNew writes rows and returns how many records were created.
	ImportNew(ctx context.Context, rows []Row) (int, error)
}

// FailureCounter is implemented by importers that report rejected records.
type FailureCounter interface {
	// Failures returns the number of records rejected by the last ImportNew call.
	Failures() int
}
