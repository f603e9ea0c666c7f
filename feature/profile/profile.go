package profile

import (
	"errors"
	"fmt"
	"strings"

	"csv-importer/core/reconcile"
	"csv-importer/core/utils"
)

// ErrUnknownProfile is returned when no profile has the requested name.
var ErrUnknownProfile = errors.New("unknown import profile")

// Strategy names for importing records without a persisted counterpart.
const (
	StrategyOneByOne = "one_by_one"
	StrategyBulk     = "bulk"
)

// keySeparator joins composite key parts.
const keySeparator = "\x1f"

// Field maps one CSV column to one table attribute.
type Field struct {
	// Column is the zero-based CSV column index.
	Column int `mapstructure:"column" json:"column" validate:"gte=0"`
	// Attribute is the target table column.
	Attribute string `mapstructure:"attribute" json:"attribute" validate:"required"`
	// Transform converts the raw text before it is compared or written.
	Transform string `mapstructure:"transform" json:"transform,omitempty" validate:"omitempty,oneof=none trim lower upper int decimal bool null_if_empty"`
	// Unique makes the attribute part of the record's uniqueness key.
	Unique bool `mapstructure:"unique" json:"unique,omitempty"`
	// Required rejects records whose value is empty.
	Required bool `mapstructure:"required" json:"required,omitempty"`
	// Type is the expected column type, checked loosely against the schema.
	Type string `mapstructure:"type" json:"type,omitempty"`
}

// Profile is a named import definition for one table.
type Profile struct {
	Name        string `mapstructure:"name" json:"name" validate:"required"`
	Description string `mapstructure:"description" json:"description,omitempty"`
	Table       string `mapstructure:"table" json:"table" validate:"required"`
	// Key lists the attributes identifying a record on both sides.
	Key    []string `mapstructure:"key" json:"key" validate:"required,min=1,dive,required"`
	Fields []Field  `mapstructure:"fields" json:"fields" validate:"required,min=1,dive"`
	// Match lists the columns addressing an update. Empty uses the whole row.
	Match []string `mapstructure:"match" json:"match,omitempty" validate:"dive,required"`
	// SkipIfEmpty lists CSV columns; a row with any of them empty is left alone.
	SkipIfEmpty []int `mapstructure:"skip_if_empty" json:"skip_if_empty,omitempty" validate:"dive,gte=0"`
	// Strategy selects how new records are written: one_by_one or bulk.
	Strategy        string `mapstructure:"strategy" json:"strategy,omitempty" validate:"omitempty,oneof=one_by_one bulk"`
	CollisionPolicy string `mapstructure:"collision_policy" json:"collision_policy,omitempty" validate:"omitempty,oneof=last_write_wins first_write_wins reject"`
	RequiredPolicy  string `mapstructure:"required_policy" json:"required_policy,omitempty" validate:"omitempty,oneof=abort skip_record"`
	MaxChunkSize    int    `mapstructure:"max_chunk_size" json:"max_chunk_size,omitempty" validate:"gte=0"`
}

// Defaults are the configured values used where a profile is silent.
type Defaults struct {
	MaxChunkSize    int
	CollisionPolicy string
	RequiredPolicy  string
}

// Attributes returns every table column the profile touches.
func (p *Profile) Attributes() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(a string) {
		if _, ok := seen[a]; !ok {
			seen[a] = struct{}{}
			out = append(out, a)
		}
	}
	for _, f := range p.Fields {
		add(f.Attribute)
	}
	for _, m := range p.Match {
		add(m)
	}
	return out
}

// UsesBulk reports whether new records are written with multi-row inserts.
func (p *Profile) UsesBulk() bool {
	return p.Strategy == StrategyBulk
}

// field returns the field mapped to attribute.
func (p *Profile) field(attribute string) (Field, bool) {
	for _, f := range p.Fields {
		if f.Attribute == attribute {
			return f, true
		}
	}
	return Field{}, false
}

// check validates what struct tags cannot express.
func (p *Profile) check() error {
	seen := make(map[string]struct{}, len(p.Fields))
	for _, f := range p.Fields {
		if _, dup := seen[f.Attribute]; dup {
			return fmt.Errorf("profile %s: duplicate attribute %s", p.Name, f.Attribute)
		}
		seen[f.Attribute] = struct{}{}
	}
	for _, k := range p.Key {
		if _, ok := seen[k]; !ok {
			return fmt.Errorf("profile %s: key attribute %s is not a mapped field", p.Name, k)
		}
	}
	return nil
}

// Config builds the engine configuration for this profile.
func (p *Profile) Config(d Defaults) (reconcile.Config, error) {
	if err := p.check(); err != nil {
		return reconcile.Config{}, err
	}

	fields := make([]reconcile.FieldConfig, len(p.Fields))
	for i, f := range p.Fields {
		fn, ok := lookupTransform(f.Transform)
		if !ok {
			return reconcile.Config{}, fmt.Errorf("profile %s: unknown transform %q", p.Name, f.Transform)
		}
		col := f.Column
		fields[i] = reconcile.FieldConfig{
			Attribute:        f.Attribute,
			Value:            func(r reconcile.Row) any { return fn(r.Get(col)) },
			Unique:           f.Unique,
			RequiredNonEmpty: f.Required,
		}
	}

	csvKey, rowKey := p.keyFuncs()

	cfg := reconcile.Config{
		Table:           p.Table,
		Fields:          fields,
		CSVKey:          csvKey,
		RowKey:          rowKey,
		MatchAttributes: p.Match,
		MaxChunkSize:    firstPositive(p.MaxChunkSize, d.MaxChunkSize, reconcile.DefaultMaxChunkSize),
		Collisions:      reconcile.CollisionPolicy(firstNonEmpty(p.CollisionPolicy, d.CollisionPolicy)),
		Required:        reconcile.RequiredPolicy(firstNonEmpty(p.RequiredPolicy, d.RequiredPolicy)),
	}
	if len(p.SkipIfEmpty) > 0 {
		cols := p.SkipIfEmpty
		cfg.Skip = func(r reconcile.Row) bool {
			for _, c := range cols {
				if strings.TrimSpace(r.Get(c)) == "" {
					return true
				}
			}
			return false
		}
	}

	if err := cfg.Validate(); err != nil {
		return reconcile.Config{}, fmt.Errorf("profile %s: %w", p.Name, err)
	}
	return cfg, nil
}

// keyFuncs derives both key functions from the key attributes. Each part is
// normalised with the field's transform so "007" in a CSV int column and 7 in
// the table produce the same key.
func (p *Profile) keyFuncs() (func(reconcile.Row) string, func(reconcile.PersistedRow) string) {
	type part struct {
		attribute string
		column    int
		fn        transformFunc
	}
	parts := make([]part, len(p.Key))
	for i, k := range p.Key {
		f, _ := p.field(k)
		fn, _ := lookupTransform(f.Transform)
		parts[i] = part{attribute: k, column: f.Column, fn: fn}
	}

	csvKey := func(r reconcile.Row) string {
		s := make([]string, len(parts))
		for i, pt := range parts {
			s[i] = utils.ToString(pt.fn(r.Get(pt.column)))
		}
		return strings.Join(s, keySeparator)
	}
	rowKey := func(row reconcile.PersistedRow) string {
		s := make([]string, len(parts))
		for i, pt := range parts {
			s[i] = utils.ToString(pt.fn(row.String(pt.attribute)))
		}
		return strings.Join(s, keySeparator)
	}
	return csvKey, rowKey
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
