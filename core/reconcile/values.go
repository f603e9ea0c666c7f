package reconcile

import (
	"csv-importer/core/utils"
)

// Values applies every FieldConfig to row. It does not check required flags.
func Values(fields []FieldConfig, row Row) ValueRecord {
	values := make(ValueRecord, len(fields))
	for _, f := range fields {
		values[f.Attribute] = f.Value(row)
	}
	return values
}

// Attributes returns the attribute names in FieldConfig order.
func Attributes(fields []FieldConfig) []string {
	attrs := make([]string, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, f.Attribute)
	}
	return attrs
}

// UniqueAttributes returns the attributes flagged Unique, in FieldConfig order.
func UniqueAttributes(fields []FieldConfig) []string {
	var attrs []string
	for _, f := range fields {
		if f.Unique {
			attrs = append(attrs, f.Attribute)
		}
	}
	return attrs
}

// checkRequired returns a RequiredValueError for the first required attribute
// whose value is empty.
func checkRequired(fields []FieldConfig, values ValueRecord, key string) error {
	for _, f := range fields {
		if f.RequiredNonEmpty && isEmpty(values[f.Attribute]) {
			return &RequiredValueError{Attribute: f.Attribute, Key: key}
		}
	}
	return nil
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []byte:
		return len(t) == 0
	default:
		return false
	}
}

// changed reports whether any attribute in values differs from the persisted row.
// Attributes absent from the row compare against nil.
func changed(row PersistedRow, values ValueRecord) bool {
	for attr, v := range values {
		if !utils.LooseEqual(row[attr], v) {
			return true
		}
	}
	return false
}

// tuple returns values ordered by columns.
func tuple(columns []string, values ValueRecord) []any {
	t := make([]any, len(columns))
	for i, c := range columns {
		t[i] = values[c]
	}
	return t
}
