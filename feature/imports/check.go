package imports

import (
	"fmt"
	"strings"

	"csv-importer/core/database"
	"csv-importer/feature/profile"

	"gorm.io/gorm"
)

// SchemaReport is the result of comparing a profile with its live table.
type SchemaReport struct {
	Profile        string   `json:"profile"`
	Table          string   `json:"table"`
	Matched        bool     `json:"matched"`
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
	Errors         []string `json:"errors,omitempty"`
}

// CheckSchema verifies that every attribute the profile writes or matches on
// exists in the table and, where the profile names a type, loosely has it.
func CheckSchema(db *gorm.DB, p profile.Profile) (*SchemaReport, error) {
	if db == nil {
		return nil, ErrDatabaseUnavailable
	}

	report := &SchemaReport{
		Profile:        p.Name,
		Table:          p.Table,
		Matched:        true,
		MissingColumns: []string{},
		TypeMismatches: []string{},
		Status:         "ok",
	}

	actualCols, err := database.GetTableColumns(db, p.Table)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", p.Table, err))
		report.Matched = false
		report.Status = "error"
		return report, nil
	}
	if len(actualCols) == 0 {
		report.Errors = append(report.Errors, fmt.Sprintf("Table %s does not exist", p.Table))
		report.Matched = false
		report.Status = "error"
		return report, nil
	}

	actual := make(map[string]database.ColumnInfo, len(actualCols))
	for _, col := range actualCols {
		actual[col.Field] = col
	}

	expectedTypes := make(map[string]string, len(p.Fields))
	for _, f := range p.Fields {
		expectedTypes[f.Attribute] = strings.ToLower(f.Type)
	}

	for _, attr := range p.Attributes() {
		col, ok := actual[strings.ToLower(attr)]
		if !ok {
			report.MissingColumns = append(report.MissingColumns, attr)
			report.Status = "error"
			report.Matched = false
			continue
		}

		expType := expectedTypes[attr]
		if expType == "" {
			continue
		}
		// Enum value lists differ between installs; only the kind is compared.
		if strings.HasPrefix(expType, "enum") && strings.HasPrefix(col.Type, "enum") {
			continue
		}
		if !strings.Contains(col.Type, expType) {
			report.TypeMismatches = append(report.TypeMismatches,
				fmt.Sprintf("%s: expected %s, got %s", attr, expType, col.Type))
			report.Status = "error"
			report.Matched = false
		}
	}

	return report, nil
}
