package imports

import (
	"testing"

	"csv-importer/feature/profile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}
	return gormDB, mock
}

func furnitureColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "int(11)", "NO", "PRI", nil, "auto_increment").
		AddRow("item_name", "varchar(70)", "NO", "", nil, "").
		AddRow("type", "enum('s','i','e')", "NO", "", "s", "").
		AddRow("width", "varchar(10)", "NO", "", "1", "")
}

func furnitureCheckProfile() profile.Profile {
	return profile.Profile{
		Name:  "items",
		Table: "items_base",
		Key:   []string{"item_name"},
		Match: []string{"id"},
		Fields: []profile.Field{
			{Column: 0, Attribute: "item_name", Type: "varchar"},
			{Column: 1, Attribute: "type", Type: "enum('s','i')"},
			{Column: 2, Attribute: "width", Type: "int"},
			{Column: 3, Attribute: "allow_sit"},
		},
	}
}

func TestCheckSchema_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `items_base`").WillReturnRows(furnitureColumns())

	report, err := CheckSchema(db, furnitureCheckProfile())
	require.NoError(t, err)

	assert.False(t, report.Matched)
	assert.Equal(t, "error", report.Status)
	assert.Equal(t, []string{"allow_sit"}, report.MissingColumns)
	assert.Equal(t, []string{"width: expected int, got varchar(10)"}, report.TypeMismatches)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSchema_InspectError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `items_base`").WillReturnError(assert.AnError)

	report, err := CheckSchema(db, furnitureCheckProfile())
	require.NoError(t, err)
	assert.False(t, report.Matched)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "Failed to inspect table items_base")
}

func TestCheckSchema_MissingTable(t *testing.T) {
	db := setupDB(t)
	p := usersProfile()
	p.Table = "accounts"

	report, err := CheckSchema(db, p)
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Equal(t, []string{"Table accounts does not exist"}, report.Errors)
}

func TestCheckSchema_NoDatabase(t *testing.T) {
	_, err := CheckSchema(nil, usersProfile())
	assert.ErrorIs(t, err, ErrDatabaseUnavailable)
}
