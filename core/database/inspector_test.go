package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB with the MySQL dialect.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_items (id INTEGER PRIMARY KEY, name TEXT NOT NULL, Description TEXT DEFAULT 'none')").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_items")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	assert.Equal(t, ColumnInfo{Field: "id", Type: "integer", Null: "YES", Key: "PRI"}, columns[0])
	assert.Equal(t, "NO", columns[1].Null)
	assert.Equal(t, "description", columns[2].Field)
	require.NotNil(t, columns[2].Default)
	assert.Equal(t, "'none'", *columns[2].Default)

	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "INT(11)", "NO", "PRI", nil, "auto_increment").
		AddRow("Email", "VARCHAR(255)", "YES", "UNI", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `users`").WillReturnRows(rows)

	names, err := GetColumnNames(db, "users")

	require.NoError(t, err)
	assert.Equal(t, []string{"id", "email"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableColumns_Error(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `missing`").WillReturnError(assert.AnError)

	_, err := GetTableColumns(db, "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get columns for table missing")
}
