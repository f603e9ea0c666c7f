package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Driver:         DriverMySQL,
			Host:           "localhost",
			Port:           9999,
			User:           "root",
			Password:       "wrongpassword",
			Name:           "emulator",
			TimeoutSeconds: 1,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "oracle"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported database driver")
		assert.Nil(t, db)
	})

	t.Run("SQLite File", func(t *testing.T) {
		db, err := Connect(Config{Driver: DriverSQLite, Name: filepath.Join(t.TempDir(), "import.db")})
		require.NoError(t, err)
		assert.Equal(t, "sqlite", db.Dialector.Name())
	})

	t.Run("SQLite Requires Name", func(t *testing.T) {
		_, err := Connect(Config{Driver: DriverSQLite})
		assert.Error(t, err)
	})
}

func TestDialectorFor(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{"", "mysql"},
		{"MySQL", "mysql"},
		{"postgres", "postgres"},
		{"sqlite", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			d, err := dialectorFor(Config{Driver: tt.driver, Name: "db"}, 5)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestSqliteDSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"File", "import.db", "import.db?_journal_mode=WAL&_busy_timeout=5000"},
		{"Existing Query", "import.db?cache=shared", "import.db?cache=shared&_journal_mode=WAL&_busy_timeout=5000"},
		{"Explicit Journal Mode", "import.db?_journal_mode=DELETE", "import.db?_journal_mode=DELETE&_busy_timeout=5000"},
		{"Memory", ":memory:", ":memory:"},
		{"Shared Memory", "file::memory:?cache=shared", "file::memory:?cache=shared"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sqliteDSN(tt.in))
		})
	}
}
