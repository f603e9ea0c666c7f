package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLooseEqual(t *testing.T) {
	tests := []struct {
		name      string
		persisted any
		derived   any
		want      bool
	}{
		{"identical strings", "abc", "abc", true},
		{"different strings", "abc", "abd", false},
		{"nil and empty", nil, "", true},
		{"empty and nil", "", nil, true},
		{"nil and value", nil, "x", false},
		{"bytes and string", []byte("Y"), "Y", true},
		{"int64 and string", int64(42), "42", true},
		{"float and padded decimal", float64(10.5), "10.50", true},
		{"decimal strings", []byte("1.000"), "1", true},
		{"numeric mismatch", int64(1), "2", false},
		{"bool true and 1", true, "1", true},
		{"bool false and 0", false, "0", true},
		{"bool false and true", false, "true", false},
		{"string bool", "1", true, true},
		{"text not numeric", "1a", "1", false},
		{"time and formatted", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02 03:04:05", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooseEqual(tt.persisted, tt.derived))
		})
	}
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 12, ToInt(" 12 "))
	assert.Equal(t, 7, ToInt(int64(7)))
	assert.Equal(t, 3, ToInt([]byte("3")))
	assert.Equal(t, 1, ToInt(true))
	assert.Equal(t, 0, ToInt("abc"))
	assert.Equal(t, 0, ToInt(nil))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool("1"))
	assert.True(t, ToBool("TRUE"))
	assert.True(t, ToBool("yes"))
	assert.True(t, ToBool(int64(1)))
	assert.False(t, ToBool("0"))
	assert.False(t, ToBool(nil))
}

func TestToDecimal(t *testing.T) {
	d, ok := ToDecimal("3.140")
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("3.14")))

	_, ok = ToDecimal("")
	assert.False(t, ok)

	_, ok = ToDecimal("pi")
	assert.False(t, ok)
}
