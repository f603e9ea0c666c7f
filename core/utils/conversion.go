package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ToInt converts driver and CSV values to int. Unparseable input yields 0.
func ToInt(val any) int {
	switch v := val.(type) {
	case nil:
		return 0
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint64:
		return int(v)
	case uint32:
		return int(v)
	case float64:
		return int(v)
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		i, _ := strconv.Atoi(strings.TrimSpace(ToString(v)))
		return i
	}
}

// ToString returns the string form of a driver value. nil becomes "".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.DateTime)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool accepts bool, 1/0 integers and "1"/"true"/"yes" strings.
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, int32, uint64, uint32:
		return ToInt(v) == 1
	default:
		s := strings.ToLower(strings.TrimSpace(ToString(v)))
		return s == "1" || s == "true" || s == "yes"
	}
}

// ToDecimal parses val as a decimal number.
func ToDecimal(val any) (decimal.Decimal, bool) {
	switch v := val.(type) {
	case nil, bool:
		return decimal.Decimal{}, false
	case decimal.Decimal:
		return v, true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case int32:
		return decimal.NewFromInt32(v), true
	case float64:
		return decimal.NewFromFloat(v), true
	case float32:
		return decimal.NewFromFloat32(v), true
	}
	s := strings.TrimSpace(ToString(val))
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// LooseEqual compares a persisted column value with a value derived from CSV
// input, tolerating the representation drift between drivers and text:
// nil equals "", numbers compare numerically and booleans match 1/0/true/false.
func LooseEqual(persisted, derived any) bool {
	if persisted == nil || derived == nil {
		return ToString(persisted) == ToString(derived)
	}

	if b, ok := persisted.(bool); ok {
		return boolMatches(b, derived)
	}
	if b, ok := derived.(bool); ok {
		return boolMatches(b, persisted)
	}

	ps, ds := ToString(persisted), ToString(derived)
	if ps == ds {
		return true
	}

	pd, pok := ToDecimal(persisted)
	dd, dok := ToDecimal(derived)
	if pok && dok {
		return pd.Equal(dd)
	}
	return false
}

func boolMatches(b bool, other any) bool {
	switch strings.ToLower(strings.TrimSpace(ToString(other))) {
	case "1", "true":
		return b
	case "0", "false", "":
		return !b
	default:
		return false
	}
}
