package profile

import (
	"strconv"
	"strings"

	"csv-importer/core/utils"

	"github.com/shopspring/decimal"
)

// Transform names accepted in profile fields.
const (
	TransformNone        = "none"
	TransformTrim        = "trim"
	TransformLower       = "lower"
	TransformUpper       = "upper"
	TransformInt         = "int"
	TransformDecimal     = "decimal"
	TransformBool        = "bool"
	TransformNullIfEmpty = "null_if_empty"
)

// transformFunc converts a raw CSV field into the attribute value.
type transformFunc func(string) any

var transforms = map[string]transformFunc{
	"":                   func(s string) any { return s },
	TransformNone:        func(s string) any { return s },
	TransformTrim:        func(s string) any { return strings.TrimSpace(s) },
	TransformLower:       func(s string) any { return strings.ToLower(s) },
	TransformUpper:       func(s string) any { return strings.ToUpper(s) },
	TransformInt:         toInt,
	TransformDecimal:     toDecimal,
	TransformBool:        func(s string) any { return utils.ToBool(s) },
	TransformNullIfEmpty: nullIfEmpty,
}

// lookupTransform returns the named transform, or false when unknown.
func lookupTransform(name string) (transformFunc, bool) {
	fn, ok := transforms[strings.ToLower(name)]
	return fn, ok
}

// Unparseable numbers are passed through so the database reports them.
func toInt(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return s
	}
	return i
}

func toDecimal(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return d
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
