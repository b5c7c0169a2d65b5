package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	ruleRequired = "required"

	msgRequired = "The :attribute field is required."
	msgString   = "The :attribute field must be a string."
	msgNumeric  = "The :attribute field must be a number."
	msgInteger  = "The :attribute field must be an integer."
	msgBoolean  = "The :attribute field must be true or false."
	msgMax      = "The :attribute field must not be greater than %d characters."
	msgMin      = "The :attribute field must be at least %s."
	msgMaxValue = "The :attribute field must not be greater than %s."
	msgIn       = "The selected :attribute is invalid."
)

// CheckFunc reports whether value satisfies a rule. A non-nil error aborts
// the whole validation (e.g. the database is unreachable).
type CheckFunc func(ctx context.Context, value any) (bool, error)

// Rule is a predicate plus the message reported when it fails. Type rules
// also convert the value so later rules see a typed value.
type Rule struct {
	name    string
	message string
	bail    bool
	check   func(ctx context.Context, value any) (any, bool, error)
}

// Bail stops evaluating the field's remaining rules after this one fails.
func (r Rule) Bail() Rule {
	r.bail = true
	return r
}

func Required() Rule {
	return Rule{name: ruleRequired, message: msgRequired}
}

func String() Rule {
	return Rule{
		name:    "string",
		message: msgString,
		bail:    true,
		check: func(_ context.Context, v any) (any, bool, error) {
			s, ok := v.(string)
			return s, ok, nil
		},
	}
}

// Numeric accepts JSON numbers and numeric strings and yields a decimal.Decimal.
func Numeric() Rule {
	return Rule{
		name:    "numeric",
		message: msgNumeric,
		bail:    true,
		check: func(_ context.Context, v any) (any, bool, error) {
			d, ok := toDecimal(v)
			return d, ok, nil
		},
	}
}

// Integer accepts whole JSON numbers and integer strings and yields an int64.
func Integer() Rule {
	return Rule{
		name:    "integer",
		message: msgInteger,
		bail:    true,
		check: func(_ context.Context, v any) (any, bool, error) {
			i, ok := toInt64(v)
			return i, ok, nil
		},
	}
}

// Boolean accepts true, false, 1, 0, "1" and "0".
func Boolean() Rule {
	return Rule{
		name:    "boolean",
		message: msgBoolean,
		bail:    true,
		check: func(_ context.Context, v any) (any, bool, error) {
			b, ok := toBool(v)
			return b, ok, nil
		},
	}
}

// Max limits the length of a string, counted in characters.
func Max(n int) Rule {
	return Tag("max", fmt.Sprintf("max=%d", n), fmt.Sprintf(msgMax, n))
}

// Min sets the lower bound of a numeric value.
func Min(n int) Rule {
	return Tag("min", fmt.Sprintf("min=%d", n), fmt.Sprintf(msgMin, strconv.Itoa(n)))
}

// MaxNumber sets the upper bound of a numeric value. It compares exactly, so
// a bound such as 99999999.99 is not blurred by float conversion.
func MaxNumber(limit decimal.Decimal) Rule {
	return Rule{
		name:    "max",
		message: fmt.Sprintf(msgMaxValue, limit.String()),
		check: func(_ context.Context, v any) (any, bool, error) {
			d, ok := toDecimal(v)
			return v, ok && d.LessThanOrEqual(limit), nil
		},
	}
}

// In restricts a string to a fixed set of values.
func In(values ...string) Rule {
	return Tag("in", "oneof="+strings.Join(values, " "), msgIn)
}

// Tag evaluates a validator tag against the (already typed) value.
func Tag(name, tag, message string) Rule {
	return Rule{
		name:    name,
		message: message,
		check: func(ctx context.Context, v any) (any, bool, error) {
			if err := validate.VarCtx(ctx, v, tag); err != nil {
				return v, false, nil
			}
			return v, true, nil
		},
	}
}

// Custom runs an arbitrary check, typically a database lookup.
func Custom(name, message string, fn CheckFunc) Rule {
	return Rule{
		name:    name,
		message: message,
		check: func(ctx context.Context, v any) (any, bool, error) {
			ok, err := fn(ctx, v)
			return v, ok, err
		},
	}
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(n)
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case float64:
		if b == 0 || b == 1 {
			return b == 1, true
		}
	case int:
		if b == 0 || b == 1 {
			return b == 1, true
		}
	case string:
		if b == "0" || b == "1" {
			return b == "1", true
		}
	}
	return false, false
}
