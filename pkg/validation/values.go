package validation

import "github.com/shopspring/decimal"

// Values holds the accepted, typed input of a successful Validate call.
type Values map[string]any

func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// OptionalString returns nil for absent or null fields.
func (v Values) OptionalString(key string) *string {
	s, ok := v[key].(string)
	if !ok {
		return nil
	}
	return &s
}

// Bool returns def when the field was absent or null.
func (v Values) Bool(key string, def bool) bool {
	b, ok := v[key].(bool)
	if !ok {
		return def
	}
	return b
}

func (v Values) Decimal(key string) decimal.Decimal {
	d, _ := v[key].(decimal.Decimal)
	return d
}

func (v Values) Int(key string) int64 {
	i, _ := v[key].(int64)
	return i
}

func (v Values) OptionalInt(key string) *int64 {
	i, ok := v[key].(int64)
	if !ok {
		return nil
	}
	return &i
}
