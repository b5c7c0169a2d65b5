// Package validation evaluates declarative per-field rule tables against a
// decoded request body. A table either accepts the whole input, returning the
// normalised values, or rejects it with every field's messages.
package validation

import (
	"context"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// decimal.Decimal is a struct; expose it as a float so min/max tags work.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// Errors maps a field name to its human-readable messages.
type Errors map[string][]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e[field], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// First returns the first message recorded for field, or "".
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Field is one row of a rule table.
type Field struct {
	Name  string
	Rules []Rule
}

// Table is evaluated in order; a field appears in the output only when it
// was present in the input.
type Table []Field

// Validate never returns a partial result: on any failure the values are nil
// and the error is an Errors.
func (t Table) Validate(ctx context.Context, input map[string]any) (Values, error) {
	out := Values{}
	errs := Errors{}

	for _, field := range t {
		raw, present := input[field.Name]
		value := normalize(raw)
		attribute := strings.ReplaceAll(field.Name, "_", " ")

		if value == nil {
			if field.required() {
				errs.Add(field.Name, format(msgRequired, attribute))
			} else if present {
				out[field.Name] = nil
			}
			continue
		}

		failed := false
		for _, rule := range field.Rules {
			if rule.check == nil {
				continue
			}

			next, ok, err := rule.check(ctx, value)
			if err != nil {
				return nil, err
			}
			if !ok {
				failed = true
				errs.Add(field.Name, format(rule.message, attribute))
				if rule.bail {
					break
				}
				continue
			}
			value = next
		}

		if !failed {
			out[field.Name] = value
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func (f Field) required() bool {
	for _, rule := range f.Rules {
		if rule.name == ruleRequired {
			return true
		}
	}
	return false
}

// normalize trims strings and turns empty strings into nil, like the
// request middleware the forms were written against.
func normalize(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

func format(message, attribute string) string {
	return strings.ReplaceAll(message, ":attribute", attribute)
}
