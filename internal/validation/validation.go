// Package validation runs ordered field rules against request input and
// accumulates every failure. It does not depend on any HTTP framework.
//
// A Chain is a list of Rules. Every Rule runs, even after an earlier one
// failed, and every failed check inside a Rule is reported:
//
//	chain := validation.Chain{
//		validation.Body("price").
//			Numeric("invalid value").
//			NotEmpty("price cannot be empty").
//			Positive("invalid price").
//			Rule(),
//	}
//	errs := chain.Run(validation.Input{Body: body})
package validation

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Location names the part of the request a field was read from.
type Location string

const (
	LocationBody   Location = "body"
	LocationParams Location = "params"
)

// FieldError describes one failed check.
type FieldError struct {
	Type     string   `json:"type"`
	Value    any      `json:"value,omitempty"`
	Msg      string   `json:"msg"`
	Path     string   `json:"path"`
	Location Location `json:"location"`
}

// Input is the raw request data rules are evaluated against.
type Input struct {
	Body   map[string]any
	Params map[string]string
}

// Rule inspects the input and returns the checks that failed.
type Rule func(in Input) []FieldError

// Chain is an ordered list of rules.
type Chain []Rule

// Run evaluates every rule in order and returns all failures.
// A nil result means the input passed.
func (c Chain) Run(in Input) []FieldError {
	var errs []FieldError
	for _, rule := range c {
		errs = append(errs, rule(in)...)
	}
	return errs
}

var (
	validate  = newValidator()
	integerRE = regexp.MustCompile(`^[-+]?[0-9]+$`)
	numericRE = regexp.MustCompile(`^[-+]?([0-9]*[.])?[0-9]+$`)
)

const (
	tagRequired = "required"
	tagNumeric  = "numeric_text"
	tagBoolean  = "boolean_text"
	tagPositive = "positive_number"
	tagInteger  = "integer_text"
)

// Custom tags operate on the textual form produced by Text. Leading zeros and
// a bare fractional part (".5") are accepted; booleans are strict.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation(tagPositive, func(fl validator.FieldLevel) bool {
		f, err := strconv.ParseFloat(fl.Field().String(), 64)
		return err == nil && f > 0
	})
	_ = v.RegisterValidation(tagInteger, func(fl validator.FieldLevel) bool {
		return integerRE.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(tagNumeric, func(fl validator.FieldLevel) bool {
		return numericRE.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(tagBoolean, func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "true", "false", "1", "0":
			return true
		}
		return false
	})
	return v
}

type check struct {
	tag string
	msg string
}

// FieldRules collects checks for a single field.
type FieldRules struct {
	field    string
	location Location
	checks   []check
}

// Body starts a rule set for a JSON body field.
func Body(field string) *FieldRules {
	return &FieldRules{field: field, location: LocationBody}
}

// Param starts a rule set for a path parameter.
func Param(field string) *FieldRules {
	return &FieldRules{field: field, location: LocationParams}
}

// NotEmpty requires the field to be present and non-empty.
func (f *FieldRules) NotEmpty(msg string) *FieldRules { return f.add(tagRequired, msg) }

// Numeric requires the field to be a number.
func (f *FieldRules) Numeric(msg string) *FieldRules { return f.add(tagNumeric, msg) }

// Positive requires the field to be a number strictly greater than zero.
func (f *FieldRules) Positive(msg string) *FieldRules { return f.add(tagPositive, msg) }

// Boolean requires the field to be true, false, 1 or 0.
func (f *FieldRules) Boolean(msg string) *FieldRules { return f.add(tagBoolean, msg) }

// Int requires the field to be a whole number, optionally signed.
func (f *FieldRules) Int(msg string) *FieldRules { return f.add(tagInteger, msg) }

func (f *FieldRules) add(tag, msg string) *FieldRules {
	f.checks = append(f.checks, check{tag: tag, msg: msg})
	return f
}

// Rule freezes the collected checks into a Rule.
func (f *FieldRules) Rule() Rule {
	checks := append([]check(nil), f.checks...)
	field, location := f.field, f.location

	return func(in Input) []FieldError {
		raw, present := lookup(in, field, location)
		text := Text(raw)

		var errs []FieldError
		for _, c := range checks {
			if err := validate.Var(text, c.tag); err == nil {
				continue
			}
			fe := FieldError{
				Type:     "field",
				Msg:      c.msg,
				Path:     field,
				Location: location,
			}
			if present {
				fe.Value = raw
			}
			errs = append(errs, fe)
		}
		return errs
	}
}

func lookup(in Input, field string, location Location) (any, bool) {
	switch location {
	case LocationParams:
		v, ok := in.Params[field]
		return v, ok
	default:
		v, ok := in.Body[field]
		return v, ok
	}
}

// Text renders a decoded JSON value the way rules see it: missing values are
// empty, numbers use their shortest decimal form, and composite values are
// their JSON encoding.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Float parses a value that passed the Numeric rule.
func Float(v any) (float64, error) {
	return strconv.ParseFloat(Text(v), 64)
}

// Bool parses a value that passed the Boolean rule.
func Bool(v any) (bool, error) {
	return strconv.ParseBool(Text(v))
}
