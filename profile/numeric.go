package profile

import (
	"fmt"
	"strings"
)

// Integer accepts base 10 signed integers. The domain is int64: larger
// values fail to parse and leave only Float and Text as candidates, so
// loaders store them as floats or text.
//
// LeadingZeros is set when a value is zero padded, such as "02134". The
// values still count as integers but loaders keep them as text.
type Integer struct {
	MinValue     *int64 `json:"min_value"`
	MaxValue     *int64 `json:"max_value"`
	LeadingPlus  bool   `json:"leading_plus"`
	LeadingZeros bool   `json:"leading_zeros,omitempty"`
}

// hasLeadingZeros returns true for integers written with padding zeros.
func hasLeadingZeros(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0'
}

func (v *Integer) Validate(value string) error {
	i, ok := ParseInt(value)
	if !ok {
		return fmt.Errorf("%w: %q is not an integer", ErrParse, value)
	}

	if v.MinValue != nil && i < *v.MinValue {
		return fmt.Errorf("%w: %d is less than %d", ErrOutOfRange, i, *v.MinValue)
	}

	if v.MaxValue != nil && i > *v.MaxValue {
		return fmt.Errorf("%w: %d is greater than %d", ErrOutOfRange, i, *v.MaxValue)
	}

	return nil
}

func (v *Integer) Consider(value string) error {
	i, ok := ParseInt(value)
	if !ok {
		return fmt.Errorf("%w: %q is not an integer", ErrParse, value)
	}

	if v.MinValue == nil || i < *v.MinValue {
		v.MinValue = &i
	}

	if v.MaxValue == nil || i > *v.MaxValue {
		hi := i
		v.MaxValue = &hi
	}

	if strings.HasPrefix(value, "+") {
		v.LeadingPlus = true
	}

	if hasLeadingZeros(value) {
		v.LeadingZeros = true
	}

	return nil
}

// Float accepts finite decimal floating point numbers, including integers
// and exponent notation.
type Float struct {
	MinValue    *float64 `json:"min_value"`
	MaxValue    *float64 `json:"max_value"`
	LeadingPlus bool     `json:"leading_plus"`
	ENotation   bool     `json:"e_notation"`
}

func (v *Float) Validate(value string) error {
	f, ok := ParseFloat(value)
	if !ok {
		return fmt.Errorf("%w: %q is not a float", ErrParse, value)
	}

	if v.MinValue != nil && f < *v.MinValue {
		return fmt.Errorf("%w: %g is less than %g", ErrOutOfRange, f, *v.MinValue)
	}

	if v.MaxValue != nil && f > *v.MaxValue {
		return fmt.Errorf("%w: %g is greater than %g", ErrOutOfRange, f, *v.MaxValue)
	}

	return nil
}

func (v *Float) Consider(value string) error {
	f, ok := ParseFloat(value)
	if !ok {
		return fmt.Errorf("%w: %q is not a float", ErrParse, value)
	}

	if v.MinValue == nil || f < *v.MinValue {
		v.MinValue = &f
	}

	if v.MaxValue == nil || f > *v.MaxValue {
		hi := f
		v.MaxValue = &hi
	}

	if strings.HasPrefix(value, "+") {
		v.LeadingPlus = true
	}

	if strings.ContainsAny(value, "eE") {
		v.ENotation = true
	}

	return nil
}
