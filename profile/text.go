package profile

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Text accepts any value and records the range of lengths seen, counted
// in characters.
type Text struct {
	MinLength *int `json:"min_length"`
	MaxLength *int `json:"max_length"`
}

func (v *Text) Validate(value string) error {
	return nil
}

func (v *Text) Consider(value string) error {
	n := utf8.RuneCountInString(value)

	if v.MinLength == nil || n < *v.MinLength {
		v.MinLength = &n
	}

	if v.MaxLength == nil || n > *v.MaxLength {
		hi := n
		v.MaxLength = &hi
	}

	return nil
}

// Literal accepts only the values it was created with. Matching on
// "true" and "false", for example, gives a boolean type.
type Literal struct {
	Values []string `json:"values"`
}

func NewLiteral(values ...string) *Literal {
	return &Literal{Values: values}
}

func (v *Literal) Validate(value string) error {
	for _, l := range v.Values {
		if l == value {
			return nil
		}
	}

	return fmt.Errorf("%w: %q not in %q", ErrLiteral, value, v.Values)
}

func (v *Literal) Consider(value string) error {
	return v.Validate(value)
}

// IsBool returns true if the literals are "true" and "false", in any case
// and order.
func (v *Literal) IsBool() bool {
	if len(v.Values) != 2 {
		return false
	}

	a, b := strings.ToLower(v.Values[0]), strings.ToLower(v.Values[1])
	return (a == "true" && b == "false") || (a == "false" && b == "true")
}
