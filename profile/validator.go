package profile

import "errors"

var (
	ErrParse       = errors.New("cannot parse value")
	ErrOutOfRange  = errors.New("value out of observed range")
	ErrExhausted   = errors.New("no format matches value")
	ErrDuplicate   = errors.New("duplicate value")
	ErrLiteral     = errors.New("value is not an allowed literal")
	ErrNotEmpty    = errors.New("value is not empty")
	ErrUnknownType = errors.New("unknown data type")
)

// Validator decides whether raw text values are compatible with a type.
type Validator interface {
	// Validate checks value against the current state without changing it.
	Validate(value string) error

	// Consider accepts value into the state, widening it as needed. A
	// non-nil error means the type cannot describe the value and the state
	// should no longer be relied on.
	Consider(value string) error
}

// Func is a validator backed by a caller supplied function. The same
// function is used for Validate and Consider.
type Func struct {
	Name string
	Fn   func(value string) error
}

func (f *Func) Validate(value string) error {
	if f.Fn == nil {
		return ErrUnknownType
	}
	return f.Fn(value)
}

func (f *Func) Consider(value string) error {
	return f.Validate(value)
}
