package profile

import "fmt"

// Empty matches values with no characters. It is the default null
// sentinel.
type Empty struct{}

func (v *Empty) Validate(value string) error {
	if len(value) != 0 {
		return fmt.Errorf("%w: %q", ErrNotEmpty, value)
	}
	return nil
}

func (v *Empty) Consider(value string) error {
	return v.Validate(value)
}
