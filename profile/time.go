package profile

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDateFormats are tried in order by a new Date.
var DefaultDateFormats = []string{
	"%Y-%m-%d",
	"%d-%m-%Y",
	"%d/%m/%Y",
	"%m/%d/%Y",
	"%d/%m/%y",
	"%m/%d/%y",
}

// DefaultTimeFormats are tried in order by a new Time.
var DefaultTimeFormats = []string{
	"T%H:%M:%S",
	"%H:%M:%S",
	"%H:%M",
	"%I:%M%p",
}

// retain returns the formats under which value parses.
func retain(formats []string, value string) []string {
	var kept []string
	for _, f := range formats {
		if _, ok := ParseStrftime(f, value); ok {
			kept = append(kept, f)
		}
	}
	return kept
}

func matchesAny(formats []string, value string) bool {
	for _, f := range formats {
		if _, ok := ParseStrftime(f, value); ok {
			return true
		}
	}
	return false
}

// Date accepts calendar dates in any of its remaining strftime formats.
// Each considered value removes the formats it does not match.
type Date struct {
	Formats []string `json:"formats"`
}

func NewDate(formats ...string) *Date {
	if len(formats) == 0 {
		formats = DefaultDateFormats
	}
	return &Date{Formats: append([]string(nil), formats...)}
}

func (v *Date) Validate(value string) error {
	if !matchesAny(v.Formats, value) {
		return fmt.Errorf("%w: %q does not match any of %q", ErrExhausted, value, v.Formats)
	}
	return nil
}

func (v *Date) Consider(value string) error {
	kept := retain(v.Formats, value)
	if len(kept) == 0 {
		err := fmt.Errorf("%w: %q does not match any of %q", ErrExhausted, value, v.Formats)
		v.Formats = nil
		return err
	}

	v.Formats = kept
	return nil
}

// Time accepts times of day in any of its remaining strftime formats.
type Time struct {
	Formats []string `json:"formats"`
}

func NewTime(formats ...string) *Time {
	if len(formats) == 0 {
		formats = DefaultTimeFormats
	}
	return &Time{Formats: append([]string(nil), formats...)}
}

func (v *Time) Validate(value string) error {
	if !matchesAny(v.Formats, value) {
		return fmt.Errorf("%w: %q does not match any of %q", ErrExhausted, value, v.Formats)
	}
	return nil
}

func (v *Time) Consider(value string) error {
	kept := retain(v.Formats, value)
	if len(kept) == 0 {
		err := fmt.Errorf("%w: %q does not match any of %q", ErrExhausted, value, v.Formats)
		v.Formats = nil
		return err
	}

	v.Formats = kept
	return nil
}

// DateTimeKind is the family of a DateTimeFormat.
type DateTimeKind uint8

const (
	RFC2822 DateTimeKind = iota + 1
	RFC3339
	Strftime
	Unix
)

// DateTimeFormat is one way of writing a point in time. Layout is only
// used by the Strftime kind.
type DateTimeFormat struct {
	Kind   DateTimeKind
	Layout string
}

// StrftimeFormat returns a format parsing values with the strftime layout.
func StrftimeFormat(layout string) DateTimeFormat {
	return DateTimeFormat{Kind: Strftime, Layout: layout}
}

// Parse returns the time value is written as in this format.
func (f DateTimeFormat) Parse(value string) (time.Time, bool) {
	switch f.Kind {
	case RFC2822:
		return ParseRFC2822(value)
	case RFC3339:
		return ParseRFC3339(value)
	case Strftime:
		return ParseStrftime(f.Layout, value)
	case Unix:
		return ParseUnix(value)
	}

	return time.Time{}, false
}

func (f DateTimeFormat) String() string {
	switch f.Kind {
	case RFC2822:
		return "rfc2822"
	case RFC3339:
		return "rfc3339"
	case Unix:
		return "unix"
	}

	return f.Layout
}

func (f DateTimeFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText reads one of "rfc2822", "rfc3339" or "unix". Any other
// text is taken as a strftime layout.
func (f *DateTimeFormat) UnmarshalText(b []byte) error {
	s := string(b)

	switch strings.ToLower(s) {
	case "rfc2822":
		*f = DateTimeFormat{Kind: RFC2822}
	case "rfc3339":
		*f = DateTimeFormat{Kind: RFC3339}
	case "unix":
		*f = DateTimeFormat{Kind: Unix}
	default:
		if s == "" {
			return fmt.Errorf("empty datetime format")
		}
		*f = StrftimeFormat(s)
	}

	return nil
}

// DefaultDateTimeFormats are tried in order by a new DateTime.
var DefaultDateTimeFormats = []DateTimeFormat{
	{Kind: RFC2822},
	{Kind: RFC3339},
}

// DateTime accepts points in time in any of its remaining formats.
type DateTime struct {
	Formats []DateTimeFormat `json:"formats"`
}

func NewDateTime(formats ...DateTimeFormat) *DateTime {
	if len(formats) == 0 {
		formats = DefaultDateTimeFormats
	}
	return &DateTime{Formats: append([]DateTimeFormat(nil), formats...)}
}

func (v *DateTime) Validate(value string) error {
	for _, f := range v.Formats {
		if _, ok := f.Parse(value); ok {
			return nil
		}
	}

	return fmt.Errorf("%w: %q does not match any of %v", ErrExhausted, value, v.Formats)
}

func (v *DateTime) Consider(value string) error {
	var kept []DateTimeFormat
	for _, f := range v.Formats {
		if _, ok := f.Parse(value); ok {
			kept = append(kept, f)
		}
	}

	if len(kept) == 0 {
		err := fmt.Errorf("%w: %q does not match any of %v", ErrExhausted, value, v.Formats)
		v.Formats = nil
		return err
	}

	v.Formats = kept
	return nil
}
