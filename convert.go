package baskerville

import (
	"fmt"
	"strings"
	"time"

	"github.com/jaynewey/baskerville/profile"
)

// value converts a raw value to the Go value stored in the column.
// Temporal values are parsed with the formats retained by inference and
// passed to the dialect for encoding.
func (c *Column) value(d *Dialect, raw string) (interface{}, error) {
	switch v := c.rep.Validator().(type) {
	case *profile.Integer:
		i, ok := profile.ParseInt(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an integer", profile.ErrParse, raw)
		}
		return i, nil

	case *profile.Float:
		f, ok := profile.ParseFloat(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a float", profile.ErrParse, raw)
		}
		return f, nil

	case *profile.Literal:
		if v.IsBool() {
			return strings.EqualFold(raw, "true"), nil
		}

	case *profile.Date:
		for _, f := range v.Formats {
			if t, ok := profile.ParseStrftime(f, raw); ok {
				return d.timeValue(profile.DateType, t, false), nil
			}
		}
		return nil, fmt.Errorf("%w: %q", profile.ErrExhausted, raw)

	case *profile.Time:
		for _, f := range v.Formats {
			if t, ok := profile.ParseStrftime(f, raw); ok {
				return d.timeValue(profile.TimeType, t, false), nil
			}
		}
		return nil, fmt.Errorf("%w: %q", profile.ErrExhausted, raw)

	case *profile.DateTime:
		for _, f := range v.Formats {
			if t, ok := f.Parse(raw); ok {
				if f.Kind != profile.Strftime {
					t = t.UTC()
				}
				return d.timeValue(profile.DateTimeType, t, !naive(c.rep)), nil
			}
		}
		return nil, fmt.Errorf("%w: %q", profile.ErrExhausted, raw)
	}

	return raw, nil
}

// formatTime encodes temporal values as text, for dialects without native
// time parameters. Zoned datetimes are written in UTC with an offset.
func formatTime(kind profile.ValueType, t time.Time, zoned bool) interface{} {
	switch kind {
	case profile.DateType:
		return t.Format("2006-01-02")
	case profile.TimeType:
		return t.Format("15:04:05")
	}

	if zoned {
		return t.UTC().Format(time.RFC3339)
	}
	return t.Format("2006-01-02 15:04:05")
}
