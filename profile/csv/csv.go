package csv

import (
	"io"

	"github.com/jaynewey/baskerville/profile"
)

// reader returns a CSV reader configured for the profile options.
func reader(in io.Reader, copts Options, opts profile.Options) *CSVReader {
	copts.Header = opts.HasHeader

	if opts.Flexible {
		copts.FieldsPerRecord = -1
	}

	return NewCSVReader(in, copts)
}

// Infer reads delimited records from in and infers their fields.
func Infer(in io.Reader, copts Options, opts profile.Options) (*profile.Profile, error) {
	return profile.Infer(reader(in, copts, opts), opts)
}

// Validate checks delimited records from in against fields.
func Validate(in io.Reader, fields profile.Fields, copts Options, opts profile.Options) error {
	return profile.Validate(reader(in, copts, opts), fields, opts)
}
