package baskerville

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/jaynewey/baskerville/profile"
	"github.com/jaynewey/baskerville/profile/csv"
	"github.com/jaynewey/baskerville/profile/json"
	"github.com/jaynewey/baskerville/reader"
	"github.com/sirupsen/logrus"
)

// ErrStdin is returned when importing from stdin, which cannot be read twice.
var ErrStdin = errors.New("import requires a file, stdin cannot be read twice")

type Request struct {
	// Input path.
	Path string

	// Format is csv, json or ldjson. Detected from the path if empty.
	Format string

	// Compression is gzip or bzip2. Detected from the path if empty.
	Compression string

	// Encoding of the input, UTF-8 if empty.
	Encoding string

	// Target database.
	Database string
	Driver   string
	Schema   string
	Table    string

	// Behavior
	AppendTable bool
	CStore      bool

	// CSV
	CSV csv.Options

	// Inference.
	Options profile.Options
}

func (r *Request) logger() logrus.FieldLogger {
	if r.Options.Logger != nil {
		return r.Options.Logger
	}
	return logrus.StandardLogger()
}

// open opens the input and returns its records, starting with the header
// if there is one. JSON keys are matched to the fields by name.
func (r *Request) open(fields profile.Fields) (*reader.Reader, profile.RecordSource, error) {
	input, err := reader.Open(r.Path, r.Compression, r.Encoding)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open input: %w", err)
	}

	if r.Format == "csv" {
		copts := r.CSV
		copts.Header = r.Options.HasHeader
		if r.Options.Flexible {
			copts.FieldsPerRecord = -1
		}
		return input, csv.NewCSVReader(input, copts), nil
	}

	src, err := json.NewReader(input, json.Options{
		Format:   r.Format,
		Header:   r.Options.HasHeader,
		Flexible: true,
		Columns:  fields.Names(),
	})
	if err != nil {
		input.Close()
		return nil, nil, err
	}

	return input, src, nil
}

// Infer returns the profile of the input.
func (r *Request) Infer() (*profile.Profile, error) {
	input, err := reader.Open(r.Path, r.Compression, r.Encoding)
	if err != nil {
		return nil, fmt.Errorf("cannot open input: %w", err)
	}
	defer input.Close()

	switch r.Format {
	case "csv":
		return csv.Infer(input, r.CSV, r.Options)
	case "json", "ldjson":
		return json.Infer(input, r.Format, r.Options)
	}

	return nil, fmt.Errorf("file type not supported: %s", r.Format)
}

// Validate checks the input against fields.
func (r *Request) Validate(fields profile.Fields) error {
	input, err := reader.Open(r.Path, r.Compression, r.Encoding)
	if err != nil {
		return fmt.Errorf("cannot open input: %w", err)
	}
	defer input.Close()

	switch r.Format {
	case "csv":
		return csv.Validate(input, fields, r.CSV, r.Options)
	case "json", "ldjson":
		return json.Validate(input, r.Format, fields, r.Options)
	}

	return fmt.Errorf("file type not supported: %s", r.Format)
}

// Detect fills the format, compression and table name from the path.
// Stdin is read as CSV unless a format is given.
func (r *Request) Detect() error {
	fileType, fileComp := reader.DetectType(r.Path)

	if r.Format == "" {
		r.Format = fileType
	}

	if r.Format == "" && (r.Path == "" || r.Path == "-") {
		r.Format = "csv"
	}

	switch r.Format {
	case "csv", "json", "ldjson":
	case "":
		return fmt.Errorf("cannot detect file type of %q", r.Path)
	default:
		return fmt.Errorf("file type not supported: %s", r.Format)
	}

	if r.Compression == "" {
		r.Compression = fileComp
	}

	if r.CSV == (csv.Options{}) {
		r.CSV = csv.DefaultOptions()
	}

	if r.Table == "" {
		_, base := path.Split(r.Path)
		r.Table = strings.Split(base, ".")[0]
	}

	return nil
}

// Import infers the fields of the input, creates a table for them and
// loads the records into it.
func Import(ctx context.Context, r *Request) error {
	if r.Path == "" || r.Path == "-" {
		return ErrStdin
	}

	if err := r.Detect(); err != nil {
		return err
	}

	d, err := LookupDialect(r.Driver)
	if err != nil {
		return err
	}

	log := r.logger().WithFields(logrus.Fields{
		"path":   r.Path,
		"schema": r.Schema,
		"table":  r.Table,
	})

	// Connect to database.
	db, err := sql.Open(d.Driver, r.Database)
	if err != nil {
		return fmt.Errorf("cannot open db connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("cannot connect to db: %w", err)
	}

	prof, err := r.Infer()
	if err != nil {
		return fmt.Errorf("profile error: %w", err)
	}

	log.WithField("records", prof.RecordCount).Info("done profiling")

	input, src, err := r.open(prof.Fields)
	if err != nil {
		return err
	}
	defer input.Close()

	if r.Options.HasHeader {
		if _, err := src.Read(); err != nil && err != io.EOF {
			return fmt.Errorf("header: %w", err)
		}
	}

	schema := NewSchema(prof, d)
	schema.Cstore = r.CStore

	log.Info("begin load")

	var n int64
	dbc := New(db, d, r.Options)
	if r.AppendTable {
		n, err = dbc.Append(ctx, r.Schema, r.Table, schema, src)
	} else {
		n, err = dbc.Replace(ctx, r.Schema, r.Table, schema, src)
	}
	if err != nil {
		return fmt.Errorf("error loading: %w", err)
	}

	log.WithField("records", n).Info("loaded records")

	return nil
}
