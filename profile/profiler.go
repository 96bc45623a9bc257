package profile

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

var (
	ErrNullable = errors.New("nullable value")
	ErrInvalid  = errors.New("invalid value")
)

// RecordSource yields records of raw text values. Read returns io.EOF
// once there are no more records. Any other error is fatal.
type RecordSource interface {
	Read() ([]string, error)
}

// ValidationError is returned when a record does not conform to a set of
// fields. Row and Column are 0-based and the header is not counted.
type ValidationError struct {
	Row    int
	Column int
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Error on line %d in column %d: %s", e.Row, e.Column, e.Reason)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return nil
	}
	return []error{e.reason(), e.Err}
}

func (e *ValidationError) reason() error {
	if e.Reason == ErrNullable.Error() {
		return ErrNullable
	}
	return ErrInvalid
}

// Profiler narrows the candidate types of each field as records are added.
type Profiler struct {
	opts   Options
	log    logrus.FieldLogger
	fields Fields
	count  int64
	init   bool
}

func NewProfiler(opts Options) *Profiler {
	opts = opts.withDefaults()

	return &Profiler{
		opts: opts,
		log:  opts.Logger,
	}
}

// Header creates one field per name. Names matching the null validator
// produce unnamed fields.
func (p *Profiler) Header(names []string) {
	p.fields = make(Fields, len(names))

	for i, n := range names {
		if p.opts.IsNull(n) {
			n = ""
		}
		p.fields[i] = NewField(n, p.opts.DataTypes)
	}

	p.init = true
}

// Record narrows the fields with the values of one record. The first
// record creates unnamed fields if Header was not called.
func (p *Profiler) Record(values []string) {
	if !p.init {
		p.Header(make([]string, len(values)))
	}

	if p.opts.Flexible {
		for len(p.fields) < len(values) {
			f := NewField("", p.opts.DataTypes)
			f.Nullable = true
			p.fields = append(p.fields, f)
		}
	}

	for i, v := range values {
		if i >= len(p.fields) {
			break
		}

		f := p.fields[i]

		if p.opts.IsNull(v) {
			f.Nullable = true
			continue
		}

		for _, t := range f.Consider(v) {
			p.log.WithFields(logrus.Fields{
				"column": i,
				"row":    p.count,
				"type":   t.Type(),
			}).Debug("dropped candidate type")
		}
	}

	p.count++
}

// Profile returns the current state of the fields.
func (p *Profiler) Profile() *Profile {
	r := NewProfile()
	r.RecordCount = p.count

	if p.fields != nil {
		r.Fields = p.fields
	}

	return r
}

// Infer reads every record from src and returns the inferred profile.
func Infer(src RecordSource, opts Options) (*Profile, error) {
	p := NewProfiler(opts)

	if p.opts.HasHeader {
		names, err := src.Read()
		if err == io.EOF {
			return p.Profile(), nil
		}
		if err != nil {
			return nil, fmt.Errorf("header: %w", err)
		}
		p.Header(names)
	}

	for {
		rec, err := src.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		p.Record(rec)
	}

	prof := p.Profile()

	p.log.WithFields(logrus.Fields{
		"records": prof.RecordCount,
		"fields":  len(prof.Fields),
	}).Debug("inference done")

	return prof, nil
}

// Validate checks every record of src against fields. A value must be
// accepted by all the remaining candidate types of its field. The first
// failure is returned as a *ValidationError.
func Validate(src RecordSource, fields Fields, opts Options) error {
	opts = opts.withDefaults()

	if opts.HasHeader {
		_, err := src.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("header: %w", err)
		}
	}

	for row := 0; ; row++ {
		rec, err := src.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if err := ValidateRecord(fields, rec, row, opts); err != nil {
			return err
		}
	}

	return nil
}

// ValidateRecord checks the values of a single record. Values beyond the
// last field are not checked.
func ValidateRecord(fields Fields, values []string, row int, opts Options) error {
	for col, v := range values {
		if col >= len(fields) {
			break
		}

		f := fields[col]

		if opts.IsNull(v) {
			if f.Nullable {
				continue
			}

			return &ValidationError{
				Row:    row,
				Column: col,
				Reason: ErrNullable.Error(),
				Err:    ErrNullable,
			}
		}

		if err := f.Validate(v); err != nil {
			return &ValidationError{
				Row:    row,
				Column: col,
				Reason: ErrInvalid.Error(),
				Err:    err,
			}
		}
	}

	return nil
}
