package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jaynewey/baskerville/profile"
)

var (
	ErrFormat     = errors.New("unsupported json format")
	ErrRecord     = errors.New("record must be an array or object")
	ErrFieldCount = errors.New("wrong number of fields")
)

type Options struct {
	// Format is "json" for an array of records or "ldjson" for one record
	// per line.
	Format string

	// Header is true if the first record holds the column names. For
	// object records the keys of the first object are returned as the
	// header.
	Header bool

	// Flexible allows array records of different lengths.
	Flexible bool

	// Columns are known column names. Object keys are placed at the
	// position of the matching column.
	Columns []string
}

// Reader reads records from JSON arrays or objects. Nested objects are
// flattened into columns named by their path, "a/b". Arrays inside a
// record and nested arrays are kept as compact JSON text. Null values and
// missing keys are read as empty values.
type Reader struct {
	opts Options
	dec  *json.Decoder

	started bool
	header  []string
	width   int

	columns []string
	index   map[string]int
}

func NewReader(in io.Reader, opts Options) (*Reader, error) {
	switch opts.Format {
	case "json", "ldjson":
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, opts.Format)
	}

	dec := json.NewDecoder(in)
	dec.UseNumber()

	r := &Reader{
		opts:  opts,
		dec:   dec,
		index: make(map[string]int),
	}

	// Unnamed columns keep their position but never match a key.
	for i, c := range opts.Columns {
		r.columns = append(r.columns, c)
		if _, ok := r.index[c]; c != "" && !ok {
			r.index[c] = i
		}
	}

	return r, nil
}

// Columns returns the object keys seen so far in column order.
func (r *Reader) Columns() []string {
	return r.columns
}

func (r *Reader) column(name string) int {
	i, ok := r.index[name]
	if !ok {
		i = len(r.columns)
		r.index[name] = i
		r.columns = append(r.columns, name)
	}
	return i
}

func (r *Reader) Read() ([]string, error) {
	// A header synthesized from the first object.
	if r.header != nil {
		h := r.header
		r.header = nil
		return h, nil
	}

	if !r.started {
		r.started = true

		if r.opts.Format == "json" {
			tok, err := r.dec.Token()
			if err == io.EOF {
				return nil, io.EOF
			}
			if err != nil {
				return nil, err
			}

			if tok != json.Delim('[') {
				return nil, fmt.Errorf("expected array, got: %v", tok)
			}
		}
	}

	if !r.dec.More() {
		if r.opts.Format == "json" {
			if _, err := r.dec.Token(); err != nil && err != io.EOF {
				return nil, err
			}
		}
		return nil, io.EOF
	}

	tok, err := r.dec.Token()
	if err != nil {
		return nil, err
	}

	switch tok {
	case json.Delim('['):
		return r.readArray()

	case json.Delim('{'):
		rec, err := r.readObject()
		if err != nil {
			return nil, err
		}

		if r.opts.Header && r.width == 0 {
			r.width = -1
			r.header = rec
			return append([]string(nil), r.columns...), nil
		}

		return rec, nil
	}

	return nil, fmt.Errorf("%w: got %v", ErrRecord, tok)
}

func (r *Reader) readArray() ([]string, error) {
	var rec []string

	for r.dec.More() {
		var raw json.RawMessage
		if err := r.dec.Decode(&raw); err != nil {
			return nil, err
		}

		v, err := text(raw)
		if err != nil {
			return nil, err
		}
		rec = append(rec, v)
	}

	// Closing bracket.
	if _, err := r.dec.Token(); err != nil {
		return nil, err
	}

	switch {
	case r.width == 0:
		r.width = len(rec)
	case r.width > 0 && !r.opts.Flexible && len(rec) != r.width:
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrFieldCount, r.width, len(rec))
	}

	return rec, nil
}

func (r *Reader) readObject() ([]string, error) {
	values := make(map[int]string)

	if err := r.flatten(r.dec, "", values); err != nil {
		return nil, err
	}

	rec := make([]string, len(r.columns))
	for i, v := range values {
		rec[i] = v
	}

	return rec, nil
}

// flatten reads the members of an object whose opening brace has been
// consumed.
func (r *Reader) flatten(dec *json.Decoder, path string, values map[int]string) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got: %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		// Nested object.
		if len(raw) > 0 && raw[0] == '{' {
			sub := json.NewDecoder(bytes.NewReader(raw))
			sub.UseNumber()

			if _, err := sub.Token(); err != nil {
				return err
			}

			if err := r.flatten(sub, path+key+"/", values); err != nil {
				return err
			}
			continue
		}

		v, err := text(raw)
		if err != nil {
			return err
		}

		values[r.column(path+key)] = v
	}

	// Closing brace.
	_, err := dec.Token()
	return err
}

// text returns the record value of a JSON value.
func text(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	switch raw[0] {
	case 'n':
		return "", nil

	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil

	case '{', '[':
		var b bytes.Buffer
		if err := json.Compact(&b, raw); err != nil {
			return "", err
		}
		return b.String(), nil
	}

	// Numbers and booleans as written.
	return string(raw), nil
}

// name sets the names of fields added for object keys.
func name(p *profile.Profile, columns []string) {
	for i, c := range columns {
		if i < len(p.Fields) && p.Fields[i].Name == "" {
			p.Fields[i].Name = c
		}
	}
}

// Infer reads JSON records and infers their fields. Object keys may appear
// in any record, so the fields are always flexible.
func Infer(in io.Reader, format string, opts profile.Options) (*profile.Profile, error) {
	r, err := NewReader(in, Options{
		Format:   format,
		Header:   opts.HasHeader,
		Flexible: true,
	})
	if err != nil {
		return nil, err
	}

	opts.Flexible = true

	p, err := profile.Infer(r, opts)
	if err != nil {
		return nil, err
	}

	name(p, r.Columns())

	return p, nil
}

// Validate checks JSON records against fields. Object keys are matched to
// fields by name.
func Validate(in io.Reader, format string, fields profile.Fields, opts profile.Options) error {
	r, err := NewReader(in, Options{
		Format:   format,
		Header:   opts.HasHeader,
		Flexible: opts.Flexible,
		Columns:  fields.Names(),
	})
	if err != nil {
		return err
	}

	return profile.Validate(r, fields, opts)
}
