package csv

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrUnquotedField     = errors.New("quote in unquoted field")
	ErrBareQuote         = errors.New("extraneous character after closing quote")
	ErrUnterminatedField = errors.New("unterminated quoted field")
	ErrFieldCount        = errors.New("wrong number of fields")
)

// ParseError reports the position of malformed input. Line and Column are
// 1-based.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err == ErrFieldCount {
		return fmt.Sprintf("record on line %d: %s", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error on line %d, column %d: %s", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Trim selects which records have surrounding whitespace removed from their
// fields.
type Trim uint8

const (
	TrimNone Trim = iota
	TrimHeaders
	TrimFields
	TrimAll
)

func ParseTrim(s string) (Trim, error) {
	switch s {
	case "", "none":
		return TrimNone, nil
	case "headers":
		return TrimHeaders, nil
	case "fields":
		return TrimFields, nil
	case "all":
		return TrimAll, nil
	}

	return TrimNone, fmt.Errorf("unknown trim %q", s)
}

// CRLF as a terminator ends records on "\r", "\n" or "\r\n".
const CRLF byte = 0

type Options struct {
	// Delimiter separates fields.
	Delimiter byte

	// Quote starts and ends a quoted field. Two quotes in a quoted field
	// are one literal quote.
	Quote byte

	// Quoting enables quoted fields. If false, quotes are regular data.
	Quoting bool

	// Escape, if non-zero, makes the following byte in a quoted field
	// literal.
	Escape byte

	Trim Trim

	// Terminator ends a record. CRLF accepts any common line ending.
	Terminator byte

	// Comment, if non-zero, marks lines to skip when it is the first byte.
	Comment byte

	// Header is true if the first record holds column names. It only
	// affects trimming.
	Header bool

	// FieldsPerRecord is the expected number of fields per record. If 0 it
	// is set by the first record. If negative records may have any number
	// of fields.
	FieldsPerRecord int
}

func DefaultOptions() Options {
	return Options{
		Delimiter:  ',',
		Quote:      '"',
		Quoting:    true,
		Terminator: CRLF,
	}
}

// CSVReader reads delimited records. Quoted fields may span lines. Empty
// lines are skipped.
type CSVReader struct {
	opts Options

	r *bufio.Reader

	lineno int // current line number (not record number)
	column int // current column index 1-based
	record int // records read

	field bytes.Buffer
}

// DefaultCSVReader creates a reader with the default options.
func DefaultCSVReader(r io.Reader) *CSVReader {
	return NewCSVReader(r, DefaultOptions())
}

func NewCSVReader(r io.Reader, opts Options) *CSVReader {
	return &CSVReader{
		opts: opts,
		r:    bufio.NewReader(r),
	}
}

// LineNumber returns the current line number.
func (s *CSVReader) LineNumber() int {
	return s.lineno
}

// Read returns the next record, or io.EOF.
func (s *CSVReader) Read() ([]string, error) {
	if err := s.skip(); err != nil {
		return nil, err
	}

	s.lineno++
	start := s.lineno

	rec, err := s.readRecord()
	if err != nil {
		return nil, err
	}

	trim := s.opts.Trim == TrimAll
	if s.record == 0 && s.opts.Header {
		trim = trim || s.opts.Trim == TrimHeaders
	} else {
		trim = trim || s.opts.Trim == TrimFields
	}

	if trim {
		for i, f := range rec {
			rec[i] = strings.TrimSpace(f)
		}
	}

	switch {
	case s.opts.FieldsPerRecord == 0:
		s.opts.FieldsPerRecord = len(rec)
	case s.opts.FieldsPerRecord > 0 && len(rec) != s.opts.FieldsPerRecord:
		return rec, &ParseError{Line: start, Column: 1, Err: ErrFieldCount}
	}

	s.record++

	return rec, nil
}

// skip consumes empty and comment lines.
func (s *CSVReader) skip() error {
	for {
		c, err := s.r.ReadByte()
		if err != nil {
			return err
		}

		if s.isTerminator(c) {
			s.endLine(c)
			s.lineno++
			continue
		}

		if s.opts.Comment != 0 && c == s.opts.Comment {
			for {
				c, err = s.r.ReadByte()
				if err == io.EOF {
					return io.EOF
				}
				if err != nil {
					return err
				}
				if s.isTerminator(c) {
					s.endLine(c)
					break
				}
			}
			s.lineno++
			continue
		}

		return s.r.UnreadByte()
	}
}

func (s *CSVReader) isTerminator(c byte) bool {
	if s.opts.Terminator == CRLF {
		return c == '\n' || c == '\r'
	}
	return c == s.opts.Terminator
}

// endLine consumes the "\n" of a "\r\n" pair.
func (s *CSVReader) endLine(c byte) {
	if c != '\r' || s.opts.Terminator != CRLF {
		return
	}

	if n, err := s.r.ReadByte(); err == nil && n != '\n' {
		s.r.UnreadByte()
	}
}

func (s *CSVReader) readRecord() ([]string, error) {
	var rec []string

	s.column = 0

	for {
		s.column++
		s.field.Reset()

		last, err := s.scanField()
		if err != nil {
			return nil, err
		}

		rec = append(rec, s.field.String())

		if last {
			return rec, nil
		}
	}
}

// scanField reads one field into s.field and reports whether it ended the
// record.
func (s *CSVReader) scanField() (bool, error) {
	c, err := s.r.ReadByte()
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	// Quoted field.
	if s.opts.Quoting && c == s.opts.Quote {
		return s.scanQuoted()
	}

	for {
		switch {
		case c == s.opts.Delimiter:
			return false, nil

		case s.isTerminator(c):
			s.endLine(c)
			return true, nil

		case s.opts.Quoting && c == s.opts.Quote:
			return false, s.parseError(ErrUnquotedField)
		}

		s.field.WriteByte(c)

		c, err = s.r.ReadByte()
		if err == io.EOF {
			return true, nil
		}
		if err != nil {
			return false, err
		}
	}
}

func (s *CSVReader) scanQuoted() (bool, error) {
	line := s.lineno

	for {
		c, err := s.r.ReadByte()
		if err == io.EOF {
			return false, &ParseError{Line: line, Column: s.column, Err: ErrUnterminatedField}
		}
		if err != nil {
			return false, err
		}

		switch {
		case s.opts.Escape != 0 && s.opts.Escape != s.opts.Quote && c == s.opts.Escape:
			n, err := s.r.ReadByte()
			if err == io.EOF {
				return false, &ParseError{Line: line, Column: s.column, Err: ErrUnterminatedField}
			}
			if err != nil {
				return false, err
			}
			s.field.WriteByte(n)
			continue

		case c == s.opts.Quote:
			n, err := s.r.ReadByte()
			if err == io.EOF {
				return true, nil
			}
			if err != nil {
				return false, err
			}

			// Successive quotes denote an escaped quote.
			if n == s.opts.Quote {
				s.field.WriteByte(c)
				continue
			}

			if n == s.opts.Delimiter {
				return false, nil
			}

			if s.isTerminator(n) {
				s.endLine(n)
				return true, nil
			}

			return false, s.parseError(ErrBareQuote)

		case c == '\n':
			s.lineno++
		}

		s.field.WriteByte(c)
	}
}

func (s *CSVReader) parseError(err error) error {
	return &ParseError{Line: s.lineno, Column: s.column, Err: err}
}
