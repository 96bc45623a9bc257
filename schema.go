package baskerville

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/jaynewey/baskerville/profile"
)

var (
	badChars = regexp.MustCompile(`[^a-z0-9_\-\.\+]+`)
	sepChars = regexp.MustCompile(`[_\-\.\+]+`)
)

func cleanFieldName(n string) string {
	n = strings.ToLower(n)
	n = badChars.ReplaceAllString(n, "_")
	return sepChars.ReplaceAllString(n, "_")
}

// Column is a column definition of a table, derived from an inferred field.
type Column struct {
	// Name is the cleaned name of the column.
	Name string `json:"name"`

	// Type is the SQL type of the column in the target dialect.
	Type string `json:"type"`

	// Kind is the candidate type the values are stored as. Unknown if the
	// field had no candidates left, in which case values are stored as text.
	Kind profile.ValueType `json:"kind"`

	// If true, values across a set of records are expected to be unique.
	Unique bool `json:"unique"`

	// If true, values can be "null", that is, not specified.
	Nullable bool `json:"nullable"`

	field *profile.Field
	rep   profile.DataType
}

// Schema is a table definition.
type Schema struct {
	Cstore  bool      `json:"cstore"`
	Columns []*Column `json:"columns"`
}

// NewSchema builds a table definition in the dialect from inferred fields.
// Unnamed fields are named by position, c0, c1 and so on.
func NewSchema(p *profile.Profile, d *Dialect) *Schema {
	s := &Schema{
		Columns: make([]*Column, len(p.Fields)),
	}

	// Suffix counters by base name. Every emitted name is recorded, so a
	// generated name never collides with a later field.
	seen := make(map[string]int)

	for i, f := range p.Fields {
		name := cleanFieldName(f.Name)
		if strings.Trim(name, "_") == "" {
			name = fmt.Sprintf("c%d", i)
		}

		// Cleaning may map distinct names to the same column.
		if n, ok := seen[name]; ok {
			base := name
			for {
				n++
				name = fmt.Sprintf("%s_%d", base, n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[name] = 0

		rep, _ := representation(f)

		c := &Column{
			Name:     name,
			Kind:     rep.Type(),
			Unique:   f.Has(profile.UniqueType),
			Nullable: f.Nullable,
			field:    f,
			rep:      rep,
		}
		c.Type = d.sqlType(c)

		s.Columns[i] = c
	}

	return s
}

// Names returns the column names in order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// representation returns the candidate that decides how values of a field
// are stored. Unique and func candidates constrain values without
// describing them. Zero padded integers are stored as text.
func representation(f *profile.Field) (profile.DataType, bool) {
	var text profile.DataType
	var hasText bool

	padded := zeroPadded(f)

	for _, t := range f.ValidTypes {
		switch t.Type() {
		case profile.UniqueType, profile.FuncType, profile.EmptyType:
			continue
		case profile.IntType, profile.FloatType:
			if padded {
				continue
			}
		case profile.TextType:
			if !hasText {
				text, hasText = t, true
			}
			continue
		}
		return t, true
	}

	return text, hasText
}

func zeroPadded(f *profile.Field) bool {
	for _, t := range f.ValidTypes {
		if v, ok := t.Validator().(*profile.Integer); ok && v.LeadingZeros {
			return true
		}
	}
	return false
}

func isBool(d profile.DataType) bool {
	l, ok := d.Validator().(*profile.Literal)
	return ok && l.IsBool()
}

// fitsInt32 returns true if every observed value of an integer candidate
// fits in 32 bits.
func fitsInt32(d profile.DataType) bool {
	v, ok := d.Validator().(*profile.Integer)
	if !ok || v.MinValue == nil {
		return true
	}
	return *v.MinValue >= math.MinInt32 && *v.MaxValue <= math.MaxInt32
}

// maxLength returns the longest text seen in the field, if known.
func maxLength(f *profile.Field) (int, bool) {
	for _, t := range f.ValidTypes {
		if v, ok := t.Validator().(*profile.Text); ok && v.MaxLength != nil {
			return *v.MaxLength, true
		}
	}
	return 0, false
}

// naive returns true for datetimes written without an offset.
func naive(d profile.DataType) bool {
	v, ok := d.Validator().(*profile.DateTime)
	if !ok {
		return false
	}

	for _, f := range v.Formats {
		if f.Kind == profile.Strftime {
			return true
		}
	}
	return false
}
