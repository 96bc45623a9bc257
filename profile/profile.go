package profile

import "fmt"

// Field stores the inferred state of a column.
type Field struct {
	// Name of this field, empty if the column has no name.
	Name string `json:"name,omitempty"`

	// Candidate types that describe every non-null value seen so far, most
	// specific first. Narrowing removes entries but never reorders them.
	ValidTypes []DataType `json:"valid_types"`

	// True if the field contains null values.
	Nullable bool `json:"nullable"`
}

func NewField(name string, types []DataType) *Field {
	f := &Field{
		Name:       name,
		ValidTypes: make([]DataType, len(types)),
	}

	for i, t := range types {
		f.ValidTypes[i] = t.seed()
	}

	return f
}

// Consider narrows the candidate types to those accepting value and
// returns the ones that were removed.
func (f *Field) Consider(value string) []DataType {
	var dropped []DataType

	kept := f.ValidTypes[:0]
	for _, t := range f.ValidTypes {
		if err := t.Consider(value); err != nil {
			dropped = append(dropped, t)
			continue
		}
		kept = append(kept, t)
	}

	// Clear the tail so dropped validators are not kept alive.
	for i := len(kept); i < len(f.ValidTypes); i++ {
		f.ValidTypes[i] = DataType{}
	}
	f.ValidTypes = kept

	return dropped
}

// Validate checks value against every remaining candidate type.
func (f *Field) Validate(value string) error {
	for _, t := range f.ValidTypes {
		if err := t.Validate(value); err != nil {
			return fmt.Errorf("%s: %w", t.Type(), err)
		}
	}
	return nil
}

// Best returns the first remaining candidate type. Text accepts any value,
// so it is only returned if no other candidate remains.
func (f *Field) Best() (DataType, bool) {
	if len(f.ValidTypes) == 0 {
		return DataType{}, false
	}

	for _, t := range f.ValidTypes {
		if t.Type() != TextType {
			return t, true
		}
	}

	return f.ValidTypes[0], true
}

// Has returns true if a candidate of type t remains.
func (f *Field) Has(t ValueType) bool {
	for _, d := range f.ValidTypes {
		if d.Type() == t {
			return true
		}
	}
	return false
}

func (f *Field) Clone() *Field {
	c := &Field{
		Name:       f.Name,
		Nullable:   f.Nullable,
		ValidTypes: make([]DataType, len(f.ValidTypes)),
	}

	for i, t := range f.ValidTypes {
		c.ValidTypes[i] = t.Clone()
	}

	return c
}

// Fields are the fields of a record in column order.
type Fields []*Field

func (fs Fields) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// Clone returns a snapshot of the fields. Unique candidates in the clone
// share their seen values with the original.
func (fs Fields) Clone() Fields {
	c := make(Fields, len(fs))
	for i, f := range fs {
		c[i] = f.Clone()
	}
	return c
}

type Profile struct {
	// Total number of records processed, not counting the header.
	RecordCount int64 `json:"record_count"`

	// Fields in column order.
	Fields Fields `json:"fields"`
}

func NewProfile() *Profile {
	return &Profile{
		Fields: make(Fields, 0),
	}
}
