package profile

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	UnknownType ValueType = iota
	EmptyType
	TextType
	IntType
	FloatType
	LiteralType
	UniqueType
	DateType
	TimeType
	DateTimeType
	FuncType
)

// ValueType is the kind of validator held by a DataType.
type ValueType uint8

func (v ValueType) String() string {
	switch v {
	case EmptyType:
		return "empty"
	case TextType:
		return "text"
	case IntType:
		return "integer"
	case FloatType:
		return "float"
	case LiteralType:
		return "literal"
	case UniqueType:
		return "unique"
	case DateType:
		return "date"
	case TimeType:
		return "time"
	case DateTimeType:
		return "datetime"
	case FuncType:
		return "func"
	}

	return ""
}

// ParseValueType returns the type named s, or UnknownType.
func ParseValueType(s string) ValueType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "empty", "null":
		return EmptyType
	case "text", "string":
		return TextType
	case "integer", "int":
		return IntType
	case "float":
		return FloatType
	case "literal":
		return LiteralType
	case "unique":
		return UniqueType
	case "date":
		return DateType
	case "time":
		return TimeType
	case "datetime":
		return DateTimeType
	case "func":
		return FuncType
	}

	return UnknownType
}

func (v ValueType) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *ValueType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	*v = ParseValueType(s)

	return nil
}

// DataType is a candidate type for a column. It holds exactly one of the
// validators of this package, which determines its ValueType.
type DataType struct {
	v Validator
}

// NewDataType wraps a validator. Validators other than the ones defined
// in this package must be wrapped in a Func.
func NewDataType(v Validator) DataType {
	return DataType{v: v}
}

// Of returns a DataType of type t in its initial state. Literal and func
// types have no values or function; build those with NewDataType.
func Of(t ValueType) DataType {
	switch t {
	case EmptyType:
		return DataType{v: &Empty{}}
	case TextType:
		return DataType{v: &Text{}}
	case IntType:
		return DataType{v: &Integer{}}
	case FloatType:
		return DataType{v: &Float{}}
	case LiteralType:
		return DataType{v: &Literal{}}
	case UniqueType:
		return DataType{v: NewUnique()}
	case DateType:
		return DataType{v: NewDate()}
	case TimeType:
		return DataType{v: NewTime()}
	case DateTimeType:
		return DataType{v: NewDateTime()}
	case FuncType:
		return DataType{v: &Func{}}
	}

	return DataType{}
}

// Validator returns the wrapped validator.
func (d DataType) Validator() Validator {
	return d.v
}

// Type returns the tag of the wrapped validator.
func (d DataType) Type() ValueType {
	switch d.v.(type) {
	case *Empty:
		return EmptyType
	case *Text:
		return TextType
	case *Integer:
		return IntType
	case *Float:
		return FloatType
	case *Literal:
		return LiteralType
	case *Unique:
		return UniqueType
	case *Date:
		return DateType
	case *Time:
		return TimeType
	case *DateTime:
		return DateTimeType
	case *Func:
		return FuncType
	}

	return UnknownType
}

func (d DataType) String() string {
	return d.Type().String()
}

func (d DataType) Validate(value string) error {
	if d.Type() == UnknownType {
		return ErrUnknownType
	}
	return d.v.Validate(value)
}

func (d DataType) Consider(value string) error {
	if d.Type() == UnknownType {
		return ErrUnknownType
	}
	return d.v.Consider(value)
}

// Clone returns an independent copy of the state. A Unique clone shares
// its seen values with the original.
func (d DataType) Clone() DataType {
	switch v := d.v.(type) {
	case *Empty:
		return DataType{v: &Empty{}}

	case *Text:
		return DataType{v: &Text{
			MinLength: copyPtr(v.MinLength),
			MaxLength: copyPtr(v.MaxLength),
		}}

	case *Integer:
		return DataType{v: &Integer{
			MinValue:     copyPtr(v.MinValue),
			MaxValue:     copyPtr(v.MaxValue),
			LeadingPlus:  v.LeadingPlus,
			LeadingZeros: v.LeadingZeros,
		}}

	case *Float:
		return DataType{v: &Float{
			MinValue:    copyPtr(v.MinValue),
			MaxValue:    copyPtr(v.MaxValue),
			LeadingPlus: v.LeadingPlus,
			ENotation:   v.ENotation,
		}}

	case *Literal:
		return DataType{v: NewLiteral(append([]string(nil), v.Values...)...)}

	case *Unique:
		return DataType{v: v.clone()}

	case *Date:
		return DataType{v: &Date{Formats: append([]string(nil), v.Formats...)}}

	case *Time:
		return DataType{v: &Time{Formats: append([]string(nil), v.Formats...)}}

	case *DateTime:
		return DataType{v: &DateTime{Formats: append([]DateTimeFormat(nil), v.Formats...)}}

	case *Func:
		f := *v
		return DataType{v: &f}
	}

	return d
}

// seed returns a copy used to start a new column. It is a Clone, except
// that a Unique starts its own set of seen values.
func (d DataType) seed() DataType {
	if u, ok := d.v.(*Unique); ok {
		set := newSeenSet()
		for _, s := range u.Values() {
			set.values[s] = struct{}{}
		}
		return DataType{v: &Unique{set: set}}
	}

	return d.Clone()
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

type dataTypeJSON struct {
	Type  ValueType       `json:"type"`
	Name  string          `json:"name,omitempty"`
	State json.RawMessage `json:"state,omitempty"`
}

func (d DataType) MarshalJSON() ([]byte, error) {
	t := d.Type()

	switch t {
	case UnknownType:
		return nil, ErrUnknownType

	case EmptyType:
		return json.Marshal(dataTypeJSON{Type: t})

	case FuncType:
		return json.Marshal(dataTypeJSON{Type: t, Name: d.v.(*Func).Name})
	}

	state, err := json.Marshal(d.v)
	if err != nil {
		return nil, err
	}

	return json.Marshal(dataTypeJSON{Type: t, State: state})
}

// UnmarshalJSON restores a DataType written by MarshalJSON. A func type
// cannot be restored since its function is not serialized.
func (d *DataType) UnmarshalJSON(b []byte) error {
	var raw dataTypeJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var v Validator

	switch raw.Type {
	case EmptyType:
		*d = DataType{v: &Empty{}}
		return nil
	case TextType:
		v = &Text{}
	case IntType:
		v = &Integer{}
	case FloatType:
		v = &Float{}
	case LiteralType:
		v = &Literal{}
	case UniqueType:
		v = NewUnique()
	case DateType:
		v = &Date{}
	case TimeType:
		v = &Time{}
	case DateTimeType:
		v = &DateTime{}
	case FuncType:
		return fmt.Errorf("cannot restore func type %q", raw.Name)
	default:
		return ErrUnknownType
	}

	if len(raw.State) > 0 {
		if err := json.Unmarshal(raw.State, v); err != nil {
			return fmt.Errorf("%s state: %w", raw.Type, err)
		}
	}

	*d = DataType{v: v}

	return nil
}
