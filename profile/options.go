package profile

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Options configure inference and validation.
type Options struct {
	// DataTypes seed the candidates of every field, in priority order.
	DataTypes []DataType

	// NullValidator decides which values are null. Null values mark the
	// field nullable and do not narrow its candidates.
	NullValidator DataType

	// HasHeader is true if the first record holds the column names.
	HasHeader bool

	// Flexible allows records with more values than there are fields.
	Flexible bool

	Logger logrus.FieldLogger
}

// DefaultDataTypes returns the default candidates: integer, float and text,
// followed by date, time and datetime if temporal is true.
func DefaultDataTypes(temporal bool) []DataType {
	types := []DataType{
		Of(IntType),
		Of(FloatType),
		Of(TextType),
	}

	if temporal {
		types = append(types,
			Of(DateType),
			Of(TimeType),
			Of(DateTimeType),
		)
	}

	return types
}

func DefaultOptions() Options {
	return Options{
		DataTypes:     DefaultDataTypes(true),
		NullValidator: Of(EmptyType),
	}
}

// IsNull returns true if value is accepted by the null validator. Without
// a null validator only empty values are null.
func (o Options) IsNull(value string) bool {
	if o.NullValidator.Type() == UnknownType {
		return len(value) == 0
	}
	return o.NullValidator.Validate(value) == nil
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}

	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// withDefaults fills unset options.
func (o Options) withDefaults() Options {
	if o.DataTypes == nil {
		o.DataTypes = DefaultDataTypes(true)
	}

	if o.NullValidator.Type() == UnknownType {
		o.NullValidator = Of(EmptyType)
	}

	o.Logger = o.logger()

	return o
}
