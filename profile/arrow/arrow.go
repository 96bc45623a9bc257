// Package arrow describes inferred fields as an Apache Arrow schema.
package arrow

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/jaynewey/baskerville/profile"
)

// Metadata keys set on each field.
const (
	KeyType    = "baskerville.type"
	KeyMin     = "baskerville.min"
	KeyMax     = "baskerville.max"
	KeyFormats = "baskerville.formats"
)

// Type returns the Arrow type for a candidate type.
func Type(d profile.DataType) arrow.DataType {
	switch v := d.Validator().(type) {
	case *profile.Empty:
		return arrow.Null

	case *profile.Integer:
		return arrow.PrimitiveTypes.Int64

	case *profile.Float:
		return arrow.PrimitiveTypes.Float64

	case *profile.Literal:
		if v.IsBool() {
			return arrow.FixedWidthTypes.Boolean
		}

	case *profile.Date:
		return arrow.FixedWidthTypes.Date32

	case *profile.Time:
		return arrow.FixedWidthTypes.Time64us

	case *profile.DateTime:
		// Values in a strftime format carry no offset.
		for _, f := range v.Formats {
			if f.Kind == profile.Strftime {
				return &arrow.TimestampType{Unit: arrow.Second}
			}
		}
		return arrow.FixedWidthTypes.Timestamp_s
	}

	return arrow.BinaryTypes.String
}

func metadata(d profile.DataType) arrow.Metadata {
	kv := map[string]string{
		KeyType: d.String(),
	}

	switch v := d.Validator().(type) {
	case *profile.Integer:
		if v.MinValue != nil {
			kv[KeyMin] = strconv.FormatInt(*v.MinValue, 10)
			kv[KeyMax] = strconv.FormatInt(*v.MaxValue, 10)
		}

	case *profile.Float:
		if v.MinValue != nil {
			kv[KeyMin] = strconv.FormatFloat(*v.MinValue, 'g', -1, 64)
			kv[KeyMax] = strconv.FormatFloat(*v.MaxValue, 'g', -1, 64)
		}

	case *profile.Text:
		if v.MinLength != nil {
			kv[KeyMin] = strconv.Itoa(*v.MinLength)
			kv[KeyMax] = strconv.Itoa(*v.MaxLength)
		}

	case *profile.Date:
		kv[KeyFormats] = strings.Join(v.Formats, ",")

	case *profile.Time:
		kv[KeyFormats] = strings.Join(v.Formats, ",")

	case *profile.DateTime:
		formats := make([]string, len(v.Formats))
		for i, f := range v.Formats {
			formats[i] = f.String()
		}
		kv[KeyFormats] = strings.Join(formats, ",")
	}

	return arrow.MetadataFrom(kv)
}

// Field returns the Arrow field for the i-th inferred field. The best
// candidate decides the type. A field without candidates is a string.
func Field(i int, f *profile.Field) arrow.Field {
	name := f.Name
	if name == "" {
		name = fmt.Sprintf("c%d", i)
	}

	af := arrow.Field{
		Name:     name,
		Type:     arrow.BinaryTypes.String,
		Nullable: f.Nullable,
	}

	if best, ok := f.Best(); ok {
		af.Type = Type(best)
		af.Metadata = metadata(best)
	}

	return af
}

// Schema returns the Arrow schema of the fields.
func Schema(fields profile.Fields) *arrow.Schema {
	afs := make([]arrow.Field, len(fields))
	for i, f := range fields {
		afs[i] = Field(i, f)
	}

	return arrow.NewSchema(afs, nil)
}

// WriteSchema writes the schema as an Arrow IPC stream without records.
func WriteSchema(w io.Writer, schema *arrow.Schema) error {
	iw := ipc.NewWriter(w, ipc.WithSchema(schema))
	return iw.Close()
}
