package baskerville

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/jaynewey/baskerville/profile"
)

// Dialect is the SQL flavor of a target database.
type Dialect struct {
	// Name of the dialect, also used to select it.
	Name string

	// Driver is the database/sql driver name.
	Driver string

	// Aliases also select the dialect.
	Aliases []string

	queries map[string]string
	tmpl    *template.Template

	// quote quotes an identifier.
	quote func(string) string

	// qualify returns the quoted name of a table in a schema.
	qualify func(schema, table string) string

	// sqlType returns the column type.
	sqlType func(c *Column) string

	// column returns the column definition. Defaults to columnDef.
	column func(d *Dialect, c *Column) string

	// timeValue encodes temporal values.
	timeValue func(kind profile.ValueType, t time.Time, zoned bool) interface{}

	// copyIn returns the statement to prepare for loading rows.
	copyIn func(d *Dialect, schema, table string, columns []string) string

	// flush is true if the prepared statement must be executed without
	// arguments after the last row.
	flush bool
}

var dialects = make(map[string]*Dialect)

// register parses the query templates of the dialect and makes it
// available by name and aliases.
func register(d *Dialect) {
	funcs := template.FuncMap{
		"ident":   d.quote,
		"lit":     quoteLiteral,
		"qualify": d.qualify,
	}

	d.tmpl = template.New(d.Name).Funcs(funcs)

	for name, q := range d.queries {
		template.Must(d.tmpl.New(name).Parse(q))
	}

	if d.column == nil {
		d.column = columnDef
	}

	dialects[d.Name] = d
	for _, a := range d.Aliases {
		dialects[a] = d
	}
}

// LookupDialect returns the dialect with the name or alias.
func LookupDialect(name string) (*Dialect, error) {
	d, ok := dialects[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", name)
	}
	return d, nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// doubleQuote quotes an identifier the standard SQL way.
func doubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func columnDef(d *Dialect, c *Column) string {
	def := d.quote(c.Name) + " " + c.Type

	if c.Unique {
		def += " unique"
	}

	if !c.Nullable {
		def += " not null"
	}

	return def
}
