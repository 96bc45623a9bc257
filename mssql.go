package baskerville

import (
	"fmt"
	"strings"
	"time"

	"github.com/jaynewey/baskerville/profile"
	mssql "github.com/microsoft/go-mssqldb"
)

// Longest nvarchar with a length, and longest that can be indexed.
const (
	maxNVarChar      = 4000
	maxIndexNVarChar = 450
)

func bracket(s string) string {
	return "[" + strings.ReplaceAll(s, "]", "]]") + "]"
}

// SQLServer loads tables with bulk copy.
var SQLServer = &Dialect{
	Name:    "sqlserver",
	Driver:  "sqlserver",
	Aliases: []string{"mssql"},

	queries: map[string]string{
		"createSchema": `if schema_id({{lit .Schema}}) is null exec({{lit (printf "create schema %s" (ident .Schema))}})`,
		"createTable":  `if object_id({{lit (qualify .Schema .Table)}}, 'U') is null create table {{qualify .Schema .Table}} ( {{.Columns}} )`,
		"dropTable":    `drop table if exists {{qualify .Schema .Table}}`,
		"renameTable":  `exec sp_rename {{lit (qualify .Schema .TempTable)}}, {{lit .Table}}`,
		"analyzeTable": `update statistics {{qualify .Schema .Table}}`,
	},

	quote: bracket,

	qualify: func(schema, table string) string {
		return bracket(schema) + "." + bracket(table)
	},

	sqlType: func(c *Column) string {
		switch c.Kind {
		case profile.IntType:
			if fitsInt32(c.rep) {
				return "int"
			}
			return "bigint"
		case profile.FloatType:
			return "float"
		case profile.LiteralType:
			if isBool(c.rep) {
				return "bit"
			}
		case profile.DateType:
			return "date"
		case profile.TimeType:
			return "time"
		case profile.DateTimeType:
			if naive(c.rep) {
				return "datetime2"
			}
			return "datetimeoffset"
		}

		limit := maxNVarChar
		if c.Unique {
			limit = maxIndexNVarChar
		}

		// Lengths count runes. A rune takes up to two UTF-16 code units.
		if n, ok := maxLength(c.field); ok && 2*n <= limit {
			if n == 0 {
				n = 1
			}
			return fmt.Sprintf("nvarchar(%d)", 2*n)
		}
		return "nvarchar(max)"
	},

	// Unbounded text cannot be indexed, so it loses its unique constraint.
	column: func(d *Dialect, c *Column) string {
		if c.Unique && c.Type == "nvarchar(max)" {
			u := *c
			u.Unique = false
			return columnDef(d, &u)
		}
		return columnDef(d, c)
	},

	timeValue: func(_ profile.ValueType, t time.Time, _ bool) interface{} {
		return t
	},

	copyIn: func(d *Dialect, schema, table string, columns []string) string {
		return mssql.CopyIn(d.qualify(schema, table), mssql.BulkOptions{}, columns...)
	},

	flush: true,
}

func init() {
	register(SQLServer)
}
