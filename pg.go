package baskerville

import (
	"github.com/jaynewey/baskerville/profile"
	"github.com/lib/pq"
)

// Postgres loads tables with COPY. The cstore option creates a cstore_fdw
// foreign table.
var Postgres = &Dialect{
	Name:    "postgres",
	Driver:  "postgres",
	Aliases: []string{"postgresql", "pg"},

	queries: map[string]string{
		"createSchema":      `create schema if not exists {{ident .Schema}}`,
		"createTable":       `create table if not exists {{qualify .Schema .Table}} ( {{.Columns}} )`,
		"createCstoreTable": `create foreign table if not exists {{qualify .Schema .Table}} ( {{.Columns}} ) server cstore_server options (compression 'pglz')`,
		"dropTable":         `drop table if exists {{qualify .Schema .Table}}`,
		"renameTable":       `alter table {{qualify .Schema .TempTable}} rename to {{ident .Table}}`,
		"analyzeTable":      `analyze {{qualify .Schema .Table}}`,
	},

	quote: pq.QuoteIdentifier,

	qualify: func(schema, table string) string {
		return pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier(table)
	},

	sqlType: func(c *Column) string {
		switch c.Kind {
		case profile.IntType:
			if fitsInt32(c.rep) {
				return "integer"
			}
			return "bigint"
		case profile.FloatType:
			return "double precision"
		case profile.LiteralType:
			if isBool(c.rep) {
				return "boolean"
			}
		case profile.DateType:
			return "date"
		case profile.TimeType:
			return "time"
		case profile.DateTimeType:
			if naive(c.rep) {
				return "timestamp"
			}
			return "timestamptz"
		}
		return "text"
	},

	timeValue: formatTime,

	copyIn: func(d *Dialect, schema, table string, columns []string) string {
		return pq.CopyInSchema(schema, table, columns...)
	},

	flush: true,
}

func init() {
	register(Postgres)
}
