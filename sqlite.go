package baskerville

import (
	"fmt"
	"strings"

	"github.com/jaynewey/baskerville/profile"
	_ "modernc.org/sqlite"
)

// SQLite loads tables with prepared inserts. SQLite has no schemas, so the
// schema name is ignored. Temporal values are stored as ISO 8601 text.
var SQLite = &Dialect{
	Name:    "sqlite",
	Driver:  "sqlite",
	Aliases: []string{"sqlite3"},

	queries: map[string]string{
		"createTable":  `create table if not exists {{qualify .Schema .Table}} ( {{.Columns}} )`,
		"dropTable":    `drop table if exists {{qualify .Schema .Table}}`,
		"renameTable":  `alter table {{qualify .Schema .TempTable}} rename to {{ident .Table}}`,
		"analyzeTable": `analyze {{qualify .Schema .Table}}`,
	},

	quote: doubleQuote,

	qualify: func(_, table string) string {
		return doubleQuote(table)
	},

	sqlType: func(c *Column) string {
		switch c.Kind {
		case profile.IntType:
			return "integer"
		case profile.FloatType:
			return "real"
		case profile.LiteralType:
			if isBool(c.rep) {
				return "boolean"
			}
		}
		return "text"
	},

	timeValue: formatTime,

	copyIn: func(d *Dialect, schema, table string, columns []string) string {
		quoted := make([]string, len(columns))
		params := make([]string, len(columns))

		for i, c := range columns {
			quoted[i] = d.quote(c)
			params[i] = "?"
		}

		return fmt.Sprintf("insert into %s (%s) values (%s)",
			d.qualify(schema, table),
			strings.Join(quoted, ", "),
			strings.Join(params, ", "),
		)
	},
}

func init() {
	register(SQLite)
}
