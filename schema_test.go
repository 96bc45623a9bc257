package baskerville

import (
	"strings"
	"testing"
	"time"

	"github.com/jaynewey/baskerville/profile"
	"github.com/jaynewey/baskerville/profile/csv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const people = `id,score,name,active,day,at
1,1.5,alice,true,2020-01-02,2020-01-02T03:04:05Z
2,2,bob,false,2020-02-03,2020-01-02T04:04:05+01:00
3,,carol,true,2020-03-04,2020-01-02T03:04:05Z
`

func testOptions() profile.Options {
	opts := profile.DefaultOptions()
	opts.HasHeader = true
	opts.DataTypes = append(opts.DataTypes,
		profile.Of(profile.UniqueType),
		profile.NewDataType(profile.NewLiteral("true", "false")),
	)
	return opts
}

func inferCSV(t *testing.T, data string) *profile.Profile {
	t.Helper()

	p, err := csv.Infer(strings.NewReader(data), csv.DefaultOptions(), testOptions())
	require.NoError(t, err)
	return p
}

func TestCleanFieldName(t *testing.T) {
	tests := map[string]string{
		"id":          "id",
		"First Name":  "first_name",
		"a--b..c":     "a_b_c",
		"Total (USD)": "total_usd_",
		"tags/a":      "tags_a",
	}

	for in, exp := range tests {
		assert.Equal(t, exp, cleanFieldName(in), in)
	}
}

func TestNewSchemaNames(t *testing.T) {
	p := inferCSV(t, "A,a,,!!\n1,2,3,4\n")

	s := NewSchema(p, Postgres)
	assert.Equal(t, []string{"a", "a_1", "c2", "c3"}, s.Names())

	p = inferCSV(t, "a,a,a_1\n1,2,3\n")
	assert.Equal(t, []string{"a", "a_1", "a_1_1"}, NewSchema(p, Postgres).Names())

	p = inferCSV(t, "a_1,a,a,A\n1,2,3,4\n")
	assert.Equal(t, []string{"a_1", "a", "a_2", "a_3"}, NewSchema(p, Postgres).Names())
}

func TestZeroPadded(t *testing.T) {
	p := inferCSV(t, "zip,n\n02134,1\n10001,2\n")

	s := NewSchema(p, Postgres)
	assert.Equal(t, profile.TextType, s.Columns[0].Kind)
	assert.Equal(t, "text", s.Columns[0].Type)
	assert.Equal(t, "integer", s.Columns[1].Type)

	v, err := s.Columns[0].value(Postgres, "02134")
	require.NoError(t, err)
	assert.Equal(t, "02134", v)
}

func TestNewSchema(t *testing.T) {
	p := inferCSV(t, people)

	tests := []struct {
		dialect *Dialect
		types   []string
	}{
		{Postgres, []string{"integer", "double precision", "text", "boolean", "date", "timestamptz"}},
		{SQLite, []string{"integer", "real", "text", "boolean", "text", "text"}},
		{SQLServer, []string{"int", "float", "nvarchar(10)", "bit", "date", "datetimeoffset"}},
	}

	for _, test := range tests {
		s := NewSchema(p, test.dialect)
		require.Len(t, s.Columns, 6)

		var types []string
		for _, c := range s.Columns {
			types = append(types, c.Type)
		}
		assert.Equal(t, test.types, types, test.dialect.Name)
	}

	s := NewSchema(p, Postgres)
	assert.Equal(t, []string{"id", "score", "name", "active", "day", "at"}, s.Names())

	kinds := []profile.ValueType{
		profile.IntType,
		profile.FloatType,
		profile.TextType,
		profile.LiteralType,
		profile.DateType,
		profile.DateTimeType,
	}
	for i, c := range s.Columns {
		assert.Equal(t, kinds[i], c.Kind, c.Name)
	}

	assert.True(t, s.Columns[0].Unique)
	assert.False(t, s.Columns[3].Unique)
	assert.True(t, s.Columns[1].Nullable)
	assert.False(t, s.Columns[0].Nullable)
}

func TestColumnDef(t *testing.T) {
	s := NewSchema(inferCSV(t, people), Postgres)

	defs := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		defs[i] = Postgres.column(Postgres, c)
	}

	assert.Equal(t, []string{
		`"id" integer unique not null`,
		`"score" double precision unique`,
		`"name" text unique not null`,
		`"active" boolean not null`,
		`"day" date unique not null`,
		`"at" timestamptz not null`,
	}, defs)
}

func TestColumnDefUnbounded(t *testing.T) {
	long := strings.Repeat("x", 5000)
	s := NewSchema(inferCSV(t, "body\n"+long+"\nshort\n"), SQLServer)

	c := s.Columns[0]
	assert.True(t, c.Unique)
	assert.Equal(t, "nvarchar(max)", c.Type)
	assert.Equal(t, "[body] nvarchar(max) not null", SQLServer.column(SQLServer, c))
}

func TestNVarCharWidth(t *testing.T) {
	s := NewSchema(inferCSV(t, "icon\n😀😀😀\nab\n"), SQLServer)
	assert.Equal(t, "nvarchar(6)", s.Columns[0].Type)

	// 2500 runes may need 5000 code units.
	s = NewSchema(inferCSV(t, "body\n"+strings.Repeat("é", 2500)+"\nx\nx\n"), SQLServer)
	assert.False(t, s.Columns[0].Unique)
	assert.Equal(t, "nvarchar(max)", s.Columns[0].Type)

	s = NewSchema(inferCSV(t, "code\n"+strings.Repeat("x", 300)+"\ny\n"), SQLServer)
	assert.True(t, s.Columns[0].Unique)
	assert.Equal(t, "nvarchar(max)", s.Columns[0].Type)
}

func TestBigint(t *testing.T) {
	s := NewSchema(inferCSV(t, "n\n1\n4294967296\n"), Postgres)
	assert.Equal(t, "bigint", s.Columns[0].Type)

	s = NewSchema(inferCSV(t, "n\n1\n4294967296\n"), SQLServer)
	assert.Equal(t, "bigint", s.Columns[0].Type)
}

func TestNaiveDateTime(t *testing.T) {
	opts := testOptions()
	opts.DataTypes = []profile.DataType{
		profile.NewDataType(&profile.DateTime{Formats: []profile.DateTimeFormat{
			profile.StrftimeFormat("%Y-%m-%d %H:%M:%S"),
		}}),
	}

	p, err := csv.Infer(strings.NewReader("at\n2020-01-02 03:04:05\n"), csv.DefaultOptions(), opts)
	require.NoError(t, err)

	assert.Equal(t, "timestamp", NewSchema(p, Postgres).Columns[0].Type)
	assert.Equal(t, "datetime2", NewSchema(p, SQLServer).Columns[0].Type)

	c := NewSchema(p, SQLite).Columns[0]
	v, err := c.value(SQLite, "2020-01-02 03:04:05")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-02 03:04:05", v)
}

func TestColumnValue(t *testing.T) {
	s := NewSchema(inferCSV(t, people), SQLite)

	tests := []struct {
		column int
		in     string
		out    interface{}
	}{
		{0, "2", int64(2)},
		{1, "1.5", 1.5},
		{2, "bob", "bob"},
		{3, "false", false},
		{4, "2020-02-03", "2020-02-03"},
		{5, "2020-01-02T04:04:05+01:00", "2020-01-02T03:04:05Z"},
	}

	for _, test := range tests {
		v, err := s.Columns[test.column].value(SQLite, test.in)
		require.NoError(t, err)
		assert.Equal(t, test.out, v, test.in)
	}

	_, err := s.Columns[0].value(SQLite, "x")
	assert.ErrorIs(t, err, profile.ErrParse)

	_, err = s.Columns[4].value(SQLite, "x")
	assert.ErrorIs(t, err, profile.ErrExhausted)
}

func TestColumnValueTime(t *testing.T) {
	s := NewSchema(inferCSV(t, people), SQLServer)

	v, err := s.Columns[5].value(SQLServer, "2020-01-02T04:04:05+01:00")
	require.NoError(t, err)
	require.IsType(t, time.Time{}, v)
	assert.True(t, time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC).Equal(v.(time.Time)))
}

func TestLookupDialect(t *testing.T) {
	for name, exp := range map[string]*Dialect{
		"postgres":   Postgres,
		"PostgreSQL": Postgres,
		"sqlite3":    SQLite,
		"mssql":      SQLServer,
	} {
		d, err := LookupDialect(name)
		require.NoError(t, err)
		assert.Same(t, exp, d, name)
	}

	_, err := LookupDialect("oracle")
	assert.Error(t, err)
}

func TestQueries(t *testing.T) {
	c := &Client{d: SQLServer}

	q, err := c.render("renameTable", &tableData{Schema: "dbo", TempTable: "t]1", Table: "people"})
	require.NoError(t, err)
	assert.Equal(t, `exec sp_rename '[dbo].[t]]1]', 'people'`, q)

	c = &Client{d: Postgres}

	q, err = c.render("dropTable", &tableData{Schema: "public", Table: `a"b`})
	require.NoError(t, err)
	assert.Equal(t, `drop table if exists "public"."a""b"`, q)

	c = &Client{d: SQLite}

	q, err = c.render("createSchema", &tableData{Schema: "main"})
	require.NoError(t, err)
	assert.Equal(t, "", q)
}
