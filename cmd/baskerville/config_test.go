package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jaynewey/baskerville/profile"
	"github.com/jaynewey/baskerville/profile/csv"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setConfig(t *testing.T, kv map[string]interface{}) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	defaults := map[string]interface{}{
		"delimiter":  ",",
		"quote":      `"`,
		"quoting":    true,
		"trim":       "none",
		"terminator": "crlf",
		"header":     true,
		"temporal":   true,
	}

	for k, v := range defaults {
		viper.Set(k, v)
	}
	for k, v := range kv {
		viper.Set(k, v)
	}
}

func TestByteOption(t *testing.T) {
	tests := map[string]byte{
		"":    0,
		";":   ';',
		`\t`:  '\t',
		"tab": '\t',
	}

	for in, exp := range tests {
		setConfig(t, map[string]interface{}{"delimiter": in})

		b, err := byteOption("delimiter")
		require.NoError(t, err, in)
		assert.Equal(t, exp, b, in)
	}

	setConfig(t, map[string]interface{}{"delimiter": ";;"})
	_, err := byteOption("delimiter")
	assert.Error(t, err)
}

func TestCSVOptions(t *testing.T) {
	setConfig(t, map[string]interface{}{
		"delimiter":  "|",
		"trim":       "all",
		"terminator": ";",
		"escape":     `\`,
	})

	opts, err := csvOptions()
	require.NoError(t, err)

	assert.Equal(t, byte('|'), opts.Delimiter)
	assert.Equal(t, byte(';'), opts.Terminator)
	assert.Equal(t, byte('\\'), opts.Escape)
	assert.Equal(t, csv.TrimAll, opts.Trim)
	assert.True(t, opts.Quoting)

	setConfig(t, nil)

	opts, err = csvOptions()
	require.NoError(t, err)
	assert.Equal(t, csv.DefaultOptions(), opts)

	setConfig(t, map[string]interface{}{"trim": "sideways"})
	_, err = csvOptions()
	assert.Error(t, err)
}

func typesOf(ds []profile.DataType) []profile.ValueType {
	var ts []profile.ValueType
	for _, d := range ds {
		ts = append(ts, d.Type())
	}
	return ts
}

func TestProfileOptions(t *testing.T) {
	setConfig(t, map[string]interface{}{"temporal": false})

	opts, err := profileOptions()
	require.NoError(t, err)
	assert.Equal(t, []profile.ValueType{profile.IntType, profile.FloatType, profile.TextType}, typesOf(opts.DataTypes))
	assert.True(t, opts.HasHeader)
	assert.True(t, opts.IsNull(""))

	setConfig(t, map[string]interface{}{
		"types":   []string{"int", "unique"},
		"literal": []string{"yes", "no"},
		"null":    "NA",
	})

	opts, err = profileOptions()
	require.NoError(t, err)
	assert.Equal(t, []profile.ValueType{profile.IntType, profile.UniqueType, profile.LiteralType}, typesOf(opts.DataTypes))
	assert.True(t, opts.IsNull("NA"))
	assert.False(t, opts.IsNull(""))

	for _, bad := range []string{"literal", "func", "decimal"} {
		setConfig(t, map[string]interface{}{"types": []string{bad}})
		_, err = profileOptions()
		assert.Error(t, err, bad)
	}
}

func TestInputs(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sales", "eu"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "people.csv"), []byte("a\n1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales", "eu", "orders.csv.gz"), nil, 0o644))

	files, err := inputs([]string{dir})
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "", files[0].schema)
	assert.Equal(t, "people", files[0].table)
	assert.Equal(t, "sales_eu", files[1].schema)
	assert.Equal(t, "orders", files[1].table)

	files, err = inputs(nil)
	require.NoError(t, err)
	assert.Equal(t, "-", files[0].path)

	_, err = inputs([]string{filepath.Join(dir, "missing.csv")})
	assert.Error(t, err)
}

func TestNewRequest(t *testing.T) {
	setConfig(t, nil)

	r, err := newRequest("data/people.csv.gz")
	require.NoError(t, err)

	assert.Equal(t, "csv", r.Format)
	assert.Equal(t, "gzip", r.Compression)
	assert.Equal(t, "people", r.Table)

	r, err = newRequest("-")
	require.NoError(t, err)
	assert.Equal(t, "csv", r.Format)

	setConfig(t, map[string]interface{}{"format": "ldjson"})

	r, err = newRequest("-")
	require.NoError(t, err)
	assert.Equal(t, "ldjson", r.Format)
}
