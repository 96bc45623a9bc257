package profile

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerConsider(t *testing.T) {
	v := &Integer{}

	require.NoError(t, v.Consider("5"))
	require.NoError(t, v.Consider("-3"))
	require.NoError(t, v.Consider("12"))

	assert.Equal(t, int64(-3), *v.MinValue)
	assert.Equal(t, int64(12), *v.MaxValue)
	assert.False(t, v.LeadingPlus)

	require.NoError(t, v.Consider("+1"))
	assert.True(t, v.LeadingPlus)
}

func TestIntegerLeadingZeros(t *testing.T) {
	v := &Integer{}

	for _, s := range []string{"0", "10", "-5", "+7"} {
		require.NoError(t, v.Consider(s))
	}
	assert.False(t, v.LeadingZeros)

	require.NoError(t, v.Consider("02134"))
	assert.True(t, v.LeadingZeros)
	assert.Equal(t, int64(2134), *v.MaxValue)

	w := &Integer{}
	require.NoError(t, w.Consider("-007"))
	assert.True(t, w.LeadingZeros)

	c := NewDataType(v).Clone().Validator().(*Integer)
	assert.True(t, c.LeadingZeros)
}

func TestIntegerDomain(t *testing.T) {
	v := &Integer{}

	require.NoError(t, v.Consider("9223372036854775807"))
	require.NoError(t, v.Consider("-9223372036854775808"))

	assert.ErrorIs(t, v.Consider("9223372036854775808"), ErrParse)
	assert.Equal(t, int64(9223372036854775807), *v.MaxValue)

	f := NewField("n", DefaultDataTypes(false))
	f.Consider("9223372036854775808")
	assert.Equal(t, []ValueType{FloatType, TextType}, types(f))
}

func TestIntegerWidening(t *testing.T) {
	v := &Integer{}
	values := []string{"7", "3", "10", "-4", "0", "10", "99"}

	for _, s := range values {
		var lo, hi *int64
		if v.MinValue != nil {
			lo, hi = copyPtr(v.MinValue), copyPtr(v.MaxValue)
		}

		require.NoError(t, v.Consider(s))

		if lo != nil {
			assert.LessOrEqual(t, *v.MinValue, *lo)
			assert.GreaterOrEqual(t, *v.MaxValue, *hi)
		}
	}
}

func TestNumericParseFailureKeepsState(t *testing.T) {
	i := &Integer{}
	require.NoError(t, i.Consider("4"))

	for _, s := range []string{"3.14x", "abc", "", "1.5"} {
		err := i.Consider(s)
		assert.ErrorIs(t, err, ErrParse)
		assert.Equal(t, int64(4), *i.MinValue)
		assert.Equal(t, int64(4), *i.MaxValue)
	}

	f := &Float{}
	require.NoError(t, f.Consider("0.5"))

	for _, s := range []string{"3.14x", "abc", "", "NaN", "0x10"} {
		err := f.Consider(s)
		assert.ErrorIs(t, err, ErrParse)
		assert.Equal(t, 0.5, *f.MinValue)
		assert.Equal(t, 0.5, *f.MaxValue)
		assert.False(t, f.ENotation)
	}
}

func TestIntegerValidate(t *testing.T) {
	v := &Integer{}
	assert.NoError(t, v.Validate("100"))

	require.NoError(t, v.Consider("0"))
	require.NoError(t, v.Consider("2"))

	assert.NoError(t, v.Validate("1"))
	assert.ErrorIs(t, v.Validate("3"), ErrOutOfRange)
	assert.ErrorIs(t, v.Validate("-1"), ErrOutOfRange)
	assert.ErrorIs(t, v.Validate("x"), ErrParse)

	// Validate does not widen.
	assert.Equal(t, int64(2), *v.MaxValue)
}

func TestFloatConsider(t *testing.T) {
	v := &Float{}

	require.NoError(t, v.Consider("0.1"))
	require.NoError(t, v.Consider("2"))
	assert.False(t, v.ENotation)

	require.NoError(t, v.Consider("1E-2"))
	assert.True(t, v.ENotation)

	require.NoError(t, v.Consider("+3.5"))
	assert.True(t, v.LeadingPlus)

	assert.Equal(t, 0.01, *v.MinValue)
	assert.Equal(t, 3.5, *v.MaxValue)
}

func TestText(t *testing.T) {
	v := &Text{}

	require.NoError(t, v.Consider("abc"))
	require.NoError(t, v.Consider(""))
	require.NoError(t, v.Consider("héllo"))

	assert.Equal(t, 0, *v.MinLength)
	assert.Equal(t, 5, *v.MaxLength)

	assert.NoError(t, v.Validate("a much longer value than seen"))
}

func TestLiteral(t *testing.T) {
	v := NewLiteral("true", "false")

	assert.NoError(t, v.Consider("true"))
	assert.NoError(t, v.Validate("false"))
	assert.ErrorIs(t, v.Consider("yes"), ErrLiteral)
	assert.Equal(t, []string{"true", "false"}, v.Values)
}

func TestEmpty(t *testing.T) {
	v := &Empty{}

	assert.NoError(t, v.Validate(""))
	assert.ErrorIs(t, v.Validate(" "), ErrNotEmpty)
	assert.ErrorIs(t, v.Consider("a"), ErrNotEmpty)
}

func TestUnique(t *testing.T) {
	v := NewUnique()

	assert.NoError(t, v.Consider("Ferris"))
	assert.NoError(t, v.Consider("Corro"))
	assert.ErrorIs(t, v.Consider("Ferris"), ErrDuplicate)

	assert.ErrorIs(t, v.Validate("Corro"), ErrDuplicate)
	assert.NoError(t, v.Validate("Crab"))
	assert.Equal(t, []string{"Corro", "Ferris"}, v.Values())
}

func TestUniqueCloneShares(t *testing.T) {
	a := NewDataType(NewUnique())
	b := a.Clone()

	require.NoError(t, a.Consider("Ferris"))
	assert.ErrorIs(t, b.Consider("Ferris"), ErrDuplicate)

	// Seeding a new column starts a separate set.
	c := a.seed()
	require.NoError(t, c.Consider("Corro"))
	assert.NoError(t, a.Consider("Corro"))
}

func TestUniqueConcurrent(t *testing.T) {
	d := NewDataType(NewUnique())
	clones := []DataType{d, d.Clone(), d.Clone(), d.Clone()}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)

	for _, c := range clones {
		wg.Add(1)
		go func(c DataType) {
			defer wg.Done()
			if c.Consider("same") == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}(c)
	}

	wg.Wait()
	assert.Equal(t, 1, ok)
}

func TestDate(t *testing.T) {
	v := NewDate()

	require.NoError(t, v.Consider("2001-01-22"))
	assert.Equal(t, []string{"%Y-%m-%d"}, v.Formats)

	assert.NoError(t, v.Validate("1999-12-31"))
	assert.ErrorIs(t, v.Validate("22/01/2001"), ErrExhausted)
	assert.Equal(t, []string{"%Y-%m-%d"}, v.Formats)

	assert.ErrorIs(t, v.Consider("22/01/2001"), ErrExhausted)
	assert.Empty(t, v.Formats)
}

func TestTime(t *testing.T) {
	v := NewTime()

	require.NoError(t, v.Consider("12:34:56"))
	assert.Equal(t, []string{"%H:%M:%S"}, v.Formats)
	assert.ErrorIs(t, v.Consider("12:34PM"), ErrExhausted)
}

func TestDateTime(t *testing.T) {
	v := NewDateTime()

	require.NoError(t, v.Consider("2001-01-22T00:00:00+00:00"))
	require.NoError(t, v.Consider("2001-01-22T00:00:00Z"))
	assert.Equal(t, []DateTimeFormat{{Kind: RFC3339}}, v.Formats)

	assert.ErrorIs(t, v.Consider("Mon, 22 Jan 2001 00:00:00 +0000"), ErrExhausted)
}

func TestDateTimeExplicitFormats(t *testing.T) {
	v := NewDateTime(
		DateTimeFormat{Kind: Unix},
		StrftimeFormat("%Y-%m-%d %H:%M:%S"),
	)

	require.NoError(t, v.Consider("980121600"))
	assert.Equal(t, []DateTimeFormat{{Kind: Unix}}, v.Formats)
	assert.ErrorIs(t, v.Consider("2001-01-22 00:00:00"), ErrExhausted)

	v = NewDateTime(StrftimeFormat("%Y-%m-%d %H:%M:%S"))
	require.NoError(t, v.Consider("2001-01-22 10:00:00"))
	assert.NoError(t, v.Validate("1999-12-31 23:59:59"))
}

func TestDateTimeFormatText(t *testing.T) {
	for _, s := range []string{"rfc2822", "rfc3339", "unix", "%Y/%m/%d"} {
		var f DateTimeFormat
		require.NoError(t, f.UnmarshalText([]byte(s)))
		assert.Equal(t, s, f.String())
	}

	var f DateTimeFormat
	assert.Error(t, f.UnmarshalText(nil))
}

func TestFunc(t *testing.T) {
	errOdd := errors.New("odd")

	d := NewDataType(&Func{
		Name: "even",
		Fn: func(value string) error {
			if len(value)%2 != 0 {
				return errOdd
			}
			return nil
		},
	})

	assert.Equal(t, FuncType, d.Type())
	assert.NoError(t, d.Consider("ab"))
	assert.ErrorIs(t, d.Validate("abc"), errOdd)

	assert.ErrorIs(t, NewDataType(&Func{}).Validate("a"), ErrUnknownType)
}
