package profile

import (
	"math"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// Unix timestamps outside of this range do not map to a calendar date
// between the years -262144 and 262143.
const (
	minUnixSeconds = -8334632937600
	maxUnixSeconds = 8210298412799
)

func ParseInt(s string) (int64, bool) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

// ParseFloat parses decimal floating point text. Hexadecimal notation and
// values that are not finite are rejected.
func ParseFloat(s string) (float64, bool) {
	if strings.ContainsAny(s, "xX") {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

// ParseStrftime parses s using a strftime style format such as "%Y-%m-%d".
// AM and PM are matched in any case.
func ParseStrftime(format, s string) (time.Time, bool) {
	if strings.Contains(format, "%p") {
		s = strings.ToUpper(s)
	}

	t, err := strftime.Parse(format, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseUnix parses integer seconds since the epoch.
func ParseUnix(s string) (time.Time, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	if n < minUnixSeconds || n > maxUnixSeconds {
		return time.Time{}, false
	}

	return time.Unix(n, 0).UTC(), true
}

func ParseRFC2822(s string) (time.Time, bool) {
	t, err := mail.ParseDate(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func ParseRFC3339(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
