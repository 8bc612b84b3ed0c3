package attendance

import (
	"time"

	"github.com/trezcool/presence/core"
)

var NowFunc = time.Now // mockable

// Today returns the current calendar day as YYYY-MM-DD in local time.
func Today() string {
	return FormatDate(NowFunc())
}

func FormatDate(t time.Time) string {
	return t.Format(core.DateLayout)
}

// ParseDate parses a YYYY-MM-DD calendar day. The result is midnight UTC.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(core.DateLayout, core.CleanString(date))
}

// AddDays moves a YYYY-MM-DD calendar day by n days (n may be negative).
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}
