package parse

import (
	"strconv"
	"strings"
	"time"
)

// DateOrder selects how the first two fields of a slash-separated date are
// read. WhatsApp exports do not distinguish DD/MM from MM/DD in the common
// 4-digit-year format, so the interpretation is a caller choice.
type DateOrder string

const (
	DayFirst   DateOrder = "dmy"
	MonthFirst DateOrder = "mdy"
)

// Timestamp converts a date token, a time token and an optional meridiem
// token into an absolute instant in the local zone.
//
// Date tokens use "/" or "." separators; 2-digit years are expanded to 2000+Y.
// A meridiem token switches the time token to 12-hour interpretation
// (case-insensitive); without one the token is read as 24-hour, seconds
// defaulting to 0. Numeric tokens are not bounds-checked: out-of-range parts
// pass through time.Date normalization (month 13 rolls into January of the
// next year) and callers must treat the result defensively.
func Timestamp(date, clock, meridiem string, order DateOrder) time.Time {
	sep := "/"
	if strings.Contains(date, ".") {
		sep = "."
	}
	parts := splitInts(date, sep)
	var day, month, year int
	if len(parts) >= 3 {
		day, month, year = parts[0], parts[1], parts[2]
		if sep == "/" && order == MonthFirst {
			day, month = month, day
		}
		if year < 100 {
			year += 2000
		}
	}

	tp := splitInts(clock, ":")
	var hour, minute, sec int
	if len(tp) > 0 {
		hour = tp[0]
	}
	if len(tp) > 1 {
		minute = tp[1]
	}
	if len(tp) > 2 {
		sec = tp[2]
	}

	switch strings.ToLower(strings.TrimSpace(meridiem)) {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	return time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.Local)
}

func splitInts(s, sep string) []int {
	fields := strings.Split(s, sep)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, _ := strconv.Atoi(strings.TrimSpace(f))
		out = append(out, n)
	}
	return out
}
