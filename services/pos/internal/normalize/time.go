package normalize

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
}

// DD/MM/YYYY with an optional HH:MM[:SS] clock and am/pm marker.
var dayFirst = regexp.MustCompile(`(?i)^(\d{1,2})/(\d{1,2})/(\d{4})(?:[,\s]+(\d{1,2}):(\d{2})(?::(\d{2}))?\s*([ap]m)?)?$`)

// Time parses a backend timestamp. Strings go through the standard layouts,
// then the day-first pattern; numbers are unix milliseconds. Anything else
// yields now with false. Results are in UTC; zoneless inputs use loc.
func Time(v any, now time.Time, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}

	switch t := v.(type) {
	case string:
		if parsed, ok := parseText(strings.TrimSpace(t), loc); ok && inRange(parsed.UTC()) {
			return parsed.UTC(), true
		}
	case json.Number:
		if ms, err := t.Int64(); err == nil {
			if parsed, ok := fromMillis(ms); ok {
				return parsed, true
			}
		} else if f, err := t.Float64(); err == nil {
			if parsed, ok := fromFloatMillis(f); ok {
				return parsed, true
			}
		}
	case float64:
		if parsed, ok := fromFloatMillis(t); ok {
			return parsed, true
		}
	case int64:
		if parsed, ok := fromMillis(t); ok {
			return parsed, true
		}
	}

	return now.UTC(), false
}

func parseText(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return parseDayFirst(s, loc)
}

func parseDayFirst(s string, loc *time.Location) (time.Time, bool) {
	m := dayFirst.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	var hour, minute, second int
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
		if m[6] != "" {
			second, _ = strconv.Atoi(m[6])
		}

		switch strings.ToLower(m[7]) {
		case "pm":
			if hour < 1 || hour > 12 {
				return time.Time{}, false
			}
			if hour != 12 {
				hour += 12
			}
		case "am":
			if hour < 1 || hour > 12 {
				return time.Time{}, false
			}
			if hour == 12 {
				hour = 0
			}
		}
	}

	if month < 1 || month > 12 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// maxMillis is the last millisecond of year 9999, the latest instant that
// still formats as a four-digit RFC 3339 year.
var maxMillis = time.Date(9999, time.December, 31, 23, 59, 59, 999_000_000, time.UTC).UnixMilli()

func fromMillis(ms int64) (time.Time, bool) {
	if ms <= 0 || ms > maxMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}

func fromFloatMillis(f float64) (time.Time, bool) {
	if math.IsNaN(f) || f <= 0 || f > float64(maxMillis) {
		return time.Time{}, false
	}
	return fromMillis(int64(f))
}

func inRange(t time.Time) bool {
	return t.Year() >= 1 && t.Year() <= 9999
}
