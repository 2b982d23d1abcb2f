// Package timefmt compiles strftime-style date/time format patterns
// into line matchers. A compiled Format scans arbitrary text for
// substrings shaped like the pattern and converts a selected match into
// an absolute UTC timestamp with second resolution.
//
// Supported specifiers: %Y %m %b %B %d %F %H %I %M %S %T %P %p %s and
// the literal escape %%. %F expands to %Y-%m-%d and %T to %H:%M:%S.
//
// The pattern must carry enough information to pin down a full
// timestamp: a unix timestamp (%s), or year+month+day+minute plus
// either a 24-hour hour or a 12-hour hour with an am/pm marker.
// Seconds default to zero when absent.
//
// Example usage:
//
//	f, err := timefmt.Compile("%Y-%m-%d %H:%M:%S")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ts, ok := f.Extract("GET /health 2019-03-14 12:01:17 200", 0)
package timefmt

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// itemKind identifies one compiled pattern element.
type itemKind int

const (
	itemLiteral itemKind = iota
	itemYear
	itemMonth
	itemMonthAbbr
	itemMonthName
	itemDay
	itemHour
	itemHour12
	itemMinute
	itemSecond
	itemAmPm
	itemUnix
)

// item is one element of a compiled pattern: either literal text or a
// specifier contributing a timestamp component.
type item struct {
	kind itemKind
	lit  string
}

// regexp fragment per specifier kind. Alternations use non-capturing
// groups so each specifier owns exactly one capture group.
var fragments = map[itemKind]string{
	itemYear:      `-?\d+`,
	itemMonth:     `\d{2}`,
	itemMonthAbbr: `Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec`,
	itemMonthName: `Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|June?|July?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?`,
	itemDay:       `\d{2}`,
	itemHour:      `\d{2}`,
	itemHour12:    `\d{2}`,
	itemMinute:    `\d{2}`,
	itemSecond:    `\d{2}`,
	itemAmPm:      `am|AM|pm|PM`,
	itemUnix:      `\d+`,
}

var monthNames = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// Format is a compiled date/time pattern. Safe for concurrent use.
type Format struct {
	pattern string
	specs   []itemKind // non-literal items in capture group order
	re      *regexp.Regexp
}

// Compile parses a strftime-style pattern into a Format.
//
// Returns ErrUnsupportedSpecifier if the pattern uses a specifier
// outside the supported set, or ErrIncompleteFormat if the pattern
// cannot produce a full timestamp. Both indicate configuration errors
// and are meant to be surfaced once at startup, before any line work.
func Compile(pattern string) (*Format, error) {
	items, err := scan(pattern)
	if err != nil {
		return nil, err
	}

	if !complete(items) {
		return nil, fmt.Errorf("%w: %q", ErrIncompleteFormat, pattern)
	}

	expr := ""
	var specs []itemKind
	for _, it := range items {
		if it.kind == itemLiteral {
			expr += regexp.QuoteMeta(it.lit)
			continue
		}
		expr += "(" + fragments[it.kind] + ")"
		specs = append(specs, it.kind)
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		// Literals are escaped and fragments are fixed, so this is
		// unreachable for any pattern that passed scanning.
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}

	return &Format{
		pattern: pattern,
		specs:   specs,
		re:      re,
	}, nil
}

// scan converts the pattern string into items, expanding %F and %T.
func scan(pattern string) ([]item, error) {
	var items []item

	lit := func(s string) {
		if n := len(items); n > 0 && items[n-1].kind == itemLiteral {
			items[n-1].lit += s
			return
		}
		items = append(items, item{kind: itemLiteral, lit: s})
	}
	spec := func(k itemKind) {
		items = append(items, item{kind: k})
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			lit(string(c))
			continue
		}

		i++
		if i >= len(pattern) {
			return nil, fmt.Errorf("%w: trailing %% in %q", ErrUnsupportedSpecifier, pattern)
		}

		switch pattern[i] {
		case 'Y':
			spec(itemYear)
		case 'm':
			spec(itemMonth)
		case 'b':
			spec(itemMonthAbbr)
		case 'B':
			spec(itemMonthName)
		case 'd':
			spec(itemDay)
		case 'H':
			spec(itemHour)
		case 'I':
			spec(itemHour12)
		case 'M':
			spec(itemMinute)
		case 'S':
			spec(itemSecond)
		case 'p', 'P':
			spec(itemAmPm)
		case 's':
			spec(itemUnix)
		case 'F':
			spec(itemYear)
			lit("-")
			spec(itemMonth)
			lit("-")
			spec(itemDay)
		case 'T':
			spec(itemHour)
			lit(":")
			spec(itemMinute)
			lit(":")
			spec(itemSecond)
		case '%':
			lit("%")
		default:
			return nil, fmt.Errorf("%w: %%%c", ErrUnsupportedSpecifier, pattern[i])
		}
	}

	return items, nil
}

// complete reports whether the items pin down a full timestamp.
func complete(items []item) bool {
	has := map[itemKind]bool{}
	for _, it := range items {
		has[it.kind] = true
	}

	if has[itemUnix] {
		return true
	}

	month := has[itemMonth] || has[itemMonthAbbr] || has[itemMonthName]
	hour := has[itemHour] || (has[itemHour12] && has[itemAmPm])

	return has[itemYear] && month && has[itemDay] && hour && has[itemMinute]
}

// Pattern returns the original pattern string.
func (f *Format) Pattern() string {
	return f.pattern
}

// Extract scans line for substrings matching the pattern and converts
// the match at the given 0-based index into a UTC timestamp.
//
// Returns ok=false when the line has fewer than index+1 matches, or
// when the selected match fails component range checking (the regexp is
// more permissive than the calendar: a minute of 73 or a February 30
// pass the scan but not conversion). Both are routine absence, not
// errors.
func (f *Format) Extract(line string, index int) (time.Time, bool) {
	if index < 0 {
		return time.Time{}, false
	}

	matches := f.re.FindAllStringSubmatch(line, index+1)
	if len(matches) <= index {
		return time.Time{}, false
	}

	ts, err := f.convert(matches[index][1:])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// convert turns the capture groups of one match into a timestamp.
func (f *Format) convert(groups []string) (time.Time, error) {
	var (
		year, day, minute, second int
		hour, hour12              = -1, -1
		month                     time.Month
		pm, unix                  bool
		unixSec                   int64
	)
	year, day = -1, -1

	for i, kind := range f.specs {
		text := groups[i]

		switch kind {
		case itemYear:
			v, err := strconv.Atoi(text)
			if err != nil {
				return time.Time{}, fmt.Errorf("year %q: %w", text, err)
			}
			year = v
		case itemMonth:
			v, err := inRange(text, 1, 12)
			if err != nil {
				return time.Time{}, fmt.Errorf("month: %w", err)
			}
			month = time.Month(v)
		case itemMonthAbbr, itemMonthName:
			m, ok := monthNames[text[:3]]
			if !ok {
				return time.Time{}, fmt.Errorf("month name %q", text)
			}
			month = m
		case itemDay:
			v, err := inRange(text, 1, 31)
			if err != nil {
				return time.Time{}, fmt.Errorf("day: %w", err)
			}
			day = v
		case itemHour:
			v, err := inRange(text, 0, 23)
			if err != nil {
				return time.Time{}, fmt.Errorf("hour: %w", err)
			}
			hour = v
		case itemHour12:
			v, err := inRange(text, 1, 12)
			if err != nil {
				return time.Time{}, fmt.Errorf("hour: %w", err)
			}
			hour12 = v
		case itemMinute:
			v, err := inRange(text, 0, 59)
			if err != nil {
				return time.Time{}, fmt.Errorf("minute: %w", err)
			}
			minute = v
		case itemSecond:
			v, err := inRange(text, 0, 59)
			if err != nil {
				return time.Time{}, fmt.Errorf("second: %w", err)
			}
			second = v
		case itemAmPm:
			pm = text == "pm" || text == "PM"
		case itemUnix:
			v, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return time.Time{}, fmt.Errorf("unix timestamp %q: %w", text, err)
			}
			unixSec = v
			unix = true
		}
	}

	if unix {
		return time.Unix(unixSec, 0).UTC(), nil
	}

	h := hour
	if h < 0 {
		h = hour12 % 12
		if pm {
			h += 12
		}
	}

	ts := time.Date(year, month, day, h, minute, second, 0, time.UTC)

	// time.Date normalizes out-of-range days (Feb 30 -> Mar 2); a
	// round-trip mismatch means the match was not a real calendar date.
	if ts.Year() != year || ts.Month() != month || ts.Day() != day {
		return time.Time{}, fmt.Errorf("invalid calendar date %04d-%02d-%02d", year, int(month), day)
	}

	return ts, nil
}

// inRange parses text as an integer and checks it against [lo, hi].
func inRange(text string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%d out of range [%d, %d]", v, lo, hi)
	}
	return v, nil
}
