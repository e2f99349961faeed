package filter

import (
	"strconv"
	"time"
)

// epochDigits is the year length above which a date value is read as epoch
// milliseconds.
const epochDigits = 4

// DateParser parses partial dates into period boundaries.
//
// Accepted forms (any non-digit separates the parts):
//   - "2017": the year
//   - "3.2017", "03/17": month and year
//   - "24.12.2017", "24-12-17": day, month and year
//   - "1500000000000": epoch milliseconds (more than four digits)
//
// Two-digit years map to 20xx, or 19xx when 20xx lies in the future.
//
// Boundaries are wall-clock values carried in UTC, so they compare as written
// against timestamp columns that hold no zone.
type DateParser struct {
	// Location is the zone of the current year and of epoch values.
	// OPTIONAL: time.Local if nil.
	Location *time.Location

	// Now returns the current time, used for the two-digit year rule.
	// OPTIONAL: time.Now if nil.
	Now func() time.Time
}

func (p DateParser) location() *time.Location {
	if p.Location != nil {
		return p.Location
	}
	return time.Local
}

func (p DateParser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Parse returns the first (end false) or last (end true) second of the period
// named by value. Epoch milliseconds return the same instant for both.
// Returns false if value holds no date or an invalid calendar date.
func (p DateParser) Parse(value string, end bool) (time.Time, bool) {
	m := findDate.FindStringSubmatch(value)
	if m == nil || m[5] == "" {
		return time.Time{}, false
	}
	loc := p.location()

	yearText := m[5]
	if len(yearText) > epochDigits {
		ms, err := strconv.ParseInt(yearText, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return wallClock(time.UnixMilli(ms).In(loc)), true
	}

	year, _ := strconv.Atoi(yearText)
	if year < 100 {
		year += 2000
		if year > p.now().In(loc).Year() {
			year -= 100
		}
	}

	var start, next time.Time
	switch {
	case m[2] != "" && m[4] != "":
		day, _ := strconv.Atoi(m[2])
		month, _ := strconv.Atoi(m[4])
		if !validDay(year, month, day) {
			return time.Time{}, false
		}
		start = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		next = start.AddDate(0, 0, 1)
	case m[2] != "":
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return time.Time{}, false
		}
		start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		next = start.AddDate(0, 1, 0)
	default:
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		next = start.AddDate(1, 0, 0)
	}

	if end {
		return next.Add(-time.Second), true
	}
	return start, true
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func validDay(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	// day 0 of the following month is the last day of this one
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return day <= last
}
