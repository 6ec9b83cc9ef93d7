package leave

import "time"

// atMidnight normalizes a timestamp to its calendar date in UTC. The
// engine ignores time-of-day everywhere.
func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// InclusiveDays returns the number of calendar days spanned by
// [start, end] with both endpoints counted, so a single-day request is 1.
// Callers must validate start <= end first.
func InclusiveDays(start, end time.Time) int {
	s := atMidnight(start)
	e := atMidnight(end)
	return int(e.Sub(s).Hours()/24) + 1
}

// Overlaps reports whether the inclusive intervals [aStart, aEnd] and
// [bStart, bEnd] share at least one calendar day. Touching endpoints
// count as overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !atMidnight(aStart).After(atMidnight(bEnd)) &&
		!atMidnight(bStart).After(atMidnight(aEnd))
}

func parseDate(v string) (time.Time, error) {
	return time.Parse("2006-01-02", v)
}
