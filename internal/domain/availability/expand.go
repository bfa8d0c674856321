package availability

import (
	"sort"
	"strings"
	"time"

	"github.com/alugacar/alugacar-web/internal/domain/pricing"
)

const dateLayout = "2006-01-02"

// maxRangeDays caps a single range so a corrupt entry cannot explode the set.
const maxRangeDays = 3660

// ExpandBlockedDates turns ranges into the sorted set of excluded calendar
// dates, both ends inclusive. It is always derived from the full list.
// Entries with a date shorter than YYYY-MM-DD or that do not parse are skipped.
func ExpandBlockedDates(ranges []BlockedDateRange) []string {
	seen := make(map[string]struct{})
	for _, r := range ranges {
		start, ok := parseDatePrefix(r.StartDate)
		if !ok {
			continue
		}
		end, ok := parseDatePrefix(r.EndDate)
		if !ok {
			continue
		}
		for d, n := start, 0; !d.After(end) && n < maxRangeDays; d, n = d.AddDate(0, 0, 1), n+1 {
			seen[d.Format(dateLayout)] = struct{}{}
		}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// IsExcluded reports whether date (YYYY-MM-DD) falls in any range.
func IsExcluded(ranges []BlockedDateRange, date string) bool {
	day, ok := parseDatePrefix(date)
	if !ok {
		return false
	}
	for _, r := range ranges {
		start, ok := parseDatePrefix(r.StartDate)
		if !ok {
			continue
		}
		end, ok := parseDatePrefix(r.EndDate)
		if !ok {
			continue
		}
		if !day.Before(start) && !day.After(end) {
			return true
		}
	}
	return false
}

// FirstExcluded returns the first calendar date of w that falls in a blocked
// range. Blocked ranges are a hint only, so a hit never refuses a booking.
func FirstExcluded(ranges []BlockedDateRange, w pricing.Window) (string, bool) {
	if len(ranges) == 0 || !w.HasDates() {
		return "", false
	}
	start, ok := parseDatePrefix(strings.TrimSpace(w.StartDate))
	if !ok {
		return "", false
	}
	end, ok := parseDatePrefix(strings.TrimSpace(w.EndDate))
	if !ok {
		return "", false
	}
	for d, n := start, 0; !d.After(end) && n < maxRangeDays; d, n = d.AddDate(0, 0, 1), n+1 {
		date := d.Format(dateLayout)
		if IsExcluded(ranges, date) {
			return date, true
		}
	}
	return "", false
}

// parseDatePrefix reads the YYYY-MM-DD prefix of a date or timestamp string.
func parseDatePrefix(s string) (time.Time, bool) {
	if len(s) < len(dateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
