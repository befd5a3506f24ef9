package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

// PastDue is the anchor of an amount due before the reference date.
const PastDue = "Past Due"

// MonthNames are the anchor labels of future amounts, January first.
var MonthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ParseDate reads "M/D/YYYY" optionally followed by a time ("3/4/2025 7:58 am").
// Out-of-range parts roll over ("2/30/2025" is March 2) and years 0-99 are
// 1900-1999 ("3/4/25" is 1925). The second result is false when the text is
// not a date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	nums := [3]int{}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	year := nums[2]
	if year >= 0 && year <= 99 {
		year += 1900
	}
	return time.Date(year, time.Month(nums[0]), nums[1], 0, 0, 0, 0, time.UTC), true
}

// FormatDate renders t as "M/D/YYYY" without padding.
func FormatDate(t time.Time) string {
	return strconv.Itoa(int(t.Month())) + "/" + strconv.Itoa(t.Day()) + "/" + strconv.Itoa(t.Year())
}

// Anchor buckets a due date relative to now. Dates before now (by day or by
// month, per granularity) are "Past Due"; others are labelled with their
// month. Only the calendar date of now is used.
func Anchor(date, now time.Time, granularity types.BucketGranularity) string {
	ny, nm, nd := now.Date()
	y, m, d := date.Date()

	switch granularity {
	case types.BucketByMonth:
		if y < ny || (y == ny && m < nm) {
			return PastDue
		}
	default:
		if time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Before(time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)) {
			return PastDue
		}
	}
	return MonthNames[m-1]
}
