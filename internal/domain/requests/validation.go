package requests

import "time"

// ValidateRange rejects ranges whose end precedes the start. Hard failure,
// no confirmation override.
func ValidateRange(start, end time.Time) error {
	if end.Before(start) {
		return ErrInvalidRange
	}
	return nil
}

// DayCount returns the inclusive day span of a range.
func DayCount(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// ValidateSelfReference rejects shift changes naming the requester as their
// own acceptor.
func ValidateSelfReference(requester, acceptor string) error {
	if requester == acceptor {
		return ErrSelfRequest
	}
	return nil
}

// Overlaps reports whether two inclusive date ranges intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// DetectOverlap returns the first active vacation record of user whose range
// intersects [start, end]. Only the first match is surfaced.
func DetectOverlap(records []Request, user string, start, end time.Time) *Request {
	for i := range records {
		r := records[i]
		if r.Vacation == nil || r.Vacation.User != user || !r.Active() {
			continue
		}
		if Overlaps(r.Vacation.StartDate, r.Vacation.EndDate, start, end) {
			return &records[i]
		}
	}
	return nil
}

// ActiveVacationDays sums the inclusive day counts of the user's active
// vacation records.
func ActiveVacationDays(records []Request, user string) int {
	total := 0
	for _, r := range records {
		if r.Vacation == nil || r.Vacation.User != user || !r.Active() {
			continue
		}
		total += DayCount(r.Vacation.StartDate, r.Vacation.EndDate)
	}
	return total
}

// ExceedsCap reports whether the cumulative active day count would pass the
// vacation cap. Soft check: the caller must obtain confirmation.
func ExceedsCap(activeDays, newDays int) bool {
	return activeDays+newDays > VacationDayCap
}
