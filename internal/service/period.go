package service

import (
	"time"

	"cloud.google.com/go/civil"
)

// Period is a resolved reporting range. Start and End are UTC instants of
// local 00:00:00 on StartDate and local 23:59:59 on EndDate, both inclusive.
type Period struct {
	Start     time.Time
	End       time.Time
	StartDate civil.Date
	EndDate   civil.Date
}

// PeriodResolver turns optional local calendar dates into UTC bounds using
// the ledger timezone.
type PeriodResolver struct {
	location *time.Location
	now      func() time.Time
}

// NewPeriodResolver creates a resolver for loc. A nil now uses time.Now.
func NewPeriodResolver(loc *time.Location, now func() time.Time) *PeriodResolver {
	if now == nil {
		now = time.Now
	}
	return &PeriodResolver{location: loc, now: now}
}

// Location is the ledger timezone all periods are resolved in.
func (r *PeriodResolver) Location() *time.Location {
	return r.location
}

// Now is the current instant from the injected clock.
func (r *PeriodResolver) Now() time.Time {
	return r.now()
}

// Today is the current calendar date in the ledger timezone.
func (r *PeriodResolver) Today() civil.Date {
	return civil.DateOf(r.now().In(r.location))
}

// Resolve defaults a missing start to the first day of the current month and
// a missing end to today, then converts both to UTC.
func (r *PeriodResolver) Resolve(start, end *civil.Date) (Period, error) {
	today := r.Today()

	startDate := civil.Date{Year: today.Year, Month: today.Month, Day: 1}
	if start != nil {
		startDate = *start
	}
	endDate := today
	if end != nil {
		endDate = *end
	}

	if startDate.After(endDate) {
		return Period{}, ErrInvalidRange
	}

	return Period{
		Start:     r.startOfDay(startDate),
		End:       r.endOfDay(endDate),
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

// Bounds converts each supplied date independently. A missing side stays
// open. Two supplied dates out of order fail with ErrInvalidRange.
func (r *PeriodResolver) Bounds(start, end *civil.Date) (from, to *time.Time, err error) {
	if start != nil && end != nil && start.After(*end) {
		return nil, nil, ErrInvalidRange
	}
	if start != nil {
		t := r.startOfDay(*start)
		from = &t
	}
	if end != nil {
		t := r.endOfDay(*end)
		to = &t
	}
	return from, to, nil
}

func (r *PeriodResolver) startOfDay(d civil.Date) time.Time {
	return civil.DateTime{Date: d}.In(r.location).UTC()
}

func (r *PeriodResolver) endOfDay(d civil.Date) time.Time {
	return civil.DateTime{Date: d, Time: civil.Time{Hour: 23, Minute: 59, Second: 59}}.In(r.location).UTC()
}
