// Package frequency models the four recurrence rules a habit can follow and
// answers whether a calendar date is a candidate occurrence. It never looks
// at completion history.
package frequency

import (
	"sort"
	"time"

	"github.com/julianstephens/loomra/internal/utils"
)

// Kind is the wire name of a frequency variant.
type Kind string

const (
	KindDaily          Kind = "daily"
	KindInterval       Kind = "interval"
	KindTimesPerPeriod Kind = "times_per_period"
	KindSpecificDates  Kind = "specific_dates"
)

// Period is the rolling window of a TimesPerPeriod quota.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Frequency is a closed sum type: only the variants in this package implement it,
// and each must provide due, so a new variant cannot be added without its rule.
type Frequency interface {
	Kind() Kind
	due(date, start time.Time, hasStart bool) bool
}

// Daily is due on every date whose weekday is selected.
type Daily struct {
	Weekdays []time.Weekday
}

// Interval is due on the start date and every Days-th day after it.
type Interval struct {
	Days int
}

// TimesPerPeriod is a candidate every day; the quota tracker decides whether
// the Count for the current Period is already met.
type TimesPerPeriod struct {
	Count  int
	Period Period
}

// DaysOfMonth is due on every date whose day-of-month is selected.
type DaysOfMonth struct {
	Days []int
}

func (Daily) Kind() Kind          { return KindDaily }
func (Interval) Kind() Kind       { return KindInterval }
func (TimesPerPeriod) Kind() Kind { return KindTimesPerPeriod }
func (DaysOfMonth) Kind() Kind    { return KindSpecificDates }

func (d Daily) due(date, _ time.Time, _ bool) bool {
	return d.Includes(date.Weekday())
}

func (i Interval) due(date, start time.Time, hasStart bool) bool {
	// an interval habit cannot be scheduled without an anchor
	if !hasStart {
		return false
	}
	return utils.DaysBetween(start, date)%i.Days == 0
}

func (TimesPerPeriod) due(_, _ time.Time, _ bool) bool {
	return true
}

func (d DaysOfMonth) due(date, _ time.Time, _ bool) bool {
	return d.Includes(date.Day())
}

// Includes reports whether wd is one of the selected weekdays.
func (d Daily) Includes(wd time.Weekday) bool {
	for _, w := range d.Weekdays {
		if w == wd {
			return true
		}
	}
	return false
}

// Includes reports whether day is one of the selected days of the month.
func (d DaysOfMonth) Includes(day int) bool {
	for _, v := range d.Days {
		if v == day {
			return true
		}
	}
	return false
}

// AllWeekdays returns a fresh slice of Sunday..Saturday.
func AllWeekdays() []time.Weekday {
	return []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	}
}

// Default returns a new every-day frequency.
func Default() Frequency {
	return Daily{Weekdays: AllWeekdays()}
}

// Normalize returns a valid copy of f. Invalid payloads fall back to safe
// defaults instead of producing undefined schedules: an empty weekday set
// selects the whole week, a non-positive interval or count becomes 1, an
// unknown period becomes a week and an empty day-of-month set becomes {1}.
func Normalize(f Frequency) Frequency {
	switch v := f.(type) {
	case Daily:
		return normalizeDaily(v)
	case *Daily:
		if v != nil {
			return normalizeDaily(*v)
		}
	case Interval:
		return normalizeInterval(v)
	case *Interval:
		if v != nil {
			return normalizeInterval(*v)
		}
	case TimesPerPeriod:
		return normalizeTimes(v)
	case *TimesPerPeriod:
		if v != nil {
			return normalizeTimes(*v)
		}
	case DaysOfMonth:
		return normalizeDaysOfMonth(v)
	case *DaysOfMonth:
		if v != nil {
			return normalizeDaysOfMonth(*v)
		}
	}
	return Default()
}

func normalizeDaily(d Daily) Frequency {
	seen := make(map[time.Weekday]bool, 7)
	var out []time.Weekday
	for _, wd := range d.Weekdays {
		if wd < time.Sunday || wd > time.Saturday || seen[wd] {
			continue
		}
		seen[wd] = true
		out = append(out, wd)
	}
	if len(out) == 0 {
		return Daily{Weekdays: AllWeekdays()}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return Daily{Weekdays: out}
}

func normalizeInterval(i Interval) Frequency {
	if i.Days <= 0 {
		return Interval{Days: 1}
	}
	return i
}

func normalizeTimes(t TimesPerPeriod) Frequency {
	if t.Count <= 0 {
		t.Count = 1
	}
	if t.Period != PeriodWeek && t.Period != PeriodMonth {
		t.Period = PeriodWeek
	}
	return t
}

func normalizeDaysOfMonth(d DaysOfMonth) Frequency {
	seen := make(map[int]bool, len(d.Days))
	var out []int
	for _, day := range d.Days {
		if day < 1 || day > 31 || seen[day] {
			continue
		}
		seen[day] = true
		out = append(out, day)
	}
	if len(out) == 0 {
		return DaysOfMonth{Days: []int{1}}
	}
	sort.Ints(out)
	return DaysOfMonth{Days: out}
}

// IsDue reports whether date is a candidate occurrence of f. A zero start means
// the habit has no start date: nothing is before it, but an Interval is never due.
func IsDue(f Frequency, date, start time.Time) bool {
	date = utils.DateOf(date)
	hasStart := !start.IsZero()
	if hasStart {
		start = utils.DateOf(start)
		if date.Before(start) {
			return false
		}
	}
	return Normalize(f).due(date, start, hasStart)
}

// IsPeriodic reports whether f is a TimesPerPeriod quota rule.
func IsPeriodic(f Frequency) (TimesPerPeriod, bool) {
	t, ok := Normalize(f).(TimesPerPeriod)
	return t, ok
}
