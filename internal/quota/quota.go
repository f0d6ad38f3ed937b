// Package quota tracks "N times per period" habits against their week or month window.
package quota

import (
	"time"

	"github.com/julianstephens/loomra/internal/frequency"
	"github.com/julianstephens/loomra/internal/ledger"
	"github.com/julianstephens/loomra/internal/models"
	"github.com/julianstephens/loomra/internal/utils"
)

// Bounds returns the first and last day of the period containing date. Weeks
// begin on weekStart and are never split by a month boundary.
func Bounds(date time.Time, period frequency.Period, weekStart time.Weekday) (time.Time, time.Time) {
	if period == frequency.PeriodMonth {
		return utils.StartOfMonth(date), utils.EndOfMonth(date)
	}
	return utils.StartOfWeek(date, weekStart), utils.EndOfWeek(date, weekStart)
}

// Previous returns a date inside the period immediately before the one containing date.
func Previous(date time.Time, period frequency.Period, weekStart time.Weekday) time.Time {
	start, _ := Bounds(date, period, weekStart)
	return utils.AddDays(start, -1)
}

// Next returns the first day of the period immediately after the one containing date.
func Next(date time.Time, period frequency.Period, weekStart time.Weekday) time.Time {
	_, end := Bounds(date, period, weekStart)
	return utils.AddDays(end, 1)
}

// Window is Bounds for habit's own calendar: the period start is moved up to
// the habit's start date when the habit begins mid-period.
func Window(habit models.Habit, date time.Time, period frequency.Period, weekStart time.Weekday) (time.Time, time.Time) {
	start, end := Bounds(date, period, weekStart)
	if hs := habit.Start(); !hs.IsZero() && hs.After(start) {
		start = hs
	}
	return start, end
}

// Count returns the number of completed days of habitID in [start, end].
func Count(l *ledger.Ledger, habitID string, start, end time.Time) int {
	n := 0
	for d := utils.DateOf(start); !d.After(utils.DateOf(end)); d = utils.AddDays(d, 1) {
		if l.IsCompleted(habitID, d) {
			n++
		}
	}
	return n
}

// Met reports whether the period containing date already holds the required
// number of completions. It is always false for habits without a quota.
func Met(habit models.Habit, l *ledger.Ledger, date time.Time, weekStart time.Weekday) bool {
	t, ok := frequency.IsPeriodic(habit.Frequency)
	if !ok {
		return false
	}
	start, end := Window(habit, date, t.Period, weekStart)
	return Count(l, habit.ID, start, end) >= t.Count
}

// Remaining returns how many completions are still needed in the period
// containing date, or 0 for habits without a quota.
func Remaining(habit models.Habit, l *ledger.Ledger, date time.Time, weekStart time.Weekday) int {
	t, ok := frequency.IsPeriodic(habit.Frequency)
	if !ok {
		return 0
	}
	start, end := Window(habit, date, t.Period, weekStart)
	if left := t.Count - Count(l, habit.ID, start, end); left > 0 {
		return left
	}
	return 0
}

// Ended reports whether the period containing date is over as of today,
// i.e. its last day is strictly before today.
func Ended(date time.Time, period frequency.Period, weekStart time.Weekday, today time.Time) bool {
	_, end := Bounds(date, period, weekStart)
	return end.Before(utils.DateOf(today))
}
