// Package streak computes current and best completion streaks.
//
// A streak counts consecutive due occurrences that were completed. An occurrence
// marked skipped is excused: it neither adds to nor breaks the streak. Today (or,
// for quota habits, the still-open period) is pending until it is acted on, so an
// unfinished today never breaks a streak built on earlier days.
//
// Every walk is bounded below by the habit's start date and by
// constants.MaxHabitAgeDays, so history older than that horizon is ignored.
package streak

import (
	"time"

	"github.com/julianstephens/loomra/internal/constants"
	"github.com/julianstephens/loomra/internal/frequency"
	"github.com/julianstephens/loomra/internal/ledger"
	"github.com/julianstephens/loomra/internal/logger"
	"github.com/julianstephens/loomra/internal/models"
	"github.com/julianstephens/loomra/internal/quota"
	"github.com/julianstephens/loomra/internal/utils"
)

// Options carries the calendar settings a streak depends on.
type Options struct {
	WeekStart time.Weekday
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{WeekStart: constants.DefaultWeekStart}
}

type outcome int

const (
	outcomeCompleted outcome = iota
	outcomeSkipped
	outcomePending
	outcomeMissed
)

// Current returns the length of the streak ending at today. It never fails:
// any unexpected error is logged and reported as 0.
func Current(habit models.Habit, l *ledger.Ledger, today time.Time, opts Options) (n int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Streak computation failed", "habit", habit.ID, "op", "current", "panic", r)
			n = 0
		}
	}()

	w, ok := newWalk(habit, l, today, opts)
	if !ok {
		return 0
	}
	return w.current()
}

// Best returns the longest streak in the habit's history up to today. It is
// never less than Current and never fails.
//
// For day-based frequencies best scans the completed records in date order and
// extends a run only while each completion follows the previous one: the next
// due day for Daily, exactly Days apart for Interval, and the same day of the
// following month for DaysOfMonth. A skip between two completions ends the run.
func Best(habit models.Habit, l *ledger.Ledger, today time.Time, opts Options) (n int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Streak computation failed", "habit", habit.ID, "op", "best", "panic", r)
			n = 0
		}
	}()

	w, ok := newWalk(habit, l, today, opts)
	if !ok {
		return 0
	}
	best := 0
	switch f := w.freq.(type) {
	case frequency.Daily, frequency.DaysOfMonth, frequency.Interval:
		best = w.bestRecords()
	case frequency.TimesPerPeriod:
		best = w.bestPeriods(f)
	}
	return max(best, w.current())
}

// walk holds the normalized inputs shared by every traversal.
type walk struct {
	habitID  string
	freq     frequency.Frequency
	l        *ledger.Ledger
	start    time.Time
	hasStart bool
	today    time.Time
	lower    time.Time // earliest date any traversal may look at
	opts     Options
}

func newWalk(habit models.Habit, l *ledger.Ledger, today time.Time, opts Options) (walk, bool) {
	w := walk{
		habitID: habit.ID,
		freq:    frequency.Normalize(habit.Frequency),
		l:       l,
		start:   habit.Start(),
		today:   utils.DateOf(today),
		opts:    opts,
	}
	w.hasStart = !w.start.IsZero()
	w.lower = utils.AddDays(w.today, -constants.MaxHabitAgeDays)
	if w.hasStart {
		if w.start.After(w.today) {
			return w, false
		}
		if w.start.After(w.lower) {
			w.lower = w.start
		}
	}
	return w, true
}

func (w walk) current() int {
	switch f := w.freq.(type) {
	case frequency.Daily, frequency.DaysOfMonth:
		return w.currentDays()
	case frequency.Interval:
		return w.currentInterval(f.Days)
	case frequency.TimesPerPeriod:
		return w.currentPeriods(f)
	}
	return 0
}

// clamp moves d up to the start date; earlier days are locked.
func (w walk) clamp(d time.Time) time.Time {
	if w.hasStart && w.start.After(d) {
		return w.start
	}
	return d
}

func (w walk) day(d time.Time) outcome {
	switch rec, ok := w.l.GetRecord(w.habitID, d); {
	case ok && rec.IsCompletion():
		return outcomeCompleted
	case ok && rec.Skipped:
		return outcomeSkipped
	case d.Equal(w.today):
		return outcomePending
	}
	return outcomeMissed
}

func (w walk) currentDays() int {
	n := 0
	for d := w.today; !d.Before(w.lower); d = utils.AddDays(d, -1) {
		if !frequency.IsDue(w.freq, d, w.start) {
			continue
		}
		switch w.day(d) {
		case outcomeCompleted:
			n++
		case outcomeMissed:
			return n
		}
	}
	return n
}

func (w walk) currentInterval(every int) int {
	if !w.hasStart {
		return 0
	}
	// most recent due date at or before today
	offset := utils.DaysBetween(w.start, w.today) % every
	n := 0
	for d := utils.AddDays(w.today, -offset); !d.Before(w.lower); d = utils.AddDays(d, -every) {
		switch w.day(d) {
		case outcomeCompleted:
			n++
		case outcomeMissed:
			return n
		}
	}
	return n
}

func (w walk) currentPeriods(t frequency.TimesPerPeriod) int {
	n := 0
	for p := w.today; ; p = quota.Previous(p, t.Period, w.opts.WeekStart) {
		start, end := quota.Bounds(p, t.Period, w.opts.WeekStart)
		if end.Before(w.lower) {
			return n
		}
		switch {
		case quota.Count(w.l, w.habitID, w.clamp(start), end) >= t.Count:
			n++
		case !end.Before(w.today):
			// the current period can still be met
		default:
			return n
		}
	}
}

func (w walk) bestRecords() int {
	best, run := 0, 0
	var prev time.Time
	for _, d := range w.l.CompletedDates(w.habitID) {
		if d.Before(w.lower) || d.After(w.today) || !frequency.IsDue(w.freq, d, w.start) {
			continue
		}
		if run > 0 && w.follows(prev, d) {
			run++
		} else {
			run = 1
		}
		prev = d
		best = max(best, run)
	}
	return best
}

// follows reports whether next is the occurrence right after prev.
func (w walk) follows(prev, next time.Time) bool {
	switch f := w.freq.(type) {
	case frequency.Interval:
		return utils.DaysBetween(prev, next) == f.Days
	case frequency.DaysOfMonth:
		months := (next.Year()-prev.Year())*12 + int(next.Month()) - int(prev.Month())
		return months == 1 && next.Day() == prev.Day()
	}
	// Daily: no due day strictly between the two
	for d := utils.AddDays(prev, 1); d.Before(next); d = utils.AddDays(d, 1) {
		if frequency.IsDue(w.freq, d, w.start) {
			return false
		}
	}
	return true
}

func (w walk) bestPeriods(t frequency.TimesPerPeriod) int {
	best, run := 0, 0
	for p := w.lower; !p.After(w.today); p = quota.Next(p, t.Period, w.opts.WeekStart) {
		start, end := quota.Bounds(p, t.Period, w.opts.WeekStart)
		switch {
		case quota.Count(w.l, w.habitID, w.clamp(start), end) >= t.Count:
			run++
			if run > best {
				best = run
			}
		case !end.Before(w.today):
		default:
			run = 0
		}
	}
	return best
}
