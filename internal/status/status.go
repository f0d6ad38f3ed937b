// Package status classifies a habit's day into exactly one DayStatus.
package status

import (
	"fmt"
	"time"

	"github.com/julianstephens/loomra/internal/constants"
	"github.com/julianstephens/loomra/internal/frequency"
	"github.com/julianstephens/loomra/internal/ledger"
	"github.com/julianstephens/loomra/internal/logger"
	"github.com/julianstephens/loomra/internal/models"
	"github.com/julianstephens/loomra/internal/quota"
	"github.com/julianstephens/loomra/internal/utils"
)

// DayStatus is the derived state of a habit on one date. It is never stored.
type DayStatus int

const (
	// Default is the safety net for indeterminate input; normal data never produces it.
	Default DayStatus = iota
	Locked
	NotScheduled
	Completed
	Skipped
	PeriodCompleted
	FutureLocked
	Missed
	Scheduled
)

var names = map[DayStatus]string{
	Default:         constants.StatusNameDefault,
	Locked:          constants.StatusNameLocked,
	NotScheduled:    constants.StatusNameNotScheduled,
	Completed:       constants.StatusNameCompleted,
	Skipped:         constants.StatusNameSkipped,
	PeriodCompleted: constants.StatusNamePeriodCompleted,
	FutureLocked:    constants.StatusNameFutureLocked,
	Missed:          constants.StatusNameMissed,
	Scheduled:       constants.StatusNameScheduled,
}

// All returns every status in precedence order, Default last.
func All() []DayStatus {
	return []DayStatus{Locked, NotScheduled, Completed, Skipped, PeriodCompleted, FutureLocked, Missed, Scheduled, Default}
}

func (s DayStatus) String() string {
	if name, ok := names[s]; ok {
		return name
	}
	return constants.StatusNameDefault
}

// MarshalText renders the status by name in JSON and other text encodings.
func (s DayStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Parse returns the status with the given name.
func Parse(name string) (DayStatus, bool) {
	for s, n := range names {
		if n == name {
			return s, true
		}
	}
	return Default, false
}

// UnmarshalText accepts the names produced by MarshalText.
func (s *DayStatus) UnmarshalText(text []byte) error {
	v, ok := Parse(string(text))
	if !ok {
		return fmt.Errorf("unknown status %q", text)
	}
	*s = v
	return nil
}

// Editable reports whether the completion record of a day in this status may be changed.
func (s DayStatus) Editable() bool {
	switch s {
	case Scheduled, Skipped, Completed, Missed:
		return true
	}
	return false
}

// Visible reports whether the habit belongs on the day's list at all.
func (s DayStatus) Visible() bool {
	return s != Locked && s != NotScheduled
}

// Classify returns the status of habit on date as seen from today. The first
// matching rule wins:
//
//  1. Locked: date is before the start date
//  2. NotScheduled: the frequency does not select date
//  3. Completed: the day's record is completed and not skipped
//  4. Skipped: the day's record is skipped
//  5. PeriodCompleted: the period quota is met and the day has no record
//  6. FutureLocked: date is after today
//  7. Missed: date is past and, for quota habits, its period ended unmet
//  8. Scheduled: today, or a past day of a period that is still open
//  9. Default: anything else
func Classify(habit models.Habit, l *ledger.Ledger, date, today time.Time, weekStart time.Weekday) (s DayStatus) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Status classification failed", "habit", habit.ID, "date", utils.FormatDate(date), "panic", r)
			s = Default
		}
	}()

	date, today = utils.DateOf(date), utils.DateOf(today)
	start := habit.Start()

	if !start.IsZero() && date.Before(start) {
		return Locked
	}
	if !frequency.IsDue(habit.Frequency, date, start) {
		return NotScheduled
	}

	rec, hasRecord := l.GetRecord(habit.ID, date)
	switch {
	case hasRecord && rec.IsCompletion():
		return Completed
	case hasRecord && rec.Skipped:
		return Skipped
	}

	t, periodic := frequency.IsPeriodic(habit.Frequency)
	met := periodic && quota.Met(habit, l, date, weekStart)
	if met && !hasRecord {
		return PeriodCompleted
	}
	if date.After(today) {
		return FutureLocked
	}

	if date.Before(today) {
		if !periodic {
			return Missed
		}
		if quota.Ended(date, t.Period, weekStart, today) {
			if !met {
				return Missed
			}
			// closed period, quota met, but an unfinished record for this day
			return Default
		}
	}
	return Scheduled
}
