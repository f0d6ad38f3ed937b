package scheduler

import (
	"time"

	"github.com/julianstephens/loomra/internal/constants"
	"github.com/julianstephens/loomra/internal/frequency"
	"github.com/julianstephens/loomra/internal/ledger"
	"github.com/julianstephens/loomra/internal/models"
	"github.com/julianstephens/loomra/internal/quota"
	"github.com/julianstephens/loomra/internal/status"
	"github.com/julianstephens/loomra/internal/streak"
	"github.com/julianstephens/loomra/internal/utils"
)

// Scheduler answers scheduling questions for a set of habits against a ledger
// snapshot. It holds no mutable state; every call works on the inputs given.
type Scheduler struct {
	WeekStart time.Weekday
	Location  *time.Location
	Now       func() time.Time
}

// New returns a Scheduler using the wall clock. A nil loc means time.Local.
func New(weekStart time.Weekday, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		WeekStart: weekStart,
		Location:  loc,
		Now:       time.Now,
	}
}

// Today returns the current calendar date in the scheduler's location.
func (s *Scheduler) Today() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return utils.DateOf(now().In(loc))
}

func (s *Scheduler) streakOptions() streak.Options {
	return streak.Options{WeekStart: s.WeekStart}
}

// IsDue reports whether habit's frequency selects date.
func (s *Scheduler) IsDue(habit models.Habit, date time.Time) bool {
	return frequency.IsDue(habit.Frequency, date, habit.Start())
}

// Classify returns habit's status on date as seen from Today.
func (s *Scheduler) Classify(habit models.Habit, l *ledger.Ledger, date time.Time) status.DayStatus {
	return status.Classify(habit, l, date, s.Today(), s.WeekStart)
}

// CurrentStreak returns the streak ending at Today.
func (s *Scheduler) CurrentStreak(habit models.Habit, l *ledger.Ledger) int {
	return streak.Current(habit, l, s.Today(), s.streakOptions())
}

// BestStreak returns the longest streak up to Today.
func (s *Scheduler) BestStreak(habit models.Habit, l *ledger.Ledger) int {
	return streak.Best(habit, l, s.Today(), s.streakOptions())
}

// QuotaMet reports whether the period containing date has met habit's quota.
func (s *Scheduler) QuotaMet(habit models.Habit, l *ledger.Ledger, date time.Time) bool {
	return quota.Met(habit, l, date, s.WeekStart)
}

// DueOn returns the habits that belong on date's list, in input order.
func (s *Scheduler) DueOn(habits []models.Habit, l *ledger.Ledger, date time.Time) []models.Habit {
	today := s.Today()
	var due []models.Habit
	for _, h := range habits {
		if status.Classify(h, l, date, today, s.WeekStart).Visible() {
			due = append(due, h)
		}
	}
	return due
}

// Entry is a habit together with its status on the summarized date.
type Entry struct {
	Habit  models.Habit     `json:"habit"`
	Status status.DayStatus `json:"status"`
	Streak int              `json:"streak"`
}

// Counts holds the size of each bucket of a Summary.
type Counts struct {
	Total        int `json:"total"`
	Scheduled    int `json:"scheduled"`
	Completed    int `json:"completed"`
	Skipped      int `json:"skipped"`
	NotScheduled int `json:"notScheduled"`
	Other        int `json:"other"`
}

// Summary groups a day's habits by status. Locked habits are counted as not
// scheduled; PeriodCompleted, FutureLocked, Missed and Default land in Other.
type Summary struct {
	Date           string  `json:"date"`
	Scheduled      []Entry `json:"scheduled"`
	Completed      []Entry `json:"completed"`
	Skipped        []Entry `json:"skipped"`
	NotScheduled   []Entry `json:"notScheduled"`
	Other          []Entry `json:"other"`
	Counts         Counts  `json:"counts"`
	CompletionRate float64 `json:"completionRate"`
}

// GroupByStatus classifies every habit on date and buckets the results.
// CompletionRate is completed / (completed + skipped + scheduled), or 0.
func (s *Scheduler) GroupByStatus(habits []models.Habit, l *ledger.Ledger, date time.Time) Summary {
	today := s.Today()
	sum := Summary{
		Date:         utils.FormatDate(utils.DateOf(date)),
		Scheduled:    []Entry{},
		Completed:    []Entry{},
		Skipped:      []Entry{},
		NotScheduled: []Entry{},
		Other:        []Entry{},
	}

	for _, h := range habits {
		st := status.Classify(h, l, date, today, s.WeekStart)
		e := Entry{Habit: h, Status: st}
		if st.Visible() {
			e.Streak = streak.Current(h, l, today, s.streakOptions())
		}

		switch st {
		case status.Scheduled:
			sum.Scheduled = append(sum.Scheduled, e)
		case status.Completed:
			sum.Completed = append(sum.Completed, e)
		case status.Skipped:
			sum.Skipped = append(sum.Skipped, e)
		case status.NotScheduled, status.Locked:
			sum.NotScheduled = append(sum.NotScheduled, e)
		default:
			sum.Other = append(sum.Other, e)
		}
	}

	sum.Counts = Counts{
		Total:        len(habits),
		Scheduled:    len(sum.Scheduled),
		Completed:    len(sum.Completed),
		Skipped:      len(sum.Skipped),
		NotScheduled: len(sum.NotScheduled),
		Other:        len(sum.Other),
	}
	if denom := sum.Counts.Completed + sum.Counts.Skipped + sum.Counts.Scheduled; denom > 0 {
		sum.CompletionRate = float64(sum.Counts.Completed) / float64(denom)
	}
	return sum
}

// QuotaProgress describes a quota habit's standing in the period containing a date.
type QuotaProgress struct {
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
	Count       int    `json:"count"`
	Required    int    `json:"required"`
	Remaining   int    `json:"remaining"`
	Met         bool   `json:"met"`
}

// Overview is everything the detail view shows for one habit on one date.
type Overview struct {
	Habit         models.Habit             `json:"habit"`
	Date          string                   `json:"date"`
	Schedule      string                   `json:"schedule"`
	Due           bool                     `json:"due"`
	Status        status.DayStatus         `json:"status"`
	Editable      bool                     `json:"editable"`
	CurrentStreak int                      `json:"currentStreak"`
	BestStreak    int                      `json:"bestStreak"`
	Record        *models.CompletionRecord `json:"record,omitempty"`
	Quota         *QuotaProgress           `json:"quota,omitempty"`
}

// Overview gathers status, streaks, the day's record and quota progress for habit on date.
func (s *Scheduler) Overview(habit models.Habit, l *ledger.Ledger, date time.Time) Overview {
	date = utils.DateOf(date)
	st := s.Classify(habit, l, date)
	ov := Overview{
		Habit:         habit,
		Date:          utils.FormatDate(date),
		Schedule:      frequency.Describe(habit.Frequency),
		Due:           s.IsDue(habit, date),
		Status:        st,
		Editable:      st.Editable(),
		CurrentStreak: s.CurrentStreak(habit, l),
		BestStreak:    s.BestStreak(habit, l),
	}
	if rec, ok := l.GetRecord(habit.ID, date); ok {
		ov.Record = &rec
	}
	if t, ok := frequency.IsPeriodic(habit.Frequency); ok {
		start, end := quota.Bounds(date, t.Period, s.WeekStart)
		from, to := quota.Window(habit, date, t.Period, s.WeekStart)
		count := quota.Count(l, habit.ID, from, to)
		ov.Quota = &QuotaProgress{
			PeriodStart: utils.FormatDate(start),
			PeriodEnd:   utils.FormatDate(end),
			Count:       count,
			Required:    t.Count,
			Remaining:   quota.Remaining(habit, l, date, s.WeekStart),
			Met:         count >= t.Count,
		}
	}
	return ov
}

// Day is one cell of a habit's status calendar.
type Day struct {
	Date   string           `json:"date"`
	Status status.DayStatus `json:"status"`
}

// Calendar classifies every date in [from, to]. An inverted range, or one wider
// than the lookback horizon, is clamped rather than rejected.
func (s *Scheduler) Calendar(habit models.Habit, l *ledger.Ledger, from, to time.Time) []Day {
	from, to = utils.DateOf(from), utils.DateOf(to)
	if from.After(to) {
		return []Day{}
	}
	if utils.DaysBetween(from, to) > constants.MaxHabitAgeDays {
		from = utils.AddDays(to, -constants.MaxHabitAgeDays)
	}

	today := s.Today()
	days := make([]Day, 0, utils.DaysBetween(from, to)+1)
	for d := from; !d.After(to); d = utils.AddDays(d, 1) {
		days = append(days, Day{
			Date:   utils.FormatDate(d),
			Status: status.Classify(habit, l, d, today, s.WeekStart),
		})
	}
	return days
}
