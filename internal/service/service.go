// Package service is the write path shared by the CLI, the TUI and the HTTP
// view: it loads ledger snapshots from storage and applies the editability
// rules before a completion record is written.
package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/loomra/internal/constants"
	apperrors "github.com/julianstephens/loomra/internal/errors"
	"github.com/julianstephens/loomra/internal/frequency"
	"github.com/julianstephens/loomra/internal/ledger"
	"github.com/julianstephens/loomra/internal/logger"
	"github.com/julianstephens/loomra/internal/models"
	"github.com/julianstephens/loomra/internal/scheduler"
	"github.com/julianstephens/loomra/internal/storage"
	"github.com/julianstephens/loomra/internal/utils"
	"github.com/julianstephens/loomra/internal/validation"
)

// Service loads snapshots from the store and applies habit and record edits.
type Service struct {
	Store     storage.Provider
	Scheduler *scheduler.Scheduler
}

// New returns a Service over store, using sched for dates and statuses.
func New(store storage.Provider, sched *scheduler.Scheduler) *Service {
	return &Service{Store: store, Scheduler: sched}
}

// Snapshot returns the active habits and a ledger of every stored record.
func (s *Service) Snapshot() ([]models.Habit, *ledger.Ledger, error) {
	habits, err := s.Store.GetAllHabits(false, false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load habits: %w", err)
	}
	records, err := s.Store.GetAllCompletions()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load completions: %w", err)
	}
	return habits, ledger.New(records), nil
}

// HabitLedger returns a ledger holding only habitID's records.
func (s *Service) HabitLedger(habitID string) (*ledger.Ledger, error) {
	records, err := s.Store.GetCompletionsForHabit(habitID, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}
	return ledger.New(records), nil
}

// FindHabit resolves a habit by name first, then by id.
func (s *Service) FindHabit(ref string) (models.Habit, error) {
	h, err := s.Store.GetHabitByName(ref)
	if err == nil {
		return h, nil
	}
	if !apperrors.Is(err, apperrors.ErrHabitNotFound) {
		return models.Habit{}, err
	}
	return s.Store.GetHabit(ref)
}

// ParseDate reads YYYY-MM-DD; an empty string is today.
func (s *Service) ParseDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return s.Scheduler.Today(), nil
	}
	d, err := utils.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, value)
	}
	return d, nil
}

// HabitInput carries the user-editable fields of a habit. Nil fields keep
// their current (or default) value.
type HabitInput struct {
	Name         *string
	Frequency    *string
	StartDate    *string
	Category     *string
	Priority     *string
	Icon         *string
	Color        *string
	Unit         *string
	Notes        *string
	TargetAmount *int
	Reminder     *string // HH:MM enables, "off" disables
}

func (in HabitInput) apply(h *models.Habit) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&h.Name, in.Name)
	set(&h.StartDate, in.StartDate)
	set(&h.Icon, in.Icon)
	set(&h.Color, in.Color)
	set(&h.Unit, in.Unit)
	set(&h.Notes, in.Notes)
	if in.Category != nil {
		h.Category = constants.Category(strings.ToLower(strings.TrimSpace(*in.Category)))
	}
	if in.Priority != nil {
		h.Priority = constants.Priority(strings.ToLower(strings.TrimSpace(*in.Priority)))
	}
	if in.TargetAmount != nil {
		h.TargetAmount = *in.TargetAmount
	}
	if in.Frequency != nil {
		f, err := frequency.Parse(*in.Frequency)
		if err != nil {
			return err
		}
		h.Frequency = f
	}
	if in.Reminder != nil {
		switch r := strings.TrimSpace(*in.Reminder); r {
		case "", "off", "none":
			h.Reminder.Enabled = false
		default:
			h.Reminder = models.Reminder{Enabled: true, Time: r}
		}
	}
	return nil
}

// AddHabit creates a habit. Names are unique among live habits.
func (s *Service) AddHabit(in HabitInput) (models.Habit, error) {
	now := time.Now()
	h := models.Habit{
		ID:           uuid.New().String(),
		Category:     constants.CategoryOther,
		Priority:     constants.PriorityMedium,
		Unit:         constants.DefaultUnit,
		TargetAmount: constants.DefaultTargetAmount,
		Frequency:    frequency.Default(),
		StartDate:    utils.FormatDate(s.Scheduler.Today()),
		Reminder:     models.Reminder{Time: constants.DefaultReminderTime},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := in.apply(&h); err != nil {
		return models.Habit{}, err
	}
	if err := validation.ValidateHabit(h); err != nil {
		return models.Habit{}, err
	}
	if _, err := s.Store.GetHabitByName(h.Name); err == nil {
		return models.Habit{}, fmt.Errorf("%w: %q", apperrors.ErrHabitExists, h.Name)
	}

	if err := s.Store.AddHabit(h); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Habit added", "id", h.ID, "name", h.Name, "frequency", frequency.Describe(h.Frequency))
	return h, nil
}

// EditHabit applies in to the habit named (or identified by) ref.
func (s *Service) EditHabit(ref string, in HabitInput) (models.Habit, error) {
	h, err := s.FindHabit(ref)
	if err != nil {
		return models.Habit{}, err
	}
	oldName := h.Name
	if err := in.apply(&h); err != nil {
		return models.Habit{}, err
	}
	if err := validation.ValidateHabit(h); err != nil {
		return models.Habit{}, err
	}
	if h.Name != oldName {
		if other, err := s.Store.GetHabitByName(h.Name); err == nil && other.ID != h.ID {
			return models.Habit{}, fmt.Errorf("%w: %q", apperrors.ErrHabitExists, h.Name)
		}
	}
	h.UpdatedAt = time.Now()
	if err := s.Store.UpdateHabit(h); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Habit updated", "id", h.ID, "name", h.Name)
	return h, nil
}

// LogInput is a change to one day's record. Nil fields are left alone; Clear
// resets both flags and wins over Complete and Skip.
type LogInput struct {
	Complete *bool
	Skip     *bool
	Clear    bool
	Amount   *float64
	Note     *string
	Mood     *string
	// Difficulty is free text (e.g. easy, medium, hard).
	Difficulty *string
}

func (in LogInput) patch() ledger.RecordPatch {
	p := ledger.RecordPatch{
		Completed:    in.Complete,
		Skipped:      in.Skip,
		ActualAmount: in.Amount,
		Note:         in.Note,
		Mood:         in.Mood,
		Difficulty:   in.Difficulty,
	}
	// completing un-skips and skipping un-completes
	f := false
	if in.Complete != nil && *in.Complete && in.Skip == nil {
		p.Skipped = &f
	}
	if in.Skip != nil && *in.Skip && in.Complete == nil {
		p.Completed = &f
	}
	if in.Clear {
		p.Completed, p.Skipped = &f, &f
	}
	return p
}

// Log writes one day's record for habit, refusing days whose status is not
// editable. Records are never deleted; clearing resets the flags.
func (s *Service) Log(habit models.Habit, date time.Time, in LogInput) (models.CompletionRecord, error) {
	date = utils.DateOf(date)
	l, err := s.HabitLedger(habit.ID)
	if err != nil {
		return models.CompletionRecord{}, err
	}

	st := s.Scheduler.Classify(habit, l, date)
	if !st.Editable() {
		return models.CompletionRecord{}, fmt.Errorf("%w: %s is %s on %s",
			apperrors.ErrNotEditable, habit.Name, st, utils.FormatDate(date))
	}

	now := time.Now()
	var rec models.CompletionRecord
	if existing, ok := l.GetRecord(habit.ID, date); ok {
		rec = ledger.UpdateRecord(existing, in.patch(), now)
	} else {
		p := in.patch()
		rec = ledger.CreateRecord(habit.ID, date, ledger.RecordInput{
			Completed:    deref(p.Completed, false),
			Skipped:      deref(p.Skipped, false),
			ActualAmount: deref(p.ActualAmount, 0),
			TargetAmount: float64(habit.Target()),
			Note:         deref(p.Note, ""),
			Mood:         deref(p.Mood, ""),
			Difficulty:   deref(p.Difficulty, ""),
		}, now)
	}

	if err := s.Store.UpsertCompletion(rec); err != nil {
		return models.CompletionRecord{}, err
	}
	logger.Debug("Completion recorded", "habit", habit.ID, "date", rec.Date,
		"completed", rec.Completed, "skipped", rec.Skipped, "previous_status", st)
	return rec, nil
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
