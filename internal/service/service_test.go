package service

import (
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/julianstephens/loomra/internal/errors"
	"github.com/julianstephens/loomra/internal/frequency"
	"github.com/julianstephens/loomra/internal/scheduler"
	"github.com/julianstephens/loomra/internal/storage/sqlite"
	"github.com/julianstephens/loomra/internal/utils"
)

// 2024-01-10 is a Wednesday.
var testNow = time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)

func setupService(t *testing.T) *Service {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	sched := scheduler.New(time.Monday, time.UTC)
	sched.Now = func() time.Time { return testNow }
	return New(store, sched)
}

func ptr[T any](v T) *T { return &v }

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func TestAddHabitDefaults(t *testing.T) {
	svc := setupService(t)

	h, err := svc.AddHabit(HabitInput{Name: ptr("  Read  ")})
	if err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}
	if h.Name != "Read" {
		t.Errorf("Name = %q, want trimmed", h.Name)
	}
	if h.StartDate != "2024-01-10" {
		t.Errorf("StartDate = %q, want today", h.StartDate)
	}
	if frequency.Describe(h.Frequency) != "every day" {
		t.Errorf("Frequency = %s, want every day", frequency.Describe(h.Frequency))
	}

	stored, err := svc.FindHabit(h.ID)
	if err != nil {
		t.Fatalf("FindHabit(id) failed: %v", err)
	}
	if stored.Name != "Read" || stored.Category != "other" || stored.Priority != "medium" {
		t.Errorf("stored habit = %+v", stored)
	}
}

func TestAddHabitRejects(t *testing.T) {
	svc := setupService(t)
	if _, err := svc.AddHabit(HabitInput{Name: ptr("Read")}); err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}

	tests := []struct {
		name string
		in   HabitInput
		is   error
	}{
		{"duplicate name", HabitInput{Name: ptr("Read")}, apperrors.ErrHabitExists},
		{"empty name", HabitInput{Name: ptr("")}, nil},
		{"bad frequency", HabitInput{Name: ptr("Run"), Frequency: ptr("sometimes")}, nil},
		{"bad reminder", HabitInput{Name: ptr("Run"), Reminder: ptr("7pm")}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddHabit(tt.in)
			if err == nil {
				t.Fatal("AddHabit() succeeded, want error")
			}
			if tt.is != nil && !apperrors.Is(err, tt.is) {
				t.Errorf("AddHabit() error = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestEditHabit(t *testing.T) {
	svc := setupService(t)
	if _, err := svc.AddHabit(HabitInput{Name: ptr("Read")}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddHabit(HabitInput{Name: ptr("Run")}); err != nil {
		t.Fatal(err)
	}

	h, err := svc.EditHabit("Read", HabitInput{Frequency: ptr("times:3/week"), Reminder: ptr("07:15")})
	if err != nil {
		t.Fatalf("EditHabit() failed: %v", err)
	}
	if _, ok := frequency.IsPeriodic(h.Frequency); !ok {
		t.Errorf("Frequency = %#v, want a quota", h.Frequency)
	}
	if !h.Reminder.Enabled || h.Reminder.Time != "07:15" {
		t.Errorf("Reminder = %+v", h.Reminder)
	}

	if _, err := svc.EditHabit("Read", HabitInput{Name: ptr("Run")}); !apperrors.Is(err, apperrors.ErrHabitExists) {
		t.Errorf("renaming onto an existing name: error = %v, want %v", err, apperrors.ErrHabitExists)
	}
	if _, err := svc.EditHabit("Nope", HabitInput{}); !apperrors.Is(err, apperrors.ErrHabitNotFound) {
		t.Errorf("EditHabit(missing) error = %v, want %v", err, apperrors.ErrHabitNotFound)
	}
}

func TestLogLifecycle(t *testing.T) {
	svc := setupService(t)
	h, err := svc.AddHabit(HabitInput{Name: ptr("Read"), StartDate: ptr("2024-01-01")})
	if err != nil {
		t.Fatal(err)
	}
	today := svc.Scheduler.Today()

	rec, err := svc.Log(h, today, LogInput{Complete: ptr(true), Amount: ptr(2.0), Note: ptr("chapter 3")})
	if err != nil {
		t.Fatalf("Log(complete) failed: %v", err)
	}
	if !rec.IsCompletion() || rec.CompletedAt == nil || rec.TargetAmount != 1 || rec.ActualAmount != 2 {
		t.Errorf("record after complete = %+v", rec)
	}

	rec2, err := svc.Log(h, today, LogInput{Skip: ptr(true)})
	if err != nil {
		t.Fatalf("Log(skip) failed: %v", err)
	}
	if rec2.ID != rec.ID {
		t.Errorf("skip created a new record %s, want %s", rec2.ID, rec.ID)
	}
	if rec2.Completed || !rec2.Skipped || rec2.CompletedAt != nil || rec2.Note != "chapter 3" {
		t.Errorf("record after skip = %+v", rec2)
	}

	rec3, err := svc.Log(h, today, LogInput{Clear: true, Skip: ptr(true)})
	if err != nil {
		t.Fatalf("Log(clear) failed: %v", err)
	}
	if rec3.Completed || rec3.Skipped {
		t.Errorf("record after clear = %+v", rec3)
	}

	l, err := svc.HabitLedger(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if l.Len() != 1 {
		t.Errorf("ledger has %d records, want 1", l.Len())
	}
	if got := svc.Scheduler.Classify(h, l, today).String(); got != "scheduled" {
		t.Errorf("status after clear = %s, want scheduled", got)
	}
}

func TestLogRefusesReadOnlyDays(t *testing.T) {
	svc := setupService(t)
	mwf, err := svc.AddHabit(HabitInput{Name: ptr("Gym"), Frequency: ptr("daily:mon,wed,fri"), StartDate: ptr("2024-01-03")})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		date string
	}{
		{"future", "2024-01-12"},
		{"before start", "2024-01-01"},
		{"not scheduled", "2024-01-09"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Log(mwf, mustDate(t, tt.date), LogInput{Complete: ptr(true)})
			if !apperrors.Is(err, apperrors.ErrNotEditable) {
				t.Errorf("Log(%s) error = %v, want %v", tt.date, err, apperrors.ErrNotEditable)
			}
		})
	}

	// a missed day can still be backfilled
	if _, err := svc.Log(mwf, mustDate(t, "2024-01-08"), LogInput{Complete: ptr(true)}); err != nil {
		t.Errorf("Log(missed day) failed: %v", err)
	}
}

func TestParseDate(t *testing.T) {
	svc := setupService(t)
	d, err := svc.ParseDate("")
	if err != nil || utils.FormatDate(d) != "2024-01-10" {
		t.Errorf("ParseDate(\"\") = %v, %v; want today", d, err)
	}
	if _, err := svc.ParseDate("10/01/2024"); !apperrors.Is(err, apperrors.ErrInvalidDate) {
		t.Errorf("ParseDate(bad) error = %v, want %v", err, apperrors.ErrInvalidDate)
	}
}

func TestSnapshotExcludesArchived(t *testing.T) {
	svc := setupService(t)
	a, _ := svc.AddHabit(HabitInput{Name: ptr("A")})
	b, _ := svc.AddHabit(HabitInput{Name: ptr("B")})
	if _, err := svc.Log(a, svc.Scheduler.Today(), LogInput{Complete: ptr(true)}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Store.ArchiveHabit(b.ID); err != nil {
		t.Fatal(err)
	}

	habits, l, err := svc.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() failed: %v", err)
	}
	if len(habits) != 1 || habits[0].ID != a.ID {
		t.Errorf("Snapshot() habits = %+v, want only A", habits)
	}
	if !l.IsCompleted(a.ID, svc.Scheduler.Today()) {
		t.Error("ledger is missing today's completion")
	}
}
