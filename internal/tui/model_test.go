package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/julianstephens/loomra/internal/errors"
	"github.com/julianstephens/loomra/internal/scheduler"
	"github.com/julianstephens/loomra/internal/service"
	"github.com/julianstephens/loomra/internal/status"
	"github.com/julianstephens/loomra/internal/storage/sqlite"
	"github.com/julianstephens/loomra/internal/tui/components/habits"
)

// 2024-01-10 is a Wednesday.
var testNow = time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)

func setupModel(t *testing.T, names ...string) (Model, *service.Service) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	sched := scheduler.New(time.Monday, time.UTC)
	sched.Now = func() time.Time { return testNow }
	svc := service.New(store, sched)

	start := "2024-01-01"
	for _, name := range names {
		n := name
		if _, err := svc.AddHabit(service.HabitInput{Name: &n, StartDate: &start}); err != nil {
			t.Fatalf("AddHabit(%s) failed: %v", name, err)
		}
	}

	m := NewModel(svc)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, svc
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm
}

// press sends a key and feeds any message its command produces back in.
func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(k)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	if msg := cmd(); msg != nil {
		switch msg.(type) {
		case habits.LogHabitMsg, habits.AddHabitMsg:
			m = send(t, m, msg)
		}
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelListsToday(t *testing.T) {
	m, _ := setupModel(t, "Read", "Walk")

	if got := m.Date(); !got.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date() = %v, want 2024-01-10", got)
	}
	if got := m.Summary().Counts.Scheduled; got != 2 {
		t.Errorf("Scheduled = %d, want 2", got)
	}
	if got := len(m.habits.Items()); got != 2 {
		t.Errorf("listed %d habits, want 2", got)
	}
}

func TestDayNavigation(t *testing.T) {
	m, _ := setupModel(t, "Read")

	tests := []struct {
		key  string
		want string
	}{
		{"]", "2024-01-11"},
		{"]", "2024-01-12"},
		{"[", "2024-01-11"},
		{"t", "2024-01-10"},
		{"[", "2024-01-09"},
	}
	for _, tt := range tests {
		m = press(t, m, runes(tt.key))
		if got := m.Summary().Date; got != tt.want {
			t.Fatalf("after %q date = %s, want %s", tt.key, got, tt.want)
		}
	}
}

func TestCompleteSkipClear(t *testing.T) {
	m, svc := setupModel(t, "Read")

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.err != nil {
		t.Fatalf("complete failed: %v", m.err)
	}
	if got := m.Summary().Counts.Completed; got != 1 {
		t.Fatalf("Completed = %d, want 1", got)
	}

	m = press(t, m, runes("s"))
	if got := m.Summary().Counts.Skipped; got != 1 {
		t.Fatalf("Skipped = %d, want 1", got)
	}

	m = press(t, m, runes("u"))
	if got := m.Summary().Counts.Scheduled; got != 1 {
		t.Fatalf("Scheduled after clear = %d, want 1", got)
	}

	h, err := svc.FindHabit("Read")
	if err != nil {
		t.Fatalf("FindHabit() failed: %v", err)
	}
	rec, err := svc.Store.GetCompletion(h.ID, "2024-01-10")
	if err != nil {
		t.Fatalf("GetCompletion() failed: %v", err)
	}
	if rec.Completed || rec.Skipped {
		t.Errorf("record after clear = %+v, want both flags reset", rec)
	}
}

func TestLogRefusedOnFutureDay(t *testing.T) {
	m, _ := setupModel(t, "Read")
	m = press(t, m, runes("]"))

	items := m.habits.Items()
	if len(items) != 1 {
		t.Fatalf("listed %d habits, want 1", len(items))
	}
	if items[0].Entry.Status != status.FutureLocked {
		t.Fatalf("status = %s, want future-locked", items[0].Entry.Status)
	}

	// the list does not offer read-only days
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace}); cmd != nil {
		if msg := cmd(); msg != nil {
			if _, ok := msg.(habits.LogHabitMsg); ok {
				t.Fatal("complete key produced a log message on a read-only day")
			}
		}
	}

	// and the service refuses it if asked anyway
	m = send(t, m, habits.LogHabitMsg{ID: items[0].Entry.Habit.ID, Action: habits.ActionComplete})
	if !apperrors.Is(m.err, apperrors.ErrNotEditable) {
		t.Errorf("err = %v, want %v", m.err, apperrors.ErrNotEditable)
	}
}

func TestShowAllTogglesUnscheduled(t *testing.T) {
	m, svc := setupModel(t, "Read")
	name, freq := "Gym", "daily:mon,fri"
	if _, err := svc.AddHabit(service.HabitInput{Name: &name, Frequency: &freq}); err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}
	m = press(t, m, runes("t"))

	if got := len(m.habits.Items()); got != 1 {
		t.Fatalf("listed %d habits, want 1", got)
	}
	m = press(t, m, runes("v"))
	if got := len(m.habits.Items()); got != 2 {
		t.Errorf("listed %d habits with unscheduled shown, want 2", got)
	}
}

func TestAddHabitFormOpensAndCancels(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, runes("a"))
	if m.state != StateAddHabit {
		t.Fatalf("state = %v, want StateAddHabit", m.state)
	}
	if m.habitForm.Frequency != "daily" {
		t.Errorf("default frequency = %q, want daily", m.habitForm.Frequency)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateHabits {
		t.Errorf("state after esc = %v, want StateHabits", m.state)
	}
}

func TestAddHabitFromForm(t *testing.T) {
	m, _ := setupModel(t)
	m.habitForm = newHabitFormModel()
	m.habitForm.Name = "Stretch"
	m.habitForm.Frequency = "times:3/week"

	if err := m.addHabit(); err != nil {
		t.Fatalf("addHabit() failed: %v", err)
	}
	items := m.habits.Items()
	if len(items) != 1 || items[0].Entry.Habit.Name != "Stretch" {
		t.Fatalf("items = %+v, want Stretch", items)
	}

	m.habitForm.Target = "zero"
	if err := m.addHabit(); err == nil {
		t.Error("addHabit() with a bad target succeeded")
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupModel(t)
	next, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("quit key returned no command")
	}
	if !next.(Model).quitting {
		t.Error("model not marked quitting")
	}
	if next.(Model).View() != "" {
		t.Error("View() after quit should be empty")
	}
}
