package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/loomra/internal/models"
)

func TestValidateHabit(t *testing.T) {
	tests := []struct {
		name    string
		habit   models.Habit
		wantErr string
	}{
		{"valid minimal", models.Habit{Name: "Read"}, ""},
		{"valid full", models.Habit{Name: "Run", StartDate: "2024-01-01", Category: "fitness", Priority: "high",
			Reminder: models.Reminder{Enabled: true, Time: "06:30"}, TargetAmount: 5}, ""},
		{"empty name", models.Habit{Name: "  "}, "name cannot be empty"},
		{"bad start date", models.Habit{Name: "Read", StartDate: "2024-13-01"}, "invalid start date"},
		{"bad category", models.Habit{Name: "Read", Category: "hobby"}, "invalid category"},
		{"bad priority", models.Habit{Name: "Read", Priority: "urgent"}, "invalid priority"},
		{"bad reminder", models.Habit{Name: "Read", Reminder: models.Reminder{Time: "25:00"}}, "invalid reminder time"},
		{"negative target", models.Habit{Name: "Read", TargetAmount: -1}, "target amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHabit(tt.habit)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateHabit() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateHabit() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateHabits_DuplicateNames(t *testing.T) {
	deleted := time.Now()
	habits := []models.Habit{
		{ID: "1", Name: "Read"},
		{ID: "2", Name: "Run"},
		{ID: "3", Name: "read "},
		{ID: "4", Name: "Run", DeletedAt: &deleted},
	}

	result := New().ValidateHabits(habits)

	if len(result.Conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1: %+v", len(result.Conflicts), result.Conflicts)
	}
	c := result.Conflicts[0]
	if c.Type != ConflictDuplicateHabitName {
		t.Errorf("conflict type = %s, want %s", c.Type, ConflictDuplicateHabitName)
	}
	if len(c.HabitIDs) != 2 || c.HabitIDs[0] != "1" || c.HabitIDs[1] != "3" {
		t.Errorf("HabitIDs = %v, want [1 3]", c.HabitIDs)
	}
}

func TestValidateRecords(t *testing.T) {
	habits := []models.Habit{{ID: "h1", Name: "Read"}}
	records := []models.CompletionRecord{
		{ID: "r1", HabitID: "h1", Date: "2024-01-01", Completed: true},
		{ID: "r2", HabitID: "h1", Date: "2024-01-01", Skipped: true},
		{ID: "r3", HabitID: "h1", Date: "01/02/2024"},
		{ID: "r4", HabitID: "gone", Date: "2024-01-03"},
		{ID: "r5", HabitID: "h1", Date: "2024-01-04", Completed: true, Skipped: true},
	}

	result := New().ValidateRecords(habits, records)

	want := map[ConflictType]int{
		ConflictDuplicateRecord:  1,
		ConflictInvalidDateTime:  1,
		ConflictOrphanRecord:     1,
		ConflictCompletedAndSkip: 1,
	}
	got := map[ConflictType]int{}
	for _, c := range result.Conflicts {
		got[c.Type]++
	}
	for typ, n := range want {
		if got[typ] != n {
			t.Errorf("%s conflicts = %d, want %d", typ, got[typ], n)
		}
	}
	if !strings.HasPrefix(result.FormatReport(), "Conflicts detected:") {
		t.Errorf("FormatReport() = %q", result.FormatReport())
	}
}

func TestFormatReportNoConflicts(t *testing.T) {
	var vr ValidationResult
	if got := vr.FormatReport(); got != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", got)
	}
}
