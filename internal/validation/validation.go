package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/loomra/internal/constants"
	"github.com/julianstephens/loomra/internal/models"
	"github.com/julianstephens/loomra/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictInvalidHabit       ConflictType = "invalid_habit"
	ConflictInvalidDateTime    ConflictType = "invalid_datetime"
	ConflictOrphanRecord       ConflictType = "orphan_record"
	ConflictDuplicateRecord    ConflictType = "duplicate_record"
	ConflictCompletedAndSkip   ConflictType = "completed_and_skipped"
)

// Conflict represents a problem found in stored habits or records
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	HabitIDs    []string // IDs of habits involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

var (
	validCategories = map[constants.Category]bool{
		constants.CategoryHealth: true, constants.CategoryFitness: true,
		constants.CategoryMindfulness: true, constants.CategoryLearning: true,
		constants.CategoryProductivity: true, constants.CategorySocial: true,
		constants.CategoryOther: true,
	}
	validPriorities = map[constants.Priority]bool{
		constants.PriorityLow: true, constants.PriorityMedium: true, constants.PriorityHigh: true,
	}
)

// ValidateHabit checks the fields a user can type. Empty category, priority
// and reminder time are allowed; storage fills in the defaults.
func ValidateHabit(h models.Habit) error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	if h.StartDate != "" {
		if _, err := utils.ParseDate(h.StartDate); err != nil {
			return fmt.Errorf("invalid start date %q (expected YYYY-MM-DD)", h.StartDate)
		}
	}
	if h.Category != "" && !validCategories[h.Category] {
		return fmt.Errorf("invalid category %q", h.Category)
	}
	if h.Priority != "" && !validPriorities[h.Priority] {
		return fmt.Errorf("invalid priority %q (expected low, medium or high)", h.Priority)
	}
	if h.Reminder.Time != "" && !utils.ValidateTimeFormat(h.Reminder.Time) {
		return fmt.Errorf("invalid reminder time %q (expected HH:MM)", h.Reminder.Time)
	}
	if h.TargetAmount < 0 {
		return fmt.Errorf("target amount cannot be negative")
	}
	return nil
}

// Validator checks stored habits and records for conflicts
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateHabits reports invalid habits and live habits sharing a name.
func (v *Validator) ValidateHabits(habits []models.Habit) ValidationResult {
	var result ValidationResult
	byName := make(map[string][]string)

	for _, h := range habits {
		if err := ValidateHabit(h); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidHabit,
				Description: fmt.Sprintf("Habit %q: %v", h.Name, err),
				HabitIDs:    []string{h.ID},
			})
		}
		if h.DeletedAt == nil {
			key := strings.ToLower(strings.TrimSpace(h.Name))
			byName[key] = append(byName[key], h.ID)
		}
	}

	for _, h := range habits {
		key := strings.ToLower(strings.TrimSpace(h.Name))
		ids := byName[key]
		if len(ids) > 1 && ids[0] == h.ID {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate habit name %q (%d habits)", h.Name, len(ids)),
				HabitIDs:    ids,
			})
		}
	}
	return result
}

// ValidateRecords reports records that the ledger would drop or resolve: bad
// dates, unknown habits, more than one record per day and completed+skipped.
func (v *Validator) ValidateRecords(habits []models.Habit, records []models.CompletionRecord) ValidationResult {
	var result ValidationResult
	known := make(map[string]bool, len(habits))
	for _, h := range habits {
		known[h.ID] = true
	}
	seen := make(map[string]bool, len(records))

	for _, r := range records {
		if _, err := utils.ParseDate(r.Date); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Record %s has invalid date %q", r.ID, r.Date),
				Date:        r.Date,
				HabitIDs:    []string{r.HabitID},
			})
			continue
		}
		if !known[r.HabitID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanRecord,
				Description: fmt.Sprintf("Record on %s belongs to unknown habit %s", r.Date, r.HabitID),
				Date:        r.Date,
				HabitIDs:    []string{r.HabitID},
			})
		}
		key := r.HabitID + "|" + r.Date
		if seen[key] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateRecord,
				Description: fmt.Sprintf("Habit %s has more than one record on %s", r.HabitID, r.Date),
				Date:        r.Date,
				HabitIDs:    []string{r.HabitID},
			})
		}
		seen[key] = true
		if r.Completed && r.Skipped {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictCompletedAndSkip,
				Description: fmt.Sprintf("Habit %s on %s is both completed and skipped (counted as skipped)", r.HabitID, r.Date),
				Date:        r.Date,
				HabitIDs:    []string{r.HabitID},
			})
		}
	}
	return result
}
