package models

import "time"

// CompletionRecord is a habit's record for one calendar day. (HabitID, Date) is
// the identity; ID is a storage handle only.
type CompletionRecord struct {
	ID           string     `json:"id"`
	HabitID      string     `json:"habitId"`
	Date         string     `json:"date"` // YYYY-MM-DD format
	Completed    bool       `json:"completed"`
	ActualAmount float64    `json:"actualAmount"`
	TargetAmount float64    `json:"targetAmount"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	Note         string     `json:"note"`
	Mood         string     `json:"mood,omitempty"`
	Difficulty   string     `json:"difficulty,omitempty"`
	Skipped      bool       `json:"skipped"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsCompletion reports whether the record counts as done. A skipped record never does.
func (r CompletionRecord) IsCompletion() bool {
	return r.Completed && !r.Skipped
}

// Progress returns ActualAmount/TargetAmount clamped to [0, 1], for display.
func (r CompletionRecord) Progress() float64 {
	if r.TargetAmount <= 0 {
		if r.IsCompletion() {
			return 1
		}
		return 0
	}
	p := r.ActualAmount / r.TargetAmount
	switch {
	case p < 0 || p != p:
		return 0
	case p > 1:
		return 1
	}
	return p
}
