package models

import (
	"encoding/json"
	"time"

	"github.com/julianstephens/loomra/internal/constants"
	"github.com/julianstephens/loomra/internal/frequency"
	"github.com/julianstephens/loomra/internal/utils"
)

// Reminder configures the daily reminder of a habit. The engine never reads it.
type Reminder struct {
	Enabled bool   `json:"enabled"`
	Time    string `json:"time"` // HH:MM format
}

// Habit represents a recurring intention to track
type Habit struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Category     constants.Category  `json:"category"`
	Priority     constants.Priority  `json:"priority"`
	Icon         string              `json:"icon"`
	Color        string              `json:"color"`
	Unit         string              `json:"unit"`
	Notes        string              `json:"notes"`
	TargetAmount int                 `json:"targetAmount"`
	Frequency    frequency.Frequency `json:"-"`
	StartDate    string              `json:"startDate"` // YYYY-MM-DD format
	Reminder     Reminder            `json:"reminder"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	ArchivedAt   *time.Time          `json:"archivedAt,omitempty"`
	DeletedAt    *time.Time          `json:"deletedAt,omitempty"`
}

type habitJSON Habit

type habitWire struct {
	habitJSON
	Frequency frequency.Spec `json:"frequency"`
}

// MarshalJSON writes the frequency in its {type, value} wire shape.
func (h Habit) MarshalJSON() ([]byte, error) {
	return json.Marshal(habitWire{habitJSON: habitJSON(h), Frequency: frequency.Encode(h.Frequency)})
}

// UnmarshalJSON reads the {type, value} frequency; malformed frequencies decode to the default.
func (h *Habit) UnmarshalJSON(data []byte) error {
	var w habitWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*h = Habit(w.habitJSON)
	h.Frequency = frequency.Decode(w.Frequency)
	return nil
}

// Start returns the parsed start date, or the zero time when it is absent or malformed.
func (h Habit) Start() time.Time {
	if h.StartDate == "" {
		return time.Time{}
	}
	d, err := utils.ParseDate(h.StartDate)
	if err != nil {
		return time.Time{}
	}
	return d
}

// Target returns the per-day target amount, never less than one.
func (h Habit) Target() int {
	if h.TargetAmount <= 0 {
		return constants.DefaultTargetAmount
	}
	return h.TargetAmount
}

// IsActive reports whether the habit is neither archived nor deleted.
func (h Habit) IsActive() bool {
	return h.ArchivedAt == nil && h.DeletedAt == nil
}
