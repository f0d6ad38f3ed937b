package constants

// Status names as rendered by the CLI, TUI and HTTP layers.
const (
	StatusNameLocked          = "locked"
	StatusNameNotScheduled    = "not-scheduled"
	StatusNameCompleted       = "completed"
	StatusNameSkipped         = "skipped"
	StatusNamePeriodCompleted = "period-completed"
	StatusNameFutureLocked    = "future-locked"
	StatusNameMissed          = "missed"
	StatusNameScheduled       = "scheduled"
	StatusNameDefault         = "default"
)

// Category represents the category tag of a habit
type Category string

// Priority represents the priority tag of a habit
type Priority string

const (
	CategoryHealth       Category = "health"
	CategoryFitness      Category = "fitness"
	CategoryMindfulness  Category = "mindfulness"
	CategoryLearning     Category = "learning"
	CategoryProductivity Category = "productivity"
	CategorySocial       Category = "social"
	CategoryOther        Category = "other"

	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)
