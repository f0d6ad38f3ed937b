package storage

import (
	"github.com/julianstephens/loomra/internal/migration"
	"github.com/julianstephens/loomra/internal/models"
)

// Provider is the persistence layer for habits and completion records.
type Provider interface {
	// Lifecycle
	Init() error
	// Open connects without validating the schema version; used by migrate.
	Open() error
	Load() error
	Close() error
	ApplyMigrations(logFn func(string)) (int, error)
	SchemaStatus() (migration.Status, error)

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	DeleteHabit(id string) error
	RestoreHabit(id string) error

	// Completions
	// UpsertCompletion writes the single record for (HabitID, Date).
	UpsertCompletion(models.CompletionRecord) error
	GetCompletion(habitID, date string) (models.CompletionRecord, error)
	// GetCompletionsForHabit returns records in [startDate, endDate]; an empty bound is open.
	GetCompletionsForHabit(habitID, startDate, endDate string) ([]models.CompletionRecord, error)
	GetCompletionsForDay(date string) ([]models.CompletionRecord, error)
	GetAllCompletions() ([]models.CompletionRecord, error)

	// Utils
	GetConfigPath() string
}
