package constants

import "time"

const (
	AppName            = "loomra"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/loomra/loomra.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Environment variables
	EnvDBConnection = "LOOMRA_DB_CONNECTION"
	EnvWeekStart    = "LOOMRA_WEEK_START"

	// Defaults
	DefaultWeekStart    = time.Monday
	DefaultTargetAmount = 1
	DefaultUnit         = "times"
	DefaultReminderTime = "09:00"
	DefaultLogDays      = 14
	DefaultListenAddr   = "127.0.0.1:8417"

	// MaxHabitAgeDays bounds every backward walk over a habit's history. Walks are
	// otherwise bounded by the habit's start date; the ceiling only matters for habits
	// without one (or with a corrupt one) and makes streaks an approximation past ~10 years.
	MaxHabitAgeDays = 3660
)
