package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/loomra/internal/logger"
)

var (
	// ErrHabitNotFound is returned when a habit id or name does not resolve
	ErrHabitNotFound = errors.New("habit not found")
	// ErrHabitExists is returned when a habit name is already taken
	ErrHabitExists = errors.New("habit already exists")
	// ErrCompletionNotFound is returned when a habit has no record for a date
	ErrCompletionNotFound = errors.New("completion record not found")
	// ErrNotEditable is returned when a completion is written on a read-only day
	ErrNotEditable = errors.New("day is not editable")
	// ErrInvalidDate is returned for dates that are not YYYY-MM-DD
	ErrInvalidDate = errors.New("invalid date (expected YYYY-MM-DD)")
	// ErrNotInitialized is returned when storage is used before `loomra init`
	ErrNotInitialized = errors.New("storage not initialized, run 'loomra init' first")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
