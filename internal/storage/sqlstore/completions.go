package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/loomra/internal/errors"
	"github.com/julianstephens/loomra/internal/models"
)

const completionColumns = `id, habit_id, date, completed, actual_amount, target_amount, completed_at,
	note, mood, difficulty, skipped, created_at, updated_at`

func scanCompletion(row scanner) (models.CompletionRecord, error) {
	var c models.CompletionRecord
	var completedAt, mood, difficulty sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&c.ID, &c.HabitID, &c.Date, &c.Completed, &c.ActualAmount, &c.TargetAmount,
		&completedAt, &c.Note, &mood, &difficulty, &c.Skipped, &createdAt, &updatedAt)
	if err != nil {
		return models.CompletionRecord{}, err
	}

	c.Mood = mood.String
	c.Difficulty = difficulty.String
	if c.CompletedAt, err = parseNullTime("completed_at", completedAt); err != nil {
		return models.CompletionRecord{}, err
	}
	if c.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.CompletionRecord{}, err
	}
	if c.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.CompletionRecord{}, err
	}
	return c, nil
}

// UpsertCompletion inserts the record or, when (habit_id, date) already has
// one, updates it in place. The stored id and created_at are kept.
func (s *Store) UpsertCompletion(rec models.CompletionRecord) error {
	_, err := s.exec(`
		INSERT INTO habit_completions (`+completionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, date) DO UPDATE SET
			completed = excluded.completed,
			actual_amount = excluded.actual_amount,
			target_amount = excluded.target_amount,
			completed_at = excluded.completed_at,
			note = excluded.note,
			mood = excluded.mood,
			difficulty = excluded.difficulty,
			skipped = excluded.skipped,
			updated_at = excluded.updated_at`,
		rec.ID, rec.HabitID, rec.Date, rec.Completed, rec.ActualAmount, rec.TargetAmount,
		nullTime(rec.CompletedAt), rec.Note, nullString(rec.Mood), nullString(rec.Difficulty),
		rec.Skipped, formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save completion for habit %s on %s: %w", rec.HabitID, rec.Date, err)
	}
	return nil
}

func (s *Store) GetCompletion(habitID, date string) (models.CompletionRecord, error) {
	row, err := s.queryRow(`SELECT `+completionColumns+` FROM habit_completions WHERE habit_id = ? AND date = ?`,
		habitID, date)
	if err != nil {
		return models.CompletionRecord{}, err
	}
	c, err := scanCompletion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CompletionRecord{}, fmt.Errorf("%w: %s on %s", apperrors.ErrCompletionNotFound, habitID, date)
	}
	return c, err
}

// GetCompletionsForHabit returns habitID's records in [startDate, endDate].
// An empty bound is open.
func (s *Store) GetCompletionsForHabit(habitID, startDate, endDate string) ([]models.CompletionRecord, error) {
	query := `SELECT ` + completionColumns + ` FROM habit_completions WHERE habit_id = ?`
	args := []any{habitID}
	if startDate != "" {
		query += " AND date >= ?"
		args = append(args, startDate)
	}
	if endDate != "" {
		query += " AND date <= ?"
		args = append(args, endDate)
	}
	return s.listCompletions(query+" ORDER BY date", args...)
}

func (s *Store) GetCompletionsForDay(date string) ([]models.CompletionRecord, error) {
	return s.listCompletions(`SELECT `+completionColumns+` FROM habit_completions WHERE date = ? ORDER BY habit_id`, date)
}

func (s *Store) GetAllCompletions() ([]models.CompletionRecord, error) {
	return s.listCompletions(`SELECT ` + completionColumns + ` FROM habit_completions ORDER BY habit_id, date`)
}

func (s *Store) listCompletions(query string, args ...any) ([]models.CompletionRecord, error) {
	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.CompletionRecord{}
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, c)
	}
	return records, rows.Err()
}
