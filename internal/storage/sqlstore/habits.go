package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/loomra/internal/constants"
	apperrors "github.com/julianstephens/loomra/internal/errors"
	"github.com/julianstephens/loomra/internal/frequency"
	"github.com/julianstephens/loomra/internal/models"
)

const habitColumns = `id, name, category, priority, icon, color, unit, notes, target_amount,
	frequency_type, frequency_value, start_date, reminder_enabled, reminder_time,
	created_at, updated_at, archived_at, deleted_at`

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var category, priority, freqType, freqValue, createdAt, updatedAt string
	var archivedAt, deletedAt sql.NullString

	err := row.Scan(&h.ID, &h.Name, &category, &priority, &h.Icon, &h.Color, &h.Unit, &h.Notes,
		&h.TargetAmount, &freqType, &freqValue, &h.StartDate, &h.Reminder.Enabled, &h.Reminder.Time,
		&createdAt, &updatedAt, &archivedAt, &deletedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Category = constants.Category(category)
	h.Priority = constants.Priority(priority)
	h.Frequency = frequency.UnmarshalColumns(freqType, freqValue)

	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Habit{}, err
	}
	if h.ArchivedAt, err = parseNullTime("archived_at", archivedAt); err != nil {
		return models.Habit{}, err
	}
	if h.DeletedAt, err = parseNullTime("deleted_at", deletedAt); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

// AddHabit inserts a habit, or replaces it when the id already exists.
func (s *Store) AddHabit(habit models.Habit) error {
	return s.UpdateHabit(habit)
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	freqType, freqValue := frequency.MarshalColumns(habit.Frequency)
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}
	if habit.UpdatedAt.IsZero() {
		habit.UpdatedAt = habit.CreatedAt
	}
	if habit.Reminder.Time == "" {
		habit.Reminder.Time = constants.DefaultReminderTime
	}

	_, err := s.exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			priority = excluded.priority,
			icon = excluded.icon,
			color = excluded.color,
			unit = excluded.unit,
			notes = excluded.notes,
			target_amount = excluded.target_amount,
			frequency_type = excluded.frequency_type,
			frequency_value = excluded.frequency_value,
			start_date = excluded.start_date,
			reminder_enabled = excluded.reminder_enabled,
			reminder_time = excluded.reminder_time,
			updated_at = excluded.updated_at,
			archived_at = excluded.archived_at,
			deleted_at = excluded.deleted_at`,
		habit.ID, habit.Name, string(habit.Category), string(habit.Priority), habit.Icon, habit.Color,
		habit.Unit, habit.Notes, habit.TargetAmount, freqType, freqValue, habit.StartDate,
		habit.Reminder.Enabled, habit.Reminder.Time, formatTime(habit.CreatedAt), formatTime(habit.UpdatedAt),
		nullTime(habit.ArchivedAt), nullTime(habit.DeletedAt))
	if err != nil {
		return fmt.Errorf("failed to save habit %s: %w", habit.ID, err)
	}
	return nil
}

// GetHabit returns a habit that has not been deleted.
func (s *Store) GetHabit(id string) (models.Habit, error) {
	return s.getHabitWhere("id = ?", id)
}

// GetHabitByName returns the live (not deleted) habit with the given name.
func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	return s.getHabitWhere("name = ?", name)
}

func (s *Store) getHabitWhere(cond string, arg string) (models.Habit, error) {
	row, err := s.queryRow(`SELECT `+habitColumns+` FROM habits WHERE `+cond+` AND deleted_at IS NULL`, arg)
	if err != nil {
		return models.Habit{}, err
	}
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("%w: %s", apperrors.ErrHabitNotFound, arg)
	}
	return h, err
}

func (s *Store) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE 1=1"
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY created_at, name"

	rows, err := s.query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) ArchiveHabit(id string) error {
	return s.stampHabit(id, "archived_at = ?", formatTime(time.Now()))
}

// DeleteHabit soft-deletes a habit; its completion history is kept.
func (s *Store) DeleteHabit(id string) error {
	return s.stampHabit(id, "deleted_at = ?", formatTime(time.Now()))
}

// RestoreHabit clears both the archived and deleted marks.
func (s *Store) RestoreHabit(id string) error {
	res, err := s.exec(`UPDATE habits SET archived_at = NULL, deleted_at = NULL, updated_at = ? WHERE id = ?`,
		formatTime(time.Now()), id)
	return checkAffected(res, err, id)
}

func (s *Store) stampHabit(id, set, value string) error {
	res, err := s.exec(`UPDATE habits SET `+set+`, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		value, formatTime(time.Now()), id)
	return checkAffected(res, err, id)
}

func checkAffected(res sql.Result, err error, id string) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrHabitNotFound, id)
	}
	return nil
}
