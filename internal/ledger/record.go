package ledger

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/loomra/internal/models"
	"github.com/julianstephens/loomra/internal/utils"
)

// RecordInput is the user-supplied content of a new completion record.
// Zero values are the defaults: not completed, not skipped, no amount.
type RecordInput struct {
	Completed    bool
	Skipped      bool
	ActualAmount float64
	TargetAmount float64
	Note         string
	Mood         string
	Difficulty   string
}

// RecordPatch changes selected fields of an existing record; nil fields are left alone.
type RecordPatch struct {
	Completed    *bool
	Skipped      *bool
	ActualAmount *float64
	TargetAmount *float64
	Note         *string
	Mood         *string
	Difficulty   *string
}

// CreateRecord builds a normalized record for (habitID, date).
func CreateRecord(habitID string, date time.Time, in RecordInput, now time.Time) models.CompletionRecord {
	rec := models.CompletionRecord{
		ID:           uuid.New().String(),
		HabitID:      habitID,
		Date:         utils.FormatDate(utils.DateOf(date)),
		Completed:    in.Completed,
		Skipped:      in.Skipped,
		ActualAmount: nonNegative(in.ActualAmount),
		TargetAmount: nonNegative(in.TargetAmount),
		Note:         in.Note,
		Mood:         in.Mood,
		Difficulty:   in.Difficulty,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if rec.IsCompletion() {
		rec.CompletedAt = &now
	}
	return rec
}

// UpdateRecord applies patch to existing and stamps UpdatedAt. The identity
// (ID, HabitID, Date, CreatedAt) never changes.
func UpdateRecord(existing models.CompletionRecord, patch RecordPatch, now time.Time) models.CompletionRecord {
	rec := existing
	wasDone := existing.IsCompletion()

	if patch.Completed != nil {
		rec.Completed = *patch.Completed
	}
	if patch.Skipped != nil {
		rec.Skipped = *patch.Skipped
	}
	if patch.ActualAmount != nil {
		rec.ActualAmount = nonNegative(*patch.ActualAmount)
	}
	if patch.TargetAmount != nil {
		rec.TargetAmount = nonNegative(*patch.TargetAmount)
	}
	if patch.Note != nil {
		rec.Note = *patch.Note
	}
	if patch.Mood != nil {
		rec.Mood = *patch.Mood
	}
	if patch.Difficulty != nil {
		rec.Difficulty = *patch.Difficulty
	}
	rec.ActualAmount = nonNegative(rec.ActualAmount)
	rec.TargetAmount = nonNegative(rec.TargetAmount)

	switch isDone := rec.IsCompletion(); {
	case isDone && !wasDone:
		rec.CompletedAt = &now
	case !isDone:
		rec.CompletedAt = nil
	}
	rec.UpdatedAt = now
	return rec
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
