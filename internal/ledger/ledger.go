// Package ledger provides a read-only view over a snapshot of completion records.
package ledger

import (
	"sort"
	"time"

	"github.com/julianstephens/loomra/internal/logger"
	"github.com/julianstephens/loomra/internal/models"
	"github.com/julianstephens/loomra/internal/utils"
)

// Ledger indexes a snapshot of completion records by habit and date. It is
// immutable after New and safe for concurrent readers. A nil *Ledger behaves
// like an empty one.
type Ledger struct {
	byHabit map[string][]models.CompletionRecord // ascending by date
	index   map[string]map[string]int            // habit -> date -> position in byHabit
	size    int
}

// New builds a ledger from records. Records with an unparseable date are dropped;
// when a (habit, date) pair appears twice the most recently updated record wins.
func New(records []models.CompletionRecord) *Ledger {
	latest := make(map[string]map[string]models.CompletionRecord)
	for _, rec := range records {
		d, err := utils.ParseDate(rec.Date)
		if err != nil {
			logger.Warn("Dropping completion record with invalid date", "habit", rec.HabitID, "date", rec.Date)
			continue
		}
		rec.Date = utils.FormatDate(d)

		days, ok := latest[rec.HabitID]
		if !ok {
			days = make(map[string]models.CompletionRecord)
			latest[rec.HabitID] = days
		}
		if prev, dup := days[rec.Date]; dup && prev.UpdatedAt.After(rec.UpdatedAt) {
			continue
		}
		days[rec.Date] = rec
	}

	l := &Ledger{
		byHabit: make(map[string][]models.CompletionRecord, len(latest)),
		index:   make(map[string]map[string]int, len(latest)),
	}
	for habitID, days := range latest {
		recs := make([]models.CompletionRecord, 0, len(days))
		for _, rec := range days {
			recs = append(recs, rec)
		}
		// YYYY-MM-DD sorts chronologically
		sort.Slice(recs, func(i, j int) bool { return recs[i].Date < recs[j].Date })

		idx := make(map[string]int, len(recs))
		for i, rec := range recs {
			idx[rec.Date] = i
		}
		l.byHabit[habitID] = recs
		l.index[habitID] = idx
		l.size += len(recs)
	}
	return l
}

// Len returns the number of distinct (habit, date) records.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return l.size
}

// GetRecord returns the record for habitID on date, if any.
func (l *Ledger) GetRecord(habitID string, date time.Time) (models.CompletionRecord, bool) {
	if l == nil {
		return models.CompletionRecord{}, false
	}
	i, ok := l.index[habitID][utils.FormatDate(utils.DateOf(date))]
	if !ok {
		return models.CompletionRecord{}, false
	}
	return l.byHabit[habitID][i], true
}

// IsCompleted reports whether a record exists that is completed and not skipped.
func (l *Ledger) IsCompleted(habitID string, date time.Time) bool {
	rec, ok := l.GetRecord(habitID, date)
	return ok && rec.IsCompletion()
}

// IsSkipped reports whether a record exists that is marked skipped.
func (l *Ledger) IsSkipped(habitID string, date time.Time) bool {
	rec, ok := l.GetRecord(habitID, date)
	return ok && rec.Skipped
}

// RecordsInRange returns habitID's records in [start, end], ascending by date.
// An inverted range yields an empty result.
func (l *Ledger) RecordsInRange(habitID string, start, end time.Time) []models.CompletionRecord {
	if l == nil {
		return nil
	}
	from := utils.FormatDate(utils.DateOf(start))
	to := utils.FormatDate(utils.DateOf(end))
	if from > to {
		return nil
	}

	recs := l.byHabit[habitID]
	lo := sort.Search(len(recs), func(i int) bool { return recs[i].Date >= from })
	hi := sort.Search(len(recs), func(i int) bool { return recs[i].Date > to })
	if lo >= hi {
		return nil
	}
	out := make([]models.CompletionRecord, hi-lo)
	copy(out, recs[lo:hi])
	return out
}

// CountCompleted counts completions of habitID in [start, end].
func (l *Ledger) CountCompleted(habitID string, start, end time.Time) int {
	n := 0
	for _, rec := range l.RecordsInRange(habitID, start, end) {
		if rec.IsCompletion() {
			n++
		}
	}
	return n
}

// ForHabit returns all of habitID's records, ascending by date.
func (l *Ledger) ForHabit(habitID string) []models.CompletionRecord {
	if l == nil {
		return nil
	}
	recs := l.byHabit[habitID]
	out := make([]models.CompletionRecord, len(recs))
	copy(out, recs)
	return out
}

// CompletedDates returns the dates of habitID's completions (skips excluded), ascending.
func (l *Ledger) CompletedDates(habitID string) []time.Time {
	if l == nil {
		return nil
	}
	var dates []time.Time
	for _, rec := range l.byHabit[habitID] {
		if !rec.IsCompletion() {
			continue
		}
		// dates were validated in New
		d, _ := utils.ParseDate(rec.Date)
		dates = append(dates, d)
	}
	return dates
}

// Records returns every record in the snapshot, grouped by habit and ascending by date.
func (l *Ledger) Records() []models.CompletionRecord {
	if l == nil {
		return nil
	}
	habitIDs := make([]string, 0, len(l.byHabit))
	for id := range l.byHabit {
		habitIDs = append(habitIDs, id)
	}
	sort.Strings(habitIDs)

	out := make([]models.CompletionRecord, 0, l.size)
	for _, id := range habitIDs {
		out = append(out, l.byHabit[id]...)
	}
	return out
}

// With returns a new snapshot in which rec replaces any record with the same
// (habit, date). The receiver is left untouched.
func (l *Ledger) With(rec models.CompletionRecord) *Ledger {
	records := l.Records()
	out := make([]models.CompletionRecord, 0, len(records)+1)
	for _, r := range records {
		if r.HabitID == rec.HabitID && r.Date == rec.Date {
			continue
		}
		out = append(out, r)
	}
	return New(append(out, rec))
}
