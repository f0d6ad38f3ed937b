package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/loomra/internal/constants"
	apperrors "github.com/julianstephens/loomra/internal/errors"
	"github.com/julianstephens/loomra/internal/models"
	"github.com/julianstephens/loomra/internal/scheduler"
	"github.com/julianstephens/loomra/internal/status"
	"github.com/julianstephens/loomra/internal/utils"
)

type habitSummary struct {
	Habit         models.Habit     `json:"habit"`
	Status        status.DayStatus `json:"status"`
	CurrentStreak int              `json:"currentStreak"`
	BestStreak    int              `json:"bestStreak"`
}

type calendarResponse struct {
	HabitID string          `json:"habitId"`
	From    string          `json:"from"`
	To      string          `json:"to"`
	Days    []scheduler.Day `json:"days"`
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": constants.Version})
}

func (a *API) handleToday(w http.ResponseWriter, r *http.Request) {
	date, err := a.Service.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	habits, l, err := a.Service.Snapshot()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.Service.Scheduler.GroupByStatus(habits, l, date))
}

func (a *API) handleListHabits(w http.ResponseWriter, r *http.Request) {
	date, err := a.Service.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	habits, l, err := a.Service.Snapshot()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	sched := a.Service.Scheduler
	out := make([]habitSummary, 0, len(habits))
	for _, h := range habits {
		out = append(out, habitSummary{
			Habit:         h,
			Status:        sched.Classify(h, l, date),
			CurrentStreak: sched.CurrentStreak(h, l),
			BestStreak:    sched.BestStreak(h, l),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleHabitOverview(w http.ResponseWriter, r *http.Request) {
	date, err := a.Service.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h, err := a.Service.FindHabit(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	l, err := a.Service.HabitLedger(h.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.Service.Scheduler.Overview(h, l, date))
}

// handleHabitCalendar classifies every day in [from, to]. to defaults to
// today and from to the two weeks ending at to.
func (a *API) handleHabitCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	to, err := a.Service.ParseDate(q.Get("to"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	from := utils.AddDays(to, -(constants.DefaultLogDays - 1))
	if q.Get("from") != "" {
		if from, err = a.Service.ParseDate(q.Get("from")); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if from.After(to) {
		writeServiceError(w, fmt.Errorf("%w: from %s is after to %s", apperrors.ErrInvalidDate,
			utils.FormatDate(from), utils.FormatDate(to)))
		return
	}

	h, err := a.Service.FindHabit(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	l, err := a.Service.HabitLedger(h.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	days := a.Service.Scheduler.Calendar(h, l, from, to)
	resp := calendarResponse{HabitID: h.ID, From: utils.FormatDate(from), To: utils.FormatDate(to), Days: days}
	if len(days) > 0 {
		resp.From = days[0].Date
	}
	writeJSON(w, http.StatusOK, resp)
}

// Server wraps the router in an http.Server listening on addr.
func (a *API) Server(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
