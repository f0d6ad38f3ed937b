// Package httpapi serves a read-only JSON view of habit statuses and streaks.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/julianstephens/loomra/internal/service"
)

type API struct {
	Service *service.Service
}

func New(svc *service.Service) *API {
	return &API{Service: svc}
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(loggingMiddleware)

	r.Get("/health", a.handleHealth)
	r.Get("/today", a.handleToday)

	r.Route("/habits", func(r chi.Router) {
		r.Get("/", a.handleListHabits)
		r.Get("/{id}", a.handleHabitOverview)
		r.Get("/{id}/calendar", a.handleHabitCalendar)
	})

	return r
}
