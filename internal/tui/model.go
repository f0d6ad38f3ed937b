package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/loomra/internal/logger"
	"github.com/julianstephens/loomra/internal/scheduler"
	"github.com/julianstephens/loomra/internal/service"
	"github.com/julianstephens/loomra/internal/tui/components/habits"
	"github.com/julianstephens/loomra/internal/utils"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateAddHabit
)

type Model struct {
	svc       *service.Service
	state     SessionState
	keys      KeyMap
	help      help.Model
	habits    habits.Model
	form      *huh.Form
	habitForm *HabitFormModel
	date      time.Time
	summary   scheduler.Summary
	showAll   bool
	notice    string
	err       error
	quitting  bool
	width     int
	height    int
}

// NewModel opens the dashboard on today's habits.
func NewModel(svc *service.Service) Model {
	m := Model{
		svc:    svc,
		state:  StateHabits,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		habits: habits.New(nil, 0, 0),
		date:   svc.Scheduler.Today(),
	}
	m.refresh()
	return m
}

// refresh reloads the snapshot and regroups it for the selected date.
func (m *Model) refresh() {
	list, l, err := m.svc.Snapshot()
	if err != nil {
		logger.Error("Failed to load habits", "error", err)
		m.err = err
		return
	}
	m.summary = m.svc.Scheduler.GroupByStatus(list, l, m.date)
	m.habits.SetEntries(m.entries())
}

// entries orders the summary for display: open work first.
func (m Model) entries() []scheduler.Entry {
	var out []scheduler.Entry
	out = append(out, m.summary.Scheduled...)
	out = append(out, m.summary.Other...)
	out = append(out, m.summary.Skipped...)
	out = append(out, m.summary.Completed...)
	if m.showAll {
		out = append(out, m.summary.NotScheduled...)
	}
	return out
}

func (m *Model) setDate(d time.Time) {
	m.date = utils.DateOf(d)
	m.notice, m.err = "", nil
	m.refresh()
}

func (m Model) Date() time.Time {
	return m.date
}

func (m Model) Summary() scheduler.Summary {
	return m.summary
}

func (m Model) ShortHelp() []key.Binding {
	return append(m.keys.ShortHelp(), habits.DefaultKeyMap().Complete, habits.DefaultKeyMap().Add)
}

func (m Model) FullHelp() [][]key.Binding {
	hk := habits.DefaultKeyMap()
	return append(m.keys.FullHelp(), []key.Binding{hk.Add, hk.Complete, hk.Skip, hk.Clear})
}

func (m Model) Init() tea.Cmd {
	return m.habits.Init()
}
