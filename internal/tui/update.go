package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/loomra/internal/logger"
	"github.com/julianstephens/loomra/internal/models"
	"github.com/julianstephens/loomra/internal/service"
	"github.com/julianstephens/loomra/internal/tui/components/habits"
	"github.com/julianstephens/loomra/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
		m.height = ws.Height
		m.help.Width = ws.Width
		m.habits.SetSize(ws.Width-4, ws.Height-6)
	}

	if m.state == StateAddHabit {
		return m, m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.habits.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.PrevDay):
			m.setDate(utils.AddDays(m.date, -1))
			return m, nil
		case key.Matches(msg, m.keys.NextDay):
			m.setDate(utils.AddDays(m.date, 1))
			return m, nil
		case key.Matches(msg, m.keys.Today):
			m.setDate(m.svc.Scheduler.Today())
			return m, nil
		case key.Matches(msg, m.keys.All):
			m.showAll = !m.showAll
			m.refresh()
			return m, nil
		}

	case habits.AddHabitMsg:
		m.habitForm = newHabitFormModel()
		m.form = NewHabitForm(m.habitForm)
		m.state = StateAddHabit
		m.notice, m.err = "", nil
		return m, m.form.Init()

	case habits.LogHabitMsg:
		m.logHabit(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.habits, cmd = m.habits.Update(msg)
	return m, cmd
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateHabits
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.addHabit(); err != nil {
			// stay in the form so the user can fix the input or cancel with esc
			m.err = err
			m.form.State = huh.StateNormal
			return cmd
		}
		m.state = StateHabits
	case huh.StateAborted:
		m.state = StateHabits
	}
	return cmd
}

func (m *Model) addHabit() error {
	in, err := m.habitForm.Input()
	if err != nil {
		return err
	}
	h, err := m.svc.AddHabit(in)
	if err != nil {
		return err
	}
	m.notice, m.err = fmt.Sprintf("Added %s", h.Name), nil
	m.refresh()
	return nil
}

func (m *Model) logHabit(msg habits.LogHabitMsg) {
	var habit models.Habit
	found := false
	for _, e := range m.entries() {
		if e.Habit.ID == msg.ID {
			habit, found = e.Habit, true
			break
		}
	}
	if !found {
		return
	}

	t := true
	in := service.LogInput{}
	switch msg.Action {
	case habits.ActionComplete:
		in.Complete = &t
	case habits.ActionSkip:
		in.Skip = &t
	case habits.ActionClear:
		in.Clear = true
	}

	if _, err := m.svc.Log(habit, m.date, in); err != nil {
		logger.Warn("Failed to log habit", "habit", habit.ID, "action", msg.Action, "error", err)
		m.notice, m.err = "", err
	} else {
		m.notice, m.err = fmt.Sprintf("%s: %s", habit.Name, msg.Action), nil
	}
	m.refresh()
}
