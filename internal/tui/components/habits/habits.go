package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/loomra/internal/scheduler"
	"github.com/julianstephens/loomra/internal/status"
)

type Action int

const (
	ActionComplete Action = iota
	ActionSkip
	ActionClear
)

func (a Action) String() string {
	switch a {
	case ActionComplete:
		return "complete"
	case ActionSkip:
		return "skip"
	default:
		return "clear"
	}
}

type AddHabitMsg struct{}

// LogHabitMsg asks the parent to change the selected habit's record for the
// day being shown.
type LogHabitMsg struct {
	ID     string
	Action Action
}

type Item struct {
	Entry scheduler.Entry
}

func (i Item) Title() string {
	prefix := "○ "
	switch i.Entry.Status {
	case status.Completed, status.PeriodCompleted:
		prefix = "✓ "
	case status.Skipped:
		prefix = "» "
	case status.Missed:
		prefix = "✗ "
	case status.FutureLocked, status.NotScheduled, status.Locked:
		prefix = "· "
	}
	return prefix + i.Entry.Habit.Name
}

func (i Item) Description() string {
	desc := i.Entry.Status.String()
	if i.Entry.Streak > 0 {
		desc += fmt.Sprintf(" · streak %d", i.Entry.Streak)
	}
	if !i.Entry.Status.Editable() {
		desc += " · read-only"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Entry.Habit.Name }

type KeyMap struct {
	Add      key.Binding
	Complete key.Binding
	Skip     key.Binding
	Clear    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Complete: key.NewBinding(
			key.WithKeys(" ", "m"),
			key.WithHelp("space/m", "mark done"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Clear: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "clear"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(entries []scheduler.Entry, width, height int) Model {
	l := list.New(toItems(entries), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	// the parent model owns quitting
	l.KeyMap.Quit.SetEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Complete, keys.Skip, keys.Clear}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Complete, keys.Skip, keys.Clear}
	}

	return Model{list: l, keys: keys}
}

func toItems(entries []scheduler.Entry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e}
	}
	return items
}

// SetEntries replaces the listed habits, keeping the cursor where possible.
func (m *Model) SetEntries(entries []scheduler.Entry) {
	idx := m.list.Index()
	m.list.SetItems(toItems(entries))
	if idx >= len(entries) {
		idx = len(entries) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

func (m Model) Items() []Item {
	out := make([]Item, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if i, ok := it.(Item); ok {
			out = append(out, i)
		}
	}
	return out
}

func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

// Filtering reports whether the list is capturing keystrokes for its filter.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Complete):
			return m, m.logSelected(ActionComplete)
		case key.Matches(msg, m.keys.Skip):
			return m, m.logSelected(ActionSkip)
		case key.Matches(msg, m.keys.Clear):
			return m, m.logSelected(ActionClear)
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) logSelected(a Action) tea.Cmd {
	i, ok := m.Selected()
	if !ok || !i.Entry.Status.Editable() {
		return nil
	}
	id := i.Entry.Habit.ID
	return func() tea.Msg { return LogHabitMsg{ID: id, Action: a} }
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  Nothing to do on this day.\n  Press 'a' to add a habit."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
