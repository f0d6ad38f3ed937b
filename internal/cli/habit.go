package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/loomra/internal/constants"
	"github.com/julianstephens/loomra/internal/frequency"
	"github.com/julianstephens/loomra/internal/models"
	"github.com/julianstephens/loomra/internal/service"
	"github.com/julianstephens/loomra/internal/utils"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit a habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Show    HabitShowCmd    `cmd:"" help:"Show a habit's status, streaks and quota for a day."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive a habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit (soft delete)."`
	Restore HabitRestoreCmd `cmd:"" help:"Restore an archived or deleted habit."`
}

// HabitFlags are shared by add and edit; kong leaves unset pointers nil.
type HabitFlags struct {
	Frequency *string `help:"daily, daily:mon,wed,fri, weekdays, interval:N, times:N/week|month, dates:1,15." short:"f"`
	Start     *string `help:"Start date (YYYY-MM-DD)."`
	Category  *string `help:"health, fitness, mindfulness, learning, productivity, social or other."`
	Priority  *string `help:"low, medium or high."`
	Icon      *string `help:"Icon shown next to the name."`
	Color     *string `help:"Display color."`
	Unit      *string `help:"Unit of the daily amount."`
	Target    *int    `help:"Daily target amount."`
	Notes     *string `help:"Free-form notes."`
	Reminder  *string `help:"Reminder time (HH:MM) or 'off'."`
}

func (f HabitFlags) input() service.HabitInput {
	return service.HabitInput{
		Frequency:    f.Frequency,
		StartDate:    f.Start,
		Category:     f.Category,
		Priority:     f.Priority,
		Icon:         f.Icon,
		Color:        f.Color,
		Unit:         f.Unit,
		TargetAmount: f.Target,
		Notes:        f.Notes,
		Reminder:     f.Reminder,
	}
}

type HabitAddCmd struct {
	Name       string `arg:"" help:"Habit name."`
	HabitFlags `embed:""`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	in := c.input()
	in.Name = &c.Name
	habit, err := ctx.Service.AddHabit(in)
	if err != nil {
		return err
	}

	ctx.Printf("Added habit: %s (%s, from %s)\n", habit.Name, frequency.Describe(habit.Frequency), habit.StartDate)
	return nil
}

type HabitEditCmd struct {
	Habit      string  `arg:"" help:"Habit name or id."`
	Name       *string `help:"New name."`
	HabitFlags `embed:""`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	in := c.input()
	in.Name = c.Name
	habit, err := ctx.Service.EditHabit(c.Habit, in)
	if err != nil {
		return err
	}

	ctx.Printf("Updated habit: %s (%s)\n", habit.Name, frequency.Describe(habit.Frequency))
	return nil
}

type HabitListCmd struct {
	Archived bool   `help:"Include archived habits."`
	Deleted  bool   `help:"Include deleted habits."`
	Category string `help:"Only show habits in this category."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits(c.Archived, c.Deleted)
	if err != nil {
		return err
	}
	if c.Category != "" {
		want := constants.Category(strings.ToLower(c.Category))
		filtered := habits[:0]
		for _, h := range habits {
			if h.Category == want {
				filtered = append(filtered, h)
			}
		}
		habits = filtered
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	for _, habit := range habits {
		state := ""
		if habit.DeletedAt != nil {
			state = " [DELETED]"
		} else if habit.ArchivedAt != nil {
			state = " [ARCHIVED]"
		}
		name := habit.Name
		if habit.Icon != "" {
			name = habit.Icon + " " + name
		}
		ctx.Printf("%s%s  %s\n", name, state,
			mutedStyle.Render(fmt.Sprintf("%s · %s · %s", habit.Category, habit.Priority, frequency.Describe(habit.Frequency))))
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *HabitShowCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habit, err := ctx.Service.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	date, err := ctx.Service.ParseDate(c.Date)
	if err != nil {
		return err
	}
	l, err := ctx.Service.HabitLedger(habit.ID)
	if err != nil {
		return err
	}

	ov := ctx.Scheduler.Overview(habit, l, date)
	ctx.Println(headerStyle.Render(habit.Name))
	ctx.Printf("  Schedule:  %s (since %s)\n", ov.Schedule, displayStart(habit))
	ctx.Printf("  Category:  %s · %s priority\n", habit.Category, habit.Priority)
	ctx.Printf("  %s:  %s", ov.Date, badge(ov.Status))
	if !ov.Editable {
		ctx.Printf(" %s", mutedStyle.Render("(read-only)"))
	}
	ctx.Println()
	ctx.Printf("  Streak:    %d current, %d best\n", ov.CurrentStreak, ov.BestStreak)
	if q := ov.Quota; q != nil {
		ctx.Printf("  Quota:     %d/%d from %s to %s (%d remaining)\n",
			q.Count, q.Required, q.PeriodStart, q.PeriodEnd, q.Remaining)
	}
	if r := ov.Record; r != nil {
		ctx.Printf("  Record:    %.0f/%.0f %s", r.ActualAmount, r.TargetAmount, habit.Unit)
		if r.Note != "" {
			ctx.Printf(", %q", r.Note)
		}
		ctx.Println()
	}
	if habit.Reminder.Enabled {
		ctx.Printf("  Reminder:  %s\n", habit.Reminder.Time)
	}
	if habit.Notes != "" {
		ctx.Printf("  Notes:     %s\n", habit.Notes)
	}
	return nil
}

func displayStart(h models.Habit) string {
	if h.Start().IsZero() {
		return "always"
	}
	return utils.FormatDate(h.Start())
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit name or id to archive."`
}

func (c *HabitArchiveCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habit, err := ctx.Service.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Store.ArchiveHabit(habit.ID); err != nil {
		return err
	}

	ctx.Printf("Archived habit: %s\n", habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name or id to delete."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habit, err := ctx.Service.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}

	ctx.Printf("Deleted habit: %s\n", habit.Name)
	ctx.Printf("(This is a soft delete. Use '%s habit restore' to undo)\n", constants.AppName)
	return nil
}

type HabitRestoreCmd struct {
	Habit string `arg:"" help:"Habit name or id to restore."`
}

func (c *HabitRestoreCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		return err
	}

	// habits come oldest first, so the last match is the most recent
	var habit *models.Habit
	for i := range habits {
		h := &habits[i]
		if !h.IsActive() && (h.Name == c.Habit || h.ID == c.Habit) {
			habit = h
		}
	}
	if habit == nil {
		return fmt.Errorf("archived or deleted habit %q not found", c.Habit)
	}
	if habit.DeletedAt != nil {
		if live, err := ctx.Store.GetHabitByName(habit.Name); err == nil && live.ID != habit.ID {
			return fmt.Errorf("cannot restore %q: a live habit already uses that name", habit.Name)
		}
	}

	if err := ctx.Store.RestoreHabit(habit.ID); err != nil {
		return err
	}

	ctx.Printf("Restored habit: %s\n", habit.Name)
	return nil
}
