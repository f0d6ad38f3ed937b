package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/loomra/internal/constants"
	"github.com/julianstephens/loomra/internal/models"
	"github.com/julianstephens/loomra/internal/status"
	"github.com/julianstephens/loomra/internal/utils"
)

const nameWidth = 20

// StatusCmd prints a status calendar: one row per habit, one cell per day.
type StatusCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show a single habit (name or id)."`
	End   string `help:"Last day shown (YYYY-MM-DD, default: today)."`
}

func (c *StatusCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	if c.Days <= 0 {
		c.Days = constants.DefaultLogDays
	}

	end, err := ctx.Service.ParseDate(c.End)
	if err != nil {
		return err
	}
	start := utils.AddDays(end, -(c.Days - 1))

	habits, l, err := ctx.Service.Snapshot()
	if err != nil {
		return err
	}
	if c.Habit != "" {
		h, err := ctx.Service.FindHabit(c.Habit)
		if err != nil {
			return err
		}
		habits = []models.Habit{h}
	}
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	ctx.Printf("Habit status (%s to %s):\n\n", utils.FormatDate(start), utils.FormatDate(end))

	ctx.Print(strings.Repeat(" ", nameWidth))
	for d := start; !d.After(end); d = utils.AddDays(d, 1) {
		ctx.Printf(" %2d", d.Day())
	}
	ctx.Println()
	ctx.Println(strings.Repeat("-", nameWidth+3*c.Days))

	for _, habit := range habits {
		ctx.Print(fit(habit.Name, nameWidth))
		for _, day := range ctx.Scheduler.Calendar(habit, l, start, end) {
			ctx.Printf("  %s", mark(day.Status))
		}
		ctx.Println()
	}

	ctx.Println()
	var legend []string
	for _, s := range status.All() {
		if statusMarks[s] != " " {
			legend = append(legend, fmt.Sprintf("%s %s", statusMarks[s], s))
		}
	}
	ctx.Println(mutedStyle.Render(strings.Join(legend, "  ")))
	return nil
}

type StreakCmd struct {
	Habit string `arg:"" optional:"" help:"Habit name or id (default: all active habits)."`
}

func (c *StreakCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habits, l, err := ctx.Service.Snapshot()
	if err != nil {
		return err
	}
	if c.Habit != "" {
		h, err := ctx.Service.FindHabit(c.Habit)
		if err != nil {
			return err
		}
		habits = []models.Habit{h}
	}
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	ctx.Printf("%s %8s %8s\n", fit("Habit", nameWidth), "current", "best")
	for _, h := range habits {
		ctx.Printf("%s %8d %8d\n", fit(h.Name, nameWidth), ctx.Scheduler.CurrentStreak(h, l), ctx.Scheduler.BestStreak(h, l))
	}
	return nil
}
