package cli

import (
	"fmt"

	"github.com/julianstephens/loomra/internal/scheduler"
)

type TodayCmd struct {
	Date string `arg:"" optional:"" help:"Date in YYYY-MM-DD format (default: today)."`
	All  bool   `help:"Also list habits that are not scheduled."`
}

func (c *TodayCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	date, err := ctx.Service.ParseDate(c.Date)
	if err != nil {
		return err
	}
	habits, l, err := ctx.Service.Snapshot()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	sum := ctx.Scheduler.GroupByStatus(habits, l, date)
	ctx.Println(headerStyle.Render(fmt.Sprintf("Habits for %s", sum.Date)))

	groups := []struct {
		title   string
		entries []scheduler.Entry
	}{
		{"To do", sum.Scheduled},
		{"Done", sum.Completed},
		{"Skipped", sum.Skipped},
		{"Other", sum.Other},
	}
	if c.All {
		groups = append(groups, struct {
			title   string
			entries []scheduler.Entry
		}{"Not scheduled", sum.NotScheduled})
	}

	for _, g := range groups {
		if len(g.entries) == 0 {
			continue
		}
		ctx.Printf("\n%s\n", g.title)
		for _, e := range g.entries {
			line := fmt.Sprintf("  %s %s", fit(e.Habit.Name, 24), badge(e.Status))
			if e.Streak > 0 {
				line += mutedStyle.Render(fmt.Sprintf("  streak %d", e.Streak))
			}
			ctx.Println(line)
		}
	}

	ctx.Printf("\nCompleted %d of %d (%.0f%%)\n",
		sum.Counts.Completed, sum.Counts.Completed+sum.Counts.Skipped+sum.Counts.Scheduled, sum.CompletionRate*100)
	return nil
}
