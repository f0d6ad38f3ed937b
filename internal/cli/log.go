package cli

import (
	"errors"

	"github.com/julianstephens/loomra/internal/service"
)

type LogCmd struct {
	Habit      string   `arg:"" help:"Habit name or id."`
	Date       string   `help:"Date in YYYY-MM-DD format (default: today)." short:"d"`
	Skip       bool     `help:"Mark the day as skipped (does not break the streak)."`
	Clear      bool     `help:"Reset the day to neither completed nor skipped."`
	Undo       bool     `help:"Mark the day as not completed."`
	Amount     *float64 `help:"Actual amount done."`
	Note       *string  `help:"Note for the day."`
	Mood       *string  `help:"Mood for the day."`
	Difficulty *string  `help:"Difficulty for the day (easy, medium, hard)."`
}

func (c *LogCmd) Validate() error {
	n := 0
	for _, set := range []bool{c.Skip, c.Clear, c.Undo} {
		if set {
			n++
		}
	}
	if n > 1 {
		return errors.New("--skip, --clear and --undo are mutually exclusive")
	}
	return nil
}

func (c *LogCmd) input() service.LogInput {
	in := service.LogInput{
		Clear:      c.Clear,
		Amount:     c.Amount,
		Note:       c.Note,
		Mood:       c.Mood,
		Difficulty: c.Difficulty,
	}
	t, f := true, false
	switch {
	case c.Clear:
	case c.Skip:
		in.Skip = &t
	case c.Undo:
		in.Complete = &f
	default:
		in.Complete = &t
	}
	return in
}

func (c *LogCmd) Run(ctx *Context) error {
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

	rec, err := ctx.Service.Log(habit, date, c.input())
	if err != nil {
		return err
	}

	l, err := ctx.Service.HabitLedger(habit.ID)
	if err != nil {
		return err
	}
	st := ctx.Scheduler.Classify(habit, l, date)
	ctx.Printf("%s on %s: %s  (streak %d)\n", habit.Name, rec.Date, badge(st), ctx.Scheduler.CurrentStreak(habit, l))
	return nil
}
