package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/loomra/internal/config"
	"github.com/julianstephens/loomra/internal/keyring"
	"github.com/julianstephens/loomra/internal/validation"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	result, err := validate(ctx)
	if err != nil {
		return err
	}
	ctx.Print(result.FormatReport())
	if !result.HasConflicts() {
		ctx.Println()
		return nil
	}
	return fmt.Errorf("%d conflict(s) found", len(result.Conflicts))
}

func validate(ctx *Context) (validation.ValidationResult, error) {
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		return validation.ValidationResult{}, err
	}
	records, err := ctx.Store.GetAllCompletions()
	if err != nil {
		return validation.ValidationResult{}, err
	}

	v := validation.New()
	result := v.ValidateHabits(habits)
	result.Conflicts = append(result.Conflicts, v.ValidateRecords(habits, records).Conflicts...)
	return result, nil
}

type DoctorCmd struct{}

func (c *DoctorCmd) Run(ctx *Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	check := func(name string, err error) {
		if err != nil {
			ctx.Printf("❌ %s: FAIL\n   Error: %v\n", name, err)
			hasError = true
			return
		}
		ctx.Printf("✓ %s: OK\n", name)
	}

	ctx.Printf("  Storage: %s\n", ctx.Config.Describe())

	if err := ctx.Store.Open(); err == nil {
		if st, err := ctx.Store.SchemaStatus(); err == nil {
			ctx.Printf("  Schema: %s\n", st)
		}
	}

	dbErr := ctx.Load()
	check("Database reachable and schema current", dbErr)

	if dbErr == nil {
		result, err := validate(ctx)
		if err == nil && result.HasConflicts() {
			err = errors.New(result.FormatReport())
		}
		check("Data validation", err)
	} else {
		ctx.Println("⊘ Data validation: SKIPPED (database not reachable)")
	}

	check("Clock/timezone", checkClock(ctx))

	if ctx.Config.IsPostgres() && ctx.Config.Source == config.SourceKeyring && !keyring.IsAvailable() {
		check("OS keyring", keyring.ErrKeyringUnavailable)
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkClock(ctx *Context) error {
	today := ctx.Scheduler.Today()
	if today.Year() < 2000 {
		return fmt.Errorf("system clock reports %s", today.Format(time.DateOnly))
	}
	ctx.Printf("  Today is %s (%s), weeks start on %s\n",
		today.Format(time.DateOnly), ctx.Scheduler.Location, ctx.Scheduler.WeekStart)
	return nil
}
