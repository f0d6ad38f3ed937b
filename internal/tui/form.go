package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/loomra/internal/constants"
	"github.com/julianstephens/loomra/internal/frequency"
	"github.com/julianstephens/loomra/internal/service"
)

// HabitFormModel backs the add-habit form.
type HabitFormModel struct {
	Name      string
	Frequency string
	Category  constants.Category
	Target    string
}

func newHabitFormModel() *HabitFormModel {
	return &HabitFormModel{
		Frequency: "daily",
		Category:  constants.CategoryOther,
		Target:    strconv.Itoa(constants.DefaultTargetAmount),
	}
}

// Input converts the form values for service.AddHabit.
func (fm *HabitFormModel) Input() (service.HabitInput, error) {
	target, err := strconv.Atoi(strings.TrimSpace(fm.Target))
	if err != nil {
		return service.HabitInput{}, fmt.Errorf("invalid target %q", fm.Target)
	}
	category := string(fm.Category)
	return service.HabitInput{
		Name:         &fm.Name,
		Frequency:    &fm.Frequency,
		Category:     &category,
		TargetAmount: &target,
	}, nil
}

func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Frequency").
				Description("daily, daily:mon,wed,fri, interval:3, times:3/week, dates:1,15").
				Value(&fm.Frequency).
				Validate(func(s string) error {
					_, err := frequency.Parse(s)
					return err
				}),
			huh.NewSelect[constants.Category]().
				Title("Category").
				Options(
					huh.NewOption("Health", constants.CategoryHealth),
					huh.NewOption("Fitness", constants.CategoryFitness),
					huh.NewOption("Mindfulness", constants.CategoryMindfulness),
					huh.NewOption("Learning", constants.CategoryLearning),
					huh.NewOption("Productivity", constants.CategoryProductivity),
					huh.NewOption("Social", constants.CategorySocial),
					huh.NewOption("Other", constants.CategoryOther),
				).
				Value(&fm.Category),
			huh.NewInput().
				Title("Daily target").
				Value(&fm.Target).
				Validate(func(s string) error {
					i, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return err
					}
					if i <= 0 {
						return fmt.Errorf("target must be a positive number")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
