package frequency

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/loomra/internal/utils"
)

// Parse reads the compact frequency syntax accepted on the command line:
//
//	daily                 every day
//	daily:mon,wed,fri     selected weekdays
//	weekdays              Monday through Friday
//	interval:3            every third day from the start date
//	times:3/week          three times per week (or /month)
//	dates:1,15            the 1st and 15th of every month
func Parse(s string) (Frequency, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	name, arg, _ := strings.Cut(s, ":")

	switch name {
	case "daily", "weekly":
		if arg == "" {
			return Default(), nil
		}
		days, err := utils.ParseWeekdays(arg)
		if err != nil {
			return nil, err
		}
		return Normalize(Daily{Weekdays: days}), nil
	case "weekdays":
		return Daily{Weekdays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}}, nil
	case "interval", "every":
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("interval must be a positive number of days, got %q", arg)
		}
		return Interval{Days: n}, nil
	case "times":
		countStr, periodStr, ok := strings.Cut(arg, "/")
		if !ok {
			return nil, fmt.Errorf("expected times:N/week or times:N/month, got %q", s)
		}
		n, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("count must be a positive number, got %q", countStr)
		}
		period := Period(strings.TrimSpace(periodStr))
		if period != PeriodWeek && period != PeriodMonth {
			return nil, fmt.Errorf("period must be week or month, got %q", periodStr)
		}
		return TimesPerPeriod{Count: n, Period: period}, nil
	case "dates":
		var days []int
		for _, part := range strings.Split(arg, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n < 1 || n > 31 {
				return nil, fmt.Errorf("invalid day of month: %q", part)
			}
			days = append(days, n)
		}
		return Normalize(DaysOfMonth{Days: days}), nil
	}
	return nil, fmt.Errorf("unknown frequency %q (expected daily, weekdays, interval, times or dates)", s)
}

// Describe formats a frequency into a human-readable string
func Describe(f Frequency) string {
	switch v := Normalize(f).(type) {
	case Daily:
		if len(v.Weekdays) == 7 {
			return "every day"
		}
		days := make([]string, len(v.Weekdays))
		for i, wd := range v.Weekdays {
			days[i] = wd.String()[:3]
		}
		return "on " + strings.Join(days, ", ")
	case Interval:
		if v.Days == 1 {
			return "every day"
		}
		return fmt.Sprintf("every %d days", v.Days)
	case TimesPerPeriod:
		return fmt.Sprintf("%d× per %s", v.Count, v.Period)
	case DaysOfMonth:
		days := make([]string, len(v.Days))
		for i, d := range v.Days {
			days[i] = strconv.Itoa(d)
		}
		return "on day " + strings.Join(days, ", ") + " of the month"
	}
	return "unknown"
}
