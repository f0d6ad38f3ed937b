package frequency

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/loomra/internal/logger"
	"github.com/julianstephens/loomra/internal/utils"
)

// Spec is the persisted {type, value} shape of a frequency.
type Spec struct {
	Type  Kind            `json:"type"`
	Value json.RawMessage `json:"value"`
}

type periodValue struct {
	Count  json.Number `json:"count"`
	Period string      `json:"period"`
}

// Encode converts f into its wire shape. The result always describes a valid frequency.
func Encode(f Frequency) Spec {
	n := Normalize(f)
	var value any
	switch v := n.(type) {
	case Daily:
		days := make([]int, len(v.Weekdays))
		for i, wd := range v.Weekdays {
			days[i] = int(wd)
		}
		value = days
	case Interval:
		value = v.Days
	case TimesPerPeriod:
		value = struct {
			Count  int    `json:"count"`
			Period Period `json:"period"`
		}{v.Count, v.Period}
	case DaysOfMonth:
		value = v.Days
	}
	raw, _ := json.Marshal(value)
	return Spec{Type: n.Kind(), Value: raw}
}

// Decode converts a wire shape back into a frequency. It never fails: unknown
// types and malformed values fall back to a normalized default and are logged.
func Decode(s Spec) Frequency {
	f, err := decode(s)
	if err != nil {
		logger.Warn("Malformed frequency, using default", "type", s.Type, "value", string(s.Value), "error", err)
	}
	return Normalize(f)
}

func decode(s Spec) (Frequency, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(string(s.Type)))) {
	case KindDaily, "weekly":
		days, err := decodeWeekdays(s.Value)
		return Daily{Weekdays: days}, err
	case KindInterval, "every_n_days":
		n, err := decodeNumber(s.Value)
		if err != nil {
			return Interval{}, err
		}
		return Interval{Days: n}, nil
	case KindTimesPerPeriod, "x_times_per_period", "times":
		var pv periodValue
		if err := json.Unmarshal(s.Value, &pv); err != nil {
			return TimesPerPeriod{}, err
		}
		count, err := decodeNumber(json.RawMessage(pv.Count))
		return TimesPerPeriod{Count: count, Period: Period(strings.ToLower(pv.Period))}, err
	case KindSpecificDates, "specific_days", "days_of_month":
		var days []int
		if err := json.Unmarshal(s.Value, &days); err != nil {
			return DaysOfMonth{}, err
		}
		return DaysOfMonth{Days: days}, nil
	}
	return nil, fmt.Errorf("unknown frequency type %q", s.Type)
}

func decodeNumber(raw json.RawMessage) (int, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		// numbers sometimes arrive quoted
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 0, fmt.Errorf("expected a number, got %s", string(raw))
		}
		if _, err := fmt.Sscanf(s, "%g", &f); err != nil {
			return 0, fmt.Errorf("expected a number, got %q", s)
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("expected a finite number, got %v", f)
	}
	return int(f), nil
}

func decodeWeekdays(raw json.RawMessage) ([]time.Weekday, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	var days []time.Weekday
	for _, item := range items {
		var n int
		if err := json.Unmarshal(item, &n); err == nil {
			if n < 0 || n > 6 {
				return nil, fmt.Errorf("weekday %d out of range", n)
			}
			days = append(days, time.Weekday(n))
			continue
		}
		var name string
		if err := json.Unmarshal(item, &name); err != nil {
			return nil, fmt.Errorf("invalid weekday %s", string(item))
		}
		wd, err := utils.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, wd)
	}
	return days, nil
}

// MarshalColumns returns the (frequency_type, frequency_value) column pair used by the stores.
func MarshalColumns(f Frequency) (string, string) {
	s := Encode(f)
	return string(s.Type), string(s.Value)
}

// UnmarshalColumns is the inverse of MarshalColumns.
func UnmarshalColumns(typ, value string) Frequency {
	return Decode(Spec{Type: Kind(typ), Value: json.RawMessage(value)})
}
