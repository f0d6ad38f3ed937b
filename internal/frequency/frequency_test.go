package frequency

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/loomra/internal/utils"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestIsDue_IntervalAnchoring(t *testing.T) {
	start := mustDate(t, "2024-01-01")
	f := Interval{Days: 3}

	for offset, want := range map[int]bool{0: true, 1: false, 2: false, 3: true, 4: false, 5: false, 6: true} {
		date := utils.AddDays(start, offset)
		if got := IsDue(f, date, start); got != want {
			t.Errorf("IsDue(Interval{3}, D+%d) = %v, want %v", offset, got, want)
		}
	}
}

func TestIsDue(t *testing.T) {
	mwf := Daily{Weekdays: []time.Weekday{time.Monday, time.Wednesday, time.Friday}}

	tests := []struct {
		name  string
		freq  Frequency
		date  string
		start string
		want  bool
	}{
		{"daily selected weekday", mwf, "2024-01-03", "2024-01-01", true},
		{"daily unselected weekday", mwf, "2024-01-02", "2024-01-01", false},
		{"before start date", mwf, "2023-12-29", "2024-01-01", false},
		{"no start date has no lower bound", mwf, "2023-12-29", "", true},
		{"empty daily set means every day", Daily{}, "2024-01-02", "2024-01-01", true},
		{"interval without start is never due", Interval{Days: 2}, "2024-01-03", "", false},
		{"interval anchored centuries ago", Interval{Days: 7}, "2024-01-01", "1500-01-01", true},
		{"interval anchored centuries ago off day", Interval{Days: 7}, "2024-01-03", "1500-01-01", false},
		{"non-positive interval falls back to 1", Interval{Days: -4}, "2024-01-02", "2024-01-01", true},
		{"times per period always a candidate", TimesPerPeriod{Count: 3, Period: PeriodWeek}, "2024-01-06", "2024-01-01", true},
		{"times per period before start", TimesPerPeriod{Count: 3, Period: PeriodWeek}, "2023-12-31", "2024-01-01", false},
		{"day of month selected", DaysOfMonth{Days: []int{1, 15}}, "2024-02-15", "2024-01-01", true},
		{"day of month unselected", DaysOfMonth{Days: []int{1, 15}}, "2024-02-14", "2024-01-01", false},
		{"day 31 never occurs in february", DaysOfMonth{Days: []int{31}}, "2024-02-29", "2024-01-01", false},
		{"nil frequency uses default", nil, "2024-01-02", "2024-01-01", true},
		{"pointer variant", &Interval{Days: 7}, "2024-01-08", "2024-01-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var start time.Time
			if tt.start != "" {
				start = mustDate(t, tt.start)
			}
			if got := IsDue(tt.freq, mustDate(t, tt.date), start); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDue_IgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)
	date := time.Date(2024, 1, 4, 1, 30, 0, 0, time.UTC)
	if !IsDue(Interval{Days: 3}, date, start) {
		t.Error("expected interval to be due three calendar days after start regardless of clock time")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Frequency
		want Frequency
	}{
		{"empty daily", Daily{}, Daily{Weekdays: AllWeekdays()}},
		{"daily dedupe and sort", Daily{Weekdays: []time.Weekday{time.Friday, time.Monday, time.Friday, 9}}, Daily{Weekdays: []time.Weekday{time.Monday, time.Friday}}},
		{"zero interval", Interval{}, Interval{Days: 1}},
		{"zero count and bad period", TimesPerPeriod{Period: "fortnight"}, TimesPerPeriod{Count: 1, Period: PeriodWeek}},
		{"month period kept", TimesPerPeriod{Count: 4, Period: PeriodMonth}, TimesPerPeriod{Count: 4, Period: PeriodMonth}},
		{"days of month filtered", DaysOfMonth{Days: []int{0, 15, 32, 1, 15}}, DaysOfMonth{Days: []int{1, 15}}},
		{"empty days of month", DaysOfMonth{}, DaysOfMonth{Days: []int{1}}},
		{"nil", nil, Daily{Weekdays: AllWeekdays()}},
		{"nil pointer", (*Interval)(nil), Daily{Weekdays: AllWeekdays()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDefaultReturnsFreshValues(t *testing.T) {
	a := Default().(Daily)
	a.Weekdays[0] = time.Saturday
	b := Default().(Daily)
	if b.Weekdays[0] != time.Sunday {
		t.Error("Default() shares its weekday slice between calls")
	}
}

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		name  string
		freq  Frequency
		value string
	}{
		{"daily", Daily{Weekdays: []time.Weekday{time.Monday, time.Wednesday}}, `[1,3]`},
		{"interval", Interval{Days: 3}, `3`},
		{"times", TimesPerPeriod{Count: 2, Period: PeriodMonth}, `{"count":2,"period":"month"}`},
		{"dates", DaysOfMonth{Days: []int{1, 15}}, `[1,15]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := Encode(tt.freq)
			if string(spec.Value) != tt.value {
				t.Errorf("Encode() value = %s, want %s", spec.Value, tt.value)
			}
			if got := Decode(spec); !reflect.DeepEqual(got, tt.freq) {
				t.Errorf("Decode(Encode()) = %#v, want %#v", got, tt.freq)
			}
		})
	}
}

func TestDecodeTolerance(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Frequency
	}{
		{"weekday names", `{"type":"daily","value":["mon","Friday"]}`, Daily{Weekdays: []time.Weekday{time.Monday, time.Friday}}},
		{"quoted interval", `{"type":"interval","value":"4"}`, Interval{Days: 4}},
		{"missing interval", `{"type":"interval"}`, Interval{Days: 1}},
		{"fractional interval truncates", `{"type":"interval","value":2.7}`, Interval{Days: 2}},
		{"missing quota fields", `{"type":"times_per_period","value":{}}`, TimesPerPeriod{Count: 1, Period: PeriodWeek}},
		{"legacy type name", `{"type":"x_times_per_period","value":{"count":3,"period":"week"}}`, TimesPerPeriod{Count: 3, Period: PeriodWeek}},
		{"unknown type", `{"type":"hourly","value":1}`, Daily{Weekdays: AllWeekdays()}},
		{"garbage weekday", `{"type":"daily","value":[1,"someday"]}`, Daily{Weekdays: AllWeekdays()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var spec Spec
			if err := json.Unmarshal([]byte(tt.json), &spec); err != nil {
				t.Fatalf("unmarshal spec: %v", err)
			}
			if got := Decode(spec); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestColumns(t *testing.T) {
	typ, value := MarshalColumns(TimesPerPeriod{Count: 3, Period: PeriodWeek})
	if typ != "times_per_period" {
		t.Errorf("type column = %q", typ)
	}
	got := UnmarshalColumns(typ, value)
	if !reflect.DeepEqual(got, TimesPerPeriod{Count: 3, Period: PeriodWeek}) {
		t.Errorf("UnmarshalColumns() = %#v", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Frequency
		wantErr bool
	}{
		{in: "daily", want: Daily{Weekdays: AllWeekdays()}},
		{in: "daily:fri,mon,wed", want: Daily{Weekdays: []time.Weekday{time.Monday, time.Wednesday, time.Friday}}},
		{in: "weekdays", want: Daily{Weekdays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}}},
		{in: "interval:3", want: Interval{Days: 3}},
		{in: "Times:2/Month", want: TimesPerPeriod{Count: 2, Period: PeriodMonth}},
		{in: "dates:15,1", want: DaysOfMonth{Days: []int{1, 15}}},
		{in: "interval:0", wantErr: true},
		{in: "times:3", wantErr: true},
		{in: "times:3/year", wantErr: true},
		{in: "dates:0", wantErr: true},
		{in: "daily:noday", wantErr: true},
		{in: "hourly", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		freq Frequency
		want string
	}{
		{Default(), "every day"},
		{Daily{Weekdays: []time.Weekday{time.Monday, time.Friday}}, "on Mon, Fri"},
		{Interval{Days: 3}, "every 3 days"},
		{TimesPerPeriod{Count: 3, Period: PeriodWeek}, "3× per week"},
		{DaysOfMonth{Days: []int{1, 15}}, "on day 1, 15 of the month"},
	}
	for _, tt := range tests {
		if got := Describe(tt.freq); got != tt.want {
			t.Errorf("Describe(%#v) = %q, want %q", tt.freq, got, tt.want)
		}
	}
}
