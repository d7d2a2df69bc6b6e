package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var utcMonday = Calendar{Location: time.UTC, FirstWeekday: time.Monday}
var utcSunday = Calendar{Location: time.UTC, FirstWeekday: time.Sunday}

func TestMonthGrid(t *testing.T) {
	tests := []struct {
		name      string
		month     time.Time
		cal       Calendar
		wantLen   int
		wantFirst time.Time
		wantLast  time.Time
	}{
		{
			name:      "February 2024 leap year, Monday start",
			month:     date(2024, time.February, 1),
			cal:       utcMonday,
			wantLen:   35,
			wantFirst: date(2024, time.January, 29),
			wantLast:  date(2024, time.March, 3),
		},
		{
			name:      "February 2015 aligned, Sunday start",
			month:     date(2015, time.February, 14),
			cal:       utcSunday,
			wantLen:   28,
			wantFirst: date(2015, time.February, 1),
			wantLast:  date(2015, time.February, 28),
		},
		{
			name:      "February 2021 aligned, Monday start",
			month:     date(2021, time.February, 1),
			cal:       utcMonday,
			wantLen:   28,
			wantFirst: date(2021, time.February, 1),
			wantLast:  date(2021, time.February, 28),
		},
		{
			name:      "August 2026 six rows, Monday start",
			month:     date(2026, time.August, 31),
			cal:       utcMonday,
			wantLen:   42,
			wantFirst: date(2026, time.July, 27),
			wantLast:  date(2026, time.September, 6),
		},
		{
			name:      "December 2024 crosses year, Monday start",
			month:     date(2024, time.December, 25),
			cal:       utcMonday,
			wantLen:   42,
			wantFirst: date(2024, time.November, 25),
			wantLast:  date(2025, time.January, 5),
		},
		{
			name:      "March 2024, Sunday start",
			month:     date(2024, time.March, 15),
			cal:       utcSunday,
			wantLen:   42,
			wantFirst: date(2024, time.February, 25),
			wantLast:  date(2024, time.April, 6),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := MonthGrid(tt.month, tt.cal)

			if len(days) != tt.wantLen {
				t.Fatalf("len(MonthGrid) = %d, want %d", len(days), tt.wantLen)
			}
			if !days[0].Equal(tt.wantFirst) {
				t.Errorf("first = %v, want %v", days[0].Format("2006-01-02 Mon"), tt.wantFirst.Format("2006-01-02 Mon"))
			}
			if last := days[len(days)-1]; !last.Equal(tt.wantLast) {
				t.Errorf("last = %v, want %v", last.Format("2006-01-02 Mon"), tt.wantLast.Format("2006-01-02 Mon"))
			}
		})
	}
}

func TestMonthGridProperties(t *testing.T) {
	for _, first := range []time.Weekday{time.Sunday, time.Monday, time.Saturday} {
		cal := Calendar{Location: time.UTC, FirstWeekday: first}
		for year := 1999; year <= 2031; year++ {
			for month := time.January; month <= time.December; month++ {
				days := MonthGrid(date(year, month, 10), cal)

				switch len(days) {
				case 28, 35, 42:
				default:
					t.Fatalf("%d-%02d %v: len = %d", year, month, first, len(days))
				}
				if days[0].Weekday() != first {
					t.Fatalf("%d-%02d %v: starts on %v", year, month, first, days[0].Weekday())
				}
				for i := 1; i < len(days); i++ {
					if !days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
						t.Fatalf("%d-%02d %v: gap between %v and %v", year, month, first, days[i-1], days[i])
					}
				}
				if days[0].After(date(year, month, 1)) {
					t.Fatalf("%d-%02d %v: first of month not covered", year, month, first)
				}
				lastOfMonth := date(year, month+1, 0)
				if days[len(days)-1].Before(lastOfMonth) {
					t.Fatalf("%d-%02d %v: last of month not covered", year, month, first)
				}
			}
		}
	}
}

func TestMonthGridDaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	cal := Calendar{Location: loc, FirstWeekday: time.Sunday}

	days := MonthGrid(time.Date(2024, time.March, 10, 12, 0, 0, 0, loc), cal)
	if len(days) != 42 {
		t.Fatalf("len = %d, want 42", len(days))
	}
	for _, d := range days {
		if d.Hour() != 0 || d.Minute() != 0 {
			t.Errorf("%v is not at midnight", d)
		}
	}
}

func TestMonthGridInvalidCalendar(t *testing.T) {
	days := MonthGrid(date(2024, time.May, 1), Calendar{Location: time.UTC, FirstWeekday: time.Weekday(9)})
	if len(days) != 0 {
		t.Errorf("len = %d, want empty grid", len(days))
	}
	if week := WeekGrid(date(2024, time.May, 1), Calendar{FirstWeekday: -1}); len(week) != 0 {
		t.Errorf("week len = %d, want empty grid", len(week))
	}
}

func TestWeekGrid(t *testing.T) {
	tests := []struct {
		name      string
		anchor    time.Time
		cal       Calendar
		wantFirst time.Time
	}{
		{"Thursday with Monday start", time.Date(2024, 2, 1, 17, 45, 0, 0, time.UTC), utcMonday, date(2024, time.January, 29)},
		{"Sunday with Monday start", date(2024, time.March, 3), utcMonday, date(2024, time.February, 26)},
		{"Sunday with Sunday start", date(2024, time.March, 3), utcSunday, date(2024, time.March, 3)},
		{"New Year with Sunday start", date(2025, time.January, 1), utcSunday, date(2024, time.December, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := WeekGrid(tt.anchor, tt.cal)

			if len(days) != 7 {
				t.Fatalf("len(WeekGrid) = %d, want 7", len(days))
			}
			if !days[0].Equal(tt.wantFirst) {
				t.Errorf("first = %v, want %v", days[0].Format("2006-01-02 Mon"), tt.wantFirst.Format("2006-01-02 Mon"))
			}
			if days[0].Weekday() != tt.cal.FirstWeekday {
				t.Errorf("first weekday = %v, want %v", days[0].Weekday(), tt.cal.FirstWeekday)
			}
		})
	}
}

func TestWeekGridProperties(t *testing.T) {
	for _, first := range []time.Weekday{time.Sunday, time.Monday} {
		cal := Calendar{Location: time.UTC, FirstWeekday: first}
		d := date(2023, time.December, 1)
		for i := 0; i < 500; i++ {
			days := WeekGrid(d, cal)
			if len(days) != 7 || days[0].Weekday() != first {
				t.Fatalf("WeekGrid(%v, %v) = %d days starting %v", d, first, len(days), days[0].Weekday())
			}
			if d.Before(days[0]) || !d.Before(days[6].AddDate(0, 0, 1)) {
				t.Fatalf("WeekGrid(%v, %v) does not contain anchor", d, first)
			}
			d = d.AddDate(0, 0, 1)
		}
	}
}

func TestWeekdayOrder(t *testing.T) {
	got := utcMonday.WeekdayOrder()
	want := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("WeekdayOrder()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
