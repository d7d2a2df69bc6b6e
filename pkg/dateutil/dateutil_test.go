package dateutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	input := time.Date(2025, 1, 15, 14, 30, 45, 123456789, time.UTC)
	expected := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	result := StartOfDay(input)

	if !result.Equal(expected) {
		t.Errorf("StartOfDay(%v) = %v, want %v", input, result, expected)
	}
}

func TestStartOfMonth(t *testing.T) {
	input := time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC)
	expected := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	if result := StartOfMonth(input); !result.Equal(expected) {
		t.Errorf("StartOfMonth(%v) = %v, want %v", input, result, expected)
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		first    time.Weekday
		expected time.Time
	}{
		{
			name:     "Wednesday returns Monday",
			input:    time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC), // Wednesday
			first:    time.Monday,
			expected: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Monday returns same Monday",
			input:    time.Date(2025, 1, 13, 12, 0, 0, 0, time.UTC),
			first:    time.Monday,
			expected: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Sunday returns previous Monday",
			input:    time.Date(2025, 1, 19, 12, 0, 0, 0, time.UTC),
			first:    time.Monday,
			expected: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Sunday start on Sunday",
			input:    time.Date(2025, 1, 19, 12, 0, 0, 0, time.UTC),
			first:    time.Sunday,
			expected: time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Sunday start crosses month",
			input:    time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), // Friday
			first:    time.Sunday,
			expected: time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StartOfWeek(tt.input, tt.first)

			if !result.Equal(tt.expected) {
				t.Errorf("StartOfWeek(%v, %v) = %v, want %v",
					tt.input.Format("2006-01-02 Mon"),
					tt.first,
					result.Format("2006-01-02 Mon"),
					tt.expected.Format("2006-01-02 Mon"))
			}
		})
	}
}

func TestNextWeekday(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		wd       time.Weekday
		expected time.Time
	}{
		{"Friday to Monday", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Monday, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"Same weekday", time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), time.Monday, time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"Saturday to Sunday", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), time.Sunday, time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := NextWeekday(tt.input, tt.wd); !result.Equal(tt.expected) {
				t.Errorf("NextWeekday(%v, %v) = %v, want %v", tt.input, tt.wd, result, tt.expected)
			}
		})
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		n        int
		expected time.Time
	}{
		{"January 31 forward", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"December forward wraps year", time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC), 1, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"January backward wraps year", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), -1, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := AddMonths(tt.input, tt.n); !result.Equal(tt.expected) {
				t.Errorf("AddMonths(%v, %d) = %v, want %v", tt.input, tt.n, result, tt.expected)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	if got := DaysBetween(a, b); got != 34 {
		t.Errorf("DaysBetween() = %d, want 34", got)
	}
}

func TestIsSameDay(t *testing.T) {
	tests := []struct {
		name  string
		date1 time.Time
		date2 time.Time
		want  bool
	}{
		{
			"Same date different time",
			time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 15, 20, 0, 0, 0, time.UTC),
			true,
		},
		{
			"Different date",
			time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 16, 10, 0, 0, 0, time.UTC),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsSameDay(tt.date1, tt.date2)

			if result != tt.want {
				t.Errorf("IsSameDay(%v, %v) = %v, want %v",
					tt.date1, tt.date2, result, tt.want)
			}
		})
	}
}

func TestIsSameMonth(t *testing.T) {
	if !IsSameMonth(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)) {
		t.Error("IsSameMonth() = false for March 1 and March 31")
	}
	if IsSameMonth(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("IsSameMonth() = true across years")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			"ISO format YYYY-MM-DD",
			"2025-01-15",
			time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"Dotted format DD.MM.YYYY",
			"15.01.2025",
			time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"Compact ICS format",
			"20250115",
			time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"ISO with time",
			"2025-01-15T10:30:00",
			time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
			false,
		},
		{
			"Garbage",
			"not a date",
			time.Time{},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDate(tt.input, time.UTC)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDate(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}

			if !tt.wantErr && !result.Equal(tt.want) {
				t.Errorf("ParseDate(%v) = %v, want %v", tt.input, result, tt.want)
			}
		})
	}
}

func TestFormatISODate(t *testing.T) {
	input := time.Date(2025, 1, 5, 10, 30, 45, 0, time.UTC)
	if got := FormatISODate(input); got != "2025-01-05" {
		t.Errorf("FormatISODate(%v) = %v, want 2025-01-05", input, got)
	}
}
