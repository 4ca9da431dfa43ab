package calendar

import (
	"testing"
	"time"
)

func TestIsTradingDay(t *testing.T) {
	cases := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"regular thursday", date(2025, time.September, 18), true},
		{"sunday", date(2025, time.September, 21), false},
		{"independence day", date(2025, time.July, 4), false},
		{"good friday 2025", date(2025, time.April, 18), false},
		{"thanksgiving 2025", date(2025, time.November, 27), false},
		{"christmas on sunday observed monday", date(2022, time.December, 26), false},
		{"juneteenth 2021 not a closure", date(2021, time.June, 18), true},
		{"new year on saturday not observed friday", date(2021, time.December, 31), true},
		{"mlk day 2026", date(2026, time.January, 19), false},
		{"memorial day 2026", date(2026, time.May, 25), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTradingDay(tc.day); got != tc.want {
				t.Fatalf("IsTradingDay(%s)=%v, want %v", tc.day.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestLastNSessions_CountAndOrder(t *testing.T) {
	from := time.Date(2025, 9, 20, 12, 30, 0, 0, time.UTC) // Sat
	days := LastNSessions(5, from)
	if len(days) != 5 {
		t.Fatalf("want 5 got %d", len(days))
	}
	if !days[0].Equal(date(2025, time.September, 19)) {
		t.Fatalf("most recent session=%s, want 2025-09-19", days[0].Format("2006-01-02"))
	}
	for i := 0; i < len(days); i++ {
		if i > 0 && !days[i].Before(days[i-1]) {
			t.Fatal("dates should be strictly decreasing")
		}
		if !IsTradingDay(days[i]) {
			t.Fatalf("non-session day returned: %s", days[i])
		}
	}
}

func TestSessionsBack(t *testing.T) {
	from := date(2025, time.July, 7) // Monday after Independence Day
	if got := SessionsBack(0, from); !got.Equal(from) {
		t.Fatalf("SessionsBack(0)=%s", got)
	}
	// 07-03 (Thu) is one session back because 07-04 is closed.
	if got := SessionsBack(1, from); !got.Equal(date(2025, time.July, 3)) {
		t.Fatalf("SessionsBack(1)=%s, want 2025-07-03", got.Format("2006-01-02"))
	}
	if got := SessionsBack(-3, from); !got.Equal(from) {
		t.Fatalf("negative n should clamp to 0, got %s", got)
	}
}

func TestEasterSunday(t *testing.T) {
	if got := easterSunday(2025); !got.Equal(date(2025, time.April, 20)) {
		t.Fatalf("easter 2025=%s", got)
	}
	if got := easterSunday(2026); !got.Equal(date(2026, time.April, 5)) {
		t.Fatalf("easter 2026=%s", got)
	}
}
