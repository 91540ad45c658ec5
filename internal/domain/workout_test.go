package domain

import (
	"testing"
	"time"
)

func TestWeekStartOf(t *testing.T) {
	cases := map[string]string{
		"2024-01-01": "2024-01-01", // Monday
		"2024-01-03": "2024-01-01",
		"2024-01-07": "2024-01-01", // Sunday
		"2024-03-01": "2024-02-26",
	}
	for in, want := range cases {
		d, err := time.Parse(DateLayout, in)
		if err != nil {
			t.Fatal(err)
		}
		if got := WeekStartOf(d); got != want {
			t.Errorf("WeekStartOf(%s) = %s, want %s", in, got, want)
		}
	}
}
