package units

import "testing"

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"90:00", 5400},
		{"1:30:00", 5400},
		{"1800", 1800},
		{" 45:30 ", 2730},
		{"0:00:59", 59},
		{"garbage", 0},
		{"", 0},
		{"ab:10", 0},
		{"1:2:3:4", 1},
		{"-30", 0},
		{"1800s", 1800},
	}
	for _, tt := range tests {
		if got := ParseDuration(tt.input); got != tt.want {
			t.Errorf("ParseDuration(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseDurationReadsClockForm(t *testing.T) {
	for h := 0; h < 24; h += 3 {
		for m := 0; m < 60; m += 7 {
			for s := 0; s < 60; s += 11 {
				secs := h*3600 + m*60 + s
				clock := FormatClock(secs)
				if got := ParseDuration(clock); got != secs {
					t.Fatalf("ParseDuration(FormatClock(%d)) = %d (clock %q)", secs, got, clock)
				}
			}
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(5400); got != "1:30:00" {
		t.Fatalf("FormatClock(5400) = %q", got)
	}
	if got := FormatClock(61); got != "0:01:01" {
		t.Fatalf("FormatClock(61) = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{5400, "1h 30m"},
		{2700, "45m"},
		{3600, "1h 0m"},
		{59, "0m"},
		{3725, "1h 2m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.secs); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters int
		want   string
	}{
		{1500, "1.5km"},
		{800, "800m"},
		{1000, "1.0km"},
		{42195, "42.2km"},
		{0, "0m"},
	}
	for _, tt := range tests {
		if got := FormatDistance(tt.meters); got != tt.want {
			t.Errorf("FormatDistance(%d) = %q, want %q", tt.meters, got, tt.want)
		}
	}
}

func TestParseInt(t *testing.T) {
	if got := ParseInt("5000m", 0); got != 5000 {
		t.Fatalf("ParseInt(5000m) = %d", got)
	}
	if got := ParseInt("n/a", 5); got != 5 {
		t.Fatalf("ParseInt(n/a) = %d", got)
	}
	if got := ParseInt("0", 5); got != 5 {
		t.Fatalf("ParseInt(0) should fall back, got %d", got)
	}
	if got := ParseInt(" 7 ", 5); got != 7 {
		t.Fatalf("ParseInt(7) = %d", got)
	}
}

func TestParseIntEdges(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		fallback int
		want     int
	}{
		{"twelve digits", "123456789012", 0, 123456789012},
		{"digits past twelve ignored", "1234567890123456", 0, 123456789012},
		{"minus sign is not a digit", "-5", 3, 3},
		{"plus sign is not a digit", "+5", 3, 3},
		{"leading zeros", "007", 0, 7},
		{"empty", "", 9, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseInt(tt.in, tt.fallback); got != tt.want {
				t.Errorf("ParseInt(%q, %d) = %d, want %d", tt.in, tt.fallback, got, tt.want)
			}
		})
	}
}
