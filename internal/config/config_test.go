package config

import (
	"testing"
	"time"
)

func TestProgramYearRollover(t *testing.T) {
	cases := []struct {
		date string
		want int
	}{
		{"2024-09-01", 2024},
		{"2024-12-31", 2024},
		{"2025-01-15", 2024},
		{"2025-06-30", 2024},
		{"2025-08-31", 2024},
		{"2025-09-01", 2025},
	}
	for _, c := range cases {
		d, err := time.Parse("2006-01-02", c.date)
		if err != nil {
			t.Fatalf("parse %s: %v", c.date, err)
		}
		if got := ProgramYear(d); got != c.want {
			t.Errorf("ProgramYear(%s) = %d, want %d", c.date, got, c.want)
		}
	}
}

func TestLoadProgramYearOverride(t *testing.T) {
	t.Setenv("PROGRAM_YEAR", "2024")
	cfg := Load()
	if cfg.Year != 2024 {
		t.Fatalf("expected year override 2024, got %d", cfg.Year)
	}
	t.Setenv("PROGRAM_YEAR", "notayear")
	cfg = Load()
	if cfg.Year != ProgramYear(time.Now()) {
		t.Fatalf("invalid override should keep computed year, got %d", cfg.Year)
	}
}
