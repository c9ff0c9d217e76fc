package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1.0", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{".5", "0.5", true},
		{"1.005", "1.005", true}, // no rounding, exact decimal
		{" 2.50 ", "2.50", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.00", "", false},
		{"abc", "", false},
		{"1e3", "", false},
		{"1.2.3", "", false},
		{".", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || FormatAmount(got) != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, FormatAmount(got), err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseBudgetLimit(t *testing.T) {
	if got, err := ParseBudgetLimit("0"); err != nil || !got.IsZero() {
		t.Fatalf("expected zero limit, got %v (err=%v)", got, err)
	}
	if got, err := ParseBudgetLimit("250,75"); err != nil || FormatAmount(got) != "250.75" {
		t.Fatalf("expected 250.75, got %v (err=%v)", got, err)
	}
	if _, err := ParseBudgetLimit("-5"); err == nil {
		t.Fatalf("expected error for negative limit")
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.RequireFromString("10.00"), "10.00"},
		{decimal.RequireFromString("1E3"), "1000"},
		{decimal.RequireFromString("0.000001"), "0.000001"},
		{decimal.Zero, "0"},
		{decimal.RequireFromString("20.00").Add(decimal.RequireFromString("30.5")), "50.50"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
