package mathutil

import "testing"

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{name: "Round down", input: 12.344, expected: 12.34},
		{name: "Round up", input: 12.345, expected: 12.35},
		{name: "Negative value", input: -7.005, expected: -7.0},
		{name: "Already exact", input: 100.10, expected: 100.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round(tt.input); got != tt.expected {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRound4(t *testing.T) {
	if got := Round4(0.123456); got != 0.1235 {
		t.Errorf("Round4(0.123456) = %v, expected 0.1235", got)
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(10.001, 10.002, 0.01) {
		t.Errorf("expected 10.001 and 10.002 to be within 0.01")
	}
	if WithinTolerance(10.0, 10.5, 0.01) {
		t.Errorf("expected 10.0 and 10.5 to exceed 0.01 tolerance")
	}
}

func TestIsZero(t *testing.T) {
	if !IsZero(0.005) {
		t.Errorf("expected 0.005 to be treated as zero")
	}
	if IsZero(0.5) {
		t.Errorf("expected 0.5 to be non-zero")
	}
}
