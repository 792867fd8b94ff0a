package google

import "testing"

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Transactions", 2026, "2026 Transactions"},
		{"  Transactions  ", 2026, "2026 Transactions"},
		{"2025 Transactions", 2026, "2025 Transactions"},
		{"", 2026, ""},
	}

	for _, tt := range tests {
		if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
		}
	}
}

func TestCell(t *testing.T) {
	row := []any{1, " hello ", 3.5}

	if got := cell(row, 1); got != "hello" {
		t.Errorf("cell(row, 1) = %q, want hello", got)
	}
	if got := cell(row, 7); got != "" {
		t.Errorf("out-of-range cell = %q, want empty", got)
	}
	if got := cell(row, -1); got != "" {
		t.Errorf("negative index cell = %q, want empty", got)
	}
}
