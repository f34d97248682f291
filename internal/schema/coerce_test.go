package schema

import (
	"testing"
	"time"
)

func TestParseBool(t *testing.T) {
	truthy := []any{true, 1, 1.0, "1", "true", "TRUE", "True", "yes", "YES", "是", "  true  "}
	for _, v := range truthy {
		if !ParseBool(v) {
			t.Errorf("ParseBool(%v) = false, want true", v)
		}
	}

	falsy := []any{false, 0, 2, "", "no", "否", "truthy", nil, 0.5}
	for _, v := range falsy {
		if ParseBool(v) {
			t.Errorf("ParseBool(%v) = true, want false", v)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"iso date", "2024-03-01", "2024-03-01"},
		{"slash date", "2024/03/01", "2024-03-01"},
		{"short slash date", "2024/3/1", "2024-03-01"},
		{"timestamp", "2024-03-01 08:30:00", "2024-03-01"},
		{"rfc3339 keeps the civil day in the ledger zone", "2024-03-01T20:00:00+08:00", "2024-03-01"},
		{"time value", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), "2024-03-01"},
		{"garbage becomes empty", "yesterday-ish", ""},
		{"empty stays empty", "", ""},
		{"nil becomes empty", nil, ""},
		{"number becomes empty", 44927.0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.in); got != tt.want {
				t.Errorf("NormalizeDate(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeDateCrossesMidnight(t *testing.T) {
	// 23:00 UTC is already the next civil day in the ledger zone.
	in := time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)
	if got := NormalizeDate(in); got != "2024-03-01" {
		t.Errorf("NormalizeDate(%v) = %q, want 2024-03-01", in, got)
	}
}

func TestToNumber(t *testing.T) {
	if n, ok := toNumber("1,234.5"); !ok || n != 1234.5 {
		t.Errorf("toNumber(1,234.5) = %v %v", n, ok)
	}
	if _, ok := toNumber("abc"); ok {
		t.Error("toNumber(abc) should not parse")
	}
	if _, ok := toNumber(""); ok {
		t.Error("toNumber(empty) should not parse")
	}
	if n, ok := toNumber(7); !ok || n != 7 {
		t.Errorf("toNumber(7) = %v %v", n, ok)
	}
}
