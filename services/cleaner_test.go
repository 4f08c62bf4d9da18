package services

import "testing"

func TestValidIsraeliID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"123456782", true},
		{"123456789", false},
		{"987654324", true},
		{"987654321", false},
		{" 123456782 ", true},
		{"23456782", false},
		{"000000018", true},
		{"18", true},
		{"1234567820", false},
		{"12345678a", false},
		{"", false},
	}

	for _, tt := range tests {
		got := ValidIsraeliID(tt.id)
		if got != tt.want {
			t.Errorf("ValidIsraeliID(%q) = %v; want %v", tt.id, got, tt.want)
		}
	}
}

// Every 9-digit ID with a computed check digit must validate, and every
// other last digit must not.
func TestValidIsraeliIDCheckDigit(t *testing.T) {
	prefixes := []string{"00000000", "12345678", "31415926", "99999999", "20202020"}
	for _, p := range prefixes {
		sum := 0
		for i := 0; i < 8; i++ {
			v := int(p[i]-'0') * (i%2 + 1)
			if v > 9 {
				v -= 9
			}
			sum += v
		}
		check := (10 - sum%10) % 10
		for d := 0; d <= 9; d++ {
			id := p + string(rune('0'+d))
			if got, want := ValidIsraeliID(id), d == check; got != want {
				t.Errorf("ValidIsraeliID(%q) = %v; want %v", id, got, want)
			}
		}
	}
}

func TestCleanPhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"050-1234567", "0501234567"},
		{"+972-50-123-4567", "0501234567"},
		{"(03) 123 4567", "031234567"},
		{"972521234567", "0521234567"},
		{"", ""},
	}

	for _, tt := range tests {
		got := CleanPhone(tt.raw)
		if got != tt.want {
			t.Errorf("CleanPhone(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestValidIsraeliPhone(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"0501234567", true},
		{"050-123-4567", true},
		{"(03) 1234567", true},
		{"031234567", true},
		{"0123456789", false},
		{"+972501234567", false},
		{"05012345", false},
		{"", false},
	}

	for _, tt := range tests {
		got := ValidIsraeliPhone(tt.raw)
		if got != tt.want {
			t.Errorf("ValidIsraeliPhone(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}

func TestCleanID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{" 12345678 ", "012345678"},
		{"123456782", "123456782"},
		{"18", "000000018"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		got := CleanID(tt.raw)
		if got != tt.want {
			t.Errorf("CleanID(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"  ישראל   ישראלי ", "ישראל ישראלי"},
		{"משה\tכהן", "משה כהן"},
		{"", ""},
	}

	for _, tt := range tests {
		got := CleanName(tt.raw)
		if got != tt.want {
			t.Errorf("CleanName(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		raw  any
		want float64
	}{
		{"2,500,000 ₪", 2500000},
		{"₪ 1,250,000.50", 1250000.50},
		{2500000.0, 2500000},
		{1800000, 1800000},
		{"", 0},
		{"free", 0},
		{"1.2.3", 0},
		{nil, 0},
	}

	for _, tt := range tests {
		got := CleanPrice(tt.raw)
		if got != tt.want {
			t.Errorf("CleanPrice(%v) = %.2f; want %.2f", tt.raw, got, tt.want)
		}
	}
}

func TestFieldPredicates(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) bool
		in   string
		want bool
	}{
		{"email", ValidEmail, "moshe@example.com", true},
		{"email", ValidEmail, "moshe@example", false},
		{"date", ValidDate, "2026-03-01", true},
		{"date", ValidDate, "2026-02-30", false},
		{"date", ValidDate, "01/03/2026", false},
		{"block", ValidBlockNumber, "6123", true},
		{"block", ValidBlockNumber, "1234567", false},
		{"parcel", ValidParcelNumber, " 456 ", true},
		{"parcel", ValidParcelNumber, "45a", false},
		{"sub_parcel", ValidSubParcel, "8", true},
		{"sub_parcel", ValidSubParcel, "12345", false},
		{"hebrew", HasHebrew, "Moshe כהן", true},
		{"hebrew", HasHebrew, "Moshe Cohen", false},
	}

	for _, tt := range tests {
		got := tt.fn(tt.in)
		if got != tt.want {
			t.Errorf("%s(%q) = %v; want %v", tt.name, tt.in, got, tt.want)
		}
	}
}
