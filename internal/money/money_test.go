package money

import (
	"math/big"
	"testing"
)

func TestParse_ValidAmounts(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{"one dollar", "1.00", 100},
		{"fifty cents", "0.50", 50},
		{"hundred", "100", 10_000},
		{"smallest unit", "0.01", 1},
		{"no frac", "1", 100},
		{"short frac", "1.5", 150},
		{"large amount", "999999.99", 99_999_999},
		{"leading zeros in whole", "007.50", 750},
		{"bare fraction", ".50", 50},
		{"surrounding whitespace", " 2.25 ", 225},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			if !ok {
				t.Fatalf("Parse(%q) returned ok=false", tt.input)
			}
			if got.Int64() != tt.expected {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, got.Int64(), tt.expected)
			}
		})
	}
}

func TestParse_InvalidAmounts(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"negative", "-1.00"},
		{"double dot", "1.2.3"},
		{"letters", "abc"},
		{"mixed", "1.2a"},
		{"lone dot", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Parse(tt.input); ok {
				t.Errorf("Parse(%q) returned ok=true, want false", tt.input)
			}
		})
	}
}

func TestParse_EmptyString(t *testing.T) {
	got, ok := Parse("")
	if !ok {
		t.Fatal("Parse(\"\") returned ok=false")
	}
	if got.Sign() != 0 {
		t.Errorf("Parse(\"\") = %s, want 0", got.String())
	}
}

func TestParse_TruncationBeyondTwoDecimals(t *testing.T) {
	got, ok := Parse("1.999")
	if !ok {
		t.Fatal("Parse returned ok=false")
	}
	if got.Int64() != 199 {
		t.Errorf("Parse(\"1.999\") = %d, want 199 (truncated, not rounded)", got.Int64())
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{"zero", 0, "0.00"},
		{"cents only", 5, "0.05"},
		{"one fifty", 150, "1.50"},
		{"large", 123456789, "1234567.89"},
		{"negative", -150, "-1.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(big.NewInt(tt.input)); got != tt.expected {
				t.Errorf("Format(%d) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormat_Nil(t *testing.T) {
	if got := Format(nil); got != "0.00" {
		t.Errorf("Format(nil) = %q, want \"0.00\"", got)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"0.00", "1.50", "2500.00", "999999.99"} {
		v, ok := Parse(s)
		if !ok {
			t.Fatalf("Parse(%q) failed", s)
		}
		if got := Format(v); got != s {
			t.Errorf("Format(Parse(%q)) = %q", s, got)
		}
	}
}

func TestCmp(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.00", "1.00", 0},
		{"1.00", "1", 0},
		{"2.50", "2.49", 1},
		{"0.99", "1.00", -1},
		{"", "0.00", 0},
	}

	for _, tt := range tests {
		if got := Cmp(tt.a, tt.b); got != tt.want {
			t.Errorf("Cmp(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAddSub(t *testing.T) {
	if got := Add("1.25", "0.75"); got != "2.00" {
		t.Errorf("Add = %q, want \"2.00\"", got)
	}
	if got := Sub("2500.00", "100.50"); got != "2399.50" {
		t.Errorf("Sub = %q, want \"2399.50\"", got)
	}
	if got := Sub("1.00", "1.50"); got != "-0.50" {
		t.Errorf("Sub = %q, want \"-0.50\"", got)
	}
}

func TestIsPositive(t *testing.T) {
	if !IsPositive("0.01") {
		t.Error("IsPositive(\"0.01\") = false")
	}
	if IsPositive("0.00") {
		t.Error("IsPositive(\"0.00\") = true")
	}
	if IsPositive("-1") {
		t.Error("IsPositive(\"-1\") = true")
	}
}

func TestFloat(t *testing.T) {
	if got := Float("499.99"); got != 499.99 {
		t.Errorf("Float(\"499.99\") = %v", got)
	}
	if got := Float("garbage"); got != 0 {
		t.Errorf("Float(\"garbage\") = %v, want 0", got)
	}
}
