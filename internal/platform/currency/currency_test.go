package currency

import (
	"math"
	"testing"
)

func TestFormatUSD(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{name: "zero", value: 0, want: "$0.00"},
		{name: "grouped with cents", value: 1125, want: "$1,125.00"},
		{name: "rounds half cents", value: 1234.567, want: "$1,234.57"},
		{name: "millions", value: 2000000, want: "$2,000,000.00"},
		{name: "negative", value: -12.5, want: "-$12.50"},
		{name: "nan", value: math.NaN(), want: "$0.00"},
		{name: "infinity", value: math.Inf(1), want: "$0.00"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatUSD(tc.value); got != tc.want {
				t.Fatalf("FormatUSD(%v) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestFormatUSDWhole(t *testing.T) {
	t.Parallel()

	if got := FormatUSDWhole(0); got != "$0" {
		t.Fatalf("FormatUSDWhole(0) = %q, want %q", got, "$0")
	}
	if got := FormatUSDWhole(250000); got != "$250,000" {
		t.Fatalf("FormatUSDWhole(250000) = %q, want %q", got, "$250,000")
	}
}

func TestFormatKRW(t *testing.T) {
	t.Parallel()

	if got := FormatKRW(1500000); got != "₩1,500,000" {
		t.Fatalf("FormatKRW(1500000) = %q, want %q", got, "₩1,500,000")
	}
	if got := FormatKRW(0); got != "₩0" {
		t.Fatalf("FormatKRW(0) = %q, want %q", got, "₩0")
	}
	if got := FormatKRW(math.Inf(-1)); got != "₩0" {
		t.Fatalf("FormatKRW(-Inf) = %q, want %q", got, "₩0")
	}
}
