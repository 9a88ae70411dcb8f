package proposal

import (
	"math"
	"testing"
)

func TestComputeUSDNonNumericIsZero(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "abc", "₩", "-", ".", "1.2.3", "..", "won"}
	rates := []float64{FallbackRate, 0.001, 1, 1500}
	for _, input := range inputs {
		for _, rate := range rates {
			if got := ComputeUSD(input, rate); got != 0 {
				t.Fatalf("ComputeUSD(%q, %v) = %v, want 0", input, rate, got)
			}
		}
	}
}

func TestComputeUSDMultipliesByRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		krw  string
		rate float64
		want float64
	}{
		{krw: "0", rate: 0.5, want: 0},
		{krw: "1000", rate: 0.001, want: 1},
		{krw: "1,500,000", rate: 0.00075, want: 1125},
		{krw: "₩ 2,000,000.50", rate: 1, want: 2000000.5},
		{krw: "12345678", rate: 0.00072, want: 12345678 * 0.00072},
	}
	for _, tc := range tests {
		got := ComputeUSD(tc.krw, tc.rate)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("ComputeUSD(%q, %v) = %v, want %v", tc.krw, tc.rate, got, tc.want)
		}
	}
}

func TestComputeUSDAlwaysFinite(t *testing.T) {
	t.Parallel()

	huge := "1"
	for i := 0; i < 400; i++ {
		huge += "0"
	}
	if got := ComputeUSD(huge, 2); math.IsInf(got, 0) || math.IsNaN(got) {
		t.Fatalf("ComputeUSD(huge) = %v, want finite", got)
	}
	if got := ComputeUSD("100", math.Inf(1)); got != 0 {
		t.Fatalf("ComputeUSD(100, +Inf) = %v, want 0", got)
	}
}

func TestBudgetScenario(t *testing.T) {
	t.Parallel()

	budget := NewBudget("1,500,000", 0.00075)
	if budget.KRW != 1500000 {
		t.Fatalf("KRW = %v, want 1500000", budget.KRW)
	}
	if math.Abs(budget.USD-1125) > 1e-9 {
		t.Fatalf("USD = %v, want 1125", budget.USD)
	}
	if got := budget.Display(); got != "₩1,500,000 · ≈ $1,125.00" {
		t.Fatalf("Display() = %q, want %q", got, "₩1,500,000 · ≈ $1,125.00")
	}
	if got := budget.USDValue(); got != "1125" {
		t.Fatalf("USDValue() = %q, want %q", got, "1125")
	}
}

func TestValidRate(t *testing.T) {
	t.Parallel()

	for _, rate := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if ValidRate(rate) {
			t.Fatalf("ValidRate(%v) = true, want false", rate)
		}
	}
	if !ValidRate(0.0007) {
		t.Fatal("ValidRate(0.0007) = false, want true")
	}
}
