package proposal

import (
	"math"
	"strconv"
	"strings"

	"github.com/stagedoor/proposals/internal/platform/currency"
)

// FallbackRate is the KRW to USD rate used until a live rate is fetched.
const FallbackRate = 0.00075

// ParseKRW interprets a typed KRW amount. Every character outside [0-9.] is
// stripped first; anything that still fails to parse counts as zero.
func ParseKRW(raw string) float64 {
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return 0
	}
	value, err := strconv.ParseFloat(digits, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// ComputeUSD converts a typed KRW amount at rate. It always returns a finite
// number.
func ComputeUSD(krw string, rate float64) float64 {
	usd := ParseKRW(krw) * rate
	if math.IsNaN(usd) || math.IsInf(usd, 0) {
		return 0
	}
	return usd
}

// ValidRate reports whether rate can replace the fallback.
func ValidRate(rate float64) bool {
	return !math.IsNaN(rate) && !math.IsInf(rate, 0) && rate > 0
}

// Budget is the derived view of the estimated budget fields.
type Budget struct {
	KRW  float64
	USD  float64
	Rate float64
}

// NewBudget derives the budget view for a typed KRW amount at rate.
func NewBudget(krw string, rate float64) Budget {
	return Budget{
		KRW:  ParseKRW(krw),
		USD:  ComputeUSD(krw, rate),
		Rate: rate,
	}
}

// Display renders the helper line shown under the budget input,
// e.g. "₩1,500,000 · ≈ $1,125.00".
func (b Budget) Display() string {
	return currency.FormatKRW(b.KRW) + " · ≈ " + currency.FormatUSD(b.USD)
}

// USDValue is the rounded whole-dollar amount submitted as
// estimated_budget_usd.
func (b Budget) USDValue() string {
	return strconv.FormatFloat(math.Round(b.USD), 'f', 0, 64)
}
