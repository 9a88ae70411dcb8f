package proposal

import "github.com/stagedoor/proposals/internal/platform/currency"

// FeeRange identifies one talent fee bucket.
type FeeRange string

// Fee range buckets. FeeRangeUnset is the empty selection.
const (
	FeeRangeUnset     FeeRange = ""
	FeeRangeUnder100K FeeRange = "under100k"
	FeeRange100K250K  FeeRange = "100k-250k"
	FeeRange250K500K  FeeRange = "250k-500k"
	FeeRange500K1M    FeeRange = "500k-1m"
	FeeRange1M2M      FeeRange = "1m-2m"
	FeeRange2MPlus    FeeRange = "2m-plus"
)

type feeBounds struct {
	low, high float64
	open      bool
}

var feeRanges = []FeeRange{
	FeeRangeUnder100K,
	FeeRange100K250K,
	FeeRange250K500K,
	FeeRange500K1M,
	FeeRange1M2M,
	FeeRange2MPlus,
}

var feeRangeBounds = map[FeeRange]feeBounds{
	FeeRangeUnder100K: {low: 0, high: 100000},
	FeeRange100K250K:  {low: 100000, high: 250000},
	FeeRange250K500K:  {low: 250000, high: 500000},
	FeeRange500K1M:    {low: 500000, high: 1000000},
	FeeRange1M2M:      {low: 1000000, high: 2000000},
	FeeRange2MPlus:    {low: 2000000, open: true},
}

// FeeRanges returns the selectable buckets in ascending order.
func FeeRanges() []FeeRange {
	out := make([]FeeRange, len(feeRanges))
	copy(out, feeRanges)
	return out
}

// Known reports whether r is one of the fixed buckets.
func (r FeeRange) Known() bool {
	_, ok := feeRangeBounds[r]
	return ok
}

// FeeRangeLabel returns the display label for a bucket. The empty selection
// and unknown ids yield "".
func FeeRangeLabel(r FeeRange) string {
	bounds, ok := feeRangeBounds[r]
	if !ok {
		return ""
	}
	if bounds.open {
		return "Above " + currency.FormatUSDWhole(bounds.low)
	}
	return currency.FormatUSDWhole(bounds.low) + " – " + currency.FormatUSDWhole(bounds.high)
}

// FeeRangeHelper returns the helper text shown under the fee range select.
func FeeRangeHelper(r FeeRange) string {
	label := FeeRangeLabel(r)
	if label == "" {
		return ""
	}
	return "Selected: " + label
}

// FeeRangeOptionLabel is the option text for a bucket in the select input.
func FeeRangeOptionLabel(r FeeRange) string {
	if r == FeeRangeUnder100K {
		return "Under " + currency.FormatUSDWhole(feeRangeBounds[r].high)
	}
	return FeeRangeLabel(r)
}
