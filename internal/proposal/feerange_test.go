package proposal

import "testing"

func TestFeeRangeLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bucket FeeRange
		want   string
	}{
		{bucket: FeeRangeUnset, want: ""},
		{bucket: FeeRangeUnder100K, want: "$0 – $100,000"},
		{bucket: FeeRange100K250K, want: "$100,000 – $250,000"},
		{bucket: FeeRange250K500K, want: "$250,000 – $500,000"},
		{bucket: FeeRange500K1M, want: "$500,000 – $1,000,000"},
		{bucket: FeeRange1M2M, want: "$1,000,000 – $2,000,000"},
		{bucket: FeeRange2MPlus, want: "Above $2,000,000"},
		{bucket: FeeRange("5m-plus"), want: ""},
	}
	for _, tc := range tests {
		if got := FeeRangeLabel(tc.bucket); got != tc.want {
			t.Fatalf("FeeRangeLabel(%q) = %q, want %q", tc.bucket, got, tc.want)
		}
		if again := FeeRangeLabel(tc.bucket); again != FeeRangeLabel(tc.bucket) {
			t.Fatalf("FeeRangeLabel(%q) not stable", tc.bucket)
		}
	}
}

func TestFeeRangeHelper(t *testing.T) {
	t.Parallel()

	if got := FeeRangeHelper(FeeRange250K500K); got != "Selected: $250,000 – $500,000" {
		t.Fatalf("FeeRangeHelper(250k-500k) = %q", got)
	}
	if got := FeeRangeHelper(FeeRangeUnset); got != "" {
		t.Fatalf("FeeRangeHelper(unset) = %q, want empty", got)
	}
}

func TestFeeRangeOptionLabel(t *testing.T) {
	t.Parallel()

	if got := FeeRangeOptionLabel(FeeRangeUnder100K); got != "Under $100,000" {
		t.Fatalf("FeeRangeOptionLabel(under100k) = %q", got)
	}
	if got := FeeRangeOptionLabel(FeeRange1M2M); got != "$1,000,000 – $2,000,000" {
		t.Fatalf("FeeRangeOptionLabel(1m-2m) = %q", got)
	}
}

func TestFeeRangesAreKnown(t *testing.T) {
	t.Parallel()

	ranges := FeeRanges()
	if len(ranges) != 6 {
		t.Fatalf("len(FeeRanges()) = %d, want 6", len(ranges))
	}
	for _, r := range ranges {
		if !r.Known() {
			t.Fatalf("%q.Known() = false", r)
		}
	}
	if FeeRangeUnset.Known() {
		t.Fatal("unset bucket reported as known")
	}
}
