package correlate

import (
	"testing"

	"github.com/xelth-com/rentrackgo/internal/models"
)

func TestScore(t *testing.T) {
	testCases := []struct {
		keyMatch    bool
		serialMatch bool
		want        float64
	}{
		{true, true, 0.95},
		{true, false, 0.80},
		{false, true, 0.75},
		{false, false, 0.50},
	}

	for _, tc := range testCases {
		got := Score(tc.keyMatch, tc.serialMatch)
		if got != tc.want {
			t.Errorf("Score(key=%v, serial=%v) = %.2f, want %.2f", tc.keyMatch, tc.serialMatch, got, tc.want)
		}
		if got < 0 || got > 1 {
			t.Errorf("Score(key=%v, serial=%v) = %.2f out of [0,1]", tc.keyMatch, tc.serialMatch, got)
		}
	}
}

func TestActionFor(t *testing.T) {
	testCases := []struct {
		confidence float64
		want       string
	}{
		{0.95, models.ActionAutoMerge},
		{0.90, models.ActionAutoMerge},
		{0.89, models.ActionReviewMerge},
		{0.80, models.ActionReviewMerge},
		{0.75, models.ActionReviewMerge},
		{0.74, models.ActionManualReview},
		{0.60, models.ActionManualReview},
		{0.59, models.ActionKeepSeparate},
		{0.50, models.ActionKeepSeparate},
		{0.0, models.ActionKeepSeparate},
	}

	for _, tc := range testCases {
		if got := ActionFor(tc.confidence); got != tc.want {
			t.Errorf("ActionFor(%.2f) = %s, want %s", tc.confidence, got, tc.want)
		}
	}
}

func TestActionIsPureFunctionOfScore(t *testing.T) {
	// The recommended action for every score the scorer can emit must be
	// stable across calls.
	for _, key := range []bool{true, false} {
		for _, serial := range []bool{true, false} {
			s := Score(key, serial)
			first := ActionFor(s)
			for i := 0; i < 3; i++ {
				if got := ActionFor(s); got != first {
					t.Fatalf("ActionFor(%.2f) unstable: %s then %s", s, first, got)
				}
			}
		}
	}
}
