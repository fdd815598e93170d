package correlate

import "github.com/xelth-com/rentrackgo/internal/models"

// Confidence policy constants. The values were lifted from the business
// rules of the legacy importer; confirm with operations before changing
// them, do not re-derive.
const (
	ScoreKeyAndSerial = 0.95
	ScoreKeyOnly      = 0.80
	ScoreSerialOnly   = 0.75
	ScoreHeuristic    = 0.50

	ThresholdAutoMerge    = 0.90
	ThresholdReviewMerge  = 0.75
	ThresholdManualReview = 0.60
)

// Score computes the confidence for a candidate pairing from the two
// pieces of evidence the matcher can observe. Always in [0,1].
func Score(keyMatch, serialMatch bool) float64 {
	switch {
	case keyMatch && serialMatch:
		return ScoreKeyAndSerial
	case keyMatch:
		return ScoreKeyOnly
	case serialMatch:
		return ScoreSerialOnly
	default:
		return ScoreHeuristic
	}
}

// ActionFor maps a confidence score to the recommended disposition.
// Pure function of the score.
func ActionFor(confidence float64) string {
	switch {
	case confidence >= ThresholdAutoMerge:
		return models.ActionAutoMerge
	case confidence >= ThresholdReviewMerge:
		return models.ActionReviewMerge
	case confidence >= ThresholdManualReview:
		return models.ActionManualReview
	default:
		return models.ActionKeepSeparate
	}
}

// MatchTypeFor names the evidence combination that produced a score
func MatchTypeFor(keyMatch, serialMatch bool) string {
	switch {
	case keyMatch && serialMatch:
		return models.MatchKeyAndSerial
	case keyMatch:
		return models.MatchKeyOnly
	case serialMatch:
		return models.MatchSerialOnly
	default:
		return models.MatchHeuristic
	}
}
