package models

import (
	"time"

	"gorm.io/datatypes"
)

// Recommended actions derived from a correlation confidence score.
const (
	ActionAutoMerge    = "AUTO_MERGE"
	ActionReviewMerge  = "REVIEW_MERGE"
	ActionManualReview = "MANUAL_REVIEW"
	ActionKeepSeparate = "KEEP_SEPARATE"
)

// Match types recorded on a CorrelationRecord.
const (
	MatchKeyAndSerial = "key_and_serial"
	MatchKeyOnly      = "key_only"
	MatchSerialOnly   = "serial_only"
	MatchHeuristic    = "heuristic"
)

// CorrelationRecord is a candidate or confirmed pairing between one
// EquipmentDefinition and one TrackedItem population, grouped by
// normalized rental-class code. The whole table is replaced on each
// matcher run; rows are never partially updated.
type CorrelationRecord struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	RunID             string         `gorm:"type:varchar(36);index" json:"run_id"`
	NormalizedKey     string         `gorm:"type:varchar(255);index" json:"normalized_key"`
	ItemNum           string         `gorm:"type:varchar(50);index" json:"item_num"`
	EquipmentName     string         `gorm:"type:varchar(255)" json:"equipment_name"`
	TrackedName       string         `gorm:"type:varchar(255)" json:"tracked_name"`
	TagCount          int            `gorm:"default:0" json:"tag_count"`
	Confidence        float64        `json:"confidence"`
	MatchType         string         `gorm:"type:varchar(50)" json:"match_type"`
	RecommendedAction string         `gorm:"type:varchar(50);index" json:"recommended_action"`
	Detail            datatypes.JSON `json:"detail,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// TableName specifies the table name for CorrelationRecord
func (CorrelationRecord) TableName() string {
	return "equipment_correlations"
}
