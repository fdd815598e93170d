package models

import (
	"time"

	"gorm.io/datatypes"
)

// Scan event types emitted by field scanning hardware or UI.
const (
	ScanCheckout    = "checkout"
	ScanCheckin     = "checkin"
	ScanMaintenance = "maintenance"
	ScanInspect     = "inspect"
)

// ScanEvent is one tracking transaction from a field scanner.
type ScanEvent struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TagID       string         `gorm:"type:varchar(255);not null;index" json:"tag_id"`
	ContractNum *string        `gorm:"type:varchar(255);index" json:"contract_num,omitempty"`
	EventType   string         `gorm:"type:varchar(50);not null" json:"event_type"`
	ScanDate    time.Time      `gorm:"not null;index" json:"scan_date"`
	ScannedBy   string         `gorm:"type:varchar(255)" json:"scanned_by"`
	Location    string         `gorm:"type:varchar(255)" json:"location"`
	Notes       string         `gorm:"type:text" json:"notes"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`

	// Sync metadata
	SyncedAt *time.Time `json:"synced_at,omitempty"`
}

// TableName specifies the table name for ScanEvent
func (ScanEvent) TableName() string {
	return "scan_events"
}
