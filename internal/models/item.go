package models

import (
	"time"
)

// Identifier categories for a TrackedItem. Exactly one holds at any time.
const (
	IdentifierRFID    = "RFID"
	IdentifierSticker = "Sticker"
	IdentifierBulk    = "Bulk"
	IdentifierQR      = "QR"
	IdentifierNone    = "None"
)

// TrackedItem represents one physical asset under tag-level tracking.
// Owned by the tracking subsystem; mutated by scan events, classification
// runs and contract reconciliation.
type TrackedItem struct {
	TagID           string     `gorm:"primaryKey;type:varchar(255)" json:"tag_id"`
	SerialNumber    string     `gorm:"type:varchar(255)" json:"serial_number"`
	RentalClassNum  string     `gorm:"type:varchar(255);index" json:"rental_class_num"`
	CommonName      string     `gorm:"type:varchar(255)" json:"common_name"`
	IdentifierType  string     `gorm:"type:varchar(50);default:'None';index" json:"identifier_type"`
	Status          string     `gorm:"type:varchar(50);default:'Ready to Rent'" json:"status"`
	Quality         string     `gorm:"type:varchar(50)" json:"quality"`
	BinLocation     string     `gorm:"type:varchar(255)" json:"bin_location"`
	CurrentStore    string     `gorm:"type:varchar(10)" json:"current_store"`
	HomeStore       string     `gorm:"type:varchar(10)" json:"home_store"`
	ClientName      string     `gorm:"type:varchar(255)" json:"client_name"`
	LastContractNum *string    `gorm:"type:varchar(255);index" json:"last_contract_num,omitempty"`
	LastScannedBy   string     `gorm:"type:varchar(255)" json:"last_scanned_by"`
	DateLastScanned *time.Time `json:"date_last_scanned,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
	Latitude        *float64   `json:"latitude,omitempty"`
	Notes           string     `gorm:"type:text" json:"notes"`
	StatusNotes     string     `gorm:"type:text" json:"status_notes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Sync metadata
	SyncedAt *time.Time `json:"synced_at,omitempty"`
}

// TableName specifies the table name for TrackedItem
func (TrackedItem) TableName() string {
	return "tracked_items"
}
