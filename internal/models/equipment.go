package models

import (
	"time"

	"gorm.io/datatypes"
)

// EquipmentDefinition is one POS-side catalog entry for a rentable
// equipment type. Owned by the POS ingestion pipeline; this engine only
// reads it, apart from quarantine marking.
type EquipmentDefinition struct {
	ItemNum      string         `gorm:"primaryKey;type:varchar(50)" json:"item_num"`
	KeyField     string         `gorm:"type:varchar(255);index" json:"key_field"`
	Name         string         `gorm:"type:varchar(255)" json:"name"`
	Category     string         `gorm:"type:varchar(100);index" json:"category"`
	Department   string         `gorm:"type:varchar(100)" json:"department"`
	Manufacturer string         `gorm:"type:varchar(100)" json:"manufacturer"`
	SerialNo     string         `gorm:"type:varchar(255)" json:"serial_no"`
	Inactive     bool           `gorm:"default:false" json:"inactive"`
	Quarantined  bool           `gorm:"default:false" json:"quarantined"`
	Quantity     int            `gorm:"default:0" json:"quantity"`
	SellPrice    float64        `json:"sell_price"`
	RetailPrice  float64        `json:"retail_price"`
	RepairCost   float64        `json:"repair_cost"`
	TurnoverYTD  float64        `json:"turnover_ytd"`
	TurnoverLTD  float64        `json:"turnover_ltd"`
	RateSchedule datatypes.JSON `json:"rate_schedule,omitempty"`
	VendorNo     string         `gorm:"type:varchar(50)" json:"vendor_no"`
	WriteDate    time.Time      `gorm:"index" json:"write_date"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TableName specifies the table name for EquipmentDefinition
func (EquipmentDefinition) TableName() string {
	return "equipment_definitions"
}
