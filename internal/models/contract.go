package models

import "time"

// Contract statuses. A manual contract starts as Draft and becomes
// Merged once reconciled with the canonical POS record.
const (
	ContractStatusDraft  = "draft"
	ContractStatusMerged = "merged"
	ContractStatusClosed = "closed"
)

// Contract is a rental agreement. A manual contract is created by field
// operations before the POS feed has produced the canonical record; it
// carries is_manual=true and a non-null temp id until reconciliation
// rewrites every dependent reference to the canonical contract number.
type Contract struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ContractNum string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"contract_num"`
	CustomerNum string     `gorm:"type:varchar(50)" json:"customer_num"`
	StoreNum    string     `gorm:"type:varchar(10)" json:"store_num"`
	Status      string     `gorm:"type:varchar(50);default:'draft'" json:"status"`
	IsManual    bool       `gorm:"default:false;index" json:"is_manual"`
	TempID      *string    `gorm:"type:varchar(255);uniqueIndex" json:"temp_id,omitempty"`
	MergedAt    *time.Time `json:"merged_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Lines []ContractLine `gorm:"foreignKey:ContractNum;references:ContractNum" json:"lines,omitempty"`
}

// TableName specifies the table name for Contract
func (Contract) TableName() string {
	return "contracts"
}

// ContractLine is one equipment line item on a contract.
type ContractLine struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ContractNum   string    `gorm:"type:varchar(255);not null;index" json:"contract_num"`
	ItemNum       string    `gorm:"type:varchar(50);not null" json:"item_num"`
	Description   string    `gorm:"type:varchar(255)" json:"description"`
	Qty           int       `gorm:"default:0" json:"qty"`
	QtyCheckedOut int       `gorm:"default:0" json:"qty_checked_out"`
	QtyReturned   int       `gorm:"default:0" json:"qty_returned"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for ContractLine
func (ContractLine) TableName() string {
	return "contract_lines"
}
