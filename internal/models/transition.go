package models

import "time"

// IdentifierTransition is an append-only audit record of a TrackedItem
// category change. Rows are never updated or deleted.
type IdentifierTransition struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TagID     string    `gorm:"type:varchar(255);not null;index" json:"tag_id"`
	OldType   string    `gorm:"type:varchar(50)" json:"old_type"`
	NewType   string    `gorm:"type:varchar(50)" json:"new_type"`
	Reason    string    `gorm:"type:text" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for IdentifierTransition
func (IdentifierTransition) TableName() string {
	return "identifier_transitions"
}
