// Package repo provides one repository interface per entity plus GORM
// implementations, so the engine's services depend on capabilities
// rather than on the ORM directly.
package repo

import (
	"github.com/xelth-com/rentrackgo/internal/database"
)

// Store bundles the GORM-backed repositories over a single database.
type Store struct {
	db *database.DB

	Items        ItemRepository
	Equipment    EquipmentRepository
	Correlations CorrelationRepository
	Transitions  TransitionRepository
}

// NewStore builds repositories over the given database connection
func NewStore(db *database.DB) *Store {
	return &Store{
		db:           db,
		Items:        &itemRepo{db: db},
		Equipment:    &equipmentRepo{db: db},
		Correlations: &correlationRepo{db: db},
		Transitions:  &transitionRepo{db: db},
	}
}
