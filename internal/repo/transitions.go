package repo

import (
	"github.com/xelth-com/rentrackgo/internal/database"
	"github.com/xelth-com/rentrackgo/internal/models"
)

// TransitionRepository is append-only; transitions are never updated or
// deleted once written.
type TransitionRepository interface {
	Append(tr *models.IdentifierTransition) error
	ForTag(tag string) ([]models.IdentifierTransition, error)
}

type transitionRepo struct {
	db *database.DB
}

func (r *transitionRepo) Append(tr *models.IdentifierTransition) error {
	return r.db.Create(tr).Error
}

func (r *transitionRepo) ForTag(tag string) ([]models.IdentifierTransition, error) {
	var trs []models.IdentifierTransition
	err := r.db.Where("tag_id = ?", tag).Order("created_at, id").Find(&trs).Error
	return trs, err
}
