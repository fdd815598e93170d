package repo

import (
	"fmt"
	"time"

	"github.com/xelth-com/rentrackgo/internal/database"
	"github.com/xelth-com/rentrackgo/internal/models"
)

// ItemKeyRow is the projection of a TrackedItem the matcher and
// classifier need when walking the whole population.
type ItemKeyRow struct {
	TagID          string
	RentalClassNum string
	SerialNumber   string
	CommonName     string
	IdentifierType string
}

// CategoryChange is one item's pending identifier-category update plus
// the audit reason. Applied batches are atomic: the item update and its
// transition row commit together or not at all.
type CategoryChange struct {
	TagID   string
	OldType string
	NewType string
	Reason  string
}

// ItemRepository provides access to tracked items
type ItemRepository interface {
	ByTag(tag string) (*models.TrackedItem, error)
	Count() (int64, error)
	Batch(offset, limit int) ([]models.TrackedItem, error)
	ModifiedSince(t time.Time) ([]models.TrackedItem, error)
	KeyRows() ([]ItemKeyRow, error)
	ApplyCategoryChanges(changes []CategoryChange) error
}

type itemRepo struct {
	db *database.DB
}

func (r *itemRepo) ByTag(tag string) (*models.TrackedItem, error) {
	var item models.TrackedItem
	if err := r.db.Where("tag_id = ?", tag).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.TrackedItem{}).Count(&n).Error
	return n, err
}

func (r *itemRepo) Batch(offset, limit int) ([]models.TrackedItem, error) {
	var items []models.TrackedItem
	err := r.db.Order("tag_id").Offset(offset).Limit(limit).Find(&items).Error
	return items, err
}

func (r *itemRepo) ModifiedSince(t time.Time) ([]models.TrackedItem, error) {
	var items []models.TrackedItem
	err := r.db.Where("updated_at >= ?", t).Order("tag_id").Find(&items).Error
	return items, err
}

func (r *itemRepo) KeyRows() ([]ItemKeyRow, error) {
	var rows []ItemKeyRow
	err := r.db.Model(&models.TrackedItem{}).
		Select("tag_id", "rental_class_num", "serial_number", "common_name", "identifier_type").
		Find(&rows).Error
	return rows, err
}

func (r *itemRepo) ApplyCategoryChanges(changes []CategoryChange) error {
	if len(changes) == 0 {
		return nil
	}

	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	for _, ch := range changes {
		res := tx.Model(&models.TrackedItem{}).
			Where("tag_id = ?", ch.TagID).
			Update("identifier_type", ch.NewType)
		if res.Error != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update item %s: %w", ch.TagID, res.Error)
		}

		transition := models.IdentifierTransition{
			TagID:   ch.TagID,
			OldType: ch.OldType,
			NewType: ch.NewType,
			Reason:  ch.Reason,
		}
		if err := tx.Create(&transition).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record transition for %s: %w", ch.TagID, err)
		}
	}

	return tx.Commit().Error
}
