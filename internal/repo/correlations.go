package repo

import (
	"github.com/xelth-com/rentrackgo/internal/database"
	"github.com/xelth-com/rentrackgo/internal/models"
)

// CorrelationRepository holds the correlation snapshot. Replace swaps
// the full set atomically so stale correlations never linger.
type CorrelationRepository interface {
	Replace(records []models.CorrelationRecord) error
	All() ([]models.CorrelationRecord, error)
	BelowConfidence(max float64) ([]models.CorrelationRecord, error)
}

type correlationRepo struct {
	db *database.DB
}

func (r *correlationRepo) Replace(records []models.CorrelationRecord) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Where("1 = 1").Delete(&models.CorrelationRecord{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if len(records) > 0 {
		if err := tx.CreateInBatches(records, 500).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}

func (r *correlationRepo) All() ([]models.CorrelationRecord, error) {
	var recs []models.CorrelationRecord
	err := r.db.Order("confidence DESC, normalized_key").Find(&recs).Error
	return recs, err
}

func (r *correlationRepo) BelowConfidence(max float64) ([]models.CorrelationRecord, error) {
	var recs []models.CorrelationRecord
	err := r.db.Where("confidence < ?", max).
		Order("confidence DESC, normalized_key").Find(&recs).Error
	return recs, err
}
