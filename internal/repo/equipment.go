package repo

import (
	"strings"

	"github.com/xelth-com/rentrackgo/internal/database"
	"github.com/xelth-com/rentrackgo/internal/models"
)

// EquipmentRepository provides read access to POS equipment definitions
type EquipmentRepository interface {
	// Active returns definitions eligible for matching: not inactive,
	// not quarantine-marked, and not in a deny-listed category.
	Active(quarantineCategories []string) ([]models.EquipmentDefinition, error)
	ByItemNum(num string) (*models.EquipmentDefinition, error)
	MarkQuarantined(quarantineCategories []string) (int64, error)
}

type equipmentRepo struct {
	db *database.DB
}

func (r *equipmentRepo) Active(quarantineCategories []string) ([]models.EquipmentDefinition, error) {
	q := r.db.Where("inactive = ?", false).Where("quarantined = ?", false)
	if len(quarantineCategories) > 0 {
		q = q.Where("LOWER(category) NOT IN ?", lowerAll(quarantineCategories))
	}

	var defs []models.EquipmentDefinition
	err := q.Order("item_num").Find(&defs).Error
	return defs, err
}

func (r *equipmentRepo) ByItemNum(num string) (*models.EquipmentDefinition, error) {
	var def models.EquipmentDefinition
	if err := r.db.Where("item_num = ?", num).First(&def).Error; err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *equipmentRepo) MarkQuarantined(quarantineCategories []string) (int64, error) {
	if len(quarantineCategories) == 0 {
		return 0, nil
	}
	res := r.db.Model(&models.EquipmentDefinition{}).
		Where("LOWER(category) IN ?", lowerAll(quarantineCategories)).
		Where("quarantined = ?", false).
		Update("quarantined", true)
	return res.RowsAffected, res.Error
}

func lowerAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}
