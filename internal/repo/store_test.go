package repo

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/rentrackgo/internal/database"
	"github.com/xelth-com/rentrackgo/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&models.TrackedItem{},
		&models.EquipmentDefinition{},
		&models.CorrelationRecord{},
		&models.IdentifierTransition{},
	))

	return NewStore(database.Wrap(gdb))
}

func TestReplaceSwapsWholeSnapshot(t *testing.T) {
	store := newTestStore(t)

	first := []models.CorrelationRecord{
		{RunID: "run-1", NormalizedKey: "1000", ItemNum: "1000", Confidence: 0.95},
		{RunID: "run-1", NormalizedKey: "2000", ItemNum: "2000", Confidence: 0.80},
	}
	require.NoError(t, store.Correlations.Replace(first))

	second := []models.CorrelationRecord{
		{RunID: "run-2", NormalizedKey: "3000", ItemNum: "3000", Confidence: 0.75},
	}
	require.NoError(t, store.Correlations.Replace(second))

	recs, err := store.Correlations.All()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "run-2", recs[0].RunID)
	assert.Equal(t, "3000", recs[0].NormalizedKey)

	// Replacing with nothing leaves an empty snapshot, not the old one.
	require.NoError(t, store.Correlations.Replace(nil))
	recs, err = store.Correlations.All()
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestBelowConfidenceFiltersAndOrders(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Correlations.Replace([]models.CorrelationRecord{
		{NormalizedKey: "a", Confidence: 0.95},
		{NormalizedKey: "b", Confidence: 0.80},
		{NormalizedKey: "c", Confidence: 0.50},
	}))

	recs, err := store.Correlations.BelowConfidence(0.90)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].NormalizedKey)
	assert.Equal(t, "c", recs[1].NormalizedKey)
}

func TestApplyCategoryChanges(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.db.Create(&models.TrackedItem{
		TagID:          "TAG-1",
		IdentifierType: models.IdentifierNone,
	}).Error)

	changes := []CategoryChange{{
		TagID:   "TAG-1",
		OldType: models.IdentifierNone,
		NewType: models.IdentifierRFID,
		Reason:  "RFID correlation: rental class 1000 matched active equipment",
	}}
	require.NoError(t, store.Items.ApplyCategoryChanges(changes))

	item, err := store.Items.ByTag("TAG-1")
	require.NoError(t, err)
	assert.Equal(t, models.IdentifierRFID, item.IdentifierType)

	trs, err := store.Transitions.ForTag("TAG-1")
	require.NoError(t, err)
	require.Len(t, trs, 1)
	assert.Equal(t, models.IdentifierNone, trs[0].OldType)
	assert.Equal(t, models.IdentifierRFID, trs[0].NewType)
	assert.NotEmpty(t, trs[0].Reason)

	// An empty batch writes nothing.
	require.NoError(t, store.Items.ApplyCategoryChanges(nil))
	trs, err = store.Transitions.ForTag("TAG-1")
	require.NoError(t, err)
	assert.Len(t, trs, 1)
}

func TestTransitionHistoryOrder(t *testing.T) {
	store := newTestStore(t)

	for _, step := range []struct{ from, to string }{
		{models.IdentifierNone, models.IdentifierSticker},
		{models.IdentifierSticker, models.IdentifierRFID},
	} {
		require.NoError(t, store.Transitions.Append(&models.IdentifierTransition{
			TagID:   "TAG-9",
			OldType: step.from,
			NewType: step.to,
			Reason:  "test step",
		}))
	}

	trs, err := store.Transitions.ForTag("TAG-9")
	require.NoError(t, err)
	require.Len(t, trs, 2)
	assert.Equal(t, models.IdentifierSticker, trs[0].NewType)
	assert.Equal(t, models.IdentifierRFID, trs[1].NewType)
}

func TestActiveExcludesQuarantine(t *testing.T) {
	store := newTestStore(t)
	quarantine := []string{"UNUSED", "NON CURRENT ITEMS"}

	defs := []models.EquipmentDefinition{
		{ItemNum: "1000", Name: "Pressure Washer", Category: "Power Tools"},
		{ItemNum: "2000", Name: "Old Mixer", Category: "unused"},
		{ItemNum: "3000", Name: "Broken Lift", Category: "Power Tools", Inactive: true},
		{ItemNum: "4000", Name: "Flagged Saw", Category: "Power Tools", Quarantined: true},
	}
	for i := range defs {
		require.NoError(t, store.db.Create(&defs[i]).Error)
	}

	active, err := store.Equipment.Active(quarantine)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "1000", active[0].ItemNum)
}

func TestMarkQuarantined(t *testing.T) {
	store := newTestStore(t)
	quarantine := []string{"UNUSED"}

	defs := []models.EquipmentDefinition{
		{ItemNum: "1000", Category: "Power Tools"},
		{ItemNum: "2000", Category: "Unused"},
		{ItemNum: "3000", Category: "UNUSED", Quarantined: true},
	}
	for i := range defs {
		require.NoError(t, store.db.Create(&defs[i]).Error)
	}

	marked, err := store.Equipment.MarkQuarantined(quarantine)
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)

	def, err := store.Equipment.ByItemNum("2000")
	require.NoError(t, err)
	assert.True(t, def.Quarantined)

	def, err = store.Equipment.ByItemNum("1000")
	require.NoError(t, err)
	assert.False(t, def.Quarantined)
}
