package correlate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/rentrackgo/internal/database"
	"github.com/xelth-com/rentrackgo/internal/models"
	"github.com/xelth-com/rentrackgo/internal/repo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var quarantine = []string{"UNUSED", "NON CURRENT ITEMS"}

func newTestStore(t *testing.T) (*repo.Store, *gorm.DB) {
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

	return repo.NewStore(database.Wrap(gdb)), gdb
}

func seedItem(t *testing.T, db *gorm.DB, item models.TrackedItem) {
	t.Helper()
	require.NoError(t, db.Create(&item).Error)
}

func recordFor(recs []models.CorrelationRecord, itemNum string) *models.CorrelationRecord {
	for i := range recs {
		if recs[i].ItemNum == itemNum {
			return &recs[i]
		}
	}
	return nil
}

func TestRunMatchesKeyAcrossFormatDrift(t *testing.T) {
	store, db := newTestStore(t)

	// POS exports the class as an integer, tracking stored it as a float
	// string. Normalization has to bring both to "1000".
	require.NoError(t, db.Create(&models.EquipmentDefinition{
		ItemNum: "1000", Name: "Pressure Washer 3000psi", Category: "Power Tools",
	}).Error)
	seedItem(t, db, models.TrackedItem{
		TagID: "TAG-A1", RentalClassNum: "1000.0", CommonName: "Pressure Washer",
	})
	seedItem(t, db, models.TrackedItem{
		TagID: "TAG-A2", RentalClassNum: "1000.0", CommonName: "Pressure Washer",
	})

	summary, err := NewMatcher(store, quarantine).Run()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Matched)

	recs, err := store.Correlations.All()
	require.NoError(t, err)
	rec := recordFor(recs, "1000")
	require.NotNil(t, rec)
	assert.Equal(t, "1000", rec.NormalizedKey)
	assert.Equal(t, 2, rec.TagCount)
	assert.Equal(t, ScoreKeyOnly, rec.Confidence)
	assert.Equal(t, models.MatchKeyOnly, rec.MatchType)
	assert.Equal(t, models.ActionReviewMerge, rec.RecommendedAction)
}

func TestRunKeyAndSerialAgreement(t *testing.T) {
	store, db := newTestStore(t)

	require.NoError(t, db.Create(&models.EquipmentDefinition{
		ItemNum: "2000", Name: "Scissor Lift", SerialNo: "SL-4417", Category: "Aerial",
	}).Error)
	seedItem(t, db, models.TrackedItem{
		TagID: "TAG-B1", RentalClassNum: "2000", SerialNumber: "SL-4417",
	})

	_, err := NewMatcher(store, quarantine).Run()
	require.NoError(t, err)

	recs, err := store.Correlations.All()
	require.NoError(t, err)
	rec := recordFor(recs, "2000")
	require.NotNil(t, rec)
	assert.Equal(t, ScoreKeyAndSerial, rec.Confidence)
	assert.Equal(t, models.MatchKeyAndSerial, rec.MatchType)
	assert.Equal(t, models.ActionAutoMerge, rec.RecommendedAction)
}

func TestRunSerialOnlyCandidate(t *testing.T) {
	store, db := newTestStore(t)

	// Definition key matches nothing, but a tracked item carries the
	// same serial under a different class code.
	require.NoError(t, db.Create(&models.EquipmentDefinition{
		ItemNum: "9999", Name: "Trencher", SerialNo: "TR-88", Category: "Earth Moving",
	}).Error)
	seedItem(t, db, models.TrackedItem{
		TagID: "TAG-C1", RentalClassNum: "555", SerialNumber: "TR-88",
	})

	_, err := NewMatcher(store, quarantine).Run()
	require.NoError(t, err)

	recs, err := store.Correlations.All()
	require.NoError(t, err)
	rec := recordFor(recs, "9999")
	require.NotNil(t, rec)
	assert.Equal(t, ScoreSerialOnly, rec.Confidence)
	assert.Equal(t, models.MatchSerialOnly, rec.MatchType)
	assert.Equal(t, models.ActionReviewMerge, rec.RecommendedAction)
}

func TestRunNameHeuristicIsLowConfidence(t *testing.T) {
	store, db := newTestStore(t)

	require.NoError(t, db.Create(&models.EquipmentDefinition{
		ItemNum: "8888", Name: "Extension Ladder 24ft", Category: "Ladders",
	}).Error)
	seedItem(t, db, models.TrackedItem{
		TagID: "TAG-D1", RentalClassNum: "777", CommonName: "extension ladder 24ft",
	})

	summary, err := NewMatcher(store, quarantine).Run()
	require.NoError(t, err)

	// A heuristic candidate is recorded for triage but never counted as
	// a match.
	assert.Equal(t, 0, summary.Matched)
	assert.Equal(t, 1, summary.Records)

	recs, err := store.Correlations.All()
	require.NoError(t, err)
	rec := recordFor(recs, "8888")
	require.NotNil(t, rec)
	assert.Equal(t, ScoreHeuristic, rec.Confidence)
	assert.Equal(t, models.MatchHeuristic, rec.MatchType)
	assert.Equal(t, models.ActionKeepSeparate, rec.RecommendedAction)
}

func TestRunSkipsQuarantinedDefinitions(t *testing.T) {
	store, db := newTestStore(t)

	require.NoError(t, db.Create(&models.EquipmentDefinition{
		ItemNum: "3000", Name: "Retired Compressor", Category: "UNUSED",
	}).Error)
	seedItem(t, db, models.TrackedItem{
		TagID: "TAG-E1", RentalClassNum: "3000",
	})

	summary, err := NewMatcher(store, quarantine).Run()
	require.NoError(t, err)
	assert.Equal(t, 0, summary.EquipmentProcessed)

	recs, err := store.Correlations.All()
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRunReplacesPreviousSnapshot(t *testing.T) {
	store, db := newTestStore(t)

	require.NoError(t, db.Create(&models.EquipmentDefinition{
		ItemNum: "1000", Name: "Pressure Washer", Category: "Power Tools",
	}).Error)
	seedItem(t, db, models.TrackedItem{
		TagID: "TAG-F1", RentalClassNum: "1000",
	})

	m := NewMatcher(store, quarantine)
	first, err := m.Run()
	require.NoError(t, err)
	second, err := m.Run()
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, second.RunID)

	recs, err := store.Correlations.All()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, second.RunID, recs[0].RunID)
}
