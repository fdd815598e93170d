package sync

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/rentrackgo/internal/database"
	"github.com/xelth-com/rentrackgo/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(&models.TrackedItem{}, &models.ScanEvent{}))
	return database.Wrap(gdb)
}

func newTestCoordinator(db *database.DB, baseURL string) *Coordinator {
	return &Coordinator{
		db:      db,
		client:  NewHTTPClient(2 * time.Second),
		baseURL: baseURL,
		apiKey:  "test-key",
		enabled: true,
	}
}

func TestPushItemStampsSyncedAt(t *testing.T) {
	db := newTestDB(t)

	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	item := models.TrackedItem{TagID: "TAG-1", CommonName: "Pressure Washer"}
	require.NoError(t, db.Create(&item).Error)

	c := newTestCoordinator(db, srv.URL)
	require.NoError(t, c.pushItemNow(&item))

	assert.Equal(t, "/api/sync/items", gotPath)
	assert.Equal(t, "test-key", gotKey)

	var fresh models.TrackedItem
	require.NoError(t, db.Where("tag_id = ?", "TAG-1").First(&fresh).Error)
	require.NotNil(t, fresh.SyncedAt)
}

func TestPushFailureLeavesLocalRowUnstamped(t *testing.T) {
	db := newTestDB(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	item := models.TrackedItem{TagID: "TAG-1"}
	require.NoError(t, db.Create(&item).Error)

	c := newTestCoordinator(db, srv.URL)
	require.Error(t, c.pushItemNow(&item))

	var fresh models.TrackedItem
	require.NoError(t, db.Where("tag_id = ?", "TAG-1").First(&fresh).Error)
	assert.Nil(t, fresh.SyncedAt)
}

func TestPushScanStampsSyncedAt(t *testing.T) {
	db := newTestDB(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sync/scans", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	event := models.ScanEvent{ID: "evt-1", TagID: "TAG-1", EventType: models.ScanCheckout, ScanDate: time.Now()}
	require.NoError(t, db.Create(&event).Error)

	c := newTestCoordinator(db, srv.URL)
	require.NoError(t, c.pushScanNow(&event))

	var fresh models.ScanEvent
	require.NoError(t, db.Where("id = ?", "evt-1").First(&fresh).Error)
	require.NotNil(t, fresh.SyncedAt)
}

func TestDisabledCoordinatorNeverPushes(t *testing.T) {
	db := newTestDB(t)

	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer srv.Close()

	c := newTestCoordinator(db, srv.URL)
	c.enabled = false

	item := models.TrackedItem{TagID: "TAG-1"}
	require.NoError(t, db.Create(&item).Error)
	c.PushItem(&item)
	c.PushScanEvent(&models.ScanEvent{ID: "evt-1"})

	time.Sleep(100 * time.Millisecond)
	assert.False(t, hit)
}

func TestHealth(t *testing.T) {
	db := newTestDB(t)

	now := time.Now().UTC()
	old := now.Add(-48 * time.Hour)

	require.NoError(t, db.Create(&models.TrackedItem{TagID: "TAG-1", SyncedAt: &now}).Error)
	require.NoError(t, db.Create(&models.TrackedItem{TagID: "TAG-2", SyncedAt: &old}).Error)
	require.NoError(t, db.Create(&models.TrackedItem{TagID: "TAG-3"}).Error)
	require.NoError(t, db.Create(&models.ScanEvent{ID: "evt-1", TagID: "TAG-1", ScanDate: now}).Error)

	c := newTestCoordinator(db, "http://unused")
	classes, err := c.Health()
	require.NoError(t, err)
	require.Len(t, classes, 2)

	items := classes[0]
	assert.Equal(t, ClassItems, items.DataClass)
	require.NotNil(t, items.LastSyncedAt)
	assert.WithinDuration(t, now, *items.LastSyncedAt, time.Second)
	assert.Equal(t, int64(1), items.SyncedToday)

	scans := classes[1]
	assert.Equal(t, ClassScanEvents, scans.DataClass)
	assert.Nil(t, scans.LastSyncedAt)
	assert.Zero(t, scans.SyncedToday)
}
