package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/rentrackgo/internal/config"
	"github.com/xelth-com/rentrackgo/internal/database"
	"github.com/xelth-com/rentrackgo/internal/models"
	syncsvc "github.com/xelth-com/rentrackgo/internal/sync"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSyncTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(&models.TrackedItem{}, &models.ScanEvent{}))
	return database.Wrap(gdb)
}

// Two stores wired back to back: the sender's coordinator pushes at the
// receiver's real router, so the push paths and the registered receiver
// routes can never drift apart unnoticed.
func TestSyncPushRoundTrip(t *testing.T) {
	receiverDB := newSyncTestDB(t, "receiver")
	senderDB := newSyncTestDB(t, "sender")

	cfg := &config.Config{
		JWTSecret: "test-secret",
		Sync:      config.SyncConfig{APIKey: "shared-key"},
	}
	srv := httptest.NewServer(NewRouter(receiverDB, cfg, Deps{}))
	defer srv.Close()

	coord := syncsvc.NewCoordinator(senderDB, config.SyncConfig{
		Enabled:        true,
		CounterpartURL: srv.URL,
		APIKey:         "shared-key",
		TimeoutSeconds: 2,
	})

	item := models.TrackedItem{TagID: "TAG-1", CommonName: "Pressure Washer"}
	require.NoError(t, senderDB.Create(&item).Error)
	coord.PushItem(&item)

	require.Eventually(t, func() bool {
		var n int64
		receiverDB.Model(&models.TrackedItem{}).Where("tag_id = ?", "TAG-1").Count(&n)
		if n != 1 {
			return false
		}
		var fresh models.TrackedItem
		if err := senderDB.Where("tag_id = ?", "TAG-1").First(&fresh).Error; err != nil {
			return false
		}
		return fresh.SyncedAt != nil
	}, 3*time.Second, 25*time.Millisecond, "item push never reached the receiver")

	event := models.ScanEvent{ID: "evt-1", TagID: "TAG-1", EventType: models.ScanCheckout, ScanDate: time.Now().UTC()}
	require.NoError(t, senderDB.Create(&event).Error)
	coord.PushScanEvent(&event)

	require.Eventually(t, func() bool {
		var n int64
		receiverDB.Model(&models.ScanEvent{}).Where("id = ?", "evt-1").Count(&n)
		if n != 1 {
			return false
		}
		var fresh models.ScanEvent
		if err := senderDB.Where("id = ?", "evt-1").First(&fresh).Error; err != nil {
			return false
		}
		return fresh.SyncedAt != nil
	}, 3*time.Second, 25*time.Millisecond, "scan push never reached the receiver")
}

func TestSyncPushRejectsWrongKey(t *testing.T) {
	db := newSyncTestDB(t, "receiver")

	cfg := &config.Config{
		JWTSecret: "test-secret",
		Sync:      config.SyncConfig{APIKey: "shared-key"},
	}
	srv := httptest.NewServer(NewRouter(db, cfg, Deps{}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/sync/items", strings.NewReader(`{"tag_id":"TAG-1"}`))
	require.NoError(t, err)
	req.Header.Set("X-API-Key", "wrong")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var n int64
	db.Model(&models.TrackedItem{}).Count(&n)
	assert.Zero(t, n)
}
