// Package sync keeps the field-facing operational store and the system
// of record converged. Every locally significant event is pushed
// forward immediately, best effort; the local write always stands.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/xelth-com/rentrackgo/internal/config"
	"github.com/xelth-com/rentrackgo/internal/database"
	"github.com/xelth-com/rentrackgo/internal/models"
)

// Data classes tracked by the health probe
const (
	ClassItems      = "items"
	ClassScanEvents = "scan_events"
)

// Coordinator pushes item updates and scan events to the counterpart
// store. Pushes are fire-and-forget with a bounded timeout; a failed
// push is retried by the next natural event for that record, never by
// an internal retry loop.
type Coordinator struct {
	db      *database.DB
	client  *http.Client
	baseURL string
	apiKey  string
	enabled bool
}

// NewCoordinator builds a coordinator from config
func NewCoordinator(db *database.DB, cfg config.SyncConfig) *Coordinator {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Coordinator{
		db:      db,
		client:  NewHTTPClient(timeout),
		baseURL: cfg.CounterpartURL,
		apiKey:  cfg.APIKey,
		enabled: cfg.Enabled && cfg.CounterpartURL != "",
	}
}

// NewHTTPClient creates an IPv4-only HTTP client with a bounded timeout
func NewHTTPClient(timeout time.Duration) *http.Client {
	ipv4Dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return ipv4Dialer.DialContext(ctx, "tcp4", addr)
			},
			MaxIdleConns:       100,
			IdleConnTimeout:    90 * time.Second,
			DisableCompression: true,
		},
	}
}

// Enabled reports whether pushes are configured
func (c *Coordinator) Enabled() bool {
	return c.enabled
}

// PushItem pushes one item update to the counterpart store in the
// background. The local write is already durable; failure is logged only.
func (c *Coordinator) PushItem(item *models.TrackedItem) {
	if !c.enabled || item == nil {
		return
	}
	payload := *item
	go c.pushItemNow(&payload)
}

// PushScanEvent pushes one scan event to the counterpart store in the
// background.
func (c *Coordinator) PushScanEvent(event *models.ScanEvent) {
	if !c.enabled || event == nil {
		return
	}
	payload := *event
	go c.pushScanNow(&payload)
}

func (c *Coordinator) pushItemNow(item *models.TrackedItem) error {
	if err := c.push("/api/sync/items", item); err != nil {
		log.Printf("⚠️  Sync push failed for item %s: %v", item.TagID, err)
		return err
	}
	now := time.Now().UTC()
	if err := c.db.Model(&models.TrackedItem{}).
		Where("tag_id = ?", item.TagID).
		Update("synced_at", now).Error; err != nil {
		log.Printf("⚠️  Failed to stamp synced_at for item %s: %v", item.TagID, err)
		return err
	}
	return nil
}

func (c *Coordinator) pushScanNow(event *models.ScanEvent) error {
	if err := c.push("/api/sync/scans", event); err != nil {
		log.Printf("⚠️  Sync push failed for scan %s: %v", event.ID, err)
		return err
	}
	now := time.Now().UTC()
	if err := c.db.Model(&models.ScanEvent{}).
		Where("id = ?", event.ID).
		Update("synced_at", now).Error; err != nil {
		log.Printf("⚠️  Failed to stamp synced_at for scan %s: %v", event.ID, err)
		return err
	}
	return nil
}

func (c *Coordinator) push(path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("push rejected: HTTP %d, response: %s", resp.StatusCode, string(detail))
	}
	return nil
}

// ClassHealth summarizes sync progress for one data class: enough to
// detect a stalled sync without any timestamp conflict analysis.
type ClassHealth struct {
	DataClass    string     `json:"data_class"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	SyncedToday  int64      `json:"synced_today"`
}

// Health reports, per data class, the newest successfully synced record
// and a count of same-day sync activity.
func (c *Coordinator) Health() ([]ClassHealth, error) {
	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)

	itemHealth := ClassHealth{DataClass: ClassItems}
	var lastItem models.TrackedItem
	if err := c.db.Where("synced_at IS NOT NULL").
		Order("synced_at DESC").First(&lastItem).Error; err == nil {
		itemHealth.LastSyncedAt = lastItem.SyncedAt
	}
	if err := c.db.Model(&models.TrackedItem{}).
		Where("synced_at >= ?", startOfDay).
		Count(&itemHealth.SyncedToday).Error; err != nil {
		return nil, err
	}

	scanHealth := ClassHealth{DataClass: ClassScanEvents}
	var lastScan models.ScanEvent
	if err := c.db.Where("synced_at IS NOT NULL").
		Order("synced_at DESC").First(&lastScan).Error; err == nil {
		scanHealth.LastSyncedAt = lastScan.SyncedAt
	}
	if err := c.db.Model(&models.ScanEvent{}).
		Where("synced_at >= ?", startOfDay).
		Count(&scanHealth.SyncedToday).Error; err != nil {
		return nil, err
	}

	return []ClassHealth{itemHealth, scanHealth}, nil
}
