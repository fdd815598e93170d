package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xelth-com/rentrackgo/internal/models"
	"gorm.io/gorm/clause"
)

// syncHealth reports per-data-class replication health
func (r *Router) syncHealth(w http.ResponseWriter, req *http.Request) {
	if r.deps.Coordinator == nil || !r.deps.Coordinator.Enabled() {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"enabled": false,
		})
		return
	}

	classes, err := r.deps.Coordinator.Health()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"enabled": true,
		"classes": classes,
	})
}

// receiveItemPush accepts a tracked item pushed by the counterpart store.
// Last write wins; the payload is upserted whole.
func (r *Router) receiveItemPush(w http.ResponseWriter, req *http.Request) {
	var item models.TrackedItem
	if err := json.NewDecoder(req.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if item.TagID == "" {
		respondError(w, http.StatusBadRequest, "tag_id is required")
		return
	}

	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tag_id"}},
		UpdateAll: true,
	}).Create(&item).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store item")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// receiveScanPush accepts a scan event pushed by the counterpart store.
// Events are immutable, so a duplicate id is simply overwritten in place.
func (r *Router) receiveScanPush(w http.ResponseWriter, req *http.Request) {
	var event models.ScanEvent
	if err := json.NewDecoder(req.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if event.ID == "" || event.TagID == "" {
		respondError(w, http.StatusBadRequest, "id and tag_id are required")
		return
	}

	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&event).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store scan event")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}
