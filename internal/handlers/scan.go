package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/xelth-com/rentrackgo/internal/models"
	"gorm.io/gorm"
)

type scanRequest struct {
	TagID       string  `json:"tag_id"`
	EventType   string  `json:"event_type"`
	ContractNum *string `json:"contract_num,omitempty"`
	ScannedBy   string  `json:"scanned_by"`
	Location    string  `json:"location"`
	Notes       string  `json:"notes"`
}

// handleScan ingests one tracking transaction from a field scanner and
// updates the item's state to match the event.
func (r *Router) handleScan(w http.ResponseWriter, req *http.Request) {
	var body scanRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.TagID == "" {
		respondError(w, http.StatusBadRequest, "tag_id is required")
		return
	}
	if body.EventType == "" {
		body.EventType = models.ScanInspect
	}
	switch body.EventType {
	case models.ScanCheckout, models.ScanCheckin, models.ScanMaintenance, models.ScanInspect:
	default:
		respondError(w, http.StatusBadRequest, "Unknown event_type: "+body.EventType)
		return
	}

	item, err := r.deps.Store.Items.ByTag(body.TagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Unknown tag: "+body.TagID)
			return
		}
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	now := time.Now()
	event := models.ScanEvent{
		ID:          uuid.New().String(),
		TagID:       body.TagID,
		ContractNum: body.ContractNum,
		EventType:   body.EventType,
		ScanDate:    now,
		ScannedBy:   body.ScannedBy,
		Location:    body.Location,
		Notes:       body.Notes,
	}

	updates := map[string]interface{}{
		"date_last_scanned": now,
		"last_scanned_by":   body.ScannedBy,
	}
	switch body.EventType {
	case models.ScanCheckout:
		updates["status"] = "On Rent"
		if body.ContractNum != nil {
			updates["last_contract_num"] = *body.ContractNum
		}
	case models.ScanCheckin:
		updates["status"] = "Ready to Rent"
	case models.ScanMaintenance:
		updates["status"] = "Service Required"
	}
	if body.Location != "" {
		updates["bin_location"] = body.Location
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TrackedItem{}).
			Where("tag_id = ?", item.TagID).
			Updates(updates).Error; err != nil {
			return err
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to record scan")
		return
	}

	if r.deps.Coordinator != nil {
		fresh, err := r.deps.Store.Items.ByTag(item.TagID)
		if err == nil {
			r.deps.Coordinator.PushItem(fresh)
		}
		r.deps.Coordinator.PushScanEvent(&event)
	}
	if r.deps.Hub != nil {
		r.deps.Hub.Broadcast("scan", event)
	}

	respondJSON(w, http.StatusCreated, event)
}
