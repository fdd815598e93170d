package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xelth-com/rentrackgo/internal/models"
	"github.com/xelth-com/rentrackgo/internal/services/printer"
)

type labelSheetRequest struct {
	TagIDs []string            `json:"tag_ids"`
	Config printer.LabelConfig `json:"config"`
}

// labelSheet renders a printable PDF of QR labels for the given tags
func (r *Router) labelSheet(w http.ResponseWriter, req *http.Request) {
	var body labelSheetRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(body.TagIDs) == 0 {
		respondError(w, http.StatusBadRequest, "tag_ids is required")
		return
	}

	var items []models.TrackedItem
	if err := r.db.Where("tag_id IN ?", body.TagIDs).Find(&items).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(items) == 0 {
		respondError(w, http.StatusNotFound, "No matching items")
		return
	}

	pdf, err := printer.GenerateItemLabelsPDF(items, body.Config)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate labels: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=labels.pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
