package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/skip2/go-qrcode"
	"github.com/xelth-com/rentrackgo/internal/merge"
	"github.com/xelth-com/rentrackgo/internal/normalize"
	"gorm.io/gorm"
)

type transitionRequest struct {
	NewType string `json:"new_type"`
	Reason  string `json:"reason"`
}

// getItem returns a single tracked item by tag
func (r *Router) getItem(w http.ResponseWriter, req *http.Request) {
	tag := mux.Vars(req)["tag"]

	item, err := r.deps.Store.Items.ByTag(tag)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Unknown tag: "+tag)
			return
		}
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// getMergedItem returns the unified equipment view for a tag, combining
// the tracking-side item with its POS catalog definition when one exists.
func (r *Router) getMergedItem(w http.ResponseWriter, req *http.Request) {
	tag := mux.Vars(req)["tag"]

	item, err := r.deps.Store.Items.ByTag(tag)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Unknown tag: "+tag)
			return
		}
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	def, err := r.deps.Store.Equipment.ByItemNum(normalize.Key(item.RentalClassNum))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		def = nil
	}

	view := merge.Resolve(item, def, item.IdentifierType, time.Now())
	respondJSON(w, http.StatusOK, view)
}

// applyTransition force-sets an item's identifier category with an
// operator-supplied reason, bypassing the derivation rules.
func (r *Router) applyTransition(w http.ResponseWriter, req *http.Request) {
	tag := mux.Vars(req)["tag"]

	var body transitionRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Reason == "" {
		respondError(w, http.StatusBadRequest, "reason is required for manual overrides")
		return
	}

	if err := r.deps.Classifier.Override(tag, body.NewType, body.Reason); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Unknown tag: "+tag)
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if r.deps.Hub != nil {
		r.deps.Hub.Broadcast("identifier_override", map[string]string{
			"tag_id":   tag,
			"new_type": body.NewType,
		})
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"tag_id":   tag,
		"new_type": body.NewType,
		"status":   "applied",
	})
}

// transitionHistory returns the append-only identifier audit trail for a tag
func (r *Router) transitionHistory(w http.ResponseWriter, req *http.Request) {
	tag := mux.Vars(req)["tag"]

	history, err := r.deps.Classifier.History(tag)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tag_id":      tag,
		"transitions": history,
	})
}

// itemQR returns a PNG QR code whose payload is the tag identifier
func (r *Router) itemQR(w http.ResponseWriter, req *http.Request) {
	tag := mux.Vars(req)["tag"]

	if _, err := r.deps.Store.Items.ByTag(tag); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "Unknown tag: "+tag)
			return
		}
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	png, err := qrcode.Encode(tag, qrcode.Medium, 256)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
