package handlers

import (
	"net/http"
	"time"

	"github.com/xelth-com/rentrackgo/internal/correlate"
)

// runClassification re-derives identifier categories for every tracked item
func (r *Router) runClassification(w http.ResponseWriter, req *http.Request) {
	summary, err := r.deps.Classifier.RunFull()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Classification failed: "+err.Error())
		return
	}
	if r.deps.Hub != nil {
		r.deps.Hub.Broadcast("classification_complete", summary)
	}
	respondJSON(w, http.StatusOK, summary)
}

// runIncrementalClassification re-derives categories only for items modified
// since the given time (default: last 24 hours).
func (r *Router) runIncrementalClassification(w http.ResponseWriter, req *http.Request) {
	since := time.Now().Add(-24 * time.Hour)
	if raw := req.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid since parameter, expected RFC3339")
			return
		}
		since = parsed
	}

	summary, err := r.deps.Classifier.RunIncremental(since)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Classification failed: "+err.Error())
		return
	}
	if r.deps.Hub != nil {
		r.deps.Hub.Broadcast("classification_complete", summary)
	}
	respondJSON(w, http.StatusOK, summary)
}

// runCorrelation rebuilds the correlation snapshot between the POS catalog
// and tracked inventory.
func (r *Router) runCorrelation(w http.ResponseWriter, req *http.Request) {
	summary, err := r.deps.Matcher.Run()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Correlation failed: "+err.Error())
		return
	}
	if r.deps.Hub != nil {
		r.deps.Hub.Broadcast("correlation_complete", summary)
	}
	respondJSON(w, http.StatusOK, summary)
}

// correlationReport returns the full current correlation snapshot
func (r *Router) correlationReport(w http.ResponseWriter, req *http.Request) {
	records, err := r.deps.Store.Correlations.All()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}

// correlationDuplicates returns candidates below the auto-merge threshold,
// i.e. the manual review queue.
func (r *Router) correlationDuplicates(w http.ResponseWriter, req *http.Request) {
	records, err := r.deps.Store.Correlations.BelowConfidence(correlate.ThresholdAutoMerge)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}

// triageSummary returns an AI-written briefing over the review queue
func (r *Router) triageSummary(w http.ResponseWriter, req *http.Request) {
	if r.deps.Triage == nil {
		respondError(w, http.StatusServiceUnavailable, "AI triage is not configured")
		return
	}

	records, err := r.deps.Store.Correlations.BelowConfidence(correlate.ThresholdAutoMerge)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	summary, err := r.deps.Triage.Summarize(req.Context(), records)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Triage summary failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pending": len(records),
		"summary": summary,
	})
}
