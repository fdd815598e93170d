package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xelth-com/rentrackgo/internal/ai"
	"github.com/xelth-com/rentrackgo/internal/classify"
	"github.com/xelth-com/rentrackgo/internal/config"
	"github.com/xelth-com/rentrackgo/internal/contracts"
	"github.com/xelth-com/rentrackgo/internal/correlate"
	"github.com/xelth-com/rentrackgo/internal/database"
	"github.com/xelth-com/rentrackgo/internal/middleware"
	"github.com/xelth-com/rentrackgo/internal/repo"
	syncsvc "github.com/xelth-com/rentrackgo/internal/sync"
	"github.com/xelth-com/rentrackgo/internal/websocket"
)

// Deps carries the constructed services the router dispatches to.
// Everything is injected; handlers own no hidden state.
type Deps struct {
	Store       *repo.Store
	Classifier  *classify.Classifier
	Matcher     *correlate.Matcher
	Reconciler  *contracts.Reconciler
	Coordinator *syncsvc.Coordinator
	Hub         *websocket.Hub
	Triage      *ai.TriageService // optional, may be nil
}

// Router wraps the mux router, database and engine services
type Router struct {
	*mux.Router
	db   *database.DB
	cfg  *config.Config
	deps Deps
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, deps Deps) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		db:     db,
		cfg:    cfg,
		deps:   deps,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")

	// Counterpart-store push receivers (API-key auth, registered before
	// the JWT subrouter so they match first). Paths must stay in step
	// with the coordinator's push targets.
	apiKey := middleware.APIKey(cfg.Sync.APIKey)
	r.Handle("/api/sync/items", apiKey(http.HandlerFunc(r.receiveItemPush))).Methods("POST")
	r.Handle("/api/sync/scans", apiKey(http.HandlerFunc(r.receiveScanPush))).Methods("POST")

	// Live event feed
	if deps.Hub != nil {
		r.HandleFunc("/ws", deps.Hub.ServeWS)
	}

	// Engine API (JWT protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))

	api.HandleFunc("/scan", r.handleScan).Methods("POST")

	api.HandleFunc("/classify/run", r.runClassification).Methods("POST")
	api.HandleFunc("/classify/incremental", r.runIncrementalClassification).Methods("POST")

	api.HandleFunc("/correlate/run", r.runCorrelation).Methods("POST")
	api.HandleFunc("/correlate/report", r.correlationReport).Methods("GET")
	api.HandleFunc("/correlate/duplicates", r.correlationDuplicates).Methods("GET")
	api.HandleFunc("/correlate/triage-summary", r.triageSummary).Methods("GET")

	api.HandleFunc("/contracts/manual", r.createManualContract).Methods("POST")
	api.HandleFunc("/contracts/merge", r.mergeContract).Methods("POST")
	api.HandleFunc("/contracts/{contractNum}", r.getContract).Methods("GET")
	api.HandleFunc("/contracts/{contractNum}/assign", r.assignTag).Methods("POST")

	api.HandleFunc("/items/{tag}", r.getItem).Methods("GET")
	api.HandleFunc("/items/{tag}/merged", r.getMergedItem).Methods("GET")
	api.HandleFunc("/items/{tag}/transition", r.applyTransition).Methods("POST")
	api.HandleFunc("/items/{tag}/transitions", r.transitionHistory).Methods("GET")
	api.HandleFunc("/items/{tag}/qr.png", r.itemQR).Methods("GET")

	api.HandleFunc("/labels/pdf", r.labelSheet).Methods("POST")

	api.HandleFunc("/sync/health", r.syncHealth).Methods("GET")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
