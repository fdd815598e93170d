package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xelth-com/rentrackgo/internal/contracts"
)

type manualContractRequest struct {
	CustomerNum string                `json:"customer_num"`
	StoreNum    string                `json:"store_num"`
	Lines       []contracts.LineInput `json:"lines"`
}

type assignTagRequest struct {
	TagID    string `json:"tag_id"`
	Operator string `json:"operator"`
}

type mergeContractRequest struct {
	TempID      string `json:"temp_id"`
	ContractNum string `json:"contract_num"`
}

// createManualContract opens a provisional contract while the POS is offline
func (r *Router) createManualContract(w http.ResponseWriter, req *http.Request) {
	var body manualContractRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	contract, err := r.deps.Reconciler.CreateManual(body.CustomerNum, body.StoreNum, body.Lines)
	if err != nil {
		if errors.Is(err, contracts.ErrNoLineItems) {
			respondError(w, http.StatusBadRequest, "At least one line item is required")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create contract: "+err.Error())
		return
	}

	if r.deps.Hub != nil {
		r.deps.Hub.Broadcast("contract_created", contract)
	}
	respondJSON(w, http.StatusCreated, contract)
}

// assignTag checks a tagged item out onto a contract
func (r *Router) assignTag(w http.ResponseWriter, req *http.Request) {
	contractNum := mux.Vars(req)["contractNum"]

	var body assignTagRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.TagID == "" {
		respondError(w, http.StatusBadRequest, "tag_id is required")
		return
	}

	if err := r.deps.Reconciler.AssignTag(body.TagID, contractNum, body.Operator); err != nil {
		switch {
		case errors.Is(err, contracts.ErrContractNotFound):
			respondError(w, http.StatusNotFound, "Contract not found: "+contractNum)
		case errors.Is(err, contracts.ErrTagNotFound):
			respondError(w, http.StatusNotFound, "Unknown tag: "+body.TagID)
		default:
			respondError(w, http.StatusInternalServerError, "Failed to assign tag: "+err.Error())
		}
		return
	}

	if r.deps.Hub != nil {
		r.deps.Hub.Broadcast("tag_assigned", map[string]string{
			"tag_id":       body.TagID,
			"contract_num": contractNum,
		})
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"tag_id":       body.TagID,
		"contract_num": contractNum,
		"status":       "assigned",
	})
}

// mergeContract folds a provisional contract into its canonical POS number
func (r *Router) mergeContract(w http.ResponseWriter, req *http.Request) {
	var body mergeContractRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.TempID == "" || body.ContractNum == "" {
		respondError(w, http.StatusBadRequest, "temp_id and contract_num are required")
		return
	}

	contract, err := r.deps.Reconciler.MergeWithPOS(body.TempID, body.ContractNum)
	if err != nil {
		switch {
		case errors.Is(err, contracts.ErrContractNotFound):
			respondError(w, http.StatusNotFound, "No provisional contract with temp id "+body.TempID)
		case errors.Is(err, contracts.ErrAlreadyMerged):
			respondError(w, http.StatusConflict, "Contract already merged")
		case errors.Is(err, contracts.ErrContractNumInUse):
			respondError(w, http.StatusConflict, "Contract number already in use: "+body.ContractNum)
		default:
			respondError(w, http.StatusInternalServerError, "Merge failed: "+err.Error())
		}
		return
	}

	if r.deps.Hub != nil {
		r.deps.Hub.Broadcast("contract_merged", contract)
	}
	respondJSON(w, http.StatusOK, contract)
}

// getContract returns a contract with its lines, by canonical or temp number
func (r *Router) getContract(w http.ResponseWriter, req *http.Request) {
	contractNum := mux.Vars(req)["contractNum"]

	contract, err := r.deps.Reconciler.ByNum(contractNum)
	if err != nil {
		if errors.Is(err, contracts.ErrContractNotFound) {
			respondError(w, http.StatusNotFound, "Contract not found: "+contractNum)
			return
		}
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondJSON(w, http.StatusOK, contract)
}
