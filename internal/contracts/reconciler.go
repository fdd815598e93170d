// Package contracts reconciles field-created provisional contracts with
// the canonical contracts the POS feed eventually produces.
package contracts

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xelth-com/rentrackgo/internal/database"
	"github.com/xelth-com/rentrackgo/internal/models"
	"github.com/xelth-com/rentrackgo/internal/normalize"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel errors surfaced to the API layer. A merge of a missing or
// already-merged draft performs no writes.
var (
	ErrContractNotFound = errors.New("contract not found")
	ErrTagNotFound      = errors.New("tracked item not found")
	ErrAlreadyMerged    = errors.New("contract already merged")
	ErrContractNumInUse = errors.New("contract number already in use")
	ErrNoLineItems      = errors.New("manual contract requires at least one line item")
)

// Reconciler owns the manual-contract lifecycle. All multi-table
// operations run inside a single database transaction.
type Reconciler struct {
	db *database.DB
}

// NewReconciler creates a reconciler over the shared database
func NewReconciler(db *database.DB) *Reconciler {
	return &Reconciler{db: db}
}

// LineInput is one requested line item on a manual contract
type LineInput struct {
	ItemNum     string `json:"item_num"`
	Description string `json:"description"`
	Qty         int    `json:"qty"`
}

// CreateManual creates a Draft contract under a locally generated temp
// identifier (M-YYYYMMDD-NNNN, date plus per-day sequence).
func (r *Reconciler) CreateManual(customerNum, storeNum string, lines []LineInput) (*models.Contract, error) {
	if len(lines) == 0 {
		return nil, ErrNoLineItems
	}

	var contract models.Contract
	err := r.db.Transaction(func(tx *gorm.DB) error {
		tempID, err := nextTempID(tx, time.Now().UTC())
		if err != nil {
			return err
		}

		contract = models.Contract{
			ContractNum: tempID,
			CustomerNum: customerNum,
			StoreNum:    storeNum,
			Status:      models.ContractStatusDraft,
			IsManual:    true,
			TempID:      &tempID,
		}
		if err := tx.Create(&contract).Error; err != nil {
			return fmt.Errorf("failed to create manual contract: %w", err)
		}

		for _, line := range lines {
			cl := models.ContractLine{
				ContractNum: tempID,
				ItemNum:     normalize.Key(line.ItemNum),
				Description: line.Description,
				Qty:         line.Qty,
			}
			if err := tx.Create(&cl).Error; err != nil {
				return fmt.Errorf("failed to create line item: %w", err)
			}
			contract.Lines = append(contract.Lines, cl)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// nextTempID derives the day's next temp identifier inside the caller's
// transaction. Retired temp-ids are never reused because the sequence
// counts all drafts ever created that day, merged or not.
func nextTempID(tx *gorm.DB, now time.Time) (string, error) {
	day := now.Format("20060102")
	prefix := fmt.Sprintf("M-%s-", day)

	var n int64
	if err := tx.Model(&models.Contract{}).
		Where("contract_num LIKE ? OR temp_id LIKE ?", prefix+"%", prefix+"%").
		Count(&n).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, n+1), nil
}

// AssignTag binds a tracked item to an existing contract: it updates the
// item's last-contract reference and status, records a checkout scan
// event, and bumps the matching line item's checked-out count. It never
// creates a contract implicitly.
func (r *Reconciler) AssignTag(tagID, contractNum, operator string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var contract models.Contract
		if err := tx.Where("contract_num = ?", contractNum).First(&contract).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContractNotFound
			}
			return err
		}

		var item models.TrackedItem
		if err := tx.Where("tag_id = ?", tagID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTagNotFound
			}
			return err
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"last_contract_num": contract.ContractNum,
			"status":            "On Rent",
			"date_last_scanned": now,
			"last_scanned_by":   operator,
		}
		if err := tx.Model(&item).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}

		event := models.ScanEvent{
			ID:          uuid.NewString(),
			TagID:       item.TagID,
			ContractNum: &contract.ContractNum,
			EventType:   models.ScanCheckout,
			ScanDate:    now,
			ScannedBy:   operator,
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to record scan event: %w", err)
		}

		// Bump the matching line item if the contract carries one for
		// this item's rental class.
		class := normalize.Key(item.RentalClassNum)
		if class != "" {
			if err := tx.Model(&models.ContractLine{}).
				Where("contract_num = ? AND item_num = ?", contract.ContractNum, class).
				Update("qty_checked_out", gorm.Expr("qty_checked_out + 1")).Error; err != nil {
				return fmt.Errorf("failed to update line item: %w", err)
			}
		}
		return nil
	})
}

// MergeWithPOS folds a Draft contract into the canonical contract number
// the POS feed has produced. Every reference to the temp identifier (on
// items, scan events and line items) is rewritten in one transaction;
// a failure partway leaves no split state.
func (r *Reconciler) MergeWithPOS(tempID, canonicalNum string) (*models.Contract, error) {
	var merged models.Contract
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Serialize concurrent merges of the same draft. SQLite (tests)
		// does not support FOR UPDATE; its writes are serialized anyway.
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var contract models.Contract
		if err := q.Where("temp_id = ?", tempID).First(&contract).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// Distinguish "never existed" from "already merged".
			var n int64
			tx.Model(&models.Contract{}).
				Where("contract_num = ? AND is_manual = ?", canonicalNum, false).
				Count(&n)
			if n > 0 {
				return ErrAlreadyMerged
			}
			return ErrContractNotFound
		}

		if !contract.IsManual {
			return ErrAlreadyMerged
		}

		var clash int64
		if err := tx.Model(&models.Contract{}).
			Where("contract_num = ? AND id <> ?", canonicalNum, contract.ID).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return ErrContractNumInUse
		}

		oldNum := contract.ContractNum

		if err := tx.Model(&models.TrackedItem{}).
			Where("last_contract_num = ?", oldNum).
			Update("last_contract_num", canonicalNum).Error; err != nil {
			return fmt.Errorf("failed to rewrite item references: %w", err)
		}

		if err := tx.Model(&models.ScanEvent{}).
			Where("contract_num = ?", oldNum).
			Update("contract_num", canonicalNum).Error; err != nil {
			return fmt.Errorf("failed to rewrite scan events: %w", err)
		}

		if err := tx.Model(&models.ContractLine{}).
			Where("contract_num = ?", oldNum).
			Update("contract_num", canonicalNum).Error; err != nil {
			return fmt.Errorf("failed to rewrite line items: %w", err)
		}

		now := time.Now().UTC()
		if err := tx.Model(&contract).Updates(map[string]interface{}{
			"contract_num": canonicalNum,
			"status":       models.ContractStatusMerged,
			"is_manual":    false,
			"temp_id":      nil,
			"merged_at":    now,
		}).Error; err != nil {
			return fmt.Errorf("failed to finalize contract: %w", err)
		}

		return tx.Where("id = ?", contract.ID).First(&merged).Error
	})
	if err != nil {
		return nil, err
	}
	return &merged, nil
}

// ByNum fetches a contract with its line items
func (r *Reconciler) ByNum(contractNum string) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.Preload("Lines").Where("contract_num = ?", contractNum).First(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}
	return &contract, nil
}
