// Package merge combines a matched tracking record and POS equipment
// definition into one logical equipment view under a fixed field
// authority policy.
package merge

import (
	"time"

	"github.com/xelth-com/rentrackgo/internal/models"
	"github.com/xelth-com/rentrackgo/internal/normalize"
	"gorm.io/datatypes"
)

// MergedEquipment is the unified equipment record produced by Resolve.
// Each field is filled from whichever system is authoritative for it.
type MergedEquipment struct {
	EquipmentKey string `json:"equipment_key"`

	// Tracking-system-authoritative
	TagID           string     `json:"tag_id"`
	SerialNumber    string     `json:"serial_number"`
	RentalClassNum  string     `json:"rental_class_num"`
	ClientName      string     `json:"client_name"`
	CommonName      string     `json:"common_name"`
	Quality         string     `json:"quality"`
	BinLocation     string     `json:"bin_location"`
	Status          string     `json:"status"`
	LastContractNum *string    `json:"last_contract_num,omitempty"`
	LastScannedBy   string     `json:"last_scanned_by"`
	Notes           string     `json:"notes"`
	StatusNotes     string     `json:"status_notes"`
	Longitude       *float64   `json:"longitude,omitempty"`
	Latitude        *float64   `json:"latitude,omitempty"`
	DateLastScanned *time.Time `json:"date_last_scanned,omitempty"`
	CurrentStore    string     `json:"current_store"`
	HomeStore       string     `json:"home_store"`

	// POS-authoritative
	TurnoverYTD  float64        `json:"turnover_ytd"`
	TurnoverLTD  float64        `json:"turnover_ltd"`
	RepairCost   float64        `json:"repair_cost"`
	SellPrice    float64        `json:"sell_price"`
	RetailPrice  float64        `json:"retail_price"`
	Manufacturer string         `json:"manufacturer"`
	Department   string         `json:"department"`
	Category     string         `json:"category"`
	RateSchedule datatypes.JSON `json:"rate_schedule,omitempty"`
	VendorNo     string         `json:"vendor_no"`

	IdentifierType string `json:"identifier_type"`

	// Provenance
	TrackingUpdatedAt time.Time `json:"tracking_updated_at"`
	POSUpdatedAt      time.Time `json:"pos_updated_at"`
	MergedAt          time.Time `json:"merged_at"`
}

// Resolve merges one tracked item with its POS definition. Pure function
// of its inputs plus the previously stored category; safe to re-run.
// Either side may be nil, in which case only the other side's
// authoritative fields are populated.
func Resolve(item *models.TrackedItem, def *models.EquipmentDefinition, storedCategory string, now time.Time) MergedEquipment {
	out := MergedEquipment{MergedAt: now}

	if item != nil {
		out.TagID = item.TagID
		out.SerialNumber = item.SerialNumber
		out.RentalClassNum = item.RentalClassNum
		out.ClientName = item.ClientName
		out.CommonName = item.CommonName
		out.Quality = item.Quality
		out.BinLocation = item.BinLocation
		out.Status = item.Status
		out.LastContractNum = item.LastContractNum
		out.LastScannedBy = item.LastScannedBy
		out.Notes = item.Notes
		out.StatusNotes = item.StatusNotes
		out.Longitude = item.Longitude
		out.Latitude = item.Latitude
		out.DateLastScanned = item.DateLastScanned
		out.CurrentStore = item.CurrentStore
		out.HomeStore = item.HomeStore
		out.TrackingUpdatedAt = item.UpdatedAt
	}

	if def != nil {
		out.TurnoverYTD = def.TurnoverYTD
		out.TurnoverLTD = def.TurnoverLTD
		out.RepairCost = def.RepairCost
		out.SellPrice = def.SellPrice
		out.RetailPrice = def.RetailPrice
		out.Manufacturer = def.Manufacturer
		out.Department = def.Department
		out.Category = def.Category
		out.RateSchedule = def.RateSchedule
		out.VendorNo = def.VendorNo
		out.POSUpdatedAt = def.UpdatedAt
	}

	// Shared field: equipment key prefers the tracking side.
	if item != nil && normalize.Key(item.RentalClassNum) != "" {
		out.EquipmentKey = normalize.Key(item.RentalClassNum)
	} else if def != nil {
		out.EquipmentKey = normalize.Key(def.ItemNum)
	}

	out.IdentifierType = resolveCategory(item, def, storedCategory)

	return out
}

// resolveCategory never recomputes classification rules ad hoc; it only
// applies the tag/serial overrides on top of the classifier's stored value.
func resolveCategory(item *models.TrackedItem, def *models.EquipmentDefinition, storedCategory string) string {
	hasFullTag := item != nil && normalize.IsFullTag(item.TagID)
	posSerial := def != nil && normalize.Key(def.SerialNo) != ""

	switch {
	case hasFullTag:
		return models.IdentifierRFID
	case posSerial && !hasFullTag:
		return models.IdentifierSticker
	case !hasFullTag && !posSerial && (item == nil || normalize.Key(item.SerialNumber) == ""):
		return models.IdentifierBulk
	case storedCategory != "":
		return storedCategory
	default:
		return models.IdentifierNone
	}
}
