// Package classify assigns each tracked item its identification regime
// (RFID / Sticker / Bulk / QR / None) from correlation evidence and
// key-pattern heuristics, recording every category change for audit.
package classify

import (
	"fmt"

	"github.com/xelth-com/rentrackgo/internal/models"
	"github.com/xelth-com/rentrackgo/internal/normalize"
)

// Evidence is everything the rule evaluator may consider for one item.
// It is assembled by the runner from the current correlation snapshot
// and the active equipment catalog; the evaluator itself has no state.
type Evidence struct {
	TagID             string
	SerialNumber      string
	RentalClass       string // normalized
	HasCorrelation    bool   // active correlation exists for RentalClass
	EquipmentKeyField string // key field of the definition for RentalClass, "" if none
	EquipmentQuantity int
}

// Derive evaluates the transition rules in fixed precedence order
// (RFID > Sticker > Bulk > None) and returns the resulting category with
// a human-readable reason. Deterministic: equal evidence, equal result.
func Derive(ev Evidence) (string, string) {
	// 1. RFID: correlated against an active equipment definition whose
	// key is a plain rental-class code. A marker pattern on the key means
	// the equipment is identified physically some other way, so the
	// pattern rules below take over even when a correlation exists.
	if ev.HasCorrelation &&
		!normalize.HasSerialMarker(ev.EquipmentKeyField) &&
		!normalize.HasStoreSlot(ev.EquipmentKeyField) {
		return models.IdentifierRFID,
			fmt.Sprintf("RFID correlation: rental class %s matched active equipment", ev.RentalClass)
	}

	// 2. Sticker: serial-marker key pattern, or an own serial number
	// without a full-length tag.
	if normalize.HasSerialMarker(ev.EquipmentKeyField) {
		return models.IdentifierSticker,
			fmt.Sprintf("Serial marker on equipment key: %s", ev.EquipmentKeyField)
	}
	if ev.SerialNumber != "" && !normalize.IsFullTag(ev.TagID) {
		return models.IdentifierSticker,
			fmt.Sprintf("Serial number assigned: %s", ev.SerialNumber)
	}

	// 3. Bulk: store-slot key pattern with quantity above one.
	if normalize.HasStoreSlot(ev.EquipmentKeyField) && ev.EquipmentQuantity > 1 {
		return models.IdentifierBulk,
			fmt.Sprintf("Store-slot key %s with quantity %d", ev.EquipmentKeyField, ev.EquipmentQuantity)
	}

	// 4. Default/reset state.
	return models.IdentifierNone, "No identification evidence"
}
