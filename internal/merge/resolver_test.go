package merge

import (
	"reflect"
	"testing"
	"time"

	"github.com/xelth-com/rentrackgo/internal/models"
)

func sampleItem() *models.TrackedItem {
	contract := "C-100"
	scanned := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.TrackedItem{
		TagID:           "3039303030303030303030A1",
		SerialNumber:    "SN-1",
		RentalClassNum:  "1000.0",
		CommonName:      "Pressure Washer",
		ClientName:      "ACME Events",
		Quality:         "A",
		BinLocation:     "B-12",
		Status:          "On Rent",
		LastContractNum: &contract,
		LastScannedBy:   "scanner-3",
		Notes:           "left hose replaced",
		DateLastScanned: &scanned,
		CurrentStore:    "01",
		HomeStore:       "02",
		UpdatedAt:       time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func sampleDef() *models.EquipmentDefinition {
	return &models.EquipmentDefinition{
		ItemNum:      "1000",
		KeyField:     "1000",
		Name:         "PRESSURE WASHER 3000PSI",
		Category:     "POWER EQUIPMENT",
		Department:   "RENTAL",
		Manufacturer: "Karcher",
		SellPrice:    450,
		RetailPrice:  899,
		RepairCost:   75,
		TurnoverYTD:  1200,
		TurnoverLTD:  9800,
		VendorNo:     "V-17",
		UpdatedAt:    time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestResolveAuthority(t *testing.T) {
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	got := Resolve(sampleItem(), sampleDef(), models.IdentifierRFID, now)

	// Tracking-authoritative fields come from the item
	if got.CommonName != "Pressure Washer" {
		t.Errorf("CommonName = %q, want tracking-side value", got.CommonName)
	}
	if got.Status != "On Rent" || got.BinLocation != "B-12" {
		t.Errorf("status/bin not taken from tracking side: %q, %q", got.Status, got.BinLocation)
	}

	// POS-authoritative fields come from the definition
	if got.SellPrice != 450 || got.TurnoverLTD != 9800 || got.Manufacturer != "Karcher" {
		t.Errorf("POS-authoritative fields wrong: %+v", got)
	}

	// Shared key prefers the tracking side, normalized
	if got.EquipmentKey != "1000" {
		t.Errorf("EquipmentKey = %q, want %q", got.EquipmentKey, "1000")
	}

	if !got.MergedAt.Equal(now) {
		t.Errorf("MergedAt = %v, want %v", got.MergedAt, now)
	}
	if !got.TrackingUpdatedAt.Equal(sampleItem().UpdatedAt) || !got.POSUpdatedAt.Equal(sampleDef().UpdatedAt) {
		t.Error("provenance timestamps not stamped from source records")
	}
}

func TestResolveDeterministic(t *testing.T) {
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	first := Resolve(sampleItem(), sampleDef(), models.IdentifierRFID, now)
	for i := 0; i < 5; i++ {
		again := Resolve(sampleItem(), sampleDef(), models.IdentifierRFID, now)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Resolve not deterministic:\nfirst %+v\nagain %+v", first, again)
		}
	}
}

func TestResolveCategory(t *testing.T) {
	now := time.Now()

	t.Run("full tag forces RFID regardless of POS data", func(t *testing.T) {
		item := sampleItem() // full-length tag
		def := sampleDef()
		def.SerialNo = "SN-99"
		got := Resolve(item, def, models.IdentifierBulk, now)
		if got.IdentifierType != models.IdentifierRFID {
			t.Errorf("IdentifierType = %s, want RFID", got.IdentifierType)
		}
	})

	t.Run("POS serial without tag forces Sticker", func(t *testing.T) {
		item := sampleItem()
		item.TagID = "T-55" // not a full tag
		item.SerialNumber = ""
		def := sampleDef()
		def.SerialNo = "SN-99"
		got := Resolve(item, def, models.IdentifierNone, now)
		if got.IdentifierType != models.IdentifierSticker {
			t.Errorf("IdentifierType = %s, want Sticker", got.IdentifierType)
		}
	})

	t.Run("no individual tracking forces Bulk", func(t *testing.T) {
		item := sampleItem()
		item.TagID = "T-55"
		item.SerialNumber = ""
		got := Resolve(item, sampleDef(), models.IdentifierNone, now)
		if got.IdentifierType != models.IdentifierBulk {
			t.Errorf("IdentifierType = %s, want Bulk", got.IdentifierType)
		}
	})

	t.Run("otherwise stored category is kept", func(t *testing.T) {
		item := sampleItem()
		item.TagID = "T-55" // not full tag, but has own serial SN-1
		got := Resolve(item, sampleDef(), models.IdentifierQR, now)
		if got.IdentifierType != models.IdentifierQR {
			t.Errorf("IdentifierType = %s, want stored QR", got.IdentifierType)
		}
	})
}

func TestResolveNilSides(t *testing.T) {
	now := time.Now()

	got := Resolve(sampleItem(), nil, models.IdentifierRFID, now)
	if got.SellPrice != 0 || got.Manufacturer != "" {
		t.Error("nil POS side must leave POS-authoritative fields zero")
	}
	if got.EquipmentKey != "1000" {
		t.Errorf("EquipmentKey = %q, want tracking-side key", got.EquipmentKey)
	}

	got = Resolve(nil, sampleDef(), "", now)
	if got.EquipmentKey != "1000" {
		t.Errorf("EquipmentKey = %q, want POS-side key", got.EquipmentKey)
	}
	if got.CommonName != "" {
		t.Error("nil tracking side must leave tracking-authoritative fields zero")
	}
}
