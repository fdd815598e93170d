package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/xelth-com/rentrackgo/internal/config"
	"github.com/xelth-com/rentrackgo/internal/database"
	"github.com/xelth-com/rentrackgo/internal/models"
)

func main() {
	fmt.Println("🌱 RenTrack Demo Data Seeder")

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	// Run migrations first
	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.TrackedItem{},
		&models.ScanEvent{},
		&models.EquipmentDefinition{},
		&models.CorrelationRecord{},
		&models.IdentifierTransition{},
		&models.Contract{},
		&models.ContractLine{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")

	// Check if data already exists
	var itemCount int64
	db.Model(&models.TrackedItem{}).Count(&itemCount)
	if itemCount > 0 {
		fmt.Printf("⚠️  Database already has %d tracked items. Clear it first? (y/N): ", itemCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}

		fmt.Println("🗑️  Clearing existing data...")
		db.Exec("TRUNCATE TABLE scan_events CASCADE")
		db.Exec("TRUNCATE TABLE identifier_transitions CASCADE")
		db.Exec("TRUNCATE TABLE equipment_correlations CASCADE")
		db.Exec("TRUNCATE TABLE contract_lines CASCADE")
		db.Exec("TRUNCATE TABLE contracts CASCADE")
		db.Exec("TRUNCATE TABLE tracked_items CASCADE")
		db.Exec("TRUNCATE TABLE equipment_definitions CASCADE")
		fmt.Println("✅ Data cleared")
	}

	fmt.Println("📦 Creating demo data...")

	// 1. POS catalog. Item 1000 is the classic format-drift case: the
	// tracked items below store the class as "1000.0".
	defs := []models.EquipmentDefinition{
		{ItemNum: "1000", Name: "Pressure Washer 3000psi", Category: "Power Tools", Quantity: 4, WriteDate: time.Now()},
		{ItemNum: "2000", KeyField: "2000#1", Name: "Generator 7kW", Category: "Power", SerialNo: "GEN-7001", Quantity: 1, WriteDate: time.Now()},
		{ItemNum: "3000", KeyField: "3000-2", Name: "Folding Chair", Category: "Party", Quantity: 200, WriteDate: time.Now()},
		{ItemNum: "9000", Name: "Retired Floor Buffer", Category: "UNUSED", Quantity: 1, WriteDate: time.Now()},
	}
	for i := range defs {
		if err := db.Create(&defs[i]).Error; err != nil {
			log.Fatalf("❌ Failed to create equipment %s: %v", defs[i].ItemNum, err)
		}
	}
	fmt.Printf("✅ %d equipment definitions\n", len(defs))

	// 2. Tracked items across the identifier regimes.
	items := []models.TrackedItem{
		{TagID: "aabbccddeeff000000000001", RentalClassNum: "1000.0", CommonName: "Pressure Washer", Status: "Ready to Rent"},
		{TagID: "aabbccddeeff000000000002", RentalClassNum: "1000.0", CommonName: "Pressure Washer", Status: "Ready to Rent"},
		{TagID: "STK-2000-01", RentalClassNum: "2000", SerialNumber: "GEN-7001", CommonName: "Generator 7kW", Status: "Ready to Rent"},
		{TagID: "BLK-3000-A", RentalClassNum: "3000", CommonName: "Folding Chair", Status: "Ready to Rent"},
		{TagID: "ORPHAN-01", CommonName: "Mystery Cable Reel", Status: "Ready to Rent"},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			log.Fatalf("❌ Failed to create item %s: %v", items[i].TagID, err)
		}
	}
	fmt.Printf("✅ %d tracked items\n", len(items))

	// 3. A little scan history.
	events := []models.ScanEvent{
		{ID: uuid.NewString(), TagID: "aabbccddeeff000000000001", EventType: models.ScanInspect, ScanDate: time.Now().Add(-48 * time.Hour), ScannedBy: "demo"},
		{ID: uuid.NewString(), TagID: "STK-2000-01", EventType: models.ScanCheckin, ScanDate: time.Now().Add(-24 * time.Hour), ScannedBy: "demo"},
	}
	for i := range events {
		if err := db.Create(&events[i]).Error; err != nil {
			log.Fatalf("❌ Failed to create scan event: %v", err)
		}
	}
	fmt.Printf("✅ %d scan events\n", len(events))

	fmt.Println()
	fmt.Println("🎉 Done. Next steps:")
	fmt.Println("   adminctl correlate   # build the correlation snapshot")
	fmt.Println("   adminctl classify    # derive identifier categories")
	fmt.Println("   adminctl report      # inspect the review queue")
}
