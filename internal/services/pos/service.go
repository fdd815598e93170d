// Package pos pulls EquipmentDefinition rows from the POS/ERP backend
// on an interval. The engine treats the feed as read-only input apart
// from quarantine marking.
package pos

import (
	"log"
	"time"

	"github.com/xelth-com/rentrackgo/internal/database"
	"github.com/xelth-com/rentrackgo/internal/models"
	"github.com/xelth-com/rentrackgo/internal/repo"
	"gorm.io/gorm/clause"
)

// FeedService orchestrates the periodic equipment catalog pull
type FeedService struct {
	client     *Client
	db         *database.DB
	equipment  repo.EquipmentRepository
	cfg        Config
	quarantine []string
	stop       chan struct{}
}

// Config holds POS connection settings
type Config struct {
	URL          string
	Database     string
	Username     string
	Password     string
	SyncInterval int // in minutes
}

// equipmentRow mirrors the fields the POS backend exposes per catalog entry
type equipmentRow struct {
	ItemNum      string  `json:"item_num"`
	KeyField     string  `json:"key"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Department   string  `json:"department"`
	Manufacturer string  `json:"manufacturer"`
	SerialNo     string  `json:"serial_no"`
	Inactive     bool    `json:"inactive"`
	Quantity     int     `json:"qty"`
	SellPrice    float64 `json:"sell_price"`
	RetailPrice  float64 `json:"retail_price"`
	RepairCost   float64 `json:"repair_cost"`
	TurnoverYTD  float64 `json:"turnover_ytd"`
	TurnoverLTD  float64 `json:"turnover_ltd"`
	VendorNo     string  `json:"vendor_no"`
	WriteDate    string  `json:"write_date"`
}

// NewFeedService creates the POS feed service
func NewFeedService(db *database.DB, store *repo.Store, cfg Config, quarantineCategories []string) *FeedService {
	return &FeedService{
		client:     NewClient(cfg.URL, cfg.Database, cfg.Username, cfg.Password),
		db:         db,
		equipment:  store.Equipment,
		cfg:        cfg,
		quarantine: quarantineCategories,
		stop:       make(chan struct{}),
	}
}

// Start begins the background pull loop
func (s *FeedService) Start() {
	if s.cfg.URL == "" {
		log.Println("POS feed disabled: POS_URL not configured")
		return
	}

	go func() {
		log.Println("📡 POS feed service started")

		if _, err := s.client.Authenticate(); err != nil {
			log.Printf("❌ POS authentication failed: %v", err)
			return
		}

		time.Sleep(5 * time.Second)
		s.runPull()

		interval := time.Duration(s.cfg.SyncInterval) * time.Minute
		if s.cfg.SyncInterval <= 0 {
			interval = 15 * time.Minute
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runPull()
			case <-s.stop:
				log.Println("🛑 POS feed service stopped")
				return
			}
		}
	}()
}

// Stop halts the service
func (s *FeedService) Stop() {
	close(s.stop)
}

// runPull fetches equipment rows changed since the newest local row and
// upserts them, then refreshes quarantine marks.
func (s *FeedService) runPull() {
	log.Println("🔄 POS: Pulling equipment definitions...")

	var last models.EquipmentDefinition
	lastWriteDate := "2000-01-01 00:00:00"
	if err := s.db.Order("write_date DESC").First(&last).Error; err == nil && !last.WriteDate.IsZero() {
		lastWriteDate = last.WriteDate.Format("2006-01-02 15:04:05")
	}

	domain := []interface{}{
		[]interface{}{"write_date", ">", lastWriteDate},
	}

	var rows []equipmentRow
	err := s.client.SearchRead("rental.equipment", domain, []string{
		"item_num", "key", "name", "category", "department", "manufacturer",
		"serial_no", "inactive", "qty", "sell_price", "retail_price",
		"repair_cost", "turnover_ytd", "turnover_ltd", "vendor_no", "write_date",
	}, 1000, 0, &rows)
	if err != nil {
		log.Printf("❌ POS: equipment pull failed: %v", err)
		return
	}

	upserted := 0
	for _, row := range rows {
		if row.ItemNum == "" {
			continue
		}
		writeDate, _ := time.Parse("2006-01-02 15:04:05", row.WriteDate)
		def := models.EquipmentDefinition{
			ItemNum:      row.ItemNum,
			KeyField:     row.KeyField,
			Name:         row.Name,
			Category:     row.Category,
			Department:   row.Department,
			Manufacturer: row.Manufacturer,
			SerialNo:     row.SerialNo,
			Inactive:     row.Inactive,
			Quantity:     row.Quantity,
			SellPrice:    row.SellPrice,
			RetailPrice:  row.RetailPrice,
			RepairCost:   row.RepairCost,
			TurnoverYTD:  row.TurnoverYTD,
			TurnoverLTD:  row.TurnoverLTD,
			VendorNo:     row.VendorNo,
			WriteDate:    writeDate,
		}
		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_num"}},
			UpdateAll: true,
		}).Create(&def).Error; err != nil {
			log.Printf("⚠️  POS: failed to upsert %s: %v", row.ItemNum, err)
			continue
		}
		upserted++
	}

	marked, err := s.equipment.MarkQuarantined(s.quarantine)
	if err != nil {
		log.Printf("⚠️  POS: quarantine marking failed: %v", err)
	}

	log.Printf("✅ POS: pull complete, %d upserted, %d newly quarantined", upserted, marked)
}
