// Package correlate computes candidate pairings between POS equipment
// definitions and populations of tracked items that share a normalized
// rental-class key, each scored with a confidence and a recommended
// disposition.
package correlate

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xelth-com/rentrackgo/internal/models"
	"github.com/xelth-com/rentrackgo/internal/normalize"
	"github.com/xelth-com/rentrackgo/internal/repo"
)

// Matcher recomputes the correlation snapshot. Safe to re-run at any
// time: each run fully replaces the previous snapshot.
type Matcher struct {
	items        repo.ItemRepository
	equipment    repo.EquipmentRepository
	correlations repo.CorrelationRepository
	quarantine   []string
}

// NewMatcher wires a matcher over the given repositories
func NewMatcher(store *repo.Store, quarantineCategories []string) *Matcher {
	return &Matcher{
		items:        store.Items,
		equipment:    store.Equipment,
		correlations: store.Correlations,
		quarantine:   quarantineCategories,
	}
}

// RunSummary reports what a matcher run processed, even when some
// entries were skipped as non-matches. Matched counts definitions
// paired on key or serial evidence; Records also includes the
// low-confidence name-heuristic candidates surfaced for triage, so it
// can exceed Matched.
type RunSummary struct {
	RunID              string        `json:"run_id"`
	EquipmentProcessed int           `json:"equipment_processed"`
	ItemsProcessed     int           `json:"items_processed"`
	Matched            int           `json:"matched"`
	Records            int           `json:"records"`
	Duration           time.Duration `json:"duration"`
}

// population is the group of tracked items sharing one normalized
// rental-class key.
type population struct {
	tagCount   int
	sampleName string
	serials    map[string]bool
	names      map[string]bool
}

// Run recomputes all correlations and atomically replaces the snapshot.
// Malformed keys are treated as non-matches, never as errors.
func (m *Matcher) Run() (*RunSummary, error) {
	start := time.Now()
	runID := uuid.NewString()

	defs, err := m.equipment.Active(m.quarantine)
	if err != nil {
		return nil, err
	}

	rows, err := m.items.KeyRows()
	if err != nil {
		return nil, err
	}

	// Group tracked items by normalized rental-class key. Items with no
	// usable key are counted as processed but can never match.
	populations := make(map[string]*population)
	itemsBySerial := make(map[string]int)
	for _, row := range rows {
		serial := normalize.Key(row.SerialNumber)
		if serial != "" {
			itemsBySerial[serial]++
		}

		key := normalize.Key(row.RentalClassNum)
		if key == "" {
			continue
		}
		pop, ok := populations[key]
		if !ok {
			pop = &population{serials: make(map[string]bool), names: make(map[string]bool)}
			populations[key] = pop
		}
		pop.tagCount++
		if pop.sampleName == "" && row.CommonName != "" {
			pop.sampleName = row.CommonName
		}
		if serial != "" {
			pop.serials[serial] = true
		}
		if row.CommonName != "" {
			pop.names[strings.ToLower(strings.TrimSpace(row.CommonName))] = true
		}
	}

	namePopulations := make(map[string]string) // lowered common name -> normalized key
	for key, pop := range populations {
		for name := range pop.names {
			namePopulations[name] = key
		}
	}

	records := make([]models.CorrelationRecord, 0, len(defs))
	matched := 0

	for _, def := range defs {
		key := normalize.Key(def.ItemNum)
		if key == "" {
			continue
		}

		defSerial := normalize.Key(def.SerialNo)

		if pop, ok := populations[key]; ok {
			serialMatch := defSerial != "" && pop.serials[defSerial]
			confidence := Score(true, serialMatch)
			records = append(records, models.CorrelationRecord{
				RunID:             runID,
				NormalizedKey:     key,
				ItemNum:           def.ItemNum,
				EquipmentName:     def.Name,
				TrackedName:       pop.sampleName,
				TagCount:          pop.tagCount,
				Confidence:        confidence,
				MatchType:         MatchTypeFor(true, serialMatch),
				RecommendedAction: ActionFor(confidence),
			})
			matched++
			continue
		}

		// No key match. A serial agreement alone still surfaces a
		// moderate-confidence candidate for triage.
		if defSerial != "" && itemsBySerial[defSerial] > 0 {
			confidence := Score(false, true)
			records = append(records, models.CorrelationRecord{
				RunID:             runID,
				NormalizedKey:     key,
				ItemNum:           def.ItemNum,
				EquipmentName:     def.Name,
				TagCount:          itemsBySerial[defSerial],
				Confidence:        confidence,
				MatchType:         MatchTypeFor(false, true),
				RecommendedAction: ActionFor(confidence),
			})
			matched++
			continue
		}

		// Weak heuristic: an exact equipment-name collision with some
		// tracked population. Recorded low-confidence rather than rejected.
		if popKey, ok := namePopulations[strings.ToLower(strings.TrimSpace(def.Name))]; ok && def.Name != "" {
			pop := populations[popKey]
			records = append(records, models.CorrelationRecord{
				RunID:             runID,
				NormalizedKey:     key,
				ItemNum:           def.ItemNum,
				EquipmentName:     def.Name,
				TrackedName:       pop.sampleName,
				TagCount:          pop.tagCount,
				Confidence:        ScoreHeuristic,
				MatchType:         models.MatchHeuristic,
				RecommendedAction: ActionFor(ScoreHeuristic),
			})
		}
	}

	if err := m.correlations.Replace(records); err != nil {
		return nil, err
	}

	summary := &RunSummary{
		RunID:              runID,
		EquipmentProcessed: len(defs),
		ItemsProcessed:     len(rows),
		Matched:            matched,
		Records:            len(records),
		Duration:           time.Since(start),
	}
	log.Printf("🔗 Correlation run %s: %d equipment, %d items, %d matched, %d records (%s)",
		runID, summary.EquipmentProcessed, summary.ItemsProcessed, summary.Matched, summary.Records, summary.Duration)
	return summary, nil
}
