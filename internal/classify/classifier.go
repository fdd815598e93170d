package classify

import (
	"fmt"
	"log"
	"time"

	"github.com/xelth-com/rentrackgo/internal/models"
	"github.com/xelth-com/rentrackgo/internal/normalize"
	"github.com/xelth-com/rentrackgo/internal/repo"
)

// Classifier derives identifier categories for tracked items from the
// current correlation snapshot. Runs are deterministic: a second run on
// unchanged data produces zero new transitions. Batch size only bounds
// transaction size, it never changes the outcome.
type Classifier struct {
	items        repo.ItemRepository
	equipment    repo.EquipmentRepository
	correlations repo.CorrelationRepository
	transitions  repo.TransitionRepository
	quarantine   []string
	batchSize    int
}

// NewClassifier wires a classifier over the given repositories
func NewClassifier(store *repo.Store, quarantineCategories []string, batchSize int) *Classifier {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &Classifier{
		items:        store.Items,
		equipment:    store.Equipment,
		correlations: store.Correlations,
		transitions:  store.Transitions,
		quarantine:   quarantineCategories,
		batchSize:    batchSize,
	}
}

// RunSummary reports a classification run
type RunSummary struct {
	Processed int           `json:"processed"`
	Changed   int           `json:"changed"`
	Batches   int           `json:"batches"`
	Duration  time.Duration `json:"duration"`
}

// evidenceContext is the read-only snapshot a run derives categories from
type evidenceContext struct {
	corrKeys  map[string]bool
	defsByKey map[string]*models.EquipmentDefinition
}

func (c *Classifier) loadContext() (*evidenceContext, error) {
	defs, err := c.equipment.Active(c.quarantine)
	if err != nil {
		return nil, fmt.Errorf("failed to load active equipment: %w", err)
	}
	defsByKey := make(map[string]*models.EquipmentDefinition, len(defs))
	for i := range defs {
		key := normalize.Key(defs[i].ItemNum)
		if key != "" {
			defsByKey[key] = &defs[i]
		}
	}

	recs, err := c.correlations.All()
	if err != nil {
		return nil, fmt.Errorf("failed to load correlation snapshot: %w", err)
	}
	corrKeys := make(map[string]bool, len(recs))
	for _, rec := range recs {
		// Only key-based correlations are RFID evidence, and only when
		// the equipment behind them is still active.
		if rec.MatchType != models.MatchKeyOnly && rec.MatchType != models.MatchKeyAndSerial {
			continue
		}
		if _, ok := defsByKey[rec.NormalizedKey]; ok {
			corrKeys[rec.NormalizedKey] = true
		}
	}

	return &evidenceContext{corrKeys: corrKeys, defsByKey: defsByKey}, nil
}

func (c *Classifier) derive(ctx *evidenceContext, item *models.TrackedItem) (string, string) {
	class := normalize.Key(item.RentalClassNum)
	ev := Evidence{
		TagID:        item.TagID,
		SerialNumber: normalize.Key(item.SerialNumber),
		RentalClass:  class,
	}
	if class != "" {
		ev.HasCorrelation = ctx.corrKeys[class]
		if def, ok := ctx.defsByKey[class]; ok {
			ev.EquipmentKeyField = def.KeyField
			ev.EquipmentQuantity = def.Quantity
		}
	}
	return Derive(ev)
}

// RunFull reclassifies the whole item population in bounded batches.
// Categories are re-derived from current evidence only, so the result
// does not depend on prior state; transitions are appended only where
// the stored category actually changes.
func (c *Classifier) RunFull() (*RunSummary, error) {
	start := time.Now()

	ctx, err := c.loadContext()
	if err != nil {
		return nil, err
	}

	total, err := c.items.Count()
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{}
	for offset := 0; int64(offset) < total; offset += c.batchSize {
		batch, err := c.items.Batch(offset, c.batchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load item batch at %d: %w", offset, err)
		}
		if len(batch) == 0 {
			break
		}

		changes := make([]repo.CategoryChange, 0)
		for i := range batch {
			newType, reason := c.derive(ctx, &batch[i])
			summary.Processed++
			if newType != batch[i].IdentifierType {
				changes = append(changes, repo.CategoryChange{
					TagID:   batch[i].TagID,
					OldType: batch[i].IdentifierType,
					NewType: newType,
					Reason:  reason,
				})
			}
		}

		if err := c.items.ApplyCategoryChanges(changes); err != nil {
			return nil, fmt.Errorf("failed to apply batch at %d: %w", offset, err)
		}
		summary.Changed += len(changes)
		summary.Batches++
	}

	summary.Duration = time.Since(start)
	log.Printf("🏷️  Classification run: %d processed, %d changed, %d batches (%s)",
		summary.Processed, summary.Changed, summary.Batches, summary.Duration)
	return summary, nil
}

// RunIncremental reclassifies only items modified since the given time
func (c *Classifier) RunIncremental(since time.Time) (*RunSummary, error) {
	start := time.Now()

	ctx, err := c.loadContext()
	if err != nil {
		return nil, err
	}

	items, err := c.items.ModifiedSince(since)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{Processed: len(items), Batches: 1}
	changes := make([]repo.CategoryChange, 0)
	for i := range items {
		newType, reason := c.derive(ctx, &items[i])
		if newType != items[i].IdentifierType {
			changes = append(changes, repo.CategoryChange{
				TagID:   items[i].TagID,
				OldType: items[i].IdentifierType,
				NewType: newType,
				Reason:  reason,
			})
		}
	}

	if err := c.items.ApplyCategoryChanges(changes); err != nil {
		return nil, err
	}
	summary.Changed = len(changes)
	summary.Duration = time.Since(start)
	return summary, nil
}

// Override applies an explicit operator-requested transition with a
// reason, bypassing the rule evaluator but keeping the audit trail.
func (c *Classifier) Override(tag, newType, reason string) error {
	switch newType {
	case models.IdentifierRFID, models.IdentifierSticker, models.IdentifierBulk,
		models.IdentifierQR, models.IdentifierNone:
	default:
		return fmt.Errorf("unknown identifier category: %s", newType)
	}

	item, err := c.items.ByTag(tag)
	if err != nil {
		return err
	}
	if item.IdentifierType == newType {
		return nil
	}

	return c.items.ApplyCategoryChanges([]repo.CategoryChange{{
		TagID:   tag,
		OldType: item.IdentifierType,
		NewType: newType,
		Reason:  reason,
	}})
}

// History returns the full transition audit trail for a tag
func (c *Classifier) History(tag string) ([]models.IdentifierTransition, error) {
	return c.transitions.ForTag(tag)
}
