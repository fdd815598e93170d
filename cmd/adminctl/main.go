// adminctl runs engine operations from the command line, against the same
// database the API server uses. Useful for cron-driven runs and manual
// fixes when the server UI is unavailable.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xelth-com/rentrackgo/internal/classify"
	"github.com/xelth-com/rentrackgo/internal/config"
	"github.com/xelth-com/rentrackgo/internal/contracts"
	"github.com/xelth-com/rentrackgo/internal/correlate"
	"github.com/xelth-com/rentrackgo/internal/database"
	"github.com/xelth-com/rentrackgo/internal/repo"
)

type appCtx struct {
	cfg   *config.Config
	db    *database.DB
	store *repo.Store
}

func open() (*appCtx, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	return &appCtx{cfg: cfg, db: db, store: repo.NewStore(db)}, nil
}

func main() {
	root := &cobra.Command{
		Use:   "adminctl",
		Short: "Operator commands for the identity correlation engine",
	}

	var since string
	classifyCmd := &cobra.Command{
		Use:   "classify",
		Short: "Re-derive identifier categories for tracked items",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := open()
			if err != nil {
				return err
			}
			defer app.db.Close()

			c := classify.NewClassifier(app.store, app.cfg.Engine.QuarantineCategories, app.cfg.Engine.BatchSize)

			if since != "" {
				t, err := time.Parse(time.RFC3339, since)
				if err != nil {
					return fmt.Errorf("invalid --since value: %w", err)
				}
				summary, err := c.RunIncremental(t)
				if err != nil {
					return err
				}
				fmt.Printf("processed=%d changed=%d\n", summary.Processed, summary.Changed)
				return nil
			}

			summary, err := c.RunFull()
			if err != nil {
				return err
			}
			fmt.Printf("processed=%d changed=%d batches=%d\n", summary.Processed, summary.Changed, summary.Batches)
			return nil
		},
	}
	classifyCmd.Flags().StringVar(&since, "since", "", "only reclassify items modified since this RFC3339 time")

	correlateCmd := &cobra.Command{
		Use:   "correlate",
		Short: "Rebuild the POS-to-tracking correlation snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := open()
			if err != nil {
				return err
			}
			defer app.db.Close()

			m := correlate.NewMatcher(app.store, app.cfg.Engine.QuarantineCategories)
			summary, err := m.Run()
			if err != nil {
				return err
			}
			fmt.Printf("equipment=%d items=%d matched=%d records=%d\n",
				summary.EquipmentProcessed, summary.ItemsProcessed, summary.Matched, summary.Records)
			return nil
		},
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print the correlation review queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := open()
			if err != nil {
				return err
			}
			defer app.db.Close()

			records, err := app.store.Correlations.BelowConfidence(correlate.ThresholdAutoMerge)
			if err != nil {
				return err
			}
			for _, rec := range records {
				fmt.Printf("%-16s %.2f %-14s pos=%q tracked=%q tags=%d\n",
					rec.NormalizedKey, rec.Confidence, rec.RecommendedAction,
					rec.EquipmentName, rec.TrackedName, rec.TagCount)
			}
			fmt.Printf("%d records pending review\n", len(records))
			return nil
		},
	}

	mergeCmd := &cobra.Command{
		Use:   "merge-contract <temp-id> <contract-num>",
		Short: "Fold a provisional contract into its canonical POS number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := open()
			if err != nil {
				return err
			}
			defer app.db.Close()

			merged, err := contracts.NewReconciler(app.db).MergeWithPOS(args[0], args[1])
			if err != nil {
				return err
			}
			when := ""
			if merged.MergedAt != nil {
				when = merged.MergedAt.Format(time.RFC3339)
			}
			fmt.Printf("merged %s into %s at %s\n", args[0], merged.ContractNum, when)
			return nil
		},
	}

	overrideCmd := &cobra.Command{
		Use:   "override <tag> <category> <reason>",
		Short: "Force an item's identifier category with an audit reason",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := open()
			if err != nil {
				return err
			}
			defer app.db.Close()

			c := classify.NewClassifier(app.store, app.cfg.Engine.QuarantineCategories, app.cfg.Engine.BatchSize)
			if err := c.Override(args[0], args[1], args[2]); err != nil {
				return err
			}
			fmt.Printf("%s -> %s\n", args[0], args[1])
			return nil
		},
	}

	root.AddCommand(classifyCmd, correlateCmd, reportCmd, mergeCmd, overrideCmd)

	if err := root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
