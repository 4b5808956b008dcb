package utils

import (
	"context"
	"fmt"
	"khatabook/config"
	"khatabook/database"
	"khatabook/ledger"
	"khatabook/realtime"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

func logReconcile(message string) {
	log.Printf("[RECONCILE %s] %s", time.Now().Format(time.RFC3339), message)
}

// ReconcileAll repairs stored customer totals for every owner and returns the
// number of customers that had drifted.
func ReconcileAll(ctx context.Context, store *ledger.Store) (int, error) {
	owners, err := store.Owners(ctx)
	if err != nil {
		return 0, fmt.Errorf("list owners: %w", err)
	}

	repaired := 0
	for _, owner := range owners {
		drifts, err := store.Reconcile(ctx, owner)
		if err != nil {
			logReconcile(fmt.Sprintf("owner %d failed: %v", owner, err))
			continue
		}
		for _, d := range drifts {
			logReconcile(fmt.Sprintf("owner %d customer %d (%s) balance %s -> %s",
				owner, d.CustomerID, d.Name, d.Stored.Balance, d.Actual.Balance))
		}
		repaired += len(drifts)
	}
	return repaired, nil
}

// InitializeReconcileScheduler starts the nightly reconciliation job on the
// RECONCILE_CRON schedule. The returned cron can be stopped on shutdown.
func InitializeReconcileScheduler() (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(config.AppConfig.ReconcileCron, func() {
		logReconcile("Running ledger reconciliation...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		store := ledger.NewStore(database.Database.Db, realtime.Default)
		repaired, err := ReconcileAll(ctx, store)
		if err != nil {
			logReconcile("Error: " + err.Error())
			return
		}
		logReconcile(fmt.Sprintf("Done, %d customer(s) repaired", repaired))
	})
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_CRON %q: %w", config.AppConfig.ReconcileCron, err)
	}

	c.Start()
	logReconcile("Scheduler started with schedule " + config.AppConfig.ReconcileCron)
	return c, nil
}
