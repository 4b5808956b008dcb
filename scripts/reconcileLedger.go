package main

import (
	"context"
	"flag"
	"khatabook/config"
	"khatabook/database"
	"khatabook/ledger"
	"khatabook/utils"
	"log"
	"time"
)

// One-off repair of stored customer totals, outside the nightly schedule.
//
//	go run ./scripts -owner 12
func main() {
	owner := flag.Uint("owner", 0, "only reconcile this user id (0 = every owner)")
	flag.Parse()

	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	// Events are not published: no subscribers live in this process
	store := ledger.NewStore(database.Database.Db, nil)

	if *owner == 0 {
		repaired, err := utils.ReconcileAll(ctx, store)
		if err != nil {
			log.Fatalf("Reconciliation failed: %v", err)
		}
		log.Printf("Reconciliation complete: %d customer(s) repaired", repaired)
		return
	}

	drifts, err := store.Reconcile(ctx, uint(*owner))
	if err != nil {
		log.Fatalf("Reconciliation of user %d failed: %v", *owner, err)
	}
	for _, d := range drifts {
		log.Printf("Customer %d (%s): credit %s -> %s, debit %s -> %s",
			d.CustomerID, d.Name, d.Stored.Credit, d.Actual.Credit, d.Stored.Debit, d.Actual.Debit)
	}
	log.Printf("Reconciliation complete: %d customer(s) repaired", len(drifts))
}
