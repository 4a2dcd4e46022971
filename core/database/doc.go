// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to properly configure MySQL
// connections for the ledger cell store.
//
// # Connect
//
// The Connect function establishes a connection to the database with
// pooled connections, DSN-level timeouts, and an initial ping.
//
// # Schema Inspection
//
// VerifyTable checks that the ledger cell table exists and carries the
// expected columns before a reconcile run starts, so a misconfigured or
// missing sheet surfaces as a single up-front error rather than a
// failure halfway through a run.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	err = database.VerifyTable(db, "ledger_cells", []string{"sheet", "row", "col", "value"})
package database
