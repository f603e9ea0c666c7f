// Package database opens GORM connections and adapts tables to the importer.
//
// # Connect
//
// Connect selects a dialect from Config.Driver (mysql, postgres or sqlite),
// applies pool settings and pings the server before returning.
//
// # Schema Inspection
//
// GetTableColumns reports a table's columns using SHOW COLUMNS, the
// information schema or PRAGMA table_info depending on the dialect. Import
// profiles are checked against it before a run.
//
// # TableStore
//
// TableStore implements reconcile.Store on an arbitrary table using dynamic
// maps rather than models: rows are streamed through a cursor, single records
// are created and updated by attribute maps, and bulk inserts become one
// multi-row INSERT.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	store := database.NewTableStore(db)
//	columns, err := database.GetTableColumns(db, "items_base")
package database
