// Package database handles database connections.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly
// configure MySQL connections based on the application's configuration. A sqlite
// driver is supported for local runs and tests, where the Name field is treated
// as the database file path (":memory:" works).
//
// # Connect
//
// The generic Connect function establishes a connection to the database. It is
// agnostic to the tables layered on top; the knownset package migrates its own
// schema when it is constructed over a connection.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
