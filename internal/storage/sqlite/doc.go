// Package sqlite implements rawload.Session on an embedded SQLite database
// (modernc.org/sqlite, no cgo).
//
// SQLite has no CREATE SCHEMA. A schema namespace is a second database file
// attached under the schema name, so raw.visits in warehouse.db lives in
// warehouse.raw.db.
package sqlite
