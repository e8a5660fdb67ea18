// Package services drives an extraction run: discovery, loading, type
// inference, table creation, chunked insertion and validation, one file at a
// time over a single database session.
package services
