// Package insert writes a Dataset into its target table in fixed-size chunks.
//
// By default every chunk is its own transaction: a failed chunk is rolled back
// and recorded, the remaining chunks are still attempted, and the failures are
// returned together as a *rawload.InsertChunkError. In atomic mode the whole
// file shares one transaction and the first failure rolls everything back.
package insert
