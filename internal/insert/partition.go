package insert

import "github.com/vvka-141/rawload/pkg/rawload"

// Partition splits rows into consecutive chunks of chunkSize; the last may be smaller.
// Zero rows or a non-positive chunkSize yield no chunks.
func Partition(rows, chunkSize int) []rawload.InsertBatch {
	if rows <= 0 || chunkSize <= 0 {
		return nil
	}
	batches := make([]rawload.InsertBatch, 0, (rows+chunkSize-1)/chunkSize)
	for offset := 0; offset < rows; offset += chunkSize {
		batches = append(batches, rawload.InsertBatch{
			Index:  len(batches),
			Offset: offset,
			Rows:   min(chunkSize, rows-offset),
		})
	}
	return batches
}
