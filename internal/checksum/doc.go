// Package checksum fingerprints source files.
//
// Two fingerprints are available:
//
//   - Raw: hash of the exact file content
//   - Normalized: hash after removing a UTF-8 BOM and converting CRLF to LF,
//     so the same export saved on different platforms has one identity
//
// Fingerprints are 128-bit XXH3 digests rendered as 32 hex characters.
//
// # Example Usage
//
//	calc := checksum.New()
//	sum := calc.CalculateRaw(content)
//	sum, err := calc.CalculateReader(f)
package checksum
