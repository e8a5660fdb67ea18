// Package files groups the source-file handling of a load.
//
//   - filesystem: OS and in-memory file providers
//   - scanner: discovery of the files matching a pattern, with checksums
//   - loader: reading a delimited file into a rawload.Dataset
//
// # Usage
//
//	import (
//	    "github.com/vvka-141/rawload/internal/files/filesystem"
//	    "github.com/vvka-141/rawload/internal/files/scanner"
//	    "github.com/vvka-141/rawload/internal/files/loader"
//	)
//
//	fs := filesystem.NewOSFileSystem()
//	files, err := scanner.NewScannerWithFS(checksum.New(), fs).Discover("./data", "*.csv")
//
//	ds, err := loader.NewLoader(fs, rawload.DefaultMissingValues()).Load(files[0])
package files
