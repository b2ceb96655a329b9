package script

import (
	"sync"

	"github.com/shapestone/shape-linescan/pkg/linescan"
)

// scannerPool recycles Scanners between ForEachLine and ScanFile calls.
var scannerPool = sync.Pool{
	New: func() interface{} {
		return new(linescan.Scanner)
	},
}

// getScanner gets a Scanner from the pool with its options reset.
func getScanner(escape bool) *linescan.Scanner {
	s := scannerPool.Get().(*linescan.Scanner)
	s.Escape = escape
	s.Label = ""
	return s
}

// putScanner returns s to the pool. The data is dropped so the pool never
// keeps a mapped file or a large script alive.
func putScanner(s *linescan.Scanner) {
	s.Assign(nil)
	scannerPool.Put(s)
}
